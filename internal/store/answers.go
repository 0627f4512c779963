package store

import (
	"context"

	"github.com/Debanjan110d/DevQnA/internal/models"
)

const answersWhat = "answer"

type AnswerQuery struct {
	QuestionID string
	AuthorID   string
	Page       Page
}

func (s *Store) CreateAnswer(ctx context.Context, a *models.Answer) error {
	if a.ID == "" {
		a.ID = newID()
	}
	return createDocument(ctx, s, answersWhat, a)
}

func (s *Store) GetAnswer(ctx context.Context, id string) (*models.Answer, error) {
	return getDocument[models.Answer](ctx, s, answersWhat, id)
}

func (s *Store) UpdateAnswerContent(ctx context.Context, id, content string) (*models.Answer, error) {
	return updateDocument[models.Answer](ctx, s, answersWhat, id, map[string]any{"content": content})
}

func (s *Store) DeleteAnswer(ctx context.Context, id string) error {
	return deleteDocument[models.Answer](ctx, s, answersWhat, id)
}

func (s *Store) ListAnswers(ctx context.Context, q AnswerQuery) (List[models.Answer], error) {
	var filters []Filter
	if q.QuestionID != "" {
		filters = append(filters, Equal("question_id", q.QuestionID))
	}
	if q.AuthorID != "" {
		filters = append(filters, Equal("author_id", q.AuthorID))
	}
	return listDocuments[models.Answer](ctx, s, answersWhat, filters, q.Page, "created_at desc")
}

// AuthorOf resolves the author of the question or answer identified by id.
func (s *Store) AuthorOf(ctx context.Context, typ models.ContentType, id string) (string, error) {
	switch typ {
	case models.TypeQuestion:
		q, err := s.GetQuestion(ctx, id)
		if err != nil {
			return "", err
		}
		return q.AuthorID, nil
	case models.TypeAnswer:
		a, err := s.GetAnswer(ctx, id)
		if err != nil {
			return "", err
		}
		return a.AuthorID, nil
	default:
		return "", Invalid("unknown content type " + string(typ))
	}
}

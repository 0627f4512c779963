package store

import (
	"context"

	"github.com/lib/pq"

	"github.com/Debanjan110d/DevQnA/internal/models"
)

const questionsWhat = "question"

// QuestionQuery filters ListQuestions. Empty fields do not filter.
type QuestionQuery struct {
	AuthorID string
	Tag      string
	Search   string
	Page     Page
}

// QuestionUpdate holds the editable question fields. Nil means unchanged.
type QuestionUpdate struct {
	Title   *string
	Content *string
	Tags    []string
}

func (s *Store) CreateQuestion(ctx context.Context, q *models.Question) error {
	if q.ID == "" {
		q.ID = newID()
	}
	return createDocument(ctx, s, questionsWhat, q)
}

func (s *Store) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	return getDocument[models.Question](ctx, s, questionsWhat, id)
}

func (s *Store) UpdateQuestion(ctx context.Context, id string, upd QuestionUpdate) (*models.Question, error) {
	fields := map[string]any{}
	if upd.Title != nil {
		fields["title"] = *upd.Title
	}
	if upd.Content != nil {
		fields["content"] = *upd.Content
	}
	if upd.Tags != nil {
		fields["tags"] = pq.StringArray(upd.Tags)
	}
	return updateDocument[models.Question](ctx, s, questionsWhat, id, fields)
}

func (s *Store) DeleteQuestion(ctx context.Context, id string) error {
	return deleteDocument[models.Question](ctx, s, questionsWhat, id)
}

func (s *Store) ListQuestions(ctx context.Context, q QuestionQuery) (List[models.Question], error) {
	var filters []Filter
	if q.AuthorID != "" {
		filters = append(filters, Equal("author_id", q.AuthorID))
	}
	if q.Tag != "" {
		filters = append(filters, Contains("tags", q.Tag))
	}
	if q.Search != "" {
		filters = append(filters, Search("title", q.Search))
	}
	return listDocuments[models.Question](ctx, s, questionsWhat, filters, q.Page, "created_at desc")
}

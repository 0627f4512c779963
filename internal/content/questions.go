package content

import (
	"context"

	"go.uber.org/zap"

	"github.com/Debanjan110d/DevQnA/internal/models"
	"github.com/Debanjan110d/DevQnA/internal/store"
)

type QuestionStore interface {
	CreateQuestion(ctx context.Context, q *models.Question) error
	GetQuestion(ctx context.Context, id string) (*models.Question, error)
	UpdateQuestion(ctx context.Context, id string, upd store.QuestionUpdate) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id string) error
	ListQuestions(ctx context.Context, q store.QuestionQuery) (store.List[models.Question], error)
}

type Questions struct {
	questions QuestionStore
	ledger    Ledger
	delta     int
	logger    *zap.Logger
}

func NewQuestions(questions QuestionStore, ledger Ledger, policy Policy, logger *zap.Logger) *Questions {
	return &Questions{
		questions: questions,
		ledger:    ledger,
		delta:     policy.QuestionDelta,
		logger:    logger.Named("questions"),
	}
}

func (s *Questions) Create(ctx context.Context, q *models.Question) error {
	if err := required(map[string]string{"title": q.Title, "content": q.Content, "authorId": q.AuthorID}); err != nil {
		return err
	}
	if err := s.questions.CreateQuestion(ctx, q); err != nil {
		return err
	}

	s.ledger.ApplyDelta(ctx, q.AuthorID, s.delta)
	return nil
}

func (s *Questions) Get(ctx context.Context, id string) (*models.Question, error) {
	return s.questions.GetQuestion(ctx, id)
}

// Update edits title, content and tags. Only the author may edit.
func (s *Questions) Update(ctx context.Context, id, editorID string, upd store.QuestionUpdate) (*models.Question, error) {
	q, err := s.questions.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireAuthor(q.AuthorID, editorID, "question"); err != nil {
		return nil, err
	}
	if upd.Title != nil && *upd.Title == "" {
		return nil, store.Invalid("title cannot be empty")
	}
	if upd.Content != nil && *upd.Content == "" {
		return nil, store.Invalid("content cannot be empty")
	}
	return s.questions.UpdateQuestion(ctx, id, upd)
}

func (s *Questions) Delete(ctx context.Context, id, editorID string) error {
	q, err := s.questions.GetQuestion(ctx, id)
	if err != nil {
		return err
	}
	if err := requireAuthor(q.AuthorID, editorID, "question"); err != nil {
		return err
	}
	if err := s.questions.DeleteQuestion(ctx, id); err != nil {
		return err
	}

	s.ledger.ApplyDelta(ctx, q.AuthorID, -s.delta)
	return nil
}

func (s *Questions) List(ctx context.Context, q store.QuestionQuery) (store.List[models.Question], error) {
	return s.questions.ListQuestions(ctx, q)
}

package content

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Debanjan110d/DevQnA/internal/models"
	"github.com/Debanjan110d/DevQnA/internal/store"
)

type AnswerStore interface {
	CreateAnswer(ctx context.Context, a *models.Answer) error
	GetAnswer(ctx context.Context, id string) (*models.Answer, error)
	UpdateAnswerContent(ctx context.Context, id, content string) (*models.Answer, error)
	DeleteAnswer(ctx context.Context, id string) error
	ListAnswers(ctx context.Context, q store.AnswerQuery) (store.List[models.Answer], error)
}

type QuestionGetter interface {
	GetQuestion(ctx context.Context, id string) (*models.Question, error)
}

type Answers struct {
	answers   AnswerStore
	questions QuestionGetter
	ledger    Ledger
	delta     int
	logger    *zap.Logger
}

func NewAnswers(answers AnswerStore, questions QuestionGetter, ledger Ledger, policy Policy, logger *zap.Logger) *Answers {
	return &Answers{
		answers:   answers,
		questions: questions,
		ledger:    ledger,
		delta:     policy.AnswerDelta,
		logger:    logger.Named("answers"),
	}
}

func checkAnswerContent(content string) error {
	if utf8.RuneCountInString(strings.TrimSpace(content)) < models.MinAnswerLength {
		return store.Invalid(fmt.Sprintf("answer must be at least %d characters", models.MinAnswerLength))
	}
	return nil
}

// Create stores a new answer on an existing question and credits its author.
func (s *Answers) Create(ctx context.Context, questionID, content, authorID string) (*models.Answer, error) {
	if err := required(map[string]string{"questionId": questionID, "content": content, "authorId": authorID}); err != nil {
		return nil, err
	}
	if err := checkAnswerContent(content); err != nil {
		return nil, err
	}
	if _, err := s.questions.GetQuestion(ctx, questionID); err != nil {
		return nil, err
	}

	answer := &models.Answer{
		Content:    content,
		AuthorID:   authorID,
		QuestionID: questionID,
	}
	if err := s.answers.CreateAnswer(ctx, answer); err != nil {
		return nil, err
	}

	s.ledger.ApplyDelta(ctx, authorID, s.delta)
	return answer, nil
}

// Delete removes an answer and takes back its author's credit. The stored
// author wins; fallbackAuthorID is used only when the stored one is empty.
func (s *Answers) Delete(ctx context.Context, answerID, fallbackAuthorID string) error {
	if err := required(map[string]string{"answerId": answerID}); err != nil {
		return err
	}

	answer, err := s.answers.GetAnswer(ctx, answerID)
	if err != nil {
		return err
	}

	authorID := answer.AuthorID
	if authorID == "" {
		authorID = fallbackAuthorID
	} else if fallbackAuthorID != "" && fallbackAuthorID != authorID {
		s.logger.Warn("Delete request named a different author, using stored author",
			zap.String("answerId", answerID),
			zap.String("storedAuthorId", authorID),
			zap.String("requestAuthorId", fallbackAuthorID))
	}

	if err := s.answers.DeleteAnswer(ctx, answerID); err != nil {
		return err
	}

	s.ledger.ApplyDelta(ctx, authorID, -s.delta)
	return nil
}

// Update replaces the content of an answer. Only its author may edit it.
func (s *Answers) Update(ctx context.Context, answerID, content, editorID string) (*models.Answer, error) {
	if err := checkAnswerContent(content); err != nil {
		return nil, err
	}
	answer, err := s.answers.GetAnswer(ctx, answerID)
	if err != nil {
		return nil, err
	}
	if err := requireAuthor(answer.AuthorID, editorID, "answer"); err != nil {
		return nil, err
	}
	return s.answers.UpdateAnswerContent(ctx, answerID, content)
}

func (s *Answers) Get(ctx context.Context, answerID string) (*models.Answer, error) {
	return s.answers.GetAnswer(ctx, answerID)
}

func (s *Answers) List(ctx context.Context, q store.AnswerQuery) (store.List[models.Answer], error) {
	return s.answers.ListAnswers(ctx, q)
}

package setup

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Debanjan110d/DevQnA/internal/models"
	"github.com/Debanjan110d/DevQnA/internal/store"
)

const backfillPageSize = 100

// ProfileStore is what the profile backfill reads and writes.
type ProfileStore interface {
	ListQuestions(ctx context.Context, q store.QuestionQuery) (store.List[models.Question], error)
	ListAnswers(ctx context.Context, q store.AnswerQuery) (store.List[models.Answer], error)
	FindProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	CreateProfile(ctx context.Context, p *models.UserProfile) error
	GetAccount(ctx context.Context, id string) (*models.Account, error)
}

// BackfillSummary counts what a backfill run did.
type BackfillSummary struct {
	Authors int
	Created int
	Skipped int
	Failed  int
}

// BackfillProfiles creates a profile for every question or answer author
// that has none. Authors with an account get its name, email and
// reputation; the rest get a placeholder.
func BackfillProfiles(ctx context.Context, s ProfileStore, logger *zap.Logger) (BackfillSummary, error) {
	logger = logger.Named("backfill")

	authors, err := collectAuthors(ctx, s)
	if err != nil {
		return BackfillSummary{}, err
	}

	summary := BackfillSummary{Authors: len(authors)}
	for _, authorID := range authors {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		_, err := s.FindProfile(ctx, authorID)
		switch {
		case err == nil:
			summary.Skipped++
			continue
		case !errors.Is(err, store.ErrNotFound):
			summary.Failed++
			logger.Warn("Failed to look up profile", zap.String("user_id", authorID), zap.Error(err))
			continue
		}

		p := placeholderProfile(ctx, s, authorID)
		if err := s.CreateProfile(ctx, p); err != nil {
			summary.Failed++
			logger.Warn("Failed to create profile", zap.String("user_id", authorID), zap.Error(err))
			continue
		}
		summary.Created++
		logger.Info("Created profile", zap.String("user_id", authorID), zap.String("name", p.Name))
	}

	logger.Info("Profile backfill complete",
		zap.Int("authors", summary.Authors),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

// collectAuthors returns the distinct authors of all questions and answers in
// first-seen order.
func collectAuthors(ctx context.Context, s ProfileStore) ([]string, error) {
	seen := make(map[string]struct{})
	var authors []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		authors = append(authors, id)
	}

	for offset := 0; ; offset += backfillPageSize {
		page := store.Page{Limit: backfillPageSize, Offset: offset}
		list, err := s.ListQuestions(ctx, store.QuestionQuery{Page: page})
		if err != nil {
			return nil, fmt.Errorf("failed to list questions: %w", err)
		}
		for _, q := range list.Documents {
			add(q.AuthorID)
		}
		if len(list.Documents) < backfillPageSize {
			break
		}
	}

	for offset := 0; ; offset += backfillPageSize {
		page := store.Page{Limit: backfillPageSize, Offset: offset}
		list, err := s.ListAnswers(ctx, store.AnswerQuery{Page: page})
		if err != nil {
			return nil, fmt.Errorf("failed to list answers: %w", err)
		}
		for _, a := range list.Documents {
			add(a.AuthorID)
		}
		if len(list.Documents) < backfillPageSize {
			break
		}
	}

	return authors, nil
}

func placeholderProfile(ctx context.Context, s ProfileStore, userID string) *models.UserProfile {
	if account, err := s.GetAccount(ctx, userID); err == nil {
		prefs := account.Prefs.Data()
		return &models.UserProfile{
			UserID:     userID,
			Name:       account.Name,
			Email:      account.Email,
			Avatar:     prefs.Avatar,
			Reputation: prefs.Reputation,
		}
	}

	short := userID
	if len(short) > 6 {
		short = short[:6]
	}
	return &models.UserProfile{
		UserID: userID,
		Name:   "User#" + short,
		Email:  fmt.Sprintf("user-%s@placeholder.local", userID),
	}
}

// Package reputation keeps an author's reputation score in step across the
// account preference blob and the denormalized user profile.
package reputation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Debanjan110d/DevQnA/internal/lock"
	"github.com/Debanjan110d/DevQnA/internal/models"
	"github.com/Debanjan110d/DevQnA/internal/store"
)

type PreferenceStore interface {
	GetPrefs(ctx context.Context, userID string) (models.Prefs, error)
	UpdatePrefs(ctx context.Context, userID string, prefs models.Prefs) error
}

type ProfileStore interface {
	FindProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	SetProfileReputation(ctx context.Context, id string, reputation int) error
}

// Ledger applies reputation deltas on a best-effort basis. Each location is
// updated independently and failures are logged, never returned.
type Ledger struct {
	prefs    PreferenceStore
	profiles ProfileStore
	locker   lock.Locker
	logger   *zap.Logger
}

func NewLedger(prefs PreferenceStore, profiles ProfileStore, locker lock.Locker, logger *zap.Logger) *Ledger {
	if locker == nil {
		locker = lock.Noop{}
	}
	return &Ledger{
		prefs:    prefs,
		profiles: profiles,
		locker:   locker,
		logger:   logger.Named("reputation"),
	}
}

// ApplyDelta adds delta to the author's reputation in both locations.
func (l *Ledger) ApplyDelta(ctx context.Context, authorID string, delta int) {
	if delta == 0 || authorID == "" {
		return
	}

	release := l.lock(ctx, authorID)
	defer release()

	l.applyToPrefs(ctx, authorID, delta)
	l.applyToProfile(ctx, authorID, delta)
}

// SetAvatar rewrites the avatar in the user's prefs. It holds the same lock as
// ApplyDelta since both replace the whole prefs document.
func (l *Ledger) SetAvatar(ctx context.Context, userID, avatar string) error {
	release := l.lock(ctx, userID)
	defer release()

	prefs, err := l.prefs.GetPrefs(ctx, userID)
	if err != nil {
		return fmt.Errorf("read prefs: %w", err)
	}
	prefs.Avatar = avatar
	if err := l.prefs.UpdatePrefs(ctx, userID, prefs); err != nil {
		return fmt.Errorf("update prefs: %w", err)
	}
	return nil
}

// lock serializes prefs writes for one user. When the lock is unavailable the
// caller proceeds without it.
func (l *Ledger) lock(ctx context.Context, userID string) func() {
	release, err := l.locker.Lock(ctx, "reputation:"+userID)
	if err != nil {
		l.logger.Warn("Updating prefs without lock",
			zap.String("userId", userID),
			zap.Error(err))
		return func() {}
	}
	return release
}

func (l *Ledger) applyToPrefs(ctx context.Context, authorID string, delta int) {
	prefs, err := l.prefs.GetPrefs(ctx, authorID)
	if err != nil {
		l.logger.Error("Error reading user prefs",
			zap.String("authorId", authorID),
			zap.Int("delta", delta),
			zap.Error(err))
		return
	}

	prefs.Reputation += delta
	if err := l.prefs.UpdatePrefs(ctx, authorID, prefs); err != nil {
		l.logger.Error("Error updating user prefs",
			zap.String("authorId", authorID),
			zap.Int("delta", delta),
			zap.Error(err))
	}
}

func (l *Ledger) applyToProfile(ctx context.Context, authorID string, delta int) {
	profile, err := l.profiles.FindProfile(ctx, authorID)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		l.logger.Error("Error reading user profile",
			zap.String("authorId", authorID),
			zap.Int("delta", delta),
			zap.Error(err))
		return
	}

	if err := l.profiles.SetProfileReputation(ctx, profile.ID, profile.Reputation+delta); err != nil {
		l.logger.Error("Error updating users collection",
			zap.String("authorId", authorID),
			zap.Int("delta", delta),
			zap.Error(err))
	}
}

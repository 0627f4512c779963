package store

import (
	"context"
	"strings"

	"gorm.io/datatypes"

	"github.com/Debanjan110d/DevQnA/internal/models"
)

const accountsWhat = "account"

func (s *Store) CreateAccount(ctx context.Context, a *models.Account) error {
	if a.ID == "" {
		a.ID = newID()
	}
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	return createDocument(ctx, s, accountsWhat, a)
}

func (s *Store) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return getDocument[models.Account](ctx, s, accountsWhat, id)
}

func (s *Store) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	err := s.db.WithContext(ctx).
		Where(Equal("email", strings.ToLower(strings.TrimSpace(email)))).
		First(&a).Error
	if err != nil {
		return nil, translate(err, accountsWhat)
	}
	if err := s.check(accountsWhat, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetPrefs returns the preference blob of an account. Missing keys read as
// their zero value.
func (s *Store) GetPrefs(ctx context.Context, userID string) (models.Prefs, error) {
	a, err := s.GetAccount(ctx, userID)
	if err != nil {
		return models.Prefs{}, err
	}
	return a.Prefs.Data(), nil
}

// UpdatePrefs replaces the preference blob of an account.
func (s *Store) UpdatePrefs(ctx context.Context, userID string, prefs models.Prefs) error {
	_, err := updateDocument[models.Account](ctx, s, accountsWhat, userID, map[string]any{
		"prefs": datatypes.NewJSONType(prefs),
	})
	return err
}

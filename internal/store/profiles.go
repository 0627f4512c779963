package store

import (
	"context"

	"github.com/Debanjan110d/DevQnA/internal/models"
)

const profilesWhat = "user profile"

// ProfileUpdate holds the editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Name   *string
	Bio    *string
	Avatar *string
}

func (s *Store) CreateProfile(ctx context.Context, p *models.UserProfile) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return createDocument(ctx, s, profilesWhat, p)
}

// FindProfile looks up the profile mirroring the given account. It returns an
// ErrNotFound error when the account has no profile.
func (s *Store) FindProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	list, err := listDocuments[models.UserProfile](ctx, s, profilesWhat, []Filter{Equal("user_id", userID)}, Page{Limit: 1}, "")
	if err != nil {
		return nil, err
	}
	if len(list.Documents) == 0 {
		return nil, NotFound(profilesWhat)
	}
	return &list.Documents[0], nil
}

func (s *Store) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*models.UserProfile, error) {
	fields := map[string]any{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Bio != nil {
		fields["bio"] = *upd.Bio
	}
	if upd.Avatar != nil {
		fields["avatar"] = *upd.Avatar
	}
	return updateDocument[models.UserProfile](ctx, s, profilesWhat, id, fields)
}

func (s *Store) SetProfileReputation(ctx context.Context, id string, reputation int) error {
	_, err := updateDocument[models.UserProfile](ctx, s, profilesWhat, id, map[string]any{"reputation": reputation})
	return err
}

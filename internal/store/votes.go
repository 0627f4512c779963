package store

import (
	"context"

	"github.com/Debanjan110d/DevQnA/internal/models"
)

const votesWhat = "vote"

// ListVotes returns the votes one voter cast on one item. The reconciler keeps
// this at zero or one document.
func (s *Store) ListVotes(ctx context.Context, typ models.ContentType, typeID, votedByID string) ([]models.Vote, error) {
	list, err := listDocuments[models.Vote](ctx, s, votesWhat, []Filter{
		Equal("type", typ),
		Equal("type_id", typeID),
		Equal("voted_by_id", votedByID),
	}, Page{Limit: MaxLimit}, "created_at asc")
	if err != nil {
		return nil, err
	}
	return list.Documents, nil
}

func (s *Store) CreateVote(ctx context.Context, v *models.Vote) error {
	if v.ID == "" {
		v.ID = newID()
	}
	return createDocument(ctx, s, votesWhat, v)
}

func (s *Store) UpdateVoteStatus(ctx context.Context, id string, status models.VoteStatus) (*models.Vote, error) {
	return updateDocument[models.Vote](ctx, s, votesWhat, id, map[string]any{"vote_status": status})
}

func (s *Store) DeleteVote(ctx context.Context, id string) error {
	return deleteDocument[models.Vote](ctx, s, votesWhat, id)
}

// CountVotes counts every vote in the given direction on one item, across
// all voters.
func (s *Store) CountVotes(ctx context.Context, typ models.ContentType, typeID string, status models.VoteStatus) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Where(Equal("type", typ)).
		Where(Equal("type_id", typeID)).
		Where(Equal("vote_status", status)).
		Count(&n).Error
	return n, translate(err, votesWhat)
}

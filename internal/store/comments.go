package store

import (
	"context"

	"github.com/Debanjan110d/DevQnA/internal/models"
)

const commentsWhat = "comment"

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return createDocument(ctx, s, commentsWhat, c)
}

func (s *Store) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	return getDocument[models.Comment](ctx, s, commentsWhat, id)
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	return deleteDocument[models.Comment](ctx, s, commentsWhat, id)
}

func (s *Store) ListComments(ctx context.Context, typ models.ContentType, typeID string, page Page) (List[models.Comment], error) {
	return listDocuments[models.Comment](ctx, s, commentsWhat, []Filter{
		Equal("type", typ),
		Equal("type_id", typeID),
	}, page, "created_at asc")
}

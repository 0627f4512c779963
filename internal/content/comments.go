package content

import (
	"context"

	"go.uber.org/zap"

	"github.com/Debanjan110d/DevQnA/internal/models"
	"github.com/Debanjan110d/DevQnA/internal/store"
)

type CommentStore interface {
	CreateComment(ctx context.Context, c *models.Comment) error
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	ListComments(ctx context.Context, typ models.ContentType, typeID string, page store.Page) (store.List[models.Comment], error)
}

type TargetResolver interface {
	AuthorOf(ctx context.Context, typ models.ContentType, id string) (string, error)
}

// Comments carry no reputation.
type Comments struct {
	comments CommentStore
	targets  TargetResolver
	logger   *zap.Logger
}

func NewComments(comments CommentStore, targets TargetResolver, logger *zap.Logger) *Comments {
	return &Comments{
		comments: comments,
		targets:  targets,
		logger:   logger.Named("comments"),
	}
}

func (s *Comments) Create(ctx context.Context, c *models.Comment) error {
	if err := required(map[string]string{"content": c.Content, "authorId": c.AuthorID, "typeId": c.TypeID}); err != nil {
		return err
	}
	if !c.Type.Valid() {
		return store.Invalid("invalid type " + string(c.Type))
	}
	if _, err := s.targets.AuthorOf(ctx, c.Type, c.TypeID); err != nil {
		return err
	}
	return s.comments.CreateComment(ctx, c)
}

func (s *Comments) List(ctx context.Context, typ models.ContentType, typeID string, page store.Page) (store.List[models.Comment], error) {
	if !typ.Valid() {
		return store.List[models.Comment]{}, store.Invalid("invalid type " + string(typ))
	}
	return s.comments.ListComments(ctx, typ, typeID, page)
}

func (s *Comments) Delete(ctx context.Context, id, editorID string) error {
	c, err := s.comments.GetComment(ctx, id)
	if err != nil {
		return err
	}
	if err := requireAuthor(c.AuthorID, editorID, "comment"); err != nil {
		return err
	}
	return s.comments.DeleteComment(ctx, id)
}

package content_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Debanjan110d/DevQnA/internal/content"
	"github.com/Debanjan110d/DevQnA/internal/models"
	"github.com/Debanjan110d/DevQnA/internal/store"
	"github.com/Debanjan110d/DevQnA/internal/store/storetest"
)

func TestComments(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := storetest.NewMemory()
	q := seedQuestion(t, mem, "asker")
	comments := content.NewComments(mem, mem, zap.NewNop())

	first := &models.Comment{Content: "Which Go version?", AuthorID: "alice", Type: models.TypeQuestion, TypeID: q.ID}
	second := &models.Comment{Content: "1.22 and later.", AuthorID: "asker", Type: models.TypeQuestion, TypeID: q.ID}
	require.NoError(t, comments.Create(ctx, first))
	require.NoError(t, comments.Create(ctx, second))

	list, err := comments.List(ctx, models.TypeQuestion, q.ID, store.Page{})
	require.NoError(t, err)
	require.Len(t, list.Documents, 2)
	assert.Equal(t, first.ID, list.Documents[0].ID, "oldest first")

	err = comments.Delete(ctx, first.ID, "asker")
	require.ErrorIs(t, err, store.ErrForbidden)

	require.NoError(t, comments.Delete(ctx, first.ID, "alice"))
	list, err = comments.List(ctx, models.TypeQuestion, q.ID, store.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)
}

func TestCreateCommentValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		comment models.Comment
		wantErr error
	}{
		{name: "missing content", comment: models.Comment{AuthorID: "a", Type: models.TypeAnswer, TypeID: "x"}, wantErr: store.ErrInvalid},
		{name: "bad type", comment: models.Comment{Content: "hi", AuthorID: "a", Type: "vote", TypeID: "x"}, wantErr: store.ErrInvalid},
		{name: "missing target", comment: models.Comment{Content: "hi", AuthorID: "a", Type: models.TypeAnswer, TypeID: "x"}, wantErr: store.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mem := storetest.NewMemory()
			comments := content.NewComments(mem, mem, zap.NewNop())

			c := tt.comment
			require.ErrorIs(t, comments.Create(context.Background(), &c), tt.wantErr)
		})
	}
}

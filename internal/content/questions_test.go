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

func ptr[T any](v T) *T { return &v }

func TestQuestionsDefaultPolicyLeavesReputation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := storetest.NewMemory()
	ledger := &recordingLedger{}
	questions := content.NewQuestions(mem, ledger, content.DefaultPolicy(), zap.NewNop())

	q := &models.Question{Title: "Context cancellation", Content: "When should I cancel?", AuthorID: "author"}
	require.NoError(t, questions.Create(ctx, q))
	require.NoError(t, questions.Delete(ctx, q.ID, "author"))

	for _, d := range ledger.deltas {
		assert.Zero(t, d.delta)
	}
}

func TestQuestionsPolicyDelta(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := storetest.NewMemory()
	ledger := &recordingLedger{}
	questions := content.NewQuestions(mem, ledger, content.Policy{QuestionDelta: 2}, zap.NewNop())

	q := &models.Question{Title: "Context cancellation", Content: "When should I cancel?", AuthorID: "author"}
	require.NoError(t, questions.Create(ctx, q))
	require.NoError(t, questions.Delete(ctx, q.ID, "author"))

	assert.Equal(t, []delta{{"author", 2}, {"author", -2}}, ledger.deltas)
}

func TestCreateQuestionRequiresFields(t *testing.T) {
	t.Parallel()
	questions := content.NewQuestions(storetest.NewMemory(), &recordingLedger{}, content.DefaultPolicy(), zap.NewNop())

	err := questions.Create(context.Background(), &models.Question{Content: "body", AuthorID: "author"})
	require.ErrorIs(t, err, store.ErrInvalid)
	assert.Contains(t, err.Error(), "title")
}

func TestUpdateQuestion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		editorID string
		upd      store.QuestionUpdate
		wantErr  error
	}{
		{name: "author edits title", editorID: "author", upd: store.QuestionUpdate{Title: ptr("Context cancellation in Go")}},
		{name: "author edits tags", editorID: "author", upd: store.QuestionUpdate{Tags: []string{"go", "context"}}},
		{name: "other user", editorID: "intruder", upd: store.QuestionUpdate{Title: ptr("Hijacked")}, wantErr: store.ErrForbidden},
		{name: "anonymous", upd: store.QuestionUpdate{Title: ptr("Hijacked")}, wantErr: store.ErrForbidden},
		{name: "empty title", editorID: "author", upd: store.QuestionUpdate{Title: ptr("")}, wantErr: store.ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			mem := storetest.NewMemory()
			questions := content.NewQuestions(mem, &recordingLedger{}, content.DefaultPolicy(), zap.NewNop())
			q := &models.Question{Title: "Context cancellation", Content: "When should I cancel?", AuthorID: "author"}
			require.NoError(t, questions.Create(ctx, q))

			updated, err := questions.Update(ctx, q.ID, tt.editorID, tt.upd)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.upd.Title != nil {
				assert.Equal(t, *tt.upd.Title, updated.Title)
			}
			if tt.upd.Tags != nil {
				assert.Equal(t, tt.upd.Tags, []string(updated.Tags))
			}
			assert.Equal(t, "When should I cancel?", updated.Content)
		})
	}
}

func TestDeleteQuestionByOtherUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := storetest.NewMemory()
	questions := content.NewQuestions(mem, &recordingLedger{}, content.DefaultPolicy(), zap.NewNop())
	q := &models.Question{Title: "Context cancellation", Content: "When should I cancel?", AuthorID: "author"}
	require.NoError(t, questions.Create(ctx, q))

	err := questions.Delete(ctx, q.ID, "intruder")
	require.ErrorIs(t, err, store.ErrForbidden)
	assert.Equal(t, 403, store.StatusCode(err))

	_, err = questions.Get(ctx, q.ID)
	require.NoError(t, err)
}

func TestListQuestionsFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := storetest.NewMemory()
	questions := content.NewQuestions(mem, &recordingLedger{}, content.DefaultPolicy(), zap.NewNop())

	for _, q := range []*models.Question{
		{Title: "Goroutines", Content: "c", AuthorID: "alice", Tags: []string{"go"}},
		{Title: "Closures", Content: "c", AuthorID: "bob", Tags: []string{"js"}},
		{Title: "Channels", Content: "c", AuthorID: "alice", Tags: []string{"go", "concurrency"}},
	} {
		require.NoError(t, questions.Create(ctx, q))
	}

	byAuthor, err := questions.List(ctx, store.QuestionQuery{AuthorID: "alice"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, byAuthor.Total)
	assert.Equal(t, "Channels", byAuthor.Documents[0].Title, "newest first")

	byTag, err := questions.List(ctx, store.QuestionQuery{Tag: "js"})
	require.NoError(t, err)
	require.Len(t, byTag.Documents, 1)
	assert.Equal(t, "Closures", byTag.Documents[0].Title)

	paged, err := questions.List(ctx, store.QuestionQuery{Page: store.Page{Limit: 1, Offset: 1}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, paged.Total)
	require.Len(t, paged.Documents, 1)
	assert.Equal(t, "Closures", paged.Documents[0].Title)
}

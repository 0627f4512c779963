package content_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Debanjan110d/DevQnA/internal/content"
	"github.com/Debanjan110d/DevQnA/internal/models"
	"github.com/Debanjan110d/DevQnA/internal/reputation"
	"github.com/Debanjan110d/DevQnA/internal/store"
	"github.com/Debanjan110d/DevQnA/internal/store/storetest"
)

const longEnough = "This answer is long enough to be accepted."

type delta struct {
	authorID string
	delta    int
}

type recordingLedger struct {
	mu     sync.Mutex
	deltas []delta
}

func (l *recordingLedger) ApplyDelta(_ context.Context, authorID string, d int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deltas = append(l.deltas, delta{authorID, d})
}

func seedQuestion(t *testing.T, mem *storetest.Memory, authorID string) *models.Question {
	t.Helper()
	q := &models.Question{Title: "Why is my goroutine leaking?", Content: "It never exits.", AuthorID: authorID}
	require.NoError(t, mem.CreateQuestion(context.Background(), q))
	return q
}

func TestAnswerLifecycleReputation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := storetest.NewMemory()
	mem.AddAccount("author", "Author", 3)
	require.NoError(t, mem.CreateProfile(ctx, &models.UserProfile{UserID: "author", Name: "Author", Reputation: 3}))
	q := seedQuestion(t, mem, "asker")

	ledger := reputation.NewLedger(mem, mem, nil, zap.NewNop())
	answers := content.NewAnswers(mem, mem, ledger, content.DefaultPolicy(), zap.NewNop())

	a, err := answers.Create(ctx, q.ID, longEnough, "author")
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, 4, mem.PrefsReputation("author"))
	got, _ := mem.ProfileReputation("author")
	assert.Equal(t, 4, got)

	require.NoError(t, answers.Delete(ctx, a.ID, "author"))
	assert.Equal(t, 3, mem.PrefsReputation("author"))
	got, _ = mem.ProfileReputation("author")
	assert.Equal(t, 3, got)

	_, err = mem.GetAnswer(ctx, a.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateAnswer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		questionID string
		content    string
		authorID   string
		wantErr    error
		wantStatus int
	}{
		{name: "ok", content: longEnough, authorID: "author"},
		{name: "missing author", content: longEnough, wantErr: store.ErrInvalid, wantStatus: 400},
		{name: "too short", content: "too short", authorID: "author", wantErr: store.ErrInvalid, wantStatus: 400},
		{name: "whitespace padded", content: "   short   " + strings.Repeat(" ", 20), authorID: "author", wantErr: store.ErrInvalid, wantStatus: 400},
		{name: "unknown question", questionID: "missing", content: longEnough, authorID: "author", wantErr: store.ErrNotFound, wantStatus: 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mem := storetest.NewMemory()
			q := seedQuestion(t, mem, "asker")
			ledger := &recordingLedger{}
			answers := content.NewAnswers(mem, mem, ledger, content.DefaultPolicy(), zap.NewNop())

			questionID := tt.questionID
			if questionID == "" {
				questionID = q.ID
			}
			a, err := answers.Create(context.Background(), questionID, tt.content, tt.authorID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantStatus, store.StatusCode(err))
				assert.Empty(t, ledger.deltas)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, questionID, a.QuestionID)
			assert.Equal(t, []delta{{"author", 1}}, ledger.deltas)
		})
	}
}

func TestDeleteAnswerUsesStoredAuthor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := storetest.NewMemory()
	q := seedQuestion(t, mem, "asker")
	a := &models.Answer{Content: longEnough, AuthorID: "real-author", QuestionID: q.ID}
	require.NoError(t, mem.CreateAnswer(ctx, a))

	ledger := &recordingLedger{}
	answers := content.NewAnswers(mem, mem, ledger, content.DefaultPolicy(), zap.NewNop())

	require.NoError(t, answers.Delete(ctx, a.ID, "someone-else"))
	assert.Equal(t, []delta{{"real-author", -1}}, ledger.deltas)
}

func TestDeleteAnswerFallsBackToRequestAuthor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := storetest.NewMemory()
	mem.InsertAnswerUnchecked(models.Answer{ID: "legacy", Content: longEnough, QuestionID: "q"})

	ledger := &recordingLedger{}
	answers := content.NewAnswers(mem, mem, ledger, content.DefaultPolicy(), zap.NewNop())

	require.NoError(t, answers.Delete(ctx, "legacy", "fallback"))
	assert.Equal(t, []delta{{"fallback", -1}}, ledger.deltas)
}

func TestDeleteAnswerNotFound(t *testing.T) {
	t.Parallel()
	mem := storetest.NewMemory()
	ledger := &recordingLedger{}
	answers := content.NewAnswers(mem, mem, ledger, content.DefaultPolicy(), zap.NewNop())

	err := answers.Delete(context.Background(), "missing", "author")
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, 404, store.StatusCode(err))
	assert.Empty(t, ledger.deltas)
}

func TestDeleteAnswerFailureSkipsReputation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := storetest.NewMemory()
	q := seedQuestion(t, mem, "asker")
	a := &models.Answer{Content: longEnough, AuthorID: "author", QuestionID: q.ID}
	require.NoError(t, mem.CreateAnswer(ctx, a))
	mem.Fail["DeleteAnswer"] = errors.New("platform unavailable")

	ledger := &recordingLedger{}
	answers := content.NewAnswers(mem, mem, ledger, content.DefaultPolicy(), zap.NewNop())

	require.Error(t, answers.Delete(ctx, a.ID, ""))
	assert.Empty(t, ledger.deltas)
}

func TestUpdateAnswer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := storetest.NewMemory()
	q := seedQuestion(t, mem, "asker")
	a := &models.Answer{Content: longEnough, AuthorID: "author", QuestionID: q.ID}
	require.NoError(t, mem.CreateAnswer(ctx, a))

	ledger := &recordingLedger{}
	answers := content.NewAnswers(mem, mem, ledger, content.DefaultPolicy(), zap.NewNop())

	_, err := answers.Update(ctx, a.ID, "An edit from a different user entirely.", "intruder")
	require.ErrorIs(t, err, store.ErrForbidden)

	_, err = answers.Update(ctx, a.ID, "short", "author")
	require.ErrorIs(t, err, store.ErrInvalid)

	updated, err := answers.Update(ctx, a.ID, "A clarified answer with more detail.", "author")
	require.NoError(t, err)
	assert.Equal(t, "A clarified answer with more detail.", updated.Content)
	assert.Empty(t, ledger.deltas)
}

func TestAnswerPolicyIsConfigurable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := storetest.NewMemory()
	q := seedQuestion(t, mem, "asker")

	ledger := &recordingLedger{}
	answers := content.NewAnswers(mem, mem, ledger, content.Policy{AnswerDelta: 5}, zap.NewNop())

	a, err := answers.Create(ctx, q.ID, longEnough, "author")
	require.NoError(t, err)
	require.NoError(t, answers.Delete(ctx, a.ID, ""))
	assert.Equal(t, []delta{{"author", 5}, {"author", -5}}, ledger.deltas)
}

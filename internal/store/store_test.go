package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap/zaptest"

	"github.com/Debanjan110d/DevQnA/internal/config"
	"github.com/Debanjan110d/DevQnA/internal/database"
	"github.com/Debanjan110d/DevQnA/internal/models"
	"github.com/Debanjan110d/DevQnA/internal/setup"
	"github.com/Debanjan110d/DevQnA/internal/store"
)

// startPostgres runs a disposable postgres and returns a store on top of a
// fully provisioned schema.
func startPostgres(t *testing.T) *store.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "docker.io/postgres:16-alpine",
		postgres.WithDatabase("devqna"),
		postgres.WithUsername("devqna"),
		postgres.WithPassword("devqna"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.PostgreSQL{
		Host:     host,
		Port:     port.Int(),
		User:     "devqna",
		Password: "devqna",
		DBName:   "devqna",
		SSLMode:  "disable",
	}

	logger := zaptest.NewLogger(t)
	require.NoError(t, database.EnsureExists(ctx, cfg, logger))

	db, err := database.New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := store.New(db.GetDB(), "http://localhost:8080", logger)
	p := setup.New(db.GetDB(), s, logger).WithRetryOptions(setup.RetryOptions{
		MaxRetries:      2,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     50 * time.Millisecond,
		MaxElapsedTime:  5 * time.Second,
	})
	require.NoError(t, p.Run(ctx))
	require.NoError(t, p.Run(ctx), "setup must be idempotent")

	return s
}

func TestStoreOnPostgres(t *testing.T) {
	s := startPostgres(t)
	ctx := context.Background()

	q := &models.Question{Title: "How do I cancel a context?", Content: "Details", AuthorID: "alice", Tags: []string{"go", "context"}}
	require.NoError(t, s.CreateQuestion(ctx, q))
	require.NotEmpty(t, q.ID)

	t.Run("questions", func(t *testing.T) {
		got, err := s.GetQuestion(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, q.Title, got.Title)
		assert.ElementsMatch(t, []string{"go", "context"}, []string(got.Tags))

		byTag, err := s.ListQuestions(ctx, store.QuestionQuery{Tag: "context"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, byTag.Total)

		bySearch, err := s.ListQuestions(ctx, store.QuestionQuery{Search: "cancel"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, bySearch.Total)

		_, err = s.GetQuestion(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
		assert.Equal(t, 404, store.StatusCode(err))
	})

	t.Run("answers", func(t *testing.T) {
		a := &models.Answer{QuestionID: q.ID, Content: "Call the cancel func returned by WithCancel.", AuthorID: "bob"}
		require.NoError(t, s.CreateAnswer(ctx, a))

		author, err := s.AuthorOf(ctx, models.TypeAnswer, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "bob", author)

		list, err := s.ListAnswers(ctx, store.AnswerQuery{QuestionID: q.ID})
		require.NoError(t, err)
		require.Len(t, list.Documents, 1)

		require.NoError(t, s.DeleteAnswer(ctx, a.ID))
		require.ErrorIs(t, s.DeleteAnswer(ctx, a.ID), store.ErrNotFound)
	})

	t.Run("vote uniqueness", func(t *testing.T) {
		v := &models.Vote{Type: models.TypeQuestion, TypeID: q.ID, VotedByID: "carol", VoteStatus: models.Upvoted}
		require.NoError(t, s.CreateVote(ctx, v))

		dup := &models.Vote{Type: models.TypeQuestion, TypeID: q.ID, VotedByID: "carol", VoteStatus: models.Downvoted}
		err := s.CreateVote(ctx, dup)
		require.ErrorIs(t, err, store.ErrConflict)

		n, err := s.CountVotes(ctx, models.TypeQuestion, q.ID, models.Upvoted)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		updated, err := s.UpdateVoteStatus(ctx, v.ID, models.Downvoted)
		require.NoError(t, err)
		assert.Equal(t, models.Downvoted, updated.VoteStatus)
	})

	t.Run("malformed documents are rejected", func(t *testing.T) {
		require.NoError(t, s.DB().Exec(
			"INSERT INTO votes (id, type, type_id, voted_by_id, vote_status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, now(), now())",
			"bad-vote", "question", q.ID, "mallory", "sideways").Error)

		_, err := s.ListVotes(ctx, models.TypeQuestion, q.ID, "mallory")
		require.ErrorIs(t, err, store.ErrMalformed)
	})

	t.Run("prefs and profiles", func(t *testing.T) {
		acct := &models.Account{Name: "Dave", Email: " Dave@Example.com ", PasswordHash: "x"}
		require.NoError(t, s.CreateAccount(ctx, acct))
		assert.Equal(t, "dave@example.com", acct.Email)
		require.ErrorIs(t, s.CreateAccount(ctx, &models.Account{Name: "Dave", Email: "dave@example.com", PasswordHash: "x"}), store.ErrConflict)

		require.NoError(t, s.UpdatePrefs(ctx, acct.ID, models.Prefs{Reputation: 5}))
		prefs, err := s.GetPrefs(ctx, acct.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, prefs.Reputation)

		p := &models.UserProfile{UserID: acct.ID, Name: "Dave", Email: acct.Email}
		require.NoError(t, s.CreateProfile(ctx, p))
		require.NoError(t, s.SetProfileReputation(ctx, p.ID, 5))

		found, err := s.FindProfile(ctx, acct.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, found.Reputation)
	})

	t.Run("buckets", func(t *testing.T) {
		b, err := s.GetBucket(ctx, models.QuestionAttachmentBucket)
		require.NoError(t, err)
		assert.True(t, b.Allows("webp"))
		assert.Equal(t,
			"http://localhost:8080/api/storage/buckets/question-attachment/files/abc/view",
			s.FileURL(models.QuestionAttachmentBucket, "abc"))
	})
}

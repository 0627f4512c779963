// Package setup provisions the database: collections, indexes and file
// buckets. Every step is safe to run again.
package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Debanjan110d/DevQnA/internal/models"
	"github.com/Debanjan110d/DevQnA/internal/store"
)

// Collection is a table and the indexes it needs.
type Collection struct {
	Name    string
	Model   any
	Indexes []Index
}

// Index is created with CREATE [UNIQUE] INDEX. Expr is everything after ON.
type Index struct {
	Name   string
	Unique bool
	Expr   string
}

func (i Index) statement() string {
	kind := "INDEX"
	if i.Unique {
		kind = "UNIQUE INDEX"
	}
	return fmt.Sprintf("CREATE %s %s ON %s", kind, i.Name, i.Expr)
}

// Collections lists everything the application stores.
var Collections = []Collection{
	{
		Name:  "questions",
		Model: &models.Question{},
		Indexes: []Index{
			{Name: "idx_questions_title_fts", Expr: "questions USING GIN (to_tsvector('simple', title))"},
			{Name: "idx_questions_tags", Expr: "questions USING GIN (tags)"},
			{Name: "idx_questions_author_id", Expr: "questions (author_id)"},
			{Name: "idx_questions_created_at", Expr: "questions (created_at DESC)"},
		},
	},
	{
		Name:  "answers",
		Model: &models.Answer{},
		Indexes: []Index{
			{Name: "idx_answers_question_id", Expr: "answers (question_id, created_at DESC)"},
			{Name: "idx_answers_author_id", Expr: "answers (author_id)"},
		},
	},
	{
		Name:  "votes",
		Model: &models.Vote{},
		Indexes: []Index{
			{Name: "uniq_votes_type_type_id_voted_by_id", Unique: true, Expr: "votes (type, type_id, voted_by_id)"},
			{Name: "idx_votes_type_type_id_status", Expr: "votes (type, type_id, vote_status)"},
			{Name: "idx_votes_voted_by_id", Expr: "votes (voted_by_id)"},
		},
	},
	{
		Name:  "comments",
		Model: &models.Comment{},
		Indexes: []Index{
			{Name: "idx_comments_type_type_id", Expr: "comments (type, type_id, created_at)"},
			{Name: "idx_comments_author_id", Expr: "comments (author_id)"},
		},
	},
	{
		Name:  "users",
		Model: &models.UserProfile{},
		Indexes: []Index{
			{Name: "uniq_users_user_id", Unique: true, Expr: "users (user_id)"},
		},
	},
	{Name: "accounts", Model: &models.Account{}},
	{Name: "buckets", Model: &models.Bucket{}},
	{
		Name:  "files",
		Model: &models.File{},
		Indexes: []Index{
			{Name: "idx_files_bucket_id", Expr: "files (bucket_id)"},
		},
	},
}

// Buckets lists the file buckets the application uploads into.
var Buckets = []models.Bucket{
	{
		ID:                models.QuestionAttachmentBucket,
		Name:              models.QuestionAttachmentBucket,
		AllowedExtensions: []string{"jpg", "png", "gif", "jpeg", "webp", "heic"},
		MaximumFileSize:   10 << 20,
	},
}

type BucketStore interface {
	CreateBucket(ctx context.Context, b *models.Bucket) error
}

type Provisioner struct {
	db      *gorm.DB
	buckets BucketStore
	retry   RetryOptions
	logger  *zap.Logger
}

func New(db *gorm.DB, buckets BucketStore, logger *zap.Logger) *Provisioner {
	return &Provisioner{
		db:      db,
		buckets: buckets,
		retry:   DefaultRetryOptions(),
		logger:  logger.Named("setup"),
	}
}

// WithRetryOptions replaces the default backoff.
func (p *Provisioner) WithRetryOptions(opts RetryOptions) *Provisioner {
	p.retry = opts
	return p
}

// Run creates every collection, then every index, then every bucket. Tables
// and indexes are provisioned concurrently.
func (p *Provisioner) Run(ctx context.Context) error {
	start := time.Now()

	tables := pool.New().WithContext(ctx).WithMaxGoroutines(4)
	for _, c := range Collections {
		tables.Go(func(ctx context.Context) error {
			return p.ensure(ctx, "collection "+c.Name, func(ctx context.Context) error {
				return p.db.WithContext(ctx).AutoMigrate(c.Model)
			})
		})
	}
	if err := tables.Wait(); err != nil {
		return fmt.Errorf("failed to create collections: %w", err)
	}

	indexes := pool.New().WithContext(ctx).WithMaxGoroutines(4)
	for _, c := range Collections {
		for _, idx := range c.Indexes {
			indexes.Go(func(ctx context.Context) error {
				return p.EnsureIndex(ctx, idx)
			})
		}
	}
	if err := indexes.Wait(); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	if err := p.EnsureBuckets(ctx); err != nil {
		return err
	}

	p.logger.Info("Database setup complete", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// EnsureIndex creates idx, treating an existing index of the same name as
// success. A unique index that cannot be built because of duplicate rows is
// reported as an error.
func (p *Provisioner) EnsureIndex(ctx context.Context, idx Index) error {
	_, err := WithRetry(ctx, func() (struct{}, error) {
		return struct{}{}, p.db.WithContext(ctx).Exec(idx.statement()).Error
	}, p.retry)

	switch code := store.PgCode(err); {
	case err == nil:
		p.logger.Info("Index created", zap.String("index", idx.Name))
		return nil
	case code == store.CodeDuplicateTable || code == store.CodeDuplicateObject:
		p.logger.Debug("Index already exists", zap.String("index", idx.Name))
		return nil
	case code == store.CodeUniqueViolation:
		return fmt.Errorf("index %s: existing rows are not unique, remove duplicates and rerun setup: %w", idx.Name, err)
	default:
		return fmt.Errorf("index %s: %w", idx.Name, err)
	}
}

// EnsureBuckets creates the configured buckets, keeping existing ones.
func (p *Provisioner) EnsureBuckets(ctx context.Context) error {
	for _, b := range Buckets {
		err := p.ensure(ctx, "bucket "+b.ID, func(ctx context.Context) error {
			bucket := b
			return p.buckets.CreateBucket(ctx, &bucket)
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", b.ID, err)
		}
	}
	return nil
}

// ensure runs op with retries and counts an already-exists failure as done.
func (p *Provisioner) ensure(ctx context.Context, what string, op func(context.Context) error) error {
	_, err := WithRetry(ctx, func() (struct{}, error) {
		return struct{}{}, op(ctx)
	}, p.retry)

	switch {
	case err == nil:
		p.logger.Info("Provisioned", zap.String("target", what))
		return nil
	case alreadyExists(err):
		p.logger.Info("Already provisioned", zap.String("target", what))
		return nil
	default:
		p.logger.Error("Provisioning failed", zap.String("target", what), zap.Error(err))
		return err
	}
}

// Package store is the document store the application runs on: typed
// collections of questions, answers, votes, comments and user profiles,
// account preferences and file buckets, persisted in postgres through gorm.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultLimit = 25
	MaxLimit     = 100
)

// Filter narrows a listing. Build them with Equal and Contains.
type Filter = clause.Expression

// Equal matches documents whose column equals value.
func Equal(column string, value any) Filter {
	return clause.Eq{Column: clause.Column{Name: column}, Value: value}
}

// Contains matches documents whose array column holds value.
func Contains(column string, value any) Filter {
	return clause.Expr{SQL: "? = ANY(?)", Vars: []any{value, clause.Column{Name: column}}}
}

// Search matches documents whose column full-text matches the query.
func Search(column, query string) Filter {
	return clause.Expr{
		SQL:  "to_tsvector('simple', ?) @@ plainto_tsquery('simple', ?)",
		Vars: []any{clause.Column{Name: column}, query},
	}
}

// Page selects a window of a listing. A zero Limit means DefaultLimit.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) limit() int {
	switch {
	case p.Limit <= 0:
		return DefaultLimit
	case p.Limit > MaxLimit:
		return MaxLimit
	default:
		return p.Limit
	}
}

func (p Page) offset() int {
	if p.Offset < 0 {
		return 0
	}
	return p.Offset
}

// List is one page of documents plus the number of documents matching the
// filters across all pages.
type List[T any] struct {
	Documents []T   `json:"documents"`
	Total     int64 `json:"total"`
}

type Store struct {
	db             *gorm.DB
	validate       *validator.Validate
	publicEndpoint string
	logger         *zap.Logger
}

func New(db *gorm.DB, publicEndpoint string, logger *zap.Logger) *Store {
	return &Store{
		db:             db,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		publicEndpoint: strings.TrimRight(publicEndpoint, "/"),
		logger:         logger.Named("store"),
	}
}

// DB exposes the underlying connection for schema provisioning.
func (s *Store) DB() *gorm.DB { return s.db }

func newID() string {
	return uuid.NewString()
}

// check rejects documents that do not have the expected shape.
func (s *Store) check(what string, doc any) error {
	if err := s.validate.Struct(doc); err != nil {
		return malformed(what, err)
	}
	return nil
}

func listDocuments[T any](ctx context.Context, s *Store, what string, filters []Filter, page Page, order string) (List[T], error) {
	scope := func(db *gorm.DB) *gorm.DB {
		for _, f := range filters {
			db = db.Where(f)
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(new(T)).Scopes(scope).Count(&total).Error; err != nil {
		return List[T]{}, translate(err, what)
	}

	docs := make([]T, 0)
	q := s.db.WithContext(ctx).Scopes(scope).Limit(page.limit()).Offset(page.offset())
	if order != "" {
		q = q.Order(order)
	}
	if err := q.Find(&docs).Error; err != nil {
		return List[T]{}, translate(err, what)
	}

	for i := range docs {
		if err := s.check(what, &docs[i]); err != nil {
			s.logger.Warn("Rejected stored document", zap.String("collection", what), zap.Error(err))
			return List[T]{}, err
		}
	}

	return List[T]{Documents: docs, Total: total}, nil
}

func getDocument[T any](ctx context.Context, s *Store, what, id string) (*T, error) {
	var doc T
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, translate(err, what)
	}
	if err := s.check(what, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func createDocument[T any](ctx context.Context, s *Store, what string, doc *T) error {
	if err := s.validate.Struct(doc); err != nil {
		return Invalid(fmt.Sprintf("invalid %s: %v", what, err))
	}
	return translate(s.db.WithContext(ctx).Create(doc).Error, what)
}

func updateDocument[T any](ctx context.Context, s *Store, what, id string, fields map[string]any) (*T, error) {
	if len(fields) > 0 {
		res := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, translate(res.Error, what)
		}
		if res.RowsAffected == 0 {
			return nil, NotFound(what)
		}
	}
	return getDocument[T](ctx, s, what, id)
}

func deleteDocument[T any](ctx context.Context, s *Store, what, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translate(res.Error, what)
	}
	if res.RowsAffected == 0 {
		return NotFound(what)
	}
	return nil
}

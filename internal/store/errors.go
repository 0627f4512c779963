package store

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Sentinel kinds. Match them with errors.Is against any error returned by the
// store.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("already exists")
	ErrInvalid   = errors.New("invalid")
	ErrForbidden = errors.New("forbidden")
	ErrMalformed = errors.New("malformed document")
)

// Postgres SQLSTATE codes the store and the setup job care about.
const (
	CodeUniqueViolation   = "23505"
	CodeDuplicateTable    = "42P07"
	CodeDuplicateObject   = "42710"
	CodeDuplicateDatabase = "42P04"
)

// Error is the store's error value. Code is an HTTP status that handlers can
// pass through to the client.
type Error struct {
	Code    int
	Message string
	Err     error
	kind    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return e.kind != nil && target == e.kind }

func NotFound(what string) *Error {
	return &Error{Code: http.StatusNotFound, Message: what + " not found", kind: ErrNotFound}
}

func Conflict(what string, err error) *Error {
	return &Error{Code: http.StatusConflict, Message: what + " already exists", Err: err, kind: ErrConflict}
}

func Invalid(message string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: message, kind: ErrInvalid}
}

func Forbidden(message string) *Error {
	return &Error{Code: http.StatusForbidden, Message: message, kind: ErrForbidden}
}

func malformed(what string, err error) *Error {
	return &Error{Code: http.StatusInternalServerError, Message: "malformed " + what + " document", Err: err, kind: ErrMalformed}
}

// StatusCode returns the HTTP status carried by err, or 500.
func StatusCode(err error) int {
	var se *Error
	if errors.As(err, &se) && se.Code != 0 {
		return se.Code
	}
	return http.StatusInternalServerError
}

// Message returns the client-facing message carried by err, or fallback.
func Message(err error, fallback string) string {
	var se *Error
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}

// PgCode returns the SQLSTATE of a postgres error, or "".
func PgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		e := NotFound(what)
		e.Err = err
		return e
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || PgCode(err) == CodeUniqueViolation {
		return Conflict(what, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}

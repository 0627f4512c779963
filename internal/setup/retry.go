package setup

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Debanjan110d/DevQnA/internal/store"
)

// RetryOptions configures the backoff used for provisioning calls.
type RetryOptions struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryOptions allows three attempts, one second apart and doubling.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries:      2,
		InitialInterval: time.Second,
		MaxInterval:     4 * time.Second,
		MaxElapsedTime:  30 * time.Second,
	}
}

// WithRetry runs operation until it succeeds, fails permanently or the
// retries run out.
func WithRetry[T any](ctx context.Context, operation func() (T, error), opts RetryOptions) (T, error) {
	var result T

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(opts.MaxElapsedTime),
		backoff.WithInitialInterval(opts.InitialInterval),
		backoff.WithMaxInterval(opts.MaxInterval),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0),
	), opts.MaxRetries)

	backoffOperation := func() error {
		var err error
		result, err = operation()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.Retry(backoffOperation, backoff.WithContext(b, ctx))
	return result, err
}

// retryable reports whether err looks transient. Missing targets, conflicts,
// bad requests and postgres errors outside the connection and resource
// classes are final.
func retryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrInvalid), errors.Is(err, store.ErrForbidden):
		return false
	}

	code := store.PgCode(err)
	if code == "" {
		return true
	}
	for _, class := range []string{"08", "53", "57"} {
		if strings.HasPrefix(code, class) {
			return true
		}
	}
	return false
}

// alreadyExists reports whether err says the object being created is there.
func alreadyExists(err error) bool {
	if errors.Is(err, store.ErrConflict) {
		return true
	}
	switch store.PgCode(err) {
	case store.CodeDuplicateTable, store.CodeDuplicateObject, store.CodeUniqueViolation:
		return true
	}
	return false
}

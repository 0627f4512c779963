// Package lock serializes read-modify-write sequences that share a key.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// ErrNotAcquired is returned when the lock could not be taken before the
// caller's context ended.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker hands out exclusive ownership of a key until release is called.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// Noop never blocks. It is the default when no Redis is configured.
type Noop struct{}

func (Noop) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

// releaseScript deletes the key only if it still holds our token, so an
// expired lock re-acquired by someone else is left alone.
var releaseScript = rueidis.NewLuaScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a single-instance SET NX PX lock.
type Redis struct {
	client rueidis.Client
	ttl    time.Duration
	poll   time.Duration
	logger *zap.Logger
}

func NewRedis(client rueidis.Client, ttl time.Duration, logger *zap.Logger) *Redis {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Redis{
		client: client,
		ttl:    ttl,
		poll:   25 * time.Millisecond,
		logger: logger.Named("lock"),
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := "lock:" + key
	token := uuid.NewString()

	for {
		cmd := r.client.B().Set().Key(redisKey).Value(token).Nx().PxMilliseconds(r.ttl.Milliseconds()).Build()
		err := r.client.Do(ctx, cmd).Error()
		if err == nil {
			return r.releaser(ctx, redisKey, token), nil
		}
		if !rueidis.IsRedisNil(err) {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrNotAcquired, key, ctx.Err())
			}
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %w", ErrNotAcquired, key, ctx.Err())
		case <-time.After(r.poll):
		}
	}
}

func (r *Redis) releaser(ctx context.Context, redisKey, token string) func() {
	ctx = context.WithoutCancel(ctx)
	return func() {
		if err := releaseScript.Exec(ctx, r.client, []string{redisKey}, []string{token}).Error(); err != nil {
			r.logger.Warn("Failed to release lock", zap.String("key", redisKey), zap.Error(err))
		}
	}
}

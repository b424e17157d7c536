package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL           = 10 * time.Second
	DefaultRetryInterval = 50 * time.Millisecond
	DefaultKeyPrefix     = "lock:"
)

// releaseScript deletes the key only while it still carries our token, so a
// holder whose TTL ran out cannot release a lock someone else now owns.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every server instance pointing at the same
// Redis. Ownership expires after the TTL if the holder never releases it.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	retry  time.Duration
	prefix string
	logger Logger
}

// RedisOption configures a Redis locker.
type RedisOption func(*Redis) error

// WithTTL sets how long an unreleased lock survives.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) error {
		if ttl <= 0 {
			return fmt.Errorf("lock ttl must be positive, got %s", ttl)
		}
		r.ttl = ttl
		return nil
	}
}

// WithRetryInterval sets the polling delay while waiting for a held key.
func WithRetryInterval(d time.Duration) RedisOption {
	return func(r *Redis) error {
		if d <= 0 {
			return fmt.Errorf("lock retry interval must be positive, got %s", d)
		}
		r.retry = d
		return nil
	}
}

func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) error {
		r.prefix = prefix
		return nil
	}
}

func WithLogger(logger Logger) RedisOption {
	return func(r *Redis) error {
		r.logger = logger
		return nil
	}
}

func NewRedis(client redis.UniversalClient, opts ...RedisOption) (*Redis, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	r := &Redis{
		client: client,
		ttl:    DefaultTTL,
		retry:  DefaultRetryInterval,
		prefix: DefaultKeyPrefix,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	name := r.prefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, name, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", name, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to acquire lock %s: %w", name, ctx.Err())
		case <-ticker.C:
		}
	}

	if r.logger != nil {
		r.logger.Debug("lock acquired", "key", name)
	}
	return func() { r.unlock(name, token) }, nil
}

func (r *Redis) unlock(name, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.ttl)
	defer cancel()

	released, err := releaseScript.Run(ctx, r.client, []string{name}, token).Int()
	if r.logger == nil {
		return
	}
	switch {
	case err != nil:
		r.logger.Warn("failed to release lock", "key", name, "error", err)
	case released == 0:
		r.logger.Warn("lock expired before release", "key", name)
	}
}

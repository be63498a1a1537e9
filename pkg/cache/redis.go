package cache

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/mondrian/pkg/errors"
)

// RedisCache stores entries in Redis. Transient failures are retried with
// [RetryWithBackoff] before being reported as network errors.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to addr and pings it. addr is either "host:port"
// or a redis:// URL carrying password and database.
func NewRedisCache(ctx context.Context, addr string) (*RedisCache, error) {
	opts, err := redisOptions(addr)
	if err != nil {
		return nil, err
	}
	c := &RedisCache{client: redis.NewClient(opts)}
	if err := c.do(ctx, "ping", func() error { return c.client.Ping(ctx).Err() }); err != nil {
		c.client.Close()
		return nil, err
	}
	return c, nil
}

func redisOptions(addr string) (*redis.Options, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "redis address cannot be empty")
	}
	if strings.Contains(addr, "://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid redis URL")
		}
		return opts, nil
	}
	return &redis.Options{Addr: addr}, nil
}

// Get returns the stored bytes; redis.Nil is a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	var hit bool
	err := c.do(ctx, "redis get", func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		if stderrors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		data, hit = b, true
		return nil
	})
	return data, hit, err
}

// Set stores data with the given expiry (none when ttl <= 0).
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.do(ctx, "redis set", func() error {
		return c.client.Set(ctx, key, data, ttl).Err()
	})
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.do(ctx, "redis del", func() error {
		return c.client.Del(ctx, key).Err()
	})
}

// Close closes the client's connection pool.
func (c *RedisCache) Close() error { return c.client.Close() }

func (c *RedisCache) do(ctx context.Context, op string, fn func() error) error {
	err := RetryWithBackoff(ctx, func() error { return classify(fn()) })
	if err == nil {
		return nil
	}
	var re *RetryableError
	if stderrors.As(err, &re) {
		err = re.Err
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "%s", op)
}

// classify marks everything except cancellation and Redis reply errors as
// retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var reply redis.Error
	if stderrors.As(err, &reply) {
		return err
	}
	return Retryable(err)
}

var _ Cache = (*RedisCache)(nil)

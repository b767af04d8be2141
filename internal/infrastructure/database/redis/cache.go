// Package redis provides the Redis-backed detection result cache.
package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-engine/pkg/errors"
)

var (
	ErrCacheMiss           = errors.New(errors.ErrCodeNotFound, "cache miss")
	ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "serialization failed")
)

// DefaultPrefix namespaces every key written by the engine.
const DefaultPrefix = "hbond:"

type Serializer interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type jsonSerializer struct{}

func (jsonSerializer) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (jsonSerializer) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

// Cache stores serialized values under a key prefix.  Concurrent GetOrSet
// calls for one key share a single loader call.
type Cache struct {
	client     *Client
	logger     logging.Logger
	prefix     string
	defaultTTL time.Duration
	serializer Serializer
	group      singleflight.Group
}

type CacheOption func(*Cache)

func WithPrefix(prefix string) CacheOption {
	return func(c *Cache) { c.prefix = prefix }
}

func WithDefaultTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) { c.defaultTTL = ttl }
}

func NewCache(client *Client, log logging.Logger, opts ...CacheOption) *Cache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	c := &Cache{
		client:     client,
		logger:     log.Named("cache"),
		prefix:     DefaultPrefix,
		defaultTTL: time.Hour,
		serializer: jsonSerializer{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) fullKey(key string) string {
	return c.prefix + key
}

// jitterTTL spreads expiry by up to 10% either way.
func (c *Cache) jitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to get from cache")
	}
	if err := c.serializer.Unmarshal(data, dest); err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	return nil
}

// Set stores value.  A zero ttl uses the cache default.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	data, err := c.serializer.Marshal(value)
	if err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	if err := c.client.Set(ctx, c.fullKey(key), data, c.jitterTTL(ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to write cache")
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.fullKey(k)
	}
	return c.client.Del(ctx, full...).Err()
}

// GetOrSet fills dest from the cache or, on a miss, from loader, storing the
// loaded value.  Cache failures degrade to calling loader; only loader errors
// are returned.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.IsCode(err, errors.ErrCodeNotFound) {
		c.logger.Warn("cache read failed, loading", logging.String("key", key), logging.Err(err))
	}

	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		data, err := c.serializer.Marshal(v)
		if err != nil {
			return nil, ErrSerializationFailed.WithCause(err)
		}
		if ttl == 0 {
			ttl = c.defaultTTL
		}
		if err := c.client.Set(ctx, c.fullKey(key), data, c.jitterTTL(ttl)).Err(); err != nil {
			c.logger.Warn("cache write failed", logging.String("key", key), logging.Err(err))
		}
		return data, nil
	})
	if err != nil {
		return err
	}
	return c.serializer.Unmarshal(val.([]byte), dest)
}

// DeleteByPrefix removes every key under prefix and returns how many were
// deleted.
func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	var deleted int64
	var cursor uint64
	match := c.fullKey(prefix) + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, err
			}
			deleted += int64(len(keys))
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}

//Personal.AI order the ending

package server

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EvalCache stores serialized evaluation responses in Redis keyed by position
// hash, so repeated analysis of the same position skips the evaluator. A nil
// *EvalCache is a valid no-op cache.
type EvalCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewEvalCache connects to Redis from a connection URL.
func NewEvalCache(redisURL string, ttl time.Duration) (*EvalCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &EvalCache{rdb: rdb, ttl: ttl}, nil
}

// NewEvalCacheFromClient wraps an existing redis client for use in tests.
func NewEvalCacheFromClient(rdb *redis.Client, ttl time.Duration) *EvalCache {
	return &EvalCache{rdb: rdb, ttl: ttl}
}

// Close closes the Redis connection.
func (c *EvalCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// evalCacheKey identifies one evaluated position. The ko index is part of
// the key: the same grid and color occur both with and without an active ko
// (the opponent passes after a capture), and the ranked moves differ.
func evalCacheKey(hash uint64, color string, ko int) string {
	return fmt.Sprintf("eval:%016x:%s:%d", hash, color, ko)
}

// Get returns the cached response body for the key, if present. Redis errors
// are logged and treated as misses.
func (c *EvalCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("eval cache get failed")
		return nil, false
	}
	return data, true
}

// Set stores the response body under the key with the cache TTL.
func (c *EvalCache) Set(ctx context.Context, key string, body []byte) {
	if c == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, body, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("eval cache set failed")
	}
}

// Package cache wraps the optional Redis response cache. Every method is
// safe to call on a nil client, so callers never branch on whether Redis is
// actually configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when the key is absent or the cache is disabled.
var ErrCacheMiss = errors.New("cache: miss")

// RedisClient wraps redis.Client with JSON marshalling.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects to Redis using a redis:// URL. A connection
// failure returns nil: the screener runs without a response cache rather
// than refusing to start.
func NewRedisClient(url string) *RedisClient {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("Invalid Redis URL %q, cache disabled: %v", url, err)
		return nil
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Failed to connect to Redis at %s, cache disabled: %v", opt.Addr, err)
		return nil
	}

	log.Printf("Connected to Redis at %s", opt.Addr)
	return &RedisClient{client: client}
}

// Set stores a JSON-encoded value with an expiration.
func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if r == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

// Get decodes the cached JSON value into dest.
func (r *RedisClient) Get(ctx context.Context, key string, dest interface{}) error {
	if r == nil {
		return ErrCacheMiss
	}
	data, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

// FlushDB drops every cached entry, used when the underlying snapshot is
// refreshed.
func (r *RedisClient) FlushDB(ctx context.Context) error {
	if r == nil {
		return nil
	}
	return r.client.FlushDB(ctx).Err()
}

// Close closes the connection.
func (r *RedisClient) Close() error {
	if r == nil {
		return nil
	}
	return r.client.Close()
}

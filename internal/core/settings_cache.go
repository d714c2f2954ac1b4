package core

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SettingsCache stores whole setting maps under a key such as
// "block_setting:12". A missing key and an empty map are distinct: an empty
// map is a cached "no settings".
type SettingsCache interface {
	Get(ctx context.Context, key string) (map[string]string, bool, error)
	Set(ctx context.Context, key string, values map[string]string) error
	Delete(ctx context.Context, key string) error
}

// MemoryCache is an in-process SettingsCache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]map[string]string
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]map[string]string)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (map[string]string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	values, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return maps.Clone(values), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, values map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if values == nil {
		values = map[string]string{}
	}
	c.entries[key] = maps.Clone(values)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

const (
	redisKeyPrefix = "familytree:settings:"

	// loadedField marks a cached hash so that a tree with no settings is
	// still a cache hit. It cannot collide with setting names.
	loadedField = "\x00loaded"
)

// RedisCache is a SettingsCache shared between server instances. Each key is
// stored as a Redis hash with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a cache over an existing client. The client's
// lifecycle is managed by the caller.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (map[string]string, bool, error) {
	values, err := c.client.HGetAll(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis hgetall %s: %w", key, err)
	}
	if _, ok := values[loadedField]; !ok {
		return nil, false, nil
	}
	delete(values, loadedField)
	return values, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, values map[string]string) error {
	fullKey := redisKeyPrefix + key

	fields := make([]any, 0, 2*len(values)+2)
	fields = append(fields, loadedField, "1")
	for name, value := range values {
		fields = append(fields, name, value)
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, fullKey)
	pipe.HSet(ctx, fullKey, fields...)
	if c.ttl > 0 {
		pipe.Expire(ctx, fullKey, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// NewRedisClient connects to Redis and checks the connection.
func NewRedisClient(ctx context.Context, url string, poolSize int, dial, read, write time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if poolSize > 0 {
		opts.PoolSize = poolSize
	}
	if dial > 0 {
		opts.DialTimeout = dial
	}
	if read > 0 {
		opts.ReadTimeout = read
	}
	if write > 0 {
		opts.WriteTimeout = write
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

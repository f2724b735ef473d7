// Package session provides verdict caching backends for admin authentication.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores admin token verdicts in Redis so the expensive hash
// comparison runs once per token per TTL, even across multiple instances.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a new Redis-backed verdict cache
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisCache{
		client: client,
		prefix: "adminverdict:",
	}, nil
}

// NewRedisCacheWithClient creates a cache from an existing Redis client
func NewRedisCacheWithClient(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: "adminverdict:",
	}
}

func (c *RedisCache) key(tokenHash string) string {
	return c.prefix + tokenHash
}

// GetVerdict returns the cached verdict for a token hash, if present.
func (c *RedisCache) GetVerdict(ctx context.Context, tokenHash string) (bool, bool, error) {
	value, err := c.client.Get(ctx, c.key(tokenHash)).Result()
	if err == redis.Nil {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("lookup verdict: %w", err)
	}
	return value == "1", true, nil
}

// SetVerdict caches a verdict for a token hash with expiration.
func (c *RedisCache) SetVerdict(ctx context.Context, tokenHash string, verdict bool, ttl time.Duration) error {
	value := "0"
	if verdict {
		value = "1"
	}
	if err := c.client.Set(ctx, c.key(tokenHash), value, ttl).Err(); err != nil {
		return fmt.Errorf("save verdict: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping checks if Redis is reachable
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// MemoryCache is the in-process fallback used when no Redis URL is
// configured. Entries are pruned lazily on read.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	verdict bool
	expires time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) GetVerdict(_ context.Context, tokenHash string) (bool, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[tokenHash]
	if !ok {
		return false, false, nil
	}
	if time.Now().After(entry.expires) {
		delete(c.entries, tokenHash)
		return false, false, nil
	}
	return entry.verdict, true, nil
}

func (c *MemoryCache) SetVerdict(_ context.Context, tokenHash string, verdict bool, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[tokenHash] = memoryEntry{verdict: verdict, expires: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

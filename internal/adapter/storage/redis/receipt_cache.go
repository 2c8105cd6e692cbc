package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ReceiptCache implements ports.ReceiptCache using Redis. Mint responses are
// cached per buyer reference so a retried request with the same reference id
// replays the original receipt instead of minting twice.
type ReceiptCache struct {
	client *goredis.Client
	prefix string
}

// NewReceiptCache creates a new Redis-backed receipt cache.
func NewReceiptCache(client *goredis.Client) *ReceiptCache {
	return &ReceiptCache{
		client: client,
		prefix: "mint:receipt:",
	}
}

// Get retrieves a cached mint receipt by reference key.
// Returns nil, nil if the key does not exist.
func (c *ReceiptCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis receipt get: %w", err)
	}
	return val, nil
}

// Set stores a mint receipt with TTL.
func (c *ReceiptCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+key, value, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis receipt set: %w", err)
	}
	return nil
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// Cache stores msgpack-encoded values under a key prefix
// ⭐ SSOT: 캐시 헬퍼는 여기서만
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{client: client, prefix: prefix}
}

// Key returns the full redis key for k.
func (c *Cache) Key(k string) string {
	return fmt.Sprintf("%s:%s", c.prefix, k)
}

// Get decodes the cached value into dest. A missing key is (false, nil).
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := Decode(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a value with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := Encode(value)
	if err != nil {
		return err
	}
	return c.client.Redis().Set(ctx, c.Key(key), data, ttl).Err()
}

// Delete removes a cached value and reports whether it existed
func (c *Cache) Delete(ctx context.Context, key string) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	n, err := c.client.Redis().Del(ctx, c.Key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("cache delete %s: %w", key, err)
	}
	return n > 0, nil
}

// Count returns the number of keys under the prefix.
func (c *Cache) Count(ctx context.Context) (int, error) {
	if !c.client.Enabled() {
		return 0, nil
	}

	n := 0
	iter := c.client.Redis().Scan(ctx, 0, c.Key("*"), 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	return n, iter.Err()
}

// Encode serializes v with msgpack.
func Encode(v interface{}) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cache marshal failed: %w", err)
	}
	return data, nil
}

// Decode deserializes msgpack data into dest.
func Decode(data []byte, dest interface{}) error {
	if err := msgpack.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return nil
}


package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"cribhub/internal/model"
)

const userKeyPrefix = "user:"

// Client wraps redis.Client but fails safe by swallowing connectivity errors.
// A nil *Client is valid and behaves as a cache that always misses.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a new Redis client. Entries written through the typed helpers expire after ttl.
func New(addr, password string, db int, ttl time.Duration) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts), ttl: ttl}
}

// Ping reports whether redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil and connectivity errors both read as a miss
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	_ = c.client.Set(ctx, key, value, ttl).Err()
	return nil
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	_ = c.client.Del(ctx, key).Err()
	return nil
}

// UserKey is the cache key of a user profile.
func UserKey(id string) string {
	return userKeyPrefix + id
}

// GetUser returns the cached sanitized user, or nil on a miss.
func (c *Client) GetUser(ctx context.Context, id string) *model.User {
	raw, _ := c.Get(ctx, UserKey(id))
	if raw == nil {
		return nil
	}
	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil
	}
	return &user
}

// SetUser caches the sanitized form of user.
func (c *Client) SetUser(ctx context.Context, user model.User) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(user.Sanitized())
	if err != nil {
		return
	}
	_ = c.Set(ctx, UserKey(user.ID), raw, c.ttl)
}

// InvalidateUser drops the cached profile of id.
func (c *Client) InvalidateUser(ctx context.Context, id string) {
	_ = c.Delete(ctx, UserKey(id))
}

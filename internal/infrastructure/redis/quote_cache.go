package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"metalprice-service/internal/application"
	"metalprice-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

const DefaultKey = "metalprice:quote"

var _ application.QuoteCache = (*QuoteCache)(nil)

// QuoteCache keeps the cache slot in redis so several replicas share it.
// The key has no expiry: a stale quote must stay readable for fallback.
type QuoteCache struct {
	Client *redis.Client
	Key    string
}

func New(client *redis.Client, key string) *QuoteCache {
	if key == "" {
		key = DefaultKey
	}
	return &QuoteCache{Client: client, Key: key}
}

func (c *QuoteCache) Load(ctx context.Context) (domain.CachedQuote, bool, error) {
	b, err := c.Client.Get(ctx, c.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.CachedQuote{}, false, nil
	}
	if err != nil {
		return domain.CachedQuote{}, false, fmt.Errorf("redis get %s: %w", c.Key, err)
	}
	var q domain.CachedQuote
	if err := json.Unmarshal(b, &q); err != nil {
		return domain.CachedQuote{}, false, fmt.Errorf("redis decode %s: %w", c.Key, err)
	}
	return q, true, nil
}

func (c *QuoteCache) Store(ctx context.Context, q domain.CachedQuote) error {
	b, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("redis encode %s: %w", c.Key, err)
	}
	if err := c.Client.Set(ctx, c.Key, b, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.Key, err)
	}
	return nil
}

func (c *QuoteCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

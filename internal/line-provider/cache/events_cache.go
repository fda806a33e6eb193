package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyActive = "events:active"

// Cache guarda a lista de eventos ativos por alguns segundos.
// Qualquer escrita de evento invalida a chave.
type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func (c *Cache) GetActive(ctx context.Context, dst any) (bool, error) {
	b, err := c.R.Get(ctx, keyActive).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) SetActive(ctx context.Context, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, keyActive, b, ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context) error {
	return c.R.Del(ctx, keyActive).Err()
}

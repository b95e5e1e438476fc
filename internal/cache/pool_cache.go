package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"interviewd/internal/model"
)

const poolTTL = 30 * time.Minute

// PoolCache caches per-topic question pools so session starts don't re-read
// the bank on every request. A miss returns (nil, nil).
type PoolCache interface {
	Set(ctx context.Context, topic string, questions []model.Question) error
	Get(ctx context.Context, topic string) ([]model.Question, error)
	Invalidate(ctx context.Context, topic string) error
}

type poolCache struct {
	client *redis.Client
}

// NewPoolCache creates a Redis-backed question pool cache.
func NewPoolCache(client *redis.Client) PoolCache {
	return &poolCache{client: client}
}

func (c *poolCache) Set(ctx context.Context, topic string, questions []model.Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "pool:"+topic, data, poolTTL).Err()
}

func (c *poolCache) Get(ctx context.Context, topic string) ([]model.Question, error) {
	data, err := c.client.Get(ctx, "pool:"+topic).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var questions []model.Question
	if err := json.Unmarshal([]byte(data), &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *poolCache) Invalidate(ctx context.Context, topic string) error {
	return c.client.Del(ctx, "pool:"+topic).Err()
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/redis/go-redis/v9"
)

// RedisLatestCache keeps the most recent assessment per entity.
type RedisLatestCache struct {
	client *RedisClient
	ttl    time.Duration
	prefix string
}

func NewRedisLatestCache(client *RedisClient, ttl time.Duration) *RedisLatestCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisLatestCache{
		client: client,
		ttl:    ttl,
		prefix: "risk:latest:",
	}
}

func (c *RedisLatestCache) SetLatest(ctx context.Context, rec *model.AssessmentRecord) error {
	if rec == nil {
		return nil
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.client.Client.Set(ctx, c.prefix+rec.EntityID, payload, c.ttl).Err()
}

// GetLatest returns (nil, nil) on a cache miss.
func (c *RedisLatestCache) GetLatest(ctx context.Context, entityID string) (*model.AssessmentRecord, error) {
	raw, err := c.client.Client.Get(ctx, c.prefix+entityID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec model.AssessmentRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/complyhub/riskgate/internal/middleware"
)

type RedisIdempotencyStore struct {
	client *RedisClient
	ttl    time.Duration
	prefix string
}

func NewRedisIdempotencyStore(client *RedisClient, ttl time.Duration) *RedisIdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisIdempotencyStore{
		client: client,
		ttl:    ttl,
		prefix: "idem:",
	}
}

type idemWire struct {
	Status     int    `json:"status"`
	Body       []byte `json:"body"`
	CreatedAt  int64  `json:"created_at"`
	Processing bool   `json:"processing"`
}

func (s *RedisIdempotencyStore) GetOrLock(key string) (*middleware.IdempotencyRecord, bool) {
	ctx := context.Background()
	lock, _ := json.Marshal(idemWire{CreatedAt: time.Now().UTC().Unix(), Processing: true})

	ok, err := s.client.Client.SetNX(ctx, s.prefix+key, lock, s.ttl).Result()
	if err != nil || ok {
		// Redis 不可用时放行请求
		return nil, false
	}
	raw, err := s.client.Client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	var wire idemWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, false
	}
	return &middleware.IdempotencyRecord{
		Status:     wire.Status,
		Body:       wire.Body,
		CreatedAt:  time.Unix(wire.CreatedAt, 0).UTC(),
		Processing: wire.Processing,
	}, true
}

func (s *RedisIdempotencyStore) Save(key string, status int, body []byte) {
	payload, _ := json.Marshal(idemWire{
		Status:    status,
		Body:      body,
		CreatedAt: time.Now().UTC().Unix(),
	})
	_ = s.client.Client.Set(context.Background(), s.prefix+key, payload, s.ttl).Err()
}

func (s *RedisIdempotencyStore) Unlock(key string) {
	_ = s.client.Client.Del(context.Background(), s.prefix+key).Err()
}

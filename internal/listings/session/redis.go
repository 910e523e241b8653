package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"aqarna-listings/internal/listings/page"
)

const keyPrefix = "listings:page:"

// RedisStore keeps snapshots as JSON with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func Key(id string) string {
	return keyPrefix + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (page.Snapshot, error) {
	val, err := s.client.Get(ctx, Key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return page.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return page.Snapshot{}, fmt.Errorf("redis get: %w", err)
	}

	var snap page.Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return page.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, snap page.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, Key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, Key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/suiholar/research-dao-backend/internal/keystore/domain"
)

const keyPrefix = "suiholar:key:" // suiholar:key:{blob_id}

// RedisRepository stores key records as JSON strings with an optional TTL.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository creates a Redis-backed key store. A zero ttl keeps keys forever.
func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func (r *RedisRepository) Get(ctx context.Context, blobID string) (*domain.KeyRecord, error) {
	data, err := r.client.Get(ctx, r.key(blobID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	var rec domain.KeyRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal key record: %w", err)
	}
	return &rec, nil
}

func (r *RedisRepository) Put(ctx context.Context, blobID string, rec domain.KeyRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal key record: %w", err)
	}
	if err := r.client.Set(ctx, r.key(blobID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store key: %w", err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, blobID string) error {
	if err := r.client.Del(ctx, r.key(blobID)).Err(); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

func (r *RedisRepository) key(blobID string) string {
	return keyPrefix + blobID
}

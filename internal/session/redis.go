package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	key := cacheKey(sessionID)

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var state domain.SessionState
	if err2 := json.Unmarshal(data, &state); err2 != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err2)
	}

	return &state, nil
}

func (r RedisCache) Set(ctx context.Context, sessionID string, state *domain.SessionState) error {
	key := cacheKey(sessionID)
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	ttl := r.baseTTL + jitter
	if ret := r.client.Set(ctx, key, string(payload), ttl); ret.Err() != nil {
		return fmt.Errorf("redis set failed: %w", ret.Err())
	}
	return nil
}

func (r RedisCache) Delete(ctx context.Context, sessionID string) error {
	key := cacheKey(sessionID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

func cacheKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

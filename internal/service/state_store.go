package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rpm-system/rpm-backend/pkg/database"
)

// stateTTL bounds how long an OAuth round trip may take.
const stateTTL = 10 * time.Minute

// RedisStateStore keeps OAuth state tokens in Redis so callbacks can be
// verified across instances.
type RedisStateStore struct {
	redis *database.Redis
}

// NewRedisStateStore creates a new OAuth state store
func NewRedisStateStore(redis *database.Redis) *RedisStateStore {
	return &RedisStateStore{redis: redis}
}

// Put stores a state token for one authorization round trip
func (s *RedisStateStore) Put(ctx context.Context, state string) error {
	key := fmt.Sprintf("oauth:state:%s", state)
	if err := s.redis.Client.Set(ctx, key, "1", stateTTL).Err(); err != nil {
		return fmt.Errorf("failed to store oauth state: %w", err)
	}
	return nil
}

// Consume atomically checks and removes a state token
func (s *RedisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	key := fmt.Sprintf("oauth:state:%s", state)
	err := s.redis.Client.GetDel(ctx, key).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to consume oauth state: %w", err)
	}
	return true, nil
}

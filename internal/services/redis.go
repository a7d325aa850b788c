package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"social-casino-backend/internal/config"
	"social-casino-backend/internal/models"
)

type RedisService struct {
	client *redis.Client
}

var (
	_ SnapshotStore = (*RedisService)(nil)
	_ RateLimiter   = (*RedisService)(nil)
)

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisService{client: client}, nil
}

// NewRedisServiceWithClient wraps an existing client (used by tests).
func NewRedisServiceWithClient(client *redis.Client) *RedisService {
	return &RedisService{client: client}
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

// SaveSnapshot writes all collections inside MULTI/EXEC so readers never see
// half of a snapshot.
func (s *RedisService) SaveSnapshot(ctx context.Context, collections map[string][]byte) error {
	pipe := s.client.TxPipeline()
	for name, data := range collections {
		pipe.Set(ctx, fmt.Sprintf(KeySnapshot, name), data, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *RedisService) LoadSnapshot(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf(KeySnapshot, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", key, err)
	}
	return data, nil
}

func (s *RedisService) CheckRateLimit(ctx context.Context, userID, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, userID, action)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	if count == 1 {
		s.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}

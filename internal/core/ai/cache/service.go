package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gift-recommender/internal/infrastructure/config"
	"gift-recommender/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const redisKeyPrefix = "gift-recommender:"

// Service Redis 快取
type Service struct {
	client *redis.Client
	ttl    time.Duration
}

// NewService 連線 Redis 並確認可用
func NewService(cfg config.RedisConfig, ttl time.Duration) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 快取已連線", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return newServiceWithClient(client, ttl), nil
}

func newServiceWithClient(client *redis.Client, ttl time.Duration) *Service {
	return &Service{client: client, ttl: ttl}
}

// Get 取得快取值
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			common.LogCacheMiss("redis", key)
			return "", common.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	common.LogCacheHit("redis", key)
	return value, nil
}

// Set 寫入快取值
func (s *Service) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (s *Service) Close() error {
	return s.client.Close()
}

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"gift-recommender/internal/infrastructure/config"
	"gift-recommender/internal/pkg/common"
)

// 快取後端
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Store 字串鍵值快取，未命中時回傳 common.ErrCacheMiss
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// NewStore 依設定建立快取，停用時回傳 nil
func NewStore(cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		common.LogInfo("快取已停用")
		return nil, nil
	}

	switch cfg.Cache.Backend {
	case BackendRedis:
		svc, err := NewService(cfg.Redis, cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case BackendMemory, "":
		return NewManager(cfg.Cache), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Cache.Backend)
	}
}

// Key 產生命名空間下的快取鍵，大小寫與前後空白不影響結果
func Key(namespace, value string) string {
	normalized := strings.ToLower(common.NormalizeWhitespace(value))
	hash := sha256.Sum256([]byte(normalized))
	return namespace + ":" + hex.EncodeToString(hash[:])
}

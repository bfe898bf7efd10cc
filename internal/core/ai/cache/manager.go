package cache

import (
	"context"
	"sync"
	"time"

	"gift-recommender/internal/infrastructure/config"
	"gift-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// CacheManager 記憶體快取，過期自動清除，滿載時淘汰最少使用的項目
type CacheManager struct {
	maxSize int
	ttl     time.Duration

	mu    sync.Mutex
	store map[string]cacheEntry
	stats cacheStats
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type cacheEntry struct {
	value       string
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewManager 建立記憶體快取並啟動背景清理
func NewManager(cfg config.CacheConfig) *CacheManager {
	m := &CacheManager{
		maxSize: cfg.MaxSize,
		ttl:     cfg.TTL,
		store:   make(map[string]cacheEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 {
		go m.startCleanup(cfg.CleanupInterval)
	}

	common.LogInfo("快取管理員已初始化",
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
		zap.Duration("清理間隔", cfg.CleanupInterval),
	)
	return m
}

// Get 取得快取值
func (m *CacheManager) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.store[key]
	if !ok {
		m.stats.misses++
		common.LogCacheMiss("memory", key)
		return "", common.ErrCacheMiss
	}

	now := m.now()
	if now.After(entry.expiresAt) {
		delete(m.store, key)
		m.stats.evictions++
		m.stats.misses++
		common.LogCacheMiss("memory", key)
		return "", common.ErrCacheMiss
	}

	entry.lastAccess = now
	entry.accessCount++
	m.store[key] = entry
	m.stats.hits++
	common.LogCacheHit("memory", key)
	return entry.value, nil
}

// Set 寫入快取值
func (m *CacheManager) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.store[key]; !exists && len(m.store) >= m.maxSize {
		m.cleanup()
		if len(m.store) >= m.maxSize {
			m.evictLRU()
		}
		if len(m.store) >= m.maxSize {
			common.LogWarn("快取已滿", zap.Int("目前容量", len(m.store)))
			return common.ErrCacheFull
		}
	}

	now := m.now()
	m.store[key] = cacheEntry{
		value:      value,
		expiresAt:  now.Add(m.ttl),
		lastAccess: now,
	}
	return nil
}

func (m *CacheManager) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.cleanup()
			m.mu.Unlock()
		case <-m.stop:
			return
		}
	}
}

// cleanup 清除過期項目，呼叫者需持有鎖
func (m *CacheManager) cleanup() int {
	now := m.now()
	count := 0
	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
		}
	}
	m.stats.evictions += int64(count)

	if count > 0 {
		common.LogDebug("已清除過期快取",
			zap.Int("count", count),
			zap.Int("remaining_size", len(m.store)),
		)
	}
	return count
}

// evictLRU 淘汰存取次數最少且最久未使用的項目，呼叫者需持有鎖
func (m *CacheManager) evictLRU() {
	var (
		victim      string
		oldest      time.Time
		lowestCount int
	)
	for key, entry := range m.store {
		if victim == "" ||
			entry.accessCount < lowestCount ||
			(entry.accessCount == lowestCount && entry.lastAccess.Before(oldest)) {
			victim = key
			oldest = entry.lastAccess
			lowestCount = entry.accessCount
		}
	}

	if victim != "" {
		delete(m.store, victim)
		m.stats.evictions++
		common.LogDebug("快取已淘汰(LRU)", zap.String("鍵", victim))
	}
}

// GetStats 取得快取統計
func (m *CacheManager) GetStats() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	ratio := 0.0
	if total := m.stats.hits + m.stats.misses; total > 0 {
		ratio = float64(m.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"size":      len(m.store),
		"max_size":  m.maxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"hit_ratio": ratio,
	}
}

// Close 停止背景清理並清空快取
func (m *CacheManager) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })

	m.mu.Lock()
	defer m.mu.Unlock()

	common.LogInfo("快取管理員已關閉",
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("未命中次數", m.stats.misses),
		zap.Int64("淘汰次數", m.stats.evictions),
	)
	m.store = make(map[string]cacheEntry)
	return nil
}

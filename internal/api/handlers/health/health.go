package health

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"gift-recommender/internal/infrastructure/config"
	"gift-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Check 就緒檢查項目，回傳 nil 表示正常
type Check func(ctx context.Context) error

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Provider  string                 `json:"provider"`
	Model     string                 `json:"model"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// HealthCheck 健康檢查處理器，設定由路由中間件注入
func HealthCheck(c *gin.Context) {
	v, exists := c.Get("config")
	if !exists {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, common.ErrInternalError.Response())
		return
	}
	cfg, ok := v.(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, common.ErrInternalError.Response())
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Provider:  cfg.AI.Provider,
		Model:     cfg.ModelName(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	})
}

// ReadinessCheck 執行所有檢查，任一失敗回傳 503
func ReadinessCheck(checks map[string]Check) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		results := make(map[string]string, len(names))
		ready := true
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				common.LogWarn("就緒檢查失敗", zap.String("check", name), zap.Error(err))
				results[name] = "unavailable"
				ready = false
				continue
			}
			results[name] = "ok"
		}

		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "checks": results})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": results})
	}
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Root GET /
func Root(c *gin.Context) {
	c.String(http.StatusOK, "API is running...")
}

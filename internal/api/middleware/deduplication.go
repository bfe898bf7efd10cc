package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"gift-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// deduplicator 記錄最近的請求指紋
type deduplicator struct {
	mu       sync.Mutex
	window   time.Duration
	requests map[string]time.Time
	now      func() time.Time
}

// seen 指紋在時間窗內出現過時回傳 true，否則記錄並回傳 false
func (d *deduplicator) seen(fingerprint string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}

	for k, t := range d.requests {
		if now.Sub(t) > 10*d.window {
			delete(d.requests, k)
		}
	}
	d.requests[fingerprint] = now
	return false
}

// Deduplication 拒絕時間窗內內容相同的 POST 請求，只掛在需要的路由上
func Deduplication(window time.Duration) gin.HandlerFunc {
	if window <= 0 {
		window = time.Second
	}
	d := &deduplicator{window: window, requests: make(map[string]time.Time), now: time.Now}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost || c.Request.Body == nil {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				c.AbortWithStatusJSON(common.ErrPayloadTooLarge.Status, common.ErrPayloadTooLarge.Response())
				return
			}
			common.LogWarn("Failed to read request body", zap.Error(err))
			c.AbortWithStatusJSON(common.ErrInvalidRequest.Status, common.ErrInvalidRequest.Response())
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		hash := sha256.Sum256(body)
		fingerprint := c.ClientIP() + ":" + c.Request.URL.Path + ":" + hex.EncodeToString(hash[:])

		if d.seen(fingerprint) {
			common.LogInfo("重複請求已拒絕",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(common.ErrTooManyRequests.Status,
				common.ErrTooManyRequests.WithMessage("Request too frequent").Response())
			return
		}

		c.Next()
	}
}

package image

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gift-recommender/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

var (
	ErrNotConfigured = errors.New("image search not configured")
	ErrNoResults     = errors.New("image search returned no results")
	ErrRateLimited   = errors.New("image search rate limit exceeded")
)

// Searcher 以關鍵字搜尋圖片並回傳單一 URL
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// UnsplashClient Unsplash 圖片搜尋
type UnsplashClient struct {
	client      *resty.Client
	accessKey   string
	perPage     int
	orientation string
	timeout     time.Duration
	limiter     *rate.Limiter
}

type searchResponse struct {
	Results []struct {
		URLs struct {
			Small string `json:"small"`
		} `json:"urls"`
	} `json:"results"`
}

// NewUnsplashClient 建立客戶端，每小時請求數換算為 token bucket 速率
func NewUnsplashClient(cfg config.UnsplashConfig) *UnsplashClient {
	limit := rate.Inf
	if cfg.RequestsPerHour > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerHour) / time.Hour.Seconds())
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &UnsplashClient{
		client:      resty.New().SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")),
		accessKey:   cfg.AccessKey,
		perPage:     cfg.PerPage,
		orientation: cfg.Orientation,
		timeout:     cfg.Timeout,
		limiter:     rate.NewLimiter(limit, burst),
	}
}

// Search 回傳第一筆結果的 small 尺寸 URL
func (c *UnsplashClient) Search(ctx context.Context, query string) (string, error) {
	if c.accessKey == "" {
		return "", ErrNotConfigured
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":       query,
			"client_id":   c.accessKey,
			"orientation": c.orientation,
			"per_page":    strconv.Itoa(c.perPage),
		}).
		Get("/search/photos")
	if err != nil {
		return "", fmt.Errorf("image search request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("image search returned status %d", resp.StatusCode())
	}

	var result searchResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to decode image search response: %w", err)
	}
	if len(result.Results) == 0 || strings.TrimSpace(result.Results[0].URLs.Small) == "" {
		return "", ErrNoResults
	}
	return result.Results[0].URLs.Small, nil
}

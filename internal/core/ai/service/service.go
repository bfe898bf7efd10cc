package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gift-recommender/internal/core/ai/gemini"
	"gift-recommender/internal/core/ai/openrouter"
	"gift-recommender/internal/core/ai/provider"
	"gift-recommender/internal/infrastructure/config"
	"gift-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrProviderUnavailable 重試用盡仍無法取得 AI 回應
var ErrProviderUnavailable = errors.New("ai provider unavailable")

var errEmptyContent = errors.New("empty content in response")

// Response AI 回應
type Response struct {
	Content  string
	Model    string
	Attempts int
}

// Service AI 服務，負責逾時與重試
type Service struct {
	provider       provider.Provider
	maxAttempts    int
	attemptTimeout time.Duration
	backoffBase    time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
}

// NewService 創建 AI 服務
func NewService(p provider.Provider, cfg config.AIConfig) *Service {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Service{
		provider:       p,
		maxAttempts:    attempts,
		attemptTimeout: cfg.AttemptTimeout,
		backoffBase:    cfg.BackoffBase,
		sleep:          sleepContext,
	}
}

// NewProvider 依設定建立文字供應商；缺少金鑰時回傳 Unavailable 讓服務仍可啟動
func NewProvider(ctx context.Context, cfg *config.Config) provider.Provider {
	var (
		p   provider.Provider
		err error
	)
	switch cfg.AI.Provider {
	case config.ProviderOpenRouter:
		p, err = openrouter.NewClient(cfg.OpenRouter, cfg.AI.AttemptTimeout)
	default:
		p, err = gemini.NewClient(ctx, cfg.Gemini, cfg.AI.AttemptTimeout, "")
	}
	if err != nil {
		common.LogError("AI 供應商初始化失敗，推薦功能將無法使用",
			zap.String("provider", cfg.AI.Provider),
			zap.Error(err),
		)
		return &provider.Unavailable{Model: cfg.ModelName(), Err: err}
	}
	return p
}

// ProcessRequest 送出 prompt，失敗時以指數退避重試
func (s *Service) ProcessRequest(ctx context.Context, prompt string) (*Response, error) {
	prompt = strings.TrimSpace(prompt)
	model := s.provider.GetModel()

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := s.backoffBase * time.Duration(1<<(attempt-2))
			if err := s.sleep(ctx, backoff); err != nil {
				lastErr = err
				break
			}
		}

		start := time.Now()
		content, err := s.attempt(ctx, prompt)
		common.LogAICall(model, attempt, time.Since(start), err)
		if err == nil {
			return &Response{Content: content, Model: model, Attempts: attempt}, nil
		}
		lastErr = err

		if ctx.Err() != nil || errors.Is(err, provider.ErrNotConfigured) {
			break
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, lastErr)
}

func (s *Service) attempt(ctx context.Context, prompt string) (string, error) {
	attemptCtx := ctx
	if timeout := s.timeout(); timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := s.provider.Generate(attemptCtx, provider.UserPrompt(prompt))
	if err != nil {
		return "", err
	}
	if resp == nil || resp.Content == "" {
		return "", errEmptyContent
	}
	return resp.Content, nil
}

// timeout 供應商自身的逾時優先，未設定時使用 ai.attempt_timeout
func (s *Service) timeout() time.Duration {
	if t := s.provider.GetTimeout(); t > 0 {
		return t
	}
	return s.attemptTimeout
}

// Close 關閉供應商
func (s *Service) Close() error {
	return s.provider.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gift-recommender/internal/core/ai/provider"
	"gift-recommender/internal/infrastructure/config"
	"gift-recommender/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// Client OpenRouter API 客戶端
type Client struct {
	client    *resty.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// chatRequest chat completions 請求
type chatRequest struct {
	Model       string             `json:"model"`
	Messages    []provider.Message `json:"messages"`
	MaxTokens   int                `json:"max_tokens,omitempty"`
	Temperature float64            `json:"temperature,omitempty"`
}

// chatResponse chat completions 響應
type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message provider.Message `json:"message"`
	} `json:"choices"`
	Usage provider.Usage `json:"usage"`
}

// apiError 錯誤響應
type apiError struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// NewClient 創建新的 OpenRouter 客戶端
func NewClient(cfg config.OpenRouterConfig, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openrouter: %w", provider.ErrNotConfigured)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("HTTP-Referer", "https://gift-recommender.app").
		SetHeader("X-Title", "Gift Recommender")

	return &Client{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   timeout,
	}, nil
}

// Generate 生成回應
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	body := chatRequest{
		Model:       c.model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if body.MaxTokens == 0 {
		body.MaxTokens = c.maxTokens
	}

	common.LogDebug("Sending request to OpenRouter",
		zap.String("model", c.model),
		zap.Int("messages", len(body.Messages)),
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(resp.Body(), &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("OpenRouter API error (status %d): %s", resp.StatusCode(), apiErr.Error.Message)
		}
		return nil, fmt.Errorf("OpenRouter API error (status %d)", resp.StatusCode())
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no choices in OpenRouter response")
	}

	return &provider.Response{
		Content: result.Choices[0].Message.Content,
		Usage:   result.Usage,
	}, nil
}

func (c *Client) GetModel() string {
	return c.model
}

func (c *Client) GetTimeout() time.Duration {
	return c.timeout
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}

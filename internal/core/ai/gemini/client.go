package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gift-recommender/internal/core/ai/provider"
	"gift-recommender/internal/infrastructure/config"
	"gift-recommender/internal/pkg/common"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Client Gemini 文字生成
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewClient 建立 Gemini 客戶端，baseURL 為空時使用官方端點
func NewClient(ctx context.Context, cfg config.GeminiConfig, timeout time.Duration, baseURL string) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini: %w", provider.ErrNotConfigured)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	common.LogInfo("Gemini 客戶端已建立", zap.String("model", cfg.Model))
	return &Client{client: client, model: cfg.Model, timeout: timeout}, nil
}

// Generate 將訊息合併為單一文字 prompt 送出
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	parts := make([]string, 0, len(req.Messages))
	for _, m := range req.Messages {
		parts = append(parts, m.Content)
	}
	prompt := strings.Join(parts, "\n\n")

	var generateConfig *genai.GenerateContentConfig
	if req.MaxTokens > 0 || req.Temperature > 0 {
		generateConfig = &genai.GenerateContentConfig{}
		if req.MaxTokens > 0 {
			generateConfig.MaxOutputTokens = int32(req.MaxTokens)
		}
		if req.Temperature > 0 {
			temp := float32(req.Temperature)
			generateConfig.Temperature = &temp
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), generateConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	resp := &provider.Response{Content: result.Text()}
	if result.UsageMetadata != nil {
		resp.Usage = provider.Usage{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}
	}
	return resp, nil
}

func (c *Client) GetModel() string {
	return c.model
}

func (c *Client) GetTimeout() time.Duration {
	return c.timeout
}

// Close genai 客戶端沒有需要釋放的資源
func (c *Client) Close() error {
	return nil
}

package provider

import (
	"context"
	"errors"
	"time"
)

// ErrNotConfigured 供應商缺少必要設定（例如 API key）
var ErrNotConfigured = errors.New("ai provider not configured")

// Message 表示與 AI 模型的對話消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request 表示發送到 AI 提供者的請求
type Request struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Usage token 使用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response 表示從 AI 提供者收到的響應
type Response struct {
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}

// Provider 定義 AI 提供者介面
type Provider interface {
	// Generate 生成 AI 響應
	Generate(ctx context.Context, req *Request) (*Response, error)

	// GetModel 獲取當前使用的模型名稱
	GetModel() string

	// GetTimeout 獲取請求超時時間
	GetTimeout() time.Duration

	// Close 關閉提供者連接
	Close() error
}

// UserPrompt 建立單一使用者訊息的請求
func UserPrompt(prompt string) *Request {
	return &Request{Messages: []Message{{Role: "user", Content: prompt}}}
}

// Unavailable 在供應商無法建立時使用，所有呼叫都回傳建立時的錯誤
type Unavailable struct {
	Model string
	Err   error
}

func (u *Unavailable) Generate(context.Context, *Request) (*Response, error) {
	if u.Err == nil {
		return nil, ErrNotConfigured
	}
	return nil, u.Err
}

func (u *Unavailable) GetModel() string          { return u.Model }
func (u *Unavailable) GetTimeout() time.Duration { return 0 }
func (u *Unavailable) Close() error              { return nil }

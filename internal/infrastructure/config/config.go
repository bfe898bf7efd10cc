package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gift-recommender/internal/pkg/common"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	AI          AIConfig         `mapstructure:"ai"`
	Gemini      GeminiConfig     `mapstructure:"gemini"`
	OpenRouter  OpenRouterConfig `mapstructure:"openrouter"`
	Unsplash    UnsplashConfig   `mapstructure:"unsplash"`
	Auth        AuthConfig       `mapstructure:"auth"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Cache       CacheConfig      `mapstructure:"cache"`
	Redis       RedisConfig      `mapstructure:"redis"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	CORS        CORSConfig       `mapstructure:"cors"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// AIConfig 推薦流程中 AI 呼叫的設定
type AIConfig struct {
	Provider         string        `mapstructure:"provider"`
	MaxAttempts      int           `mapstructure:"max_attempts"`
	AttemptTimeout   time.Duration `mapstructure:"attempt_timeout"`
	BackoffBase      time.Duration `mapstructure:"backoff_base"`
	CandidateCount   int           `mapstructure:"candidate_count"`
	ImageConcurrency int           `mapstructure:"image_concurrency"`
}

// GeminiConfig Gemini 配置
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OpenRouterConfig OpenRouter 配置
type OpenRouterConfig struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
	BaseURL   string `mapstructure:"base_url"`
}

// UnsplashConfig 圖片搜尋配置
type UnsplashConfig struct {
	AccessKey       string        `mapstructure:"access_key"`
	BaseURL         string        `mapstructure:"base_url"`
	PerPage         int           `mapstructure:"per_page"`
	Orientation     string        `mapstructure:"orientation"`
	Timeout         time.Duration `mapstructure:"timeout"`
	RequestsPerHour int           `mapstructure:"requests_per_hour"`
	Burst           int           `mapstructure:"burst"`
	PlaceholderURL  string        `mapstructure:"placeholder_url"`
}

// AuthConfig 身分驗證配置
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// DatabaseConfig 資料庫配置，URL 為空時使用記憶體儲存
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// CORSConfig 跨域設定
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// 支援的 AI 供應商
const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件，不存在時直接使用環境變數
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定常用環境變量
	bindings := map[string][]string{
		"server.port":          {"APP_SERVER_PORT", "PORT"},
		"gemini.api_key":       {"APP_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"gemini.model":         {"APP_GEMINI_MODEL", "GEMINI_MODEL"},
		"openrouter.api_key":   {"APP_OPENROUTER_API_KEY", "OPENROUTER_API_KEY"},
		"openrouter.model":     {"APP_OPENROUTER_MODEL", "OPENROUTER_MODEL"},
		"unsplash.access_key":  {"APP_UNSPLASH_ACCESS_KEY", "UNSPLASH_ACCESS_KEY"},
		"auth.jwt_secret":      {"APP_AUTH_JWT_SECRET", "JWT_SECRET"},
		"database.url":         {"APP_DATABASE_URL", "DATABASE_URL"},
		"redis.addr":           {"APP_REDIS_ADDR", "REDIS_ADDR"},
		"redis.password":       {"APP_REDIS_PASSWORD", "REDIS_PASSWORD"},
		"ai.provider":          {"APP_AI_PROVIDER", "AI_PROVIDER"},
		"cache.enabled":        {"APP_CACHE_ENABLED", "CACHE_ENABLED"},
		"cache.backend":        {"APP_CACHE_BACKEND", "CACHE_BACKEND"},
		"rate_limit.enabled":   {"APP_RATE_LIMIT_ENABLED", "RATE_LIMIT_ENABLED"},
		"rate_limit.requests":  {"APP_RATE_LIMIT_REQUESTS", "RATE_LIMIT_REQUESTS"},
		"rate_limit.window":    {"APP_RATE_LIMIT_WINDOW", "RATE_LIMIT_WINDOW"},
		"cors.allowed_origins": {"APP_CORS_ALLOWED_ORIGINS", "CORS_ALLOWED_ORIGINS"},
		"dedup_window":         {"APP_DEDUP_WINDOW", "DEDUP_WINDOW"},
		"log_level":            {"APP_LOG_LEVEL", "LOG_LEVEL"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	// 設定檔名稱和路徑
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 逗號分隔的環境變數轉為切片
	config.CORS.AllowedOrigins = splitList(config.CORS.AllowedOrigins)
	config.AI.Provider = strings.ToLower(strings.TrimSpace(config.AI.Provider))

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Summary 回傳可安全寫入日誌的設定摘要
func (c *Config) Summary() map[string]interface{} {
	return map[string]interface{}{
		"env":            c.App.Env,
		"ai_provider":    c.AI.Provider,
		"model":          c.ModelName(),
		"gemini_key":     maskAPIKey(c.Gemini.APIKey),
		"openrouter_key": maskAPIKey(c.OpenRouter.APIKey),
		"unsplash_key":   maskAPIKey(c.Unsplash.AccessKey),
		"database":       c.Database.URL != "",
		"cache_backend":  c.Cache.Backend,
	}
}

// ModelName 目前使用的 AI 模型
func (c *Config) ModelName() string {
	if c.AI.Provider == ProviderOpenRouter {
		return c.OpenRouter.Model
	}
	return c.Gemini.Model
}

// maskAPIKey 未設定時回傳空字串
func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	return common.MaskSecret(key)
}

func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "gift-recommender")

	// 伺服器設定
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "60s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	// AI 設定
	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("ai.max_attempts", 2)
	v.SetDefault("ai.attempt_timeout", "20s")
	v.SetDefault("ai.backoff_base", "500ms")
	v.SetDefault("ai.candidate_count", 8)
	v.SetDefault("ai.image_concurrency", 8)

	v.SetDefault("gemini.model", "gemini-2.5-flash")

	v.SetDefault("openrouter.model", "google/gemini-2.5-flash")
	v.SetDefault("openrouter.max_tokens", 2048)
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")

	// 圖片搜尋設定
	v.SetDefault("unsplash.base_url", "https://api.unsplash.com")
	v.SetDefault("unsplash.per_page", 3)
	v.SetDefault("unsplash.orientation", "squarish")
	v.SetDefault("unsplash.timeout", "5s")
	v.SetDefault("unsplash.requests_per_hour", 50)
	v.SetDefault("unsplash.burst", 10)
	v.SetDefault("unsplash.placeholder_url", "https://images.unsplash.com/photo-1530103862676-de8c9debad1d?q=80&w=800")

	// 身分驗證
	v.SetDefault("auth.token_ttl", "24h")

	// 資料庫
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	if config.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if config.Auth.TokenTTL <= 0 {
		return fmt.Errorf("invalid token ttl")
	}

	switch config.AI.Provider {
	case ProviderGemini, ProviderOpenRouter:
	default:
		return fmt.Errorf("unsupported ai provider %q", config.AI.Provider)
	}
	if config.AI.MaxAttempts <= 0 {
		return fmt.Errorf("invalid ai max attempts")
	}
	if config.AI.AttemptTimeout <= 0 {
		return fmt.Errorf("invalid ai attempt timeout")
	}
	if config.AI.CandidateCount <= 0 {
		return fmt.Errorf("invalid candidate count")
	}
	if config.AI.ImageConcurrency <= 0 {
		return fmt.Errorf("invalid image concurrency")
	}

	if config.Unsplash.PlaceholderURL == "" {
		return fmt.Errorf("image placeholder url is required")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		switch config.Cache.Backend {
		case "memory":
			if config.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if config.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		case "redis":
			if config.Redis.Addr == "" {
				return fmt.Errorf("redis addr is required for redis cache")
			}
		default:
			return fmt.Errorf("unsupported cache backend %q", config.Cache.Backend)
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit")
		}
	}

	return nil
}

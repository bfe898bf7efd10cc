package api

import (
	"context"
	"database/sql"
	"fmt"

	"gift-recommender/internal/core/ai/cache"
	aiservice "gift-recommender/internal/core/ai/service"
	"gift-recommender/internal/core/auth"
	"gift-recommender/internal/core/gift"
	"gift-recommender/internal/core/image"
	"gift-recommender/internal/core/product"
	"gift-recommender/internal/core/recommendation"
	"gift-recommender/internal/core/user"
	"gift-recommender/internal/infrastructure/config"
	"gift-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// Services 路由使用的所有服務
type Services struct {
	Users           *user.Service
	Tokens          *auth.TokenManager
	Gifts           *gift.Service
	Products        *product.Service
	Recommendations *recommendation.Service

	ai    *aiservice.Service
	cache cache.Store
	db    *sql.DB
}

// Repositories 各領域的儲存實作
type Repositories struct {
	Users    user.Repository
	Gifts    gift.Repository
	Products product.Repository
}

// NewRepositories db 為 nil 時使用記憶體儲存
func NewRepositories(db *sql.DB) Repositories {
	if db == nil {
		return Repositories{
			Users:    user.NewInMemoryRepository(),
			Gifts:    gift.NewInMemoryRepository(),
			Products: product.NewInMemoryRepository(),
		}
	}
	return Repositories{
		Users:    user.NewPostgresRepository(db),
		Gifts:    gift.NewPostgresRepository(db),
		Products: product.NewPostgresRepository(db),
	}
}

// NewServices 依設定組裝服務
func NewServices(ctx context.Context, cfg *config.Config, db *sql.DB) (*Services, error) {
	store, err := cache.NewStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	ai := aiservice.NewService(aiservice.NewProvider(ctx, cfg), cfg.AI)
	resolver := image.NewResolver(image.NewUnsplashClient(cfg.Unsplash), store, cfg.Unsplash.PlaceholderURL)
	return newServices(cfg, NewRepositories(db), ai, resolver, store, db), nil
}

func newServices(cfg *config.Config, repos Repositories, ai *aiservice.Service, images recommendation.ImageResolver, store cache.Store, db *sql.DB) *Services {
	users := user.NewService(repos.Users)
	products := product.NewService(repos.Products)

	common.LogInfo("Initializing services",
		zap.Bool("postgres", db != nil),
		zap.Bool("cache_enabled", store != nil),
		zap.String("provider", cfg.AI.Provider),
		zap.String("model", cfg.ModelName()),
	)

	return &Services{
		Users:    users,
		Tokens:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Gifts:    gift.NewService(repos.Gifts, users),
		Products: products,
		Recommendations: recommendation.NewService(ai, products, images, recommendation.Options{
			CandidateCount:   cfg.AI.CandidateCount,
			ImageConcurrency: cfg.AI.ImageConcurrency,
		}),
		ai:    ai,
		cache: store,
		db:    db,
	}
}

// Close 釋放外部連線
func (s *Services) Close() {
	if s.ai != nil {
		if err := s.ai.Close(); err != nil {
			common.LogWarn("關閉 AI 供應商失敗", zap.Error(err))
		}
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			common.LogWarn("關閉快取失敗", zap.Error(err))
		}
	}
}

package api

import (
	"context"
	"net/http"
	"time"

	"gift-recommender/internal/api/handlers"
	"gift-recommender/internal/api/handlers/admin"
	authHandler "gift-recommender/internal/api/handlers/auth"
	giftHandler "gift-recommender/internal/api/handlers/gift"
	"gift-recommender/internal/api/handlers/health"
	productHandler "gift-recommender/internal/api/handlers/product"
	"gift-recommender/internal/api/middleware"
	"gift-recommender/internal/infrastructure/config"
	"gift-recommender/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc *Services) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	router.Use(cors.New(corsConfig(cfg.CORS.AllowedOrigins)))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	router.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	})

	router.GET("/", health.Root)
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck(readinessChecks(svc)))
	router.GET("/live", health.LivenessCheck)

	protect := middleware.Protect(svc.Tokens, svc.Users)
	recommendations := handlers.NewRecommendationHandler(svc.Recommendations)
	authH := authHandler.NewHandler(svc.Users, svc.Tokens)
	giftH := giftHandler.NewHandler(svc.Gifts)
	adminH := admin.NewHandler(svc.Users, svc.Gifts)
	productH := productHandler.NewHandler(svc.Products)

	api := router.Group("/api")
	{
		api.POST("/recommendations", middleware.Deduplication(cfg.DedupWindow), recommendations.Generate)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authH.Register)
			authGroup.POST("/login", authH.Login)
		}

		api.GET("/users/profile", protect, authH.Profile)

		giftGroup := api.Group("/gifts", protect)
		{
			giftGroup.GET("", giftH.List)
			giftGroup.POST("", giftH.Save)
			giftGroup.DELETE("/:id", giftH.Delete)
		}

		adminGroup := api.Group("/admin", protect, middleware.AdminOnly())
		{
			adminGroup.GET("/users", adminH.Users)
			adminGroup.GET("/stats", adminH.Stats)
			adminGroup.GET("/gifts", adminH.Gifts)
			adminGroup.DELETE("/gifts/:id", adminH.DeleteGift)
		}

		api.GET("/products/:id", productH.Get)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.ErrNotFound.Response())
	})

	common.LogInfo("Router setup completed successfully",
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
		zap.Strings("cors_origins", cfg.CORS.AllowedOrigins),
	)
	return router
}

// corsConfig 未設定來源或包含 * 時允許所有來源
func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			config.AllowAllOrigins = true
			return config
		}
	}
	if len(origins) == 0 {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = origins
	return config
}

func readinessChecks(svc *Services) map[string]health.Check {
	checks := map[string]health.Check{}
	if svc.db != nil {
		checks["database"] = func(ctx context.Context) error {
			return svc.db.PingContext(ctx)
		}
	}
	return checks
}

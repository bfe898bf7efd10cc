package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gift-recommender/internal/api"
	"gift-recommender/internal/infrastructure/config"
	"gift-recommender/internal/infrastructure/database"
	"gift-recommender/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定", zap.Any("config", cfg.Summary()))

	ctx := context.Background()

	// 未設定資料庫時使用記憶體儲存
	var db *sql.DB
	if cfg.Database.URL != "" {
		db, err = database.Open(ctx, cfg.Database)
		if err != nil {
			common.LogFatal("Failed to connect database", zap.Error(err))
		}
		defer db.Close()

		if err := database.EnsureSchema(ctx, db); err != nil {
			common.LogFatal("Failed to ensure schema", zap.Error(err))
		}
	} else {
		common.LogWarn("未設定 DATABASE_URL，使用記憶體儲存，重啟後資料將遺失")
	}

	services, err := api.NewServices(ctx, cfg, db)
	if err != nil {
		common.LogFatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	router := api.SetupRouter(cfg, services)

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}

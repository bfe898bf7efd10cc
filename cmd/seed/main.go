package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"gift-recommender/internal/core/product"
	"gift-recommender/internal/core/user"
	"gift-recommender/internal/infrastructure/config"
	"gift-recommender/internal/infrastructure/database"
	"gift-recommender/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// catalogFile 商品匯入檔格式
type catalogFile struct {
	Products []common.Product `json:"products"`
}

func main() {
	_ = godotenv.Load()

	var (
		seedAdmin     = flag.Bool("admin", false, "create the admin account if it does not exist")
		adminEmail    = flag.String("email", envOr("ADMIN_EMAIL", "admin@gmail.com"), "admin email")
		adminUsername = flag.String("username", envOr("ADMIN_USERNAME", "admin"), "admin username")
		adminPassword = flag.String("password", envOr("ADMIN_PASSWORD", "admin123"), "admin password")
		productsPath  = flag.String("products", "", "replace the product catalog from a JSON file")
	)
	flag.Parse()

	if !*seedAdmin && *productsPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	if cfg.Database.URL == "" {
		common.LogFatal("DATABASE_URL is required for seeding")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		common.LogFatal("Failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		common.LogFatal("Failed to ensure schema", zap.Error(err))
	}

	if *seedAdmin {
		users := user.NewService(user.NewPostgresRepository(db))
		admin, created, err := users.EnsureAdmin(ctx, user.RegisterInput{
			Username: *adminUsername,
			Email:    *adminEmail,
			Password: *adminPassword,
		})
		if err != nil {
			common.LogFatal("建立管理員失敗", zap.Error(err))
		}
		if created {
			common.LogInfo("管理員已建立", zap.String("email", admin.Email), zap.String("username", admin.Username))
		} else {
			common.LogInfo("管理員已存在", zap.String("email", admin.Email))
		}
	}

	if *productsPath != "" {
		products, err := readCatalog(*productsPath)
		if err != nil {
			common.LogFatal("讀取商品檔失敗", zap.String("path", *productsPath), zap.Error(err))
		}

		catalog := product.NewService(product.NewPostgresRepository(db))
		if err := catalog.ReplaceAll(ctx, products); err != nil {
			common.LogFatal("匯入商品失敗", zap.Error(err))
		}
		common.LogInfo("商品目錄已更新", zap.Int("count", len(products)))
	}
}

func readCatalog(path string) ([]common.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file catalogFile
	if err := common.ParseJSONBytes(data, &file); err != nil {
		return nil, fmt.Errorf("invalid catalog file: %w", err)
	}
	return file.Products, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

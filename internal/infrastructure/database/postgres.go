package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gift-recommender/internal/infrastructure/config"
	"gift-recommender/internal/pkg/common"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// schemaStatements 建表語句，重複執行不會出錯
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS gifts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		price TEXT NOT NULL,
		category TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS gifts_user_id_idx ON gifts (user_id)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		position SERIAL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL,
		image_url TEXT NOT NULL,
		category TEXT NOT NULL,
		tags TEXT[],
		rating DOUBLE PRECISION,
		reviews INTEGER
	)`,
}

// Open 建立 Postgres 連線池並確認可連線
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	common.LogInfo("資料庫已連線",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)
	return db, nil
}

// EnsureSchema 建立所需的資料表
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

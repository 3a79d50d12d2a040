package db

import (
	"context"
	"time"

	"taskquest/internal/config"
	"taskquest/internal/logger"
	"taskquest/internal/repository"
	"taskquest/internal/repository/postgres"
	"taskquest/internal/repository/sqlite"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(dsn string) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}

	if err := db.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	logger.Info("database connected")
	return db
}

// OpenStore opens the store selected by cfg.DBDriver. SQLite databases are
// migrated on open; Postgres is migrated by cmd/migrate_apply.
func OpenStore(cfg *config.Config) repository.Store {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			logger.Fatal("failed to open sqlite database", "path", cfg.SQLitePath, "error", err)
		}
		logger.Info("database connected", "driver", "sqlite", "path", cfg.SQLitePath)
		return s
	default:
		return postgres.NewStore(Connect(cfg.DatabaseURL))
	}
}

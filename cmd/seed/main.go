package main

import (
	"context"

	"go.uber.org/zap"

	"gamehub/internal/config"
	"gamehub/internal/db"
	"gamehub/internal/logging"
	"gamehub/internal/repository"
	"gamehub/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting seed script")

	// Connect to database
	gormDB, err := db.Open(cfg.DBDriver, cfg.MySQLDSN, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	if cfg.SeedAdminPassword == "" || cfg.SeedModeratorPassword == "" {
		logger.Warn("SEED_ADMIN_PASSWORD or SEED_MODERATOR_PASSWORD is empty; accounts without a password are skipped")
	}

	store := repository.NewStore(gormDB)
	accounts := service.DefaultAccounts(cfg.SeedAdminPassword, cfg.SeedModeratorPassword)
	created, err := service.EnsureDefaultAccounts(context.Background(), store, accounts, logger)
	if err != nil {
		logger.Fatal("seed default accounts", zap.Error(err))
	}

	logger.Info("seed completed", zap.Int("created", created), zap.Int("skipped", len(accounts)-created))
}

package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"protocol-system/internal/repositories"
	"protocol-system/pkg/config"
	"protocol-system/pkg/database/postgresql"
	applogger "protocol-system/pkg/logger"
	"protocol-system/seeders"
)

func main() {
	migrate := flag.Bool("migrate", true, "apply pending migrations before seeding")
	flag.Parse()

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log)
	defer logger.Sync()

	ctx := context.Background()
	pgCfg := cfg.Postgres
	pgCfg.MigrateOnStart = *migrate

	pool, err := postgresql.ConnectDB(ctx, pgCfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := seeders.Run(ctx, repositories.NewPostgresStores(pool, logger), cfg.Seed, logger); err != nil {
		logger.Error("seeding failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("seeding finished")
}

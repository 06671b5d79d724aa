package seeders

import (
	"context"

	"go.uber.org/zap"

	"protocol-system/internal/repositories"
	"protocol-system/pkg/config"
)

// Run creates the reference sectors and accounts. It is idempotent: rows
// that already exist are left untouched.
func Run(ctx context.Context, stores repositories.Stores, cfg config.SeedConfig, logger *zap.Logger) error {
	if err := seedSectors(ctx, stores.Sectors, logger); err != nil {
		return err
	}
	return seedUsers(ctx, stores.Users, cfg, logger)
}

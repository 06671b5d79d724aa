package seeders

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"protocol-system/internal/entities"
	"protocol-system/internal/repositories"
	"protocol-system/pkg/config"
	apperrors "protocol-system/pkg/errors"
	"protocol-system/pkg/utils"
)

func seedUsers(ctx context.Context, userRepo repositories.UserRepositoryInterface, cfg config.SeedConfig, logger *zap.Logger) error {
	adminHash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	userHash, err := utils.HashPassword(cfg.UserPassword)
	if err != nil {
		return err
	}

	created := 0
	for _, item := range usersData {
		_, err := userRepo.FindUserByLogin(ctx, item.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("look up user %q: %w", item.Username, err)
		}

		hash := userHash
		if item.Role == "ADMIN" {
			hash = adminHash
		}
		user := entities.User{
			Username: item.Username,
			Password: hash,
			Sector:   item.Sector,
			Role:     item.Role,
			Level:    item.Level,
		}
		if err := userRepo.CreateUser(ctx, &user); err != nil {
			return fmt.Errorf("user %q: %w", item.Username, err)
		}
		created++
	}
	logger.Info("users seeded", zap.Int("created", created), zap.Int("total", len(usersData)))
	return nil
}

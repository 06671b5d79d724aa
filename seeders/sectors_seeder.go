package seeders

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"protocol-system/internal/entities"
	"protocol-system/internal/repositories"
	apperrors "protocol-system/pkg/errors"
)

func seedSectors(ctx context.Context, sectorRepo repositories.SectorRepositoryInterface, logger *zap.Logger) error {
	created := 0
	for _, item := range sectorsData {
		code := item.Code
		err := sectorRepo.CreateSector(ctx, &entities.Sector{Name: item.Name, Code: &code})
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return fmt.Errorf("sector %q: %w", item.Name, err)
		}
		created++
	}
	logger.Info("sectors seeded", zap.Int("created", created), zap.Int("total", len(sectorsData)))
	return nil
}

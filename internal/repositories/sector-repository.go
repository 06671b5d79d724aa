package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"protocol-system/internal/entities"
	apperrors "protocol-system/pkg/errors"
)

const sectorTable = "sector"

type SectorRepositoryInterface interface {
	FindSector(ctx context.Context, name string) (*entities.Sector, error)
	GetSectors(ctx context.Context) ([]entities.Sector, error)
	CreateSector(ctx context.Context, sector *entities.Sector) error
}

type SectorRepository struct {
	storage *pgxpool.Pool
}

func NewSectorRepository(storage *pgxpool.Pool) SectorRepositoryInterface {
	return &SectorRepository{storage: storage}
}

func (r *SectorRepository) FindSector(ctx context.Context, name string) (*entities.Sector, error) {
	query, args, err := psql.Select("name", "code", "created_at", "deleted_at").From(sectorTable).
		Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return nil, err
	}
	var s entities.Sector
	err = querierFrom(ctx, r.storage).QueryRow(ctx, query, args...).Scan(&s.Name, &s.Code, &s.CreatedAt, &s.DeletedAt)
	if err != nil {
		return nil, translateError(err, err)
	}
	return &s, nil
}

func (r *SectorRepository) GetSectors(ctx context.Context) ([]entities.Sector, error) {
	query, args, err := psql.Select("name", "code", "created_at", "deleted_at").From(sectorTable).
		Where(sq.Eq{"deleted_at": nil}).OrderBy("name").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := querierFrom(ctx, r.storage).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sectors: %w", err)
	}
	defer rows.Close()

	sectors := make([]entities.Sector, 0)
	for rows.Next() {
		var s entities.Sector
		if err := rows.Scan(&s.Name, &s.Code, &s.CreatedAt, &s.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan sector: %w", err)
		}
		sectors = append(sectors, s)
	}
	return sectors, rows.Err()
}

func (r *SectorRepository) CreateSector(ctx context.Context, sector *entities.Sector) error {
	query, args, err := psql.Insert(sectorTable).Columns("name", "code").
		Values(sector.Name, sector.Code).
		Suffix("ON CONFLICT (name) DO NOTHING RETURNING created_at").
		ToSql()
	if err != nil {
		return err
	}
	err = querierFrom(ctx, r.storage).QueryRow(ctx, query, args...).Scan(&sector.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.AlreadyExists("sector %q already exists", sector.Name)
	}
	return err
}

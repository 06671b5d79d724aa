package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"protocol-system/internal/entities"
	apperrors "protocol-system/pkg/errors"
)

const movementTable = "document_movement"

var movementColumns = []string{"document_id", "user_id", "from_sector", "to_sector", "created_at"}

// DocumentMovementRepositoryInterface holds at most one movement per document.
// The primary key on document_id is what rejects a second concurrent Create.
type DocumentMovementRepositoryInterface interface {
	Create(ctx context.Context, movement *entities.DocumentMovement) error
	FindActiveFor(ctx context.Context, documentID uint64) (*entities.DocumentMovement, error)
	ListBySourceSector(ctx context.Context, sector string) ([]entities.DocumentMovement, error)
	ListByTargetSector(ctx context.Context, sector string) ([]entities.DocumentMovement, error)
	Delete(ctx context.Context, movement entities.DocumentMovement) error
	DeleteByDocumentID(ctx context.Context, documentID uint64) error
}

type DocumentMovementRepository struct {
	storage *pgxpool.Pool
}

func NewDocumentMovementRepository(storage *pgxpool.Pool) DocumentMovementRepositoryInterface {
	return &DocumentMovementRepository{storage: storage}
}

func (r *DocumentMovementRepository) Create(ctx context.Context, movement *entities.DocumentMovement) error {
	query, args, err := psql.Insert(movementTable).
		Columns("document_id", "user_id", "from_sector", "to_sector").
		Values(movement.DocumentID, movement.UserID, movement.FromSector, movement.ToSector).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return err
	}
	err = querierFrom(ctx, r.storage).QueryRow(ctx, query, args...).Scan(&movement.CreatedAt)
	err = translateError(err, apperrors.ErrConflict)
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NotFound("document %d not found", movement.DocumentID)
	}
	return err
}

func (r *DocumentMovementRepository) FindActiveFor(ctx context.Context, documentID uint64) (*entities.DocumentMovement, error) {
	query, args, err := psql.Select(movementColumns...).From(movementTable).
		Where(sq.Eq{"document_id": documentID}).ToSql()
	if err != nil {
		return nil, err
	}
	var m entities.DocumentMovement
	err = querierFrom(ctx, r.storage).QueryRow(ctx, query, args...).
		Scan(&m.DocumentID, &m.UserID, &m.FromSector, &m.ToSector, &m.CreatedAt)
	if err != nil {
		return nil, translateError(err, err)
	}
	return &m, nil
}

func (r *DocumentMovementRepository) list(ctx context.Context, where sq.Eq) ([]entities.DocumentMovement, error) {
	query, args, err := psql.Select(movementColumns...).From(movementTable).
		Where(where).OrderBy("created_at", "document_id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := querierFrom(ctx, r.storage).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()

	movements := make([]entities.DocumentMovement, 0)
	for rows.Next() {
		var m entities.DocumentMovement
		if err := rows.Scan(&m.DocumentID, &m.UserID, &m.FromSector, &m.ToSector, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func (r *DocumentMovementRepository) ListBySourceSector(ctx context.Context, sector string) ([]entities.DocumentMovement, error) {
	return r.list(ctx, sq.Eq{"from_sector": sector})
}

func (r *DocumentMovementRepository) ListByTargetSector(ctx context.Context, sector string) ([]entities.DocumentMovement, error) {
	return r.list(ctx, sq.Eq{"to_sector": sector})
}

// Delete removes exactly the given movement. When a concurrent caller has
// already removed it, no row matches and ErrNotFound is returned.
func (r *DocumentMovementRepository) Delete(ctx context.Context, movement entities.DocumentMovement) error {
	query, args, err := psql.Delete(movementTable).Where(sq.Eq{
		"document_id": movement.DocumentID,
		"from_sector": movement.FromSector,
		"to_sector":   movement.ToSector,
	}).ToSql()
	if err != nil {
		return err
	}
	tag, err := querierFrom(ctx, r.storage).Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *DocumentMovementRepository) DeleteByDocumentID(ctx context.Context, documentID uint64) error {
	query, args, err := psql.Delete(movementTable).Where(sq.Eq{"document_id": documentID}).ToSql()
	if err != nil {
		return err
	}
	_, err = querierFrom(ctx, r.storage).Exec(ctx, query, args...)
	return err
}

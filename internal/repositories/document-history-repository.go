package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"protocol-system/internal/entities"
)

const historyTable = "document_history"

var historyColumns = []string{"id", "document_id", "action", "sector", "description", "user_id", "username", "created_at"}

// DocumentHistoryRepositoryInterface is append-only: there is no update or delete.
type DocumentHistoryRepositoryInterface interface {
	Append(ctx context.Context, entry *entities.DocumentHistory) error
	ListByDocumentID(ctx context.Context, documentID uint64) ([]entities.DocumentHistory, error)
	ListByDocumentIDs(ctx context.Context, documentIDs []uint64) (map[uint64][]entities.DocumentHistory, error)
}

type DocumentHistoryRepository struct {
	storage *pgxpool.Pool
}

func NewDocumentHistoryRepository(storage *pgxpool.Pool) DocumentHistoryRepositoryInterface {
	return &DocumentHistoryRepository{storage: storage}
}

func (r *DocumentHistoryRepository) Append(ctx context.Context, entry *entities.DocumentHistory) error {
	query, args, err := psql.Insert(historyTable).
		Columns("document_id", "action", "sector", "description", "user_id", "username").
		Values(entry.DocumentID, string(entry.Action), entry.Sector, entry.Description, entry.UserID, entry.Username).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := querierFrom(ctx, r.storage).QueryRow(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (r *DocumentHistoryRepository) ListByDocumentID(ctx context.Context, documentID uint64) ([]entities.DocumentHistory, error) {
	grouped, err := r.ListByDocumentIDs(ctx, []uint64{documentID})
	if err != nil {
		return nil, err
	}
	if entries, ok := grouped[documentID]; ok {
		return entries, nil
	}
	return []entities.DocumentHistory{}, nil
}

func (r *DocumentHistoryRepository) ListByDocumentIDs(ctx context.Context, documentIDs []uint64) (map[uint64][]entities.DocumentHistory, error) {
	result := make(map[uint64][]entities.DocumentHistory, len(documentIDs))
	if len(documentIDs) == 0 {
		return result, nil
	}

	query, args, err := psql.Select(historyColumns...).From(historyTable).
		Where(sq.Eq{"document_id": documentIDs}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := querierFrom(ctx, r.storage).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h entities.DocumentHistory
		var action string
		if err := rows.Scan(&h.ID, &h.DocumentID, &action, &h.Sector, &h.Description, &h.UserID, &h.Username, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		h.Action = entities.HistoryAction(action)
		result[h.DocumentID] = append(result[h.DocumentID], h)
	}
	return result, rows.Err()
}

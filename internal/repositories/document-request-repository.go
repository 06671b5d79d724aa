package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"protocol-system/internal/entities"
)

const requestTable = "document_requests"

var requestColumns = []string{
	"id", "document_id", "requesting_sector", "user_id", "reason", "created_at", "modified_at", "deleted_at",
}

type DocumentRequestRepositoryInterface interface {
	Create(ctx context.Context, request *entities.DocumentRequest) error
	FindByDocumentID(ctx context.Context, documentID uint64) ([]entities.DocumentRequest, error)
	FindByUserID(ctx context.Context, userID uint64) ([]entities.DocumentRequest, error)
	FindOpenRequestsTargetingSector(ctx context.Context, sector string) ([]entities.DocumentRequestWithDocument, error)
	FindOpenRequestsByUser(ctx context.Context, userID uint64) ([]entities.DocumentRequestWithDocument, error)
	DeleteByDocumentID(ctx context.Context, documentID uint64) error
}

type DocumentRequestRepository struct {
	storage *pgxpool.Pool
}

func NewDocumentRequestRepository(storage *pgxpool.Pool) DocumentRequestRepositoryInterface {
	return &DocumentRequestRepository{storage: storage}
}

func (r *DocumentRequestRepository) Create(ctx context.Context, request *entities.DocumentRequest) error {
	query, args, err := psql.Insert(requestTable).
		Columns("document_id", "requesting_sector", "user_id", "reason").
		Values(request.DocumentID, request.RequestingSector, request.UserID, request.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := querierFrom(ctx, r.storage).QueryRow(ctx, query, args...).Scan(&request.ID, &request.CreatedAt); err != nil {
		return fmt.Errorf("insert request: %w", translateError(err, err))
	}
	return nil
}

func (r *DocumentRequestRepository) findMany(ctx context.Context, where sq.Eq) ([]entities.DocumentRequest, error) {
	query, args, err := psql.Select(requestColumns...).From(requestTable).
		Where(where).Where(sq.Eq{"deleted_at": nil}).OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := querierFrom(ctx, r.storage).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	requests := make([]entities.DocumentRequest, 0)
	for rows.Next() {
		var req entities.DocumentRequest
		if err := rows.Scan(&req.ID, &req.DocumentID, &req.RequestingSector, &req.UserID, &req.Reason,
			&req.CreatedAt, &req.ModifiedAt, &req.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (r *DocumentRequestRepository) FindByDocumentID(ctx context.Context, documentID uint64) ([]entities.DocumentRequest, error) {
	return r.findMany(ctx, sq.Eq{"document_id": documentID})
}

func (r *DocumentRequestRepository) FindByUserID(ctx context.Context, userID uint64) ([]entities.DocumentRequest, error) {
	return r.findMany(ctx, sq.Eq{"user_id": userID})
}

func (r *DocumentRequestRepository) selectWithDocument() sq.SelectBuilder {
	return psql.Select(
		"r.id", "r.document_id", "r.requesting_sector", "r.user_id", "r.reason", "r.created_at", "r.modified_at",
		"d.id", "d.number", "d.name", "d.observations", "d.type", "d.sector",
		"d.created_by", "d.created_by_username", "d.created_at", "d.modified_at",
		"COALESCE(u.username, '')",
	).From(requestTable + " r").
		Join(documentTable + " d ON d.id = r.document_id").
		LeftJoin("users u ON u.id = r.user_id").
		Where(sq.Eq{"r.deleted_at": nil, "d.deleted_at": nil}).
		OrderBy("r.created_at", "r.id")
}

func scanRequestWithDocument(rows pgx.Rows) (entities.DocumentRequestWithDocument, error) {
	var item entities.DocumentRequestWithDocument
	req, doc := &item.Request, &item.Document
	var docType string
	err := rows.Scan(
		&req.ID, &req.DocumentID, &req.RequestingSector, &req.UserID, &req.Reason, &req.CreatedAt, &req.ModifiedAt,
		&doc.ID, &doc.Number, &doc.Name, &doc.Observations, &docType, &doc.Sector,
		&doc.CreatedBy, &doc.CreatedByUsername, &doc.CreatedAt, &doc.ModifiedAt,
		&item.RequestedByUsername,
	)
	doc.Type = entities.DocumentType(docType)
	return item, err
}

func (r *DocumentRequestRepository) findWithDocument(ctx context.Context, where sq.Sqlizer) ([]entities.DocumentRequestWithDocument, error) {
	query, args, err := r.selectWithDocument().Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := querierFrom(ctx, r.storage).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query requests with document: %w", err)
	}
	defer rows.Close()

	items := make([]entities.DocumentRequestWithDocument, 0)
	for rows.Next() {
		item, err := scanRequestWithDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request with document: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// FindOpenRequestsTargetingSector returns open requests other sectors made
// for documents the sector currently holds.
func (r *DocumentRequestRepository) FindOpenRequestsTargetingSector(ctx context.Context, sector string) ([]entities.DocumentRequestWithDocument, error) {
	return r.findWithDocument(ctx, sq.And{
		sq.Eq{"d.sector": sector},
		sq.NotEq{"r.requesting_sector": sector},
	})
}

func (r *DocumentRequestRepository) FindOpenRequestsByUser(ctx context.Context, userID uint64) ([]entities.DocumentRequestWithDocument, error) {
	return r.findWithDocument(ctx, sq.Eq{"r.user_id": userID})
}

func (r *DocumentRequestRepository) DeleteByDocumentID(ctx context.Context, documentID uint64) error {
	query, args, err := psql.Delete(requestTable).Where(sq.Eq{"document_id": documentID}).ToSql()
	if err != nil {
		return err
	}
	_, err = querierFrom(ctx, r.storage).Exec(ctx, query, args...)
	return err
}

package repositories

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"protocol-system/internal/entities"
	apperrors "protocol-system/pkg/errors"
)

const documentTable = "document"

var documentColumns = []string{
	"id", "number", "name", "observations", "type", "sector",
	"created_by", "created_by_username", "created_at", "modified_at", "deleted_at",
}

type DocumentRepositoryInterface interface {
	Create(ctx context.Context, doc *entities.Document) error
	FindByID(ctx context.Context, id uint64) (*entities.Document, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]entities.Document, error)
	FindBySector(ctx context.Context, sector string) ([]entities.Document, error)
	FindAll(ctx context.Context, since *time.Time) ([]entities.Document, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	Update(ctx context.Context, doc *entities.Document) error
	HardDelete(ctx context.Context, id uint64) error
}

type DocumentRepository struct {
	storage *pgxpool.Pool
}

func NewDocumentRepository(storage *pgxpool.Pool) DocumentRepositoryInterface {
	return &DocumentRepository{storage: storage}
}

func scanDocument(row pgx.Row) (*entities.Document, error) {
	var d entities.Document
	var docType string
	err := row.Scan(
		&d.ID, &d.Number, &d.Name, &d.Observations, &docType, &d.Sector,
		&d.CreatedBy, &d.CreatedByUsername, &d.CreatedAt, &d.ModifiedAt, &d.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Type = entities.DocumentType(docType)
	return &d, nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *entities.Document) error {
	query, args, err := psql.Insert(documentTable).
		Columns("number", "name", "observations", "type", "sector", "created_by", "created_by_username").
		Values(doc.Number, doc.Name, doc.Observations, string(doc.Type), doc.Sector, doc.CreatedBy, doc.CreatedByUsername).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	err = querierFrom(ctx, r.storage).QueryRow(ctx, query, args...).Scan(&doc.ID, &doc.CreatedAt)
	return translateError(err, apperrors.AlreadyExists("document number %q is already in use", doc.Number))
}

func (r *DocumentRepository) findOne(ctx context.Context, where sq.Sqlizer) (*entities.Document, error) {
	query, args, err := psql.Select(documentColumns...).From(documentTable).
		Where(where).Where(sq.Eq{"deleted_at": nil}).ToSql()
	if err != nil {
		return nil, err
	}
	doc, err := scanDocument(querierFrom(ctx, r.storage).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, err)
	}
	return doc, nil
}

func (r *DocumentRepository) findMany(ctx context.Context, builder sq.SelectBuilder) ([]entities.Document, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := querierFrom(ctx, r.storage).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := make([]entities.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

func (r *DocumentRepository) selectActive() sq.SelectBuilder {
	return psql.Select(documentColumns...).From(documentTable).
		Where(sq.Eq{"deleted_at": nil}).
		OrderBy("created_at", "id")
}

func (r *DocumentRepository) FindByID(ctx context.Context, id uint64) (*entities.Document, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *DocumentRepository) FindByIDs(ctx context.Context, ids []uint64) ([]entities.Document, error) {
	if len(ids) == 0 {
		return []entities.Document{}, nil
	}
	return r.findMany(ctx, r.selectActive().Where(sq.Eq{"id": ids}))
}

func (r *DocumentRepository) FindBySector(ctx context.Context, sector string) ([]entities.Document, error) {
	return r.findMany(ctx, r.selectActive().Where(sq.Eq{"sector": sector}))
}

func (r *DocumentRepository) FindAll(ctx context.Context, since *time.Time) ([]entities.Document, error) {
	builder := r.selectActive()
	if since != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *since})
	}
	return r.findMany(ctx, builder)
}

func (r *DocumentRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	query, args, err := psql.Select("1").Prefix("SELECT EXISTS (").From(documentTable).
		Where(sq.Eq{"number": number, "deleted_at": nil}).Suffix(")").ToSql()
	if err != nil {
		return false, err
	}
	var exists bool
	if err := querierFrom(ctx, r.storage).QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *DocumentRepository) Update(ctx context.Context, doc *entities.Document) error {
	query, args, err := psql.Update(documentTable).
		Set("number", doc.Number).
		Set("name", doc.Name).
		Set("observations", doc.Observations).
		Set("type", string(doc.Type)).
		Set("sector", doc.Sector).
		Set("modified_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": doc.ID, "deleted_at": nil}).
		Suffix("RETURNING modified_at").
		ToSql()
	if err != nil {
		return err
	}
	err = querierFrom(ctx, r.storage).QueryRow(ctx, query, args...).Scan(&doc.ModifiedAt)
	return translateError(err, apperrors.AlreadyExists("document number %q is already in use", doc.Number))
}

func (r *DocumentRepository) HardDelete(ctx context.Context, id uint64) error {
	query, args, err := psql.Delete(documentTable).Where(sq.Eq{"id": id}).ToSql()
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

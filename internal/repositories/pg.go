package repositories

import (
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "protocol-system/pkg/errors"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// translateError maps driver errors onto the application sentinels.
// onUnique decides what a unique-constraint violation means for the caller.
// A foreign-key violation means the referenced row is gone.
func translateError(err error, onUnique error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return onUnique
		case foreignKeyViolation:
			return apperrors.ErrNotFound
		}
	}
	return err
}

package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	apperrors "protocol-system/pkg/errors"
)

func TestTranslateError(t *testing.T) {
	onUnique := apperrors.AlreadyExists("taken")
	other := errors.New("connection reset")

	cases := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, apperrors.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: uniqueViolation}, onUnique},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolation}), onUnique},
		{"foreign key violation", &pgconn.PgError{Code: foreignKeyViolation}, apperrors.ErrNotFound},
		{"other pg error", &pgconn.PgError{Code: "40001"}, nil},
		{"other error", other, other},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := translateError(tc.err, onUnique)
			switch {
			case tc.err == nil:
				assert.NoError(t, got)
			case tc.want == nil:
				assert.Equal(t, tc.err, got)
			default:
				assert.ErrorIs(t, got, tc.want)
			}
		})
	}
}

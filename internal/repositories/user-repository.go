package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"protocol-system/internal/entities"
	apperrors "protocol-system/pkg/errors"
)

const userTable = "users"

var userColumns = []string{"id", "username", "password", "sector", "role", "level", "created_at", "deleted_at"}

type UserRepositoryInterface interface {
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByLogin(ctx context.Context, username string) (*entities.User, error)
	FindUsersBySector(ctx context.Context, sector string) ([]entities.User, error)
	CreateUser(ctx context.Context, user *entities.User) error
	DeactivateUser(ctx context.Context, id uint64) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Sector, &user.Role, &user.Level,
		&user.CreatedAt, &user.DeletedAt)
	if err != nil {
		return nil, translateError(err, err)
	}
	return &user, nil
}

// FindUser returns deactivated users too; callers check IsDeleted.
func (r *UserRepository) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	query, args, err := psql.Select(userColumns...).From(userTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(querierFrom(ctx, r.storage).QueryRow(ctx, query, args...))
}

func (r *UserRepository) FindUserByLogin(ctx context.Context, username string) (*entities.User, error) {
	query, args, err := psql.Select(userColumns...).From(userTable).
		Where(sq.Eq{"username": username, "deleted_at": nil}).Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(querierFrom(ctx, r.storage).QueryRow(ctx, query, args...))
}

func (r *UserRepository) FindUsersBySector(ctx context.Context, sector string) ([]entities.User, error) {
	query, args, err := psql.Select(userColumns...).From(userTable).
		Where(sq.Eq{"sector": sector, "deleted_at": nil}).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := querierFrom(ctx, r.storage).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entities.User) error {
	query, args, err := psql.Insert(userTable).
		Columns("username", "password", "sector", "role", "level").
		Values(user.Username, user.Password, user.Sector, user.Role, user.Level).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	err = querierFrom(ctx, r.storage).QueryRow(ctx, query, args...).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		r.logger.Error("failed to create user", zap.String("username", user.Username), zap.Error(err))
	}
	return translateError(err, apperrors.AlreadyExists("username %q is already taken", user.Username))
}

func (r *UserRepository) DeactivateUser(ctx context.Context, id uint64) error {
	query, args, err := psql.Update(userTable).
		Set("deleted_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := querierFrom(ctx, r.storage).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

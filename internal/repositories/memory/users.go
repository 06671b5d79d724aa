package memory

import (
	"context"
	"sort"

	"protocol-system/internal/entities"
	apperrors "protocol-system/pkg/errors"
)

type UserRepository struct {
	store *Store
}

func (r *UserRepository) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.st.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepository) FindUserByLogin(ctx context.Context, username string) (*entities.User, error) {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.st.users {
		if user.Username == username && !user.IsDeleted() {
			return &user, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *UserRepository) FindUsersBySector(ctx context.Context, sector string) ([]entities.User, error) {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	users := make([]entities.User, 0)
	for _, user := range r.store.st.users {
		if user.Sector == sector && !user.IsDeleted() {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entities.User) error {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.st.users {
		if existing.Username == user.Username && !existing.IsDeleted() {
			return apperrors.AlreadyExists("username %q is already taken", user.Username)
		}
	}
	r.store.st.nextUserID++
	user.ID = r.store.st.nextUserID
	user.CreatedAt = r.store.now()
	r.store.st.users[user.ID] = *user
	return nil
}

func (r *UserRepository) DeactivateUser(ctx context.Context, id uint64) error {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.st.users[id]
	if !ok || user.IsDeleted() {
		return apperrors.ErrNotFound
	}
	now := r.store.now()
	user.DeletedAt = &now
	r.store.st.users[id] = user
	return nil
}

package memory

import (
	"context"
	"sort"

	"protocol-system/internal/entities"
	apperrors "protocol-system/pkg/errors"
)

type DocumentMovementRepository struct {
	store *Store
}

func (r *DocumentMovementRepository) Create(ctx context.Context, movement *entities.DocumentMovement) error {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.st.movements[movement.DocumentID]; exists {
		return apperrors.ErrConflict
	}
	movement.CreatedAt = r.store.now()
	r.store.st.movements[movement.DocumentID] = *movement
	return nil
}

func (r *DocumentMovementRepository) FindActiveFor(ctx context.Context, documentID uint64) (*entities.DocumentMovement, error) {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	movement, ok := r.store.st.movements[documentID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &movement, nil
}

func (r *DocumentMovementRepository) list(ctx context.Context, keep func(entities.DocumentMovement) bool) ([]entities.DocumentMovement, error) {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	movements := make([]entities.DocumentMovement, 0)
	for _, m := range r.store.st.movements {
		if keep(m) {
			movements = append(movements, m)
		}
	}
	sort.Slice(movements, func(i, j int) bool { return movements[i].DocumentID < movements[j].DocumentID })
	return movements, nil
}

func (r *DocumentMovementRepository) ListBySourceSector(ctx context.Context, sector string) ([]entities.DocumentMovement, error) {
	return r.list(ctx, func(m entities.DocumentMovement) bool { return m.FromSector == sector })
}

func (r *DocumentMovementRepository) ListByTargetSector(ctx context.Context, sector string) ([]entities.DocumentMovement, error) {
	return r.list(ctx, func(m entities.DocumentMovement) bool { return m.ToSector == sector })
}

func (r *DocumentMovementRepository) Delete(ctx context.Context, movement entities.DocumentMovement) error {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.st.movements[movement.DocumentID]
	if !ok || current.FromSector != movement.FromSector || current.ToSector != movement.ToSector {
		return apperrors.ErrNotFound
	}
	delete(r.store.st.movements, movement.DocumentID)
	return nil
}

func (r *DocumentMovementRepository) DeleteByDocumentID(ctx context.Context, documentID uint64) error {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.st.movements, documentID)
	return nil
}

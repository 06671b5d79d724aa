package memory

import (
	"context"

	"protocol-system/internal/entities"
)

// DocumentHistoryRepository keeps entries in insertion order, which is
// also their creation order.
type DocumentHistoryRepository struct {
	store *Store
}

func (r *DocumentHistoryRepository) Append(ctx context.Context, entry *entities.DocumentHistory) error {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.st.nextHistoryID++
	entry.ID = r.store.st.nextHistoryID
	entry.CreatedAt = r.store.now()
	r.store.st.history = append(r.store.st.history, *entry)
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
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	wanted := make(map[uint64]struct{}, len(documentIDs))
	for _, id := range documentIDs {
		wanted[id] = struct{}{}
	}
	result := make(map[uint64][]entities.DocumentHistory, len(documentIDs))
	for _, entry := range r.store.st.history {
		if _, ok := wanted[entry.DocumentID]; ok {
			result[entry.DocumentID] = append(result[entry.DocumentID], entry)
		}
	}
	return result, nil
}

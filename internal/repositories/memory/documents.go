package memory

import (
	"context"
	"sort"
	"time"

	"protocol-system/internal/entities"
	apperrors "protocol-system/pkg/errors"
)

type DocumentRepository struct {
	store *Store
}

func sortDocuments(docs []entities.Document) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})
}

func (r *DocumentRepository) numberTaken(number string, exceptID uint64) bool {
	for _, doc := range r.store.st.documents {
		if doc.ID != exceptID && doc.Number == number && !doc.IsDeleted() {
			return true
		}
	}
	return false
}

func (r *DocumentRepository) Create(ctx context.Context, doc *entities.Document) error {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.numberTaken(doc.Number, 0) {
		return apperrors.AlreadyExists("document number %q is already in use", doc.Number)
	}
	r.store.st.nextDocumentID++
	doc.ID = r.store.st.nextDocumentID
	doc.CreatedAt = r.store.now()
	r.store.st.documents[doc.ID] = *doc
	return nil
}

func (r *DocumentRepository) FindByID(ctx context.Context, id uint64) (*entities.Document, error) {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	doc, ok := r.store.st.documents[id]
	if !ok || doc.IsDeleted() {
		return nil, apperrors.ErrNotFound
	}
	return &doc, nil
}

func (r *DocumentRepository) FindByIDs(ctx context.Context, ids []uint64) ([]entities.Document, error) {
	return r.filter(ctx, func(doc entities.Document) bool {
		for _, id := range ids {
			if doc.ID == id {
				return true
			}
		}
		return false
	})
}

func (r *DocumentRepository) FindBySector(ctx context.Context, sector string) ([]entities.Document, error) {
	return r.filter(ctx, func(doc entities.Document) bool { return doc.Sector == sector })
}

func (r *DocumentRepository) FindAll(ctx context.Context, since *time.Time) ([]entities.Document, error) {
	return r.filter(ctx, func(doc entities.Document) bool {
		return since == nil || !doc.CreatedAt.Before(*since)
	})
}

func (r *DocumentRepository) filter(ctx context.Context, keep func(entities.Document) bool) ([]entities.Document, error) {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	docs := make([]entities.Document, 0)
	for _, doc := range r.store.st.documents {
		if !doc.IsDeleted() && keep(doc) {
			docs = append(docs, doc)
		}
	}
	sortDocuments(docs)
	return docs, nil
}

func (r *DocumentRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.numberTaken(number, 0), nil
}

func (r *DocumentRepository) Update(ctx context.Context, doc *entities.Document) error {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.st.documents[doc.ID]
	if !ok || current.IsDeleted() {
		return apperrors.ErrNotFound
	}
	if r.numberTaken(doc.Number, doc.ID) {
		return apperrors.AlreadyExists("document number %q is already in use", doc.Number)
	}
	now := r.store.now()
	current.Number = doc.Number
	current.Name = doc.Name
	current.Observations = doc.Observations
	current.Type = doc.Type
	current.Sector = doc.Sector
	current.ModifiedAt = &now
	r.store.st.documents[doc.ID] = current
	doc.ModifiedAt = &now
	return nil
}

func (r *DocumentRepository) HardDelete(ctx context.Context, id uint64) error {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.st.documents[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.store.st.documents, id)
	return nil
}

package memory

import (
	"context"
	"sort"

	"protocol-system/internal/entities"
)

type DocumentRequestRepository struct {
	store *Store
}

func (r *DocumentRequestRepository) Create(ctx context.Context, request *entities.DocumentRequest) error {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.st.nextRequestID++
	request.ID = r.store.st.nextRequestID
	request.CreatedAt = r.store.now()
	r.store.st.requests[request.ID] = *request
	return nil
}

func (r *DocumentRequestRepository) openRequests(keep func(entities.DocumentRequest) bool) []entities.DocumentRequest {
	requests := make([]entities.DocumentRequest, 0)
	for _, req := range r.store.st.requests {
		if !req.IsDeleted() && keep(req) {
			requests = append(requests, req)
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].ID < requests[j].ID })
	return requests
}

func (r *DocumentRequestRepository) FindByDocumentID(ctx context.Context, documentID uint64) ([]entities.DocumentRequest, error) {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.openRequests(func(req entities.DocumentRequest) bool { return req.DocumentID == documentID }), nil
}

func (r *DocumentRequestRepository) FindByUserID(ctx context.Context, userID uint64) ([]entities.DocumentRequest, error) {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.openRequests(func(req entities.DocumentRequest) bool { return req.UserID == userID }), nil
}

func (r *DocumentRequestRepository) withDocument(keep func(entities.DocumentRequest, entities.Document) bool) []entities.DocumentRequestWithDocument {
	items := make([]entities.DocumentRequestWithDocument, 0)
	for _, req := range r.openRequests(func(entities.DocumentRequest) bool { return true }) {
		doc, ok := r.store.st.documents[req.DocumentID]
		if !ok || doc.IsDeleted() || !keep(req, doc) {
			continue
		}
		items = append(items, entities.DocumentRequestWithDocument{
			Request:             req,
			Document:            doc,
			RequestedByUsername: r.store.st.users[req.UserID].Username,
		})
	}
	return items
}

func (r *DocumentRequestRepository) FindOpenRequestsTargetingSector(ctx context.Context, sector string) ([]entities.DocumentRequestWithDocument, error) {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.withDocument(func(req entities.DocumentRequest, doc entities.Document) bool {
		return doc.Sector == sector && req.RequestingSector != sector
	}), nil
}

func (r *DocumentRequestRepository) FindOpenRequestsByUser(ctx context.Context, userID uint64) ([]entities.DocumentRequestWithDocument, error) {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.withDocument(func(req entities.DocumentRequest, _ entities.Document) bool {
		return req.UserID == userID
	}), nil
}

func (r *DocumentRequestRepository) DeleteByDocumentID(ctx context.Context, documentID uint64) error {
	defer r.store.enter(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, req := range r.store.st.requests {
		if req.DocumentID == documentID {
			delete(r.store.st.requests, id)
		}
	}
	return nil
}

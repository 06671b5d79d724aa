// Package memory keeps every repository in process memory. It backs the
// STORAGE_DRIVER=memory mode and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"protocol-system/internal/entities"
	"protocol-system/internal/repositories"
	"protocol-system/pkg/contextkeys"
)

type state struct {
	documents map[uint64]entities.Document
	history   []entities.DocumentHistory
	movements map[uint64]entities.DocumentMovement
	requests  map[uint64]entities.DocumentRequest
	users     map[uint64]entities.User
	sectors   map[string]entities.Sector

	nextDocumentID uint64
	nextHistoryID  uint64
	nextRequestID  uint64
	nextUserID     uint64
}

func newState() *state {
	return &state{
		documents: make(map[uint64]entities.Document),
		movements: make(map[uint64]entities.DocumentMovement),
		requests:  make(map[uint64]entities.DocumentRequest),
		users:     make(map[uint64]entities.User),
		sectors:   make(map[string]entities.Sector),
	}
}

func (s *state) clone() *state {
	c := *s
	c.documents = make(map[uint64]entities.Document, len(s.documents))
	for k, v := range s.documents {
		c.documents[k] = v
	}
	c.history = append([]entities.DocumentHistory(nil), s.history...)
	c.movements = make(map[uint64]entities.DocumentMovement, len(s.movements))
	for k, v := range s.movements {
		c.movements[k] = v
	}
	c.requests = make(map[uint64]entities.DocumentRequest, len(s.requests))
	for k, v := range s.requests {
		c.requests[k] = v
	}
	c.users = make(map[uint64]entities.User, len(s.users))
	for k, v := range s.users {
		c.users[k] = v
	}
	c.sectors = make(map[string]entities.Sector, len(s.sectors))
	for k, v := range s.sectors {
		c.sectors[k] = v
	}
	return &c
}

// Store is the shared state behind the repository views. Transactions are
// serialized: RunInTransaction holds txMu exclusively, calls outside a
// transaction hold it shared, so no caller observes a half-applied unit.
type Store struct {
	txMu sync.RWMutex
	mu   sync.Mutex
	st   *state
	now  func() time.Time
}

type txMarker struct{ store *Store }

func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

func (s *Store) inTx(ctx context.Context) bool {
	marker, ok := ctx.Value(contextkeys.TxKey).(*txMarker)
	return ok && marker.store == s
}

// enter acquires the shared side of txMu unless ctx already runs inside
// one of this store's transactions.
func (s *Store) enter(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.txMu.RLock()
	return s.txMu.RUnlock
}

func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snapshot)
			panic(p)
		} else if err != nil {
			s.restore(snapshot)
		}
	}()

	err = fn(context.WithValue(ctx, contextkeys.TxKey, &txMarker{store: s}))
	return err
}

func (s *Store) restore(snapshot *state) {
	s.mu.Lock()
	s.st = snapshot
	s.mu.Unlock()
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) TxManager() repositories.TxManagerInterface { return s }

func (s *Store) Documents() repositories.DocumentRepositoryInterface {
	return &DocumentRepository{store: s}
}

func (s *Store) History() repositories.DocumentHistoryRepositoryInterface {
	return &DocumentHistoryRepository{store: s}
}

func (s *Store) Movements() repositories.DocumentMovementRepositoryInterface {
	return &DocumentMovementRepository{store: s}
}

func (s *Store) Requests() repositories.DocumentRequestRepositoryInterface {
	return &DocumentRequestRepository{store: s}
}

func (s *Store) Users() repositories.UserRepositoryInterface {
	return &UserRepository{store: s}
}

func (s *Store) Sectors() repositories.SectorRepositoryInterface {
	return &SectorRepository{store: s}
}

func (s *Store) Stores() repositories.Stores {
	return repositories.Stores{
		TxManager: s.TxManager(),
		Documents: s.Documents(),
		History:   s.History(),
		Movements: s.Movements(),
		Requests:  s.Requests(),
		Users:     s.Users(),
		Sectors:   s.Sectors(),
		Ping:      s.Ping,
	}
}

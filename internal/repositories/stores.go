package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Stores is every repository of one storage driver together with its
// transaction manager.
type Stores struct {
	TxManager TxManagerInterface
	Documents DocumentRepositoryInterface
	History   DocumentHistoryRepositoryInterface
	Movements DocumentMovementRepositoryInterface
	Requests  DocumentRequestRepositoryInterface
	Users     UserRepositoryInterface
	Sectors   SectorRepositoryInterface
	Ping      func(ctx context.Context) error
}

func NewPostgresStores(pool *pgxpool.Pool, logger *zap.Logger) Stores {
	return Stores{
		TxManager: NewTxManager(pool),
		Documents: NewDocumentRepository(pool),
		History:   NewDocumentHistoryRepository(pool),
		Movements: NewDocumentMovementRepository(pool),
		Requests:  NewDocumentRequestRepository(pool),
		Users:     NewUserRepository(pool, logger),
		Sectors:   NewSectorRepository(pool),
		Ping:      pool.Ping,
	}
}

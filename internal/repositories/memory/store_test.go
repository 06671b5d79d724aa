package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"protocol-system/internal/entities"
	apperrors "protocol-system/pkg/errors"
)

func TestStore_RollbackDiscardsEveryWrite(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	boom := errors.New("boom")

	err := store.RunInTransaction(ctx, func(ctx context.Context) error {
		doc := &entities.Document{Number: "1", Name: "n", Type: entities.DocumentTypeMemo, Sector: "Finance"}
		require.NoError(t, store.Documents().Create(ctx, doc))
		require.NoError(t, store.History().Append(ctx, &entities.DocumentHistory{DocumentID: doc.ID, Action: entities.HistoryActionCreated}))
		require.NoError(t, store.Movements().Create(ctx, &entities.DocumentMovement{DocumentID: doc.ID, FromSector: "Finance", ToSector: "Archive"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	exists, err := store.Documents().ExistsByNumber(ctx, "1")
	require.NoError(t, err)
	assert.False(t, exists)

	history, err := store.History().ListByDocumentID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = store.Movements().FindActiveFor(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_NestedTransactionJoinsOuter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	err := store.RunInTransaction(ctx, func(ctx context.Context) error {
		return store.RunInTransaction(ctx, func(ctx context.Context) error {
			return store.Sectors().CreateSector(ctx, &entities.Sector{Name: "Finance"})
		})
	})
	require.NoError(t, err)

	sector, err := store.Sectors().FindSector(ctx, "Finance")
	require.NoError(t, err)
	assert.Equal(t, "Finance", sector.Name)
}

func TestMovements_OnePerDocument(t *testing.T) {
	ctx := context.Background()
	movements := NewStore().Movements()

	require.NoError(t, movements.Create(ctx, &entities.DocumentMovement{DocumentID: 7, FromSector: "A", ToSector: "B"}))
	err := movements.Create(ctx, &entities.DocumentMovement{DocumentID: 7, FromSector: "A", ToSector: "C"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	err = movements.Delete(ctx, entities.DocumentMovement{DocumentID: 7, FromSector: "A", ToSector: "C"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "only the exact movement is removed")

	require.NoError(t, movements.Delete(ctx, entities.DocumentMovement{DocumentID: 7, FromSector: "A", ToSector: "B"}))
	err = movements.Delete(ctx, entities.DocumentMovement{DocumentID: 7, FromSector: "A", ToSector: "B"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRequests_JoinWithDocumentAndRequester(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	user := &entities.User{Username: "bob", Sector: "Archive"}
	require.NoError(t, store.Users().CreateUser(ctx, user))
	doc := &entities.Document{Number: "1", Name: "n", Type: entities.DocumentTypeMemo, Sector: "Finance"}
	require.NoError(t, store.Documents().Create(ctx, doc))
	require.NoError(t, store.Requests().Create(ctx, &entities.DocumentRequest{
		DocumentID: doc.ID, RequestingSector: "Archive", UserID: user.ID, Reason: "audit",
	}))

	targeting, err := store.Requests().FindOpenRequestsTargetingSector(ctx, "Finance")
	require.NoError(t, err)
	require.Len(t, targeting, 1)
	assert.Equal(t, "bob", targeting[0].RequestedByUsername)
	assert.Equal(t, doc.ID, targeting[0].Document.ID)

	byUser, err := store.Requests().FindOpenRequestsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	none, err := store.Requests().FindOpenRequestsTargetingSector(ctx, "Archive")
	require.NoError(t, err)
	assert.Empty(t, none)

	doc.Sector = "Archive"
	require.NoError(t, store.Documents().Update(ctx, doc))
	own, err := store.Requests().FindOpenRequestsTargetingSector(ctx, "Archive")
	require.NoError(t, err)
	assert.Empty(t, own, "a sector's own request is not incoming once it holds the document")
}

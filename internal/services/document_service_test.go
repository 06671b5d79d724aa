package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"protocol-system/internal/dto"
	"protocol-system/internal/entities"
	"protocol-system/internal/events"
	"protocol-system/internal/repositories/memory"
	apperrors "protocol-system/pkg/errors"
	"protocol-system/pkg/eventbus"
)

var (
	alice = entities.Identity{UserID: 1, Username: "alice", Sector: "Finance"}
	bob   = entities.Identity{UserID: 2, Username: "bob", Sector: "Archive"}
	carol = entities.Identity{UserID: 3, Username: "carol", Sector: "Legal"}
	dave  = entities.Identity{UserID: 4, Username: "dave", Sector: "Finance"}
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event eventbus.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

type engineFixture struct {
	store     *memory.Store
	service   *DocumentService
	publisher *recordingPublisher
}

func newEngine(t *testing.T) engineFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	for _, name := range []string{"Finance", "Archive", "Legal", "Closed"} {
		require.NoError(t, store.Sectors().CreateSector(ctx, &entities.Sector{Name: name}))
	}
	for _, id := range []entities.Identity{alice, bob, carol, dave} {
		require.NoError(t, store.Users().CreateUser(ctx, &entities.User{
			Username: id.Username, Sector: id.Sector, Role: "USER", Level: "WRITE",
		}))
	}

	publisher := &recordingPublisher{}
	service := NewDocumentService(
		store.TxManager(), store.Documents(), store.History(), store.Movements(),
		store.Requests(), store.Sectors(), publisher, zap.NewNop(),
	)
	return engineFixture{store: store, service: service, publisher: publisher}
}

func (f engineFixture) create(t *testing.T, by entities.Identity, number string) *dto.DocumentDTO {
	t.Helper()
	doc, err := f.service.CreateDocument(context.Background(), by, dto.CreateDocumentDTO{
		Number: number, Name: "Invoice " + number, Type: "INVOICE",
	})
	require.NoError(t, err)
	return doc
}

func actions(doc *dto.DocumentDTO) []string {
	result := make([]string, 0, len(doc.History))
	for _, h := range doc.History {
		result = append(result, h.Action)
	}
	return result
}

func ids(docs []dto.DocumentDTO) []uint64 {
	result := make([]uint64, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.ID)
	}
	return result
}

func TestDocumentService_HappyPath(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()

	doc := f.create(t, alice, "2024-001")
	assert.Equal(t, "Finance", doc.Sector)
	assert.Equal(t, "alice", doc.CreatedBy)
	assert.Equal(t, []string{"CREATED"}, actions(doc))

	require.NoError(t, f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Archive"))

	sent, err := f.service.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Finance", sent.Sector)
	require.NotNil(t, sent.Movement)
	assert.Equal(t, "Archive", sent.Movement.ToSector)

	accepted, err := f.service.AcceptDocument(ctx, bob, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Archive", accepted.Sector)
	assert.Nil(t, accepted.Movement)
	assert.Equal(t, []string{"CREATED", "SENT", "RECEIVED"}, actions(accepted))
	assert.Equal(t, "Registered by alice", accepted.History[0].Description)
	assert.Equal(t, "Sent to sector Archive by alice", accepted.History[1].Description)
	assert.Equal(t, "Archive", accepted.History[2].Sector)
}

func TestDocumentService_CreateDocument(t *testing.T) {
	t.Run("duplicate number", func(t *testing.T) {
		f := newEngine(t)
		f.create(t, alice, "2024-001")

		_, err := f.service.CreateDocument(context.Background(), bob, dto.CreateDocumentDTO{
			Number: "2024-001", Name: "Other", Type: "MEMO",
		})
		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	})

	t.Run("unknown type", func(t *testing.T) {
		f := newEngine(t)
		_, err := f.service.CreateDocument(context.Background(), alice, dto.CreateDocumentDTO{
			Number: "1", Name: "x", Type: "SPACESHIP",
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("observations are kept", func(t *testing.T) {
		f := newEngine(t)
		doc, err := f.service.CreateDocument(context.Background(), alice, dto.CreateDocumentDTO{
			Number: "7", Name: "Contract", Type: "contract", Observations: null.StringFrom(" signed copy "),
		})
		require.NoError(t, err)
		require.NotNil(t, doc.Observations)
		assert.Equal(t, "signed copy", *doc.Observations)
		assert.Equal(t, "CONTRACT", doc.Type)
	})

	t.Run("missing identity", func(t *testing.T) {
		f := newEngine(t)
		_, err := f.service.CreateDocument(context.Background(), entities.Identity{}, dto.CreateDocumentDTO{
			Number: "1", Name: "x", Type: "MEMO",
		})
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

func TestDocumentService_NumberIsFreedByDelete(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	doc := f.create(t, alice, "2024-001")

	require.NoError(t, f.service.DeleteDocument(ctx, alice, doc.ID))

	again := f.create(t, alice, "2024-001")
	assert.NotEqual(t, doc.ID, again.ID)
}

func TestDocumentService_SendDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("same sector", func(t *testing.T) {
		f := newEngine(t)
		doc := f.create(t, alice, "2024-001")

		err := f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Finance")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("unknown sector", func(t *testing.T) {
		f := newEngine(t)
		doc := f.create(t, alice, "2024-001")

		err := f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Nowhere")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("empty list", func(t *testing.T) {
		f := newEngine(t)
		err := f.service.SendDocuments(ctx, alice, nil, "Archive")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("unknown document", func(t *testing.T) {
		f := newEngine(t)
		err := f.service.SendDocuments(ctx, alice, []uint64{99}, "Archive")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("validation runs before any write", func(t *testing.T) {
		f := newEngine(t)
		mine := f.create(t, alice, "A-1")
		theirs := f.create(t, carol, "L-1")

		err := f.service.SendDocuments(ctx, alice, []uint64{mine.ID, theirs.ID}, "Archive")
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		untouched, err := f.service.GetDocument(ctx, mine.ID)
		require.NoError(t, err)
		assert.Nil(t, untouched.Movement)
		assert.Equal(t, []string{"CREATED"}, actions(untouched))
	})

	t.Run("batch and duplicates", func(t *testing.T) {
		f := newEngine(t)
		first := f.create(t, alice, "A-1")
		second := f.create(t, alice, "A-2")

		require.NoError(t, f.service.SendDocuments(ctx, alice, []uint64{first.ID, second.ID, first.ID}, "Archive"))

		dashboard, err := f.service.ListDocumentsForDashboard(ctx, bob)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint64{first.ID, second.ID}, ids(dashboard.Inbox))

		doc, err := f.service.GetDocument(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"CREATED", "SENT"}, actions(doc))
	})
}

func TestDocumentService_SingleActiveMovement(t *testing.T) {
	ctx := context.Background()
	f := newEngine(t)
	doc := f.create(t, alice, "2024-001")

	require.NoError(t, f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Archive"))

	err := f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Legal")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	_, err = f.service.RejectDocument(ctx, bob, doc.ID, "")
	require.NoError(t, err)

	assert.NoError(t, f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Legal"))
}

func TestDocumentService_SendAgainAfterMovementEnds(t *testing.T) {
	ctx := context.Background()

	t.Run("after accept the new holder sends", func(t *testing.T) {
		f := newEngine(t)
		doc := f.create(t, alice, "2024-001")
		require.NoError(t, f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Archive"))
		_, err := f.service.AcceptDocument(ctx, bob, doc.ID)
		require.NoError(t, err)

		err = f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Legal")
		assert.ErrorIs(t, err, apperrors.ErrValidation, "the former holder lost custody")

		require.NoError(t, f.service.SendDocuments(ctx, bob, []uint64{doc.ID}, "Legal"))
		moved, err := f.service.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		require.NotNil(t, moved.Movement)
		assert.Equal(t, "Legal", moved.Movement.ToSector)
	})

	t.Run("after cancel the sender sends again", func(t *testing.T) {
		f := newEngine(t)
		doc := f.create(t, alice, "2024-001")
		require.NoError(t, f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Archive"))
		_, err := f.service.CancelDocument(ctx, alice, doc.ID, "")
		require.NoError(t, err)

		require.NoError(t, f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Legal"))
		moved, err := f.service.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		require.NotNil(t, moved.Movement)
		assert.Equal(t, "Legal", moved.Movement.ToSector)
		assert.Equal(t, []string{"CREATED", "SENT", "REJECTED", "SENT"}, actions(moved))
	})
}

func TestDocumentService_RejectKeepsCustody(t *testing.T) {
	ctx := context.Background()
	f := newEngine(t)
	doc := f.create(t, alice, "2024-001")
	require.NoError(t, f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Archive"))

	rejected, err := f.service.RejectDocument(ctx, bob, doc.ID, "wrong department")
	require.NoError(t, err)

	assert.Equal(t, "Finance", rejected.Sector)
	assert.Nil(t, rejected.Movement)
	assert.Equal(t, []string{"CREATED", "SENT", "REJECTED"}, actions(rejected))
	assert.Equal(t, "Rejected by bob: wrong department", rejected.History[2].Description)

	require.Len(t, f.publisher.events, 1)
	event, ok := f.publisher.events[0].(events.DocumentRejectedEvent)
	require.True(t, ok)
	assert.Equal(t, alice.UserID, event.Movement.UserID)
	assert.Equal(t, "wrong department", event.Description)
}

func TestDocumentService_AcceptRequiresTargetSector(t *testing.T) {
	ctx := context.Background()
	f := newEngine(t)
	doc := f.create(t, alice, "2024-001")

	_, err := f.service.AcceptDocument(ctx, bob, doc.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Archive"))

	_, err = f.service.AcceptDocument(ctx, carol, doc.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.service.RejectDocument(ctx, carol, doc.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	still, err := f.service.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.NotNil(t, still.Movement)
}

func TestDocumentService_CancelDocument(t *testing.T) {
	ctx := context.Background()
	f := newEngine(t)
	doc := f.create(t, alice, "2024-001")
	require.NoError(t, f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Archive"))

	_, err := f.service.CancelDocument(ctx, bob, doc.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "the target cannot cancel")

	cancelled, err := f.service.CancelDocument(ctx, dave, doc.ID, "sent by mistake")
	require.NoError(t, err)
	assert.Equal(t, "Finance", cancelled.Sector)
	assert.Nil(t, cancelled.Movement)
	assert.Equal(t, []string{"CREATED", "SENT", "REJECTED"}, actions(cancelled))
	assert.Equal(t, "Sending to sector Archive cancelled by sender dave: sent by mistake", cancelled.History[2].Description)

	_, err = f.service.AcceptDocument(ctx, bob, doc.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDocumentService_AcceptDocumentsPartialSuccess(t *testing.T) {
	ctx := context.Background()
	f := newEngine(t)
	routed := f.create(t, alice, "A-1")
	notRouted := f.create(t, alice, "A-2")
	require.NoError(t, f.service.SendDocuments(ctx, alice, []uint64{routed.ID}, "Archive"))

	result, err := f.service.AcceptDocuments(ctx, bob, []uint64{routed.ID, notRouted.ID, 404})
	require.NoError(t, err)

	assert.Equal(t, []uint64{routed.ID}, ids(result.Accepted))
	require.Len(t, result.Failed, 2)
	assert.Equal(t, notRouted.ID, result.Failed[0].DocumentID)
	assert.Equal(t, string(apperrors.KindNotFound), result.Failed[0].Kind)

	doc, err := f.service.GetDocument(ctx, routed.ID)
	require.NoError(t, err)
	assert.Equal(t, "Archive", doc.Sector)
}

func TestDocumentService_EditDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("author only", func(t *testing.T) {
		f := newEngine(t)
		doc := f.create(t, alice, "2024-001")

		_, err := f.service.EditDocument(ctx, dave, doc.ID, dto.UpdateDocumentDTO{
			Number: "2024-001", Name: "Renamed", Type: "INVOICE",
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("diff lists changed fields only", func(t *testing.T) {
		f := newEngine(t)
		doc := f.create(t, alice, "2024-001")

		edited, err := f.service.EditDocument(ctx, alice, doc.ID, dto.UpdateDocumentDTO{
			Number: "2024-001", Name: "Invoice March", Type: "RECORD",
			Observations: null.StringFrom("paid"),
		})
		require.NoError(t, err)

		assert.Equal(t, "Invoice March", edited.Name)
		assert.NotEmpty(t, edited.ModifiedAt)
		require.Equal(t, []string{"CREATED", "UPDATED"}, actions(edited))
		description := edited.History[1].Description
		assert.Equal(t,
			`Updated by alice: name changed from "Invoice 2024-001" to "Invoice March"; `+
				`observations changed from "" to "paid"; type changed from "INVOICE" to "RECORD"`,
			description)
		assert.NotContains(t, description, "number")
	})

	t.Run("no change writes nothing", func(t *testing.T) {
		f := newEngine(t)
		doc := f.create(t, alice, "2024-001")

		same, err := f.service.EditDocument(ctx, alice, doc.ID, dto.UpdateDocumentDTO{
			Number: doc.Number, Name: doc.Name, Type: doc.Type,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"CREATED"}, actions(same))
	})

	t.Run("number collision", func(t *testing.T) {
		f := newEngine(t)
		f.create(t, alice, "2024-001")
		doc := f.create(t, alice, "2024-002")

		_, err := f.service.EditDocument(ctx, alice, doc.ID, dto.UpdateDocumentDTO{
			Number: "2024-001", Name: doc.Name, Type: doc.Type,
		})
		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	})

	t.Run("author may edit from another sector", func(t *testing.T) {
		f := newEngine(t)
		doc := f.create(t, alice, "2024-001")
		require.NoError(t, f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Archive"))
		_, err := f.service.AcceptDocument(ctx, bob, doc.ID)
		require.NoError(t, err)

		_, err = f.service.EditDocument(ctx, alice, doc.ID, dto.UpdateDocumentDTO{
			Number: "2024-001", Name: "Still mine", Type: "INVOICE",
		})
		assert.NoError(t, err)
	})
}

func TestDocumentService_RequestDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("own sector", func(t *testing.T) {
		f := newEngine(t)
		doc := f.create(t, alice, "2024-001")

		err := f.service.RequestDocument(ctx, dave, doc.ID, "need it")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("reason required", func(t *testing.T) {
		f := newEngine(t)
		doc := f.create(t, alice, "2024-001")

		err := f.service.RequestDocument(ctx, bob, doc.ID, "  ")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("records request and notifies", func(t *testing.T) {
		f := newEngine(t)
		doc := f.create(t, alice, "2024-001")

		require.NoError(t, f.service.RequestDocument(ctx, bob, doc.ID, "audit"))

		got, err := f.service.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"CREATED", "REQUESTED"}, actions(got))
		assert.Equal(t, "Requested by bob for sector Archive from sector Finance: audit", got.History[1].Description)

		require.Len(t, f.publisher.events, 1)
		event, ok := f.publisher.events[0].(events.DocumentRequestedEvent)
		require.True(t, ok)
		assert.Equal(t, "Finance", event.HoldingSector)
		assert.Equal(t, "Archive", event.Request.RequestingSector)
	})
}

func TestDocumentService_Dashboard(t *testing.T) {
	ctx := context.Background()
	f := newEngine(t)

	kept := f.create(t, alice, "A-1")
	outgoing := f.create(t, alice, "A-2")
	incoming := f.create(t, bob, "B-1")
	requested := f.create(t, carol, "L-1")

	require.NoError(t, f.service.SendDocuments(ctx, alice, []uint64{outgoing.ID}, "Archive"))
	require.NoError(t, f.service.SendDocuments(ctx, bob, []uint64{incoming.ID}, "Finance"))
	require.NoError(t, f.service.RequestDocument(ctx, alice, requested.ID, "review"))
	require.NoError(t, f.service.RequestDocument(ctx, carol, kept.ID, "copy please"))

	dashboard, err := f.service.ListDocumentsForDashboard(ctx, alice)
	require.NoError(t, err)

	assert.Equal(t, []uint64{kept.ID}, ids(dashboard.Inventory), "sent documents leave the inventory")
	assert.Equal(t, []uint64{outgoing.ID}, ids(dashboard.Outbox))
	assert.Equal(t, []uint64{incoming.ID}, ids(dashboard.Inbox))

	require.Len(t, dashboard.Requests, 2)
	assert.Equal(t, dto.RequestTagMine, dashboard.Requests[0].Tag)
	assert.Equal(t, requested.ID, dashboard.Requests[0].Document.ID)
	assert.Equal(t, "alice", dashboard.Requests[0].RequestedBy)
	assert.Equal(t, dto.RequestTagIncoming, dashboard.Requests[1].Tag)
	assert.Equal(t, kept.ID, dashboard.Requests[1].Document.ID)
	assert.Equal(t, "Legal", dashboard.Requests[1].RequestingSector)

	colleague, err := f.service.ListDocumentsForDashboard(ctx, dave)
	require.NoError(t, err)
	require.Len(t, colleague.Requests, 1, "a sector colleague sees the incoming request only")
	assert.Equal(t, dto.RequestTagIncoming, colleague.Requests[0].Tag)
}

func TestDocumentService_DashboardSkipsOwnSectorRequests(t *testing.T) {
	ctx := context.Background()
	f := newEngine(t)
	eve := entities.Identity{UserID: 5, Username: "eve", Sector: "Archive"}

	doc := f.create(t, alice, "P-1")
	require.NoError(t, f.service.RequestDocument(ctx, bob, doc.ID, "need it"))
	require.NoError(t, f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Archive"))
	_, err := f.service.AcceptDocument(ctx, bob, doc.ID)
	require.NoError(t, err)

	colleague, err := f.service.ListDocumentsForDashboard(ctx, eve)
	require.NoError(t, err)
	assert.Empty(t, colleague.Requests, "a request made by Archive is not a request against Archive")

	requester, err := f.service.ListDocumentsForDashboard(ctx, bob)
	require.NoError(t, err)
	require.Len(t, requester.Requests, 1)
	assert.Equal(t, dto.RequestTagMine, requester.Requests[0].Tag)

	former, err := f.service.ListDocumentsForDashboard(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, former.Requests)
}

func TestDocumentService_DeleteDocument(t *testing.T) {
	ctx := context.Background()
	f := newEngine(t)
	doc := f.create(t, alice, "2024-001")
	require.NoError(t, f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Archive"))
	require.NoError(t, f.service.RequestDocument(ctx, carol, doc.ID, "needed"))

	require.NoError(t, f.service.DeleteDocument(ctx, alice, doc.ID))

	_, err := f.service.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = f.service.DeleteDocument(ctx, alice, doc.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.store.Movements().FindActiveFor(ctx, doc.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	requests, err := f.store.Requests().FindByDocumentID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, requests)

	history, err := f.store.History().ListByDocumentID(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, entities.HistoryActionDeleted, history[3].Action)

	dashboard, err := f.service.ListDocumentsForDashboard(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, dashboard.Inbox)
}

func TestDocumentService_ListAllDocuments(t *testing.T) {
	ctx := context.Background()
	f := newEngine(t)
	first := f.create(t, alice, "A-1")
	second := f.create(t, bob, "B-1")

	all, err := f.service.ListAllDocuments(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint64{first.ID, second.ID}, ids(all))
	assert.Len(t, all[0].History, 1)

	stored, err := f.store.Documents().FindByID(ctx, second.ID)
	require.NoError(t, err)
	since := stored.CreatedAt

	recent, err := f.service.ListAllDocuments(ctx, &since)
	require.NoError(t, err)
	assert.Contains(t, ids(recent), second.ID)
}

func TestDocumentService_HistoryNeverShrinks(t *testing.T) {
	ctx := context.Background()
	f := newEngine(t)
	doc := f.create(t, alice, "2024-001")

	steps := []func() error{
		func() error { return f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Archive") },
		func() error { _, err := f.service.RejectDocument(ctx, bob, doc.ID, ""); return err },
		func() error { return f.service.RequestDocument(ctx, carol, doc.ID, "please") },
		func() error { return f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Archive") },
		func() error { _, err := f.service.CancelDocument(ctx, alice, doc.ID, ""); return err },
		func() error { return f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Archive") },
		func() error { _, err := f.service.AcceptDocument(ctx, bob, doc.ID); return err },
		func() error { _, err := f.service.AcceptDocument(ctx, bob, doc.ID); return err },
	}

	previous := 1
	for i, step := range steps {
		_ = step()
		got, err := f.service.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(got.History), previous, "step %d", i)
		for j := 1; j < len(got.History); j++ {
			assert.LessOrEqual(t, got.History[j-1].DateTime, got.History[j].DateTime)
		}
		previous = len(got.History)
	}
	assert.Equal(t, 8, previous)
}

func TestDocumentService_ConcurrentSendHasOneWinner(t *testing.T) {
	ctx := context.Background()
	f := newEngine(t)
	doc := f.create(t, alice, "2024-001")

	const workers = 16
	var wg sync.WaitGroup
	var succeeded, conflicted int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			target := "Archive"
			if i%2 == 1 {
				target = "Legal"
			}
			err := f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, target)
			switch {
			case err == nil:
				atomic.AddInt32(&succeeded, 1)
			case apperrors.KindOf(err) == apperrors.KindAlreadyExists:
				atomic.AddInt32(&conflicted, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded)
	assert.Equal(t, int32(workers-1), conflicted)
}

func TestDocumentService_ConcurrentResolutionHasOneWinner(t *testing.T) {
	ctx := context.Background()
	f := newEngine(t)
	doc := f.create(t, alice, "2024-001")
	require.NoError(t, f.service.SendDocuments(ctx, alice, []uint64{doc.ID}, "Archive"))

	var wg sync.WaitGroup
	var succeeded, notFound int32
	record := func(err error) {
		switch {
		case err == nil:
			atomic.AddInt32(&succeeded, 1)
		case apperrors.KindOf(err) == apperrors.KindNotFound:
			atomic.AddInt32(&notFound, 1)
		}
	}
	for i := 0; i < 6; i++ {
		wg.Add(3)
		go func() { defer wg.Done(); _, err := f.service.AcceptDocument(ctx, bob, doc.ID); record(err) }()
		go func() { defer wg.Done(); _, err := f.service.RejectDocument(ctx, bob, doc.ID, ""); record(err) }()
		go func() { defer wg.Done(); _, err := f.service.CancelDocument(ctx, alice, doc.ID, ""); record(err) }()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded)
	assert.Equal(t, int32(17), notFound)

	got, err := f.service.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, got.History, 3)
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"protocol-system/internal/dto"
	"protocol-system/internal/entities"
	"protocol-system/internal/events"
	"protocol-system/internal/repositories"
	apperrors "protocol-system/pkg/errors"
	"protocol-system/pkg/eventbus"
)

// EventPublisher receives domain events once the unit that produced them
// has committed.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

type DocumentServiceInterface interface {
	CreateDocument(ctx context.Context, identity entities.Identity, payload dto.CreateDocumentDTO) (*dto.DocumentDTO, error)
	SendDocuments(ctx context.Context, identity entities.Identity, documentIDs []uint64, targetSector string) error
	AcceptDocument(ctx context.Context, identity entities.Identity, id uint64) (*dto.DocumentDTO, error)
	AcceptDocuments(ctx context.Context, identity entities.Identity, ids []uint64) (*dto.BatchAcceptResultDTO, error)
	RejectDocument(ctx context.Context, identity entities.Identity, id uint64, description string) (*dto.DocumentDTO, error)
	CancelDocument(ctx context.Context, identity entities.Identity, id uint64, description string) (*dto.DocumentDTO, error)
	EditDocument(ctx context.Context, identity entities.Identity, id uint64, payload dto.UpdateDocumentDTO) (*dto.DocumentDTO, error)
	RequestDocument(ctx context.Context, identity entities.Identity, id uint64, reason string) error
	DeleteDocument(ctx context.Context, identity entities.Identity, id uint64) error
	GetDocument(ctx context.Context, id uint64) (*dto.DocumentDTO, error)
	ListDocumentsForDashboard(ctx context.Context, identity entities.Identity) (*dto.DashboardDTO, error)
	ListAllDocuments(ctx context.Context, since *time.Time) ([]dto.DocumentDTO, error)
}

type DocumentService struct {
	txManager    repositories.TxManagerInterface
	documentRepo repositories.DocumentRepositoryInterface
	historyRepo  repositories.DocumentHistoryRepositoryInterface
	movementRepo repositories.DocumentMovementRepositoryInterface
	requestRepo  repositories.DocumentRequestRepositoryInterface
	sectorRepo   repositories.SectorRepositoryInterface
	publisher    EventPublisher
	logger       *zap.Logger
}

func NewDocumentService(
	txManager repositories.TxManagerInterface,
	documentRepo repositories.DocumentRepositoryInterface,
	historyRepo repositories.DocumentHistoryRepositoryInterface,
	movementRepo repositories.DocumentMovementRepositoryInterface,
	requestRepo repositories.DocumentRequestRepositoryInterface,
	sectorRepo repositories.SectorRepositoryInterface,
	publisher EventPublisher,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		txManager:    txManager,
		documentRepo: documentRepo,
		historyRepo:  historyRepo,
		movementRepo: movementRepo,
		requestRepo:  requestRepo,
		sectorRepo:   sectorRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

// fail logs err at a level matching its kind and returns it in typed form.
// Untyped errors are storage failures and become INTERNAL.
func (s *DocumentService) fail(op string, err error, fields ...zap.Field) error {
	fields = append(fields, zap.String("op", op), zap.Error(err))
	if apperrors.KindOf(err) == apperrors.KindInternal {
		s.logger.Error("document operation failed", fields...)
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.Internal(err)
	}
	s.logger.Warn("document operation refused", fields...)
	return err
}

func (s *DocumentService) publish(ctx context.Context, event eventbus.Event) {
	if s.publisher != nil {
		s.publisher.Publish(ctx, event)
	}
}

func requireIdentity(identity entities.Identity) error {
	if identity.UserID == 0 || strings.TrimSpace(identity.Sector) == "" {
		return apperrors.ErrUnauthorized
	}
	return nil
}

func (s *DocumentService) appendHistory(ctx context.Context, identity entities.Identity, documentID uint64, action entities.HistoryAction, description string) error {
	return s.historyRepo.Append(ctx, &entities.DocumentHistory{
		DocumentID:  documentID,
		Action:      action,
		Sector:      identity.Sector,
		Description: description,
		UserID:      identity.UserID,
		Username:    identity.Username,
	})
}

func (s *DocumentService) findDocument(ctx context.Context, id uint64) (*entities.Document, error) {
	doc, err := s.documentRepo.FindByID(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NotFound("document %d not found", id)
	}
	return doc, err
}

// loadDocument reads a document with its full history and active movement.
func (s *DocumentService) loadDocument(ctx context.Context, id uint64) (*dto.DocumentDTO, error) {
	doc, err := s.findDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.historyRepo.ListByDocumentID(ctx, id)
	if err != nil {
		return nil, err
	}
	movement, err := s.movementRepo.FindActiveFor(ctx, id)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	result := documentToDTO(*doc, history, movement)
	return &result, nil
}

func normalizeObservations(observations *string) *string {
	if observations == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*observations)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func documentFields(number, name, docType string, observations *string) (entities.Document, error) {
	doc := entities.Document{
		Number:       strings.TrimSpace(number),
		Name:         strings.TrimSpace(name),
		Type:         entities.DocumentType(strings.ToUpper(strings.TrimSpace(docType))),
		Observations: normalizeObservations(observations),
	}
	if doc.Number == "" {
		return doc, apperrors.Validation("document number is required")
	}
	if doc.Name == "" {
		return doc, apperrors.Validation("document name is required")
	}
	if !doc.Type.IsValid() {
		return doc, apperrors.Validation("unknown document type %q", docType)
	}
	return doc, nil
}

func (s *DocumentService) CreateDocument(ctx context.Context, identity entities.Identity, payload dto.CreateDocumentDTO) (*dto.DocumentDTO, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	doc, err := documentFields(payload.Number, payload.Name, payload.Type, payload.Observations.Ptr())
	if err != nil {
		return nil, s.fail("createDocument", err)
	}
	doc.Sector = identity.Sector
	doc.CreatedBy = identity.UserID
	doc.CreatedByUsername = identity.Username

	var result *dto.DocumentDTO
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.documentRepo.ExistsByNumber(ctx, doc.Number)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.AlreadyExists("document number %q is already in use", doc.Number)
		}
		if err := s.documentRepo.Create(ctx, &doc); err != nil {
			return err
		}
		if err := s.appendHistory(ctx, identity, doc.ID, entities.HistoryActionCreated, describeCreated(identity)); err != nil {
			return err
		}
		result, err = s.loadDocument(ctx, doc.ID)
		return err
	})
	if err != nil {
		return nil, s.fail("createDocument", err, zap.String("number", doc.Number))
	}

	s.logger.Info("document created",
		zap.Uint64("documentID", doc.ID), zap.String("number", doc.Number), zap.String("sector", doc.Sector))
	return result, nil
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	unique := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

// SendDocuments dispatches every document to targetSector as one unit.
// Every id is validated before the first movement is written.
func (s *DocumentService) SendDocuments(ctx context.Context, identity entities.Identity, documentIDs []uint64, targetSector string) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}
	targetSector = strings.TrimSpace(targetSector)
	ids := uniqueIDs(documentIDs)
	fields := []zap.Field{zap.Uint64s("documentIDs", ids), zap.String("targetSector", targetSector)}

	switch {
	case len(ids) == 0:
		return s.fail("sendDocument", apperrors.Validation("no documents to send"), fields...)
	case targetSector == "":
		return s.fail("sendDocument", apperrors.Validation("target sector is required"), fields...)
	case targetSector == identity.Sector:
		return s.fail("sendDocument", apperrors.Validation("cannot send documents to your own sector"), fields...)
	}

	var sent []entities.Document
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sector, err := s.sectorRepo.FindSector(ctx, targetSector)
		if errors.Is(err, apperrors.ErrNotFound) || (err == nil && sector.IsDeleted()) {
			return apperrors.Validation("sector %q does not exist", targetSector)
		}
		if err != nil {
			return err
		}

		docs, err := s.documentRepo.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uint64]entities.Document, len(docs))
		for _, doc := range docs {
			byID[doc.ID] = doc
		}
		for _, id := range ids {
			doc, ok := byID[id]
			if !ok {
				return apperrors.NotFound("document %d not found", id)
			}
			if doc.Sector != identity.Sector {
				return apperrors.Validation("document %s is not in your sector", doc.Number)
			}
			if _, err := s.movementRepo.FindActiveFor(ctx, id); err == nil {
				return apperrors.AlreadyExists("document %s is already being sent", doc.Number)
			} else if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
		}

		for _, id := range ids {
			movement := entities.DocumentMovement{
				DocumentID: id,
				UserID:     identity.UserID,
				FromSector: identity.Sector,
				ToSector:   targetSector,
			}
			if err := s.movementRepo.Create(ctx, &movement); err != nil {
				if errors.Is(err, apperrors.ErrConflict) {
					return apperrors.AlreadyExists("document %s is already being sent", byID[id].Number)
				}
				return err
			}
			if err := s.appendHistory(ctx, identity, id, entities.HistoryActionSent, describeSent(identity, targetSector)); err != nil {
				return err
			}
			sent = append(sent, byID[id])
		}
		return nil
	})
	if err != nil {
		return s.fail("sendDocument", err, fields...)
	}

	s.logger.Info("documents sent", append(fields, zap.Int("count", len(sent)))...)
	return nil
}

// concludeMovement removes the active movement of id when match accepts
// it. A movement that is missing, does not match, or was removed by a
// concurrent caller is reported as notRouted.
func (s *DocumentService) concludeMovement(ctx context.Context, id uint64, match func(entities.DocumentMovement) bool, notRouted error) (*entities.DocumentMovement, error) {
	movement, err := s.movementRepo.FindActiveFor(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, notRouted
	}
	if err != nil {
		return nil, err
	}
	if !match(*movement) {
		return nil, notRouted
	}
	if err := s.movementRepo.Delete(ctx, *movement); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, notRouted
		}
		return nil, err
	}
	return movement, nil
}

func (s *DocumentService) AcceptDocument(ctx context.Context, identity entities.Identity, id uint64) (*dto.DocumentDTO, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	var result *dto.DocumentDTO
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		movement, err := s.concludeMovement(ctx, id,
			func(m entities.DocumentMovement) bool { return m.ToSector == identity.Sector },
			apperrors.NotFound("document %d is not routed to your sector", id))
		if err != nil {
			return err
		}
		doc, err := s.findDocument(ctx, id)
		if err != nil {
			return err
		}
		doc.Sector = identity.Sector
		if err := s.documentRepo.Update(ctx, doc); err != nil {
			return err
		}
		if err := s.appendHistory(ctx, identity, id, entities.HistoryActionReceived, describeReceived(identity, movement.FromSector)); err != nil {
			return err
		}
		result, err = s.loadDocument(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.fail("acceptDocument", err, zap.Uint64("documentID", id), zap.String("sector", identity.Sector))
	}

	s.logger.Info("document accepted", zap.Uint64("documentID", id), zap.String("sector", identity.Sector))
	return result, nil
}

// AcceptDocuments accepts each id in its own unit. A failed id does not
// undo the ids accepted before it.
func (s *DocumentService) AcceptDocuments(ctx context.Context, identity entities.Identity, ids []uint64) (*dto.BatchAcceptResultDTO, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, s.fail("acceptDocuments", apperrors.Validation("no documents to accept"))
	}

	result := &dto.BatchAcceptResultDTO{
		Accepted: make([]dto.DocumentDTO, 0, len(ids)),
		Failed:   make([]dto.BatchFailureDTO, 0),
	}
	for _, id := range ids {
		doc, err := s.AcceptDocument(ctx, identity, id)
		if err != nil {
			message := err.Error()
			if apperrors.KindOf(err) == apperrors.KindInternal {
				message = "internal error"
			}
			result.Failed = append(result.Failed, dto.BatchFailureDTO{
				DocumentID: id,
				Kind:       string(apperrors.KindOf(err)),
				Message:    message,
			})
			continue
		}
		result.Accepted = append(result.Accepted, *doc)
	}
	return result, nil
}

func (s *DocumentService) RejectDocument(ctx context.Context, identity entities.Identity, id uint64, description string) (*dto.DocumentDTO, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	var (
		result   *dto.DocumentDTO
		doc      *entities.Document
		movement *entities.DocumentMovement
	)
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		movement, err = s.concludeMovement(ctx, id,
			func(m entities.DocumentMovement) bool { return m.ToSector == identity.Sector },
			apperrors.NotFound("document %d is not routed to your sector", id))
		if err != nil {
			return err
		}
		if doc, err = s.findDocument(ctx, id); err != nil {
			return err
		}
		if err := s.appendHistory(ctx, identity, id, entities.HistoryActionRejected, describeRejected(identity, description)); err != nil {
			return err
		}
		result, err = s.loadDocument(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.fail("rejectDocument", err, zap.Uint64("documentID", id), zap.String("sector", identity.Sector))
	}

	s.logger.Info("document rejected", zap.Uint64("documentID", id), zap.String("sector", identity.Sector))
	s.publish(ctx, events.DocumentRejectedEvent{
		Document:    *doc,
		Movement:    *movement,
		RejectedBy:  identity,
		Description: strings.TrimSpace(description),
	})
	return result, nil
}

// CancelDocument withdraws a movement from the sending side. It is
// recorded as a rejection by the sender.
func (s *DocumentService) CancelDocument(ctx context.Context, identity entities.Identity, id uint64, description string) (*dto.DocumentDTO, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	var result *dto.DocumentDTO
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		movement, err := s.concludeMovement(ctx, id,
			func(m entities.DocumentMovement) bool { return m.FromSector == identity.Sector },
			apperrors.NotFound("document %d is not being sent from your sector", id))
		if err != nil {
			return err
		}
		if err := s.appendHistory(ctx, identity, id, entities.HistoryActionRejected,
			describeCancelled(identity, movement.ToSector, description)); err != nil {
			return err
		}
		result, err = s.loadDocument(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.fail("cancelDocument", err, zap.Uint64("documentID", id), zap.String("sector", identity.Sector))
	}

	s.logger.Info("document sending cancelled", zap.Uint64("documentID", id), zap.String("sector", identity.Sector))
	return result, nil
}

// EditDocument replaces the editable fields of a document. Only the author
// may edit; an edit that changes nothing writes nothing.
func (s *DocumentService) EditDocument(ctx context.Context, identity entities.Identity, id uint64, payload dto.UpdateDocumentDTO) (*dto.DocumentDTO, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	fields, err := documentFields(payload.Number, payload.Name, payload.Type, payload.Observations.Ptr())
	if err != nil {
		return nil, s.fail("editDocument", err, zap.Uint64("documentID", id))
	}

	var result *dto.DocumentDTO
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.findDocument(ctx, id)
		if err != nil {
			return err
		}
		if current.CreatedBy != identity.UserID {
			return apperrors.Validation("only the author can edit document %s", current.Number)
		}

		updated := *current
		updated.Number = fields.Number
		updated.Name = fields.Name
		updated.Observations = fields.Observations
		updated.Type = fields.Type

		changes := diffDocument(*current, updated)
		if len(changes) == 0 {
			result, err = s.loadDocument(ctx, id)
			return err
		}
		if updated.Number != current.Number {
			exists, err := s.documentRepo.ExistsByNumber(ctx, updated.Number)
			if err != nil {
				return err
			}
			if exists {
				return apperrors.AlreadyExists("document number %q is already in use", updated.Number)
			}
		}
		if err := s.documentRepo.Update(ctx, &updated); err != nil {
			return err
		}
		if err := s.appendHistory(ctx, identity, id, entities.HistoryActionUpdated, describeUpdated(identity, changes)); err != nil {
			return err
		}
		result, err = s.loadDocument(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.fail("editDocument", err, zap.Uint64("documentID", id))
	}
	return result, nil
}

func (s *DocumentService) RequestDocument(ctx context.Context, identity entities.Identity, id uint64, reason string) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return s.fail("requestDocument", apperrors.Validation("a reason is required"), zap.Uint64("documentID", id))
	}

	var (
		doc     *entities.Document
		request entities.DocumentRequest
	)
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.findDocument(ctx, id)
		if err != nil {
			return err
		}
		if doc.Sector == identity.Sector {
			return apperrors.Validation("document %s is already in your sector", doc.Number)
		}
		request = entities.DocumentRequest{
			DocumentID:       id,
			RequestingSector: identity.Sector,
			UserID:           identity.UserID,
			Reason:           reason,
		}
		if err := s.requestRepo.Create(ctx, &request); err != nil {
			return err
		}
		return s.appendHistory(ctx, identity, id, entities.HistoryActionRequested, describeRequested(identity, doc.Sector, reason))
	})
	if err != nil {
		return s.fail("requestDocument", err, zap.Uint64("documentID", id), zap.String("sector", identity.Sector))
	}

	s.logger.Info("document requested", zap.Uint64("documentID", id), zap.String("sector", identity.Sector))
	s.publish(ctx, events.DocumentRequestedEvent{
		Document:      *doc,
		Request:       request,
		RequestedBy:   identity,
		HoldingSector: doc.Sector,
	})
	return nil
}

// DeleteDocument removes the document together with its active movement
// and its requests. History entries are kept, closed by a DELETED entry.
func (s *DocumentService) DeleteDocument(ctx context.Context, identity entities.Identity, id uint64) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.findDocument(ctx, id); err != nil {
			return err
		}
		if err := s.movementRepo.DeleteByDocumentID(ctx, id); err != nil {
			return err
		}
		if err := s.requestRepo.DeleteByDocumentID(ctx, id); err != nil {
			return err
		}
		if err := s.appendHistory(ctx, identity, id, entities.HistoryActionDeleted, describeDeleted(identity)); err != nil {
			return err
		}
		return s.documentRepo.HardDelete(ctx, id)
	})
	if err != nil {
		return s.fail("deleteDocument", err, zap.Uint64("documentID", id))
	}

	s.logger.Info("document deleted", zap.Uint64("documentID", id), zap.Uint64("userID", identity.UserID))
	return nil
}

func (s *DocumentService) GetDocument(ctx context.Context, id uint64) (*dto.DocumentDTO, error) {
	result, err := s.loadDocument(ctx, id)
	if err != nil {
		return nil, s.fail("getDocument", err, zap.Uint64("documentID", id))
	}
	return result, nil
}

// documentsWithHistory maps docs to DTOs with one batched history read.
func (s *DocumentService) documentsWithHistory(ctx context.Context, docs []entities.Document, movements map[uint64]entities.DocumentMovement) ([]dto.DocumentDTO, error) {
	ids := make([]uint64, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	history, err := s.historyRepo.ListByDocumentIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	result := make([]dto.DocumentDTO, 0, len(docs))
	for _, doc := range docs {
		var movement *entities.DocumentMovement
		if m, ok := movements[doc.ID]; ok {
			movement = &m
		}
		result = append(result, documentToDTO(doc, history[doc.ID], movement))
	}
	return result, nil
}

func (s *DocumentService) documentsOf(ctx context.Context, movements []entities.DocumentMovement) ([]entities.Document, map[uint64]entities.DocumentMovement, error) {
	byID := make(map[uint64]entities.DocumentMovement, len(movements))
	ids := make([]uint64, 0, len(movements))
	for _, m := range movements {
		byID[m.DocumentID] = m
		ids = append(ids, m.DocumentID)
	}
	docs, err := s.documentRepo.FindByIDs(ctx, ids)
	return docs, byID, err
}

// ListDocumentsForDashboard builds the caller's sector view. A document
// sent out but not yet accepted still has the caller's sector as custody;
// it is listed in the outbox only.
func (s *DocumentService) ListDocumentsForDashboard(ctx context.Context, identity entities.Identity) (*dto.DashboardDTO, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	dashboard, err := s.buildDashboard(ctx, identity)
	if err != nil {
		return nil, s.fail("listDocumentsForDashboard", err, zap.String("sector", identity.Sector))
	}
	return dashboard, nil
}

func (s *DocumentService) buildDashboard(ctx context.Context, identity entities.Identity) (*dto.DashboardDTO, error) {
	incoming, err := s.movementRepo.ListByTargetSector(ctx, identity.Sector)
	if err != nil {
		return nil, err
	}
	inboxDocs, inboxMovements, err := s.documentsOf(ctx, incoming)
	if err != nil {
		return nil, err
	}

	outgoing, err := s.movementRepo.ListBySourceSector(ctx, identity.Sector)
	if err != nil {
		return nil, err
	}
	outboxDocs, outboxMovements, err := s.documentsOf(ctx, outgoing)
	if err != nil {
		return nil, err
	}

	held, err := s.documentRepo.FindBySector(ctx, identity.Sector)
	if err != nil {
		return nil, err
	}
	inventoryDocs := make([]entities.Document, 0, len(held))
	for _, doc := range held {
		if _, inOutbox := outboxMovements[doc.ID]; !inOutbox {
			inventoryDocs = append(inventoryDocs, doc)
		}
	}

	mine, err := s.requestRepo.FindOpenRequestsByUser(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	incomingRequests, err := s.requestRepo.FindOpenRequestsTargetingSector(ctx, identity.Sector)
	if err != nil {
		return nil, err
	}

	dashboard := &dto.DashboardDTO{}
	if dashboard.Inbox, err = s.documentsWithHistory(ctx, inboxDocs, inboxMovements); err != nil {
		return nil, err
	}
	if dashboard.Outbox, err = s.documentsWithHistory(ctx, outboxDocs, outboxMovements); err != nil {
		return nil, err
	}
	if dashboard.Inventory, err = s.documentsWithHistory(ctx, inventoryDocs, nil); err != nil {
		return nil, err
	}
	if dashboard.Requests, err = s.requestsWithHistory(ctx, mine, incomingRequests); err != nil {
		return nil, err
	}
	return dashboard, nil
}

func (s *DocumentService) requestsWithHistory(ctx context.Context, mine, incoming []entities.DocumentRequestWithDocument) ([]dto.DocumentRequestDTO, error) {
	ids := make([]uint64, 0, len(mine)+len(incoming))
	for _, item := range append(append([]entities.DocumentRequestWithDocument{}, mine...), incoming...) {
		ids = append(ids, item.Document.ID)
	}
	history, err := s.historyRepo.ListByDocumentIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}

	seen := make(map[uint64]struct{}, len(mine))
	result := make([]dto.DocumentRequestDTO, 0, len(mine)+len(incoming))
	for _, item := range mine {
		seen[item.Request.ID] = struct{}{}
		result = append(result, requestToDTO(item, dto.RequestTagMine, history[item.Document.ID]))
	}
	for _, item := range incoming {
		if _, dup := seen[item.Request.ID]; dup {
			continue
		}
		result = append(result, requestToDTO(item, dto.RequestTagIncoming, history[item.Document.ID]))
	}
	return result, nil
}

func (s *DocumentService) ListAllDocuments(ctx context.Context, since *time.Time) ([]dto.DocumentDTO, error) {
	docs, err := s.documentRepo.FindAll(ctx, since)
	if err != nil {
		return nil, s.fail("listAllDocuments", err)
	}
	result, err := s.documentsWithHistory(ctx, docs, nil)
	if err != nil {
		return nil, s.fail("listAllDocuments", err)
	}
	return result, nil
}

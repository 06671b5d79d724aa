package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"protocol-system/internal/entities"
	"protocol-system/internal/events"
	"protocol-system/internal/repositories"
	"protocol-system/pkg/websocket"
)

const (
	NotificationRejection = "REJECTION"
	NotificationRequest   = "REQUEST"
)

// NotificationSender pushes one envelope to the open connections of a user.
// *websocket.Hub satisfies it.
type NotificationSender interface {
	SendToUser(userID uint64, envelope websocket.Envelope) error
}

type NotificationServiceInterface interface {
	NotifyRejection(ctx context.Context, event events.DocumentRejectedEvent) error
	NotifyRequest(ctx context.Context, event events.DocumentRequestedEvent) error
}

type NotificationService struct {
	userRepo repositories.UserRepositoryInterface
	sender   NotificationSender
	logger   *zap.Logger
	now      func() time.Time
}

func NewNotificationService(
	userRepo repositories.UserRepositoryInterface,
	sender NotificationSender,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		userRepo: userRepo,
		sender:   sender,
		logger:   logger,
		now:      time.Now,
	}
}

// NotifyRejection tells the user who dispatched the movement that it was turned down.
func (s *NotificationService) NotifyRejection(ctx context.Context, event events.DocumentRejectedEvent) error {
	message := fmt.Sprintf("Document %s was rejected by %s (%s)",
		event.Document.Number, event.RejectedBy.Username, event.RejectedBy.Sector)
	if event.Description != "" {
		message += ": " + event.Description
	}
	payload := s.payload(event.Document, event.RejectedBy, message)
	return s.deliver(NotificationRejection, []uint64{event.Movement.UserID}, payload)
}

// NotifyRequest tells every active user of the holding sector that another
// sector wants the document.
func (s *NotificationService) NotifyRequest(ctx context.Context, event events.DocumentRequestedEvent) error {
	users, err := s.userRepo.FindUsersBySector(ctx, event.HoldingSector)
	if err != nil {
		return fmt.Errorf("load users of sector %q: %w", event.HoldingSector, err)
	}

	recipients := make([]uint64, 0, len(users))
	for _, user := range users {
		if user.ID != event.RequestedBy.UserID {
			recipients = append(recipients, user.ID)
		}
	}

	message := fmt.Sprintf("Sector %s requested document %s: %s",
		event.Request.RequestingSector, event.Document.Number, event.Request.Reason)
	payload := s.payload(event.Document, event.RequestedBy, message)
	return s.deliver(NotificationRequest, recipients, payload)
}

func (s *NotificationService) payload(doc entities.Document, actor entities.Identity, message string) websocket.NotificationPayload {
	return websocket.NotificationPayload{
		DocumentID:     doc.ID,
		DocumentNumber: doc.Number,
		DocumentName:   doc.Name,
		Actor: websocket.ActorInfo{
			UserID:   actor.UserID,
			Username: actor.Username,
			Sector:   actor.Sector,
		},
		Message:   message,
		CreatedAt: s.now().UTC(),
	}
}

func (s *NotificationService) deliver(kind string, recipients []uint64, payload websocket.NotificationPayload) error {
	var errs []error
	for _, userID := range recipients {
		envelope := websocket.Envelope{
			ID:        uuid.NewString(),
			Type:      kind,
			Payload:   payload,
			Timestamp: payload.CreatedAt,
		}
		if err := s.sender.SendToUser(userID, envelope); err != nil {
			errs = append(errs, fmt.Errorf("user %d: %w", userID, err))
			continue
		}
		s.logger.Debug("notification sent",
			zap.String("type", kind),
			zap.Uint64("userID", userID),
			zap.Uint64("documentID", payload.DocumentID),
		)
	}
	return errors.Join(errs...)
}

package listeners

import (
	"context"

	"go.uber.org/zap"

	"protocol-system/internal/events"
	"protocol-system/internal/services"
	"protocol-system/pkg/eventbus"
)

// NotificationListener turns committed workflow events into user notices.
// Delivery failures are logged by the bus and never retried.
type NotificationListener struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationListener(notificationService services.NotificationServiceInterface, logger *zap.Logger) *NotificationListener {
	return &NotificationListener{
		notificationService: notificationService,
		logger:              logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.DocumentRejected, l.handleDocumentRejected)
	bus.Subscribe(events.DocumentRequested, l.handleDocumentRequested)
	l.logger.Info("notification listener subscribed",
		zap.Strings("events", []string{events.DocumentRejected, events.DocumentRequested}))
}

func (l *NotificationListener) handleDocumentRejected(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.DocumentRejectedEvent)
	if !ok {
		return nil
	}
	return l.notificationService.NotifyRejection(ctx, e)
}

func (l *NotificationListener) handleDocumentRequested(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.DocumentRequestedEvent)
	if !ok {
		return nil
	}
	return l.notificationService.NotifyRequest(ctx, e)
}

package listeners

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"protocol-system/internal/entities"
	"protocol-system/internal/events"
	"protocol-system/pkg/eventbus"
)

type recordingNotifier struct {
	mu         sync.Mutex
	rejections []events.DocumentRejectedEvent
	requests   []events.DocumentRequestedEvent
}

func (n *recordingNotifier) NotifyRejection(_ context.Context, event events.DocumentRejectedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rejections = append(n.rejections, event)
	return nil
}

func (n *recordingNotifier) NotifyRequest(_ context.Context, event events.DocumentRequestedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.requests = append(n.requests, event)
	return nil
}

func TestNotificationListener_RoutesEvents(t *testing.T) {
	bus := eventbus.New(zap.NewNop())
	notifier := &recordingNotifier{}
	NewNotificationListener(notifier, zap.NewNop()).Register(bus)

	ctx := context.Background()
	bus.Publish(ctx, events.DocumentRejectedEvent{Document: entities.Document{ID: 1}})
	bus.Publish(ctx, events.DocumentRequestedEvent{Document: entities.Document{ID: 2}, HoldingSector: "Finance"})
	bus.Publish(ctx, events.DocumentRequestedEvent{Document: entities.Document{ID: 3}, HoldingSector: "Legal"})
	bus.Wait()

	assert.Len(t, notifier.rejections, 1)
	assert.Len(t, notifier.requests, 2)
	assert.Equal(t, uint64(1), notifier.rejections[0].Document.ID)
}

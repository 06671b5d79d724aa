package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const listenerTimeout = time.Minute

type Event interface {
	Name() string
}

type Listener func(ctx context.Context, event Event) error

// Bus delivers every published event to its listeners asynchronously.
// Listener failures are logged and never reach the publisher.
type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	inflight  sync.WaitGroup
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		logger:    logger,
	}
}

func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

func (b *Bus) Publish(_ context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	eventName := event.Name()
	for _, listener := range b.listeners[eventName] {
		b.inflight.Add(1)
		go func(l Listener) {
			defer b.inflight.Done()
			ctx, cancel := context.WithTimeout(context.Background(), listenerTimeout)
			defer cancel()

			if err := l(ctx, event); err != nil {
				b.logger.Error("event listener failed",
					zap.String("event", eventName),
					zap.Error(err),
				)
			}
		}(listener)
	}
}

// Wait blocks until every listener started so far has returned.
func (b *Bus) Wait() {
	b.inflight.Wait()
}

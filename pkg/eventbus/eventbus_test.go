package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type testEvent struct{ name string }

func (e testEvent) Name() string { return e.name }

func TestBus_DeliversToSubscribersOfTheEventOnly(t *testing.T) {
	bus := New(zap.NewNop())
	var hits, misses int32

	bus.Subscribe("document.rejected", func(context.Context, Event) error {
		atomic.AddInt32(&hits, 1)
		return nil
	})
	bus.Subscribe("document.rejected", func(context.Context, Event) error {
		atomic.AddInt32(&hits, 1)
		return errors.New("listener failure is only logged")
	})
	bus.Subscribe("document.requested", func(context.Context, Event) error {
		atomic.AddInt32(&misses, 1)
		return nil
	})

	bus.Publish(context.Background(), testEvent{name: "document.rejected"})
	bus.Wait()

	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	assert.Equal(t, int32(0), atomic.LoadInt32(&misses))
}

func TestBus_PublishWithoutListenersIsNoop(t *testing.T) {
	bus := New(zap.NewNop())
	bus.Publish(context.Background(), testEvent{name: "nobody.listens"})
	bus.Wait()
}

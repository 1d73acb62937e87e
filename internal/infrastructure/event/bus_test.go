package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/servicehub/admin/internal/infrastructure/cache"
	"github.com/servicehub/admin/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestEvent(eventType string) *testutil.TestEvent {
	return testutil.NewTestEvent(eventType, testutil.TestTenantID())
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := testutil.NewMockEventHandler("ProductCreated")
	other := testutil.NewMockEventHandler("InvoiceCreated")
	bus.Subscribe(h)
	bus.Subscribe(other)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("ProductCreated")))

	assert.Equal(t, 1, h.HandledCount())
	assert.Equal(t, 0, other.HandledCount())
}

func TestInMemoryEventBus_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	all := testutil.NewMockEventHandler()
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("A"), newTestEvent("B")))
	assert.Equal(t, 2, all.HandledCount())
}

func TestInMemoryEventBus_HandlerFailuresDoNotPropagate(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := testutil.NewMockEventHandler("X")
	failing.SetError(errors.New("boom"))
	panicking := testutil.NewMockEventHandler("X")
	panicking.SetPanics(true)
	ok := testutil.NewMockEventHandler("X")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(ok)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	assert.Equal(t, 1, ok.HandledCount())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := testutil.NewMockEventHandler("X")
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	assert.Equal(t, 0, h.HandledCount())
}

func TestInMemoryEventBus_AsyncDispatch(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch(4))
	h := testutil.NewMockEventHandler("X")
	bus.Subscribe(h)

	ctx := context.Background()
	require.NoError(t, bus.Start(ctx))
	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Publish(ctx, newTestEvent("X")))
	}

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(stopCtx))

	// Stop drains the queue before returning.
	assert.Equal(t, 10, h.HandledCount())

	// After Stop, publishing falls back to synchronous delivery.
	require.NoError(t, bus.Publish(ctx, newTestEvent("X")))
	assert.Equal(t, 11, h.HandledCount())
}

func TestInMemoryEventBus_StopWithoutStart(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch(0))
	assert.NoError(t, bus.Stop(context.Background()))
}

func TestIdempotentHandler(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore(0)
	defer store.Close()

	inner := testutil.NewMockEventHandler("X")
	h := NewIdempotentHandler(inner, store, time.Hour, zap.NewNop())
	assert.Equal(t, []string{"X"}, h.EventTypes())

	e := newTestEvent("X")
	ctx := context.Background()
	require.NoError(t, h.Handle(ctx, e))
	require.NoError(t, h.Handle(ctx, e))
	require.NoError(t, h.Handle(ctx, newTestEvent("X")))

	assert.Equal(t, 2, inner.HandledCount())
}

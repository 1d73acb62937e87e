// Package event provides the in-process domain event bus.
package event

import (
	"context"
	"sync"

	"github.com/servicehub/admin/internal/domain/shared"
	"go.uber.org/zap"
)

type envelope struct {
	ctx   context.Context
	event shared.DomainEvent
}

// Option configures the bus
type Option func(*InMemoryEventBus)

// WithAsyncDispatch makes Publish enqueue events for a background worker
// while the bus is running. buffer is the queue capacity.
func WithAsyncDispatch(buffer int) Option {
	return func(b *InMemoryEventBus) {
		if buffer <= 0 {
			buffer = 256
		}
		b.async = true
		b.buffer = buffer
	}
}

// InMemoryEventBus implements shared.EventBus with in-memory pub/sub.
// Handler failures are logged and never propagate to the publisher.
type InMemoryEventBus struct {
	logger *zap.Logger

	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	wildcard []shared.EventHandler

	async   bool
	buffer  int
	state   sync.RWMutex
	running bool
	queue   chan envelope
	wg      sync.WaitGroup
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, opts ...Option) *InMemoryEventBus {
	b := &InMemoryEventBus{
		logger:   logger,
		handlers: make(map[string][]shared.EventHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish delivers events to every subscribed handler
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.state.RLock()
	defer b.state.RUnlock()

	for _, event := range events {
		if b.async && b.running {
			select {
			case b.queue <- envelope{ctx: context.WithoutCancel(ctx), event: event}:
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		b.dispatch(ctx, event)
	}
	return nil
}

// Subscribe registers a handler. Without explicit types the handler's own
// EventTypes are used; a handler with no types receives every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(eventTypes) == 0 {
		b.wildcard = append(b.wildcard, handler)
	}
	for _, t := range eventTypes {
		b.handlers[t] = append(b.handlers[t], handler)
	}
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler from all event types
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.wildcard = without(b.wildcard, handler)
	for t, hs := range b.handlers {
		if hs = without(hs, handler); len(hs) == 0 {
			delete(b.handlers, t)
		} else {
			b.handlers[t] = hs
		}
	}
}

// Start starts the background worker when async dispatch is enabled
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.state.Lock()
	defer b.state.Unlock()
	if b.running {
		return nil
	}
	b.running = true
	if b.async {
		b.queue = make(chan envelope, b.buffer)
		b.wg.Add(1)
		go b.worker(b.queue)
	}
	b.logger.Info("event bus started", zap.Bool("async", b.async))
	return nil
}

// Stop drains queued events and stops the worker
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.state.Lock()
	if !b.running {
		b.state.Unlock()
		return nil
	}
	b.running = false
	if b.queue != nil {
		close(b.queue)
		b.queue = nil
	}
	b.state.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *InMemoryEventBus) worker(queue <-chan envelope) {
	defer b.wg.Done()
	for env := range queue {
		b.dispatch(env.ctx, env.event)
	}
}

func (b *InMemoryEventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	typed := b.handlers[eventType]
	out := make([]shared.EventHandler, 0, len(typed)+len(b.wildcard))
	out = append(out, typed...)
	return append(out, b.wildcard...)
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, event shared.DomainEvent) {
	for _, h := range b.handlersFor(event.EventType()) {
		if err := b.safeHandle(ctx, h, event); err != nil {
			b.logger.Error("handler failed to process event",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Error(err),
			)
		}
	}
}

func (b *InMemoryEventBus) safeHandle(ctx context.Context, h shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
		}
	}()
	return h.Handle(ctx, event)
}

func without(hs []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	out := hs[:0]
	for _, h := range hs {
		if h != target {
			out = append(out, h)
		}
	}
	return out
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)

package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
)

// RecordingPublisher keeps every published event in order
type RecordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	err    error
}

var _ shared.EventPublisher = (*RecordingPublisher)(nil)

// NewRecordingPublisher creates an empty RecordingPublisher
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// Publish records events, or returns the error set with FailWith without recording
func (p *RecordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, events...)
	return nil
}

// FailWith makes the following Publish calls return err
func (p *RecordingPublisher) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Events returns a copy of the recorded events
func (p *RecordingPublisher) Events() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}

// Types returns the event types in publish order
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// Reset forgets recorded events and any configured error
func (p *RecordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
	p.err = nil
}

// MockEventHandler records the events a bus delivers to it
type MockEventHandler struct {
	mu      sync.Mutex
	types   []string
	handled []shared.DomainEvent
	err     error
	panics  bool
}

var _ shared.EventHandler = (*MockEventHandler)(nil)

// NewMockEventHandler subscribes to eventTypes; none means every event
func NewMockEventHandler(eventTypes ...string) *MockEventHandler {
	return &MockEventHandler{types: eventTypes}
}

// EventTypes implements shared.EventHandler
func (h *MockEventHandler) EventTypes() []string {
	return h.types
}

// Handle records event and then fails or panics as configured
func (h *MockEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	err, panics := h.err, h.panics
	h.mu.Unlock()
	if panics {
		panic("handler exploded")
	}
	return err
}

// SetError makes Handle return err
func (h *MockEventHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// SetPanics makes Handle panic after recording
func (h *MockEventHandler) SetPanics(panics bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.panics = panics
}

// Handled returns a copy of the handled events
func (h *MockEventHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]shared.DomainEvent, len(h.handled))
	copy(out, h.handled)
	return out
}

// HandledCount returns how many events were handled
func (h *MockEventHandler) HandledCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

// TestEvent is a domain event with no payload
type TestEvent struct {
	shared.BaseDomainEvent
}

// NewTestEvent creates a TestEvent on a random aggregate of tenantID
func NewTestEvent(eventType string, tenantID uuid.UUID) *TestEvent {
	return &TestEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New(), tenantID),
	}
}

package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/servicehub/admin/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductRepricer reprices the products that use a specialty
type ProductRepricer interface {
	RepriceBySpecialty(ctx context.Context, tenantID, specialtyID uuid.UUID) (int, error)
}

// SpecialtyRatesChangedHandler reprices products when a specialty's hourly rates change
type SpecialtyRatesChangedHandler struct {
	repricer ProductRepricer
	logger   *zap.Logger
}

// NewSpecialtyRatesChangedHandler creates a new handler for rate changes
func NewSpecialtyRatesChangedHandler(repricer ProductRepricer, logger *zap.Logger) *SpecialtyRatesChangedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpecialtyRatesChangedHandler{
		repricer: repricer,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SpecialtyRatesChangedHandler) EventTypes() []string {
	return []string{catalog.EventTypeSpecialtyRatesChanged}
}

// Handle processes a SpecialtyRatesChangedEvent
func (h *SpecialtyRatesChangedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	ratesEvent, ok := event.(*catalog.SpecialtyRatesChangedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", catalog.EventTypeSpecialtyRatesChanged),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeSpecialtyRatesChanged, event.EventType())
	}

	changed, err := h.repricer.RepriceBySpecialty(ctx, event.TenantID(), ratesEvent.SpecialtyID)
	if err != nil {
		h.logger.Error("failed to reprice products",
			zap.String("tenant_id", event.TenantID().String()),
			zap.String("specialty_id", ratesEvent.SpecialtyID.String()),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("products repriced after rate change",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("specialty_id", ratesEvent.SpecialtyID.String()),
		zap.Int("repriced", changed),
	)
	return nil
}

var _ shared.EventHandler = (*SpecialtyRatesChangedHandler)(nil)
var _ ProductRepricer = (*ProductService)(nil)

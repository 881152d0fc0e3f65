package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/altanet-mx/crm_backend/internal/core/domain"
	portssvc "github.com/altanet-mx/crm_backend/internal/core/ports/services"
	"github.com/google/uuid"
)

// AuditEventEmitter writes best-effort audit records. A failed write never
// rolls back account or receipt state that was already applied; the caller
// collects the error and moves on.
type AuditEventEmitter struct {
	BaseService
	events portssvc.EventSvc
}

// NewAuditEventEmitter creates an emitter backed by the events service.
func NewAuditEventEmitter(events portssvc.EventSvc) *AuditEventEmitter {
	return &AuditEventEmitter{events: events}
}

// Emit writes one audit event, filling in its id and timestamp.
func (e *AuditEventEmitter) Emit(ctx context.Context, ev domain.Event) error {
	ev.EventID = uuid.NewString()
	ev.ParentType = domain.ParentTypeAccount
	ev.CreatedAt = time.Now()

	if _, err := e.events.CreateEvent(ctx, ev); err != nil {
		e.LogWarn(ctx, "Failed to write audit event",
			slog.String("type_value", ev.TypeValue),
			slog.String("parent_id", ev.ParentID),
			slog.String("error", err.Error()))
		return fmt.Errorf("writing %s audit event: %w", ev.TypeValue, err)
	}
	return nil
}

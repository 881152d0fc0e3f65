package services

import (
	"context"

	"github.com/altanet-mx/crm_backend/internal/core/domain"
	"github.com/altanet-mx/crm_backend/internal/dto"
)

// WorkOrderApprovalSvc is the billing engine's exposed surface: approval with
// retroactive billing reconciliation, plus the flat one-time receipt sibling.
type WorkOrderApprovalSvc interface {
	// ApproveWorkOrder marks a work order approved and reconciles the billing
	// owed for the period elapsed since the field work finished. Errors
	// collected after the status flip are returned inside the result, not as
	// the error value.
	ApproveWorkOrder(ctx context.Context, folio int, actingUser string) (*dto.ApprovalResult, error)

	// CreateWorkOrderReceipt creates the flat one-time receipt for a work
	// order's declared charge, bypassing date reconciliation. It rejects with
	// apperrors.ErrDuplicate when a matching pending receipt already exists.
	CreateWorkOrderReceipt(ctx context.Context, folio int, actingUser string) (*domain.Receipt, error)
}

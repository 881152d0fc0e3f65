package services

import (
	"context"

	"github.com/altanet-mx/crm_backend/internal/core/domain"
	"github.com/altanet-mx/crm_backend/internal/dto"
)

// Collaborator contracts for the independent record-keeping services this
// backend mediates for. The engine only ever sees these interfaces; the REST
// adapters in internal/adapters/restclient provide the live implementations.

// WorkOrderSvc exposes the work-orders record service.
type WorkOrderSvc interface {
	// GetWorkOrder retrieves a work order by folio.
	GetWorkOrder(ctx context.Context, folio int) (*domain.WorkOrder, error)

	// UpdateWorkOrder applies a partial update and returns the updated record.
	UpdateWorkOrder(ctx context.Context, folio int, patch dto.WorkOrderPatch) (*domain.WorkOrder, error)
}

// AccountSvc exposes the accounts record service.
type AccountSvc interface {
	// GetAccount retrieves the single account matching the filter.
	GetAccount(ctx context.Context, filter dto.AccountFilter) (*domain.Account, error)

	// UpdateAccount applies a partial update and returns the updated record.
	UpdateAccount(ctx context.Context, patch dto.AccountPatch) (*domain.Account, error)

	// GetCurrentCycleReceipt returns the account's open billing-cycle receipt
	// plus the slave accounts aggregated into it.
	GetCurrentCycleReceipt(ctx context.Context, accountNumber string) (*dto.CurrentCycleReceipt, error)
}

// ReceiptSvc exposes the receipts record service.
type ReceiptSvc interface {
	// QueryReceipts returns the receipts matching the filter.
	QueryReceipts(ctx context.Context, filter dto.ReceiptFilter) ([]domain.Receipt, error)

	// CreateReceipt persists a new receipt and returns it with its folio.
	CreateReceipt(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error)
}

// EventSvc exposes the events record service. Writes are fire-and-forget from
// the engine's point of view: failures are collected, never retried.
type EventSvc interface {
	CreateEvent(ctx context.Context, event domain.Event) (*domain.Event, error)
}

// ContractSvc exposes the contracts service.
type ContractSvc interface {
	GenerateContract(ctx context.Context, req dto.GenerateContractRequest) error
}

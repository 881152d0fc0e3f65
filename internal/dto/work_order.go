package dto

import (
	"time"

	"github.com/altanet-mx/crm_backend/internal/core/domain"
)

// ValidationFailure describes one eligibility rule a work order failed.
type ValidationFailure struct {
	Property string `json:"property"`
	Message  string `json:"message"`
}

// WorkOrderPatch is the partial update sent to the work-orders service.
// Only non-nil fields are applied.
type WorkOrderPatch struct {
	StatusValue *domain.WorkOrderStatus `json:"statusValue,omitempty"`
	Comments    *string                 `json:"comments,omitempty"`
}

// ApproveWorkOrderRequest is the optional body of the approval endpoint.
type ApproveWorkOrderRequest struct {
	User string `json:"user"`
}

// ApprovalResult is the outcome of a work-order approval. Errors holds the
// best-effort failures collected after the status flip; a non-empty list does
// not mean the approval failed.
type ApprovalResult struct {
	WorkOrder *domain.WorkOrder `json:"workOrder"`
	Errors    []string          `json:"errors"`
}

// AccountFilter selects a single account on the accounts service.
type AccountFilter struct {
	AccountNumber string `json:"accountNumber"`
}

// AccountPatch is the partial update sent to the accounts service. The engine
// only ever uses it to activate an account.
type AccountPatch struct {
	AccountNumber string                `json:"accountNumber"`
	StatusValue   *domain.AccountStatus `json:"statusValue,omitempty"`
	ActivatedAt   *time.Time            `json:"activatedAt,omitempty"`
}

// CurrentCycleReceipt is the accounts service's view of an account's open
// billing cycle: the cycle receipt (nil when none is open yet) plus the slave
// accounts aggregated into it.
type CurrentCycleReceipt struct {
	Receipt       *domain.Receipt  `json:"receipt"`
	SlaveAccounts []domain.Account `json:"slaveAccounts"`
}

// GenerateContractRequest asks the contracts service to generate (and
// optionally send) the service contract for an account.
type GenerateContractRequest struct {
	AccountNumber string `json:"accountNumber"`
	Send          bool   `json:"send"`
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/altanet-mx/crm_backend/internal/core/domain"
	portssvc "github.com/altanet-mx/crm_backend/internal/core/ports/services"
	"github.com/altanet-mx/crm_backend/internal/dto"
)

// IdempotencyGuard checks whether a pending billing record already exists for
// the same (master account, operation) pair, so a re-triggered approval never
// bills the one-time charge twice.
//
// The check is read-then-act with no transactional guarantee: two concurrent
// approvals of the same folio can both observe "no existing receipt". Callers
// needing strict exactly-once semantics must serialize approvals per folio
// externally.
type IdempotencyGuard struct {
	BaseService
	receipts portssvc.ReceiptSvc
}

// NewIdempotencyGuard creates a guard backed by the receipts service.
func NewIdempotencyGuard(receipts portssvc.ReceiptSvc) *IdempotencyGuard {
	return &IdempotencyGuard{receipts: receipts}
}

// HasPendingCharge reports whether a pending receipt already ties the work
// order folio to the master account. Manual receipts are checked first; the
// monthly query only runs when the first found nothing.
func (g *IdempotencyGuard) HasPendingCharge(ctx context.Context, masterAccountNumber string, folio int) (bool, error) {
	for _, typeValue := range []domain.ReceiptType{domain.ReceiptManual, domain.ReceiptMonthly} {
		results, err := g.receipts.QueryReceipts(ctx, dto.ReceiptFilter{
			ParentID:      masterAccountNumber,
			OperationType: domain.OperationTypeWorkOrder,
			OperationID:   folio,
			TypeValue:     typeValue,
			StatusValue:   domain.ReceiptPending,
		})
		if err != nil {
			return false, fmt.Errorf("querying %s receipts for folio %d: %w", typeValue, folio, err)
		}
		if len(results) > 0 {
			g.LogInfo(ctx, "Pending receipt already exists for work order",
				slog.Int("folio", folio),
				slog.String("master_account", masterAccountNumber),
				slog.String("type_value", string(typeValue)))
			return true, nil
		}
	}
	return false, nil
}

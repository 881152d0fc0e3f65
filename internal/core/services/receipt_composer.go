package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/altanet-mx/crm_backend/internal/core/domain"
	portssvc "github.com/altanet-mx/crm_backend/internal/core/ports/services"
	"github.com/altanet-mx/crm_backend/internal/utils/billing"
	"github.com/shopspring/decimal"
)

// ReceiptComposer turns a reconciler draft into the final receipt record and
// persists it through the receipts service.
type ReceiptComposer struct {
	BaseService
	receipts portssvc.ReceiptSvc
}

// NewReceiptComposer creates a composer backed by the receipts service.
func NewReceiptComposer(receipts portssvc.ReceiptSvc) *ReceiptComposer {
	return &ReceiptComposer{receipts: receipts}
}

// Finalize recomputes the receipt totals from its items and stamps the
// operation linkage back to the originating work order. Rounding is applied
// after every accumulation, matching how the receipts service itself
// accumulates amounts.
func (c *ReceiptComposer) Finalize(rec *domain.Receipt, folio int) {
	subTotal := decimal.Zero
	discount := decimal.Zero
	for _, it := range rec.Items {
		// Reused cycle lines can carry a quantity greater than one.
		line := it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity)))
		subTotal = billing.Round2(subTotal.Add(line))
		discount = billing.Round2(discount.Add(it.Discount))
	}
	taxes := billing.Taxes(subTotal)

	rec.SubTotal = subTotal
	rec.Taxes = taxes
	rec.Discount = discount
	rec.Total = billing.Round2(subTotal.Add(taxes).Sub(discount))
	rec.StatusValue = domain.ReceiptPending
	rec.OperationType = domain.OperationTypeWorkOrder
	rec.OperationID = folio
	rec.IsFromInstallation = true
}

// Persist creates the receipt on the receipts service. Failures are returned
// to the caller to collect; they are never retried.
func (c *ReceiptComposer) Persist(ctx context.Context, rec domain.Receipt) (*domain.Receipt, error) {
	created, err := c.receipts.CreateReceipt(ctx, rec)
	if err != nil {
		c.LogError(ctx, err, "Failed to persist receipt",
			slog.String("parent_id", rec.ParentID),
			slog.Int("operation_id", rec.OperationID))
		return nil, fmt.Errorf("creating receipt for operation %d: %w", rec.OperationID, err)
	}
	c.LogInfo(ctx, "Receipt created",
		slog.String("parent_id", created.ParentID),
		slog.Int("folio", created.Folio),
		slog.String("type_value", string(created.TypeValue)),
		slog.String("total", created.Total.StringFixed(2)))
	return created, nil
}

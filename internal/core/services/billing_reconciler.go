package services

import (
	"context"
	"fmt"
	"time"

	"github.com/altanet-mx/crm_backend/internal/core/domain"
	portssvc "github.com/altanet-mx/crm_backend/internal/core/ports/services"
	"github.com/altanet-mx/crm_backend/internal/utils/billing"
	"github.com/shopspring/decimal"
)

// prorationDay is the day-of-month cutoff of the billing rules: work finished
// before the 15th bills its completion month in full, work finished on or
// after it is prorated (or deferred, when the completion month is still
// open).
const prorationDay = 15

// ReconcileInput carries everything the reconciler needs. Today is injected
// so the decision is deterministic; the reconciler never reads the clock.
type ReconcileInput struct {
	WorkOrder           *domain.WorkOrder
	Account             *domain.Account
	MasterAccountNumber string
	InstallationCharge  decimal.Decimal
	ChargeTypeValue     string
	Today               time.Time
}

// ReconcileOutcome is the billing plan for an approval. Receipt is a draft:
// items, type and parent are set, totals are left to the ReceiptComposer.
// Receipt is nil when the elapsed period produced nothing to bill.
type ReconcileOutcome struct {
	Receipt *domain.Receipt

	// DeferredProportional is set when the completion month is still open and
	// the work finished on or after the proration cutoff: the partial-month
	// amount is not billed here, it is left to the next natural billing
	// cycle. Recorded in the audit trail only.
	DeferredProportional *decimal.Decimal

	// BackBilledMonths counts the months covered by a retroactive monthly
	// receipt, completion month included. Zero for current-month approvals.
	BackBilledMonths int
}

// BillingPeriodReconciler decides what billing period(s) an approval must
// charge, comparing the work order's completion month against today.
//
// Callers must run the already-active fast path first: an active account is
// treated as already billed and never reaches the reconciler.
type BillingPeriodReconciler struct {
	BaseService
	accounts portssvc.AccountSvc
}

// NewBillingPeriodReconciler creates a reconciler backed by the accounts
// service, which it only uses to read the current open cycle receipt.
func NewBillingPeriodReconciler(accounts portssvc.AccountSvc) *BillingPeriodReconciler {
	return &BillingPeriodReconciler{accounts: accounts}
}

// Reconcile builds the billing plan for a work order finished at
// in.WorkOrder.FinishedAt, evaluated as of in.Today.
func (r *BillingPeriodReconciler) Reconcile(ctx context.Context, in ReconcileInput) (*ReconcileOutcome, error) {
	finished := *in.WorkOrder.FinishedAt

	if monthBefore(finished, in.Today) {
		return r.reconcileElapsedMonths(finished, in), nil
	}
	return r.reconcileCurrentMonth(ctx, finished, in)
}

// reconcileCurrentMonth handles work finished in the month the approval runs
// in (or, degenerately, later).
func (r *BillingPeriodReconciler) reconcileCurrentMonth(ctx context.Context, finished time.Time, in ReconcileInput) (*ReconcileOutcome, error) {
	out := &ReconcileOutcome{}

	if finished.Day() < prorationDay {
		// The whole open cycle is owed. Reuse the open cycle receipt's
		// structure when the accounts service has one, otherwise build a
		// standalone manual receipt from the account's cycle amounts.
		cycle, err := r.accounts.GetCurrentCycleReceipt(ctx, in.Account.AccountNumber)
		if err != nil {
			return nil, fmt.Errorf("fetching current cycle receipt for account %s: %w", in.Account.AccountNumber, err)
		}

		var rec domain.Receipt
		if cycle != nil && cycle.Receipt != nil {
			rec = *cycle.Receipt
		} else {
			rec = r.newDraftReceipt(in, domain.ReceiptManual)
			rec.Items = append(rec.Items, fullCycleItem(in.Account, ""))
		}
		rec.ParentID = in.MasterAccountNumber
		rec.ParentType = domain.ParentTypeAccount
		rec.StatusValue = domain.ReceiptPending

		if in.InstallationCharge.IsPositive() {
			rec.Items = append(rec.Items, oneTimeChargeItem(in.InstallationCharge, in.ChargeTypeValue))
		}
		out.Receipt = &rec
		return out, nil
	}

	// On or after the cutoff the open cycle is not billed here. The
	// partial-month amount is computed, recorded, and deferred to the next
	// natural billing cycle.
	if in.InstallationCharge.IsPositive() {
		rec := r.newDraftReceipt(in, domain.ReceiptManual)
		rec.Items = append(rec.Items, oneTimeChargeItem(in.InstallationCharge, in.ChargeTypeValue))
		out.Receipt = &rec
	}
	deferred := billing.ProportionalCharge(in.Account.SubTotal, finished)
	out.DeferredProportional = &deferred
	return out, nil
}

// reconcileElapsedMonths handles work finished in a strictly earlier month:
// one full-subscription item per skipped month, plus a completion-month item
// governed by the proration cutoff, all on a single monthly receipt billed to
// the master account.
func (r *BillingPeriodReconciler) reconcileElapsedMonths(finished time.Time, in ReconcileInput) *ReconcileOutcome {
	rec := r.newDraftReceipt(in, domain.ReceiptMonthly)

	walk := monthsBack(in.Today, finished)
	for _, bm := range walk {
		if bm.IsCompletionMonth && finished.Day() >= prorationDay {
			annotation := fmt.Sprintf(" (proporcional del mes de %s)", billing.MonthName(bm.Month))
			rec.Items = append(rec.Items, proportionalItem(in.Account, finished, annotation))
			continue
		}
		annotation := fmt.Sprintf(" (cobro del mes de %s)", billing.MonthName(bm.Month))
		rec.Items = append(rec.Items, fullCycleItem(in.Account, annotation))
	}

	if in.InstallationCharge.IsPositive() {
		rec.Items = append(rec.Items, oneTimeChargeItem(in.InstallationCharge, in.ChargeTypeValue))
	}

	return &ReconcileOutcome{
		Receipt:          &rec,
		BackBilledMonths: len(walk),
	}
}

func (r *BillingPeriodReconciler) newDraftReceipt(in ReconcileInput, typeValue domain.ReceiptType) domain.Receipt {
	return domain.Receipt{
		ParentID:      in.MasterAccountNumber,
		ParentType:    domain.ParentTypeAccount,
		MovementDate:  in.Today,
		StatusValue:   domain.ReceiptPending,
		TypeValue:     typeValue,
		CurrencyValue: in.Account.CurrencyValue,
		ExchangeRate:  decimal.NewFromInt(1),
	}
}

// monthBefore reports whether a's (month, year) is strictly earlier than b's.
func monthBefore(a, b time.Time) bool {
	if a.Year() != b.Year() {
		return a.Year() < b.Year()
	}
	return a.Month() < b.Month()
}

// fullCycleItem is one month of the account's current subscription amounts.
func fullCycleItem(acct *domain.Account, annotation string) domain.Item {
	name := acct.ProductName
	if annotation != "" {
		name = billing.AnnotateProductName(acct.ProductName, annotation)
	}
	total := billing.Round2(acct.SubTotal.Add(billing.Taxes(acct.SubTotal)).Sub(acct.Discount))
	return domain.Item{
		ProductID:   acct.ProductID,
		ProductName: name,
		Quantity:    1,
		Discount:    acct.Discount,
		UnitCost:    acct.SubTotal,
		Total:       total,
	}
}

// proportionalItem is the partial completion-month charge.
func proportionalItem(acct *domain.Account, finished time.Time, annotation string) domain.Item {
	p := billing.ProportionalCharge(acct.SubTotal, finished)
	return domain.Item{
		ProductID:   acct.ProductID,
		ProductName: billing.AnnotateProductName(acct.ProductName, annotation),
		Quantity:    1,
		Discount:    decimal.Zero,
		UnitCost:    p,
		Total:       billing.Round2(p.Add(billing.Taxes(p))),
	}
}

// oneTimeChargeItem is the declared installation fee. The declared amount is
// tax-inclusive, so the net portion goes on the unit cost and the item total
// stays equal to the declared amount.
func oneTimeChargeItem(amount decimal.Decimal, chargeTypeValue string) domain.Item {
	sub, _ := billing.SplitTaxInclusive(amount)
	return domain.Item{
		ProductName: chargeItemName(chargeTypeValue),
		Quantity:    1,
		Discount:    decimal.Zero,
		UnitCost:    sub,
		Total:       amount,
	}
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/altanet-mx/crm_backend/internal/apperrors"
	"github.com/altanet-mx/crm_backend/internal/core/domain"
	portssvc "github.com/altanet-mx/crm_backend/internal/core/ports/services"
	"github.com/altanet-mx/crm_backend/internal/dto"
	"github.com/altanet-mx/crm_backend/internal/utils/billing"
	"github.com/shopspring/decimal"
)

// WorkOrderApprovalCoordinator orchestrates the approval of a field work
// order: eligibility gate, status flip, charge classification, idempotency
// guard, billing reconciliation, receipt persistence, account activation and
// contract generation.
//
// Failures split into two tiers. Everything up to and including the status
// flip is fatal and aborts the approval. Once the status flip succeeds the
// operation runs to completion: later failures are collected into the result
// and never rolled back.
type workOrderApprovalCoordinator struct {
	BaseService
	workOrders portssvc.WorkOrderSvc
	accounts   portssvc.AccountSvc
	contracts  portssvc.ContractSvc

	eligibility *EligibilityValidator
	guard       *IdempotencyGuard
	reconciler  *BillingPeriodReconciler
	composer    *ReceiptComposer
	emitter     *AuditEventEmitter

	now func() time.Time
}

// CoordinatorOption is a functional option for configuring the coordinator.
type CoordinatorOption func(*workOrderApprovalCoordinator)

// WithClock overrides the clock the coordinator injects into the reconciler.
// Tests use it to pin "today".
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *workOrderApprovalCoordinator) {
		c.now = now
	}
}

// NewWorkOrderApprovalCoordinator wires the approval engine from the five
// collaborator services.
func NewWorkOrderApprovalCoordinator(
	workOrders portssvc.WorkOrderSvc,
	accounts portssvc.AccountSvc,
	receipts portssvc.ReceiptSvc,
	events portssvc.EventSvc,
	contracts portssvc.ContractSvc,
	options ...CoordinatorOption,
) portssvc.WorkOrderApprovalSvc {
	c := &workOrderApprovalCoordinator{
		workOrders:  workOrders,
		accounts:    accounts,
		contracts:   contracts,
		eligibility: NewEligibilityValidator(),
		guard:       NewIdempotencyGuard(receipts),
		reconciler:  NewBillingPeriodReconciler(accounts),
		composer:    NewReceiptComposer(receipts),
		emitter:     NewAuditEventEmitter(events),
		now:         time.Now,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

var _ portssvc.WorkOrderApprovalSvc = (*workOrderApprovalCoordinator)(nil)

func (c *workOrderApprovalCoordinator) ApproveWorkOrder(ctx context.Context, folio int, actingUser string) (*dto.ApprovalResult, error) {
	wo, err := c.workOrders.GetWorkOrder(ctx, folio)
	if err != nil {
		c.LogError(ctx, err, "Failed to fetch work order", slog.Int("folio", folio))
		return nil, fmt.Errorf("fetching work order %d: %w", folio, err)
	}

	if failures := c.eligibility.Validate(wo); len(failures) > 0 {
		msgs := make([]string, 0, len(failures))
		for _, f := range failures {
			msgs = append(msgs, f.Property+": "+f.Message)
		}
		c.LogWarn(ctx, "Work order failed eligibility checks",
			slog.Int("folio", folio),
			slog.String("failures", strings.Join(msgs, "; ")))
		return nil, fmt.Errorf("work order %d is not approvable (%s): %w", folio, strings.Join(msgs, "; "), apperrors.ErrValidation)
	}

	// The status flip is the only step required to succeed before the billing
	// consequences run.
	approvedStatus := domain.WorkOrderApproved
	approved, err := c.workOrders.UpdateWorkOrder(ctx, folio, dto.WorkOrderPatch{StatusValue: &approvedStatus})
	if err != nil {
		c.LogError(ctx, err, "Failed to mark work order approved", slog.Int("folio", folio))
		return nil, fmt.Errorf("approving work order %d: %w", folio, err)
	}

	result := &dto.ApprovalResult{WorkOrder: approved, Errors: []string{}}

	if wo.ChargeDetails == nil {
		c.LogInfo(ctx, "Work order declares no charges, approved without billing", slog.Int("folio", folio))
		return result, nil
	}

	charge := ClassifyCharges(wo.ChargeDetails)
	if !charge.IsInstallation {
		c.LogInfo(ctx, "Work order has no installation charge, approved without billing", slog.Int("folio", folio))
		return result, nil
	}

	account, err := c.accounts.GetAccount(ctx, dto.AccountFilter{AccountNumber: wo.AccountNumber})
	if err != nil {
		c.LogError(ctx, err, "Failed to fetch account", slog.String("account_number", wo.AccountNumber))
		return nil, fmt.Errorf("fetching account %s: %w", wo.AccountNumber, err)
	}

	// An account that is already active was already billed; re-approving the
	// work order must not charge anything again.
	if account.StatusValue == domain.AccountActive {
		c.LogInfo(ctx, "Account already active, approval has no billing consequence",
			slog.Int("folio", folio),
			slog.String("account_number", account.AccountNumber))
		return result, nil
	}

	master := account.MasterAccountNumber()

	amount := charge.Amount
	duplicate, err := c.guard.HasPendingCharge(ctx, master, folio)
	if err != nil {
		// Without the guard's answer the one-time fee is not safe to bill;
		// reconciliation still runs without it.
		result.Errors = append(result.Errors, err.Error())
		amount = decimal.Zero
	} else if duplicate {
		amount = decimal.Zero
	}

	today := c.now()
	outcome, err := c.reconciler.Reconcile(ctx, ReconcileInput{
		WorkOrder:           wo,
		Account:             account,
		MasterAccountNumber: master,
		InstallationCharge:  amount,
		ChargeTypeValue:     charge.ChargeTypeValue,
		Today:               today,
	})
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		outcome = nil
	}

	if outcome != nil {
		if outcome.Receipt != nil && len(outcome.Receipt.Items) > 0 {
			c.composer.Finalize(outcome.Receipt, folio)
			if _, err := c.composer.Persist(ctx, *outcome.Receipt); err != nil {
				result.Errors = append(result.Errors, err.Error())
			}
		}
		c.emitOutcomeEvents(ctx, outcome, wo, account, actingUser, today, result)
	}

	c.activateAccount(ctx, account, wo, result)

	if err := c.contracts.GenerateContract(ctx, dto.GenerateContractRequest{AccountNumber: account.AccountNumber, Send: true}); err != nil {
		c.LogWarn(ctx, "Contract generation failed",
			slog.String("account_number", account.AccountNumber),
			slog.String("error", err.Error()))
		result.Errors = append(result.Errors, fmt.Sprintf("generating contract for account %s: %v", account.AccountNumber, err))
		if emitErr := c.emitter.Emit(ctx, domain.Event{
			ParentID:    account.AccountNumber,
			User:        actingUser,
			TypeValue:   domain.EventContractError,
			Description: fmt.Sprintf("Fallo al generar el contrato de la cuenta %s: %v", account.AccountNumber, err),
		}); emitErr != nil {
			result.Errors = append(result.Errors, emitErr.Error())
		}
	}

	return result, nil
}

// emitOutcomeEvents writes one audit event per billing branch taken.
func (c *workOrderApprovalCoordinator) emitOutcomeEvents(ctx context.Context, outcome *ReconcileOutcome, wo *domain.WorkOrder, account *domain.Account, actingUser string, today time.Time, result *dto.ApprovalResult) {
	finished := *wo.FinishedAt

	if outcome.DeferredProportional != nil {
		ev := domain.Event{
			ParentID:  account.AccountNumber,
			User:      actingUser,
			TypeValue: domain.EventProrationDeferred,
			Description: fmt.Sprintf("Cobro proporcional de $%s diferido al siguiente corte (mes de %s, ODX %d)",
				outcome.DeferredProportional.StringFixed(2), billing.MonthName(finished.Month()), wo.Folio),
		}
		if err := c.emitter.Emit(ctx, ev); err != nil {
			result.Errors = append(result.Errors, err.Error())
		}
	}

	if outcome.BackBilledMonths > 0 {
		elapsedDays := int(today.Sub(finished).Hours() / 24)
		ev := domain.Event{
			ParentID:  account.AccountNumber,
			User:      actingUser,
			TypeValue: domain.EventBackBilling,
			Description: fmt.Sprintf("Cobro retroactivo de %d meses por la ODX %d: %d días transcurridos desde la finalización, total $%s",
				outcome.BackBilledMonths, wo.Folio, elapsedDays, outcome.Receipt.Total.StringFixed(2)),
		}
		if err := c.emitter.Emit(ctx, ev); err != nil {
			result.Errors = append(result.Errors, err.Error())
		}
	}
}

// activateAccount flips the account to active, stamping the activation to the
// moment the field work finished.
func (c *workOrderApprovalCoordinator) activateAccount(ctx context.Context, account *domain.Account, wo *domain.WorkOrder, result *dto.ApprovalResult) {
	activeStatus := domain.AccountActive
	if _, err := c.accounts.UpdateAccount(ctx, dto.AccountPatch{
		AccountNumber: account.AccountNumber,
		StatusValue:   &activeStatus,
		ActivatedAt:   wo.FinishedAt,
	}); err != nil {
		c.LogError(ctx, err, "Failed to activate account", slog.String("account_number", account.AccountNumber))
		result.Errors = append(result.Errors, fmt.Sprintf("activating account %s: %v", account.AccountNumber, err))
		return
	}
	c.LogInfo(ctx, "Account activated", slog.String("account_number", account.AccountNumber))
}

// CreateWorkOrderReceipt creates the flat one-time receipt for a work order,
// bypassing billing-period reconciliation entirely.
func (c *workOrderApprovalCoordinator) CreateWorkOrderReceipt(ctx context.Context, folio int, actingUser string) (*domain.Receipt, error) {
	wo, err := c.workOrders.GetWorkOrder(ctx, folio)
	if err != nil {
		c.LogError(ctx, err, "Failed to fetch work order", slog.Int("folio", folio))
		return nil, fmt.Errorf("fetching work order %d: %w", folio, err)
	}

	charge := ClassifyCharges(wo.ChargeDetails)
	if !charge.IsInstallation || !charge.Amount.IsPositive() {
		return nil, fmt.Errorf("work order %d declares no one-time charge: %w", folio, apperrors.ErrValidation)
	}

	account, err := c.accounts.GetAccount(ctx, dto.AccountFilter{AccountNumber: wo.AccountNumber})
	if err != nil {
		c.LogError(ctx, err, "Failed to fetch account", slog.String("account_number", wo.AccountNumber))
		return nil, fmt.Errorf("fetching account %s: %w", wo.AccountNumber, err)
	}
	master := account.MasterAccountNumber()

	duplicate, err := c.guard.HasPendingCharge(ctx, master, folio)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, fmt.Errorf("a pending receipt already exists for work order %d: %w", folio, apperrors.ErrDuplicate)
	}

	rec := domain.Receipt{
		ParentID:      master,
		ParentType:    domain.ParentTypeAccount,
		MovementDate:  c.now(),
		StatusValue:   domain.ReceiptPending,
		TypeValue:     domain.ReceiptManual,
		CurrencyValue: account.CurrencyValue,
		ExchangeRate:  decimal.NewFromInt(1),
		Items:         []domain.Item{oneTimeChargeItem(charge.Amount, charge.ChargeTypeValue)},
	}
	c.composer.Finalize(&rec, folio)

	return c.composer.Persist(ctx, rec)
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/altanet-mx/crm_backend/internal/apperrors"
	"github.com/altanet-mx/crm_backend/internal/core/domain"
	portssvc "github.com/altanet-mx/crm_backend/internal/core/ports/services"
	"github.com/altanet-mx/crm_backend/internal/core/services"
	"github.com/altanet-mx/crm_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ApprovalCoordinatorTestSuite struct {
	suite.Suite
	mockWorkOrders *MockWorkOrderSvc
	mockAccounts   *MockAccountSvc
	mockReceipts   *MockReceiptSvc
	mockEvents     *MockEventSvc
	mockContracts  *MockContractSvc
	coordinator    portssvc.WorkOrderApprovalSvc

	today time.Time
}

func (s *ApprovalCoordinatorTestSuite) SetupTest() {
	s.mockWorkOrders = new(MockWorkOrderSvc)
	s.mockAccounts = new(MockAccountSvc)
	s.mockReceipts = new(MockReceiptSvc)
	s.mockEvents = new(MockEventSvc)
	s.mockContracts = new(MockContractSvc)
	s.today = time.Date(2025, time.August, 25, 12, 0, 0, 0, time.UTC)
	s.coordinator = services.NewWorkOrderApprovalCoordinator(
		s.mockWorkOrders, s.mockAccounts, s.mockReceipts, s.mockEvents, s.mockContracts,
		services.WithClock(func() time.Time { return s.today }),
	)
}

func (s *ApprovalCoordinatorTestSuite) workOrder(finished time.Time, charges []domain.ChargeDetail) *domain.WorkOrder {
	started := finished.Add(-4 * time.Hour)
	return &domain.WorkOrder{
		Folio:         42,
		StartedAt:     &started,
		FinishedAt:    &finished,
		StatusValue:   domain.WorkOrderPending,
		TypeValue:     domain.WorkOrderInstallation,
		ChargeDetails: charges,
		AccountNumber: "A-200",
		TechnicalUser: "tech-7",
	}
}

func (s *ApprovalCoordinatorTestSuite) inactiveAccount() *domain.Account {
	return &domain.Account{
		AccountNumber: "A-200",
		SubTotal:      decimal.NewFromInt(930),
		Taxes:         decimal.RequireFromString("148.80"),
		Discount:      decimal.Zero,
		ProductID:     "prod-50m",
		ProductName:   "Internet 50M",
		StatusValue:   domain.AccountInactive,
		IsMaster:      true,
		CurrencyValue: "MXN",
	}
}

func (s *ApprovalCoordinatorTestSuite) expectStatusFlip(wo *domain.WorkOrder) {
	approved := *wo
	approved.StatusValue = domain.WorkOrderApproved
	s.mockWorkOrders.On("GetWorkOrder", mock.Anything, 42).Return(wo, nil).Once()
	s.mockWorkOrders.On("UpdateWorkOrder", mock.Anything, 42, mock.MatchedBy(func(p dto.WorkOrderPatch) bool {
		return p.StatusValue != nil && *p.StatusValue == domain.WorkOrderApproved
	})).Return(&approved, nil).Once()
}

func (s *ApprovalCoordinatorTestSuite) expectNoPendingReceipts() {
	s.mockReceipts.On("QueryReceipts", mock.Anything, mock.Anything).Return([]domain.Receipt{}, nil).Twice()
}

func installationCharge(amount int64) []domain.ChargeDetail {
	return []domain.ChargeDetail{{Amount: decimal.NewFromInt(amount), ChargeTypeValue: domain.ChargeTypeInstallation}}
}

func (s *ApprovalCoordinatorTestSuite) TestIneligibleWorkOrderAborts() {
	ctx := context.Background()
	wo := s.workOrder(s.today, installationCharge(1160))
	wo.TechnicalUser = ""
	s.mockWorkOrders.On("GetWorkOrder", mock.Anything, 42).Return(wo, nil).Once()

	result, err := s.coordinator.ApproveWorkOrder(ctx, 42, "ana")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Nil(result)

	// No side effect may run before the gate passes.
	s.mockWorkOrders.AssertNotCalled(s.T(), "UpdateWorkOrder", mock.Anything, mock.Anything, mock.Anything)
	s.mockReceipts.AssertNotCalled(s.T(), "CreateReceipt", mock.Anything, mock.Anything)
}

func (s *ApprovalCoordinatorTestSuite) TestNoChargeListApprovesWithoutBilling() {
	ctx := context.Background()
	wo := s.workOrder(s.today.AddDate(0, 0, -3), nil)
	s.expectStatusFlip(wo)

	result, err := s.coordinator.ApproveWorkOrder(ctx, 42, "ana")
	s.Require().NoError(err)
	s.Equal(domain.WorkOrderApproved, result.WorkOrder.StatusValue)
	s.Empty(result.Errors)

	s.mockAccounts.AssertNotCalled(s.T(), "GetAccount", mock.Anything, mock.Anything)
	s.mockReceipts.AssertNotCalled(s.T(), "CreateReceipt", mock.Anything, mock.Anything)
}

func (s *ApprovalCoordinatorTestSuite) TestNoInstallationChargeApprovesWithoutBilling() {
	ctx := context.Background()
	charges := []domain.ChargeDetail{{Amount: decimal.NewFromInt(300), ChargeTypeValue: "equipment"}}
	wo := s.workOrder(s.today.AddDate(0, 0, -3), charges)
	s.expectStatusFlip(wo)

	result, err := s.coordinator.ApproveWorkOrder(ctx, 42, "ana")
	s.Require().NoError(err)
	s.Empty(result.Errors)

	s.mockReceipts.AssertNotCalled(s.T(), "CreateReceipt", mock.Anything, mock.Anything)
}

func (s *ApprovalCoordinatorTestSuite) TestAlreadyActiveAccountReturnsImmediately() {
	ctx := context.Background()
	wo := s.workOrder(s.today.AddDate(0, -2, 0), installationCharge(1160))
	s.expectStatusFlip(wo)

	account := s.inactiveAccount()
	account.StatusValue = domain.AccountActive
	s.mockAccounts.On("GetAccount", mock.Anything, dto.AccountFilter{AccountNumber: "A-200"}).Return(account, nil).Once()

	result, err := s.coordinator.ApproveWorkOrder(ctx, 42, "ana")
	s.Require().NoError(err)
	s.Empty(result.Errors)

	s.mockReceipts.AssertNotCalled(s.T(), "QueryReceipts", mock.Anything, mock.Anything)
	s.mockReceipts.AssertNotCalled(s.T(), "CreateReceipt", mock.Anything, mock.Anything)
	s.mockAccounts.AssertNotCalled(s.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (s *ApprovalCoordinatorTestSuite) TestCurrentMonthBeforeCutoffBillsCycleAndActivates() {
	ctx := context.Background()
	finished := time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC)
	wo := s.workOrder(finished, installationCharge(1160))
	s.expectStatusFlip(wo)

	account := s.inactiveAccount()
	s.mockAccounts.On("GetAccount", mock.Anything, dto.AccountFilter{AccountNumber: "A-200"}).Return(account, nil).Once()
	s.expectNoPendingReceipts()
	s.mockAccounts.On("GetCurrentCycleReceipt", mock.Anything, "A-200").Return(&dto.CurrentCycleReceipt{}, nil).Once()

	var persisted domain.Receipt
	created := domain.Receipt{Folio: 9001}
	s.mockReceipts.On("CreateReceipt", mock.Anything, mock.AnythingOfType("domain.Receipt")).
		Run(func(args mock.Arguments) { persisted = args.Get(1).(domain.Receipt) }).
		Return(&created, nil).Once()

	activated := *account
	activated.StatusValue = domain.AccountActive
	s.mockAccounts.On("UpdateAccount", mock.Anything, mock.MatchedBy(func(p dto.AccountPatch) bool {
		return p.AccountNumber == "A-200" &&
			p.StatusValue != nil && *p.StatusValue == domain.AccountActive &&
			p.ActivatedAt != nil && p.ActivatedAt.Equal(finished)
	})).Return(&activated, nil).Once()

	s.mockContracts.On("GenerateContract", mock.Anything, dto.GenerateContractRequest{AccountNumber: "A-200", Send: true}).Return(nil).Once()

	result, err := s.coordinator.ApproveWorkOrder(ctx, 42, "ana")
	s.Require().NoError(err)
	s.Empty(result.Errors)

	// One receipt: full current cycle plus the one-time charge.
	s.Require().Len(persisted.Items, 2)
	s.Equal(domain.ReceiptManual, persisted.TypeValue)
	s.Equal(domain.OperationTypeWorkOrder, persisted.OperationType)
	s.Equal(42, persisted.OperationID)
	s.True(persisted.IsFromInstallation)
	// 930 + 1000 net, 16% IVA: 1930 + 308.80 = 2238.80
	s.Equal("1930.00", persisted.SubTotal.StringFixed(2))
	s.Equal("308.80", persisted.Taxes.StringFixed(2))
	s.Equal("2238.80", persisted.Total.StringFixed(2))

	s.mockAccounts.AssertExpectations(s.T())
	s.mockContracts.AssertExpectations(s.T())
}

func (s *ApprovalCoordinatorTestSuite) TestCurrentMonthAfterCutoffEmitsDeferralEvent() {
	ctx := context.Background()
	finished := time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC)
	wo := s.workOrder(finished, installationCharge(1160))
	s.expectStatusFlip(wo)

	account := s.inactiveAccount()
	s.mockAccounts.On("GetAccount", mock.Anything, mock.Anything).Return(account, nil).Once()
	s.expectNoPendingReceipts()

	var persisted domain.Receipt
	s.mockReceipts.On("CreateReceipt", mock.Anything, mock.AnythingOfType("domain.Receipt")).
		Run(func(args mock.Arguments) { persisted = args.Get(1).(domain.Receipt) }).
		Return(&domain.Receipt{Folio: 9002}, nil).Once()

	var emitted domain.Event
	s.mockEvents.On("CreateEvent", mock.Anything, mock.AnythingOfType("domain.Event")).
		Run(func(args mock.Arguments) { emitted = args.Get(1).(domain.Event) }).
		Return(&domain.Event{}, nil).Once()

	s.mockAccounts.On("UpdateAccount", mock.Anything, mock.Anything).Return(account, nil).Once()
	s.mockContracts.On("GenerateContract", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := s.coordinator.ApproveWorkOrder(ctx, 42, "ana")
	s.Require().NoError(err)
	s.Empty(result.Errors)

	// Standalone one-time receipt equal to the declared amount; no cycle billing.
	s.Require().Len(persisted.Items, 1)
	s.Equal("1160.00", persisted.Total.StringFixed(2))

	// Exactly one informational event with the computed proration: (930/31)*11 = 330.00.
	s.Equal(domain.EventProrationDeferred, emitted.TypeValue)
	s.Contains(emitted.Description, "330.00")
	s.Contains(emitted.Description, "agosto")
	s.Equal("ana", emitted.User)
	s.mockEvents.AssertNumberOfCalls(s.T(), "CreateEvent", 1)
}

func (s *ApprovalCoordinatorTestSuite) TestElapsedMonthsBackBilling() {
	ctx := context.Background()
	finished := time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC)
	wo := s.workOrder(finished, installationCharge(1160))
	s.expectStatusFlip(wo)

	account := s.inactiveAccount()
	s.mockAccounts.On("GetAccount", mock.Anything, mock.Anything).Return(account, nil).Once()
	s.expectNoPendingReceipts()

	var persisted domain.Receipt
	s.mockReceipts.On("CreateReceipt", mock.Anything, mock.AnythingOfType("domain.Receipt")).
		Run(func(args mock.Arguments) { persisted = args.Get(1).(domain.Receipt) }).
		Return(&domain.Receipt{Folio: 9003}, nil).Once()

	var emitted domain.Event
	s.mockEvents.On("CreateEvent", mock.Anything, mock.AnythingOfType("domain.Event")).
		Run(func(args mock.Arguments) { emitted = args.Get(1).(domain.Event) }).
		Return(&domain.Event{}, nil).Once()

	s.mockAccounts.On("UpdateAccount", mock.Anything, mock.Anything).Return(account, nil).Once()
	s.mockContracts.On("GenerateContract", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := s.coordinator.ApproveWorkOrder(ctx, 42, "ana")
	s.Require().NoError(err)
	s.Empty(result.Errors)

	// August + July + June full, May proportional, plus the one-time charge.
	s.Equal(domain.ReceiptMonthly, persisted.TypeValue)
	s.Require().Len(persisted.Items, 5)
	// 930*3 + 330 + 1000 = 4120 net; IVA 659.20; total 4779.20
	s.Equal("4120.00", persisted.SubTotal.StringFixed(2))
	s.Equal("4779.20", persisted.Total.StringFixed(2))

	s.Equal(domain.EventBackBilling, emitted.TypeValue)
	s.Contains(emitted.Description, "4779.20")
}

func (s *ApprovalCoordinatorTestSuite) TestDuplicatePendingReceiptSuppressesOneTimeCharge() {
	ctx := context.Background()
	finished := time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC)
	wo := s.workOrder(finished, installationCharge(1160))
	s.expectStatusFlip(wo)

	account := s.inactiveAccount()
	s.mockAccounts.On("GetAccount", mock.Anything, mock.Anything).Return(account, nil).Once()

	existing := []domain.Receipt{{ParentID: "A-200", OperationID: 42}}
	s.mockReceipts.On("QueryReceipts", mock.Anything, mock.Anything).Return(existing, nil).Once()

	var persisted domain.Receipt
	s.mockReceipts.On("CreateReceipt", mock.Anything, mock.AnythingOfType("domain.Receipt")).
		Run(func(args mock.Arguments) { persisted = args.Get(1).(domain.Receipt) }).
		Return(&domain.Receipt{Folio: 9004}, nil).Once()

	s.mockEvents.On("CreateEvent", mock.Anything, mock.Anything).Return(&domain.Event{}, nil).Once()
	s.mockAccounts.On("UpdateAccount", mock.Anything, mock.Anything).Return(account, nil).Once()
	s.mockContracts.On("GenerateContract", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := s.coordinator.ApproveWorkOrder(ctx, 42, "ana")
	s.Require().NoError(err)
	s.Empty(result.Errors)

	// Monthly back-billing still proceeds, but without the one-time fee.
	s.Require().Len(persisted.Items, 4)
	for _, it := range persisted.Items {
		s.NotContains(it.ProductName, "instalación")
	}
}

func (s *ApprovalCoordinatorTestSuite) TestContractFailureIsCollectedNotFatal() {
	ctx := context.Background()
	finished := time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC)
	wo := s.workOrder(finished, installationCharge(1160))
	s.expectStatusFlip(wo)

	account := s.inactiveAccount()
	s.mockAccounts.On("GetAccount", mock.Anything, mock.Anything).Return(account, nil).Once()
	s.expectNoPendingReceipts()
	s.mockAccounts.On("GetCurrentCycleReceipt", mock.Anything, "A-200").Return(&dto.CurrentCycleReceipt{}, nil).Once()
	s.mockReceipts.On("CreateReceipt", mock.Anything, mock.Anything).Return(&domain.Receipt{Folio: 9005}, nil).Once()
	s.mockAccounts.On("UpdateAccount", mock.Anything, mock.Anything).Return(account, nil).Once()

	s.mockContracts.On("GenerateContract", mock.Anything, mock.Anything).Return(assert.AnError).Once()
	var emitted domain.Event
	s.mockEvents.On("CreateEvent", mock.Anything, mock.AnythingOfType("domain.Event")).
		Run(func(args mock.Arguments) { emitted = args.Get(1).(domain.Event) }).
		Return(&domain.Event{}, nil).Once()

	result, err := s.coordinator.ApproveWorkOrder(ctx, 42, "ana")
	s.Require().NoError(err)
	s.Require().Len(result.Errors, 1)
	s.Contains(result.Errors[0], "generating contract")
	s.Equal(domain.EventContractError, emitted.TypeValue)
}

func (s *ApprovalCoordinatorTestSuite) TestEventWriteFailureIsCollectedNotFatal() {
	ctx := context.Background()
	finished := time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC)
	wo := s.workOrder(finished, installationCharge(1160))
	s.expectStatusFlip(wo)

	account := s.inactiveAccount()
	s.mockAccounts.On("GetAccount", mock.Anything, mock.Anything).Return(account, nil).Once()
	s.expectNoPendingReceipts()
	s.mockReceipts.On("CreateReceipt", mock.Anything, mock.Anything).Return(&domain.Receipt{Folio: 9007}, nil).Once()

	// The deferral event write fails; everything else proceeds untouched.
	s.mockEvents.On("CreateEvent", mock.Anything, mock.Anything).Return(nil, assert.AnError).Once()
	s.mockAccounts.On("UpdateAccount", mock.Anything, mock.MatchedBy(func(p dto.AccountPatch) bool {
		return p.StatusValue != nil && *p.StatusValue == domain.AccountActive
	})).Return(account, nil).Once()
	s.mockContracts.On("GenerateContract", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := s.coordinator.ApproveWorkOrder(ctx, 42, "ana")
	s.Require().NoError(err)
	s.Equal(domain.WorkOrderApproved, result.WorkOrder.StatusValue)
	s.Require().Len(result.Errors, 1)
	s.Contains(result.Errors[0], "audit event")

	s.mockAccounts.AssertCalled(s.T(), "UpdateAccount", mock.Anything, mock.Anything)
	s.mockContracts.AssertExpectations(s.T())
}

func (s *ApprovalCoordinatorTestSuite) TestReceiptPersistenceFailureIsCollected() {
	ctx := context.Background()
	finished := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)
	wo := s.workOrder(finished, installationCharge(1160))
	s.expectStatusFlip(wo)

	account := s.inactiveAccount()
	s.mockAccounts.On("GetAccount", mock.Anything, mock.Anything).Return(account, nil).Once()
	s.expectNoPendingReceipts()
	s.mockReceipts.On("CreateReceipt", mock.Anything, mock.Anything).Return(nil, assert.AnError).Once()
	s.mockEvents.On("CreateEvent", mock.Anything, mock.Anything).Return(&domain.Event{}, nil).Once()
	s.mockAccounts.On("UpdateAccount", mock.Anything, mock.Anything).Return(account, nil).Once()
	s.mockContracts.On("GenerateContract", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := s.coordinator.ApproveWorkOrder(ctx, 42, "ana")
	s.Require().NoError(err)
	s.Require().Len(result.Errors, 1)
	s.Contains(result.Errors[0], "creating receipt")

	// The approval itself stands; the account is still activated.
	s.mockAccounts.AssertCalled(s.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (s *ApprovalCoordinatorTestSuite) TestUpstreamUnavailableOnFetchIsFatal() {
	ctx := context.Background()
	s.mockWorkOrders.On("GetWorkOrder", mock.Anything, 42).Return(nil, apperrors.ErrUpstreamUnavailable).Once()

	result, err := s.coordinator.ApproveWorkOrder(ctx, 42, "ana")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUpstreamUnavailable)
	s.Nil(result)
}

func (s *ApprovalCoordinatorTestSuite) TestCreateWorkOrderReceipt() {
	ctx := context.Background()
	wo := s.workOrder(time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC), installationCharge(1160))
	s.mockWorkOrders.On("GetWorkOrder", mock.Anything, 42).Return(wo, nil).Once()

	account := s.inactiveAccount()
	s.mockAccounts.On("GetAccount", mock.Anything, mock.Anything).Return(account, nil).Once()
	s.mockReceipts.On("QueryReceipts", mock.Anything, mock.Anything).Return([]domain.Receipt{}, nil).Twice()

	var persisted domain.Receipt
	created := domain.Receipt{Folio: 9006, Total: decimal.NewFromInt(1160)}
	s.mockReceipts.On("CreateReceipt", mock.Anything, mock.AnythingOfType("domain.Receipt")).
		Run(func(args mock.Arguments) { persisted = args.Get(1).(domain.Receipt) }).
		Return(&created, nil).Once()

	receipt, err := s.coordinator.CreateWorkOrderReceipt(ctx, 42, "ana")
	s.Require().NoError(err)
	s.Equal(9006, receipt.Folio)

	// Flat receipt: exactly the declared charge, no reconciliation.
	s.Require().Len(persisted.Items, 1)
	s.Equal(domain.ReceiptManual, persisted.TypeValue)
	s.Equal("1000.00", persisted.SubTotal.StringFixed(2))
	s.Equal("1160.00", persisted.Total.StringFixed(2))
	s.Equal(42, persisted.OperationID)
}

func (s *ApprovalCoordinatorTestSuite) TestCreateWorkOrderReceiptRejectsDuplicate() {
	ctx := context.Background()
	wo := s.workOrder(time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC), installationCharge(1160))
	s.mockWorkOrders.On("GetWorkOrder", mock.Anything, 42).Return(wo, nil).Once()
	s.mockAccounts.On("GetAccount", mock.Anything, mock.Anything).Return(s.inactiveAccount(), nil).Once()

	existing := []domain.Receipt{{ParentID: "A-200", OperationID: 42}}
	s.mockReceipts.On("QueryReceipts", mock.Anything, mock.Anything).Return(existing, nil).Once()

	receipt, err := s.coordinator.CreateWorkOrderReceipt(ctx, 42, "ana")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.Nil(receipt)
	s.mockReceipts.AssertNotCalled(s.T(), "CreateReceipt", mock.Anything, mock.Anything)
}

func (s *ApprovalCoordinatorTestSuite) TestCreateWorkOrderReceiptRejectsMissingCharge() {
	ctx := context.Background()
	wo := s.workOrder(time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC), nil)
	s.mockWorkOrders.On("GetWorkOrder", mock.Anything, 42).Return(wo, nil).Once()

	receipt, err := s.coordinator.CreateWorkOrderReceipt(ctx, 42, "ana")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Nil(receipt)
}

func TestApprovalCoordinatorTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalCoordinatorTestSuite))
}

package services_test

import (
	"context"

	"github.com/altanet-mx/crm_backend/internal/core/domain"
	"github.com/altanet-mx/crm_backend/internal/dto"
	"github.com/stretchr/testify/mock"
)

// Hand-written testify mocks for the five record-service collaborators,
// shared by the service test suites in this package.

type MockWorkOrderSvc struct {
	mock.Mock
}

func (m *MockWorkOrderSvc) GetWorkOrder(ctx context.Context, folio int) (*domain.WorkOrder, error) {
	args := m.Called(ctx, folio)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderSvc) UpdateWorkOrder(ctx context.Context, folio int, patch dto.WorkOrderPatch) (*domain.WorkOrder, error) {
	args := m.Called(ctx, folio, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkOrder), args.Error(1)
}

type MockAccountSvc struct {
	mock.Mock
}

func (m *MockAccountSvc) GetAccount(ctx context.Context, filter dto.AccountFilter) (*domain.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) UpdateAccount(ctx context.Context, patch dto.AccountPatch) (*domain.Account, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) GetCurrentCycleReceipt(ctx context.Context, accountNumber string) (*dto.CurrentCycleReceipt, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CurrentCycleReceipt), args.Error(1)
}

type MockReceiptSvc struct {
	mock.Mock
}

func (m *MockReceiptSvc) QueryReceipts(ctx context.Context, filter dto.ReceiptFilter) ([]domain.Receipt, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Receipt), args.Error(1)
}

func (m *MockReceiptSvc) CreateReceipt(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error) {
	args := m.Called(ctx, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

type MockEventSvc struct {
	mock.Mock
}

func (m *MockEventSvc) CreateEvent(ctx context.Context, event domain.Event) (*domain.Event, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

type MockContractSvc struct {
	mock.Mock
}

func (m *MockContractSvc) GenerateContract(ctx context.Context, req dto.GenerateContractRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

package handlers

import (
	"context"

	"github.com/fundingledger/backend/internal/models"
	"github.com/fundingledger/backend/internal/repository"
	"github.com/fundingledger/backend/internal/services"
	"github.com/stretchr/testify/mock"
)

type MockHistoryReader struct {
	mock.Mock
}

func (m *MockHistoryReader) History(ctx context.Context, userID, accountID string, window repository.TimeFilter) (*models.TransactionHistory, error) {
	args := m.Called(ctx, userID, accountID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransactionHistory), args.Error(1)
}

type MockFundingWorkflow struct {
	mock.Mock
}

func (m *MockFundingWorkflow) Create(ctx context.Context, in services.CreateFundingInput) (*models.FundingRequest, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FundingRequest), args.Error(1)
}

func (m *MockFundingWorkflow) Get(ctx context.Context, kind models.FundingKind, id string) (*models.FundingRequest, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FundingRequest), args.Error(1)
}

func (m *MockFundingWorkflow) ListForUser(ctx context.Context, kind models.FundingKind, userID string) ([]models.FundingRequest, error) {
	args := m.Called(ctx, kind, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FundingRequest), args.Error(1)
}

func (m *MockFundingWorkflow) ListAll(ctx context.Context, kind models.FundingKind, status string) ([]models.FundingRequest, error) {
	args := m.Called(ctx, kind, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FundingRequest), args.Error(1)
}

func (m *MockFundingWorkflow) UpdateStatus(ctx context.Context, kind models.FundingKind, id, adminID, status, reason string) (*services.Disposition, error) {
	args := m.Called(ctx, kind, id, adminID, status, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Disposition), args.Error(1)
}

func (m *MockFundingWorkflow) Stats(ctx context.Context, kind models.FundingKind) (*models.FundingStats, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FundingStats), args.Error(1)
}

type MockDriftAuditor struct {
	mock.Mock
}

func (m *MockDriftAuditor) Drift(ctx context.Context, q services.DriftQuery) ([]models.Drift, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Drift), args.Error(1)
}

type MockPaymentMethodWorkflow struct {
	mock.Mock
}

func (m *MockPaymentMethodWorkflow) Create(ctx context.Context, userID, address, currency, network string) (*models.PaymentMethod, error) {
	args := m.Called(ctx, userID, address, currency, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodWorkflow) ListForUser(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodWorkflow) ListAll(ctx context.Context, status string) ([]models.PaymentMethod, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodWorkflow) Approve(ctx context.Context, id, adminID string) (*models.PaymentMethod, error) {
	args := m.Called(ctx, id, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodWorkflow) Reject(ctx context.Context, id, adminID, reason string) (*models.PaymentMethod, error) {
	args := m.Called(ctx, id, adminID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentMethod), args.Error(1)
}

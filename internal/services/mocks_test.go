package services

import (
	"context"
	"time"

	"github.com/fundingledger/backend/internal/models"
	"github.com/fundingledger/backend/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) FindOwned(ctx context.Context, userID, accountID string) (*models.Account, error) {
	args := m.Called(ctx, userID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountStore) FindByLogin(ctx context.Context, accountID string) (*models.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

type MockFundingRepository struct {
	mock.Mock
	kind models.FundingKind
}

func (m *MockFundingRepository) Kind() models.FundingKind {
	return m.kind
}

func (m *MockFundingRepository) Create(ctx context.Context, req *models.FundingRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockFundingRepository) Get(ctx context.Context, id string) (*models.FundingRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FundingRequest), args.Error(1)
}

func (m *MockFundingRepository) List(ctx context.Context, f repository.FundingFilter) ([]models.FundingRequest, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FundingRequest), args.Error(1)
}

func (m *MockFundingRepository) Unreconciled(ctx context.Context, f repository.DriftFilter) ([]models.FundingRequest, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FundingRequest), args.Error(1)
}

func (m *MockFundingRepository) Stats(ctx context.Context) (*models.FundingStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FundingStats), args.Error(1)
}

type MockLedgerLister struct {
	mock.Mock
}

func (m *MockLedgerLister) List(ctx context.Context, f repository.LedgerFilter) ([]models.LedgerTransaction, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LedgerTransaction), args.Error(1)
}

type MockPaymentMethodStore struct {
	mock.Mock
}

func (m *MockPaymentMethodStore) Create(ctx context.Context, pm *models.PaymentMethod) error {
	args := m.Called(ctx, pm)
	return args.Error(0)
}

func (m *MockPaymentMethodStore) List(ctx context.Context, userID, status string) ([]models.PaymentMethod, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodStore) Dispose(ctx context.Context, id, status, actorID string, reason *string, at time.Time) (*models.PaymentMethod, error) {
	args := m.Called(ctx, id, status, actorID, reason, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentMethod), args.Error(1)
}

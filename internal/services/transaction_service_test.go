package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fundingledger/backend/internal/models"
	"github.com/fundingledger/backend/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type historyFixture struct {
	svc         *TransactionService
	accounts    *MockAccountStore
	deposits    *MockFundingRepository
	withdrawals *MockFundingRepository
	ledger      *MockLedgerLister
}

func newHistoryFixture() *historyFixture {
	f := &historyFixture{
		accounts:    new(MockAccountStore),
		deposits:    &MockFundingRepository{kind: models.KindDeposit},
		withdrawals: &MockFundingRepository{kind: models.KindWithdrawal},
		ledger:      new(MockLedgerLister),
	}
	f.svc = NewTransactionService(NewAccountResolver(f.accounts), f.deposits, f.withdrawals, f.ledger, zap.NewNop())
	return f
}

var acc1 = &models.Account{ID: "acc-1", AccountID: "ACC1", UserID: "user-1"}

func TestTransactionService_History(t *testing.T) {
	f := newHistoryFixture()
	t1 := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	f.accounts.On("FindOwned", mock.Anything, "user-1", "ACC1").Return(acc1, nil)
	filter := repository.FundingFilter{UserID: "user-1", AccountID: "acc-1"}
	f.deposits.On("List", mock.Anything, filter).Return([]models.FundingRequest{
		{ID: "D1", Amount: decimal.NewFromInt(100), Method: "crypto", Status: "approved", CreatedAt: t1},
	}, nil)
	f.withdrawals.On("List", mock.Anything, filter).Return([]models.FundingRequest{
		{ID: "W1", Amount: decimal.NewFromInt(40), Method: "bank", Status: "pending", CreatedAt: t2},
	}, nil)
	f.ledger.On("List", mock.Anything, repository.LedgerFilter{UserID: "user-1", AccountID: "acc-1"}).
		Return([]models.LedgerTransaction{}, nil)

	history, err := f.svc.History(context.Background(), "user-1", "ACC1", repository.TimeFilter{})

	require.NoError(t, err)
	assert.Equal(t, "Success", history.Status)
	assert.Equal(t, "ACC1", history.MT5Account)
	require.Len(t, history.Transactions, 2)
	assert.Equal(t, "W1", history.Transactions[0].DepositID)
	assert.True(t, history.Transactions[0].Profit.Equal(decimal.NewFromInt(-40)))
	assert.Equal(t, "D1", history.Transactions[1].DepositID)
	assert.True(t, history.Transactions[1].Profit.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "ACC1", history.Deposits[0].Login)

	f.deposits.AssertExpectations(t)
	f.withdrawals.AssertExpectations(t)
	f.ledger.AssertExpectations(t)
}

func TestTransactionService_HistoryPassesWindow(t *testing.T) {
	f := newHistoryFixture()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)
	window := repository.TimeFilter{Start: &start, End: &end}

	f.accounts.On("FindOwned", mock.Anything, "user-1", "ACC1").Return(acc1, nil)
	f.deposits.On("List", mock.Anything, repository.FundingFilter{UserID: "user-1", AccountID: "acc-1", Window: window}).
		Return([]models.FundingRequest{}, nil)
	f.withdrawals.On("List", mock.Anything, repository.FundingFilter{UserID: "user-1", AccountID: "acc-1", Window: window}).
		Return([]models.FundingRequest{}, nil)
	f.ledger.On("List", mock.Anything, repository.LedgerFilter{UserID: "user-1", AccountID: "acc-1", Window: window}).
		Return([]models.LedgerTransaction{}, nil)

	history, err := f.svc.History(context.Background(), "user-1", "ACC1", window)

	require.NoError(t, err)
	assert.NotNil(t, history.Transactions)
	assert.Empty(t, history.Transactions)
}

func TestTransactionService_HistoryForeignAccount(t *testing.T) {
	f := newHistoryFixture()
	f.accounts.On("FindOwned", mock.Anything, "user-2", "ACC1").Return(nil, repository.ErrNotFound)

	_, err := f.svc.History(context.Background(), "user-2", "ACC1", repository.TimeFilter{})

	assert.ErrorIs(t, err, ErrNotFound)
	f.deposits.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	f.withdrawals.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	f.ledger.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestTransactionService_HistoryMissingAccountID(t *testing.T) {
	f := newHistoryFixture()

	_, err := f.svc.History(context.Background(), "user-1", "", repository.TimeFilter{})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestTransactionService_HistoryInvertedWindow(t *testing.T) {
	f := newHistoryFixture()
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	_, err := f.svc.History(context.Background(), "user-1", "ACC1", repository.TimeFilter{Start: &start, End: &end})

	assert.ErrorIs(t, err, ErrValidation)
	f.accounts.AssertNotCalled(t, "FindOwned", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionService_HistorySourceFailureFailsRead(t *testing.T) {
	f := newHistoryFixture()

	f.accounts.On("FindOwned", mock.Anything, "user-1", "ACC1").Return(acc1, nil)
	f.deposits.On("List", mock.Anything, mock.Anything).Return([]models.FundingRequest{{ID: "D1"}}, nil)
	f.withdrawals.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("relation \"withdrawals\" does not exist"))
	f.ledger.On("List", mock.Anything, mock.Anything).Return([]models.LedgerTransaction{}, nil).Maybe()

	history, err := f.svc.History(context.Background(), "user-1", "ACC1", repository.TimeFilter{})

	assert.Error(t, err)
	assert.Nil(t, history)
	assert.Contains(t, err.Error(), "withdrawals")
}

package services

import (
	"context"
	"fmt"

	"github.com/fundingledger/backend/internal/models"
	"github.com/fundingledger/backend/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FundingLister reads one funding source
type FundingLister interface {
	List(ctx context.Context, f repository.FundingFilter) ([]models.FundingRequest, error)
}

// LedgerLister reads the platform ledger
type LedgerLister interface {
	List(ctx context.Context, f repository.LedgerFilter) ([]models.LedgerTransaction, error)
}

// TransactionService builds the merged account history
type TransactionService struct {
	resolver    *AccountResolver
	deposits    FundingLister
	withdrawals FundingLister
	ledger      LedgerLister
	logger      *zap.Logger
}

func NewTransactionService(resolver *AccountResolver, deposits, withdrawals FundingLister, ledger LedgerLister, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		resolver:    resolver,
		deposits:    deposits,
		withdrawals: withdrawals,
		ledger:      ledger,
		logger:      logger,
	}
}

// History returns the normalized deposits, withdrawals and ledger rows for
// one owned account, plus their merged time-ordered view. The three sources
// are read concurrently; if any read fails the whole call fails.
func (s *TransactionService) History(ctx context.Context, userID, accountID string, window repository.TimeFilter) (*models.TransactionHistory, error) {
	if window.Start != nil && window.End != nil && window.Start.After(*window.End) {
		return nil, fmt.Errorf("%w: startDate must not be after endDate", ErrValidation)
	}

	account, err := s.resolver.Resolve(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	var (
		deposits    []models.FundingRequest
		withdrawals []models.FundingRequest
		ledger      []models.LedgerTransaction
	)

	fundingFilter := repository.FundingFilter{UserID: userID, AccountID: account.ID, Window: window}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		deposits, err = s.deposits.List(gctx, fundingFilter)
		if err != nil {
			return fmt.Errorf("deposits: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		withdrawals, err = s.withdrawals.List(gctx, fundingFilter)
		if err != nil {
			return fmt.Errorf("withdrawals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ledger, err = s.ledger.List(gctx, repository.LedgerFilter{UserID: userID, AccountID: account.ID, Window: window})
		if err != nil {
			return fmt.Errorf("ledger transactions: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("transaction history read failed",
			zap.String("user_id", userID), zap.String("account_id", accountID), zap.Error(err))
		return nil, err
	}

	login := account.AccountID
	history := BuildHistory(login,
		normalizeDeposits(login, deposits),
		normalizeWithdrawals(login, withdrawals),
		normalizeLedger(login, ledger),
	)

	s.logger.Debug("transaction history built",
		zap.String("account_id", login),
		zap.Int("deposits", len(history.Deposits)),
		zap.Int("withdrawals", len(history.Withdrawals)),
		zap.Int("mt5_transactions", len(history.MT5Transactions)))

	return history, nil
}

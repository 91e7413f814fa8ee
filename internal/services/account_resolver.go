package services

import (
	"context"
	"fmt"

	"github.com/fundingledger/backend/internal/models"
)

// AccountStore looks up trading accounts
type AccountStore interface {
	FindOwned(ctx context.Context, userID, accountID string) (*models.Account, error)
	FindByLogin(ctx context.Context, accountID string) (*models.Account, error)
}

// AccountResolver is the ownership check every account-scoped operation runs first.
type AccountResolver struct {
	accounts AccountStore
}

func NewAccountResolver(accounts AccountStore) *AccountResolver {
	return &AccountResolver{accounts: accounts}
}

// Resolve returns the account only when userID owns it. Missing and foreign
// accounts both yield ErrNotFound.
func (r *AccountResolver) Resolve(ctx context.Context, userID, accountID string) (*models.Account, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account ID is required", ErrValidation)
	}
	if userID == "" {
		return nil, fmt.Errorf("MT5 account %w", ErrNotFound)
	}

	account, err := r.accounts.FindOwned(ctx, userID, accountID)
	if err != nil {
		return nil, translateRepoError("MT5 account", err)
	}
	return account, nil
}

// Lookup resolves an account without the ownership check, for staff sweeps.
func (r *AccountResolver) Lookup(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := r.accounts.FindByLogin(ctx, accountID)
	if err != nil {
		return nil, translateRepoError("MT5 account", err)
	}
	return account, nil
}

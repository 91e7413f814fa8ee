package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fundingledger/backend/internal/models"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindOwned returns the account with the given login only if userID owns it.
// A foreign account is indistinguishable from a missing one.
func (r *AccountRepository) FindOwned(ctx context.Context, userID, accountID string) (*models.Account, error) {
	return r.find(ctx, `
		SELECT id, account_id, user_id, created_at
		FROM mt5_accounts
		WHERE account_id = $1 AND user_id = $2
		LIMIT 1`, accountID, userID)
}

// FindByLogin is the unscoped lookup used by administrative sweeps
func (r *AccountRepository) FindByLogin(ctx context.Context, accountID string) (*models.Account, error) {
	return r.find(ctx, `
		SELECT id, account_id, user_id, created_at
		FROM mt5_accounts
		WHERE account_id = $1
		LIMIT 1`, accountID)
}

func (r *AccountRepository) find(ctx context.Context, query string, args ...any) (*models.Account, error) {
	var account models.Account
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&account.ID, &account.AccountID, &account.UserID, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &account, nil
}

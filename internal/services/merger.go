package services

import (
	"slices"

	"github.com/fundingledger/backend/internal/models"
)

// MergeTransactions concatenates deposits, withdrawals and ledger rows in that
// order and stable-sorts by open time, newest first. Rows sharing a timestamp
// keep their concatenation order.
func MergeTransactions(deposits, withdrawals, ledger []models.Transaction) []models.Transaction {
	merged := make([]models.Transaction, 0, len(deposits)+len(withdrawals)+len(ledger))
	merged = append(merged, deposits...)
	merged = append(merged, withdrawals...)
	merged = append(merged, ledger...)

	slices.SortStableFunc(merged, func(a, b models.Transaction) int {
		return b.OpenTime.Compare(a.OpenTime)
	})
	return merged
}

// BuildHistory assembles the per-source lists and their merged view.
// Bonuses are not sourced here and are always empty.
func BuildHistory(login string, deposits, withdrawals, ledger []models.Transaction) *models.TransactionHistory {
	return &models.TransactionHistory{
		Deposits:        deposits,
		Withdrawals:     withdrawals,
		MT5Transactions: ledger,
		Bonuses:         []models.Transaction{},
		Transactions:    MergeTransactions(deposits, withdrawals, ledger),
		Status:          "Success",
		MT5Account:      login,
	}
}

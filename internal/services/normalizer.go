package services

import (
	"github.com/fundingledger/backend/internal/models"
)

// DepositToTransaction maps a deposit request onto the canonical history row.
// login is the resolved platform account identifier.
func DepositToTransaction(login string, d models.FundingRequest) models.Transaction {
	return models.Transaction{
		DepositID: d.ID,
		Login:     login,
		OpenTime:  d.CreatedAt,
		Profit:    d.Amount,
		Amount:    d.Amount,
		Comment:   d.Method + " deposit - " + d.ID,
		Type:      string(models.KindDeposit),
		Status:    d.Status,
		AccountID: login,
	}
}

// WithdrawalToTransaction maps a withdrawal request; profit is the negated amount.
func WithdrawalToTransaction(login string, w models.FundingRequest) models.Transaction {
	return models.Transaction{
		DepositID: w.ID,
		Login:     login,
		OpenTime:  w.CreatedAt,
		Profit:    w.Amount.Neg(),
		Amount:    w.Amount,
		Comment:   w.Method + " withdrawal - " + w.ID,
		Type:      string(models.KindWithdrawal),
		Status:    w.Status,
		AccountID: login,
	}
}

// LedgerToTransaction maps a platform ledger row. Only the Deposit type counts
// as inflow; every other native type is treated as outflow.
func LedgerToTransaction(login string, lt models.LedgerTransaction) models.Transaction {
	depositID := lt.ID
	if lt.RequestID != nil && *lt.RequestID != "" {
		depositID = *lt.RequestID
	}

	profit := lt.Amount.Neg()
	if lt.Type == models.LedgerTypeDeposit {
		profit = lt.Amount
	}

	comment := lt.Type + " - " + lt.ID
	if lt.Comment != nil && *lt.Comment != "" {
		comment = *lt.Comment
	}

	return models.Transaction{
		DepositID: depositID,
		Login:     login,
		OpenTime:  lt.CreatedAt,
		Profit:    profit,
		Amount:    lt.Amount,
		Comment:   comment,
		Type:      lt.Type,
		Status:    lt.Status,
		AccountID: login,
	}
}

func normalizeDeposits(login string, deposits []models.FundingRequest) []models.Transaction {
	out := make([]models.Transaction, 0, len(deposits))
	for _, d := range deposits {
		out = append(out, DepositToTransaction(login, d))
	}
	return out
}

func normalizeWithdrawals(login string, withdrawals []models.FundingRequest) []models.Transaction {
	out := make([]models.Transaction, 0, len(withdrawals))
	for _, w := range withdrawals {
		out = append(out, WithdrawalToTransaction(login, w))
	}
	return out
}

func normalizeLedger(login string, ledger []models.LedgerTransaction) []models.Transaction {
	out := make([]models.Transaction, 0, len(ledger))
	for _, lt := range ledger {
		out = append(out, LedgerToTransaction(login, lt))
	}
	return out
}

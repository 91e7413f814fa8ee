package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical read-model row shown in account history.
// It is derived on every read and never persisted.
type Transaction struct {
	DepositID string          `json:"depositID"`
	Login     string          `json:"login"`
	OpenTime  time.Time       `json:"open_time"`
	Profit    decimal.Decimal `json:"profit"` // signed: inflow positive
	Amount    decimal.Decimal `json:"amount"`
	Comment   string          `json:"comment"`
	Type      string          `json:"type"`
	Status    string          `json:"status"`
	AccountID string          `json:"account_id"`
}

// TransactionHistory is the response shape of the account history read
type TransactionHistory struct {
	Deposits        []Transaction `json:"deposits"`
	Withdrawals     []Transaction `json:"withdrawals"`
	MT5Transactions []Transaction `json:"mt5Transactions"`
	Bonuses         []Transaction `json:"bonuses"`
	Transactions    []Transaction `json:"transactions"`
	Status          string        `json:"status"`
	MT5Account      string        `json:"MT5_account"`
}

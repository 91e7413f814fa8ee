package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger transaction types written by the funding workflow. The platform
// may store other native types which are passed through untouched.
const (
	LedgerTypeDeposit    = "Deposit"
	LedgerTypeWithdrawal = "Withdrawal"
)

// LedgerTransaction is the platform record of a financial movement against
// a trading account. RequestID links it back to the funding request that caused it.
type LedgerTransaction struct {
	ID            string          `json:"id" db:"id"`
	Type          string          `json:"type" db:"type"`
	Amount        decimal.Decimal `json:"amount" db:"amount"` // unsigned magnitude
	Currency      string          `json:"currency" db:"currency"`
	Status        string          `json:"status" db:"status"`
	RequestID     *string         `json:"depositId,omitempty" db:"request_id"`
	UserID        string          `json:"userId" db:"user_id"`
	AccountID     string          `json:"mt5AccountId" db:"mt5_account_id"`
	PaymentMethod *string         `json:"paymentMethod,omitempty" db:"payment_method"`
	ProcessedBy   *string         `json:"processedBy,omitempty" db:"processed_by"`
	ProcessedAt   *time.Time      `json:"processedAt,omitempty" db:"processed_at"`
	Comment       *string         `json:"comment,omitempty" db:"comment"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

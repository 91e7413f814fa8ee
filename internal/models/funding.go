package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundingKind distinguishes the two funding request sources
type FundingKind string

const (
	KindDeposit    FundingKind = "Deposit"
	KindWithdrawal FundingKind = "Withdrawal"
)

// Funding request statuses
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
	StatusFailed    = "failed"
)

// SuccessStatus is the terminal state that must be backed by a ledger entry.
func (k FundingKind) SuccessStatus() string {
	if k == KindWithdrawal {
		return StatusCompleted
	}
	return StatusApproved
}

// FailureStatuses are the terminal states that never produce a ledger entry.
func (k FundingKind) FailureStatuses() []string {
	if k == KindWithdrawal {
		return []string{StatusRejected, StatusFailed}
	}
	return []string{StatusRejected}
}

// IsTerminal reports whether status ends the lifecycle for this kind.
func (k FundingKind) IsTerminal(status string) bool {
	if status == k.SuccessStatus() {
		return true
	}
	for _, s := range k.FailureStatuses() {
		if status == s {
			return true
		}
	}
	return false
}

// Statuses lists every valid status for this kind, pending first.
func (k FundingKind) Statuses() []string {
	return append([]string{StatusPending, k.SuccessStatus()}, k.FailureStatuses()...)
}

// FundingRequest is a user-submitted deposit or withdrawal awaiting disposition.
// AccountID references Account.ID, not the platform login.
type FundingRequest struct {
	ID              string          `json:"id" db:"id"`
	Kind            FundingKind     `json:"type"`
	UserID          string          `json:"userId" db:"user_id"`
	AccountID       string          `json:"mt5AccountId" db:"mt5_account_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Method          string          `json:"method" db:"method"`
	Currency        string          `json:"currency" db:"currency"`
	Status          string          `json:"status" db:"status"`
	ProofFileName   *string         `json:"proofFileName,omitempty" db:"proof_file_name"`
	ApprovedBy      *string         `json:"approvedBy,omitempty" db:"approved_by"`
	ApprovedAt      *time.Time      `json:"approvedAt,omitempty" db:"approved_at"`
	RejectionReason *string         `json:"rejectionReason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// Drift is a funding request in its success state with no ledger entry behind it.
type Drift struct {
	Kind    FundingKind    `json:"kind"`
	Request FundingRequest `json:"request"`
}

// StatusStats aggregates requests sharing one status
type StatusStats struct {
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// FundingStats is the admin overview for one funding source
type FundingStats struct {
	Kind     FundingKind            `json:"kind"`
	Total    int64                  `json:"total"`
	ByStatus map[string]StatusStats `json:"byStatus"`
}

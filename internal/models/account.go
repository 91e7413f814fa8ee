package models

import "time"

// Account is a trading account eligible for funding.
// ID is the internal row key, AccountID the platform login shown to the user.
type Account struct {
	ID        string    `json:"id" db:"id"`
	AccountID string    `json:"accountId" db:"account_id"`
	UserID    string    `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

package models

import "time"

// PaymentMethod is a withdrawal destination wallet submitted for approval
type PaymentMethod struct {
	ID              string     `json:"id" db:"id"`
	UserID          string     `json:"userId" db:"user_id"`
	Address         string     `json:"address" db:"address"`
	Currency        string     `json:"currency" db:"currency"`
	Network         string     `json:"network" db:"network"`
	Status          string     `json:"status" db:"status"`
	ApprovedBy      *string    `json:"approvedBy,omitempty" db:"approved_by"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty" db:"approved_at"`
	RejectionReason *string    `json:"rejectionReason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

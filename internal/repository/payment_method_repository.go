package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fundingledger/backend/internal/models"
)

const paymentMethodColumns = `id, user_id, address, currency, network, status, approved_by, approved_at, rejection_reason, created_at, updated_at`

func scanPaymentMethod(row scanner) (*models.PaymentMethod, error) {
	pm := &models.PaymentMethod{}
	err := row.Scan(
		&pm.ID, &pm.UserID, &pm.Address, &pm.Currency, &pm.Network, &pm.Status,
		&pm.ApprovedBy, &pm.ApprovedAt, &pm.RejectionReason, &pm.CreatedAt, &pm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return pm, nil
}

type PaymentMethodRepository struct {
	db *sql.DB
}

func NewPaymentMethodRepository(db *sql.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

func (r *PaymentMethodRepository) Create(ctx context.Context, pm *models.PaymentMethod) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payment_methods (id, user_id, address, currency, network, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		pm.ID, pm.UserID, pm.Address, pm.Currency, pm.Network, pm.Status, pm.CreatedAt, pm.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert payment method: %w", err)
	}
	return nil
}

func (r *PaymentMethodRepository) Get(ctx context.Context, id string) (*models.PaymentMethod, error) {
	pm, err := scanPaymentMethod(r.db.QueryRowContext(ctx,
		`SELECT `+paymentMethodColumns+` FROM payment_methods WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get payment method %s: %w", id, err)
	}
	return pm, nil
}

// List returns payment methods newest first; empty userID or status match all.
func (r *PaymentMethodRepository) List(ctx context.Context, userID, status string) ([]models.PaymentMethod, error) {
	var b whereBuilder
	if userID != "" {
		b.eq("user_id", userID)
	}
	if status != "" {
		b.eq("status", status)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentMethodColumns+` FROM payment_methods`+b.sql()+` ORDER BY created_at DESC`, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	defer rows.Close()

	methods := []models.PaymentMethod{}
	for rows.Next() {
		pm, err := scanPaymentMethod(rows)
		if err != nil {
			return nil, err
		}
		methods = append(methods, *pm)
	}
	return methods, rows.Err()
}

// Dispose moves a pending payment method to status in a single statement.
// Returns ErrNotFound for an unknown id and ErrStaleStatus when the row is
// already terminal.
func (r *PaymentMethodRepository) Dispose(ctx context.Context, id, status, actorID string, reason *string, at time.Time) (*models.PaymentMethod, error) {
	var approvedAt *time.Time
	if status == models.StatusApproved {
		approvedAt = &at
	}

	pm, err := scanPaymentMethod(r.db.QueryRowContext(ctx, `
		UPDATE payment_methods
		SET status = $1, approved_by = $2, approved_at = $3, rejection_reason = $4, updated_at = $5
		WHERE id = $6 AND status = $7
		RETURNING `+paymentMethodColumns,
		status, actorID, approvedAt, reason, at, id, models.StatusPending))
	if err == nil {
		return pm, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dispose payment method %s: %w", id, err)
	}

	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrStaleStatus
}

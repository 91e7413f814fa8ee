package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fundingledger/backend/internal/models"
)

var ledgerColumnNames = []string{
	"id", "type", "amount", "currency", "status", "request_id", "user_id", "mt5_account_id",
	"payment_method", "processed_by", "processed_at", "comment", "created_at", "updated_at",
}

var ledgerColumns = strings.Join(ledgerColumnNames, ", ")

func scanLedgerTransaction(row scanner) (*models.LedgerTransaction, error) {
	lt := &models.LedgerTransaction{}
	err := row.Scan(
		&lt.ID, &lt.Type, &lt.Amount, &lt.Currency, &lt.Status, &lt.RequestID, &lt.UserID, &lt.AccountID,
		&lt.PaymentMethod, &lt.ProcessedBy, &lt.ProcessedAt, &lt.Comment, &lt.CreatedAt, &lt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return lt, nil
}

func ledgerByRequestID(ctx context.Context, q querier, requestID string) (*models.LedgerTransaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM mt5_transactions WHERE request_id = $1 LIMIT 1`, ledgerColumns)
	lt, err := scanLedgerTransaction(q.QueryRowContext(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ledger by request %s: %w", requestID, err)
	}
	return lt, nil
}

func insertLedgerTransaction(ctx context.Context, q querier, lt *models.LedgerTransaction) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO mt5_transactions (id, type, amount, currency, status, request_id, user_id, mt5_account_id,
			payment_method, processed_by, processed_at, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		lt.ID, lt.Type, lt.Amount, lt.Currency, lt.Status, lt.RequestID, lt.UserID, lt.AccountID,
		lt.PaymentMethod, lt.ProcessedBy, lt.ProcessedAt, lt.Comment, lt.CreatedAt, lt.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateLedger
		}
		return fmt.Errorf("insert ledger transaction: %w", err)
	}
	return nil
}

// LedgerFilter narrows a ledger listing
type LedgerFilter struct {
	UserID    string
	AccountID string
	Window    TimeFilter
}

// LedgerRepository reads the platform ledger table
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// List returns matching ledger rows, newest first.
func (r *LedgerRepository) List(ctx context.Context, f LedgerFilter) ([]models.LedgerTransaction, error) {
	var b whereBuilder
	if f.UserID != "" {
		b.eq("user_id", f.UserID)
	}
	if f.AccountID != "" {
		b.eq("mt5_account_id", f.AccountID)
	}
	b.window("created_at", f.Window)

	query := fmt.Sprintf(`SELECT %s FROM mt5_transactions%s ORDER BY created_at DESC`, ledgerColumns, b.sql())

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.LedgerTransaction{}
	for rows.Next() {
		lt, err := scanLedgerTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *lt)
	}
	return transactions, rows.Err()
}

func (r *LedgerRepository) ByRequestID(ctx context.Context, requestID string) (*models.LedgerTransaction, error) {
	return ledgerByRequestID(ctx, r.db, requestID)
}

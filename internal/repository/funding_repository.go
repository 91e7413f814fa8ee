package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fundingledger/backend/internal/models"
	"github.com/shopspring/decimal"
)

var fundingColumnNames = []string{
	"id", "user_id", "mt5_account_id", "amount", "method", "currency", "status",
	"proof_file_name", "approved_by", "approved_at", "rejection_reason", "created_at", "updated_at",
}

func fundingColumns(alias string) string {
	if alias == "" {
		return strings.Join(fundingColumnNames, ", ")
	}
	cols := make([]string, len(fundingColumnNames))
	for i, c := range fundingColumnNames {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

func fundingTable(kind models.FundingKind) string {
	if kind == models.KindWithdrawal {
		return "withdrawals"
	}
	return "deposits"
}

func scanFundingRequest(row scanner, kind models.FundingKind) (*models.FundingRequest, error) {
	req := &models.FundingRequest{Kind: kind}
	err := row.Scan(
		&req.ID, &req.UserID, &req.AccountID, &req.Amount, &req.Method, &req.Currency, &req.Status,
		&req.ProofFileName, &req.ApprovedBy, &req.ApprovedAt, &req.RejectionReason, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func collectFundingRequests(rows *sql.Rows, kind models.FundingKind) ([]models.FundingRequest, error) {
	defer rows.Close()

	requests := []models.FundingRequest{}
	for rows.Next() {
		req, err := scanFundingRequest(rows, kind)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// FundingFilter narrows a funding request listing. Empty fields are ignored.
type FundingFilter struct {
	UserID    string
	AccountID string
	Status    string
	Window    TimeFilter
}

// DriftFilter bounds a reconciliation sweep
type DriftFilter struct {
	AccountID string
	Window    TimeFilter
}

// FundingRepository stores one funding source: deposits or withdrawals.
type FundingRepository struct {
	db   *sql.DB
	kind models.FundingKind
}

func NewDepositRepository(db *sql.DB) *FundingRepository {
	return &FundingRepository{db: db, kind: models.KindDeposit}
}

func NewWithdrawalRepository(db *sql.DB) *FundingRepository {
	return &FundingRepository{db: db, kind: models.KindWithdrawal}
}

func (r *FundingRepository) Kind() models.FundingKind {
	return r.kind
}

func (r *FundingRepository) Create(ctx context.Context, req *models.FundingRequest) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, mt5_account_id, amount, method, currency, status, proof_file_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, fundingTable(r.kind))

	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.UserID, req.AccountID, req.Amount, req.Method, req.Currency, req.Status,
		req.ProofFileName, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert %s: %w", r.kind, err)
	}
	return nil
}

func (r *FundingRepository) Get(ctx context.Context, id string) (*models.FundingRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, fundingColumns(""), fundingTable(r.kind))
	req, err := scanFundingRequest(r.db.QueryRowContext(ctx, query, id), r.kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s %s: %w", r.kind, id, err)
	}
	return req, nil
}

// List returns matching requests, newest first.
func (r *FundingRepository) List(ctx context.Context, f FundingFilter) ([]models.FundingRequest, error) {
	var b whereBuilder
	if f.UserID != "" {
		b.eq("user_id", f.UserID)
	}
	if f.AccountID != "" {
		b.eq("mt5_account_id", f.AccountID)
	}
	if f.Status != "" {
		b.eq("status", f.Status)
	}
	b.window("created_at", f.Window)

	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY created_at DESC`, fundingColumns(""), fundingTable(r.kind), b.sql())

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind, err)
	}
	return collectFundingRequests(rows, r.kind)
}

// Unreconciled returns requests in the success state that no ledger
// transaction references.
func (r *FundingRepository) Unreconciled(ctx context.Context, f DriftFilter) ([]models.FundingRequest, error) {
	var b whereBuilder
	b.eq("f.status", r.kind.SuccessStatus())
	b.raw("t.id IS NULL")
	if f.AccountID != "" {
		b.eq("f.mt5_account_id", f.AccountID)
	}
	b.window("f.created_at", f.Window)

	query := fmt.Sprintf(`
		SELECT %s FROM %s f
		LEFT JOIN mt5_transactions t ON t.request_id = f.id%s
		ORDER BY f.created_at DESC`, fundingColumns("f"), fundingTable(r.kind), b.sql())

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("unreconciled %s: %w", r.kind, err)
	}
	return collectFundingRequests(rows, r.kind)
}

// Stats aggregates count and amount per status.
func (r *FundingRepository) Stats(ctx context.Context) (*models.FundingStats, error) {
	query := fmt.Sprintf(`SELECT status, COUNT(*), COALESCE(SUM(amount), 0) FROM %s GROUP BY status`, fundingTable(r.kind))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stats %s: %w", r.kind, err)
	}
	defer rows.Close()

	stats := &models.FundingStats{Kind: r.kind, ByStatus: make(map[string]models.StatusStats)}
	for _, status := range r.kind.Statuses() {
		stats.ByStatus[status] = models.StatusStats{TotalAmount: decimal.Zero}
	}

	for rows.Next() {
		var status string
		var s models.StatusStats
		if err := rows.Scan(&status, &s.Count, &s.TotalAmount); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = s
		stats.Total += s.Count
	}
	return stats, rows.Err()
}

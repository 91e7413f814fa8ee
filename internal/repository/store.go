package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fundingledger/backend/internal/models"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateLedger is returned when a second ledger row references the same funding request
	ErrDuplicateLedger = errors.New("ledger transaction already exists for request")
	// ErrStaleStatus is returned when a disposition update finds the row no longer pending
	ErrStaleStatus = errors.New("record is no longer pending")
)

const uniqueViolation = "23505"

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// FundingTx is the set of writes the funding workflow performs inside
// one database transaction.
type FundingTx interface {
	LockFundingRequest(ctx context.Context, kind models.FundingKind, id string) (*models.FundingRequest, error)
	LedgerByRequestID(ctx context.Context, requestID string) (*models.LedgerTransaction, error)
	UpdateDisposition(ctx context.Context, req *models.FundingRequest) error
	InsertLedgerTransaction(ctx context.Context, lt *models.LedgerTransaction) error
}

// Store owns the connection handle and hands out transactional units
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// InTx runs fn inside a single database transaction. The transaction is
// committed only when fn returns nil.
func (s *Store) InTx(ctx context.Context, fn func(FundingTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Tx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Tx implements FundingTx over a *sql.Tx
type Tx struct {
	tx *sql.Tx
}

var _ FundingTx = (*Tx)(nil)

// LockFundingRequest reads the request and holds its row lock until the
// surrounding transaction ends, serialising concurrent dispositions.
func (t *Tx) LockFundingRequest(ctx context.Context, kind models.FundingKind, id string) (*models.FundingRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 FOR UPDATE`, fundingColumns(""), fundingTable(kind))
	req, err := scanFundingRequest(t.tx.QueryRowContext(ctx, query, id), kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock %s %s: %w", kind, id, err)
	}
	return req, nil
}

func (t *Tx) LedgerByRequestID(ctx context.Context, requestID string) (*models.LedgerTransaction, error) {
	return ledgerByRequestID(ctx, t.tx, requestID)
}

// UpdateDisposition moves a pending request into the status carried by req.
func (t *Tx) UpdateDisposition(ctx context.Context, req *models.FundingRequest) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, approved_by = $2, approved_at = $3, rejection_reason = $4, updated_at = $5
		WHERE id = $6 AND status = $7`, fundingTable(req.Kind))

	result, err := t.tx.ExecContext(ctx, query,
		req.Status, req.ApprovedBy, req.ApprovedAt, req.RejectionReason, req.UpdatedAt,
		req.ID, models.StatusPending)
	if err != nil {
		return fmt.Errorf("update %s %s: %w", req.Kind, req.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (t *Tx) InsertLedgerTransaction(ctx context.Context, lt *models.LedgerTransaction) error {
	return insertLedgerTransaction(ctx, t.tx, lt)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

package services

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fundingledger/backend/internal/audit"
	"github.com/fundingledger/backend/internal/models"
	"github.com/fundingledger/backend/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 4, 2, 15, 30, 0, 0, time.UTC)

var fundingCols = []string{
	"id", "user_id", "mt5_account_id", "amount", "method", "currency", "status",
	"proof_file_name", "approved_by", "approved_at", "rejection_reason", "created_at", "updated_at",
}

var ledgerCols = []string{
	"id", "type", "amount", "currency", "status", "request_id", "user_id", "mt5_account_id",
	"payment_method", "processed_by", "processed_at", "comment", "created_at", "updated_at",
}

func fundingRow(id, amount, status string) *sqlmock.Rows {
	created := fixedNow.Add(-time.Hour)
	return sqlmock.NewRows(fundingCols).AddRow(id, "user-1", "acc-1", amount, "crypto", "USD", status,
		nil, nil, nil, nil, created, created)
}

func ledgerRow(id, requestID, amount string) *sqlmock.Rows {
	return sqlmock.NewRows(ledgerCols).AddRow(id, "Deposit", amount, "USD", "completed", requestID,
		"user-1", "acc-1", "crypto", "A1", fixedNow, "crypto deposit - "+requestID, fixedNow, fixedNow)
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}

// newSQLFundingService wires the service over sqlmock-backed repositories.
func newSQLFundingService(t *testing.T) (*FundingService, sqlmock.Sqlmock, *MockAccountStore) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	accounts := new(MockAccountStore)
	logger := zap.NewNop()
	svc := NewFundingService(
		NewAccountResolver(accounts),
		repository.NewDepositRepository(db),
		repository.NewWithdrawalRepository(db),
		repository.NewStore(db),
		NewStatsCache(nil, 0, logger),
		audit.NewAuditLogger(logger),
		logger,
	)
	svc.now = func() time.Time { return fixedNow }
	svc.newID = sequentialIDs("L")
	return svc, mock, accounts
}

// memoryStore is an in-memory TxRunner. Holding mu for the whole
// transaction stands in for the row lock.
type memoryStore struct {
	mu       sync.Mutex
	requests map[string]models.FundingRequest
	ledger   map[string]models.LedgerTransaction // by request id
	inserts  int
}

func newMemoryStore(reqs ...models.FundingRequest) *memoryStore {
	s := &memoryStore{
		requests: map[string]models.FundingRequest{},
		ledger:   map[string]models.LedgerTransaction{},
	}
	for _, r := range reqs {
		s.requests[r.ID] = r
	}
	return s
}

func (s *memoryStore) InTx(ctx context.Context, fn func(repository.FundingTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{store: s, updates: map[string]models.FundingRequest{}}
	if err := fn(tx); err != nil {
		return err
	}
	for id, r := range tx.updates {
		s.requests[id] = r
	}
	for _, lt := range tx.inserts {
		s.ledger[*lt.RequestID] = lt
		s.inserts++
	}
	return nil
}

type memoryTx struct {
	store   *memoryStore
	updates map[string]models.FundingRequest
	inserts []models.LedgerTransaction
}

func (t *memoryTx) LockFundingRequest(_ context.Context, kind models.FundingKind, id string) (*models.FundingRequest, error) {
	r, ok := t.store.requests[id]
	if !ok || r.Kind != kind {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (t *memoryTx) LedgerByRequestID(_ context.Context, requestID string) (*models.LedgerTransaction, error) {
	lt, ok := t.store.ledger[requestID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &lt, nil
}

func (t *memoryTx) UpdateDisposition(_ context.Context, req *models.FundingRequest) error {
	if t.store.requests[req.ID].Status != models.StatusPending {
		return repository.ErrStaleStatus
	}
	t.updates[req.ID] = *req
	return nil
}

func (t *memoryTx) InsertLedgerTransaction(_ context.Context, lt *models.LedgerTransaction) error {
	if _, ok := t.store.ledger[*lt.RequestID]; ok {
		return repository.ErrDuplicateLedger
	}
	t.inserts = append(t.inserts, *lt)
	return nil
}


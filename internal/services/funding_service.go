package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fundingledger/backend/internal/audit"
	"github.com/fundingledger/backend/internal/models"
	"github.com/fundingledger/backend/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FundingRepository is one funding source with its admin queries
type FundingRepository interface {
	Kind() models.FundingKind
	Create(ctx context.Context, req *models.FundingRequest) error
	Get(ctx context.Context, id string) (*models.FundingRequest, error)
	List(ctx context.Context, f repository.FundingFilter) ([]models.FundingRequest, error)
	Unreconciled(ctx context.Context, f repository.DriftFilter) ([]models.FundingRequest, error)
	Stats(ctx context.Context) (*models.FundingStats, error)
}

// TxRunner opens the transactional unit used for dispositions
type TxRunner interface {
	InTx(ctx context.Context, fn func(repository.FundingTx) error) error
}

// CreateFundingInput is what an account owner submits
type CreateFundingInput struct {
	Kind          models.FundingKind
	UserID        string
	AccountID     string // platform login
	Amount        decimal.Decimal
	Currency      string
	Method        string
	ProofFileName string
}

// Disposition is the outcome of an approve or reject call
type Disposition struct {
	Request  *models.FundingRequest    `json:"request"`
	Ledger   *models.LedgerTransaction `json:"ledger,omitempty"`
	Replayed bool                      `json:"replayed"`
}

// FundingService owns the funding request state machine and the atomic
// write of status change plus ledger entry.
type FundingService struct {
	resolver *AccountResolver
	repos    map[models.FundingKind]FundingRepository
	tx       TxRunner
	cache    *StatsCache
	audit    *audit.AuditLogger
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

func NewFundingService(resolver *AccountResolver, deposits, withdrawals FundingRepository, tx TxRunner, cache *StatsCache, auditLogger *audit.AuditLogger, logger *zap.Logger) *FundingService {
	return &FundingService{
		resolver: resolver,
		repos: map[models.FundingKind]FundingRepository{
			deposits.Kind():    deposits,
			withdrawals.Kind(): withdrawals,
		},
		tx:     tx,
		cache:  cache,
		audit:  auditLogger,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.New().String() },
	}
}

func (s *FundingService) repo(kind models.FundingKind) (FundingRepository, error) {
	r, ok := s.repos[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown funding type %q", ErrValidation, kind)
	}
	return r, nil
}

// Stored amounts are NUMERIC(20, 8).
const amountScale = 8

var maxAmount = decimal.New(1, 20-amountScale)

// ValidateAmount rejects amounts the ledger cannot hold exactly.
func ValidateAmount(amount decimal.Decimal) error {
	switch {
	case !amount.IsPositive():
		return fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	case !amount.Equal(amount.Truncate(amountScale)):
		return fmt.Errorf("%w: amount supports at most %d decimal places", ErrValidation, amountScale)
	case amount.GreaterThanOrEqual(maxAmount):
		return fmt.Errorf("%w: amount must be less than %s", ErrValidation, maxAmount)
	}
	return nil
}

// Create records a pending request. No ledger entry is written until approval.
func (s *FundingService) Create(ctx context.Context, in CreateFundingInput) (*models.FundingRequest, error) {
	repo, err := s.repo(in.Kind)
	if err != nil {
		return nil, err
	}
	if err := ValidateAmount(in.Amount); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Method) == "" {
		return nil, fmt.Errorf("%w: method is required", ErrValidation)
	}
	if strings.TrimSpace(in.Currency) == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrValidation)
	}

	account, err := s.resolver.Resolve(ctx, in.UserID, in.AccountID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	req := &models.FundingRequest{
		ID:        s.newID(),
		Kind:      in.Kind,
		UserID:    in.UserID,
		AccountID: account.ID,
		Amount:    in.Amount,
		Method:    in.Method,
		Currency:  strings.ToUpper(strings.TrimSpace(in.Currency)),
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.ProofFileName != "" {
		name := in.ProofFileName
		req.ProofFileName = &name
	}

	if err := repo.Create(ctx, req); err != nil {
		s.logger.Error("funding request insert failed", zap.String("kind", string(in.Kind)), zap.Error(err))
		return nil, err
	}
	s.cache.Invalidate(ctx, in.Kind)

	s.logger.Info("funding request created",
		zap.String("kind", string(in.Kind)),
		zap.String("request_id", req.ID),
		zap.String("user_id", in.UserID),
		zap.String("amount", req.Amount.String()))
	return req, nil
}

// Get returns a single request for staff views.
func (s *FundingService) Get(ctx context.Context, kind models.FundingKind, id string) (*models.FundingRequest, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	req, err := repo.Get(ctx, id)
	if err != nil {
		return nil, translateRepoError(string(kind), err)
	}
	return req, nil
}

// ListForUser returns the caller's own requests, newest first.
func (s *FundingService) ListForUser(ctx context.Context, kind models.FundingKind, userID string) ([]models.FundingRequest, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	return repo.List(ctx, repository.FundingFilter{UserID: userID})
}

// ListAll returns every request, optionally restricted to one status.
func (s *FundingService) ListAll(ctx context.Context, kind models.FundingKind, status string) ([]models.FundingRequest, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	if status != "" && !validStatus(kind, status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return repo.List(ctx, repository.FundingFilter{Status: status})
}

func validStatus(kind models.FundingKind, status string) bool {
	for _, s := range kind.Statuses() {
		if s == status {
			return true
		}
	}
	return false
}

// UpdateStatus dispatches an admin status change to Approve or Reject.
func (s *FundingService) UpdateStatus(ctx context.Context, kind models.FundingKind, id, adminID, status, reason string) (*Disposition, error) {
	switch {
	case status == kind.SuccessStatus():
		return s.Approve(ctx, kind, id, adminID)
	case status != models.StatusPending && validStatus(kind, status):
		return s.Reject(ctx, kind, id, adminID, status, reason)
	default:
		return nil, fmt.Errorf("%w: status must be one of %s", ErrValidation,
			strings.Join(kind.Statuses()[1:], ", "))
	}
}

// Approve moves a pending request to its success state and writes exactly one
// ledger transaction referencing it, both inside one database transaction.
// The row lock taken first serialises concurrent approvals, so the ledger
// lookup that follows cannot race another insert. Approving a request that
// already has its ledger entry returns the existing state with Replayed set.
func (s *FundingService) Approve(ctx context.Context, kind models.FundingKind, id, adminID string) (*Disposition, error) {
	if _, err := s.repo(kind); err != nil {
		return nil, err
	}

	var result *Disposition
	err := s.tx.InTx(ctx, func(tx repository.FundingTx) error {
		req, err := tx.LockFundingRequest(ctx, kind, id)
		if err != nil {
			return err
		}

		existing, err := tx.LedgerByRequestID(ctx, req.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if existing != nil && req.Status == kind.SuccessStatus() {
			result = &Disposition{Request: req, Ledger: existing, Replayed: true}
			return nil
		}
		if req.Status != models.StatusPending {
			return fmt.Errorf("%w: %s %s is already %s", ErrInvalidStateTransition, kind, id, req.Status)
		}

		now := s.now()
		approver := adminID
		req.Status = kind.SuccessStatus()
		req.ApprovedBy = &approver
		req.ApprovedAt = &now
		req.UpdatedAt = now

		if err := tx.UpdateDisposition(ctx, req); err != nil {
			return err
		}

		// A ledger row written before the status change is adopted, not duplicated.
		if existing != nil {
			result = &Disposition{Request: req, Ledger: existing}
			return nil
		}

		lt := s.ledgerEntryFor(req, approver, now)
		if err := tx.InsertLedgerTransaction(ctx, lt); err != nil {
			return err
		}
		result = &Disposition{Request: req, Ledger: lt}
		return nil
	})
	if err != nil {
		return nil, s.dispositionFailed(kind, id, err)
	}

	if !result.Replayed {
		s.cache.Invalidate(ctx, kind)
	}
	s.audit.LogDisposition(result.Request, adminID, result.Ledger.ID, result.Replayed)
	return result, nil
}

// Reject moves a pending request to a failure state. No ledger entry is
// ever written for it.
func (s *FundingService) Reject(ctx context.Context, kind models.FundingKind, id, adminID, status, reason string) (*Disposition, error) {
	if _, err := s.repo(kind); err != nil {
		return nil, err
	}
	if status == "" {
		status = models.StatusRejected
	}
	if status == models.StatusPending || status == kind.SuccessStatus() || !validStatus(kind, status) {
		return nil, fmt.Errorf("%w: %q is not a rejection status", ErrValidation, status)
	}

	var result *Disposition
	err := s.tx.InTx(ctx, func(tx repository.FundingTx) error {
		req, err := tx.LockFundingRequest(ctx, kind, id)
		if err != nil {
			return err
		}
		if req.Status != models.StatusPending {
			return fmt.Errorf("%w: %s %s is already %s", ErrInvalidStateTransition, kind, id, req.Status)
		}

		existing, err := tx.LedgerByRequestID(ctx, req.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: %s %s already has ledger transaction %s", ErrInvalidStateTransition, kind, id, existing.ID)
		}

		now := s.now()
		actor := adminID
		req.Status = status
		req.ApprovedBy = &actor
		req.UpdatedAt = now
		if reason = strings.TrimSpace(reason); reason != "" {
			req.RejectionReason = &reason
		}

		if err := tx.UpdateDisposition(ctx, req); err != nil {
			return err
		}
		result = &Disposition{Request: req}
		return nil
	})
	if err != nil {
		return nil, s.dispositionFailed(kind, id, err)
	}

	s.cache.Invalidate(ctx, kind)
	s.audit.LogDisposition(result.Request, adminID, "", false)
	return result, nil
}

func (s *FundingService) ledgerEntryFor(req *models.FundingRequest, approver string, at time.Time) *models.LedgerTransaction {
	requestID := req.ID
	method := req.Method
	comment := fmt.Sprintf("%s %s - %s", req.Method, strings.ToLower(string(req.Kind)), req.ID)

	return &models.LedgerTransaction{
		ID:            s.newID(),
		Type:          string(req.Kind),
		Amount:        req.Amount,
		Currency:      req.Currency,
		Status:        models.StatusCompleted,
		RequestID:     &requestID,
		UserID:        req.UserID,
		AccountID:     req.AccountID,
		PaymentMethod: &method,
		ProcessedBy:   &approver,
		ProcessedAt:   &at,
		Comment:       &comment,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
}

func (s *FundingService) dispositionFailed(kind models.FundingKind, id string, err error) error {
	err = translateRepoError(string(kind), err)
	if StatusFor(err) >= 500 {
		s.logger.Error("funding disposition failed",
			zap.String("kind", string(kind)), zap.String("request_id", id), zap.Error(err))
		s.audit.LogError(id, "", err)
	} else {
		s.logger.Info("funding disposition refused",
			zap.String("kind", string(kind)), zap.String("request_id", id), zap.Error(err))
	}
	return err
}

// Stats returns the per-status overview, served from cache when fresh.
func (s *FundingService) Stats(ctx context.Context, kind models.FundingKind) (*models.FundingStats, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	cached, generation, ok := s.cache.Get(ctx, kind)
	if ok {
		return cached, nil
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, stats, generation)
	return stats, nil
}

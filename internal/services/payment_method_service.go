package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fundingledger/backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPaymentCurrency = "USDT"
	defaultPaymentNetwork  = "TRC20"
)

type PaymentMethodStore interface {
	Create(ctx context.Context, pm *models.PaymentMethod) error
	List(ctx context.Context, userID, status string) ([]models.PaymentMethod, error)
	Dispose(ctx context.Context, id, status, actorID string, reason *string, at time.Time) (*models.PaymentMethod, error)
}

// PaymentMethodService runs the pending/approved/rejected workflow for
// withdrawal wallets. Addresses are stored as given, without format checks.
type PaymentMethodService struct {
	store  PaymentMethodStore
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewPaymentMethodService(store PaymentMethodStore, logger *zap.Logger) *PaymentMethodService {
	return &PaymentMethodService{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.New().String() },
	}
}

func (s *PaymentMethodService) Create(ctx context.Context, userID, address, currency, network string) (*models.PaymentMethod, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: wallet address is required", ErrValidation)
	}
	if currency == "" {
		currency = defaultPaymentCurrency
	}
	if network == "" {
		network = defaultPaymentNetwork
	}

	now := s.now()
	pm := &models.PaymentMethod{
		ID:        s.newID(),
		UserID:    userID,
		Address:   address,
		Currency:  currency,
		Network:   network,
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, pm); err != nil {
		s.logger.Error("payment method insert failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return pm, nil
}

func (s *PaymentMethodService) ListForUser(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	return s.store.List(ctx, userID, "")
}

func (s *PaymentMethodService) ListAll(ctx context.Context, status string) ([]models.PaymentMethod, error) {
	switch status {
	case "", models.StatusPending, models.StatusApproved, models.StatusRejected:
		return s.store.List(ctx, "", status)
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
}

func (s *PaymentMethodService) Approve(ctx context.Context, id, adminID string) (*models.PaymentMethod, error) {
	return s.dispose(ctx, id, models.StatusApproved, adminID, nil)
}

func (s *PaymentMethodService) Reject(ctx context.Context, id, adminID, reason string) (*models.PaymentMethod, error) {
	var r *string
	if reason = strings.TrimSpace(reason); reason != "" {
		r = &reason
	}
	return s.dispose(ctx, id, models.StatusRejected, adminID, r)
}

func (s *PaymentMethodService) dispose(ctx context.Context, id, status, adminID string, reason *string) (*models.PaymentMethod, error) {
	pm, err := s.store.Dispose(ctx, id, status, adminID, reason, s.now())
	if err != nil {
		err = translateRepoError("payment method", err)
		if StatusFor(err) >= 500 {
			s.logger.Error("payment method disposition failed", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	s.logger.Info("payment method disposed",
		zap.String("id", id), zap.String("status", status), zap.String("admin_id", adminID))
	return pm, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/fundingledger/backend/internal/audit"
	"github.com/fundingledger/backend/internal/models"
	"github.com/fundingledger/backend/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DriftQuery bounds a reconciliation sweep. An empty AccountID sweeps every account.
type DriftQuery struct {
	AccountID string // platform login
	Window    repository.TimeFilter
	ActorID   string
}

// ReconciliationService reports funding requests in their success state that
// have no ledger transaction. It never repairs data.
type ReconciliationService struct {
	resolver *AccountResolver
	sources  []FundingRepository
	audit    *audit.AuditLogger
	logger   *zap.Logger
}

func NewReconciliationService(resolver *AccountResolver, deposits, withdrawals FundingRepository, auditLogger *audit.AuditLogger, logger *zap.Logger) *ReconciliationService {
	return &ReconciliationService{
		resolver: resolver,
		sources:  []FundingRepository{deposits, withdrawals},
		audit:    auditLogger,
		logger:   logger,
	}
}

// Drift returns deposit drift followed by withdrawal drift, each newest first.
func (s *ReconciliationService) Drift(ctx context.Context, q DriftQuery) ([]models.Drift, error) {
	if q.Window.Start != nil && q.Window.End != nil && q.Window.Start.After(*q.Window.End) {
		return nil, fmt.Errorf("%w: startDate must not be after endDate", ErrValidation)
	}

	filter := repository.DriftFilter{Window: q.Window}
	if q.AccountID != "" {
		account, err := s.resolver.Lookup(ctx, q.AccountID)
		if err != nil {
			return nil, err
		}
		filter.AccountID = account.ID
	}

	found := make([][]models.FundingRequest, len(s.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.sources {
		i, src := i, src
		g.Go(func() error {
			rows, err := src.Unreconciled(gctx, filter)
			if err != nil {
				return fmt.Errorf("%s drift: %w", src.Kind(), err)
			}
			found[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("reconciliation sweep failed", zap.String("account_id", q.AccountID), zap.Error(err))
		return nil, err
	}

	drift := []models.Drift{}
	for i, src := range s.sources {
		for _, req := range found[i] {
			drift = append(drift, models.Drift{Kind: src.Kind(), Request: req})
		}
	}

	if len(drift) > 0 {
		s.logger.Warn("funding drift detected", zap.String("account_id", q.AccountID), zap.Int("count", len(drift)))
	}
	s.audit.LogDrift(q.ActorID, q.AccountID, drift)
	return drift, nil
}

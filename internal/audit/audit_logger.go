package audit

import (
	"time"

	"github.com/fundingledger/backend/internal/models"
	"go.uber.org/zap"
)

// Event types
const (
	EventDisposition = "DISPOSITION"
	EventError       = "ERROR"
	EventDrift       = "DRIFT"
)

type AuditEvent struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	RequestID string    `json:"request_id"`
	AccountID string    `json:"account_id"`
	Amount    string    `json:"amount"`
	Status    string    `json:"status"`
	Actor     string    `json:"actor"`
	Details   any       `json:"details"`
}

// AuditLogger writes funding audit events to the "audit" child logger.
type AuditLogger struct {
	log *zap.Logger
}

func NewAuditLogger(logger *zap.Logger) *AuditLogger {
	return &AuditLogger{log: logger.Named("audit")}
}

func (a *AuditLogger) LogDisposition(req *models.FundingRequest, actorID, ledgerID string, replayed bool) {
	a.write(AuditEvent{
		Timestamp: time.Now(),
		EventType: EventDisposition,
		RequestID: req.ID,
		AccountID: req.AccountID,
		Amount:    req.Amount.String(),
		Status:    req.Status,
		Actor:     actorID,
		Details: map[string]any{
			"kind":      req.Kind,
			"ledger_id": ledgerID,
			"replayed":  replayed,
		},
	})
}

func (a *AuditLogger) LogError(requestID, accountID string, err error) {
	a.write(AuditEvent{
		Timestamp: time.Now(),
		EventType: EventError,
		RequestID: requestID,
		AccountID: accountID,
		Status:    "FAILED",
		Details:   map[string]string{"error": err.Error()},
	})
}

func (a *AuditLogger) LogDrift(actorID, accountID string, drift []models.Drift) {
	ids := make([]string, 0, len(drift))
	for _, d := range drift {
		ids = append(ids, d.Request.ID)
	}
	a.write(AuditEvent{
		Timestamp: time.Now(),
		EventType: EventDrift,
		AccountID: accountID,
		Actor:     actorID,
		Status:    "REPORTED",
		Details:   map[string]any{"count": len(drift), "request_ids": ids},
	})
}

func (a *AuditLogger) write(event AuditEvent) {
	a.log.Info("AUDIT",
		zap.Time("timestamp", event.Timestamp),
		zap.String("event_type", event.EventType),
		zap.String("request_id", event.RequestID),
		zap.String("account_id", event.AccountID),
		zap.String("amount", event.Amount),
		zap.String("status", event.Status),
		zap.String("actor", event.Actor),
		zap.Any("details", event.Details),
	)
}

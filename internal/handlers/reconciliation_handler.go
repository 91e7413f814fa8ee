package handlers

import (
	"context"
	"net/http"

	"github.com/fundingledger/backend/internal/middleware"
	"github.com/fundingledger/backend/internal/models"
	"github.com/fundingledger/backend/internal/services"
	"go.uber.org/zap"
)

type DriftAuditor interface {
	Drift(ctx context.Context, q services.DriftQuery) ([]models.Drift, error)
}

type ReconciliationHandler struct {
	service DriftAuditor
	responder
}

func NewReconciliationHandler(service DriftAuditor, logger *zap.Logger, exposeErrors bool) *ReconciliationHandler {
	return &ReconciliationHandler{
		service:   service,
		responder: responder{logger: logger, exposeErrors: exposeErrors},
	}
}

// GetDrift lists funding requests in their success state with no ledger entry
// @Summary Reconciliation drift report
// @Description Read-only sweep over deposits and withdrawals. Nothing is repaired.
// @Tags Reconciliation
// @Produce json
// @Security BearerAuth
// @Param accountId query string false "Restrict to one platform account"
// @Param startDate query string false "Inclusive lower bound"
// @Param endDate query string false "Inclusive upper bound"
// @Success 200 {object} services.SuccessResponse{data=[]models.Drift}
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Router /admin/reconciliation/drift [get]
func (h *ReconciliationHandler) GetDrift(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	drift, err := h.service.Drift(r.Context(), services.DriftQuery{
		AccountID: r.URL.Query().Get("accountId"),
		Window:    window,
		ActorID:   middleware.UserID(r.Context()),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	message := "No drift found"
	if len(drift) > 0 {
		message = "Drift found"
	}
	services.SendSuccessResponse(w, http.StatusOK, message, drift)
}

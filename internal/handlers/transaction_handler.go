package handlers

import (
	"context"
	"net/http"

	"github.com/fundingledger/backend/internal/models"
	"github.com/fundingledger/backend/internal/repository"
	"github.com/fundingledger/backend/internal/services"
	"go.uber.org/zap"
)

type HistoryReader interface {
	History(ctx context.Context, userID, accountID string, window repository.TimeFilter) (*models.TransactionHistory, error)
}

type TransactionHandler struct {
	service HistoryReader
	responder
}

func NewTransactionHandler(service HistoryReader, logger *zap.Logger, exposeErrors bool) *TransactionHandler {
	return &TransactionHandler{
		service:   service,
		responder: responder{logger: logger, exposeErrors: exposeErrors},
	}
}

// GetDatabaseTransactions returns the merged account history
// @Summary Account transaction history
// @Description Deposits, withdrawals and platform ledger rows for one owned account, plus their merged view newest first
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param accountId query string true "Platform account login"
// @Param startDate query string false "Inclusive lower bound (ISO-8601: RFC 3339, YYYY-MM-DDThh:mm:ss UTC or YYYY-MM-DD)"
// @Param endDate query string false "Inclusive upper bound (ISO-8601: RFC 3339, YYYY-MM-DDThh:mm:ss UTC or YYYY-MM-DD)"
// @Success 200 {object} services.SuccessResponse{data=models.TransactionHistory}
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /transactions/database [get]
func (h *TransactionHandler) GetDatabaseTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	accountID := r.URL.Query().Get("accountId")
	if accountID == "" {
		services.SendErrorResponse(w, "accountId is required", http.StatusBadRequest, nil)
		return
	}

	window, err := parseWindow(r)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	history, err := h.service.History(r.Context(), userID, accountID, window)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	services.SendSuccessResponse(w, http.StatusOK, "Transactions retrieved successfully", history)
}

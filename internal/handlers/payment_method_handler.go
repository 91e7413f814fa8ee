package handlers

import (
	"context"
	"net/http"

	"github.com/fundingledger/backend/internal/middleware"
	"github.com/fundingledger/backend/internal/models"
	"github.com/fundingledger/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentMethodWorkflow interface {
	Create(ctx context.Context, userID, address, currency, network string) (*models.PaymentMethod, error)
	ListForUser(ctx context.Context, userID string) ([]models.PaymentMethod, error)
	ListAll(ctx context.Context, status string) ([]models.PaymentMethod, error)
	Approve(ctx context.Context, id, adminID string) (*models.PaymentMethod, error)
	Reject(ctx context.Context, id, adminID, reason string) (*models.PaymentMethod, error)
}

type PaymentMethodHandler struct {
	service   PaymentMethodWorkflow
	validator *services.ValidationHelper
	responder
}

func NewPaymentMethodHandler(service PaymentMethodWorkflow, logger *zap.Logger, exposeErrors bool) *PaymentMethodHandler {
	return &PaymentMethodHandler{
		service:   service,
		validator: services.NewValidationHelper(),
		responder: responder{logger: logger, exposeErrors: exposeErrors},
	}
}

type createPaymentMethodRequest struct {
	Address  string `json:"address" validate:"required,max=128"`
	Currency string `json:"currency,omitempty" validate:"max=10"`
	Network  string `json:"network,omitempty" validate:"max=20"`
}

// Create submits a withdrawal wallet for approval
// @Summary Add payment method
// @Tags Payment Methods
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPaymentMethodRequest true "Wallet"
// @Success 201 {object} services.SuccessResponse{data=models.PaymentMethod}
// @Failure 400 {object} services.ErrorResponse
// @Router /payment-methods [post]
func (h *PaymentMethodHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req createPaymentMethodRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	pm, err := h.service.Create(r.Context(), userID, req.Address, req.Currency, req.Network)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	services.SendSuccessResponse(w, http.StatusCreated, "Payment method submitted for approval", pm)
}

// ListMine returns the caller's payment methods
// @Summary List my payment methods
// @Tags Payment Methods
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.SuccessResponse{data=[]models.PaymentMethod}
// @Router /payment-methods [get]
func (h *PaymentMethodHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	list, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	services.SendSuccessResponse(w, http.StatusOK, "", list)
}

// ListAll returns payment methods for staff review
// @Summary List all payment methods
// @Tags Payment Methods Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} services.SuccessResponse{data=[]models.PaymentMethod}
// @Router /admin/payment-methods [get]
func (h *PaymentMethodHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListAll(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	services.SendSuccessResponse(w, http.StatusOK, "", list)
}

// Approve approves a pending payment method
// @Summary Approve payment method
// @Tags Payment Methods Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment method ID"
// @Success 200 {object} services.SuccessResponse{data=models.PaymentMethod}
// @Failure 409 {object} services.ErrorResponse
// @Router /admin/payment-methods/{id}/approve [put]
func (h *PaymentMethodHandler) Approve(w http.ResponseWriter, r *http.Request) {
	pm, err := h.service.Approve(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	services.SendSuccessResponse(w, http.StatusOK, "Payment method approved", pm)
}

// Reject rejects a pending payment method
// @Summary Reject payment method
// @Tags Payment Methods Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment method ID"
// @Param request body object{reason=string} false "Rejection reason"
// @Success 200 {object} services.SuccessResponse{data=models.PaymentMethod}
// @Failure 409 {object} services.ErrorResponse
// @Router /admin/payment-methods/{id}/reject [put]
func (h *PaymentMethodHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	if r.ContentLength != 0 && !decodeJSON(w, r, &body) {
		return
	}

	pm, err := h.service.Reject(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()), body.Reason)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	services.SendSuccessResponse(w, http.StatusOK, "Payment method rejected", pm)
}

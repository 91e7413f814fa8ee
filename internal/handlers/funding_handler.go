package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/fundingledger/backend/internal/middleware"
	"github.com/fundingledger/backend/internal/models"
	"github.com/fundingledger/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type FundingWorkflow interface {
	Create(ctx context.Context, in services.CreateFundingInput) (*models.FundingRequest, error)
	Get(ctx context.Context, kind models.FundingKind, id string) (*models.FundingRequest, error)
	ListForUser(ctx context.Context, kind models.FundingKind, userID string) ([]models.FundingRequest, error)
	ListAll(ctx context.Context, kind models.FundingKind, status string) ([]models.FundingRequest, error)
	UpdateStatus(ctx context.Context, kind models.FundingKind, id, adminID, status, reason string) (*services.Disposition, error)
	Stats(ctx context.Context, kind models.FundingKind) (*models.FundingStats, error)
}

// FundingHandler serves one funding source; deposits and withdrawals each
// get their own instance.
type FundingHandler struct {
	kind      models.FundingKind
	service   FundingWorkflow
	validator *services.ValidationHelper
	maxUpload int64
	responder
}

func NewFundingHandler(kind models.FundingKind, service FundingWorkflow, maxUpload int64, logger *zap.Logger, exposeErrors bool) *FundingHandler {
	return &FundingHandler{
		kind:      kind,
		service:   service,
		validator: services.NewValidationHelper(),
		maxUpload: maxUpload,
		responder: responder{logger: logger, exposeErrors: exposeErrors},
	}
}

type createFundingForm struct {
	AccountID string `validate:"required"`
	Amount    string `validate:"required"`
	Method    string `validate:"required,max=64"`
	Currency  string `validate:"required,alpha,max=10"`
}

type statusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

func (h *FundingHandler) label() string {
	return string(h.kind)
}

// Create submits a funding request
// @Summary Submit a funding request
// @Description Creates a pending deposit or withdrawal. No ledger entry is written until approval.
// @Tags Funding
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param accountId formData string true "Platform account login"
// @Param amount formData string true "Positive decimal amount"
// @Param method formData string true "Funding method"
// @Param currency formData string true "Currency code"
// @Param proofFile formData file false "Proof of payment (image or PDF)"
// @Success 201 {object} services.SuccessResponse{data=models.FundingRequest}
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /deposit/create [post]
// @Router /withdrawal/create [post]
func (h *FundingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+maxJSONBody)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		services.SendErrorResponse(w, "Invalid form data", http.StatusBadRequest, nil)
		return
	}

	form := createFundingForm{
		AccountID: firstValue(r, "accountId", "mt5AccountId"),
		Amount:    strings.TrimSpace(r.FormValue("amount")),
		Method:    strings.TrimSpace(r.FormValue("method")),
		Currency:  strings.TrimSpace(r.FormValue("currency")),
	}
	if err := h.validator.ValidateStruct(&form); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	amount, err := decimal.NewFromString(form.Amount)
	if err != nil {
		services.SendErrorResponse(w, "amount must be a decimal number", http.StatusBadRequest, nil)
		return
	}
	if err := services.ValidateAmount(amount); err != nil {
		h.fail(w, r, err)
		return
	}

	proofName, err := h.proofFileName(r)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	req, err := h.service.Create(r.Context(), services.CreateFundingInput{
		Kind:          h.kind,
		UserID:        userID,
		AccountID:     form.AccountID,
		Amount:        amount,
		Currency:      form.Currency,
		Method:        form.Method,
		ProofFileName: proofName,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	services.SendSuccessResponse(w, http.StatusCreated, h.label()+" request created", req)
}

func firstValue(r *http.Request, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r.FormValue(k)); v != "" {
			return v
		}
	}
	return ""
}

// proofFileName checks the optional proof upload and returns its base name.
// The document itself is stored by an external service.
func (h *FundingHandler) proofFileName(r *http.Request) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}
	file, header, err := r.FormFile("proofFile")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", errors.New("invalid proofFile")
	}
	defer file.Close()

	if header.Size > h.maxUpload {
		return "", fmt.Errorf("proofFile exceeds %d bytes", h.maxUpload)
	}
	mediaType, _, err := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if err != nil || !(strings.HasPrefix(mediaType, "image/") || mediaType == "application/pdf") {
		return "", errors.New("proofFile must be an image or PDF")
	}
	return filepath.Base(header.Filename), nil
}

// ListMine returns the caller's own requests
// @Summary List my funding requests
// @Tags Funding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.SuccessResponse{data=[]models.FundingRequest}
// @Router /deposit/user [get]
// @Router /withdrawal/user [get]
func (h *FundingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	list, err := h.service.ListForUser(r.Context(), h.kind, userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	services.SendSuccessResponse(w, http.StatusOK, "", list)
}

// ListAll returns every request for staff
// @Summary List all funding requests
// @Tags Funding Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {object} services.SuccessResponse{data=[]models.FundingRequest}
// @Failure 403 {object} services.ErrorResponse
// @Router /deposit/all [get]
// @Router /withdrawal/all [get]
func (h *FundingHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListAll(r.Context(), h.kind, r.URL.Query().Get("status"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	services.SendSuccessResponse(w, http.StatusOK, "", list)
}

// Get returns a single request
// @Summary Get a funding request
// @Tags Funding Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} services.SuccessResponse{data=models.FundingRequest}
// @Failure 404 {object} services.ErrorResponse
// @Router /deposit/{id} [get]
// @Router /withdrawal/{id} [get]
func (h *FundingHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, err := h.service.Get(r.Context(), h.kind, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	services.SendSuccessResponse(w, http.StatusOK, "", req)
}

// UpdateStatus approves or rejects a pending request
// @Summary Approve or reject a funding request
// @Description Approval writes exactly one ledger transaction in the same database transaction. Repeating an approval is a no-op.
// @Tags Funding Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body statusUpdateRequest true "Target status and optional reason"
// @Success 200 {object} services.SuccessResponse{data=models.FundingRequest}
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /deposit/{id}/status [put]
// @Router /withdrawal/{id}/status [put]
func (h *FundingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body statusUpdateRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := h.validator.ValidateStruct(&body); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	adminID := middleware.UserID(r.Context())
	result, err := h.service.UpdateStatus(r.Context(), h.kind, chi.URLParam(r, "id"), adminID,
		strings.ToLower(body.Status), body.Reason)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	message := fmt.Sprintf("%s %s", h.label(), result.Request.Status)
	if result.Replayed {
		message = fmt.Sprintf("%s already %s", h.label(), result.Request.Status)
	}
	services.SendSuccessResponse(w, http.StatusOK, message, result.Request)
}

// Stats returns the per-status overview
// @Summary Funding overview
// @Tags Funding Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.SuccessResponse{data=models.FundingStats}
// @Router /deposit/stats/overview [get]
// @Router /withdrawal/stats/overview [get]
func (h *FundingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), h.kind)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	services.SendSuccessResponse(w, http.StatusOK, "", stats)
}

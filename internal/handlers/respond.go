package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fundingledger/backend/internal/middleware"
	"github.com/fundingledger/backend/internal/repository"
	"github.com/fundingledger/backend/internal/services"
	"go.uber.org/zap"
)

const maxJSONBody = 1_048_576

// responder writes service outcomes as JSON envelopes. Raw error text of
// server-side failures is only exposed outside production.
type responder struct {
	logger       *zap.Logger
	exposeErrors bool
}

func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := services.StatusFor(err)
	if status >= http.StatusInternalServerError {
		rs.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("user_id", middleware.UserID(r.Context())),
			zap.Error(err))
		services.SendInternalError(w, err, rs.exposeErrors)
		return
	}
	services.SendErrorResponse(w, err.Error(), status, nil)
}

func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return "", false
	}
	return userID, true
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}
	return true
}

var errBadDate = errors.New("dates must be ISO-8601: YYYY-MM-DD, YYYY-MM-DDThh:mm:ss or RFC 3339")

// Layouts without an offset are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	time.DateOnly,
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, errBadDate
}

// parseWindow reads the optional startDate and endDate query parameters.
// Each bound is used exactly as parsed.
func parseWindow(r *http.Request) (repository.TimeFilter, error) {
	q := r.URL.Query()

	start, err := parseDate(q.Get("startDate"))
	if err != nil {
		return repository.TimeFilter{}, err
	}
	end, err := parseDate(q.Get("endDate"))
	if err != nil {
		return repository.TimeFilter{}, err
	}
	if start != nil && end != nil && start.After(*end) {
		return repository.TimeFilter{}, errors.New("startDate must not be after endDate")
	}
	return repository.TimeFilter{Start: start, End: end}, nil
}

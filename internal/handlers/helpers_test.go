package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	mW "github.com/fundingledger/backend/internal/middleware"
	"github.com/fundingledger/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "handler-secret"

type testServer struct {
	handler        http.Handler
	history        *MockHistoryReader
	deposits       *MockFundingWorkflow
	withdrawals    *MockFundingWorkflow
	drift          *MockDriftAuditor
	paymentMethods *MockPaymentMethodWorkflow
}

func newTestServer(t *testing.T, exposeErrors bool) *testServer {
	t.Helper()
	logger := zap.NewNop()
	ts := &testServer{
		history:        new(MockHistoryReader),
		deposits:       new(MockFundingWorkflow),
		withdrawals:    new(MockFundingWorkflow),
		drift:          new(MockDriftAuditor),
		paymentMethods: new(MockPaymentMethodWorkflow),
	}
	ts.handler = NewRouter(Routes{
		Logger:         logger,
		Auth:           mW.NewAuthenticator(testSecret, logger),
		Transactions:   NewTransactionHandler(ts.history, logger, exposeErrors),
		Deposits:       NewFundingHandler(models.KindDeposit, ts.deposits, 1024, logger, exposeErrors),
		Withdrawals:    NewFundingHandler(models.KindWithdrawal, ts.withdrawals, 1024, logger, exposeErrors),
		Reconciliation: NewReconciliationHandler(ts.drift, logger, exposeErrors),
		PaymentMethods: NewPaymentMethodHandler(ts.paymentMethods, logger, exposeErrors),
	})
	return ts
}

func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func (ts *testServer) do(t *testing.T, req *http.Request, auth string) *httptest.ResponseRecorder {
	t.Helper()
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
	Data    json.RawMessage   `json:"data"`
}

func decodeEnvelope(t *testing.T, body io.Reader) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(body).Decode(&env))
	return env
}

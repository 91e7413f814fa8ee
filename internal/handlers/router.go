package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	mW "github.com/fundingledger/backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Routes bundles everything the HTTP surface needs
type Routes struct {
	Logger         *zap.Logger
	Auth           *mW.Authenticator
	Transactions   *TransactionHandler
	Deposits       *FundingHandler
	Withdrawals    *FundingHandler
	Reconciliation *ReconciliationHandler
	PaymentMethods *PaymentMethodHandler
	SwaggerURL     string
	RequestTimeout time.Duration
}

func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mW.RequestLogger(rt.Logger))
	r.Use(middleware.Recoverer)
	r.Use(mW.SecurityHeaders)
	if rt.RequestTimeout > 0 {
		r.Use(middleware.Timeout(rt.RequestTimeout))
	}

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	if rt.SwaggerURL != "" {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(rt.SwaggerURL)))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.Auth.AuthMiddleware)

		r.Get("/transactions/database", rt.Transactions.GetDatabaseTransactions)

		mountFunding(r, "/deposit", rt.Deposits)
		mountFunding(r, "/withdrawal", rt.Withdrawals)

		r.Post("/payment-methods", rt.PaymentMethods.Create)
		r.Get("/payment-methods", rt.PaymentMethods.ListMine)

		r.Route("/admin", func(r chi.Router) {
			r.Use(mW.RequireAdmin)

			r.Get("/reconciliation/drift", rt.Reconciliation.GetDrift)
			r.Get("/payment-methods", rt.PaymentMethods.ListAll)
			r.Put("/payment-methods/{id}/approve", rt.PaymentMethods.Approve)
			r.Put("/payment-methods/{id}/reject", rt.PaymentMethods.Reject)
		})
	})

	return r
}

func mountFunding(r chi.Router, prefix string, h *FundingHandler) {
	r.Route(prefix, func(r chi.Router) {
		r.Post("/create", h.Create)
		r.Get("/user", h.ListMine)

		r.Group(func(r chi.Router) {
			r.Use(mW.RequireAdmin)

			r.Get("/all", h.ListAll)
			r.Get("/stats/overview", h.Stats)
			r.Get("/{id}", h.Get)
			r.Put("/{id}/status", h.UpdateStatus)
		})
	})
}

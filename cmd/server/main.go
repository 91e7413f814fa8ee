package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fundingledger/backend/docs"
	"github.com/fundingledger/backend/internal/audit"
	"github.com/fundingledger/backend/internal/config"
	"github.com/fundingledger/backend/internal/database"
	"github.com/fundingledger/backend/internal/handlers"
	"github.com/fundingledger/backend/internal/logging"
	mW "github.com/fundingledger/backend/internal/middleware"
	"github.com/fundingledger/backend/internal/models"
	"github.com/fundingledger/backend/internal/repository"
	"github.com/fundingledger/backend/internal/services"
	"go.uber.org/zap"
)

// @title Funding Ledger API
// @version 1.0
// @description Funding requests, approvals and reconciled account history for trading accounts
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	configFile := flag.String("config", ".env", "path to .env file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	db, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.ApplySchema {
		if err := database.ApplySchema(ctx, db); err != nil {
			return err
		}
		logger.Info("database schema applied")
	}

	redisClient := database.OpenRedis(ctx, cfg.Redis, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Repositories
	accounts := repository.NewAccountRepository(db)
	deposits := repository.NewDepositRepository(db)
	withdrawals := repository.NewWithdrawalRepository(db)
	ledger := repository.NewLedgerRepository(db)
	paymentMethods := repository.NewPaymentMethodRepository(db)
	store := repository.NewStore(db)

	// Services
	resolver := services.NewAccountResolver(accounts)
	auditLogger := audit.NewAuditLogger(logger)
	statsCache := services.NewStatsCache(redisClient, cfg.StatsCacheTTL, logger)

	transactionService := services.NewTransactionService(resolver, deposits, withdrawals, ledger, logger)
	fundingService := services.NewFundingService(resolver, deposits, withdrawals, store, statsCache, auditLogger, logger)
	reconciliationService := services.NewReconciliationService(resolver, deposits, withdrawals, auditLogger, logger)
	paymentMethodService := services.NewPaymentMethodService(paymentMethods, logger)

	// Swagger docs
	docs.SwaggerInfo.Host = "localhost:" + cfg.Server.Port

	expose := !cfg.IsProduction()
	router := handlers.NewRouter(handlers.Routes{
		Logger:         logger,
		Auth:           mW.NewAuthenticator(cfg.JWTSecret, logger),
		Transactions:   handlers.NewTransactionHandler(transactionService, logger, expose),
		Deposits:       handlers.NewFundingHandler(models.KindDeposit, fundingService, cfg.UploadMaxSize, logger, expose),
		Withdrawals:    handlers.NewFundingHandler(models.KindWithdrawal, fundingService, cfg.UploadMaxSize, logger, expose),
		Reconciliation: handlers.NewReconciliationHandler(reconciliationService, logger, expose),
		PaymentMethods: handlers.NewPaymentMethodHandler(paymentMethodService, logger, expose),
		SwaggerURL:     fmt.Sprintf("http://localhost:%s/swagger/doc.json", cfg.Server.Port),
		RequestTimeout: 60 * time.Second,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Server.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("server shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

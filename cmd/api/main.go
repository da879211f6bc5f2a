package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cimillas/dropship-api/internal/app"
	"github.com/cimillas/dropship-api/internal/catalog"
	"github.com/cimillas/dropship-api/internal/clock"
	"github.com/cimillas/dropship-api/internal/config"
	"github.com/cimillas/dropship-api/internal/pricing"
	"github.com/cimillas/dropship-api/internal/storage/memory"
	"github.com/cimillas/dropship-api/internal/storage/postgres"
	"github.com/cimillas/dropship-api/internal/supplier"
	transporthttp "github.com/cimillas/dropship-api/internal/transport/http"
	"github.com/cimillas/dropship-api/migrations"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	config.LoadEnvFile(logger)
	cfg := config.Load(logger)

	var repo app.OrderRepository
	if cfg.DatabaseURL != "" {
		startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("connect to db", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(startupCtx); err != nil {
			logger.Error("db ping", "error", err)
			os.Exit(1)
		}
		if err := migrations.Apply(startupCtx, pool); err != nil {
			logger.Error("apply migrations", "error", err)
			os.Exit(1)
		}
		repo = postgres.NewOrderRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, orders are kept in memory")
		repo = memory.NewOrderRepository()
	}

	pricer := pricing.NewEngine(cfg.MarkupRate)
	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, cfg.UpstreamTimeout)
	supplierClient := supplier.NewClient(cfg.SupplierBaseURL, cfg.UpstreamTimeout)

	orderSvc := app.NewOrderService(repo, catalogClient, supplierClient, pricer, clock.NewSystem())
	catalogSvc := app.NewCatalogService(catalogClient, pricer)

	handler := transporthttp.NewRouter(transporthttp.RouterConfig{
		Catalog:     catalogSvc,
		Orders:      orderSvc,
		Logger:      logger,
		Metrics:     transporthttp.NewMetrics(prometheus.DefaultRegisterer),
		CORSOrigins: cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	logger.Info("api listening", "port", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}

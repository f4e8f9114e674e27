package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/carebook/carebook/internal/api/router"
	"github.com/carebook/carebook/internal/appointments"
	appconfig "github.com/carebook/carebook/internal/config"
	"github.com/carebook/carebook/internal/observability/metrics"
	"github.com/carebook/carebook/internal/providers"
	"github.com/carebook/carebook/internal/storage"
	"github.com/carebook/carebook/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting carebook API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	store := storage.New(cfg.MongoURI, cfg.MongoDatabase, logger)

	providersRepo := providers.NewMongoRepository(store, logger)
	appointmentsRepo := appointments.NewMongoRepository(store, logger)

	// Best effort: the store connects lazily, so an unreachable database at
	// boot only delays index creation until it comes back.
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	if err := providersRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Warn("provider indexes not created", "error", err)
	}
	if err := appointmentsRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Warn("appointment indexes not created", "error", err)
	}
	cancelIndex()

	httpMetrics := metrics.NewHTTPMetrics(prometheus.NewRegistry())

	r := router.New(&router.Config{
		Logger:              logger,
		AppointmentsHandler: appointments.NewHandler(appointmentsRepo, providersRepo, logger),
		ProvidersHandler:    providers.NewHandler(providersRepo, logger),
		MetricsMiddleware:   httpMetrics.Middleware(),
		MetricsHandler:      httpMetrics.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		APIPrefix:           cfg.APIPrefix,
		StaticDir:           cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if err := store.Close(ctx); err != nil {
		logger.Error("failed to close store", "error", err)
	}

	logger.Info("server stopped")
}

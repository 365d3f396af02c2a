package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medflow/idscan-service/internal/docprocessing/events"
	"github.com/medflow/idscan-service/internal/docprocessing/processor"
	"github.com/medflow/idscan-service/internal/docprocessing/repository"
	"github.com/medflow/idscan-service/internal/docprocessing/service"
	"github.com/medflow/idscan-service/internal/docprocessing/storage"
	"github.com/medflow/idscan-service/pkg/config"
	"github.com/medflow/idscan-service/pkg/database"
	"github.com/medflow/idscan-service/pkg/logger"
	"github.com/medflow/idscan-service/pkg/messaging"
)

const serviceName = "idscan-service"

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(serviceName, cfg.Server.Environment)
	log.Info().Msg("starting ID Scan Service")

	var opts []service.Option
	deps := routerDeps{}

	fp, err := repository.NewFingerprinter(cfg.Processing.FingerprintKey)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid fingerprint key")
	}
	opts = append(opts, service.WithFingerprinter(fp))

	if cfg.Processing.AuditEnabled {
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
		opts = append(opts, service.WithAudit(repository.NewAuditRepository(db)))
		deps.db = db
	}

	if cfg.Processing.EventsEnabled {
		rmq, err := messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()

		pub, err := messaging.NewPublisher(rmq, cfg.RabbitMQ.Exchange, serviceName, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
		opts = append(opts, service.WithEvents(events.NewPublisher(pub)))
		deps.rmq = rmq
	}

	registry := processor.NewRegistry(
		processor.NewAAMVAProcessor(),
		processor.NewManualReviewProcessor(),
	)
	store := storage.NewTempStorage(cfg.Processing.JobTTL, cfg.Processing.CleanupInterval)
	defer store.Close()

	svc := service.NewService(registry, store, log.WithComponent("docprocessing"), opts...)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      newRouter(cfg, svc, log, deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// Let running extractions finish so their payloads are zeroed and audited.
	done := make(chan struct{})
	go func() {
		svc.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn().Msg("extractions still running at shutdown")
	}

	log.Info().Msg("server stopped")
}

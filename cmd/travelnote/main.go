package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/jeongminsang/travelnote-jp/internal/amqp"
	"github.com/jeongminsang/travelnote-jp/internal/config"
	apphttp "github.com/jeongminsang/travelnote-jp/internal/http"
	"github.com/jeongminsang/travelnote-jp/internal/log"
	"github.com/jeongminsang/travelnote-jp/internal/pdf"
	"github.com/jeongminsang/travelnote-jp/internal/services"
	"github.com/jeongminsang/travelnote-jp/internal/storage"
)

func main() {
	// Load .env for local development; absent in production is fine.
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open SQLite repository", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// The AMQP publisher is optional: without it schedule writes still
	// succeed, they just never reach the sheet backup.
	var publisher services.SyncPublisher
	if cfg.BackupEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
		logger.Info("Sheet backup pipeline enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Sheet backup pipeline disabled, no AMQP_URL configured")
	}

	scheduleSvc := services.NewScheduleService(repo, publisher)
	checklistSvc := services.NewChecklistService(repo)

	startCtx, startCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := scheduleSvc.LoadAll(startCtx); err != nil {
		startCancel()
		logger.Error("Failed to load schedules", log.FieldError, err)
		os.Exit(1)
	}
	startCancel()

	exporter := pdf.NewExporter(cfg.TripTitle, cfg.PDFFontFile)

	srv := apphttp.NewServer(":"+cfg.Port, scheduleSvc, checklistSvc, exporter, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting travelnote server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

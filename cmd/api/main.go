package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"eduportal/internal/config"
	"eduportal/internal/events"
	"eduportal/internal/metrics"
	"eduportal/internal/pkg/logger"
	"eduportal/internal/server"
	"eduportal/internal/storage"
)

const (
	kafkaQueueSize    = 256
	kafkaWriteTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Must(cfg.AppEnv, cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := server.OpenStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	disk, err := storage.NewDisk(cfg.UploadDir, cfg.UploadMaxBytes, cfg.SniffUploads)
	if err != nil {
		return fmt.Errorf("upload dir: %w", err)
	}

	hub := events.NewHub(log.Named("hub"), cfg.AllowedOrigins)
	fanout := events.Fanout{hub}
	var kafka *events.KafkaPublisher
	var kafkaQueue *events.Async
	if len(cfg.KafkaBrokers) > 0 {
		kafka = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		kafkaQueue = events.NewAsync(kafka, kafkaQueueSize, kafkaWriteTimeout, log.Named("kafka"))
		fanout = append(fanout, kafkaQueue)
		log.Info("publishing lead events to kafka",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic))
	}

	router := server.NewRouter(server.Deps{
		Config:    cfg,
		Log:       log,
		Store:     store,
		Disk:      disk,
		Publisher: events.BestEffort(fanout, log.Named("events")),
		Hub:       hub,
		Metrics:   metrics.New(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	hub.Close()
	if kafka != nil {
		if err := kafkaQueue.Close(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("kafka drain: %w", err))
		}
		if err := kafka.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kafka close: %w", err))
		}
	}
	if err := store.Close(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}
	return errors.Join(errs...)
}

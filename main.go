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

	"github.com/Zachkp/portfolio-backend/internal/analytics"
	"github.com/Zachkp/portfolio-backend/internal/bootstrap"
	"github.com/Zachkp/portfolio-backend/internal/config"
	"github.com/Zachkp/portfolio-backend/internal/handler"
	"github.com/Zachkp/portfolio-backend/internal/notify"
	"github.com/Zachkp/portfolio-backend/internal/store"
	"github.com/Zachkp/portfolio-backend/internal/upload"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	logger, err := bootstrap.NewLogger(cfg.App.Environment)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	records, err := store.Open(store.Options{
		ProjectsFile: cfg.Storage.ProjectsFile,
		MessagesFile: cfg.Storage.MessagesFile,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	uploads, err := upload.NewDisk(cfg.Storage.UploadDir, "/uploads", int64(cfg.Storage.MaxUploadMB)<<20)
	if err != nil {
		return err
	}

	var notifier handler.Notifier
	if cfg.SMTP.Enabled() {
		notifier = notify.NewMailer(cfg.SMTP, logger)
	} else {
		logger.Warn("SMTP credentials not configured, contact notifications disabled")
	}

	var tracker *analytics.Tracker
	if cfg.Analytics.DBPath != "" {
		tracker, err = analytics.Open(cfg.Analytics.DBPath, logger)
		if err != nil {
			return err
		}
		defer tracker.Close()

		// Clean up old visitor data for privacy compliance
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if _, err := tracker.Cleanup(ctx, cfg.Analytics.Retention); err != nil {
				logger.Warn("visitor cleanup failed", zap.Error(err))
			}
		}()
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Version:     cfg.App.Version,
		FrontendURL: cfg.Server.FrontendURL,
		UploadDir:   cfg.Storage.UploadDir,
		Store:       records,
		Uploads:     uploads,
		Notifier:    notifier,
		Tracker:     tracker,
		Logger:      logger,
		MaxUploadMB: cfg.Storage.MaxUploadMB,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("port", cfg.Server.Port))
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

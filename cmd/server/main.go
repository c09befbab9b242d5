package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/planner-api/internal/auth"
	"github.com/yukikurage/planner-api/internal/config"
	"github.com/yukikurage/planner-api/internal/handlers"
	"github.com/yukikurage/planner-api/internal/logging"
	"github.com/yukikurage/planner-api/internal/services"
	"github.com/yukikurage/planner-api/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Log)
	gin.SetMode(cfg.Server.GinMode)

	// Connect to storage
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	store, err := storage.Open(connectCtx, storage.Options{
		DSN:           cfg.Storage.DatabaseURL,
		MongoDatabase: cfg.Storage.MongoDatabase,
		Verbose:       !cfg.IsRelease(),
	})
	cancel()
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	tokens := auth.NewTokenManager(
		cfg.Auth.AccessTokenSecret,
		cfg.Auth.RefreshTokenSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Initialize summarizer
	var summarizer services.Summarizer
	if cfg.Summarizer.APIKey != "" {
		summarizer = services.NewOpenAISummarizer(cfg.Summarizer.APIKey, cfg.Summarizer.BaseURL, cfg.Summarizer.Model)
	} else {
		logger.Warn("OPENAI_API_KEY not set, note summarization disabled")
	}

	router := handlers.NewRouter(handlers.Handlers{
		Auth:     handlers.NewAuthHandler(services.NewAuthService(store, tokens, cfg.Auth.BcryptCost)),
		Tasks:    handlers.NewTaskHandler(services.NewTaskService(store)),
		Notes:    handlers.NewNoteHandler(services.NewNoteService(store, summarizer, cfg.Summarizer.Timeout)),
		Journals: handlers.NewJournalHandler(services.NewJournalService(store)),
		Health:   handlers.NewHealthHandler(store),
	}, tokens, handlers.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", srv.Addr), slog.String("mode", cfg.Server.GinMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

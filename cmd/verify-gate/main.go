package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/msga/verify-gate/internal/audit"
	"github.com/msga/verify-gate/internal/config"
	"github.com/msga/verify-gate/internal/hostbridge"
	httpserver "github.com/msga/verify-gate/internal/http"
	"github.com/msga/verify-gate/pkg/purge"
	"github.com/msga/verify-gate/pkg/store"
	"github.com/msga/verify-gate/pkg/verify"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Open the shared codes store
	st, err := store.New(store.Config{PathCandidates: cfg.CodesPathCandidates}, logger)
	if err != nil {
		logger.Error("failed to open codes store", "error", err)
		os.Exit(1)
	}

	// Initialize services
	pending := verify.NewPendingCache()
	purger := purge.New(cfg.PurgeRoots, logger)
	auditLog := audit.New(cfg.AuditLogPath, logger)
	scheduler := verify.NewSerialScheduler()
	host := hostbridge.New(hostbridge.Config{
		BaseURL: cfg.HostCallbackURL,
		Timeout: cfg.HostTimeout,
	}, logger)

	service := verify.NewService(verify.Config{
		Mode:               cfg.Mode,
		BroadcastOnSuccess: cfg.BroadcastOnSuccess,
		PurgeOnSuccess:     cfg.PurgeOnSuccess,
		IssueOnJoin:        cfg.IssueOnJoin,
		Messages:           cfg.Messages,
		KickReasons:        cfg.KickReasons,
	}, st, pending, purger, scheduler, host, auditLog, logger)

	logger.Info("verification gate ready",
		"mode", cfg.Mode,
		"codes_file", st.Path(),
		"purge_on_success", cfg.PurgeOnSuccess,
		"broadcast", cfg.BroadcastOnSuccess,
	)

	// Create router
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:        logger,
		VerifyService: service,
		PendingCache:  pending,
		Store:         st,
		Config:        cfg,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout; let deferred disconnects and purges
	// drain first.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	scheduler.Wait()

	logger.Info("server stopped")
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/msga/verify-gate/internal/config"
	"github.com/msga/verify-gate/internal/http/features/codes"
	verifyfeature "github.com/msga/verify-gate/internal/http/features/verify"
	"github.com/msga/verify-gate/internal/http/middleware"
	"github.com/msga/verify-gate/internal/httputil"
	"github.com/msga/verify-gate/pkg/store"
	"github.com/msga/verify-gate/pkg/verify"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger        *slog.Logger
	VerifyService *verify.Service
	PendingCache  *verify.PendingCache
	Store         *store.Store
	Config        *config.Config
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.RequestSizeLimit(cfg.Config.MaxRequestBodySize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	verifyLimiter := middleware.NoRateLimit()
	if cfg.Config.RateLimitEnabled {
		verifyLimiter = middleware.RateLimit(middleware.RateLimitConfig{
			Requests: cfg.Config.VerifyRequests,
			Window:   cfg.Config.VerifyWindow,
			Logger:   cfg.Logger,
		})
	}

	verifyHandler := verifyfeature.NewHandler(cfg.Logger, cfg.VerifyService, cfg.PendingCache)
	r.Group(func(r chi.Router) {
		r.Use(verifyLimiter)
		r.Post("/v1/verify", verifyHandler.Submit)
	})
	r.Post("/v1/sessions/{id}/join", verifyHandler.Join)
	r.Get("/v1/sessions/{id}/pending", verifyHandler.Pending)

	codesHandler := codes.NewHandler(cfg.Logger, cfg.Store)
	r.Get("/v1/codes", codesHandler.List)
	r.Post("/v1/codes", codesHandler.Create)
	r.Post("/v1/codes/{code}/consume", codesHandler.Consume)

	return r
}

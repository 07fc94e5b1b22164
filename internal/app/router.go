package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/commune-social/commune/internal/auth"
	"github.com/commune-social/commune/internal/observability"
	"github.com/commune-social/commune/internal/platform/httpx"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger      *slog.Logger
	Config      *Config
	AuthHandler *auth.Handler
	Metrics     *observability.Metrics
}

// NewRouter constructs the chi.Router with Commune defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.Message(w, http.StatusOK, "ok")
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	params.AuthHandler.MountRoutes(r)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.Message(w, http.StatusNotFound, "Not found")
	})

	return r
}

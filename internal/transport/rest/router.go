package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/casedata-runtime/internal/metrics"
	"github.com/heartmarshall/casedata-runtime/internal/transport/middleware"
)

// RouterDeps bundles what the HTTP surface is assembled from. A nil Metrics
// disables /metrics and request instrumentation.
type RouterDeps struct {
	Log     *slog.Logger
	Cases   *CaseHandler
	Health  *HealthHandler
	Auth    middleware.Middleware
	Metrics *metrics.Metrics
}

// NewRouter builds the service's HTTP handler. Health and metrics endpoints
// are public; everything under /cases requires a valid bearer token.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Log))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Get("/live", deps.Health.Live)
	r.Get("/ready", deps.Health.Ready)
	r.Get("/health", deps.Health.Health)

	r.Group(func(r chi.Router) {
		r.Use(deps.Auth)
		deps.Cases.Register(r)
	})

	return r
}

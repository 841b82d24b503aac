// Package httptransport assembles the public HTTP surface: platform
// middleware, the access-code gate, and the feature handlers. Transport
// concerns stay here so handlers can remain thin.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lifepath/internal/access"
	categoryhandler "lifepath/internal/category/handler"
	personhandler "lifepath/internal/person/handler"
	"lifepath/internal/platform/middleware"
	"lifepath/pkg/platform/httputil"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger     *slog.Logger
	Sessions   *access.Sessions
	AccessCode string
	Persons    personhandler.Service
	Categories categoryhandler.Service
	// Health reports readiness of backing stores; nil checks pass.
	Health func(ctx context.Context) error
}

// NewRouter wires all public endpoints. The registry API sits behind the
// access-code gate; verify-code, health, and metrics stay open.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	r.Get("/healthz", healthHandler(deps.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	access.NewHandler(deps.Logger, deps.Sessions, deps.AccessCode).Register(r)

	r.Group(func(gated chi.Router) {
		gated.Use(access.Require(deps.Sessions, deps.AccessCode, deps.Logger))
		personhandler.New(deps.Persons, deps.Logger).Register(gated)
		categoryhandler.New(deps.Categories, deps.Logger).Register(gated)
	})

	return r
}

func healthHandler(health func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

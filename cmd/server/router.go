package main

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"domainflow/internal/platform/metrics"
	"domainflow/internal/tenant"
	"domainflow/pkg/platform/httputil"
	adminmw "domainflow/pkg/platform/middleware/admin"
	"domainflow/pkg/platform/middleware/auth"
	request "domainflow/pkg/platform/middleware/request"
	"domainflow/pkg/platform/middleware/requesttime"
)

const (
	requestTimeout = 30 * time.Second
	healthTimeout  = 2 * time.Second
)

type routerDeps struct {
	logger     *slog.Logger
	module     *tenant.Module
	validator  auth.JWTValidator
	adminToken string
	httpm      *metrics.Metrics
	gatherer   prometheus.Gatherer
	checks     map[string]func(context.Context) error
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(requesttime.Middleware)
	if d.httpm != nil {
		r.Use(d.httpm.Middleware)
	}

	r.Get("/healthz", healthHandler(d.checks))
	if d.gatherer != nil {
		r.Handle("/metrics", metrics.Handler(d.gatherer))
	}

	h := d.module.Handler
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireTenant(d.validator, d.logger))
		h.RegisterTenantRoutes(r)
	})
	h.RegisterWebhookRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(d.adminToken, d.logger))
		h.RegisterAdmin(r)
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthHandler reports process liveness plus the state of each backing
// dependency. Any failing check turns the response into a 503.
func healthHandler(checks map[string]func(context.Context) error) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				resp.Status = "degraded"
				resp.Checks[name] = err.Error()
				continue
			}
			resp.Checks[name] = "ok"
		}
		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, status, resp)
	}
}

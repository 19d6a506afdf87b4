package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"domainflow/internal/tenant/models"
	id "domainflow/pkg/domain"
	"domainflow/pkg/platform/httputil"
	request "domainflow/pkg/platform/middleware/request"
)

// HandleHealth returns 503 when the provider is unreachable so load
// balancers and dashboards can alert on it.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report, err := h.service.Health(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to build health report", err)
		return
	}
	status := http.StatusOK
	if !report.Healthy {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, report)
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.service.Stats(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to count domains", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	host := r.URL.Query().Get("host")
	tenantID, err := h.service.ResolveTenant(ctx, host)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to resolve host", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resolveResponse{Host: host, TenantID: tenantID.String()})
}

func (h *Handler) HandleCreateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateTenantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	t, err := h.service.CreateTenant(ctx, req.Name, req.Trial)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to create tenant", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toTenantResponse(t))
}

func (h *Handler) HandleGetTenant(w http.ResponseWriter, r *http.Request) {
	h.tenantAction(w, r, "failed to get tenant", h.service.GetTenant)
}

func (h *Handler) HandleSuspendTenant(w http.ResponseWriter, r *http.Request) {
	h.tenantAction(w, r, "failed to suspend tenant", h.service.SuspendTenant)
}

func (h *Handler) HandleReactivateTenant(w http.ResponseWriter, r *http.Request) {
	h.tenantAction(w, r, "failed to reactivate tenant", h.service.ReactivateTenant)
}

// tenantAction parses the {id} path parameter, runs fn and writes the tenant.
func (h *Handler) tenantAction(w http.ResponseWriter, r *http.Request, failMsg string, fn func(context.Context, id.TenantID) (*models.Tenant, error)) {
	ctx := r.Context()
	tenantID, err := id.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	t, err := fn(ctx, tenantID)
	if err != nil {
		h.writeServiceError(ctx, w, failMsg, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTenantResponse(t))
}

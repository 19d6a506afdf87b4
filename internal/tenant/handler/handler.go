// Package handler exposes the custom domain lifecycle over HTTP: tenant
// routes behind bearer auth, the hosting provider webhook behind an HMAC
// signature, and operator routes behind the admin token.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"domainflow/internal/tenant/models"
	id "domainflow/pkg/domain"
	dErrors "domainflow/pkg/domain-errors"
	"domainflow/pkg/platform/httputil"
	request "domainflow/pkg/platform/middleware/request"
	"domainflow/pkg/requestcontext"
)

// Service is the subset of the tenant service the handlers call.
type Service interface {
	RegisterDomain(ctx context.Context, tenantID id.TenantID, rawDomain string) (*models.RegistrationResult, error)
	GetDomainStatus(ctx context.Context, tenantID id.TenantID) (*models.DomainStatusView, error)
	GetInstructions(ctx context.Context, tenantID id.TenantID) ([]models.DNSInstruction, error)
	AdvanceVerification(ctx context.Context, tenantID id.TenantID) (models.AdvanceResult, error)
	RemoveDomain(ctx context.Context, tenantID id.TenantID) error
	ListActivity(ctx context.Context, tenantID id.TenantID) ([]models.Activity, error)
	HandleWebhook(ctx context.Context, event models.DomainEvent) (models.WebhookOutcome, error)

	ResolveTenant(ctx context.Context, host string) (id.TenantID, error)
	Health(ctx context.Context) (*models.HealthReport, error)
	Stats(ctx context.Context) (*models.DomainStats, error)

	CreateTenant(ctx context.Context, name string, trial bool) (*models.Tenant, error)
	GetTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	SuspendTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	ReactivateTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
}

// Handler handles tenant, webhook and admin endpoints.
type Handler struct {
	service       Service
	logger        *slog.Logger
	webhookSecret string
}

// New creates a Handler. An empty webhookSecret rejects every webhook.
func New(service Service, logger *slog.Logger, webhookSecret string) *Handler {
	return &Handler{
		service:       service,
		logger:        logger,
		webhookSecret: webhookSecret,
	}
}

// RegisterTenantRoutes registers the self-service domain routes. The caller
// mounts them behind tenant authentication.
func (h *Handler) RegisterTenantRoutes(r chi.Router) {
	r.Post("/tenant/domain", h.HandleRegisterDomain)
	r.Get("/tenant/domain", h.HandleGetDomain)
	r.Delete("/tenant/domain", h.HandleRemoveDomain)
	r.Get("/tenant/domain/dns", h.HandleGetInstructions)
	r.Post("/tenant/domain/verify", h.HandleVerify)
	r.Get("/tenant/domain/activity", h.HandleListActivity)
}

// RegisterWebhookRoutes registers the hosting provider webhook.
func (h *Handler) RegisterWebhookRoutes(r chi.Router) {
	r.Post("/webhooks/hosting", h.HandleWebhook)
}

// RegisterAdmin registers operator routes. The caller mounts them behind
// the admin token.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/domains/health", h.HandleHealth)
	r.Get("/admin/domains/stats", h.HandleStats)
	r.Get("/admin/domains/resolve", h.HandleResolve)
	r.Post("/admin/tenants", h.HandleCreateTenant)
	r.Get("/admin/tenants/{id}", h.HandleGetTenant)
	r.Post("/admin/tenants/{id}/suspend", h.HandleSuspendTenant)
	r.Post("/admin/tenants/{id}/reactivate", h.HandleReactivateTenant)
}

// tenantFromContext returns the authenticated tenant. A missing tenant means
// the route was mounted without auth middleware.
func (h *Handler) tenantFromContext(ctx context.Context, w http.ResponseWriter) (id.TenantID, bool) {
	tenantID := requestcontext.TenantID(ctx)
	if tenantID.IsNil() {
		h.logger.ErrorContext(ctx, "tenant missing from context despite auth middleware",
			"request_id", request.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.TenantID{}, false
	}
	return tenantID, true
}

// writeServiceError logs at a level matching the failure and writes the
// mapped response.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	attrs := []any{"error", err, "request_id", request.GetRequestID(ctx)}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal:
		h.logger.ErrorContext(ctx, msg, attrs...)
	case dErrors.CodeProviderError, dErrors.CodeTimeout:
		h.logger.WarnContext(ctx, msg, attrs...)
	default:
		h.logger.DebugContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}

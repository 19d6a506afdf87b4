package handler

import (
	"time"

	"domainflow/internal/tenant/models"
)

type instructionsResponse struct {
	Instructions []models.DNSInstruction `json:"instructions"`
}

type verifyResponse struct {
	Activated      bool `json:"activated"`
	RetryInSeconds int  `json:"retry_in_seconds,omitempty"`
}

func toVerifyResponse(res models.AdvanceResult) verifyResponse {
	return verifyResponse{
		Activated:      res.Activated,
		RetryInSeconds: int(res.RetryIn / time.Second),
	}
}

type activityResponse struct {
	Activity []models.Activity `json:"activity"`
}

type webhookResponse struct {
	Outcome models.WebhookOutcome `json:"outcome"`
}

type resolveResponse struct {
	Host     string `json:"host"`
	TenantID string `json:"tenant_id"`
}

// TenantResponse is the admin view of a tenant.
type TenantResponse struct {
	TenantID  string              `json:"tenant_id"`
	Name      string              `json:"name"`
	Status    models.TenantStatus `json:"status"`
	Domain    models.DomainRecord `json:"custom_domain"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func toTenantResponse(t *models.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:  t.ID.String(),
		Name:      t.Name,
		Status:    t.Status,
		Domain:    t.Domain,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

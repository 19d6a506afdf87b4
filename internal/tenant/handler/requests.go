package handler

import (
	"strings"

	dErrors "domainflow/pkg/domain-errors"
)

// RegisterDomainRequest is the body of POST /tenant/domain.
type RegisterDomainRequest struct {
	Domain string `json:"domain"`
}

func (r *RegisterDomainRequest) Normalize() {
	r.Domain = strings.TrimSpace(r.Domain)
}

// Validate only checks presence; format rules live in the service so every
// entry point applies the same ones.
func (r *RegisterDomainRequest) Validate() error {
	if r.Domain == "" {
		return dErrors.New(dErrors.CodeValidation, "domain is required")
	}
	return nil
}

// CreateTenantRequest is the body of POST /admin/tenants.
type CreateTenantRequest struct {
	Name  string `json:"name"`
	Trial bool   `json:"trial"`
}

func (r *CreateTenantRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r *CreateTenantRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(r.Name) > 128 {
		return dErrors.New(dErrors.CodeValidation, "name must be 128 characters or less")
	}
	return nil
}

// webhookPayload is the hosting provider's event envelope.
type webhookPayload struct {
	Type    string `json:"type"`
	Payload struct {
		Domain    string `json:"domain"`
		ProjectID string `json:"projectId"`
	} `json:"payload"`
}

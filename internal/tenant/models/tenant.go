package models

import (
	"strings"
	"time"

	id "domainflow/pkg/domain"
	dErrors "domainflow/pkg/domain-errors"
)

// TenantStatus is the site lifecycle of a tenant. It is independent of the
// custom domain status; domain activation only moves pending_domain to active.
type TenantStatus string

const (
	TenantStatusPendingDomain TenantStatus = "pending_domain"
	TenantStatusActive        TenantStatus = "active"
	TenantStatusTrial         TenantStatus = "trial"
	TenantStatusSuspended     TenantStatus = "suspended"
	TenantStatusCancelled     TenantStatus = "cancelled"
)

func (s TenantStatus) IsValid() bool {
	switch s {
	case TenantStatusPendingDomain, TenantStatusActive, TenantStatusTrial,
		TenantStatusSuspended, TenantStatusCancelled:
		return true
	}
	return false
}

func (s TenantStatus) String() string { return string(s) }

const maxTenantNameLength = 128

// Tenant is the aggregate root: a hosted site and its custom domain.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - Domain.Domain is empty exactly when Domain.Status is unregistered
//   - CreatedAt is immutable after construction
type Tenant struct {
	ID        id.TenantID  `json:"id"`
	Name      string       `json:"name"`
	Status    TenantStatus `json:"status"`
	Domain    DomainRecord `json:"custom_domain"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func NewTenant(tenantID id.TenantID, name string, trial bool, now time.Time) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name cannot be empty")
	}
	if len(name) > maxTenantNameLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name must be 128 characters or less")
	}
	status := TenantStatusPendingDomain
	if trial {
		status = TenantStatusTrial
	}
	return &Tenant{
		ID:        tenantID,
		Name:      name,
		Status:    status,
		Domain:    DomainRecord{TenantID: tenantID, Status: DomainStatusUnregistered, TenantStatus: status},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanSuspend checks if the tenant can transition to suspended.
func (t *Tenant) CanSuspend() error {
	switch t.Status {
	case TenantStatusSuspended:
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant is already suspended")
	case TenantStatusCancelled:
		return dErrors.New(dErrors.CodeInvariantViolation, "cancelled tenants cannot be suspended")
	}
	return nil
}

func (t *Tenant) ApplySuspension(now time.Time) {
	t.Status = TenantStatusSuspended
	t.Domain.TenantStatus = t.Status
	t.UpdatedAt = now
}

// CanReactivate checks if the tenant can leave the suspended state.
func (t *Tenant) CanReactivate() error {
	if t.Status != TenantStatusSuspended {
		return dErrors.New(dErrors.CodeInvariantViolation, "only suspended tenants can be reactivated")
	}
	return nil
}

// ApplyReactivation returns the tenant to active when its domain is live,
// otherwise back to pending_domain.
func (t *Tenant) ApplyReactivation(now time.Time) {
	if t.Domain.Status == DomainStatusActive {
		t.Status = TenantStatusActive
	} else {
		t.Status = TenantStatusPendingDomain
	}
	t.Domain.TenantStatus = t.Status
	t.UpdatedAt = now
}

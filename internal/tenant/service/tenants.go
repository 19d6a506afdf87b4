package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"domainflow/internal/tenant/models"
	id "domainflow/pkg/domain"
	dErrors "domainflow/pkg/domain-errors"
	"domainflow/pkg/platform/sentinel"
	"domainflow/pkg/requestcontext"
)

// CreateTenant provisions a tenant without a custom domain. Trial tenants
// start in trial, everyone else in pending_domain.
func (s *Service) CreateTenant(ctx context.Context, name string, trial bool) (*models.Tenant, error) {
	t, err := models.NewTenant(id.TenantID(uuid.New()), strings.TrimSpace(name), trial, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if err := s.tenants.CreateIfNameAvailable(ctx, t); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "tenant name must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create tenant")
	}

	s.logEvent(ctx, "tenant_created", "tenant_id", t.ID.String(), "status", string(t.Status))
	if s.metrics != nil {
		s.metrics.IncrementTenantCreated()
	}
	return t, nil
}

func (s *Service) GetTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	return s.loadTenant(ctx, tenantID)
}

// GetTenantByName retrieves a tenant by name (case-insensitive).
func (s *Service) GetTenantByName(ctx context.Context, name string) (*models.Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant name is required")
	}
	t, err := s.tenants.FindByName(ctx, name)
	if err != nil {
		return nil, wrapTenantErr(err)
	}
	return t, nil
}

// SuspendTenant moves a tenant to suspended. The domain record is left as is
// so the site comes back with its domain on reactivation.
//
// Uses the Execute callback pattern for atomic validate-then-mutate.
func (s *Service) SuspendTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant ID required")
	}
	now := requestcontext.Now(ctx)
	t, err := s.tenants.Execute(ctx, tenantID,
		func(t *models.Tenant) error {
			if err := t.CanSuspend(); err != nil {
				return dErrors.New(dErrors.CodeConflict, err.Error())
			}
			return nil
		},
		func(t *models.Tenant) {
			t.ApplySuspension(now)
		},
	)
	if err != nil {
		return nil, wrapTenantErr(err)
	}
	s.logEvent(ctx, "tenant_suspended", "tenant_id", t.ID.String())
	s.invalidateResolution(ctx, t)
	return t, nil
}

// ReactivateTenant returns a suspended tenant to active when its domain is
// live, otherwise to pending_domain.
func (s *Service) ReactivateTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant ID required")
	}
	now := requestcontext.Now(ctx)
	t, err := s.tenants.Execute(ctx, tenantID,
		func(t *models.Tenant) error {
			if err := t.CanReactivate(); err != nil {
				return dErrors.New(dErrors.CodeConflict, err.Error())
			}
			return nil
		},
		func(t *models.Tenant) {
			t.ApplyReactivation(now)
		},
	)
	if err != nil {
		return nil, wrapTenantErr(err)
	}
	s.logEvent(ctx, "tenant_reactivated", "tenant_id", t.ID.String(), "status", string(t.Status))
	s.invalidateResolution(ctx, t)
	return t, nil
}

// invalidateResolution drops the cached hostname mapping so the next request
// sees the tenant's new status.
func (s *Service) invalidateResolution(ctx context.Context, t *models.Tenant) {
	if t.Domain.HasDomain() {
		s.invalidate(ctx, t.ID, t.Domain.Domain)
	}
}

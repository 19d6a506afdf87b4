package service

import (
	"context"
	"errors"

	"domainflow/internal/tenant/models"
	"domainflow/internal/tenant/notifier"
	id "domainflow/pkg/domain"
	dErrors "domainflow/pkg/domain-errors"
	"domainflow/pkg/platform/sentinel"
	"domainflow/pkg/requestcontext"
)

// RemoveDomain detaches the tenant's custom domain. The provider call is
// best-effort: local state is cleared even when it fails. Marking the record
// removal_in_progress first makes any in-flight verification a no-op.
func (s *Service) RemoveDomain(ctx context.Context, tenantID id.TenantID) error {
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "tenant ID required")
	}
	domain, err := s.tenants.BeginRemoval(ctx, tenantID, requestcontext.Now(ctx))
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.New(dErrors.CodeNotFound, "tenant not found")
		case errors.Is(err, sentinel.ErrInvalidState):
			return dErrors.New(dErrors.CodeNotFound, "no custom domain registered")
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to begin domain removal")
		}
	}

	err = s.callProvider(ctx, "remove_domain", func(ctx context.Context) error {
		return s.provider.RemoveDomain(ctx, domain)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "hosting provider removal failed, clearing locally",
			"tenant_id", tenantID.String(),
			"domain", domain,
			"error", err,
		)
	}

	if err := s.tenants.ClearDomain(ctx, tenantID, domain, requestcontext.Now(ctx)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear custom domain")
	}

	s.invalidate(ctx, tenantID, domain)
	s.recordActivity(ctx, tenantID, models.ActivityRemoved, domain)
	s.fireTrigger(ctx, tenantID, domain, notifier.ReasonRemoved)
	if s.metrics != nil {
		s.metrics.IncrementRemoval()
	}
	s.logEvent(ctx, "domain_removed", "tenant_id", tenantID.String(), "domain", domain)
	return nil
}

// invalidate evicts the resolution and instruction entries for domain.
// Cache failures are logged; entries expire on their own.
func (s *Service) invalidate(ctx context.Context, tenantID id.TenantID, domain string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, tenantID, domain); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate domain cache",
			"tenant_id", tenantID.String(),
			"domain", domain,
			"error", err,
		)
	}
}

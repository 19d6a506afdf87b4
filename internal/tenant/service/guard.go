package service

import (
	"context"
	"errors"

	id "domainflow/pkg/domain"
	dErrors "domainflow/pkg/domain-errors"
	"domainflow/pkg/platform/sentinel"
)

// errDomainTaken never names the owning tenant.
var errDomainTaken = dErrors.New(dErrors.CodeConflict, "domain is already registered")

// CheckAvailable rejects early when another tenant holds domain in any
// registered status. It is a fast path only: ClaimDomain is checked again
// against the store's unique constraint.
func (s *Service) CheckAvailable(ctx context.Context, domain string, tenantID id.TenantID) error {
	owner, err := s.tenants.FindByDomain(ctx, domain)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check domain availability")
	}
	if owner.ID != tenantID {
		return errDomainTaken
	}
	return nil
}

package service

import (
	"context"
	"errors"

	"domainflow/internal/tenant/dnsrecords"
	"domainflow/internal/tenant/models"
	"domainflow/internal/tenant/provider"
	id "domainflow/pkg/domain"
	dErrors "domainflow/pkg/domain-errors"
	"domainflow/pkg/hostname"
	"domainflow/pkg/platform/sentinel"
	"domainflow/pkg/requestcontext"
)

// RegisterDomain attaches rawDomain to the tenant: provider registration,
// the pending_dns record, DNS instructions and the first verification check.
// Provider failures persist nothing, so the whole call is safe to retry.
// Registering the tenant's current domain again is idempotent.
func (s *Service) RegisterDomain(ctx context.Context, tenantID id.TenantID, rawDomain string) (*models.RegistrationResult, error) {
	domain := hostname.Normalize(rawDomain)
	if !hostname.IsValidFormat(domain) {
		s.incrementRegistration("invalid")
		return nil, dErrors.New(dErrors.CodeValidation, "invalid domain format")
	}

	t, err := s.loadTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	current := t.Domain
	if current.HasDomain() && current.Domain != domain {
		s.incrementRegistration("conflict")
		return nil, dErrors.New(dErrors.CodeConflict, "tenant already has a custom domain, remove it first")
	}
	if current.Status == models.DomainStatusRemovalInProgress {
		s.incrementRegistration("conflict")
		return nil, dErrors.New(dErrors.CodeConflict, "domain removal in progress")
	}
	if current.Status == models.DomainStatusActive {
		return s.activeRegistration(ctx, t)
	}

	if err := s.CheckAvailable(ctx, domain, tenantID); err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			s.incrementRegistration("conflict")
		}
		return nil, err
	}

	state, err := s.addToProvider(ctx, domain)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	rec, err := s.tenants.ClaimDomain(ctx, tenantID, domain, now)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrAlreadyUsed):
			s.incrementRegistration("conflict")
			return nil, errDomainTaken
		case errors.Is(err, sentinel.ErrInvalidState):
			s.incrementRegistration("conflict")
			return nil, dErrors.New(dErrors.CodeConflict, "tenant already has a custom domain, remove it first")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "tenant not found")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist custom domain")
		}
	}

	instructions := dnsrecords.Generate(domain, hostname.IsApex(domain), state.Challenges, s.cfg.Targets)
	s.cacheInstructions(ctx, tenantID, domain, instructions)

	if s.scheduler != nil && rec.Status.IsAdvanceable() {
		if err := s.scheduler.Schedule(ctx, tenantID); err != nil {
			s.logger.WarnContext(ctx, "failed to schedule domain verification",
				"tenant_id", tenantID.String(),
				"domain", domain,
				"error", err,
			)
		}
	}

	fresh := current.Status == models.DomainStatusUnregistered
	if fresh {
		s.recordActivity(ctx, tenantID, models.ActivityRegistered, domain)
		s.incrementRegistration("registered")
	} else {
		s.incrementRegistration("idempotent")
	}
	s.logEvent(ctx, "domain_registered",
		"tenant_id", tenantID.String(),
		"domain", domain,
		"status", string(rec.Status),
		"provider_verified", state.Verified,
		"repeat", !fresh,
	)

	return &models.RegistrationResult{
		TenantID:     tenantID,
		Domain:       domain,
		Status:       rec.Status,
		Instructions: instructions,
		Verified:     state.Verified,
	}, nil
}

// addToProvider registers domain and classifies the answer. A domain already
// in this project is a successful retry; one held elsewhere is a conflict.
func (s *Service) addToProvider(ctx context.Context, domain string) (*provider.DomainState, error) {
	var state *provider.DomainState
	err := s.callProvider(ctx, "add_domain", func(ctx context.Context) error {
		var err error
		state, err = s.provider.AddDomain(ctx, domain)
		return err
	})
	switch {
	case err == nil:
	case errors.Is(err, provider.ErrAlreadyExists):
		err = s.callProvider(ctx, "get_domain_status", func(ctx context.Context) error {
			var err error
			state, err = s.provider.GetDomainStatus(ctx, domain)
			return err
		})
		if err != nil {
			return nil, s.providerFailure(ctx, domain, err)
		}
	case errors.Is(err, provider.ErrOwnedElsewhere):
		s.incrementRegistration("conflict")
		return nil, errDomainTaken
	default:
		return nil, s.providerFailure(ctx, domain, err)
	}
	if state == nil {
		state = &provider.DomainState{}
	}
	return state, nil
}

func (s *Service) providerFailure(ctx context.Context, domain string, err error) error {
	s.incrementRegistration("provider_error")
	s.logger.WarnContext(ctx, "hosting provider registration failed",
		"domain", domain,
		"category", string(provider.GetCategory(err)),
		"error", err,
	)
	if provider.GetCategory(err) == provider.ErrorBadData {
		return dErrors.Wrap(err, dErrors.CodeValidation, "hosting provider rejected the domain")
	}
	return dErrors.Wrap(err, dErrors.CodeProviderError, "hosting provider unavailable, try again")
}

// activeRegistration answers a repeat registration of a live domain without
// touching the provider or the record.
func (s *Service) activeRegistration(ctx context.Context, t *models.Tenant) (*models.RegistrationResult, error) {
	instructions, err := s.GetInstructions(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	s.incrementRegistration("idempotent")
	return &models.RegistrationResult{
		TenantID:     t.ID,
		Domain:       t.Domain.Domain,
		Status:       t.Domain.Status,
		Instructions: instructions,
		Verified:     true,
	}, nil
}

func (s *Service) cacheInstructions(ctx context.Context, tenantID id.TenantID, domain string, instructions []models.DNSInstruction) {
	if s.cache == nil {
		return
	}
	if err := s.cache.PutInstructions(ctx, tenantID, domain, instructions); err != nil {
		s.logger.WarnContext(ctx, "failed to cache dns instructions",
			"tenant_id", tenantID.String(),
			"domain", domain,
			"error", err,
		)
	}
}

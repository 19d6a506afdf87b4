package service

import (
	"context"
	"errors"
	"time"

	"domainflow/internal/tenant/dnsrecords"
	"domainflow/internal/tenant/models"
	"domainflow/internal/tenant/provider"
	id "domainflow/pkg/domain"
	dErrors "domainflow/pkg/domain-errors"
	"domainflow/pkg/hostname"
	"domainflow/pkg/platform/sentinel"
	"domainflow/pkg/requestcontext"
)

const stalledMessage = "verification pending, check your DNS"

var statusMessages = map[models.DomainStatus]string{
	models.DomainStatusUnregistered:      "no custom domain registered",
	models.DomainStatusPendingDNS:        "waiting for DNS records to propagate",
	models.DomainStatusVerified:          "domain verified, waiting for the certificate",
	models.DomainStatusActive:            "domain is active",
	models.DomainStatusRemovalInProgress: "domain removal in progress",
}

// GetDomainStatus returns the tenant's domain record with a message for the
// settings page. Stalled records report the DNS hint.
func (s *Service) GetDomainStatus(ctx context.Context, tenantID id.TenantID) (*models.DomainStatusView, error) {
	t, err := s.loadTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	msg := statusMessages[t.Domain.Status]
	if t.Domain.IsStalled() {
		msg = stalledMessage
	}
	return &models.DomainStatusView{DomainRecord: t.Domain, Message: msg}, nil
}

// GetInstructions serves the DNS instruction set from cache, regenerating it
// from the provider's current challenges on a miss.
func (s *Service) GetInstructions(ctx context.Context, tenantID id.TenantID) ([]models.DNSInstruction, error) {
	t, err := s.loadTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !t.Domain.HasDomain() || t.Domain.Status == models.DomainStatusRemovalInProgress {
		return nil, dErrors.New(dErrors.CodeNotFound, "no custom domain registered")
	}
	domain := t.Domain.Domain

	if s.cache != nil {
		cached, ok, err := s.cache.GetInstructions(ctx, tenantID, domain)
		if err != nil {
			s.logger.WarnContext(ctx, "dns instruction cache read failed", "tenant_id", tenantID.String(), "error", err)
		} else if ok {
			return cached, nil
		}
	}

	var state *provider.DomainState
	err = s.callProvider(ctx, "get_domain_status", func(ctx context.Context) error {
		var err error
		state, err = s.provider.GetDomainStatus(ctx, domain)
		return err
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeProviderError, "hosting provider unavailable, try again")
	}
	var challenges []models.Challenge
	if state != nil {
		challenges = state.Challenges
	}
	instructions := dnsrecords.Generate(domain, hostname.IsApex(domain), challenges, s.cfg.Targets)
	s.cacheInstructions(ctx, tenantID, domain, instructions)
	return instructions, nil
}

// ResolveTenant maps an inbound Host header to the tenant serving it. Only
// active domains of tenants that are not suspended or cancelled resolve.
func (s *Service) ResolveTenant(ctx context.Context, host string) (id.TenantID, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveResolve(start)
		}
	}()

	domain := hostname.FromHost(host)
	if domain == "" {
		return id.TenantID{}, dErrors.New(dErrors.CodeBadRequest, "host is required")
	}

	if s.cache != nil {
		tenantID, ok, err := s.cache.GetResolution(ctx, domain)
		if err != nil {
			s.logger.WarnContext(ctx, "resolution cache read failed", "domain", domain, "error", err)
		} else if ok {
			s.incrementResolveLookup("cache_hit")
			return tenantID, nil
		}
	}

	t, err := s.tenants.FindByDomain(ctx, domain)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.incrementResolveLookup("not_found")
			return id.TenantID{}, dErrors.New(dErrors.CodeNotFound, "no tenant serves this host")
		}
		return id.TenantID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve host")
	}
	if !servesTraffic(t) {
		s.incrementResolveLookup("not_found")
		return id.TenantID{}, dErrors.New(dErrors.CodeNotFound, "no tenant serves this host")
	}

	if s.cache != nil {
		if err := s.cache.PutResolution(ctx, domain, t.ID); err != nil {
			s.logger.WarnContext(ctx, "failed to cache resolution", "domain", domain, "error", err)
		} else if !s.confirmResolution(ctx, domain, t.ID) {
			s.invalidate(ctx, t.ID, domain)
			s.incrementResolveLookup("not_found")
			return id.TenantID{}, dErrors.New(dErrors.CodeNotFound, "no tenant serves this host")
		}
	}
	s.incrementResolveLookup("store_hit")
	return t.ID, nil
}

// confirmResolution re-reads the record after a resolution was cached. A
// removal or suspension that committed between the first read and the cache
// write has already run its eviction, so the entry just written is stale and
// the caller must evict it again. A failed re-read keeps the entry.
func (s *Service) confirmResolution(ctx context.Context, domain string, tenantID id.TenantID) bool {
	t, err := s.tenants.FindByDomain(ctx, domain)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false
		}
		s.logger.WarnContext(ctx, "resolution recheck failed", "domain", domain, "error", err)
		return true
	}
	return t.ID == tenantID && servesTraffic(t)
}

func servesTraffic(t *models.Tenant) bool {
	if t.Domain.Status != models.DomainStatusActive {
		return false
	}
	return t.Status != models.TenantStatusSuspended && t.Status != models.TenantStatusCancelled
}

// ListActivity returns the tenant's recent domain events, newest first.
func (s *Service) ListActivity(ctx context.Context, tenantID id.TenantID) ([]models.Activity, error) {
	if _, err := s.loadTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	if s.activity == nil {
		return []models.Activity{}, nil
	}
	entries, err := s.activity.List(ctx, tenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load domain activity")
	}
	if entries == nil {
		entries = []models.Activity{}
	}
	return entries, nil
}

// Health reports provider reachability and how many domains have been
// pending longer than StaleAfter.
func (s *Service) Health(ctx context.Context) (*models.HealthReport, error) {
	now := requestcontext.Now(ctx)
	stale, err := s.tenants.CountPendingSince(ctx, now.Add(-s.cfg.StaleAfter))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count pending domains")
	}
	report := &models.HealthReport{
		Healthy:          true,
		ProviderHealthy:  true,
		StalePending:     stale,
		StalePendingDays: int(s.cfg.StaleAfter / (24 * time.Hour)),
		CheckedAt:        now,
	}
	if hc, ok := s.provider.(provider.HealthChecker); ok {
		err := s.callProvider(ctx, "health", hc.Health)
		if err != nil {
			report.Healthy = false
			report.ProviderHealthy = false
			report.ProviderError = string(provider.GetCategory(err))
		}
	}
	return report, nil
}

// Stats counts domain records per status. Every status is present.
func (s *Service) Stats(ctx context.Context) (*models.DomainStats, error) {
	counts, err := s.tenants.CountByStatus(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count domains")
	}
	stats := &models.DomainStats{Counts: make(map[models.DomainStatus]int, len(models.AllDomainStatuses))}
	for _, status := range models.AllDomainStatuses {
		stats.Counts[status] = counts[status]
		stats.Total += counts[status]
	}
	return stats, nil
}

// ResumePending schedules a verification check for up to limit records still
// being verified. Used at startup when the job queue does not survive
// restarts.
func (s *Service) ResumePending(ctx context.Context, limit int) (int, error) {
	if s.scheduler == nil {
		return 0, nil
	}
	ids, err := s.tenants.ListAdvanceable(ctx, limit)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending domains")
	}
	scheduled := 0
	for _, tenantID := range ids {
		if err := s.scheduler.Schedule(ctx, tenantID); err != nil {
			s.logger.WarnContext(ctx, "failed to resume verification", "tenant_id", tenantID.String(), "error", err)
			continue
		}
		scheduled++
	}
	if scheduled > 0 {
		s.logger.InfoContext(ctx, "resumed pending verifications", "count", scheduled)
	}
	return scheduled, nil
}

func (s *Service) incrementResolveLookup(result string) {
	if s.metrics != nil {
		s.metrics.IncrementResolveLookup(result)
	}
}

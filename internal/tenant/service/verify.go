package service

import (
	"context"
	"errors"

	"domainflow/internal/tenant/models"
	"domainflow/internal/tenant/notifier"
	"domainflow/internal/tenant/provider"
	id "domainflow/pkg/domain"
	dErrors "domainflow/pkg/domain-errors"
	"domainflow/pkg/hostname"
	"domainflow/pkg/platform/sentinel"
	"domainflow/pkg/requestcontext"
)

// verificationEvents are the webhook types that signal a domain may now be
// verified.
var verificationEvents = map[string]struct{}{
	"domain.verified":           {},
	"project.domain.verified":   {},
	"domain.certificate.issued": {},
}

// AdvanceVerification is the single transition function shared by the
// scheduled poll and the webhook. It is safe to call any number of times in
// any order: only the conditional Activate can move a record to active, and
// only one caller wins it.
//
// Provider failures degrade to a retry hint. Only failures loading the
// record are returned as errors.
func (s *Service) AdvanceVerification(ctx context.Context, tenantID id.TenantID) (models.AdvanceResult, error) {
	t, err := s.loadTenant(ctx, tenantID)
	if err != nil {
		return models.AdvanceResult{}, err
	}
	rec := t.Domain
	if !rec.Status.IsAdvanceable() {
		s.incrementVerificationCheck("noop")
		return models.AdvanceResult{}, nil
	}
	retry := models.AdvanceResult{RetryIn: s.cfg.RetryIn}

	var state *provider.DomainState
	err = s.callProvider(ctx, "get_domain_status", func(ctx context.Context) error {
		var err error
		state, err = s.provider.GetDomainStatus(ctx, rec.Domain)
		return err
	})
	if err != nil {
		s.incrementVerificationCheck("provider_error")
		s.logger.WarnContext(ctx, "domain status check failed",
			"tenant_id", tenantID.String(),
			"domain", rec.Domain,
			"category", string(provider.GetCategory(err)),
			"error", err,
		)
		return retry, nil
	}
	if state == nil || !state.Verified {
		s.incrementVerificationCheck("pending")
		return retry, nil
	}

	now := requestcontext.Now(ctx)
	if !state.Ready() {
		s.incrementVerificationCheck("certificate_pending")
		if rec.Status == models.DomainStatusPendingDNS {
			moved, err := s.tenants.MarkVerified(ctx, tenantID, rec.Domain, now)
			if err != nil {
				s.logger.WarnContext(ctx, "failed to mark domain verified",
					"tenant_id", tenantID.String(),
					"domain", rec.Domain,
					"error", err,
				)
			} else if moved {
				s.recordActivity(ctx, tenantID, models.ActivityVerified, rec.Domain)
				s.logEvent(ctx, "domain_verified", "tenant_id", tenantID.String(), "domain", rec.Domain)
			}
		}
		return retry, nil
	}

	activated, err := s.tenants.Activate(ctx, tenantID, rec.Domain, now)
	if err != nil {
		s.incrementVerificationCheck("store_error")
		s.logger.WarnContext(ctx, "failed to activate domain",
			"tenant_id", tenantID.String(),
			"domain", rec.Domain,
			"error", err,
		)
		return retry, nil
	}
	if !activated {
		s.incrementVerificationCheck("noop")
		return models.AdvanceResult{}, nil
	}

	s.incrementVerificationCheck("activated")
	s.onActivated(ctx, tenantID, rec.Domain)
	return models.AdvanceResult{Activated: true}, nil
}

// onActivated runs once per activation, for the caller that won Activate.
func (s *Service) onActivated(ctx context.Context, tenantID id.TenantID, domain string) {
	s.invalidate(ctx, tenantID, domain)
	s.recordActivity(ctx, tenantID, models.ActivityActivated, domain)
	s.fireTrigger(ctx, tenantID, domain, notifier.ReasonActivated)
	if s.metrics != nil {
		s.metrics.IncrementActivation()
	}
	s.logEvent(ctx, "domain_activated", "tenant_id", tenantID.String(), "domain", domain)
}

// HandleWebhook filters a provider event down to a tenant still being
// verified and runs AdvanceVerification for it. Events that are not ours to
// act on are classified, never errors.
func (s *Service) HandleWebhook(ctx context.Context, event models.DomainEvent) (models.WebhookOutcome, error) {
	outcome, err := s.handleWebhook(ctx, event)
	if err != nil {
		return "", err
	}
	if s.metrics != nil {
		s.metrics.IncrementWebhookEvent(string(outcome))
	}
	s.logger.InfoContext(ctx, "hosting webhook handled",
		"event_type", event.EventType,
		"domain", event.Domain,
		"outcome", string(outcome),
	)
	return outcome, nil
}

func (s *Service) handleWebhook(ctx context.Context, event models.DomainEvent) (models.WebhookOutcome, error) {
	if _, ok := verificationEvents[event.EventType]; !ok {
		return models.WebhookIgnoredEventType, nil
	}
	if event.ProviderProjectID != s.cfg.ProjectID {
		return models.WebhookIgnoredProject, nil
	}
	domain := hostname.Normalize(event.Domain)
	if domain == "" {
		return models.WebhookUnknownDomain, nil
	}

	t, err := s.tenants.FindByDomain(ctx, domain)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.WebhookUnknownDomain, nil
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up domain")
	}
	switch {
	case t.Domain.Status == models.DomainStatusActive:
		return models.WebhookAlreadyActive, nil
	case !t.Domain.Status.IsAdvanceable():
		return models.WebhookUnknownDomain, nil
	}

	result, err := s.AdvanceVerification(ctx, t.ID)
	if err != nil {
		return "", err
	}
	if result.Activated {
		return models.WebhookActivated, nil
	}
	return models.WebhookPending, nil
}

// MarkVerificationStalled records that scheduled retries are exhausted. The
// record stays advanceable so the webhook or a manual check can still
// activate it.
func (s *Service) MarkVerificationStalled(ctx context.Context, tenantID id.TenantID) error {
	t, err := s.loadTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if !t.Domain.Status.IsAdvanceable() {
		return nil
	}
	marked, err := s.tenants.MarkStalled(ctx, tenantID, t.Domain.Domain, requestcontext.Now(ctx))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark verification stalled")
	}
	if marked {
		s.recordActivity(ctx, tenantID, models.ActivityVerificationStalled, t.Domain.Domain)
		s.logEvent(ctx, "domain_verification_stalled", "tenant_id", tenantID.String(), "domain", t.Domain.Domain)
	}
	return nil
}

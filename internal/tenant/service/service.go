// Package service orchestrates tenants and the custom domain lifecycle:
// registration with the hosting provider, DNS instructions, the idempotent
// verification state machine shared by the poller and the webhook, removal
// and cache invalidation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"domainflow/internal/tenant/dnsrecords"
	tenantmetrics "domainflow/internal/tenant/metrics"
	"domainflow/internal/tenant/models"
	"domainflow/internal/tenant/notifier"
	"domainflow/internal/tenant/provider"
	id "domainflow/pkg/domain"
	dErrors "domainflow/pkg/domain-errors"
	"domainflow/pkg/platform/sentinel"
	"domainflow/pkg/requestcontext"
)

// TenantStore persists tenants and the domain state on each tenant row.
// Conditional writes report whether their precondition held.
type TenantStore interface {
	CreateIfNameAvailable(ctx context.Context, tenant *models.Tenant) error
	FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	FindByName(ctx context.Context, name string) (*models.Tenant, error)
	FindByDomain(ctx context.Context, domain string) (*models.Tenant, error)
	Count(ctx context.Context) (int, error)
	Execute(ctx context.Context, tenantID id.TenantID, validate func(*models.Tenant) error, mutate func(*models.Tenant)) (*models.Tenant, error)
	ClaimDomain(ctx context.Context, tenantID id.TenantID, domain string, now time.Time) (*models.DomainRecord, error)
	MarkVerified(ctx context.Context, tenantID id.TenantID, domain string, now time.Time) (bool, error)
	Activate(ctx context.Context, tenantID id.TenantID, domain string, now time.Time) (bool, error)
	MarkStalled(ctx context.Context, tenantID id.TenantID, domain string, now time.Time) (bool, error)
	BeginRemoval(ctx context.Context, tenantID id.TenantID, now time.Time) (string, error)
	ClearDomain(ctx context.Context, tenantID id.TenantID, domain string, now time.Time) error
	CountByStatus(ctx context.Context) (map[models.DomainStatus]int, error)
	CountPendingSince(ctx context.Context, cutoff time.Time) (int, error)
	ListAdvanceable(ctx context.Context, limit int) ([]id.TenantID, error)
}

// DomainCache holds derived state: instruction sets and resolutions.
type DomainCache interface {
	GetInstructions(ctx context.Context, tenantID id.TenantID, domain string) ([]models.DNSInstruction, bool, error)
	PutInstructions(ctx context.Context, tenantID id.TenantID, domain string, instructions []models.DNSInstruction) error
	GetResolution(ctx context.Context, domain string) (id.TenantID, bool, error)
	PutResolution(ctx context.Context, domain string, tenantID id.TenantID) error
	Invalidate(ctx context.Context, tenantID id.TenantID, domain string) error
}

// ActivityLog keeps the recent domain lifecycle events per tenant.
type ActivityLog interface {
	Append(ctx context.Context, tenantID id.TenantID, entry models.Activity) error
	List(ctx context.Context, tenantID id.TenantID) ([]models.Activity, error)
}

// VerificationScheduler enqueues a delayed verification check.
type VerificationScheduler interface {
	Schedule(ctx context.Context, tenantID id.TenantID) error
}

// EmailDomainTrigger asks downstream mail infrastructure to re-check the
// tenant's sending domain.
type EmailDomainTrigger interface {
	RecheckSendingDomain(ctx context.Context, tenantID id.TenantID, domain string, reason notifier.Reason) error
}

// Config carries the lifecycle parameters.
type Config struct {
	// ProjectID is the provider project that owns tenant domains. Webhook
	// events for other projects are ignored.
	ProjectID       string
	Targets         dnsrecords.Targets
	ProviderTimeout time.Duration
	// RetryIn is returned to the scheduler while verification is pending.
	RetryIn time.Duration
	// StaleAfter is the age past which a pending domain counts as stale in
	// the health report.
	StaleAfter     time.Duration
	TriggerTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.ProviderTimeout <= 0 {
		c.ProviderTimeout = 10 * time.Second
	}
	if c.RetryIn <= 0 {
		c.RetryIn = 5 * time.Minute
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = 7 * 24 * time.Hour
	}
	if c.TriggerTimeout <= 0 {
		c.TriggerTimeout = 10 * time.Second
	}
}

// Service orchestrates tenant and custom domain management.
type Service struct {
	tenants   TenantStore
	provider  provider.Provider
	cfg       Config
	cache     DomainCache
	activity  ActivityLog
	scheduler VerificationScheduler
	trigger   EmailDomainTrigger
	logger    *slog.Logger
	metrics   *tenantmetrics.Metrics

	background sync.WaitGroup
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *tenantmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithCache(c DomainCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithActivityLog(l ActivityLog) Option {
	return func(s *Service) { s.activity = l }
}

func WithScheduler(sch VerificationScheduler) Option {
	return func(s *Service) { s.scheduler = sch }
}

func WithEmailDomainTrigger(t EmailDomainTrigger) Option {
	return func(s *Service) { s.trigger = t }
}

// New constructs a Service. Cache, activity log, scheduler and trigger are
// optional; without them the corresponding side effects are skipped.
func New(tenants TenantStore, p provider.Provider, cfg Config, opts ...Option) *Service {
	cfg.applyDefaults()
	s := &Service{
		tenants:  tenants,
		provider: p,
		cfg:      cfg,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Wait blocks until fire-and-forget downstream triggers have finished.
func (s *Service) Wait() {
	s.background.Wait()
}

// loadTenant maps store errors for the tenant being operated on.
func (s *Service) loadTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant ID required")
	}
	t, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, wrapTenantErr(err)
	}
	return t, nil
}

func wrapTenantErr(err error) error {
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "tenant not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tenant")
}

// callProvider bounds a provider call by the configured timeout and records
// its duration.
func (s *Service) callProvider(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	if s.metrics != nil {
		s.metrics.ObserveProviderCall(op, providerOutcome(err), start)
	}
	return err
}

func providerOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, provider.ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, provider.ErrOwnedElsewhere):
		return "owned_elsewhere"
	case errors.Is(err, context.DeadlineExceeded):
		return string(provider.ErrorTimeout)
	default:
		return string(provider.GetCategory(err))
	}
}

// logEvent writes an audit-style lifecycle log line.
func (s *Service) logEvent(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

func (s *Service) recordActivity(ctx context.Context, tenantID id.TenantID, typ models.ActivityType, domain string) {
	if s.activity == nil {
		return
	}
	err := s.activity.Append(ctx, tenantID, models.Activity{
		Type:      typ,
		Domain:    domain,
		Timestamp: requestcontext.Now(ctx),
		RequestID: requestcontext.RequestID(ctx),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record domain activity",
			"tenant_id", tenantID.String(),
			"activity", string(typ),
			"error", err,
		)
	}
}

// fireTrigger runs the downstream trigger on a detached context. Failures are
// logged only.
func (s *Service) fireTrigger(ctx context.Context, tenantID id.TenantID, domain string, reason notifier.Reason) {
	if s.trigger == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		tctx, cancel := context.WithTimeout(detached, s.cfg.TriggerTimeout)
		defer cancel()
		if err := s.trigger.RecheckSendingDomain(tctx, tenantID, domain, reason); err != nil {
			s.logger.WarnContext(tctx, "email domain recheck failed",
				"tenant_id", tenantID.String(),
				"domain", domain,
				"error", err,
			)
		}
	}()
}

func (s *Service) incrementRegistration(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementRegistration(outcome)
	}
}

func (s *Service) incrementVerificationCheck(result string) {
	if s.metrics != nil {
		s.metrics.IncrementVerificationCheck(result)
	}
}

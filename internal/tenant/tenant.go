// Package tenant assembles the tenant and custom domain module: store,
// caches, hosting provider client, verification scheduler and HTTP handler.
package tenant

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"domainflow/internal/platform/config"
	"domainflow/internal/tenant/dnsrecords"
	"domainflow/internal/tenant/handler"
	tenantmetrics "domainflow/internal/tenant/metrics"
	"domainflow/internal/tenant/notifier"
	"domainflow/internal/tenant/provider"
	"domainflow/internal/tenant/provider/vercel"
	"domainflow/internal/tenant/scheduler"
	"domainflow/internal/tenant/service"
	"domainflow/internal/tenant/store/activity"
	"domainflow/internal/tenant/store/cache"
	tenantstore "domainflow/internal/tenant/store/tenant"
	"domainflow/pkg/platform/circuit"
)

// l1TTL bounds how long another replica may serve a resolution that was
// invalidated through Redis.
const l1TTL = 30 * time.Second

// Service exposes tenant and domain orchestration.
type Service = service.Service

// Handler wires HTTP endpoints to the tenant service.
type Handler = handler.Handler

// Deps are the process-level resources the module runs on. Nil DB, Redis
// and Trigger select the in-memory store, local caches and a logging trigger.
type Deps struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *sql.DB
	Redis    redis.Cmdable
	Trigger  service.EmailDomainTrigger
	Provider provider.Provider
	Registry prometheus.Registerer
}

// Module is the assembled tenant module.
type Module struct {
	Service *Service
	Handler *Handler
	Worker  *scheduler.Worker
	Metrics *tenantmetrics.Metrics

	local *cache.Local
}

// New assembles the module. Deps.Provider overrides the Vercel client.
func New(d Deps) (*Module, error) {
	cfg := d.Config
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := tenantmetrics.New(reg)

	var store service.TenantStore
	if d.DB != nil {
		store = tenantstore.NewPostgres(d.DB)
	} else {
		store = tenantstore.NewInMemory()
	}

	local, err := cache.NewLocal(cfg.Verification.L1CacheMaxItems)
	if err != nil {
		return nil, fmt.Errorf("create local cache: %w", err)
	}
	var (
		kv    cache.Cache = local
		queue scheduler.Queue
		log   service.ActivityLog
	)
	if d.Redis != nil {
		kv = cache.NewTiered(local, cache.NewRedis(d.Redis), l1TTL)
		queue = scheduler.NewRedisQueue(d.Redis, scheduler.WithQueueLogger(logger))
		log = activity.NewRedis(d.Redis, cfg.Verification.ActivityLimit, cfg.Verification.ActivityTTL)
	} else {
		queue = scheduler.NewMemoryQueue()
		log = activity.NewMemory(cfg.Verification.ActivityLimit, cfg.Verification.ActivityTTL)
	}

	p := d.Provider
	if p == nil {
		p = newVercel(cfg.Provider, logger)
	}

	trigger := d.Trigger
	if trigger == nil {
		trigger = notifier.NewLogTrigger(logger)
	}

	worker := scheduler.NewWorker(queue, nil,
		scheduler.WithLogger(logger),
		scheduler.WithMetrics(m),
		scheduler.WithPollInterval(cfg.Verification.PollInterval),
		scheduler.WithConcurrency(cfg.Verification.Concurrency),
		scheduler.WithBackoff(cfg.Verification.InitialDelay, cfg.Verification.MaxDelay, cfg.Verification.MaxAttempts),
	)

	svc := service.New(store, p,
		service.Config{
			ProjectID: cfg.Provider.ProjectID,
			Targets: dnsrecords.Targets{
				AnycastIPv4:  cfg.DNS.AnycastIPv4,
				EdgeHostname: cfg.DNS.EdgeHostname,
				TTL:          cfg.DNS.TTL,
			},
			ProviderTimeout: cfg.Provider.Timeout,
			RetryIn:         cfg.Verification.InitialDelay,
			StaleAfter:      cfg.Verification.StaleAfter,
		},
		service.WithLogger(logger),
		service.WithMetrics(m),
		service.WithCache(cache.NewDomainCache(kv, cfg.Verification.InstructionTTL, cfg.Verification.ResolutionTTL)),
		service.WithActivityLog(log),
		service.WithScheduler(worker),
		service.WithEmailDomainTrigger(trigger),
	)
	worker.SetAdvancer(svc)

	return &Module{
		Service: svc,
		Handler: handler.New(svc, logger, cfg.Provider.WebhookSecret),
		Worker:  worker,
		Metrics: m,
		local:   local,
	}, nil
}

// Close waits for in-flight downstream triggers and releases local caches.
func (m *Module) Close() {
	m.Service.Wait()
	m.local.Close()
}

func newVercel(cfg config.ProviderConfig, logger *slog.Logger) *vercel.Client {
	breaker := circuit.New("hosting-provider",
		circuit.WithFailureThreshold(cfg.BreakerThreshold),
		circuit.WithCooldown(cfg.BreakerCooldown),
	)
	return vercel.New(vercel.Config{
		BaseURL:   cfg.BaseURL,
		Token:     cfg.Token,
		ProjectID: cfg.ProjectID,
		TeamID:    cfg.TeamID,
		Timeout:   cfg.Timeout,
	}, vercel.WithBreaker(breaker), vercel.WithLogger(logger))
}

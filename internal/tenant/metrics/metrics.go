package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var fastBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// Metrics provides observability for the tenant and custom domain lifecycle.
type Metrics struct {
	TenantCreated        prometheus.Counter
	Registrations        *prometheus.CounterVec
	VerificationChecks   *prometheus.CounterVec
	Activations          prometheus.Counter
	VerificationRetries  prometheus.Counter
	VerificationStalled  prometheus.Counter
	Removals             prometheus.Counter
	WebhookEvents        *prometheus.CounterVec
	ProviderCallDuration *prometheus.HistogramVec
	ResolveLookups       *prometheus.CounterVec
	ResolveDuration      prometheus.Histogram
}

// New registers the tenant metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TenantCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "domainflow_tenants_created_total",
			Help: "Total number of tenants created",
		}),
		Registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "domainflow_domain_registrations_total",
			Help: "Custom domain registration attempts by outcome",
		}, []string{"outcome"}),
		VerificationChecks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "domainflow_domain_verification_checks_total",
			Help: "Verification state machine invocations by result",
		}, []string{"result"}),
		Activations: f.NewCounter(prometheus.CounterOpts{
			Name: "domainflow_domain_activations_total",
			Help: "Custom domains that transitioned to active",
		}),
		VerificationRetries: f.NewCounter(prometheus.CounterOpts{
			Name: "domainflow_domain_verification_retries_total",
			Help: "Verification checks rescheduled with backoff",
		}),
		VerificationStalled: f.NewCounter(prometheus.CounterOpts{
			Name: "domainflow_domain_verification_stalled_total",
			Help: "Verifications that exhausted their scheduled retries",
		}),
		Removals: f.NewCounter(prometheus.CounterOpts{
			Name: "domainflow_domain_removals_total",
			Help: "Custom domains removed",
		}),
		WebhookEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "domainflow_domain_webhook_events_total",
			Help: "Hosting provider webhook events by outcome",
		}, []string{"outcome"}),
		ProviderCallDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "domainflow_provider_call_duration_seconds",
			Help:    "Duration of hosting provider calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation", "outcome"}),
		ResolveLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "domainflow_tenant_resolve_lookups_total",
			Help: "Hostname to tenant resolutions by cache result",
		}, []string{"result"}),
		ResolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "domainflow_tenant_resolve_duration_seconds",
			Help:    "Duration of hostname to tenant resolution (request critical path)",
			Buckets: fastBuckets,
		}),
	}
}

// IncrementTenantCreated records a successful tenant creation.
func (m *Metrics) IncrementTenantCreated() {
	m.TenantCreated.Inc()
}

func (m *Metrics) IncrementRegistration(outcome string) {
	m.Registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementVerificationCheck(result string) {
	m.VerificationChecks.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementActivation() {
	m.Activations.Inc()
}

func (m *Metrics) IncrementVerificationRetry() {
	m.VerificationRetries.Inc()
}

func (m *Metrics) IncrementVerificationStalled() {
	m.VerificationStalled.Inc()
}

func (m *Metrics) IncrementRemoval() {
	m.Removals.Inc()
}

func (m *Metrics) IncrementWebhookEvent(outcome string) {
	m.WebhookEvents.WithLabelValues(outcome).Inc()
}

// ObserveProviderCall records a provider call started at start.
func (m *Metrics) ObserveProviderCall(operation, outcome string, start time.Time) {
	m.ProviderCallDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementResolveLookup(result string) {
	m.ResolveLookups.WithLabelValues(result).Inc()
}

// ObserveResolve records the duration of a ResolveTenant call.
func (m *Metrics) ObserveResolve(start time.Time) {
	m.ResolveDuration.Observe(time.Since(start).Seconds())
}

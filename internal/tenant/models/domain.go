package models

import (
	"time"

	id "domainflow/pkg/domain"
)

// DomainStatus is the custom domain lifecycle.
//
//	unregistered -> pending_dns -> verified -> active
//	any registered state -> removal_in_progress -> unregistered
//
// verified means the provider accepted ownership but the certificate is not
// issued yet.
type DomainStatus string

const (
	DomainStatusUnregistered      DomainStatus = "unregistered"
	DomainStatusPendingDNS        DomainStatus = "pending_dns"
	DomainStatusVerified          DomainStatus = "verified"
	DomainStatusActive            DomainStatus = "active"
	DomainStatusRemovalInProgress DomainStatus = "removal_in_progress"
)

// AllDomainStatuses lists every status in lifecycle order.
var AllDomainStatuses = []DomainStatus{
	DomainStatusUnregistered,
	DomainStatusPendingDNS,
	DomainStatusVerified,
	DomainStatusActive,
	DomainStatusRemovalInProgress,
}

func (s DomainStatus) IsValid() bool {
	for _, v := range AllDomainStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsAdvanceable reports whether verification may still move the record forward.
func (s DomainStatus) IsAdvanceable() bool {
	return s == DomainStatusPendingDNS || s == DomainStatusVerified
}

func (s DomainStatus) String() string { return string(s) }

// DomainRecord is the custom domain state stored on the tenant row.
type DomainRecord struct {
	TenantID     id.TenantID  `json:"tenant_id"`
	Domain       string       `json:"domain,omitempty"`
	Status       DomainStatus `json:"status"`
	Verified     bool         `json:"verified"`
	TenantStatus TenantStatus `json:"tenant_status"`
	RegisteredAt *time.Time   `json:"registered_at,omitempty"`
	VerifiedAt   *time.Time   `json:"verified_at,omitempty"`
	StalledAt    *time.Time   `json:"stalled_at,omitempty"`
}

// HasDomain reports whether the record currently holds a domain.
func (r *DomainRecord) HasDomain() bool {
	return r.Domain != "" && r.Status != DomainStatusUnregistered
}

// IsStalled reports whether scheduled verification gave up on this record.
func (r *DomainRecord) IsStalled() bool {
	return r.StalledAt != nil && r.Status.IsAdvanceable()
}

// DNSRecordType is a DNS resource record type used in instructions.
type DNSRecordType string

const (
	DNSRecordA     DNSRecordType = "A"
	DNSRecordCNAME DNSRecordType = "CNAME"
	DNSRecordTXT   DNSRecordType = "TXT"
)

// DNSInstruction is one record the tenant must create at their registrar.
type DNSInstruction struct {
	Type  DNSRecordType `json:"type"`
	Name  string        `json:"name"`
	Value string        `json:"value"`
	TTL   int           `json:"ttl"`
	Note  string        `json:"note,omitempty"`
}

// Challenge is a provider-issued ownership proof the tenant publishes via DNS.
type Challenge struct {
	Type            string `json:"type"`
	ChallengeDomain string `json:"domain"`
	Token           string `json:"value"`
	Reason          string `json:"reason"`
}

// RegistrationResult is returned by RegisterDomain.
type RegistrationResult struct {
	TenantID     id.TenantID      `json:"tenant_id"`
	Domain       string           `json:"domain"`
	Status       DomainStatus     `json:"status"`
	Instructions []DNSInstruction `json:"instructions"`
	Verified     bool             `json:"verified"`
}

// AdvanceResult is returned by AdvanceVerification. RetryIn is zero when the
// caller should not try again.
type AdvanceResult struct {
	Activated bool          `json:"activated"`
	RetryIn   time.Duration `json:"retry_in,omitempty"`
}

// DomainEvent is the trigger delivered by the hosting provider webhook.
type DomainEvent struct {
	EventType         string
	Domain            string
	ProviderProjectID string
}

// WebhookOutcome classifies what HandleWebhook did with an event.
type WebhookOutcome string

const (
	WebhookIgnoredEventType WebhookOutcome = "ignored_event_type"
	WebhookIgnoredProject   WebhookOutcome = "ignored_project"
	WebhookAlreadyActive    WebhookOutcome = "already_active"
	WebhookUnknownDomain    WebhookOutcome = "unknown_domain"
	WebhookActivated        WebhookOutcome = "activated"
	WebhookPending          WebhookOutcome = "pending"
)

// DomainStatusView is what the tenant sees for their domain.
type DomainStatusView struct {
	DomainRecord
	Message string `json:"message,omitempty"`
}

// ActivityType names a domain lifecycle event kept in the activity log.
type ActivityType string

const (
	ActivityRegistered          ActivityType = "registered"
	ActivityVerified            ActivityType = "verified"
	ActivityActivated           ActivityType = "activated"
	ActivityVerificationStalled ActivityType = "verification_stalled"
	ActivityRemoved             ActivityType = "removed"
)

// Activity is one entry in a tenant's domain activity log.
type Activity struct {
	Type      ActivityType `json:"type"`
	Domain    string       `json:"domain"`
	Timestamp time.Time    `json:"timestamp"`
	RequestID string       `json:"request_id,omitempty"`
}

// DomainStats counts records per domain status.
type DomainStats struct {
	Counts map[DomainStatus]int `json:"counts"`
	Total  int                  `json:"total"`
}

// HealthReport summarizes the domain subsystem for operators.
type HealthReport struct {
	Healthy          bool      `json:"healthy"`
	ProviderHealthy  bool      `json:"provider_healthy"`
	ProviderError    string    `json:"provider_error,omitempty"`
	StalePending     int       `json:"stale_pending"`
	StalePendingDays int       `json:"stale_pending_threshold_days"`
	CheckedAt        time.Time `json:"checked_at"`
}

// Package notifier tells downstream systems that a tenant's custom domain
// changed so they re-check the email sending domain.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	id "domainflow/pkg/domain"
	"domainflow/pkg/requestcontext"
)

// Reason is why a recheck was requested.
type Reason string

const (
	ReasonActivated Reason = "activated"
	ReasonRemoved   Reason = "removed"
)

const eventType = "email_sending_domain.recheck"

// RecheckEvent is the record published for downstream consumers.
type RecheckEvent struct {
	EventType  string      `json:"event_type"`
	TenantID   id.TenantID `json:"tenant_id"`
	Domain     string      `json:"domain"`
	Reason     Reason      `json:"reason"`
	OccurredAt time.Time   `json:"occurred_at"`
	RequestID  string      `json:"request_id,omitempty"`
}

// Publisher is satisfied by the Kafka producer.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// KafkaTrigger publishes recheck events keyed by tenant so one tenant's
// events stay ordered within a partition.
type KafkaTrigger struct {
	publisher Publisher
	topic     string
	logger    *slog.Logger
}

func NewKafkaTrigger(publisher Publisher, topic string, logger *slog.Logger) *KafkaTrigger {
	return &KafkaTrigger{publisher: publisher, topic: topic, logger: logger}
}

func (t *KafkaTrigger) RecheckSendingDomain(ctx context.Context, tenantID id.TenantID, domain string, reason Reason) error {
	event := newEvent(ctx, tenantID, domain, reason)
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode recheck event: %w", err)
	}
	if err := t.publisher.Publish(ctx, t.topic, []byte(tenantID.String()), raw); err != nil {
		return fmt.Errorf("publish recheck event: %w", err)
	}
	t.logger.DebugContext(ctx, "email domain recheck published",
		"tenant_id", tenantID.String(),
		"domain", domain,
		"reason", string(reason),
	)
	return nil
}

// LogTrigger only logs. It stands in when no broker is configured.
type LogTrigger struct {
	logger *slog.Logger
}

func NewLogTrigger(logger *slog.Logger) *LogTrigger {
	return &LogTrigger{logger: logger}
}

func (t *LogTrigger) RecheckSendingDomain(ctx context.Context, tenantID id.TenantID, domain string, reason Reason) error {
	t.logger.InfoContext(ctx, "email domain recheck requested",
		"tenant_id", tenantID.String(),
		"domain", domain,
		"reason", string(reason),
	)
	return nil
}

func newEvent(ctx context.Context, tenantID id.TenantID, domain string, reason Reason) RecheckEvent {
	return RecheckEvent{
		EventType:  eventType,
		TenantID:   tenantID,
		Domain:     domain,
		Reason:     reason,
		OccurredAt: requestcontext.Now(ctx),
		RequestID:  requestcontext.RequestID(ctx),
	}
}

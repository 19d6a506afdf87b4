// Package cache holds the short-lived derived state of the domain lifecycle:
// DNS instruction sets per tenant and hostname-to-tenant resolutions.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value cache with per-entry TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const (
	instructionsPrefix = "domain-dns:"
	resolutionPrefix   = "tenant-domain:"
)

// InstructionsKey is the cache key of a tenant's DNS instruction set.
func InstructionsKey(tenantID string) string {
	return instructionsPrefix + tenantID
}

// ResolutionKey is the cache key mapping a domain to its tenant.
func ResolutionKey(domain string) string {
	return resolutionPrefix + domain
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"domainflow/internal/tenant/models"
	id "domainflow/pkg/domain"
)

// DomainCache stores the derived domain state the service reads on hot
// paths. Entries are JSON so other services sharing Redis can read them.
type DomainCache struct {
	cache           Cache
	instructionsTTL time.Duration
	resolutionTTL   time.Duration
}

func NewDomainCache(c Cache, instructionsTTL, resolutionTTL time.Duration) *DomainCache {
	return &DomainCache{cache: c, instructionsTTL: instructionsTTL, resolutionTTL: resolutionTTL}
}

type instructionsEntry struct {
	Domain       string                  `json:"domain"`
	Instructions []models.DNSInstruction `json:"instructions"`
}

// GetInstructions returns the cached instruction set for the tenant's
// current domain. An entry for a different domain is a miss.
func (c *DomainCache) GetInstructions(ctx context.Context, tenantID id.TenantID, domain string) ([]models.DNSInstruction, bool, error) {
	raw, found, err := c.cache.Get(ctx, InstructionsKey(tenantID.String()))
	if err != nil || !found {
		return nil, false, err
	}
	var entry instructionsEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("decode cached instructions: %w", err)
	}
	if entry.Domain != domain {
		return nil, false, nil
	}
	return entry.Instructions, true, nil
}

func (c *DomainCache) PutInstructions(ctx context.Context, tenantID id.TenantID, domain string, instructions []models.DNSInstruction) error {
	raw, err := json.Marshal(instructionsEntry{Domain: domain, Instructions: instructions})
	if err != nil {
		return fmt.Errorf("encode instructions: %w", err)
	}
	return c.cache.Set(ctx, InstructionsKey(tenantID.String()), raw, c.instructionsTTL)
}

type resolutionEntry struct {
	TenantID string `json:"tenant_id"`
}

// GetResolution returns the tenant serving domain.
func (c *DomainCache) GetResolution(ctx context.Context, domain string) (id.TenantID, bool, error) {
	raw, found, err := c.cache.Get(ctx, ResolutionKey(domain))
	if err != nil || !found {
		return id.TenantID{}, false, err
	}
	var entry resolutionEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return id.TenantID{}, false, fmt.Errorf("decode cached resolution: %w", err)
	}
	tenantID, err := id.ParseTenantID(entry.TenantID)
	if err != nil {
		return id.TenantID{}, false, fmt.Errorf("decode cached resolution: %w", err)
	}
	return tenantID, true, nil
}

func (c *DomainCache) PutResolution(ctx context.Context, domain string, tenantID id.TenantID) error {
	raw, err := json.Marshal(resolutionEntry{TenantID: tenantID.String()})
	if err != nil {
		return fmt.Errorf("encode resolution: %w", err)
	}
	return c.cache.Set(ctx, ResolutionKey(domain), raw, c.resolutionTTL)
}

// Invalidate drops both derived entries for a tenant's domain. Every delete
// is attempted.
func (c *DomainCache) Invalidate(ctx context.Context, tenantID id.TenantID, domain string) error {
	var errs []error
	if domain != "" {
		errs = append(errs, c.cache.Delete(ctx, ResolutionKey(domain)))
	}
	errs = append(errs, c.cache.Delete(ctx, InstructionsKey(tenantID.String())))
	return errors.Join(errs...)
}

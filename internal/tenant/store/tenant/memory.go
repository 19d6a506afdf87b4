// Package tenant persists tenants and the custom domain state on each tenant
// row. Stores are pure I/O: lifecycle rules live in the service, conditional
// writes live here so concurrent triggers cannot both win.
package tenant

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"domainflow/internal/tenant/models"
	id "domainflow/pkg/domain"
	"domainflow/pkg/platform/sentinel"
)

// InMemory is a map-backed store. A secondary index keeps registered domains
// unique the way the partial unique index does in Postgres.
type InMemory struct {
	mu      sync.RWMutex
	tenants map[id.TenantID]*models.Tenant
	names   map[string]id.TenantID
	domains map[string]id.TenantID
}

func NewInMemory() *InMemory {
	return &InMemory{
		tenants: make(map[id.TenantID]*models.Tenant),
		names:   make(map[string]id.TenantID),
		domains: make(map[string]id.TenantID),
	}
}

func (s *InMemory) CreateIfNameAvailable(_ context.Context, tenant *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(tenant.Name)
	if _, taken := s.names[key]; taken {
		return sentinel.ErrAlreadyUsed
	}
	if _, exists := s.tenants[tenant.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	stored := *tenant
	stored.Domain.TenantID = tenant.ID
	stored.Domain.TenantStatus = tenant.Status
	if stored.Domain.Status == "" {
		stored.Domain.Status = models.DomainStatusUnregistered
	}
	s.tenants[tenant.ID] = &stored
	s.names[key] = tenant.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tenants[tenantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyTenant(t), nil
}

func (s *InMemory) FindByName(_ context.Context, name string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenantID, ok := s.names[strings.ToLower(name)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyTenant(s.tenants[tenantID]), nil
}

// FindByDomain returns the tenant holding domain in any registered status.
func (s *InMemory) FindByDomain(_ context.Context, domain string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenantID, ok := s.domains[domain]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyTenant(s.tenants[tenantID]), nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tenants), nil
}

// Execute runs validate then mutate under the write lock. Only tenant-level
// fields (name, status) are persisted; domain state has its own writers.
func (s *InMemory) Execute(_ context.Context, tenantID id.TenantID, validate func(*models.Tenant) error, mutate func(*models.Tenant)) (*models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[tenantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := copyTenant(t)
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)

	t.Status = working.Status
	t.Domain.TenantStatus = working.Status
	t.UpdatedAt = working.UpdatedAt
	return copyTenant(t), nil
}

// ClaimDomain attaches domain to the tenant when it has none, or refreshes a
// re-registration of the same domain. Another tenant holding the domain
// yields ErrAlreadyUsed; a different domain already on this tenant yields
// ErrInvalidState.
func (s *InMemory) ClaimDomain(_ context.Context, tenantID id.TenantID, domain string, now time.Time) (*models.DomainRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[tenantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	rec := &t.Domain
	switch {
	case rec.Status == models.DomainStatusUnregistered:
		if owner, taken := s.domains[domain]; taken && owner != tenantID {
			return nil, sentinel.ErrAlreadyUsed
		}
		at := now
		rec.Domain = domain
		rec.Status = models.DomainStatusPendingDNS
		rec.Verified = false
		rec.RegisteredAt = &at
		rec.VerifiedAt = nil
		rec.StalledAt = nil
		s.domains[domain] = tenantID
	case rec.Domain == domain && rec.Status != models.DomainStatusRemovalInProgress:
		rec.StalledAt = nil
	default:
		return nil, sentinel.ErrInvalidState
	}
	t.UpdatedAt = now
	out := *rec
	return &out, nil
}

// MarkVerified moves pending_dns to verified for the given domain.
func (s *InMemory) MarkVerified(_ context.Context, tenantID id.TenantID, domain string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[tenantID]
	if !ok || t.Domain.Domain != domain || t.Domain.Status != models.DomainStatusPendingDNS {
		return false, nil
	}
	t.Domain.Status = models.DomainStatusVerified
	t.Domain.Verified = true
	t.UpdatedAt = now
	return true, nil
}

// Activate flips an advanceable record for domain to active. The tenant
// moves to active only from pending_domain.
func (s *InMemory) Activate(_ context.Context, tenantID id.TenantID, domain string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[tenantID]
	if !ok || t.Domain.Domain != domain || !t.Domain.Status.IsAdvanceable() {
		return false, nil
	}
	at := now
	t.Domain.Status = models.DomainStatusActive
	t.Domain.Verified = true
	t.Domain.VerifiedAt = &at
	t.Domain.StalledAt = nil
	if t.Status == models.TenantStatusPendingDomain {
		t.Status = models.TenantStatusActive
	}
	t.Domain.TenantStatus = t.Status
	t.UpdatedAt = now
	return true, nil
}

// MarkStalled records that scheduled verification gave up.
func (s *InMemory) MarkStalled(_ context.Context, tenantID id.TenantID, domain string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[tenantID]
	if !ok || t.Domain.Domain != domain || !t.Domain.Status.IsAdvanceable() || t.Domain.StalledAt != nil {
		return false, nil
	}
	at := now
	t.Domain.StalledAt = &at
	t.UpdatedAt = now
	return true, nil
}

// BeginRemoval marks the tenant's domain removal_in_progress and returns it.
// ErrInvalidState means the tenant has no domain.
func (s *InMemory) BeginRemoval(_ context.Context, tenantID id.TenantID, now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[tenantID]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	if t.Domain.Status == models.DomainStatusUnregistered {
		return "", sentinel.ErrInvalidState
	}
	t.Domain.Status = models.DomainStatusRemovalInProgress
	t.UpdatedAt = now
	return t.Domain.Domain, nil
}

// ClearDomain resets a record in removal_in_progress for domain back to
// unregistered.
func (s *InMemory) ClearDomain(_ context.Context, tenantID id.TenantID, domain string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[tenantID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if t.Domain.Domain != domain || t.Domain.Status != models.DomainStatusRemovalInProgress {
		return sentinel.ErrInvalidState
	}
	delete(s.domains, domain)
	t.Domain = models.DomainRecord{
		TenantID:     tenantID,
		Status:       models.DomainStatusUnregistered,
		TenantStatus: t.Status,
	}
	t.UpdatedAt = now
	return nil
}

func (s *InMemory) CountByStatus(_ context.Context) (map[models.DomainStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.DomainStatus]int)
	for _, t := range s.tenants {
		counts[t.Domain.Status]++
	}
	return counts, nil
}

// CountPendingSince counts advanceable records registered before cutoff.
func (s *InMemory) CountPendingSince(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.tenants {
		if t.Domain.Status.IsAdvanceable() && t.Domain.RegisteredAt != nil && t.Domain.RegisteredAt.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

// ListAdvanceable returns up to limit tenant IDs whose domain is still being
// verified, oldest registration first.
func (s *InMemory) ListAdvanceable(_ context.Context, limit int) ([]id.TenantID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]*models.Tenant, 0)
	for _, t := range s.tenants {
		if t.Domain.Status.IsAdvanceable() {
			pending = append(pending, t)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		a, b := pending[i].Domain.RegisteredAt, pending[j].Domain.RegisteredAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	ids := make([]id.TenantID, 0, len(pending))
	for _, t := range pending {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

func copyTenant(t *models.Tenant) *models.Tenant {
	out := *t
	out.Domain = copyRecord(t.Domain)
	return &out
}

func copyRecord(r models.DomainRecord) models.DomainRecord {
	out := r
	out.RegisteredAt = copyTime(r.RegisteredAt)
	out.VerifiedAt = copyTime(r.VerifiedAt)
	out.StalledAt = copyTime(r.StalledAt)
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

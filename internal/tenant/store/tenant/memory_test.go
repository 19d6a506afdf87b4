package tenant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"domainflow/internal/tenant/models"
	id "domainflow/pkg/domain"
	"domainflow/pkg/platform/sentinel"
)

type TenantStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func (s *TenantStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestTenantStoreSuite(t *testing.T) {
	suite.Run(t, new(TenantStoreSuite))
}

func (s *TenantStoreSuite) newTenant(name string) *models.Tenant {
	t, err := models.NewTenant(id.TenantID(uuid.New()), name, false, s.now)
	s.Require().NoError(err)
	return t
}

func (s *TenantStoreSuite) createTenant(name string) *models.Tenant {
	t := s.newTenant(name)
	s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, t))
	return t
}

// TestCreationAndLookups verifies the store correctly creates and retrieves tenants.
func (s *TenantStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds tenant by ID", func() {
		tenant := s.createTenant("Test Tenant")

		found, err := s.store.FindByID(s.ctx, tenant.ID)
		s.Require().NoError(err)
		s.Equal(tenant.Name, found.Name)
		s.Equal(models.DomainStatusUnregistered, found.Domain.Status)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, id.TenantID(uuid.New()))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestNameUniqueness verifies case-insensitive name uniqueness enforcement.
func (s *TenantStoreSuite) TestNameUniqueness() {
	s.Run("enforces case-insensitive uniqueness", func() {
		s.createTenant("MyTenant")

		err := s.store.CreateIfNameAvailable(s.ctx, s.newTenant("MYTENANT"))
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("finds by name case-insensitively", func() {
		tenant := s.createTenant("CaseSensitive")

		found, err := s.store.FindByName(s.ctx, "casesensitive")
		s.Require().NoError(err)
		s.Equal(tenant.ID, found.ID)
	})
}

func (s *TenantStoreSuite) TestExecute() {
	s.Run("persists status changes", func() {
		tenant := s.createTenant("Suspend Me")

		updated, err := s.store.Execute(s.ctx, tenant.ID,
			func(t *models.Tenant) error { return t.CanSuspend() },
			func(t *models.Tenant) { t.ApplySuspension(s.now) },
		)
		s.Require().NoError(err)
		s.Equal(models.TenantStatusSuspended, updated.Status)

		found, err := s.store.FindByID(s.ctx, tenant.ID)
		s.Require().NoError(err)
		s.Equal(models.TenantStatusSuspended, found.Status)
		s.Equal(models.TenantStatusSuspended, found.Domain.TenantStatus)
	})

	s.Run("validation failure leaves tenant untouched", func() {
		tenant := s.createTenant("Not Suspended")
		sentinelErr := errors.New("nope")

		_, err := s.store.Execute(s.ctx, tenant.ID,
			func(*models.Tenant) error { return sentinelErr },
			func(t *models.Tenant) { t.Status = models.TenantStatusCancelled },
		)
		s.ErrorIs(err, sentinelErr)

		found, _ := s.store.FindByID(s.ctx, tenant.ID)
		s.Equal(models.TenantStatusPendingDomain, found.Status)
	})

	s.Run("returns ErrNotFound for non-existent tenant", func() {
		_, err := s.store.Execute(s.ctx, id.TenantID(uuid.New()),
			func(*models.Tenant) error { return nil },
			func(*models.Tenant) {},
		)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *TenantStoreSuite) TestClaimDomain() {
	s.Run("claims domain for unregistered tenant", func() {
		tenant := s.createTenant("claim-1")

		rec, err := s.store.ClaimDomain(s.ctx, tenant.ID, "shop.example.com", s.now)
		s.Require().NoError(err)
		s.Equal(models.DomainStatusPendingDNS, rec.Status)
		s.Equal("shop.example.com", rec.Domain)
		s.Require().NotNil(rec.RegisteredAt)

		owner, err := s.store.FindByDomain(s.ctx, "shop.example.com")
		s.Require().NoError(err)
		s.Equal(tenant.ID, owner.ID)
	})

	s.Run("same tenant same domain is idempotent", func() {
		tenant := s.createTenant("claim-2")
		_, err := s.store.ClaimDomain(s.ctx, tenant.ID, "idem.example.com", s.now)
		s.Require().NoError(err)

		rec, err := s.store.ClaimDomain(s.ctx, tenant.ID, "idem.example.com", s.now.Add(time.Hour))
		s.Require().NoError(err)
		s.Equal(models.DomainStatusPendingDNS, rec.Status)
		s.Equal(s.now, *rec.RegisteredAt)
	})

	s.Run("another tenant cannot claim a held domain", func() {
		a := s.createTenant("claim-3a")
		b := s.createTenant("claim-3b")
		_, err := s.store.ClaimDomain(s.ctx, a.ID, "taken.example.com", s.now)
		s.Require().NoError(err)

		_, err = s.store.ClaimDomain(s.ctx, b.ID, "taken.example.com", s.now)
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("tenant with a different domain is rejected", func() {
		tenant := s.createTenant("claim-4")
		_, err := s.store.ClaimDomain(s.ctx, tenant.ID, "first.example.com", s.now)
		s.Require().NoError(err)

		_, err = s.store.ClaimDomain(s.ctx, tenant.ID, "second.example.com", s.now)
		s.ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("unknown tenant", func() {
		_, err := s.store.ClaimDomain(s.ctx, id.TenantID(uuid.New()), "x.example.com", s.now)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *TenantStoreSuite) TestConcurrentClaims() {
	const goroutines = 50
	var wg sync.WaitGroup
	var wins, conflicts atomic.Int32

	tenants := make([]*models.Tenant, goroutines)
	for i := range tenants {
		tenants[i] = s.createTenant(uuid.NewString())
	}
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(t *models.Tenant) {
			defer wg.Done()
			_, err := s.store.ClaimDomain(s.ctx, t.ID, "race.example.com", s.now)
			if err == nil {
				wins.Add(1)
			} else if errors.Is(err, sentinel.ErrAlreadyUsed) {
				conflicts.Add(1)
			}
		}(tenants[i])
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())
}

func (s *TenantStoreSuite) TestActivate() {
	s.Run("activates once and promotes pending tenant", func() {
		tenant := s.createTenant("activate-1")
		_, err := s.store.ClaimDomain(s.ctx, tenant.ID, "a1.example.com", s.now)
		s.Require().NoError(err)

		ok, err := s.store.Activate(s.ctx, tenant.ID, "a1.example.com", s.now)
		s.Require().NoError(err)
		s.True(ok)

		ok, err = s.store.Activate(s.ctx, tenant.ID, "a1.example.com", s.now)
		s.Require().NoError(err)
		s.False(ok)

		found, _ := s.store.FindByID(s.ctx, tenant.ID)
		s.Equal(models.DomainStatusActive, found.Domain.Status)
		s.True(found.Domain.Verified)
		s.Require().NotNil(found.Domain.VerifiedAt)
		s.Equal(models.TenantStatusActive, found.Status)
	})

	s.Run("suspended tenant keeps its status", func() {
		tenant := s.createTenant("activate-2")
		_, err := s.store.ClaimDomain(s.ctx, tenant.ID, "a2.example.com", s.now)
		s.Require().NoError(err)
		_, err = s.store.Execute(s.ctx, tenant.ID,
			func(t *models.Tenant) error { return t.CanSuspend() },
			func(t *models.Tenant) { t.ApplySuspension(s.now) },
		)
		s.Require().NoError(err)

		ok, err := s.store.Activate(s.ctx, tenant.ID, "a2.example.com", s.now)
		s.Require().NoError(err)
		s.True(ok)

		found, _ := s.store.FindByID(s.ctx, tenant.ID)
		s.Equal(models.DomainStatusActive, found.Domain.Status)
		s.Equal(models.TenantStatusSuspended, found.Status)
	})

	s.Run("verified intermediate state can activate", func() {
		tenant := s.createTenant("activate-3")
		_, err := s.store.ClaimDomain(s.ctx, tenant.ID, "a3.example.com", s.now)
		s.Require().NoError(err)

		ok, err := s.store.MarkVerified(s.ctx, tenant.ID, "a3.example.com", s.now)
		s.Require().NoError(err)
		s.True(ok)
		ok, err = s.store.MarkVerified(s.ctx, tenant.ID, "a3.example.com", s.now)
		s.Require().NoError(err)
		s.False(ok)

		ok, err = s.store.Activate(s.ctx, tenant.ID, "a3.example.com", s.now)
		s.Require().NoError(err)
		s.True(ok)
	})
}

func (s *TenantStoreSuite) TestConcurrentActivate() {
	tenant := s.createTenant("activate-race")
	_, err := s.store.ClaimDomain(s.ctx, tenant.ID, "race-activate.example.com", s.now)
	s.Require().NoError(err)

	const goroutines = 50
	var wg sync.WaitGroup
	var wins atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.store.Activate(s.ctx, tenant.ID, "race-activate.example.com", s.now)
			if err == nil && ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(1), wins.Load())
}

func (s *TenantStoreSuite) TestRemoval() {
	s.Run("clears domain and frees it for others", func() {
		a := s.createTenant("remove-a")
		b := s.createTenant("remove-b")
		_, err := s.store.ClaimDomain(s.ctx, a.ID, "free.example.com", s.now)
		s.Require().NoError(err)

		domain, err := s.store.BeginRemoval(s.ctx, a.ID, s.now)
		s.Require().NoError(err)
		s.Equal("free.example.com", domain)

		ok, err := s.store.Activate(s.ctx, a.ID, "free.example.com", s.now)
		s.Require().NoError(err)
		s.False(ok, "removal must block activation")

		s.Require().NoError(s.store.ClearDomain(s.ctx, a.ID, domain, s.now))

		found, _ := s.store.FindByID(s.ctx, a.ID)
		s.Equal(models.DomainStatusUnregistered, found.Domain.Status)
		s.Empty(found.Domain.Domain)
		s.Nil(found.Domain.RegisteredAt)

		_, err = s.store.ClaimDomain(s.ctx, b.ID, "free.example.com", s.now)
		s.NoError(err)
	})

	s.Run("interrupted removal can be restarted", func() {
		tenant := s.createTenant("remove-again")
		_, err := s.store.ClaimDomain(s.ctx, tenant.ID, "again.example.com", s.now)
		s.Require().NoError(err)
		_, err = s.store.BeginRemoval(s.ctx, tenant.ID, s.now)
		s.Require().NoError(err)

		domain, err := s.store.BeginRemoval(s.ctx, tenant.ID, s.now)
		s.Require().NoError(err)
		s.Equal("again.example.com", domain)

		found, _ := s.store.FindByID(s.ctx, tenant.ID)
		s.Equal(models.DomainStatusRemovalInProgress, found.Domain.Status)
	})

	s.Run("no domain", func() {
		tenant := s.createTenant("remove-none")
		_, err := s.store.BeginRemoval(s.ctx, tenant.ID, s.now)
		s.ErrorIs(err, sentinel.ErrInvalidState)
	})
}

func (s *TenantStoreSuite) TestStalledAndCounts() {
	old := s.createTenant("count-old")
	fresh := s.createTenant("count-fresh")
	s.createTenant("count-none")

	_, err := s.store.ClaimDomain(s.ctx, old.ID, "old.example.com", s.now.Add(-8*24*time.Hour))
	s.Require().NoError(err)
	_, err = s.store.ClaimDomain(s.ctx, fresh.ID, "fresh.example.com", s.now)
	s.Require().NoError(err)

	ok, err := s.store.MarkStalled(s.ctx, old.ID, "old.example.com", s.now)
	s.Require().NoError(err)
	s.True(ok)
	ok, err = s.store.MarkStalled(s.ctx, old.ID, "old.example.com", s.now)
	s.Require().NoError(err)
	s.False(ok)

	found, _ := s.store.FindByID(s.ctx, old.ID)
	s.True(found.Domain.IsStalled())

	n, err := s.store.CountPendingSince(s.ctx, s.now.Add(-7*24*time.Hour))
	s.Require().NoError(err)
	s.Equal(1, n)

	counts, err := s.store.CountByStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, counts[models.DomainStatusPendingDNS])
	s.Equal(1, counts[models.DomainStatusUnregistered])

	ids, err := s.store.ListAdvanceable(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal([]id.TenantID{old.ID, fresh.ID}, ids)
}

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "domainflow/pkg/domain"
	dErrors "domainflow/pkg/domain-errors"
)

type TenantModelSuite struct {
	suite.Suite
	now time.Time
}

func TestTenantModelSuite(t *testing.T) {
	suite.Run(t, new(TenantModelSuite))
}

func (s *TenantModelSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *TenantModelSuite) TestNewTenant() {
	s.Run("starts pending_domain with no domain", func() {
		t, err := NewTenant(id.TenantID(uuid.New()), "  Acme  ", false, s.now)
		s.Require().NoError(err)
		s.Equal("Acme", t.Name)
		s.Equal(TenantStatusPendingDomain, t.Status)
		s.Equal(DomainStatusUnregistered, t.Domain.Status)
		s.False(t.Domain.HasDomain())
	})

	s.Run("trial tenants start in trial", func() {
		t, err := NewTenant(id.TenantID(uuid.New()), "Trial Co", true, s.now)
		s.Require().NoError(err)
		s.Equal(TenantStatusTrial, t.Status)
		s.Equal(TenantStatusTrial, t.Domain.TenantStatus)
	})

	s.Run("rejects empty and oversized names", func() {
		_, err := NewTenant(id.TenantID(uuid.New()), "   ", false, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

		_, err = NewTenant(id.TenantID(uuid.New()), strings.Repeat("x", 129), false, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *TenantModelSuite) TestSuspendReactivate() {
	s.Run("reactivation restores active when domain is live", func() {
		t, _ := NewTenant(id.TenantID(uuid.New()), "Live", false, s.now)
		t.Status = TenantStatusActive
		t.Domain.Status = DomainStatusActive

		s.Require().NoError(t.CanSuspend())
		t.ApplySuspension(s.now)
		s.Equal(TenantStatusSuspended, t.Status)
		s.Error(t.CanSuspend())

		s.Require().NoError(t.CanReactivate())
		t.ApplyReactivation(s.now)
		s.Equal(TenantStatusActive, t.Status)
	})

	s.Run("reactivation without a live domain returns to pending_domain", func() {
		t, _ := NewTenant(id.TenantID(uuid.New()), "Pending", false, s.now)
		t.ApplySuspension(s.now)
		t.ApplyReactivation(s.now)
		s.Equal(TenantStatusPendingDomain, t.Status)
	})

	s.Run("cancelled tenants cannot be suspended", func() {
		t, _ := NewTenant(id.TenantID(uuid.New()), "Gone", false, s.now)
		t.Status = TenantStatusCancelled
		s.True(dErrors.HasCode(t.CanSuspend(), dErrors.CodeInvariantViolation))
	})

	s.Run("only suspended tenants reactivate", func() {
		t, _ := NewTenant(id.TenantID(uuid.New()), "Fine", false, s.now)
		s.Error(t.CanReactivate())
	})
}

func (s *TenantModelSuite) TestDomainStatus() {
	s.True(DomainStatusPendingDNS.IsAdvanceable())
	s.True(DomainStatusVerified.IsAdvanceable())
	s.False(DomainStatusActive.IsAdvanceable())
	s.False(DomainStatusUnregistered.IsAdvanceable())
	s.False(DomainStatusRemovalInProgress.IsAdvanceable())
	s.False(DomainStatus("bogus").IsValid())

	stalled := s.now
	rec := DomainRecord{Domain: "shop.example.com", Status: DomainStatusPendingDNS, StalledAt: &stalled}
	s.True(rec.IsStalled())
	rec.Status = DomainStatusActive
	s.False(rec.IsStalled())
}

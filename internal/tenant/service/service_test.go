package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"domainflow/internal/tenant/models"
	"domainflow/internal/tenant/notifier"
	"domainflow/internal/tenant/provider"
	providermocks "domainflow/internal/tenant/provider/mocks"
	"domainflow/internal/tenant/service/mocks"
	id "domainflow/pkg/domain"
	dErrors "domainflow/pkg/domain-errors"
	"domainflow/pkg/platform/sentinel"
	"domainflow/pkg/requestcontext"
)

// ServiceSuite covers failure handling against mocked ports.
type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	ctx       context.Context
	now       time.Time
	store     *mocks.MockTenantStore
	cache     *mocks.MockDomainCache
	scheduler *mocks.MockVerificationScheduler
	trigger   *mocks.MockEmailDomainTrigger
	provider  *providermocks.MockProvider
	service   *Service
	tenant    *models.Tenant
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.store = mocks.NewMockTenantStore(s.ctrl)
	s.cache = mocks.NewMockDomainCache(s.ctrl)
	s.scheduler = mocks.NewMockVerificationScheduler(s.ctrl)
	s.trigger = mocks.NewMockEmailDomainTrigger(s.ctrl)
	s.provider = providermocks.NewMockProvider(s.ctrl)
	s.service = New(s.store, s.provider, Config{ProjectID: testProjectID, Targets: testTargets},
		WithCache(s.cache),
		WithScheduler(s.scheduler),
		WithEmailDomainTrigger(s.trigger),
	)

	t, err := models.NewTenant(id.TenantID(uuid.New()), "Mocked", false, s.now)
	s.Require().NoError(err)
	s.tenant = t
}

func (s *ServiceSuite) TearDownTest() {
	s.service.Wait()
	s.ctrl.Finish()
}

func (s *ServiceSuite) pendingTenant(domain string) *models.Tenant {
	t := *s.tenant
	registered := s.now.Add(-time.Hour)
	t.Domain.Domain = domain
	t.Domain.Status = models.DomainStatusPendingDNS
	t.Domain.RegisteredAt = &registered
	return &t
}

func (s *ServiceSuite) expectFreshRegistration(domain string) {
	s.store.EXPECT().FindByID(gomock.Any(), s.tenant.ID).Return(s.tenant, nil)
	s.store.EXPECT().FindByDomain(gomock.Any(), domain).Return(nil, sentinel.ErrNotFound)
}

func (s *ServiceSuite) TestRegisterDomainProviderFailures() {
	s.Run("outage persists nothing and is retryable", func() {
		s.expectFreshRegistration("shop.example.com")
		s.provider.EXPECT().AddDomain(gomock.Any(), "shop.example.com").
			Return(nil, provider.NewError(provider.ErrorProviderOutage, "vercel", "503", nil))

		_, err := s.service.RegisterDomain(s.ctx, s.tenant.ID, "shop.example.com")
		s.True(dErrors.HasCode(err, dErrors.CodeProviderError))
		s.True(dErrors.Retryable(err))
	})

	s.Run("timeout is a provider error", func() {
		svc := New(s.store, s.provider, Config{ProviderTimeout: 20 * time.Millisecond})
		s.expectFreshRegistration("shop.example.com")
		s.provider.EXPECT().AddDomain(gomock.Any(), "shop.example.com").
			DoAndReturn(func(ctx context.Context, _ string) (*provider.DomainState, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			})

		_, err := svc.RegisterDomain(s.ctx, s.tenant.ID, "shop.example.com")
		s.True(dErrors.HasCode(err, dErrors.CodeProviderError))
		s.ErrorIs(err, context.DeadlineExceeded)
	})

	s.Run("bad data from the provider is a validation error", func() {
		s.expectFreshRegistration("shop.example.com")
		s.provider.EXPECT().AddDomain(gomock.Any(), "shop.example.com").
			Return(nil, provider.NewError(provider.ErrorBadData, "vercel", "invalid domain", nil))

		_, err := s.service.RegisterDomain(s.ctx, s.tenant.ID, "shop.example.com")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unclassified provider rejection is a provider error", func() {
		s.expectFreshRegistration("shop.example.com")
		s.provider.EXPECT().AddDomain(gomock.Any(), "shop.example.com").
			Return(nil, provider.NewError(provider.ErrorInternal, "vercel", "Payment Required", nil))

		_, err := s.service.RegisterDomain(s.ctx, s.tenant.ID, "shop.example.com")
		s.True(dErrors.HasCode(err, dErrors.CodeProviderError))
		s.False(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("owned by another project is a conflict", func() {
		s.expectFreshRegistration("shop.example.com")
		s.provider.EXPECT().AddDomain(gomock.Any(), "shop.example.com").Return(nil, provider.ErrOwnedElsewhere)

		_, err := s.service.RegisterDomain(s.ctx, s.tenant.ID, "shop.example.com")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("already in project fetches current challenges", func() {
		challenge := models.Challenge{Type: "TXT", ChallengeDomain: "_vercel.shop.example.com", Token: "tok", Reason: "pending"}
		s.expectFreshRegistration("shop.example.com")
		s.provider.EXPECT().AddDomain(gomock.Any(), "shop.example.com").Return(nil, provider.ErrAlreadyExists)
		s.provider.EXPECT().GetDomainStatus(gomock.Any(), "shop.example.com").
			Return(&provider.DomainState{Challenges: []models.Challenge{challenge}}, nil)
		s.store.EXPECT().ClaimDomain(gomock.Any(), s.tenant.ID, "shop.example.com", s.now).
			Return(&models.DomainRecord{TenantID: s.tenant.ID, Domain: "shop.example.com", Status: models.DomainStatusPendingDNS}, nil)
		s.cache.EXPECT().PutInstructions(gomock.Any(), s.tenant.ID, "shop.example.com", gomock.Len(2)).Return(nil)
		s.scheduler.EXPECT().Schedule(gomock.Any(), s.tenant.ID).Return(nil)

		res, err := s.service.RegisterDomain(s.ctx, s.tenant.ID, "shop.example.com")
		s.Require().NoError(err)
		s.Equal("_vercel", res.Instructions[1].Name)
		s.Equal("tok", res.Instructions[1].Value)
	})
}

func (s *ServiceSuite) TestRegisterDomainStoreArbitration() {
	s.Run("unique violation at write time is a conflict", func() {
		s.expectFreshRegistration("shop.example.com")
		s.provider.EXPECT().AddDomain(gomock.Any(), "shop.example.com").Return(&provider.DomainState{}, nil)
		s.store.EXPECT().ClaimDomain(gomock.Any(), s.tenant.ID, "shop.example.com", s.now).Return(nil, sentinel.ErrAlreadyUsed)

		_, err := s.service.RegisterDomain(s.ctx, s.tenant.ID, "shop.example.com")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal("domain is already registered", err.Error())
	})

	s.Run("store failure is internal", func() {
		s.expectFreshRegistration("shop.example.com")
		s.provider.EXPECT().AddDomain(gomock.Any(), "shop.example.com").Return(&provider.DomainState{}, nil)
		s.store.EXPECT().ClaimDomain(gomock.Any(), s.tenant.ID, "shop.example.com", s.now).Return(nil, errors.New("connection reset"))

		_, err := s.service.RegisterDomain(s.ctx, s.tenant.ID, "shop.example.com")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("cache and scheduler failures do not fail registration", func() {
		s.expectFreshRegistration("shop.example.com")
		s.provider.EXPECT().AddDomain(gomock.Any(), "shop.example.com").Return(&provider.DomainState{}, nil)
		s.store.EXPECT().ClaimDomain(gomock.Any(), s.tenant.ID, "shop.example.com", s.now).
			Return(&models.DomainRecord{TenantID: s.tenant.ID, Domain: "shop.example.com", Status: models.DomainStatusPendingDNS}, nil)
		s.cache.EXPECT().PutInstructions(gomock.Any(), s.tenant.ID, "shop.example.com", gomock.Any()).Return(errors.New("redis down"))
		s.scheduler.EXPECT().Schedule(gomock.Any(), s.tenant.ID).Return(errors.New("redis down"))

		res, err := s.service.RegisterDomain(s.ctx, s.tenant.ID, "shop.example.com")
		s.Require().NoError(err)
		s.Equal(models.DomainStatusPendingDNS, res.Status)
	})

	s.Run("guard lookup failure is internal", func() {
		s.store.EXPECT().FindByID(gomock.Any(), s.tenant.ID).Return(s.tenant, nil)
		s.store.EXPECT().FindByDomain(gomock.Any(), "shop.example.com").Return(nil, errors.New("timeout"))

		_, err := s.service.RegisterDomain(s.ctx, s.tenant.ID, "shop.example.com")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestAdvanceVerificationStoreFailures() {
	s.Run("load failure is returned", func() {
		s.store.EXPECT().FindByID(gomock.Any(), s.tenant.ID).Return(nil, errors.New("connection refused"))

		_, err := s.service.AdvanceVerification(s.ctx, s.tenant.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("activate failure degrades to retry", func() {
		pending := s.pendingTenant("shop.example.com")
		s.store.EXPECT().FindByID(gomock.Any(), s.tenant.ID).Return(pending, nil)
		s.provider.EXPECT().GetDomainStatus(gomock.Any(), "shop.example.com").Return(&provider.DomainState{Verified: true}, nil)
		s.store.EXPECT().Activate(gomock.Any(), s.tenant.ID, "shop.example.com", s.now).Return(false, errors.New("deadlock"))

		res, err := s.service.AdvanceVerification(s.ctx, s.tenant.ID)
		s.Require().NoError(err)
		s.Equal(models.AdvanceResult{RetryIn: 5 * time.Minute}, res)
	})

	s.Run("lost conditional update is a no-op", func() {
		pending := s.pendingTenant("shop.example.com")
		s.store.EXPECT().FindByID(gomock.Any(), s.tenant.ID).Return(pending, nil)
		s.provider.EXPECT().GetDomainStatus(gomock.Any(), "shop.example.com").Return(&provider.DomainState{Verified: true}, nil)
		s.store.EXPECT().Activate(gomock.Any(), s.tenant.ID, "shop.example.com", s.now).Return(false, nil)

		res, err := s.service.AdvanceVerification(s.ctx, s.tenant.ID)
		s.Require().NoError(err)
		s.Equal(models.AdvanceResult{}, res)
	})

	s.Run("winner invalidates and notifies once", func() {
		pending := s.pendingTenant("shop.example.com")
		done := make(chan struct{})
		s.store.EXPECT().FindByID(gomock.Any(), s.tenant.ID).Return(pending, nil)
		s.provider.EXPECT().GetDomainStatus(gomock.Any(), "shop.example.com").Return(&provider.DomainState{Verified: true}, nil)
		s.store.EXPECT().Activate(gomock.Any(), s.tenant.ID, "shop.example.com", s.now).Return(true, nil)
		s.cache.EXPECT().Invalidate(gomock.Any(), s.tenant.ID, "shop.example.com").Return(errors.New("redis down"))
		s.trigger.EXPECT().RecheckSendingDomain(gomock.Any(), s.tenant.ID, "shop.example.com", notifier.ReasonActivated).
			DoAndReturn(func(ctx context.Context, _ id.TenantID, _ string, _ notifier.Reason) error {
				defer close(done)
				_, hasDeadline := ctx.Deadline()
				s.True(hasDeadline)
				return errors.New("broker unavailable")
			})

		res, err := s.service.AdvanceVerification(s.ctx, s.tenant.ID)
		s.Require().NoError(err)
		s.True(res.Activated)
		<-done
	})
}

func (s *ServiceSuite) TestRemoveDomainFailures() {
	s.Run("clear failure is internal and retryable by calling again", func() {
		s.store.EXPECT().BeginRemoval(gomock.Any(), s.tenant.ID, s.now).Return("shop.example.com", nil)
		s.provider.EXPECT().RemoveDomain(gomock.Any(), "shop.example.com").Return(nil)
		s.store.EXPECT().ClearDomain(gomock.Any(), s.tenant.ID, "shop.example.com", s.now).Return(errors.New("connection reset"))

		err := s.service.RemoveDomain(s.ctx, s.tenant.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("unknown tenant", func() {
		s.store.EXPECT().BeginRemoval(gomock.Any(), s.tenant.ID, s.now).Return("", sentinel.ErrNotFound)

		err := s.service.RemoveDomain(s.ctx, s.tenant.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Equal("tenant not found", err.Error())
	})
}

func (s *ServiceSuite) TestWebhookLookupFailure() {
	s.store.EXPECT().FindByDomain(gomock.Any(), "shop.example.com").Return(nil, errors.New("connection reset"))

	_, err := s.service.HandleWebhook(s.ctx, models.DomainEvent{
		EventType:         "domain.verified",
		Domain:            "shop.example.com",
		ProviderProjectID: testProjectID,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestHealthReportsProviderOutage() {
	health := providermocks.NewMockHealthChecker(s.ctrl)
	p := struct {
		*providermocks.MockProvider
		*providermocks.MockHealthChecker
	}{s.provider, health}
	svc := New(s.store, p, Config{})

	s.store.EXPECT().CountPendingSince(gomock.Any(), s.now.Add(-7*24*time.Hour)).Return(2, nil)
	health.EXPECT().Health(gomock.Any()).Return(provider.NewError(provider.ErrorAuthentication, "vercel", "401", nil))

	report, err := svc.Health(s.ctx)
	s.Require().NoError(err)
	s.False(report.Healthy)
	s.False(report.ProviderHealthy)
	s.Equal("authentication", report.ProviderError)
	s.Equal(2, report.StalePending)
}

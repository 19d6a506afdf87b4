package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	jwttoken "domainflow/internal/jwt_token"
	"domainflow/internal/platform/config"
	"domainflow/internal/platform/logger"
	"domainflow/internal/platform/metrics"
	"domainflow/internal/tenant"
	"domainflow/internal/tenant/provider"
	id "domainflow/pkg/domain"
	"domainflow/pkg/testutil"
)

type noopProvider struct{}

func (noopProvider) AddDomain(context.Context, string) (*provider.DomainState, error) {
	return &provider.DomainState{}, nil
}

func (noopProvider) RemoveDomain(context.Context, string) error { return nil }

func (noopProvider) GetDomainStatus(context.Context, string) (*provider.DomainState, error) {
	return &provider.DomainState{}, nil
}

type RouterSuite struct {
	suite.Suite
	jwt    *jwttoken.JWTService
	module *tenant.Module
	checks map[string]func(context.Context) error
	router http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.T().Setenv("ADMIN_API_TOKEN", "admin-secret")
	s.T().Setenv("APP_ENV", "test")
	cfg, err := config.FromEnv()
	s.Require().NoError(err)

	reg := prometheus.NewRegistry()
	log := logger.Discard()
	s.module, err = tenant.New(tenant.Deps{
		Config:   cfg,
		Logger:   log,
		Provider: noopProvider{},
		Registry: reg,
	})
	s.Require().NoError(err)
	s.T().Cleanup(s.module.Close)

	s.jwt = jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	s.checks = map[string]func(context.Context) error{
		"postgres": func(context.Context) error { return nil },
	}
	s.router = newRouter(routerDeps{
		logger:     log,
		module:     s.module,
		validator:  jwttoken.NewJWTServiceAdapter(s.jwt),
		adminToken: cfg.Auth.AdminToken,
		httpm:      metrics.New(reg),
		gatherer:   reg,
		checks:     s.checks,
	})
}

func (s *RouterSuite) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var payload any
	if body != "" {
		payload = body
	}
	return testutil.Do(s.T(), s.router, method, path, payload, headers)
}

func (s *RouterSuite) TestHealthz() {
	s.Run("all checks pass", func() {
		rec := s.do(http.MethodGet, "/healthz", "", nil)
		s.Equal(http.StatusOK, rec.Code)

		resp := testutil.DecodeJSON[healthResponse](s.T(), rec)
		s.Equal("ok", resp.Status)
		s.Equal("ok", resp.Checks["postgres"])
	})

	s.Run("failing dependency degrades", func() {
		s.checks["redis"] = func(context.Context) error { return errors.New("connection refused") }
		router := newRouter(routerDeps{
			logger: logger.Discard(),
			module: s.module,
			checks: s.checks,
		})
		rec := testutil.Do(s.T(), router, http.MethodGet, "/healthz", nil, nil)
		s.Equal(http.StatusServiceUnavailable, rec.Code)

		resp := testutil.DecodeJSON[healthResponse](s.T(), rec)
		s.Equal("degraded", resp.Status)
		s.Equal("connection refused", resp.Checks["redis"])
	})
}

func (s *RouterSuite) TestMetricsEndpoint() {
	s.do(http.MethodGet, "/healthz", "", nil)
	rec := s.do(http.MethodGet, "/metrics", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "domainflow_")
}

func (s *RouterSuite) TestTenantRoutesRequireToken() {
	s.Run("missing token", func() {
		rec := s.do(http.MethodGet, "/tenant/domain", "", nil)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("token for another signing key", func() {
		other := jwttoken.NewJWTService("other-key", "domainflow", "domainflow-tenants")
		token, err := other.GenerateTenantToken(id.TenantID{}, time.Minute)
		s.Require().NoError(err)
		rec := s.do(http.MethodGet, "/tenant/domain", "", map[string]string{"Authorization": "Bearer " + token})
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *RouterSuite) TestTenantFlowThroughRouter() {
	admin := map[string]string{"X-Admin-Token": "admin-secret", "Content-Type": "application/json"}

	s.Run("admin routes reject missing token", func() {
		rec := s.do(http.MethodPost, "/admin/tenants", `{"name":"acme"}`, nil)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	rec := s.do(http.MethodPost, "/admin/tenants", `{"name":"acme"}`, admin)
	s.Require().Equal(http.StatusCreated, rec.Code)
	created := testutil.DecodeJSON[struct {
		TenantID string `json:"tenant_id"`
	}](s.T(), rec)
	tenantID, err := id.ParseTenantID(created.TenantID)
	s.Require().NoError(err)

	token, err := s.jwt.GenerateTenantToken(tenantID, time.Minute)
	s.Require().NoError(err)
	bearer := map[string]string{"Authorization": "Bearer " + token, "Content-Type": "application/json"}

	rec = s.do(http.MethodPost, "/tenant/domain", `{"domain":"shop.acme.com"}`, bearer)
	s.Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/tenant/domain", "", bearer)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "pending_dns")
}

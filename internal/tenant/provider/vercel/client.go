// Package vercel implements the hosting provider port against the Vercel
// REST API.
package vercel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"domainflow/internal/tenant/provider"
	"domainflow/pkg/platform/circuit"
)

const (
	providerID     = "vercel"
	tracerName     = "domainflow/provider/vercel"
	maxBodyBytes   = 1 << 20
	defaultTimeout = 10 * time.Second
)

// Config configures the client.
type Config struct {
	BaseURL   string
	Token     string
	ProjectID string
	TeamID    string
	Timeout   time.Duration
}

// Client talks to the Vercel project domains API. Every call is bounded by the
// configured timeout and guarded by a circuit breaker.
type Client struct {
	cfg        Config
	httpClient *http.Client
	breaker    *circuit.Breaker
	logger     *slog.Logger
	tracer     trace.Tracer
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(cl *Client) { cl.breaker = b }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) { cl.logger = logger }
}

// New creates a client. BaseURL defaults to https://api.vercel.com.
func New(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.vercel.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		breaker:    circuit.New(providerID),
		logger:     slog.Default(),
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddDomain attaches domain to the project.
func (c *Client) AddDomain(ctx context.Context, domain string) (*provider.DomainState, error) {
	ctx, span := c.startSpan(ctx, "AddDomain", domain)
	defer span.End()

	var pd projectDomain
	err := c.do(ctx, http.MethodPost, c.projectPath("/v10/projects/%s/domains"), addDomainRequest{Name: domain}, &pd)
	if err == nil {
		return pd.state(), nil
	}

	var apiErr *apiError
	if errors.As(err, &apiErr) && apiErr.isConflict() {
		span.SetAttributes(attribute.String("vercel.error_code", apiErr.Code))
		if apiErr.Code == "domain_already_exists" || strings.Contains(strings.ToLower(apiErr.Message), "already exists") {
			return nil, provider.ErrAlreadyExists
		}
		// In use somewhere in the account: it is ours when this project has it,
		// someone else's only when the project answers 404.
		_, getErr := c.getProjectDomain(ctx, domain)
		switch {
		case getErr == nil:
			return nil, provider.ErrAlreadyExists
		case provider.GetCategory(getErr) == provider.ErrorNotFound:
			return nil, provider.ErrOwnedElsewhere
		default:
			return nil, c.fail(span, "check domain ownership", getErr)
		}
	}
	return nil, c.fail(span, "add domain", err)
}

// RemoveDomain detaches domain from the project. A domain that is already
// gone is not an error.
func (c *Client) RemoveDomain(ctx context.Context, domain string) error {
	ctx, span := c.startSpan(ctx, "RemoveDomain", domain)
	defer span.End()

	err := c.do(ctx, http.MethodDelete, c.projectPath("/v9/projects/%s/domains/")+url.PathEscape(domain), nil, nil)
	if err == nil {
		return nil
	}
	var apiErr *apiError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil
	}
	return c.fail(span, "remove domain", err)
}

// GetDomainStatus returns ownership verification, pending challenges and,
// for verified domains, the certificate state derived from the DNS config.
func (c *Client) GetDomainStatus(ctx context.Context, domain string) (*provider.DomainState, error) {
	ctx, span := c.startSpan(ctx, "GetDomainStatus", domain)
	defer span.End()

	pd, err := c.getProjectDomain(ctx, domain)
	if err != nil {
		return nil, c.fail(span, "get domain status", err)
	}
	state := pd.state()
	if !state.Verified {
		state.Certificate = provider.CertificatePending
		return state, nil
	}

	var cfg domainConfig
	if err := c.do(ctx, http.MethodGet, "/v6/domains/"+url.PathEscape(domain)+"/config", nil, &cfg); err != nil {
		return nil, c.fail(span, "get domain config", err)
	}
	if cfg.Misconfigured {
		state.Certificate = provider.CertificatePending
	} else {
		state.Certificate = provider.CertificateIssued
	}
	span.SetAttributes(
		attribute.Bool("vercel.verified", state.Verified),
		attribute.String("vercel.certificate", string(state.Certificate)),
	)
	return state, nil
}

// Health checks that the project is reachable with the configured token.
func (c *Client) Health(ctx context.Context) error {
	ctx, span := c.startSpan(ctx, "Health", "")
	defer span.End()

	if err := c.do(ctx, http.MethodGet, c.projectPath("/v9/projects/%s"), nil, nil); err != nil {
		return c.fail(span, "health", err)
	}
	return nil
}

func (c *Client) getProjectDomain(ctx context.Context, domain string) (*projectDomain, error) {
	var pd projectDomain
	if err := c.do(ctx, http.MethodGet, c.projectPath("/v9/projects/%s/domains/")+url.PathEscape(domain), nil, &pd); err != nil {
		return nil, err
	}
	return &pd, nil
}

func (c *Client) projectPath(format string) string {
	return fmt.Sprintf(format, url.PathEscape(c.cfg.ProjectID))
}

func (c *Client) startSpan(ctx context.Context, op, domain string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("provider.id", providerID)}
	if domain != "" {
		attrs = append(attrs, attribute.String("domain", domain))
	}
	return c.tracer.Start(ctx, "vercel."+op, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}

func (c *Client) fail(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, op)
	return err
}

// do performs one API call: breaker check, timeout, request, classification.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if !c.breaker.Allow() {
		return provider.NewError(provider.ErrorCircuitOpen, providerID, "circuit open", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	err := c.roundTrip(ctx, method, path, body, out)
	c.record(ctx, err)
	return err
}

func (c *Client) record(ctx context.Context, err error) {
	if err != nil && provider.IsRetryable(err) {
		if _, change := c.breaker.RecordFailure(); change.Opened {
			c.logger.WarnContext(ctx, "hosting provider circuit opened", "provider", providerID)
		}
		return
	}
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "hosting provider circuit closed", "provider", providerID)
	}
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return provider.NewError(provider.ErrorInternal, providerID, "encode request", err)
		}
		reader = bytes.NewReader(raw)
	}

	u := c.cfg.BaseURL + path
	if c.cfg.TeamID != "" {
		u += "?teamId=" + url.QueryEscape(c.cfg.TeamID)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return provider.NewError(provider.ErrorInternal, providerID, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return provider.NewError(provider.ErrorTimeout, providerID, method+" "+path+" timed out", err)
		}
		return provider.NewError(provider.ErrorProviderOutage, providerID, method+" "+path+" failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return provider.NewError(provider.ErrorTimeout, providerID, "read response timed out", err)
		}
		return provider.NewError(provider.ErrorProviderOutage, providerID, "read response", err)
	}

	if resp.StatusCode >= 300 {
		return classifyStatus(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return provider.NewError(provider.ErrorProviderOutage, providerID, "decode response", err)
	}
	return nil
}

package vercel

import (
	"encoding/json"
	"fmt"
	"net/http"

	"domainflow/internal/tenant/models"
	"domainflow/internal/tenant/provider"
)

type addDomainRequest struct {
	Name string `json:"name"`
}

type verificationEntry struct {
	Type   string `json:"type"`
	Domain string `json:"domain"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

type projectDomain struct {
	Name         string              `json:"name"`
	ApexName     string              `json:"apexName"`
	ProjectID    string              `json:"projectId"`
	Verified     bool                `json:"verified"`
	Verification []verificationEntry `json:"verification"`
}

func (p *projectDomain) state() *provider.DomainState {
	challenges := make([]models.Challenge, 0, len(p.Verification))
	for _, v := range p.Verification {
		challenges = append(challenges, models.Challenge{
			Type:            v.Type,
			ChallengeDomain: v.Domain,
			Token:           v.Value,
			Reason:          v.Reason,
		})
	}
	return &provider.DomainState{Verified: p.Verified, Challenges: challenges}
}

type domainConfig struct {
	Misconfigured bool `json:"misconfigured"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// apiError is a non-2xx response. It wraps the normalized provider error so
// callers can match on either.
type apiError struct {
	Status  int
	Code    string
	Message string
	wrapped *provider.Error
}

func (e *apiError) Error() string {
	return fmt.Sprintf("vercel api %d %s: %s", e.Status, e.Code, e.Message)
}

func (e *apiError) Unwrap() error { return e.wrapped }

func (e *apiError) isConflict() bool {
	if e.Status == http.StatusConflict {
		return true
	}
	switch e.Code {
	case "domain_already_exists", "domain_already_in_use", "domain_taken":
		return true
	}
	return false
}

func classifyStatus(status int, body []byte) error {
	var env errorEnvelope
	_ = json.Unmarshal(body, &env)

	category := provider.ErrorInternal
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		category = provider.ErrorAuthentication
	case status == http.StatusNotFound:
		category = provider.ErrorNotFound
	case status == http.StatusTooManyRequests:
		category = provider.ErrorRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		category = provider.ErrorTimeout
	case status >= 500:
		category = provider.ErrorProviderOutage
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		category = provider.ErrorBadData
	}

	msg := env.Error.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &apiError{
		Status:  status,
		Code:    env.Error.Code,
		Message: msg,
		wrapped: provider.NewError(category, providerID, msg, nil),
	}
}

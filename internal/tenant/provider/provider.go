// Package provider defines the hosting provider port used by the custom
// domain lifecycle.
package provider

import (
	"context"
	"errors"

	"domainflow/internal/tenant/models"
)

// CertificateStatus is the provider's TLS certificate state for a domain.
type CertificateStatus string

const (
	CertificateUnknown CertificateStatus = ""
	CertificatePending CertificateStatus = "pending"
	CertificateIssued  CertificateStatus = "issued"
	CertificateError   CertificateStatus = "error"
)

// DomainState is the provider's view of one domain.
type DomainState struct {
	Verified    bool
	Challenges  []models.Challenge
	Certificate CertificateStatus
}

// Ready reports whether the domain can serve traffic: ownership verified and
// the certificate issued (or not reported by the provider).
func (s *DomainState) Ready() bool {
	if s == nil || !s.Verified {
		return false
	}
	return s.Certificate == CertificateUnknown || s.Certificate == CertificateIssued
}

//go:generate mockgen -source=provider.go -destination=mocks/mocks.go -package=mocks

// Provider is the hosting provider port.
type Provider interface {
	AddDomain(ctx context.Context, domain string) (*DomainState, error)
	RemoveDomain(ctx context.Context, domain string) error
	GetDomainStatus(ctx context.Context, domain string) (*DomainState, error)
}

// HealthChecker is implemented by providers that can report reachability.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Signals returned by AddDomain. They are not failures: callers classify them.
var (
	// ErrAlreadyExists means the domain is already attached to this project.
	ErrAlreadyExists = errors.New("domain already exists in project")
	// ErrOwnedElsewhere means another project or account holds the domain.
	ErrOwnedElsewhere = errors.New("domain owned by another project")
)

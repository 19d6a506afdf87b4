package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "domainflow/pkg/domain-errors"
)

// TenantID identifies a tenant. It is a distinct type so a tenant identifier
// cannot be passed where another UUID is expected.
type TenantID uuid.UUID

// JobID identifies a scheduled verification job.
type JobID uuid.UUID

func (id TenantID) String() string { return uuid.UUID(id).String() }
func (id TenantID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id JobID) String() string { return uuid.UUID(id).String() }

// MarshalText encodes the canonical UUID string so IDs read naturally in
// JSON payloads and cache entries.
func (id TenantID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *TenantID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id JobID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *JobID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// ParseTenantID parses a tenant identifier at a trust boundary.
func ParseTenantID(s string) (TenantID, error) {
	u, err := parseUUID(s, "tenant ID")
	return TenantID(u), err
}

// ParseJobID parses a job identifier.
func ParseJobID(s string) (JobID, error) {
	u, err := parseUUID(s, "job ID")
	return JobID(u), err
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is required")
	}
	if len(s) > 64 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be nil")
	}
	return u, nil
}

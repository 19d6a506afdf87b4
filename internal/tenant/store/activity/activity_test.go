package activity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"domainflow/internal/tenant/models"
	id "domainflow/pkg/domain"
)

type MemoryLogSuite struct {
	suite.Suite
	log      *MemoryLog
	now      time.Time
	tenantID id.TenantID
}

func TestMemoryLogSuite(t *testing.T) {
	suite.Run(t, new(MemoryLogSuite))
}

func (s *MemoryLogSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.log = NewMemory(20, 24*time.Hour)
	s.log.now = func() time.Time { return s.now }
	s.tenantID = id.TenantID(uuid.New())
}

func (s *MemoryLogSuite) TestNewestFirstAndCapped() {
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		s.Require().NoError(s.log.Append(ctx, s.tenantID, models.Activity{
			Type:   models.ActivityRegistered,
			Domain: fmt.Sprintf("d%d.example.com", i),
		}))
	}

	items, err := s.log.List(ctx, s.tenantID)
	s.Require().NoError(err)
	s.Len(items, 20)
	s.Equal("d24.example.com", items[0].Domain)
	s.Equal("d5.example.com", items[19].Domain)
}

func (s *MemoryLogSuite) TestExpiresAfterTTL() {
	ctx := context.Background()
	s.Require().NoError(s.log.Append(ctx, s.tenantID, models.Activity{Type: models.ActivityActivated}))

	s.now = s.now.Add(25 * time.Hour)
	items, err := s.log.List(ctx, s.tenantID)
	s.Require().NoError(err)
	s.Empty(items)
}

func (s *MemoryLogSuite) TestUnknownTenant() {
	items, err := s.log.List(context.Background(), id.TenantID(uuid.New()))
	s.Require().NoError(err)
	s.NotNil(items)
	s.Empty(items)
}

func (s *MemoryLogSuite) TestKey() {
	s.Equal("tenant:domains:events:"+s.tenantID.String(), Key(s.tenantID))
}

//go:build integration

package scheduler_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"domainflow/internal/tenant/scheduler"
	id "domainflow/pkg/domain"
	"domainflow/pkg/testutil/containers"
)

type RedisQueueSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	queue *scheduler.RedisQueue
}

func TestRedisQueueSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisQueueSuite))
}

func (s *RedisQueueSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.queue = scheduler.NewRedisQueue(s.redis.Client)
}

func (s *RedisQueueSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisQueueSuite) TestClaimDueOnlyReturnsDueJobs() {
	ctx := context.Background()
	now := time.Now()
	due := id.TenantID(uuid.New())
	later := id.TenantID(uuid.New())

	s.Require().NoError(s.queue.Enqueue(ctx, scheduler.Job{ID: id.JobID(uuid.New()), TenantID: due, Attempt: 2, RunAt: now.Add(-time.Second)}))
	s.Require().NoError(s.queue.Enqueue(ctx, scheduler.Job{ID: id.JobID(uuid.New()), TenantID: later, RunAt: now.Add(time.Hour)}))

	jobs, err := s.queue.ClaimDue(ctx, now, 10)
	s.Require().NoError(err)
	s.Require().Len(jobs, 1)
	s.Equal(due, jobs[0].TenantID)
	s.Equal(2, jobs[0].Attempt)

	n, err := s.queue.Len(ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *RedisQueueSuite) TestEnqueueReplacesTenantJob() {
	ctx := context.Background()
	tenantID := id.TenantID(uuid.New())
	now := time.Now()

	s.Require().NoError(s.queue.Enqueue(ctx, scheduler.Job{TenantID: tenantID, Attempt: 0, RunAt: now.Add(-time.Minute)}))
	s.Require().NoError(s.queue.Enqueue(ctx, scheduler.Job{TenantID: tenantID, Attempt: 1, RunAt: now.Add(-time.Second)}))

	jobs, err := s.queue.ClaimDue(ctx, now, 10)
	s.Require().NoError(err)
	s.Require().Len(jobs, 1)
	s.Equal(1, jobs[0].Attempt)
}

// TestConcurrentClaimsHandOutEachJobOnce verifies replicas never share a job.
func (s *RedisQueueSuite) TestConcurrentClaimsHandOutEachJobOnce() {
	ctx := context.Background()
	const jobs = 100
	now := time.Now()
	for i := 0; i < jobs; i++ {
		s.Require().NoError(s.queue.Enqueue(ctx, scheduler.Job{TenantID: id.TenantID(uuid.New()), RunAt: now.Add(-time.Second)}))
	}

	var wg sync.WaitGroup
	var claimed atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				got, err := s.queue.ClaimDue(ctx, now, 7)
				if err != nil || len(got) == 0 {
					return
				}
				claimed.Add(int32(len(got)))
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(jobs), claimed.Load())
}

func (s *RedisQueueSuite) TestClaimDueRecoversUnreadablePayload() {
	ctx := context.Background()
	now := time.Now()
	tenantID := id.TenantID(uuid.New())

	s.Require().NoError(s.queue.Enqueue(ctx, scheduler.Job{TenantID: tenantID, Attempt: 3, RunAt: now.Add(-time.Second)}))
	s.Require().NoError(s.redis.Client.HSet(ctx, "domainflow:verify:jobs", tenantID.String(), "{not json").Err())

	jobs, err := s.queue.ClaimDue(ctx, now, 10)
	s.Require().NoError(err)
	s.Require().Len(jobs, 1)
	s.Equal(tenantID, jobs[0].TenantID)
	s.Zero(jobs[0].Attempt)

	n, err := s.queue.Len(ctx)
	s.Require().NoError(err)
	s.Zero(n)
}

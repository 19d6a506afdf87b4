package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	id "domainflow/pkg/domain"
)

const (
	dueKey  = "domainflow:verify:due"
	jobsKey = "domainflow:verify:jobs"
)

// claimScript pops due members from the schedule atomically, so concurrent
// workers never receive the same job. It returns member/payload pairs; the
// payload is empty when the hash entry is missing.
var claimScript = redis.NewScript(`
local ids = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, ARGV[2])
local out = {}
for _, member in ipairs(ids) do
	redis.call('ZREM', KEYS[1], member)
	local payload = redis.call('HGET', KEYS[2], member)
	redis.call('HDEL', KEYS[2], member)
	table.insert(out, member)
	table.insert(out, payload or '')
end
return out
`)

// RedisQueue shares the schedule across replicas: a sorted set of tenant IDs
// scored by run time, with job payloads in a hash.
type RedisQueue struct {
	client redis.Cmdable
	logger *slog.Logger
}

type RedisQueueOption func(*RedisQueue)

func WithQueueLogger(logger *slog.Logger) RedisQueueOption {
	return func(q *RedisQueue) { q.logger = logger }
}

func NewRedisQueue(client redis.Cmdable, opts ...RedisQueueOption) *RedisQueue {
	q := &RedisQueue{client: client, logger: slog.Default()}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode verification job: %w", err)
	}
	member := job.TenantID.String()
	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, jobsKey, member, raw)
		pipe.ZAdd(ctx, dueKey, redis.Z{Score: float64(job.RunAt.UnixMilli()), Member: member})
		return nil
	})
	if err != nil {
		return fmt.Errorf("enqueue verification job: %w", err)
	}
	return nil
}

func (q *RedisQueue) ClaimDue(ctx context.Context, now time.Time, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 100
	}
	res, err := claimScript.Run(ctx, q.client, []string{dueKey, jobsKey}, now.UnixMilli(), limit).StringSlice()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("claim verification jobs: %w", err)
	}
	jobs := make([]Job, 0, len(res)/2)
	for i := 0; i+1 < len(res); i += 2 {
		member, payload := res[i], res[i+1]
		var job Job
		if decodeErr := json.Unmarshal([]byte(payload), &job); decodeErr != nil {
			job, err = recoverJob(member, now)
			if err != nil {
				q.logger.ErrorContext(ctx, "dropping unreadable verification job",
					"member", member,
					"error", err,
				)
				continue
			}
			q.logger.WarnContext(ctx, "verification job payload unreadable, restarting check",
				"tenant_id", job.TenantID.String(),
				"error", decodeErr,
			)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// recoverJob rebuilds a claimed job whose payload could not be decoded. The
// member still names the tenant, so it gets a fresh check due now instead of
// losing its schedule.
func recoverJob(member string, now time.Time) (Job, error) {
	tenantID, err := id.ParseTenantID(member)
	if err != nil {
		return Job{}, fmt.Errorf("recover verification job %q: %w", member, err)
	}
	return Job{TenantID: tenantID, RunAt: now}, nil
}

func (q *RedisQueue) Len(ctx context.Context) (int, error) {
	n, err := q.client.ZCard(ctx, dueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count verification jobs: %w", err)
	}
	return int(n), nil
}

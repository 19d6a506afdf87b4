// Package scheduler runs delayed domain verification checks and applies the
// retry backoff returned by the verification state machine.
package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	id "domainflow/pkg/domain"
)

// Job is one pending verification check. Attempt counts retries already
// scheduled; Delay is the delay that produced RunAt.
type Job struct {
	ID       id.JobID      `json:"id"`
	TenantID id.TenantID   `json:"tenant_id"`
	Attempt  int           `json:"attempt"`
	Delay    time.Duration `json:"delay"`
	RunAt    time.Time     `json:"run_at"`
}

// Queue holds at most one job per tenant; enqueueing again replaces it.
// ClaimDue removes and returns jobs whose RunAt is not after now, so each
// job is handed to exactly one worker.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]Job, error)
	Len(ctx context.Context) (int, error)
}

// MemoryQueue is the single-process queue.
type MemoryQueue struct {
	mu   sync.Mutex
	jobs map[id.TenantID]Job
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{jobs: make(map[id.TenantID]Job)}
}

func (q *MemoryQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs[job.TenantID] = job
	return nil
}

func (q *MemoryQueue) ClaimDue(_ context.Context, now time.Time, limit int) ([]Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	due := make([]Job, 0)
	for _, job := range q.jobs {
		if !job.RunAt.After(now) {
			due = append(due, job)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].RunAt.Before(due[j].RunAt) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	for _, job := range due {
		delete(q.jobs, job.TenantID)
	}
	return due, nil
}

func (q *MemoryQueue) Len(_ context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs), nil
}

package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"domainflow/internal/tenant/models"
	id "domainflow/pkg/domain"
	"domainflow/pkg/requestcontext"
)

// Advancer is the verification state machine the worker drives.
type Advancer interface {
	AdvanceVerification(ctx context.Context, tenantID id.TenantID) (models.AdvanceResult, error)
	MarkVerificationStalled(ctx context.Context, tenantID id.TenantID) error
}

// Metrics observes scheduler outcomes. Optional.
type Metrics interface {
	IncrementVerificationRetry()
	IncrementVerificationStalled()
}

// Worker polls the queue and re-enqueues jobs with doubling delays. The
// backoff lives here; Advancer only reports how long to wait.
type Worker struct {
	queue        Queue
	advancer     Advancer
	logger       *slog.Logger
	metrics      Metrics
	pollInterval time.Duration
	concurrency  int
	initialDelay time.Duration
	maxDelay     time.Duration
	maxAttempts  int
	now          func() time.Time
}

type Option func(*Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) { w.logger = logger }
}

func WithMetrics(m Metrics) Option {
	return func(w *Worker) { w.metrics = m }
}

func WithPollInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

func WithConcurrency(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// WithBackoff sets the first check delay, the delay cap and how many
// retries run before a record is marked stalled.
func WithBackoff(initial, maxDelay time.Duration, maxAttempts int) Option {
	return func(w *Worker) {
		if initial > 0 {
			w.initialDelay = initial
		}
		if maxDelay > 0 {
			w.maxDelay = maxDelay
		}
		if maxAttempts >= 0 {
			w.maxAttempts = maxAttempts
		}
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(w *Worker) { w.now = now }
}

func NewWorker(queue Queue, advancer Advancer, opts ...Option) *Worker {
	w := &Worker{
		queue:        queue,
		advancer:     advancer,
		logger:       slog.Default(),
		pollInterval: 5 * time.Second,
		concurrency:  4,
		initialDelay: 5 * time.Minute,
		maxDelay:     time.Hour,
		maxAttempts:  3,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetAdvancer binds the state machine after construction; the service and
// the worker depend on each other.
func (w *Worker) SetAdvancer(a Advancer) {
	w.advancer = a
}

// Schedule enqueues the first verification check for a tenant, replacing any
// pending one.
func (w *Worker) Schedule(ctx context.Context, tenantID id.TenantID) error {
	return w.enqueue(ctx, tenantID, 0, w.initialDelay)
}

func (w *Worker) enqueue(ctx context.Context, tenantID id.TenantID, attempt int, delay time.Duration) error {
	return w.queue.Enqueue(ctx, Job{
		ID:       id.JobID(uuid.New()),
		TenantID: tenantID,
		Attempt:  attempt,
		Delay:    delay,
		RunAt:    w.now().Add(delay),
	})
}

// Run polls until ctx is cancelled. A cancelled context is a clean stop.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "verification worker started",
		"poll_interval", w.pollInterval.String(),
		"concurrency", w.concurrency,
	)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(context.WithoutCancel(ctx), "verification worker stopping")
			return nil
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.ErrorContext(ctx, "verification poll failed", "error", err)
			}
		}
	}
}

// RunOnce claims every due job and processes them with bounded concurrency.
// It returns the number of jobs processed.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	jobs, err := w.queue.ClaimDue(ctx, w.now(), w.concurrency*8)
	if err != nil {
		return 0, err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, job := range jobs {
		g.Go(func() error {
			w.process(gctx, job)
			return nil
		})
	}
	return len(jobs), g.Wait()
}

func (w *Worker) process(ctx context.Context, job Job) {
	ctx = requestcontext.WithTime(ctx, w.now())
	logger := w.logger.With("tenant_id", job.TenantID.String(), "job_id", job.ID.String(), "attempt", job.Attempt)

	result, err := w.advancer.AdvanceVerification(ctx, job.TenantID)
	if err != nil {
		logger.WarnContext(ctx, "verification check failed", "error", err)
		result = models.AdvanceResult{RetryIn: w.initialDelay}
	}
	if result.Activated || result.RetryIn <= 0 {
		return
	}

	if job.Attempt >= w.maxAttempts {
		if err := w.advancer.MarkVerificationStalled(ctx, job.TenantID); err != nil {
			logger.ErrorContext(ctx, "failed to mark verification stalled", "error", err)
		}
		if w.metrics != nil {
			w.metrics.IncrementVerificationStalled()
		}
		logger.InfoContext(ctx, "verification retries exhausted")
		return
	}

	delay := w.backoff(result.RetryIn, job.Attempt)
	if err := w.enqueue(ctx, job.TenantID, job.Attempt+1, delay); err != nil {
		logger.ErrorContext(ctx, "failed to reschedule verification", "error", err)
		return
	}
	if w.metrics != nil {
		w.metrics.IncrementVerificationRetry()
	}
	logger.DebugContext(ctx, "verification rescheduled", "delay", delay.String())
}

// backoff doubles retryIn once per retry already made, capped at maxDelay.
func (w *Worker) backoff(retryIn time.Duration, attempt int) time.Duration {
	delay := retryIn
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= w.maxDelay {
			return w.maxDelay
		}
	}
	if delay > w.maxDelay {
		return w.maxDelay
	}
	return delay
}

package cronjob

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	outcomeOK      = "ok"
	outcomeError   = "error"
	outcomePanic   = "panic"
	outcomeSkipped = "skipped"
)

type registration struct {
	job      Job
	schedule Schedule
}

// Runner drives one scheduling loop per registered job.
type Runner struct {
	elector Elector
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
	jobs    []registration
}

type Option func(*Runner)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

func NewRunner(elector Elector, opts ...Option) *Runner {
	r := &Runner{
		elector: elector,
		logger:  slog.Default(),
		tracer:  otel.Tracer("isdialogmote/cronjob"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

const minInterval = time.Second

// Register adds a job. Call before Start.
func (r *Runner) Register(job Job, schedule Schedule) {
	if schedule.Interval < minInterval {
		schedule.Interval = minInterval
	}
	r.jobs = append(r.jobs, registration{job: job, schedule: schedule})
}

// Start runs every job loop until ctx is cancelled and the in-flight runs
// have returned.
func (r *Runner) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, reg := range r.jobs {
		g.Go(func() error {
			r.loop(ctx, reg)
			return nil
		})
	}
	return g.Wait()
}

func (r *Runner) loop(ctx context.Context, reg registration) {
	r.logger.InfoContext(ctx, "cronjob scheduled",
		"job", reg.job.Name(),
		"initial_delay", reg.schedule.InitialDelay,
		"interval", reg.schedule.Interval,
	)
	if !sleep(ctx, reg.schedule.InitialDelay) {
		return
	}
	for {
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _, _ = r.RunOnce(ctx, reg.job)
		}()
		stopped := !sleep(ctx, reg.schedule.Interval)
		// the next run never starts before the previous one has returned
		<-done
		if stopped || ctx.Err() != nil {
			return
		}
	}
}

// RunOnce performs a single tick: it asks the elector and, when this replica
// leads, runs the job. A panic in the job is recovered and returned as an
// error.
func (r *Runner) RunOnce(ctx context.Context, job Job) (res Result, ran bool, err error) {
	name := job.Name()
	leader, err := r.elector.IsLeader(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "leader election check failed, skipping run",
			"job", name,
			"error", err,
		)
		r.metrics.observeRun(name, outcomeSkipped, Result{}, 0)
		return Result{}, false, nil
	}
	if !leader {
		r.logger.DebugContext(ctx, "not leader, skipping run", "job", name)
		r.metrics.observeRun(name, outcomeSkipped, Result{}, 0)
		return Result{}, false, nil
	}

	ctx, span := r.tracer.Start(ctx, "cronjob.run", trace.WithAttributes(attribute.String("job", name)))
	defer span.End()
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("cronjob %s panicked: %v", name, p)
			span.SetStatus(codes.Error, err.Error())
			r.metrics.observeRun(name, outcomePanic, res, time.Since(start))
			r.logger.ErrorContext(ctx, "cronjob panicked", "job", name, "panic", p)
		}
	}()

	res, err = job.Run(ctx)
	span.SetAttributes(
		attribute.Int("updated", res.Updated),
		attribute.Int("failed", res.Failed),
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		r.metrics.observeRun(name, outcomeError, res, time.Since(start))
		r.logger.ErrorContext(ctx, "cronjob run failed",
			"job", name,
			"updated", res.Updated,
			"failed", res.Failed,
			"error", err,
		)
		return res, true, err
	}

	r.metrics.observeRun(name, outcomeOK, res, time.Since(start))
	r.logger.InfoContext(ctx, "cronjob run completed",
		"job", name,
		"updated", res.Updated,
		"failed", res.Failed,
		"duration", time.Since(start),
	)
	return res, true, nil
}

// sleep waits for d or until ctx ends. It reports whether the full duration
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

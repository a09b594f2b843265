// Package cronjob runs recurring background jobs on every replica while only
// the elected leader executes their bodies.
package cronjob

import (
	"context"
	"time"
)

// Result is what one run achieved. Updated counts items brought forward,
// Failed counts items left for a later run.
type Result struct {
	Updated int
	Failed  int
}

// Add accumulates another result.
func (r *Result) Add(other Result) {
	r.Updated += other.Updated
	r.Failed += other.Failed
}

// Job is one recurring unit of work. Run must be safe to call again after a
// partial failure.
type Job interface {
	Name() string
	Run(ctx context.Context) (Result, error)
}

// Schedule controls when a job runs: once after InitialDelay, then every
// Interval, never overlapping itself.
type Schedule struct {
	InitialDelay time.Duration
	Interval     time.Duration
}

// Elector tells whether this replica currently holds leadership.
type Elector interface {
	IsLeader(ctx context.Context) (bool, error)
}

// JobFunc adapts a function to Job.
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) (Result, error)
}

func (f JobFunc) Name() string { return f.JobName }

func (f JobFunc) Run(ctx context.Context) (Result, error) { return f.Fn(ctx) }

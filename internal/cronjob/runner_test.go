package cronjob

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeElector struct {
	leader atomic.Bool
	err    error
}

func (f *fakeElector) IsLeader(context.Context) (bool, error) {
	return f.leader.Load(), f.err
}

func leaderElector() *fakeElector {
	e := &fakeElector{}
	e.leader.Store(true)
	return e
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnce(t *testing.T) {
	t.Run("runs the job when leader", func(t *testing.T) {
		metrics := NewMetrics(prometheus.NewRegistry())
		r := NewRunner(leaderElector(), WithLogger(quietLogger()), WithMetrics(metrics))
		job := JobFunc{JobName: "publish", Fn: func(context.Context) (Result, error) {
			return Result{Updated: 3, Failed: 1}, nil
		}}

		res, ran, err := r.RunOnce(context.Background(), job)
		require.NoError(t, err)
		assert.True(t, ran)
		assert.Equal(t, Result{Updated: 3, Failed: 1}, res)
		assert.Equal(t, 1.0, promtestutil.ToFloat64(metrics.Runs.WithLabelValues("publish", outcomeOK)))
		assert.Equal(t, 3.0, promtestutil.ToFloat64(metrics.ItemsUpdated.WithLabelValues("publish")))
		assert.Equal(t, 1.0, promtestutil.ToFloat64(metrics.ItemsFailed.WithLabelValues("publish")))
	})

	t.Run("skips the job on a follower", func(t *testing.T) {
		r := NewRunner(&fakeElector{}, WithLogger(quietLogger()))
		called := false
		job := JobFunc{JobName: "publish", Fn: func(context.Context) (Result, error) {
			called = true
			return Result{}, nil
		}}

		_, ran, err := r.RunOnce(context.Background(), job)
		require.NoError(t, err)
		assert.False(t, ran)
		assert.False(t, called)
	})

	t.Run("treats an elector failure as not leader", func(t *testing.T) {
		e := leaderElector()
		e.err = errors.New("sidecar down")
		r := NewRunner(e, WithLogger(quietLogger()))
		called := false
		job := JobFunc{JobName: "publish", Fn: func(context.Context) (Result, error) {
			called = true
			return Result{}, nil
		}}

		_, ran, err := r.RunOnce(context.Background(), job)
		require.NoError(t, err)
		assert.False(t, ran)
		assert.False(t, called)
	})

	t.Run("recovers a panicking job", func(t *testing.T) {
		metrics := NewMetrics(prometheus.NewRegistry())
		r := NewRunner(leaderElector(), WithLogger(quietLogger()), WithMetrics(metrics))
		job := JobFunc{JobName: "boom", Fn: func(context.Context) (Result, error) {
			panic("nil map")
		}}

		_, ran, err := r.RunOnce(context.Background(), job)
		require.Error(t, err)
		assert.True(t, ran)
		assert.Contains(t, err.Error(), "boom")
		assert.Equal(t, 1.0, promtestutil.ToFloat64(metrics.Runs.WithLabelValues("boom", outcomePanic)))
	})

	t.Run("returns the job error with its partial result", func(t *testing.T) {
		r := NewRunner(leaderElector(), WithLogger(quietLogger()))
		job := JobFunc{JobName: "publish", Fn: func(context.Context) (Result, error) {
			return Result{Updated: 1}, errors.New("store down")
		}}

		res, ran, err := r.RunOnce(context.Background(), job)
		require.Error(t, err)
		assert.True(t, ran)
		assert.Equal(t, 1, res.Updated)
	})
}

func TestStartKeepsRunningAfterFailures(t *testing.T) {
	r := NewRunner(leaderElector(), WithLogger(quietLogger()))
	var runs atomic.Int32
	r.Register(JobFunc{JobName: "flaky", Fn: func(context.Context) (Result, error) {
		if runs.Add(1)%2 == 0 {
			panic("every other run")
		}
		return Result{}, errors.New("always failing")
	}}, Schedule{Interval: time.Second})
	// shorten the interval below the registration floor for the test
	r.jobs[0].schedule.Interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() >= 4 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestStartNeverOverlapsRuns(t *testing.T) {
	r := NewRunner(leaderElector(), WithLogger(quietLogger()))
	var (
		active, maxActive, runs atomic.Int32
	)
	r.Register(JobFunc{JobName: "slow", Fn: func(context.Context) (Result, error) {
		n := active.Add(1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		active.Add(-1)
		runs.Add(1)
		return Result{}, nil
	}}, Schedule{})
	r.jobs[0].schedule.Interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = r.Start(ctx)
	}()

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	wg.Wait()
	assert.Equal(t, int32(1), maxActive.Load())
	assert.Equal(t, int32(0), active.Load())
}

func TestStartHonoursInitialDelay(t *testing.T) {
	r := NewRunner(leaderElector(), WithLogger(quietLogger()))
	var runs atomic.Int32
	r.Register(JobFunc{JobName: "delayed", Fn: func(context.Context) (Result, error) {
		runs.Add(1)
		return Result{}, nil
	}}, Schedule{InitialDelay: time.Hour, Interval: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, r.Start(ctx))
	assert.Equal(t, int32(0), runs.Load())
}

func TestLeadershipMovesBetweenTicks(t *testing.T) {
	e := &fakeElector{}
	r := NewRunner(e, WithLogger(quietLogger()))
	var runs atomic.Int32
	job := JobFunc{JobName: "publish", Fn: func(context.Context) (Result, error) {
		runs.Add(1)
		return Result{}, nil
	}}

	_, ran, _ := r.RunOnce(context.Background(), job)
	assert.False(t, ran)
	e.leader.Store(true)
	_, ran, _ = r.RunOnce(context.Background(), job)
	assert.True(t, ran)
	assert.Equal(t, int32(1), runs.Load())
}

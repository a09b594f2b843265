package circuit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct {
	ok       bool
	wantUse  bool // fallback for failures, primary for successes
	opened   bool
	closed   bool
	wantOpen bool
}

func TestBreakerSequences(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		steps []step
	}{
		{
			name: "defaults open on the fifth failure",
			steps: []step{
				{ok: false}, {ok: false}, {ok: false}, {ok: false},
				{ok: false, wantUse: true, opened: true, wantOpen: true},
			},
		},
		{
			name: "a success between failures resets the count",
			opts: []Option{WithFailureThreshold(2)},
			steps: []step{
				{ok: false},
				{ok: true, wantUse: true},
				{ok: false},
				{ok: false, wantUse: true, opened: true, wantOpen: true},
			},
		},
		{
			name: "closes after consecutive successes while open",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			steps: []step{
				{ok: false, wantUse: true, opened: true, wantOpen: true},
				{ok: true, wantOpen: true},
				{ok: true, wantUse: true, closed: true},
			},
		},
		{
			name: "a failure while open restarts recovery",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			steps: []step{
				{ok: false, wantUse: true, opened: true, wantOpen: true},
				{ok: true, wantOpen: true},
				{ok: false, wantUse: true, wantOpen: true},
				{ok: true, wantOpen: true},
				{ok: true, wantUse: true, closed: true},
			},
		},
		{
			name: "non-positive thresholds keep defaults",
			opts: []Option{WithFailureThreshold(0), WithSuccessThreshold(-1)},
			steps: []step{
				{ok: false}, {ok: false}, {ok: false}, {ok: false},
				{ok: false, wantUse: true, opened: true, wantOpen: true},
				{ok: true, wantOpen: true},
				{ok: true, wantUse: true, closed: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("name-cache", tt.opts...)
			for i, s := range tt.steps {
				var use bool
				var change StateChange
				if s.ok {
					use, change = b.RecordSuccess()
				} else {
					use, change = b.RecordFailure()
				}
				require.Equalf(t, s.wantUse, use, "step %d", i)
				require.Equalf(t, s.opened, change.Opened, "step %d opened", i)
				require.Equalf(t, s.closed, change.Closed, "step %d closed", i)
				require.Equalf(t, s.wantOpen, b.IsOpen(), "step %d state", i)
			}
		})
	}
}

func TestBreakerReset(t *testing.T) {
	b := New("name-cache", WithFailureThreshold(1))
	b.RecordFailure()
	require.Equal(t, StateOpen, b.State())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "name-cache", b.Name())

	// counters are cleared too
	use, _ := b.RecordSuccess()
	assert.True(t, use)
}

func TestBreakerConcurrentFailuresOpenOnce(t *testing.T) {
	b := New("name-cache", WithFailureThreshold(10))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		opened int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, change := b.RecordFailure(); change.Opened {
				mu.Lock()
				opened++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, opened)
	assert.True(t, b.IsOpen())
}

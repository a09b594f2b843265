//go:build integration

package leaderelection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"isdialogmote/pkg/testutil/containers"
)

func TestRedisLeaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	rc := containers.GetManager().GetRedis(t)
	require.NoError(t, rc.FlushAll(ctx))

	a := NewRedisLease(rc.Cmdable(), "isdialogmote:leader", "pod-a", time.Second)
	b := NewRedisLease(rc.Cmdable(), "isdialogmote:leader", "pod-b", time.Second)

	leader, err := a.IsLeader(ctx)
	require.NoError(t, err)
	require.True(t, leader)

	leader, err = b.IsLeader(ctx)
	require.NoError(t, err)
	require.False(t, leader)

	// renewal keeps a as leader
	leader, err = a.IsLeader(ctx)
	require.NoError(t, err)
	require.True(t, leader)

	require.NoError(t, a.Release(ctx))
	t.Cleanup(func() { _ = b.Release(ctx) })
	leader, err = b.IsLeader(ctx)
	require.NoError(t, err)
	require.True(t, leader)
}

func TestRedisLeaseSurvivesIdleGapsIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	rc := containers.GetManager().GetRedis(t)
	require.NoError(t, rc.FlushAll(ctx))

	const key = "isdialogmote:leader:gap"
	ttl := 600 * time.Millisecond
	a := NewRedisLease(rc.Cmdable(), key, "pod-a", ttl)
	b := NewRedisLease(rc.Cmdable(), key, "pod-b", ttl)
	t.Cleanup(func() {
		_ = a.Release(ctx)
		_ = b.Release(ctx)
	})

	leader, err := a.IsLeader(ctx)
	require.NoError(t, err)
	require.True(t, leader)

	// No IsLeader calls for several TTLs, like the pause between two ticks.
	time.Sleep(4 * ttl)

	owner, err := rc.Get(ctx, key).Result()
	require.NoError(t, err)
	require.Equal(t, "pod-a", owner)

	leader, err = b.IsLeader(ctx)
	require.NoError(t, err)
	require.False(t, leader, "the other replica must not take over a held lease")

	leader, err = a.IsLeader(ctx)
	require.NoError(t, err)
	require.True(t, leader)

	t.Run("a lost lease stops renewing", func(t *testing.T) {
		require.NoError(t, rc.Set(ctx, key, "pod-b", ttl).Err())

		leader, err := a.IsLeader(ctx)
		require.NoError(t, err)
		require.False(t, leader)

		time.Sleep(2 * ttl)
		// b never renewed, so the key expired instead of being kept by a
		n, err := rc.Exists(ctx, key).Result()
		require.NoError(t, err)
		require.Zero(t, n)
	})
}

func TestAdvisoryLockIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	pg := containers.GetManager().GetPostgres(t)

	a := NewAdvisoryLock(pg.DSN, 4242)
	b := NewAdvisoryLock(pg.DSN, 4242)
	t.Cleanup(func() {
		_ = a.Close(ctx)
		_ = b.Close(ctx)
	})

	leader, err := a.IsLeader(ctx)
	require.NoError(t, err)
	require.True(t, leader)

	leader, err = b.IsLeader(ctx)
	require.NoError(t, err)
	require.False(t, leader)

	require.NoError(t, a.Close(ctx))
	require.Eventually(t, func() bool {
		leader, err := b.IsLeader(ctx)
		return err == nil && leader
	}, 5*time.Second, 100*time.Millisecond)
}

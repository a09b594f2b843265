package leaderelection

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
)

// AdvisoryLock elects the replica holding a session-level PostgreSQL
// advisory lock. The lock lives as long as the dedicated connection, so a
// dead leader releases it when its session ends.
type AdvisoryLock struct {
	dsn string
	key int64

	mu   sync.Mutex
	conn *pgx.Conn
	held bool
}

func NewAdvisoryLock(dsn string, key int64) *AdvisoryLock {
	return &AdvisoryLock{dsn: dsn, key: key}
}

func (a *AdvisoryLock) IsLeader(ctx context.Context) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn == nil {
		conn, err := pgx.Connect(ctx, a.dsn)
		if err != nil {
			return false, fmt.Errorf("connect for advisory lock: %w", err)
		}
		a.conn = conn
		a.held = false
	}

	if a.held {
		if err := a.conn.Ping(ctx); err != nil {
			a.dropLocked(ctx)
			return false, fmt.Errorf("advisory lock session lost: %w", err)
		}
		return true, nil
	}

	var acquired bool
	if err := a.conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, a.key).Scan(&acquired); err != nil {
		a.dropLocked(ctx)
		return false, fmt.Errorf("try advisory lock: %w", err)
	}
	a.held = acquired
	return acquired, nil
}

// Close ends the session and with it the lock.
func (a *AdvisoryLock) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn == nil {
		return nil
	}
	err := a.conn.Close(ctx)
	a.conn = nil
	a.held = false
	return err
}

func (a *AdvisoryLock) dropLocked(ctx context.Context) {
	_ = a.conn.Close(ctx)
	a.conn = nil
	a.held = false
}

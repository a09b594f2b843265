package leaderelection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// renewScript extends the lease only when this replica still owns it.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLease holds leadership as a Redis key with a TTL. Once acquired, a
// background loop renews the key every TTL/3 until it is lost or released,
// so leadership survives gaps between ticks and long runs. A crashed leader
// loses the lease when the TTL runs out.
type RedisLease struct {
	client redis.Cmdable
	key    string
	id     string
	ttl    time.Duration

	mu   sync.Mutex
	stop context.CancelFunc
	done chan struct{}
}

func NewRedisLease(client redis.Cmdable, key, id string, ttl time.Duration) *RedisLease {
	return &RedisLease{client: client, key: key, id: id, ttl: ttl}
}

func (l *RedisLease) IsLeader(ctx context.Context) (bool, error) {
	acquired, err := l.client.SetNX(ctx, l.key, l.id, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lease: %w", err)
	}
	if !acquired {
		if acquired, err = l.renew(ctx); err != nil {
			return false, err
		}
	}
	if acquired {
		l.keepAlive()
	}
	return acquired, nil
}

// Release stops renewing and gives the lease up so another replica can take
// over at once.
func (l *RedisLease) Release(ctx context.Context) error {
	l.stopKeepAlive()
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.id).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release lease: %w", err)
	}
	return nil
}

func (l *RedisLease) renew(ctx context.Context) (bool, error) {
	renewed, err := renewScript.Run(ctx, l.client, []string{l.key}, l.id, l.ttl.Milliseconds()).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("renew lease: %w", err)
	}
	return renewed == 1, nil
}

func (l *RedisLease) keepAlive() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stop != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	l.stop, l.done = cancel, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(max(l.ttl/3, time.Millisecond))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			held, err := l.renew(ctx)
			if err != nil {
				// Redis hiccup: retry next tick while the TTL still covers us.
				continue
			}
			if !held {
				l.mu.Lock()
				if l.done == done {
					l.stop, l.done = nil, nil
				}
				l.mu.Unlock()
				cancel()
				return
			}
		}
	}()
}

func (l *RedisLease) stopKeepAlive() {
	l.mu.Lock()
	stop, done := l.stop, l.done
	l.stop, l.done = nil, nil
	l.mu.Unlock()
	if stop != nil {
		stop()
		<-done
	}
}

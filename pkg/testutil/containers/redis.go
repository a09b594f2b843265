//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"isdialogmote/internal/platform/config"
	"isdialogmote/internal/platform/redis"
)

// RedisContainer backs the name cache and the leader lease in tests.
type RedisContainer struct {
	Container testcontainers.Container
	URL       string
	*redis.Client
}

// NewRedisContainer starts Redis 7 and connects through the same client
// constructor the server uses.
func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}

	url, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get redis connection string: %v", err)
	}

	client, err := redis.New(ctx, config.Redis{URL: url, PoolSize: 4})
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to redis: %v", err)
	}

	// Shared across suites through Manager; Ryuk reaps the container.
	return &RedisContainer{Container: container, URL: url, Client: client}
}

// FlushAll isolates tests sharing the container.
func (r *RedisContainer) FlushAll(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}

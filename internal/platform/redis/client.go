// Package redis connects the shared Redis used for the name cache and the
// leader lease.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"isdialogmote/internal/platform/config"
)

type Client struct {
	*redis.Client
}

// New connects to cfg.URL. An empty URL means Redis is not configured and
// yields a nil client without error.
func New(ctx context.Context, cfg config.Redis) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := options(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return &Client{Client: client}, nil
}

func options(cfg config.Redis) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Cmdable returns the command interface, or nil on a nil client so callers
// can fall back to process-local state without a typed-nil interface.
func (c *Client) Cmdable() redis.Cmdable {
	if c == nil {
		return nil
	}
	return c.Client
}

// Ready reports whether Redis answers. An unconfigured client is always ready.
func (c *Client) Ready(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.Client.Close()
}

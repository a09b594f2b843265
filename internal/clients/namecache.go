package clients

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"isdialogmote/internal/dialogmote/ports"
	id "isdialogmote/pkg/domain"
	"isdialogmote/pkg/platform/circuit"
)

const (
	DefaultNameTTL  = time.Hour
	nameKeyPrefix   = "isdialogmote:navn:"
	personKeyPrefix = nameKeyPrefix + "person:"
	orgKeyPrefix    = nameKeyPrefix + "org:"
)

// NameCache caches display names in Redis with a process-local fallback
// used while Redis is failing. Names are presentation data; a miss always
// falls through to the registry.
type NameCache struct {
	redis   redis.Cmdable
	ttl     time.Duration
	breaker *circuit.Breaker
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.Mutex
	local map[string]localName
}

type localName struct {
	value     string
	expiresAt time.Time
}

type NameCacheOption func(*NameCache)

func WithNameTTL(ttl time.Duration) NameCacheOption {
	return func(c *NameCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithCacheLogger(logger *slog.Logger) NameCacheOption {
	return func(c *NameCache) {
		c.logger = logger
	}
}

func WithCacheClock(now func() time.Time) NameCacheOption {
	return func(c *NameCache) {
		c.now = now
	}
}

// NewNameCache builds a cache. A nil client keeps everything in process.
func NewNameCache(client redis.Cmdable, opts ...NameCacheOption) *NameCache {
	c := &NameCache{
		redis:   client,
		ttl:     DefaultNameTTL,
		breaker: circuit.New("name-cache", circuit.WithFailureThreshold(3)),
		logger:  slog.Default(),
		now:     time.Now,
		local:   make(map[string]localName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *NameCache) Get(ctx context.Context, key string) (string, bool) {
	if c.redis == nil {
		return c.getLocal(key)
	}
	value, err := c.redis.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.recordFailure(ctx, err)
		return c.getLocal(key)
	}
	if !c.recordSuccess(ctx) {
		return c.getLocal(key)
	}
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	return value, true
}

func (c *NameCache) Set(ctx context.Context, key, value string) {
	c.setLocal(key, value)
	if c.redis == nil {
		return
	}
	if err := c.redis.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.recordFailure(ctx, err)
		return
	}
	c.recordSuccess(ctx)
}

func (c *NameCache) recordFailure(ctx context.Context, err error) {
	_, change := c.breaker.RecordFailure()
	if change.Opened {
		c.logger.WarnContext(ctx, "name cache circuit opened, using local cache", "error", err)
	}
}

// recordSuccess reports whether Redis answers may be trusted again.
func (c *NameCache) recordSuccess(ctx context.Context) bool {
	usePrimary, change := c.breaker.RecordSuccess()
	if change.Closed {
		c.logger.InfoContext(ctx, "name cache circuit closed")
	}
	return usePrimary
}

func (c *NameCache) getLocal(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.local[key]
	if !ok {
		return "", false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.local, key)
		return "", false
	}
	return e.value, true
}

func (c *NameCache) setLocal(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.local[key] = localName{value: value, expiresAt: c.now().Add(c.ttl)}
}

// CachedPersons caches DisplayName. Protection status and identities always
// go to the registry.
type CachedPersons struct {
	ports.PersonRegistry
	cache *NameCache
}

var _ ports.PersonRegistry = (*CachedPersons)(nil)

func NewCachedPersons(registry ports.PersonRegistry, cache *NameCache) *CachedPersons {
	return &CachedPersons{PersonRegistry: registry, cache: cache}
}

func (c *CachedPersons) DisplayName(ctx context.Context, ident id.PersonIdent) (string, error) {
	key := personKeyPrefix + ident.String()
	if name, ok := c.cache.Get(ctx, key); ok {
		return name, nil
	}
	name, err := c.PersonRegistry.DisplayName(ctx, ident)
	if err != nil {
		return "", err
	}
	c.cache.Set(ctx, key, name)
	return name, nil
}

type CachedOrganizations struct {
	registry ports.OrganizationRegistry
	cache    *NameCache
}

var _ ports.OrganizationRegistry = (*CachedOrganizations)(nil)

func NewCachedOrganizations(registry ports.OrganizationRegistry, cache *NameCache) *CachedOrganizations {
	return &CachedOrganizations{registry: registry, cache: cache}
}

func (c *CachedOrganizations) DisplayName(ctx context.Context, orgnr id.Virksomhetsnummer) (string, error) {
	key := orgKeyPrefix + orgnr.String()
	if name, ok := c.cache.Get(ctx, key); ok {
		return name, nil
	}
	name, err := c.registry.DisplayName(ctx, orgnr)
	if err != nil {
		return "", err
	}
	c.cache.Set(ctx, key, name)
	return name, nil
}

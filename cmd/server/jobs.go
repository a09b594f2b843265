package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"isdialogmote/internal/cronjob"
	"isdialogmote/internal/dialogmote/ports"
	"isdialogmote/internal/dialogmote/publishers/behandlermelding"
	"isdialogmote/internal/dialogmote/publishers/distribusjon"
	"isdialogmote/internal/dialogmote/publishers/journalforing"
	"isdialogmote/internal/dialogmote/publishers/motesvar"
	"isdialogmote/internal/dialogmote/publishers/outdated"
	"isdialogmote/internal/dialogmote/publishers/statusendring"
	"isdialogmote/internal/dialogmote/store"
	"isdialogmote/internal/platform/config"
	"isdialogmote/internal/platform/leaderelection"
	"isdialogmote/internal/platform/redis"
)

// advisoryLockKey is shared by every replica competing for leadership.
const advisoryLockKey int64 = 0x15d1a106

type jobDeps struct {
	store     *store.Postgres
	persons   ports.PersonRegistry
	orgs      ports.OrganizationRegistry
	archive   ports.ArchiveClient
	dist      ports.DistributionClient
	channels  distribusjon.ChannelResolver
	events    ports.EventBus
	behandler ports.BehandlerBus
	closer    outdated.Closer
	logger    *slog.Logger
}

func buildJobs(cfg config.Cronjob, topics config.Kafka, d jobDeps) []cronjob.Job {
	return []cronjob.Job{
		journalforing.New(d.store, d.archive, d.persons, d.orgs,
			journalforing.WithLogger(d.logger),
			journalforing.WithBatchSize(cfg.BatchSize),
			journalforing.WithRetry(cfg.JournalforingRetryEnabled),
		),
		distribusjon.New(d.store, d.channels, d.dist,
			distribusjon.WithLogger(d.logger),
			distribusjon.WithBatchSize(cfg.BatchSize),
		),
		statusendring.New(d.store, d.events,
			statusendring.WithLogger(d.logger),
			statusendring.WithBatchSize(cfg.BatchSize),
			statusendring.WithTopic(topics.StatusEndringTopic),
		),
		motesvar.New(d.store, d.events,
			motesvar.WithLogger(d.logger),
			motesvar.WithBatchSize(cfg.BatchSize),
			motesvar.WithTopic(topics.MotesvarTopic),
		),
		behandlermelding.New(d.store, d.behandler,
			behandlermelding.WithLogger(d.logger),
			behandlermelding.WithBatchSize(cfg.BatchSize),
		),
		outdated.New(d.store, d.closer,
			outdated.WithLogger(d.logger),
			outdated.WithBatchSize(cfg.BatchSize),
			outdated.WithCutoffDays(cfg.OutdatedCutoffDays),
			outdated.WithInclude(cfg.OutdatedMoteUUIDs...),
		),
	}
}

// newElector picks the leader election backend. The returned func gives up
// leadership on shutdown.
func newElector(cfg config.LeaderElection, dsn string, rc *redis.Client) (cronjob.Elector, func(), error) {
	noop := func() {}
	switch cfg.Mode {
	case config.LeaderElectionHTTP:
		return leaderelection.NewHTTPElector(cfg.URL, cfg.Hostname), noop, nil
	case config.LeaderElectionRedis:
		if rc == nil {
			return nil, nil, errors.New("leader election mode redis requires REDIS_URL")
		}
		lease := leaderelection.NewRedisLease(rc.Cmdable(), "isdialogmote:leader", cfg.Hostname, cfg.LeaseTTL)
		return lease, func() { releaseWithTimeout(lease.Release) }, nil
	case config.LeaderElectionPostgres:
		lock := leaderelection.NewAdvisoryLock(dsn, advisoryLockKey)
		return lock, func() { releaseWithTimeout(lock.Close) }, nil
	default:
		return leaderelection.Static(true), noop, nil
	}
}

func releaseWithTimeout(release func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = release(ctx)
}

// Package distribusjon orders delivery of archived notices to employees and
// employers.
package distribusjon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"isdialogmote/internal/cronjob"
	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/ports"
	"isdialogmote/internal/dialogmote/publishers"
)

const JobName = "distribusjon"

type Store interface {
	ListUndistributed(ctx context.Context, limit int) ([]models.VarselDelivery, error)
	SetDistribution(ctx context.Context, varselUUID uuid.UUID, channel models.DistributionChannel, orderID *string, now time.Time) error
}

// ChannelResolver picks the channel at send time. dispatch.Router is the
// production implementation.
type ChannelResolver interface {
	ResolveChannel(ctx context.Context, d models.VarselDelivery) (models.DistributionChannel, error)
}

type Publisher struct {
	store     Store
	channels  ChannelResolver
	dist      ports.DistributionClient
	batchSize int
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithBatchSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

func New(store Store, channels ChannelResolver, dist ports.DistributionClient, opts ...Option) *Publisher {
	p := &Publisher{
		store:     store,
		channels:  channels,
		dist:      dist,
		batchSize: publishers.DefaultBatchSize,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Name() string { return JobName }

func (p *Publisher) Run(ctx context.Context) (cronjob.Result, error) {
	items, err := p.store.ListUndistributed(ctx, p.batchSize)
	if err != nil {
		return cronjob.Result{}, fmt.Errorf("list undistributed varsler: %w", err)
	}
	return publishers.Process(ctx, items, p.distribute, func(d models.VarselDelivery, err error) {
		p.logger.ErrorContext(ctx, "distribution failed",
			"mote_uuid", d.MoteUUID,
			"varsel_uuid", d.Varsel.UUID,
			"mottaker", d.Varsel.ParticipantType,
			"error", err,
		)
	}), nil
}

func (p *Publisher) distribute(ctx context.Context, d models.VarselDelivery) error {
	channel, err := p.channels.ResolveChannel(ctx, d)
	if err != nil {
		return err
	}

	if channel == models.ChannelSuppressed {
		if err := p.store.SetDistribution(ctx, d.Varsel.UUID, channel, nil, p.now()); err != nil {
			return fmt.Errorf("store suppressed distribution: %w", err)
		}
		p.logger.InfoContext(ctx, "distribution suppressed", "varsel_uuid", d.Varsel.UUID)
		return nil
	}

	orderID, err := p.dist.Distribute(ctx, ports.DistributionRequest{
		IdempotencyKey: *d.Varsel.JournalpostID,
		JournalpostID:  *d.Varsel.JournalpostID,
		Channel:        channel,
	})
	if err != nil {
		return fmt.Errorf("distribute over %s: %w", channel, err)
	}
	if err := p.store.SetDistribution(ctx, d.Varsel.UUID, channel, &orderID, p.now()); err != nil {
		return fmt.Errorf("store distribution order: %w", err)
	}
	return nil
}

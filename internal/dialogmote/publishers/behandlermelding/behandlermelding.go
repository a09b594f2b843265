// Package behandlermelding sends notices for health-care providers over the
// clinical messaging bus.
package behandlermelding

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

const JobName = "behandlermelding"

type Store interface {
	ListUnsentBehandlerMeldinger(ctx context.Context, limit int) ([]models.VarselDelivery, error)
	SetBehandlerMeldingSent(ctx context.Context, varselUUID uuid.UUID, at time.Time) error
}

type Publisher struct {
	store     Store
	bus       ports.BehandlerBus
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

func New(store Store, bus ports.BehandlerBus, opts ...Option) *Publisher {
	p := &Publisher{
		store:     store,
		bus:       bus,
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
	items, err := p.store.ListUnsentBehandlerMeldinger(ctx, p.batchSize)
	if err != nil {
		return cronjob.Result{}, fmt.Errorf("list unsent behandler meldinger: %w", err)
	}
	return publishers.Process(ctx, items, p.send, func(d models.VarselDelivery, err error) {
		p.logger.ErrorContext(ctx, "send behandler melding failed",
			"mote_uuid", d.MoteUUID,
			"varsel_uuid", d.Varsel.UUID,
			"error", err,
		)
	}), nil
}

func (p *Publisher) send(ctx context.Context, d models.VarselDelivery) error {
	if d.Behandler == nil {
		return fmt.Errorf("varsel %s has no behandler", d.Varsel.UUID)
	}
	err := p.bus.Send(ctx, ports.BehandlerMelding{
		VarselUUID:   d.Varsel.UUID,
		MoteUUID:     d.MoteUUID,
		BehandlerRef: d.Behandler.BehandlerRef,
		PersonIdent:  d.PersonIdent,
		Type:         d.Varsel.Type,
		Tid:          d.Tid,
		Sted:         d.Sted,
		Document:     d.Varsel.Document,
		Pdf:          d.Pdf,
	})
	if err != nil {
		return fmt.Errorf("send to behandler: %w", err)
	}
	if err := p.store.SetBehandlerMeldingSent(ctx, d.Varsel.UUID, p.now()); err != nil {
		return fmt.Errorf("mark behandler melding sent: %w", err)
	}
	return nil
}

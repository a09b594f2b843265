// Package statusendring publishes the meeting status log to the event bus.
package statusendring

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"isdialogmote/internal/cronjob"
	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/ports"
	"isdialogmote/internal/dialogmote/publishers"
)

const (
	JobName      = "statusendring"
	DefaultTopic = "teamsykefravr.isdialogmote-dialogmote-statusendring"
)

type Store interface {
	ListUnpublishedStatusEndringer(ctx context.Context, limit int) ([]models.StatusEndringRecord, error)
	SetStatusEndringPublished(ctx context.Context, statusEndringID int64, at time.Time) error
}

// Event is the wire format consumers of the status topic read. Messages are
// keyed by the meeting uuid so one meeting's changes stay ordered.
type Event struct {
	DialogmoteUUID         string    `json:"dialogmoteUuid"`
	DialogmoteTidspunkt    time.Time `json:"dialogmoteTidspunkt"`
	StatusEndringType      string    `json:"statusEndringType"`
	StatusEndringTidspunkt time.Time `json:"statusEndringTidspunkt"`
	PersonIdent            string    `json:"personIdent"`
	Virksomhetsnummer      string    `json:"virksomhetsnummer"`
	EnhetNr                string    `json:"enhetNr"`
	NavIdent               string    `json:"navIdent"`
	Arbeidstaker           bool      `json:"arbeidstaker"`
	Arbeidsgiver           bool      `json:"arbeidsgiver"`
	Sykmelder              bool      `json:"sykmelder"`
}

func NewEvent(r models.StatusEndringRecord) Event {
	return Event{
		DialogmoteUUID:         r.MoteUUID.String(),
		DialogmoteTidspunkt:    r.Motetidspunkt,
		StatusEndringType:      r.Status.String(),
		StatusEndringTidspunkt: r.CreatedAt,
		PersonIdent:            r.PersonIdent.String(),
		Virksomhetsnummer:      r.Virksomhetsnummer.String(),
		EnhetNr:                r.EnhetNr.String(),
		NavIdent:               r.OpprettetAv.String(),
		Arbeidstaker:           true,
		Arbeidsgiver:           true,
		Sykmelder:              r.HasBehandler,
	}
}

type Publisher struct {
	store     Store
	bus       ports.EventBus
	topic     string
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

func WithTopic(topic string) Option {
	return func(p *Publisher) {
		if topic != "" {
			p.topic = topic
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

func New(store Store, bus ports.EventBus, opts ...Option) *Publisher {
	p := &Publisher{
		store:     store,
		bus:       bus,
		topic:     DefaultTopic,
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
	items, err := p.store.ListUnpublishedStatusEndringer(ctx, p.batchSize)
	if err != nil {
		return cronjob.Result{}, fmt.Errorf("list unpublished status changes: %w", err)
	}
	return publishers.ProcessInKeyOrder(ctx, items, moteKey, p.publish, func(r models.StatusEndringRecord, err error) {
		p.logger.ErrorContext(ctx, "publish status change failed",
			"mote_uuid", r.MoteUUID,
			"status", r.Status,
			"error", err,
		)
	}), nil
}

func moteKey(r models.StatusEndringRecord) uuid.UUID { return r.MoteUUID }

func (p *Publisher) publish(ctx context.Context, r models.StatusEndringRecord) error {
	payload, err := json.Marshal(NewEvent(r))
	if err != nil {
		return fmt.Errorf("encode status change: %w", err)
	}
	if err := p.bus.Publish(ctx, p.topic, r.MoteUUID.String(), payload); err != nil {
		return fmt.Errorf("publish status change: %w", err)
	}
	if err := p.store.SetStatusEndringPublished(ctx, r.ID, p.now()); err != nil {
		return fmt.Errorf("mark status change published: %w", err)
	}
	return nil
}

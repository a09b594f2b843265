// Package motesvar publishes participant replies to the event bus.
package motesvar

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
	JobName      = "motesvar"
	DefaultTopic = "teamsykefravr.isdialogmote-dialogmotesvar"
)

type Store interface {
	ListUnpublishedSvar(ctx context.Context, limit int) ([]models.DialogmotesvarRecord, error)
	SetSvarPublished(ctx context.Context, svarID int64, at time.Time) error
}

type Event struct {
	DialogmoteUUID    string    `json:"dialogmoteUuid"`
	PersonIdent       string    `json:"personIdent"`
	Virksomhetsnummer string    `json:"virksomhetsnummer"`
	SvarType          string    `json:"svarType"`
	SenderType        string    `json:"senderType"`
	BrevSentAt        time.Time `json:"brevSentAt"`
	SvarReceivedAt    time.Time `json:"svarReceivedAt"`
	SvarTekst         *string   `json:"svarTekst"`
}

func NewEvent(r models.DialogmotesvarRecord) Event {
	return Event{
		DialogmoteUUID:    r.MoteUUID.String(),
		PersonIdent:       r.PersonIdent.String(),
		Virksomhetsnummer: r.Virksomhetsnummer.String(),
		SvarType:          string(r.SvarType),
		SenderType:        string(r.ParticipantType),
		BrevSentAt:        r.VarselSentAt,
		SvarReceivedAt:    r.CreatedAt,
		SvarTekst:         r.SvarTekst,
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
	items, err := p.store.ListUnpublishedSvar(ctx, p.batchSize)
	if err != nil {
		return cronjob.Result{}, fmt.Errorf("list unpublished svar: %w", err)
	}
	return publishers.ProcessInKeyOrder(ctx, items, moteKey, p.publish, func(r models.DialogmotesvarRecord, err error) {
		p.logger.ErrorContext(ctx, "publish motesvar failed",
			"mote_uuid", r.MoteUUID,
			"svar_uuid", r.UUID,
			"error", err,
		)
	}), nil
}

func moteKey(r models.DialogmotesvarRecord) uuid.UUID { return r.MoteUUID }

func (p *Publisher) publish(ctx context.Context, r models.DialogmotesvarRecord) error {
	payload, err := json.Marshal(NewEvent(r))
	if err != nil {
		return fmt.Errorf("encode motesvar: %w", err)
	}
	if err := p.bus.Publish(ctx, p.topic, r.MoteUUID.String(), payload); err != nil {
		return fmt.Errorf("publish motesvar: %w", err)
	}
	if err := p.store.SetSvarPublished(ctx, r.ID, p.now()); err != nil {
		return fmt.Errorf("mark motesvar published: %w", err)
	}
	return nil
}

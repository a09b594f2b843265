// Package journalforing archives notices in the national document archive
// and records the journalpost id each archive call returns.
package journalforing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"isdialogmote/internal/cronjob"
	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/ports"
	"isdialogmote/internal/dialogmote/publishers"
)

const JobName = "journalforing"

type Store interface {
	ListUnjournalfort(ctx context.Context, limit int) ([]models.VarselDelivery, error)
	SetJournalpostID(ctx context.Context, varselUUID uuid.UUID, journalpostID string, now time.Time) error
}

type Publisher struct {
	store        Store
	archive      ports.ArchiveClient
	persons      ports.PersonRegistry
	orgs         ports.OrganizationRegistry
	batchSize    int
	retryEnabled bool
	logger       *slog.Logger
	now          func() time.Time
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

// WithRetry controls what happens after a failed archive call. With retry
// disabled the notice is closed with models.JournalpostIDFailed instead of
// being picked up again.
func WithRetry(enabled bool) Option {
	return func(p *Publisher) {
		p.retryEnabled = enabled
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

func New(store Store, archive ports.ArchiveClient, persons ports.PersonRegistry, orgs ports.OrganizationRegistry, opts ...Option) *Publisher {
	p := &Publisher{
		store:        store,
		archive:      archive,
		persons:      persons,
		orgs:         orgs,
		batchSize:    publishers.DefaultBatchSize,
		retryEnabled: true,
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Name() string { return JobName }

func (p *Publisher) Run(ctx context.Context) (cronjob.Result, error) {
	items, err := p.store.ListUnjournalfort(ctx, p.batchSize)
	if err != nil {
		return cronjob.Result{}, fmt.Errorf("list unjournalførte varsler: %w", err)
	}
	return publishers.Process(ctx, items, p.journalfor, func(d models.VarselDelivery, err error) {
		p.logger.ErrorContext(ctx, "journalføring failed",
			"mote_uuid", d.MoteUUID,
			"varsel_uuid", d.Varsel.UUID,
			"varsel_type", d.Varsel.Type,
			"mottaker", d.Varsel.ParticipantType,
			"error", err,
		)
	}), nil
}

func (p *Publisher) journalfor(ctx context.Context, d models.VarselDelivery) error {
	journalpostID, err := p.submit(ctx, d)
	if err != nil {
		if !p.retryEnabled {
			if markErr := p.store.SetJournalpostID(ctx, d.Varsel.UUID, models.JournalpostIDFailed, p.now()); markErr != nil {
				return errors.Join(err, fmt.Errorf("mark journalføring failed: %w", markErr))
			}
		}
		return err
	}
	if err := p.store.SetJournalpostID(ctx, d.Varsel.UUID, journalpostID, p.now()); err != nil {
		return fmt.Errorf("store journalpost id: %w", err)
	}
	return nil
}

func (p *Publisher) submit(ctx context.Context, d models.VarselDelivery) (string, error) {
	recipient, err := p.recipient(ctx, d)
	if err != nil {
		return "", err
	}
	meta, ok := documentMeta(d.Varsel.Type, d.Varsel.ParticipantType)
	if !ok {
		return "", fmt.Errorf("no archive metadata for %s to %s", d.Varsel.Type, d.Varsel.ParticipantType)
	}

	journalpostID, err := p.archive.Archive(ctx, ports.ArchiveRequest{
		IdempotencyKey: d.Varsel.UUID.String(),
		Title:          meta.title,
		Brevkode:       meta.brevkode,
		Subject:        d.PersonIdent,
		Recipient:      recipient,
		Pdf:            d.Pdf,
	})
	var conflict *ports.ArchiveConflictError
	if errors.As(err, &conflict) {
		p.logger.InfoContext(ctx, "varsel already archived",
			"varsel_uuid", d.Varsel.UUID,
			"journalpost_id", conflict.JournalpostID,
		)
		return conflict.JournalpostID, nil
	}
	if err != nil {
		return "", fmt.Errorf("archive varsel: %w", err)
	}
	return journalpostID, nil
}

func (p *Publisher) recipient(ctx context.Context, d models.VarselDelivery) (ports.Recipient, error) {
	switch d.Varsel.ParticipantType {
	case models.ParticipantArbeidstaker:
		name, err := p.persons.DisplayName(ctx, d.PersonIdent)
		if err != nil {
			return ports.Recipient{}, fmt.Errorf("look up arbeidstaker name: %w", err)
		}
		return ports.Recipient{ID: d.PersonIdent.String(), IDType: ports.RecipientFNR, Name: name}, nil
	case models.ParticipantArbeidsgiver:
		name, err := p.orgs.DisplayName(ctx, d.Virksomhetsnummer)
		if err != nil {
			return ports.Recipient{}, fmt.Errorf("look up virksomhet name: %w", err)
		}
		return ports.Recipient{ID: d.Virksomhetsnummer.String(), IDType: ports.RecipientORGNR, Name: name}, nil
	case models.ParticipantBehandler:
		if d.Behandler == nil {
			return ports.Recipient{}, fmt.Errorf("varsel %s has no behandler", d.Varsel.UUID)
		}
		if d.Behandler.PersonIdent != nil {
			return ports.Recipient{ID: d.Behandler.PersonIdent.String(), IDType: ports.RecipientFNR, Name: d.Behandler.Navn}, nil
		}
		return ports.Recipient{ID: d.Behandler.BehandlerRef, IDType: ports.RecipientHPRNR, Name: d.Behandler.Navn}, nil
	}
	return ports.Recipient{}, fmt.Errorf("unknown mottaker %q", d.Varsel.ParticipantType)
}

type meta struct {
	title    string
	brevkode string
}

var titles = map[models.VarselType]string{
	models.VarselTypeInnkalt:     "Innkalling til dialogmøte",
	models.VarselTypeNyttTidSted: "Endring av dialogmøte",
	models.VarselTypeAvlyst:      "Avlysning av dialogmøte",
	models.VarselTypeReferat:     "Referat fra dialogmøte",
}

var brevkoder = map[models.VarselType]string{
	models.VarselTypeInnkalt:     "OPPF_DM_INNKALLING",
	models.VarselTypeNyttTidSted: "OPPF_DM_ENDRING",
	models.VarselTypeAvlyst:      "OPPF_DM_AVLYSNING",
	models.VarselTypeReferat:     "OPPF_DM_REFERAT",
}

var suffixes = map[models.ParticipantType]string{
	models.ParticipantArbeidstaker: "_AT",
	models.ParticipantArbeidsgiver: "_AG",
	models.ParticipantBehandler:    "_BEH",
}

func documentMeta(vt models.VarselType, pt models.ParticipantType) (meta, bool) {
	title, ok := titles[vt]
	if !ok {
		return meta{}, false
	}
	suffix, ok := suffixes[pt]
	if !ok {
		return meta{}, false
	}
	return meta{title: title, brevkode: brevkoder[vt] + suffix}, true
}

package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/service"
	id "isdialogmote/pkg/domain"
	dErrors "isdialogmote/pkg/domain-errors"
	"isdialogmote/pkg/platform/sentinel"
	txcontext "isdialogmote/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

var (
	_ service.Store   = (*Postgres)(nil)
	_ service.TxStore = (*Postgres)(nil)
)

const defaultTxTimeout = 5 * time.Second

// Postgres persists meetings in PostgreSQL. Inside RunInTx the transaction
// travels in ctx, so the same methods serve both the read side and TxStore.
type Postgres struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, timeout: defaultTxTimeout}
}

// EnsureSchema creates missing tables and indexes.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (p *Postgres) conn(ctx context.Context) txcontext.Querier {
	return txcontext.Or(ctx, p.db)
}

// RunInTx runs fn in one transaction with a default deadline.
func (p *Postgres) RunInTx(ctx context.Context, fn func(ctx context.Context, tx service.TxStore) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx), p); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const moteColumns = `m.id, m.uuid, m.created_at, m.updated_at, m.status, m.opprettet_av, m.tildelt_veileder_ident, m.tildelt_enhet`

func (p *Postgres) Get(ctx context.Context, moteUUID uuid.UUID) (*models.Dialogmote, error) {
	motes, err := p.loadMotes(ctx, `WHERE m.uuid = $1`, moteUUID)
	if err != nil {
		return nil, err
	}
	if len(motes) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return motes[0], nil
}

func (p *Postgres) GetForUpdate(ctx context.Context, moteUUID uuid.UUID) (*models.Dialogmote, error) {
	var moteID int64
	err := p.conn(ctx).QueryRowContext(ctx, `SELECT id FROM mote WHERE uuid = $1 FOR UPDATE`, moteUUID).Scan(&moteID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock mote: %w", err)
	}
	motes, err := p.loadMotes(ctx, `WHERE m.id = $1`, moteID)
	if err != nil {
		return nil, err
	}
	if len(motes) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return motes[0], nil
}

func (p *Postgres) GetByVarselUUID(ctx context.Context, varselUUID uuid.UUID) (*models.Dialogmote, error) {
	motes, err := p.loadMotes(ctx, `WHERE m.id = (SELECT mote_id FROM varsel WHERE uuid = $1)`, varselUUID)
	if err != nil {
		return nil, err
	}
	if len(motes) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return motes[0], nil
}

func (p *Postgres) ListByPerson(ctx context.Context, ident id.PersonIdent) ([]*models.Dialogmote, error) {
	return p.loadMotes(ctx, `
		WHERE m.id IN (SELECT mote_id FROM motedeltaker_arbeidstaker WHERE personident = $1)
		ORDER BY m.created_at DESC, m.id DESC`, string(ident))
}

func (p *Postgres) ListByEnhet(ctx context.Context, enhet id.EnhetNr) ([]*models.Dialogmote, error) {
	return p.loadMotes(ctx, `WHERE m.tildelt_enhet = $1 ORDER BY m.created_at DESC, m.id DESC`, string(enhet))
}

// loadMotes reads the meeting rows matching where and then loads their
// children in one query per table.
func (p *Postgres) loadMotes(ctx context.Context, where string, args ...any) ([]*models.Dialogmote, error) {
	rows, err := p.conn(ctx).QueryContext(ctx, `SELECT `+moteColumns+` FROM mote m `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query mote: %w", err)
	}
	defer rows.Close()

	var (
		motes []*models.Dialogmote
		ids   []int64
	)
	byID := make(map[int64]*models.Dialogmote)
	for rows.Next() {
		var (
			m                                models.Dialogmote
			status, opprettetAv, veil, enhet string
		)
		if err := rows.Scan(&m.ID, &m.UUID, &m.CreatedAt, &m.UpdatedAt, &status, &opprettetAv, &veil, &enhet); err != nil {
			return nil, fmt.Errorf("scan mote: %w", err)
		}
		m.Status = models.Status(status)
		m.OpprettetAv = id.NavIdent(opprettetAv)
		m.TildeltVeileder = id.NavIdent(veil)
		m.TildeltEnhet = id.EnhetNr(enhet)
		motes = append(motes, &m)
		ids = append(ids, m.ID)
		byID[m.ID] = &m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mote: %w", err)
	}
	if len(motes) == 0 {
		return nil, nil
	}

	loaders := []func(context.Context, []int64, map[int64]*models.Dialogmote) error{
		p.loadArbeidstakere,
		p.loadArbeidsgivere,
		p.loadBehandlere,
		p.loadTidSted,
		p.loadReferater,
		p.loadVarsler,
	}
	for _, load := range loaders {
		if err := load(ctx, ids, byID); err != nil {
			return nil, err
		}
	}
	return motes, nil
}

func (p *Postgres) loadArbeidstakere(ctx context.Context, ids []int64, byID map[int64]*models.Dialogmote) error {
	rows, err := p.conn(ctx).QueryContext(ctx, `
		SELECT id, uuid, created_at, mote_id, personident
		FROM motedeltaker_arbeidstaker WHERE mote_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query arbeidstaker: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			a      models.Arbeidstaker
			moteID int64
			ident  string
		)
		if err := rows.Scan(&a.ID, &a.UUID, &a.CreatedAt, &moteID, &ident); err != nil {
			return fmt.Errorf("scan arbeidstaker: %w", err)
		}
		a.PersonIdent = id.PersonIdent(ident)
		byID[moteID].Arbeidstaker = a
	}
	return rows.Err()
}

func (p *Postgres) loadArbeidsgivere(ctx context.Context, ids []int64, byID map[int64]*models.Dialogmote) error {
	rows, err := p.conn(ctx).QueryContext(ctx, `
		SELECT id, uuid, created_at, mote_id, virksomhetsnummer, leder_navn, leder_epost
		FROM motedeltaker_arbeidsgiver WHERE mote_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query arbeidsgiver: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			a           models.Arbeidsgiver
			moteID      int64
			orgnr       string
			navn, epost sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.UUID, &a.CreatedAt, &moteID, &orgnr, &navn, &epost); err != nil {
			return fmt.Errorf("scan arbeidsgiver: %w", err)
		}
		a.Virksomhetsnummer = id.Virksomhetsnummer(orgnr)
		a.LederNavn = nullString(navn)
		a.LederEpost = nullString(epost)
		byID[moteID].Arbeidsgiver = a
	}
	return rows.Err()
}

func (p *Postgres) loadBehandlere(ctx context.Context, ids []int64, byID map[int64]*models.Dialogmote) error {
	rows, err := p.conn(ctx).QueryContext(ctx, `
		SELECT id, uuid, created_at, mote_id, behandler_ref, navn, kontor, personident, mottar_referat, deltatt
		FROM motedeltaker_behandler WHERE mote_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query behandler: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			b      models.Behandler
			moteID int64
			ident  sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.UUID, &b.CreatedAt, &moteID, &b.BehandlerRef, &b.Navn, &b.Kontor, &ident, &b.MottarReferat, &b.Deltatt); err != nil {
			return fmt.Errorf("scan behandler: %w", err)
		}
		if ident.Valid {
			pi := id.PersonIdent(ident.String)
			b.PersonIdent = &pi
		}
		byID[moteID].Behandler = &b
	}
	return rows.Err()
}

func (p *Postgres) loadTidSted(ctx context.Context, ids []int64, byID map[int64]*models.Dialogmote) error {
	rows, err := p.conn(ctx).QueryContext(ctx, `
		SELECT id, uuid, created_at, mote_id, sted, tid, video_link
		FROM tid_sted WHERE mote_id = ANY($1) ORDER BY created_at, id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query tid_sted: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ts models.TidSted
		if err := rows.Scan(&ts.ID, &ts.UUID, &ts.CreatedAt, &ts.MoteID, &ts.Sted, &ts.Tid, &ts.VideoLink); err != nil {
			return fmt.Errorf("scan tid_sted: %w", err)
		}
		m := byID[ts.MoteID]
		m.TidSted = append(m.TidSted, ts)
	}
	return rows.Err()
}

func (p *Postgres) loadReferater(ctx context.Context, ids []int64, byID map[int64]*models.Dialogmote) error {
	rows, err := p.conn(ctx).QueryContext(ctx, `
		SELECT id, uuid, created_at, updated_at, mote_id, digitalt, situasjon, konklusjon,
		       arbeidstaker_oppgave, arbeidsgiver_oppgave, behandler_oppgave, narmeste_leder_navn,
		       andre_deltakere, document, pdf_id, ferdigstilt
		FROM referat WHERE mote_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query referat: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			r                   models.Referat
			behandlerOppgave    sql.NullString
			andreDeltakere, doc []byte
			pdfID               sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.UUID, &r.CreatedAt, &r.UpdatedAt, &r.MoteID, &r.Digitalt, &r.Situasjon, &r.Konklusjon,
			&r.ArbeidstakerOppgave, &r.ArbeidsgiverOppgave, &behandlerOppgave, &r.NarmesteLederNavn,
			&andreDeltakere, &doc, &pdfID, &r.Ferdigstilt); err != nil {
			return fmt.Errorf("scan referat: %w", err)
		}
		r.BehandlerOppgave = nullString(behandlerOppgave)
		if pdfID.Valid {
			r.PdfID = &pdfID.Int64
		}
		if err := json.Unmarshal(andreDeltakere, &r.AndreDeltakere); err != nil {
			return fmt.Errorf("decode andre deltakere: %w", err)
		}
		if err := json.Unmarshal(doc, &r.Document); err != nil {
			return fmt.Errorf("decode referat document: %w", err)
		}
		byID[r.MoteID].Referat = &r
	}
	return rows.Err()
}

const varselColumns = `v.id, v.uuid, v.created_at, v.updated_at, v.mote_id, v.motedeltaker_type, v.motedeltaker_id,
	v.varseltype, v.fritekst, v.document, v.pdf_id, v.in_app, v.krever_journalforing, v.distribusjon_type,
	v.krever_behandler_melding, v.journalpost_id, v.distribusjon_bestilling_id, v.distribusjon_kanal,
	v.behandler_melding_sent_at, v.lest_at`

func (p *Postgres) loadVarsler(ctx context.Context, ids []int64, byID map[int64]*models.Dialogmote) error {
	rows, err := p.conn(ctx).QueryContext(ctx, `SELECT `+varselColumns+`
		FROM varsel v WHERE v.mote_id = ANY($1) ORDER BY v.id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query varsel: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		v, err := scanVarsel(rows)
		if err != nil {
			return err
		}
		m := byID[v.MoteID]
		switch v.ParticipantType {
		case models.ParticipantArbeidstaker:
			m.Arbeidstaker.Varsler = append(m.Arbeidstaker.Varsler, v)
		case models.ParticipantArbeidsgiver:
			m.Arbeidsgiver.Varsler = append(m.Arbeidsgiver.Varsler, v)
		case models.ParticipantBehandler:
			if m.Behandler != nil {
				m.Behandler.Varsler = append(m.Behandler.Varsler, v)
			}
		}
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVarsel(row scanner, extra ...any) (models.Varsel, error) {
	var (
		v                                     models.Varsel
		participantType, varselType, distType string
		doc                                   []byte
		journalpostID, orderID, channel       sql.NullString
		meldingSentAt, lestAt                 sql.NullTime
	)
	dest := []any{&v.ID, &v.UUID, &v.CreatedAt, &v.UpdatedAt, &v.MoteID, &participantType, &v.ParticipantID,
		&varselType, &v.Fritekst, &doc, &v.PdfID, &v.Intent.InApp, &v.Intent.Journalfor, &distType,
		&v.Intent.BehandlerMelding, &journalpostID, &orderID, &channel, &meldingSentAt, &lestAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.Varsel{}, fmt.Errorf("scan varsel: %w", err)
	}
	v.ParticipantType = models.ParticipantType(participantType)
	v.Type = models.VarselType(varselType)
	v.Intent.Distribution = models.DistributionKind(distType)
	v.JournalpostID = nullString(journalpostID)
	v.DistributionOrderID = nullString(orderID)
	if channel.Valid {
		ch := models.DistributionChannel(channel.String)
		v.DistributionChannel = &ch
	}
	v.BehandlerMeldingSentAt = nullTime(meldingSentAt)
	v.LestAt = nullTime(lestAt)
	if err := json.Unmarshal(doc, &v.Document); err != nil {
		return models.Varsel{}, fmt.Errorf("decode varsel document: %w", err)
	}
	return v, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// mapErr turns driver errors into store sentinels.
func mapErr(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

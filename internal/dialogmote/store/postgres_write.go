package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"isdialogmote/internal/dialogmote/models"
	id "isdialogmote/pkg/domain"
	"isdialogmote/pkg/platform/sentinel"
)

func (p *Postgres) Create(ctx context.Context, m *models.Dialogmote) error {
	db := p.conn(ctx)
	err := db.QueryRowContext(ctx, `
		INSERT INTO mote (uuid, created_at, updated_at, status, opprettet_av, tildelt_veileder_ident, tildelt_enhet)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		m.UUID, m.CreatedAt, m.UpdatedAt, string(m.Status), string(m.OpprettetAv),
		string(m.TildeltVeileder), string(m.TildeltEnhet),
	).Scan(&m.ID)
	if err != nil {
		return mapErr(err, "insert mote")
	}

	at := &m.Arbeidstaker
	err = db.QueryRowContext(ctx, `
		INSERT INTO motedeltaker_arbeidstaker (uuid, created_at, mote_id, personident)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		at.UUID, at.CreatedAt, m.ID, string(at.PersonIdent),
	).Scan(&at.ID)
	if err != nil {
		return mapErr(err, "insert arbeidstaker")
	}

	ag := &m.Arbeidsgiver
	err = db.QueryRowContext(ctx, `
		INSERT INTO motedeltaker_arbeidsgiver (uuid, created_at, mote_id, virksomhetsnummer, leder_navn, leder_epost)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		ag.UUID, ag.CreatedAt, m.ID, string(ag.Virksomhetsnummer), ag.LederNavn, ag.LederEpost,
	).Scan(&ag.ID)
	if err != nil {
		return mapErr(err, "insert arbeidsgiver")
	}

	if b := m.Behandler; b != nil {
		var ident *string
		if b.PersonIdent != nil {
			s := string(*b.PersonIdent)
			ident = &s
		}
		err = db.QueryRowContext(ctx, `
			INSERT INTO motedeltaker_behandler
				(uuid, created_at, mote_id, behandler_ref, navn, kontor, personident, mottar_referat, deltatt)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
			b.UUID, b.CreatedAt, m.ID, b.BehandlerRef, b.Navn, b.Kontor, ident, b.MottarReferat, b.Deltatt,
		).Scan(&b.ID)
		if err != nil {
			return mapErr(err, "insert behandler")
		}
	}

	for i := range m.TidSted {
		m.TidSted[i].MoteID = m.ID
		if err := p.AddTidSted(ctx, &m.TidSted[i]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) AddTidSted(ctx context.Context, ts *models.TidSted) error {
	err := p.conn(ctx).QueryRowContext(ctx, `
		INSERT INTO tid_sted (uuid, created_at, mote_id, sted, tid, video_link)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		ts.UUID, ts.CreatedAt, ts.MoteID, ts.Sted, ts.Tid, ts.VideoLink,
	).Scan(&ts.ID)
	if err != nil {
		return mapErr(err, "insert tid_sted")
	}
	return nil
}

func (p *Postgres) UpdateStatus(ctx context.Context, moteID int64, status models.Status, now time.Time) error {
	return p.execOne(ctx, "update status",
		`UPDATE mote SET status = $2, updated_at = $3 WHERE id = $1`, moteID, string(status), now)
}

func (p *Postgres) UpdateVeileder(ctx context.Context, moteID int64, veileder id.NavIdent, now time.Time) error {
	return p.execOne(ctx, "update veileder",
		`UPDATE mote SET tildelt_veileder_ident = $2, updated_at = $3 WHERE id = $1`, moteID, string(veileder), now)
}

func (p *Postgres) UpdateBehandler(ctx context.Context, b *models.Behandler) error {
	return p.execOne(ctx, "update behandler",
		`UPDATE motedeltaker_behandler SET deltatt = $2, mottar_referat = $3 WHERE id = $1`,
		b.ID, b.Deltatt, b.MottarReferat)
}

func (p *Postgres) AddStatusEndring(ctx context.Context, se *models.StatusEndring) error {
	err := p.conn(ctx).QueryRowContext(ctx, `
		INSERT INTO mote_status_endret (uuid, created_at, mote_id, status, opprettet_av, motetidspunkt)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		se.UUID, se.CreatedAt, se.MoteID, string(se.Status), string(se.OpprettetAv), se.Motetidspunkt,
	).Scan(&se.ID)
	if err != nil {
		return mapErr(err, "insert status endring")
	}
	return nil
}

func (p *Postgres) AddPdf(ctx context.Context, pdf []byte, now time.Time) (int64, error) {
	var pdfID int64
	err := p.conn(ctx).QueryRowContext(ctx,
		`INSERT INTO pdf (created_at, pdf) VALUES ($1, $2) RETURNING id`, now, pdf,
	).Scan(&pdfID)
	if err != nil {
		return 0, mapErr(err, "insert pdf")
	}
	return pdfID, nil
}

func (p *Postgres) AddVarsel(ctx context.Context, v *models.Varsel) error {
	doc, err := json.Marshal(documentOrEmpty(v.Document))
	if err != nil {
		return fmt.Errorf("encode varsel document: %w", err)
	}
	err = p.conn(ctx).QueryRowContext(ctx, `
		INSERT INTO varsel (uuid, created_at, updated_at, mote_id, motedeltaker_type, motedeltaker_id,
			varseltype, fritekst, document, pdf_id, in_app, krever_journalforing, distribusjon_type,
			krever_behandler_melding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`,
		v.UUID, v.CreatedAt, v.UpdatedAt, v.MoteID, string(v.ParticipantType), v.ParticipantID,
		string(v.Type), v.Fritekst, doc, v.PdfID, v.Intent.InApp, v.Intent.Journalfor,
		string(v.Intent.Distribution), v.Intent.BehandlerMelding,
	).Scan(&v.ID)
	if err != nil {
		return mapErr(err, "insert varsel")
	}
	return nil
}

// SaveReferat upserts the meeting's referat. A finalized referat is never
// overwritten.
func (p *Postgres) SaveReferat(ctx context.Context, r *models.Referat) error {
	andre, err := json.Marshal(andreOrEmpty(r.AndreDeltakere))
	if err != nil {
		return fmt.Errorf("encode andre deltakere: %w", err)
	}
	doc, err := json.Marshal(documentOrEmpty(r.Document))
	if err != nil {
		return fmt.Errorf("encode referat document: %w", err)
	}
	err = p.conn(ctx).QueryRowContext(ctx, `
		INSERT INTO referat (uuid, created_at, updated_at, mote_id, digitalt, situasjon, konklusjon,
			arbeidstaker_oppgave, arbeidsgiver_oppgave, behandler_oppgave, narmeste_leder_navn,
			andre_deltakere, document, pdf_id, ferdigstilt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (mote_id) DO UPDATE SET
			updated_at = EXCLUDED.updated_at,
			digitalt = EXCLUDED.digitalt,
			situasjon = EXCLUDED.situasjon,
			konklusjon = EXCLUDED.konklusjon,
			arbeidstaker_oppgave = EXCLUDED.arbeidstaker_oppgave,
			arbeidsgiver_oppgave = EXCLUDED.arbeidsgiver_oppgave,
			behandler_oppgave = EXCLUDED.behandler_oppgave,
			narmeste_leder_navn = EXCLUDED.narmeste_leder_navn,
			andre_deltakere = EXCLUDED.andre_deltakere,
			document = EXCLUDED.document,
			pdf_id = EXCLUDED.pdf_id,
			ferdigstilt = EXCLUDED.ferdigstilt
		WHERE referat.ferdigstilt = FALSE
		RETURNING id`,
		r.UUID, r.CreatedAt, r.UpdatedAt, r.MoteID, r.Digitalt, r.Situasjon, r.Konklusjon,
		r.ArbeidstakerOppgave, r.ArbeidsgiverOppgave, r.BehandlerOppgave, r.NarmesteLederNavn,
		andre, doc, r.PdfID, r.Ferdigstilt,
	).Scan(&r.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return mapErr(err, "save referat")
	}
	return nil
}

func (p *Postgres) AddSvar(ctx context.Context, s *models.Dialogmotesvar) error {
	err := p.conn(ctx).QueryRowContext(ctx, `
		INSERT INTO motesvar (uuid, created_at, mote_id, varsel_uuid, motedeltaker_type, svar_type, svar_tekst)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		s.UUID, s.CreatedAt, s.MoteID, s.VarselUUID, string(s.ParticipantType), string(s.SvarType), s.SvarTekst,
	).Scan(&s.ID)
	if err != nil {
		return mapErr(err, "insert motesvar")
	}
	return nil
}

func (p *Postgres) CountSvar(ctx context.Context, varselUUID uuid.UUID) (int, error) {
	var n int
	err := p.conn(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM motesvar WHERE varsel_uuid = $1`, varselUUID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count motesvar: %w", err)
	}
	return n, nil
}

// MarkVarselLest reports false when the notice was already read.
func (p *Postgres) MarkVarselLest(ctx context.Context, varselUUID uuid.UUID, at time.Time) (bool, error) {
	res, err := p.conn(ctx).ExecContext(ctx,
		`UPDATE varsel SET lest_at = $2, updated_at = $2 WHERE uuid = $1 AND lest_at IS NULL`, varselUUID, at)
	if err != nil {
		return false, fmt.Errorf("mark varsel lest: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark varsel lest: %w", err)
	}
	if n > 0 {
		return true, nil
	}
	if err := p.varselExists(ctx, varselUUID); err != nil {
		return false, err
	}
	return false, nil
}

func (p *Postgres) UpdatePersonIdent(ctx context.Context, from, to id.PersonIdent) (int, error) {
	res, err := p.conn(ctx).ExecContext(ctx,
		`UPDATE motedeltaker_arbeidstaker SET personident = $2 WHERE personident = $1`, string(from), string(to))
	if err != nil {
		return 0, fmt.Errorf("update personident: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update personident: %w", err)
	}
	return int(n), nil
}

// DeleteByPerson removes every meeting of the person together with the pdfs
// its notices and referat point at.
func (p *Postgres) DeleteByPerson(ctx context.Context, ident id.PersonIdent) (int, error) {
	db := p.conn(ctx)
	var moteIDs []int64
	err := db.QueryRowContext(ctx, `
		SELECT COALESCE(array_agg(mote_id), '{}') FROM motedeltaker_arbeidstaker WHERE personident = $1`,
		string(ident)).Scan(pq.Array(&moteIDs))
	if err != nil {
		return 0, fmt.Errorf("find motes by person: %w", err)
	}
	if len(moteIDs) == 0 {
		return 0, nil
	}

	var pdfIDs []int64
	err = db.QueryRowContext(ctx, `
		SELECT COALESCE(array_agg(DISTINCT pdf_id), '{}') FROM (
			SELECT pdf_id FROM varsel WHERE mote_id = ANY($1)
			UNION
			SELECT pdf_id FROM referat WHERE mote_id = ANY($1) AND pdf_id IS NOT NULL
		) pdfs`, pq.Array(moteIDs)).Scan(pq.Array(&pdfIDs))
	if err != nil {
		return 0, fmt.Errorf("find pdfs by person: %w", err)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM mote WHERE id = ANY($1)`, pq.Array(moteIDs)); err != nil {
		return 0, fmt.Errorf("delete motes: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM pdf WHERE id = ANY($1)`, pq.Array(pdfIDs)); err != nil {
		return 0, fmt.Errorf("delete pdfs: %w", err)
	}
	return len(moteIDs), nil
}

// execOne runs an update that must touch exactly one row.
func (p *Postgres) execOne(ctx context.Context, op, query string, args ...any) error {
	res, err := p.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return mapErr(err, op)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (p *Postgres) varselExists(ctx context.Context, varselUUID uuid.UUID) error {
	var exists bool
	err := p.conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM varsel WHERE uuid = $1)`, varselUUID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("lookup varsel: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return nil
}

func documentOrEmpty(doc []models.DocumentComponent) []models.DocumentComponent {
	if doc == nil {
		return []models.DocumentComponent{}
	}
	return doc
}

func andreOrEmpty(a []models.AnnenDeltaker) []models.AnnenDeltaker {
	if a == nil {
		return []models.AnnenDeltaker{}
	}
	return a
}

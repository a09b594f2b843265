package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"isdialogmote/internal/dialogmote/models"
	id "isdialogmote/pkg/domain"
	"isdialogmote/pkg/platform/sentinel"
)

const deliveryQuery = `SELECT ` + varselColumns + `,
	m.uuid, a.personident, g.virksomhetsnummer, p.pdf, ts.tid, ts.sted,
	b.id, b.uuid, b.created_at, b.behandler_ref, b.navn, b.kontor, b.personident, b.mottar_referat, b.deltatt
FROM varsel v
JOIN mote m ON m.id = v.mote_id
JOIN motedeltaker_arbeidstaker a ON a.mote_id = m.id
JOIN motedeltaker_arbeidsgiver g ON g.mote_id = m.id
JOIN pdf p ON p.id = v.pdf_id
LEFT JOIN motedeltaker_behandler b ON b.mote_id = m.id
LEFT JOIN LATERAL (
	SELECT tid, sted FROM tid_sted WHERE mote_id = m.id ORDER BY created_at DESC, id DESC LIMIT 1
) ts ON TRUE
WHERE %s
ORDER BY v.created_at, v.id
LIMIT $1`

func (p *Postgres) ListUnjournalfort(ctx context.Context, limit int) ([]models.VarselDelivery, error) {
	return p.deliveries(ctx, `v.krever_journalforing AND v.journalpost_id IS NULL`, limit)
}

func (p *Postgres) ListUndistributed(ctx context.Context, limit int) ([]models.VarselDelivery, error) {
	return p.deliveries(ctx, `v.distribusjon_type <> ''
		AND v.journalpost_id IS NOT NULL AND v.journalpost_id <> $2
		AND v.distribusjon_kanal IS NULL AND v.distribusjon_bestilling_id IS NULL`,
		limit, models.JournalpostIDFailed)
}

func (p *Postgres) ListUnsentBehandlerMeldinger(ctx context.Context, limit int) ([]models.VarselDelivery, error) {
	return p.deliveries(ctx, `v.krever_behandler_melding AND v.behandler_melding_sent_at IS NULL`, limit)
}

func (p *Postgres) deliveries(ctx context.Context, cond string, limit int, args ...any) ([]models.VarselDelivery, error) {
	rows, err := p.conn(ctx).QueryContext(ctx, fmt.Sprintf(deliveryQuery, cond), append([]any{limit}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	defer rows.Close()

	var out []models.VarselDelivery
	for rows.Next() {
		var (
			d                  models.VarselDelivery
			ident, orgnr       string
			tid                sql.NullTime
			sted               sql.NullString
			bID                sql.NullInt64
			bUUID              uuid.NullUUID
			bCreated           sql.NullTime
			bRef, bNavn, bKont sql.NullString
			bIdent             sql.NullString
			bReferat, bDeltatt sql.NullBool
		)
		v, err := scanVarsel(rows, &d.MoteUUID, &ident, &orgnr, &d.Pdf, &tid, &sted,
			&bID, &bUUID, &bCreated, &bRef, &bNavn, &bKont, &bIdent, &bReferat, &bDeltatt)
		if err != nil {
			return nil, err
		}
		d.Varsel = v
		d.PersonIdent = id.PersonIdent(ident)
		d.Virksomhetsnummer = id.Virksomhetsnummer(orgnr)
		d.Tid = tid.Time
		d.Sted = sted.String
		if bID.Valid {
			b := &models.Behandler{
				ID:            bID.Int64,
				UUID:          bUUID.UUID,
				CreatedAt:     bCreated.Time,
				BehandlerRef:  bRef.String,
				Navn:          bNavn.String,
				Kontor:        bKont.String,
				MottarReferat: bReferat.Bool,
				Deltatt:       bDeltatt.Bool,
			}
			if bIdent.Valid {
				pi := id.PersonIdent(bIdent.String)
				b.PersonIdent = &pi
			}
			d.Behandler = b
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deliveries: %w", err)
	}
	return out, nil
}

// SetJournalpostID records the archive id once. Later calls are no-ops.
func (p *Postgres) SetJournalpostID(ctx context.Context, varselUUID uuid.UUID, journalpostID string, now time.Time) error {
	return p.setOnce(ctx, varselUUID, `
		UPDATE varsel SET journalpost_id = $2, updated_at = $3
		WHERE uuid = $1 AND journalpost_id IS NULL`, journalpostID, now)
}

func (p *Postgres) SetDistribution(ctx context.Context, varselUUID uuid.UUID, channel models.DistributionChannel, orderID *string, now time.Time) error {
	return p.setOnce(ctx, varselUUID, `
		UPDATE varsel SET distribusjon_kanal = $2, distribusjon_bestilling_id = $3, updated_at = $4
		WHERE uuid = $1 AND distribusjon_kanal IS NULL AND distribusjon_bestilling_id IS NULL`,
		string(channel), orderID, now)
}

func (p *Postgres) SetBehandlerMeldingSent(ctx context.Context, varselUUID uuid.UUID, at time.Time) error {
	return p.setOnce(ctx, varselUUID, `
		UPDATE varsel SET behandler_melding_sent_at = $2, updated_at = $2
		WHERE uuid = $1 AND behandler_melding_sent_at IS NULL`, at)
}

func (p *Postgres) setOnce(ctx context.Context, varselUUID uuid.UUID, query string, args ...any) error {
	res, err := p.conn(ctx).ExecContext(ctx, query, append([]any{varselUUID}, args...)...)
	if err != nil {
		return fmt.Errorf("update varsel: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update varsel: %w", err)
	}
	if n > 0 {
		return nil
	}
	return p.varselExists(ctx, varselUUID)
}

func (p *Postgres) ListUnpublishedStatusEndringer(ctx context.Context, limit int) ([]models.StatusEndringRecord, error) {
	rows, err := p.conn(ctx).QueryContext(ctx, `
		SELECT s.id, s.uuid, s.created_at, s.mote_id, s.status, s.opprettet_av, s.motetidspunkt,
		       m.uuid, a.personident, g.virksomhetsnummer, m.tildelt_enhet, m.tildelt_veileder_ident,
		       EXISTS (SELECT 1 FROM motedeltaker_behandler b WHERE b.mote_id = m.id)
		FROM mote_status_endret s
		JOIN mote m ON m.id = s.mote_id
		JOIN motedeltaker_arbeidstaker a ON a.mote_id = m.id
		JOIN motedeltaker_arbeidsgiver g ON g.mote_id = m.id
		WHERE s.published_at IS NULL
		ORDER BY s.created_at, s.id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query status endringer: %w", err)
	}
	defer rows.Close()

	var out []models.StatusEndringRecord
	for rows.Next() {
		var (
			r                                     models.StatusEndringRecord
			status, av, ident, orgnr, enhet, veil string
		)
		if err := rows.Scan(&r.ID, &r.UUID, &r.CreatedAt, &r.MoteID, &status, &av, &r.Motetidspunkt,
			&r.MoteUUID, &ident, &orgnr, &enhet, &veil, &r.HasBehandler); err != nil {
			return nil, fmt.Errorf("scan status endring: %w", err)
		}
		r.Status = models.Status(status)
		r.OpprettetAv = id.NavIdent(av)
		r.PersonIdent = id.PersonIdent(ident)
		r.Virksomhetsnummer = id.Virksomhetsnummer(orgnr)
		r.EnhetNr = id.EnhetNr(enhet)
		r.TildeltVeileder = id.NavIdent(veil)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status endringer: %w", err)
	}
	return out, nil
}

func (p *Postgres) SetStatusEndringPublished(ctx context.Context, statusEndringID int64, at time.Time) error {
	return p.markPublished(ctx, "mote_status_endret", statusEndringID, at)
}

func (p *Postgres) ListUnpublishedSvar(ctx context.Context, limit int) ([]models.DialogmotesvarRecord, error) {
	rows, err := p.conn(ctx).QueryContext(ctx, `
		SELECT s.id, s.uuid, s.created_at, s.mote_id, s.varsel_uuid, s.motedeltaker_type, s.svar_type, s.svar_tekst,
		       m.uuid, a.personident, g.virksomhetsnummer, v.created_at
		FROM motesvar s
		JOIN mote m ON m.id = s.mote_id
		JOIN motedeltaker_arbeidstaker a ON a.mote_id = m.id
		JOIN motedeltaker_arbeidsgiver g ON g.mote_id = m.id
		JOIN varsel v ON v.uuid = s.varsel_uuid
		WHERE s.published_at IS NULL
		ORDER BY s.created_at, s.id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query motesvar: %w", err)
	}
	defer rows.Close()

	var out []models.DialogmotesvarRecord
	for rows.Next() {
		var (
			r                                models.DialogmotesvarRecord
			deltaker, svarType, ident, orgnr string
			tekst                            sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.UUID, &r.CreatedAt, &r.MoteID, &r.VarselUUID, &deltaker, &svarType, &tekst,
			&r.MoteUUID, &ident, &orgnr, &r.VarselSentAt); err != nil {
			return nil, fmt.Errorf("scan motesvar: %w", err)
		}
		r.ParticipantType = models.ParticipantType(deltaker)
		r.SvarType = models.SvarType(svarType)
		r.SvarTekst = nullString(tekst)
		r.PersonIdent = id.PersonIdent(ident)
		r.Virksomhetsnummer = id.Virksomhetsnummer(orgnr)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate motesvar: %w", err)
	}
	return out, nil
}

func (p *Postgres) SetSvarPublished(ctx context.Context, svarID int64, at time.Time) error {
	return p.markPublished(ctx, "motesvar", svarID, at)
}

// markPublished sets published_at once; table is always a constant.
func (p *Postgres) markPublished(ctx context.Context, table string, rowID int64, at time.Time) error {
	res, err := p.conn(ctx).ExecContext(ctx,
		`UPDATE `+table+` SET published_at = $2 WHERE id = $1 AND published_at IS NULL`, rowID, at)
	if err != nil {
		return fmt.Errorf("mark %s published: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark %s published: %w", table, err)
	}
	if n > 0 {
		return nil
	}
	var exists bool
	if err := p.conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, rowID).Scan(&exists); err != nil {
		return fmt.Errorf("lookup %s: %w", table, err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return nil
}

// ListOutdated returns open meetings whose latest time is before cutoff,
// plus the open meetings among include.
func (p *Postgres) ListOutdated(ctx context.Context, cutoff time.Time, include []uuid.UUID, limit int) ([]uuid.UUID, error) {
	includeStr := make([]string, 0, len(include))
	for _, u := range include {
		includeStr = append(includeStr, u.String())
	}
	rows, err := p.conn(ctx).QueryContext(ctx, `
		SELECT m.uuid FROM mote m
		LEFT JOIN LATERAL (
			SELECT tid FROM tid_sted WHERE mote_id = m.id ORDER BY created_at DESC, id DESC LIMIT 1
		) ts ON TRUE
		WHERE m.status = ANY($1) AND (ts.tid < $2 OR m.uuid = ANY($3::uuid[]))
		ORDER BY m.created_at, m.id
		LIMIT $4`,
		pq.Array([]string{string(models.StatusInnkalt), string(models.StatusNyttTidSted)}),
		cutoff, pq.Array(includeStr), limit)
	if err != nil {
		return nil, fmt.Errorf("query outdated: %w", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var u uuid.UUID
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan outdated: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// StatusEndringer returns the status log of one meeting, oldest first.
func (p *Postgres) StatusEndringer(ctx context.Context, moteUUID uuid.UUID) ([]models.StatusEndring, error) {
	var moteID int64
	err := p.conn(ctx).QueryRowContext(ctx, `SELECT id FROM mote WHERE uuid = $1`, moteUUID).Scan(&moteID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup mote: %w", err)
	}
	rows, err := p.conn(ctx).QueryContext(ctx, `
		SELECT id, uuid, created_at, mote_id, status, opprettet_av, motetidspunkt, published_at
		FROM mote_status_endret WHERE mote_id = $1 ORDER BY id`, moteID)
	if err != nil {
		return nil, fmt.Errorf("query status endringer: %w", err)
	}
	defer rows.Close()

	var out []models.StatusEndring
	for rows.Next() {
		var (
			se         models.StatusEndring
			status, av string
			published  sql.NullTime
		)
		if err := rows.Scan(&se.ID, &se.UUID, &se.CreatedAt, &se.MoteID, &status, &av, &se.Motetidspunkt, &published); err != nil {
			return nil, fmt.Errorf("scan status endring: %w", err)
		}
		se.Status = models.Status(status)
		se.OpprettetAv = id.NavIdent(av)
		se.PublishedAt = nullTime(published)
		out = append(out, se)
	}
	return out, rows.Err()
}

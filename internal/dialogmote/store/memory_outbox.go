package store

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/pkg/platform/sentinel"
)

func (m *Memory) ListUnjournalfort(_ context.Context, limit int) ([]models.VarselDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deliveries(limit, func(v models.Varsel) bool { return v.NeedsJournalforing() }), nil
}

func (m *Memory) ListUndistributed(_ context.Context, limit int) ([]models.VarselDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deliveries(limit, func(v models.Varsel) bool { return v.NeedsDistribution() }), nil
}

func (m *Memory) ListUnsentBehandlerMeldinger(_ context.Context, limit int) ([]models.VarselDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deliveries(limit, func(v models.Varsel) bool { return v.NeedsBehandlerMelding() }), nil
}

// SetJournalpostID is write-once; a second call leaves the first value.
func (m *Memory) SetJournalpostID(_ context.Context, varselUUID uuid.UUID, journalpostID string, now time.Time) error {
	return m.updateVarsel(varselUUID, func(v *models.Varsel) bool {
		if v.JournalpostID != nil {
			return false
		}
		v.JournalpostID = &journalpostID
		v.UpdatedAt = now
		return true
	})
}

// SetDistribution is write-once; orderID is nil when distribution was
// suppressed.
func (m *Memory) SetDistribution(_ context.Context, varselUUID uuid.UUID, channel models.DistributionChannel, orderID *string, now time.Time) error {
	return m.updateVarsel(varselUUID, func(v *models.Varsel) bool {
		if v.DistributionChannel != nil || v.DistributionOrderID != nil {
			return false
		}
		v.DistributionChannel = &channel
		v.DistributionOrderID = orderID
		v.UpdatedAt = now
		return true
	})
}

func (m *Memory) SetBehandlerMeldingSent(_ context.Context, varselUUID uuid.UUID, at time.Time) error {
	return m.updateVarsel(varselUUID, func(v *models.Varsel) bool {
		if v.BehandlerMeldingSentAt != nil {
			return false
		}
		v.BehandlerMeldingSentAt = &at
		v.UpdatedAt = at
		return true
	})
}

func (m *Memory) ListUnpublishedStatusEndringer(_ context.Context, limit int) ([]models.StatusEndringRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []models.StatusEndring
	for _, se := range m.statusEndringer {
		if se.PublishedAt == nil {
			rows = append(rows, se)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return olderFirst(rows[i].CreatedAt, rows[j].CreatedAt, rows[i].ID, rows[j].ID) })
	rows = truncate(rows, limit)

	out := make([]models.StatusEndringRecord, 0, len(rows))
	for _, se := range rows {
		mote := m.motes[se.MoteID]
		_, hasBehandler := m.behandlere[se.MoteID]
		out = append(out, models.StatusEndringRecord{
			StatusEndring:     se,
			MoteUUID:          mote.UUID,
			PersonIdent:       m.arbeidstakere[se.MoteID].PersonIdent,
			Virksomhetsnummer: m.arbeidsgivere[se.MoteID].Virksomhetsnummer,
			EnhetNr:           mote.TildeltEnhet,
			TildeltVeileder:   mote.TildeltVeileder,
			HasBehandler:      hasBehandler,
		})
	}
	return out, nil
}

func (m *Memory) SetStatusEndringPublished(_ context.Context, statusEndringID int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	se, ok := m.statusEndringer[statusEndringID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if se.PublishedAt == nil {
		se.PublishedAt = &at
		m.statusEndringer[statusEndringID] = se
	}
	return nil
}

func (m *Memory) ListUnpublishedSvar(_ context.Context, limit int) ([]models.DialogmotesvarRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []models.Dialogmotesvar
	for _, s := range m.svar {
		if s.PublishedAt == nil {
			rows = append(rows, s)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return olderFirst(rows[i].CreatedAt, rows[j].CreatedAt, rows[i].ID, rows[j].ID) })
	rows = truncate(rows, limit)

	out := make([]models.DialogmotesvarRecord, 0, len(rows))
	for _, s := range rows {
		rec := models.DialogmotesvarRecord{
			Dialogmotesvar:    s,
			MoteUUID:          m.motes[s.MoteID].UUID,
			PersonIdent:       m.arbeidstakere[s.MoteID].PersonIdent,
			Virksomhetsnummer: m.arbeidsgivere[s.MoteID].Virksomhetsnummer,
		}
		for _, v := range m.varsler {
			if v.UUID == s.VarselUUID {
				rec.VarselSentAt = v.CreatedAt
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *Memory) SetSvarPublished(_ context.Context, svarID int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.svar[svarID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if s.PublishedAt == nil {
		s.PublishedAt = &at
		m.svar[svarID] = s
	}
	return nil
}

// ListOutdated returns open meetings whose latest time is before cutoff,
// plus the open meetings among include.
func (m *Memory) ListOutdated(_ context.Context, cutoff time.Time, include []uuid.UUID, limit int) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var motes []*models.Dialogmote
	for moteID, mote := range m.motes {
		if !mote.Status.IsOpen() {
			continue
		}
		full := m.assemble(moteID)
		if full.LatestTidSted().Tid.Before(cutoff) || slices.Contains(include, mote.UUID) {
			motes = append(motes, full)
		}
	}
	sort.Slice(motes, func(i, j int) bool {
		return olderFirst(motes[i].CreatedAt, motes[j].CreatedAt, motes[i].ID, motes[j].ID)
	})
	motes = truncate(motes, limit)
	out := make([]uuid.UUID, 0, len(motes))
	for _, mote := range motes {
		out = append(out, mote.UUID)
	}
	return out, nil
}

// StatusEndringer returns the status log of one meeting, oldest first.
func (m *Memory) StatusEndringer(_ context.Context, moteUUID uuid.UUID) ([]models.StatusEndring, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	moteID, ok := m.moteByUUID[moteUUID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	var out []models.StatusEndring
	for _, se := range m.statusEndringer {
		if se.MoteID == moteID {
			out = append(out, se)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) deliveries(limit int, match func(models.Varsel) bool) []models.VarselDelivery {
	var rows []models.Varsel
	for _, v := range m.varsler {
		if match(v) {
			rows = append(rows, v)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return olderFirst(rows[i].CreatedAt, rows[j].CreatedAt, rows[i].ID, rows[j].ID) })
	rows = truncate(rows, limit)

	out := make([]models.VarselDelivery, 0, len(rows))
	for _, v := range rows {
		mote := m.assemble(v.MoteID)
		latest := mote.LatestTidSted()
		d := models.VarselDelivery{
			Varsel:            v,
			MoteUUID:          mote.UUID,
			PersonIdent:       mote.Arbeidstaker.PersonIdent,
			Virksomhetsnummer: mote.Arbeidsgiver.Virksomhetsnummer,
			Behandler:         mote.Behandler,
			Tid:               latest.Tid,
			Sted:              latest.Sted,
			Pdf:               slices.Clone(m.pdfs[v.PdfID]),
		}
		out = append(out, d)
	}
	return out
}

func (m *Memory) updateVarsel(varselUUID uuid.UUID, fn func(v *models.Varsel) bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for varselID, v := range m.varsler {
		if v.UUID != varselUUID {
			continue
		}
		if fn(&v) {
			m.varsler[varselID] = v
		}
		return nil
	}
	return sentinel.ErrNotFound
}

func olderFirst(a, b time.Time, aID, bID int64) bool {
	if a.Equal(b) {
		return aID < bID
	}
	return a.Before(b)
}

func truncate[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

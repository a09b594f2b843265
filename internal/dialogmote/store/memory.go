package store

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/service"
	id "isdialogmote/pkg/domain"
	"isdialogmote/pkg/platform/sentinel"
)

// Memory is an in-memory store with the same semantics as Postgres. A
// single mutex serialises transactions; a failed transaction restores the
// tables it started with. Rows are never mutated in place, so a shallow
// copy of each table is a consistent snapshot.
type Memory struct {
	mu  sync.Mutex
	seq int64

	motes           map[int64]models.Dialogmote
	moteByUUID      map[uuid.UUID]int64
	arbeidstakere   map[int64]models.Arbeidstaker // by mote id
	arbeidsgivere   map[int64]models.Arbeidsgiver // by mote id
	behandlere      map[int64]models.Behandler    // by mote id
	tidSted         map[int64][]models.TidSted    // by mote id
	referater       map[int64]models.Referat      // by mote id
	varsler         map[int64]models.Varsel
	pdfs            map[int64][]byte
	statusEndringer map[int64]models.StatusEndring
	svar            map[int64]models.Dialogmotesvar
}

func NewMemory() *Memory {
	return &Memory{
		motes:           make(map[int64]models.Dialogmote),
		moteByUUID:      make(map[uuid.UUID]int64),
		arbeidstakere:   make(map[int64]models.Arbeidstaker),
		arbeidsgivere:   make(map[int64]models.Arbeidsgiver),
		behandlere:      make(map[int64]models.Behandler),
		tidSted:         make(map[int64][]models.TidSted),
		referater:       make(map[int64]models.Referat),
		varsler:         make(map[int64]models.Varsel),
		pdfs:            make(map[int64][]byte),
		statusEndringer: make(map[int64]models.StatusEndring),
		svar:            make(map[int64]models.Dialogmotesvar),
	}
}

type memorySnapshot struct {
	seq             int64
	motes           map[int64]models.Dialogmote
	moteByUUID      map[uuid.UUID]int64
	arbeidstakere   map[int64]models.Arbeidstaker
	arbeidsgivere   map[int64]models.Arbeidsgiver
	behandlere      map[int64]models.Behandler
	tidSted         map[int64][]models.TidSted
	referater       map[int64]models.Referat
	varsler         map[int64]models.Varsel
	pdfs            map[int64][]byte
	statusEndringer map[int64]models.StatusEndring
	svar            map[int64]models.Dialogmotesvar
}

func (m *Memory) snapshot() memorySnapshot {
	return memorySnapshot{
		seq:             m.seq,
		motes:           maps.Clone(m.motes),
		moteByUUID:      maps.Clone(m.moteByUUID),
		arbeidstakere:   maps.Clone(m.arbeidstakere),
		arbeidsgivere:   maps.Clone(m.arbeidsgivere),
		behandlere:      maps.Clone(m.behandlere),
		tidSted:         maps.Clone(m.tidSted),
		referater:       maps.Clone(m.referater),
		varsler:         maps.Clone(m.varsler),
		pdfs:            maps.Clone(m.pdfs),
		statusEndringer: maps.Clone(m.statusEndringer),
		svar:            maps.Clone(m.svar),
	}
}

func (m *Memory) restore(s memorySnapshot) {
	m.seq = s.seq
	m.motes = s.motes
	m.moteByUUID = s.moteByUUID
	m.arbeidstakere = s.arbeidstakere
	m.arbeidsgivere = s.arbeidsgivere
	m.behandlere = s.behandlere
	m.tidSted = s.tidSted
	m.referater = s.referater
	m.varsler = s.varsler
	m.pdfs = s.pdfs
	m.statusEndringer = s.statusEndringer
	m.svar = s.svar
}

func (m *Memory) nextID() int64 {
	m.seq++
	return m.seq
}

// RunInTx runs fn under the store lock and rolls back on error.
func (m *Memory) RunInTx(ctx context.Context, fn func(ctx context.Context, tx service.TxStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := m.snapshot()
	if err := fn(ctx, &memoryTx{m: m}); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *Memory) Get(_ context.Context, moteUUID uuid.UUID) (*models.Dialogmote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(moteUUID)
}

func (m *Memory) GetByVarselUUID(_ context.Context, varselUUID uuid.UUID) (*models.Dialogmote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.varsler {
		if v.UUID == varselUUID {
			return m.assemble(v.MoteID), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (m *Memory) ListByPerson(_ context.Context, ident id.PersonIdent) ([]*models.Dialogmote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Dialogmote
	for moteID, at := range m.arbeidstakere {
		if at.PersonIdent == ident {
			out = append(out, m.assemble(moteID))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *Memory) ListByEnhet(_ context.Context, enhet id.EnhetNr) ([]*models.Dialogmote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Dialogmote
	for moteID, mote := range m.motes {
		if mote.TildeltEnhet == enhet {
			out = append(out, m.assemble(moteID))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(motes []*models.Dialogmote) {
	sort.Slice(motes, func(i, j int) bool {
		if motes[i].CreatedAt.Equal(motes[j].CreatedAt) {
			return motes[i].ID > motes[j].ID
		}
		return motes[i].CreatedAt.After(motes[j].CreatedAt)
	})
}

func (m *Memory) getLocked(moteUUID uuid.UUID) (*models.Dialogmote, error) {
	moteID, ok := m.moteByUUID[moteUUID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return m.assemble(moteID), nil
}

// assemble builds a detached aggregate from the row tables.
func (m *Memory) assemble(moteID int64) *models.Dialogmote {
	mote := m.motes[moteID]
	mote.Arbeidstaker = m.arbeidstakere[moteID]
	mote.Arbeidsgiver = m.arbeidsgivere[moteID]
	if b, ok := m.behandlere[moteID]; ok {
		mote.Behandler = &b
	}
	mote.TidSted = slices.Clone(m.tidSted[moteID])
	if r, ok := m.referater[moteID]; ok {
		mote.Referat = &r
	}

	varsler := make([]models.Varsel, 0)
	for _, v := range m.varsler {
		if v.MoteID == moteID {
			varsler = append(varsler, v)
		}
	}
	sort.Slice(varsler, func(i, j int) bool { return varsler[i].ID < varsler[j].ID })
	for _, v := range varsler {
		switch v.ParticipantType {
		case models.ParticipantArbeidstaker:
			mote.Arbeidstaker.Varsler = append(mote.Arbeidstaker.Varsler, v)
		case models.ParticipantArbeidsgiver:
			mote.Arbeidsgiver.Varsler = append(mote.Arbeidsgiver.Varsler, v)
		case models.ParticipantBehandler:
			if mote.Behandler != nil {
				mote.Behandler.Varsler = append(mote.Behandler.Varsler, v)
			}
		}
	}
	return &mote
}

// memoryTx runs with Memory.mu held.
type memoryTx struct {
	m *Memory
}

func (t *memoryTx) Create(_ context.Context, mote *models.Dialogmote) error {
	m := t.m
	if _, exists := m.moteByUUID[mote.UUID]; exists {
		return sentinel.ErrConflict
	}
	mote.ID = m.nextID()
	row := *mote
	row.Arbeidstaker, row.Arbeidsgiver, row.Behandler, row.TidSted, row.Referat =
		models.Arbeidstaker{}, models.Arbeidsgiver{}, nil, nil, nil
	m.motes[mote.ID] = row
	m.moteByUUID[mote.UUID] = mote.ID

	mote.Arbeidstaker.ID = m.nextID()
	m.arbeidstakere[mote.ID] = withoutVarsler(mote.Arbeidstaker)
	mote.Arbeidsgiver.ID = m.nextID()
	ag := mote.Arbeidsgiver
	ag.Varsler = nil
	m.arbeidsgivere[mote.ID] = ag
	if mote.Behandler != nil {
		mote.Behandler.ID = m.nextID()
		b := *mote.Behandler
		b.Varsler = nil
		m.behandlere[mote.ID] = b
	}
	for i := range mote.TidSted {
		mote.TidSted[i].ID = m.nextID()
		mote.TidSted[i].MoteID = mote.ID
	}
	m.tidSted[mote.ID] = slices.Clone(mote.TidSted)
	return nil
}

func withoutVarsler(a models.Arbeidstaker) models.Arbeidstaker {
	a.Varsler = nil
	return a
}

func (t *memoryTx) GetForUpdate(_ context.Context, moteUUID uuid.UUID) (*models.Dialogmote, error) {
	return t.m.getLocked(moteUUID)
}

func (t *memoryTx) AddTidSted(_ context.Context, ts *models.TidSted) error {
	m := t.m
	if _, ok := m.motes[ts.MoteID]; !ok {
		return sentinel.ErrNotFound
	}
	ts.ID = m.nextID()
	m.tidSted[ts.MoteID] = append(slices.Clone(m.tidSted[ts.MoteID]), *ts)
	return nil
}

func (t *memoryTx) UpdateStatus(_ context.Context, moteID int64, status models.Status, now time.Time) error {
	mote, ok := t.m.motes[moteID]
	if !ok {
		return sentinel.ErrNotFound
	}
	mote.Status = status
	mote.UpdatedAt = now
	t.m.motes[moteID] = mote
	return nil
}

func (t *memoryTx) UpdateVeileder(_ context.Context, moteID int64, veileder id.NavIdent, now time.Time) error {
	mote, ok := t.m.motes[moteID]
	if !ok {
		return sentinel.ErrNotFound
	}
	mote.TildeltVeileder = veileder
	mote.UpdatedAt = now
	t.m.motes[moteID] = mote
	return nil
}

func (t *memoryTx) UpdateBehandler(_ context.Context, b *models.Behandler) error {
	for moteID, existing := range t.m.behandlere {
		if existing.ID == b.ID {
			existing.Deltatt = b.Deltatt
			existing.MottarReferat = b.MottarReferat
			t.m.behandlere[moteID] = existing
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (t *memoryTx) AddStatusEndring(_ context.Context, se *models.StatusEndring) error {
	se.ID = t.m.nextID()
	t.m.statusEndringer[se.ID] = *se
	return nil
}

func (t *memoryTx) AddPdf(_ context.Context, pdf []byte, _ time.Time) (int64, error) {
	pdfID := t.m.nextID()
	t.m.pdfs[pdfID] = slices.Clone(pdf)
	return pdfID, nil
}

func (t *memoryTx) AddVarsel(_ context.Context, v *models.Varsel) error {
	v.ID = t.m.nextID()
	t.m.varsler[v.ID] = *v
	return nil
}

func (t *memoryTx) SaveReferat(_ context.Context, r *models.Referat) error {
	if existing, ok := t.m.referater[r.MoteID]; ok {
		if existing.Ferdigstilt {
			return sentinel.ErrConflict
		}
		r.ID = existing.ID
	} else if r.ID == 0 {
		r.ID = t.m.nextID()
	}
	t.m.referater[r.MoteID] = *r
	return nil
}

func (t *memoryTx) AddSvar(_ context.Context, s *models.Dialogmotesvar) error {
	for _, existing := range t.m.svar {
		if existing.VarselUUID == s.VarselUUID {
			return sentinel.ErrConflict
		}
	}
	s.ID = t.m.nextID()
	t.m.svar[s.ID] = *s
	return nil
}

func (t *memoryTx) CountSvar(_ context.Context, varselUUID uuid.UUID) (int, error) {
	n := 0
	for _, s := range t.m.svar {
		if s.VarselUUID == varselUUID {
			n++
		}
	}
	return n, nil
}

func (t *memoryTx) MarkVarselLest(_ context.Context, varselUUID uuid.UUID, at time.Time) (bool, error) {
	for varselID, v := range t.m.varsler {
		if v.UUID != varselUUID {
			continue
		}
		if v.LestAt != nil {
			return false, nil
		}
		v.LestAt = &at
		v.UpdatedAt = at
		t.m.varsler[varselID] = v
		return true, nil
	}
	return false, sentinel.ErrNotFound
}

func (t *memoryTx) UpdatePersonIdent(_ context.Context, from, to id.PersonIdent) (int, error) {
	n := 0
	for moteID, at := range t.m.arbeidstakere {
		if at.PersonIdent == from {
			at.PersonIdent = to
			t.m.arbeidstakere[moteID] = at
			n++
		}
	}
	return n, nil
}

func (t *memoryTx) DeleteByPerson(_ context.Context, ident id.PersonIdent) (int, error) {
	m := t.m
	n := 0
	for moteID, at := range m.arbeidstakere {
		if at.PersonIdent != ident {
			continue
		}
		moteUUID := m.motes[moteID].UUID
		delete(m.moteByUUID, moteUUID)
		delete(m.motes, moteID)
		delete(m.arbeidstakere, moteID)
		delete(m.arbeidsgivere, moteID)
		delete(m.behandlere, moteID)
		delete(m.tidSted, moteID)
		delete(m.referater, moteID)
		for varselID, v := range m.varsler {
			if v.MoteID == moteID {
				delete(m.pdfs, v.PdfID)
				delete(m.varsler, varselID)
			}
		}
		for seID, se := range m.statusEndringer {
			if se.MoteID == moteID {
				delete(m.statusEndringer, seID)
			}
		}
		for svarID, s := range m.svar {
			if s.MoteID == moteID {
				delete(m.svar, svarID)
			}
		}
		n++
	}
	return n, nil
}

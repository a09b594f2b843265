package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	id "isdialogmote/pkg/domain"
	dErrors "isdialogmote/pkg/domain-errors"
)

// TidSted is one revision of when and where the meeting takes place. The
// latest revision is authoritative; earlier ones are kept as history.
type TidSted struct {
	ID        int64
	UUID      uuid.UUID
	CreatedAt time.Time
	MoteID    int64
	Sted      string
	Tid       time.Time
	VideoLink string
}

// NewTidSted validates a time and place revision.
func NewTidSted(sted string, tid time.Time, videoLink string, now time.Time) (TidSted, error) {
	sted = strings.TrimSpace(sted)
	if sted == "" {
		return TidSted{}, dErrors.New(dErrors.CodeInvariantViolation, "sted cannot be empty")
	}
	if len(sted) > 255 {
		return TidSted{}, dErrors.New(dErrors.CodeInvariantViolation, "sted must be 255 characters or less")
	}
	if tid.IsZero() {
		return TidSted{}, dErrors.New(dErrors.CodeInvariantViolation, "tid is required")
	}
	return TidSted{
		UUID:      uuid.New(),
		CreatedAt: now,
		Sted:      sted,
		Tid:       tid,
		VideoLink: strings.TrimSpace(videoLink),
	}, nil
}

// Dialogmote is the aggregate root for a follow-up meeting.
//
// Invariants:
//   - exactly one Arbeidstaker and one Arbeidsgiver, at most one Behandler
//   - at least one TidSted
//   - Status moves only along Status.CanTransitionTo; terminal statuses never change
type Dialogmote struct {
	ID              int64
	UUID            uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Status          Status
	OpprettetAv     id.NavIdent
	TildeltVeileder id.NavIdent
	TildeltEnhet    id.EnhetNr
	Arbeidstaker    Arbeidstaker
	Arbeidsgiver    Arbeidsgiver
	Behandler       *Behandler
	TidSted         []TidSted
	Referat         *Referat
}

// NewDialogmote builds an INNKALT meeting with its first time and place.
func NewDialogmote(
	opprettetAv id.NavIdent,
	enhet id.EnhetNr,
	arbeidstaker Arbeidstaker,
	arbeidsgiver Arbeidsgiver,
	behandler *Behandler,
	tidSted TidSted,
	now time.Time,
) (*Dialogmote, error) {
	if arbeidstaker.PersonIdent == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "arbeidstaker is required")
	}
	if arbeidsgiver.Virksomhetsnummer == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "arbeidsgiver is required")
	}
	if behandler != nil && strings.TrimSpace(behandler.BehandlerRef) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "behandler reference is required")
	}
	if tidSted.Tid.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tid and sted are required")
	}

	arbeidstaker.UUID = uuid.New()
	arbeidstaker.CreatedAt = now
	arbeidsgiver.UUID = uuid.New()
	arbeidsgiver.CreatedAt = now
	if behandler != nil {
		b := *behandler
		b.UUID = uuid.New()
		b.CreatedAt = now
		behandler = &b
	}

	return &Dialogmote{
		UUID:            uuid.New(),
		CreatedAt:       now,
		UpdatedAt:       now,
		Status:          StatusInnkalt,
		OpprettetAv:     opprettetAv,
		TildeltVeileder: opprettetAv,
		TildeltEnhet:    enhet,
		Arbeidstaker:    arbeidstaker,
		Arbeidsgiver:    arbeidsgiver,
		Behandler:       behandler,
		TidSted:         []TidSted{tidSted},
	}, nil
}

// LatestTidSted returns the authoritative time and place.
func (m *Dialogmote) LatestTidSted() TidSted {
	if len(m.TidSted) == 0 {
		return TidSted{}
	}
	latest := m.TidSted[0]
	for _, ts := range m.TidSted[1:] {
		if !ts.CreatedAt.Before(latest.CreatedAt) {
			latest = ts
		}
	}
	return latest
}

// CanTransitionTo returns a conflict error when next is not reachable from the
// current status.
func (m *Dialogmote) CanTransitionTo(next Status) error {
	if m.Status.IsTerminal() {
		return dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("dialogmote is %s and cannot change status", m.Status))
	}
	if !m.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("dialogmote cannot go from %s to %s", m.Status, next))
	}
	return nil
}

// ApplyStatus sets the status. Call CanTransitionTo first.
func (m *Dialogmote) ApplyStatus(next Status, now time.Time) {
	m.Status = next
	m.UpdatedAt = now
}

// ApplyTidSted appends a new authoritative time and place.
func (m *Dialogmote) ApplyTidSted(ts TidSted, now time.Time) {
	ts.MoteID = m.ID
	m.TidSted = append(m.TidSted, ts)
	m.UpdatedAt = now
}

// Participants returns the present participants in a fixed order.
func (m *Dialogmote) Participants() []Participant {
	ps := []Participant{&m.Arbeidstaker, &m.Arbeidsgiver}
	if m.Behandler != nil {
		ps = append(ps, m.Behandler)
	}
	return ps
}

// Participant returns the participant with the given tag, or nil.
func (m *Dialogmote) Participant(t ParticipantType) Participant {
	switch t {
	case ParticipantArbeidstaker:
		return &m.Arbeidstaker
	case ParticipantArbeidsgiver:
		return &m.Arbeidsgiver
	case ParticipantBehandler:
		if m.Behandler != nil {
			return m.Behandler
		}
	}
	return nil
}

// FindVarsel looks up a notice by uuid across all participants.
func (m *Dialogmote) FindVarsel(varselUUID uuid.UUID) (*Varsel, bool) {
	for _, p := range m.Participants() {
		notices := p.Notices()
		for i := range notices {
			if notices[i].UUID == varselUUID {
				return &notices[i], true
			}
		}
	}
	return nil, false
}

// LatestVarsel returns the newest notice of the participant, if any.
func (m *Dialogmote) LatestVarsel(t ParticipantType) (*Varsel, bool) {
	p := m.Participant(t)
	if p == nil {
		return nil, false
	}
	notices := p.Notices()
	if len(notices) == 0 {
		return nil, false
	}
	latest := &notices[0]
	for i := range notices[1:] {
		if !notices[i+1].CreatedAt.Before(latest.CreatedAt) {
			latest = &notices[i+1]
		}
	}
	return latest, true
}

// ReferatJournalpostID returns the archive id of the minutes as sent to the
// given participant. Each participant has an independent archival lifecycle.
func (m *Dialogmote) ReferatJournalpostID(t ParticipantType) *string {
	p := m.Participant(t)
	if p == nil {
		return nil
	}
	for _, v := range p.Notices() {
		if v.Type == VarselTypeReferat {
			return v.JournalpostID
		}
	}
	return nil
}

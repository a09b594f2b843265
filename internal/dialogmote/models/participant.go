package models

import (
	"time"

	"github.com/google/uuid"

	id "isdialogmote/pkg/domain"
)

// Participant is the capability shared by the three participant variants.
// Code that needs variant-specific behaviour switches on ParticipantType.
type Participant interface {
	ParticipantType() ParticipantType
	ParticipantID() int64
	Notices() []Varsel
}

// Arbeidstaker is the employee on sick leave. The ident can change through an
// identity merge.
type Arbeidstaker struct {
	ID          int64
	UUID        uuid.UUID
	CreatedAt   time.Time
	PersonIdent id.PersonIdent
	Varsler     []Varsel
}

func (a *Arbeidstaker) ParticipantType() ParticipantType { return ParticipantArbeidstaker }
func (a *Arbeidstaker) ParticipantID() int64             { return a.ID }
func (a *Arbeidstaker) Notices() []Varsel                { return a.Varsler }

// Arbeidsgiver is the employer. Leader contact fields are optional.
type Arbeidsgiver struct {
	ID                int64
	UUID              uuid.UUID
	CreatedAt         time.Time
	Virksomhetsnummer id.Virksomhetsnummer
	LederNavn         *string
	LederEpost        *string
	Varsler           []Varsel
}

func (a *Arbeidsgiver) ParticipantType() ParticipantType { return ParticipantArbeidsgiver }
func (a *Arbeidsgiver) ParticipantID() int64             { return a.ID }
func (a *Arbeidsgiver) Notices() []Varsel                { return a.Varsler }

// Behandler is the optional health-care provider.
type Behandler struct {
	ID            int64
	UUID          uuid.UUID
	CreatedAt     time.Time
	BehandlerRef  string
	Navn          string
	Kontor        string
	PersonIdent   *id.PersonIdent
	MottarReferat bool
	Deltatt       bool
	Varsler       []Varsel
}

func (b *Behandler) ParticipantType() ParticipantType { return ParticipantBehandler }
func (b *Behandler) ParticipantID() int64             { return b.ID }
func (b *Behandler) Notices() []Varsel                { return b.Varsler }

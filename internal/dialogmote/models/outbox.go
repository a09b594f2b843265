package models

import (
	"time"

	"github.com/google/uuid"

	id "isdialogmote/pkg/domain"
)

// StatusEndring is the immutable status-log row written by every transition.
// PublishedAt is set once, after the event bus confirmed the send.
type StatusEndring struct {
	ID            int64
	UUID          uuid.UUID
	CreatedAt     time.Time
	MoteID        int64
	Status        Status
	OpprettetAv   id.NavIdent
	Motetidspunkt time.Time
	PublishedAt   *time.Time
}

// StatusEndringRecord is a status-log row joined with the meeting fields the
// published event carries.
type StatusEndringRecord struct {
	StatusEndring
	MoteUUID          uuid.UUID
	PersonIdent       id.PersonIdent
	Virksomhetsnummer id.Virksomhetsnummer
	EnhetNr           id.EnhetNr
	TildeltVeileder   id.NavIdent
	HasBehandler      bool
}

// SvarType is a participant's reply to a notice.
type SvarType string

const (
	SvarKommer      SvarType = "KOMMER"
	SvarNyttTidSted SvarType = "NYTT_TID_STED"
	SvarKommerIkke  SvarType = "KOMMER_IKKE"
)

func (s SvarType) IsValid() bool {
	return s == SvarKommer || s == SvarNyttTidSted || s == SvarKommerIkke
}

// Dialogmotesvar is a participant's reply. One per notice.
type Dialogmotesvar struct {
	ID              int64
	UUID            uuid.UUID
	CreatedAt       time.Time
	MoteID          int64
	VarselUUID      uuid.UUID
	ParticipantType ParticipantType
	SvarType        SvarType
	SvarTekst       *string
	PublishedAt     *time.Time
}

// DialogmotesvarRecord is a reply joined with the meeting fields the
// published event carries.
type DialogmotesvarRecord struct {
	Dialogmotesvar
	MoteUUID          uuid.UUID
	PersonIdent       id.PersonIdent
	Virksomhetsnummer id.Virksomhetsnummer
	VarselSentAt      time.Time
}

// VarselDelivery is a notice joined with everything a delivery publisher
// needs to address it.
type VarselDelivery struct {
	Varsel            Varsel
	MoteUUID          uuid.UUID
	PersonIdent       id.PersonIdent
	Virksomhetsnummer id.Virksomhetsnummer
	Behandler         *Behandler
	Tid               time.Time
	Sted              string
	Pdf               []byte
}

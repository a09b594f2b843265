package models

import (
	"time"

	"github.com/google/uuid"
)

// AnnenDeltaker is an extra attendee listed in the minutes.
type AnnenDeltaker struct {
	Funksjon string `json:"funksjon"`
	Navn     string `json:"navn"`
}

// Referat is the minutes of a meeting. A draft can be saved repeatedly while
// the meeting is open; finalizing sets Ferdigstilt and happens once.
type Referat struct {
	ID                  int64
	UUID                uuid.UUID
	CreatedAt           time.Time
	UpdatedAt           time.Time
	MoteID              int64
	Digitalt            bool
	Situasjon           string
	Konklusjon          string
	ArbeidstakerOppgave string
	ArbeidsgiverOppgave string
	BehandlerOppgave    *string
	NarmesteLederNavn   string
	AndreDeltakere      []AnnenDeltaker
	Document            []DocumentComponent
	PdfID               *int64
	Ferdigstilt         bool
}

package service

import (
	"strings"
	"time"

	"isdialogmote/internal/dialogmote/models"
	id "isdialogmote/pkg/domain"
	dErrors "isdialogmote/pkg/domain-errors"
)

// Letter is the per-recipient content of a notice.
type Letter struct {
	Fritekst string
	Document []models.DocumentComponent
}

func (l Letter) validate(recipient models.ParticipantType) error {
	if len(l.Document) == 0 {
		return dErrors.New(dErrors.CodeValidation,
			"document is required for "+strings.ToLower(string(recipient)))
	}
	return nil
}

type TidStedInput struct {
	Sted      string
	Tid       time.Time
	VideoLink string
}

type ArbeidstakerInput struct {
	PersonIdent id.PersonIdent
	Letter
}

type ArbeidsgiverInput struct {
	Virksomhetsnummer id.Virksomhetsnummer
	LederNavn         *string
	LederEpost        *string
	Letter
}

type BehandlerInput struct {
	BehandlerRef string
	Navn         string
	Kontor       string
	PersonIdent  *id.PersonIdent
	Letter
}

// CreateRequest is the input of Create.
type CreateRequest struct {
	Enhet        id.EnhetNr
	Arbeidstaker ArbeidstakerInput
	Arbeidsgiver ArbeidsgiverInput
	Behandler    *BehandlerInput
	TidSted      TidStedInput
}

func (r CreateRequest) letters() map[models.ParticipantType]Letter {
	letters := map[models.ParticipantType]Letter{
		models.ParticipantArbeidstaker: r.Arbeidstaker.Letter,
		models.ParticipantArbeidsgiver: r.Arbeidsgiver.Letter,
	}
	if r.Behandler != nil {
		letters[models.ParticipantBehandler] = r.Behandler.Letter
	}
	return letters
}

func (r CreateRequest) validate() error {
	if r.Enhet == "" {
		return dErrors.New(dErrors.CodeValidation, "enhet is required")
	}
	if r.Arbeidstaker.PersonIdent == "" {
		return dErrors.New(dErrors.CodeValidation, "arbeidstaker person ident is required")
	}
	if r.Arbeidsgiver.Virksomhetsnummer == "" {
		return dErrors.New(dErrors.CodeValidation, "arbeidsgiver virksomhetsnummer is required")
	}
	if r.Behandler != nil && strings.TrimSpace(r.Behandler.BehandlerRef) == "" {
		return dErrors.New(dErrors.CodeValidation, "behandler reference is required")
	}
	for pt, l := range r.letters() {
		if err := l.validate(pt); err != nil {
			return err
		}
	}
	return nil
}

// NyttTidStedRequest is the input of NyttTidSted. Behandler is never
// notified of a reschedule, so there is no behandler letter.
type NyttTidStedRequest struct {
	TidSted      TidStedInput
	Arbeidstaker Letter
	Arbeidsgiver Letter
}

func (r NyttTidStedRequest) letters() map[models.ParticipantType]Letter {
	return map[models.ParticipantType]Letter{
		models.ParticipantArbeidstaker: r.Arbeidstaker,
		models.ParticipantArbeidsgiver: r.Arbeidsgiver,
	}
}

// AvlysRequest is the input of Avlys. Behandler is required exactly when the
// meeting has a behandler.
type AvlysRequest struct {
	Arbeidstaker Letter
	Arbeidsgiver Letter
	Behandler    *Letter
}

func (r AvlysRequest) letters() map[models.ParticipantType]Letter {
	letters := map[models.ParticipantType]Letter{
		models.ParticipantArbeidstaker: r.Arbeidstaker,
		models.ParticipantArbeidsgiver: r.Arbeidsgiver,
	}
	if r.Behandler != nil {
		letters[models.ParticipantBehandler] = *r.Behandler
	}
	return letters
}

// ReferatInput is the minutes content, used both for drafts and for
// finalizing.
type ReferatInput struct {
	Digitalt               bool
	Situasjon              string
	Konklusjon             string
	ArbeidstakerOppgave    string
	ArbeidsgiverOppgave    string
	BehandlerOppgave       *string
	NarmesteLederNavn      string
	AndreDeltakere         []models.AnnenDeltaker
	Document               []models.DocumentComponent
	BehandlerDeltatt       bool
	BehandlerMottarReferat bool
}

func (r ReferatInput) validateFinal() error {
	if strings.TrimSpace(r.Konklusjon) == "" {
		return dErrors.New(dErrors.CodeValidation, "referat konklusjon is required")
	}
	if strings.TrimSpace(r.NarmesteLederNavn) == "" {
		return dErrors.New(dErrors.CodeValidation, "referat narmeste leder navn is required")
	}
	if len(r.Document) == 0 {
		return dErrors.New(dErrors.CodeValidation, "referat document is required")
	}
	for _, d := range r.AndreDeltakere {
		if strings.TrimSpace(d.Navn) == "" || strings.TrimSpace(d.Funksjon) == "" {
			return dErrors.New(dErrors.CodeValidation, "andre deltakere need navn and funksjon")
		}
	}
	return nil
}

// letters sends the same minutes to every recipient.
func (r ReferatInput) letters() map[models.ParticipantType]Letter {
	l := Letter{Document: r.Document}
	return map[models.ParticipantType]Letter{
		models.ParticipantArbeidstaker: l,
		models.ParticipantArbeidsgiver: l,
		models.ParticipantBehandler:    l,
	}
}

func (r ReferatInput) toReferat(moteID int64, now time.Time) models.Referat {
	return models.Referat{
		CreatedAt:           now,
		UpdatedAt:           now,
		MoteID:              moteID,
		Digitalt:            r.Digitalt,
		Situasjon:           r.Situasjon,
		Konklusjon:          r.Konklusjon,
		ArbeidstakerOppgave: r.ArbeidstakerOppgave,
		ArbeidsgiverOppgave: r.ArbeidsgiverOppgave,
		BehandlerOppgave:    r.BehandlerOppgave,
		NarmesteLederNavn:   r.NarmesteLederNavn,
		AndreDeltakere:      r.AndreDeltakere,
		Document:            r.Document,
	}
}

package handler

import (
	"time"

	"github.com/google/uuid"

	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/service"
	id "isdialogmote/pkg/domain"
	dErrors "isdialogmote/pkg/domain-errors"
)

type letterDTO struct {
	Fritekst string                     `json:"fritekst"`
	Document []models.DocumentComponent `json:"document"`
}

func (l letterDTO) toLetter() service.Letter {
	return service.Letter{Fritekst: l.Fritekst, Document: l.Document}
}

type tidStedDTO struct {
	Sted      string    `json:"sted"`
	Tid       time.Time `json:"tid"`
	VideoLink string    `json:"videoLink,omitempty"`
}

func (t tidStedDTO) toInput() service.TidStedInput {
	return service.TidStedInput{Sted: t.Sted, Tid: t.Tid, VideoLink: t.VideoLink}
}

type createArbeidstakerDTO struct {
	PersonIdent string    `json:"personIdent"`
	Innkalling  letterDTO `json:"innkalling"`
}

type createArbeidsgiverDTO struct {
	Virksomhetsnummer string    `json:"virksomhetsnummer"`
	LederNavn         *string   `json:"lederNavn,omitempty"`
	LederEpost        *string   `json:"lederEpost,omitempty"`
	Innkalling        letterDTO `json:"innkalling"`
}

type createBehandlerDTO struct {
	BehandlerRef string    `json:"behandlerRef"`
	Navn         string    `json:"behandlerNavn"`
	Kontor       string    `json:"behandlerKontor"`
	PersonIdent  *string   `json:"personIdent,omitempty"`
	Innkalling   letterDTO `json:"innkalling"`
}

type createRequest struct {
	TildeltEnhet string                `json:"tildeltEnhet"`
	Arbeidstaker createArbeidstakerDTO `json:"arbeidstaker"`
	Arbeidsgiver createArbeidsgiverDTO `json:"arbeidsgiver"`
	Behandler    *createBehandlerDTO   `json:"behandler,omitempty"`
	TidSted      tidStedDTO            `json:"tidSted"`
}

func (r createRequest) toService() (service.CreateRequest, error) {
	enhet, err := id.ParseEnhetNr(r.TildeltEnhet)
	if err != nil {
		return service.CreateRequest{}, err
	}
	ident, err := id.ParsePersonIdent(r.Arbeidstaker.PersonIdent)
	if err != nil {
		return service.CreateRequest{}, err
	}
	orgnr, err := id.ParseVirksomhetsnummer(r.Arbeidsgiver.Virksomhetsnummer)
	if err != nil {
		return service.CreateRequest{}, err
	}
	req := service.CreateRequest{
		Enhet: enhet,
		Arbeidstaker: service.ArbeidstakerInput{
			PersonIdent: ident,
			Letter:      r.Arbeidstaker.Innkalling.toLetter(),
		},
		Arbeidsgiver: service.ArbeidsgiverInput{
			Virksomhetsnummer: orgnr,
			LederNavn:         r.Arbeidsgiver.LederNavn,
			LederEpost:        r.Arbeidsgiver.LederEpost,
			Letter:            r.Arbeidsgiver.Innkalling.toLetter(),
		},
		TidSted: r.TidSted.toInput(),
	}
	if b := r.Behandler; b != nil {
		in := &service.BehandlerInput{
			BehandlerRef: b.BehandlerRef,
			Navn:         b.Navn,
			Kontor:       b.Kontor,
			Letter:       b.Innkalling.toLetter(),
		}
		if b.PersonIdent != nil {
			bi, err := id.ParsePersonIdent(*b.PersonIdent)
			if err != nil {
				return service.CreateRequest{}, err
			}
			in.PersonIdent = &bi
		}
		req.Behandler = in
	}
	return req, nil
}

type nyttTidStedRequest struct {
	TidSted      tidStedDTO `json:"tidSted"`
	Arbeidstaker letterDTO  `json:"arbeidstaker"`
	Arbeidsgiver letterDTO  `json:"arbeidsgiver"`
}

func (r nyttTidStedRequest) toService() service.NyttTidStedRequest {
	return service.NyttTidStedRequest{
		TidSted:      r.TidSted.toInput(),
		Arbeidstaker: r.Arbeidstaker.toLetter(),
		Arbeidsgiver: r.Arbeidsgiver.toLetter(),
	}
}

type avlysRequest struct {
	Arbeidstaker letterDTO  `json:"arbeidstaker"`
	Arbeidsgiver letterDTO  `json:"arbeidsgiver"`
	Behandler    *letterDTO `json:"behandler,omitempty"`
}

func (r avlysRequest) toService() service.AvlysRequest {
	req := service.AvlysRequest{
		Arbeidstaker: r.Arbeidstaker.toLetter(),
		Arbeidsgiver: r.Arbeidsgiver.toLetter(),
	}
	if r.Behandler != nil {
		l := r.Behandler.toLetter()
		req.Behandler = &l
	}
	return req
}

type referatRequest struct {
	Digitalt               bool                       `json:"digitalt"`
	Situasjon              string                     `json:"situasjon"`
	Konklusjon             string                     `json:"konklusjon"`
	ArbeidstakerOppgave    string                     `json:"arbeidstakerOppgave"`
	ArbeidsgiverOppgave    string                     `json:"arbeidsgiverOppgave"`
	BehandlerOppgave       *string                    `json:"behandlerOppgave,omitempty"`
	NarmesteLederNavn      string                     `json:"narmesteLederNavn"`
	AndreDeltakere         []models.AnnenDeltaker     `json:"andreDeltakere"`
	Document               []models.DocumentComponent `json:"document"`
	BehandlerDeltatt       bool                       `json:"behandlerDeltatt"`
	BehandlerMottarReferat bool                       `json:"behandlerMottarReferat"`
}

func (r referatRequest) toService() service.ReferatInput {
	return service.ReferatInput{
		Digitalt:               r.Digitalt,
		Situasjon:              r.Situasjon,
		Konklusjon:             r.Konklusjon,
		ArbeidstakerOppgave:    r.ArbeidstakerOppgave,
		ArbeidsgiverOppgave:    r.ArbeidsgiverOppgave,
		BehandlerOppgave:       r.BehandlerOppgave,
		NarmesteLederNavn:      r.NarmesteLederNavn,
		AndreDeltakere:         r.AndreDeltakere,
		Document:               r.Document,
		BehandlerDeltatt:       r.BehandlerDeltatt,
		BehandlerMottarReferat: r.BehandlerMottarReferat,
	}
}

type svarRequest struct {
	SvarType  string `json:"svarType"`
	SvarTekst string `json:"svarTekst,omitempty"`
}

func (r svarRequest) svarType() (models.SvarType, error) {
	t := models.SvarType(r.SvarType)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "svarType must be KOMMER, NYTT_TID_STED or KOMMER_IKKE")
	}
	return t, nil
}

type tildelRequest struct {
	VeilederIdent  string      `json:"veilederIdent"`
	DialogmoteUUID []uuid.UUID `json:"dialogmoteUuids"`
}

type identEndringRequest struct {
	Fra string `json:"fra"`
	Til string `json:"til"`
}

type countResponse struct {
	Count int `json:"count"`
}

type varselResponse struct {
	UUID                uuid.UUID                   `json:"uuid"`
	CreatedAt           time.Time                   `json:"createdAt"`
	VarselType          models.VarselType           `json:"varselType"`
	Fritekst            string                      `json:"fritekst,omitempty"`
	Document            []models.DocumentComponent  `json:"document"`
	LestDato            *time.Time                  `json:"lestDato,omitempty"`
	JournalpostID       *string                     `json:"journalpostId,omitempty"`
	DistributionChannel *models.DistributionChannel `json:"distribusjonskanal,omitempty"`
}

type arbeidstakerResponse struct {
	UUID        uuid.UUID        `json:"uuid"`
	PersonIdent string           `json:"personIdent"`
	Varsler     []varselResponse `json:"varselList"`
}

type arbeidsgiverResponse struct {
	UUID              uuid.UUID        `json:"uuid"`
	Virksomhetsnummer string           `json:"virksomhetsnummer"`
	LederNavn         *string          `json:"lederNavn,omitempty"`
	LederEpost        *string          `json:"lederEpost,omitempty"`
	Varsler           []varselResponse `json:"varselList"`
}

type behandlerResponse struct {
	UUID          uuid.UUID        `json:"uuid"`
	BehandlerRef  string           `json:"behandlerRef"`
	Navn          string           `json:"behandlerNavn"`
	Kontor        string           `json:"behandlerKontor"`
	MottarReferat bool             `json:"mottarReferat"`
	Deltatt       bool             `json:"deltatt"`
	Varsler       []varselResponse `json:"varselList"`
}

type referatResponse struct {
	UUID                uuid.UUID                  `json:"uuid"`
	CreatedAt           time.Time                  `json:"createdAt"`
	UpdatedAt           time.Time                  `json:"updatedAt"`
	Ferdigstilt         bool                       `json:"ferdigstilt"`
	Digitalt            bool                       `json:"digitalt"`
	Situasjon           string                     `json:"situasjon"`
	Konklusjon          string                     `json:"konklusjon"`
	ArbeidstakerOppgave string                     `json:"arbeidstakerOppgave"`
	ArbeidsgiverOppgave string                     `json:"arbeidsgiverOppgave"`
	BehandlerOppgave    *string                    `json:"behandlerOppgave,omitempty"`
	NarmesteLederNavn   string                     `json:"narmesteLederNavn"`
	AndreDeltakere      []models.AnnenDeltaker     `json:"andreDeltakere"`
	Document            []models.DocumentComponent `json:"document"`
}

type dialogmoteResponse struct {
	UUID                 uuid.UUID            `json:"uuid"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
	Status               models.Status        `json:"status"`
	OpprettetAv          string               `json:"opprettetAv"`
	TildeltVeilederIdent string               `json:"tildeltVeilederIdent"`
	TildeltEnhet         string               `json:"tildeltEnhet"`
	Arbeidstaker         arbeidstakerResponse `json:"arbeidstaker"`
	Arbeidsgiver         arbeidsgiverResponse `json:"arbeidsgiver"`
	Behandler            *behandlerResponse   `json:"behandler,omitempty"`
	Sted                 string               `json:"sted"`
	Tid                  time.Time            `json:"tid"`
	VideoLink            string               `json:"videoLink,omitempty"`
	Referat              *referatResponse     `json:"referat,omitempty"`
}

func toVarsler(vs []models.Varsel) []varselResponse {
	out := make([]varselResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, varselResponse{
			UUID:                v.UUID,
			CreatedAt:           v.CreatedAt,
			VarselType:          v.Type,
			Fritekst:            v.Fritekst,
			Document:            v.Document,
			LestDato:            v.LestAt,
			JournalpostID:       v.JournalpostID,
			DistributionChannel: v.DistributionChannel,
		})
	}
	return out
}

func toResponse(m *models.Dialogmote) dialogmoteResponse {
	ts := m.LatestTidSted()
	resp := dialogmoteResponse{
		UUID:                 m.UUID,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
		Status:               m.Status,
		OpprettetAv:          m.OpprettetAv.String(),
		TildeltVeilederIdent: m.TildeltVeileder.String(),
		TildeltEnhet:         m.TildeltEnhet.String(),
		Arbeidstaker: arbeidstakerResponse{
			UUID:        m.Arbeidstaker.UUID,
			PersonIdent: m.Arbeidstaker.PersonIdent.String(),
			Varsler:     toVarsler(m.Arbeidstaker.Varsler),
		},
		Arbeidsgiver: arbeidsgiverResponse{
			UUID:              m.Arbeidsgiver.UUID,
			Virksomhetsnummer: m.Arbeidsgiver.Virksomhetsnummer.String(),
			LederNavn:         m.Arbeidsgiver.LederNavn,
			LederEpost:        m.Arbeidsgiver.LederEpost,
			Varsler:           toVarsler(m.Arbeidsgiver.Varsler),
		},
		Sted:      ts.Sted,
		Tid:       ts.Tid,
		VideoLink: ts.VideoLink,
	}
	if b := m.Behandler; b != nil {
		resp.Behandler = &behandlerResponse{
			UUID:          b.UUID,
			BehandlerRef:  b.BehandlerRef,
			Navn:          b.Navn,
			Kontor:        b.Kontor,
			MottarReferat: b.MottarReferat,
			Deltatt:       b.Deltatt,
			Varsler:       toVarsler(b.Varsler),
		}
	}
	if r := m.Referat; r != nil {
		resp.Referat = toReferatResponse(r)
	}
	return resp
}

func toReferatResponse(r *models.Referat) *referatResponse {
	return &referatResponse{
		UUID:                r.UUID,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
		Ferdigstilt:         r.Ferdigstilt,
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

func toResponses(ms []*models.Dialogmote) []dialogmoteResponse {
	out := make([]dialogmoteResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toResponse(m))
	}
	return out
}

package clients

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"isdialogmote/internal/dialogmote/ports"
)

var _ ports.ArchiveClient = (*Dokarkiv)(nil)

const journalpostPath = "/rest/journalpostapi/v1/journalpost?forsoekFerdigstill=true"

// Dokarkiv registers outgoing letters in the document archive.
type Dokarkiv struct {
	base
}

func NewDokarkiv(baseURL string, opts ...Option) *Dokarkiv {
	return &Dokarkiv{base: newBase("dokarkiv", baseURL, opts)}
}

type journalpostRequest struct {
	JournalpostType      string           `json:"journalpostType"`
	Tema                 string           `json:"tema"`
	Kanal                string           `json:"kanal,omitempty"`
	Tittel               string           `json:"tittel"`
	JournalfoerendeEnhet string           `json:"journalfoerendeEnhet"`
	EksternReferanseID   string           `json:"eksternReferanseId"`
	AvsenderMottaker     avsenderMottaker `json:"avsenderMottaker"`
	Bruker               bruker           `json:"bruker"`
	Sak                  sak              `json:"sak"`
	Dokumenter           []dokument       `json:"dokumenter"`
}

type avsenderMottaker struct {
	ID     string `json:"id"`
	IDType string `json:"idType"`
	Navn   string `json:"navn"`
}

type bruker struct {
	ID     string `json:"id"`
	IDType string `json:"idType"`
}

type sak struct {
	Sakstype string `json:"sakstype"`
}

type dokument struct {
	Brevkode          string    `json:"brevkode"`
	Tittel            string    `json:"tittel"`
	Dokumentvarianter []variant `json:"dokumentvarianter"`
}

type variant struct {
	Filtype        string `json:"filtype"`
	Fysiskdokument string `json:"fysiskDokument"`
	Variantformat  string `json:"variantformat"`
}

type journalpostResponse struct {
	JournalpostID string `json:"journalpostId"`
	Journalstatus string `json:"journalstatus"`
	Melding       string `json:"melding"`
}

func (c *Dokarkiv) Archive(ctx context.Context, req ports.ArchiveRequest) (string, error) {
	body := journalpostRequest{
		JournalpostType:      "UTGAAENDE",
		Tema:                 "OPP",
		Tittel:               req.Title,
		JournalfoerendeEnhet: "9999",
		EksternReferanseID:   req.IdempotencyKey,
		AvsenderMottaker: avsenderMottaker{
			ID:     req.Recipient.ID,
			IDType: string(req.Recipient.IDType),
			Navn:   req.Recipient.Name,
		},
		Bruker: bruker{ID: req.Subject.String(), IDType: "FNR"},
		Sak:    sak{Sakstype: "GENERELL_SAK"},
		Dokumenter: []dokument{{
			Brevkode: req.Brevkode,
			Tittel:   req.Title,
			Dokumentvarianter: []variant{{
				Filtype:        "PDFA",
				Fysiskdokument: base64.StdEncoding.EncodeToString(req.Pdf),
				Variantformat:  "ARKIV",
			}},
		}},
	}

	resp, err := c.do(ctx, http.MethodPost, journalpostPath, body, callID(req.IdempotencyKey))
	if err != nil {
		return "", err
	}
	if resp.status == http.StatusConflict {
		var existing journalpostResponse
		if err := json.Unmarshal(resp.body, &existing); err != nil || existing.JournalpostID == "" {
			return "", c.statusError(resp.status, resp.body)
		}
		return "", &ports.ArchiveConflictError{JournalpostID: existing.JournalpostID}
	}
	var out journalpostResponse
	if err := c.decode(resp, &out); err != nil {
		return "", err
	}
	if out.JournalpostID == "" {
		return "", NewClientError(ErrorBadData, c.name, "response without journalpostId", nil)
	}
	return out.JournalpostID, nil
}

package clients

import (
	"context"
	"net/http"

	"isdialogmote/internal/dialogmote/ports"
	id "isdialogmote/pkg/domain"
)

var _ ports.PortalChecker = (*Narmesteleder)(nil)

// Narmesteleder reports whether an employer has an active leader relation
// for the employee, which is what makes the employer portal reachable.
type Narmesteleder struct {
	base
}

func NewNarmesteleder(baseURL string, opts ...Option) *Narmesteleder {
	return &Narmesteleder{base: newBase("narmesteleder", baseURL, opts)}
}

type narmestelederRelasjon struct {
	Virksomhetsnummer string `json:"virksomhetsnummer"`
	Status            string `json:"status"`
}

func (c *Narmesteleder) IsReachable(ctx context.Context, orgnr id.Virksomhetsnummer, ident id.PersonIdent) (bool, error) {
	h := http.Header{}
	h.Set("Nav-Personident", ident.String())
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/narmestelederrelasjoner", nil, h)
	if err != nil {
		return false, err
	}
	if resp.status == http.StatusNotFound {
		return false, nil
	}
	var relasjoner []narmestelederRelasjon
	if err := c.decode(resp, &relasjoner); err != nil {
		return false, err
	}
	for _, r := range relasjoner {
		if r.Virksomhetsnummer == orgnr.String() && r.Status == "INNMELDT_AKTIV" {
			return true, nil
		}
	}
	return false, nil
}

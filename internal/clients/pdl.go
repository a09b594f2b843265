package clients

import (
	"context"
	"net/http"
	"strings"

	"isdialogmote/internal/dialogmote/ports"
	id "isdialogmote/pkg/domain"
)

var _ ports.PersonRegistry = (*Pdl)(nil)

const (
	hentPersonQuery = `query($ident: ID!) {
  hentPerson(ident: $ident) {
    navn(historikk: false) { fornavn mellomnavn etternavn }
    adressebeskyttelse(historikk: false) { gradering }
  }
}`
	hentIdenterQuery = `query($ident: ID!) {
  hentIdenter(ident: $ident, grupper: [FOLKEREGISTERIDENT], historikk: true) {
    identer { ident historisk }
  }
}`
)

// Pdl queries the person registry's GraphQL API.
type Pdl struct {
	base
}

func NewPdl(baseURL string, opts ...Option) *Pdl {
	return &Pdl{base: newBase("pdl", baseURL, opts)}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type hentPersonResponse struct {
	Data struct {
		HentPerson *struct {
			Navn []struct {
				Fornavn    string  `json:"fornavn"`
				Mellomnavn *string `json:"mellomnavn"`
				Etternavn  string  `json:"etternavn"`
			} `json:"navn"`
			Adressebeskyttelse []struct {
				Gradering string `json:"gradering"`
			} `json:"adressebeskyttelse"`
		} `json:"hentPerson"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

type hentIdenterResponse struct {
	Data struct {
		HentIdenter *struct {
			Identer []struct {
				Ident     string `json:"ident"`
				Historisk bool   `json:"historisk"`
			} `json:"identer"`
		} `json:"hentIdenter"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

func (c *Pdl) query(ctx context.Context, query string, ident id.PersonIdent, out any) error {
	resp, err := c.do(ctx, http.MethodPost, "/graphql", graphqlRequest{
		Query:     query,
		Variables: map[string]any{"ident": ident.String()},
	}, http.Header{"Tema": []string{"OPP"}})
	if err != nil {
		return err
	}
	return c.decode(resp, out)
}

func (c *Pdl) person(ctx context.Context, ident id.PersonIdent) (*hentPersonResponse, error) {
	var out hentPersonResponse
	if err := c.query(ctx, hentPersonQuery, ident, &out); err != nil {
		return nil, err
	}
	if len(out.Errors) > 0 {
		return nil, NewClientError(ErrorBadData, c.name, out.Errors[0].Message, nil)
	}
	if out.Data.HentPerson == nil {
		return nil, NewClientError(ErrorNotFound, c.name, "person not found", nil)
	}
	return &out, nil
}

// DisplayName returns the full name, or the ident when the registry has no
// name on file.
func (c *Pdl) DisplayName(ctx context.Context, ident id.PersonIdent) (string, error) {
	p, err := c.person(ctx, ident)
	if err != nil {
		return "", err
	}
	if len(p.Data.HentPerson.Navn) == 0 {
		return ident.String(), nil
	}
	n := p.Data.HentPerson.Navn[0]
	parts := []string{n.Fornavn}
	if n.Mellomnavn != nil && *n.Mellomnavn != "" {
		parts = append(parts, *n.Mellomnavn)
	}
	parts = append(parts, n.Etternavn)
	return strings.Join(parts, " "), nil
}

func (c *Pdl) IsProtected(ctx context.Context, ident id.PersonIdent) (bool, error) {
	p, err := c.person(ctx, ident)
	if err != nil {
		return false, err
	}
	for _, a := range p.Data.HentPerson.Adressebeskyttelse {
		switch a.Gradering {
		case "STRENGT_FORTROLIG", "STRENGT_FORTROLIG_UTLAND", "FORTROLIG":
			return true, nil
		}
	}
	return false, nil
}

func (c *Pdl) Identities(ctx context.Context, ident id.PersonIdent) ([]id.PersonIdent, error) {
	var out hentIdenterResponse
	if err := c.query(ctx, hentIdenterQuery, ident, &out); err != nil {
		return nil, err
	}
	if len(out.Errors) > 0 {
		return nil, NewClientError(ErrorBadData, c.name, out.Errors[0].Message, nil)
	}
	if out.Data.HentIdenter == nil {
		return nil, NewClientError(ErrorNotFound, c.name, "identer not found", nil)
	}
	identer := make([]id.PersonIdent, 0, len(out.Data.HentIdenter.Identer))
	for _, i := range out.Data.HentIdenter.Identer {
		identer = append(identer, id.PersonIdent(i.Ident))
	}
	return identer, nil
}

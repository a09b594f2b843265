package clients

import (
	"context"
	"net/http"
	"strings"

	"isdialogmote/internal/dialogmote/ports"
	id "isdialogmote/pkg/domain"
)

var _ ports.OrganizationRegistry = (*Ereg)(nil)

// Ereg looks up organizations in the employer register.
type Ereg struct {
	base
}

func NewEreg(baseURL string, opts ...Option) *Ereg {
	return &Ereg{base: newBase("ereg", baseURL, opts)}
}

type eregResponse struct {
	Navn struct {
		Navnelinje1 string `json:"navnelinje1"`
		Navnelinje2 string `json:"navnelinje2"`
		Navnelinje3 string `json:"navnelinje3"`
	} `json:"navn"`
}

func (c *Ereg) DisplayName(ctx context.Context, orgnr id.Virksomhetsnummer) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/organisasjon/"+orgnr.String()+"/noekkelinfo", nil, nil)
	if err != nil {
		return "", err
	}
	var out eregResponse
	if err := c.decode(resp, &out); err != nil {
		return "", err
	}
	var lines []string
	for _, l := range []string{out.Navn.Navnelinje1, out.Navn.Navnelinje2, out.Navn.Navnelinje3} {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return orgnr.String(), nil
	}
	return strings.Join(lines, " "), nil
}

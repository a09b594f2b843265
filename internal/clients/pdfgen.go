package clients

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/ports"
)

var _ ports.Renderer = (*Pdfgen)(nil)

var templateNames = map[models.VarselType]string{
	models.VarselTypeInnkalt:     "innkalling",
	models.VarselTypeNyttTidSted: "endring",
	models.VarselTypeAvlyst:      "avlysning",
	models.VarselTypeReferat:     "referat",
}

// Pdfgen renders letters with the shared PDF generator.
type Pdfgen struct {
	base
}

func NewPdfgen(baseURL string, opts ...Option) *Pdfgen {
	opts = append([]Option{WithMaxResponseBody(maxPDFBody)}, opts...)
	return &Pdfgen{base: newBase("pdfgen", baseURL, opts)}
}

type pdfgenRequest struct {
	DocumentComponents []models.DocumentComponent `json:"documentComponents"`
	DatoSendt          string                     `json:"datoSendt"`
}

func (c *Pdfgen) Render(ctx context.Context, req ports.RenderRequest) ([]byte, error) {
	tmpl, ok := templateNames[req.Type]
	if !ok {
		return nil, NewClientError(ErrorBadData, c.name, fmt.Sprintf("no template for %s", req.Type), nil)
	}
	path := fmt.Sprintf("/api/v1/genpdf/isdialogmote/%s-%s", tmpl, strings.ToLower(string(req.Mottaker)))

	resp, err := c.do(ctx, http.MethodPost, path, pdfgenRequest{
		DocumentComponents: req.Document,
		DatoSendt:          req.CreatedAt.Format("02.01.2006"),
	}, nil)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, c.statusError(resp.status, resp.body)
	}
	if len(resp.body) == 0 {
		return nil, NewClientError(ErrorBadData, c.name, "empty pdf", nil)
	}
	return resp.body, nil
}

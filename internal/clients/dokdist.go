package clients

import (
	"context"
	"encoding/json"
	"net/http"

	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/ports"
)

var _ ports.DistributionClient = (*Dokdist)(nil)

// Dokdist orders distribution of archived letters.
type Dokdist struct {
	base
}

func NewDokdist(baseURL string, opts ...Option) *Dokdist {
	return &Dokdist{base: newBase("dokdist", baseURL, opts)}
}

type distribuerRequest struct {
	JournalpostID          string `json:"journalpostId"`
	BestillendeFagsystem   string `json:"bestillendeFagsystem"`
	DokumentProdApp        string `json:"dokumentProdApp"`
	Distribusjonstype      string `json:"distribusjonstype"`
	Distribusjonstidspunkt string `json:"distribusjonstidspunkt"`
	TvingKanal             string `json:"tvingKanal,omitempty"`
}

type distribuerResponse struct {
	BestillingsID string `json:"bestillingsId"`
}

// forcedChannel maps the channel chosen at send time onto the gateway's
// override. Digital and portal letters let the gateway decide.
func forcedChannel(ch models.DistributionChannel) string {
	if ch == models.ChannelPaper {
		return "PRINT"
	}
	return ""
}

// Distribute returns the order id. A repeated order for the same journalpost
// answers 409 with the original order id, which counts as success.
func (c *Dokdist) Distribute(ctx context.Context, req ports.DistributionRequest) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/rest/v1/distribuerjournalpost", distribuerRequest{
		JournalpostID:          req.JournalpostID,
		BestillendeFagsystem:   "UKJENT",
		DokumentProdApp:        consumerID,
		Distribusjonstype:      "VIKTIG",
		Distribusjonstidspunkt: "UMIDDELBART",
		TvingKanal:             forcedChannel(req.Channel),
	}, callID(req.IdempotencyKey))
	if err != nil {
		return "", err
	}
	if resp.status == http.StatusConflict {
		var existing distribuerResponse
		if err := json.Unmarshal(resp.body, &existing); err == nil && existing.BestillingsID != "" {
			return existing.BestillingsID, nil
		}
		return "", c.statusError(resp.status, resp.body)
	}
	var out distribuerResponse
	if err := c.decode(resp, &out); err != nil {
		return "", err
	}
	if out.BestillingsID == "" {
		return "", NewClientError(ErrorBadData, c.name, "response without bestillingsId", nil)
	}
	return out.BestillingsID, nil
}

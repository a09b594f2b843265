package leaderelection

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPElector asks a leader-election sidecar which pod leads. The sidecar
// answers GET requests with {"name": "<pod hostname>"}.
type HTTPElector struct {
	url      string
	hostname string
	client   *http.Client
}

type HTTPOption func(*HTTPElector)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(e *HTTPElector) {
		e.client = c
	}
}

func NewHTTPElector(url, hostname string, opts ...HTTPOption) *HTTPElector {
	e := &HTTPElector{
		url:      url,
		hostname: hostname,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type leaderResponse struct {
	Name string `json:"name"`
}

func (e *HTTPElector) IsLeader(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.url, nil)
	if err != nil {
		return false, fmt.Errorf("build elector request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("query elector: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("query elector: unexpected status %d", resp.StatusCode)
	}
	var body leaderResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode elector response: %w", err)
	}
	return body.Name != "" && body.Name == e.hostname, nil
}

// Package clients implements the dialogmøte collaborator ports over HTTP:
// PDF rendering, person and organization registries, the document archive,
// the distribution gateway and the employer portal.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	// maxErrorBody bounds how much of an error response ends up in logs.
	maxErrorBody = 512
	// maxJSONBody caps registry and gateway answers; maxPDFBody caps
	// rendered letters.
	maxJSONBody  = 1 << 20
	maxPDFBody   = 32 << 20
	callIDHeader = "Nav-Call-Id"
	consumerID   = "isdialogmote"
)

type Option func(*base)

// WithMaxResponseBody overrides how many bytes of a response are read before
// the call fails.
func WithMaxResponseBody(n int64) Option {
	return func(b *base) {
		if n > 0 {
			b.maxBody = n
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(b *base) {
		b.client = c
	}
}

// base carries what every collaborator client shares.
type base struct {
	name    string
	baseURL string
	client  *http.Client
	maxBody int64
}

func newBase(name, baseURL string, opts []Option) base {
	b := base{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
		maxBody: maxJSONBody,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

type response struct {
	status int
	body   []byte
}

// do sends a JSON request and returns the raw response. Transport failures
// and 5xx responses become ClientErrors; other statuses are left to the
// caller.
func (b base) do(ctx context.Context, method, path string, in any, header http.Header) (response, error) {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return response{}, NewClientError(ErrorInternal, b.name, "encode request", err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return response{}, NewClientError(ErrorInternal, b.name, "build request", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Nav-Consumer-Id", consumerID)

	resp, err := b.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return response{}, NewClientError(ErrorTimeout, b.name, method+" "+path, err)
		}
		return response{}, NewClientError(ErrorOutage, b.name, method+" "+path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, b.maxBody+1))
	if err != nil {
		return response{}, NewClientError(ErrorOutage, b.name, "read response", err)
	}
	if int64(len(raw)) > b.maxBody {
		return response{}, NewClientError(ErrorBadData, b.name,
			fmt.Sprintf("response from %s %s exceeds %d bytes", method, path, b.maxBody), nil)
	}
	if resp.StatusCode >= 500 {
		return response{}, b.statusError(resp.StatusCode, raw)
	}
	return response{status: resp.StatusCode, body: raw}, nil
}

// decode unmarshals a 2xx body into out and turns any other status into a
// ClientError.
func (b base) decode(r response, out any) error {
	if r.status < 200 || r.status > 299 {
		return b.statusError(r.status, r.body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(r.body, out); err != nil {
		return NewClientError(ErrorBadData, b.name, "decode response", err)
	}
	return nil
}

func (b base) statusError(status int, body []byte) *ClientError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	ce := NewClientError(categoryForStatus(status), b.name, fmt.Sprintf("unexpected status %d: %s", status, body), nil)
	ce.StatusCode = status
	return ce
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func callID(key string) http.Header {
	h := http.Header{}
	h.Set(callIDHeader, key)
	return h
}

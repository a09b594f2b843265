// Package testutil holds request builders and assertions shared by the
// handler tests and the end-to-end scenarios.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isdialogmote/internal/platform/middleware"
)

// NewJSONRequest marshals body and builds a JSON request. A nil body sends
// no payload.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err, "marshal request body")
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func NewRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

// NewRawRequest sends body verbatim, for payloads a struct cannot express.
func NewRawRequest(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AsVeileder sets the header the authenticating proxy adds for a case
// officer.
func AsVeileder(req *http.Request, navIdent string) *http.Request {
	req.Header.Set(middleware.NavIdentHeader, navIdent)
	return req
}

func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// ReadBody returns the recorded body without draining it, so assertions can
// be stacked on the same recorder.
func ReadBody(t *testing.T, rr *httptest.ResponseRecorder) []byte {
	t.Helper()
	return bytes.Clone(rr.Body.Bytes())
}

func UnmarshalResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) *T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(ReadBody(t, rr), &out), "unmarshal response: %s", rr.Body.String())
	return &out
}

// ErrorBody is the envelope written by httputil.WriteError.
type ErrorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func UnmarshalError(t *testing.T, rr *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	return *UnmarshalResponse[ErrorBody](t, rr)
}

func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, rr.Code, "unexpected status, body: %s", rr.Body.String())
}

func AssertStatusOK(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()
	AssertStatus(t, rr, http.StatusOK)
}

// AssertStatusAndError checks the status and the error code in the envelope.
func AssertStatusAndError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	AssertStatus(t, rr, status)
	assert.Equal(t, code, UnmarshalError(t, rr).Error, "unexpected error code")
}

// AssertJSONContains checks a top-level field of a JSON object response.
// Numbers decode as float64.
func AssertJSONContains(t *testing.T, rr *httptest.ResponseRecorder, key string, expected any) {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(ReadBody(t, rr), &body), "unmarshal response")
	assert.Equal(t, expected, body[key], "unexpected value for %q", key)
}

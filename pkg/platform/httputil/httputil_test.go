package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "isdialogmote/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "internal_error", body["error"])
		_, ok := body["error_description"]
		assert.False(t, ok)
	})

	t.Run("conflict includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeConflict, "dialogmote is already closed"))

		require.Equal(t, http.StatusConflict, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "conflict", body["error"])
		assert.Equal(t, "dialogmote is already closed", body["error_description"])
	})

	t.Run("external dependency maps to bad gateway", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeExternal, "pdfgen down"))
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Sted string `json:"sted"`
	}

	t.Run("rejects unknown fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"sted":"x","extra":1}`))
		var p payload
		err := DecodeJSON(req, &p)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("decodes known fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"sted":"Videomøte"}`))
		var p payload
		require.NoError(t, DecodeJSON(req, &p))
		assert.Equal(t, "Videomøte", p.Sted)
	})
}

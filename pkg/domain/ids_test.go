package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "isdialogmote/pkg/domain-errors"
)

func TestParsePersonIdent(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "12345678912", false},
		{"too short", "1234567891", true},
		{"too long", "123456789123", true},
		{"letters", "1234567891a", true},
		{"empty", "", true},
		{"whitespace padded", " 2345678912", true},
		{"null byte", "1234567891\x00", true},
		{"oversized", strings.Repeat("1", 1000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePersonIdent(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestParseOrganisationalIdents(t *testing.T) {
	t.Run("virksomhetsnummer", func(t *testing.T) {
		_, err := ParseVirksomhetsnummer("912345678")
		require.NoError(t, err)
		_, err = ParseVirksomhetsnummer("91234567")
		require.Error(t, err)
	})

	t.Run("enhetnr", func(t *testing.T) {
		_, err := ParseEnhetNr("0314")
		require.NoError(t, err)
		_, err = ParseEnhetNr("314")
		require.Error(t, err)
	})

	t.Run("nav ident", func(t *testing.T) {
		_, err := ParseNavIdent("Z990099")
		require.NoError(t, err)
		_, err = ParseNavIdent("z990099")
		require.Error(t, err)
		_, err = ParseNavIdent("Z99009")
		require.Error(t, err)
	})
}

func TestParseMoteUUID(t *testing.T) {
	t.Run("rejects nil uuid", func(t *testing.T) {
		_, err := ParseMoteUUID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseMoteUUID("'; DROP TABLE mote;--")
		require.Error(t, err)
	})

	t.Run("accepts valid uuid", func(t *testing.T) {
		u := uuid.New()
		got, err := ParseMoteUUID(u.String())
		require.NoError(t, err)
		assert.Equal(t, u, got)
	})
}

func TestPersonIdentMasked(t *testing.T) {
	assert.Equal(t, "123456*****", PersonIdent("12345678912").Masked())
	assert.Equal(t, "***", PersonIdent("").Masked())
}

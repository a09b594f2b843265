//go:build go1.18

package domain

import (
	"testing"
)

// FuzzParsePersonIdent checks that parsing never panics and that accepted
// values are stable under a second parse.
func FuzzParsePersonIdent(f *testing.F) {
	f.Add("")
	f.Add("12345678912")
	f.Add("1234567891a")
	f.Add("'; DROP TABLE mote;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		ident, err := ParsePersonIdent(input)
		if err != nil {
			return
		}
		again, err := ParsePersonIdent(ident.String())
		if err != nil {
			t.Errorf("accepted ident failed re-parse: %v", err)
		}
		if again != ident {
			t.Error("re-parse changed value")
		}
		if len(ident) != 11 {
			t.Errorf("accepted ident of length %d", len(ident))
		}
	})
}

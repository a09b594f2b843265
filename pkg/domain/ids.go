package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "isdialogmote/pkg/domain-errors"
)

// PersonIdent is a Norwegian national identity number (fødselsnummer or
// d-nummer): exactly 11 digits.
type PersonIdent string

// Virksomhetsnummer identifies an employer sub-unit: exactly 9 digits.
type Virksomhetsnummer string

// EnhetNr identifies a NAV office: exactly 4 digits.
type EnhetNr string

// NavIdent identifies a NAV employee: one upper-case letter and 6 digits.
type NavIdent string

// SystemIdent is the actor recorded for transitions made by background jobs.
const SystemIdent NavIdent = "X000000"

// MoteUUID identifies a dialogmøte across service boundaries.
type MoteUUID = uuid.UUID

func ParsePersonIdent(s string) (PersonIdent, error) {
	if !isDigits(s, 11) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "person ident must be 11 digits")
	}
	return PersonIdent(s), nil
}

func ParseVirksomhetsnummer(s string) (Virksomhetsnummer, error) {
	if !isDigits(s, 9) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "virksomhetsnummer must be 9 digits")
	}
	return Virksomhetsnummer(s), nil
}

func ParseEnhetNr(s string) (EnhetNr, error) {
	if !isDigits(s, 4) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "enhetnr must be 4 digits")
	}
	return EnhetNr(s), nil
}

func ParseNavIdent(s string) (NavIdent, error) {
	if len(s) != 7 || s[0] < 'A' || s[0] > 'Z' || !isDigits(s[1:], 6) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "nav ident must be a letter followed by 6 digits")
	}
	return NavIdent(s), nil
}

// ParseMoteUUID rejects empty and nil UUIDs.
func ParseMoteUUID(s string) (MoteUUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "uuid is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid uuid")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "uuid must not be nil")
	}
	return u, nil
}

func (p PersonIdent) String() string       { return string(p) }
func (v Virksomhetsnummer) String() string { return string(v) }
func (e EnhetNr) String() string           { return string(e) }
func (n NavIdent) String() string          { return string(n) }

// Masked hides the personal number in log output.
func (p PersonIdent) Masked() string {
	if len(p) < 6 {
		return "***"
	}
	return string(p[:6]) + "*****"
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

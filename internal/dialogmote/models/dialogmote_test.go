package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "isdialogmote/pkg/domain"
	dErrors "isdialogmote/pkg/domain-errors"
)

var now = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newMote(t *testing.T, withBehandler bool) *Dialogmote {
	t.Helper()
	ts, err := NewTidSted("NAV Sagene", now.Add(14*24*time.Hour), "", now)
	require.NoError(t, err)
	var behandler *Behandler
	if withBehandler {
		behandler = &Behandler{BehandlerRef: "b-1", Navn: "Lege Legesen"}
	}
	m, err := NewDialogmote(
		id.NavIdent("Z990099"),
		id.EnhetNr("0314"),
		Arbeidstaker{PersonIdent: "12345678912"},
		Arbeidsgiver{Virksomhetsnummer: "912345678"},
		behandler,
		ts,
		now,
	)
	require.NoError(t, err)
	return m
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusInnkalt, StatusNyttTidSted, true},
		{StatusNyttTidSted, StatusNyttTidSted, true},
		{StatusInnkalt, StatusAvlyst, true},
		{StatusNyttTidSted, StatusFerdigstilt, true},
		{StatusInnkalt, StatusLukket, true},
		{StatusInnkalt, StatusInnkalt, false},
		{StatusAvlyst, StatusNyttTidSted, false},
		{StatusFerdigstilt, StatusAvlyst, false},
		{StatusLukket, StatusFerdigstilt, false},
		{StatusAvlyst, StatusLukket, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestDialogmote_CanTransitionTo(t *testing.T) {
	t.Run("terminal status yields conflict", func(t *testing.T) {
		for _, terminal := range []Status{StatusAvlyst, StatusFerdigstilt, StatusLukket} {
			m := newMote(t, false)
			m.ApplyStatus(terminal, now)
			err := m.CanTransitionTo(StatusNyttTidSted)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict), "status %s", terminal)
		}
	})

	t.Run("open meeting accepts reschedule", func(t *testing.T) {
		m := newMote(t, false)
		require.NoError(t, m.CanTransitionTo(StatusNyttTidSted))
	})
}

func TestNewDialogmote_Invariants(t *testing.T) {
	ts, err := NewTidSted("Videomøte", now.Add(time.Hour), "https://video", now)
	require.NoError(t, err)

	t.Run("requires arbeidstaker", func(t *testing.T) {
		_, err := NewDialogmote("Z990099", "0314", Arbeidstaker{}, Arbeidsgiver{Virksomhetsnummer: "912345678"}, nil, ts, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("requires arbeidsgiver", func(t *testing.T) {
		_, err := NewDialogmote("Z990099", "0314", Arbeidstaker{PersonIdent: "12345678912"}, Arbeidsgiver{}, nil, ts, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("starts innkalt with one tid sted", func(t *testing.T) {
		m := newMote(t, true)
		assert.Equal(t, StatusInnkalt, m.Status)
		assert.Len(t, m.TidSted, 1)
		assert.Len(t, m.Participants(), 3)
		assert.NotEqual(t, uuid.Nil, m.Behandler.UUID)
	})

	t.Run("rejects blank sted", func(t *testing.T) {
		_, err := NewTidSted("   ", now, "", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestDialogmote_LatestTidSted(t *testing.T) {
	m := newMote(t, false)
	later, err := NewTidSted("Kontoret", now.Add(30*24*time.Hour), "", now.Add(time.Hour))
	require.NoError(t, err)
	m.ApplyTidSted(later, now.Add(time.Hour))

	assert.Equal(t, "Kontoret", m.LatestTidSted().Sted)
	assert.Len(t, m.TidSted, 2)
}

func TestDialogmote_FindVarsel(t *testing.T) {
	m := newMote(t, true)
	v := Varsel{UUID: uuid.New(), Type: VarselTypeInnkalt, CreatedAt: now}
	m.Behandler.Varsler = append(m.Behandler.Varsler, v)

	found, ok := m.FindVarsel(v.UUID)
	require.True(t, ok)
	assert.Equal(t, VarselTypeInnkalt, found.Type)

	_, ok = m.FindVarsel(uuid.New())
	assert.False(t, ok)
}

func TestDialogmote_ReferatJournalpostID(t *testing.T) {
	m := newMote(t, true)
	jp := "jp-at"
	m.Arbeidstaker.Varsler = []Varsel{
		{Type: VarselTypeInnkalt},
		{Type: VarselTypeReferat, JournalpostID: &jp},
	}

	assert.Equal(t, &jp, m.ReferatJournalpostID(ParticipantArbeidstaker))
	assert.Nil(t, m.ReferatJournalpostID(ParticipantArbeidsgiver))
}

func TestVarsel_DeliveryState(t *testing.T) {
	jp := "123"
	failed := JournalpostIDFailed

	t.Run("needs journalføring until archived", func(t *testing.T) {
		v := Varsel{Intent: Intent{Journalfor: true}}
		assert.True(t, v.NeedsJournalforing())
		v.JournalpostID = &jp
		assert.False(t, v.NeedsJournalforing())
	})

	t.Run("needs distribution only after real archival", func(t *testing.T) {
		v := Varsel{Intent: Intent{Journalfor: true, Distribution: DistributionArbeidstaker}}
		assert.False(t, v.NeedsDistribution())
		v.JournalpostID = &failed
		assert.False(t, v.NeedsDistribution())
		v.JournalpostID = &jp
		assert.True(t, v.NeedsDistribution())
		ch := ChannelSuppressed
		v.DistributionChannel = &ch
		assert.False(t, v.NeedsDistribution())
	})

	t.Run("only invitations are answerable", func(t *testing.T) {
		assert.True(t, (&Varsel{Type: VarselTypeNyttTidSted}).Answerable())
		assert.False(t, (&Varsel{Type: VarselTypeAvlyst}).Answerable())
	})
}

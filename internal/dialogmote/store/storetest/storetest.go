// Package storetest seeds dialogmøte stores for publisher and end-to-end
// tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"isdialogmote/internal/dialogmote/dispatch"
	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/service"
	id "isdialogmote/pkg/domain"
)

const (
	Ident        id.PersonIdent       = "12345678912"
	Orgnr        id.Virksomhetsnummer = "912345678"
	Enhet        id.EnhetNr           = "0314"
	Veileder     id.NavIdent          = "Z990000"
	BehandlerRef                      = "beh-1"
)

type Mote struct {
	Ident     id.PersonIdent
	Tid       time.Time
	Now       time.Time
	Behandler bool
	// Status, when set, moves the seeded meeting on after the invitation.
	Status models.Status
	// VarselType defaults to INNKALT.
	VarselType models.VarselType
}

// Seed writes an open meeting with one notice per recipient, the way the
// service would after a successful transition. The returned meeting is
// reloaded from the store.
func Seed(t testing.TB, st service.Store, m Mote) *models.Dialogmote {
	t.Helper()
	ctx := context.Background()
	if m.Ident == "" {
		m.Ident = Ident
	}
	if m.Now.IsZero() {
		m.Now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	}
	if m.Tid.IsZero() {
		m.Tid = m.Now.Add(7 * 24 * time.Hour)
	}
	if m.VarselType == "" {
		m.VarselType = models.VarselTypeInnkalt
	}

	ts, err := models.NewTidSted("Kontoret", m.Tid, "", m.Now)
	require.NoError(t, err)
	var behandler *models.Behandler
	if m.Behandler {
		behandler = &models.Behandler{BehandlerRef: BehandlerRef, Navn: "Lege Legesen", Kontor: "Legekontoret", MottarReferat: true}
	}
	mote, err := models.NewDialogmote(Veileder, Enhet,
		models.Arbeidstaker{PersonIdent: m.Ident},
		models.Arbeidsgiver{Virksomhetsnummer: Orgnr},
		behandler, ts, m.Now)
	require.NoError(t, err)

	err = st.RunInTx(ctx, func(ctx context.Context, tx service.TxStore) error {
		if err := tx.Create(ctx, mote); err != nil {
			return err
		}
		if err := addStatus(ctx, tx, mote, models.StatusInnkalt, m.Now); err != nil {
			return err
		}
		if m.Status != "" && m.Status != models.StatusInnkalt {
			if err := tx.UpdateStatus(ctx, mote.ID, m.Status, m.Now); err != nil {
				return err
			}
			if err := addStatus(ctx, tx, mote, m.Status, m.Now); err != nil {
				return err
			}
		}
		for _, pt := range dispatch.Recipients(mote, m.VarselType) {
			pdfID, err := tx.AddPdf(ctx, []byte("%PDF-"+string(pt)), m.Now)
			if err != nil {
				return err
			}
			v := models.Varsel{
				UUID:            uuid.New(),
				CreatedAt:       m.Now,
				UpdatedAt:       m.Now,
				MoteID:          mote.ID,
				ParticipantType: pt,
				ParticipantID:   mote.Participant(pt).ParticipantID(),
				Type:            m.VarselType,
				PdfID:           pdfID,
				Intent:          dispatch.Select(pt, m.VarselType),
				Document:        []models.DocumentComponent{{Type: models.ComponentParagraph, Texts: []string{"Velkommen"}}},
			}
			if err := tx.AddVarsel(ctx, &v); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	got, err := st.Get(ctx, mote.UUID)
	require.NoError(t, err)
	return got
}

func addStatus(ctx context.Context, tx service.TxStore, m *models.Dialogmote, status models.Status, now time.Time) error {
	return tx.AddStatusEndring(ctx, &models.StatusEndring{
		UUID:          uuid.New(),
		CreatedAt:     now,
		MoteID:        m.ID,
		Status:        status,
		OpprettetAv:   Veileder,
		Motetidspunkt: m.LatestTidSted().Tid,
	})
}

// Varsel returns the meeting's notice to pt, failing the test when absent.
func Varsel(t testing.TB, m *models.Dialogmote, pt models.ParticipantType) models.Varsel {
	t.Helper()
	p := m.Participant(pt)
	require.NotNil(t, p, "participant %s", pt)
	notices := p.Notices()
	require.NotEmpty(t, notices, "no varsel to %s", pt)
	return notices[len(notices)-1]
}

package store_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"isdialogmote/internal/dialogmote/dispatch"
	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/service"
	id "isdialogmote/pkg/domain"
	"isdialogmote/pkg/platform/sentinel"
)

// contractStore is what both the memory and the postgres store provide.
type contractStore interface {
	service.Store
	ListUnjournalfort(ctx context.Context, limit int) ([]models.VarselDelivery, error)
	ListUndistributed(ctx context.Context, limit int) ([]models.VarselDelivery, error)
	ListUnsentBehandlerMeldinger(ctx context.Context, limit int) ([]models.VarselDelivery, error)
	SetJournalpostID(ctx context.Context, varselUUID uuid.UUID, journalpostID string, now time.Time) error
	SetDistribution(ctx context.Context, varselUUID uuid.UUID, channel models.DistributionChannel, orderID *string, now time.Time) error
	SetBehandlerMeldingSent(ctx context.Context, varselUUID uuid.UUID, at time.Time) error
	ListUnpublishedStatusEndringer(ctx context.Context, limit int) ([]models.StatusEndringRecord, error)
	SetStatusEndringPublished(ctx context.Context, statusEndringID int64, at time.Time) error
	ListUnpublishedSvar(ctx context.Context, limit int) ([]models.DialogmotesvarRecord, error)
	SetSvarPublished(ctx context.Context, svarID int64, at time.Time) error
	ListOutdated(ctx context.Context, cutoff time.Time, include []uuid.UUID, limit int) ([]uuid.UUID, error)
	StatusEndringer(ctx context.Context, moteUUID uuid.UUID) ([]models.StatusEndring, error)
}

// StoreContractSuite runs the same behaviour checks against every store.
type StoreContractSuite struct {
	suite.Suite
	newStore func() contractStore
	store    contractStore
	now      time.Time
}

func (s *StoreContractSuite) SetupTest() {
	s.store = s.newStore()
	s.now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
}

func (s *StoreContractSuite) seed(ident id.PersonIdent, tid time.Time, withBehandler bool) *models.Dialogmote {
	ctx := context.Background()
	ts, err := models.NewTidSted("Kontoret", tid, "", s.now)
	s.Require().NoError(err)
	var behandler *models.Behandler
	if withBehandler {
		behandler = &models.Behandler{BehandlerRef: "beh-1", Navn: "Lege Legesen", Kontor: "Legekontoret"}
	}
	mote, err := models.NewDialogmote("Z990000", "0314",
		models.Arbeidstaker{PersonIdent: ident},
		models.Arbeidsgiver{Virksomhetsnummer: "912345678"},
		behandler, ts, s.now)
	s.Require().NoError(err)

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx service.TxStore) error {
		if err := tx.Create(ctx, mote); err != nil {
			return err
		}
		if err := tx.AddStatusEndring(ctx, &models.StatusEndring{
			UUID: uuid.New(), CreatedAt: s.now, MoteID: mote.ID, Status: models.StatusInnkalt,
			OpprettetAv: "Z990000", Motetidspunkt: tid,
		}); err != nil {
			return err
		}
		for _, pt := range dispatch.Recipients(mote, models.VarselTypeInnkalt) {
			pdfID, err := tx.AddPdf(ctx, []byte("%PDF-"+string(pt)), s.now)
			if err != nil {
				return err
			}
			v := models.Varsel{
				UUID: uuid.New(), CreatedAt: s.now, UpdatedAt: s.now, MoteID: mote.ID,
				ParticipantType: pt, ParticipantID: mote.Participant(pt).ParticipantID(),
				Type: models.VarselTypeInnkalt, PdfID: pdfID, Intent: dispatch.Select(pt, models.VarselTypeInnkalt),
				Document: []models.DocumentComponent{{Type: models.ComponentParagraph, Texts: []string{"Velkommen"}}},
			}
			if err := tx.AddVarsel(ctx, &v); err != nil {
				return err
			}
		}
		return nil
	})
	s.Require().NoError(err)
	return mote
}

func (s *StoreContractSuite) TestCreateAndGet() {
	ctx := context.Background()
	mote := s.seed("12345678901", s.now.Add(48*time.Hour), true)

	got, err := s.store.Get(ctx, mote.UUID)
	s.Require().NoError(err)
	s.Equal(models.StatusInnkalt, got.Status)
	s.Equal(id.PersonIdent("12345678901"), got.Arbeidstaker.PersonIdent)
	s.Require().NotNil(got.Behandler)
	s.Equal("beh-1", got.Behandler.BehandlerRef)
	s.Len(got.Arbeidstaker.Varsler, 1)
	s.Len(got.Arbeidsgiver.Varsler, 1)
	s.Len(got.Behandler.Varsler, 1)
	s.Equal("Kontoret", got.LatestTidSted().Sted)
}

func (s *StoreContractSuite) TestGetUnknownIsNotFound() {
	_, err := s.store.Get(context.Background(), uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *StoreContractSuite) TestFailedTransactionRollsBack() {
	ctx := context.Background()
	mote := s.seed("12345678901", s.now.Add(48*time.Hour), false)

	err := s.store.RunInTx(ctx, func(ctx context.Context, tx service.TxStore) error {
		if err := tx.UpdateStatus(ctx, mote.ID, models.StatusAvlyst, s.now); err != nil {
			return err
		}
		return sentinel.ErrUnavailable
	})
	s.Require().ErrorIs(err, sentinel.ErrUnavailable)

	got, err := s.store.Get(ctx, mote.UUID)
	s.Require().NoError(err)
	s.Equal(models.StatusInnkalt, got.Status)
}

func (s *StoreContractSuite) TestListByPersonAndEnhet() {
	ctx := context.Background()
	s.seed("12345678901", s.now.Add(time.Hour), false)
	s.seed("12345678901", s.now.Add(2*time.Hour), false)
	s.seed("10987654321", s.now.Add(3*time.Hour), false)

	byPerson, err := s.store.ListByPerson(ctx, "12345678901")
	s.Require().NoError(err)
	s.Len(byPerson, 2)

	byEnhet, err := s.store.ListByEnhet(ctx, "0314")
	s.Require().NoError(err)
	s.Len(byEnhet, 3)
}

func (s *StoreContractSuite) TestJournalpostIDIsWriteOnce() {
	ctx := context.Background()
	s.seed("12345678901", s.now.Add(time.Hour), true)

	pending, err := s.store.ListUnjournalfort(ctx, 100)
	s.Require().NoError(err)
	// arbeidstaker and arbeidsgiver, behandler invitations go over the bus only
	s.Require().Len(pending, 2)
	s.Equal([]byte("%PDF-"+string(pending[0].Varsel.ParticipantType)), pending[0].Pdf)

	first := pending[0].Varsel.UUID
	s.Require().NoError(s.store.SetJournalpostID(ctx, first, "jp-1", s.now))
	s.Require().NoError(s.store.SetJournalpostID(ctx, first, "jp-2", s.now))

	mote, err := s.store.GetByVarselUUID(ctx, first)
	s.Require().NoError(err)
	v, ok := mote.FindVarsel(first)
	s.Require().True(ok)
	s.Equal("jp-1", *v.JournalpostID)

	pending, err = s.store.ListUnjournalfort(ctx, 100)
	s.Require().NoError(err)
	s.Len(pending, 1)

	s.ErrorIs(s.store.SetJournalpostID(ctx, uuid.New(), "jp-3", s.now), sentinel.ErrNotFound)
}

func (s *StoreContractSuite) TestUndistributedSkipsFailedJournalforing() {
	ctx := context.Background()
	s.seed("12345678901", s.now.Add(time.Hour), false)

	pending, err := s.store.ListUnjournalfort(ctx, 100)
	s.Require().NoError(err)
	s.Require().Len(pending, 2)
	s.Require().NoError(s.store.SetJournalpostID(ctx, pending[0].Varsel.UUID, "jp-1", s.now))
	s.Require().NoError(s.store.SetJournalpostID(ctx, pending[1].Varsel.UUID, models.JournalpostIDFailed, s.now))

	undistributed, err := s.store.ListUndistributed(ctx, 100)
	s.Require().NoError(err)
	s.Require().Len(undistributed, 1)
	s.Equal(pending[0].Varsel.UUID, undistributed[0].Varsel.UUID)

	s.Require().NoError(s.store.SetDistribution(ctx, pending[0].Varsel.UUID, models.ChannelSuppressed, nil, s.now))
	undistributed, err = s.store.ListUndistributed(ctx, 100)
	s.Require().NoError(err)
	s.Empty(undistributed)
}

func (s *StoreContractSuite) TestBehandlerMeldinger() {
	ctx := context.Background()
	s.seed("12345678901", s.now.Add(time.Hour), true)

	pending, err := s.store.ListUnsentBehandlerMeldinger(ctx, 100)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Require().NotNil(pending[0].Behandler)
	s.Equal("Lege Legesen", pending[0].Behandler.Navn)

	s.Require().NoError(s.store.SetBehandlerMeldingSent(ctx, pending[0].Varsel.UUID, s.now))
	pending, err = s.store.ListUnsentBehandlerMeldinger(ctx, 100)
	s.Require().NoError(err)
	s.Empty(pending)
}

func (s *StoreContractSuite) TestStatusEndringOutbox() {
	ctx := context.Background()
	mote := s.seed("12345678901", s.now.Add(time.Hour), true)

	pending, err := s.store.ListUnpublishedStatusEndringer(ctx, 100)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(mote.UUID, pending[0].MoteUUID)
	s.True(pending[0].HasBehandler)
	s.Equal(id.EnhetNr("0314"), pending[0].EnhetNr)

	s.Require().NoError(s.store.SetStatusEndringPublished(ctx, pending[0].ID, s.now))
	pending, err = s.store.ListUnpublishedStatusEndringer(ctx, 100)
	s.Require().NoError(err)
	s.Empty(pending)

	log, err := s.store.StatusEndringer(ctx, mote.UUID)
	s.Require().NoError(err)
	s.Require().Len(log, 1)
	s.NotNil(log[0].PublishedAt)
}

func (s *StoreContractSuite) TestSvarIsUniquePerVarsel() {
	ctx := context.Background()
	mote := s.seed("12345678901", s.now.Add(time.Hour), false)
	got, err := s.store.Get(ctx, mote.UUID)
	s.Require().NoError(err)
	varsel := got.Arbeidstaker.Varsler
	s.Require().Len(varsel, 1)

	addSvar := func() error {
		return s.store.RunInTx(ctx, func(ctx context.Context, tx service.TxStore) error {
			return tx.AddSvar(ctx, &models.Dialogmotesvar{
				UUID: uuid.New(), CreatedAt: s.now, MoteID: got.ID, VarselUUID: varsel[0].UUID,
				ParticipantType: models.ParticipantArbeidstaker, SvarType: models.SvarKommer,
			})
		})
	}
	s.Require().NoError(addSvar())
	s.ErrorIs(addSvar(), sentinel.ErrConflict)

	pending, err := s.store.ListUnpublishedSvar(ctx, 100)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(models.SvarKommer, pending[0].SvarType)
	s.True(pending[0].VarselSentAt.Equal(s.now))
}

func (s *StoreContractSuite) TestListOutdated() {
	ctx := context.Background()
	old := s.seed("12345678901", s.now.AddDate(0, -7, 0), false)
	recent := s.seed("12345678901", s.now.Add(time.Hour), false)
	listed := s.seed("10987654321", s.now.Add(2*time.Hour), false)

	cutoff := s.now.AddDate(0, 0, -180)
	got, err := s.store.ListOutdated(ctx, cutoff, []uuid.UUID{listed.UUID}, 100)
	s.Require().NoError(err)
	s.ElementsMatch([]uuid.UUID{old.UUID, listed.UUID}, got)
	s.NotContains(got, recent.UUID)
}

func (s *StoreContractSuite) TestSaveReferatNeverOverwritesFinal() {
	ctx := context.Background()
	mote := s.seed("12345678901", s.now.Add(time.Hour), false)
	save := func(final bool, konklusjon string) error {
		return s.store.RunInTx(ctx, func(ctx context.Context, tx service.TxStore) error {
			return tx.SaveReferat(ctx, &models.Referat{
				UUID: uuid.New(), CreatedAt: s.now, UpdatedAt: s.now, MoteID: mote.ID,
				Konklusjon: konklusjon, NarmesteLederNavn: "Leder", Ferdigstilt: final,
			})
		})
	}
	s.Require().NoError(save(false, "utkast"))
	s.Require().NoError(save(true, "ferdig"))
	s.ErrorIs(save(false, "endret"), sentinel.ErrConflict)

	got, err := s.store.Get(ctx, mote.UUID)
	s.Require().NoError(err)
	s.Require().NotNil(got.Referat)
	s.Equal("ferdig", got.Referat.Konklusjon)
}

func (s *StoreContractSuite) TestChangeIdentAndDelete() {
	ctx := context.Background()
	s.seed("12345678901", s.now.Add(time.Hour), true)
	s.seed("12345678901", s.now.Add(time.Hour), false)

	var updated, deleted int
	s.Require().NoError(s.store.RunInTx(ctx, func(ctx context.Context, tx service.TxStore) error {
		var err error
		updated, err = tx.UpdatePersonIdent(ctx, "12345678901", "10987654321")
		return err
	}))
	s.Equal(2, updated)

	s.Require().NoError(s.store.RunInTx(ctx, func(ctx context.Context, tx service.TxStore) error {
		var err error
		deleted, err = tx.DeleteByPerson(ctx, "10987654321")
		return err
	}))
	s.Equal(2, deleted)

	motes, err := s.store.ListByPerson(ctx, "10987654321")
	s.Require().NoError(err)
	s.Empty(motes)
}

func (s *StoreContractSuite) TestMarkVarselLestOnce() {
	ctx := context.Background()
	mote := s.seed("12345678901", s.now.Add(time.Hour), false)
	got, err := s.store.Get(ctx, mote.UUID)
	s.Require().NoError(err)
	varselUUID := got.Arbeidstaker.Varsler[0].UUID

	var first, second bool
	s.Require().NoError(s.store.RunInTx(ctx, func(ctx context.Context, tx service.TxStore) error {
		var err error
		first, err = tx.MarkVarselLest(ctx, varselUUID, s.now)
		if err != nil {
			return err
		}
		second, err = tx.MarkVarselLest(ctx, varselUUID, s.now.Add(time.Hour))
		return err
	}))
	s.True(first)
	s.False(second)
}

package journalforing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"isdialogmote/internal/cronjob"
	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/ports"
	"isdialogmote/internal/dialogmote/ports/mocks"
	"isdialogmote/internal/dialogmote/publishers/journalforing"
	"isdialogmote/internal/dialogmote/store"
	"isdialogmote/internal/dialogmote/store/storetest"
)

type JournalforingSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	store   *store.Memory
	archive *mocks.MockArchiveClient
	persons *mocks.MockPersonRegistry
	orgs    *mocks.MockOrganizationRegistry
	now     time.Time
}

func TestJournalforingSuite(t *testing.T) {
	suite.Run(t, new(JournalforingSuite))
}

func (s *JournalforingSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = store.NewMemory()
	s.archive = mocks.NewMockArchiveClient(s.ctrl)
	s.persons = mocks.NewMockPersonRegistry(s.ctrl)
	s.orgs = mocks.NewMockOrganizationRegistry(s.ctrl)
	s.now = time.Date(2026, 3, 3, 7, 0, 0, 0, time.UTC)
}

func (s *JournalforingSuite) publisher(opts ...journalforing.Option) *journalforing.Publisher {
	opts = append([]journalforing.Option{journalforing.WithClock(func() time.Time { return s.now })}, opts...)
	return journalforing.New(s.store, s.archive, s.persons, s.orgs, opts...)
}

func (s *JournalforingSuite) expectNames() {
	s.persons.EXPECT().DisplayName(gomock.Any(), storetest.Ident).Return("Ola Nordmann", nil).AnyTimes()
	s.orgs.EXPECT().DisplayName(gomock.Any(), storetest.Orgnr).Return("Bedrift AS", nil).AnyTimes()
}

func (s *JournalforingSuite) journalpostID(m *models.Dialogmote, pt models.ParticipantType) *string {
	got, err := s.store.Get(context.Background(), m.UUID)
	s.Require().NoError(err)
	return storetest.Varsel(s.T(), got, pt).JournalpostID
}

func (s *JournalforingSuite) TestArchivesEachRecipientOnce() {
	mote := storetest.Seed(s.T(), s.store, storetest.Mote{Behandler: true})
	s.expectNames()

	var requests []ports.ArchiveRequest
	s.archive.EXPECT().Archive(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.ArchiveRequest) (string, error) {
			requests = append(requests, req)
			return "jp-" + string(req.Recipient.IDType), nil
		}).Times(2)

	res, err := s.publisher().Run(context.Background())
	s.Require().NoError(err)
	s.Equal(cronjob.Result{Updated: 2}, res)

	s.Require().Len(requests, 2)
	byType := map[ports.RecipientIDType]ports.ArchiveRequest{}
	for _, r := range requests {
		byType[r.Recipient.IDType] = r
	}
	at := byType[ports.RecipientFNR]
	s.Equal("Innkalling til dialogmøte", at.Title)
	s.Equal("OPPF_DM_INNKALLING_AT", at.Brevkode)
	s.Equal("Ola Nordmann", at.Recipient.Name)
	s.Equal(storetest.Ident, at.Subject)
	s.Equal([]byte("%PDF-ARBEIDSTAKER"), at.Pdf)
	ag := byType[ports.RecipientORGNR]
	s.Equal("OPPF_DM_INNKALLING_AG", ag.Brevkode)
	s.Equal(storetest.Orgnr.String(), ag.Recipient.ID)

	s.Equal("jp-FNR", *s.journalpostID(mote, models.ParticipantArbeidstaker))
	s.Equal("jp-ORGNR", *s.journalpostID(mote, models.ParticipantArbeidsgiver))

	s.Run("second run has nothing to do", func() {
		res, err := s.publisher().Run(context.Background())
		s.Require().NoError(err)
		s.Equal(cronjob.Result{}, res)
	})
}

func (s *JournalforingSuite) TestConflictCountsAsSuccess() {
	mote := storetest.Seed(s.T(), s.store, storetest.Mote{})
	s.expectNames()
	s.archive.EXPECT().Archive(gomock.Any(), gomock.Any()).
		Return("", &ports.ArchiveConflictError{JournalpostID: "jp-existing"}).Times(2)

	res, err := s.publisher().Run(context.Background())
	s.Require().NoError(err)
	s.Equal(cronjob.Result{Updated: 2}, res)
	s.Equal("jp-existing", *s.journalpostID(mote, models.ParticipantArbeidstaker))
}

func (s *JournalforingSuite) TestFailureWithRetryStaysInBacklog() {
	mote := storetest.Seed(s.T(), s.store, storetest.Mote{})
	s.expectNames()
	s.archive.EXPECT().Archive(gomock.Any(), gomock.Any()).Return("", errors.New("503")).Times(2)

	res, err := s.publisher().Run(context.Background())
	s.Require().NoError(err)
	s.Equal(cronjob.Result{Failed: 2}, res)
	s.Nil(s.journalpostID(mote, models.ParticipantArbeidstaker))

	backlog, err := s.store.ListUnjournalfort(context.Background(), 10)
	s.Require().NoError(err)
	s.Len(backlog, 2)
}

func (s *JournalforingSuite) TestFailureWithoutRetryStoresSentinel() {
	mote := storetest.Seed(s.T(), s.store, storetest.Mote{})
	s.expectNames()
	s.archive.EXPECT().Archive(gomock.Any(), gomock.Any()).Return("", errors.New("400")).Times(2)

	res, err := s.publisher(journalforing.WithRetry(false)).Run(context.Background())
	s.Require().NoError(err)
	s.Equal(cronjob.Result{Failed: 2}, res)
	s.Equal(models.JournalpostIDFailed, *s.journalpostID(mote, models.ParticipantArbeidsgiver))

	s.Run("failed notices are never distributed", func() {
		undistributed, err := s.store.ListUndistributed(context.Background(), 10)
		s.Require().NoError(err)
		s.Empty(undistributed)
	})
}

func (s *JournalforingSuite) TestNameLookupFailureSkipsArchive() {
	storetest.Seed(s.T(), s.store, storetest.Mote{})
	s.persons.EXPECT().DisplayName(gomock.Any(), storetest.Ident).Return("", errors.New("pdl down"))
	s.orgs.EXPECT().DisplayName(gomock.Any(), storetest.Orgnr).Return("Bedrift AS", nil)
	s.archive.EXPECT().Archive(gomock.Any(), gomock.Any()).Return("jp-1", nil)

	res, err := s.publisher().Run(context.Background())
	s.Require().NoError(err)
	s.Equal(cronjob.Result{Updated: 1, Failed: 1}, res)
}

func (s *JournalforingSuite) TestBehandlerReferatUsesHprWithoutIdent() {
	mote := storetest.Seed(s.T(), s.store, storetest.Mote{
		Behandler: true, Status: models.StatusFerdigstilt, VarselType: models.VarselTypeReferat,
	})
	s.expectNames()

	var beh ports.ArchiveRequest
	s.archive.EXPECT().Archive(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.ArchiveRequest) (string, error) {
			if req.Recipient.IDType == ports.RecipientHPRNR {
				beh = req
			}
			return "jp-" + req.IdempotencyKey, nil
		}).Times(3)

	res, err := s.publisher().Run(context.Background())
	s.Require().NoError(err)
	s.Equal(cronjob.Result{Updated: 3}, res)
	s.Equal(storetest.BehandlerRef, beh.Recipient.ID)
	s.Equal("Lege Legesen", beh.Recipient.Name)
	s.Equal("OPPF_DM_REFERAT_BEH", beh.Brevkode)
	s.Equal(storetest.Ident, beh.Subject)
	s.NotNil(s.journalpostID(mote, models.ParticipantBehandler))
}

func (s *JournalforingSuite) TestBatchSize() {
	storetest.Seed(s.T(), s.store, storetest.Mote{})
	storetest.Seed(s.T(), s.store, storetest.Mote{Ident: "22345678912"})
	s.persons.EXPECT().DisplayName(gomock.Any(), gomock.Any()).Return("Navn", nil).AnyTimes()
	s.orgs.EXPECT().DisplayName(gomock.Any(), gomock.Any()).Return("Bedrift AS", nil).AnyTimes()
	s.archive.EXPECT().Archive(gomock.Any(), gomock.Any()).Return("jp", nil).Times(3)

	res, err := s.publisher(journalforing.WithBatchSize(3)).Run(context.Background())
	s.Require().NoError(err)
	s.Equal(cronjob.Result{Updated: 3}, res)
}

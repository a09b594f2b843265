package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/ports/mocks"
	id "isdialogmote/pkg/domain"
)

func moteWithBehandler(mottarReferat bool) *models.Dialogmote {
	return &models.Dialogmote{
		Arbeidstaker: models.Arbeidstaker{PersonIdent: "12345678912"},
		Arbeidsgiver: models.Arbeidsgiver{Virksomhetsnummer: "912345678"},
		Behandler:    &models.Behandler{BehandlerRef: "b-1", MottarReferat: mottarReferat},
	}
}

func TestRecipients(t *testing.T) {
	at, ag, beh := models.ParticipantArbeidstaker, models.ParticipantArbeidsgiver, models.ParticipantBehandler

	tests := []struct {
		name string
		mote *models.Dialogmote
		vt   models.VarselType
		want []models.ParticipantType
	}{
		{"innkalling reaches behandler", moteWithBehandler(false), models.VarselTypeInnkalt, []models.ParticipantType{at, ag, beh}},
		{"reschedule never reaches behandler", moteWithBehandler(true), models.VarselTypeNyttTidSted, []models.ParticipantType{at, ag}},
		{"cancellation reaches behandler", moteWithBehandler(false), models.VarselTypeAvlyst, []models.ParticipantType{at, ag, beh}},
		{"referat reaches flagged behandler", moteWithBehandler(true), models.VarselTypeReferat, []models.ParticipantType{at, ag, beh}},
		{"referat skips unflagged behandler", moteWithBehandler(false), models.VarselTypeReferat, []models.ParticipantType{at, ag}},
		{"no behandler", &models.Dialogmote{}, models.VarselTypeAvlyst, []models.ParticipantType{at, ag}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Recipients(tt.mote, tt.vt))
		})
	}
}

func TestSelect(t *testing.T) {
	t.Run("arbeidstaker gets in-app, archival and distribution", func(t *testing.T) {
		intent := Select(models.ParticipantArbeidstaker, models.VarselTypeInnkalt)
		assert.True(t, intent.InApp)
		assert.True(t, intent.Journalfor)
		assert.Equal(t, models.DistributionArbeidstaker, intent.Distribution)
		assert.False(t, intent.BehandlerMelding)
	})

	t.Run("arbeidsgiver gets archival and distribution", func(t *testing.T) {
		intent := Select(models.ParticipantArbeidsgiver, models.VarselTypeAvlyst)
		assert.False(t, intent.InApp)
		assert.True(t, intent.Journalfor)
		assert.Equal(t, models.DistributionArbeidsgiver, intent.Distribution)
	})

	t.Run("behandler goes over the messaging bus", func(t *testing.T) {
		intent := Select(models.ParticipantBehandler, models.VarselTypeInnkalt)
		assert.True(t, intent.BehandlerMelding)
		assert.False(t, intent.Journalfor)
		assert.Equal(t, models.DistributionNone, intent.Distribution)
	})

	t.Run("behandler referat is archived as well", func(t *testing.T) {
		intent := Select(models.ParticipantBehandler, models.VarselTypeReferat)
		assert.True(t, intent.BehandlerMelding)
		assert.True(t, intent.Journalfor)
	})
}

func TestRouter_ResolveChannel(t *testing.T) {
	ctx := context.Background()
	ident := id.PersonIdent("12345678912")
	orgnr := id.Virksomhetsnummer("912345678")

	delivery := func(kind models.DistributionKind) models.VarselDelivery {
		return models.VarselDelivery{
			Varsel:            models.Varsel{Intent: models.Intent{Distribution: kind}},
			PersonIdent:       ident,
			Virksomhetsnummer: orgnr,
		}
	}

	t.Run("protected arbeidstaker is suppressed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		persons := mocks.NewMockPersonRegistry(ctrl)
		persons.EXPECT().IsProtected(gomock.Any(), ident).Return(true, nil)

		ch, err := NewRouter(persons, nil).ResolveChannel(ctx, delivery(models.DistributionArbeidstaker))
		require.NoError(t, err)
		assert.Equal(t, models.ChannelSuppressed, ch)
	})

	t.Run("unprotected arbeidstaker goes digital", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		persons := mocks.NewMockPersonRegistry(ctrl)
		persons.EXPECT().IsProtected(gomock.Any(), ident).Return(false, nil)

		ch, err := NewRouter(persons, nil).ResolveChannel(ctx, delivery(models.DistributionArbeidstaker))
		require.NoError(t, err)
		assert.Equal(t, models.ChannelDigital, ch)
	})

	t.Run("reachable arbeidsgiver uses the portal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		portal := mocks.NewMockPortalChecker(ctrl)
		portal.EXPECT().IsReachable(gomock.Any(), orgnr, ident).Return(true, nil)

		ch, err := NewRouter(nil, portal).ResolveChannel(ctx, delivery(models.DistributionArbeidsgiver))
		require.NoError(t, err)
		assert.Equal(t, models.ChannelPortal, ch)
	})

	t.Run("unreachable arbeidsgiver gets paper", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		portal := mocks.NewMockPortalChecker(ctrl)
		portal.EXPECT().IsReachable(gomock.Any(), orgnr, ident).Return(false, nil)

		ch, err := NewRouter(nil, portal).ResolveChannel(ctx, delivery(models.DistributionArbeidsgiver))
		require.NoError(t, err)
		assert.Equal(t, models.ChannelPaper, ch)
	})

	t.Run("registry failure propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		portal := mocks.NewMockPortalChecker(ctrl)
		portal.EXPECT().IsReachable(gomock.Any(), orgnr, ident).Return(false, errors.New("timeout"))

		_, err := NewRouter(nil, portal).ResolveChannel(ctx, delivery(models.DistributionArbeidsgiver))
		require.Error(t, err)
	})
}

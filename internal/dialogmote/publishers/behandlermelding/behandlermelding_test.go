package behandlermelding_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"isdialogmote/internal/cronjob"
	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/ports"
	"isdialogmote/internal/dialogmote/ports/mocks"
	"isdialogmote/internal/dialogmote/publishers/behandlermelding"
	"isdialogmote/internal/dialogmote/store"
	"isdialogmote/internal/dialogmote/store/storetest"
)

func TestPublisher_Run(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	clock := behandlermelding.WithClock(func() time.Time { return now })

	t.Run("sends the invitation to behandler", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		st := store.NewMemory()
		bus := mocks.NewMockBehandlerBus(ctrl)
		mote := storetest.Seed(t, st, storetest.Mote{Behandler: true})
		varsel := storetest.Varsel(t, mote, models.ParticipantBehandler)

		bus.EXPECT().Send(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msg ports.BehandlerMelding) error {
				assert.Equal(t, varsel.UUID, msg.VarselUUID)
				assert.Equal(t, mote.UUID, msg.MoteUUID)
				assert.Equal(t, storetest.BehandlerRef, msg.BehandlerRef)
				assert.Equal(t, models.VarselTypeInnkalt, msg.Type)
				assert.Equal(t, "Kontoret", msg.Sted)
				assert.Equal(t, []byte("%PDF-BEHANDLER"), msg.Pdf)
				return nil
			})

		pub := behandlermelding.New(st, bus, clock)
		res, err := pub.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, cronjob.Result{Updated: 1}, res)

		got, err := st.Get(ctx, mote.UUID)
		require.NoError(t, err)
		sent := storetest.Varsel(t, got, models.ParticipantBehandler).BehandlerMeldingSentAt
		require.NotNil(t, sent)
		assert.Equal(t, now, *sent)

		res, err = pub.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, cronjob.Result{}, res)
	})

	t.Run("meeting without behandler sends nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		st := store.NewMemory()
		storetest.Seed(t, st, storetest.Mote{})

		res, err := behandlermelding.New(st, mocks.NewMockBehandlerBus(ctrl), clock).Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, cronjob.Result{}, res)
	})

	t.Run("bus failure keeps the melding pending", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		st := store.NewMemory()
		bus := mocks.NewMockBehandlerBus(ctrl)
		storetest.Seed(t, st, storetest.Mote{Behandler: true})
		bus.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("no ack"))

		res, err := behandlermelding.New(st, bus, clock).Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, cronjob.Result{Failed: 1}, res)

		pending, err := st.ListUnsentBehandlerMeldinger(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, pending, 1)
	})
}

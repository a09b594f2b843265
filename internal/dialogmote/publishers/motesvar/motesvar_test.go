package motesvar_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"isdialogmote/internal/cronjob"
	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/ports/mocks"
	"isdialogmote/internal/dialogmote/publishers/motesvar"
	"isdialogmote/internal/dialogmote/service"
	"isdialogmote/internal/dialogmote/store"
	"isdialogmote/internal/dialogmote/store/storetest"
)

func addSvar(t *testing.T, st *store.Memory, m *models.Dialogmote, pt models.ParticipantType, svar models.SvarType, tekst *string, at time.Time) {
	t.Helper()
	v := storetest.Varsel(t, m, pt)
	err := st.RunInTx(context.Background(), func(ctx context.Context, tx service.TxStore) error {
		return tx.AddSvar(ctx, &models.Dialogmotesvar{
			UUID: uuid.New(), CreatedAt: at, MoteID: m.ID, VarselUUID: v.UUID,
			ParticipantType: pt, SvarType: svar, SvarTekst: tekst,
		})
	})
	require.NoError(t, err)
}

func TestPublisher_Run(t *testing.T) {
	ctx := context.Background()
	seeded := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	now := seeded.Add(24 * time.Hour)
	clock := motesvar.WithClock(func() time.Time { return now })

	t.Run("publishes each svar once", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		st := store.NewMemory()
		bus := mocks.NewMockEventBus(ctrl)
		mote := storetest.Seed(t, st, storetest.Mote{Now: seeded, Behandler: true})
		tekst := "Passer ikke"
		addSvar(t, st, mote, models.ParticipantArbeidsgiver, models.SvarNyttTidSted, &tekst, seeded.Add(time.Hour))
		addSvar(t, st, mote, models.ParticipantBehandler, models.SvarKommer, nil, seeded.Add(2*time.Hour))

		var events []motesvar.Event
		bus.EXPECT().Publish(gomock.Any(), motesvar.DefaultTopic, mote.UUID.String(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ string, payload []byte) error {
				var e motesvar.Event
				require.NoError(t, json.Unmarshal(payload, &e))
				events = append(events, e)
				return nil
			}).Times(2)

		pub := motesvar.New(st, bus, clock)
		res, err := pub.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, cronjob.Result{Updated: 2}, res)

		require.Len(t, events, 2)
		assert.Equal(t, "NYTT_TID_STED", events[0].SvarType)
		assert.Equal(t, "ARBEIDSGIVER", events[0].SenderType)
		require.NotNil(t, events[0].SvarTekst)
		assert.Equal(t, tekst, *events[0].SvarTekst)
		assert.True(t, seeded.Equal(events[0].BrevSentAt))
		assert.True(t, seeded.Add(time.Hour).Equal(events[0].SvarReceivedAt))
		assert.Equal(t, "BEHANDLER", events[1].SenderType)
		assert.Nil(t, events[1].SvarTekst)

		res, err = pub.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, cronjob.Result{}, res)
	})

	t.Run("failed publish is retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		st := store.NewMemory()
		bus := mocks.NewMockEventBus(ctrl)
		mote := storetest.Seed(t, st, storetest.Mote{Now: seeded})
		addSvar(t, st, mote, models.ParticipantArbeidstaker, models.SvarKommer, nil, seeded.Add(time.Hour))

		gomock.InOrder(
			bus.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("timeout")),
			bus.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
		)

		pub := motesvar.New(st, bus, clock)
		res, err := pub.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, cronjob.Result{Failed: 1}, res)

		res, err = pub.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, cronjob.Result{Updated: 1}, res)
	})
}

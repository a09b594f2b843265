package clients

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/ports"
	"isdialogmote/internal/dialogmote/ports/mocks"
)

func TestVarselbus_Notify(t *testing.T) {
	ctrl := gomock.NewController(t)
	bus := mocks.NewMockEventBus(ctrl)
	n := ports.InAppNotification{
		VarselUUID:  uuid.New(),
		MoteUUID:    uuid.New(),
		PersonIdent: "12345678912",
		Type:        models.VarselTypeAvlyst,
		CreatedAt:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}

	bus.EXPECT().Publish(gomock.Any(), "team-esyfo.varselbus", n.VarselUUID.String(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, payload []byte) error {
			var msg varselbusMessage
			require.NoError(t, json.Unmarshal(payload, &msg))
			assert.Equal(t, "SM_DIALOGMOTE_AVLYST", msg.Type)
			assert.Equal(t, "12345678912", msg.PersonIdent)
			assert.Equal(t, "https://www.nav.no/syk/dialogmote", msg.Link)
			return nil
		})

	err := NewVarselbus(bus, "team-esyfo.varselbus", "https://www.nav.no/syk/dialogmote").Notify(context.Background(), n)
	require.NoError(t, err)
}

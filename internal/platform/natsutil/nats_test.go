package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/ports"
)

type fakeJetStream struct {
	nats.JetStreamContext
	subject string
	data    []byte
	opts    int
	err     error
}

func (f *fakeJetStream) Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error) {
	f.subject, f.data, f.opts = subj, data, len(opts)
	if f.err != nil {
		return nil, f.err
	}
	return &nats.PubAck{Stream: StreamName, Sequence: 1}, nil
}

func TestBehandlerBus_Send(t *testing.T) {
	msg := ports.BehandlerMelding{
		VarselUUID:   uuid.New(),
		MoteUUID:     uuid.New(),
		BehandlerRef: "beh-1",
		PersonIdent:  "12345678912",
		Type:         models.VarselTypeInnkalt,
		Tid:          time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
		Sted:         "Legekontoret",
		Document:     []models.DocumentComponent{{Type: models.ComponentParagraph, Texts: []string{"Velkommen"}}},
		Pdf:          []byte("%PDF"),
	}

	t.Run("publishes on the type subject with message id", func(t *testing.T) {
		js := &fakeJetStream{}
		bus := NewBehandlerBus(js, "dialogmelding.behandler")
		require.NoError(t, bus.Send(context.Background(), msg))

		assert.Equal(t, "dialogmelding.behandler.innkalt", js.subject)
		assert.Equal(t, 2, js.opts)

		var body behandlerMessage
		require.NoError(t, json.Unmarshal(js.data, &body))
		assert.Equal(t, msg.VarselUUID.String(), body.MeldingUUID)
		assert.Equal(t, "beh-1", body.BehandlerRef)
		assert.Equal(t, []byte("%PDF"), body.Pdf)
		assert.Equal(t, msg.Document, body.Document)
	})

	t.Run("broker failure is returned", func(t *testing.T) {
		js := &fakeJetStream{err: errors.New("no responders")}
		err := NewBehandlerBus(js, "dialogmelding.behandler.>").Send(context.Background(), msg)
		require.Error(t, err)
		assert.Equal(t, "dialogmelding.behandler.innkalt", js.subject)
	})
}

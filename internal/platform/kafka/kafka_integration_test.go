//go:build integration

package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"isdialogmote/pkg/testutil/containers"
)

func TestProducer_PublishIsKeyed(t *testing.T) {
	kc := containers.GetManager().GetKafka(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	producer, err := NewProducer(kc.Brokers)
	require.NoError(t, err)
	defer producer.Close()

	topic := "statusendring-" + time.Now().Format("150405.000")
	require.NoError(t, producer.EnsureTopics(ctx, 1, 1, topic))
	require.NoError(t, producer.EnsureTopics(ctx, 1, 1, topic), "existing topic is fine")

	require.NoError(t, producer.Publish(ctx, topic, "mote-1", []byte(`{"statusEndringType":"INNKALT"}`)))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(kc.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.Empty(t, fetches.Errors())
	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "mote-1", string(records[0].Key))
	assert.JSONEq(t, `{"statusEndringType":"INNKALT"}`, string(records[0].Value))
}

package kafka

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miladsoleymani/mqconnect/broker"
	"github.com/miladsoleymani/mqconnect/config"
	"github.com/miladsoleymani/mqconnect/core"
)

func TestMessage_Headers(t *testing.T) {
	m := newMessage(nil, kafka.Message{
		Topic:   "orders",
		Headers: []kafka.Header{{Key: "a", Value: []byte("1")}},
	}, nil)

	require.NoError(t, m.SetHeader("a", "2"))
	require.NoError(t, m.SetHeader(core.HeaderCorrelationID, "c1"))
	assert.Error(t, m.SetHeader("", "x"))

	assert.Equal(t, map[string]string{
		"a":                      "2",
		core.HeaderCorrelationID: "c1",
		core.HeaderDestination:   "orders",
	}, m.Headers())
	assert.Len(t, m.raw.Headers, 2)
}

func TestMessage_Timestamp(t *testing.T) {
	sent := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newMessage(nil, kafka.Message{Topic: "o", Time: sent}, nil)

	ts, err := core.NewHandle(m).Timestamp()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T12:00:00Z", ts)

	withHeader := newMessage(nil, kafka.Message{
		Topic:   "o",
		Time:    sent,
		Headers: []kafka.Header{{Key: core.HeaderTimestamp, Value: []byte("custom")}},
	}, nil)
	assert.Equal(t, "custom", withHeader.Headers()[core.HeaderTimestamp])

	assert.NotContains(t, newMessage(nil, kafka.Message{Topic: "o"}, nil).Headers(), core.HeaderTimestamp)
}

func TestMessage_RejectedSetIsSoft(t *testing.T) {
	h := core.NewHandle(newMessage(nil, kafka.Message{}, nil))
	assert.NoError(t, h.SetHeader("", "x"))
}

func TestOptsFromConfig(t *testing.T) {
	cfg := broker.Config{
		Username: "u",
		Password: "p",
		ClientID: "c",
		Properties: config.Properties{
			PropAsync:     "true",
			PropBatchSize: "50",
			PropMaxBytes:  "1024",
		},
	}
	fns, err := optsFromConfig(cfg)
	require.NoError(t, err)

	o := defaults()
	for _, fn := range fns {
		fn(&o)
	}
	assert.True(t, o.async)
	assert.Equal(t, 50, o.batchSize)
	assert.Equal(t, 1024, o.maxBytes)
	require.NotNil(t, o.dialer)
	assert.Equal(t, "c", o.dialer.ClientID)
	assert.NotNil(t, o.dialer.SASLMechanism)
}

func TestOptsFromConfig_Invalid(t *testing.T) {
	_, err := optsFromConfig(broker.Config{Properties: config.Properties{PropBatchSize: "lots"}})
	assert.Error(t, err)
}

func TestNew_RequiresBrokers(t *testing.T) {
	_, err := New(nil, "g")
	assert.Error(t, err)
}

func TestPublishAfterClose(t *testing.T) {
	b, err := New([]string{"localhost:9092"}, "")
	require.NoError(t, err)
	require.NoError(t, b.Close())
	assert.ErrorIs(t, b.Publish(context.Background(), "t", core.NewMessage(nil, nil, nil)), core.ErrBrokerClosed)
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in   string
		want kafka.Compression
	}{
		{"", 0},
		{"none", 0},
		{"GZIP", kafka.Gzip},
		{"snappy", kafka.Snappy},
		{" lz4 ", kafka.Lz4},
		{"zstd", kafka.Zstd},
	}
	for _, tt := range tests {
		got, err := parseCompression(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseCompression("brotli")
	assert.Error(t, err)

	_, err = optsFromConfig(broker.Config{Properties: config.Properties{PropCompression: "brotli"}})
	assert.Error(t, err)
}

func TestOutbound(t *testing.T) {
	msg := core.NewMessage([]byte("k"), []byte("v"), map[string]string{
		core.HeaderMessageID:   "m-1",
		core.HeaderTimestamp:   "2024-03-01T12:00:00Z",
		core.HeaderDestination: "elsewhere",
		core.HeaderRedelivered: "false",
	})
	km, err := outbound("orders", msg)
	require.NoError(t, err)

	assert.Equal(t, "orders", km.Topic)
	assert.Equal(t, []byte("k"), km.Key)
	assert.True(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).Equal(km.Time))
	assert.Equal(t, []kafka.Header{{Key: core.HeaderMessageID, Value: []byte("m-1")}}, km.Headers)

	_, err = outbound("orders", core.NewMessage(nil, nil, map[string]string{core.HeaderTimestamp: "soon"}))
	assert.Error(t, err)
}

func TestNew_SubscriptionGroup(t *testing.T) {
	named, err := New([]string{"localhost:9092"}, "billing")
	require.NoError(t, err)
	t.Cleanup(func() { _ = named.Close() })
	assert.Equal(t, "billing", named.group)
	assert.Equal(t, kafka.FirstOffset, named.opts.startOffset)

	anon, err := New([]string{"localhost:9092"}, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = anon.Close() })
	assert.True(t, strings.HasPrefix(anon.group, "mqconnect-"))
	assert.Equal(t, kafka.LastOffset, anon.opts.startOffset)

	pinned, err := New([]string{"localhost:9092"}, "", WithStartOffset(kafka.FirstOffset))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pinned.Close() })
	assert.Equal(t, kafka.FirstOffset, pinned.opts.startOffset)
}

func TestDeliver_SettlesWithoutCommit(t *testing.T) {
	b := &Broker{opts: defaults()}
	b.opts.autoAck = true

	failed := newMessage(context.Background(), kafka.Message{}, nil)
	b.deliver(context.Background(), failed, func(context.Context, core.Message) error { return errors.New("boom") })
	assert.True(t, failed.settled)

	nacked := newMessage(context.Background(), kafka.Message{}, nil)
	b.deliver(context.Background(), nacked, func(_ context.Context, m core.Message) error { return m.Nack() })
	assert.True(t, nacked.settled)
}

func TestOptsFromConfig_AckMode(t *testing.T) {
	fns, err := optsFromConfig(broker.Config{AckMode: "AUTO_ACKNOWLEDGE"})
	require.NoError(t, err)
	o := defaults()
	for _, fn := range fns {
		fn(&o)
	}
	assert.True(t, o.autoAck)

	fns, err = optsFromConfig(broker.Config{AckMode: "CLIENT_ACKNOWLEDGE"})
	require.NoError(t, err)
	assert.Empty(t, fns)
}

package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/miladsoleymani/mqconnect/core"
	"github.com/miladsoleymani/mqconnect/internal/mock"
)

func TestMessageHandle_NotCreated(t *testing.T) {
	for name, h := range map[string]*core.MessageHandle{
		"nil message": core.NewHandle(nil),
		"nil handle":  nil,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := h.CorrelationID()
			assert.ErrorIs(t, err, core.ErrMessageNotCreated)
			assert.Contains(t, err.Error(), "message not yet created")

			assert.ErrorIs(t, h.SetCorrelationID("c1"), core.ErrMessageNotCreated)
			_, err = h.Redelivered()
			assert.ErrorIs(t, err, core.ErrMessageNotCreated)
		})
	}
}

func TestMessageHandle_GetSet(t *testing.T) {
	msg := &mock.Message{H: map[string]string{core.HeaderRedelivered: "true"}}
	h := core.NewHandle(msg)

	setters := []struct {
		set  func(string) error
		get  func() (string, error)
		name string
	}{
		{h.SetCorrelationID, h.CorrelationID, core.HeaderCorrelationID},
		{h.SetMessageID, h.MessageID, core.HeaderMessageID},
		{h.SetReplyTo, h.ReplyTo, core.HeaderReplyTo},
		{h.SetType, h.Type, core.HeaderType},
		{h.SetPriority, h.Priority, core.HeaderPriority},
		{h.SetDeliveryMode, h.DeliveryMode, core.HeaderDeliveryMode},
		{h.SetExpiration, h.Expiration, core.HeaderExpiration},
		{h.SetTimestamp, h.Timestamp, core.HeaderTimestamp},
	}
	for _, s := range setters {
		t.Run(s.name, func(t *testing.T) {
			require.NoError(t, s.set("v-"+s.name))
			got, err := s.get()
			require.NoError(t, err)
			assert.Equal(t, "v-"+s.name, got)
			assert.Equal(t, "v-"+s.name, msg.H[s.name])
		})
	}

	redelivered, err := h.Redelivered()
	require.NoError(t, err)
	assert.True(t, redelivered)
}

func TestMessageHandle_RejectedWriteIsLogged(t *testing.T) {
	obs, logs := observer.New(zapcore.WarnLevel)
	msg := &mock.Message{SetErr: errors.New("invalid header value")}
	h := core.NewHandle(msg).WithLogger(zap.New(obs))

	err := h.SetCorrelationID("bad\r\nvalue")
	require.NoError(t, err, "rejected writes must not propagate")

	entries := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, entries, 1)
	assert.Equal(t, core.HeaderCorrelationID, entries[0].ContextMap()["header"])
	assert.Contains(t, entries[0].ContextMap()["error"], "invalid header value")
}

func TestNewMessage(t *testing.T) {
	src := map[string]string{"a": "1"}
	msg := core.NewMessage([]byte("k"), []byte("v"), src)
	src["a"] = "changed"

	assert.Equal(t, "1", msg.Headers()["a"])
	require.NoError(t, msg.SetHeader("b", "2"))
	assert.Error(t, msg.SetHeader("", "x"))
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, msg.Headers())
	assert.NoError(t, msg.Ack())
	assert.NoError(t, msg.Nack())
}

package nats

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/miladsoleymani/mqconnect/core"
)

// message adapts a JetStream message to core.Message.
// Header writes are kept locally and merged over the received headers.
type message struct {
	msg     jetstream.Msg
	set     map[string]string
	settled bool
}

func newMessage(msg jetstream.Msg) *message {
	return &message{msg: msg}
}

func (m *message) Key() []byte   { return []byte(m.msg.Subject()) }
func (m *message) Value() []byte { return m.msg.Data() }

// Headers returns the received headers plus the fields JetStream tracks
// itself: destination, message-id, redelivered and timestamp.
func (m *message) Headers() map[string]string {
	raw := m.msg.Headers()
	h := make(map[string]string, len(raw)+len(m.set)+4)
	for k, v := range raw {
		if len(v) > 0 && k != jetstream.MsgIDHeader {
			h[k] = v[0]
		}
	}
	if id := raw.Get(jetstream.MsgIDHeader); id != "" {
		h[core.HeaderMessageID] = id
	}
	h[core.HeaderDestination] = m.msg.Subject()
	if md, err := m.msg.Metadata(); err == nil {
		h[core.HeaderRedelivered] = strconv.FormatBool(md.NumDelivered > 1)
		if _, ok := h[core.HeaderTimestamp]; !ok && !md.Timestamp.IsZero() {
			h[core.HeaderTimestamp] = md.Timestamp.UTC().Format(time.RFC3339)
		}
	}
	for k, v := range m.set {
		h[k] = v
	}
	return h
}

// SetHeader validates key and value against the NATS header format.
func (m *message) SetHeader(key, value string) error {
	if err := validateHeader(key, value); err != nil {
		return err
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return nil
}

func validateHeader(key, value string) error {
	if key == "" {
		return fmt.Errorf("mqconnect/nats: header key must not be empty")
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c <= ' ' || c == ':' || c == 0x7f {
			return fmt.Errorf("mqconnect/nats: invalid character %q in header key %q", c, key)
		}
	}
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("mqconnect/nats: header %q value must not contain line breaks", key)
	}
	return nil
}

// Ack acknowledges the message.
func (m *message) Ack() error {
	m.settled = true
	if err := m.msg.Ack(); err != nil {
		return fmt.Errorf("mqconnect/nats: ack: %w", err)
	}
	return nil
}

// Nack asks the server to redeliver, up to the consumer's max deliveries.
func (m *message) Nack() error {
	m.settled = true
	if err := m.msg.Nak(); err != nil {
		return fmt.Errorf("mqconnect/nats: nack: %w", err)
	}
	return nil
}

package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/miladsoleymani/mqconnect/core"
)

// message adapts a kafka.Message to core.Message.
// It holds a reference to the reader for offset management.
type message struct {
	raw     kafka.Message
	reader  *kafka.Reader
	ctx     context.Context
	settled bool
}

func newMessage(ctx context.Context, raw kafka.Message, r *kafka.Reader) *message {
	return &message{raw: raw, reader: r, ctx: ctx}
}

func (m *message) Key() []byte   { return m.raw.Key }
func (m *message) Value() []byte { return m.raw.Value }

// Headers returns the record headers plus the destination topic and, unless a
// header carries one, the record time.
func (m *message) Headers() map[string]string {
	h := make(map[string]string, len(m.raw.Headers)+2)
	for _, kh := range m.raw.Headers {
		h[kh.Key] = string(kh.Value)
	}
	if _, ok := h[core.HeaderDestination]; !ok && m.raw.Topic != "" {
		h[core.HeaderDestination] = m.raw.Topic
	}
	if _, ok := h[core.HeaderTimestamp]; !ok && !m.raw.Time.IsZero() {
		h[core.HeaderTimestamp] = m.raw.Time.UTC().Format(time.RFC3339)
	}
	return h
}

// SetHeader replaces the header if present and appends it otherwise.
func (m *message) SetHeader(key, value string) error {
	if key == "" {
		return errors.New("mqconnect/kafka: header key must not be empty")
	}
	for i := range m.raw.Headers {
		if m.raw.Headers[i].Key == key {
			m.raw.Headers[i].Value = []byte(value)
			return nil
		}
	}
	m.raw.Headers = append(m.raw.Headers, kafka.Header{Key: key, Value: []byte(value)})
	return nil
}

// Ack commits the offset for this record.
func (m *message) Ack() error {
	m.settled = true
	if err := m.reader.CommitMessages(m.ctx, m.raw); err != nil {
		return fmt.Errorf("mqconnect/kafka: commit offset: %w", err)
	}
	return nil
}

// Nack leaves the offset uncommitted, so the record is read again after the
// next rebalance or restart.
func (m *message) Nack() error {
	m.settled = true
	return nil
}

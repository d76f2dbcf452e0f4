package core

import (
	"context"
	"errors"
	"sync"
)

// Message is the broker-agnostic message abstraction.
// Implementations are provided by broker plugins.
type Message interface {
	Key() []byte
	Value() []byte
	Headers() map[string]string

	// SetHeader writes a header field. The transport may reject the key or value.
	SetHeader(key, value string) error

	Ack() error
	Nack() error
}

// Handler is the low-level handler used by broker subscriptions.
// Users should prefer HandlerFunc which receives a Context.
type Handler func(ctx context.Context, msg Message) error

// NewMessage builds an outbound message for Publish. Ack and Nack are no-ops.
func NewMessage(key, value []byte, headers map[string]string) Message {
	h := make(map[string]string, len(headers))
	for k, v := range headers {
		h[k] = v
	}
	return &outbound{key: key, value: value, headers: h}
}

type outbound struct {
	key     []byte
	value   []byte
	mu      sync.RWMutex
	headers map[string]string
}

func (m *outbound) Key() []byte   { return m.key }
func (m *outbound) Value() []byte { return m.value }

func (m *outbound) Headers() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.headers))
	for k, v := range m.headers {
		out[k] = v
	}
	return out
}

func (m *outbound) SetHeader(key, value string) error {
	if key == "" {
		return errors.New("mqconnect: empty header key")
	}
	m.mu.Lock()
	m.headers[key] = value
	m.mu.Unlock()
	return nil
}

func (m *outbound) Ack() error  { return nil }
func (m *outbound) Nack() error { return nil }

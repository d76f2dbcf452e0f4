package rabbitmq

import (
	"fmt"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/miladsoleymani/mqconnect/core"
)

// maxHeaderKey is the AMQP 0-9-1 short string limit that applies to table keys.
const maxHeaderKey = 255

// message adapts an amqp.Delivery to core.Message.
type message struct {
	delivery amqp.Delivery
	queue    string
	requeue  bool
	autoAck  bool
	set      map[string]string
}

func newMessage(d amqp.Delivery, queue string, opts options) *message {
	return &message{delivery: d, queue: queue, requeue: opts.requeueOnNack, autoAck: opts.autoAck}
}

func (m *message) Key() []byte   { return []byte(m.delivery.RoutingKey) }
func (m *message) Value() []byte { return m.delivery.Body }

func (m *message) Headers() map[string]string {
	d := m.delivery
	h := make(map[string]string, len(d.Headers)+len(m.set)+8)
	for k, v := range d.Headers {
		if s, ok := v.(string); ok {
			h[k] = s
		} else {
			h[k] = fmt.Sprintf("%v", v)
		}
	}
	props := map[string]string{
		core.HeaderCorrelationID: d.CorrelationId,
		core.HeaderMessageID:     d.MessageId,
		core.HeaderReplyTo:       d.ReplyTo,
		core.HeaderType:          d.Type,
		core.HeaderExpiration:    d.Expiration,
	}
	for k, v := range props {
		if v != "" {
			h[k] = v
		}
	}
	if d.Priority != 0 {
		h[core.HeaderPriority] = strconv.Itoa(int(d.Priority))
	}
	if d.DeliveryMode != 0 {
		h[core.HeaderDeliveryMode] = strconv.Itoa(int(d.DeliveryMode))
	}
	if !d.Timestamp.IsZero() {
		h[core.HeaderTimestamp] = d.Timestamp.UTC().Format(time.RFC3339)
	}
	h[core.HeaderDestination] = m.queue
	h[core.HeaderRedelivered] = strconv.FormatBool(d.Redelivered)
	for k, v := range m.set {
		h[k] = v
	}
	return h
}

// SetHeader records a header override. Keys must fit an AMQP short string.
func (m *message) SetHeader(key, value string) error {
	if key == "" {
		return fmt.Errorf("mqconnect/rabbitmq: header key must not be empty")
	}
	if len(key) > maxHeaderKey {
		return fmt.Errorf("mqconnect/rabbitmq: header key %.16q... exceeds %d bytes", key, maxHeaderKey)
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return nil
}

// Ack acknowledges the message, removing it from the queue.
// With auto-ack the server already did, so this is a no-op.
func (m *message) Ack() error {
	if m.autoAck {
		return nil
	}
	if err := m.delivery.Ack(false); err != nil {
		return fmt.Errorf("mqconnect/rabbitmq: ack: %w", err)
	}
	return nil
}

// Nack negatively acknowledges the message. If requeue is enabled,
// the message is returned to the queue for redelivery.
func (m *message) Nack() error {
	if m.autoAck {
		return nil
	}
	if err := m.delivery.Nack(false, m.requeue); err != nil {
		return fmt.Errorf("mqconnect/rabbitmq: nack: %w", err)
	}
	return nil
}

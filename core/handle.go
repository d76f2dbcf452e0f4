package core

import (
	"go.uber.org/zap"

	"github.com/miladsoleymani/mqconnect/logger"
)

// Header field names shared by all plugins.
const (
	HeaderCorrelationID = "correlation-id"
	HeaderMessageID     = "message-id"
	HeaderReplyTo       = "reply-to"
	HeaderType          = "type"
	HeaderPriority      = "priority"
	HeaderDeliveryMode  = "delivery-mode"
	HeaderExpiration    = "expiration"
	HeaderTimestamp     = "timestamp"
	HeaderRedelivered   = "redelivered"
	HeaderDestination   = "destination"
)

// MessageHandle gives header access to an in-flight message.
//
// Reads and writes on a handle without a message fail with ErrMessageNotCreated.
// A write the transport rejects is logged as a warning and not returned, so
// callers setting optional headers keep going.
//
// A handle is not safe for concurrent use.
type MessageHandle struct {
	msg Message
	log *zap.Logger
}

// NewHandle wraps msg. msg may be nil, in which case every accessor fails.
func NewHandle(msg Message) *MessageHandle {
	return &MessageHandle{msg: msg, log: logger.Named("message")}
}

// WithLogger sets the logger used for rejected writes.
func (h *MessageHandle) WithLogger(l *zap.Logger) *MessageHandle {
	if l != nil {
		h.log = l
	}
	return h
}

// Message returns the underlying message.
func (h *MessageHandle) Message() (Message, error) {
	if h == nil || h.msg == nil {
		return nil, ErrMessageNotCreated
	}
	return h.msg, nil
}

// Header returns the named header field, or "" when it is not set.
func (h *MessageHandle) Header(name string) (string, error) {
	msg, err := h.Message()
	if err != nil {
		return "", err
	}
	return msg.Headers()[name], nil
}

// SetHeader writes the named header field.
func (h *MessageHandle) SetHeader(name, value string) error {
	msg, err := h.Message()
	if err != nil {
		return err
	}
	if err := msg.SetHeader(name, value); err != nil {
		h.log.Warn("unable to set header on message",
			zap.String("header", name),
			zap.Error(err),
		)
		return nil
	}
	h.log.Debug("header set on message", zap.String("header", name))
	return nil
}

func (h *MessageHandle) CorrelationID() (string, error) { return h.Header(HeaderCorrelationID) }

func (h *MessageHandle) SetCorrelationID(v string) error { return h.SetHeader(HeaderCorrelationID, v) }

func (h *MessageHandle) MessageID() (string, error) { return h.Header(HeaderMessageID) }

func (h *MessageHandle) SetMessageID(v string) error { return h.SetHeader(HeaderMessageID, v) }

func (h *MessageHandle) ReplyTo() (string, error) { return h.Header(HeaderReplyTo) }

func (h *MessageHandle) SetReplyTo(v string) error { return h.SetHeader(HeaderReplyTo, v) }

func (h *MessageHandle) Type() (string, error) { return h.Header(HeaderType) }

func (h *MessageHandle) SetType(v string) error { return h.SetHeader(HeaderType, v) }

func (h *MessageHandle) Priority() (string, error) { return h.Header(HeaderPriority) }

func (h *MessageHandle) SetPriority(v string) error { return h.SetHeader(HeaderPriority, v) }

func (h *MessageHandle) DeliveryMode() (string, error) { return h.Header(HeaderDeliveryMode) }

func (h *MessageHandle) SetDeliveryMode(v string) error { return h.SetHeader(HeaderDeliveryMode, v) }

func (h *MessageHandle) Expiration() (string, error) { return h.Header(HeaderExpiration) }

func (h *MessageHandle) SetExpiration(v string) error { return h.SetHeader(HeaderExpiration, v) }

func (h *MessageHandle) Timestamp() (string, error) { return h.Header(HeaderTimestamp) }

func (h *MessageHandle) SetTimestamp(v string) error { return h.SetHeader(HeaderTimestamp, v) }

func (h *MessageHandle) Destination() (string, error) { return h.Header(HeaderDestination) }

// Redelivered reports whether the transport marked the message as a redelivery.
func (h *MessageHandle) Redelivered() (bool, error) {
	v, err := h.Header(HeaderRedelivered)
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

package core

import (
	"context"
	"fmt"
	"sync"
)

// Context is the handler context, inspired by echo.Context.
// It wraps the incoming message, provides deserialization via Bind,
// header access via Handle, and response methods (Ack, Nack, Republish).
type Context interface {
	// Context returns the underlying context.Context.
	Context() context.Context

	// SetContext replaces the underlying context.Context.
	// Useful for middleware that enriches the context with values or deadlines.
	SetContext(ctx context.Context)

	// Message returns the raw underlying Message.
	Message() Message

	// Destination returns the destination this message was received on.
	Destination() string

	// Service returns the name of the service handling the message.
	Service() string

	// Key returns the message key.
	Key() []byte

	// Value returns the raw message body.
	Value() []byte

	// Header returns a single header value by key.
	Header(key string) string

	// Headers returns all message headers.
	Headers() map[string]string

	// Handle returns header accessors for the message.
	Handle() *MessageHandle

	// Bind deserializes the message body into the given struct
	// using the router's configured Binder.
	Bind(v any) error

	// Ack acknowledges the message (commits offset / removes from queue).
	Ack() error

	// Nack negatively acknowledges the message (triggers redelivery).
	Nack() error

	// Republish sends the current message to a different destination.
	// Useful for dead-letter routing, fan-out, or saga patterns.
	Republish(destination string) error

	// Set stores a key-value pair in the context store.
	// Used by middleware to pass data to downstream handlers.
	Set(key string, val any)

	// Get retrieves a value from the context store.
	Get(key string) (any, bool)
}

// HandlerFunc is the function signature for message handlers.
// Handlers receive a Context and return an error.
//
//	r.Handle("orders.created", func(c mqconnect.Context) error {
//	    var order Order
//	    if err := c.Bind(&order); err != nil {
//	        return err
//	    }
//	    // process order...
//	    return c.Ack()
//	})
type HandlerFunc func(c Context) error

// MiddlewareFunc wraps a HandlerFunc to add cross-cutting behavior.
//
//	func MyMiddleware() mqconnect.MiddlewareFunc {
//	    return func(next mqconnect.HandlerFunc) mqconnect.HandlerFunc {
//	        return func(c mqconnect.Context) error {
//	            // before
//	            err := next(c)
//	            // after
//	            return err
//	        }
//	    }
//	}
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// ---------------------------------------------------------------------------
// Default implementation
// ---------------------------------------------------------------------------

type msgContext struct {
	ctx         context.Context
	msg         Message
	destination string
	service     string
	broker      Broker
	binder      Binder
	handle      *MessageHandle
	store       map[string]any
	mu          sync.RWMutex
}

// NewContext creates a Context for the given message.
// This is called internally by the Router for each incoming message.
func NewContext(ctx context.Context, msg Message, destination string, b Broker, binder Binder) Context {
	return newContext(ctx, msg, destination, "", b, binder)
}

func newContext(ctx context.Context, msg Message, destination, service string, b Broker, binder Binder) *msgContext {
	return &msgContext{
		ctx:         ctx,
		msg:         msg,
		destination: destination,
		service:     service,
		broker:      b,
		binder:      binder,
		handle:      NewHandle(msg),
		store:       make(map[string]any),
	}
}

func (c *msgContext) Context() context.Context { return c.ctx }

func (c *msgContext) SetContext(ctx context.Context) { c.ctx = ctx }

func (c *msgContext) Message() Message { return c.msg }

func (c *msgContext) Destination() string { return c.destination }

func (c *msgContext) Service() string { return c.service }

func (c *msgContext) Key() []byte { return c.msg.Key() }

func (c *msgContext) Value() []byte { return c.msg.Value() }

func (c *msgContext) Header(key string) string {
	return c.msg.Headers()[key]
}

func (c *msgContext) Headers() map[string]string {
	return c.msg.Headers()
}

func (c *msgContext) Handle() *MessageHandle { return c.handle }

func (c *msgContext) Bind(v any) error {
	if c.binder == nil {
		return fmt.Errorf("mqconnect: no binder configured")
	}
	if err := c.binder.Bind(c.msg.Value(), v); err != nil {
		return fmt.Errorf("mqconnect: bind: %w", err)
	}
	return nil
}

func (c *msgContext) Ack() error {
	if err := c.msg.Ack(); err != nil {
		return fmt.Errorf("mqconnect: ack: %w", err)
	}
	return nil
}

func (c *msgContext) Nack() error {
	if err := c.msg.Nack(); err != nil {
		return fmt.Errorf("mqconnect: nack: %w", err)
	}
	return nil
}

func (c *msgContext) Republish(destination string) error {
	if c.broker == nil {
		return ErrNoBroker
	}
	if err := c.broker.Publish(c.ctx, destination, c.msg); err != nil {
		return fmt.Errorf("mqconnect: republish to %q: %w", destination, err)
	}
	return nil
}

func (c *msgContext) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

func (c *msgContext) Get(key string) (any, bool) {
	c.mu.RLock()
	val, ok := c.store[key]
	c.mu.RUnlock()
	return val, ok
}

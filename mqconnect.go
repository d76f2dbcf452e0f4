// Package mqconnect provides the top-level API for the messaging connector.
// It re-exports core types for convenience, so users can write:
//
//	r := mqconnect.New(b)
//	err := r.Register(mqconnect.NewService("orders", "orders.created", handler))
//	r.Start(ctx)
package mqconnect

import (
	"github.com/miladsoleymani/mqconnect/core"
)

// Re-export core types at the package level for ergonomic usage.
type (
	Message        = core.Message
	Handler        = core.Handler
	HandlerFunc    = core.HandlerFunc
	MiddlewareFunc = core.MiddlewareFunc
	Context        = core.Context
	Broker         = core.Broker
	Router         = core.Router
	Endpoint       = core.Endpoint
	Service        = core.Service
	MessageHandle  = core.MessageHandle
)

// New creates a new Router bound to the given Broker.
func New(b Broker) *Router {
	return core.New(b)
}

// NewService creates a consuming endpoint for destination.
func NewService(name, destination string, handlers ...HandlerFunc) *Service {
	return core.NewService(name, destination, handlers...)
}

package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/miladsoleymani/mqconnect/logger"
)

// Router binds consuming services to a Broker. It provides an Echo-like API
// for registering handlers and middleware.
type Router struct {
	broker      Broker
	binder      Binder
	log         *zap.Logger
	middlewares []MiddlewareFunc
	routes      map[string]route
	mu          sync.RWMutex
	started     bool
}

type route struct {
	service   string
	handler   HandlerFunc
	consumers int
}

// New creates a Router bound to the given Broker.
// It uses JSONBinder for deserialization.
func New(b Broker) *Router {
	return &Router{
		broker: b,
		binder: JSONBinder{},
		log:    logger.Named("router"),
		routes: make(map[string]route),
	}
}

// SetBinder replaces the message binder used by Context.Bind().
// Use this to switch to Protobuf, Avro, or any custom format.
func (r *Router) SetBinder(b Binder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.binder = b
}

// SetLogger replaces the router logger. It is also handed to message handles.
// A nil logger is ignored.
func (r *Router) SetLogger(l *zap.Logger) {
	if l == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = l
}

// Use registers global middleware. Middleware is applied in reverse
// registration order (last registered wraps outermost).
func (r *Router) Use(m MiddlewareFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, m)
}

// Register binds ep to its destination. The endpoint must declare exactly one
// handler; this is checked here, once, and never per message.
func (r *Router) Register(ep Endpoint) error {
	h, err := ExtractHandler(ep)
	if err != nil {
		return err
	}
	consumers := 1
	if c, ok := ep.(interface{ Consumers() int }); ok && c.Consumers() > 0 {
		consumers = c.Consumers()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return ErrAlreadyStarted
	}
	r.routes[ep.Destination()] = route{service: ep.Name(), handler: h, consumers: consumers}
	r.log.Debug("service registered",
		zap.String("service", ep.Name()),
		zap.String("destination", ep.Destination()),
		zap.Int("consumers", consumers),
	)
	return nil
}

// Handle registers a single handler for a destination. Routes cannot be
// added once the router has started.
//
//	r.Handle("orders.created", func(c mqconnect.Context) error {
//	    var order Order
//	    if err := c.Bind(&order); err != nil {
//	        return err
//	    }
//	    return c.Ack()
//	})
func (r *Router) Handle(destination string, h HandlerFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return ErrAlreadyStarted
	}
	r.routes[destination] = route{service: destination, handler: h, consumers: 1}
	return nil
}

// Publish sends a message to the given destination through the broker.
// A message without a message-id header gets a generated one.
func (r *Router) Publish(ctx context.Context, destination string, msg Message) error {
	if r.broker == nil {
		return ErrNoBroker
	}
	r.mu.RLock()
	log := r.log
	r.mu.RUnlock()

	h := NewHandle(msg).WithLogger(log)
	if id, err := h.MessageID(); err != nil {
		return err
	} else if id == "" {
		if err := h.SetMessageID(uuid.NewString()); err != nil {
			return err
		}
	}
	return r.broker.Publish(ctx, destination, msg)
}

// Start subscribes to all registered destinations and begins consuming
// messages. It blocks until the context is cancelled or a subscription fails.
func (r *Router) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.broker == nil {
		r.mu.Unlock()
		return ErrNoBroker
	}
	if r.started {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.started = true

	// Snapshot routes, middleware, and config under lock
	routes := make(map[string]route, len(r.routes))
	for k, v := range r.routes {
		routes[k] = v
	}
	mws := make([]MiddlewareFunc, len(r.middlewares))
	copy(mws, r.middlewares)
	binder := r.binder
	broker := r.broker
	log := r.log
	r.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for destination, rt := range routes {
		wrapped := applyMiddleware(rt.handler, mws)

		// Bridge from low-level Handler (broker subscription) to Context-based HandlerFunc
		bridge := func(c context.Context, msg Message) error {
			mc := newContext(c, msg, destination, rt.service, broker, binder)
			mc.handle.WithLogger(log)
			return wrapped(mc)
		}

		for i := 0; i < rt.consumers; i++ {
			g.Go(func() error {
				if err := broker.Subscribe(gctx, destination, bridge); err != nil {
					return fmt.Errorf("mqconnect: subscribe %q: %w", destination, err)
				}
				return nil
			})
		}
		log.Info("consuming",
			zap.String("service", rt.service),
			zap.String("destination", destination),
			zap.Int("consumers", rt.consumers),
		)
	}

	err := g.Wait()
	if err == nil {
		// All subscriptions returned without error, wait for cancellation.
		<-ctx.Done()
	}
	if cerr := broker.Close(); err == nil {
		err = cerr
	}
	return err
}

// applyMiddleware wraps a handler with middleware in reverse order.
// Given middleware [A, B, C], the call order is A -> B -> C -> handler.
func applyMiddleware(h HandlerFunc, mws []MiddlewareFunc) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

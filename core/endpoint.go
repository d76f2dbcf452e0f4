package core

import "fmt"

// Endpoint is a consuming endpoint: a named set of handlers for one destination.
type Endpoint interface {
	Name() string
	Destination() string
	Handlers() []HandlerFunc
}

// Service is the default Endpoint.
type Service struct {
	name        string
	destination string
	handlers    []HandlerFunc
	consumers   int
}

// NewService creates a Service consuming from destination.
func NewService(name, destination string, handlers ...HandlerFunc) *Service {
	return &Service{
		name:        name,
		destination: destination,
		handlers:    handlers,
		consumers:   1,
	}
}

// WithConsumers sets how many concurrent subscriptions the router opens for
// the service. Values below one are ignored.
func (s *Service) WithConsumers(n int) *Service {
	if n > 0 {
		s.consumers = n
	}
	return s
}

func (s *Service) Name() string            { return s.name }
func (s *Service) Destination() string     { return s.destination }
func (s *Service) Handlers() []HandlerFunc { return s.handlers }
func (s *Service) Consumers() int          { return s.consumers }

// ExtractHandler returns the single handler of ep. Zero or several handlers are
// a configuration error.
func ExtractHandler(ep Endpoint) (HandlerFunc, error) {
	handlers := ep.Handlers()
	switch {
	case len(handlers) == 0:
		return nil, fmt.Errorf("%w to handle messages in %s", ErrNoResource, ep.Name())
	case len(handlers) > 1:
		return nil, fmt.Errorf("%w in service %s, a service should only have one resource",
			ErrMultipleResources, ep.Name())
	}
	return handlers[0], nil
}

package core

import "errors"

var (
	// ErrBrokerClosed is returned when operations are attempted on a closed broker.
	ErrBrokerClosed = errors.New("mqconnect: broker is closed")

	// ErrNoHandler is returned when no handler is subscribed to the destination.
	ErrNoHandler = errors.New("mqconnect: no handler registered for destination")

	// ErrAlreadyStarted is returned when Start is called on a running router.
	ErrAlreadyStarted = errors.New("mqconnect: router already started")

	// ErrNoBroker is returned when a router is created without a broker.
	ErrNoBroker = errors.New("mqconnect: broker is nil")

	// ErrNoResource is returned when a service declares no handler.
	ErrNoResource = errors.New("mqconnect: no resources found")

	// ErrMultipleResources is returned when a service declares more than one handler.
	ErrMultipleResources = errors.New("mqconnect: more than one resource found")

	// ErrMessageNotCreated is returned when header access is attempted on a
	// handle without an underlying message.
	ErrMessageNotCreated = errors.New("mqconnect: message not yet created")
)

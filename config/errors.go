package config

import "errors"

var (
	// ErrMalformedProperty is returned when a properties entry has no '=' separator.
	ErrMalformedProperty = errors.New("mqconnect: invalid properties entry")

	// ErrMissingConnectionFactoryName is returned when the MB rewrite needs a
	// connection factory name to bind the provider URL to.
	ErrMissingConnectionFactoryName = errors.New("mqconnect: " + KeyConnectionFactoryName + " property should be set")
)

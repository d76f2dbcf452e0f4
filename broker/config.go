package broker

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/miladsoleymani/mqconnect/config"
)

// Config holds broker-agnostic configuration derived from normalized properties.
// Broker plugins extract the fields they need.
type Config struct {
	// Brokers is a list of broker addresses (e.g., "localhost:9092").
	Brokers []string

	// Topic is the destination to consume from or publish to.
	Topic string

	// Group is the durable subscription or consumer group name.
	Group string

	ClientID string
	Username string
	Password string

	// AckMode is the session acknowledgement mode, e.g. AUTO_ACKNOWLEDGE.
	AckMode string

	// ConcurrentConsumers is the number of subscriptions per destination.
	ConcurrentConsumers int

	// Properties is the full normalized property set, including plugin
	// specific keys such as "kafka.batch.size".
	Properties config.Properties
}

// ConfigFromProperties maps a normalized property set onto Config.
//
// Brokers come from the provider URL, split on commas. When there is none, the
// MB connection factory binding "connectionfactory.<name>" is used.
func ConfigFromProperties(p config.Properties) (Config, error) {
	cfg := Config{
		Topic:               p[config.InternalDestination],
		Group:               p[config.InternalSubscriptionName],
		ClientID:            p[config.InternalClientID],
		Username:            p[config.InternalUsername],
		Password:            p[config.InternalPassword],
		AckMode:             p[config.InternalAckMode],
		ConcurrentConsumers: 1,
		Properties:          p,
	}
	if cfg.Group == "" {
		cfg.Group = cfg.ClientID
	}

	url, ok := p[config.InternalProviderURL]
	if !ok {
		if name := p[config.InternalConnectionFactoryName]; name != "" {
			url = p[config.MBConnectionFactoryPrefix+name]
		}
	}
	cfg.Brokers = splitList(url)

	if v, ok := p[config.InternalConcurrentConsumers]; ok {
		n, err := cast.ToIntE(strings.TrimSpace(v))
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("mqconnect: invalid %s %q: must be a positive integer",
				config.KeyConcurrentConsumers, v)
		}
		cfg.ConcurrentConsumers = n
	}
	return cfg, nil
}

// Int returns the plugin property key as an int.
func (c Config) Int(key string) (int, bool, error) {
	v, ok := c.Properties[key]
	if !ok {
		return 0, false, nil
	}
	n, err := cast.ToIntE(strings.TrimSpace(v))
	if err != nil {
		return 0, true, fmt.Errorf("mqconnect: property %s: %w", key, err)
	}
	return n, true, nil
}

// Bool returns the plugin property key as a bool.
func (c Config) Bool(key string) (bool, bool, error) {
	v, ok := c.Properties[key]
	if !ok {
		return false, false, nil
	}
	b, err := cast.ToBoolE(strings.TrimSpace(v))
	if err != nil {
		return false, true, fmt.Errorf("mqconnect: property %s: %w", key, err)
	}
	return b, true, nil
}

// String returns the plugin property key.
func (c Config) String(key string) (string, bool) {
	v, ok := c.Properties[key]
	return v, ok
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

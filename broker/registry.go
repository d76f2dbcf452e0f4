package broker

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/miladsoleymani/mqconnect/config"
	"github.com/miladsoleymani/mqconnect/core"
)

// Factory creates a Broker from the given Config.
type Factory func(cfg Config) (core.Broker, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register adds a named broker factory. Plugins call this from init().
// Names are matched case-insensitively.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[strings.ToLower(name)] = factory
}

// Create instantiates a broker by name using the registered factory.
func Create(name string, cfg Config) (core.Broker, error) {
	mu.RLock()
	f, ok := factories[strings.ToLower(name)]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("mqconnect: unknown broker %q", name)
	}
	return f(cfg)
}

// Registered returns the registered factory names in lexical order.
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open creates the broker named by the normalized initial context factory.
func Open(p config.Properties) (core.Broker, Config, error) {
	name, ok := p[config.InternalContextFactory]
	if !ok || strings.TrimSpace(name) == "" {
		return nil, Config{}, fmt.Errorf("mqconnect: %s is not set", config.KeyInitialContextFactory)
	}
	cfg, err := ConfigFromProperties(p)
	if err != nil {
		return nil, Config{}, err
	}
	b, err := Create(name, cfg)
	if err != nil {
		return nil, Config{}, err
	}
	return b, cfg, nil
}

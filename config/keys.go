package config

// Public configuration keys accepted from descriptors and dynamic maps.
const (
	KeyInitialContextFactory = "initial-context-factory"
	KeyProviderURL           = "provider-url"
	KeyConnectionFactoryType = "connection-factory-type"
	KeyConnectionFactoryName = "connection-factory-name"
	KeyDestination           = "destination"
	KeyClientID              = "client-id"
	KeyDurableSubscriberID   = "durable-subscriber-id"
	KeyAckMode               = "acknowledgment-mode"
	KeyConfigFilePath        = "config-file-path"
	KeyConcurrentConsumers   = "concurrent-consumers"
	KeyConnectionUsername    = "connection-username"
	KeyConnectionPassword    = "connection-password"

	// KeyProperties names the descriptor array of free-form "key=value" entries.
	KeyProperties = "properties"
)

// Canonical keys understood by the transport plugins.
const (
	InternalContextFactory        = "naming.factory.initial"
	InternalProviderURL           = "naming.provider.url"
	InternalConnectionFactoryType = "transport.connection.factory.type"
	InternalConnectionFactoryName = "transport.connection.factory.name"
	InternalDestination           = "transport.destination"
	InternalClientID              = "transport.client.id"
	InternalSubscriptionName      = "transport.subscription.name"
	InternalAckMode               = "transport.session.acknowledgement"
	InternalConcurrentConsumers   = "transport.concurrent.consumers"
	InternalUsername              = "transport.connection.username"
	InternalPassword              = "transport.connection.password"
)

// Message broker (MB) compatibility constants.
const (
	// MBContextFactoryAlias is the short factory name users configure for the MB.
	MBContextFactoryAlias = "wso2mbInitialContextFactory"

	// MBContextFactory replaces the alias after rewriting.
	MBContextFactory = "org.wso2.andes.jndi.PropertiesFileInitialContextFactory"

	// MBConnectionFactoryPrefix prefixes the connection factory name to form the
	// key that carries the provider URL.
	MBConnectionFactoryPrefix = "connectionfactory."
)

// descriptorAttributes is the fixed list of attributes read from a Descriptor.
var descriptorAttributes = [...]string{
	KeyInitialContextFactory,
	KeyProviderURL,
	KeyConnectionFactoryType,
	KeyConnectionFactoryName,
	KeyDestination,
	KeyClientID,
	KeyDurableSubscriberID,
	KeyAckMode,
	KeyConfigFilePath,
	KeyConcurrentConsumers,
	KeyConnectionUsername,
	KeyConnectionPassword,
}

var renameTable = map[string]string{
	KeyInitialContextFactory: InternalContextFactory,
	KeyProviderURL:           InternalProviderURL,
	KeyConnectionFactoryType: InternalConnectionFactoryType,
	KeyConnectionFactoryName: InternalConnectionFactoryName,
	KeyDestination:           InternalDestination,
	KeyClientID:              InternalClientID,
	KeyDurableSubscriberID:   InternalSubscriptionName,
	KeyAckMode:               InternalAckMode,
	KeyConcurrentConsumers:   InternalConcurrentConsumers,
	KeyConnectionUsername:    InternalUsername,
	KeyConnectionPassword:    InternalPassword,
}

// RenameTable returns a copy of the public to internal key mapping.
func RenameTable() map[string]string {
	out := make(map[string]string, len(renameTable))
	for k, v := range renameTable {
		out[k] = v
	}
	return out
}

// DescriptorAttributes returns the attribute names read from a Descriptor.
func DescriptorAttributes() []string {
	return append([]string(nil), descriptorAttributes[:]...)
}

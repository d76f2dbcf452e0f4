package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miladsoleymani/mqconnect/config"
)

func TestRewriteForBroker(t *testing.T) {
	tests := []struct {
		name string
		in   config.Properties
		want config.Properties
	}{
		{
			name: "provider url bound to connection factory",
			in: config.Properties{
				config.KeyInitialContextFactory: config.MBContextFactoryAlias,
				config.KeyProviderURL:           "tcp://x",
				config.KeyConnectionFactoryName: "qcf",
			},
			want: config.Properties{
				config.KeyInitialContextFactory: config.MBContextFactory,
				config.KeyConnectionFactoryName: "qcf",
				"connectionfactory.qcf":         "tcp://x",
			},
		},
		{
			name: "alias is case insensitive",
			in: config.Properties{
				config.KeyInitialContextFactory: "WSO2MBINITIALCONTEXTFACTORY",
				config.KeyProviderURL:           "tcp://x",
				config.KeyConnectionFactoryName: "qcf",
			},
			want: config.Properties{
				config.KeyInitialContextFactory: config.MBContextFactory,
				config.KeyConnectionFactoryName: "qcf",
				"connectionfactory.qcf":         "tcp://x",
			},
		},
		{
			name: "config file path becomes provider url",
			in: config.Properties{
				config.KeyInitialContextFactory: config.MBContextFactoryAlias,
				config.KeyConfigFilePath:        "/etc/jms.props",
			},
			want: config.Properties{
				config.KeyInitialContextFactory: config.MBContextFactory,
				config.KeyProviderURL:           "/etc/jms.props",
			},
		},
		{
			name: "provider url takes precedence over config file path",
			in: config.Properties{
				config.KeyInitialContextFactory: config.MBContextFactoryAlias,
				config.KeyProviderURL:           "tcp://x",
				config.KeyConnectionFactoryName: "qcf",
				config.KeyConfigFilePath:        "/etc/jms.props",
			},
			want: config.Properties{
				config.KeyInitialContextFactory: config.MBContextFactory,
				config.KeyConnectionFactoryName: "qcf",
				config.KeyConfigFilePath:        "/etc/jms.props",
				"connectionfactory.qcf":         "tcp://x",
			},
		},
		{
			name: "neither provider url nor config file path",
			in: config.Properties{
				config.KeyInitialContextFactory: config.MBContextFactoryAlias,
				config.KeyDestination:           "orders",
			},
			want: config.Properties{
				config.KeyInitialContextFactory: config.MBContextFactory,
				config.KeyDestination:           "orders",
			},
		},
		{
			name: "other vendor untouched",
			in: config.Properties{
				config.KeyInitialContextFactory: "rabbitmq",
				config.KeyProviderURL:           "amqp://localhost",
			},
			want: config.Properties{
				config.KeyInitialContextFactory: "rabbitmq",
				config.KeyProviderURL:           "amqp://localhost",
			},
		},
		{
			name: "no factory untouched",
			in:   config.Properties{config.KeyConfigFilePath: "/etc/jms.props"},
			want: config.Properties{config.KeyConfigFilePath: "/etc/jms.props"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in.Clone()
			require.NoError(t, config.RewriteForBroker(p))
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestRewriteForBroker_IdempotentForOtherVendor(t *testing.T) {
	p := config.Properties{
		config.KeyInitialContextFactory: "nats",
		config.KeyProviderURL:           "nats://localhost:4222",
		config.KeyConfigFilePath:        "/etc/x",
	}
	require.NoError(t, config.RewriteForBroker(p))
	first := p.Clone()
	require.NoError(t, config.RewriteForBroker(p))
	assert.Equal(t, first, p)
}

func TestRewriteForBroker_MissingConnectionFactoryName(t *testing.T) {
	for name, in := range map[string]config.Properties{
		"absent": {
			config.KeyInitialContextFactory: config.MBContextFactoryAlias,
			config.KeyProviderURL:           "tcp://x",
		},
		"blank": {
			config.KeyInitialContextFactory: config.MBContextFactoryAlias,
			config.KeyProviderURL:           "tcp://x",
			config.KeyConnectionFactoryName: "   ",
		},
	} {
		t.Run(name, func(t *testing.T) {
			p := in.Clone()
			err := config.RewriteForBroker(p)

			require.ErrorIs(t, err, config.ErrMissingConnectionFactoryName)
			assert.Contains(t, err.Error(), "connection-factory-name property should be set")
			assert.Equal(t, in, p, "store must be unchanged")
		})
	}
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miladsoleymani/mqconnect/config"
)

const sampleFile = `
name: orders
initial-context-factory: rabbitmq
provider-url: amqp://localhost:5672/
destination: orders
concurrent-consumers: 4
connection-password: ${MQCONNECT_TEST_PASSWORD}
client-id: ~
properties:
  - rabbitmq.prefetch.count = 20
`

func TestParse(t *testing.T) {
	t.Setenv("MQCONNECT_TEST_PASSWORD", "s3cret")

	f, err := config.Parse([]byte(sampleFile))
	require.NoError(t, err)
	assert.Equal(t, "orders", f.Name)

	v, ok := f.Attribute(config.KeyConcurrentConsumers)
	assert.True(t, ok)
	assert.Equal(t, "4", v)

	_, ok = f.Attribute(config.KeyClientID)
	assert.False(t, ok, "null attribute counts as unset")

	arr, ok := f.AttributeArray(config.KeyProperties)
	assert.True(t, ok)
	assert.Equal(t, []string{"rabbitmq.prefetch.count = 20"}, arr)

	props, err := config.FromDescriptor(f)
	require.NoError(t, err)
	assert.Equal(t, config.Properties{
		config.InternalContextFactory:      "rabbitmq",
		config.InternalProviderURL:         "amqp://localhost:5672/",
		config.InternalDestination:         "orders",
		config.InternalConcurrentConsumers: "4",
		config.InternalPassword:            "s3cret",
		"rabbitmq.prefetch.count":          "20",
	}, props)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connector.yaml")
	require.NoError(t, os.WriteFile(path, []byte("destination: q1\n"), 0o600))

	f, err := config.LoadFile(path)
	require.NoError(t, err)

	_, ok := f.AttributeArray(config.KeyProperties)
	assert.False(t, ok)
	v, _ := f.Attribute(config.KeyDestination)
	assert.Equal(t, "q1", v)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParse_StructuredExtraAttributes(t *testing.T) {
	f, err := config.Parse([]byte(`
destination: orders
labels:
  team: payments
owners: [a, b]
`))
	require.NoError(t, err)

	v, ok := f.Attribute(config.KeyDestination)
	assert.True(t, ok)
	assert.Equal(t, "orders", v)

	_, ok = f.Attribute("labels")
	assert.False(t, ok)
	_, ok = f.Attribute("owners")
	assert.False(t, ok)

	props, err := config.FromDescriptor(f)
	require.NoError(t, err)
	assert.Equal(t, config.Properties{config.InternalDestination: "orders"}, props)
}

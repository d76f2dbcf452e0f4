package rabbitmq

import amqp "github.com/rabbitmq/amqp091-go"

// Option configures the RabbitMQ broker.
type Option func(*options)

type options struct {
	// Exchange settings
	exchange     string
	exchangeType string
	routingKey   string

	// Queue settings
	durable    bool
	autoDelete bool
	exclusive  bool

	// Consumer settings
	prefetchCount int
	requeueOnNack bool
	autoAck       bool
	consumerTag   string

	connectionName string
}

func defaults() options {
	return options{
		exchange:      "",       // default exchange
		exchangeType:  "direct", // direct, fanout, topic, headers
		durable:       true,
		prefetchCount: 10,
		requeueOnNack: true,
	}
}

func (o options) clientProperties() amqp.Table {
	t := amqp.NewConnectionProperties()
	if o.connectionName != "" {
		t.SetClientConnectionName(o.connectionName)
	}
	return t
}

// WithExchange sets the exchange name and type.
func WithExchange(name, kind string) Option {
	return func(o *options) {
		o.exchange = name
		o.exchangeType = kind
	}
}

// WithRoutingKey sets the routing key for queue binding.
func WithRoutingKey(key string) Option {
	return func(o *options) { o.routingKey = key }
}

// WithDurable controls whether queues survive broker restart.
func WithDurable(d bool) Option {
	return func(o *options) { o.durable = d }
}

// WithPrefetchCount sets how many messages are delivered before requiring ack.
func WithPrefetchCount(n int) Option {
	return func(o *options) { o.prefetchCount = n }
}

// WithRequeueOnNack controls whether nacked messages are requeued.
func WithRequeueOnNack(requeue bool) Option {
	return func(o *options) { o.requeueOnNack = requeue }
}

// WithAutoDelete causes the queue to be deleted when the last consumer disconnects.
func WithAutoDelete(d bool) Option {
	return func(o *options) { o.autoDelete = d }
}

// WithAutoAck makes the server consider deliveries acknowledged on send.
// Ack and Nack become no-ops.
func WithAutoAck(auto bool) Option {
	return func(o *options) { o.autoAck = auto }
}

// WithConsumerTag sets the consumer tag. Empty lets the server generate one.
func WithConsumerTag(tag string) Option {
	return func(o *options) { o.consumerTag = tag }
}

// WithConnectionName sets the client-provided connection name shown by the server.
func WithConnectionName(name string) Option {
	return func(o *options) { o.connectionName = name }
}

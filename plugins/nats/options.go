package nats

import (
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Option configures the NATS broker.
type Option func(*options)

type options struct {
	// Connection
	connOpts []nats.Option

	// Stream
	maxMsgs   int64
	maxBytes  int64
	maxAge    time.Duration
	replicas  int
	retention  jetstream.RetentionPolicy
	storage    jetstream.StorageType
	duplicates time.Duration

	// Consumer
	ackWait           time.Duration
	maxDeliver        int
	inactiveThreshold time.Duration
	autoAck           bool
}

func defaults() options {
	return options{
		maxMsgs:    -1, // unlimited
		maxBytes:   -1,
		maxAge:     0,
		replicas:   1,
		retention:  jetstream.LimitsPolicy,
		storage:    jetstream.FileStorage,
		duplicates: 2 * time.Minute,

		ackWait:           30 * time.Second,
		maxDeliver:        5,
		inactiveThreshold: 5 * time.Minute,
	}
}

// WithConnOptions appends options passed to nats.Connect.
func WithConnOptions(o ...nats.Option) Option {
	return func(opts *options) { opts.connOpts = append(opts.connOpts, o...) }
}

// WithMaxMessages sets the maximum number of messages per stream.
func WithMaxMessages(n int64) Option {
	return func(o *options) { o.maxMsgs = n }
}

// WithMaxBytes sets the maximum total size of a stream.
func WithMaxBytes(n int64) Option {
	return func(o *options) { o.maxBytes = n }
}

// WithMaxAge sets the maximum age of messages in the stream.
func WithMaxAge(d time.Duration) Option {
	return func(o *options) { o.maxAge = d }
}

// WithReplicas sets the stream replication factor.
func WithReplicas(n int) Option {
	return func(o *options) { o.replicas = n }
}

// WithRetention sets the stream retention policy.
func WithRetention(r jetstream.RetentionPolicy) Option {
	return func(o *options) { o.retention = r }
}

// WithStorage sets the stream storage type (file or memory).
func WithStorage(s jetstream.StorageType) Option {
	return func(o *options) { o.storage = s }
}

// WithAckWait sets how long the server waits for an ack before redelivering.
func WithAckWait(d time.Duration) Option {
	return func(o *options) { o.ackWait = d }
}

// WithMaxDeliver sets the maximum number of delivery attempts.
func WithMaxDeliver(n int) Option {
	return func(o *options) { o.maxDeliver = n }
}

// WithDuplicateWindow sets how long the stream remembers message ids.
func WithDuplicateWindow(d time.Duration) Option {
	return func(o *options) { o.duplicates = d }
}

// WithInactiveThreshold sets how long an ephemeral consumer outlives its last
// subscription.
func WithInactiveThreshold(d time.Duration) Option {
	return func(o *options) { o.inactiveThreshold = d }
}

// WithAutoAck acknowledges messages whose handler returned nil without
// settling them.
func WithAutoAck(auto bool) Option {
	return func(o *options) { o.autoAck = auto }
}

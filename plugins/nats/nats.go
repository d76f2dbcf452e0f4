package nats

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/miladsoleymani/mqconnect/broker"
	"github.com/miladsoleymani/mqconnect/core"
)

func init() {
	broker.Register("nats", func(cfg broker.Config) (core.Broker, error) {
		if len(cfg.Brokers) == 0 {
			return nil, fmt.Errorf("mqconnect/nats: at least one server URL is required")
		}
		opts, err := optsFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return New(strings.Join(cfg.Brokers, ","), cfg.Group, opts...)
	})
}

// Broker maps a connector destination onto a JetStream subject.
//
// Every destination gets a stream named after it and one pull consumer that
// all concurrent subscriptions of this Broker share, so they split the work.
// A subscription name makes that consumer durable; without one the consumer
// is ephemeral and disappears after the connection goes away. The connector
// message-id is published as Nats-Msg-Id so the stream drops duplicates.
type Broker struct {
	conn         *nats.Conn
	js           jetstream.JetStream
	subscription string
	opts         options

	mu        sync.Mutex
	closed    bool
	consumers map[string]jetstream.Consumer
	running   []jetstream.ConsumeContext
}

// New connects to url, a server URL or a comma separated list of them.
// subscription is the durable consumer name and may be empty.
func New(url, subscription string, fns ...Option) (*Broker, error) {
	opts := defaults()
	for _, fn := range fns {
		fn(&opts)
	}

	nc, err := nats.Connect(url, opts.connOpts...)
	if err != nil {
		return nil, fmt.Errorf("mqconnect/nats: connect to %q: %w", url, err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("mqconnect/nats: init jetstream: %w", err)
	}
	return &Broker{
		conn:         nc,
		js:           js,
		subscription: subscription,
		opts:         opts,
		consumers:    make(map[string]jetstream.Consumer),
	}, nil
}

func (b *Broker) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Publish sends msg to the destination subject and waits for the stream ack.
func (b *Broker) Publish(ctx context.Context, destination string, msg core.Message) error {
	if b.isClosed() {
		return core.ErrBrokerClosed
	}
	if _, err := b.js.PublishMsg(ctx, outbound(destination, msg)); err != nil {
		return fmt.Errorf("mqconnect/nats: publish to %q: %w", destination, err)
	}
	return nil
}

// outbound builds the NATS message. Headers derived on receipt are not sent.
func outbound(subject string, msg core.Message) *nats.Msg {
	nm := nats.NewMsg(subject)
	nm.Data = msg.Value()
	for k, v := range msg.Headers() {
		switch k {
		case core.HeaderDestination, core.HeaderRedelivered:
		case core.HeaderMessageID:
			if v != "" {
				nm.Header.Set(jetstream.MsgIDHeader, v)
			}
		default:
			nm.Header.Set(k, v)
		}
	}
	return nm
}

// Subscribe consumes destination until ctx is cancelled. Concurrent calls for
// the same destination share one consumer.
func (b *Broker) Subscribe(ctx context.Context, destination string, handler core.Handler) error {
	if b.isClosed() {
		return core.ErrBrokerClosed
	}
	cons, err := b.consumer(ctx, destination)
	if err != nil {
		return err
	}

	cc, err := cons.Consume(func(jsMsg jetstream.Msg) {
		b.deliver(ctx, newMessage(jsMsg), handler)
	})
	if err != nil {
		return fmt.Errorf("mqconnect/nats: consume %q: %w", destination, err)
	}

	b.mu.Lock()
	b.running = append(b.running, cc)
	b.mu.Unlock()

	<-ctx.Done()
	cc.Stop()
	return nil
}

// deliver runs handler. A failure is nacked for redelivery. With auto
// acknowledgement a successful handler that did not ack is acked here.
func (b *Broker) deliver(ctx context.Context, msg *message, handler core.Handler) {
	if err := handler(ctx, msg); err != nil {
		_ = msg.Nack()
		return
	}
	if b.opts.autoAck && !msg.settled {
		_ = msg.Ack()
	}
}

// consumer returns the consumer for destination, creating its stream first.
func (b *Broker) consumer(ctx context.Context, destination string) (jetstream.Consumer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.consumers[destination]; ok {
		return c, nil
	}

	name := streamName(destination)
	stream, err := b.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       name,
		Subjects:   []string{destination},
		MaxMsgs:    b.opts.maxMsgs,
		MaxBytes:   b.opts.maxBytes,
		MaxAge:     b.opts.maxAge,
		Replicas:   b.opts.replicas,
		Retention:  b.opts.retention,
		Storage:    b.opts.storage,
		Duplicates: b.opts.duplicates,
	})
	if err != nil {
		return nil, fmt.Errorf("mqconnect/nats: create stream %q: %w", name, err)
	}

	c, err := stream.CreateOrUpdateConsumer(ctx, b.consumerConfig())
	if err != nil {
		return nil, fmt.Errorf("mqconnect/nats: create consumer for %q: %w", destination, err)
	}
	b.consumers[destination] = c
	return c, nil
}

func (b *Broker) consumerConfig() jetstream.ConsumerConfig {
	cfg := jetstream.ConsumerConfig{
		AckPolicy:  jetstream.AckExplicitPolicy,
		AckWait:    b.opts.ackWait,
		MaxDeliver: b.opts.maxDeliver,
	}
	if b.subscription != "" {
		cfg.Durable = consumerName(b.subscription)
	} else {
		cfg.InactiveThreshold = b.opts.inactiveThreshold
	}
	return cfg
}

// Close stops every subscription and drains the connection so in-flight
// acks are flushed.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	for _, cc := range b.running {
		cc.Stop()
	}
	if err := b.conn.Drain(); err != nil {
		return fmt.Errorf("mqconnect/nats: drain: %w", err)
	}
	return nil
}

// streamName derives a stream name from a destination. Stream names may not
// contain '.', '*', '>' or whitespace.
func streamName(destination string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t':
			return '-'
		}
		return r
	}, destination)
}

// consumerName makes a subscription name usable as a durable consumer name,
// which shares the stream name restrictions.
func consumerName(subscription string) string {
	return streamName(subscription)
}

// Plugin property keys.
const (
	PropMaxDeliver = "nats.max.deliver"
	PropReplicas   = "nats.replicas"
)

// optsFromConfig extracts options from the normalized broker.Config.
func optsFromConfig(cfg broker.Config) ([]Option, error) {
	var opts []Option
	if v, ok, err := cfg.Int(PropMaxDeliver); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, WithMaxDeliver(v))
	}
	if v, ok, err := cfg.Int(PropReplicas); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, WithReplicas(v))
	}
	if cfg.Username != "" {
		opts = append(opts, WithConnOptions(nats.UserInfo(cfg.Username, cfg.Password)))
	}
	if cfg.ClientID != "" {
		opts = append(opts, WithConnOptions(nats.Name(cfg.ClientID)))
	}
	if isAutoAck(cfg.AckMode) {
		opts = append(opts, WithAutoAck(true))
	}
	return opts, nil
}

// isAutoAck reports whether mode lets the session acknowledge for the handler.
func isAutoAck(mode string) bool {
	switch strings.ToUpper(strings.TrimSpace(mode)) {
	case "AUTO_ACKNOWLEDGE", "DUPS_OK_ACKNOWLEDGE":
		return true
	}
	return false
}

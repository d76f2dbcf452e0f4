package kafka

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/spf13/cast"
	"go.uber.org/multierr"

	"github.com/miladsoleymani/mqconnect/broker"
	"github.com/miladsoleymani/mqconnect/core"
)

func init() {
	broker.Register("kafka", func(cfg broker.Config) (core.Broker, error) {
		opts, err := optsFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return New(cfg.Brokers, cfg.Group, opts...)
	})
}

// Broker maps a connector destination onto a Kafka topic.
//
// Subscriptions always join a consumer group so concurrent consumers split the
// partitions. The subscription name is the group; without one the Broker
// makes up a group of its own that starts at the end of the topic, which is
// how a non-durable subscriber behaves. Acknowledging commits the offset.
type Broker struct {
	brokers []string
	group   string
	opts    options

	writer  *kafka.Writer
	readers []*kafka.Reader
	mu      sync.Mutex
	closed  bool
}

// New creates a Kafka Broker. subscription is the consumer group and may be
// empty.
func New(brokers []string, subscription string, fns ...Option) (*Broker, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("mqconnect/kafka: at least one broker address is required")
	}

	opts := defaults()
	for _, fn := range fns {
		fn(&opts)
	}

	group, startOffset := subscription, kafka.FirstOffset
	if group == "" {
		group, startOffset = "mqconnect-"+uuid.NewString(), kafka.LastOffset
	}
	if opts.startOffset == 0 {
		opts.startOffset = startOffset
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     opts.balancer,
		BatchSize:    opts.batchSize,
		Async:        opts.async,
		Compression:  opts.compression,
		RequiredAcks: kafka.RequireAll,
	}
	if opts.dialer != nil {
		w.Transport = &kafka.Transport{
			TLS:      opts.dialer.TLS,
			SASL:     opts.dialer.SASLMechanism,
			ClientID: opts.dialer.ClientID,
		}
	}

	return &Broker{brokers: brokers, group: group, opts: opts, writer: w}, nil
}

// Publish writes msg to the destination topic.
func (b *Broker) Publish(ctx context.Context, destination string, msg core.Message) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return core.ErrBrokerClosed
	}

	km, err := outbound(destination, msg)
	if err != nil {
		return err
	}
	if err := b.writer.WriteMessages(ctx, km); err != nil {
		return fmt.Errorf("mqconnect/kafka: publish to %q: %w", destination, err)
	}
	return nil
}

// outbound builds the Kafka record. The timestamp header becomes the record
// time; headers derived on receipt are not sent.
func outbound(topic string, msg core.Message) (kafka.Message, error) {
	km := kafka.Message{Topic: topic, Key: msg.Key(), Value: msg.Value()}
	for k, v := range msg.Headers() {
		switch k {
		case core.HeaderDestination, core.HeaderRedelivered:
			continue
		case core.HeaderTimestamp:
			t, err := cast.ToTimeE(strings.TrimSpace(v))
			if err != nil {
				return kafka.Message{}, fmt.Errorf("mqconnect/kafka: header %s=%q: %w", k, v, err)
			}
			km.Time = t
			continue
		}
		km.Headers = append(km.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return km, nil
}

// Subscribe joins the consumer group for destination and blocks, delivering
// records until ctx is cancelled.
func (b *Broker) Subscribe(ctx context.Context, destination string, handler core.Handler) error {
	cfg := kafka.ReaderConfig{
		Brokers:     b.brokers,
		Topic:       destination,
		GroupID:     b.group,
		StartOffset: b.opts.startOffset,
		MinBytes:    b.opts.minBytes,
		MaxBytes:    b.opts.maxBytes,
		MaxWait:     b.opts.maxWait,
		Dialer:      b.opts.dialer,
	}
	r := kafka.NewReader(cfg)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		_ = r.Close()
		return core.ErrBrokerClosed
	}
	b.readers = append(b.readers, r)
	b.mu.Unlock()

	for {
		raw, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("mqconnect/kafka: fetch from %q: %w", destination, err)
		}
		b.deliver(ctx, newMessage(ctx, raw, r), handler)
	}
}

// deliver runs handler. A failed record stays uncommitted and is read again
// after a rebalance or restart. With auto acknowledgement a successful
// handler that did not settle the record gets it committed here.
func (b *Broker) deliver(ctx context.Context, msg *message, handler core.Handler) {
	if err := handler(ctx, msg); err != nil {
		_ = msg.Nack()
		return
	}
	if b.opts.autoAck && !msg.settled {
		_ = msg.Ack()
	}
}

// Close flushes the writer and closes all readers.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var err error
	if cerr := b.writer.Close(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("mqconnect/kafka: close writer: %w", cerr))
	}
	for _, r := range b.readers {
		if cerr := r.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("mqconnect/kafka: close reader: %w", cerr))
		}
	}
	return err
}

// Plugin property keys.
const (
	PropAsync     = "kafka.async"
	PropBatchSize = "kafka.batch.size"
	PropMaxBytes  = "kafka.max.bytes"

	// PropCompression is one of none, gzip, snappy, lz4 or zstd.
	PropCompression = "kafka.compression"
)

func parseCompression(name string) (kafka.Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return 0, nil
	case "gzip":
		return kafka.Gzip, nil
	case "snappy":
		return kafka.Snappy, nil
	case "lz4":
		return kafka.Lz4, nil
	case "zstd":
		return kafka.Zstd, nil
	}
	return 0, fmt.Errorf("mqconnect/kafka: unknown compression %q", name)
}

// optsFromConfig extracts options from the normalized broker.Config.
func optsFromConfig(cfg broker.Config) ([]Option, error) {
	var opts []Option
	if v, ok, err := cfg.Bool(PropAsync); err != nil {
		return nil, err
	} else if ok && v {
		opts = append(opts, WithAsync(true))
	}
	if v, ok, err := cfg.Int(PropBatchSize); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, WithBatchSize(v))
	}
	if v, ok, err := cfg.Int(PropMaxBytes); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, WithMaxBytes(v))
	}
	if v, ok := cfg.String(PropCompression); ok {
		c, err := parseCompression(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithCompression(c))
	}
	if cfg.Username != "" || cfg.ClientID != "" {
		d := &kafka.Dialer{ClientID: cfg.ClientID, DualStack: true}
		if cfg.Username != "" {
			d.SASLMechanism = plain.Mechanism{Username: cfg.Username, Password: cfg.Password}
		}
		opts = append(opts, WithDialer(d))
	}
	switch strings.ToUpper(strings.TrimSpace(cfg.AckMode)) {
	case "AUTO_ACKNOWLEDGE", "DUPS_OK_ACKNOWLEDGE":
		opts = append(opts, WithAutoAck(true))
	}
	return opts, nil
}

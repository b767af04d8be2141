package kafka

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-engine/pkg/errors"
)

var ErrProducerClosed = errors.New(errors.ErrCodeInternal, "producer closed")

// OutboundMessage is a message to publish.
type OutboundMessage struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ProducerStats is a snapshot of producer counters.
type ProducerStats struct {
	Sent   int64
	Failed int64
	Bytes  int64
}

// Producer publishes messages synchronously.
type Producer struct {
	writer   WriterInterface
	maxBytes int
	logger   logging.Logger
	closed   atomic.Bool

	sent, failed, bytes atomic.Int64
}

// NewProducer builds a producer that waits for all in-sync replicas.
func NewProducer(cfg Config, logger logging.Logger) (*Producer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	transport, err := cfg.transport()
	if err != nil {
		return nil, err
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		MaxAttempts:            cfg.MaxRetries + 1,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           cfg.WriteTimeout,
		RequiredAcks:           kafka.RequireAll,
		Compression:            kafka.Snappy,
		AllowAutoTopicCreation: true,
		Transport:              transport,
	}
	return newProducer(w, cfg.MaxMessageBytes, logger), nil
}

func newProducer(w WriterInterface, maxBytes int, logger logging.Logger) *Producer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Producer{writer: w, maxBytes: maxBytes, logger: logger.Named("kafka.producer")}
}

// Publish writes one message and waits for the acknowledgement.
func (p *Producer) Publish(ctx context.Context, msg *OutboundMessage) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if msg.Topic == "" {
		return errors.New(errors.ErrCodeValidation, "topic required")
	}
	if len(msg.Value) == 0 {
		return errors.New(errors.ErrCodeValidation, "message value required")
	}
	if p.maxBytes > 0 && len(msg.Value) > p.maxBytes {
		return errors.New(errors.ErrCodeValidation, "message too large")
	}

	if err := p.writer.WriteMessages(ctx, toKafkaMessage(msg)); err != nil {
		p.failed.Add(1)
		return errors.Wrap(err, errors.ErrCodeUnavailable, "kafka publish failed")
	}
	p.sent.Add(1)
	p.bytes.Add(int64(len(msg.Value)))
	p.logger.Debug("message published", logging.String("topic", msg.Topic), logging.Int("bytes", len(msg.Value)))
	return nil
}

// Stats returns a snapshot of the counters.
func (p *Producer) Stats() ProducerStats {
	return ProducerStats{Sent: p.sent.Load(), Failed: p.failed.Load(), Bytes: p.bytes.Load()}
}

// Close flushes and closes the writer.  Subsequent calls are no-ops.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("kafka producer closed", logging.Int64("sent", p.sent.Load()))
	return err
}

func toKafkaMessage(msg *OutboundMessage) kafka.Message {
	headers := make([]kafka.Header, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return kafka.Message{
		Topic:   msg.Topic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
		Time:    time.Now(),
	}
}

//Personal.AI order the ending

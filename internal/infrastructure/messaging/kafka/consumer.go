package kafka

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-engine/pkg/errors"
)

var ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")

// Dead-letter headers.
const (
	HeaderOriginalTopic = "x-original-topic"
	HeaderError         = "x-error"
	HeaderAttempts      = "x-attempts"
)

// Message is a consumed message.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Time      time.Time
}

// Handler processes one message.  A non-nil error triggers redelivery to the
// handler until retries run out.
type Handler func(ctx context.Context, msg *Message) error

// Publisher sends a message; *Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, msg *OutboundMessage) error
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ConsumerStats is a snapshot of consumer counters.
type ConsumerStats struct {
	Consumed     int64
	Processed    int64
	Failed       int64
	Retried      int64
	DeadLettered int64
	Lag          int64
}

// Consumer reads the request topic as part of a consumer group, one message
// at a time, and commits each offset once the handler is done with it.
// Messages whose handler keeps failing are copied to the dead-letter topic
// and committed.
type Consumer struct {
	reader     ReaderInterface
	cfg        Config
	logger     logging.Logger
	deadLetter Publisher

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	consumed, processed, failed, retried, deadLettered, lag atomic.Int64
}

// NewConsumer joins cfg.GroupID on cfg.RequestTopic.  deadLetter may be nil.
func NewConsumer(cfg Config, deadLetter Publisher, logger logging.Logger) (*Consumer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dialer, err := cfg.dialer()
	if err != nil {
		return nil, err
	}
	start := kafka.FirstOffset
	if cfg.StartOffset == "latest" {
		start = kafka.LastOffset
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		GroupTopics:    []string{cfg.RequestTopic},
		MinBytes:       1,
		MaxBytes:       cfg.MaxMessageBytes,
		MaxWait:        time.Second,
		StartOffset:    start,
		IsolationLevel: kafka.ReadCommitted,
		Dialer:         dialer,
	})
	return newConsumer(r, cfg, deadLetter, logger), nil
}

func newConsumer(r ReaderInterface, cfg Config, deadLetter Publisher, logger logging.Logger) *Consumer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Consumer{
		reader:     r,
		cfg:        cfg,
		logger:     logger.Named("kafka.consumer"),
		deadLetter: deadLetter,
	}
}

// Start launches the consume loop.  It returns immediately.
func (c *Consumer) Start(ctx context.Context, handler Handler) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.loop(ctx, handler)
	c.logger.Info("kafka consumer started",
		logging.String("group", c.cfg.GroupID),
		logging.String("topic", c.cfg.RequestTopic))
	return nil
}

func (c *Consumer) loop(ctx context.Context, handler Handler) {
	defer c.wg.Done()
	for ctx.Err() == nil {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("fetch failed", logging.Err(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		c.consumed.Add(1)
		if m.HighWaterMark > 0 {
			c.lag.Store(m.HighWaterMark - m.Offset - 1)
		}

		if err := c.process(ctx, fromKafkaMessage(m), handler); err != nil {
			// Cancelled mid-retry: leave the offset for the next member.
			return
		}
		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Error("commit failed", logging.Err(err), logging.Int64("offset", m.Offset))
		}
	}
}

// process runs handler with exponential backoff between attempts.  It only
// fails when ctx ends; exhausted messages are dead-lettered and reported as
// handled.
func (c *Consumer) process(ctx context.Context, msg *Message, handler Handler) error {
	err := handler(ctx, msg)
	backoff := c.cfg.RetryBackoff
	attempts := 1
	for ; err != nil && attempts <= c.cfg.MaxRetries; attempts++ {
		c.retried.Add(1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		err = handler(ctx, msg)
		backoff *= 2
		if c.cfg.MaxRetryBackoff > 0 && backoff > c.cfg.MaxRetryBackoff {
			backoff = c.cfg.MaxRetryBackoff
		}
	}
	if err == nil {
		c.processed.Add(1)
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	c.failed.Add(1)
	c.logger.Error("message failed after retries",
		logging.String("topic", msg.Topic),
		logging.Int64("offset", msg.Offset),
		logging.Int("attempts", attempts),
		logging.Err(err))
	c.sendToDeadLetter(ctx, msg, err, attempts)
	return nil
}

func (c *Consumer) sendToDeadLetter(ctx context.Context, msg *Message, cause error, attempts int) {
	if c.deadLetter == nil || c.cfg.DeadLetterTopic == "" {
		return
	}
	headers := make(map[string]string, len(msg.Headers)+3)
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[HeaderOriginalTopic] = msg.Topic
	headers[HeaderError] = cause.Error()
	headers[HeaderAttempts] = strconv.Itoa(attempts)

	err := c.deadLetter.Publish(ctx, &OutboundMessage{
		Topic:   c.cfg.DeadLetterTopic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	})
	if err != nil {
		c.logger.Error("dead-letter publish failed", logging.Err(err))
		return
	}
	c.deadLettered.Add(1)
}

// Stats returns a snapshot of the counters.
func (c *Consumer) Stats() ConsumerStats {
	return ConsumerStats{
		Consumed:     c.consumed.Load(),
		Processed:    c.processed.Load(),
		Failed:       c.failed.Load(),
		Retried:      c.retried.Load(),
		DeadLettered: c.deadLettered.Load(),
		Lag:          c.lag.Load(),
	}
}

// Close stops the loop, waits for the in-flight message and closes the
// reader.
func (c *Consumer) Close() error {
	if !c.running.CompareAndSwap(true, false) {
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	err := c.reader.Close()
	c.logger.Info("kafka consumer closed", logging.Int64("consumed", c.consumed.Load()))
	return err
}

func fromKafkaMessage(m kafka.Message) *Message {
	msg := &Message{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Time:      m.Time,
		Headers:   make(map[string]string, len(m.Headers)),
	}
	for _, h := range m.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}

//Personal.AI order the ending

package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.uber.org/zap"
)

// DefaultMaxAttempts bounds how often a failing event is redelivered before it is dropped.
const DefaultMaxAttempts = 3

// Delivery is one decoded event together with its message envelope.
type Delivery[T any] struct {
	Event         T
	MessageID     string
	Topic         string
	CorrelationID string
	PublishedAt   time.Time
}

// Handler processes one delivery.
type Handler[T any] func(ctx context.Context, d *Delivery[T]) error

// ConsumerOption configures a Consumer.
type ConsumerOption func(*consumerConfig)

type consumerConfig struct {
	maxAttempts int
}

// WithMaxAttempts sets how many times a delivery is attempted. Values below 1 mean 1.
func WithMaxAttempts(n int) ConsumerOption {
	return func(c *consumerConfig) {
		c.maxAttempts = max(n, 1)
	}
}

// Consumer subscribes to a topic and feeds decoded events to a typed handler.
// Undecodable messages are dropped. A failing handler gets the message redelivered until
// the attempt budget runs out, then the message is dropped too.
type Consumer[T any] struct {
	subscriber  message.Subscriber
	topic       string
	handler     Handler[T]
	logger      *zap.Logger
	maxAttempts int
	attempts    map[string]int
	cancel      context.CancelFunc
	done        chan struct{}
}

// NewConsumer creates a consumer for topic.
func NewConsumer[T any](
	subscriber message.Subscriber,
	topic string,
	handler Handler[T],
	logger *zap.Logger,
	opts ...ConsumerOption,
) *Consumer[T] {
	cfg := consumerConfig{maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Consumer[T]{
		subscriber:  subscriber,
		topic:       topic,
		handler:     handler,
		logger:      logger.With(zap.String("topic", topic)),
		maxAttempts: cfg.maxAttempts,
		attempts:    make(map[string]int),
		done:        make(chan struct{}),
	}
}

// Topic returns the topic this consumer reads.
func (c *Consumer[T]) Topic() string {
	return c.topic
}

// Start subscribes and processes messages in the background until ctx ends,
// Shutdown is called, or the subscription closes.
func (c *Consumer[T]) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	msgs, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		c.cancel()
		close(c.done)

		return err
	}

	go func() {
		defer close(c.done)

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				c.deliver(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *Consumer[T]) deliver(ctx context.Context, msg *message.Message) {
	d := &Delivery[T]{
		MessageID:     msg.UUID,
		Topic:         c.topic,
		CorrelationID: middleware.MessageCorrelationID(msg),
	}

	if at, err := time.Parse(time.RFC3339Nano, msg.Metadata.Get(MetadataPublishedAt)); err == nil {
		d.PublishedAt = at
	}

	if err := json.Unmarshal(msg.Payload, &d.Event); err != nil {
		c.logger.Error("dropping undecodable event", zap.String("message_id", msg.UUID), zap.Error(err))
		msg.Ack()

		return
	}

	err := c.handler(ctx, d)
	if err == nil {
		delete(c.attempts, msg.UUID)
		msg.Ack()

		return
	}

	c.attempts[msg.UUID]++
	attempt := c.attempts[msg.UUID]

	if attempt < c.maxAttempts {
		c.logger.Warn("event handler failed, redelivering",
			zap.String("message_id", msg.UUID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		msg.Nack()

		return
	}

	c.logger.Error("event handler failed, dropping event",
		zap.String("message_id", msg.UUID),
		zap.Int("attempts", attempt),
		zap.Error(err),
	)
	delete(c.attempts, msg.UUID)
	msg.Ack()
}

// Shutdown stops the consumer and waits for the delivery in flight, if any.
func (c *Consumer[T]) Shutdown() error {
	if c.cancel != nil {
		c.cancel()
	}

	<-c.done

	return nil
}

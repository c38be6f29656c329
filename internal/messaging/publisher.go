package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Metadata keys set on every published message.
const (
	MetadataTopic       = "topic"
	MetadataPublishedAt = "published_at"
)

// Publish publishes one typed event.
type Publish[T any] func(ctx context.Context, event *T) error

type correlationKey struct{}

// WithCorrelationID tags every event published under ctx with id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the id set by WithCorrelationID, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)

	return id
}

// NewPublishFunc creates a typed publish function bound to topic. Events are JSON encoded.
func NewPublishFunc[T any](publisher message.Publisher, topic string) Publish[T] {
	return func(ctx context.Context, event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.Metadata.Set(MetadataTopic, topic)
		msg.Metadata.Set(MetadataPublishedAt, time.Now().UTC().Format(time.RFC3339Nano))

		if id := CorrelationID(ctx); id != "" {
			middleware.SetCorrelationID(id, msg)
		}

		msg.SetContext(ctx)

		return publisher.Publish(topic, msg)
	}
}

// NoopPublish returns a publish function that drops every event.
func NoopPublish[T any]() Publish[T] {
	return func(context.Context, *T) error { return nil }
}

// Bus owns a publisher and, when events are consumed in the same process, the consumers
// reading from it.
type Bus struct {
	publisher message.Publisher
	local     *ConsumerGroup
}

// NewBus creates a bus over publisher. local may be nil.
func NewBus(publisher message.Publisher, local *ConsumerGroup) *Bus {
	return &Bus{publisher: publisher, local: local}
}

// Publisher returns the underlying publisher for building typed publish functions.
func (b *Bus) Publisher() message.Publisher {
	return b.publisher
}

// Start starts the local consumers, if any.
func (b *Bus) Start(ctx context.Context) error {
	if b.local == nil {
		return nil
	}

	return b.local.Start(ctx)
}

// Shutdown closes the publisher, then stops the local consumers.
func (b *Bus) Shutdown() error {
	err := b.publisher.Close()

	if b.local != nil {
		err = errors.Join(err, b.local.Shutdown())
	}

	return err
}

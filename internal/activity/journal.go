package activity

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shortlink-client/internal/messaging"
	"go.uber.org/zap"
)

// Journal writes lifecycle events to a logger.
type Journal struct {
	logger *zap.Logger
}

// NewJournal creates a journal writing to logger.
func NewJournal(logger *zap.Logger) *Journal {
	return &Journal{logger: logger}
}

func (j *Journal) LinkCreated(_ context.Context, d *messaging.Delivery[LinkCreatedEvent]) error {
	e := &d.Event
	fields := []zap.Field{
		zap.Int64("id", e.ID),
		zap.String("code", e.Code),
		zap.String("long_url", e.LongURL),
		zap.String("user_id", e.UserID),
		zap.Bool("custom_code", e.CustomCode),
		zap.Time("at", e.OccurredAt),
		zap.String("correlation_id", d.CorrelationID),
	}

	if e.ExpiresAt != nil {
		fields = append(fields, zap.Time("expires_at", *e.ExpiresAt))
	}

	j.logger.Info("link created", fields...)

	return nil
}

func (j *Journal) LinkDeleted(_ context.Context, d *messaging.Delivery[LinkDeletedEvent]) error {
	j.logger.Info("link deleted",
		zap.Int64("id", d.Event.ID),
		zap.String("user_id", d.Event.UserID),
		zap.Time("at", d.Event.OccurredAt),
		zap.String("correlation_id", d.CorrelationID),
	)

	return nil
}

func (j *Journal) LinksLoaded(_ context.Context, d *messaging.Delivery[LinksLoadedEvent]) error {
	j.logger.Info("links loaded",
		zap.String("user_id", d.Event.UserID),
		zap.Int("count", d.Event.Count),
		zap.Int("expired", d.Event.Expired),
		zap.Time("at", d.Event.OccurredAt),
		zap.String("correlation_id", d.CorrelationID),
	)

	return nil
}

// NewJournalGroup returns a consumer group feeding all lifecycle topics into j.
func NewJournalGroup(subscriber message.Subscriber, j *Journal, logger *zap.Logger) *messaging.ConsumerGroup {
	group := messaging.NewConsumerGroup(subscriber, logger)
	group.Add(messaging.NewConsumer(subscriber, TopicLinkCreated, j.LinkCreated, logger))
	group.Add(messaging.NewConsumer(subscriber, TopicLinkDeleted, j.LinkDeleted, logger))
	group.Add(messaging.NewConsumer(subscriber, TopicLinksLoaded, j.LinksLoaded, logger))

	return group
}

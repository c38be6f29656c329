package container

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/samber/do"
	"github.com/serroba/shortlink-client/internal/activity"
	"github.com/serroba/shortlink-client/internal/messaging"
	"go.uber.org/zap"
)

// ActivityConsumerGroup names the Redis stream consumer group of cmd/activity.
const ActivityConsumerGroup = "activity-journal"

// EventsPackage provides activity.Publishers for the configured transport.
// With "memory" the journal runs in process and is started with the bus.
func EventsPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.Bus, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		var bus *messaging.Bus

		switch opts.Events {
		case EventsMemory:
			pubSub := gochannel.NewGoChannel(
				gochannel.Config{BlockPublishUntilSubscriberAck: true},
				messaging.NewZapLogger(logger.Named("watermill")),
			)
			bus = messaging.NewBus(pubSub, activity.NewJournalGroup(pubSub, activity.NewJournal(logger), logger))
		case EventsRedis:
			publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
				Client:     do.MustInvoke[*Redis](i).Client,
				Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
			}, messaging.NewZapLogger(logger.Named("watermill")))
			if err != nil {
				return nil, fmt.Errorf("redis stream publisher: %w", err)
			}

			bus = messaging.NewBus(publisher, nil)
		default:
			return nil, fmt.Errorf("no bus for events transport %q", opts.Events)
		}

		if err := bus.Start(context.Background()); err != nil {
			return nil, fmt.Errorf("start event bus: %w", err)
		}

		return bus, nil
	})

	do.Provide(injector, func(i *do.Injector) (activity.Publishers, error) {
		if do.MustInvoke[*Options](i).Events == EventsNone {
			return activity.NoopPublishers(), nil
		}

		bus, err := do.Invoke[*messaging.Bus](i)
		if err != nil {
			return activity.Publishers{}, err
		}

		return activity.NewPublishers(bus.Publisher()), nil
	})
}

// SubscriberPackage provides the Redis stream subscriber and journal group used by cmd/activity.
func SubscriberPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        do.MustInvoke[*Redis](i).Client,
			Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
			ConsumerGroup: ActivityConsumerGroup,
		}, messaging.NewZapLogger(logger.Named("watermill")))
		if err != nil {
			return nil, fmt.Errorf("redis stream subscriber: %w", err)
		}

		return activity.NewJournalGroup(subscriber, activity.NewJournal(logger), logger), nil
	})
}

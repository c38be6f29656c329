package activity

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shortlink-client/internal/messaging"
)

// Publishers bundles the typed publish functions the controllers emit through.
type Publishers struct {
	LinkCreated messaging.Publish[LinkCreatedEvent]
	LinkDeleted messaging.Publish[LinkDeletedEvent]
	LinksLoaded messaging.Publish[LinksLoadedEvent]
}

// NewPublishers binds every event type to its topic on publisher.
func NewPublishers(publisher message.Publisher) Publishers {
	return Publishers{
		LinkCreated: messaging.NewPublishFunc[LinkCreatedEvent](publisher, TopicLinkCreated),
		LinkDeleted: messaging.NewPublishFunc[LinkDeletedEvent](publisher, TopicLinkDeleted),
		LinksLoaded: messaging.NewPublishFunc[LinksLoadedEvent](publisher, TopicLinksLoaded),
	}
}

// NoopPublishers drops every event.
func NoopPublishers() Publishers {
	return Publishers{
		LinkCreated: messaging.NoopPublish[LinkCreatedEvent](),
		LinkDeleted: messaging.NoopPublish[LinkDeletedEvent](),
		LinksLoaded: messaging.NoopPublish[LinksLoadedEvent](),
	}
}

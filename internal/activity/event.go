package activity

import "time"

const (
	TopicLinkCreated = "link.created"
	TopicLinkDeleted = "link.deleted"
	TopicLinksLoaded = "links.loaded"
)

// LinkCreatedEvent is emitted after a create submission succeeds.
type LinkCreatedEvent struct {
	ID         int64      `json:"id"`
	Code       string     `json:"code"`
	LongURL    string     `json:"longUrl"`
	ShortURL   string     `json:"shortUrl"`
	UserID     string     `json:"userId"`
	CustomCode bool       `json:"customCode"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	OccurredAt time.Time  `json:"occurredAt"`
}

// LinkDeletedEvent is emitted after the backend confirms a deletion.
type LinkDeletedEvent struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// LinksLoadedEvent is emitted after a collection load succeeds.
type LinksLoadedEvent struct {
	UserID     string    `json:"userId"`
	Count      int       `json:"count"`
	Expired    int       `json:"expired"`
	OccurredAt time.Time `json:"occurredAt"`
}

package links

import "time"

// Code represents a short code.
type Code string

// ID is the server-assigned identity of a short link.
type ID int64

// UserID is the device-local correlation token that groups a user's links.
type UserID string

// ShortLink is a link record as issued by the backend. It is never edited in place.
type ShortLink struct {
	ID        ID         `json:"id"`
	LongURL   string     `json:"long_url"`
	ShortCode Code       `json:"short_code"`
	ShortURL  string     `json:"short_url"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// CreateLinkRequest is the body sent to the backend to create a link.
// Nil optional fields are omitted from the wire format.
type CreateLinkRequest struct {
	LongURL    string `json:"long_url"              validate:"required,url"`
	CustomCode *Code  `json:"custom_code,omitempty"`
	Timeout    *int64 `json:"timeout,omitempty"     validate:"omitempty,gt=0"`
	UserID     UserID `json:"user_id"               validate:"required"`
}

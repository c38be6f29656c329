package stub

import (
	"github.com/serroba/shortlink-client/internal/linkservice"
	"github.com/serroba/shortlink-client/internal/links"
)

// CreateRequest is the body of POST /shorten.
type CreateRequest struct {
	Body struct {
		LongURL    string `doc:"The URL to shorten"            example:"https://example.com" json:"long_url,omitempty"`
		CustomCode string `doc:"Optional code to use"          example:"mycode"              json:"custom_code,omitempty"`
		Timeout    *int64 `doc:"Seconds until the link expires" example:"3600"                json:"timeout,omitempty"`
		UserID     string `doc:"Owner of the link"             example:"user_k3j9x0a1b"       json:"user_id,omitempty"`
	}
}

// LinkResponse wraps a single link in the envelope.
type LinkResponse struct {
	Status int
	Body   linkservice.Envelope[links.ShortLink]
}

// ListRequest is the request for GET /urls/{user_id}.
type ListRequest struct {
	UserID string `doc:"Owner of the links" path:"user_id"`
}

// ListResponse wraps the user's links in the envelope.
type ListResponse struct {
	Status int
	Body   linkservice.Envelope[[]links.ShortLink]
}

// DeleteRequest is the request for DELETE /urls/{id}/{user_id}.
type DeleteRequest struct {
	ID     int64  `doc:"Link id"           path:"id"`
	UserID string `doc:"Owner of the link" path:"user_id"`
}

// EmptyResponse is an envelope without data.
type EmptyResponse struct {
	Status int
	Body   linkservice.Envelope[struct{}]
}

// CodeRequest addresses a link by its short code.
type CodeRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"short_code"`
}

// RedirectResponse redirects to the long URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `header:"Location"`
	}
}

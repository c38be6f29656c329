package linkservice

import "encoding/json"

// Envelope wraps every backend response. Success false is a failure regardless of HTTP status.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *T     `json:"data,omitempty"`
}

// rawEnvelope defers decoding of data until success is known.
type rawEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

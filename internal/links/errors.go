package links

import (
	"errors"
	"fmt"
)

var ErrValidation = errors.New("validation failed")

// Failure is implemented by every error the link service reports to callers.
type Failure interface {
	error
	UserMessage() string
}

// ValidationError reports a missing or malformed field detected before dispatch.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ServiceError is a failure reported by the backend through the envelope.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return "link service: " + e.Message
}

func (e *ServiceError) UserMessage() string {
	return e.Message
}

// TransportError is a network or decoding failure. It never carries a backend message.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("link service %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) UserMessage() string {
	return ""
}

// MessageOf returns the user-facing text for err, or fallback when err carries none.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var failure Failure
	if errors.As(err, &failure) {
		if msg := failure.UserMessage(); msg != "" {
			return msg
		}

		return fallback
	}

	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Error()
	}

	return fallback
}

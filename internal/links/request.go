package links

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewCreateLinkRequest builds a request from raw form input. A blank custom code is omitted,
// and the timeout is omitted unless it parses as a positive integer.
func NewCreateLinkRequest(longURL, customCode, timeoutRaw string, userID UserID) *CreateLinkRequest {
	req := &CreateLinkRequest{
		LongURL: NormalizeURL(longURL),
		UserID:  userID,
	}

	if code := strings.TrimSpace(customCode); code != "" {
		c := Code(code)
		req.CustomCode = &c
	}

	if seconds, ok := ParseTimeout(timeoutRaw); ok {
		req.Timeout = &seconds
	}

	return req
}

// ParseTimeout parses a timeout in seconds and reports whether it is usable.
func ParseTimeout(raw string) (int64, bool) {
	seconds, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || seconds <= 0 {
		return 0, false
	}

	return seconds, true
}

// NormalizeURL prefixes scheme-less input with http://. Blank input stays blank so the
// required check still fires.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.Contains(trimmed, "://") {
		return trimmed
	}

	return "http://" + trimmed
}

// Validate checks the request before it is dispatched.
func (r *CreateLinkRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Field: "request", Reason: err.Error()}
	}

	fe := fieldErrs[0]

	return &ValidationError{Field: jsonName(fe.Field()), Reason: reason(fe.Tag())}
}

func jsonName(field string) string {
	switch field {
	case "LongURL":
		return "long_url"
	case "UserID":
		return "user_id"
	case "Timeout":
		return "timeout"
	default:
		return strings.ToLower(field)
	}
}

func reason(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "gt":
		return "must be positive"
	default:
		return "is invalid (" + tag + ")"
	}
}

package links

import (
	"time"
	"unicode/utf8"
)

const (
	// DefaultTruncateLength is the number of characters kept by TruncatedLongURL.
	DefaultTruncateLength = 50
	// Ellipsis is appended to truncated values.
	Ellipsis = "…"

	timestampLayout = "2006-01-02 15:04:05"
)

// Status is the derived expiration state of a link.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// IsExpired reports whether link has expired at now. Links without an expiry never expire,
// and a link whose expiry equals now is already expired.
func IsExpired(link *ShortLink, now time.Time) bool {
	if link.ExpiresAt == nil {
		return false
	}

	return !now.Before(*link.ExpiresAt)
}

// StatusAt returns the expiration status of link at now.
func StatusAt(link *ShortLink, now time.Time) Status {
	if IsExpired(link, now) {
		return StatusExpired
	}

	return StatusActive
}

// ExpiresIn returns the time left before link expires. It is zero for expired links and
// for links that never expire.
func ExpiresIn(link *ShortLink, now time.Time) time.Duration {
	if link.ExpiresAt == nil || IsExpired(link, now) {
		return 0
	}

	return link.ExpiresAt.Sub(now)
}

// TruncatedLongURL shortens the long URL to max characters followed by Ellipsis.
// Values of at most max characters are returned unchanged.
func TruncatedLongURL(link *ShortLink, max int) string {
	return Truncate(link.LongURL, max)
}

// Truncate counts characters, not bytes, so multi-byte input is never split.
func Truncate(s string, max int) string {
	if max <= 0 {
		max = DefaultTruncateLength
	}

	if utf8.RuneCountInString(s) <= max {
		return s
	}

	runes := []rune(s)

	return string(runes[:max]) + Ellipsis
}

// FormatTimestamp renders t in loc for display. A nil location means time.Local.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	return t.In(loc).Format(timestampLayout)
}

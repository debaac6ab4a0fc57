package urlcheck

import (
	"errors"
	"net/url"
	"time"
)

const maxURLLength = 2048

// ExpiryLayout is the wire format for user-supplied expiry timestamps.
const ExpiryLayout = time.RFC3339

var (
	ErrInvalidURL    = errors.New("invalid url")
	ErrInvalidExpiry = errors.New("expiry must be a timestamp in the future")
)

// Validate reports whether raw is an acceptable redirect target: non-empty,
// at most 2048 chars, an absolute http or https URL with a host.
func Validate(raw string) error {
	if raw == "" || len(raw) > maxURLLength {
		return ErrInvalidURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidURL
	}
	if u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// ParseExpiry parses raw as an RFC 3339 timestamp strictly after now.
// Invalid input is a rejection for the caller to gate on, never a panic.
func ParseExpiry(raw string, now time.Time) (time.Time, error) {
	parsed, err := time.Parse(ExpiryLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidExpiry
	}
	if !parsed.After(now) {
		return time.Time{}, ErrInvalidExpiry
	}
	return parsed, nil
}

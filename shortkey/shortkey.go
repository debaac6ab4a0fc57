package shortkey

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const generatedBytes = 4 // hex-encoded to 8 chars

var keyPattern = regexp.MustCompile(`^[a-z0-9_-]{3,32}$`)

// reservedKeys can never be assigned as short keys, custom or generated:
// they collide with route prefixes and well-known static assets.
var reservedKeys = map[string]struct{}{
	"api":         {},
	"auth":        {},
	"history":     {},
	"profile":     {},
	"urls":        {},
	"about":       {},
	"favicon":     {},
	"favicon.ico": {},
	"robots.txt":  {},
	"sitemap.xml": {},
}

var (
	ErrBadFormat = errors.New("key must be 3-32 chars of [a-z0-9_-]")
	ErrReserved  = errors.New("key is reserved")
)

// Normalize trims surrounding whitespace and lowercases the key. All keys
// are stored and compared in normalized form.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Validate checks a normalized key against the charset/length rule and the
// reserved set.
func Validate(key string) error {
	if !keyPattern.MatchString(key) {
		return ErrBadFormat
	}
	if _, ok := reservedKeys[key]; ok {
		return ErrReserved
	}
	return nil
}

// Generate returns a random 8-char lowercase hex key. Generation is
// stateless: uniqueness is enforced by the store's unique constraint at
// insert time, and the caller retries on collision.
func Generate() (string, error) {
	buf := make([]byte, generatedBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

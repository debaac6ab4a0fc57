// Package identity yields the caller's stable owner identifier.
package identity

import (
	"net/http"
	"regexp"
	"strings"

	"goshortlink/sessions"

	"go.uber.org/zap"
)

// The owner id is opaque: the core never interprets its structure beyond
// this well-formedness check.
var ownerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

const bearerPrefix = "Bearer "

// Provider resolves the current request to an owner id, or reports that the
// caller is anonymous. Implementations must never fail a request: absent or
// unusable credentials simply mean anonymous.
type Provider interface {
	OwnerID(r *http.Request) (string, bool)
}

// NewTokenProvider builds a Provider that reads a bearer token from the
// Authorization header and looks it up in the session store.
func NewTokenProvider(store sessions.Engine, logger *zap.Logger) Provider {
	return &tokenProvider{store: store, log: logger}
}

type tokenProvider struct {
	store sessions.Engine
	log   *zap.Logger
}

func (p *tokenProvider) OwnerID(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", false
	}

	ownerID, found, err := p.store.Get(token)
	if err != nil {
		p.log.Error("session lookup failed", zap.Error(err))
		return "", false
	}
	if !found || !ownerIDPattern.MatchString(ownerID) {
		return "", false
	}
	return ownerID, true
}

// Package sessions stores bearer-token -> owner-id mappings with a TTL.
//
// The authentication flow that issues tokens lives outside this service;
// the engines here only look tokens up (and let tests install them).
package sessions

import (
	"errors"
	"time"
)

var ErrUnexpectedError = errors.New("unexpected session store error")

type Engine interface {
	// Get returns the owner id bound to token, if any.
	Get(token string) (ownerID string, found bool, err error)
	Set(token, ownerID string, ttl time.Duration) error
	Delete(token string) error
}

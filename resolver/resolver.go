// Package resolver turns an inbound short key into a redirect target.
package resolver

import (
	"context"
	"errors"
	"time"

	"goshortlink/models"
	"goshortlink/repository"
	"goshortlink/shortkey"
	"goshortlink/urlcheck"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Resolver struct {
	db    repository.Repository
	log   *zap.Logger
	group singleflight.Group
}

func New(db repository.Repository, logger *zap.Logger) *Resolver {
	return &Resolver{db: db, log: logger}
}

// Resolve maps a raw inbound key to its redirect target. ok is false when
// the key cannot be honored for any reason (malformed, unknown, expired, or
// the stored URL no longer validates) and the caller should redirect to the
// service home instead — the fallback intentionally looks the same in every
// case so outsiders cannot probe which keys exist.
//
// Resolve is read-only: expiry is evaluated here, never enforced by
// deletion. Concurrent lookups for the same key are collapsed into one
// store read; nothing is cached beyond the in-flight call.
func (r *Resolver) Resolve(ctx context.Context, rawKey string) (target string, ok bool) {
	key := shortkey.Normalize(rawKey)
	if shortkey.Validate(key) != nil {
		return "", false
	}

	result, err, _ := r.group.Do(key, func() (interface{}, error) {
		return r.db.FindByKey(ctx, key)
	})
	if err != nil {
		if !errors.Is(err, repository.ErrRecordNotFound) {
			r.log.Error("lookup failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	link := result.(*models.Link)

	if link.Expired(time.Now()) {
		return "", false
	}
	if urlcheck.Validate(link.OriginalURL) != nil {
		// corrupted or legacy data; degrade to the fallback
		r.log.Warn("stored url failed validation", zap.String("key", key))
		return "", false
	}
	return link.OriginalURL, true
}

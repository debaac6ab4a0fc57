package repository

import (
	"context"
	"errors"
	"time"

	"goshortlink/models"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrKeyExists      = errors.New("short key exists")
)

const (
	MaxPageSize     = 50
	DefaultPageSize = 10
)

// Repository is the sole authority over persisted link records. All
// implementations must enforce short-key uniqueness in the storage layer
// itself, so that concurrent Create calls for the same key race on the
// store's constraint rather than on an application-level check.
type Repository interface {
	// Create inserts a new link. A key collision yields ErrKeyExists and
	// never overwrites the existing record.
	Create(ctx context.Context, key, originalURL string, ownerID *string, expiresAt *time.Time) (*models.Link, error)

	// FindByKey returns the link for a normalized key, or ErrRecordNotFound.
	// Expiry is not evaluated here; callers decide what expired means.
	FindByKey(ctx context.Context, key string) (*models.Link, error)

	// ListByOwner returns one page of the owner's links, newest first, and
	// the total page count. pageSize is clamped to [1, MaxPageSize], page
	// to >= 0.
	ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]models.Link, int, error)

	// DeleteByKeyForOwner hard-deletes the link only when its owner matches.
	// It returns false both when the key does not exist and when it belongs
	// to someone else, so callers cannot probe for existence.
	DeleteByKeyForOwner(ctx context.Context, key, ownerID string) (bool, error)

	// ReassignOwnerBulk sets the owner on every link whose key is in keys
	// and whose owner is currently NULL, in a single conditional update,
	// and returns the number of rows changed. The NULL predicate is the
	// concurrency guard: racing claims resolve to exactly one winner.
	ReassignOwnerBulk(ctx context.Context, keys []string, ownerID string) (int64, error)

	// DeleteExpired hard-deletes links whose expiry is before now. Used by
	// the cleaner job only, never by the resolution path.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

func clampPaging(page, pageSize int) (int, int) {
	if page < 0 {
		page = 0
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func totalPages(count int64, pageSize int) int {
	pages := int((count + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		pages = 1
	}
	return pages
}

package models

import (
	"time"
)

// Link is a persisted short-key record.
//
// ShortKey and OriginalURL are immutable after creation. OwnerID is nil for
// anonymous links and may transition to a non-nil value exactly once, via the
// claim bulk update. A nil ExpiresAt means the link never expires.
type Link struct {
	ShortKey    string     `gorm:"primaryKey" json:"shortKey"`
	OriginalURL string     `gorm:"not null" json:"originalUrl"`
	OwnerID     *string    `gorm:"index" json:"ownerId,omitempty"`
	ExpiresAt   *time.Time `gorm:"index" json:"expiresAt,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
}

// Expired reports whether the link has an expiry in the past relative to now.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

package link

import (
	"time"

	"github.com/google/uuid"
)

// Code is a lookup key for a link: either its short code or its custom
// alias. The two are interchangeable for resolution.
type Code string

// DefaultTTL is applied when a link is created without an explicit expiry.
const DefaultTTL = 30 * 24 * time.Hour

// Link is a shortened URL record.
type Link struct {
	ID           uuid.UUID
	ShortCode    string
	CustomAlias  *string
	OriginalURL  string
	OwnerID      *uuid.UUID
	CreatedAt    time.Time
	ExpiresAt    *time.Time
	AccessCount  int64
	LastAccessed *time.Time
}

// Expired reports whether the link is past its expiry at the given instant.
// Links without an expiry never expire.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

// OwnedBy reports whether the link belongs to the given principal.
// Anonymous links belong to nobody.
func (l *Link) OwnedBy(principal uuid.UUID) bool {
	return l.OwnerID != nil && *l.OwnerID == principal
}

// Keys returns every lookup key that resolves to this link. A cache entry
// may exist under any of them, so invalidation must cover them all.
func (l *Link) Keys() []Code {
	keys := []Code{Code(l.ShortCode)}
	if l.CustomAlias != nil && *l.CustomAlias != l.ShortCode {
		keys = append(keys, Code(*l.CustomAlias))
	}

	return keys
}

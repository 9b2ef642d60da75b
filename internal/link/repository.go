package link

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistent store for links.
type Repository interface {
	// FindByKey matches either the short code or the custom alias,
	// case-sensitively, and returns at most one link. Returns ErrNotFound
	// when no link exists under the key.
	FindByKey(ctx context.Context, key Code) (*Link, error)

	// Insert persists a new link, assigning its ID. Returns ErrDuplicateKey
	// when the short code or alias collides with an existing key.
	Insert(ctx context.Context, l *Link) error

	// Update persists the link's mutable fields (URL and access stats).
	Update(ctx context.Context, l *Link) error

	// Delete removes the link. Deleting an already-absent link is an error.
	Delete(ctx context.Context, l *Link) error

	// FindByOriginalURL returns all links pointing at the exact URL.
	FindByOriginalURL(ctx context.Context, originalURL string) ([]*Link, error)

	// FindExpired returns all links whose expiry is strictly before now.
	FindExpired(ctx context.Context, now time.Time) ([]*Link, error)

	// FindByOwner returns all links owned by the given user.
	FindByOwner(ctx context.Context, owner uuid.UUID) ([]*Link, error)
}

// Cache is the fast code -> URL lookup layer in front of the repository.
// Implementations are best-effort: callers treat every error as a miss and
// never let a cache failure break resolution.
type Cache interface {
	// Get returns the cached URL for the key, or ErrNotFound on a miss.
	Get(ctx context.Context, key Code) (string, error)

	// Set stores the URL under the key. A zero ttl means no expiry.
	Set(ctx context.Context, key Code, url string, ttl time.Duration) error

	// Delete removes the entry. Deleting an absent key is not an error.
	Delete(ctx context.Context, key Code) error
}

package analytics

import "context"

// Store persists link lifecycle events as an audit trail. The links table
// itself stays authoritative for access counters; this trail is additive.
type Store interface {
	SaveLinkCreated(ctx context.Context, event *LinkCreatedEvent) error
	SaveLinkAccessed(ctx context.Context, event *LinkAccessedEvent) error
}

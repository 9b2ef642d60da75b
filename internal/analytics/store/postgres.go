package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortlink/internal/analytics"
)

// Postgres persists link events into the link_events audit table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new Postgres-backed analytics store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) SaveLinkCreated(ctx context.Context, event *analytics.LinkCreatedEvent) error {
	query := `
		INSERT INTO link_events (id, event_type, code, occurred_at, client_ip, user_agent, referrer)
		VALUES ($1, 'created', $2, $3, $4, $5, NULL)
	`

	_, err := p.pool.Exec(ctx, query,
		uuid.NewString(),
		event.Code,
		event.CreatedAt,
		event.ClientIP,
		event.UserAgent,
	)

	return err
}

func (p *Postgres) SaveLinkAccessed(ctx context.Context, event *analytics.LinkAccessedEvent) error {
	query := `
		INSERT INTO link_events (id, event_type, code, occurred_at, client_ip, user_agent, referrer)
		VALUES ($1, 'accessed', $2, $3, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		uuid.NewString(),
		event.Code,
		event.AccessedAt,
		event.ClientIP,
		event.UserAgent,
		event.Referrer,
	)

	return err
}

// Compile-time check.
var _ analytics.Store = (*Postgres)(nil)

package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		hashed_password TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS links (
		id UUID PRIMARY KEY,
		short_code TEXT NOT NULL UNIQUE,
		custom_alias TEXT UNIQUE,
		original_url TEXT NOT NULL,
		owner_id UUID REFERENCES users (id),
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ,
		access_count BIGINT NOT NULL DEFAULT 0,
		last_accessed TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS links_original_url_idx ON links (original_url)`,
	`CREATE INDEX IF NOT EXISTS links_expires_at_idx ON links (expires_at) WHERE expires_at IS NOT NULL`,
	`CREATE TABLE IF NOT EXISTS link_events (
		id UUID PRIMARY KEY,
		event_type TEXT NOT NULL,
		code TEXT NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL,
		client_ip TEXT,
		user_agent TEXT,
		referrer TEXT
	)`,
}

// Migrate creates the schema when it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	return nil
}

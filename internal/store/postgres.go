package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortlink/internal/link"
)

const linkColumns = `id, short_code, custom_alias, original_url, owner_id, created_at, expires_at, access_count, last_accessed`

// PostgresLinks is a PostgreSQL implementation of link.Repository. The
// unique index on short_code is the final arbiter for key uniqueness:
// aliased links store the alias in short_code as well, so the one column
// covers the whole key namespace.
type PostgresLinks struct {
	pool *pgxpool.Pool
}

// NewPostgresLinks creates a new PostgreSQL-backed link repository.
func NewPostgresLinks(pool *pgxpool.Pool) *PostgresLinks {
	return &PostgresLinks{pool: pool}
}

func (p *PostgresLinks) FindByKey(ctx context.Context, key link.Code) (*link.Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE short_code = $1 OR custom_alias = $1
	`

	return scanLink(p.pool.QueryRow(ctx, query, string(key)))
}

func (p *PostgresLinks) Insert(ctx context.Context, l *link.Link) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}

	query := `
		INSERT INTO links (` + linkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := p.pool.Exec(ctx, query,
		l.ID.String(),
		l.ShortCode,
		l.CustomAlias,
		l.OriginalURL,
		ownerString(l.OwnerID),
		l.CreatedAt,
		l.ExpiresAt,
		l.AccessCount,
		l.LastAccessed,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return link.ErrDuplicateKey
		}

		return err
	}

	return nil
}

func (p *PostgresLinks) Update(ctx context.Context, l *link.Link) error {
	query := `
		UPDATE links
		SET original_url = $2, access_count = $3, last_accessed = $4
		WHERE id = $1
	`

	tag, err := p.pool.Exec(ctx, query,
		l.ID.String(),
		l.OriginalURL,
		l.AccessCount,
		l.LastAccessed,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return link.ErrNotFound
	}

	return nil
}

func (p *PostgresLinks) Delete(ctx context.Context, l *link.Link) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM links WHERE id = $1`, l.ID.String())
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return link.ErrNotFound
	}

	return nil
}

func (p *PostgresLinks) FindByOriginalURL(ctx context.Context, originalURL string) ([]*link.Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE original_url = $1
		ORDER BY created_at
	`

	rows, err := p.pool.Query(ctx, query, originalURL)
	if err != nil {
		return nil, err
	}

	return collectLinks(rows)
}

func (p *PostgresLinks) FindExpired(ctx context.Context, now time.Time) ([]*link.Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE expires_at IS NOT NULL AND expires_at < $1
		ORDER BY expires_at
	`

	rows, err := p.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}

	return collectLinks(rows)
}

func (p *PostgresLinks) FindByOwner(ctx context.Context, owner uuid.UUID) ([]*link.Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE owner_id = $1
		ORDER BY created_at
	`

	rows, err := p.pool.Query(ctx, query, owner.String())
	if err != nil {
		return nil, err
	}

	return collectLinks(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (*link.Link, error) {
	var (
		l       link.Link
		id      string
		ownerID *string
	)

	err := row.Scan(
		&id,
		&l.ShortCode,
		&l.CustomAlias,
		&l.OriginalURL,
		&ownerID,
		&l.CreatedAt,
		&l.ExpiresAt,
		&l.AccessCount,
		&l.LastAccessed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, link.ErrNotFound
		}

		return nil, err
	}

	l.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse link id: %w", err)
	}

	if ownerID != nil {
		owner, err := uuid.Parse(*ownerID)
		if err != nil {
			return nil, fmt.Errorf("parse owner id: %w", err)
		}

		l.OwnerID = &owner
	}

	return &l, nil
}

func collectLinks(rows pgx.Rows) ([]*link.Link, error) {
	defer rows.Close()

	var links []*link.Link

	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}

		links = append(links, l)
	}

	return links, rows.Err()
}

func ownerString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}

	s := id.String()

	return &s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Compile-time check.
var _ link.Repository = (*PostgresLinks)(nil)

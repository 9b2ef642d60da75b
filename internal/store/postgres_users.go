package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortlink/internal/auth"
)

// PostgresUsers is a PostgreSQL implementation of auth.Repository.
type PostgresUsers struct {
	pool *pgxpool.Pool
}

// NewPostgresUsers creates a new PostgreSQL-backed user repository.
func NewPostgresUsers(pool *pgxpool.Pool) *PostgresUsers {
	return &PostgresUsers{pool: pool}
}

func (p *PostgresUsers) CreateUser(ctx context.Context, u *auth.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	query := `
		INSERT INTO users (id, email, hashed_password, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := p.pool.Exec(ctx, query, u.ID.String(), u.Email, u.HashedPassword, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.ErrEmailTaken
		}

		return err
	}

	return nil
}

func (p *PostgresUsers) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `
		SELECT id, email, hashed_password, created_at
		FROM users
		WHERE email = $1
	`

	return scanUser(p.pool.QueryRow(ctx, query, email))
}

func (p *PostgresUsers) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	query := `
		SELECT id, email, hashed_password, created_at
		FROM users
		WHERE id = $1
	`

	return scanUser(p.pool.QueryRow(ctx, query, id.String()))
}

func scanUser(row rowScanner) (*auth.User, error) {
	var (
		u  auth.User
		id string
	)

	err := row.Scan(&id, &u.Email, &u.HashedPassword, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}

		return nil, err
	}

	u.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}

	return &u, nil
}

// Compile-time check.
var _ auth.Repository = (*PostgresUsers)(nil)

// Package db provides storage for saved internships, backed by PostgreSQL or SQLite.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/internship-assistant/internal/types"
)

var (
	// ErrDuplicate is returned when an internship with the same link, or the same
	// title and company, is already saved for the user.
	ErrDuplicate = errors.New("duplicate")
	// ErrNotFound is returned when a record does not exist or belongs to another user.
	ErrNotFound = errors.New("not found")
)

// InternshipStore is the saved-internship storage shared by the Postgres and SQLite backends.
type InternshipStore interface {
	InternshipExists(ctx context.Context, userID uuid.UUID, link, title, company string) (bool, error)
	InsertInternship(ctx context.Context, in *types.Internship) error
	GetInternship(ctx context.Context, userID, id uuid.UUID) (*types.Internship, error)
	ListInternships(ctx context.Context, userID uuid.UUID) ([]types.Internship, error)
	UpdateInternshipStatus(ctx context.Context, userID, id uuid.UUID, status string) (bool, error)
	DeleteInternship(ctx context.Context, userID, id uuid.UUID) (bool, error)
	InternshipLinks(ctx context.Context, userID uuid.UUID) (types.Set[string], error)
	Close()
}

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Open connects to the configured backend. driver is "postgres" or "sqlite";
// for sqlite, dsn is a file path.
func Open(ctx context.Context, driver, dsn string) (InternshipStore, error) {
	switch driver {
	case "postgres", "":
		db, err := Connect(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "sqlite":
		lite, err := OpenLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return lite, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

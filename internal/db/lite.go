package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the sqlite driver

	"github.com/jonathan/internship-assistant/internal/types"
)

// liteSchema mirrors the PostgreSQL migration in SQLite's dialect.
const liteSchema = `
CREATE TABLE IF NOT EXISTS internships (
    id                     TEXT PRIMARY KEY,
    user_id                TEXT NOT NULL,
    job_title              TEXT NOT NULL,
    company_name           TEXT NOT NULL DEFAULT '',
    application_link       TEXT NOT NULL DEFAULT '',
    job_description        TEXT NOT NULL DEFAULT '',
    source_site            TEXT NOT NULL DEFAULT '',
    status                 TEXT NOT NULL DEFAULT 'new' CHECK (status IN ('new', 'applied', 'rejected')),
    compatibility_score    REAL NOT NULL DEFAULT 0,
    acceptance_probability REAL NOT NULL DEFAULT 0,
    created_at             TIMESTAMP NOT NULL,
    updated_at             TIMESTAMP NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS internships_user_link_key
    ON internships (user_id, application_link) WHERE application_link <> '';
CREATE UNIQUE INDEX IF NOT EXISTS internships_user_title_company_key
    ON internships (user_id, job_title, company_name);
CREATE INDEX IF NOT EXISTS internships_user_created_idx
    ON internships (user_id, created_at DESC);
`

// LiteStore keeps saved internships in a local SQLite file.
type LiteStore struct {
	db *sqlx.DB
	// now is swapped in tests for deterministic ordering.
	now func() time.Time
}

// OpenLite opens (creating if needed) the SQLite database at path and ensures the schema exists.
func OpenLite(ctx context.Context, path string) (*LiteStore, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, liteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	return &LiteStore{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *LiteStore) Close() {
	_ = s.db.Close()
}

// InternshipExists reports whether the user already saved this link or this title and company.
func (s *LiteStore) InternshipExists(ctx context.Context, userID uuid.UUID, link, title, company string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (
			SELECT 1 FROM internships
			WHERE user_id = ?
			  AND ((application_link <> '' AND application_link = ?)
			       OR (job_title = ? AND company_name = ?))
		)`,
		userID, strings.TrimSpace(link), title, company,
	)
	if err != nil {
		return false, fmt.Errorf("failed to check internship: %w", err)
	}
	return exists, nil
}

// InsertInternship saves in and fills its ID and timestamps, or returns ErrDuplicate.
func (s *LiteStore) InsertInternship(ctx context.Context, in *types.Internship) error {
	if in.Status == "" {
		in.Status = types.StatusNew
	}
	status, err := types.ParseStatus(string(in.Status))
	if err != nil {
		return err
	}

	row := *in
	row.ID = uuid.New()
	row.Status = status
	row.ApplicationLink = strings.TrimSpace(row.ApplicationLink)
	row.CreatedAt = s.now().UTC()
	row.UpdatedAt = row.CreatedAt

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO internships (id, user_id, job_title, company_name, application_link,
		    job_description, source_site, status, compatibility_score, acceptance_probability,
		    created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.UserID, row.JobTitle, row.CompanyName, row.ApplicationLink,
		row.Description, row.SourceSite, string(row.Status), row.CompatibilityScore, row.AcceptanceProbability,
		row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert internship: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to insert internship: %w", err)
	}
	if n == 0 {
		return ErrDuplicate
	}
	*in = row
	return nil
}

// GetInternship retrieves one of the user's internships, or nil if absent.
func (s *LiteStore) GetInternship(ctx context.Context, userID, id uuid.UUID) (*types.Internship, error) {
	var in types.Internship
	err := s.db.GetContext(ctx, &in,
		`SELECT `+internshipColumns+` FROM internships WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get internship: %w", err)
	}
	return &in, nil
}

// ListInternships returns the user's internships, new first, newest first within a status.
func (s *LiteStore) ListInternships(ctx context.Context, userID uuid.UUID) ([]types.Internship, error) {
	list := []types.Internship{}
	err := s.db.SelectContext(ctx, &list,
		`SELECT `+internshipColumns+` FROM internships WHERE user_id = ? `+listOrder,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list internships: %w", err)
	}
	return list, nil
}

// UpdateInternshipStatus changes the status of one of the user's internships.
func (s *LiteStore) UpdateInternshipStatus(ctx context.Context, userID, id uuid.UUID, status string) (bool, error) {
	st, err := types.ParseStatus(status)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE internships SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		string(st), s.now().UTC(), id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update internship status: %w", err)
	}
	return affected(res)
}

// DeleteInternship removes one of the user's internships.
func (s *LiteStore) DeleteInternship(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM internships WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete internship: %w", err)
	}
	return affected(res)
}

// InternshipLinks returns the user's stored application links.
func (s *LiteStore) InternshipLinks(ctx context.Context, userID uuid.UUID) (types.Set[string], error) {
	var links []string
	err := s.db.SelectContext(ctx, &links,
		`SELECT application_link FROM internships WHERE user_id = ? AND application_link <> ''`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list internship links: %w", err)
	}
	return types.NewSet(links...), nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

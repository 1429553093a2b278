package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/internship-assistant/internal/types"
)

// -----------------------------------------------------------------------------
// Saved Internship Methods
// -----------------------------------------------------------------------------

const internshipColumns = `id, user_id, job_title, company_name, application_link, job_description,
	source_site, status, compatibility_score, acceptance_probability, created_at, updated_at`

// listOrder puts new before applied before rejected, newest first within a status.
const listOrder = `ORDER BY CASE status WHEN 'new' THEN 0 WHEN 'applied' THEN 1 ELSE 2 END, created_at DESC`

// InternshipExists reports whether the user already saved this link or this title and company.
// An empty link only matches on title and company.
func (db *DB) InternshipExists(ctx context.Context, userID uuid.UUID, link, title, company string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM internships
			WHERE user_id = $1
			  AND ((application_link <> '' AND application_link = $2)
			       OR (job_title = $3 AND company_name = $4))
		)`,
		userID, strings.TrimSpace(link), title, company,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check internship: %w", err)
	}
	return exists, nil
}

// InsertInternship saves in and fills its ID and timestamps. It returns ErrDuplicate,
// without writing, when the user already has the link or the title and company.
func (db *DB) InsertInternship(ctx context.Context, in *types.Internship) error {
	if in.Status == "" {
		in.Status = types.StatusNew
	}
	status, err := types.ParseStatus(string(in.Status))
	if err != nil {
		return err
	}
	in.Status = status
	in.ApplicationLink = strings.TrimSpace(in.ApplicationLink)

	err = db.pool.QueryRow(ctx,
		`INSERT INTO internships (user_id, job_title, company_name, application_link, job_description,
		                          source_site, status, compatibility_score, acceptance_probability)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT DO NOTHING
		 RETURNING id, created_at, updated_at`,
		in.UserID, in.JobTitle, in.CompanyName, in.ApplicationLink, in.Description,
		in.SourceSite, in.Status, in.CompatibilityScore, in.AcceptanceProbability,
	).Scan(&in.ID, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert internship: %w", err)
	}
	return nil
}

// GetInternship retrieves one of the user's internships, or nil if absent.
func (db *DB) GetInternship(ctx context.Context, userID, id uuid.UUID) (*types.Internship, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+internshipColumns+` FROM internships WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get internship: %w", err)
	}
	in, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[types.Internship])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get internship: %w", err)
	}
	return &in, nil
}

// ListInternships returns the user's internships, new first, newest first within a status.
func (db *DB) ListInternships(ctx context.Context, userID uuid.UUID) ([]types.Internship, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+internshipColumns+` FROM internships WHERE user_id = $1 `+listOrder,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list internships: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[types.Internship])
	if err != nil {
		return nil, fmt.Errorf("failed to list internships: %w", err)
	}
	return list, nil
}

// UpdateInternshipStatus changes the status of one of the user's internships.
// An unknown status fails with types.ErrInvalidStatus before the database is touched.
// It returns false when no such internship exists for the user.
func (db *DB) UpdateInternshipStatus(ctx context.Context, userID, id uuid.UUID, status string) (bool, error) {
	st, err := types.ParseStatus(status)
	if err != nil {
		return false, err
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE internships SET status = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`,
		st, id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update internship status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteInternship removes one of the user's internships. It returns false when nothing was deleted.
func (db *DB) DeleteInternship(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM internships WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete internship: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// InternshipLinks returns the user's stored application links.
func (db *DB) InternshipLinks(ctx context.Context, userID uuid.UUID) (types.Set[string], error) {
	rows, err := db.pool.Query(ctx,
		`SELECT application_link FROM internships WHERE user_id = $1 AND application_link <> ''`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list internship links: %w", err)
	}
	links, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to list internship links: %w", err)
	}
	return types.NewSet(links...), nil
}

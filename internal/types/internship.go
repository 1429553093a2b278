package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrInvalidStatus is returned when a status outside new/applied/rejected is used.
var ErrInvalidStatus = errors.New("invalid internship status")

// Status is the user's progress on a saved internship.
type Status string

// Internship statuses.
const (
	StatusNew      Status = "new"
	StatusApplied  Status = "applied"
	StatusRejected Status = "rejected"
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusNew, StatusApplied, StatusRejected:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q (must be one of new, applied, rejected)", ErrInvalidStatus, s)
	}
}

// Priority orders statuses for listing: new first, then applied, then rejected.
func (s Status) Priority() int {
	switch s {
	case StatusNew:
		return 0
	case StatusApplied:
		return 1
	case StatusRejected:
		return 2
	default:
		return 3
	}
}

// Internship is a posting saved for a user.
type Internship struct {
	ID                    uuid.UUID `json:"id" db:"id"`
	UserID                uuid.UUID `json:"user_id" db:"user_id"`
	JobTitle              string    `json:"job_title" db:"job_title"`
	CompanyName           string    `json:"company_name" db:"company_name"`
	ApplicationLink       string    `json:"application_link" db:"application_link"`
	Description           string    `json:"job_description,omitempty" db:"job_description"`
	SourceSite            string    `json:"source_site,omitempty" db:"source_site"`
	Status                Status    `json:"status" db:"status"`
	CompatibilityScore    float64   `json:"compatibility_score" db:"compatibility_score"`
	AcceptanceProbability float64   `json:"acceptance_probability" db:"acceptance_probability"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`
}

// InternshipFromScored builds a new-status Internship from a scored posting.
func InternshipFromScored(userID uuid.UUID, sp ScoredPosting) Internship {
	return Internship{
		UserID:                userID,
		JobTitle:              sp.Posting.Title,
		CompanyName:           sp.Posting.Company,
		ApplicationLink:       sp.Posting.ApplicationLink,
		Description:           sp.Posting.Description,
		SourceSite:            sp.Posting.SourceSite,
		Status:                StatusNew,
		CompatibilityScore:    sp.Compatibility.OverallCompatibility,
		AcceptanceProbability: sp.Acceptance.AcceptanceProbability,
	}
}

// UpdateStatusRequest is the body of a status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new applied rejected"`
}

// Validate validates the UpdateStatusRequest using the validator.
func (r *UpdateStatusRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}
	return nil
}

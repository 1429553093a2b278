package types

import "github.com/go-playground/validator/v10"

// RawPosting is a job posting as returned by a posting source.
type RawPosting struct {
	Title           string `json:"title"`
	Company         string `json:"company"`
	ApplicationLink string `json:"application_link"`
	Description     string `json:"description"`
	SourceSite      string `json:"source_site"`
}

// SearchSpec is one query sent to a posting source. An empty Location means a global search.
type SearchSpec struct {
	Query    string `json:"query_text" validate:"required,max=200"`
	Location string `json:"location,omitempty" validate:"max=100"`
	Reason   string `json:"reason,omitempty"`
}

// Validate validates the SearchSpec using the validator.
func (s *SearchSpec) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

// MatchCategory is a coarse bucket of overall compatibility.
type MatchCategory string

// Match categories.
const (
	HighMatch   MatchCategory = "High Match"
	MediumMatch MatchCategory = "Medium Match"
	LowMatch    MatchCategory = "Low Match"
)

// ScoredPosting is a posting run through the full analysis pipeline.
type ScoredPosting struct {
	Posting                RawPosting            `json:"posting"`
	Query                  string                `json:"query"`
	Requirements           JobRequirementProfile `json:"requirements"`
	Compatibility          CompatibilityScore    `json:"compatibility"`
	Acceptance             AcceptanceEstimate    `json:"acceptance"`
	CompetitionLevel       CompetitionLevel      `json:"competition_level"`
	MatchCategory          MatchCategory         `json:"match_category"`
	RecommendationPriority float64               `json:"recommendation_priority"`
}

// SearchSummary aggregates a full scored result set.
type SearchSummary struct {
	TotalFound                   int             `json:"total_found"`
	HighMatchCount               int             `json:"high_match_count"`
	MediumMatchCount             int             `json:"medium_match_count"`
	LowMatchCount                int             `json:"low_match_count"`
	AverageCompatibility         float64         `json:"average_compatibility"`
	AverageAcceptanceProbability float64         `json:"average_acceptance_probability"`
	TopRecommendations           []ScoredPosting `json:"top_recommendations"`
}

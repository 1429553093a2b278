package types

// CompatibilityScore is the three-factor fit between one resume and one job.
type CompatibilityScore struct {
	TechnicalSkillsScore float64   `json:"technical_skills_score"`
	ExperienceLevelScore float64   `json:"experience_level_score"`
	EducationScore       float64   `json:"education_score"`
	OverallCompatibility float64   `json:"overall_compatibility"`
	DetailedBreakdown    Breakdown `json:"detailed_breakdown"`
}

// Breakdown explains each factor of a CompatibilityScore.
type Breakdown struct {
	TechnicalSkills TechnicalFactor  `json:"technical_skills"`
	ExperienceLevel ExperienceFactor `json:"experience_level"`
	Education       EducationFactor  `json:"education"`
}

// TechnicalFactor is the technical-skills component of a breakdown.
type TechnicalFactor struct {
	Score   float64          `json:"score"`
	Weight  string           `json:"weight"`
	Details TechnicalDetails `json:"details"`
}

// TechnicalDetails lists the skill and category comparisons behind the technical score.
type TechnicalDetails struct {
	MatchingRequiredSkills  []string   `json:"matching_required_skills"`
	MissingRequiredSkills   []string   `json:"missing_required_skills"`
	MatchingPreferredSkills []string   `json:"matching_preferred_skills"`
	ResumeCategories        []Category `json:"your_technical_categories"`
	JobCategories           []Category `json:"job_technical_categories"`
}

// ExperienceFactor is the experience component of a breakdown.
type ExperienceFactor struct {
	Score   float64           `json:"score"`
	Weight  string            `json:"weight"`
	Details ExperienceDetails `json:"details"`
}

// ExperienceDetails compares resume and job seniority.
type ExperienceDetails struct {
	ResumeLevel      ExperienceLevel `json:"your_experience_level"`
	ResumeYears      float64         `json:"your_years_experience"`
	RequiredLevel    ExperienceLevel `json:"required_experience_level"`
	MinYearsRequired int             `json:"min_years_required"`
	RelevantProjects int             `json:"relevant_projects"`
}

// EducationFactor is the education component of a breakdown.
type EducationFactor struct {
	Score   float64          `json:"score"`
	Weight  string           `json:"weight"`
	Details EducationDetails `json:"details"`
}

// EducationDetails compares resume and job education.
// RequiredEducation is "Not specified" when the job has no education requirement.
type EducationDetails struct {
	ResumeLevel         EducationLevel `json:"your_education_level"`
	RequiredEducation   string         `json:"required_education"`
	EducationRequired   bool           `json:"education_required"`
	CertificationsCount int            `json:"certifications_count"`
	Languages           []string       `json:"languages"`
}

// CompetitionLevel estimates how contested a posting is.
type CompetitionLevel string

// Competition levels.
const (
	CompetitionLow    CompetitionLevel = "low"
	CompetitionMedium CompetitionLevel = "medium"
	CompetitionHigh   CompetitionLevel = "high"
)

// ApplicationTiming describes when the application is sent relative to the posting date.
type ApplicationTiming string

// Application timings.
const (
	TimingEarly  ApplicationTiming = "early"
	TimingNormal ApplicationTiming = "normal"
	TimingLate   ApplicationTiming = "late"
)

// MarketContext carries the modifiers applied on top of compatibility.
// Zero values mean medium competition and normal timing.
type MarketContext struct {
	CompetitionLevel  CompetitionLevel  `json:"competition_level,omitempty" validate:"omitempty,oneof=low medium high"`
	ApplicationTiming ApplicationTiming `json:"application_timing,omitempty" validate:"omitempty,oneof=early normal late"`
}

// AcceptanceEstimate is the estimated chance of passing initial screening.
type AcceptanceEstimate struct {
	AcceptanceProbability  float64          `json:"acceptance_probability"`
	ConfidenceLevel        float64          `json:"confidence_level"`
	ProbabilityRange       ProbabilityRange `json:"probability_range"`
	FormulaBreakdown       FormulaBreakdown `json:"formula_breakdown"`
	ImprovementSuggestions []string         `json:"improvement_suggestions"`
}

// ProbabilityRange is the confidence band around an acceptance probability.
type ProbabilityRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// FormulaBreakdown is a human-readable trace of the estimate.
type FormulaBreakdown struct {
	BaseCompatibility     string `json:"base_compatibility"`
	CompetitionAdjustment string `json:"competition_adjustment"`
	TimingAdjustment      string `json:"timing_adjustment"`
	FinalCalculation      string `json:"final_calculation"`
}

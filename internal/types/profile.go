package types

// Category is a technology family used to tag skills on both sides of a match.
type Category string

// Technology categories in table order.
const (
	CategoryProgrammingLanguages Category = "programming_languages"
	CategoryWebFrameworks        Category = "web_frameworks"
	CategoryDatabases            Category = "databases"
	CategoryCloudPlatforms       Category = "cloud_platforms"
	CategoryDataScience          Category = "data_science"
	CategoryDevOps               Category = "devops"
	CategoryBlockchain           Category = "blockchain"
	CategoryAIML                 Category = "ai_ml"
)

// ExperienceLevel is a coarse seniority bucket.
type ExperienceLevel string

// Experience levels, from least to most senior.
const (
	EntryLevel  ExperienceLevel = "entry_level"
	MidLevel    ExperienceLevel = "mid_level"
	SeniorLevel ExperienceLevel = "senior_level"
)

// Ordinal maps the level to 0 (entry), 1 (mid) or 2 (senior).
// Unknown values are treated as entry level.
func (l ExperienceLevel) Ordinal() int {
	switch l {
	case MidLevel:
		return 1
	case SeniorLevel:
		return 2
	default:
		return 0
	}
}

// EducationLevel is the highest academic level detected or required.
type EducationLevel string

// Education levels, from lowest to highest.
const (
	EducationNone EducationLevel = "none"
	HighSchool    EducationLevel = "high_school"
	Bachelor      EducationLevel = "bachelor"
	Master        EducationLevel = "master"
	PhD           EducationLevel = "phd"
)

// Ordinal maps high_school..phd to 0..3. EducationNone and unknown values return -1.
func (l EducationLevel) Ordinal() int {
	switch l {
	case HighSchool:
		return 0
	case Bachelor:
		return 1
	case Master:
		return 2
	case PhD:
		return 3
	default:
		return -1
	}
}

// ResumeProfile is the normalized feature set derived from a ResumeRecord.
type ResumeProfile struct {
	Skills               Set[string]     `json:"skills"`
	TechnicalCategories  Set[Category]   `json:"technical_categories"`
	ProgrammingLanguages Set[string]     `json:"programming_languages"`
	ExperienceLevel      ExperienceLevel `json:"experience_level"`
	YearsExperience      float64         `json:"years_experience"`
	EducationLevel       EducationLevel  `json:"education_level"`
	HasDegree            bool            `json:"has_degree"`
	RelevantProjects     int             `json:"relevant_projects"`
	CertificationsCount  int             `json:"certifications_count"`
	Languages            Set[string]     `json:"languages"`
}

// NewResumeProfile returns a profile with every field at its default.
func NewResumeProfile() ResumeProfile {
	return ResumeProfile{
		Skills:               NewSet[string](),
		TechnicalCategories:  NewSet[Category](),
		ProgrammingLanguages: NewSet[string](),
		ExperienceLevel:      EntryLevel,
		EducationLevel:       EducationNone,
		Languages:            NewSet[string](),
	}
}

// JobRequirementProfile is the normalized requirement set derived from a job title and description.
type JobRequirementProfile struct {
	RequiredSkills      Set[string]     `json:"required_skills"`
	PreferredSkills     Set[string]     `json:"preferred_skills"`
	MinYearsExperience  int             `json:"min_years_experience"`
	EducationRequired   bool            `json:"education_required"`
	DegreeLevel         EducationLevel  `json:"degree_level"`
	ExperienceLevel     ExperienceLevel `json:"experience_level"`
	TechnicalCategories Set[Category]   `json:"technical_categories"`
	IsRemote            bool            `json:"is_remote"`
}

// NewJobRequirementProfile returns a profile with every field at its default.
func NewJobRequirementProfile() JobRequirementProfile {
	return JobRequirementProfile{
		RequiredSkills:      NewSet[string](),
		PreferredSkills:     NewSet[string](),
		DegreeLevel:         Bachelor,
		ExperienceLevel:     EntryLevel,
		TechnicalCategories: NewSet[Category](),
	}
}

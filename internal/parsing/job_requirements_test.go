package parsing

import (
	"strings"
	"testing"

	"github.com/jonathan/internship-assistant/internal/types"
	"github.com/stretchr/testify/assert"
)

// pad separates sentences by more than the cue window so their cues do not leak.
var pad = strings.Repeat(" lorem", 30) + " "

func TestExtractJobRequirements_EmptyDescription(t *testing.T) {
	profile := ExtractJobRequirements("   ", "Senior Staff Engineer")

	assert.Equal(t, types.NewJobRequirementProfile(), profile)
	assert.Equal(t, types.EntryLevel, profile.ExperienceLevel)
	assert.False(t, profile.EducationRequired)
}

func TestExtractJobRequirements_FullPosting(t *testing.T) {
	description := "Python is required for this role." + pad +
		"Familiarity with React is a plus." + pad +
		"We expect 2 years of experience and a bachelor's degree." + pad +
		"This position is remote."

	profile := ExtractJobRequirements(description, "Software Engineering Intern")

	// "r" is first found inside "required"
	assert.Equal(t, []string{"python", "r"}, profile.RequiredSkills.Sorted())
	assert.Equal(t, []string{"react"}, profile.PreferredSkills.Sorted())
	assert.Equal(t, []types.Category{
		types.CategoryProgrammingLanguages,
		types.CategoryWebFrameworks,
	}, profile.TechnicalCategories.Sorted())
	assert.Equal(t, 2, profile.MinYearsExperience)
	assert.True(t, profile.EducationRequired)
	assert.Equal(t, types.Bachelor, profile.DegreeLevel)
	assert.Equal(t, types.EntryLevel, profile.ExperienceLevel)
	assert.True(t, profile.IsRemote)
}

func TestExtractJobRequirements_NoCueDefaultsToPreferred(t *testing.T) {
	profile := ExtractJobRequirements("You will work with Docker and Kubernetes.", "Intern")

	assert.Zero(t, profile.RequiredSkills.Len())
	assert.Equal(t, []string{"docker", "kubernetes", "r"}, profile.PreferredSkills.Sorted())
	assert.True(t, profile.TechnicalCategories.Has(types.CategoryCloudPlatforms))
}

func TestExtractJobRequirements_ExperienceLevel(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        types.ExperienceLevel
	}{
		{"senior title", "Senior Backend Engineer", "Build services in Go.", types.SeniorLevel},
		{"lead title", "Tech Lead", "Build services in Go.", types.SeniorLevel},
		{"mid title", "Intermediate Developer", "Build services in Go.", types.MidLevel},
		{"senior beats mid", "Senior Intermediate Developer", "Build services.", types.SeniorLevel},
		{"senior only in description", "Developer", "Work with senior engineers.", types.EntryLevel},
		{"intern", "Summer Internship", "Build services.", types.EntryLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJobRequirements(tt.description, tt.title).ExperienceLevel)
		})
	}
}

func TestExtractJobRequirements_Education(t *testing.T) {
	tests := []struct {
		name         string
		description  string
		wantRequired bool
		wantLevel    types.EducationLevel
	}{
		{"no education", "Build dashboards with pandas.", false, types.Bachelor},
		{"bachelor", "A bachelor's degree is expected.", true, types.Bachelor},
		{"master", "MS in a related field.", true, types.Master},
		{"phd", "PhD candidates welcome.", true, types.PhD},
		{"master checked before phd", "Master's or PhD.", true, types.Master},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := ExtractJobRequirements(tt.description, "Intern")
			assert.Equal(t, tt.wantRequired, profile.EducationRequired)
			assert.Equal(t, tt.wantLevel, profile.DegreeLevel)
		})
	}
}

func TestExtractJobRequirements_Years(t *testing.T) {
	tests := []struct {
		description string
		want        int
	}{
		{"3+ years of experience with Java", 3},
		{"2-3 years experience", 3},
		{"5 years exp in backend", 5},
		{"no experience needed", 0},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJobRequirements(tt.description, "Intern").MinYearsExperience)
		})
	}
}

func TestExtractJobRequirements_SubstringMatching(t *testing.T) {
	profile := ExtractJobRequirements("Strong Golang skills are required.", "Intern")

	assert.Equal(t, []string{"go", "r"}, profile.RequiredSkills.Sorted())
	assert.Zero(t, profile.PreferredSkills.Len())
	assert.Equal(t, []types.Category{types.CategoryProgrammingLanguages}, profile.TechnicalCategories.Sorted())
}

func TestExtractJobRequirements_SpaceStrippedMatchHasNoCueContext(t *testing.T) {
	profile := ExtractJobRequirements("PowerBI experience is required.", "Intern")

	assert.True(t, profile.PreferredSkills.Has("power bi"))
	assert.False(t, profile.RequiredSkills.Has("power bi"))
	assert.True(t, profile.TechnicalCategories.Has(types.CategoryDataScience))
}

package search

import (
	"github.com/jonathan/internship-assistant/internal/types"
)

// MaxGeneratedQueries bounds GenerateQueries output.
const MaxGeneratedQueries = 5

const (
	maxLanguageQueries = 3
	minUsefulQueries   = 3
)

var categoryQueries = []struct {
	category types.Category
	query    string
}{
	{types.CategoryWebFrameworks, "web development intern"},
	{types.CategoryDataScience, "data science intern"},
	{types.CategoryCloudPlatforms, "cloud engineer intern"},
	{types.CategoryDatabases, "database developer intern"},
}

var levelQueries = map[types.ExperienceLevel][]string{
	types.EntryLevel:  {"software engineer intern", "junior developer intern"},
	types.MidLevel:    {"software engineer intern", "development intern"},
	types.SeniorLevel: {"senior software intern", "lead developer intern"},
}

var educationQueries = map[types.EducationLevel]string{
	types.Bachelor: "computer science intern",
	types.Master:   "graduate software intern",
	types.PhD:      "research intern",
}

var fallbackQueries = []string{"software intern", "technology intern", "computer science intern"}

// GenerateQueries derives up to MaxGeneratedQueries distinct search specs from a resume profile.
// A profile with no usable signal yields a single broad search.
func GenerateQueries(profile types.ResumeProfile) []types.SearchSpec {
	var specs []types.SearchSpec
	seen := make(map[string]bool)
	add := func(query, reason string) {
		if seen[query] {
			return
		}
		seen[query] = true
		specs = append(specs, types.SearchSpec{Query: query, Reason: reason})
	}

	langs := 0
	for _, lang := range profile.ProgrammingLanguages.Sorted() {
		if len(lang) <= 2 {
			continue
		}
		add(lang+" developer intern", "Based on your "+lang+" skills")
		langs++
		if langs == maxLanguageQueries {
			break
		}
	}

	for _, cq := range categoryQueries {
		if profile.TechnicalCategories.Has(cq.category) {
			add(cq.query, "Matches your "+string(cq.category)+" experience")
		}
	}

	eduQuery, hasEducation := educationQueries[profile.EducationLevel]
	level := levelOrEntry(profile.ExperienceLevel)
	if len(specs) == 0 && !hasEducation && level == types.EntryLevel {
		return []types.SearchSpec{{Query: "software intern", Reason: "Default broad search"}}
	}

	for _, q := range levelQueries[level] {
		add(q, "Suited to your experience level")
	}
	if hasEducation {
		add(eduQuery, "Matches your education")
	}

	for _, q := range fallbackQueries {
		if len(specs) >= minUsefulQueries {
			break
		}
		add(q, "General internship search")
	}

	if len(specs) > MaxGeneratedQueries {
		specs = specs[:MaxGeneratedQueries]
	}
	return specs
}

func levelOrEntry(l types.ExperienceLevel) types.ExperienceLevel {
	if _, ok := levelQueries[l]; ok {
		return l
	}
	return types.EntryLevel
}

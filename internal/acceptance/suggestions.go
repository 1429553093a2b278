package acceptance

import (
	"strings"

	"github.com/jonathan/internship-assistant/internal/types"
)

const strongProfileSuggestion = "Your profile looks strong! Consider applying early to improve chances."

// suggestions lists up to maxSuggestions improvements, ordered technical, experience, education.
func suggestions(compat types.CompatibilityScore) []string {
	var out []string
	b := compat.DetailedBreakdown

	if b.TechnicalSkills.Score < suggestionThreshold {
		details := b.TechnicalSkills.Details
		if missing := details.MissingRequiredSkills; len(missing) > 0 {
			out = append(out, "Learn these required skills: "+strings.Join(firstN(missing, maxNamedMissingSkill), ", "))
		}
		if len(details.MatchingPreferredSkills) == 0 && len(details.JobCategories) > 0 {
			names := make([]string, 0, maxNamedCategories)
			for _, c := range firstN(details.JobCategories, maxNamedCategories) {
				names = append(names, strings.ReplaceAll(string(c), "_", " "))
			}
			out = append(out, "Consider learning skills in: "+strings.Join(names, ", "))
		}
	}

	if b.ExperienceLevel.Score < suggestionThreshold {
		if b.ExperienceLevel.Details.RelevantProjects < 2 {
			out = append(out, "Build 2-3 relevant projects to demonstrate skills")
		}
		out = append(out, "Consider internships or freelance work to gain experience")
	}

	if b.Education.Score < suggestionThreshold {
		details := b.Education.Details
		if details.EducationRequired && details.ResumeLevel.Ordinal() < types.Bachelor.Ordinal() {
			out = append(out, "Consider pursuing a relevant degree or certifications")
		}
	}

	if len(out) == 0 {
		return []string{strongProfileSuggestion}
	}
	return firstN(out, maxSuggestions)
}

func firstN[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

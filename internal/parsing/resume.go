package parsing

import (
	"strings"

	"github.com/jonathan/internship-assistant/internal/skills"
	"github.com/jonathan/internship-assistant/internal/types"
)

// midLevelYears is the amount of experience that moves a resume from entry to mid level.
// Senior level is never assigned from years alone.
const midLevelYears = 3.0

// AnalyzeResume converts a resume record into a ResumeProfile. It never fails:
// missing sections leave the corresponding fields at their defaults.
func AnalyzeResume(record types.ResumeRecord) types.ResumeProfile {
	profile := types.NewResumeProfile()
	table := skills.Categories()

	var devopsMatches []string
	for _, raw := range record.Skills {
		skill := NormalizeSkill(raw)
		if skill == "" {
			continue
		}
		profile.Skills.Add(skill)

		for _, row := range table {
			keyword, ok := firstKeyword(row.Keywords, skill)
			if !ok {
				continue
			}
			switch row.Category {
			case types.CategoryDevOps:
				devopsMatches = append(devopsMatches, keyword)
			case types.CategoryProgrammingLanguages:
				profile.TechnicalCategories.Add(row.Category)
				profile.ProgrammingLanguages.Add(keyword)
			default:
				profile.TechnicalCategories.Add(row.Category)
			}
		}
	}
	if skills.PromoteDevOps(devopsMatches) {
		profile.TechnicalCategories.Add(types.CategoryDevOps)
	}

	for _, lang := range record.Languages {
		if l := strings.ToLower(strings.TrimSpace(lang)); l != "" {
			profile.Languages.Add(l)
		}
	}

	profile.EducationLevel = highestEducation(record.Education)
	profile.HasDegree = profile.EducationLevel.Ordinal() >= types.Bachelor.Ordinal()

	if len(record.ProfessionalExperience) > 0 {
		totalMonths := 0
		for _, exp := range record.ProfessionalExperience {
			totalMonths += durationMonths(exp.Duration)
		}
		profile.YearsExperience = float64(totalMonths) / 12.0
	}
	if profile.YearsExperience >= midLevelYears {
		profile.ExperienceLevel = types.MidLevel
	}

	profile.RelevantProjects = len(record.Projects)
	profile.CertificationsCount = len(record.Certifications)

	return profile
}

// firstKeyword returns the first keyword, in table order, found in skill. Only one keyword per
// category is taken from a skill, so "python/sql" yields the language python and not also sql.
func firstKeyword(keywords []string, skill string) (string, bool) {
	for _, keyword := range keywords {
		if skills.Contains(skill, keyword) {
			return keyword, true
		}
	}
	return "", false
}

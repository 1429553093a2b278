// Package ranking scores resume-to-job compatibility and orders scored postings.
package ranking

import (
	"math"

	"github.com/jonathan/internship-assistant/internal/types"
)

// Factor weights for the overall compatibility score.
const (
	technicalWeight  = 0.40
	experienceWeight = 0.35
	educationWeight  = 0.25
)

// Technical scoring constants.
const (
	noListedSkillsScore = 85.0
	requiredShare       = 0.7
	preferredShare      = 0.3
	languageBonus       = 10.0
)

// Experience scoring constants.
const (
	overqualifiedForEntryScore = 85.0
	overqualifiedScore         = 95.0
	oneLevelBelowScore         = 70.0
	farBelowScore              = 40.0
)

// Score combines a resume profile and a job requirement profile into a CompatibilityScore.
// It is a pure, total function: empty sets are valid input.
func Score(resume types.ResumeProfile, job types.JobRequirementProfile) types.CompatibilityScore {
	technical := round1(technicalScore(resume, job))
	experience := round1(experienceScore(resume, job))
	education := round1(educationScore(resume, job))

	overall := round1(technical*technicalWeight + experience*experienceWeight + education*educationWeight)

	return types.CompatibilityScore{
		TechnicalSkillsScore: technical,
		ExperienceLevelScore: experience,
		EducationScore:       education,
		OverallCompatibility: overall,
		DetailedBreakdown: types.Breakdown{
			TechnicalSkills: types.TechnicalFactor{
				Score:   technical,
				Weight:  weightLabel(technicalWeight),
				Details: technicalDetails(resume, job),
			},
			ExperienceLevel: types.ExperienceFactor{
				Score:   experience,
				Weight:  weightLabel(experienceWeight),
				Details: experienceDetails(resume, job),
			},
			Education: types.EducationFactor{
				Score:   education,
				Weight:  weightLabel(educationWeight),
				Details: educationDetails(resume, job),
			},
		},
	}
}

// technicalScore blends required and preferred skill coverage 70/30.
// A job that lists no skills gets the benefit of the doubt.
func technicalScore(resume types.ResumeProfile, job types.JobRequirementProfile) float64 {
	if job.RequiredSkills.Len() == 0 && job.PreferredSkills.Len() == 0 {
		return noListedSkillsScore
	}

	score := coverage(resume.Skills, job.RequiredSkills)*requiredShare +
		coverage(resume.Skills, job.PreferredSkills)*preferredShare

	if resume.ProgrammingLanguages.Len() > 0 && job.TechnicalCategories.Has(types.CategoryProgrammingLanguages) {
		score = math.Min(100, score+languageBonus)
	}
	return score
}

// coverage is the percentage of wanted found in have; an empty wanted set is fully covered.
func coverage(have, wanted types.Set[string]) float64 {
	if wanted.Len() == 0 {
		return 100
	}
	return 100 * float64(len(have.Intersect(wanted))) / float64(wanted.Len())
}

func experienceScore(resume types.ResumeProfile, job types.JobRequirementProfile) float64 {
	have := resume.ExperienceLevel.Ordinal()
	want := job.ExperienceLevel.Ordinal()

	switch {
	case have == want:
		return 100
	case have > want:
		if want == types.EntryLevel.Ordinal() {
			return overqualifiedForEntryScore
		}
		return overqualifiedScore
	case want-have == 1:
		return oneLevelBelowScore
	default:
		return farBelowScore
	}
}

func technicalDetails(resume types.ResumeProfile, job types.JobRequirementProfile) types.TechnicalDetails {
	return types.TechnicalDetails{
		MatchingRequiredSkills:  resume.Skills.Intersect(job.RequiredSkills),
		MissingRequiredSkills:   job.RequiredSkills.Difference(resume.Skills),
		MatchingPreferredSkills: resume.Skills.Intersect(job.PreferredSkills),
		ResumeCategories:        resume.TechnicalCategories.Sorted(),
		JobCategories:           job.TechnicalCategories.Sorted(),
	}
}

func experienceDetails(resume types.ResumeProfile, job types.JobRequirementProfile) types.ExperienceDetails {
	return types.ExperienceDetails{
		ResumeLevel:      resume.ExperienceLevel,
		ResumeYears:      round1(resume.YearsExperience),
		RequiredLevel:    job.ExperienceLevel,
		MinYearsRequired: job.MinYearsExperience,
		RelevantProjects: resume.RelevantProjects,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func weightLabel(w float64) string {
	return formatPercent(w * 100)
}

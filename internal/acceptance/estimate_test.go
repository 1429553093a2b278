package acceptance

import (
	"testing"

	"github.com/jonathan/internship-assistant/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compat(overall float64) types.CompatibilityScore {
	s := types.CompatibilityScore{
		TechnicalSkillsScore: overall,
		ExperienceLevelScore: overall,
		EducationScore:       overall,
		OverallCompatibility: overall,
	}
	s.DetailedBreakdown.TechnicalSkills.Score = overall
	s.DetailedBreakdown.ExperienceLevel.Score = overall
	s.DetailedBreakdown.Education.Score = overall
	return s
}

var (
	competitions = []types.CompetitionLevel{types.CompetitionLow, types.CompetitionMedium, types.CompetitionHigh}
	timings      = []types.ApplicationTiming{types.TimingEarly, types.TimingNormal, types.TimingLate}
)

func TestEstimate_HighCompetitionScenario(t *testing.T) {
	est := Estimate(compat(90), types.MarketContext{
		CompetitionLevel:  types.CompetitionHigh,
		ApplicationTiming: types.TimingNormal,
	})

	assert.Equal(t, 42.8, est.AcceptanceProbability)
	assert.Equal(t, 12.0, est.ConfidenceLevel)
	assert.Equal(t, 30.8, est.ProbabilityRange.Low)
	assert.Equal(t, 54.8, est.ProbabilityRange.High)
	assert.Equal(t, types.FormulaBreakdown{
		BaseCompatibility:     "90.0%",
		CompetitionAdjustment: "×0.80",
		TimingAdjustment:      "×1.00",
		FinalCalculation:      "50.4% → 42.8%",
	}, est.FormulaBreakdown)
}

func TestEstimate_DefaultsToMediumNormal(t *testing.T) {
	explicit := Estimate(compat(70), types.MarketContext{
		CompetitionLevel:  types.CompetitionMedium,
		ApplicationTiming: types.TimingNormal,
	})

	assert.Equal(t, explicit, Estimate(compat(70), types.MarketContext{}))
	assert.Equal(t, explicit, Estimate(compat(70), types.MarketContext{CompetitionLevel: "unknown"}))
}

func TestDampen(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{0, 0},
		{50, 42.5},
		{70, 63},
		{80, 76},
		{89.84, 85.348},
		{89.9, 85.405},
		{90, 85},
		{96.6, 85},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, dampen(tt.raw), 1e-9, "raw=%v", tt.raw)
	}
}

func TestDampen_Ceiling(t *testing.T) {
	for raw := 0.0; raw <= 120; raw += 0.01 {
		require.Less(t, dampen(raw), maxProbability, "raw=%v", raw)
		if raw >= 90 {
			require.Equal(t, probabilityCap, dampen(raw), "raw=%v", raw)
		}
	}
}

func TestEstimate_JustBelowTopTier(t *testing.T) {
	est := Estimate(compat(93), types.MarketContext{
		CompetitionLevel:  types.CompetitionLow,
		ApplicationTiming: types.TimingEarly,
	})

	assert.Equal(t, 85.3, est.AcceptanceProbability)
}

func TestEstimate_MonotonicInCompetition(t *testing.T) {
	for overall := 0.0; overall <= 100; overall += 5 {
		for _, timing := range timings {
			prev := 101.0
			for _, level := range competitions {
				p := Estimate(compat(overall), types.MarketContext{CompetitionLevel: level, ApplicationTiming: timing}).AcceptanceProbability
				assert.LessOrEqual(t, p, prev, "overall=%v timing=%s level=%s", overall, timing, level)
				prev = p
			}
		}
	}
}

func TestEstimate_MonotonicInTiming(t *testing.T) {
	for overall := 0.0; overall <= 100; overall += 5 {
		for _, level := range competitions {
			prev := 101.0
			for _, timing := range timings {
				p := Estimate(compat(overall), types.MarketContext{CompetitionLevel: level, ApplicationTiming: timing}).AcceptanceProbability
				assert.LessOrEqual(t, p, prev, "overall=%v level=%s timing=%s", overall, level, timing)
				prev = p
			}
		}
	}
}

func TestEstimate_BoundsAndRange(t *testing.T) {
	for overall := 0.0; overall <= 100; overall += 2.5 {
		for _, level := range competitions {
			for _, timing := range timings {
				est := Estimate(compat(overall), types.MarketContext{CompetitionLevel: level, ApplicationTiming: timing})

				assert.GreaterOrEqual(t, est.AcceptanceProbability, 0.0)
				assert.Less(t, est.AcceptanceProbability, maxProbability)
				assert.GreaterOrEqual(t, est.ConfidenceLevel, minConfidence)
				assert.LessOrEqual(t, est.ConfidenceLevel, maxConfidence)
				assert.GreaterOrEqual(t, est.ProbabilityRange.Low, 0.0)
				assert.LessOrEqual(t, est.ProbabilityRange.High, 100.0)
				assert.LessOrEqual(t, est.ProbabilityRange.Low, est.AcceptanceProbability)
				assert.GreaterOrEqual(t, est.ProbabilityRange.High, est.AcceptanceProbability)
				assert.LessOrEqual(t, len(est.ImprovementSuggestions), maxSuggestions)
				assert.NotEmpty(t, est.ImprovementSuggestions)
			}
		}
	}
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		overall float64
		want    float64
	}{
		{100, 12},
		{80, 12},
		{79.9, 15},
		{41, 15},
		{40, 20},
		{0, 20},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, confidenceFor(tt.overall), "overall=%v", tt.overall)
	}
}

func TestEstimate_ZeroCompatibilityRange(t *testing.T) {
	est := Estimate(compat(0), types.MarketContext{})

	assert.Equal(t, 0.0, est.AcceptanceProbability)
	assert.Equal(t, 0.0, est.ProbabilityRange.Low)
	assert.Equal(t, 20.0, est.ProbabilityRange.High)
}

func TestSuggestions(t *testing.T) {
	t.Run("strong profile", func(t *testing.T) {
		assert.Equal(t, []string{strongProfileSuggestion}, suggestions(compat(90)))
	})

	t.Run("missing required skills named up to three", func(t *testing.T) {
		c := compat(90)
		c.DetailedBreakdown.TechnicalSkills.Score = 30
		c.DetailedBreakdown.TechnicalSkills.Details.MissingRequiredSkills = []string{"docker", "go", "kubernetes", "rust"}
		c.DetailedBreakdown.TechnicalSkills.Details.MatchingPreferredSkills = []string{"aws"}

		assert.Equal(t, []string{"Learn these required skills: docker, go, kubernetes"}, suggestions(c))
	})

	t.Run("categories when no preferred skill matches", func(t *testing.T) {
		c := compat(90)
		c.DetailedBreakdown.TechnicalSkills.Score = 50
		c.DetailedBreakdown.TechnicalSkills.Details.JobCategories = []types.Category{
			types.CategoryCloudPlatforms, types.CategoryDevOps, types.CategoryWebFrameworks,
		}

		assert.Equal(t, []string{"Consider learning skills in: cloud platforms, devops"}, suggestions(c))
	})

	t.Run("experience with few projects", func(t *testing.T) {
		c := compat(90)
		c.DetailedBreakdown.ExperienceLevel.Score = 40
		c.DetailedBreakdown.ExperienceLevel.Details.RelevantProjects = 1

		assert.Equal(t, []string{
			"Build 2-3 relevant projects to demonstrate skills",
			"Consider internships or freelance work to gain experience",
		}, suggestions(c))
	})

	t.Run("experience with enough projects", func(t *testing.T) {
		c := compat(90)
		c.DetailedBreakdown.ExperienceLevel.Score = 40
		c.DetailedBreakdown.ExperienceLevel.Details.RelevantProjects = 3

		assert.Equal(t, []string{"Consider internships or freelance work to gain experience"}, suggestions(c))
	})

	t.Run("education required without degree", func(t *testing.T) {
		c := compat(90)
		c.DetailedBreakdown.Education.Score = 30
		c.DetailedBreakdown.Education.Details.EducationRequired = true
		c.DetailedBreakdown.Education.Details.ResumeLevel = types.HighSchool

		assert.Equal(t, []string{"Consider pursuing a relevant degree or certifications"}, suggestions(c))
	})

	t.Run("capped at four", func(t *testing.T) {
		c := compat(10)
		c.DetailedBreakdown.TechnicalSkills.Details.MissingRequiredSkills = []string{"go"}
		c.DetailedBreakdown.TechnicalSkills.Details.JobCategories = []types.Category{types.CategoryDevOps}
		c.DetailedBreakdown.Education.Details.EducationRequired = true
		c.DetailedBreakdown.Education.Details.ResumeLevel = types.EducationNone

		got := suggestions(c)
		require.Len(t, got, maxSuggestions)
		assert.Equal(t, "Learn these required skills: go", got[0])
		assert.Equal(t, "Consider internships or freelance work to gain experience", got[3])
	})
}

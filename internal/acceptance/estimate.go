// Package acceptance turns a compatibility score and market context into an acceptance estimate.
package acceptance

import (
	"fmt"
	"math"

	"github.com/jonathan/internship-assistant/internal/types"
)

// compatibilityWeight is the share of compatibility carried into the raw probability.
const compatibilityWeight = 0.70

// probabilityCap caps the top dampening tier. The 80 to 90 tier scales by 0.95 without a cap,
// so maxProbability, just under 90*0.95, is the true ceiling.
const (
	probabilityCap = 85.0
	maxProbability = 85.5
)

// Confidence band constants.
const (
	baseConfidence       = 15.0
	strongProfileDelta   = 3.0
	weakProfileDelta     = 5.0
	strongProfileScore   = 80.0
	weakProfileScore     = 40.0
	minConfidence        = 5.0
	maxConfidence        = 25.0
	suggestionThreshold  = 70.0
	maxSuggestions       = 4
	maxNamedMissingSkill = 3
	maxNamedCategories   = 2
)

var competitionMultipliers = map[types.CompetitionLevel]float64{
	types.CompetitionLow:    1.2,
	types.CompetitionMedium: 1.0,
	types.CompetitionHigh:   0.8,
}

var timingMultipliers = map[types.ApplicationTiming]float64{
	types.TimingEarly:  1.15,
	types.TimingNormal: 1.0,
	types.TimingLate:   0.9,
}

// Estimate computes the acceptance probability for a compatibility score.
// Unset or unknown market values count as medium competition and normal timing.
func Estimate(compat types.CompatibilityScore, market types.MarketContext) types.AcceptanceEstimate {
	competition := multiplier(competitionMultipliers, market.CompetitionLevel)
	timing := multiplier(timingMultipliers, market.ApplicationTiming)

	base := compat.OverallCompatibility
	raw := base * compatibilityWeight * competition * timing
	final := dampen(raw)
	confidence := confidenceFor(base)

	return types.AcceptanceEstimate{
		AcceptanceProbability: round1(final),
		ConfidenceLevel:       confidence,
		ProbabilityRange: types.ProbabilityRange{
			Low:  math.Max(0, round1(final-confidence)),
			High: math.Min(100, round1(final+confidence)),
		},
		FormulaBreakdown: types.FormulaBreakdown{
			BaseCompatibility:     fmt.Sprintf("%.1f%%", base),
			CompetitionAdjustment: fmt.Sprintf("×%.2f", competition),
			TimingAdjustment:      fmt.Sprintf("×%.2f", timing),
			FinalCalculation:      fmt.Sprintf("%.1f%% → %.1f%%", raw, final),
		},
		ImprovementSuggestions: suggestions(compat),
	}
}

// dampen scales the raw product down by tier. Only raw values of 90 and above are capped.
func dampen(raw float64) float64 {
	switch {
	case raw >= 90:
		return math.Min(probabilityCap, raw)
	case raw >= 80:
		return raw * 0.95
	case raw >= 70:
		return raw * 0.90
	default:
		return math.Max(0, raw*0.85)
	}
}

func confidenceFor(overall float64) float64 {
	c := baseConfidence
	switch {
	case overall >= strongProfileScore:
		c -= strongProfileDelta
	case overall <= weakProfileScore:
		c += weakProfileDelta
	}
	return round1(math.Max(minConfidence, math.Min(maxConfidence, c)))
}

func multiplier[K comparable](table map[K]float64, key K) float64 {
	if m, ok := table[key]; ok {
		return m
	}
	return 1.0
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

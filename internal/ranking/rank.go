package ranking

import (
	"fmt"
	"sort"

	"github.com/jonathan/internship-assistant/internal/types"
)

// Match category thresholds on overall compatibility.
const (
	highMatchThreshold   = 80.0
	mediumMatchThreshold = 60.0
)

// Recommendation priority blend.
const (
	priorityCompatibilityWeight = 0.6
	priorityAcceptanceWeight    = 0.4
)

// DefaultTopRecommendations is how many leading results a summary lists.
const DefaultTopRecommendations = 5

// Categorize buckets an overall compatibility score.
func Categorize(overall float64) types.MatchCategory {
	switch {
	case overall >= highMatchThreshold:
		return types.HighMatch
	case overall >= mediumMatchThreshold:
		return types.MediumMatch
	default:
		return types.LowMatch
	}
}

// RecommendationPriority blends compatibility and acceptance probability 60/40.
func RecommendationPriority(overall, acceptance float64) float64 {
	return round1(overall*priorityCompatibilityWeight + acceptance*priorityAcceptanceWeight)
}

// Rank sorts results by recommendation priority, highest first.
// The sort is stable: equal priorities keep their incoming order.
func Rank(results []types.ScoredPosting) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RecommendationPriority > results[j].RecommendationPriority
	})
}

// Summarize aggregates the full result set. Results are expected to be ranked already;
// the first top entries become the top recommendations.
func Summarize(results []types.ScoredPosting, top int) types.SearchSummary {
	summary := types.SearchSummary{
		TotalFound:         len(results),
		TopRecommendations: []types.ScoredPosting{},
	}
	if len(results) == 0 {
		return summary
	}

	var compatibilitySum, acceptanceSum float64
	for _, r := range results {
		switch r.MatchCategory {
		case types.HighMatch:
			summary.HighMatchCount++
		case types.MediumMatch:
			summary.MediumMatchCount++
		default:
			summary.LowMatchCount++
		}
		compatibilitySum += r.Compatibility.OverallCompatibility
		acceptanceSum += r.Acceptance.AcceptanceProbability
	}

	n := float64(len(results))
	summary.AverageCompatibility = round1(compatibilitySum / n)
	summary.AverageAcceptanceProbability = round1(acceptanceSum / n)

	if top > len(results) {
		top = len(results)
	}
	if top > 0 {
		summary.TopRecommendations = append(summary.TopRecommendations, results[:top]...)
	}
	return summary
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

package ranking

import (
	"testing"

	"github.com/jonathan/internship-assistant/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		overall float64
		want    types.MatchCategory
	}{
		{100, types.HighMatch},
		{80, types.HighMatch},
		{79.9, types.MediumMatch},
		{60, types.MediumMatch},
		{59.9, types.LowMatch},
		{0, types.LowMatch},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.overall), "overall=%v", tt.overall)
	}
}

func TestRecommendationPriority(t *testing.T) {
	assert.InDelta(t, 70.0, RecommendationPriority(80, 55), 1e-9)
	assert.InDelta(t, 0.0, RecommendationPriority(0, 0), 1e-9)
}

func scored(title string, priority, overall, acceptance float64) types.ScoredPosting {
	return types.ScoredPosting{
		Posting:                types.RawPosting{Title: title},
		Compatibility:          types.CompatibilityScore{OverallCompatibility: overall},
		Acceptance:             types.AcceptanceEstimate{AcceptanceProbability: acceptance},
		MatchCategory:          Categorize(overall),
		RecommendationPriority: priority,
	}
}

func TestRank_StableDescending(t *testing.T) {
	results := []types.ScoredPosting{
		scored("a", 50, 0, 0),
		scored("b", 70, 0, 0),
		scored("c", 50, 0, 0),
		scored("d", 90, 0, 0),
		scored("e", 70, 0, 0),
	}

	Rank(results)

	titles := make([]string, len(results))
	for i, r := range results {
		titles[i] = r.Posting.Title
	}
	assert.Equal(t, []string{"d", "b", "e", "a", "c"}, titles)
}

func TestSummarize(t *testing.T) {
	results := []types.ScoredPosting{
		scored("a", 80, 90, 60),
		scored("b", 60, 70, 40),
		scored("c", 40, 50, 20),
		scored("d", 30, 40, 10),
	}

	summary := Summarize(results, 2)

	assert.Equal(t, 4, summary.TotalFound)
	assert.Equal(t, 1, summary.HighMatchCount)
	assert.Equal(t, 1, summary.MediumMatchCount)
	assert.Equal(t, 2, summary.LowMatchCount)
	assert.InDelta(t, 62.5, summary.AverageCompatibility, 1e-9)
	assert.InDelta(t, 32.5, summary.AverageAcceptanceProbability, 1e-9)
	require.Len(t, summary.TopRecommendations, 2)
	assert.Equal(t, "a", summary.TopRecommendations[0].Posting.Title)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil, DefaultTopRecommendations)

	assert.Zero(t, summary.TotalFound)
	assert.Zero(t, summary.AverageCompatibility)
	assert.Empty(t, summary.TopRecommendations)
}

func TestSummarize_TopLargerThanResults(t *testing.T) {
	summary := Summarize([]types.ScoredPosting{scored("a", 1, 1, 1)}, DefaultTopRecommendations)

	assert.Len(t, summary.TopRecommendations, 1)
}

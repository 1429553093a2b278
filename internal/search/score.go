package search

import (
	"strings"

	"github.com/jonathan/internship-assistant/internal/acceptance"
	"github.com/jonathan/internship-assistant/internal/parsing"
	"github.com/jonathan/internship-assistant/internal/ranking"
	"github.com/jonathan/internship-assistant/internal/types"
)

var highCompetitionIndicators = []string{
	"google", "apple", "microsoft", "amazon", "meta", "netflix", "tesla",
	"senior", "lead", "principal", "architect",
	"machine learning", "artificial intelligence", "ai",
}

var lowCompetitionIndicators = []string{
	"intern", "entry", "junior", "new grad", "trainee", "startup", "small company",
}

// EstimateCompetition guesses how contested a posting is from its title, company and description.
// Indicators are plain substrings; the side with more hits wins and a tie is medium.
func EstimateCompetition(p types.RawPosting) types.CompetitionLevel {
	text := strings.ToLower(p.Title + " " + p.Company + " " + p.Description)

	high := countHits(text, highCompetitionIndicators)
	low := countHits(text, lowCompetitionIndicators)
	switch {
	case high > low:
		return types.CompetitionHigh
	case low > high:
		return types.CompetitionLow
	default:
		return types.CompetitionMedium
	}
}

func countHits(text string, indicators []string) int {
	n := 0
	for _, ind := range indicators {
		if strings.Contains(text, ind) {
			n++
		}
	}
	return n
}

// ScorePosting runs one raw posting through extraction, scoring and estimation.
// Postings are assumed to be applied to at normal timing.
func ScorePosting(resume types.ResumeProfile, query string, p types.RawPosting) types.ScoredPosting {
	return ScorePostingInMarket(resume, query, p, types.MarketContext{})
}

// ScorePostingInMarket is ScorePosting with market overrides. An empty competition level
// is estimated from the posting and an empty timing means normal.
func ScorePostingInMarket(resume types.ResumeProfile, query string, p types.RawPosting, market types.MarketContext) types.ScoredPosting {
	if market.CompetitionLevel == "" {
		market.CompetitionLevel = EstimateCompetition(p)
	}
	if market.ApplicationTiming == "" {
		market.ApplicationTiming = types.TimingNormal
	}

	req := parsing.ExtractJobRequirements(p.Description, p.Title)
	compat := ranking.Score(resume, req)
	est := acceptance.Estimate(compat, market)

	return types.ScoredPosting{
		Posting:                p,
		Query:                  query,
		Requirements:           req,
		Compatibility:          compat,
		Acceptance:             est,
		CompetitionLevel:       market.CompetitionLevel,
		MatchCategory:          ranking.Categorize(compat.OverallCompatibility),
		RecommendationPriority: ranking.RecommendationPriority(compat.OverallCompatibility, est.AcceptanceProbability),
	}
}

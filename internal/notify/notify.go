// Package notify announces newly saved high-match internships.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/internship-assistant/internal/types"
)

// Match is the notification view of one scored posting.
type Match struct {
	Title                  string              `json:"title"`
	Company                string              `json:"company"`
	ApplicationLink        string              `json:"application_link"`
	SourceSite             string              `json:"source_site,omitempty"`
	MatchCategory          types.MatchCategory `json:"match_category"`
	Compatibility          float64             `json:"overall_compatibility"`
	AcceptanceProbability  float64             `json:"acceptance_probability"`
	RecommendationPriority float64             `json:"recommendation_priority"`
}

// Message is the payload published for one monitoring batch.
type Message struct {
	UserID  uuid.UUID `json:"user_id"`
	SentAt  time.Time `json:"sent_at"`
	Count   int       `json:"count"`
	Matches []Match   `json:"matches"`
}

// BuildMessage converts scored postings into a Message, preserving their order.
func BuildMessage(userID uuid.UUID, matches []types.ScoredPosting, now time.Time) Message {
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		out = append(out, Match{
			Title:                  m.Posting.Title,
			Company:                m.Posting.Company,
			ApplicationLink:        m.Posting.ApplicationLink,
			SourceSite:             m.Posting.SourceSite,
			MatchCategory:          m.MatchCategory,
			Compatibility:          m.Compatibility.OverallCompatibility,
			AcceptanceProbability:  m.Acceptance.AcceptanceProbability,
			RecommendationPriority: m.RecommendationPriority,
		})
	}
	return Message{UserID: userID, SentAt: now.UTC(), Count: len(out), Matches: out}
}

// LogNotifier writes notifications to the logger. It is used when no broker is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier returns a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// NotifyMatches logs one line per match.
func (n *LogNotifier) NotifyMatches(_ context.Context, userID uuid.UUID, matches []types.ScoredPosting) error {
	for _, m := range matches {
		n.logger.Info("new high match",
			zap.Stringer("user_id", userID),
			zap.String("title", m.Posting.Title),
			zap.String("company", m.Posting.Company),
			zap.String("link", m.Posting.ApplicationLink),
			zap.Float64("compatibility", m.Compatibility.OverallCompatibility),
			zap.Float64("acceptance_probability", m.Acceptance.AcceptanceProbability),
		)
	}
	return nil
}

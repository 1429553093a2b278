package fetch

import (
	"regexp"
	"strings"
)

// MaxQualityScore is the best possible DescriptionQuality score.
const MaxQualityScore = 11

var (
	requirementsMarker     = regexp.MustCompile(`\b(requirements?|qualifications?|skills?|experience)\b`)
	responsibilitiesMarker = regexp.MustCompile(`\b(responsibilities|duties|role|tasks)\b`)
	benefitsMarker         = regexp.MustCompile(`\b(benefits|compensation|salary|perks)\b`)
	companyMarker          = regexp.MustCompile(`\b(company|about us|our mission)\b`)
	truncationMarker       = regexp.MustCompile(`(\.\.\.|…|show more|voir plus)`)
)

// Quality summarizes how complete a scraped description looks.
type Quality struct {
	Length              int    `json:"length"`
	WordCount           int    `json:"word_count"`
	HasRequirements     bool   `json:"has_requirements"`
	HasResponsibilities bool   `json:"has_responsibilities"`
	HasBenefits         bool   `json:"has_benefits"`
	HasCompanyInfo      bool   `json:"has_company_info"`
	Truncated           bool   `json:"truncated"`
	Score               int    `json:"completeness_score"`
	Label               string `json:"label"`
}

// DescriptionQuality scores a description out of MaxQualityScore.
func DescriptionQuality(description string) Quality {
	lower := strings.Join(strings.Fields(strings.ToLower(description)), " ")
	q := Quality{
		Length:              len([]rune(description)),
		WordCount:           len(strings.Fields(description)),
		HasRequirements:     requirementsMarker.MatchString(lower),
		HasResponsibilities: responsibilitiesMarker.MatchString(lower),
		HasBenefits:         benefitsMarker.MatchString(lower),
		HasCompanyInfo:      companyMarker.MatchString(lower),
		Truncated:           truncationMarker.MatchString(lower),
	}

	switch {
	case q.Length > 2000:
		q.Score += 4
	case q.Length > 1500:
		q.Score += 3
	case q.Length > 1000:
		q.Score += 2
	case q.Length > 500:
		q.Score++
	}
	if q.HasRequirements {
		q.Score += 2
	}
	if q.HasResponsibilities {
		q.Score += 2
	}
	if q.HasBenefits {
		q.Score++
	}
	if q.HasCompanyInfo {
		q.Score++
	}
	if !q.Truncated {
		q.Score++
	}

	switch {
	case q.Score >= 8:
		q.Label = "complete"
	case q.Score >= 5:
		q.Label = "adequate"
	default:
		q.Label = "thin"
	}
	return q
}

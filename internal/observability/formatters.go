// Package observability provides boxed, human-readable reports for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/internship-assistant/internal/search"
	"github.com/jonathan/internship-assistant/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted report output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad fits s into exactly width runes, truncating with an ellipsis.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		return string([]rune(s)[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-n)
}

func list[T ~string](items []T, limit int) string {
	if len(items) == 0 {
		return "none"
	}
	parts := make([]string, 0, limit)
	for i, item := range items {
		if i == limit {
			break
		}
		parts = append(parts, string(item))
	}
	s := strings.Join(parts, ", ")
	if len(items) > limit {
		s += fmt.Sprintf(" (+%d more)", len(items)-limit)
	}
	return s
}

// PrintResumeProfile outputs the analyzed resume features.
func (p *Printer) PrintResumeProfile(profile types.ResumeProfile) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Experience:     %s (%.1f years)\n", profile.ExperienceLevel, profile.YearsExperience)
	fmt.Fprintf(&sb, "Education:      %s (degree: %t)\n", profile.EducationLevel, profile.HasDegree)
	fmt.Fprintf(&sb, "Projects:       %d relevant\n", profile.RelevantProjects)
	fmt.Fprintf(&sb, "Certifications: %d\n\n", profile.CertificationsCount)
	fmt.Fprintf(&sb, "Languages:  %s\n", list(profile.ProgrammingLanguages.Sorted(), maxItemsToShow))
	fmt.Fprintf(&sb, "Categories: %s\n", list(profile.TechnicalCategories.Sorted(), maxItemsToShow))
	fmt.Fprintf(&sb, "Skills:     %d detected", profile.Skills.Len())

	p.printBox("RESUME PROFILE", sb.String())
}

// PrintJobRequirements outputs the extracted job requirements.
func (p *Printer) PrintJobRequirements(req types.JobRequirementProfile) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Level:     %s (min %d years)\n", req.ExperienceLevel, req.MinYearsExperience)
	education := "not required"
	if req.EducationRequired {
		education = string(req.DegreeLevel)
	}
	fmt.Fprintf(&sb, "Education: %s\n", education)
	fmt.Fprintf(&sb, "Remote:    %t\n\n", req.IsRemote)
	fmt.Fprintf(&sb, "Required:   %s\n", list(req.RequiredSkills.Sorted(), maxItemsToShow))
	fmt.Fprintf(&sb, "Preferred:  %s\n", list(req.PreferredSkills.Sorted(), maxItemsToShow))
	fmt.Fprintf(&sb, "Categories: %s", list(req.TechnicalCategories.Sorted(), maxItemsToShow))

	p.printBox("JOB REQUIREMENTS", sb.String())
}

// PrintCompatibility outputs the three-factor score.
func (p *Printer) PrintCompatibility(score types.CompatibilityScore) {
	d := score.DetailedBreakdown
	var sb strings.Builder
	fmt.Fprintf(&sb, "Overall:    %5.1f\n\n", score.OverallCompatibility)
	fmt.Fprintf(&sb, "Technical:  %5.1f  (%s)\n", score.TechnicalSkillsScore, d.TechnicalSkills.Weight)
	fmt.Fprintf(&sb, "Experience: %5.1f  (%s)\n", score.ExperienceLevelScore, d.ExperienceLevel.Weight)
	fmt.Fprintf(&sb, "Education:  %5.1f  (%s)\n\n", score.EducationScore, d.Education.Weight)
	fmt.Fprintf(&sb, "Matched:  %s\n", list(d.TechnicalSkills.Details.MatchingRequiredSkills, maxItemsToShow))
	fmt.Fprintf(&sb, "Missing:  %s", list(d.TechnicalSkills.Details.MissingRequiredSkills, maxItemsToShow))

	p.printBox("COMPATIBILITY", sb.String())
}

// PrintEstimate outputs an acceptance estimate with its formula and suggestions.
func (p *Printer) PrintEstimate(est types.AcceptanceEstimate) {
	f := est.FormulaBreakdown
	var sb strings.Builder
	fmt.Fprintf(&sb, "Probability: %.1f%% (±%.0f, range %.1f-%.1f)\n\n",
		est.AcceptanceProbability, est.ConfidenceLevel, est.ProbabilityRange.Low, est.ProbabilityRange.High)
	fmt.Fprintf(&sb, "Base:        %s\n", f.BaseCompatibility)
	fmt.Fprintf(&sb, "Competition: %s\n", f.CompetitionAdjustment)
	fmt.Fprintf(&sb, "Timing:      %s\n", f.TimingAdjustment)
	fmt.Fprintf(&sb, "Final:       %s", f.FinalCalculation)
	if len(est.ImprovementSuggestions) > 0 {
		sb.WriteString("\n\nSuggestions:")
		for _, s := range est.ImprovementSuggestions {
			fmt.Fprintf(&sb, "\n  • %s", s)
		}
	}

	p.printBox("ACCEPTANCE ESTIMATE", sb.String())
}

// PrintSearchResult outputs a run summary, the top postings, query failures and the save report.
func (p *Printer) PrintSearchResult(result *search.Result) {
	if result == nil {
		return
	}
	s := result.Summary
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found: %d  (high %d, medium %d, low %d)\n",
		s.TotalFound, s.HighMatchCount, s.MediumMatchCount, s.LowMatchCount)
	fmt.Fprintf(&sb, "Avg compatibility: %.1f   Avg acceptance: %.1f%%\n",
		s.AverageCompatibility, s.AverageAcceptanceProbability)

	if len(s.TopRecommendations) > 0 {
		sb.WriteString("\n")
		for i, sp := range s.TopRecommendations {
			fmt.Fprintf(&sb, "#%d %s @ %s\n", i+1, sp.Posting.Title, sp.Posting.Company)
			fmt.Fprintf(&sb, "   %s  compat %.1f  accept %.1f%%  priority %.1f\n",
				sp.MatchCategory, sp.Compatibility.OverallCompatibility,
				sp.Acceptance.AcceptanceProbability, sp.RecommendationPriority)
		}
	}

	if len(result.Errors) > 0 {
		sb.WriteString("\nFailed queries:\n")
		for _, qe := range result.Errors {
			fmt.Fprintf(&sb, "  • %s: %s\n", qe.Query, qe.Message)
		}
	}

	fmt.Fprintf(&sb, "\nSaved %d, duplicates %d, failed %d",
		result.Save.Saved, result.Save.Duplicates, result.Save.Failed)

	p.printBox("SEARCH RESULTS", sb.String())
}

// PrintInternships outputs saved internships in listing order.
func (p *Printer) PrintInternships(list []types.Internship) {
	if len(list) == 0 {
		p.printBox("SAVED INTERNSHIPS", "No saved internships")
		return
	}
	var sb strings.Builder
	for i, in := range list {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "[%s] %s @ %s\n", in.Status, in.JobTitle, in.CompanyName)
		fmt.Fprintf(&sb, "   compat %.1f  accept %.1f%%  %s\n", in.CompatibilityScore, in.AcceptanceProbability, in.CreatedAt.Format("2006-01-02"))
		fmt.Fprintf(&sb, "   %s", in.ID)
	}
	p.printBox(fmt.Sprintf("SAVED INTERNSHIPS (%d)", len(list)), sb.String())
}

package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/internship-assistant/internal/skills"
	"github.com/jonathan/internship-assistant/internal/types"
)

// cueWindow is how many characters around a keyword are searched for requirement language.
const cueWindow = 100

var (
	yearsPattern     = regexp.MustCompile(`(\d+)\s*[-+]?\s*years?\s*(of\s*)?(experience|exp)`)
	educationPattern = regexp.MustCompile(`\b(?:bachelor|master|phd|doctorate|degree|computer science|engineering)|\b(?:bs|ms|ba|ma)\b`)
	masterPattern    = regexp.MustCompile(`\bmaster|\bms\b`)
	phdPattern       = regexp.MustCompile(`\bphd|\bdoctorate`)
	requiredCue      = regexp.MustCompile(`required|must have|essential|mandatory`)
)

// ExtractJobRequirements derives a JobRequirementProfile from a posting's description and title.
// An empty description yields the default profile regardless of the title.
//
// Keywords found without requirement language ("required", "must have", "essential",
// "mandatory") within cueWindow characters are filed as preferred, never as required.
func ExtractJobRequirements(description, title string) types.JobRequirementProfile {
	profile := types.NewJobRequirementProfile()
	if strings.TrimSpace(description) == "" {
		return profile
	}

	desc := strings.ToLower(description)
	titleLower := strings.ToLower(title)

	if m := yearsPattern.FindStringSubmatch(desc); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil {
			profile.MinYearsExperience = years
		}
	}

	profile.ExperienceLevel = jobExperienceLevel(titleLower, desc)

	if educationPattern.MatchString(desc) {
		profile.EducationRequired = true
		switch {
		case masterPattern.MatchString(desc):
			profile.DegreeLevel = types.Master
		case phdPattern.MatchString(desc):
			profile.DegreeLevel = types.PhD
		}
	}

	for _, row := range skills.Categories() {
		for _, keyword := range row.Keywords {
			pos, ok := skills.Find(desc, keyword)
			if !ok {
				continue
			}
			profile.TechnicalCategories.Add(row.Category)
			if requiredCue.MatchString(skills.Context(desc, pos, len(keyword), cueWindow)) {
				profile.RequiredSkills.Add(keyword)
			} else {
				profile.PreferredSkills.Add(keyword)
			}
		}
	}

	profile.IsRemote = skills.MentionsRemote(desc)

	return profile
}

// jobExperienceLevel prefers seniority stated in the title. Entry-level terms may appear anywhere.
func jobExperienceLevel(title, desc string) types.ExperienceLevel {
	switch {
	case skills.MentionsLevel(title, types.SeniorLevel):
		return types.SeniorLevel
	case skills.MentionsLevel(title, types.MidLevel):
		return types.MidLevel
	default:
		// entry-level terms in title or description, and no signal at all, both mean entry level
		return types.EntryLevel
	}
}

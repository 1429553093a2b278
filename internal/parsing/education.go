package parsing

import (
	"strings"

	"github.com/jonathan/internship-assistant/internal/skills"
	"github.com/jonathan/internship-assistant/internal/types"
)

// degreeKeywords lists, per level, the substrings and whole-word abbreviations that identify it.
// Levels are checked from highest to lowest and the first hit wins.
var degreeKeywords = []struct {
	level   types.EducationLevel
	phrases []string
	words   []string
}{
	{types.PhD, []string{"phd", "doctorate", "doctor of"}, nil},
	{types.Master, []string{"master"}, []string{"ms", "ma", "msc", "mba"}},
	{types.Bachelor, []string{"bachelor", "license", "licence"}, []string{"bs", "ba", "bsc"}},
	{types.HighSchool, []string{"preparatory", "baccalaureate", "high school"}, nil},
}

// degreeLevel classifies one degree string. It returns EducationNone when no keyword matches.
func degreeLevel(degree string) types.EducationLevel {
	d := normalizeDegree(degree)
	if d == "" {
		return types.EducationNone
	}

	for _, row := range degreeKeywords {
		for _, phrase := range row.phrases {
			if strings.Contains(d, phrase) {
				return row.level
			}
		}
		for _, word := range row.words {
			if skills.ContainsWord(d, word) {
				return row.level
			}
		}
		// engineering in computing is bachelor-equivalent
		if row.level == types.Bachelor && strings.Contains(d, "engineering") &&
			(strings.Contains(d, "computer") || strings.Contains(d, "software")) {
			return types.Bachelor
		}
	}
	return types.EducationNone
}

// highestEducation scans entries in order and keeps the highest level seen.
// An entry that names something but matches no keyword is assumed to be a bachelor's degree.
func highestEducation(entries []types.EducationEntry) types.EducationLevel {
	highest := types.EducationNone
	for _, entry := range entries {
		level := degreeLevel(entry.Degree)
		if level == types.EducationNone && (strings.TrimSpace(entry.Degree) != "" || strings.TrimSpace(entry.Institution) != "") {
			level = types.Bachelor
		}
		if level.Ordinal() > highest.Ordinal() {
			highest = level
		}
	}
	return highest
}

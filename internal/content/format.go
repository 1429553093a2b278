package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/internship-assistant/internal/types"
)

const (
	maxPromptEducation    = 2
	maxPromptExperience   = 3
	maxPromptAchievements = 2
	maxPromptProjects     = 3
	maxEmailSkills        = 10
	maxLetterSkills       = 12
	maxProjectTechs       = 3
)

const letterDateLayout = "January 02, 2006"

var projectDescriptors = []string{"Academic project", "Personal project", "Development project"}

func emailPromptData(req Request) map[string]string {
	return map[string]string{
		"Education":   formatEducation(req.Resume.Education),
		"Experience":  formatExperience(req.Resume.ProfessionalExperience),
		"Skills":      formatSkills(req.Resume.Skills, maxEmailSkills),
		"JobTitle":    orDefault(req.Posting.Title, "Position"),
		"Company":     orDefault(req.Posting.Company, "Company"),
		"Description": truncate(req.Posting.Description, emailDescriptionChars),
		"Additional":  orDefault(strings.TrimSpace(req.Additional), "None provided - generate based on job description only"),
	}
}

func letterPromptData(req Request) map[string]string {
	data := emailPromptData(req)
	data["Skills"] = formatSkills(req.Resume.Skills, maxLetterSkills)
	data["Projects"] = formatProjects(req.Resume.Projects)
	data["Description"] = truncate(req.Posting.Description, letterDescriptionChars)
	data["Additional"] = orDefault(strings.TrimSpace(req.Additional), "None provided - focus on job description and candidate qualifications")
	return data
}

func formatEducation(entries []types.EducationEntry) string {
	if len(entries) == 0 {
		return "No formal education listed"
	}
	lines := make([]string, 0, maxPromptEducation)
	for _, e := range firstN(entries, maxPromptEducation) {
		line := fmt.Sprintf("- %s from %s", orDefault(e.Degree, "Degree"), orDefault(e.Institution, "Institution"))
		if e.GraduationDate != "" {
			line += fmt.Sprintf(" (%s)", e.GraduationDate)
		}
		if e.GPA != "" {
			line += " - GPA: " + e.GPA
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// formatExperience omits organization names.
func formatExperience(entries []types.ExperienceEntry) string {
	if len(entries) == 0 {
		return "No formal work experience listed"
	}
	lines := make([]string, 0, maxPromptExperience)
	for _, e := range firstN(entries, maxPromptExperience) {
		line := fmt.Sprintf("- %s (%s)", orDefault(e.Role, "Position"), orDefault(e.Duration, "Duration"))
		if len(e.Achievements) > 0 {
			line += "\n  Key achievements: " + strings.Join(firstN(e.Achievements, maxPromptAchievements), "; ")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatSkills(skills []string, limit int) string {
	if len(skills) == 0 {
		return "Not specified"
	}
	return strings.Join(firstN(skills, limit), ", ")
}

func formatProjects(projects []types.Project) string {
	if len(projects) == 0 {
		return "No projects listed"
	}
	lines := make([]string, 0, maxPromptProjects)
	for i, p := range firstN(projects, maxPromptProjects) {
		var line string
		if name := strings.TrimSpace(p.Name); name != "" && name != "Project" {
			line = "- " + name + " Project"
		} else {
			line = "- " + projectDescriptors[i%len(projectDescriptors)]
		}
		if len(p.Description) > 0 {
			line += ": " + p.Description[0]
		}
		if len(p.Technologies) > 0 {
			line += fmt.Sprintf(" (Technologies: %s)", strings.Join(firstN(p.Technologies, maxProjectTechs), ", "))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// withEmailSignature appends contact details after the sign-off, adding one if missing.
func withEmailSignature(text string, info types.PersonalInformation) string {
	if info == (types.PersonalInformation{}) {
		return text
	}
	contact := strings.Join([]string{
		orDefault(info.Name, "[Your Name]"),
		orDefault(info.Email, "[Your Email]"),
		orDefault(info.Phone, "[Your Phone]"),
	}, "\n")
	if strings.Contains(text, "Best regards,") {
		return text + "\n" + contact
	}
	return text + "\n\nBest regards,\n" + contact
}

// withLetterFrame adds the contact header and dated line on top and the signed name at the bottom.
func withLetterFrame(text string, info types.PersonalInformation, now time.Time) string {
	if info == (types.PersonalInformation{}) {
		return text
	}
	name := orDefault(info.Name, "[Your Name]")
	header := fmt.Sprintf("%s\n%s\n%s | %s\n\n%s\n\n",
		name,
		orDefault(info.Address, "[Your Address]"),
		orDefault(info.Email, "[Your Email]"),
		orDefault(info.Phone, "[Your Phone]"),
		now.Format(letterDateLayout),
	)
	if strings.Contains(text, "Sincerely,") {
		return header + text + "\n" + name
	}
	return header + text + "\n\nSincerely,\n" + name
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

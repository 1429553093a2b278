package content

import (
	"strings"
	"text/template"
	"time"

	"github.com/jonathan/internship-assistant/internal/types"
)

var funcs = template.FuncMap{
	"join": strings.Join,
}

var fallbackEmailTmpl = template.Must(template.New("email").Funcs(funcs).Parse(
	`Subject: Application for {{.JobTitle}} Position at {{.Company}}

Dear Hiring Manager,

I am writing to express my strong interest in the {{.JobTitle}} position at {{.Company}}. With my background in {{.Skill 0 "relevant field"}} and experience in {{.Role "various projects"}}, I am excited about the opportunity to contribute to your team.

Key qualifications I bring:
• {{.Skill 0 "Relevant technical skills"}}
• {{.Skill 1 "Strong problem-solving abilities"}}
• {{.Skill 2 "Excellent communication skills"}}

{{if .HasExperience}}In my recent role as {{.Role ""}}, I {{.Achievement 0 "developed relevant skills"}}.{{else}}Through my academic and project experience, I have developed strong foundational skills relevant to this position.{{end}}

{{if .Additional}}The additional requirements you mentioned - {{.Additional}} - align well with my experience and interests.{{else}}I am particularly drawn to this role because of the opportunity to apply my skills in a dynamic environment.{{end}}

I would welcome the opportunity to discuss how my background and enthusiasm can contribute to {{.Company}}'s success. Thank you for considering my application.

Best regards,
{{.Name}}
{{.Phone}}
{{.Email}}`))

var fallbackLetterTmpl = template.Must(template.New("cover_letter").Funcs(funcs).Parse(
	`{{.Name}}
{{.Address}}
{{.Email}} | {{.Phone}}

{{.Date}}

Hiring Manager
{{.Company}}
[Company Address]

Dear Hiring Manager,

I am writing to express my sincere interest in the {{.JobTitle}} position at {{.Company}}. As a {{.Degree "dedicated professional"}} with expertise in {{.Skill 0 "relevant technologies"}}, I am excited about the opportunity to contribute to your team's continued success.

RELEVANT EXPERIENCE:
{{if .HasExperience}}In my previous role as {{.Role ""}}, I successfully:{{else}}Throughout my professional development, I have:{{end}}
• {{.Achievement 0 "Developed strong technical and analytical skills"}}
• {{.Achievement 1 "Collaborated effectively with cross-functional teams"}}

TECHNICAL SKILLS:
My technical expertise includes: {{if .Skills}}{{join .TopSkills ", "}}{{else}}Various relevant technologies and methodologies{{end}}
{{if .Additional}}
ADDITIONAL QUALIFICATIONS: {{.Additional}}
{{end}}
I am particularly drawn to {{.Company}} because of your reputation for innovation and excellence. The {{.JobTitle}} role represents an ideal opportunity for me to apply my skills while contributing to meaningful projects.

I would welcome the opportunity to discuss how my background, skills, and enthusiasm align with your team's needs. Thank you for your time and consideration.

Sincerely,
{{.Name}}`))

// fallbackData exposes the resume to the fallback templates with a default for every gap.
type fallbackData struct {
	JobTitle   string
	Company    string
	Additional string
	Name       string
	Email      string
	Phone      string
	Address    string
	Date       string
	Skills     []string
	resume     types.ResumeRecord
}

func newFallbackData(req Request, now time.Time) fallbackData {
	info := req.Resume.PersonalInformation
	return fallbackData{
		JobTitle:   orDefault(req.Posting.Title, "Position"),
		Company:    orDefault(req.Posting.Company, "Company"),
		Additional: strings.TrimSpace(req.Additional),
		Name:       orDefault(info.Name, "[Your Name]"),
		Email:      orDefault(info.Email, "[Your Email]"),
		Phone:      orDefault(info.Phone, "[Your Phone]"),
		Address:    orDefault(info.Address, "[Your Address]"),
		Date:       now.Format(letterDateLayout),
		Skills:     req.Resume.Skills,
		resume:     req.Resume,
	}
}

func (d fallbackData) Skill(i int, def string) string {
	if i < len(d.Skills) {
		return d.Skills[i]
	}
	return def
}

func (d fallbackData) TopSkills() []string {
	return firstN(d.Skills, 5)
}

func (d fallbackData) HasExperience() bool {
	return len(d.resume.ProfessionalExperience) > 0
}

func (d fallbackData) Role(def string) string {
	if !d.HasExperience() {
		return def
	}
	return orDefault(d.resume.ProfessionalExperience[0].Role, "professional roles")
}

func (d fallbackData) Achievement(i int, def string) string {
	if !d.HasExperience() {
		return def
	}
	achievements := d.resume.ProfessionalExperience[0].Achievements
	if i < len(achievements) {
		return achievements[i]
	}
	return def
}

func (d fallbackData) Degree(def string) string {
	if len(d.resume.Education) == 0 {
		return def
	}
	return orDefault(d.resume.Education[0].Degree, "qualified professional")
}

func fallbackEmail(req Request) string {
	return render(fallbackEmailTmpl, newFallbackData(req, time.Time{}))
}

func fallbackCoverLetter(req Request, now time.Time) string {
	return render(fallbackLetterTmpl, newFallbackData(req, now))
}

func render(t *template.Template, data fallbackData) string {
	var sb strings.Builder
	// Execute only fails on a template bug, and the templates are parsed at init.
	_ = t.Execute(&sb, data)
	return sb.String()
}

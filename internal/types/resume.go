package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ResumeRecord is the structured resume a user maintains.
// Every field is optional; absent or malformed sections decode to their zero value.
type ResumeRecord struct {
	PersonalInformation    PersonalInformation `json:"personal_information"`
	Skills                 []string            `json:"skills,omitempty"`
	Languages              []string            `json:"languages,omitempty"`
	Education              []EducationEntry    `json:"education,omitempty"`
	ProfessionalExperience []ExperienceEntry   `json:"professional_experience,omitempty"`
	Projects               []Project           `json:"projects,omitempty"`
	Certifications         []string            `json:"certifications,omitempty"`
}

// PersonalInformation holds contact details used when drafting application content.
type PersonalInformation struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// EducationEntry is one degree or school attended.
type EducationEntry struct {
	Degree         string `json:"degree,omitempty"`
	Institution    string `json:"institution,omitempty"`
	Years          string `json:"years,omitempty"`
	GraduationDate string `json:"graduation_date,omitempty"`
	GPA            string `json:"gpa,omitempty"`
}

// ExperienceEntry is one professional position.
// Duration is expected as "YYYY/MM - YYYY/MM" but any string is accepted.
type ExperienceEntry struct {
	Role         string   `json:"role,omitempty"`
	Organization string   `json:"organization,omitempty"`
	Duration     string   `json:"duration,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// Project is a personal or academic project.
type Project struct {
	Name         string   `json:"name,omitempty"`
	Description  []string `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// ParseResumeRecord decodes resume JSON. Only a payload that is not a JSON object is an error;
// malformed sections and fields decode as absent.
func ParseResumeRecord(data []byte) (ResumeRecord, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return ResumeRecord{}, fmt.Errorf("failed to decode resume record: %w", err)
	}
	return DecodeResumeRecord(raw), nil
}

// DecodeResumeRecord converts a loosely-typed map into a ResumeRecord.
//
// Defaulting rules:
//   - missing or null keys leave the field empty
//   - scalar values are accepted where a list is expected ("skills": "go" becomes ["go"])
//   - every non-null list element yields an entry; a field that cannot be decoded is left empty
//   - a scalar element of an object list names the entry (a project "Portfolio" gets that name)
//   - an object element of a string list contributes its "name" or "title"
//   - "experience" is read when "professional_experience" is absent
//   - experience entries accept "job_title" for role and "description" for achievements
func DecodeResumeRecord(raw map[string]any) ResumeRecord {
	var record ResumeRecord
	if raw == nil {
		return record
	}

	if info, ok := raw["personal_information"].(map[string]any); ok {
		record.PersonalInformation = decodeFields[PersonalInformation](info)
	}
	record.Skills = decodeStrings(raw["skills"])
	record.Languages = decodeStrings(raw["languages"])
	record.Certifications = decodeStrings(raw["certifications"])
	record.Education = decodeEntries[EducationEntry](raw["education"], "degree")
	record.Projects = decodeEntries[Project](raw["projects"], "name")

	experience := raw["professional_experience"]
	if experience == nil {
		experience = raw["experience"]
	}
	record.ProfessionalExperience = decodeEntries[ExperienceEntry](withAliases(experience, map[string]string{
		"job_title":   "role",
		"description": "achievements",
		"company":     "organization",
	}), "role")

	return record
}

// IsEmpty reports whether the record carries no analyzable section.
func (r ResumeRecord) IsEmpty() bool {
	return len(r.Skills) == 0 && len(r.Languages) == 0 && len(r.Education) == 0 &&
		len(r.ProfessionalExperience) == 0 && len(r.Projects) == 0 && len(r.Certifications) == 0
}

func decode(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// decodeFields decodes one object key by key so a malformed field leaves only itself empty.
func decodeFields[T any](fields map[string]any) T {
	var out T
	for key, val := range fields {
		if val == nil {
			continue
		}
		single := map[string]any{key: val}
		var trial T
		if err := decode(single, &trial); err != nil {
			continue
		}
		_ = decode(single, &out)
	}
	return out
}

// decodeEntries decodes a list of objects, keeping one entry per non-null element.
func decodeEntries[T any](v any, scalarKey string) []T {
	items := asList(v)
	out := make([]T, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case nil:
			continue
		case map[string]any:
			out = append(out, decodeFields[T](it))
		case []any:
			var empty T
			out = append(out, empty)
		default:
			out = append(out, decodeFields[T](map[string]any{scalarKey: it}))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// decodeStrings decodes a list of strings. Numbers and booleans are formatted, objects
// contribute their "name" or "title", and anything else is skipped.
func decodeStrings(v any) []string {
	items := asList(v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case nil, []any:
			continue
		case map[string]any:
			for _, key := range []string{"name", "title"} {
				if s, ok := it[key].(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, s)
					break
				}
			}
		default:
			var s string
			if err := decode(it, &s); err == nil && s != "" {
				out = append(out, s)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// asList treats a lone scalar or object as a single-element list.
func asList(v any) []any {
	if v == nil {
		return nil
	}
	if items, ok := v.([]any); ok {
		return items
	}
	return []any{v}
}

// withAliases copies alias keys onto their canonical names inside a list of objects,
// without overwriting a canonical key that is already present.
func withAliases(v any, aliases map[string]string) any {
	items, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			out = append(out, item)
			continue
		}
		copied := make(map[string]any, len(entry))
		for k, val := range entry {
			copied[k] = val
		}
		for alias, canonical := range aliases {
			if _, exists := copied[canonical]; exists {
				continue
			}
			if val, ok := copied[alias]; ok {
				copied[canonical] = val
				delete(copied, alias)
			}
		}
		out = append(out, copied)
	}
	return out
}

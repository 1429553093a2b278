package fetch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/internship-assistant/internal/types"
)

// feedPosting accepts the field names used by common job feeds.
type feedPosting struct {
	Title          string `json:"title"`
	JobTitle       string `json:"job_title"`
	Company        string `json:"company"`
	CompanyName    string `json:"company_name"`
	Link           string `json:"application_link"`
	URL            string `json:"url"`
	Description    string `json:"description"`
	JobDescription string `json:"job_description"`
	SourceSite     string `json:"source_site"`
	Location       string `json:"location"`
}

type feedEnvelope struct {
	Postings []feedPosting `json:"postings"`
	Jobs     []feedPosting `json:"jobs"`
}

// decodePostings accepts a bare JSON array or an object with a "postings" or "jobs" array.
func decodePostings(body []byte) ([]feedPosting, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var list []feedPosting
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to decode postings: %w", err)
		}
		return list, nil
	}
	var env feedEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("failed to decode postings: %w", err)
	}
	return append(env.Postings, env.Jobs...), nil
}

// raw normalizes a feed entry. Entries without a title are dropped.
func (p feedPosting) raw() (types.RawPosting, bool) {
	title := strings.TrimSpace(firstNonEmpty(p.Title, p.JobTitle))
	if title == "" {
		return types.RawPosting{}, false
	}
	link := strings.TrimSpace(firstNonEmpty(p.Link, p.URL))
	site := p.SourceSite
	if site == "" {
		site = string(DetectSite(link))
	}
	return types.RawPosting{
		Title:           title,
		Company:         strings.TrimSpace(firstNonEmpty(p.Company, p.CompanyName)),
		ApplicationLink: link,
		Description:     CleanDescription(firstNonEmpty(p.Description, p.JobDescription)),
		SourceSite:      site,
	}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// normalize converts feed entries into at most maxResults raw postings.
// The result is never nil.
func normalize(entries []feedPosting, maxResults int) []types.RawPosting {
	out := make([]types.RawPosting, 0, len(entries))
	for _, e := range entries {
		if maxResults > 0 && len(out) >= maxResults {
			break
		}
		if p, ok := e.raw(); ok {
			out = append(out, p)
		}
	}
	return out
}

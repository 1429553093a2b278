package fetch

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/internship-assistant/internal/types"
)

// FileSource searches postings stored in a local JSON file.
// The file is re-read on every search so updates are picked up by long-running monitors.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Search returns postings whose title, company or description contain every query word.
// When both are set, the posting location must contain the requested location.
func (s *FileSource) Search(ctx context.Context, query, location string, maxResults int) ([]types.RawPosting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read postings file: %w", err)
	}
	entries, err := decodePostings(data)
	if err != nil {
		return nil, err
	}

	terms := strings.Fields(strings.ToLower(query))
	loc := strings.ToLower(strings.TrimSpace(location))
	var matched []feedPosting
	for _, e := range entries {
		if loc != "" && e.Location != "" && !strings.Contains(strings.ToLower(e.Location), loc) {
			continue
		}
		haystack := strings.ToLower(strings.Join([]string{
			e.Title, e.JobTitle, e.Company, e.CompanyName, e.Description, e.JobDescription,
		}, " "))
		if containsAll(haystack, terms) {
			matched = append(matched, e)
		}
	}
	return normalize(matched, maxResults), nil
}

func containsAll(text string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}

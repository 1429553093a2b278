package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	googlegenai "google.golang.org/genai"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text",
			input:    "  Dear Hiring Manager,\n\nThanks.  ",
			expected: "Dear Hiring Manager,\n\nThanks.",
		},
		{
			name:     "generic code block",
			input:    "```\nSubject: Application\n\nHello\n```",
			expected: "Subject: Application\n\nHello",
		},
		{
			name:     "code block with language",
			input:    "```text\nHello there\n```",
			expected: "Hello there",
		},
		{
			name:     "first line is prose",
			input:    "```Dear team, hello\nmore```",
			expected: "Dear team, hello\nmore",
		},
		{
			name:     "inline backticks untouched",
			input:    "Use `go test` daily",
			expected: "Use `go test` daily",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestExtractTextFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello, "), genai.Text("world")}},
		}},
	}
	text, err := extractTextFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", text)

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{})
	assert.ErrorContains(t, err, "no candidates")

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}}}},
	})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestResponseText(t *testing.T) {
	assert.Empty(t, responseText(nil))

	resp := &googlegenai.GenerateContentResponse{
		Candidates: []*googlegenai.Candidate{
			{Content: nil},
			{Content: &googlegenai.Content{Parts: []*googlegenai.Part{{Text: "Dear "}, {Text: "team"}}}},
			{Content: &googlegenai.Content{Parts: []*googlegenai.Part{{Text: "ignored"}}}},
		},
	}
	assert.Equal(t, "Dear team", responseText(resp))
}

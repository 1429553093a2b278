package rendering

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [][]string
	}{
		{"empty", "", nil},
		{"single line", "Hello", [][]string{{"Hello"}}},
		{"header block and body", "Sam Lee\n1 Main St\n\n\n\nDear team,\r\n\r\nThanks.\n",
			[][]string{{"Sam Lee", "1 Main St"}, {"Dear team,"}, {"Thanks."}}},
		{"whitespace-only lines separate", "a\n   \nb", [][]string{{"a"}, {"b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitParagraphs(tt.in))
		})
	}
}

func TestBuildHTML(t *testing.T) {
	html, err := BuildHTML(Document{
		Title:  "Cover letter - Acme",
		Author: "Sam Lee",
		Text:   "Sam Lee\nsam@example.com\n\nI like <script>alert(1)</script> & Go.",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "<title>Cover letter - Acme</title>")
	assert.Contains(t, html, `<meta name="author" content="Sam Lee">`)
	assert.Contains(t, html, "<p>Sam Lee<br>sam@example.com</p>")
	assert.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt; &amp; Go.")
	assert.NotContains(t, html, "<script>")
	assert.Equal(t, 2, strings.Count(html, "<p>"))
}

func TestBuildHTML_DefaultsTitle(t *testing.T) {
	html, err := BuildHTML(Document{Text: "Hi"})
	require.NoError(t, err)
	assert.Contains(t, html, "<title>Document</title>")
}

func TestBuildHTML_EmptyText(t *testing.T) {
	_, err := BuildHTML(Document{Title: "x", Text: " \n "})

	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, "render error: document has no text", err.Error())
}

func TestRender_EmptyDocumentSkipsBrowser(t *testing.T) {
	r := NewPDFRenderer("/nonexistent/chrome", nil)
	_, err := r.Render(context.Background(), Document{})
	assert.ErrorContains(t, err, "document has no text")
}

func TestErrors_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	assert.ErrorIs(t, &TemplateError{Message: "m", Cause: cause}, cause)
	assert.ErrorIs(t, &RenderError{Message: "m", Cause: cause}, cause)
	assert.Equal(t, "template error: m", (&TemplateError{Message: "m"}).Error())
}

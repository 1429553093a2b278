// Package fetch provides the posting sources used by job searches and
// HTML-to-text cleanup of posting descriptions.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; InternshipAgent/1.0)"

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 10 << 20

// Error represents an error while fetching from a posting source.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures HTTP fetching.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Get retrieves the body of urlStr. A non-200 response returns an *Error carrying the status code.
func Get(ctx context.Context, client *http.Client, urlStr string, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: urlStr, StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return body, &Error{
			URL:        urlStr,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}
	return body, nil
}

var (
	expandArtifacts = regexp.MustCompile(`(?i)(show more\s*show less|voir plus\s*voir moins|show more|show less)`)
	blankLines      = regexp.MustCompile(`\n\s*\n+`)
	spaceRuns       = regexp.MustCompile(`[ \t\f\r]+`)
)

// noiseSelectors are removed before description text is extracted.
var noiseSelectors = []string{
	"script", "style", "noscript", "form", "button",
	".apply-button-container", ".application-form", ".social-share", ".share-buttons",
	".eeo-statement", ".voluntary-disclosure", ".cookie-banner",
}

// blockElements get a line break after them so paragraphs and list items stay separate.
const blockElements = "p, li, br, div, h1, h2, h3, h4, h5, h6, tr, section, article"

// CleanDescription converts a posting description, HTML or plain text, into tidy plain text.
func CleanDescription(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	text := raw
	if strings.Contains(raw, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
			doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
			doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
				s.AppendHtml("\n")
			})
			text = doc.Text()
		}
	}

	text = expandArtifacts.ReplaceAllString(text, "")
	text = spaceRuns.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankLines.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

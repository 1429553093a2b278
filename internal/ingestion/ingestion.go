// Package ingestion loads a single job posting page into a RawPosting ready for scoring.
package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/jonathan/internship-assistant/internal/fetch"
	"github.com/jonathan/internship-assistant/internal/types"
)

// MinContentLength is the description length below which a page is treated as
// client-rendered and, when allowed, reloaded in a headless browser.
const MinContentLength = 500

// DefaultBrowserTimeout bounds one headless render.
const DefaultBrowserTimeout = 30 * time.Second

// ErrNoContent is returned when no description could be extracted from the page.
var ErrNoContent = errors.New("no posting description found")

// Metadata describes where and how a posting was loaded.
type Metadata struct {
	URL       string        `json:"url"`
	FetchedAt time.Time     `json:"fetched_at"`
	Hash      string        `json:"hash"`
	Site      fetch.Site    `json:"site"`
	Rendered  bool          `json:"rendered_in_browser"`
	Quality   fetch.Quality `json:"quality"`
}

// Posting is a loaded posting page.
type Posting struct {
	Posting  types.RawPosting `json:"posting"`
	Metadata Metadata         `json:"metadata"`
}

// Options configures FromURL.
type Options struct {
	Fetch  *fetch.Options
	Client *http.Client
	// UseBrowser allows a headless Chrome render when the static HTML is too thin.
	UseBrowser bool
	ChromePath string
	Logger     *zap.Logger
}

var siteSelectors = map[fetch.Site][]string{
	fetch.SiteGreenhouse: {".job__description.body", ".job__description", "#content", ".job-post-container"},
	fetch.SiteLever:      {".posting-page", ".section-wrapper.page-full-width", ".posting-description"},
	fetch.SiteWorkday:    {"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']"},
	fetch.SiteLinkedIn:   {".show-more-less-html__markup", ".description__text"},
	fetch.SiteIndeed:     {"#jobDescriptionText"},
	fetch.SiteGlassdoor:  {".jobDescriptionContent", "[class*='JobDetails_jobDescription']"},
	fetch.SiteWellfound:  {"[class*='description']"},
}

var genericSelectors = []string{
	"[itemprop='description']", ".job-description", "#job-description", "main", "article", "[role='main']", "body",
}

var pageNoise = []string{"nav", "header", "footer", "aside", "iframe", "svg", ".cookie-consent", ".gdpr-notice"}

// FromURL fetches a posting page and extracts its title, company and description.
func FromURL(ctx context.Context, link string, opts Options) (*Posting, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	body, err := fetch.Get(ctx, opts.Client, link, opts.Fetch)
	if err != nil {
		return nil, err
	}
	posting, err := FromHTML(string(body), link)
	rendered := false

	if opts.UseBrowser && (err != nil || len(posting.Description) < MinContentLength) {
		logger.Info("static page too thin, rendering in browser",
			zap.String("url", link),
			zap.Int("chars", len(posting.Description)))
		html, berr := renderPage(ctx, link, opts.ChromePath)
		if berr != nil {
			logger.Warn("browser rendering failed, using static page", zap.Error(berr))
		} else if p, perr := FromHTML(html, link); perr == nil && len(p.Description) > len(posting.Description) {
			posting, err, rendered = p, nil, true
		}
	}
	if err != nil {
		return nil, err
	}

	return &Posting{
		Posting: posting,
		Metadata: Metadata{
			URL:       link,
			FetchedAt: time.Now().UTC(),
			Hash:      Hash(posting.Description),
			Site:      fetch.DetectSite(link),
			Rendered:  rendered,
			Quality:   fetch.DescriptionQuality(posting.Description),
		},
	}, nil
}

// FromHTML extracts a posting from page HTML. link selects site-specific selectors
// and becomes the application link.
func FromHTML(html, link string) (types.RawPosting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return types.RawPosting{}, fmt.Errorf("failed to parse page: %w", err)
	}
	site := fetch.DetectSite(link)

	posting := types.RawPosting{
		Title:           pageTitle(doc),
		Company:         pageCompany(doc, link, site),
		ApplicationLink: link,
		SourceSite:      string(site),
	}

	doc.Find(strings.Join(pageNoise, ", ")).Remove()
	for _, sel := range append(siteSelectors[site], genericSelectors...) {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		inner, err := node.Html()
		if err != nil {
			continue
		}
		if text := fetch.CleanDescription(inner); text != "" {
			posting.Description = text
			break
		}
	}
	if posting.Description == "" {
		return posting, ErrNoContent
	}
	return posting, nil
}

func pageTitle(doc *goquery.Document) string {
	if v, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// pageCompany prefers og:site_name, then the board slug in greenhouse and lever URLs.
func pageCompany(doc *goquery.Document, link string, site fetch.Site) string {
	if v, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if site != fetch.SiteGreenhouse && site != fetch.SiteLever {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	slug, _, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
	if slug == "" || slug == "embed" {
		return ""
	}
	return strings.ReplaceAll(slug, "-", " ")
}

// Hash returns the SHA-256 hex digest of a description.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func renderPage(ctx context.Context, link, chromePath string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()
	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	browserCtx, cancel = context.WithTimeout(browserCtx, DefaultBrowserTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(link),
		chromedp.WaitReady("body"),
		// Client-side boards fill the description after load.
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}
	return html, nil
}

package rendering

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// DefaultRenderTimeout bounds one PDF render including browser startup.
const DefaultRenderTimeout = 60 * time.Second

// PDFRenderer prints documents to PDF with headless Chrome.
type PDFRenderer struct {
	chromePath string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewPDFRenderer creates a renderer. An empty chromePath lets chromedp locate the browser.
func NewPDFRenderer(chromePath string, logger *zap.Logger) *PDFRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFRenderer{chromePath: chromePath, timeout: DefaultRenderTimeout, logger: logger}
}

// Render lays out doc and returns the PDF bytes.
func (r *PDFRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	html, err := BuildHTML(doc)
	if err != nil {
		return nil, err
	}
	return r.RenderHTML(ctx, html)
}

// RenderHTML prints an HTML page to an A4 PDF.
func (r *PDFRenderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	start := time.Now()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.timeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, &RenderError{Message: "failed to print PDF", Cause: err}
	}

	r.logger.Debug("rendered PDF",
		zap.Duration("duration", time.Since(start)),
		zap.Int("bytes", len(pdf)),
	)
	return pdf, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DefaultPrintTimeout bounds a print when no timeout is configured.
const DefaultPrintTimeout = 15 * time.Second

// A4 in inches, as Chromium expects paper sizes.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
)

// PrintOptions configures the headless Chromium print.
type PrintOptions struct {
	Timeout      time.Duration
	ChromiumPath string
}

// PDFPrinter prints the HTML preview to PDF via headless Chromium. A print
// never retries; callers decide whether to try again.
type PDFPrinter struct {
	opts   PrintOptions
	render func(ctx context.Context, html []byte) ([]byte, error)
}

// NewPDFPrinter returns a printer backed by a fresh Chromium per call.
func NewPDFPrinter(opts PrintOptions) *PDFPrinter {
	p := &PDFPrinter{opts: opts}
	p.render = p.chromium
	return p
}

// Timeout is the effective per-print timeout.
func (p *PDFPrinter) Timeout() time.Duration {
	if p.opts.Timeout <= 0 {
		return DefaultPrintTimeout
	}
	return p.opts.Timeout
}

// Print renders html to PDF. When the timeout (or the caller's deadline)
// expires first it returns a *RenderTimeoutError.
func (p *PDFPrinter) Print(ctx context.Context, html []byte) ([]byte, error) {
	timeout := p.Timeout()
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := p.render(runCtx, html)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, &RenderTimeoutError{Backend: "chromium", Timeout: timeout, Err: err}
		}
		return nil, fmt.Errorf("chromedp run failed: %w", err)
	}
	return out, nil
}

// PrintDocument renders the document preview and prints it.
func (p *PDFPrinter) PrintDocument(ctx context.Context, doc Document, title string) ([]byte, error) {
	html, err := GenerateHTML(ctx, doc, title)
	if err != nil {
		return nil, err
	}
	return p.Print(ctx, html)
}

func (p *PDFPrinter) chromium(ctx context.Context, html []byte) ([]byte, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	if p.opts.ChromiumPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(p.opts.ChromiumPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	runCtx, cancelRun := chromedp.NewContext(allocCtx)
	defer cancelRun()

	var pdfBuf []byte
	dataURL := "data:text/html," + url.PathEscape(string(html))
	err := chromedp.Run(runCtx,
		chromedp.Navigate(dataURL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, perr := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(a4WidthInches).
				WithPaperHeight(a4HeightInches).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			if perr == nil {
				pdfBuf = buf
			}
			return perr
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

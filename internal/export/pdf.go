// Package export turns a rendered report into downloadable files.
package export

import (
	"bytes"
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/iqfinance/intel-dashboard/internal/config"
	"github.com/iqfinance/intel-dashboard/internal/render"
)

// A4 in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// PDFRenderer converts a standalone HTML document to PDF.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html []byte) ([]byte, error)
}

// ChromePDF prints documents with a headless Chrome instance started per
// call.
type ChromePDF struct {
	timeout  time.Duration
	execPath string
}

// NewChromePDF builds a renderer from the export settings.
func NewChromePDF(cfg config.ExportConfig) *ChromePDF {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromePDF{timeout: timeout, execPath: cfg.ChromePath}
}

// RenderPDF loads html into a blank page and prints it at A4 width with
// backgrounds. Long reports flow onto further pages.
func (c *ChromePDF) RenderPDF(ctx context.Context, html []byte) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.execPath != "" {
		opts = append(opts, chromedp.ExecPath(c.execPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, c.timeout)
	defer cancel()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("#"+render.ContentID),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, eris.Wrap(err, "export: render pdf")
	}

	zap.L().Debug("export: pdf rendered",
		zap.Int("bytes", len(pdf)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return pdf, nil
}

// PDF renders the standalone report document and prints it.
func PDF(ctx context.Context, r PDFRenderer, h *render.HTML, p render.ReportPage) ([]byte, error) {
	var doc bytes.Buffer
	if err := h.Export(&doc, p); err != nil {
		return nil, err
	}
	return r.RenderPDF(ctx, doc.Bytes())
}

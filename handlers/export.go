package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"proposalbuilder/collections"
	"proposalbuilder/services"
)

// loadDocument reads a stored quote, reclassifies its items and lays it out.
func (d *Deps) loadDocument(code string) (services.Quote, services.Classification, services.Document, error) {
	stored, err := collections.LoadQuote(d.App, code)
	if err != nil {
		return services.Quote{}, services.Classification{}, services.Document{}, err
	}
	c, err := services.ClassifyAndTotal(stored.Payload)
	if err != nil {
		return services.Quote{}, services.Classification{}, services.Document{}, err
	}
	doc, err := services.LayoutDocument(stored.Quote, c, d.Layout)
	if err != nil {
		return services.Quote{}, services.Classification{}, services.Document{}, err
	}
	return stored.Quote, c, doc, nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

func attachment(e *core.RequestEvent, contentType, filename string, body []byte) error {
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return e.Blob(http.StatusOK, contentType, body)
}

// HandleQuoteExport renders a stored quote in the format named by the path:
// pdf (canvas), summary (compact PDF), xlsx, html (preview) or print
// (browser-printed PDF).
func HandleQuoteExport(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		code := e.Request.PathValue("code")
		format := e.Request.PathValue("format")
		if code == "" {
			return e.JSON(http.StatusBadRequest, errorResponse{Error: "missing quote code"})
		}

		q, c, doc, err := d.loadDocument(code)
		if err != nil {
			return d.writeError(e, "export_"+format, err)
		}
		title := documentTitle(q)
		base := "Proposta_" + sanitizeFilename(q.Code)

		switch format {
		case "pdf":
			out, err := services.GeneratePDF(doc, title)
			if err != nil {
				return d.writeError(e, "export_pdf", err)
			}
			return attachment(e, "application/pdf", base+".pdf", out)

		case "summary":
			out, err := services.GenerateSummaryPDF(services.BuildExportData(q, c))
			if err != nil {
				return d.writeError(e, "export_summary", err)
			}
			return attachment(e, "application/pdf", base+"_resumo.pdf", out)

		case "xlsx":
			out, err := services.GenerateExcel(services.BuildExportData(q, c))
			if err != nil {
				return d.writeError(e, "export_xlsx", err)
			}
			return attachment(e, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", base+".xlsx", out)

		case "html":
			out, err := services.GenerateHTML(e.Request.Context(), doc, title)
			if err != nil {
				return d.writeError(e, "export_html", err)
			}
			return e.HTML(http.StatusOK, string(out))

		case "print":
			out, err := d.printWithRetry(e, doc, title)
			if err != nil {
				return d.writeError(e, "export_print", err)
			}
			return attachment(e, "application/pdf", base+".pdf", out)
		}

		return e.JSON(http.StatusNotFound, errorResponse{Error: "unknown export format " + format})
	}
}

// printWithRetry retries the browser render only, and only after a timeout.
// Layout is never recomputed between attempts.
func (d *Deps) printWithRetry(e *core.RequestEvent, doc services.Document, title string) ([]byte, error) {
	if d.Printer == nil {
		return nil, errors.New("print backend not configured")
	}
	var lastErr error
	for attempt := 0; attempt <= d.PrintRetries; attempt++ {
		out, err := d.Printer.PrintDocument(e.Request.Context(), doc, title)
		if err == nil {
			return out, nil
		}
		lastErr = err
		var rte *services.RenderTimeoutError
		if !errors.As(err, &rte) || e.Request.Context().Err() != nil {
			break
		}
		d.Logger.Warn("print timed out",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", d.PrintRetries+1),
			zap.Duration("timeout", rte.Timeout),
		)
	}
	return nil, lastErr
}

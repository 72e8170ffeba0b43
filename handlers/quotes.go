package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"proposalbuilder/collections"
	"proposalbuilder/services"
)

// quoteRequest is the body of preview and save: the header plus the raw form
// buckets exactly as the quote form posts them.
type quoteRequest struct {
	Quote   services.Quote       `json:"quote"`
	Payload services.FormPayload `json:"payload"`
}

// totalsView is the formatted totals block returned to the form.
type totalsView struct {
	Currencies []string          `json:"currencies"`
	ModalityA  map[string]string `json:"modality_a"`
	ModalityB  map[string]string `json:"modality_b"`
	General    map[string]string `json:"general"`
}

func newTotalsView(t services.Totals) totalsView {
	scope := func(ct services.CurrencyTotals) map[string]string {
		out := make(map[string]string, len(t.DisplayCurrencies()))
		for _, c := range t.DisplayCurrencies() {
			out[string(c)] = services.FormatMoney(c, ct.Get(c))
		}
		return out
	}
	v := totalsView{
		ModalityA: scope(t.ModalityA),
		ModalityB: scope(t.ModalityB),
		General:   scope(t.General),
	}
	for _, c := range t.DisplayCurrencies() {
		v.Currencies = append(v.Currencies, string(c))
	}
	return v
}

func (r quoteRequest) payload() services.FormPayload {
	p := r.Payload
	if p.TechSpec == "" {
		p.TechSpec = r.Quote.TechSpec
	}
	if p.Principle == "" {
		p.Principle = r.Quote.Principle
	}
	return p
}

func (r quoteRequest) quote() services.Quote {
	q := r.Quote
	if q.TechSpec == "" {
		q.TechSpec = r.Payload.TechSpec
	}
	if q.Principle == "" {
		q.Principle = r.Payload.Principle
	}
	return q.Normalized()
}

// HandleQuotePreview lays out the posted quote and returns the HTML preview.
// Nothing is stored.
func HandleQuotePreview(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req quoteRequest
		if err := e.BindBody(&req); err != nil {
			return e.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		}

		c, err := services.ClassifyAndTotal(req.payload())
		if err != nil {
			return d.writeError(e, "preview", err)
		}
		q := req.quote()
		doc, err := services.LayoutDocument(q, c, d.Layout)
		if err != nil {
			return d.writeError(e, "preview", err)
		}
		html, err := services.GenerateHTML(e.Request.Context(), doc, documentTitle(q))
		if err != nil {
			return d.writeError(e, "preview", err)
		}
		return e.HTML(http.StatusOK, string(html))
	}
}

// HandleQuoteSave validates and upserts the posted quote. A finished quote
// without a code gets the next quote number; a draft gets a draft code.
func HandleQuoteSave(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req quoteRequest
		if err := e.BindBody(&req); err != nil {
			return e.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		}

		c, err := services.ClassifyAndTotal(req.payload())
		if err != nil {
			return d.writeError(e, "save", err)
		}

		q := req.quote()
		record, err := d.storeQuote(q, c)
		if err != nil {
			return d.writeError(e, "save", err)
		}
		code := record.GetString("quote_code")
		d.Logger.Info("quote saved", zap.String("quote_code", code), zap.String("status", q.Status))

		return e.JSON(http.StatusOK, map[string]any{
			"quote_code": code,
			"status":     q.Status,
			"totals":     newTotalsView(c.Totals),
		})
	}
}

// storeQuote upserts a quote that carries a code. Without one, drafts get a
// RASCUNHO code and finals are numbered in the same transaction as the insert.
func (d *Deps) storeQuote(q services.Quote, c services.Classification) (*core.Record, error) {
	if strings.TrimSpace(q.Code) != "" {
		return collections.SaveQuote(d.App, q, c)
	}
	if q.Status != services.QuoteStatusFinal {
		q.Code = services.DraftQuoteCode()
		return collections.InsertQuote(d.App, q, c)
	}

	numbering := d.Numbering
	if settings, err := collections.LoadSettings(d.App); err == nil {
		numbering = numbering.WithSettings(settings)
	}
	record, err := collections.CreateNumberedQuote(d.App, q, c, numbering, d.now())
	if err == nil {
		return record, nil
	}
	q.Code = services.FallbackQuoteNumber(d.now())
	d.Logger.Warn("quote numbering failed, using fallback", zap.Error(err), zap.String("quote_code", q.Code))
	return collections.InsertQuote(d.App, q, c)
}

// HandleQuoteStatus moves a stored quote along its business lifecycle.
func HandleQuoteStatus(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		code := e.Request.PathValue("code")
		if code == "" {
			return e.JSON(http.StatusBadRequest, errorResponse{Error: "missing quote code"})
		}
		var body struct {
			Status string `json:"status"`
		}
		if err := e.BindBody(&body); err != nil {
			return e.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		}

		next := services.BusinessStatus(strings.TrimSpace(body.Status))
		if !next.Valid() {
			return e.JSON(http.StatusBadRequest, errorResponse{Error: "unknown status", Field: "status"})
		}
		if err := collections.UpdateBusinessStatus(d.App, code, next); err != nil {
			return d.writeError(e, "status", err)
		}
		return e.JSON(http.StatusOK, map[string]string{"quote_code": code, "business_status": string(next)})
	}
}

// HandleQuoteStats returns the dashboard counts.
func HandleQuoteStats(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		stats, err := collections.CountQuotes(d.App)
		if err != nil {
			return d.writeError(e, "stats", err)
		}
		return e.JSON(http.StatusOK, stats)
	}
}

func documentTitle(q services.Quote) string {
	if q.Code == "" {
		return "Proposta Comercial"
	}
	return "Proposta Comercial " + q.Code
}

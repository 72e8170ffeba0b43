package services

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// ExportRow is one item line in the flow-layout exports (summary PDF, XLSX).
type ExportRow struct {
	Index       string
	Description string
	Qty         int64
	Days        *int
	Currency    Currency
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// ExportSection is a non-empty section with its formatted total.
type ExportSection struct {
	SectionDef
	Rows      []ExportRow
	Totals    CurrencyTotals
	TotalLine string
	HasDays   bool
}

// ExportData holds everything the flow-layout exports need.
type ExportData struct {
	Title           string
	ReferenceNumber string
	CreatedDate     string
	Quote           Quote
	Sections        []ExportSection
	Totals          Totals
	Currencies      []Currency
}

// BuildExportData flattens a classified quote into export rows, skipping
// empty sections and keeping taxonomy order.
func BuildExportData(q Quote, c Classification) ExportData {
	q = q.Normalized()
	data := ExportData{
		Title:           "Proposta Comercial " + q.Code,
		ReferenceNumber: q.Code,
		CreatedDate:     q.Date,
		Quote:           q,
		Totals:          c.Totals,
		Currencies:      c.Totals.DisplayCurrencies(),
	}
	if q.Code == "" {
		data.Title = "Proposta Comercial"
	}

	for _, s := range c.Sections {
		if len(s.Items) == 0 {
			continue
		}
		es := ExportSection{
			SectionDef: s.SectionDef,
			Totals:     s.Totals,
			TotalLine:  formatTotalsLine(s.Totals, data.Currencies),
			HasDays:    s.IsService() && hasDays(s.Items),
		}
		for i, it := range s.Items {
			es.Rows = append(es.Rows, ExportRow{
				Index:       strconv.Itoa(i + 1),
				Description: it.Name,
				Qty:         it.Quantity,
				Days:        it.Days,
				Currency:    it.Currency,
				UnitPrice:   it.UnitPrice,
				Subtotal:    it.Subtotal(),
			})
		}
		data.Sections = append(data.Sections, es)
	}
	return data
}

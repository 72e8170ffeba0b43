package services

import (
	"fmt"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/mattn/go-runewidth"
)

// summaryDescCells caps the description column; summary rows are single-line.
const summaryDescCells = 70

// GenerateSummaryPDF creates the compact one-flow summary of a quote using
// maroto/v2: header, one table per non-empty section and the totals.
// maroto paginates it; its breaks are independent of LayoutDocument pages.
func GenerateSummaryPDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 128, Green: 128, Blue: 128},
		}).
		Build()

	m := maroto.New(cfg)

	addSummaryHeader(m, data)
	for _, s := range data.Sections {
		addSectionTable(m, s)
	}
	addSummaryTotals(m, data)
	addSummaryFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addSummaryHeader(m core.Maroto, data ExportData) {
	q := data.Quote
	muted := &props.Color{Red: 75, Green: 85, Blue: 99}

	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
					Color: &props.Color{Red: 37, Green: 99, Blue: 235},
				}),
			),
		),
	)

	left := props.Text{Size: 9, Align: align.Left, Color: muted}
	right := props.Text{Size: 9, Align: align.Right, Color: muted}
	for _, pair := range [][2]string{
		{"Cliente: " + orDash(q.ClientName()), "Data: " + orDash(q.Date)},
		{"CNPJ: " + orDash(q.CNPJ), "Validade: " + strconv.Itoa(q.ValidityDays) + " dias"},
		{"Representante: " + orDash(q.Representative), "Entrega: " + orDash(q.DeliveryTime)},
	} {
		m.AddRows(
			row.New(6).Add(
				col.New(6).Add(text.New(pair[0], left)),
				col.New(6).Add(text.New(pair[1], right)),
			),
		)
	}

	m.AddRows(row.New(4))
}

// addSectionTable adds the section title, column header, item rows and
// section total.
func addSectionTable(m core.Maroto, s ExportSection) {
	m.AddRows(
		row.New(9).Add(
			col.New(12).Add(
				text.New(s.Title, props.Text{
					Size:  11,
					Style: fontstyle.Bold,
					Align: align.Left,
					Top:   2,
				}),
			),
		),
	)

	descWidth := 6
	if s.HasDays {
		descWidth = 5
	}

	headerCell := &props.Cell{BackgroundColor: &props.Color{Red: 31, Green: 41, Blue: 55}}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerLeft := headerText
	headerLeft.Align = align.Left

	headers := []core.Col{
		col.New(1).Add(text.New("#", headerText)).WithStyle(headerCell),
		col.New(descWidth).Add(text.New("Descrição", headerLeft)).WithStyle(headerCell),
		col.New(1).Add(text.New("Qtd", headerText)).WithStyle(headerCell),
	}
	if s.HasDays {
		headers = append(headers, col.New(1).Add(text.New("Dias", headerText)).WithStyle(headerCell))
	}
	headers = append(headers,
		col.New(2).Add(text.New("Unitário", headerText)).WithStyle(headerCell),
		col.New(2).Add(text.New("Subtotal", headerText)).WithStyle(headerCell),
	)
	m.AddRows(row.New(7).Add(headers...))

	altBg := &props.Cell{BackgroundColor: &props.Color{Red: 248, Green: 249, Blue: 250}}
	for i, r := range s.Rows {
		center := props.Text{Size: 8, Align: align.Center}
		leftText := props.Text{Size: 8, Align: align.Left}
		rightText := props.Text{Size: 8, Align: align.Right}

		cols := []core.Col{
			col.New(1).Add(text.New(r.Index, center)),
			col.New(descWidth).Add(text.New(runewidth.Truncate(r.Description, summaryDescCells, "..."), leftText)),
			col.New(1).Add(text.New(strconv.FormatInt(r.Qty, 10), center)),
		}
		if s.HasDays {
			days := "-"
			if r.Days != nil {
				days = strconv.Itoa(*r.Days)
			}
			cols = append(cols, col.New(1).Add(text.New(days, center)))
		}
		cols = append(cols,
			col.New(2).Add(text.New(FormatMoney(r.Currency, r.UnitPrice), rightText)),
			col.New(2).Add(text.New(FormatMoney(r.Currency, r.Subtotal), rightText)),
		)
		if i%2 == 1 {
			for j := range cols {
				cols[j] = cols[j].WithStyle(altBg)
			}
		}
		m.AddRows(row.New(7).Add(cols...))
	}

	totalCell := &props.Cell{BackgroundColor: &props.Color{Red: 243, Green: 244, Blue: 246}}
	bold := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(text.New("Total do bloco", bold)).WithStyle(totalCell),
			col.New(4).Add(text.New(s.TotalLine, bold)).WithStyle(totalCell),
		),
	)
	m.AddRows(row.New(4))
}

func addSummaryTotals(m core.Maroto, data ExportData) {
	m.AddRows(row.New(4))
	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	label := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	scopes := []struct {
		title string
		m     Modality
		show  bool
	}{
		{"Total Modalidade A", ModalityA, hasModalityRows(data, ModalityA)},
		{"Total Modalidade B", ModalityB, hasModalityRows(data, ModalityB)},
		{"Totais consolidados", "", true},
	}
	for _, sc := range scopes {
		if !sc.show {
			continue
		}
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(sc.title, label)).WithStyle(summaryCell),
				col.New(4).Add(text.New(formatTotalsLine(data.Totals.Scope(sc.m), data.Currencies), label)).WithStyle(summaryCell),
			),
		)
	}
}

func addSummaryFooter(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("%s em %s", DefaultBranding, orDash(data.CreatedDate)),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}

func hasModalityRows(data ExportData, m Modality) bool {
	for _, s := range data.Sections {
		if s.Modality == m {
			return true
		}
	}
	return false
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

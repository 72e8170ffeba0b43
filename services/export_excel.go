package services

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the fixed sheets.
const (
	SummarySheet = "Resumo"
	TotalsSheet  = "Totais"
)

var categorySheetNames = map[Category]string{
	CategoryEquipment:    "Equipamentos",
	CategoryAdvisory:     "Assessoria",
	CategoryOperational:  "Operacionais",
	CategoryCertificates: "Certificados",
}

// SectionSheetName returns the worksheet name of a section, e.g. "Equipamentos A".
func SectionSheetName(def SectionDef) string {
	name := categorySheetNames[def.Category] + " " + string(def.Modality)
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}

// GenerateExcel creates the quote workbook: a "Resumo" sheet, one sheet per
// non-empty section in taxonomy order, and a "Totais" sheet. It returns the
// file contents as a byte slice.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, SummarySheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	st, err := newExcelStyles(f, data.Currencies)
	if err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, st, data); err != nil {
		return nil, err
	}
	for _, s := range data.Sections {
		if err := writeSectionSheet(f, st, data, s); err != nil {
			return nil, err
		}
	}
	if err := writeTotalsSheet(f, st, data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// styleIDs holds the style IDs shared by all sheets.
type styleIDs struct {
	title    int
	subtitle int
	header   int
	body     int
	label    int
	money    map[Currency]int
}

func newExcelStyles(f *excelize.File, currencies []Currency) (*styleIDs, error) {
	var st styleIDs
	var err error

	// Title style: bold, 16pt.
	if st.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16, Color: "#2563EB"},
	}); err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	if st.subtitle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	}); err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	// Column header style: bold, white text, charcoal background, centered.
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	}); err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if st.body, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    thinBorders(),
	}); err != nil {
		return nil, fmt.Errorf("create body style: %w", err)
	}

	if st.label, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	}); err != nil {
		return nil, fmt.Errorf("create label style: %w", err)
	}

	// One number format per currency so amounts stay numeric in the sheet.
	st.money = make(map[Currency]int)
	for _, c := range append([]Currency{BRL, USD, EUR}, currencies...) {
		if _, ok := st.money[c]; ok {
			continue
		}
		numFmt := `"` + CurrencySymbol(c) + ` "#,##0.00`
		id, err := f.NewStyle(&excelize.Style{
			Font:         &excelize.Font{Size: 10},
			Border:       thinBorders(),
			CustomNumFmt: &numFmt,
		})
		if err != nil {
			return nil, fmt.Errorf("create money style %s: %w", c, err)
		}
		st.money[c] = id
	}
	return &st, nil
}

func (st *styleIDs) moneyStyle(c Currency) int {
	if id, ok := st.money[c]; ok {
		return id
	}
	return st.money[BRL]
}

func writeHeaderRows(f *excelize.File, st *styleIDs, sheet, title, lastCol string, data ExportData) error {
	// Row 1: title merged across all columns.
	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheet, "A1", sanitizeExcelCell(title))
	f.SetCellStyle(sheet, "A1", lastCol+"1", st.title)

	if data.ReferenceNumber != "" {
		f.SetCellValue(sheet, "A2", "Ref: "+sanitizeExcelCell(data.ReferenceNumber))
		f.SetCellStyle(sheet, "A2", "A2", st.subtitle)
	}
	f.SetCellValue(sheet, "A3", "Data: "+sanitizeExcelCell(orDash(data.CreatedDate)))
	f.SetCellStyle(sheet, "A3", "A3", st.subtitle)
	return nil
}

func writeSummarySheet(f *excelize.File, st *styleIDs, data ExportData) error {
	sheet := SummarySheet
	q := data.Quote
	for col, w := range map[string]float64{"A": 28, "B": 48, "C": 10, "D": 32} {
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("set col width %s: %w", col, err)
		}
	}
	if err := writeHeaderRows(f, st, sheet, data.Title, "D", data); err != nil {
		return err
	}

	row := 5
	for _, kv := range [][2]string{
		{"Cliente", q.ClientName()},
		{"CNPJ", q.CNPJ},
		{"Representante", q.Representative},
		{"Fornecedor", q.Supplier},
		{"Modelo", q.MachineModel},
		{"Validade", strconv.Itoa(q.ValidityDays) + " dias"},
		{"Prazo de entrega", q.DeliveryTime},
	} {
		r := strconv.Itoa(row)
		f.SetCellValue(sheet, "A"+r, kv[0]+":")
		f.SetCellStyle(sheet, "A"+r, "A"+r, st.label)
		f.SetCellValue(sheet, "B"+r, sanitizeExcelCell(orDash(kv[1])))
		row++
	}

	row++
	r := strconv.Itoa(row)
	for i, h := range []string{"Seção", "Planilha", "Itens", "Total"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A"+r, "D"+r, st.header)
	row++

	for _, s := range data.Sections {
		r := strconv.Itoa(row)
		f.SetCellValue(sheet, "A"+r, s.Title)
		f.SetCellValue(sheet, "B"+r, SectionSheetName(s.SectionDef))
		f.SetCellValue(sheet, "C"+r, len(s.Rows))
		f.SetCellValue(sheet, "D"+r, s.TotalLine)
		f.SetCellStyle(sheet, "A"+r, "D"+r, st.body)
		row++
	}
	return nil
}

func writeSectionSheet(f *excelize.File, st *styleIDs, data ExportData, s ExportSection) error {
	sheet := SectionSheetName(s.SectionDef)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	headers := []string{"#", "Descrição", "Qtd"}
	widths := []float64{6, 50, 8}
	if s.HasDays {
		headers = append(headers, "Dias")
		widths = append(widths, 8)
	}
	headers = append(headers, "Moeda", "Unitário", "Subtotal")
	widths = append(widths, 8, 18, 18)

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("set col width %s: %w", col, err)
		}
	}
	if err := writeHeaderRows(f, st, sheet, s.Title, lastCol, data); err != nil {
		return err
	}

	// ── Row 5: column headers ──
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 5)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A5", lastCol+"5", st.header)

	// ── Data rows (starting row 6) ──
	row := 6
	for _, r := range s.Rows {
		values := []any{r.Index, sanitizeExcelCell(r.Description), r.Qty}
		if s.HasDays {
			if r.Days != nil {
				values = append(values, *r.Days)
			} else {
				values = append(values, "")
			}
		}
		values = append(values, string(r.Currency), r.UnitPrice.InexactFloat64(), r.Subtotal.InexactFloat64())

		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		lastText, _ := excelize.CoordinatesToCellName(len(values)-2, row)
		unitCell, _ := excelize.CoordinatesToCellName(len(values)-1, row)
		subtotalCell, _ := excelize.CoordinatesToCellName(len(values), row)
		f.SetCellStyle(sheet, first, lastText, st.body)
		f.SetCellStyle(sheet, unitCell, subtotalCell, st.moneyStyle(r.Currency))
		row++
	}

	// ── Section total ──
	row++
	labelCell, _ := excelize.CoordinatesToCellName(len(headers)-1, row)
	valueCell, _ := excelize.CoordinatesToCellName(len(headers), row)
	f.SetCellValue(sheet, labelCell, "Total do bloco:")
	f.SetCellStyle(sheet, labelCell, labelCell, st.label)
	f.SetCellValue(sheet, valueCell, s.TotalLine)
	return nil
}

func writeTotalsSheet(f *excelize.File, st *styleIDs, data ExportData) error {
	sheet := TotalsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	lastCol, _ := excelize.ColumnNumberToName(1 + len(data.Currencies))
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return fmt.Errorf("set col width A: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", lastCol, 20); err != nil {
		return fmt.Errorf("set col width: %w", err)
	}
	if err := writeHeaderRows(f, st, sheet, "Totais", lastCol, data); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A5", "Escopo")
	for i, c := range data.Currencies {
		cell, _ := excelize.CoordinatesToCellName(i+2, 5)
		f.SetCellValue(sheet, cell, string(c))
	}
	f.SetCellStyle(sheet, "A5", lastCol+"5", st.header)

	scopes := []struct {
		label string
		m     Modality
	}{
		{"Modalidade A (CIF)", ModalityA},
		{"Modalidade B (FOB)", ModalityB},
		{"Total geral", ""},
	}
	for i, sc := range scopes {
		row := 6 + i
		r := strconv.Itoa(row)
		f.SetCellValue(sheet, "A"+r, sc.label)
		f.SetCellStyle(sheet, "A"+r, "A"+r, st.body)
		totals := data.Totals.Scope(sc.m)
		for j, c := range data.Currencies {
			cell, _ := excelize.CoordinatesToCellName(j+2, row)
			f.SetCellValue(sheet, cell, totals.Get(c).InexactFloat64())
			f.SetCellStyle(sheet, cell, cell, st.moneyStyle(c))
		}
	}
	return nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}

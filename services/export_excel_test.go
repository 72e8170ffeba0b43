package services

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func openWorkbook(t *testing.T, b []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytesReader(b))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestGenerateExcel_SheetsFollowTaxonomy(t *testing.T) {
	q, c, _ := layoutFixture(t, 2)

	result, err := GenerateExcel(BuildExportData(q, c))
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	f := openWorkbook(t, result)

	want := []string{"Resumo", "Equipamentos A", "Operacionais A", "Equipamentos B", "Totais"}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sheet %d = %q, want %q", i, got[i], want[i])
		}
	}

	title, _ := f.GetCellValue("Resumo", "A1")
	if title != "Proposta Comercial PROP101626-1" {
		t.Errorf("title = %q", title)
	}
}

func TestGenerateExcel_SectionRows(t *testing.T) {
	q, c, _ := layoutFixture(t, 2)
	result, err := GenerateExcel(BuildExportData(q, c))
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	f := openWorkbook(t, result)

	// Row 6 = first data row, B6 = description, G6 = subtotal (no days column).
	desc, _ := f.GetCellValue("Equipamentos A", "B6")
	if desc != "Componente de reposição" {
		t.Errorf("B6 = %q", desc)
	}
	raw, _ := f.GetCellValue("Equipamentos A", "F6", excelize.Options{RawCellValue: true})
	if raw != "10.5" {
		t.Errorf("subtotal raw value = %q, want 10.5", raw)
	}

	// Service sheet gains the days column.
	header, _ := f.GetCellValue("Operacionais A", "D5")
	if header != "Dias" {
		t.Errorf("D5 = %q, want Dias", header)
	}
	days, _ := f.GetCellValue("Operacionais A", "D6")
	if days != "3" {
		t.Errorf("D6 = %q, want 3", days)
	}
}

func TestGenerateExcel_TotalsSheet(t *testing.T) {
	q, c, _ := layoutFixture(t, 2)
	result, err := GenerateExcel(BuildExportData(q, c))
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	f := openWorkbook(t, result)

	tests := []struct {
		cell string
		want string
	}{
		{"B5", "BRL"},
		{"C5", "USD"},
		{"B6", "521"},  // modality A BRL: 2 × 10.50 + 500
		{"C7", "1000"}, // modality B USD
		{"B8", "521"},  // general BRL
		{"C8", "1000"}, // general USD
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, _ := f.GetCellValue("Totais", tt.cell, excelize.Options{RawCellValue: true})
			if got != tt.want {
				t.Errorf("%s = %q, want %q", tt.cell, got, tt.want)
			}
		})
	}
}

func TestGenerateExcel_EmptyQuote(t *testing.T) {
	result, err := GenerateExcel(BuildExportData(Quote{}, classify(t, nil)))
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	f := openWorkbook(t, result)
	if got := f.GetSheetList(); len(got) != 2 {
		t.Errorf("sheets = %v, want Resumo and Totais only", got)
	}
}

func TestGenerateExcel_SanitizesDescriptions(t *testing.T) {
	c := classify(t, map[string][]RawItem{
		"itemsEquipA": {{"name": "=HYPERLINK(\"http://x\")", "unit": 1}},
	})
	result, err := GenerateExcel(BuildExportData(testQuote(), c))
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	f := openWorkbook(t, result)
	desc, _ := f.GetCellValue("Equipamentos A", "B6")
	if desc[0] != '\'' {
		t.Errorf("formula not neutralized: %q", desc)
	}
}

func TestSectionSheetName(t *testing.T) {
	for _, def := range SectionCatalog {
		name := SectionSheetName(def)
		if len([]rune(name)) > 31 {
			t.Errorf("%s: sheet name %q exceeds 31 chars", def.Key, name)
		}
	}
	seen := map[string]bool{}
	for _, def := range SectionCatalog {
		name := SectionSheetName(def)
		if seen[name] {
			t.Errorf("duplicate sheet name %q", name)
		}
		seen[name] = true
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty string", "", ""},
		{"normal text", "Hello", "Hello"},
		{"starts with equals", "=SUM(A1:A10)", "'=SUM(A1:A10)"},
		{"starts with plus", "+1234", "'+1234"},
		{"starts with minus", "-100", "'-100"},
		{"starts with at", "@import", "'@import"},
		{"starts with tab", "\tdata", "'\tdata"},
		{"starts with pipe", "|command", "'|command"},
		{"starts with carriage return", "\rdata", "'\rdata"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeExcelCell(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestThinBorders(t *testing.T) {
	borders := thinBorders()
	if len(borders) != 4 {
		t.Errorf("thinBorders() returned %d borders, want 4", len(borders))
	}

	sides := map[string]bool{"left": false, "top": false, "bottom": false, "right": false}
	for _, b := range borders {
		sides[b.Type] = true
		if b.Style != 1 {
			t.Errorf("border %s style = %d, want 1 (thin)", b.Type, b.Style)
		}
	}
	for side, found := range sides {
		if !found {
			t.Errorf("missing border side: %s", side)
		}
	}
}

package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateItemTemplate creates the downloadable .xlsx sheet accepted by
// ParseItemFile, with a hidden instructions sheet.
func GenerateItemTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Itens"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	requiredHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	optionalHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	columns := columnLetters(len(ItemColumns))
	for i, col := range ItemColumns {
		cell := columns[i] + "1"
		header := col.Label
		style := optionalHeaderStyle
		if col.Required {
			header += " *"
			style = requiredHeaderStyle
		}
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, style)

		width := float64(len(col.Label)) * 1.3
		if col.Key == "name" {
			width = 50
		} else if width < 15 {
			width = 15
		}
		f.SetColWidth(sheetName, columns[i], columns[i], width)

		if col.Key == "currency" {
			dv := excelize.NewDataValidation(true)
			dv.Sqref = fmt.Sprintf("%s2:%s1048576", columns[i], columns[i])
			names := make([]string, len(BaseCurrencies))
			for j, c := range BaseCurrencies {
				names[j] = string(c)
			}
			dv.SetDropList(names)
			f.AddDataValidation(sheetName, dv)
		}
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addInstructionsSheet(f)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

func addInstructionsSheet(f *excelize.File) {
	instSheet := "Instruções"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", "Importação de Itens - Instruções")
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)

	cols := columnLetters(4)
	for i, h := range []string{"Coluna", "Obrigatória?", "Regra", "Exemplo"} {
		cell := cols[i] + "3"
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}

	for i, col := range ItemColumns {
		row := fmt.Sprintf("%d", i+4)
		req := "Opcional"
		if col.Required {
			req = "Obrigatória"
		}
		f.SetCellValue(instSheet, cols[0]+row, col.Label)
		f.SetCellValue(instSheet, cols[1]+row, req)
		f.SetCellValue(instSheet, cols[2]+row, col.Rule)
		f.SetCellValue(instSheet, cols[3]+row, col.Example)
	}

	for i, w := range []float64{20, 14, 45, 30} {
		f.SetColWidth(instSheet, cols[i], cols[i], w)
	}
	f.SetSheetVisible(instSheet, false)
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}

package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ImportRowError is a single field-level problem on one uploaded row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ItemImportResult is returned after parsing and validating an item sheet.
// Items holds only the rows without errors, ready to be posted as a bucket.
type ItemImportResult struct {
	TotalRows int              `json:"total_rows"`
	ValidRows int              `json:"valid_rows"`
	ErrorRows int              `json:"error_rows"`
	Errors    []ImportRowError `json:"errors"`
	Items     []RawItem        `json:"items"`
	FileName  string           `json:"-"`
}

// ItemColumn is one column of the item sheet.
type ItemColumn struct {
	Key      string
	Label    string
	Aliases  []string
	Required bool
	Rule     string
	Example  string
}

// ItemColumns lists the columns recognized by the item import, in template order.
var ItemColumns = []ItemColumn{
	{Key: "name", Label: "Descrição", Aliases: []string{"descricao", "nome", "item", "name", "description"}, Required: true, Rule: "Texto livre", Example: "Envasadora automática EV-12"},
	{Key: "qty", Label: "Quantidade", Aliases: []string{"qtd", "qtde", "qty", "quantity"}, Rule: "Inteiro maior que zero; padrão 1", Example: "2"},
	{Key: "unit", Label: "Valor Unitário", Aliases: []string{"valor unitario", "valor", "preço", "preco", "unit", "unit price", "price"}, Rule: "Decimal não negativo, ex. 1.234,56 ou 1234.56", Example: "1.500,00"},
	{Key: "currency", Label: "Moeda", Aliases: []string{"currency"}, Rule: "Código de 3 letras; padrão BRL", Example: "BRL"},
	{Key: "days", Label: "Dias", Aliases: []string{"dias", "days", "duração", "duracao"}, Rule: "Inteiro; apenas serviços", Example: "3"},
}

var errTooFewRows = errors.New("file must contain a header row and at least one data row")

// parseCSV reads a CSV file and returns headers + data rows. Semicolon
// separated files, as exported by spreadsheets in pt-BR locales, are detected
// from the header line.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	if header, _, _ := bytes.Cut(raw, []byte("\n")); bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		reader.Comma = ';'
	}

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, errTooFewRows
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, errTooFewRows
	}
	return rows[0], rows[1:], nil
}

// mapHeadersToColumns maps uploaded headers to column keys by label or alias,
// case-insensitively. Unrecognized headers map to "".
func mapHeadersToColumns(headers []string) ([]string, []string) {
	lookup := make(map[string]string)
	for _, c := range ItemColumns {
		lookup[strings.ToLower(c.Label)] = c.Key
		for _, a := range c.Aliases {
			lookup[a] = c.Key
		}
	}

	mapped := make([]string, len(headers))
	var unrecognized []string
	for i, h := range headers {
		norm := strings.TrimSpace(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(h)), " *"))
		if key, ok := lookup[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ParseItemFile parses an uploaded .csv or .xlsx item sheet. Blank rows are
// skipped; rows with errors are reported and left out of Items.
func ParseItemFile(file io.Reader, fileName string) (*ItemImportResult, error) {
	var (
		headers  []string
		dataRows [][]string
		err      error
	)
	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, &ValidationError{Field: "file", Err: errors.New("unsupported file format: must be .csv or .xlsx")}
	}
	if err != nil {
		return nil, &ValidationError{Field: "file", Err: err}
	}

	columnKeys, _ := mapHeadersToColumns(headers)
	if !containsString(columnKeys, "name") {
		return nil, &ValidationError{Field: "file", Err: errors.New("missing required column Descrição")}
	}

	result := &ItemImportResult{FileName: fileName}
	errorRows := make(map[int]bool)
	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		data := make(map[string]string)
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			if v := strings.TrimSpace(row[colIdx]); v != "" {
				data[key] = v
			}
		}
		if len(data) == 0 {
			continue
		}
		result.TotalRows++

		item, rowErrors := validateItemRow(rowNum, data)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			errorRows[rowNum] = true
			continue
		}
		result.Items = append(result.Items, item)
	}

	result.ErrorRows = len(errorRows)
	result.ValidRows = result.TotalRows - result.ErrorRows
	return result, nil
}

func validateItemRow(rowNum int, data map[string]string) (RawItem, []ImportRowError) {
	var errs []ImportRowError
	item := RawItem{}

	if data["name"] == "" {
		errs = append(errs, ImportRowError{Row: rowNum, Field: "Descrição", Message: "Descrição é obrigatória"})
	} else {
		item["name"] = data["name"]
	}

	if v, ok := data["qty"]; ok {
		q, err := parseAmount(v)
		if err != nil || !q.IsInteger() || q.LessThan(decimal.NewFromInt(1)) {
			errs = append(errs, ImportRowError{Row: rowNum, Field: "Quantidade", Message: "Quantidade deve ser um inteiro maior que zero"})
		} else {
			item["qty"] = q.IntPart()
		}
	}

	if v, ok := data["unit"]; ok {
		p, err := parseAmount(v)
		if err != nil || p.IsNegative() {
			errs = append(errs, ImportRowError{Row: rowNum, Field: "Valor Unitário", Message: fmt.Sprintf("Valor unitário inválido: %q", v)})
		} else {
			item["unit"] = p.String()
		}
	}

	if v, ok := data["currency"]; ok {
		c := strings.ToUpper(v)
		if len(c) != 3 || !isLetters(c) {
			errs = append(errs, ImportRowError{Row: rowNum, Field: "Moeda", Message: "Moeda deve ter 3 letras, ex. BRL"})
		} else {
			item["currency"] = c
		}
	}

	if v, ok := data["days"]; ok {
		d, err := parseAmount(v)
		if err != nil || !d.IsInteger() || d.IsNegative() {
			errs = append(errs, ImportRowError{Row: rowNum, Field: "Dias", Message: "Dias deve ser um inteiro"})
		} else if d.IsPositive() {
			item["days"] = d.IntPart()
		}
	}
	return item, errs
}

// parseAmount accepts both "1234.56" and the pt-BR "1.234,56".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	for _, sym := range []string{"R$", "US$", "$", "€"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, sym))
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

func isLetters(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// GenerateImportErrorReport creates a downloadable .xlsx file from row errors.
func GenerateImportErrorReport(rowErrors []ImportRowError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Erros"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Linha")
	f.SetCellValue(sheet, "B1", "Campo")
	f.SetCellValue(sheet, "C1", "Erro")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range rowErrors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}

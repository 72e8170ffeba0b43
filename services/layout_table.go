package services

import "strconv"

type column struct {
	title string
	width float64
	align Align
	value func(n int, it Item) string
}

type tableColumns []column

// Fixed column widths in millimetres; the description column takes the rest.
const (
	colIndexW   = 10.0
	colQtyW     = 14.0
	colDaysW    = 14.0
	colMoneyW   = 33.0
	colMinDescW = 40.0
)

var (
	colIndex = column{title: "#", width: colIndexW, align: AlignCenter,
		value: func(n int, _ Item) string { return strconv.Itoa(n) }}
	colQty = column{title: "Qtd", width: colQtyW, align: AlignCenter,
		value: func(_ int, it Item) string { return strconv.FormatInt(it.Quantity, 10) }}
	colDays = column{title: "Dias", width: colDaysW, align: AlignCenter,
		value: func(_ int, it Item) string {
			if it.Days == nil {
				return "-"
			}
			return strconv.Itoa(*it.Days)
		}}
	colUnit = column{title: "Unitário", width: colMoneyW, align: AlignRight,
		value: func(_ int, it Item) string { return FormatMoney(it.Currency, it.UnitPrice) }}
	colSubtotal = column{title: "Subtotal", width: colMoneyW, align: AlignRight,
		value: func(_ int, it Item) string { return FormatMoney(it.Currency, it.Subtotal()) }}
	colValue = column{title: "Valor", width: colMoneyW, align: AlignRight,
		value: func(_ int, it Item) string { return FormatMoney(it.Currency, it.Subtotal()) }}
)

// columnsFor picks the column set of a section: certificates hide the
// quantity unless configured otherwise, and service sections gain a days
// column when any of their items carries a duration.
func (l *layouter) columnsFor(s Section) tableColumns {
	var cols tableColumns
	switch {
	case s.Category == CategoryCertificates && !l.cfg.CertificatesShowQuantity:
		cols = tableColumns{colIndex, {}, colValue}
	case s.IsService() && hasDays(s.Items):
		cols = tableColumns{colIndex, {}, colQty, colDays, colUnit, colSubtotal}
	default:
		cols = tableColumns{colIndex, {}, colQty, colUnit, colSubtotal}
	}

	desc := l.cfg.contentWidth()
	for i, c := range cols {
		if i != 1 {
			desc -= c.width
		}
	}
	if desc < colMinDescW {
		desc = colMinDescW
	}
	cols[1] = column{title: "Descrição", width: desc, align: AlignLeft,
		value: func(_ int, it Item) string { return it.Name }}
	return cols
}

func hasDays(items []Item) bool {
	for _, it := range items {
		if it.Days != nil {
			return true
		}
	}
	return false
}

// row wraps every cell of item n to its column and returns the cells plus
// the line count of the tallest one.
func (cols tableColumns) row(l *layouter, n int, it Item) ([]Cell, int) {
	cells := make([]Cell, len(cols))
	x := l.left()
	lines := 1
	for i, c := range cols {
		inner := c.width - 2*cellPadding
		wrapped := WrapText(c.value(n, it), l.cfg.columnsFor(inner))
		if len(wrapped) == 0 {
			wrapped = []string{""}
		}
		if len(wrapped) > lines {
			lines = len(wrapped)
		}
		cells[i] = Cell{X: x + cellPadding, W: inner, Lines: wrapped, Align: c.align}
		x += c.width
	}
	return cells, lines
}

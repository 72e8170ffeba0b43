package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol returns the display symbol for a currency code.
// Unknown codes fall back to the Real symbol, as the printed proposals always did.
func CurrencySymbol(c Currency) string {
	switch c {
	case USD:
		return "$"
	case EUR:
		return "€"
	default:
		return "R$"
	}
}

// FormatMoney formats an amount in Brazilian notation prefixed by the currency symbol.
// Thousands are grouped with "." and the decimal separator is ",", always with
// exactly 2 decimal places (e.g., R$ 1.234.567,89).
func FormatMoney(c Currency, amount decimal.Decimal) string {
	return CurrencySymbol(c) + " " + FormatAmount(amount)
}

// FormatAmount formats an amount without symbol: 1234.5 → "1.234,50".
func FormatAmount(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	if negative {
		amount = amount.Neg()
	}

	raw := amount.StringFixed(2)
	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	result := applyThousandsGrouping(intPart) + "," + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// FormatPercent renders a percentage with two places using a decimal comma ("10,00%").
func FormatPercent(p decimal.Decimal) string {
	return strings.Replace(p.StringFixed(2), ".", ",", 1) + "%"
}

// applyThousandsGrouping inserts "." every 3 digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// formatTotalsLine joins the non-zero totals of the given currencies, e.g.
// "R$ 2.000,00 | $ 1.000,00". An all-zero line renders as zero in the first currency.
func formatTotalsLine(totals CurrencyTotals, currencies []Currency) string {
	var parts []string
	for _, c := range currencies {
		if v, ok := totals[c]; ok && !v.IsZero() {
			parts = append(parts, FormatMoney(c, v))
		}
	}
	if len(parts) == 0 {
		first := BRL
		if len(currencies) > 0 {
			first = currencies[0]
		}
		return FormatMoney(first, decimal.Zero)
	}
	return strings.Join(parts, " | ")
}

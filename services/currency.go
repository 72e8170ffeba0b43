package services

import (
	"github.com/shopspring/decimal"
)

// Currency is an ISO currency code. Only BRL, USD and EUR are recognized for
// display, but any code is accepted and summed as-is.
type Currency string

const (
	BRL Currency = "BRL"
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// BaseCurrencies are always present (zero-filled) in every totals scope.
var BaseCurrencies = []Currency{BRL, USD, EUR}

// DefaultCurrency is used when an item carries no currency.
const DefaultCurrency = BRL

// Item is a normalized line entry.
type Item struct {
	Name      string
	Quantity  int64
	UnitPrice decimal.Decimal
	Currency  Currency
	// Days is the optional service duration; nil when not given.
	Days *int
}

// Subtotal is always derived from quantity and unit price.
func (it Item) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
}

// CurrencyTotals maps a currency to an exact decimal sum.
type CurrencyTotals map[Currency]decimal.Decimal

// Get returns the sum for c, or zero.
func (t CurrencyTotals) Get(c Currency) decimal.Decimal {
	if v, ok := t[c]; ok {
		return v
	}
	return decimal.Zero
}

func (t CurrencyTotals) add(other CurrencyTotals) {
	for c, v := range other {
		t[c] = t.Get(c).Add(v)
	}
}

// newCurrencyTotals returns a totals map with every base currency set to zero.
func newCurrencyTotals() CurrencyTotals {
	t := make(CurrencyTotals, len(BaseCurrencies))
	for _, c := range BaseCurrencies {
		t[c] = decimal.Zero
	}
	return t
}

// SumByCurrency sums item subtotals per currency. Unknown currencies are
// summed like any other.
func SumByCurrency(items []Item) CurrencyTotals {
	totals := newCurrencyTotals()
	for _, it := range items {
		totals[it.Currency] = totals.Get(it.Currency).Add(it.Subtotal())
	}
	return totals
}

// UsedCurrencies returns the distinct currencies across all sections in
// first-seen order (taxonomy order, then item order).
func UsedCurrencies(sections []Section) []Currency {
	seen := make(map[Currency]bool)
	var used []Currency
	for _, s := range sections {
		for _, it := range s.Items {
			if !seen[it.Currency] {
				seen[it.Currency] = true
				used = append(used, it.Currency)
			}
		}
	}
	return used
}

// CheckCurrencyCap fails with a TooManyCurrenciesError when more than
// MaxCurrenciesPerQuote currencies are in use.
func CheckCurrencyCap(used []Currency) error {
	if len(used) > MaxCurrenciesPerQuote {
		list := make([]Currency, len(used))
		copy(list, used)
		return &ValidationError{Field: "currency", Err: &TooManyCurrenciesError{Currencies: list}}
	}
	return nil
}

package services

import (
	"github.com/shopspring/decimal"
)

// FormulaCalculator derives charges from a base amount and a settings snapshot.
// Implementations never mutate cfg and never fail: missing keys fall back to
// documented defaults, listed in FormulaResult.DefaultsUsed.
type FormulaCalculator interface {
	Compute(base decimal.Decimal, cfg Settings) FormulaResult
}

// ComponentKind groups components for reporting and item routing.
type ComponentKind string

const (
	KindTax        ComponentKind = "tax"
	KindFee        ComponentKind = "fee"
	KindFreight    ComponentKind = "freight"
	KindConsulting ComponentKind = "consulting"
	KindDiscount   ComponentKind = "discount"
	KindService    ComponentKind = "service"
)

// Component is one named charge of a formula run.
type Component struct {
	Key     string
	Kind    ComponentKind
	Label   string
	Percent decimal.Decimal // zero for fixed-amount components
	Fixed   bool
	Value   decimal.Decimal // rounded to 2 places
}

// ItemName is the line-item label: "Label (10,00%)" for percentage charges.
func (c Component) ItemName() string {
	if c.Fixed {
		return c.Label
	}
	return c.Label + " (" + FormatPercent(c.Percent) + ")"
}

// SyntheticItem is a generated line item with its target section.
type SyntheticItem struct {
	Section SectionKey
	Item    Item
}

// FormulaResult is the output of a formula run.
type FormulaResult struct {
	Base         decimal.Decimal
	Components   []Component
	Items        []SyntheticItem
	DefaultsUsed []ConfigurationDefaultUsed
}

// Component looks up a component by key.
func (r FormulaResult) Component(key string) (Component, bool) {
	for _, c := range r.Components {
		if c.Key == key {
			return c, true
		}
	}
	return Component{}, false
}

var hundred = decimal.NewFromInt(100)

// percentOf returns base × pct / 100 rounded to 2 places.
func percentOf(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred).Round(2)
}

// Sum adds the values of every component of the given kind.
func (r FormulaResult) Sum(kind ComponentKind) decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.Components {
		if c.Kind == kind {
			total = total.Add(c.Value)
		}
	}
	return total
}

// OfKind returns the components of the given kind in order.
func (r FormulaResult) OfKind(kind ComponentKind) []Component {
	var out []Component
	for _, c := range r.Components {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func syntheticItem(section SectionKey, name string, value decimal.Decimal) SyntheticItem {
	return SyntheticItem{
		Section: section,
		Item: Item{
			Name:      name,
			Quantity:  1,
			UnitPrice: value.Round(2),
			Currency:  BRL,
		},
	}
}

// WithSynthetic returns a copy of the payload with the synthetic items
// appended to the buckets of their target sections, so they go through the
// same normalization as user-entered items.
func (p FormPayload) WithSynthetic(items []SyntheticItem) FormPayload {
	out := FormPayload{
		Sections:  make(map[string][]RawItem, len(p.Sections)),
		TechSpec:  p.TechSpec,
		Principle: p.Principle,
	}
	for k, v := range p.Sections {
		out.Sections[k] = append([]RawItem(nil), v...)
	}
	for _, si := range items {
		def, ok := LookupSection(si.Section)
		if !ok {
			continue
		}
		out.Sections[def.Bucket] = append(out.Sections[def.Bucket], RawItem{
			"name":     si.Item.Name,
			"qty":      si.Item.Quantity,
			"unit":     si.Item.UnitPrice.String(),
			"currency": string(si.Item.Currency),
		})
	}
	return out
}

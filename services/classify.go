package services

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Modality is one of the two commercial delivery terms a quote can be priced under.
type Modality string

const (
	ModalityA Modality = "A" // CIF
	ModalityB Modality = "B" // FOB
)

// Category is the kind of line items a section holds.
type Category string

const (
	CategoryEquipment    Category = "equipamentos"
	CategoryAdvisory     Category = "assessoria"
	CategoryOperational  Category = "operacionais"
	CategoryCertificates Category = "certificados"
)

// SectionKey identifies one of the eight taxonomy slots, e.g. "equipamentos_a".
type SectionKey string

// Modality derives the modality from the key's "_a"/"_b" suffix.
func (k SectionKey) Modality() Modality {
	switch {
	case strings.HasSuffix(string(k), "_a"):
		return ModalityA
	case strings.HasSuffix(string(k), "_b"):
		return ModalityB
	}
	return ""
}

const (
	SectionEquipA        SectionKey = "equipamentos_a"
	SectionAdvisoryA     SectionKey = "assessoria_a"
	SectionOperationalA  SectionKey = "operacionais_a"
	SectionCertificatesA SectionKey = "certificados_a"
	SectionEquipB        SectionKey = "equipamentos_b"
	SectionAdvisoryB     SectionKey = "assessoria_b"
	SectionOperationalB  SectionKey = "operacionais_b"
	SectionCertificatesB SectionKey = "certificados_b"
)

// SectionDef describes one taxonomy slot.
type SectionDef struct {
	Key       SectionKey
	Bucket    string // raw form payload key
	Modality  Modality
	Category  Category
	Title     string // full title, e.g. for spreadsheets
	ShortName string // title inside a modality block
}

// SectionCatalog is the fixed taxonomy in display order.
var SectionCatalog = []SectionDef{
	{SectionEquipA, "itemsEquipA", ModalityA, CategoryEquipment, "Modalidade A - Equipamentos (CIF)", "Equipamentos"},
	{SectionAdvisoryA, "itemsAssessoriaA", ModalityA, CategoryAdvisory, "Modalidade A - Serviços de Assessoria (CIF)", "Serviços de Assessoria"},
	{SectionOperationalA, "itemsOperacionaisA", ModalityA, CategoryOperational, "Modalidade A - Serviços Operacionais (CIF)", "Serviços Operacionais e Preventivos"},
	{SectionCertificatesA, "itemsCertificadosA", ModalityA, CategoryCertificates, "Modalidade A - Certificados (CIF)", "Certificados"},
	{SectionEquipB, "itemsEquipB", ModalityB, CategoryEquipment, "Modalidade B - Equipamentos (FOB)", "Equipamentos"},
	{SectionAdvisoryB, "itemsAssessoriaB", ModalityB, CategoryAdvisory, "Modalidade B - Serviços de Assessoria (FOB)", "Serviços de Assessoria"},
	{SectionOperationalB, "itemsOperacionaisB", ModalityB, CategoryOperational, "Modalidade B - Serviços Operacionais (FOB)", "Serviços Operacionais e Preventivos"},
	{SectionCertificatesB, "itemsCertificadosB", ModalityB, CategoryCertificates, "Modalidade B - Certificados (FOB)", "Certificados"},
}

// LookupSection returns the catalog entry for key.
func LookupSection(key SectionKey) (SectionDef, bool) {
	for _, def := range SectionCatalog {
		if def.Key == key {
			return def, true
		}
	}
	return SectionDef{}, false
}

// Section is a populated taxonomy slot.
type Section struct {
	SectionDef
	Items  []Item
	Totals CurrencyTotals
}

// IsService reports whether the section lists services (which carry a days column).
func (s Section) IsService() bool {
	return s.Category == CategoryAdvisory || s.Category == CategoryOperational
}

// RawItem is a loosely shaped line item as posted by the quote form.
type RawItem map[string]any

// FormPayload is the raw form payload: bucket key → raw items, plus the
// free-text technical blocks that travel with it.
type FormPayload struct {
	Sections  map[string][]RawItem `json:"sections"`
	TechSpec  string               `json:"tech_spec,omitempty"`
	Principle string               `json:"principle,omitempty"`
}

var (
	maxQuantity = decimal.NewFromInt(math.MaxInt64)
	maxDays     = decimal.NewFromInt(math.MaxInt32)
)

// NormalizeItem is the single point of coercion from a raw item to an Item.
// Bad input degrades to defaults: quantity 1, unit price 0, currency BRL.
func NormalizeItem(raw RawItem) Item {
	it := Item{
		Name:      strings.TrimSpace(firstString(raw, "name", "description")),
		Quantity:  1,
		UnitPrice: decimal.Zero,
		Currency:  DefaultCurrency,
	}

	if q, ok := toDecimal(firstValue(raw, "qty", "quantity")); ok && !q.GreaterThan(maxQuantity) {
		if n := q.IntPart(); n >= 1 {
			it.Quantity = n
		}
	}

	if p, ok := toDecimal(firstValue(raw, "unit", "unit_price", "price")); ok && !p.IsNegative() {
		it.UnitPrice = p
	}

	if c := strings.ToUpper(strings.TrimSpace(firstString(raw, "currency"))); c != "" {
		it.Currency = Currency(c)
	}

	if v := firstValue(raw, "days", "dias", "duration"); v != nil {
		if s, err := cast.ToStringE(v); err == nil && strings.TrimSpace(s) != "" {
			// Negative or out of range days count as absent.
			if d, ok := toDecimal(v); ok && !d.IsNegative() && !d.GreaterThan(maxDays) {
				days := int(d.IntPart())
				it.Days = &days
			}
		}
	}

	return it
}

// Classify maps the payload buckets onto the fixed eight-slot taxonomy.
// Unknown bucket keys are ignored; empty sections are kept.
func Classify(payload FormPayload) []Section {
	sections := make([]Section, len(SectionCatalog))
	for i, def := range SectionCatalog {
		raws := payload.Sections[def.Bucket]
		items := make([]Item, 0, len(raws))
		for _, raw := range raws {
			items = append(items, NormalizeItem(raw))
		}
		sections[i] = Section{
			SectionDef: def,
			Items:      items,
			Totals:     SumByCurrency(items),
		}
	}
	return sections
}

func firstValue(raw RawItem, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(raw RawItem, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		if s, err := cast.ToStringE(v); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// toDecimal coerces numbers and numeric strings; anything else is rejected.
func toDecimal(v any) (decimal.Decimal, bool) {
	if v == nil {
		return decimal.Zero, false
	}
	if _, isBool := v.(bool); isBool {
		return decimal.Zero, false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

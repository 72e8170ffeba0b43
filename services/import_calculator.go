package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultExchangeRate is used when the caller passes a non-positive rate.
var DefaultExchangeRate = decimal.RequireFromString("5.70")

type chargeDef struct {
	key     string
	kind    ComponentKind
	label   string
	section SectionKey // target section of the synthetic item; "" for none
}

// importCharges is the fixed charge table of the import-duty calculator. All
// percentages and fees default to 0 when not configured.
var importCharges = []chargeDef{
	{"import_tax_ii", KindTax, "Imposto de Importação (II)", SectionAdvisoryA},
	{"import_tax_ipi", KindTax, "IPI", SectionAdvisoryA},
	{"import_tax_pis", KindTax, "PIS", SectionAdvisoryA},
	{"import_tax_cofins", KindTax, "COFINS", SectionAdvisoryA},
	{"import_tax_icms", KindTax, "ICMS", SectionAdvisoryA},
	{"import_tax_afrmm", KindTax, "AFRMM", SectionAdvisoryA},
	{"import_tax_siscomex", KindTax, "Taxa SISCOMEX", SectionAdvisoryA},

	{"import_fee_siscomex_fixed", KindFee, "Taxa SISCOMEX (fixa)", SectionAdvisoryA},
	{"import_fee_despachante", KindFee, "Honorários de despachante", SectionAdvisoryA},
	{"import_fee_honorario_radar", KindFee, "Honorário RADAR", SectionAdvisoryA},
	{"import_fee_armazenagem_porto", KindFee, "Armazenagem portuária", SectionAdvisoryA},
	{"import_fee_despesas_porto", KindFee, "Despesas portuárias", SectionAdvisoryA},
	{"import_fee_licenca_anvisa", KindFee, "Licença ANVISA", SectionAdvisoryA},
	{"import_fee_liberacao_bl", KindFee, "Liberação de BL", SectionAdvisoryA},
	{"import_fee_licenca_importacao", KindFee, "Licença de importação", SectionAdvisoryA},
	{"import_fee_frete_rodoviario", KindFreight, "Frete rodoviário", SectionOperationalA},

	{"import_consultoria_percent", KindConsulting, "Consultoria de importação", SectionAdvisoryA},
	{"import_consultoria_desconto_garantia", KindDiscount, "Desconto garantia", ""},
	{"import_consultoria_desconto_manutencao", KindDiscount, "Desconto manutenção", ""},
}

// Default texts for the consolidated advisory lines.
const (
	DefaultTextConsulting = "Consultoria com acompanhamento e suporte até o recebimento"
	DefaultTextBrokerFees = "Honorários de despachantes e manuseio"
	DefaultTextImport     = "Despesas de importação"
	DefaultTextTransport  = "Transporte até a porta da empresa"
)

// ImportDutyCalculator computes import taxes and fees over a BRL base.
type ImportDutyCalculator struct{}

// Compute applies every percentage independently to base (each rounded to
// 2 places) and adds the fixed fees, which do not scale with base.
// Discounts are computed and reported, never netted.
func (ImportDutyCalculator) Compute(base decimal.Decimal, cfg Settings) FormulaResult {
	r := newSettingsReader(cfg)
	res := FormulaResult{Base: base}

	for _, def := range importCharges {
		raw := r.decimal(def.key, decimal.Zero)
		c := Component{Key: def.key, Kind: def.kind, Label: def.label}
		switch def.kind {
		case KindFee, KindFreight:
			c.Fixed = true
			c.Value = raw.Round(2)
		default:
			c.Percent = raw
			c.Value = percentOf(base, raw)
		}
		res.Components = append(res.Components, c)

		if def.section != "" && !c.Value.IsZero() {
			res.Items = append(res.Items, syntheticItem(def.section, c.ItemName(), c.Value))
		}
	}

	res.DefaultsUsed = r.defaults
	return res
}

// ImportCharges is the full breakdown of an import-duty run.
type ImportCharges struct {
	FormulaResult
	FOB                 decimal.Decimal
	ExchangeRate        decimal.Decimal
	TotalTaxes          decimal.Decimal
	TotalFixedFees      decimal.Decimal // excludes inland freight
	InlandFreight       decimal.Decimal
	Consulting          decimal.Decimal
	WarrantyDiscount    decimal.Decimal
	MaintenanceDiscount decimal.Decimal
	TotalImportExpenses decimal.Decimal // taxes + fixed fees
	TotalCIF            decimal.Decimal // base + import expenses + inland freight
	Texts               ImportTexts
}

// ImportTexts are the labels of the consolidated advisory lines.
type ImportTexts struct {
	Consulting string
	BrokerFees string
	Import     string
	Transport  string
}

// ComputeImportCharges converts the FOB value to BRL and runs the import-duty
// calculator over it.
func ComputeImportCharges(fob, exchangeRate decimal.Decimal, cfg Settings) ImportCharges {
	var extra []ConfigurationDefaultUsed
	if fob.IsNegative() {
		fob = decimal.Zero
	}
	if !exchangeRate.IsPositive() {
		extra = append(extra, ConfigurationDefaultUsed{
			Key: "exchange_rate", Default: DefaultExchangeRate.String(), Reason: "not positive",
		})
		exchangeRate = DefaultExchangeRate
	}

	base := fob.Mul(exchangeRate)
	res := ImportDutyCalculator{}.Compute(base, cfg)

	r := newSettingsReader(cfg)
	texts := ImportTexts{
		Consulting: r.text("import_text_consultoria", DefaultTextConsulting),
		BrokerFees: r.text("import_text_honorarios", DefaultTextBrokerFees),
		Import:     r.text("import_text_importacao", DefaultTextImport),
		Transport:  r.text("import_text_transporte", DefaultTextTransport),
	}
	res.DefaultsUsed = append(append(extra, res.DefaultsUsed...), r.defaults...)

	ic := ImportCharges{
		FormulaResult:  res,
		FOB:            fob,
		ExchangeRate:   exchangeRate,
		TotalTaxes:     res.Sum(KindTax),
		TotalFixedFees: res.Sum(KindFee),
		InlandFreight:  res.Sum(KindFreight),
		Consulting:     res.Sum(KindConsulting),
		Texts:          texts,
	}
	if c, ok := res.Component("import_consultoria_desconto_garantia"); ok {
		ic.WarrantyDiscount = c.Value
	}
	if c, ok := res.Component("import_consultoria_desconto_manutencao"); ok {
		ic.MaintenanceDiscount = c.Value
	}
	ic.TotalImportExpenses = ic.TotalTaxes.Add(ic.TotalFixedFees)
	ic.TotalCIF = base.Add(ic.TotalImportExpenses).Add(ic.InlandFreight)
	return ic
}

// ConsolidatedItems returns the four aggregated advisory lines used by the
// quote form: consulting, broker fees, all import expenses, and transport.
func (ic ImportCharges) ConsolidatedItems() []SyntheticItem {
	broker := decimal.Zero
	if c, ok := ic.Component("import_fee_despachante"); ok {
		broker = c.Value
	}
	return []SyntheticItem{
		syntheticItem(SectionAdvisoryA, ic.Texts.Consulting, ic.Consulting),
		syntheticItem(SectionAdvisoryA, ic.Texts.BrokerFees, broker),
		syntheticItem(SectionAdvisoryA, ic.Texts.Import, ic.TotalImportExpenses),
		syntheticItem(SectionAdvisoryA, ic.Texts.Transport, ic.InlandFreight),
	}
}

// Summary renders a plain-text breakdown of the run.
func (ic ImportCharges) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "RESUMO DO CÁLCULO DE IMPORTAÇÃO\n\n")
	fmt.Fprintf(&b, "Valor FOB: %s (câmbio %s)\n", FormatMoney(USD, ic.FOB), FormatAmount(ic.ExchangeRate))
	fmt.Fprintf(&b, "Valor FOB em BRL: %s\n\n", FormatMoney(BRL, ic.Base))

	fmt.Fprintf(&b, "IMPOSTOS:\n")
	for _, c := range ic.OfKind(KindTax) {
		fmt.Fprintf(&b, "  - %s: %s\n", c.ItemName(), FormatMoney(BRL, c.Value))
	}
	fmt.Fprintf(&b, "  TOTAL IMPOSTOS: %s\n\n", FormatMoney(BRL, ic.TotalTaxes))

	fmt.Fprintf(&b, "DESPESAS FIXAS:\n")
	for _, c := range ic.OfKind(KindFee) {
		fmt.Fprintf(&b, "  - %s: %s\n", c.Label, FormatMoney(BRL, c.Value))
	}
	fmt.Fprintf(&b, "  TOTAL DESPESAS: %s\n\n", FormatMoney(BRL, ic.TotalFixedFees))

	if c, ok := ic.Component("import_consultoria_percent"); ok {
		fmt.Fprintf(&b, "CONSULTORIA (%s): %s\n", FormatPercent(c.Percent), FormatMoney(BRL, c.Value))
	}
	for _, c := range ic.OfKind(KindDiscount) {
		fmt.Fprintf(&b, "  %s (%s, não aplicado): %s\n", c.Label, FormatPercent(c.Percent), FormatMoney(BRL, c.Value))
	}
	fmt.Fprintf(&b, "FRETE RODOVIÁRIO: %s\n", FormatMoney(BRL, ic.InlandFreight))
	fmt.Fprintf(&b, "VALOR TOTAL CIF: %s", FormatMoney(BRL, ic.TotalCIF))
	return b.String()
}

package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultServiceBasePercent is the share of the equipment FOB total that
// forms the service value.
var DefaultServiceBasePercent = decimal.NewFromInt(60)

type serviceDef struct {
	key         string
	percentKey  string
	textKey     string
	label       string
	percent     decimal.Decimal
	defaultText string
}

// serviceTable lists the four services with their default percentages of the
// service value and their fallback descriptions.
var serviceTable = []serviceDef{
	{
		key: "nrs", percentKey: "service_nrs_percent", textKey: "service_nrs_text",
		label: "Adequação às NRs", percent: decimal.NewFromInt(45),
		defaultText: "Adaptações para as Normas NR 10, NR 12, com Laudo técnico e ART.",
	},
	{
		key: "sat", percentKey: "service_sat_percent", textKey: "service_sat_text",
		label: "SAT (Startup e treinamento)", percent: decimal.NewFromInt(26),
		defaultText: "SAT (Startup feito por engenheiros, e suporte de qualificação IQ/OQ e treinamento operacional). Incluindo despesas.",
	},
	{
		key: "garantia", percentKey: "service_garantia_percent", textKey: "service_garantia_text",
		label: "Garantia estendida", percent: decimal.NewFromInt(13),
		defaultText: "Garantia Nacional Extendida (12 meses) - Suporte técnico remoto ilimitado - Até 03 visitas técnicas emergenciais (sem custo de honorários, limitado a 05 dias úteis por visita) Relatório diagnóstico e recomendações",
	},
	{
		key: "preventiva", percentKey: "service_preventiva_percent", textKey: "service_preventiva_text",
		label: "Manutenção preventiva", percent: decimal.NewFromInt(16),
		defaultText: "Plano de Manutenção Preventiva (12 meses) - 04 visitas programadas (trimestral) - Checklist completo de verificação - Validação de calibragem e ajustes Relatórios detalhados de condições e recomendações",
	},
}

// ServiceFeeCalculator splits a service value across the four services.
type ServiceFeeCalculator struct{}

// Compute treats base as the service value: each service takes its configured
// percentage of it, rounded to 2 places, and yields one synthetic item in the
// operational services section.
func (ServiceFeeCalculator) Compute(base decimal.Decimal, cfg Settings) FormulaResult {
	r := newSettingsReader(cfg)
	res := FormulaResult{Base: base}

	for _, def := range serviceTable {
		pct := r.decimal(def.percentKey, def.percent)
		text := r.text(def.textKey, def.defaultText)
		c := Component{
			Key:     def.key,
			Kind:    KindService,
			Label:   def.label,
			Percent: pct,
			Value:   percentOf(base, pct),
		}
		res.Components = append(res.Components, c)
		res.Items = append(res.Items, syntheticItem(SectionOperationalA, text, c.Value))
	}

	res.DefaultsUsed = r.defaults
	return res
}

// ServiceCharges is the full breakdown of a service-fee run.
type ServiceCharges struct {
	FormulaResult
	FOBTotal      decimal.Decimal
	BasePercent   decimal.Decimal
	ServiceValue  decimal.Decimal
	TotalServices decimal.Decimal
}

// ComputeServiceCharges derives the service value from the equipment FOB
// total and splits it across the four services.
func ComputeServiceCharges(fobTotal decimal.Decimal, cfg Settings) ServiceCharges {
	if fobTotal.IsNegative() {
		fobTotal = decimal.Zero
	}
	r := newSettingsReader(cfg)
	basePct := r.decimal("service_base_percent", DefaultServiceBasePercent)
	serviceValue := fobTotal.Mul(basePct).Div(hundred)

	res := ServiceFeeCalculator{}.Compute(serviceValue, cfg)
	res.DefaultsUsed = append(r.defaults, res.DefaultsUsed...)

	return ServiceCharges{
		FormulaResult: res,
		FOBTotal:      fobTotal,
		BasePercent:   basePct,
		ServiceValue:  serviceValue,
		TotalServices: res.Sum(KindService),
	}
}

// Summary renders a plain-text breakdown of the run.
func (sc ServiceCharges) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "RESUMO DO CÁLCULO DE SERVIÇOS\n\n")
	fmt.Fprintf(&b, "Valor FOB total: %s\n", FormatMoney(BRL, sc.FOBTotal))
	fmt.Fprintf(&b, "Percentual base: %s\n", FormatPercent(sc.BasePercent))
	fmt.Fprintf(&b, "Valor total de serviços: %s\n\n", FormatMoney(BRL, sc.ServiceValue))
	for i, c := range sc.Components {
		fmt.Fprintf(&b, "%s: %s\n", c.ItemName(), FormatMoney(BRL, c.Value))
		if i < len(sc.Items) {
			fmt.Fprintf(&b, "   %s\n", sc.Items[i].Item.Name)
		}
	}
	fmt.Fprintf(&b, "\nTOTAL DE SERVIÇOS: %s", FormatMoney(BRL, sc.TotalServices))
	return b.String()
}

package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"proposalbuilder/collections"
	"proposalbuilder/services"
)

type componentView struct {
	Key     string          `json:"key"`
	Kind    string          `json:"kind"`
	Name    string          `json:"name"`
	Percent decimal.Decimal `json:"percent"`
	Fixed   bool            `json:"fixed"`
	Value   decimal.Decimal `json:"value"`
}

type itemView struct {
	Section  string          `json:"section"`
	Name     string          `json:"name"`
	Qty      int64           `json:"qty"`
	Unit     decimal.Decimal `json:"unit"`
	Currency string          `json:"currency"`
}

type defaultView struct {
	Key     string `json:"key"`
	Default string `json:"default"`
	Reason  string `json:"reason"`
}

func componentViews(cs []services.Component) []componentView {
	out := make([]componentView, len(cs))
	for i, c := range cs {
		out[i] = componentView{
			Key:     c.Key,
			Kind:    string(c.Kind),
			Name:    c.ItemName(),
			Percent: c.Percent,
			Fixed:   c.Fixed,
			Value:   c.Value,
		}
	}
	return out
}

func itemViews(items []services.SyntheticItem) []itemView {
	out := make([]itemView, len(items))
	for i, si := range items {
		out[i] = itemView{
			Section:  string(si.Section),
			Name:     si.Item.Name,
			Qty:      si.Item.Quantity,
			Unit:     si.Item.UnitPrice,
			Currency: string(si.Item.Currency),
		}
	}
	return out
}

func defaultViews(defs []services.ConfigurationDefaultUsed) []defaultView {
	out := make([]defaultView, len(defs))
	for i, d := range defs {
		out[i] = defaultView{Key: d.Key, Default: d.Default, Reason: d.Reason}
	}
	return out
}

// HandleImportCalculator runs the import-duty calculator over a FOB value in
// USD. The settings snapshot is read once for the request.
func HandleImportCalculator(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body struct {
			FOB          decimal.Decimal `json:"fob"`
			ExchangeRate decimal.Decimal `json:"exchange_rate"`
		}
		if err := e.BindBody(&body); err != nil {
			return e.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		}

		settings, err := collections.LoadSettings(d.App)
		if err != nil {
			return d.writeError(e, "import_calculator", err)
		}
		ic := services.ComputeImportCharges(body.FOB, body.ExchangeRate, settings)
		d.logDefaults("import_calculator", ic.DefaultsUsed)

		return e.JSON(http.StatusOK, map[string]any{
			"fob":                   ic.FOB,
			"exchange_rate":         ic.ExchangeRate,
			"base":                  ic.Base,
			"components":            componentViews(ic.Components),
			"total_taxes":           ic.TotalTaxes,
			"total_fixed_fees":      ic.TotalFixedFees,
			"inland_freight":        ic.InlandFreight,
			"consulting":            ic.Consulting,
			"warranty_discount":     ic.WarrantyDiscount,
			"maintenance_discount":  ic.MaintenanceDiscount,
			"total_import_expenses": ic.TotalImportExpenses,
			"total_cif":             ic.TotalCIF,
			"items":                 itemViews(ic.Items),
			"consolidated_items":    itemViews(ic.ConsolidatedItems()),
			"defaults_used":         defaultViews(ic.DefaultsUsed),
			"summary":               ic.Summary(),
		})
	}
}

// HandleServiceCalculator splits the service value derived from the
// equipment FOB total across the four services.
func HandleServiceCalculator(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body struct {
			FOBTotal decimal.Decimal `json:"fob_total"`
		}
		if err := e.BindBody(&body); err != nil {
			return e.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		}

		settings, err := collections.LoadSettings(d.App)
		if err != nil {
			return d.writeError(e, "service_calculator", err)
		}
		sc := services.ComputeServiceCharges(body.FOBTotal, settings)
		d.logDefaults("service_calculator", sc.DefaultsUsed)

		return e.JSON(http.StatusOK, map[string]any{
			"fob_total":      sc.FOBTotal,
			"base_percent":   sc.BasePercent,
			"service_value":  sc.ServiceValue,
			"components":     componentViews(sc.Components),
			"total_services": sc.TotalServices,
			"items":          itemViews(sc.Items),
			"defaults_used":  defaultViews(sc.DefaultsUsed),
			"summary":        sc.Summary(),
		})
	}
}

package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

type settingDef struct {
	category    string
	key         string
	value       string
	description string
}

// defaultSettings seeds form_settings on first start. Import taxes and fees
// are left unset so the calculator reports them as defaults until configured.
var defaultSettings = []settingDef{
	{"service_calc", "service_base_percent", "60.00", "Percentual base sobre FOB para calcular o valor total de serviços (%)"},
	{"service_calc", "service_nrs_percent", "45.00", "Percentual de NRs sobre o valor de serviços (%)"},
	{"service_calc", "service_nrs_text", "Adaptações para as Normas NR 10, NR 12, com Laudo técnico e ART.", "Texto padrão para o serviço de NRs"},
	{"service_calc", "service_sat_percent", "26.00", "Percentual de SAT sobre o valor de serviços (%)"},
	{"service_calc", "service_sat_text", "SAT (Startup feito por engenheiros, e suporte de qualificação IQ/OQ e treinamento operacional). Incluindo despesas.", "Texto padrão para o serviço de SAT"},
	{"service_calc", "service_garantia_percent", "13.00", "Percentual de Garantia Estendida sobre o valor de serviços (%)"},
	{"service_calc", "service_garantia_text", "Garantia Nacional Extendida (12 meses) - Suporte técnico remoto ilimitado - Até 03 visitas técnicas emergenciais (sem custo de honorários, limitado a 05 dias úteis por visita) Relatório diagnóstico e recomendações", "Texto padrão para Garantia Estendida"},
	{"service_calc", "service_preventiva_percent", "16.00", "Percentual de Manutenção Preventiva sobre o valor de serviços (%)"},
	{"service_calc", "service_preventiva_text", "Plano de Manutenção Preventiva (12 meses) - 04 visitas programadas (trimestral) - Checklist completo de verificação - Validação de calibragem e ajustes Relatórios detalhados de condições e recomendações", "Texto padrão para Manutenção Preventiva"},

	{"import_calc", "import_text_consultoria", "Consultoria com acompanhamento e suporte até o recebimento", "Descrição do item de consultoria"},
	{"import_calc", "import_text_honorarios", "Honorários de despachantes e manuseio", "Descrição do item de honorários"},
	{"import_calc", "import_text_importacao", "Despesas de importação", "Descrição do item de despesas de importação"},
	{"import_calc", "import_text_transporte", "Transporte até a porta da empresa", "Descrição do item de transporte"},

	{"quote_number", SettingNumberType, "date", "Formato do número da proposta: date ou sequential"},
	{"quote_number", SettingNumberPrefix, "", "Prefixo do número da proposta"},
	{"quote_number", SettingNumberCounter, "1", "Próximo número no formato sequencial"},
}

// SeedDefaultSettings inserts every default setting whose key is missing.
// Existing values are never overwritten, so it is safe on every startup.
func SeedDefaultSettings(app core.App) error {
	col, err := findCollection(app, FormSettingsCollection)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	inserted := 0
	for _, def := range defaultSettings {
		existing, err := findRecordByData(app, col, "key", def.key)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		if existing != nil {
			continue
		}

		record := core.NewRecord(col)
		record.Set("category", def.category)
		record.Set("key", def.key)
		record.Set("value", def.value)
		record.Set("description", def.description)
		if err := app.Save(record); err != nil {
			return fmt.Errorf("seed: failed to insert setting %s: %w", def.key, err)
		}
		inserted++
	}

	if inserted > 0 {
		log.Printf("seed: inserted %d default setting(s)\n", inserted)
	}
	return nil
}

package collections

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// Setting keys read outside the formula calculators.
const (
	SettingNumberType    = "quote_number_type"
	SettingNumberPrefix  = "quote_number_prefix"
	SettingNumberCounter = "quote_number_counter"
)

// SettingRecord is one form_settings row.
type SettingRecord struct {
	Category    string `json:"category"`
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// LoadSettings returns a snapshot of every form setting, keyed by setting key.
// The snapshot is read once per request and handed to the calculators.
func LoadSettings(app core.App) (services.Settings, error) {
	records, err := ListSettings(app)
	if err != nil {
		return nil, err
	}
	snapshot := make(services.Settings, len(records))
	for _, r := range records {
		snapshot[r.Key] = r.Value
	}
	return snapshot, nil
}

// ListSettings returns all settings ordered by category then key.
func ListSettings(app core.App) ([]SettingRecord, error) {
	col, err := findCollection(app, FormSettingsCollection)
	if err != nil {
		return nil, err
	}
	records, err := app.FindRecordsByFilter(col, "id != ''", "category,key", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	out := make([]SettingRecord, len(records))
	for i, r := range records {
		out[i] = SettingRecord{
			Category:    r.GetString("category"),
			Key:         r.GetString("key"),
			Value:       r.GetString("value"),
			Description: r.GetString("description"),
		}
	}
	return out, nil
}

// SaveSettings upserts the given key/value pairs in one transaction.
// Unknown keys are created with the "custom" category.
func SaveSettings(app core.App, values map[string]string) error {
	col, err := findCollection(app, FormSettingsCollection)
	if err != nil {
		return err
	}
	return app.RunInTransaction(func(txApp core.App) error {
		for key, value := range values {
			key = strings.TrimSpace(key)
			if key == "" {
				return &services.ValidationError{Field: "key", Err: fmt.Errorf("setting key must not be empty")}
			}
			record, err := findRecordByData(txApp, col, "key", key)
			if err != nil {
				return err
			}
			if record == nil {
				record = core.NewRecord(col)
				record.Set("category", "custom")
				record.Set("key", key)
			}
			record.Set("value", value)
			if err := txApp.Save(record); err != nil {
				return fmt.Errorf("failed to save setting %s: %w", key, err)
			}
		}
		return nil
	})
}

// nextCounter reads quote_number_counter, stores its successor and returns
// the value read. A missing or unparsable counter starts at 1.
func nextCounter(txApp core.App) (int, error) {
	col, err := findCollection(txApp, FormSettingsCollection)
	if err != nil {
		return 0, err
	}
	record, err := findRecordByData(txApp, col, "key", SettingNumberCounter)
	if err != nil {
		return 0, err
	}
	counter := 1
	if record == nil {
		record = core.NewRecord(col)
		record.Set("category", "quote_number")
		record.Set("key", SettingNumberCounter)
	} else if n, err := strconv.Atoi(strings.TrimSpace(record.GetString("value"))); err == nil && n > 0 {
		counter = n
	}
	record.Set("value", strconv.Itoa(counter+1))
	if err := txApp.Save(record); err != nil {
		return 0, fmt.Errorf("failed to advance quote counter: %w", err)
	}
	return counter, nil
}

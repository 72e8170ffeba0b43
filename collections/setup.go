package collections

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// Collection names.
const (
	QuotesCollection       = "quotes"
	QuoteItemsCollection   = "quote_items"
	FormSettingsCollection = "form_settings"
)

// longText bounds the free-text quote fields (technical specs, notes, terms).
const longText = 100000

// Setup programmatically creates/ensures the quotes, quote_items and
// form_settings collections exist.
func Setup(app core.App) {
	quotes := ensureCollection(app, QuotesCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "quote_code", Required: true})
		c.Fields.Add(&core.TextField{Name: "date"})
		c.Fields.Add(&core.TextField{Name: "company"})
		c.Fields.Add(&core.TextField{Name: "client"})
		c.Fields.Add(&core.TextField{Name: "cnpj"})
		c.Fields.Add(&core.TextField{Name: "machine_model"})
		c.Fields.Add(&core.TextField{Name: "representative"})
		c.Fields.Add(&core.TextField{Name: "supplier"})
		c.Fields.Add(&core.NumberField{Name: "validity_days", OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "delivery_time"})
		c.Fields.Add(&core.TextField{Name: "notes", Max: longText})
		c.Fields.Add(&core.TextField{Name: "tech_spec", Max: longText})
		c.Fields.Add(&core.TextField{Name: "principle", Max: longText})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{services.QuoteStatusDraft, services.QuoteStatusFinal},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "business_status",
			Values:    businessStatusValues(),
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "seller_name"})
		c.Fields.Add(&core.TextField{Name: "contact_email"})
		c.Fields.Add(&core.TextField{Name: "contact_phone"})
		c.Fields.Add(&core.BoolField{Name: "include_payment_conditions"})
		c.Fields.Add(&core.TextField{Name: "payment_intro", Max: longText})
		c.Fields.Add(&core.TextField{Name: "payment_usd_conditions", Max: longText})
		c.Fields.Add(&core.TextField{Name: "payment_brl_intro", Max: longText})
		c.Fields.Add(&core.TextField{Name: "payment_brl_with_sat", Max: longText})
		c.Fields.Add(&core.TextField{Name: "payment_brl_without_sat", Max: longText})
		c.Fields.Add(&core.TextField{Name: "payment_additional_notes", Max: longText})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_quotes_quote_code", true, "quote_code", "")
	})

	ensureCollection(app, QuoteItemsCollection, func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quote",
			Required:      true,
			CollectionId:  quotes.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "section",
			Required:  true,
			Values:    sectionValues(),
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "name", Max: longText})
		c.Fields.Add(&core.NumberField{Name: "qty", OnlyInt: true})
		// decimal string, kept exact
		c.Fields.Add(&core.TextField{Name: "unit_price", Required: true})
		c.Fields.Add(&core.TextField{Name: "currency", Required: true})
		c.Fields.Add(&core.NumberField{Name: "days", OnlyInt: true})
	})

	ensureCollection(app, FormSettingsCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "category"})
		c.Fields.Add(&core.TextField{Name: "key", Required: true})
		c.Fields.Add(&core.TextField{Name: "value", Max: longText})
		c.Fields.Add(&core.TextField{Name: "description"})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_form_settings_key", true, "key", "")
	})
}

func businessStatusValues() []string {
	values := make([]string, len(services.BusinessStatuses))
	for i, s := range services.BusinessStatuses {
		values[i] = string(s)
	}
	return values
}

func sectionValues() []string {
	values := make([]string, len(services.SectionCatalog))
	for i, def := range services.SectionCatalog {
		values[i] = string(def.Key)
	}
	return values
}

// ensureCollection returns the named collection, creating it through
// addFields when it does not exist yet.
func ensureCollection(app core.App, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	log.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}

// findCollection wraps the lookup error with the collection name.
func findCollection(app core.App, name string) (*core.Collection, error) {
	col, err := app.FindCollectionByNameOrId(name)
	if err != nil {
		return nil, fmt.Errorf("collection %s not found: %w", name, err)
	}
	return col, nil
}

// findRecordByData returns nil, nil when no record matches. Any other lookup
// failure is returned.
func findRecordByData(app core.App, col *core.Collection, field string, value any) (*core.Record, error) {
	record, err := app.FindFirstRecordByData(col, field, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s by %s: %w", col.Name, field, err)
	}
	return record, nil
}

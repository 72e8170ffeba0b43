package collections

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// ErrQuoteNotFound is returned when no quote carries the requested code.
var ErrQuoteNotFound = errors.New("quote not found")

// StatusTransitionError rejects a business status change.
type StatusTransitionError struct {
	From services.BusinessStatus
	To   services.BusinessStatus
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("cannot move quote from %q to %q", e.From, e.To)
}

// StoredQuote is a quote as persisted: header, items and business status.
type StoredQuote struct {
	ID             string
	Quote          services.Quote
	Payload        services.FormPayload
	BusinessStatus services.BusinessStatus
}

// ErrQuoteCodeTaken is returned when an insert finds its code already stored.
var ErrQuoteCodeTaken = errors.New("quote code already taken")

// maxNumberAttempts bounds the codes CreateNumberedQuote tries per save.
const maxNumberAttempts = 20

type quoteStore struct {
	quotes *core.Collection
	items  *core.Collection
}

func newQuoteStore(app core.App) (quoteStore, error) {
	quotesCol, err := findCollection(app, QuotesCollection)
	if err != nil {
		return quoteStore{}, err
	}
	itemsCol, err := findCollection(app, QuoteItemsCollection)
	if err != nil {
		return quoteStore{}, err
	}
	return quoteStore{quotes: quotesCol, items: itemsCol}, nil
}

func requireCode(q services.Quote) error {
	if q.Code == "" {
		return &services.ValidationError{Field: "quote_code", Err: errors.New("quote code is required")}
	}
	return nil
}

// SaveQuote upserts the quote keyed by its code and replaces its items with
// the classified ones. New quotes start as "ativa"; an existing quote keeps
// its business status.
func SaveQuote(app core.App, q services.Quote, c services.Classification) (*core.Record, error) {
	q = q.Normalized()
	if err := requireCode(q); err != nil {
		return nil, err
	}
	store, err := newQuoteStore(app)
	if err != nil {
		return nil, err
	}

	var saved *core.Record
	err = app.RunInTransaction(func(txApp core.App) error {
		record, err := findRecordByData(txApp, store.quotes, "quote_code", q.Code)
		if err != nil {
			return err
		}
		if record == nil {
			record = store.newQuote()
		} else if err := store.deleteItems(txApp, record); err != nil {
			return err
		}
		if err := store.write(txApp, record, q, c); err != nil {
			return err
		}
		saved = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// InsertQuote stores a new quote under q.Code and never touches an existing
// one: a taken code fails with ErrQuoteCodeTaken.
func InsertQuote(app core.App, q services.Quote, c services.Classification) (*core.Record, error) {
	q = q.Normalized()
	if err := requireCode(q); err != nil {
		return nil, err
	}
	store, err := newQuoteStore(app)
	if err != nil {
		return nil, err
	}

	var saved *core.Record
	err = app.RunInTransaction(func(txApp core.App) error {
		record, err := store.insert(txApp, q, c)
		if err != nil {
			return err
		}
		saved = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// CreateNumberedQuote assigns the next quote code and inserts the quote in
// the same transaction, so concurrent saves never share a code. A code that
// is already stored is skipped in favor of the next one in the sequence.
func CreateNumberedQuote(app core.App, q services.Quote, c services.Classification, n Numbering, now time.Time) (*core.Record, error) {
	q = q.Normalized()
	store, err := newQuoteStore(app)
	if err != nil {
		return nil, err
	}

	var saved *core.Record
	err = app.RunInTransaction(func(txApp core.App) error {
		for skip := 0; skip < maxNumberAttempts; skip++ {
			code, err := nextQuoteNumber(txApp, n, now, skip)
			if err != nil {
				return err
			}
			q.Code = code
			record, err := store.insert(txApp, q, c)
			if errors.Is(err, ErrQuoteCodeTaken) {
				continue
			}
			if err != nil {
				return err
			}
			saved = record
			return nil
		}
		return fmt.Errorf("no free quote code after %d attempts: %w", maxNumberAttempts, ErrQuoteCodeTaken)
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s quoteStore) newQuote() *core.Record {
	record := core.NewRecord(s.quotes)
	record.Set("business_status", string(services.BusinessActive))
	return record
}

func (s quoteStore) insert(txApp core.App, q services.Quote, c services.Classification) (*core.Record, error) {
	existing, err := findRecordByData(txApp, s.quotes, "quote_code", q.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrQuoteCodeTaken, q.Code)
	}
	record := s.newQuote()
	if err := s.write(txApp, record, q, c); err != nil {
		return nil, err
	}
	return record, nil
}

func (s quoteStore) deleteItems(txApp core.App, record *core.Record) error {
	old, err := txApp.FindAllRecords(s.items, dbx.HashExp{"quote": record.Id})
	if err != nil {
		return fmt.Errorf("failed to load items of %s: %w", record.GetString("quote_code"), err)
	}
	for _, it := range old {
		if err := txApp.Delete(it); err != nil {
			return fmt.Errorf("failed to delete item %s: %w", it.Id, err)
		}
	}
	return nil
}

// write saves the quote header then one item record per classified line.
func (s quoteStore) write(txApp core.App, record *core.Record, q services.Quote, c services.Classification) error {
	setQuoteFields(record, q)
	if err := txApp.Save(record); err != nil {
		return fmt.Errorf("failed to save quote %s: %w", q.Code, err)
	}

	order := 0
	for _, sec := range c.Sections {
		for _, it := range sec.Items {
			order++
			item := core.NewRecord(s.items)
			item.Set("quote", record.Id)
			item.Set("section", string(sec.Key))
			item.Set("sort_order", order)
			item.Set("name", it.Name)
			item.Set("qty", it.Quantity)
			item.Set("unit_price", it.UnitPrice.String())
			item.Set("currency", string(it.Currency))
			if it.Days != nil {
				item.Set("days", *it.Days)
			}
			if err := txApp.Save(item); err != nil {
				return fmt.Errorf("failed to save item %d of %s: %w", order, q.Code, err)
			}
		}
	}
	return nil
}

func setQuoteFields(r *core.Record, q services.Quote) {
	r.Set("quote_code", q.Code)
	r.Set("date", q.Date)
	r.Set("company", q.Company)
	r.Set("client", q.Client)
	r.Set("cnpj", q.CNPJ)
	r.Set("machine_model", q.MachineModel)
	r.Set("representative", q.Representative)
	r.Set("supplier", q.Supplier)
	r.Set("validity_days", q.ValidityDays)
	r.Set("delivery_time", q.DeliveryTime)
	r.Set("notes", q.Notes)
	r.Set("tech_spec", q.TechSpec)
	r.Set("principle", q.Principle)
	r.Set("status", q.Status)
	r.Set("seller_name", q.SellerName)
	r.Set("contact_email", q.ContactEmail)
	r.Set("contact_phone", q.ContactPhone)
	r.Set("include_payment_conditions", q.Payment.Include)
	r.Set("payment_intro", q.Payment.Intro)
	r.Set("payment_usd_conditions", q.Payment.USDConditions)
	r.Set("payment_brl_intro", q.Payment.BRLIntro)
	r.Set("payment_brl_with_sat", q.Payment.BRLWithSAT)
	r.Set("payment_brl_without_sat", q.Payment.BRLWithoutSAT)
	r.Set("payment_additional_notes", q.Payment.AdditionalNotes)
}

func quoteFromRecord(r *core.Record) services.Quote {
	return services.Quote{
		Code:           r.GetString("quote_code"),
		Date:           r.GetString("date"),
		Company:        r.GetString("company"),
		Client:         r.GetString("client"),
		CNPJ:           r.GetString("cnpj"),
		MachineModel:   r.GetString("machine_model"),
		Representative: r.GetString("representative"),
		Supplier:       r.GetString("supplier"),
		ValidityDays:   r.GetInt("validity_days"),
		DeliveryTime:   r.GetString("delivery_time"),
		Notes:          r.GetString("notes"),
		TechSpec:       r.GetString("tech_spec"),
		Principle:      r.GetString("principle"),
		Status:         r.GetString("status"),
		SellerName:     r.GetString("seller_name"),
		ContactEmail:   r.GetString("contact_email"),
		ContactPhone:   r.GetString("contact_phone"),
		Payment: services.PaymentTerms{
			Include:         r.GetBool("include_payment_conditions"),
			Intro:           r.GetString("payment_intro"),
			USDConditions:   r.GetString("payment_usd_conditions"),
			BRLIntro:        r.GetString("payment_brl_intro"),
			BRLWithSAT:      r.GetString("payment_brl_with_sat"),
			BRLWithoutSAT:   r.GetString("payment_brl_without_sat"),
			AdditionalNotes: r.GetString("payment_additional_notes"),
		},
	}.Normalized()
}

// LoadQuote reads a quote and rebuilds its form payload from the stored
// items, in their original order.
func LoadQuote(app core.App, code string) (StoredQuote, error) {
	record, err := findQuoteRecord(app, code)
	if err != nil {
		return StoredQuote{}, err
	}
	itemsCol, err := findCollection(app, QuoteItemsCollection)
	if err != nil {
		return StoredQuote{}, err
	}
	items, err := app.FindRecordsByFilter(itemsCol, "quote = {:quoteId}", "sort_order", 0, 0, map[string]any{"quoteId": record.Id})
	if err != nil {
		return StoredQuote{}, fmt.Errorf("failed to load items of %s: %w", code, err)
	}

	q := quoteFromRecord(record)
	payload := services.FormPayload{
		Sections:  make(map[string][]services.RawItem),
		TechSpec:  q.TechSpec,
		Principle: q.Principle,
	}
	for _, it := range items {
		def, ok := services.LookupSection(services.SectionKey(it.GetString("section")))
		if !ok {
			continue
		}
		raw := services.RawItem{
			"name":     it.GetString("name"),
			"qty":      it.GetInt("qty"),
			"unit":     it.GetString("unit_price"),
			"currency": it.GetString("currency"),
		}
		if days := it.GetInt("days"); days > 0 {
			raw["days"] = days
		}
		payload.Sections[def.Bucket] = append(payload.Sections[def.Bucket], raw)
	}

	return StoredQuote{
		ID:             record.Id,
		Quote:          q,
		Payload:        payload,
		BusinessStatus: businessStatusOf(record),
	}, nil
}

func findQuoteRecord(app core.App, code string) (*core.Record, error) {
	code = strings.TrimSpace(code)
	col, err := findCollection(app, QuotesCollection)
	if err != nil {
		return nil, err
	}
	record, err := findRecordByData(app, col, "quote_code", code)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", ErrQuoteNotFound, code)
	}
	return record, nil
}

func businessStatusOf(r *core.Record) services.BusinessStatus {
	s := services.BusinessStatus(r.GetString("business_status"))
	if s == "" {
		return services.BusinessActive
	}
	return s
}

// UpdateBusinessStatus moves a quote along its commercial lifecycle.
// Written-off quotes stay in storage.
func UpdateBusinessStatus(app core.App, code string, next services.BusinessStatus) error {
	record, err := findQuoteRecord(app, code)
	if err != nil {
		return err
	}
	current := businessStatusOf(record)
	if !current.CanTransition(next) {
		return &StatusTransitionError{From: current, To: next}
	}
	record.Set("business_status", string(next))
	if err := app.Save(record); err != nil {
		return fmt.Errorf("failed to update status of %s: %w", code, err)
	}
	return nil
}

// QuoteStats counts quotes by save status and by business status.
type QuoteStats struct {
	Total      int                            `json:"total"`
	Drafts     int                            `json:"drafts"`
	Completed  int                            `json:"completed"`
	ByBusiness map[services.BusinessStatus]int `json:"by_business"`
}

// CountQuotes computes the dashboard counts.
func CountQuotes(app core.App) (QuoteStats, error) {
	col, err := findCollection(app, QuotesCollection)
	if err != nil {
		return QuoteStats{}, err
	}
	records, err := app.FindAllRecords(col)
	if err != nil {
		return QuoteStats{}, fmt.Errorf("failed to query quotes: %w", err)
	}

	stats := QuoteStats{ByBusiness: make(map[services.BusinessStatus]int, len(services.BusinessStatuses))}
	for _, s := range services.BusinessStatuses {
		stats.ByBusiness[s] = 0
	}
	for _, r := range records {
		stats.Total++
		switch r.GetString("status") {
		case services.QuoteStatusDraft:
			stats.Drafts++
		case services.QuoteStatusFinal:
			stats.Completed++
		}
		stats.ByBusiness[businessStatusOf(r)]++
	}
	return stats, nil
}

package collections_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"proposalbuilder/collections"
	"proposalbuilder/services"
	"proposalbuilder/testhelpers"
)

func TestSaveQuote_RoundTrip(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestQuote(t, app, "PROP1016261", testhelpers.SamplePayload())

	stored, err := collections.LoadQuote(app, "PROP1016261")
	if err != nil {
		t.Fatalf("LoadQuote() error: %v", err)
	}
	if stored.Quote.Company != "Indústria Teste Ltda" {
		t.Errorf("Company = %q", stored.Quote.Company)
	}
	if stored.Quote.Status != services.QuoteStatusDraft {
		t.Errorf("Status = %q, want draft", stored.Quote.Status)
	}
	if stored.Quote.ValidityDays != services.DefaultValidityDays {
		t.Errorf("ValidityDays = %d", stored.Quote.ValidityDays)
	}
	if stored.BusinessStatus != services.BusinessActive {
		t.Errorf("BusinessStatus = %q, want ativa", stored.BusinessStatus)
	}

	c, err := services.ClassifyAndTotal(stored.Payload)
	if err != nil {
		t.Fatalf("reclassify: %v", err)
	}
	if got := c.Totals.ModalityA.Get(services.BRL); !got.Equal(decimal.NewFromInt(4300)) {
		t.Errorf("modality A BRL = %s, want 4300", got)
	}
	if got := c.Totals.ModalityB.Get(services.USD); !got.Equal(decimal.NewFromInt(600)) {
		t.Errorf("modality B USD = %s, want 600", got)
	}

	equip := stored.Payload.Sections["itemsEquipA"]
	if len(equip) != 2 || equip[0]["name"] != "Envasadora automática" || equip[1]["name"] != "Esteira" {
		t.Errorf("equipment order not preserved: %v", equip)
	}
	ops := stored.Payload.Sections["itemsOperacionaisA"]
	if len(ops) != 1 || ops[0]["days"] != 3 {
		t.Errorf("days not preserved: %v", ops)
	}
}

func TestSaveQuote_UpsertReplacesItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	first := testhelpers.CreateTestQuote(t, app, "PROP-UP", testhelpers.SamplePayload())
	if err := collections.UpdateBusinessStatus(app, "PROP-UP", services.BusinessPurchaseOrder); err != nil {
		t.Fatal(err)
	}

	c, _ := services.ClassifyAndTotal(services.FormPayload{Sections: map[string][]services.RawItem{
		"itemsCertificadosB": {{"name": "CE", "unit": "99.90", "currency": "EUR"}},
	}})
	q := services.Quote{Code: "PROP-UP", Company: "Outra", Status: services.QuoteStatusFinal}
	second, err := collections.SaveQuote(app, q, c)
	if err != nil {
		t.Fatalf("SaveQuote() error: %v", err)
	}
	if second.Id != first.Id {
		t.Errorf("upsert created a new record: %s != %s", second.Id, first.Id)
	}

	stored, _ := collections.LoadQuote(app, "PROP-UP")
	if stored.Quote.Company != "Outra" || stored.Quote.Status != services.QuoteStatusFinal {
		t.Errorf("header not updated: %+v", stored.Quote)
	}
	if stored.BusinessStatus != services.BusinessPurchaseOrder {
		t.Errorf("business status reset on upsert: %q", stored.BusinessStatus)
	}
	if len(stored.Payload.Sections) != 1 || len(stored.Payload.Sections["itemsCertificadosB"]) != 1 {
		t.Errorf("old items not replaced: %v", stored.Payload.Sections)
	}
	if got := stored.Payload.Sections["itemsCertificadosB"][0]["unit"]; got != "99.9" {
		t.Errorf("unit price = %v, want exact decimal 99.9", got)
	}
}

func TestSaveQuote_RequiresCode(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	c, _ := services.ClassifyAndTotal(services.FormPayload{})

	_, err := collections.SaveQuote(app, services.Quote{Code: "   "}, c)
	var ve *services.ValidationError
	if !errors.As(err, &ve) || ve.Field != "quote_code" {
		t.Errorf("SaveQuote() error = %v, want ValidationError on quote_code", err)
	}
}

func TestLoadQuote_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	_, err := collections.LoadQuote(app, "NOPE")
	if !errors.Is(err, collections.ErrQuoteNotFound) {
		t.Errorf("LoadQuote() error = %v, want ErrQuoteNotFound", err)
	}
}

func TestUpdateBusinessStatus(t *testing.T) {
	tests := []struct {
		name    string
		steps   []services.BusinessStatus
		wantErr bool
	}{
		{"forward path", []services.BusinessStatus{"pedido_compra", "finalizada"}, false},
		{"write off from active", []services.BusinessStatus{"baixa"}, false},
		{"skip a step", []services.BusinessStatus{"finalizada"}, true},
		{"written off is final", []services.BusinessStatus{"baixa", "ativa"}, true},
		{"unknown status", []services.BusinessStatus{"cancelada"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			testhelpers.CreateTestQuote(t, app, "PROP-S", testhelpers.SamplePayload())

			var err error
			for _, s := range tt.steps {
				if err = collections.UpdateBusinessStatus(app, "PROP-S", s); err != nil {
					break
				}
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			var te *collections.StatusTransitionError
			if tt.wantErr && !errors.As(err, &te) {
				t.Errorf("error = %v, want *StatusTransitionError", err)
			}
		})
	}
}

func TestUpdateBusinessStatus_WrittenOffQuoteIsKept(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestQuote(t, app, "PROP-B", testhelpers.SamplePayload())
	if err := collections.UpdateBusinessStatus(app, "PROP-B", services.BusinessWrittenOff); err != nil {
		t.Fatal(err)
	}
	if _, err := collections.LoadQuote(app, "PROP-B"); err != nil {
		t.Errorf("written-off quote should still load: %v", err)
	}
}

func TestCountQuotes(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestQuote(t, app, "A1", testhelpers.SamplePayload())
	testhelpers.CreateTestQuote(t, app, "A2", testhelpers.SamplePayload())
	c, _ := services.ClassifyAndTotal(services.FormPayload{})
	if _, err := collections.SaveQuote(app, services.Quote{Code: "A3", Status: services.QuoteStatusFinal}, c); err != nil {
		t.Fatal(err)
	}
	if err := collections.UpdateBusinessStatus(app, "A3", services.BusinessPurchaseOrder); err != nil {
		t.Fatal(err)
	}

	stats, err := collections.CountQuotes(app)
	if err != nil {
		t.Fatalf("CountQuotes() error: %v", err)
	}
	if stats.Total != 3 || stats.Drafts != 2 || stats.Completed != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ByBusiness[services.BusinessActive] != 2 || stats.ByBusiness[services.BusinessPurchaseOrder] != 1 {
		t.Errorf("ByBusiness = %v", stats.ByBusiness)
	}
	if _, ok := stats.ByBusiness[services.BusinessWrittenOff]; !ok {
		t.Error("every status should be present, even at zero")
	}
}

func classifiedSample(t *testing.T) services.Classification {
	t.Helper()
	c, err := services.ClassifyAndTotal(testhelpers.SamplePayload())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCreateNumberedQuote_InterleavedNumbering(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	c := classifiedSample(t)
	n := collections.Numbering{Prefix: "PROP", Type: services.NumberingDate}

	// Two requests read the next number before either one stores its quote.
	a, err := collections.GenerateQuoteNumber(app, n, numberingDay)
	if err != nil {
		t.Fatal(err)
	}
	b, err := collections.GenerateQuoteNumber(app, n, numberingDay)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("numbers read before any insert should match: %q, %q", a, b)
	}

	first, err := collections.CreateNumberedQuote(app, services.Quote{Company: "Cliente Um", Status: services.QuoteStatusFinal}, c, n, numberingDay)
	if err != nil {
		t.Fatalf("CreateNumberedQuote() error: %v", err)
	}
	second, err := collections.CreateNumberedQuote(app, services.Quote{Company: "Cliente Dois", Status: services.QuoteStatusFinal}, c, n, numberingDay)
	if err != nil {
		t.Fatalf("CreateNumberedQuote() error: %v", err)
	}

	want := map[string]string{"PROP1016261": "Cliente Um", "PROP1016262": "Cliente Dois"}
	got := []string{first.GetString("quote_code"), second.GetString("quote_code")}
	if got[0] != "PROP1016261" || got[1] != "PROP1016262" {
		t.Fatalf("codes = %v, want [PROP1016261 PROP1016262]", got)
	}
	for code, company := range want {
		stored, err := collections.LoadQuote(app, code)
		if err != nil {
			t.Fatalf("LoadQuote(%s): %v", code, err)
		}
		if stored.Quote.Company != company {
			t.Errorf("%s company = %q, want %q", code, stored.Quote.Company, company)
		}
		if len(stored.Payload.Sections["itemsEquipA"]) != 2 {
			t.Errorf("%s items = %v", code, stored.Payload.Sections)
		}
	}
}

func TestCreateNumberedQuote_SkipsTakenCode(t *testing.T) {
	tests := []struct {
		name  string
		n     collections.Numbering
		taken string
		want  string
	}{
		{"sequential counter behind stored code", collections.Numbering{Prefix: "ORC", Type: services.NumberingSequential}, "ORC000001", "ORC000002"},
		{"date code stored", collections.Numbering{Prefix: "PROP", Type: services.NumberingDate}, "PROP1016261", "PROP1016262"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			if err := collections.SeedDefaultSettings(app); err != nil {
				t.Fatal(err)
			}
			testhelpers.CreateTestQuote(t, app, tt.taken, testhelpers.SamplePayload())

			record, err := collections.CreateNumberedQuote(app, services.Quote{Company: "Outro Cliente"}, classifiedSample(t), tt.n, numberingDay)
			if err != nil {
				t.Fatalf("CreateNumberedQuote() error: %v", err)
			}
			if got := record.GetString("quote_code"); got != tt.want {
				t.Errorf("code = %q, want %q", got, tt.want)
			}
			stored, err := collections.LoadQuote(app, tt.taken)
			if err != nil {
				t.Fatal(err)
			}
			if stored.Quote.Company != "Indústria Teste Ltda" {
				t.Errorf("existing quote overwritten: company = %q", stored.Quote.Company)
			}
		})
	}
}

func TestCreateNumberedQuote_Concurrent(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	c := classifiedSample(t)
	n := collections.Numbering{Prefix: "PROP", Type: services.NumberingDate}

	const saves = 4
	var wg sync.WaitGroup
	errs := make(chan error, saves)
	for i := 0; i < saves; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q := services.Quote{Company: fmt.Sprintf("Cliente %d", i)}
			_, err := collections.CreateNumberedQuote(app, q, c, n, numberingDay)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("CreateNumberedQuote() error: %v", err)
		}
	}

	stats, err := collections.CountQuotes(app)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != saves {
		t.Errorf("stored quotes = %d, want %d", stats.Total, saves)
	}
}

func TestInsertQuote_RejectsTakenCode(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestQuote(t, app, "PROP1016261", testhelpers.SamplePayload())

	_, err := collections.InsertQuote(app, services.Quote{Code: "PROP1016261", Company: "Intruso"}, services.Classification{})
	if !errors.Is(err, collections.ErrQuoteCodeTaken) {
		t.Fatalf("err = %v, want ErrQuoteCodeTaken", err)
	}
	stored, err := collections.LoadQuote(app, "PROP1016261")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Quote.Company != "Indústria Teste Ltda" || len(stored.Payload.Sections["itemsEquipA"]) != 2 {
		t.Errorf("existing quote changed: %+v", stored.Quote)
	}

	if _, err := collections.InsertQuote(app, services.Quote{}, services.Classification{}); err == nil {
		t.Error("InsertQuote without a code should fail")
	}
}

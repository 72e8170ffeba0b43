// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/collections"
	"proposalbuilder/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// SamplePayload is a small two-modality payload: two BRL equipment lines, one
// operational service with days and one USD equipment line under modality B.
func SamplePayload() services.FormPayload {
	return services.FormPayload{
		Sections: map[string][]services.RawItem{
			"itemsEquipA": {
				{"name": "Envasadora automática", "qty": 2, "unit": "1500.00", "currency": "BRL"},
				{"name": "Esteira", "qty": 1, "unit": "800", "currency": "BRL"},
			},
			"itemsOperacionaisA": {
				{"name": "Startup", "unit": "500", "days": 3},
			},
			"itemsEquipB": {
				{"name": "Envasadora automática", "qty": 2, "unit": "300", "currency": "USD"},
			},
		},
	}
}

// CreateTestQuote classifies payload and saves it under code.
func CreateTestQuote(t *testing.T, app core.App, code string, payload services.FormPayload) *core.Record {
	t.Helper()

	c, err := services.ClassifyAndTotal(payload)
	if err != nil {
		t.Fatalf("failed to classify test quote: %v", err)
	}
	q := services.Quote{
		Code:         code,
		Date:         "16/10/2026",
		Company:      "Indústria Teste Ltda",
		MachineModel: "XP-200",
		SellerName:   "Ana Souza",
		ContactEmail: "ana@example.com",
	}
	record, err := collections.SaveQuote(app, q, c)
	if err != nil {
		t.Fatalf("failed to save test quote: %v", err)
	}
	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

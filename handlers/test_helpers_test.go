package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"proposalbuilder/collections"
	"proposalbuilder/services"
	"proposalbuilder/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app core.App, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

var testNow = time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)

// stubPrinter returns its outputs in order, one per call.
type stubPrinter struct {
	calls   int
	results []error
}

func (p *stubPrinter) PrintDocument(_ context.Context, doc services.Document, _ string) ([]byte, error) {
	i := p.calls
	p.calls++
	if i < len(p.results) && p.results[i] != nil {
		return nil, p.results[i]
	}
	return fmt.Appendf(nil, "%%PDF-stub pages=%d", doc.PageCount()), nil
}

func newTestDeps(t *testing.T) (*Deps, *pocketbase.PocketBase) {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	return &Deps{
		App:          app,
		Logger:       zap.NewNop(),
		Layout:       services.DefaultLayoutConfig(),
		Printer:      &stubPrinter{},
		PrintRetries: 2,
		Numbering:    collections.Numbering{Prefix: "PROP", Type: services.NumberingDate},
		Now:          func() time.Time { return testNow },
	}, app
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(method, target, strings.NewReader(string(b)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("response is not JSON: %v\nbody: %s", err, rec.Body.String())
	}
}

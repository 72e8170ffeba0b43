package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"proposalbuilder/services"
	"proposalbuilder/testhelpers"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces to hyphens", "PROP 101626", "PROP-101626"},
		{"slashes to hyphens", "path/to/file", "path-to-file"},
		{"backslashes", "path\\to\\file", "path-to-file"},
		{"colons", "file:name", "file-name"},
		{"mixed", "A / B \\ C : D", "A---B---C---D"},
		{"no special chars", "simple", "simple"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeFilename(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func exportRequest(code, format string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/quotes/"+code+"/export/"+format, nil)
	req.SetPathValue("code", code)
	req.SetPathValue("format", format)
	return req
}

func TestHandleQuoteExport_Formats(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
		filename    string
		prefix      string
	}{
		{"pdf", "application/pdf", "Proposta_PROP-1.pdf", "%PDF-"},
		{"summary", "application/pdf", "Proposta_PROP-1_resumo.pdf", "%PDF-"},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "Proposta_PROP-1.xlsx", "PK"},
		{"html", "text/html", "", "<!DOCTYPE html>"},
		{"print", "application/pdf", "Proposta_PROP-1.pdf", "%PDF-stub"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			d, app := newTestDeps(t)
			testhelpers.CreateTestQuote(t, app, "PROP-1", testhelpers.SamplePayload())
			rec := httptest.NewRecorder()

			if err := HandleQuoteExport(d)(newTestRequestEvent(app, exportRequest("PROP-1", tt.format), rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if tt.filename != "" && !strings.Contains(rec.Header().Get("Content-Disposition"), tt.filename) {
				t.Errorf("Content-Disposition = %q, want %q", rec.Header().Get("Content-Disposition"), tt.filename)
			}
			if !strings.HasPrefix(rec.Body.String(), tt.prefix) {
				t.Errorf("body starts with %q, want %q", truncateBody(rec.Body.String()), tt.prefix)
			}
		})
	}
}

func truncateBody(s string) string {
	if len(s) > 16 {
		return s[:16]
	}
	return s
}

func TestHandleQuoteExport_NotFound(t *testing.T) {
	d, app := newTestDeps(t)
	rec := httptest.NewRecorder()
	if err := HandleQuoteExport(d)(newTestRequestEvent(app, exportRequest("NOPE", "pdf"), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleQuoteExport_UnknownFormat(t *testing.T) {
	d, app := newTestDeps(t)
	testhelpers.CreateTestQuote(t, app, "PROP-1", testhelpers.SamplePayload())
	rec := httptest.NewRecorder()
	if err := HandleQuoteExport(d)(newTestRequestEvent(app, exportRequest("PROP-1", "docx"), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleQuoteExport_LayoutError(t *testing.T) {
	d, app := newTestDeps(t)
	d.Layout.BottomThreshold = 45 // too short for a table header and one row
	testhelpers.CreateTestQuote(t, app, "PROP-1", testhelpers.SamplePayload())
	rec := httptest.NewRecorder()

	if err := HandleQuoteExport(d)(newTestRequestEvent(app, exportRequest("PROP-1", "pdf"), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestHandleQuoteExport_PrintRetries(t *testing.T) {
	timeout := &services.RenderTimeoutError{Backend: "chromium", Timeout: time.Second, Err: context.DeadlineExceeded}
	crash := errors.New("chromium crashed")

	tests := []struct {
		name      string
		results   []error
		retries   int
		wantCode  int
		wantCalls int
	}{
		{"first attempt succeeds", nil, 2, http.StatusOK, 1},
		{"succeeds after timeouts", []error{timeout, timeout}, 2, http.StatusOK, 3},
		{"retries exhausted", []error{timeout, timeout, timeout}, 2, http.StatusGatewayTimeout, 3},
		{"no retries configured", []error{timeout}, 0, http.StatusGatewayTimeout, 1},
		{"other errors are not retried", []error{crash}, 2, http.StatusInternalServerError, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, app := newTestDeps(t)
			printer := &stubPrinter{results: tt.results}
			d.Printer = printer
			d.PrintRetries = tt.retries
			testhelpers.CreateTestQuote(t, app, "PROP-1", testhelpers.SamplePayload())
			rec := httptest.NewRecorder()

			if err := HandleQuoteExport(d)(newTestRequestEvent(app, exportRequest("PROP-1", "print"), rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if printer.calls != tt.wantCalls {
				t.Errorf("printer calls = %d, want %d", printer.calls, tt.wantCalls)
			}
		})
	}
}

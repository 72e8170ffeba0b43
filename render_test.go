package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"proposalbuilder/config"
	"proposalbuilder/services"
)

const sampleQuoteJSON = `{
  "quote": {"quote_code": "PROP1016261", "company": "Indústria Teste Ltda", "status": "Concluída"},
  "payload": {"sections": {
    "itemsEquipA": [{"name": "Envasadora", "qty": 2, "unit": "1500.00", "currency": "BRL"}],
    "itemsEquipB": [{"name": "Rotuladora", "qty": 1, "unit": "300", "currency": "USD"}]
  }}
}`

func writeQuoteFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quote.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderQuoteFile(t *testing.T) {
	path := writeQuoteFile(t, sampleQuoteJSON)
	tests := []struct {
		format string
		prefix string
	}{
		{"pdf", "%PDF-"},
		{"summary", "%PDF-"},
		{"xlsx", "PK"},
		{"html", "<!DOCTYPE html>"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := renderQuoteFile(context.Background(), path, tt.format, services.DefaultLayoutConfig())
			if err != nil {
				t.Fatalf("renderQuoteFile() error = %v", err)
			}
			if !bytes.HasPrefix(out, []byte(tt.prefix)) {
				t.Errorf("output does not start with %q", tt.prefix)
			}
		})
	}
}

func TestRenderQuoteFile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		format string
		want   string
	}{
		{"bad json", "{", "pdf", "parse"},
		{"unknown format", sampleQuoteJSON, "docx", "unknown format"},
		{"too many currencies", `{"payload": {"sections": {"itemsEquipA": [
			{"name": "a", "unit": "1", "currency": "BRL"},
			{"name": "b", "unit": "1", "currency": "USD"},
			{"name": "c", "unit": "1", "currency": "EUR"}]}}}`, "pdf", "currenc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeQuoteFile(t, tt.body)
			_, err := renderQuoteFile(context.Background(), path, tt.format, services.DefaultLayoutConfig())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestRenderCommand_WritesFile(t *testing.T) {
	path := writeQuoteFile(t, sampleQuoteJSON)
	cmd := newRenderCommand(services.DefaultLayoutConfig())
	cmd.SetArgs([]string{path, "--format", "html"})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := strings.TrimSuffix(path, ".json") + ".html"
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected %s: %v", want, err)
	}
	if !strings.Contains(stdout.String(), "wrote") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestLayoutConfig_Overrides(t *testing.T) {
	cfg := &config.Config{}
	cfg.Layout.BottomThreshold = 250
	cfg.Layout.WrapColumns = 80
	cfg.Layout.CertificatesShowQuantity = true
	cfg.Render.Branding = "ACME"

	lc := layoutConfig(cfg)
	if lc.BottomThreshold != 250 || lc.WrapColumns != 80 || !lc.CertificatesShowQuantity || lc.Branding != "ACME" {
		t.Errorf("overrides not applied: %+v", lc)
	}

	def := layoutConfig(&config.Config{})
	if def.BottomThreshold != services.DefaultLayoutConfig().BottomThreshold {
		t.Errorf("zero override changed bottom threshold to %v", def.BottomThreshold)
	}
}

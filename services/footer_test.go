package services

import (
	"strings"
	"testing"
)

func TestStampFooter(t *testing.T) {
	page := Page{
		Number: 2, Width: 210, Height: 297,
		Instructions: []Instruction{{Kind: InstrText, X: 20, Y: 40, Text: "corpo"}},
	}

	got := StampFooter(page, 5, "Gerado pelo Sistema de Orçamentos")

	if len(page.Instructions) != 1 || page.Label != "" {
		t.Fatal("StampFooter modified its input page")
	}
	if got.Label != "Página 2 de 5" {
		t.Errorf("Label = %q, want %q", got.Label, "Página 2 de 5")
	}
	if len(got.Instructions) != 3 {
		t.Fatalf("len(Instructions) = %d, want 3", len(got.Instructions))
	}
	footer := got.Instructions[2]
	if footer.Kind != InstrFooter {
		t.Fatalf("last instruction = %s, want footer", footer.Kind)
	}
	if footer.Y != 297-footerOffset {
		t.Errorf("footer Y = %.1f", footer.Y)
	}
	text := footer.Cells[0].Lines[0] + " / " + footer.Cells[1].Lines[0]
	if !strings.Contains(text, "Sistema de Orçamentos") || !strings.Contains(text, "Página 2 de 5") {
		t.Errorf("footer text = %q", text)
	}
	if footer.Cells[1].Align != AlignRight {
		t.Error("page number should be right aligned")
	}
}

func TestStampFooter_SameInputSameOutput(t *testing.T) {
	page := Page{Number: 1, Width: 210, Height: 297}
	a := StampFooter(page, 3, "x")
	b := StampFooter(page, 3, "x")
	if a.Label != b.Label || len(a.Instructions) != len(b.Instructions) {
		t.Error("StampFooter is not deterministic")
	}
	if c := StampFooter(page, 4, "x"); c.Label != "Página 1 de 4" {
		t.Errorf("Label = %q", c.Label)
	}
}

func TestDocumentInstructions_PageBreaks(t *testing.T) {
	doc := Document{Pages: []Page{
		{Number: 1, Instructions: []Instruction{{Kind: InstrText, Text: "a"}}},
		{Number: 2, Instructions: []Instruction{{Kind: InstrText, Text: "b"}}},
		{Number: 3},
	}}
	flat := doc.Instructions()
	kinds := make([]string, len(flat))
	for i, in := range flat {
		kinds[i] = string(in.Kind)
	}
	want := "text,page_break,text,page_break"
	if strings.Join(kinds, ",") != want {
		t.Errorf("kinds = %s, want %s", strings.Join(kinds, ","), want)
	}
}

func TestStampFooter_Margin(t *testing.T) {
	tests := []struct {
		name   string
		margin float64
		wantX  float64
	}{
		{"page margin", 15, 15},
		{"unset falls back", 0, defaultFooterMargin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StampFooter(Page{Number: 1, Width: 210, Height: 297, Margin: tt.margin}, 1, "x")
			for _, in := range got.Instructions {
				if in.X != tt.wantX || in.W != 210-2*tt.wantX {
					t.Errorf("%s at x=%.1f w=%.1f, want x=%.1f", in.Kind, in.X, in.W, tt.wantX)
				}
			}
			if got.Instructions[1].Cells[0].X != tt.wantX {
				t.Errorf("branding cell x = %.1f", got.Instructions[1].Cells[0].X)
			}
		})
	}
}

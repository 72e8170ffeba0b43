package services

import (
	"reflect"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		columns int
		want    []string
	}{
		{"blank", "   ", 10, nil},
		{"fits", "Prensa hidráulica", 20, []string{"Prensa hidráulica"}},
		{"wraps at word boundary", "um dois três quatro", 9, []string{"um dois", "três", "quatro"}},
		{"hard splits long word", "abcdefghijklmno", 5, []string{"abcde", "fghij", "klmno"}},
		{"long word tail joins next word", "abcdefg hi", 5, []string{"abcde", "fg hi"}},
		{"keeps paragraphs", "linha um\nlinha dois", 20, []string{"linha um", "linha dois"}},
		{"keeps inner blank line", "a\n\nb", 20, []string{"a", "", "b"}},
		{"drops trailing blank lines", "a\n\n\n", 20, []string{"a"}},
		{"collapses spaces", "a    b", 20, []string{"a b"}},
		{"crlf", "a\r\nb", 20, []string{"a", "b"}},
		{"zero columns treated as one", "ab", 0, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.text, tt.columns)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("WrapText(%q, %d) = %q, want %q", tt.text, tt.columns, got, tt.want)
			}
		})
	}
}

func TestWrapText_NeverExceedsWidth(t *testing.T) {
	text := strings.Repeat("Equipamento de envase automático com controle CLP ", 40) +
		strings.Repeat("X", 300) + " 日本語のテキストも折り返す"
	for _, cols := range []int{1, 7, 30, 95} {
		for _, line := range WrapText(text, cols) {
			if w := runewidth.StringWidth(line); w > cols && cols > 1 {
				t.Fatalf("cols=%d: line %q has width %d", cols, line, w)
			}
		}
	}
}

func TestWrapText_WideRunesNotCut(t *testing.T) {
	lines := WrapText("日本語テキスト", 4)
	want := []string{"日本", "語テ", "キス", "ト"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("got %q, want %q", lines, want)
	}
}

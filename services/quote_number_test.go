package services

import (
	"strings"
	"testing"
	"time"
)

func TestFormatQuoteNumbers(t *testing.T) {
	day := time.Date(2026, time.October, 16, 9, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"date based", FormatDateQuoteNumber("PROP", day, 1), "PROP1016261"},
		{"date based no prefix", FormatDateQuoteNumber("", day, 12), "10162612"},
		{"sequential", FormatSequentialQuoteNumber("ORC", 1), "ORC000001"},
		{"sequential wide", FormatSequentialQuoteNumber("", 1234567), "1234567"},
		{"fallback", FallbackQuoteNumber(day), "PROP1792143000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestNextDailySequence(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     int
	}{
		{"first of the day", nil, 1},
		{"after one", []string{"PROP1016261"}, 2},
		{"numeric not lexical max", []string{"PROP1016269", "PROP10162610"}, 11},
		{"ignores other stems", []string{"PROP1015269"}, 1},
		{"ignores non-numeric rest", []string{"PROP101626-x", "PROP1016263"}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextDailySequence("PROP101626", tt.existing); got != tt.want {
				t.Errorf("NextDailySequence() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDraftQuoteCode(t *testing.T) {
	a, b := DraftQuoteCode(), DraftQuoteCode()
	if !strings.HasPrefix(a, "RASCUNHO-") || len(a) != len("RASCUNHO-")+8 {
		t.Errorf("DraftQuoteCode() = %q", a)
	}
	if a == b {
		t.Error("draft codes should differ")
	}
}

package services

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Settings is a read-only snapshot of the configured formula tables
// (percentages, fixed fees, default texts). Values are strings or numbers.
type Settings map[string]any

// Keys returns the snapshot keys in sorted order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// settingsReader resolves keys against a snapshot, falling back to documented
// defaults and recording every fallback.
type settingsReader struct {
	settings Settings
	defaults []ConfigurationDefaultUsed
}

func newSettingsReader(s Settings) *settingsReader {
	return &settingsReader{settings: s}
}

func (r *settingsReader) decimal(key string, def decimal.Decimal) decimal.Decimal {
	v, ok := r.settings[key]
	if !ok || v == nil {
		r.record(key, def.String(), "missing")
		return def
	}
	if s, err := cast.ToStringE(v); err == nil && strings.TrimSpace(s) == "" {
		r.record(key, def.String(), "empty")
		return def
	}
	d, ok := toDecimal(v)
	if !ok {
		r.record(key, def.String(), "not a number")
		return def
	}
	return d
}

func (r *settingsReader) text(key, def string) string {
	v, ok := r.settings[key]
	if !ok || v == nil {
		r.record(key, def, "missing")
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil || strings.TrimSpace(s) == "" {
		r.record(key, def, "empty")
		return def
	}
	return s
}

func (r *settingsReader) record(key, def, reason string) {
	r.defaults = append(r.defaults, ConfigurationDefaultUsed{Key: key, Default: def, Reason: reason})
}

package collections

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	"proposalbuilder/services"
)

// Numbering configures quote code generation.
type Numbering struct {
	Prefix string
	Type   services.NumberingType
}

// WithSettings overrides n with the quote_number_* form settings when set.
func (n Numbering) WithSettings(s services.Settings) Numbering {
	if v, ok := s[SettingNumberType]; ok {
		if t := services.NumberingType(cast.ToString(v)); t == services.NumberingDate || t == services.NumberingSequential {
			n.Type = t
		}
	}
	if v, ok := s[SettingNumberPrefix]; ok {
		n.Prefix = cast.ToString(v)
	}
	return n
}

// GenerateQuoteNumber returns the next quote code without storing a quote.
// Date type: {prefix}{MMDDYY}{n}, n counting the codes already issued that day.
// Sequential type: {prefix}{000001}, from the quote_number_counter setting,
// which this call advances.
// The code is only reserved by CreateNumberedQuote; two calls here can
// return the same date code.
func GenerateQuoteNumber(app core.App, n Numbering, now time.Time) (string, error) {
	var code string
	err := app.RunInTransaction(func(txApp core.App) error {
		var err error
		code, err = nextQuoteNumber(txApp, n, now, 0)
		return err
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// nextQuoteNumber computes a code inside txApp. skip moves a date code past
// that many candidates; the sequential counter advances on every call.
func nextQuoteNumber(txApp core.App, n Numbering, now time.Time, skip int) (string, error) {
	if n.Type == services.NumberingSequential {
		counter, err := nextCounter(txApp)
		if err != nil {
			return "", err
		}
		return services.FormatSequentialQuoteNumber(n.Prefix, counter), nil
	}

	stem := n.Prefix + services.DatePart(now)
	records, err := txApp.FindRecordsByFilter(
		QuotesCollection,
		"quote_code ~ {:stem}",
		"",
		0,
		0,
		map[string]any{"stem": stem + "%"},
	)
	if err != nil {
		return "", fmt.Errorf("failed to query quote codes: %w", err)
	}
	codes := make([]string, len(records))
	for i, r := range records {
		codes[i] = r.GetString("quote_code")
	}
	return services.FormatDateQuoteNumber(n.Prefix, now, services.NextDailySequence(stem, codes)+skip), nil
}

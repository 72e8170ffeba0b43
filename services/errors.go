package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxCurrenciesPerQuote is the hard cap on distinct currencies in one quote.
const MaxCurrenciesPerQuote = 2

// ValidationError reports user data that blocks a save or generate action.
// Field names the offending input; Err carries the specific cause.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// TooManyCurrenciesError is raised when a quote uses more than
// MaxCurrenciesPerQuote distinct currencies. Currencies lists all of them.
type TooManyCurrenciesError struct {
	Currencies []Currency
}

func (e *TooManyCurrenciesError) Error() string {
	names := make([]string, len(e.Currencies))
	for i, c := range e.Currencies {
		names[i] = string(c)
	}
	return fmt.Sprintf("at most %d currencies are allowed per quote, found %d: %s",
		MaxCurrenciesPerQuote, len(e.Currencies), strings.Join(names, ", "))
}

// ConfigurationDefaultUsed records a settings key that was missing or
// unparsable and was replaced by its documented default.
type ConfigurationDefaultUsed struct {
	Key     string
	Default string
	Reason  string
}

func (c ConfigurationDefaultUsed) String() string {
	return fmt.Sprintf("%s: %s, using default %q", c.Key, c.Reason, c.Default)
}

// LayoutError is a fatal configuration error raised by the layout engine,
// e.g. an atomic element taller than the usable page height.
type LayoutError struct {
	Element string
	Height  float64
	Usable  float64
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("layout: %s is %.1fmm tall but the usable page height is %.1fmm",
		e.Element, e.Height, e.Usable)
}

// RenderTimeoutError is returned when a rendering backend exceeds the
// caller-supplied timeout.
type RenderTimeoutError struct {
	Backend string
	Timeout time.Duration
	Err     error
}

func (e *RenderTimeoutError) Error() string {
	return fmt.Sprintf("%s render timed out after %s", e.Backend, e.Timeout)
}

func (e *RenderTimeoutError) Unwrap() error { return e.Err }

// CurrencyViolation extracts the TooManyCurrenciesError from err, if any.
func CurrencyViolation(err error) (*TooManyCurrenciesError, bool) {
	var tm *TooManyCurrenciesError
	if errors.As(err, &tm) {
		return tm, true
	}
	return nil, false
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"proposalbuilder/collections"
	"proposalbuilder/services"
)

// Printer renders a laid-out document to PDF through a browser engine.
type Printer interface {
	PrintDocument(ctx context.Context, doc services.Document, title string) ([]byte, error)
}

// Deps is what every handler needs besides the request.
type Deps struct {
	App          core.App
	Logger       *zap.Logger
	Layout       services.LayoutConfig
	Printer      Printer
	PrintRetries int
	Numbering    collections.Numbering
	Now          func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error      string   `json:"error"`
	Field      string   `json:"field,omitempty"`
	Currencies []string `json:"currencies,omitempty"`
}

// writeError maps domain errors onto HTTP statuses. Currency violations carry
// the full list of currencies found so the form can point at them.
func (d *Deps) writeError(e *core.RequestEvent, op string, err error) error {
	status := http.StatusInternalServerError
	body := errorResponse{Error: err.Error()}

	var (
		ve  *services.ValidationError
		rte *services.RenderTimeoutError
		ste *collections.StatusTransitionError
	)
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
		body.Field = ve.Field
		if tm, ok := services.CurrencyViolation(err); ok {
			for _, c := range tm.Currencies {
				body.Currencies = append(body.Currencies, string(c))
			}
		}
	case errors.Is(err, collections.ErrQuoteNotFound):
		status = http.StatusNotFound
	case errors.Is(err, collections.ErrQuoteCodeTaken):
		status = http.StatusConflict
	case errors.As(err, &ste):
		status = http.StatusConflict
	case errors.As(err, &rte):
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		d.Logger.Error(op+" failed", zap.Error(err))
	} else {
		d.Logger.Info(op+" rejected", zap.Error(err), zap.Int("status", status))
	}
	return e.JSON(status, body)
}

func (d *Deps) logDefaults(op string, defaults []services.ConfigurationDefaultUsed) {
	for _, def := range defaults {
		d.Logger.Warn("setting default used",
			zap.String("op", op),
			zap.String("key", def.Key),
			zap.String("default", def.Default),
			zap.String("reason", def.Reason),
		)
	}
}

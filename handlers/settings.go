package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"proposalbuilder/collections"
)

// HandleSettingsList returns every form setting.
func HandleSettingsList(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := collections.ListSettings(d.App)
		if err != nil {
			return d.writeError(e, "settings_list", err)
		}
		return e.JSON(http.StatusOK, records)
	}
}

// HandleSettingsSave upserts a flat {key: value} object.
func HandleSettingsSave(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var values map[string]string
		if err := e.BindBody(&values); err != nil {
			return e.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		}
		if len(values) == 0 {
			return e.JSON(http.StatusBadRequest, errorResponse{Error: "no settings given"})
		}

		if err := collections.SaveSettings(d.App, values); err != nil {
			return d.writeError(e, "settings_save", err)
		}
		d.Logger.Info("settings updated", zap.Int("count", len(values)))
		return e.JSON(http.StatusOK, map[string]int{"updated": len(values)})
	}
}

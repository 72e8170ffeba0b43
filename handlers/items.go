package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"proposalbuilder/services"
)

const maxItemUpload = 5 << 20

// resolveBucket accepts either a form bucket key (itemsEquipA) or a section
// key (equipamentos_a) and returns the bucket key.
func resolveBucket(s string) (string, bool) {
	for _, def := range services.SectionCatalog {
		if s == def.Bucket || s == string(def.Key) {
			return def.Bucket, true
		}
	}
	return "", false
}

// HandleItemImport parses an uploaded item sheet for one section. With
// ?report=xlsx the row errors are returned as a spreadsheet instead.
func HandleItemImport(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bucket, ok := resolveBucket(e.Request.URL.Query().Get("section"))
		if !ok {
			return e.JSON(http.StatusBadRequest, errorResponse{Error: "unknown section", Field: "section"})
		}

		e.Request.Body = http.MaxBytesReader(e.Response, e.Request.Body, maxItemUpload)
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return e.JSON(http.StatusBadRequest, errorResponse{Error: "missing upload", Field: "file"})
		}
		defer file.Close()

		result, err := services.ParseItemFile(file, header.Filename)
		if err != nil {
			return d.writeError(e, "item_import", err)
		}
		d.Logger.Info("item sheet parsed",
			zap.String("file", header.Filename),
			zap.String("section", bucket),
			zap.Int("valid_rows", result.ValidRows),
			zap.Int("error_rows", result.ErrorRows),
		)

		if e.Request.URL.Query().Get("report") == "xlsx" {
			if len(result.Errors) == 0 {
				return d.writeError(e, "item_import", &services.ValidationError{Field: "report", Err: errors.New("no errors to report")})
			}
			out, err := services.GenerateImportErrorReport(result.Errors)
			if err != nil {
				return d.writeError(e, "item_import", err)
			}
			return attachment(e, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "erros_importacao.xlsx", out)
		}

		return e.JSON(http.StatusOK, map[string]any{
			"section": bucket,
			"result":  result,
		})
	}
}

// HandleItemTemplate serves the blank item sheet.
func HandleItemTemplate(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		out, err := services.GenerateItemTemplate()
		if err != nil {
			return d.writeError(e, "item_template", err)
		}
		return attachment(e, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "modelo_itens.xlsx", out)
	}
}

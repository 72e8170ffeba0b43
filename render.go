package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"proposalbuilder/services"
)

// renderInput is the file read by the render command: the same body the
// preview endpoint accepts.
type renderInput struct {
	Quote   services.Quote       `json:"quote"`
	Payload services.FormPayload `json:"payload"`
}

func newRenderCommand(layout services.LayoutConfig) *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "render <quote.json>",
		Short: "Render a quote file to pdf, summary, xlsx or html without the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := renderQuoteFile(cmd.Context(), args[0], format, layout)
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + renderExt(format)
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			cmd.Printf("wrote %s (%d bytes)\n", output, len(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "output format: pdf, summary, xlsx or html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input name with the format extension)")
	return cmd
}

func renderExt(format string) string {
	switch format {
	case "xlsx":
		return ".xlsx"
	case "html":
		return ".html"
	case "summary":
		return "_resumo.pdf"
	default:
		return ".pdf"
	}
}

// renderQuoteFile classifies, totals and lays out the quote in path and
// renders it in the given format.
func renderQuoteFile(ctx context.Context, path, format string, layout services.LayoutConfig) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var in renderInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	q := in.Quote.Normalized()
	if in.Payload.TechSpec == "" {
		in.Payload.TechSpec = q.TechSpec
	}
	if in.Payload.Principle == "" {
		in.Payload.Principle = q.Principle
	}
	c, err := services.ClassifyAndTotal(in.Payload)
	if err != nil {
		return nil, err
	}

	title := "Proposta Comercial"
	if q.Code != "" {
		title += " " + q.Code
	}

	switch format {
	case "summary":
		return services.GenerateSummaryPDF(services.BuildExportData(q, c))
	case "xlsx":
		return services.GenerateExcel(services.BuildExportData(q, c))
	case "pdf", "html":
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	doc, err := services.LayoutDocument(q, c, layout)
	if err != nil {
		return nil, err
	}
	if format == "html" {
		if ctx == nil {
			ctx = context.Background()
		}
		return services.GenerateHTML(ctx, doc, title)
	}
	return services.GeneratePDF(doc, title)
}

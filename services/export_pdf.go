package services

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
)

// GeneratePDF paints a laid-out document onto an A4 canvas with gofpdf.
// Every instruction is drawn at its own coordinates; page_break starts a
// new page. It returns the raw PDF bytes.
func GeneratePDF(doc Document, title string) ([]byte, error) {
	pdf := paintDocument(doc, title)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to paint PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func paintDocument(doc Document, title string) *gofpdf.Fpdf {
	size := gofpdf.SizeType{Wd: 210, Ht: 297}
	if len(doc.Pages) > 0 {
		size = gofpdf.SizeType{Wd: doc.Pages[0].Width, Ht: doc.Pages[0].Height}
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           size,
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator(DefaultBranding, true)

	// Core fonts are cp1252; translate accents and the euro sign.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	for _, in := range doc.Instructions() {
		if in.Kind == InstrPageBreak {
			pdf.AddPage()
			continue
		}
		paintInstruction(pdf, tr, in)
	}
	return pdf
}

func paintInstruction(pdf *gofpdf.Fpdf, tr func(string) string, in Instruction) {
	st := in.Style

	if in.Kind == InstrRule {
		pdf.SetDrawColor(st.Color[0], st.Color[1], st.Color[2])
		pdf.SetLineWidth(0.3)
		pdf.Line(in.X, in.Y, in.X+in.W, in.Y+in.H)
		return
	}

	if in.H > 0 && (st.Fill != nil || st.Border) {
		mode := ""
		if st.Fill != nil {
			pdf.SetFillColor(st.Fill[0], st.Fill[1], st.Fill[2])
			mode += "F"
		}
		if st.Border {
			pdf.SetDrawColor(colorGrid[0], colorGrid[1], colorGrid[2])
			pdf.SetLineWidth(0.2)
			mode += "D"
		}
		pdf.Rect(in.X, in.Y, in.W, in.H, mode)
	}

	fontStyle := ""
	if st.Bold {
		fontStyle = "B"
	}
	size := st.Size
	if size == 0 {
		size = 10
	}
	pdf.SetFont("Helvetica", fontStyle, size)
	pdf.SetTextColor(st.Color[0], st.Color[1], st.Color[2])

	lh := in.LineHeight
	if lh <= 0 {
		lh = in.H
	}
	if lh <= 0 {
		lh = 5
	}

	if len(in.Cells) > 0 {
		n := 0
		for _, c := range in.Cells {
			if len(c.Lines) > n {
				n = len(c.Lines)
			}
		}
		top := in.Y + centerOffset(in.H, lh, n)
		for _, c := range in.Cells {
			paintLines(pdf, tr, c.X, top, c.W, lh, c.Lines, c.Align)
		}
		return
	}

	lines := in.TextLines()
	paintLines(pdf, tr, in.X, in.Y+centerOffset(in.H, lh, len(lines)), in.W, lh, lines, st.Align)
}

func paintLines(pdf *gofpdf.Fpdf, tr func(string) string, x, y, w, lh float64, lines []string, a Align) {
	if a == "" {
		a = AlignLeft
	}
	for i, line := range lines {
		pdf.SetXY(x, y+float64(i)*lh)
		pdf.CellFormat(w, lh, tr(line), "", 0, string(a)+"M", false, 0, "")
	}
}

// centerOffset vertically centers n lines inside a box of height h.
func centerOffset(h, lh float64, n int) float64 {
	off := (h - float64(n)*lh) / 2
	if off < 0 {
		return 0
	}
	return off
}

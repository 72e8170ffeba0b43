package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

const previewCSS = `@page{size:A4;margin:0}
body{margin:0;background:#e5e7eb;font-family:Helvetica,Arial,sans-serif}
.page{position:relative;margin:0 auto 8mm;background:#fff;box-shadow:0 1px 4px rgba(0,0,0,.2);overflow:hidden;page-break-after:always;break-after:page}
.page:last-child{page-break-after:auto;break-after:auto}
.i,.c{position:absolute;box-sizing:border-box;white-space:pre;overflow:hidden}
@media print{body{background:#fff}.page{margin:0;box-shadow:none}}`

// PreviewComponent renders a laid-out document as HTML: one sheet per page,
// every instruction an absolutely positioned box in millimetres, so the
// preview matches the PDF canvas.
func PreviewComponent(doc Document, title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html><html lang=\"pt-BR\"><head><meta charset=\"utf-8\"><title>")
		b.WriteString(templ.EscapeString(title))
		b.WriteString("</title><style>")
		b.WriteString(previewCSS)
		b.WriteString("</style></head><body>")

		for _, p := range doc.Pages {
			fmt.Fprintf(&b, `<div class="page" data-page="%d" style="width:%smm;height:%smm">`,
				p.Number, mm(p.Width), mm(p.Height))
			for _, in := range p.Instructions {
				writeInstructionHTML(&b, in)
			}
			b.WriteString("</div>")
		}
		b.WriteString("</body></html>")

		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// GenerateHTML renders the preview component to bytes.
func GenerateHTML(ctx context.Context, doc Document, title string) ([]byte, error) {
	var buf bytes.Buffer
	if err := PreviewComponent(doc, title).Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("render html preview: %w", err)
	}
	return buf.Bytes(), nil
}

func writeInstructionHTML(b *strings.Builder, in Instruction) {
	st := in.Style
	var css strings.Builder
	fmt.Fprintf(&css, "left:%smm;top:%smm;width:%smm;", mm(in.X), mm(in.Y), mm(in.W))

	if in.Kind == InstrRule {
		fmt.Fprintf(&css, "height:0;border-top:0.3mm solid %s", rgbCSS(st.Color))
		fmt.Fprintf(b, `<div class="i" data-kind="%s" style="%s"></div>`, in.Kind, css.String())
		return
	}

	fmt.Fprintf(&css, "height:%smm;", mm(in.H))
	if st.Size > 0 {
		fmt.Fprintf(&css, "font-size:%spt;", mm(st.Size))
	}
	if st.Bold {
		css.WriteString("font-weight:bold;")
	}
	fmt.Fprintf(&css, "color:%s;", rgbCSS(st.Color))
	if st.Fill != nil {
		fmt.Fprintf(&css, "background:%s;", rgbCSS(*st.Fill))
	}
	if st.Border {
		fmt.Fprintf(&css, "border:0.2mm solid %s;", rgbCSS(colorGrid))
	}
	lh := in.LineHeight
	if lh <= 0 {
		lh = in.H
	}
	if lh > 0 {
		fmt.Fprintf(&css, "line-height:%smm;", mm(lh))
	}

	fmt.Fprintf(b, `<div class="i" data-kind="%s" style="%s">`, in.Kind, css.String())
	if len(in.Cells) > 0 {
		n := 0
		for _, c := range in.Cells {
			if len(c.Lines) > n {
				n = len(c.Lines)
			}
		}
		top := centerOffset(in.H, lh, n)
		for _, c := range in.Cells {
			fmt.Fprintf(b, `<div class="c" style="left:%smm;top:%smm;width:%smm;text-align:%s">`,
				mm(c.X-in.X), mm(top), mm(c.W), textAlign(c.Align))
			writeLines(b, c.Lines)
			b.WriteString("</div>")
		}
	} else if lines := in.TextLines(); len(lines) > 0 {
		fmt.Fprintf(b, `<div class="c" style="left:0;top:%smm;width:100%%;text-align:%s">`,
			mm(centerOffset(in.H, lh, len(lines))), textAlign(st.Align))
		writeLines(b, lines)
		b.WriteString("</div>")
	}
	b.WriteString("</div>")
}

func writeLines(b *strings.Builder, lines []string) {
	for i, line := range lines {
		if i > 0 {
			b.WriteString("<br>")
		}
		b.WriteString(templ.EscapeString(line))
	}
}

func mm(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func rgbCSS(c RGB) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c[0], c[1], c[2])
}

func textAlign(a Align) string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

package services

import "fmt"

// defaultFooterMargin is used for pages built without a side margin.
const defaultFooterMargin = 20.0

// PageLabel is the page numbering text, "Página i de N".
func PageLabel(number, total int) string {
	return fmt.Sprintf("Página %d de %d", number, total)
}

// StampFooter returns a copy of page with its footer added: a rule, the
// branding text on the left and the page numbering on the right. It only
// depends on its arguments, so it runs after all pages are laid out.
func StampFooter(page Page, total int, branding string) Page {
	out := page
	out.Label = PageLabel(page.Number, total)
	out.Instructions = make([]Instruction, len(page.Instructions), len(page.Instructions)+2)
	copy(out.Instructions, page.Instructions)

	margin := page.Margin
	if margin <= 0 {
		margin = defaultFooterMargin
	}
	y := page.Height - footerOffset
	w := page.Width - 2*margin
	style := Style{Size: 8, Color: colorFooter}
	out.Instructions = append(out.Instructions,
		Instruction{Kind: InstrRule, X: margin, Y: y - 2, W: w, Style: Style{Color: colorGrid}},
		Instruction{
			Kind: InstrFooter, X: margin, Y: y, W: w, H: 4, LineHeight: 4,
			Cells: []Cell{
				{X: margin, W: w / 2, Lines: []string{branding}, Align: AlignLeft},
				{X: margin + w/2, W: w / 2, Lines: []string{out.Label}, Align: AlignRight},
			},
			Style: style,
		},
	)
	return out
}

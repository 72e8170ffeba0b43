package services

import (
	"errors"
	"fmt"
	"strconv"
)

// InstructionKind names a drawable produced by the layout engine.
type InstructionKind string

const (
	InstrPageBreak    InstructionKind = "page_break"
	InstrHeaderBand   InstructionKind = "header_band"
	InstrTitle        InstructionKind = "title"
	InstrHeading      InstructionKind = "heading"
	InstrText         InstructionKind = "text"
	InstrRule         InstructionKind = "line"
	InstrBox          InstructionKind = "rect"
	InstrDataRow      InstructionKind = "data_row"
	InstrBanner       InstructionKind = "modality_banner"
	InstrSectionTitle InstructionKind = "section_title"
	InstrTableHeader  InstructionKind = "table_header"
	InstrTableRow     InstructionKind = "table_row"
	InstrTotalsRow    InstructionKind = "totals_row"
	InstrFooter       InstructionKind = "footer"
)

// Align is a horizontal text alignment, using gofpdf's letters.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// RGB is a color with 0-255 channels.
type RGB [3]int

var (
	colorText      = RGB{17, 24, 39}
	colorMuted     = RGB{75, 85, 99}
	colorBrand     = RGB{37, 99, 235}
	colorWhite     = RGB{255, 255, 255}
	colorModalityA = RGB{220, 38, 38}
	colorModalityB = RGB{31, 41, 55}
	colorGrid      = RGB{229, 231, 235}
	colorHeader    = RGB{243, 244, 246}
	colorFooter    = RGB{128, 128, 128}
)

func fill(c RGB) *RGB { return &c }

// Style carries the paint attributes of an instruction. Size is in points.
type Style struct {
	Size   float64 `json:"size,omitempty"`
	Bold   bool    `json:"bold,omitempty"`
	Color  RGB     `json:"color"`
	Fill   *RGB    `json:"fill,omitempty"`
	Border bool    `json:"border,omitempty"`
	Align  Align   `json:"align,omitempty"`
}

// Cell is one column of a row-like instruction. Lines are already wrapped.
type Cell struct {
	X     float64  `json:"x"`
	W     float64  `json:"w"`
	Lines []string `json:"lines"`
	Align Align    `json:"align,omitempty"`
}

// Instruction is one positioned drawable. Coordinates are millimetres from
// the top-left page corner; Y is the top of the element's box. Text is drawn
// from Lines (or Text when Lines is empty), or per column from Cells.
type Instruction struct {
	Kind       InstructionKind `json:"kind"`
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	W          float64         `json:"w,omitempty"`
	H          float64         `json:"h,omitempty"`
	LineHeight float64         `json:"line_height,omitempty"`
	Text       string          `json:"text,omitempty"`
	Lines      []string        `json:"lines,omitempty"`
	Cells      []Cell          `json:"cells,omitempty"`
	Style      Style           `json:"style"`
}

// TextLines returns the lines to paint for a non-cell instruction.
func (in Instruction) TextLines() []string {
	if len(in.Lines) > 0 {
		return in.Lines
	}
	if in.Text != "" {
		return []string{in.Text}
	}
	return nil
}

// Page is one laid-out page.
type Page struct {
	Number       int           `json:"number"`
	Width        float64       `json:"width"`
	Height       float64       `json:"height"`
	Label        string        `json:"label,omitempty"` // "Página i de N", set by StampFooter
	Margin       float64       `json:"margin"`          // side margin the footer aligns to
	Instructions []Instruction `json:"instructions"`
}

// Document is the output of LayoutDocument: footer-stamped pages in order.
type Document struct {
	Pages []Page `json:"pages"`
}

// PageCount is the number of pages.
func (d Document) PageCount() int { return len(d.Pages) }

// Instructions flattens the pages into one ordered list with a page_break
// instruction between consecutive pages.
func (d Document) Instructions() []Instruction {
	var out []Instruction
	for i, p := range d.Pages {
		if i > 0 {
			out = append(out, Instruction{Kind: InstrPageBreak})
		}
		out = append(out, p.Instructions...)
	}
	return out
}

// Element heights in millimetres.
const (
	bandGap        = 4.0
	titleHeight    = 12.0
	subtitleHeight = 8.0
	headingHeight  = 9.0
	bannerHeight   = 9.0
	sectionHeight  = 8.0
	tableHeadH     = 7.0
	totalsRowH     = 7.0
	rowPadding     = 2.0
	cellPadding    = 1.5
	blockGap       = 6.0
	boxPadding     = 3.0
	footerOffset   = 10.0
	footerReserve  = 14.0
)

// DefaultBranding is printed in every page footer.
const DefaultBranding = "Gerado pelo Sistema de Orçamentos"

// DefaultTerms are the fixed paragraphs of the terms and warranty page.
var DefaultTerms = []string{
	"Garantia de 12 meses contra defeitos de fabricação, contados a partir da data de instalação, desde que o equipamento seja operado conforme o manual do fabricante.",
	"Não estão cobertos pela garantia danos causados por uso inadequado, instalação elétrica fora das especificações ou intervenção de terceiros não autorizados.",
	"Impostos, taxas e fretes não mencionados nesta proposta são de responsabilidade do comprador.",
}

// LayoutConfig holds the page geometry and the variant switches of the
// layout engine. Lengths are millimetres.
type LayoutConfig struct {
	PageWidth        float64
	PageHeight       float64
	TopMargin        float64
	SideMargin       float64
	BottomThreshold  float64
	HeaderBandHeight float64
	LineHeight       float64
	// WrapColumns is the display width, in cells, of a full-width text line.
	WrapColumns int

	CertificatesShowQuantity bool
	RepeatTableHeader        bool

	Branding string
	Terms    []string
}

// DefaultLayoutConfig returns the A4 portrait layout used by every backend.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		PageWidth:         210,
		PageHeight:        297,
		TopMargin:         20,
		SideMargin:        20,
		BottomThreshold:   270,
		HeaderBandHeight:  10,
		LineHeight:        5,
		WrapColumns:       95,
		RepeatTableHeader: true,
		Branding:          DefaultBranding,
		Terms:             DefaultTerms,
	}
}

func (c LayoutConfig) contentWidth() float64 { return c.PageWidth - 2*c.SideMargin }

func (c LayoutConfig) contentTop() float64 { return c.TopMargin + c.HeaderBandHeight + bandGap }

func (c LayoutConfig) usableHeight() float64 { return c.BottomThreshold - c.contentTop() }

// columnsFor scales WrapColumns down to a box of the given width.
func (c LayoutConfig) columnsFor(width float64) int {
	n := int(float64(c.WrapColumns) * width / c.contentWidth())
	if n < 1 {
		n = 1
	}
	return n
}

func (c LayoutConfig) rowHeight(lines int) float64 {
	return float64(lines)*c.LineHeight + rowPadding
}

func totalsBlockHeight(currencies int) float64 {
	return totalsRowH * float64(1+currencies)
}

// tallestAtomicUnit is the tallest element every layout must be able to
// place on an empty page.
func (c LayoutConfig) tallestAtomicUnit() float64 {
	tallest := tableHeadH + c.rowHeight(1)
	for _, h := range []float64{
		bannerHeight,
		totalsBlockHeight(MaxCurrenciesPerQuote),
		c.contactBoxHeight(4),
	} {
		if h > tallest {
			tallest = h
		}
	}
	return tallest
}

func (c LayoutConfig) contactBoxHeight(lines int) float64 {
	return float64(lines)*c.LineHeight + 2*boxPadding
}

// Validate rejects geometry the engine cannot lay out.
func (c LayoutConfig) Validate() error {
	if c.PageWidth <= 0 || c.PageHeight <= 0 {
		return fmt.Errorf("layout: page size %.1fx%.1f must be positive", c.PageWidth, c.PageHeight)
	}
	if c.LineHeight <= 0 {
		return errors.New("layout: line height must be positive")
	}
	if c.WrapColumns < 1 {
		return errors.New("layout: wrap columns must be at least 1")
	}
	if c.contentWidth() <= 0 {
		return fmt.Errorf("layout: side margin %.1f leaves no content width", c.SideMargin)
	}
	if c.BottomThreshold > c.PageHeight-footerReserve {
		return fmt.Errorf("layout: bottom threshold %.1f overlaps the footer (max %.1f)",
			c.BottomThreshold, c.PageHeight-footerReserve)
	}
	if tallest, usable := c.tallestAtomicUnit(), c.usableHeight(); usable < tallest {
		return &LayoutError{Element: "bottom threshold", Height: tallest, Usable: usable}
	}
	return nil
}

// LayoutDocument lays out the quote in two stages: content is flowed onto
// pages, then every page is stamped with its footer once the total page
// count is known.
func LayoutDocument(q Quote, c Classification, cfg LayoutConfig) (Document, error) {
	if err := cfg.Validate(); err != nil {
		return Document{}, err
	}

	l := &layouter{cfg: cfg, quote: q.Normalized(), class: c}
	l.newPage()
	for _, block := range []func() error{
		l.cover,
		l.technicalSpecs,
		l.itemTables,
		l.generalTotals,
		l.observations,
		l.paymentTerms,
		l.termsAndWarranty,
	} {
		if err := block(); err != nil {
			return Document{}, err
		}
	}

	pages := make([]Page, len(l.pages))
	for i, p := range l.pages {
		pages[i] = StampFooter(p, len(l.pages), cfg.Branding)
	}
	return Document{Pages: pages}, nil
}

// layouter is the per-run state of stage one.
type layouter struct {
	cfg   LayoutConfig
	quote Quote
	class Classification
	pages []Page
	y     float64
	// table is the open table whose column header repeats on continuation pages.
	table tableColumns
}

func (l *layouter) left() float64 { return l.cfg.SideMargin }

func (l *layouter) emit(in Instruction) {
	p := &l.pages[len(l.pages)-1]
	p.Instructions = append(p.Instructions, in)
}

func (l *layouter) newPage() {
	l.pages = append(l.pages, Page{
		Number: len(l.pages) + 1,
		Width:  l.cfg.PageWidth,
		Height: l.cfg.PageHeight,
		Margin: l.cfg.SideMargin,
	})
	l.y = l.cfg.TopMargin
	l.headerBand()
}

// freshPage starts a new page unless the current one holds only chrome.
func (l *layouter) freshPage() {
	if l.y > l.cfg.contentTop() {
		l.newPage()
	}
}

func (l *layouter) breakPage() {
	l.newPage()
	if l.table != nil && l.cfg.RepeatTableHeader {
		l.tableHeader(l.table)
	}
}

// place makes room for an atomic element of height h, breaking the page
// first when it would cross the bottom threshold.
func (l *layouter) place(element string, h float64) error {
	usable := l.cfg.usableHeight()
	if l.table != nil && l.cfg.RepeatTableHeader {
		usable -= tableHeadH
	}
	if h > usable {
		return &LayoutError{Element: element, Height: h, Usable: usable}
	}
	if l.y+h > l.cfg.BottomThreshold {
		l.breakPage()
	}
	return nil
}

// keep breaks early so that the next h millimetres land on one page. It
// never fails: groups taller than a page simply start on a fresh one.
func (l *layouter) keep(h float64) {
	if l.y+h > l.cfg.BottomThreshold && l.y > l.cfg.contentTop() {
		l.breakPage()
	}
}

func (l *layouter) headerBand() {
	h := l.cfg.HeaderBandHeight
	w := l.cfg.contentWidth()
	code := l.quote.Code
	if code == "" {
		code = "-"
	}
	l.emit(Instruction{
		Kind: InstrHeaderBand, X: l.left(), Y: l.y, W: w, H: h, LineHeight: h,
		Cells: []Cell{
			{X: l.left() + boxPadding, W: w/2 - boxPadding, Lines: []string{"PROPOSTA COMERCIAL " + code}, Align: AlignLeft},
			{X: l.left() + w/2, W: w/2 - boxPadding, Lines: []string{l.quote.Date}, Align: AlignRight},
		},
		Style: Style{Size: 10, Bold: true, Color: colorWhite, Fill: fill(colorBrand)},
	})
	l.y += h + bandGap
}

func (l *layouter) heading(title string) error {
	l.keep(headingHeight + l.cfg.LineHeight)
	if err := l.place("heading "+title, headingHeight); err != nil {
		return err
	}
	w := l.cfg.contentWidth()
	l.emit(Instruction{
		Kind: InstrHeading, X: l.left(), Y: l.y, W: w, H: headingHeight - 2, LineHeight: headingHeight - 2,
		Text:  title,
		Style: Style{Size: 12, Bold: true, Color: colorModalityB},
	})
	l.emit(Instruction{
		Kind: InstrRule, X: l.left(), Y: l.y + headingHeight - 2, W: w,
		Style: Style{Color: colorGrid},
	})
	l.y += headingHeight
	return nil
}

// paragraph places pre-wrapped lines one by one, each an atomic element.
func (l *layouter) paragraph(text string) error {
	lines := WrapText(text, l.cfg.WrapColumns)
	if len(lines) == 0 {
		return nil
	}
	lh := l.cfg.LineHeight
	for _, line := range lines {
		if err := l.place("paragraph line", lh); err != nil {
			return err
		}
		l.emit(Instruction{
			Kind: InstrText, X: l.left(), Y: l.y, W: l.cfg.contentWidth(), H: lh, LineHeight: lh,
			Lines: []string{line},
			Style: Style{Size: 10, Color: colorText},
		})
		l.y += lh
	}
	l.y += lh / 2
	return nil
}

func (l *layouter) cover() error {
	q := l.quote
	w := l.cfg.contentWidth()

	l.emit(Instruction{
		Kind: InstrTitle, X: l.left(), Y: l.y, W: w, H: titleHeight, LineHeight: titleHeight,
		Text:  "PROPOSTA COMERCIAL",
		Style: Style{Size: 20, Bold: true, Color: colorBrand, Align: AlignCenter},
	})
	l.y += titleHeight
	if q.MachineModel != "" {
		l.emit(Instruction{
			Kind: InstrTitle, X: l.left(), Y: l.y, W: w, H: subtitleHeight, LineHeight: subtitleHeight,
			Text:  "Modelo: " + q.MachineModel,
			Style: Style{Size: 14, Color: colorModalityB, Align: AlignCenter},
		})
		l.y += subtitleHeight
	}
	l.emit(Instruction{Kind: InstrRule, X: l.left(), Y: l.y + 2, W: w, Style: Style{Color: colorBrand}})
	l.y += blockGap

	if err := l.heading("DADOS DA COTAÇÃO"); err != nil {
		return err
	}
	grid := [][2][2]string{
		{{"Código", q.Code}, {"Data", q.Date}},
		{{"Cliente", q.ClientName()}, {"CNPJ", q.CNPJ}},
		{{"Empresa", q.Company}, {"Representante", q.Representative}},
		{{"Fornecedor", q.Supplier}, {"Modelo", q.MachineModel}},
		{{"Validade", strconv.Itoa(q.ValidityDays) + " dias"}, {"Prazo de entrega", q.DeliveryTime}},
	}
	half := w / 2
	for _, row := range grid {
		cells := make([]Cell, 2)
		lines := 1
		for i, f := range row {
			val := f[1]
			if val == "" {
				val = "-"
			}
			wrapped := WrapText(f[0]+": "+val, l.cfg.columnsFor(half-2*cellPadding))
			if len(wrapped) > lines {
				lines = len(wrapped)
			}
			cells[i] = Cell{X: l.left() + float64(i)*half + cellPadding, W: half - 2*cellPadding, Lines: wrapped}
		}
		h := l.cfg.rowHeight(lines)
		if err := l.place("cover data row", h); err != nil {
			return err
		}
		l.emit(Instruction{
			Kind: InstrDataRow, X: l.left(), Y: l.y, W: w, H: h, LineHeight: l.cfg.LineHeight,
			Cells: cells,
			Style: Style{Size: 10, Color: colorMuted},
		})
		l.y += h
	}
	l.y += blockGap
	return nil
}

func (l *layouter) technicalSpecs() error {
	q := l.quote
	if q.Principle == "" && q.TechSpec == "" {
		return nil
	}
	l.freshPage()
	if q.Principle != "" {
		if err := l.heading("PRINCÍPIO DE FUNCIONAMENTO"); err != nil {
			return err
		}
		if err := l.paragraph(q.Principle); err != nil {
			return err
		}
		l.y += blockGap
	}
	if q.TechSpec != "" {
		if err := l.heading("ESPECIFICAÇÃO TÉCNICA"); err != nil {
			return err
		}
		if err := l.paragraph(q.TechSpec); err != nil {
			return err
		}
		l.y += blockGap
	}
	return nil
}

var modalityBanner = map[Modality]struct {
	text  string
	color RGB
}{
	ModalityA: {"MODALIDADE A - CIF", colorModalityA},
	ModalityB: {"MODALIDADE B - FOB", colorModalityB},
}

func (l *layouter) itemTables() error {
	if !l.class.HasModality(ModalityA) && !l.class.HasModality(ModalityB) {
		return nil
	}
	l.freshPage()
	if err := l.heading("ITENS COTADOS"); err != nil {
		return err
	}

	for _, m := range []Modality{ModalityA, ModalityB} {
		if !l.class.HasModality(m) {
			continue
		}
		banner := modalityBanner[m]
		l.keep(bannerHeight + sectionHeight + tableHeadH + l.cfg.rowHeight(1))
		if err := l.place("modality banner", bannerHeight); err != nil {
			return err
		}
		l.emit(Instruction{
			Kind: InstrBanner, X: l.left(), Y: l.y, W: l.cfg.contentWidth(), H: bannerHeight - 1, LineHeight: bannerHeight - 1,
			Text:  banner.text,
			Style: Style{Size: 11, Bold: true, Color: colorWhite, Fill: fill(banner.color), Align: AlignCenter},
		})
		l.y += bannerHeight

		for _, s := range l.class.Sections {
			if s.Modality != m || len(s.Items) == 0 {
				continue
			}
			if err := l.sectionTable(s); err != nil {
				return err
			}
		}

		title := "TOTAL MODALIDADE " + string(m)
		if err := l.totalsBlock(title, l.class.Totals.Scope(m), banner.color); err != nil {
			return err
		}
	}
	return nil
}

func (l *layouter) sectionTable(s Section) error {
	cols := l.columnsFor(s)
	w := l.cfg.contentWidth()

	first := l.cfg.rowHeight(1)
	if len(s.Items) > 0 {
		_, lines := cols.row(l, 1, s.Items[0])
		first = l.cfg.rowHeight(lines)
	}
	l.keep(sectionHeight + tableHeadH + first)
	if err := l.place("section title", sectionHeight); err != nil {
		return err
	}
	l.emit(Instruction{
		Kind: InstrSectionTitle, X: l.left(), Y: l.y, W: w, H: sectionHeight - 1, LineHeight: sectionHeight - 1,
		Text:  s.ShortName,
		Style: Style{Size: 11, Bold: true, Color: colorModalityB},
	})
	l.y += sectionHeight

	if err := l.place("table header", tableHeadH); err != nil {
		return err
	}
	l.tableHeader(cols)
	l.table = cols

	for i, it := range s.Items {
		cells, lines := cols.row(l, i+1, it)
		h := l.cfg.rowHeight(lines)
		if err := l.place(fmt.Sprintf("row %d of %s", i+1, s.Key), h); err != nil {
			l.table = nil
			return err
		}
		l.emit(Instruction{
			Kind: InstrTableRow, X: l.left(), Y: l.y, W: w, H: h, LineHeight: l.cfg.LineHeight,
			Cells: cells,
			Style: Style{Size: 9, Color: colorText, Border: true},
		})
		l.y += h
	}
	l.table = nil

	if err := l.place("section total", totalsRowH); err != nil {
		return err
	}
	l.emit(Instruction{
		Kind: InstrTotalsRow, X: l.left(), Y: l.y, W: w, H: totalsRowH, LineHeight: totalsRowH,
		Cells: []Cell{
			{X: l.left() + cellPadding, W: w/2 - cellPadding, Lines: []string{"Total " + s.ShortName}},
			{X: l.left() + w/2, W: w/2 - cellPadding, Lines: []string{formatTotalsLine(s.Totals, l.class.Totals.DisplayCurrencies())}, Align: AlignRight},
		},
		Style: Style{Size: 10, Bold: true, Color: colorText, Fill: fill(colorHeader)},
	})
	l.y += totalsRowH + blockGap
	return nil
}

func (l *layouter) tableHeader(cols tableColumns) {
	x := l.left()
	cells := make([]Cell, len(cols))
	for i, c := range cols {
		cells[i] = Cell{X: x + cellPadding, W: c.width - 2*cellPadding, Lines: []string{c.title}, Align: c.align}
		x += c.width
	}
	l.emit(Instruction{
		Kind: InstrTableHeader, X: l.left(), Y: l.y, W: l.cfg.contentWidth(), H: tableHeadH, LineHeight: tableHeadH,
		Cells: cells,
		Style: Style{Size: 9, Bold: true, Color: colorText, Fill: fill(colorHeader), Border: true},
	})
	l.y += tableHeadH
}

// totalsBlock places a title row plus one row per display currency as a
// single unit.
func (l *layouter) totalsBlock(title string, scope CurrencyTotals, color RGB) error {
	currencies := l.class.Totals.DisplayCurrencies()
	if err := l.place("totals block", totalsBlockHeight(len(currencies))); err != nil {
		return err
	}
	w := l.cfg.contentWidth()
	l.emit(Instruction{
		Kind: InstrTotalsRow, X: l.left(), Y: l.y, W: w, H: totalsRowH, LineHeight: totalsRowH,
		Cells: []Cell{{X: l.left() + cellPadding, W: w - 2*cellPadding, Lines: []string{title}}},
		Style: Style{Size: 11, Bold: true, Color: colorWhite, Fill: fill(color)},
	})
	l.y += totalsRowH
	for _, c := range currencies {
		l.emit(Instruction{
			Kind: InstrTotalsRow, X: l.left(), Y: l.y, W: w, H: totalsRowH, LineHeight: totalsRowH,
			Cells: []Cell{
				{X: l.left() + cellPadding, W: w/2 - cellPadding, Lines: []string{"Total em " + string(c)}},
				{X: l.left() + w/2, W: w/2 - cellPadding, Lines: []string{FormatMoney(c, scope.Get(c))}, Align: AlignRight},
			},
			Style: Style{Size: 10, Bold: true, Color: colorText, Border: true},
		})
		l.y += totalsRowH
	}
	l.y += blockGap
	return nil
}

func (l *layouter) generalTotals() error {
	return l.totalsBlock("TOTAIS CONSOLIDADOS", l.class.Totals.General, colorBrand)
}

func (l *layouter) observations() error {
	if l.quote.Notes == "" {
		return nil
	}
	if err := l.heading("OBSERVAÇÕES"); err != nil {
		return err
	}
	return l.paragraph(l.quote.Notes)
}

func (l *layouter) paymentTerms() error {
	p := l.quote.Payment
	if !p.Include {
		return nil
	}
	l.freshPage()
	if err := l.heading("CONDIÇÕES DE PAGAMENTO"); err != nil {
		return err
	}
	usd := p.USDConditions
	if usd != "" {
		usd = "USD: " + usd
	}
	for _, text := range []string{p.Intro, usd, p.BRLIntro, p.BRLWithSAT, p.BRLWithoutSAT, p.AdditionalNotes} {
		if err := l.paragraph(text); err != nil {
			return err
		}
	}
	return nil
}

func (l *layouter) termsAndWarranty() error {
	q := l.quote
	l.freshPage()
	if err := l.heading("TERMOS E GARANTIA"); err != nil {
		return err
	}

	validity := fmt.Sprintf("Validade da proposta: %d dias", q.ValidityDays)
	if q.Date != "" {
		validity += " a partir de " + q.Date
	}
	paragraphs := []string{validity + "."}
	if q.DeliveryTime != "" {
		paragraphs = append(paragraphs, "Prazo de entrega: "+q.DeliveryTime+".")
	}
	paragraphs = append(paragraphs, l.cfg.Terms...)
	for _, text := range paragraphs {
		if err := l.paragraph(text); err != nil {
			return err
		}
	}

	if !q.HasContact() {
		return nil
	}
	lines := []string{"CONTATO COMERCIAL"}
	for _, f := range [][2]string{
		{"Vendedor", q.SellerName},
		{"E-mail", q.ContactEmail},
		{"Telefone", q.ContactPhone},
	} {
		if f[1] != "" {
			lines = append(lines, f[0]+": "+f[1])
		}
	}
	h := l.cfg.contactBoxHeight(len(lines))
	l.y += blockGap
	if err := l.place("contact box", h); err != nil {
		return err
	}
	w := l.cfg.contentWidth() / 2
	l.emit(Instruction{
		Kind: InstrBox, X: l.left(), Y: l.y, W: w, H: h, LineHeight: l.cfg.LineHeight,
		Cells: []Cell{{X: l.left() + boxPadding, W: w - 2*boxPadding, Lines: lines}},
		Style: Style{Size: 10, Color: colorText, Fill: fill(colorHeader), Border: true},
	})
	l.y += h
	return nil
}

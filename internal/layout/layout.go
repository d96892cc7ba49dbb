// Package layout resolves a document and an effective template into every
// string, style decision and page break the renderers need. The PDF writer
// and the preview only draw what Compute returns.
package layout

import (
	"fmt"
	"strings"

	"github.com/flexprice/invoicer/internal/domain/document"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/money"
	"github.com/flexprice/invoicer/internal/template"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	// PxPerInch is the reference resolution of every px value
	PxPerInch = 96.0
	// PtPerPx converts px to pt (72 / 96)
	PtPerPx = 0.75

	BillToLabel  = "Bill To"
	InvoiceTitle = "INVOICE"
)

// status colors do not follow the template palette
var statusColors = map[types.InvoiceStatus]string{
	types.InvoiceStatusPaid:      "#28a745",
	types.InvoiceStatusSent:      "#17a2b8",
	types.InvoiceStatusOverdue:   "#dc3545",
	types.InvoiceStatusCancelled: "#6c757d",
}

// StatusColor returns the badge color for status. Drafts and unknown statuses
// use the template's secondary text color.
func StatusColor(status types.InvoiceStatus, colors template.Colors) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return colors.TextSecondary
}

// Options tune a single Compute call
type Options struct {
	// Logo is the resolved business logo, nil renders without one
	Logo *Image
	// Measure sizes text for line breaking, EstimateWidth when nil
	Measure TextMeasure
}

// Image is a decoded logo ready for drawing
type Image struct {
	Data   []byte `json:"-"`
	Format string `json:"format"` // png, jpg or gif
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type Layout struct {
	TemplateID string          `json:"template_id"`
	Title      string          `json:"title"`
	Author     string          `json:"author"`
	Currency   string          `json:"currency"`
	Page       Page            `json:"page"`
	Fonts      Fonts           `json:"fonts"`
	Colors     template.Colors `json:"colors"`
	Header     Header          `json:"header"`
	BillTo     BillTo          `json:"bill_to"`
	Table      Table           `json:"table"`
	Totals     Totals          `json:"totals"`
	Footer     *Footer         `json:"footer,omitempty"`
	Pages      []PageContent   `json:"pages"`
}

// Page geometry in px
type Page struct {
	Format        types.PageFormat  `json:"format"`
	Orientation   types.Orientation `json:"orientation"`
	Width         float64           `json:"width"`
	Height        float64           `json:"height"`
	Margins       template.Margins  `json:"margins"`
	ContentWidth  float64           `json:"content_width"`
	ContentHeight float64           `json:"content_height"`
}

type Fonts struct {
	Primary   string             `json:"primary"`
	Secondary string             `json:"secondary"`
	Stack     string             `json:"stack"`
	Sizes     template.FontSizes `json:"sizes"`
}

type Header struct {
	Layout        types.HeaderLayout `json:"layout"`
	LogoAlign     types.TextAlign    `json:"logo_align"`
	BusinessAlign types.TextAlign    `json:"business_align"`
	DetailsAlign  types.TextAlign    `json:"details_align"`
	// Stacked places the details below the business block
	Stacked      bool            `json:"stacked"`
	Background   string          `json:"background,omitempty"`
	BorderBottom bool            `json:"border_bottom"`
	Logo         *Image          `json:"logo,omitempty"`
	LogoWidth    float64         `json:"logo_width"`
	LogoHeight   float64         `json:"logo_height"`
	BusinessName string          `json:"business_name"`
	BusinessInfo []string        `json:"business_info"`
	Details      *InvoiceDetails `json:"details,omitempty"`
	// Business and Invoice are the wrapped business and details columns
	Business []Line `json:"business"`
	Invoice  []Line `json:"invoice"`
}

type InvoiceDetails struct {
	Title       string   `json:"title"`
	Number      string   `json:"number"`
	Lines       []string `json:"lines"`
	Status      string   `json:"status"`
	StatusColor string   `json:"status_color"`
}

type BillTo struct {
	Label string   `json:"label"`
	Name  string   `json:"name"`
	Lines []string `json:"lines"`
	// Text is the wrapped block: label, name, then contact lines
	Text []Line `json:"text"`
}

type Column struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Width float64         `json:"width"` // fraction of the content width
	Align types.TextAlign `json:"align"`
}

// Row is one drawn table row. A line item too tall for a page is split into
// a row and Continued rows that carry the rest of its lines.
type Row struct {
	Cells []string `json:"cells"`
	// Lines holds the wrapped text of every cell
	Lines      [][]string `json:"lines"`
	Height     float64    `json:"height"`
	Background string     `json:"background,omitempty"`
	Continued  bool       `json:"continued,omitempty"`
}

type Table struct {
	Columns          []Column `json:"columns"`
	Rows             []Row    `json:"rows"`
	HeaderBackground string   `json:"header_background"`
	HeaderText       string   `json:"header_text"`
	BorderWidth      float64  `json:"border_width"`
	BorderColor      string   `json:"border_color"`
}

type TotalKind string

const (
	TotalSubtotal TotalKind = "subtotal"
	TotalTax      TotalKind = "tax"
	TotalDiscount TotalKind = "discount"
	TotalGrand    TotalKind = "total"
)

type TotalLine struct {
	Kind       TotalKind `json:"kind"`
	Label      string    `json:"label"`
	Value      string    `json:"value"`
	Emphasized bool      `json:"emphasized"`
	Size       float64   `json:"size"`
	Bold       bool      `json:"bold"`
	Color      string    `json:"color"`
	LabelLines []string  `json:"label_lines"`
	ValueLines []string  `json:"value_lines"`
}

// Height is the vertical space of the line in px
func (t TotalLine) Height() float64 {
	h := float64(max(len(t.LabelLines), len(t.ValueLines))) * LineHeight(t.Size)
	if t.Emphasized {
		h += 4
	}
	return h
}

type Totals struct {
	Alignment  types.TextAlign `json:"alignment"`
	Background string          `json:"background,omitempty"`
	Lines      []TotalLine     `json:"lines"`
	// Width of the block and of its value column, in px
	Width      float64 `json:"width"`
	ValueWidth float64 `json:"value_width"`
}

type FooterSection struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type Footer struct {
	TextAlign  types.TextAlign `json:"text_align"`
	Background string          `json:"background,omitempty"`
	BorderTop  bool            `json:"border_top"`
	Sections   []FooterSection `json:"sections"`
	// Lines are the wrapped section titles and texts in order
	Lines []Line `json:"lines"`
}

// PageContent lists what lands on one page. Rows index into Table.Rows and
// FooterLines into Footer.Lines.
type PageContent struct {
	Number      int   `json:"number"`
	Header      bool  `json:"header"`
	BillTo      bool  `json:"bill_to"`
	TableHeader bool  `json:"table_header"`
	Rows        []int `json:"rows"`
	Totals      bool  `json:"totals"`
	Footer      bool  `json:"footer"`
	FooterLines []int `json:"footer_lines"`
}

// GrandTotal returns the formatted grand total line value
func (l *Layout) GrandTotal() string {
	line, _ := lo.Find(l.Totals.Lines, func(t TotalLine) bool { return t.Kind == TotalGrand })
	return line.Value
}

// ItemCount is the number of line items in the table
func (l *Layout) ItemCount() int {
	return lo.CountBy(l.Table.Rows, func(r Row) bool { return !r.Continued })
}

// Compute builds the layout for doc rendered with cfg. It fails only when the
// document lacks what no placeholder can stand in for.
func Compute(doc *document.InvoiceDocument, cfg template.Config, opts Options) (*Layout, error) {
	if doc == nil {
		return nil, ierr.NewError("document is required").
			Mark(ierr.ErrValidation)
	}
	if !doc.Totals.GrandTotal.Valid {
		return nil, ierr.NewError("grand total is missing").
			WithHint("The invoice has no grand total").
			Mark(ierr.ErrValidation)
	}

	currency := money.NormalizeCurrency(doc.Meta.Currency)
	format := func(d decimal.Decimal) string { return money.FormatCurrency(d, currency) }

	measure := opts.Measure
	if measure == nil {
		measure = EstimateWidth
	}
	b := builder{
		doc:  doc,
		cfg:  cfg,
		page: pageGeometry(cfg.Layout),
		wrap: wrapper{measure: measure},
	}

	l := &Layout{
		TemplateID: cfg.ID,
		Title:      fmt.Sprintf("Invoice %s", doc.Meta.Number),
		Author:     doc.Business.Name,
		Currency:   currency,
		Page:       b.page,
		Fonts: Fonts{
			Primary:   cfg.Fonts.Primary,
			Secondary: cfg.Fonts.Secondary,
			Stack:     fontStack(cfg.Fonts),
			Sizes:     cfg.Fonts.Sizes,
		},
		Colors: cfg.Colors,
		Header: b.header(opts.Logo),
		BillTo: b.billTo(),
		Table:  b.table(format),
		Totals: b.totals(format),
		Footer: b.footer(),
	}
	l.Pages = paginate(l)

	return l, nil
}

func pageGeometry(cfg template.Layout) Page {
	var w, h float64
	switch cfg.Format {
	case types.PageFormatLetter:
		w, h = 8.5*PxPerInch, 11*PxPerInch
	default:
		w, h = mmToPx(210), mmToPx(297)
	}
	if cfg.Orientation == types.OrientationLandscape {
		w, h = h, w
	}
	return Page{
		Format:        cfg.Format,
		Orientation:   cfg.Orientation,
		Width:         w,
		Height:        h,
		Margins:       cfg.Margins,
		ContentWidth:  w - cfg.Margins.Left - cfg.Margins.Right,
		ContentHeight: h - cfg.Margins.Top - cfg.Margins.Bottom,
	}
}

func mmToPx(mm float64) float64 {
	return mm / 25.4 * PxPerInch
}

// PxToMM converts px at 96 dpi to millimetres
func PxToMM(px float64) float64 {
	return px * 25.4 / PxPerInch
}

// PtToPx converts a font size to px
func PtToPx(pt float64) float64 {
	return pt / PtPerPx
}

func fontStack(f template.Fonts) string {
	families := lo.Uniq(append([]string{f.Primary}, f.Fallback...))
	families = lo.Compact(families)
	return strings.Join(lo.Map(families, func(family string, _ int) string {
		if strings.Contains(family, " ") {
			return fmt.Sprintf("'%s'", family)
		}
		return family
	}), ", ")
}

// builder holds what every block needs while Compute runs
type builder struct {
	doc  *document.InvoiceDocument
	cfg  template.Config
	page Page
	wrap wrapper
}

// textWidth is the room for text in a box of width px
func textWidth(width float64) float64 {
	return width - 2*CellPadding
}

func (b builder) header(logo *Image) Header {
	doc, cfg := b.doc, b.cfg
	style := cfg.Styles.Header
	h := Header{
		Layout:       style.Layout,
		Background:   style.Background,
		BorderBottom: style.BorderBottom,
		BusinessName: doc.Business.Name,
		BusinessInfo: []string{},
	}

	switch style.Layout {
	case types.HeaderLayoutRight:
		h.LogoAlign, h.BusinessAlign, h.DetailsAlign = types.TextAlignRight, types.TextAlignRight, types.TextAlignLeft
	case types.HeaderLayoutCenter:
		h.LogoAlign, h.BusinessAlign, h.DetailsAlign = types.TextAlignCenter, types.TextAlignCenter, types.TextAlignCenter
		h.Stacked = true
	case types.HeaderLayoutSplit:
		h.LogoAlign, h.BusinessAlign, h.DetailsAlign = types.TextAlignRight, types.TextAlignLeft, types.TextAlignRight
	default:
		h.LogoAlign, h.BusinessAlign, h.DetailsAlign = types.TextAlignLeft, types.TextAlignLeft, types.TextAlignRight
	}

	if logo != nil && logo.Width > 0 && logo.Height > 0 && style.LogoSize > 0 {
		h.Logo = logo
		h.LogoWidth, h.LogoHeight = fit(float64(logo.Width), float64(logo.Height), style.LogoSize)
	}

	if style.ShowBusinessInfo {
		biz := doc.Business
		h.BusinessInfo = lo.Compact([]string{
			biz.Email,
			lo.FromPtr(biz.Phone),
			lo.FromPtr(biz.Address),
			lo.FromPtr(biz.Website),
			prefixed("Tax ID: ", biz.TaxID),
		})
	}

	if style.ShowInvoiceDetails {
		m := doc.Meta
		h.Details = &InvoiceDetails{
			Title:  InvoiceTitle,
			Number: "#" + m.Number,
			Lines: lo.Compact([]string{
				"Issued: " + m.IssuedDate,
				prefixed("Due: ", m.DueDate),
				prefixed("Reference: ", m.AccountReference),
				prefixed("Pay online: ", m.PaymentLink),
			}),
			Status:      strings.ToUpper(string(m.Status)),
			StatusColor: StatusColor(m.Status, cfg.Colors),
		}
	}

	width := b.page.ContentWidth / 2
	if h.Stacked {
		width = b.page.ContentWidth
	}
	width = textWidth(width)
	s, c := cfg.Fonts.Sizes, cfg.Colors

	h.Business = b.wrap.styled(h.BusinessName, width, s.Heading, true, c.Primary)
	for _, info := range h.BusinessInfo {
		h.Business = append(h.Business, b.wrap.styled(info, width, s.Small, false, c.TextSecondary)...)
	}
	h.Invoice = []Line{}
	if d := h.Details; d != nil {
		h.Invoice = append(h.Invoice, b.wrap.styled(d.Title, width, s.Title, true, c.Primary)...)
		h.Invoice = append(h.Invoice, b.wrap.styled(d.Number, width, s.Body, true, c.TextPrimary)...)
		for _, line := range d.Lines {
			h.Invoice = append(h.Invoice, b.wrap.styled(line, width, s.Body, false, c.TextSecondary)...)
		}
	}
	return h
}

// fit scales w x h into a size x size box keeping the aspect ratio
func fit(w, h, size float64) (float64, float64) {
	if w >= h {
		return size, size * h / w
	}
	return size * w / h, size
}

func (b builder) billTo() BillTo {
	client := b.doc.Client
	bt := BillTo{
		Label: BillToLabel,
		Name:  client.Name,
		Lines: lo.Compact([]string{
			lo.FromPtr(client.Email),
			lo.FromPtr(client.Address),
			lo.FromPtr(client.Phone),
		}),
	}

	width := textWidth(b.page.ContentWidth / 2)
	s, c := b.cfg.Fonts.Sizes, b.cfg.Colors
	bt.Text = b.wrap.styled(bt.Label, width, s.Small, true, c.TextSecondary)
	bt.Text = append(bt.Text, b.wrap.styled(bt.Name, width, s.Body, true, c.TextPrimary)...)
	for _, line := range bt.Lines {
		bt.Text = append(bt.Text, b.wrap.styled(line, width, s.Body, false, c.TextPrimary)...)
	}
	return bt
}

func (b builder) table(format func(decimal.Decimal) string) Table {
	cfg := b.cfg
	style := cfg.Styles.Table
	body := cfg.Fonts.Sizes.Body

	columns := []Column{
		{Key: "description", Label: "Description", Align: types.TextAlignLeft},
		{Key: "quantity", Label: "Qty", Width: 0.1, Align: types.TextAlignRight},
		{Key: "unit_price", Label: "Unit Price", Width: 0.18, Align: types.TextAlignRight},
		{Key: "line_total", Label: "Amount", Width: 0.18, Align: types.TextAlignRight},
	}
	if style.ShowRowNumbers {
		columns = append([]Column{{Key: "number", Label: "#", Width: 0.06, Align: types.TextAlignLeft}}, columns...)
	}
	used := lo.SumBy(columns, func(c Column) float64 { return c.Width })
	for i := range columns {
		if columns[i].Key == "description" {
			columns[i].Width = 1 - used
		}
	}

	// a row never grows past a page below the repeated table header
	maxLines := max(1, int((b.page.ContentHeight-2*rowHeight(body))/LineHeight(body)))

	rows := make([]Row, 0, len(b.doc.Items))
	for i, item := range b.doc.Items {
		cells := []string{
			item.Description,
			fmt.Sprintf("%d", item.Quantity),
			format(item.UnitPrice),
			format(item.LineTotal),
		}
		if style.ShowRowNumbers {
			cells = append([]string{fmt.Sprintf("%d", i+1)}, cells...)
		}
		lines := make([][]string, len(cells))
		for j, cell := range cells {
			lines[j] = b.wrap.Wrap(cell, textWidth(columns[j].Width*b.page.ContentWidth), body, false)
		}

		background := ""
		if style.RowAlternateBackground != "" && i%2 == 1 {
			background = style.RowAlternateBackground
		}
		rows = append(rows, splitRow(cells, lines, maxLines, body, background)...)
	}

	return Table{
		Columns:          columns,
		Rows:             rows,
		HeaderBackground: style.HeaderBackground,
		HeaderText:       style.HeaderText,
		BorderWidth:      style.BorderStyle.Width(),
		BorderColor:      cfg.Colors.Border,
	}
}

// splitRow cuts a wrapped item into rows of at most maxLines lines
func splitRow(cells []string, lines [][]string, maxLines int, size float64, background string) []Row {
	n := lo.Max(lo.Map(lines, func(l []string, _ int) int { return len(l) }))
	if n <= maxLines {
		return []Row{{
			Cells:      cells,
			Lines:      lines,
			Height:     float64(n)*LineHeight(size) + rowPadding,
			Background: background,
		}}
	}

	var rows []Row
	for start := 0; start < n; start += maxLines {
		row := Row{
			Cells:      make([]string, len(cells)),
			Lines:      make([][]string, len(cells)),
			Background: background,
			Continued:  start > 0,
		}
		height := 0
		for j, cell := range lines {
			chunk := []string{}
			if start < len(cell) {
				chunk = cell[start:min(start+maxLines, len(cell))]
			}
			row.Lines[j] = chunk
			row.Cells[j] = strings.Join(chunk, " ")
			height = max(height, len(chunk))
		}
		row.Height = float64(height)*LineHeight(size) + rowPadding
		rows = append(rows, row)
	}
	return rows
}

// TotalsShare is the part of the content width the totals block takes
const TotalsShare = 0.45

func (b builder) totals(format func(decimal.Decimal) string) Totals {
	cfg := b.cfg
	style := cfg.Styles.Totals
	t := b.doc.Totals
	s, c := cfg.Fonts.Sizes, cfg.Colors
	var lines []TotalLine

	if style.ShowSubtotalBreakdown {
		lines = append(lines, TotalLine{Kind: TotalSubtotal, Label: "Subtotal", Value: format(t.Subtotal)})
	}
	if t.TaxRate.IsPositive() {
		lines = append(lines, TotalLine{
			Kind:  TotalTax,
			Label: fmt.Sprintf("Tax (%s%%)", money.FormatRate(t.TaxRate)),
			Value: format(t.TaxAmount),
		})
	}
	if t.HasDiscount() {
		label := "Discount"
		if t.DiscountRate.Valid && t.DiscountRate.Decimal.IsPositive() {
			label = fmt.Sprintf("Discount (%s%%)", money.FormatRate(t.DiscountRate.Decimal))
		}
		lines = append(lines, TotalLine{
			Kind:  TotalDiscount,
			Label: label,
			Value: format(t.DiscountAmount.Decimal.Abs().Neg()),
		})
	}
	lines = append(lines, TotalLine{
		Kind:       TotalGrand,
		Label:      "Total",
		Value:      format(t.GrandTotal.Decimal),
		Emphasized: style.HighlightTotal,
	})

	width := b.page.ContentWidth * TotalsShare
	valueWidth := 0.0
	for i := range lines {
		line := &lines[i]
		line.Size, line.Color = s.Body, c.TextPrimary
		if line.Emphasized {
			line.Size, line.Color = s.Heading, c.Primary
		}
		line.Bold = line.Emphasized || line.Kind == TotalGrand
		valueWidth = max(valueWidth, b.wrap.measure(line.Value, line.Size, line.Bold)+2*CellPadding)
	}
	valueWidth = min(valueWidth, width*0.6)
	for i := range lines {
		line := &lines[i]
		line.LabelLines = b.wrap.Wrap(line.Label, textWidth(width-valueWidth), line.Size, line.Bold)
		line.ValueLines = b.wrap.Wrap(line.Value, textWidth(valueWidth), line.Size, line.Bold)
	}

	return Totals{
		Alignment:  style.Alignment,
		Background: style.Background,
		Lines:      lines,
		Width:      width,
		ValueWidth: valueWidth,
	}
}

func (b builder) footer() *Footer {
	style := b.cfg.Styles.Footer
	if !style.ShowTerms && !style.ShowPaymentInstructions && !style.ShowNotes {
		return nil
	}
	doc := b.doc

	var sections []FooterSection
	add := func(show bool, title string, text *string) {
		if show && strings.TrimSpace(lo.FromPtr(text)) != "" {
			sections = append(sections, FooterSection{Title: title, Text: *text})
		}
	}
	add(style.ShowTerms, "Terms", doc.Terms)
	add(style.ShowPaymentInstructions, "Payment Instructions", doc.PaymentInstructions)
	add(style.ShowNotes, "Notes", doc.Meta.Notes)

	if len(sections) == 0 {
		return nil
	}

	width := textWidth(b.page.ContentWidth)
	s, c := b.cfg.Fonts.Sizes, b.cfg.Colors
	var lines []Line
	for i, sec := range sections {
		title := b.wrap.styled(sec.Title, width, s.Body, true, c.TextPrimary)
		if i > 0 {
			title[0].Space = sectionGap
		}
		lines = append(lines, title...)
		lines = append(lines, b.wrap.styled(sec.Text, width, s.Small, false, c.TextSecondary)...)
	}

	return &Footer{
		TextAlign:  style.TextAlign,
		Background: style.Background,
		BorderTop:  style.BorderTop,
		Sections:   sections,
		Lines:      lines,
	}
}

func prefixed(prefix string, s *string) string {
	if s == nil || *s == "" {
		return ""
	}
	return prefix + *s
}

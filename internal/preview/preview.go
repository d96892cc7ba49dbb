// Package preview draws a computed layout as a scaled, screen-ready structure
// and its HTML. It reads the same layout as the PDF writer, so every string
// shown here is the string printed in the document.
package preview

import (
	"bytes"
	"embed"
	"encoding/base64"
	"html/template"
	"math"
	"regexp"
	"strconv"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/layout"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/samber/lo"
)

const (
	MinScale     = 0.1
	MaxScale     = 4.0
	DefaultScale = 1.0

	// ContentType of Preview.HTML
	ContentType = "text/html; charset=utf-8"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("invoice.html").Funcs(template.FuncMap{
	"px":   formatPx,
	"font": fontFamily,
}).ParseFS(templateFS, "templates/invoice.html"))

// fontUnsafe matches anything that is not part of a plain font stack
var fontUnsafe = regexp.MustCompile(`[^A-Za-z0-9 ,'\-]`)

type BlockKind string

const (
	BlockHeader BlockKind = "header"
	BlockBillTo BlockKind = "bill_to"
	BlockTable  BlockKind = "table"
	BlockTotals BlockKind = "totals"
	BlockFooter BlockKind = "footer"
)

// Text is one run of text with its scaled font size in px. Lines, when set,
// are the wrapped lines of Value as laid out.
type Text struct {
	Value    string          `json:"value"`
	Lines    []string        `json:"lines,omitempty"`
	FontSize float64         `json:"font_size"`
	Bold     bool            `json:"bold,omitempty"`
	Color    string          `json:"color"`
	Align    types.TextAlign `json:"align,omitempty"`
	// Space is the scaled gap above the text
	Space float64 `json:"space,omitempty"`
}

type Cell struct {
	Text
	Width float64 `json:"width"`
}

type Row struct {
	Cells      []Cell `json:"cells"`
	Background string `json:"background,omitempty"`
	Continued  bool   `json:"continued,omitempty"`
}

type TotalLine struct {
	Kind       layout.TotalKind `json:"kind"`
	Label      Text             `json:"label"`
	Value      Text             `json:"value"`
	Emphasized bool             `json:"emphasized,omitempty"`
}

type Logo struct {
	Src    template.URL `json:"-"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
}

// Block is one visual block on a page. Which fields are set depends on Kind.
type Block struct {
	Kind         BlockKind       `json:"kind"`
	Align        types.TextAlign `json:"align,omitempty"`
	Background   string          `json:"background,omitempty"`
	BorderTop    float64         `json:"border_top,omitempty"`
	BorderBottom float64         `json:"border_bottom,omitempty"`
	BorderColor  string          `json:"border_color,omitempty"`
	Stacked      bool            `json:"stacked,omitempty"`
	Logo         *Logo           `json:"logo,omitempty"`
	Lines        []Text          `json:"lines,omitempty"`
	Aside        []Text          `json:"aside,omitempty"`
	Badge        *Text           `json:"badge,omitempty"`
	Header       *Row            `json:"header_row,omitempty"`
	Rows         []Row           `json:"rows,omitempty"`
	Totals       []TotalLine     `json:"totals,omitempty"`
	// Gap is the scaled space before the block
	Gap float64 `json:"gap"`
}

type Page struct {
	Number int     `json:"number"`
	Blocks []Block `json:"blocks"`
}

// Preview is the scaled rendition of a layout
type Preview struct {
	TemplateID string  `json:"template_id"`
	Currency   string  `json:"currency"`
	Scale      float64 `json:"scale"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Padding    struct {
		Top, Right, Bottom, Left float64
	} `json:"padding"`
	FontFamily string `json:"font_family"`
	Background string `json:"background"`
	TextColor  string `json:"text_color"`
	Pages      []Page `json:"pages"`
	HTML       string `json:"-"`
}

// GrandTotal returns the grand total shown in the totals block
func (p *Preview) GrandTotal() string {
	for _, page := range p.Pages {
		for _, b := range page.Blocks {
			if b.Kind != BlockTotals {
				continue
			}
			if line, ok := lo.Find(b.Totals, func(t TotalLine) bool { return t.Kind == layout.TotalGrand }); ok {
				return line.Value.Value
			}
		}
	}
	return ""
}

// ItemCount counts the line items across all pages
func (p *Preview) ItemCount() int {
	n := 0
	for _, page := range p.Pages {
		for _, b := range page.Blocks {
			if b.Kind == BlockTable {
				n += lo.CountBy(b.Rows, func(r Row) bool { return !r.Continued })
			}
		}
	}
	return n
}

// Renderer builds previews. It is stateless and safe for concurrent use.
type Renderer struct {
	logger *logger.Logger
}

func NewRenderer(logger *logger.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// ClampScale bounds scale to [MinScale, MaxScale]. Zero means DefaultScale.
func ClampScale(scale float64) float64 {
	if scale == 0 || math.IsNaN(scale) {
		return DefaultScale
	}
	return math.Min(MaxScale, math.Max(MinScale, scale))
}

// Render draws l at scale. Every dimension and font size is multiplied by
// the clamped scale.
func (r *Renderer) Render(l *layout.Layout, scale float64) (*Preview, error) {
	if l == nil {
		return nil, ierr.NewError("layout is required").
			Mark(ierr.ErrValidation)
	}

	d := &drawer{l: l, scale: ClampScale(scale)}
	p := d.preview()

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return nil, ierr.WithError(err).
			WithHint("The preview could not be generated, please retry").
			Mark(ierr.ErrRenderFailure)
	}
	p.HTML = buf.String()

	r.logger.Debugw("rendered preview",
		"template_id", l.TemplateID,
		"scale", p.Scale,
		"pages", len(p.Pages))
	return p, nil
}

type drawer struct {
	l     *layout.Layout
	scale float64
}

func (d *drawer) px(v float64) float64 {
	return v * d.scale
}

// font converts a pt size to scaled px
func (d *drawer) font(pt float64) float64 {
	return d.px(layout.PtToPx(pt))
}

func (d *drawer) text(value string, pt float64, bold bool, color string) Text {
	return Text{Value: value, FontSize: d.font(pt), Bold: bold, Color: color}
}

func (d *drawer) lines(lines []layout.Line, align types.TextAlign) []Text {
	out := make([]Text, 0, len(lines))
	for _, line := range lines {
		t := d.text(line.Text, line.Size, line.Bold, line.Color)
		t.Align = align
		t.Space = d.px(line.Space)
		out = append(out, t)
	}
	return out
}

func (d *drawer) preview() *Preview {
	l := d.l
	p := &Preview{
		TemplateID: l.TemplateID,
		Currency:   l.Currency,
		Scale:      d.scale,
		Width:      d.px(l.Page.Width),
		Height:     d.px(l.Page.Height),
		FontFamily: l.Fonts.Stack,
		Background: l.Colors.Background,
		TextColor:  l.Colors.TextPrimary,
		Pages:      make([]Page, 0, len(l.Pages)),
	}
	p.Padding.Top = d.px(l.Page.Margins.Top)
	p.Padding.Right = d.px(l.Page.Margins.Right)
	p.Padding.Bottom = d.px(l.Page.Margins.Bottom)
	p.Padding.Left = d.px(l.Page.Margins.Left)

	for _, pc := range l.Pages {
		page := Page{Number: pc.Number, Blocks: []Block{}}
		add := func(b Block) {
			if len(page.Blocks) > 0 {
				b.Gap = d.px(layout.BlockGap)
			}
			page.Blocks = append(page.Blocks, b)
		}
		if pc.Header {
			add(d.header())
		}
		if pc.BillTo {
			add(d.billTo())
		}
		if pc.TableHeader || len(pc.Rows) > 0 {
			add(d.table(pc))
		}
		if pc.Totals {
			add(d.totals())
		}
		if len(pc.FooterLines) > 0 && l.Footer != nil {
			add(d.footer(pc.FooterLines))
		}
		p.Pages = append(p.Pages, page)
	}
	return p
}

func (d *drawer) header() Block {
	h := d.l.Header
	s := d.l.Fonts.Sizes
	c := d.l.Colors

	b := Block{
		Kind:        BlockHeader,
		Align:       h.BusinessAlign,
		Background:  h.Background,
		Stacked:     h.Stacked,
		BorderColor: c.Border,
	}
	if h.BorderBottom {
		b.BorderBottom = d.px(1)
	}
	if h.Logo != nil {
		b.Logo = &Logo{
			Src:    dataURI(h.Logo),
			Width:  d.px(h.LogoWidth),
			Height: d.px(h.LogoHeight),
		}
	}

	b.Lines = d.lines(h.Business, h.BusinessAlign)
	if det := h.Details; det != nil {
		b.Aside = d.lines(h.Invoice, h.DetailsAlign)
		badge := d.text(det.Status, s.Small, true, det.StatusColor)
		badge.Align = h.DetailsAlign
		b.Badge = &badge
	}
	return b
}

func (d *drawer) billTo() Block {
	return Block{
		Kind:  BlockBillTo,
		Align: types.TextAlignLeft,
		Lines: d.lines(d.l.BillTo.Text, types.TextAlignLeft),
	}
}

func (d *drawer) table(pc layout.PageContent) Block {
	t := d.l.Table
	s := d.l.Fonts.Sizes
	width := d.px(d.l.Page.ContentWidth)

	header := Row{Background: t.HeaderBackground, Cells: make([]Cell, 0, len(t.Columns))}
	for _, col := range t.Columns {
		text := d.text(col.Label, s.Body, true, t.HeaderText)
		text.Align = col.Align
		header.Cells = append(header.Cells, Cell{Text: text, Width: width * col.Width})
	}

	rows := make([]Row, 0, len(pc.Rows))
	for _, idx := range pc.Rows {
		src := t.Rows[idx]
		row := Row{Background: src.Background, Continued: src.Continued, Cells: make([]Cell, 0, len(src.Cells))}
		for i, v := range src.Cells {
			col := t.Columns[i]
			text := d.text(v, s.Body, false, d.l.Colors.TextPrimary)
			text.Lines = src.Lines[i]
			text.Align = col.Align
			row.Cells = append(row.Cells, Cell{Text: text, Width: width * col.Width})
		}
		rows = append(rows, row)
	}

	return Block{
		Kind:         BlockTable,
		Header:       &header,
		Rows:         rows,
		BorderBottom: d.px(t.BorderWidth),
		BorderColor:  t.BorderColor,
	}
}

func (d *drawer) totals() Block {
	t := d.l.Totals

	lines := make([]TotalLine, 0, len(t.Lines))
	for _, line := range t.Lines {
		label := d.text(line.Label, line.Size, line.Bold, line.Color)
		label.Lines = line.LabelLines
		value := d.text(line.Value, line.Size, line.Bold, line.Color)
		value.Lines = line.ValueLines
		lines = append(lines, TotalLine{
			Kind:       line.Kind,
			Label:      label,
			Value:      value,
			Emphasized: line.Emphasized,
		})
	}
	return Block{
		Kind:       BlockTotals,
		Align:      t.Alignment,
		Background: t.Background,
		Totals:     lines,
	}
}

// footer draws the footer lines that landed on one page
func (d *drawer) footer(indexes []int) Block {
	f := d.l.Footer
	c := d.l.Colors

	b := Block{
		Kind:        BlockFooter,
		Align:       f.TextAlign,
		Background:  f.Background,
		BorderColor: c.Border,
	}
	if f.BorderTop {
		b.BorderTop = d.px(1)
	}
	lines := make([]layout.Line, 0, len(indexes))
	for _, i := range indexes {
		lines = append(lines, f.Lines[i])
	}
	b.Lines = d.lines(lines, f.TextAlign)
	return b
}

func dataURI(img *layout.Image) template.URL {
	mime := "image/" + lo.Ternary(img.Format == "jpg", "jpeg", img.Format)
	// data is base64 so the URL cannot carry markup
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data))
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "px"
}

// fontFamily lets a sanitized font stack through the CSS escaper, which
// would otherwise reject the quotes around multi word families
func fontFamily(stack string) template.CSS {
	return template.CSS(fontUnsafe.ReplaceAllString(stack, ""))
}

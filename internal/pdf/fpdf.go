package pdf

import (
	"bytes"
	"context"
	"strings"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/layout"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/jung-kurt/gofpdf"
)

const logoName = "logo"

type fpdfGenerator struct {
	compress bool
	logger   *logger.Logger
}

// NewFpdfGenerator draws layouts with the embedded UTF-8 font
func NewFpdfGenerator(compress bool, logger *logger.Logger) Generator {
	return &fpdfGenerator{compress: compress, logger: logger}
}

func (g *fpdfGenerator) Engine() types.PDFEngine {
	return types.PDFEngineGofpdf
}

func (g *fpdfGenerator) Render(ctx context.Context, l *layout.Layout) (*Result, error) {
	orientation := "P"
	if l.Page.Orientation == types.OrientationLandscape {
		orientation = "L"
	}
	size := "A4"
	if l.Page.Format == types.PageFormatLetter {
		size = "Letter"
	}

	f := gofpdf.New(orientation, "mm", size, "")
	registerFonts(f)
	f.SetCompression(g.compress)
	f.SetTitle(l.Title, true)
	f.SetAuthor(l.Author, true)
	f.SetCreator("invoicer", false)
	f.SetMargins(mm(l.Page.Margins.Left), mm(l.Page.Margins.Top), mm(l.Page.Margins.Right))
	f.SetAutoPageBreak(false, mm(l.Page.Margins.Bottom))
	f.SetCellMargin(mm(layout.CellPadding))

	w := &writer{
		pdf:    f,
		layout: l,
		left:   mm(l.Page.Margins.Left),
		width:  mm(l.Page.ContentWidth),
	}

	result := &Result{}
	if l.Header.Logo != nil {
		if err := w.registerLogo(l.Header.Logo); err != nil {
			g.logger.Warnw("logo could not be embedded, rendering without it", "error", err)
			result.Skipped = append(result.Skipped, SkippedAsset{Asset: "logo", Reason: err.Error()})
		}
	}

	for _, page := range l.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f.AddPage()
		w.page(page)
	}

	if f.Err() {
		return nil, ierr.WithError(f.Error()).
			WithHint("The document could not be generated, please retry").
			Mark(ierr.ErrRenderFailure)
	}

	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return nil, ierr.WithError(err).
			WithHint("The document could not be generated, please retry").
			Mark(ierr.ErrRenderFailure)
	}

	result.Data = buf.Bytes()
	result.Pages = f.PageCount()
	return result, nil
}

func mm(px float64) float64 {
	return layout.PxToMM(px)
}

func lineHeight(pt float64) float64 {
	return mm(layout.LineHeight(pt))
}

func alignCode(a types.TextAlign) string {
	switch a {
	case types.TextAlignRight:
		return "R"
	case types.TextAlignCenter:
		return "C"
	default:
		return "L"
	}
}

type writer struct {
	pdf    *gofpdf.Fpdf
	layout *layout.Layout
	left   float64
	width  float64
	logo   bool
}

func (w *writer) registerLogo(img *layout.Image) error {
	opts := gofpdf.ImageOptions{ImageType: strings.ToUpper(img.Format)}
	w.pdf.RegisterImageOptionsReader(logoName, opts, bytes.NewReader(img.Data))
	if w.pdf.Err() {
		err := w.pdf.Error()
		w.pdf.ClearError()
		return err
	}
	w.logo = true
	return nil
}

func (w *writer) setText(size float64, bold bool, color string) {
	style := ""
	if bold {
		style = "B"
	}
	w.pdf.SetFont(fontFamily, style, size)
	c := parseHex(color)
	w.pdf.SetTextColor(c.r, c.g, c.b)
}

func (w *writer) setFill(color string) {
	c := parseHex(color)
	w.pdf.SetFillColor(c.r, c.g, c.b)
}

func (w *writer) setDraw(color string, widthPx float64) {
	c := parseHex(color)
	w.pdf.SetDrawColor(c.r, c.g, c.b)
	w.pdf.SetLineWidth(mm(widthPx))
}

func (w *writer) page(p layout.PageContent) {
	gap := mm(layout.BlockGap)
	if p.Header {
		w.header()
		w.pdf.Ln(gap)
	}
	if p.BillTo {
		w.billTo()
		w.pdf.Ln(gap)
	}
	if len(p.Rows) > 0 {
		w.table(p.Rows)
		w.pdf.Ln(gap)
	}
	if p.Totals {
		w.totals()
	}
	if len(p.FooterLines) > 0 && w.layout.Footer != nil {
		w.pdf.Ln(gap)
		w.footer(p.FooterLines)
	}
}

// column draws lines in a box starting at (x, y) and returns the bottom y
func (w *writer) column(x, y, width float64, align types.TextAlign, lines []layout.Line) float64 {
	for _, line := range lines {
		y += mm(line.Space)
		w.setText(line.Size, line.Bold, line.Color)
		h := lineHeight(line.Size)
		w.pdf.SetXY(x, y)
		w.pdf.CellFormat(width, h, line.Text, "", 0, alignCode(align), false, 0, "")
		y += h
	}
	return y
}

func (w *writer) drawLogo(x, y, width float64, align types.TextAlign) float64 {
	h := w.layout.Header
	if !w.logo || h.Logo == nil {
		return y
	}
	lw, lh := mm(h.LogoWidth), mm(h.LogoHeight)
	switch align {
	case types.TextAlignRight:
		x += width - lw
	case types.TextAlignCenter:
		x += (width - lw) / 2
	}
	w.pdf.ImageOptions(logoName, x, y, lw, lh, false, gofpdf.ImageOptions{}, 0, "")
	return y + lh + mm(layout.StackGap)
}

func (w *writer) header() {
	l := w.layout
	h := l.Header
	top := w.pdf.GetY()
	height := mm(l.HeaderHeight())
	inset := mm(layout.BlockInset)

	if h.Background != "" {
		w.setFill(h.Background)
		w.pdf.Rect(w.left, top, w.width, height, "F")
	}

	var bottom float64
	if h.Stacked {
		y := w.drawLogo(w.left, top+inset, w.width, types.TextAlignCenter)
		y = w.column(w.left, y, w.width, types.TextAlignCenter, h.Business)
		y = w.column(w.left, y+mm(layout.StackGap), w.width, types.TextAlignCenter, h.Invoice)
		bottom = w.statusBadge(w.left, y, w.width, types.TextAlignCenter)
	} else {
		half := w.width / 2
		bizX, detX := w.left, w.left+half
		if h.BusinessAlign == types.TextAlignRight {
			bizX, detX = w.left+half, w.left
		}

		by, dy := top+inset, top+inset
		if h.LogoAlign == h.BusinessAlign {
			by = w.drawLogo(bizX, by, half, h.LogoAlign)
		} else {
			dy = w.drawLogo(detX, dy, half, h.LogoAlign)
		}
		by = w.column(bizX, by, half, h.BusinessAlign, h.Business)
		dy = w.column(detX, dy, half, h.DetailsAlign, h.Invoice)
		dy = w.statusBadge(detX, dy, half, h.DetailsAlign)
		bottom = max(by, dy)
	}

	bottom = max(bottom+inset, top+height)
	if h.BorderBottom {
		w.setDraw(l.Colors.Border, 1)
		w.pdf.Line(w.left, bottom, w.left+w.width, bottom)
	}
	w.pdf.SetXY(w.left, bottom)
}

func (w *writer) statusBadge(x, y, width float64, align types.TextAlign) float64 {
	d := w.layout.Header.Details
	if d == nil {
		return y
	}
	size := w.layout.Fonts.Sizes.Small
	w.setText(size, true, "#ffffff")
	w.setFill(d.StatusColor)
	bw := w.pdf.GetStringWidth(d.Status) + 2*mm(layout.CellPadding)
	switch align {
	case types.TextAlignRight:
		x += width - bw
	case types.TextAlignCenter:
		x += (width - bw) / 2
	}
	h := lineHeight(size)
	y += mm(layout.BadgeGap)
	w.pdf.SetXY(x, y)
	w.pdf.CellFormat(bw, h, d.Status, "", 0, "C", true, 0, "")
	return y + h
}

func (w *writer) billTo() {
	y := w.column(w.left, w.pdf.GetY(), w.width/2, types.TextAlignLeft, w.layout.BillTo.Text)
	w.pdf.SetXY(w.left, y)
}

func (w *writer) table(rows []int) {
	l := w.layout
	t := l.Table
	body := l.Fonts.Sizes.Body
	headerH := mm(l.RowHeight())
	lineH := lineHeight(body)
	pad := (headerH - lineH) / 2

	if t.BorderWidth > 0 {
		w.setDraw(t.BorderColor, t.BorderWidth)
	}

	widths := make([]float64, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = col.Width * w.width
	}

	border := ""
	if t.BorderWidth > 0 {
		border = "1"
	}
	w.setText(body, true, t.HeaderText)
	w.setFill(t.HeaderBackground)
	w.pdf.SetX(w.left)
	for i, col := range t.Columns {
		w.pdf.CellFormat(widths[i], headerH, col.Label, border, 0, alignCode(col.Align), true, 0, "")
	}
	w.pdf.Ln(headerH)

	w.setText(body, false, l.Colors.TextPrimary)
	for _, idx := range rows {
		row := t.Rows[idx]
		top := w.pdf.GetY()
		rowH := mm(row.Height)

		x := w.left
		for i, lines := range row.Lines {
			if row.Background != "" {
				w.setFill(row.Background)
				w.pdf.Rect(x, top, widths[i], rowH, "F")
			}
			if border != "" {
				w.pdf.Rect(x, top, widths[i], rowH, "D")
			}
			for j, text := range lines {
				w.pdf.SetXY(x, top+pad+float64(j)*lineH)
				w.pdf.CellFormat(widths[i], lineH, text, "", 0, alignCode(t.Columns[i].Align), false, 0, "")
			}
			x += widths[i]
		}
		w.pdf.SetXY(w.left, top+rowH)
	}
}

func (w *writer) totals() {
	l := w.layout
	t := l.Totals

	width := mm(t.Width)
	valueW := mm(t.ValueWidth)
	labelW := width - valueW
	x := w.left + w.width - width
	if t.Alignment == types.TextAlignLeft {
		x = w.left
	}
	top := w.pdf.GetY()

	if t.Background != "" {
		w.setFill(t.Background)
		w.pdf.Rect(x, top, width, mm(l.TotalsHeight()), "F")
	}

	y := top + mm(layout.BlockInset)
	for _, line := range t.Lines {
		w.setText(line.Size, line.Bold, line.Color)
		h := lineHeight(line.Size)
		for i, text := range line.LabelLines {
			w.pdf.SetXY(x, y+float64(i)*h)
			w.pdf.CellFormat(labelW, h, text, "", 0, "L", false, 0, "")
		}
		for i, text := range line.ValueLines {
			w.pdf.SetXY(x+labelW, y+float64(i)*h)
			w.pdf.CellFormat(valueW, h, text, "", 0, "R", false, 0, "")
		}
		y += mm(line.Height())
	}
	w.pdf.SetXY(w.left, top+mm(l.TotalsHeight()))
}

func (w *writer) footer(indexes []int) {
	l := w.layout
	f := l.Footer
	top := w.pdf.GetY()

	if f.Background != "" {
		w.setFill(f.Background)
		w.pdf.Rect(w.left, top, w.width, mm(l.FooterHeight(indexes)), "F")
	}
	if f.BorderTop {
		w.setDraw(l.Colors.Border, 1)
		w.pdf.Line(w.left, top, w.left+w.width, top)
	}

	lines := make([]layout.Line, 0, len(indexes))
	for _, i := range indexes {
		lines = append(lines, f.Lines[i])
	}
	y := w.column(w.left, top+mm(layout.BlockInset), w.width, f.TextAlign, lines)
	w.pdf.SetXY(w.left, y+mm(layout.BlockInset))
}

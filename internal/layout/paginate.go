package layout

import "math"

const (
	// line height as a multiple of the font size
	lineSpacing = 1.5
	// BlockGap is the vertical space between blocks in px
	BlockGap = 24.0
	// BlockInset pads the header, totals and footer blocks top and bottom
	BlockInset = 8.0
	// rowPadding is the vertical padding of a table row in px
	rowPadding = 8.0
	// sectionGap separates footer sections in px
	sectionGap = 8.0
	// BadgeGap is the space above the status badge in px
	BadgeGap = 4.0
	// StackGap separates the business and details columns of a stacked header
	StackGap = 8.0
)

// LineHeight is the height in px of one line of text set at pt
func LineHeight(pt float64) float64 {
	return PtToPx(pt) * lineSpacing
}

func rowHeight(pt float64) float64 {
	return LineHeight(pt) + rowPadding
}

// RowHeight is the height of the table header row in px
func (l *Layout) RowHeight() float64 {
	return rowHeight(l.Fonts.Sizes.Body)
}

// HeaderHeight is the height of the header block in px
func (l *Layout) HeaderHeight() float64 {
	h := l.Header
	business := linesHeight(h.Business)
	details := linesHeight(h.Invoice)
	if h.Details != nil {
		details += BadgeGap + LineHeight(l.Fonts.Sizes.Small)
	}

	if h.Logo != nil {
		// the logo sits above the column sharing its alignment
		logo := h.LogoHeight + StackGap
		if h.Stacked || h.LogoAlign == h.BusinessAlign {
			business += logo
		} else {
			details += logo
		}
	}

	text := math.Max(business, details)
	if h.Stacked {
		text = business + StackGap + details
	}
	return text + 2*BlockInset
}

// BillToHeight is the height of the client block in px
func (l *Layout) BillToHeight() float64 {
	return linesHeight(l.BillTo.Text)
}

// TotalsHeight is the height of the totals block in px
func (l *Layout) TotalsHeight() float64 {
	h := 0.0
	for _, line := range l.Totals.Lines {
		h += line.Height()
	}
	return h + 2*BlockInset
}

// FooterHeight is the height of the footer block drawing the given lines,
// zero when there is no footer
func (l *Layout) FooterHeight(lines []int) float64 {
	if l.Footer == nil || len(lines) == 0 {
		return 0
	}
	h := 2 * BlockInset
	for _, i := range lines {
		h += l.Footer.Lines[i].Height()
	}
	return h
}

// paginate maps blocks, table rows and footer lines onto pages. The header
// and bill-to block open the first page and the table header repeats on
// every page that has rows. Totals follow the last row and the footer flows
// after them, continuing on new pages when it does not fit. Every row and
// footer line lands on exactly one page.
func paginate(l *Layout) []PageContent {
	content := l.Page.ContentHeight
	tableHeader := l.RowHeight()

	pages := []PageContent{{Number: 1, Header: true, BillTo: true, Rows: []int{}, FooterLines: []int{}}}
	current := &pages[0]
	remaining := content - l.HeaderHeight() - BlockGap - l.BillToHeight() - BlockGap
	// fresh pages take at least one row or line so nothing is pushed forever
	fresh := false

	newPage := func() {
		pages = append(pages, PageContent{Number: len(pages) + 1, Rows: []int{}, FooterLines: []int{}})
		current = &pages[len(pages)-1]
		remaining = content
		fresh = true
	}

	for i, row := range l.Table.Rows {
		need := row.Height
		if len(current.Rows) == 0 {
			need += tableHeader
		}
		if need > remaining && !fresh {
			newPage()
			need = tableHeader + row.Height
		}
		current.TableHeader = true
		current.Rows = append(current.Rows, i)
		remaining -= need
		fresh = false
	}

	need := BlockGap + l.TotalsHeight()
	if need > remaining && len(current.Rows) > 0 {
		newPage()
	}
	current.Totals = true
	remaining -= need
	fresh = false

	if l.Footer == nil {
		return pages
	}
	for i, line := range l.Footer.Lines {
		need := line.Height()
		if len(current.FooterLines) == 0 {
			need += BlockGap + 2*BlockInset
		}
		if need > remaining && !fresh {
			newPage()
			need = line.Height() + BlockGap + 2*BlockInset
		}
		current.Footer = true
		current.FooterLines = append(current.FooterLines, i)
		remaining -= need
		fresh = false
	}
	return pages
}

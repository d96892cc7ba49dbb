package template

import (
	"regexp"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/types"
)

// hexColor accepts #abc and #aabbcc
var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsHexColor reports whether s is a 3 or 6 digit hex color with a leading #
func IsHexColor(s string) bool {
	return hexColor.MatchString(s)
}

// Config is an immutable visual template. All fields are values except
// Fonts.Fallback, so Clone is enough to hand out an independent copy.
type Config struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Category    types.TemplateCategory `json:"category"`
	IsDefault   bool                   `json:"is_default"`
	Layout      Layout                 `json:"layout"`
	Colors      Colors                 `json:"colors"`
	Fonts       Fonts                  `json:"fonts"`
	Styles      Styles                 `json:"styles"`
}

type Layout struct {
	Format      types.PageFormat  `json:"format"`
	Orientation types.Orientation `json:"orientation"`
	Margins     Margins           `json:"margins"`
}

// Margins are in px at 96 dpi
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

type Colors struct {
	Primary       string `json:"primary"`
	Secondary     string `json:"secondary"`
	Accent        string `json:"accent"`
	TextPrimary   string `json:"text_primary"`
	TextSecondary string `json:"text_secondary"`
	Background    string `json:"background"`
	Border        string `json:"border"`
}

type Fonts struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	// Fallback is the font stack appended after Primary in the preview
	Fallback []string  `json:"fallback"`
	Sizes    FontSizes `json:"sizes"`
}

// FontSizes are in pt
type FontSizes struct {
	Title   float64 `json:"title"`
	Heading float64 `json:"heading"`
	Body    float64 `json:"body"`
	Small   float64 `json:"small"`
}

type Styles struct {
	Header HeaderStyle `json:"header"`
	Footer FooterStyle `json:"footer"`
	Table  TableStyle  `json:"table"`
	Totals TotalsStyle `json:"totals"`
}

type HeaderStyle struct {
	Layout             types.HeaderLayout `json:"layout"`
	LogoSize           float64            `json:"logo_size"`
	ShowBusinessInfo   bool               `json:"show_business_info"`
	ShowInvoiceDetails bool               `json:"show_invoice_details"`
	Background         string             `json:"background,omitempty"`
	BorderBottom       bool               `json:"border_bottom"`
}

type FooterStyle struct {
	ShowTerms               bool            `json:"show_terms"`
	ShowPaymentInstructions bool            `json:"show_payment_instructions"`
	ShowNotes               bool            `json:"show_notes"`
	TextAlign               types.TextAlign `json:"text_align"`
	Background              string          `json:"background,omitempty"`
	BorderTop               bool            `json:"border_top"`
}

type TableStyle struct {
	HeaderBackground       string            `json:"header_background"`
	HeaderText             string            `json:"header_text"`
	RowAlternateBackground string            `json:"row_alternate_background,omitempty"`
	BorderStyle            types.BorderStyle `json:"border_style"`
	ShowRowNumbers         bool              `json:"show_row_numbers"`
}

type TotalsStyle struct {
	Alignment             types.TextAlign `json:"alignment"`
	Background            string          `json:"background,omitempty"`
	HighlightTotal        bool            `json:"highlight_total"`
	ShowSubtotalBreakdown bool            `json:"show_subtotal_breakdown"`
}

// Clone returns a deep copy of the config
func (c Config) Clone() Config {
	out := c
	if c.Fonts.Fallback != nil {
		out.Fonts.Fallback = append([]string(nil), c.Fonts.Fallback...)
	}
	return out
}

// Validate checks enums, colors, font sizes and margins of a config
func (c Config) Validate() error {
	if c.ID == "" {
		return ierr.NewError("template id is required").
			WithHint("Every template needs a stable id").
			Mark(ierr.ErrValidation)
	}

	enums := []interface{ Validate() error }{
		c.Category,
		c.Layout.Format,
		c.Layout.Orientation,
		c.Styles.Header.Layout,
		c.Styles.Footer.TextAlign,
		c.Styles.Table.BorderStyle,
		c.Styles.Totals.Alignment,
	}
	for _, e := range enums {
		if err := e.Validate(); err != nil {
			return ierr.WithError(err).
				WithMessagef("template %s", c.ID).
				Mark(ierr.ErrValidation)
		}
	}

	if c.Styles.Totals.Alignment == types.TextAlignCenter {
		return ierr.NewErrorf("template %s: totals alignment must be left or right", c.ID).
			WithHint("Totals can only be aligned left or right").
			Mark(ierr.ErrValidation)
	}

	required := map[string]string{
		"colors.primary":                 c.Colors.Primary,
		"colors.secondary":               c.Colors.Secondary,
		"colors.accent":                  c.Colors.Accent,
		"colors.text_primary":            c.Colors.TextPrimary,
		"colors.text_secondary":          c.Colors.TextSecondary,
		"colors.background":              c.Colors.Background,
		"colors.border":                  c.Colors.Border,
		"styles.table.header_background": c.Styles.Table.HeaderBackground,
		"styles.table.header_text":       c.Styles.Table.HeaderText,
	}
	optional := map[string]string{
		"styles.header.background":              c.Styles.Header.Background,
		"styles.footer.background":              c.Styles.Footer.Background,
		"styles.table.row_alternate_background": c.Styles.Table.RowAlternateBackground,
		"styles.totals.background":              c.Styles.Totals.Background,
	}
	for field, v := range required {
		if !IsHexColor(v) {
			return invalidColor(c.ID, field, v)
		}
	}
	for field, v := range optional {
		if v != "" && !IsHexColor(v) {
			return invalidColor(c.ID, field, v)
		}
	}

	s := c.Fonts.Sizes
	for _, size := range []float64{s.Title, s.Heading, s.Body, s.Small} {
		if size <= 0 || size > maxFontSize {
			return ierr.NewErrorf("template %s: font size %v out of range", c.ID, size).
				WithHintf("Font sizes must be between 0 and %v pt", maxFontSize).
				Mark(ierr.ErrValidation)
		}
	}
	m := c.Layout.Margins
	for _, margin := range []float64{m.Top, m.Right, m.Bottom, m.Left} {
		if margin < 0 || margin > maxMargin {
			return ierr.NewErrorf("template %s: margin %v out of range", c.ID, margin).
				WithHintf("Margins must be between 0 and %v px", maxMargin).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

const (
	maxFontSize = 72.0
	// maxMargin leaves room for content on the smallest page side
	maxMargin = 200.0
)

func invalidColor(id, field, value string) error {
	return ierr.NewErrorf("template %s: %s is not a hex color", id, field).
		WithHint("Colors must be hex values like #1a2b3c").
		WithReportableDetails(map[string]any{
			"field": field,
			"value": value,
		}).
		Mark(ierr.ErrValidation)
}

package branding

import (
	"github.com/flexprice/invoicer/internal/types"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Customizations is a partial template config. A nil pointer leaves the base
// value untouched; a nil block skips the whole block. Keys are the same as
// template.Config's JSON keys.
type Customizations struct {
	Layout *LayoutOverride `json:"layout,omitempty"`
	Colors *ColorsOverride `json:"colors,omitempty"`
	Fonts  *FontsOverride  `json:"fonts,omitempty"`
	Styles *StylesOverride `json:"styles,omitempty"`
}

type LayoutOverride struct {
	Format      *types.PageFormat  `json:"format,omitempty"`
	Orientation *types.Orientation `json:"orientation,omitempty"`
	Margins     *MarginsOverride   `json:"margins,omitempty"`
}

type MarginsOverride struct {
	Top    *float64 `json:"top,omitempty"`
	Right  *float64 `json:"right,omitempty"`
	Bottom *float64 `json:"bottom,omitempty"`
	Left   *float64 `json:"left,omitempty"`
}

type ColorsOverride struct {
	Primary       *string `json:"primary,omitempty"`
	Secondary     *string `json:"secondary,omitempty"`
	Accent        *string `json:"accent,omitempty"`
	TextPrimary   *string `json:"text_primary,omitempty"`
	TextSecondary *string `json:"text_secondary,omitempty"`
	Background    *string `json:"background,omitempty"`
	Border        *string `json:"border,omitempty"`
}

type FontsOverride struct {
	Primary   *string `json:"primary,omitempty"`
	Secondary *string `json:"secondary,omitempty"`
	// Fallback replaces the whole stack when non-nil, an empty list included
	Fallback []string           `json:"fallback,omitempty"`
	Sizes    *FontSizesOverride `json:"sizes,omitempty"`
}

type FontSizesOverride struct {
	Title   *float64 `json:"title,omitempty"`
	Heading *float64 `json:"heading,omitempty"`
	Body    *float64 `json:"body,omitempty"`
	Small   *float64 `json:"small,omitempty"`
}

type StylesOverride struct {
	Header *HeaderOverride `json:"header,omitempty"`
	Footer *FooterOverride `json:"footer,omitempty"`
	Table  *TableOverride  `json:"table,omitempty"`
	Totals *TotalsOverride `json:"totals,omitempty"`
}

type HeaderOverride struct {
	Layout             *types.HeaderLayout `json:"layout,omitempty"`
	LogoSize           *float64            `json:"logo_size,omitempty"`
	ShowBusinessInfo   *bool               `json:"show_business_info,omitempty"`
	ShowInvoiceDetails *bool               `json:"show_invoice_details,omitempty"`
	Background         *string             `json:"background,omitempty"`
	BorderBottom       *bool               `json:"border_bottom,omitempty"`
}

type FooterOverride struct {
	ShowTerms               *bool            `json:"show_terms,omitempty"`
	ShowPaymentInstructions *bool            `json:"show_payment_instructions,omitempty"`
	ShowNotes               *bool            `json:"show_notes,omitempty"`
	TextAlign               *types.TextAlign `json:"text_align,omitempty"`
	Background              *string          `json:"background,omitempty"`
	BorderTop               *bool            `json:"border_top,omitempty"`
}

type TableOverride struct {
	HeaderBackground       *string            `json:"header_background,omitempty"`
	HeaderText             *string            `json:"header_text,omitempty"`
	RowAlternateBackground *string            `json:"row_alternate_background,omitempty"`
	BorderStyle            *types.BorderStyle `json:"border_style,omitempty"`
	ShowRowNumbers         *bool              `json:"show_row_numbers,omitempty"`
}

type TotalsOverride struct {
	Alignment             *types.TextAlign `json:"alignment,omitempty"`
	Background            *string          `json:"background,omitempty"`
	HighlightTotal        *bool            `json:"highlight_total,omitempty"`
	ShowSubtotalBreakdown *bool            `json:"show_subtotal_breakdown,omitempty"`
}

// ParseCustomizations decodes a JSON override tree. Keys that do not match a
// template field are dropped.
func ParseCustomizations(data []byte) (*Customizations, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var c Customizations
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

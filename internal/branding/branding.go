// Package branding merges a tenant's visual overrides onto a template.
package branding

import (
	"strings"

	"github.com/flexprice/invoicer/internal/domain/profile"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/template"
	"github.com/flexprice/invoicer/internal/validator"
	"github.com/samber/lo"
)

// Branding is supplied per request and never cached
type Branding struct {
	LogoURL                string          `json:"logo_url,omitempty"`
	PrimaryColor           string          `json:"primary_color"`
	SecondaryColor         string          `json:"secondary_color,omitempty"`
	FontFamily             string          `json:"font_family,omitempty"`
	TemplateCustomizations *Customizations `json:"template_customizations,omitempty"`
	TemplateID             string          `json:"template_id,omitempty"`
}

// Result is the outcome of Validate
type Result struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// Apply returns the effective configuration for base with b layered on top.
// base is never modified.
func Apply(base template.Config, b Branding) template.Config {
	out := base.Clone()

	out.Colors.Primary = b.PrimaryColor
	if b.SecondaryColor != "" {
		out.Colors.Secondary = b.SecondaryColor
	}
	if b.FontFamily != "" {
		out.Fonts.Primary = b.FontFamily
		out.Fonts.Secondary = b.FontFamily
	}

	if c := b.TemplateCustomizations; c != nil {
		mergeLayout(&out.Layout, c.Layout)
		mergeColors(&out.Colors, c.Colors)
		mergeFonts(&out.Fonts, c.Fonts)
		if c.Styles != nil {
			mergeHeader(&out.Styles.Header, c.Styles.Header)
			mergeFooter(&out.Styles.Footer, c.Styles.Footer)
			mergeTable(&out.Styles.Table, c.Styles.Table)
			mergeTotals(&out.Styles.Totals, c.Styles.Totals)
		}
	}
	return out
}

// Validate checks b without modifying it
func Validate(b Branding) Result {
	var errs []string

	switch {
	case b.PrimaryColor == "":
		errs = append(errs, "primary color is required")
	case !template.IsHexColor(b.PrimaryColor):
		errs = append(errs, "primary color must be a hex color like #abc or #aabbcc")
	}
	if b.SecondaryColor != "" && !template.IsHexColor(b.SecondaryColor) {
		errs = append(errs, "secondary color must be a hex color like #abc or #aabbcc")
	}
	if b.LogoURL != "" && !validator.IsURL(b.LogoURL) {
		errs = append(errs, "logo url must be a valid URL")
	}

	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// Err converts a failed result into a validation error
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}
	return ierr.NewError("invalid branding").
		WithHint(strings.Join(r.Errors, "; ")).
		WithReportableDetails(map[string]any{
			"errors": r.Errors,
		}).
		Mark(ierr.ErrValidation)
}

// FromProfile derives branding from a stored profile. It returns nil when the
// profile carries no brand color.
func FromProfile(p *profile.Profile) (*Branding, error) {
	if p == nil || lo.FromPtr(p.BrandPrimaryColor) == "" {
		return nil, nil
	}

	custom, err := ParseCustomizations([]byte(lo.FromPtr(p.TemplateCustomizations)))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Stored template customizations are not valid JSON").
			WithReportableDetails(map[string]any{
				"owner_id": p.OwnerID,
			}).
			Mark(ierr.ErrValidation)
	}

	return &Branding{
		LogoURL:                lo.FromPtr(p.LogoURL),
		PrimaryColor:           lo.FromPtr(p.BrandPrimaryColor),
		SecondaryColor:         lo.FromPtr(p.BrandSecondaryColor),
		FontFamily:             lo.FromPtr(p.BrandFontFamily),
		TemplateCustomizations: custom,
		TemplateID:             lo.FromPtr(p.PreferredTemplateID),
	}, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func mergeLayout(dst *template.Layout, o *LayoutOverride) {
	if o == nil {
		return
	}
	set(&dst.Format, o.Format)
	set(&dst.Orientation, o.Orientation)
	if m := o.Margins; m != nil {
		set(&dst.Margins.Top, m.Top)
		set(&dst.Margins.Right, m.Right)
		set(&dst.Margins.Bottom, m.Bottom)
		set(&dst.Margins.Left, m.Left)
	}
}

func mergeColors(dst *template.Colors, o *ColorsOverride) {
	if o == nil {
		return
	}
	set(&dst.Primary, o.Primary)
	set(&dst.Secondary, o.Secondary)
	set(&dst.Accent, o.Accent)
	set(&dst.TextPrimary, o.TextPrimary)
	set(&dst.TextSecondary, o.TextSecondary)
	set(&dst.Background, o.Background)
	set(&dst.Border, o.Border)
}

func mergeFonts(dst *template.Fonts, o *FontsOverride) {
	if o == nil {
		return
	}
	set(&dst.Primary, o.Primary)
	set(&dst.Secondary, o.Secondary)
	// arrays are replaced, never appended
	if o.Fallback != nil {
		dst.Fallback = append([]string{}, o.Fallback...)
	}
	if s := o.Sizes; s != nil {
		set(&dst.Sizes.Title, s.Title)
		set(&dst.Sizes.Heading, s.Heading)
		set(&dst.Sizes.Body, s.Body)
		set(&dst.Sizes.Small, s.Small)
	}
}

func mergeHeader(dst *template.HeaderStyle, o *HeaderOverride) {
	if o == nil {
		return
	}
	set(&dst.Layout, o.Layout)
	set(&dst.LogoSize, o.LogoSize)
	set(&dst.ShowBusinessInfo, o.ShowBusinessInfo)
	set(&dst.ShowInvoiceDetails, o.ShowInvoiceDetails)
	set(&dst.Background, o.Background)
	set(&dst.BorderBottom, o.BorderBottom)
}

func mergeFooter(dst *template.FooterStyle, o *FooterOverride) {
	if o == nil {
		return
	}
	set(&dst.ShowTerms, o.ShowTerms)
	set(&dst.ShowPaymentInstructions, o.ShowPaymentInstructions)
	set(&dst.ShowNotes, o.ShowNotes)
	set(&dst.TextAlign, o.TextAlign)
	set(&dst.Background, o.Background)
	set(&dst.BorderTop, o.BorderTop)
}

func mergeTable(dst *template.TableStyle, o *TableOverride) {
	if o == nil {
		return
	}
	set(&dst.HeaderBackground, o.HeaderBackground)
	set(&dst.HeaderText, o.HeaderText)
	set(&dst.RowAlternateBackground, o.RowAlternateBackground)
	set(&dst.BorderStyle, o.BorderStyle)
	set(&dst.ShowRowNumbers, o.ShowRowNumbers)
}

func mergeTotals(dst *template.TotalsStyle, o *TotalsOverride) {
	if o == nil {
		return
	}
	set(&dst.Alignment, o.Alignment)
	set(&dst.Background, o.Background)
	set(&dst.HighlightTotal, o.HighlightTotal)
	set(&dst.ShowSubtotalBreakdown, o.ShowSubtotalBreakdown)
}

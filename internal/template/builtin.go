package template

import "github.com/flexprice/invoicer/internal/types"

const (
	IDProfessional = "professional"
	IDModern       = "modern"
	IDMinimal      = "minimal"
	IDCreative     = "creative"
	IDCorporate    = "corporate"
	IDLedger       = "ledger"
)

var (
	sansStack  = []string{"Helvetica Neue", "Helvetica", "Arial", "sans-serif"}
	serifStack = []string{"Georgia", "Times New Roman", "serif"}
)

// Builtin returns the built-in catalog, professional being the default
func Builtin() []Config {
	return []Config{
		professional(),
		modern(),
		minimal(),
		creative(),
		corporate(),
		ledger(),
	}
}

func professional() Config {
	return Config{
		ID:          IDProfessional,
		Name:        "Professional",
		Description: "Balanced two column header with a shaded line table",
		Category:    types.TemplateCategoryProfessional,
		IsDefault:   true,
		Layout: Layout{
			Format:      types.PageFormatA4,
			Orientation: types.OrientationPortrait,
			Margins:     Margins{Top: 48, Right: 48, Bottom: 48, Left: 48},
		},
		Colors: Colors{
			Primary:       "#1f3a5f",
			Secondary:     "#4a6fa5",
			Accent:        "#f2a541",
			TextPrimary:   "#1d1d1f",
			TextSecondary: "#6b7280",
			Background:    "#ffffff",
			Border:        "#d1d5db",
		},
		Fonts: Fonts{
			Primary:   "Helvetica",
			Secondary: "Helvetica",
			Fallback:  sansStack,
			Sizes:     FontSizes{Title: 22, Heading: 13, Body: 10, Small: 8},
		},
		Styles: Styles{
			Header: HeaderStyle{
				Layout:             types.HeaderLayoutSplit,
				LogoSize:           64,
				ShowBusinessInfo:   true,
				ShowInvoiceDetails: true,
				BorderBottom:       true,
			},
			Footer: FooterStyle{
				ShowTerms:               true,
				ShowPaymentInstructions: true,
				ShowNotes:               true,
				TextAlign:               types.TextAlignLeft,
				BorderTop:               true,
			},
			Table: TableStyle{
				HeaderBackground:       "#1f3a5f",
				HeaderText:             "#ffffff",
				RowAlternateBackground: "#f5f7fa",
				BorderStyle:            types.BorderStyleLight,
			},
			Totals: TotalsStyle{
				Alignment:             types.TextAlignRight,
				HighlightTotal:        true,
				ShowSubtotalBreakdown: true,
			},
		},
	}
}

func modern() Config {
	return Config{
		ID:          IDModern,
		Name:        "Modern",
		Description: "Tinted header band and borderless table",
		Category:    types.TemplateCategoryModern,
		Layout: Layout{
			Format:      types.PageFormatLetter,
			Orientation: types.OrientationPortrait,
			Margins:     Margins{Top: 40, Right: 56, Bottom: 40, Left: 56},
		},
		Colors: Colors{
			Primary:       "#6c5ce7",
			Secondary:     "#a29bfe",
			Accent:        "#00cec9",
			TextPrimary:   "#2d3436",
			TextSecondary: "#636e72",
			Background:    "#ffffff",
			Border:        "#dfe6e9",
		},
		Fonts: Fonts{
			Primary:   "Inter",
			Secondary: "Inter",
			Fallback:  sansStack,
			Sizes:     FontSizes{Title: 26, Heading: 14, Body: 10, Small: 8},
		},
		Styles: Styles{
			Header: HeaderStyle{
				Layout:             types.HeaderLayoutLeft,
				LogoSize:           56,
				ShowBusinessInfo:   true,
				ShowInvoiceDetails: true,
				Background:         "#f4f2ff",
			},
			Footer: FooterStyle{
				ShowTerms:               true,
				ShowPaymentInstructions: true,
				ShowNotes:               true,
				TextAlign:               types.TextAlignLeft,
			},
			Table: TableStyle{
				HeaderBackground: "#6c5ce7",
				HeaderText:       "#ffffff",
				BorderStyle:      types.BorderStyleNone,
			},
			Totals: TotalsStyle{
				Alignment:             types.TextAlignRight,
				Background:            "#f4f2ff",
				HighlightTotal:        true,
				ShowSubtotalBreakdown: true,
			},
		},
	}
}

func minimal() Config {
	return Config{
		ID:          IDMinimal,
		Name:        "Minimal",
		Description: "Monochrome, no shading, grand total only",
		Category:    types.TemplateCategoryMinimal,
		Layout: Layout{
			Format:      types.PageFormatA4,
			Orientation: types.OrientationPortrait,
			Margins:     Margins{Top: 64, Right: 64, Bottom: 64, Left: 64},
		},
		Colors: Colors{
			Primary:       "#111111",
			Secondary:     "#555555",
			Accent:        "#111111",
			TextPrimary:   "#111111",
			TextSecondary: "#777777",
			Background:    "#ffffff",
			Border:        "#e5e5e5",
		},
		Fonts: Fonts{
			Primary:   "Helvetica",
			Secondary: "Helvetica",
			Fallback:  sansStack,
			Sizes:     FontSizes{Title: 18, Heading: 11, Body: 9, Small: 7},
		},
		Styles: Styles{
			Header: HeaderStyle{
				Layout:             types.HeaderLayoutLeft,
				LogoSize:           40,
				ShowBusinessInfo:   true,
				ShowInvoiceDetails: true,
			},
			Footer: FooterStyle{
				ShowNotes: true,
				TextAlign: types.TextAlignCenter,
			},
			Table: TableStyle{
				HeaderBackground: "#ffffff",
				HeaderText:       "#111111",
				BorderStyle:      types.BorderStyleLight,
			},
			Totals: TotalsStyle{
				Alignment: types.TextAlignRight,
			},
		},
	}
}

func creative() Config {
	return Config{
		ID:          IDCreative,
		Name:        "Creative",
		Description: "Centered identity, numbered rows, warm palette",
		Category:    types.TemplateCategoryCreative,
		Layout: Layout{
			Format:      types.PageFormatA4,
			Orientation: types.OrientationPortrait,
			Margins:     Margins{Top: 40, Right: 40, Bottom: 40, Left: 40},
		},
		Colors: Colors{
			Primary:       "#e17055",
			Secondary:     "#fdcb6e",
			Accent:        "#00b894",
			TextPrimary:   "#2d3436",
			TextSecondary: "#8a6d63",
			Background:    "#fffaf7",
			Border:        "#fab1a0",
		},
		Fonts: Fonts{
			Primary:   "Georgia",
			Secondary: "Helvetica",
			Fallback:  serifStack,
			Sizes:     FontSizes{Title: 28, Heading: 14, Body: 10, Small: 8},
		},
		Styles: Styles{
			Header: HeaderStyle{
				Layout:             types.HeaderLayoutCenter,
				LogoSize:           96,
				ShowBusinessInfo:   true,
				ShowInvoiceDetails: true,
			},
			Footer: FooterStyle{
				ShowTerms:               true,
				ShowPaymentInstructions: true,
				ShowNotes:               true,
				TextAlign:               types.TextAlignCenter,
				Background:              "#fff4f0",
			},
			Table: TableStyle{
				HeaderBackground:       "#e17055",
				HeaderText:             "#ffffff",
				RowAlternateBackground: "#fff4f0",
				BorderStyle:            types.BorderStyleMedium,
				ShowRowNumbers:         true,
			},
			Totals: TotalsStyle{
				Alignment:             types.TextAlignLeft,
				Background:            "#fff4f0",
				HighlightTotal:        true,
				ShowSubtotalBreakdown: true,
			},
		},
	}
}

func corporate() Config {
	return Config{
		ID:          IDCorporate,
		Name:        "Corporate",
		Description: "Right aligned identity with heavy rules",
		Category:    types.TemplateCategoryCorporate,
		Layout: Layout{
			Format:      types.PageFormatLetter,
			Orientation: types.OrientationPortrait,
			Margins:     Margins{Top: 54, Right: 54, Bottom: 54, Left: 54},
		},
		Colors: Colors{
			Primary:       "#0b3d91",
			Secondary:     "#5c7cba",
			Accent:        "#c8102e",
			TextPrimary:   "#1b1b1b",
			TextSecondary: "#5a5a5a",
			Background:    "#ffffff",
			Border:        "#8a9bb8",
		},
		Fonts: Fonts{
			Primary:   "Times New Roman",
			Secondary: "Helvetica",
			Fallback:  serifStack,
			Sizes:     FontSizes{Title: 20, Heading: 12, Body: 10, Small: 8},
		},
		Styles: Styles{
			Header: HeaderStyle{
				Layout:             types.HeaderLayoutRight,
				LogoSize:           72,
				ShowBusinessInfo:   true,
				ShowInvoiceDetails: true,
				BorderBottom:       true,
			},
			Footer: FooterStyle{
				ShowTerms:               true,
				ShowPaymentInstructions: true,
				TextAlign:               types.TextAlignLeft,
				Background:              "#f0f3f8",
				BorderTop:               true,
			},
			Table: TableStyle{
				HeaderBackground:       "#0b3d91",
				HeaderText:             "#ffffff",
				RowAlternateBackground: "#f0f3f8",
				BorderStyle:            types.BorderStyleHeavy,
				ShowRowNumbers:         true,
			},
			Totals: TotalsStyle{
				Alignment:             types.TextAlignRight,
				HighlightTotal:        true,
				ShowSubtotalBreakdown: true,
			},
		},
	}
}

func ledger() Config {
	return Config{
		ID:          IDLedger,
		Name:        "Ledger",
		Description: "Landscape, dense rows for long invoices",
		Category:    types.TemplateCategoryProfessional,
		Layout: Layout{
			Format:      types.PageFormatA4,
			Orientation: types.OrientationLandscape,
			Margins:     Margins{Top: 32, Right: 40, Bottom: 32, Left: 40},
		},
		Colors: Colors{
			Primary:       "#2f4f4f",
			Secondary:     "#708090",
			Accent:        "#daa520",
			TextPrimary:   "#1c1c1c",
			TextSecondary: "#696969",
			Background:    "#ffffff",
			Border:        "#c0c0c0",
		},
		Fonts: Fonts{
			Primary:   "Courier",
			Secondary: "Helvetica",
			Fallback:  []string{"Courier New", "monospace"},
			Sizes:     FontSizes{Title: 18, Heading: 11, Body: 8, Small: 7},
		},
		Styles: Styles{
			Header: HeaderStyle{
				Layout:             types.HeaderLayoutSplit,
				LogoSize:           40,
				ShowBusinessInfo:   true,
				ShowInvoiceDetails: true,
				BorderBottom:       true,
			},
			Footer: FooterStyle{
				ShowTerms:               true,
				ShowPaymentInstructions: true,
				ShowNotes:               true,
				TextAlign:               types.TextAlignLeft,
			},
			Table: TableStyle{
				HeaderBackground:       "#2f4f4f",
				HeaderText:             "#ffffff",
				RowAlternateBackground: "#f7f7f7",
				BorderStyle:            types.BorderStyleLight,
				ShowRowNumbers:         true,
			},
			Totals: TotalsStyle{
				Alignment:             types.TextAlignRight,
				HighlightTotal:        true,
				ShowSubtotalBreakdown: true,
			},
		},
	}
}

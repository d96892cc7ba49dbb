package types

import (
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/samber/lo"
)

// TemplateCategory groups templates in the catalog
type TemplateCategory string

const (
	TemplateCategoryProfessional TemplateCategory = "professional"
	TemplateCategoryModern       TemplateCategory = "modern"
	TemplateCategoryMinimal      TemplateCategory = "minimal"
	TemplateCategoryCreative     TemplateCategory = "creative"
	TemplateCategoryCorporate    TemplateCategory = "corporate"
)

// TemplateCategories lists the built-in taxonomy in display order
var TemplateCategories = []TemplateCategory{
	TemplateCategoryProfessional,
	TemplateCategoryModern,
	TemplateCategoryMinimal,
	TemplateCategoryCreative,
	TemplateCategoryCorporate,
}

func (c TemplateCategory) Validate() error {
	if !lo.Contains(TemplateCategories, c) {
		return ierr.NewError("invalid template category").
			WithHint("Please provide a valid template category").
			WithReportableDetails(map[string]any{
				"allowed": TemplateCategories,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

type PageFormat string

const (
	PageFormatA4     PageFormat = "A4"
	PageFormatLetter PageFormat = "Letter"
)

type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

type HeaderLayout string

const (
	HeaderLayoutLeft   HeaderLayout = "left"
	HeaderLayoutRight  HeaderLayout = "right"
	HeaderLayoutCenter HeaderLayout = "center"
	HeaderLayoutSplit  HeaderLayout = "split"
)

type TextAlign string

const (
	TextAlignLeft   TextAlign = "left"
	TextAlignCenter TextAlign = "center"
	TextAlignRight  TextAlign = "right"
)

type BorderStyle string

const (
	BorderStyleNone   BorderStyle = "none"
	BorderStyleLight  BorderStyle = "light"
	BorderStyleMedium BorderStyle = "medium"
	BorderStyleHeavy  BorderStyle = "heavy"
)

// Width returns the stroke width in px for the border style
func (b BorderStyle) Width() float64 {
	switch b {
	case BorderStyleLight:
		return 0.5
	case BorderStyleMedium:
		return 1
	case BorderStyleHeavy:
		return 2
	default:
		return 0
	}
}

func (f PageFormat) Validate() error {
	return validateEnum("page format", f, []PageFormat{PageFormatA4, PageFormatLetter})
}

func (o Orientation) Validate() error {
	return validateEnum("orientation", o, []Orientation{OrientationPortrait, OrientationLandscape})
}

func (h HeaderLayout) Validate() error {
	return validateEnum("header layout", h, []HeaderLayout{
		HeaderLayoutLeft, HeaderLayoutRight, HeaderLayoutCenter, HeaderLayoutSplit,
	})
}

func (a TextAlign) Validate() error {
	return validateEnum("text alignment", a, []TextAlign{TextAlignLeft, TextAlignCenter, TextAlignRight})
}

func (b BorderStyle) Validate() error {
	return validateEnum("border style", b, []BorderStyle{
		BorderStyleNone, BorderStyleLight, BorderStyleMedium, BorderStyleHeavy,
	})
}

func validateEnum[T comparable](name string, value T, allowed []T) error {
	if !lo.Contains(allowed, value) {
		return ierr.NewErrorf("invalid %s", name).
			WithHintf("Please provide a valid %s", name).
			WithReportableDetails(map[string]any{
				"value":   value,
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

package dto

import (
	"github.com/flexprice/invoicer/internal/branding"
	"github.com/flexprice/invoicer/internal/mapper"
	"github.com/flexprice/invoicer/internal/render"
	"github.com/flexprice/invoicer/internal/template"
	"github.com/flexprice/invoicer/internal/types"
)

// RenderQuery carries the optional render parameters of the invoice endpoints
type RenderQuery struct {
	TemplateID string  `form:"template_id"`
	Scale      float64 `form:"scale" validate:"omitempty,gte=0,lte=4"`
}

// PreviewFormRequest renders an unsaved form snapshot. The caller's stored
// profile supplies the business block; Branding overrides the stored brand.
type PreviewFormRequest struct {
	Form       mapper.FormState   `json:"form"`
	TemplateID string             `json:"template_id,omitempty"`
	Branding   *branding.Branding `json:"branding,omitempty"`
	Scale      float64            `json:"scale,omitempty" validate:"omitempty,gte=0,lte=4"`
}

// PreviewResponse is the JSON form of a preview render
type PreviewResponse struct {
	render.Outcome
	HTML  string `json:"html"`
	Pages int    `json:"pages"`
}

// TemplateResponse describes one catalog entry
type TemplateResponse struct {
	template.Config
}

type ListTemplatesResponse struct {
	Items     []*TemplateResponse `json:"items"`
	DefaultID string              `json:"default_id"`
}

// ListTemplatesQuery filters the catalog
type ListTemplatesQuery struct {
	Category types.TemplateCategory `form:"category"`
}

// ValidateBrandingResponse reports whether a branding is usable. Effective is
// the template with the branding applied, present only when it is valid.
type ValidateBrandingResponse struct {
	branding.Result
	Effective *template.Config `json:"effective,omitempty"`
}

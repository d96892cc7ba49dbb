package dto

import (
	"encoding/json"

	"github.com/samber/lo"

	"github.com/flexprice/invoicer/internal/branding"
	"github.com/flexprice/invoicer/internal/domain/profile"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/validator"
)

// UpsertProfileRequest replaces the caller's business profile. The logo is
// managed through the upload endpoints, not here.
type UpsertProfileRequest struct {
	BusinessName           *string         `json:"business_name,omitempty" validate:"omitempty,max=255"`
	Email                  *string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone                  *string         `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address                *string         `json:"address,omitempty" validate:"omitempty,max=500"`
	Website                *string         `json:"website,omitempty" validate:"omitempty,url"`
	TaxID                  *string         `json:"tax_id,omitempty" validate:"omitempty,max=64"`
	BrandPrimaryColor      *string         `json:"brand_primary_color,omitempty"`
	BrandSecondaryColor    *string         `json:"brand_secondary_color,omitempty"`
	BrandFontFamily        *string         `json:"brand_font_family,omitempty" validate:"omitempty,max=100"`
	PreferredTemplateID    *string         `json:"preferred_template_id,omitempty"`
	TemplateCustomizations json.RawMessage `json:"template_customizations,omitempty"`
	DefaultTerms           *string         `json:"default_terms,omitempty"`
	PaymentInstructions    *string         `json:"payment_instructions,omitempty"`
}

func (r *UpsertProfileRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	custom, err := branding.ParseCustomizations(r.TemplateCustomizations)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Template customizations must be a JSON object").
			Mark(ierr.ErrValidation)
	}

	if lo.FromPtr(r.BrandPrimaryColor) == "" {
		if lo.FromPtr(r.BrandSecondaryColor) != "" || custom != nil {
			return ierr.NewError("brand primary color is required").
				WithHint("Set a primary color before customizing the brand").
				Mark(ierr.ErrValidation)
		}
		return nil
	}

	return branding.Validate(branding.Branding{
		PrimaryColor:   lo.FromPtr(r.BrandPrimaryColor),
		SecondaryColor: lo.FromPtr(r.BrandSecondaryColor),
	}).Err()
}

// Apply writes the request onto p, keeping identity and logo
func (r *UpsertProfileRequest) Apply(p *profile.Profile) {
	p.BusinessName = r.BusinessName
	p.Email = r.Email
	p.Phone = r.Phone
	p.Address = r.Address
	p.Website = r.Website
	p.TaxID = r.TaxID
	p.BrandPrimaryColor = r.BrandPrimaryColor
	p.BrandSecondaryColor = r.BrandSecondaryColor
	p.BrandFontFamily = r.BrandFontFamily
	p.PreferredTemplateID = r.PreferredTemplateID
	p.TemplateCustomizations = nil
	if len(r.TemplateCustomizations) > 0 && string(r.TemplateCustomizations) != "null" {
		p.TemplateCustomizations = lo.ToPtr(string(r.TemplateCustomizations))
	}
	p.DefaultTerms = r.DefaultTerms
	p.PaymentInstructions = r.PaymentInstructions
}

type ProfileResponse struct {
	*profile.Profile
}

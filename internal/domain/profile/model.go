package profile

import (
	"time"
)

// Profile is the business identity of an owner. Brand fields are optional and
// feed the branding merge when an invoice is rendered.
type Profile struct {
	ID                     string    `db:"id" json:"id"`
	OwnerID                string    `db:"owner_id" json:"owner_id"`
	BusinessName           *string   `db:"business_name" json:"business_name,omitempty"`
	Email                  *string   `db:"email" json:"email,omitempty"`
	Phone                  *string   `db:"phone" json:"phone,omitempty"`
	Address                *string   `db:"address" json:"address,omitempty"`
	Website                *string   `db:"website" json:"website,omitempty"`
	TaxID                  *string   `db:"tax_id" json:"tax_id,omitempty"`
	LogoURL                *string   `db:"logo_url" json:"logo_url,omitempty"`
	BrandPrimaryColor      *string   `db:"brand_primary_color" json:"brand_primary_color,omitempty"`
	BrandSecondaryColor    *string   `db:"brand_secondary_color" json:"brand_secondary_color,omitempty"`
	BrandFontFamily        *string   `db:"brand_font_family" json:"brand_font_family,omitempty"`
	PreferredTemplateID    *string   `db:"preferred_template_id" json:"preferred_template_id,omitempty"`
	TemplateCustomizations *string   `db:"template_customizations" json:"template_customizations,omitempty"`
	DefaultTerms           *string   `db:"default_terms" json:"default_terms,omitempty"`
	PaymentInstructions    *string   `db:"payment_instructions" json:"payment_instructions,omitempty"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

package postgres

import (
	"context"
	"time"

	"github.com/flexprice/invoicer/internal/domain/profile"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/postgres"
)

type profileRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewProfileRepository(db *postgres.DB, logger *logger.Logger) profile.Repository {
	return &profileRepository{db: db, logger: logger}
}

func (r *profileRepository) Get(ctx context.Context, ownerID string) (*profile.Profile, error) {
	var p profile.Profile
	err := r.db.GetQuerier(ctx).GetContext(ctx, &p, "SELECT * FROM profiles WHERE owner_id = $1", ownerID)
	if err != nil {
		return nil, postgres.WrapError(err, "Profile", map[string]any{"owner_id": ownerID})
	}
	return &p, nil
}

// Upsert writes the owner's single profile row, keeping the original id
// and creation time when one exists
func (r *profileRepository) Upsert(ctx context.Context, p *profile.Profile) error {
	span, ctx := r.db.StartSpan(ctx, "profile.upsert", map[string]interface{}{"owner_id": p.OwnerID})
	defer postgres.FinishSpan(span)

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	query := `
		INSERT INTO profiles (
			id, owner_id, business_name, email, phone, address, website, tax_id, logo_url,
			brand_primary_color, brand_secondary_color, brand_font_family, preferred_template_id,
			template_customizations, default_terms, payment_instructions, created_at, updated_at
		) VALUES (
			:id, :owner_id, :business_name, :email, :phone, :address, :website, :tax_id, :logo_url,
			:brand_primary_color, :brand_secondary_color, :brand_font_family, :preferred_template_id,
			:template_customizations, :default_terms, :payment_instructions, :created_at, :updated_at
		)
		ON CONFLICT (owner_id) DO UPDATE SET
			business_name = EXCLUDED.business_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			website = EXCLUDED.website,
			tax_id = EXCLUDED.tax_id,
			logo_url = EXCLUDED.logo_url,
			brand_primary_color = EXCLUDED.brand_primary_color,
			brand_secondary_color = EXCLUDED.brand_secondary_color,
			brand_font_family = EXCLUDED.brand_font_family,
			preferred_template_id = EXCLUDED.preferred_template_id,
			template_customizations = EXCLUDED.template_customizations,
			default_terms = EXCLUDED.default_terms,
			payment_instructions = EXCLUDED.payment_instructions,
			updated_at = EXCLUDED.updated_at`

	r.logger.Debugw("upserting profile", "owner_id", p.OwnerID)

	_, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, p)
	return postgres.WrapError(err, "Profile", map[string]any{"owner_id": p.OwnerID})
}

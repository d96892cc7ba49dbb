package testutil

import (
	"context"

	"github.com/flexprice/invoicer/internal/domain/profile"
)

// InMemoryProfileStore implements profile.Repository keyed by owner
type InMemoryProfileStore struct {
	*InMemoryStore[*profile.Profile]
}

func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{
		InMemoryStore: NewInMemoryStore[*profile.Profile](),
	}
}

func copyProfile(p *profile.Profile) *profile.Profile {
	if p == nil {
		return nil
	}
	out := *p
	for _, f := range []**string{
		&out.BusinessName, &out.Email, &out.Phone, &out.Address, &out.Website, &out.TaxID,
		&out.LogoURL, &out.BrandPrimaryColor, &out.BrandSecondaryColor, &out.BrandFontFamily,
		&out.PreferredTemplateID, &out.TemplateCustomizations, &out.DefaultTerms, &out.PaymentInstructions,
	} {
		*f = copyString(*f)
	}
	return &out
}

func (s *InMemoryProfileStore) Get(ctx context.Context, ownerID string) (*profile.Profile, error) {
	p, err := s.InMemoryStore.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return copyProfile(p), nil
}

func (s *InMemoryProfileStore) Upsert(ctx context.Context, p *profile.Profile) error {
	s.InMemoryStore.Upsert(ctx, p.OwnerID, copyProfile(p))
	return nil
}

package profile

import "context"

// Repository defines the persistence of business profiles, one per owner
type Repository interface {
	Get(ctx context.Context, ownerID string) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
}

package client

import (
	"time"

	"github.com/flexprice/invoicer/internal/types"
)

// Client is a customer record owned by a user
type Client struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
	Name      string    `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Filter narrows a client listing
type Filter struct {
	*types.QueryFilter
	OwnerID string `json:"owner_id,omitempty" form:"-"`
	// Search matches name or email, case-insensitively
	Search string `json:"search,omitempty" form:"search"`
}

// NewFilter returns a filter with default pagination
func NewFilter(ownerID string) *Filter {
	return &Filter{
		QueryFilter: types.NewDefaultQueryFilter(),
		OwnerID:     ownerID,
	}
}

func (f *Filter) Validate() error {
	if f.QueryFilter == nil {
		f.QueryFilter = types.NewDefaultQueryFilter()
	}
	return f.QueryFilter.Validate()
}

package invoice

import (
	"github.com/flexprice/invoicer/internal/types"
)

// Filter narrows an invoice listing
type Filter struct {
	*types.QueryFilter
	OwnerID string               `json:"owner_id,omitempty" form:"-"`
	Status  *types.InvoiceStatus `json:"status,omitempty" form:"status"`
	// Search matches buyer name or service name, case-insensitively
	Search string `json:"search,omitempty" form:"search"`
}

// NewFilter returns a filter ordered by issued date, newest first
func NewFilter(ownerID string) *Filter {
	q := types.NewDefaultQueryFilter()
	sort := string(types.InvoiceSortIssuedDate)
	q.Sort = &sort
	return &Filter{
		QueryFilter: q,
		OwnerID:     ownerID,
	}
}

// SortField returns the validated sort column, issued_date by default
func (f *Filter) SortField() types.InvoiceSortField {
	if f.QueryFilter == nil || f.QueryFilter.Sort == nil {
		return types.InvoiceSortIssuedDate
	}
	field := types.InvoiceSortField(*f.QueryFilter.Sort)
	if field.Validate() != nil {
		return types.InvoiceSortIssuedDate
	}
	return field
}

func (f *Filter) Validate() error {
	if f.QueryFilter == nil {
		f.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if f.Status != nil {
		if err := f.Status.Validate(); err != nil {
			return err
		}
	}
	if f.QueryFilter.Sort != nil && *f.QueryFilter.Sort != "created_at" {
		if err := types.InvoiceSortField(*f.QueryFilter.Sort).Validate(); err != nil {
			return err
		}
	}
	return nil
}

package invoice

import "context"

// Repository defines the persistence of invoices
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context, filter *Filter) ([]*Invoice, error)
	Count(ctx context.Context, filter *Filter) (int, error)
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id string) error
}

// SequenceGenerator hands out human readable invoice numbers per owner
type SequenceGenerator interface {
	// NextInvoiceNumber returns INV-<year>-<zero padded sequence>
	NextInvoiceNumber(ctx context.Context, ownerID string, year int) (string, error)
}

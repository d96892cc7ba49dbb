package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/flexprice/invoicer/internal/domain/invoice"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/samber/lo"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
}

// NewInMemoryInvoiceStore creates a new in-memory invoice store
func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}
	out := *inv
	out.ClientID = copyString(inv.ClientID)
	out.DueDate = copyString(inv.DueDate)
	out.BuyerEmail = copyString(inv.BuyerEmail)
	out.BuyerAddress = copyString(inv.BuyerAddress)
	out.BuyerPhone = copyString(inv.BuyerPhone)
	out.AccountReference = copyString(inv.AccountReference)
	out.PaymentLink = copyString(inv.PaymentLink)
	out.Notes = copyString(inv.Notes)
	out.Terms = copyString(inv.Terms)
	return &out
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	return s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv))
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *invoice.Filter) ([]*invoice.Invoice, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	items, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, invoiceSortFn(filter))
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(inv *invoice.Invoice, _ int) *invoice.Invoice {
		return copyInvoice(inv)
	}), nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *invoice.Filter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, invoiceFilterFn)
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	return s.InMemoryStore.Update(ctx, inv.ID, copyInvoice(inv))
}

func (s *InMemoryInvoiceStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

func invoiceFilterFn(ctx context.Context, inv *invoice.Invoice, filter interface{}) bool {
	f, ok := filter.(*invoice.Filter)
	if !ok {
		return true
	}
	if !CheckOwnerFilter(f.OwnerID, inv.OwnerID) {
		return false
	}
	if f.Status != nil && inv.Status != *f.Status {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		return strings.Contains(strings.ToLower(inv.BuyerName), q) ||
			strings.Contains(strings.ToLower(inv.ServiceName), q)
	}
	return true
}

func invoiceSortFn(f *invoice.Filter) SortFunc[*invoice.Invoice] {
	desc := f.GetOrder() == types.OrderDesc
	less := func(i, j *invoice.Invoice) bool {
		switch f.SortField() {
		case types.InvoiceSortDueDate:
			return lo.FromPtr(i.DueDate) < lo.FromPtr(j.DueDate)
		case types.InvoiceSortGrossTotal:
			return i.GrossTotal.LessThan(j.GrossTotal)
		case types.InvoiceSortBuyerName:
			return strings.ToLower(i.BuyerName) < strings.ToLower(j.BuyerName)
		default:
			return i.IssuedDate < j.IssuedDate
		}
	}
	return func(i, j *invoice.Invoice) bool {
		if desc {
			return less(j, i)
		}
		return less(i, j)
	}
}

// InMemorySequence implements invoice.SequenceGenerator
type InMemorySequence struct {
	mu     sync.Mutex
	values map[string]int64
}

func NewInMemorySequence() *InMemorySequence {
	return &InMemorySequence{values: make(map[string]int64)}
}

func (s *InMemorySequence) NextInvoiceNumber(ctx context.Context, ownerID string, year int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fmt.Sprintf("%s/%d", ownerID, year)
	s.values[key]++
	return invoice.FormatInvoiceNumber(year, s.values[key]), nil
}

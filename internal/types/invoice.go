package types

import (
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/samber/lo"
)

// InvoiceStatus is the lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusSent,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
		InvoiceStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Please provide a valid invoice status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceSortField is a column invoices can be ordered by
type InvoiceSortField string

const (
	InvoiceSortIssuedDate InvoiceSortField = "issued_date"
	InvoiceSortDueDate    InvoiceSortField = "due_date"
	InvoiceSortGrossTotal InvoiceSortField = "gross_total"
	InvoiceSortBuyerName  InvoiceSortField = "buyer_name"
)

func (f InvoiceSortField) Validate() error {
	allowed := []InvoiceSortField{
		InvoiceSortIssuedDate,
		InvoiceSortDueDate,
		InvoiceSortGrossTotal,
		InvoiceSortBuyerName,
	}
	if !lo.Contains(allowed, f) {
		return ierr.NewError("invalid invoice sort field").
			WithHint("Please provide a valid sort field").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

package mapper

import (
	"github.com/flexprice/invoicer/internal/domain/document"
	"github.com/flexprice/invoicer/internal/domain/invoice"
	"github.com/flexprice/invoicer/internal/domain/profile"
	"github.com/flexprice/invoicer/internal/money"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// FormState is a snapshot of an invoice form being edited. Nothing in it is
// validated; the renderer reports what is missing.
type FormState struct {
	InvoiceNumber    string              `json:"invoice_number"`
	Description      string              `json:"description"`
	Quantity         int64               `json:"quantity"`
	UnitPrice        decimal.Decimal     `json:"unit_price"`
	TaxRate          decimal.Decimal     `json:"tax_rate"`
	Currency         string              `json:"currency"`
	Status           types.InvoiceStatus `json:"status"`
	IssuedDate       string              `json:"issued_date"`
	DueDate          string              `json:"due_date"`
	BuyerName        string              `json:"buyer_name"`
	BuyerEmail       string              `json:"buyer_email"`
	BuyerAddress     string              `json:"buyer_address"`
	BuyerPhone       string              `json:"buyer_phone"`
	AccountReference string              `json:"account_reference"`
	PaymentLink      string              `json:"payment_link"`
	Notes            string              `json:"notes"`
	Terms            string              `json:"terms"`

	// Profile supplies the business block
	Profile *profile.Profile `json:"-"`
}

// ToInvoice turns the form into an unsaved record with totals computed the
// same way a stored invoice gets them
func (f FormState) ToInvoice() *invoice.Invoice {
	totals := money.ComputeTotals(f.UnitPrice, f.Quantity, f.TaxRate)

	serviceName := f.Description
	if f.InvoiceNumber != "" {
		serviceName = invoice.ComposeServiceName(f.InvoiceNumber, f.Description)
	}

	return &invoice.Invoice{
		ServiceName:      serviceName,
		Quantity:         f.Quantity,
		UnitPrice:        f.UnitPrice,
		TaxRate:          f.TaxRate,
		Subtotal:         totals.Subtotal,
		TaxAmount:        totals.TaxAmount,
		GrossTotal:       totals.GrandTotal,
		Currency:         lo.Ternary(f.Currency == "", types.DefaultCurrency, f.Currency),
		Status:           lo.Ternary(f.Status == "", types.InvoiceStatusDraft, f.Status),
		IssuedDate:       f.IssuedDate,
		DueDate:          lo.EmptyableToPtr(f.DueDate),
		BuyerName:        f.BuyerName,
		BuyerEmail:       lo.EmptyableToPtr(f.BuyerEmail),
		BuyerAddress:     lo.EmptyableToPtr(f.BuyerAddress),
		BuyerPhone:       lo.EmptyableToPtr(f.BuyerPhone),
		AccountReference: lo.EmptyableToPtr(f.AccountReference),
		PaymentLink:      lo.EmptyableToPtr(f.PaymentLink),
		Notes:            lo.EmptyableToPtr(f.Notes),
		Terms:            lo.EmptyableToPtr(f.Terms),
	}
}

// FromForm builds a preview document from an unsaved form snapshot
func (m *Mapper) FromForm(form FormState) (*document.InvoiceDocument, error) {
	return m.BuildDocument(form.ToInvoice(), form.Profile, nil)
}

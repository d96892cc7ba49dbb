package dto

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/flexprice/invoicer/internal/domain/client"
	"github.com/flexprice/invoicer/internal/domain/invoice"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/money"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/flexprice/invoicer/internal/validator"
)

var hundred = decimal.NewFromInt(100)

type CreateInvoiceRequest struct {
	ClientID    *string             `json:"client_id,omitempty"`
	Description string              `json:"description" validate:"required,max=500"`
	Quantity    int64               `json:"quantity" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal     `json:"unit_price"`
	TaxRate     decimal.Decimal     `json:"tax_rate"`
	Currency    string              `json:"currency,omitempty" validate:"omitempty,len=3"`
	Status      types.InvoiceStatus `json:"status,omitempty"`
	// IssuedDate defaults to today
	IssuedDate       string  `json:"issued_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate          *string `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	BuyerName        string  `json:"buyer_name,omitempty" validate:"max=255"`
	BuyerEmail       *string `json:"buyer_email,omitempty" validate:"omitempty,email"`
	BuyerAddress     *string `json:"buyer_address,omitempty"`
	BuyerPhone       *string `json:"buyer_phone,omitempty"`
	AccountReference *string `json:"account_reference,omitempty"`
	PaymentLink      *string `json:"payment_link,omitempty" validate:"omitempty,url"`
	Notes            *string `json:"notes,omitempty"`
	Terms            *string `json:"terms,omitempty"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.UnitPrice.IsNegative() {
		return ierr.NewError("unit price must not be negative").
			WithHint("Unit price must be zero or more").
			Mark(ierr.ErrValidation)
	}
	if r.TaxRate.IsNegative() || r.TaxRate.GreaterThan(hundred) {
		return ierr.NewError("tax rate out of range").
			WithHint("Tax rate must be between 0 and 100").
			Mark(ierr.ErrValidation)
	}
	if r.Status != "" {
		if err := r.Status.Validate(); err != nil {
			return err
		}
	}
	if lo.FromPtr(r.ClientID) == "" && r.BuyerName == "" {
		return ierr.NewError("buyer is required").
			WithHint("Provide a client or a buyer name").
			Mark(ierr.ErrValidation)
	}
	if r.DueDate != nil && r.IssuedDate != "" && *r.DueDate < r.IssuedDate {
		return ierr.NewError("due date before issue date").
			WithHint("Due date must not be before the issue date").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToInvoice builds the record for ownerID. Buyer fields not given in the
// request are snapshotted from c when one is linked.
func (r *CreateInvoiceRequest) ToInvoice(ctx context.Context, ownerID, number string, c *client.Client, today time.Time) *invoice.Invoice {
	totals := money.ComputeTotals(r.UnitPrice, r.Quantity, r.TaxRate)

	inv := &invoice.Invoice{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		OwnerID:          ownerID,
		ClientID:         r.ClientID,
		InvoiceNumber:    number,
		ServiceName:      invoice.ComposeServiceName(number, r.Description),
		Quantity:         r.Quantity,
		UnitPrice:        r.UnitPrice,
		TaxRate:          r.TaxRate,
		Subtotal:         totals.Subtotal,
		TaxAmount:        totals.TaxAmount,
		GrossTotal:       totals.GrandTotal,
		Currency:         money.NormalizeCurrency(lo.Ternary(r.Currency == "", types.DefaultCurrency, r.Currency)),
		Status:           lo.Ternary(r.Status == "", types.InvoiceStatusDraft, r.Status),
		BuyerName:        r.BuyerName,
		BuyerEmail:       r.BuyerEmail,
		BuyerAddress:     r.BuyerAddress,
		BuyerPhone:       r.BuyerPhone,
		IssuedDate:       lo.Ternary(r.IssuedDate == "", today.Format("2006-01-02"), r.IssuedDate),
		DueDate:          r.DueDate,
		AccountReference: r.AccountReference,
		PaymentLink:      r.PaymentLink,
		Notes:            r.Notes,
		Terms:            r.Terms,
	}

	if c != nil {
		if inv.BuyerName == "" {
			inv.BuyerName = c.Name
		}
		if inv.BuyerEmail == nil {
			inv.BuyerEmail = c.Email
		}
		if inv.BuyerAddress == nil {
			inv.BuyerAddress = c.Address
		}
		if inv.BuyerPhone == nil {
			inv.BuyerPhone = c.Phone
		}
	}
	return inv
}

// IssuedYear is the year the invoice number sequence is drawn from
func (r *CreateInvoiceRequest) IssuedYear(today time.Time) int {
	if t, err := time.Parse("2006-01-02", r.IssuedDate); err == nil {
		return t.Year()
	}
	return today.Year()
}

type InvoiceResponse struct {
	*invoice.Invoice
	Description string `json:"description"`
}

// ListInvoicesResponse represents the response for listing invoices
type ListInvoicesResponse = types.ListResponse[*InvoiceResponse]

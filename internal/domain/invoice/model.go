package invoice

import (
	"time"

	"github.com/flexprice/invoicer/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice is the stored invoice record. Buyer fields are a snapshot taken
// when the invoice was written and are what gets rendered. ServiceName
// carries the composite "Invoice #<number> - <description>" string.
type Invoice struct {
	ID               string              `db:"id" json:"id"`
	OwnerID          string              `db:"owner_id" json:"owner_id"`
	ClientID         *string             `db:"client_id" json:"client_id,omitempty"`
	InvoiceNumber    string              `db:"invoice_number" json:"invoice_number"`
	ServiceName      string              `db:"service_name" json:"service_name"`
	Quantity         int64               `db:"quantity" json:"quantity"`
	UnitPrice        decimal.Decimal     `db:"unit_price" json:"unit_price"`
	TaxRate          decimal.Decimal     `db:"tax_rate" json:"tax_rate"`
	Subtotal         decimal.Decimal     `db:"subtotal" json:"subtotal"`
	TaxAmount        decimal.Decimal     `db:"tax_amount" json:"tax_amount"`
	GrossTotal       decimal.Decimal     `db:"gross_total" json:"gross_total"`
	DiscountAmount   decimal.NullDecimal `db:"discount_amount" json:"discount_amount"`
	DiscountRate     decimal.NullDecimal `db:"discount_rate" json:"discount_rate"`
	Currency         string              `db:"currency" json:"currency"`
	Status           types.InvoiceStatus `db:"status" json:"status"`
	BuyerName        string              `db:"buyer_name" json:"buyer_name"`
	BuyerEmail       *string             `db:"buyer_email" json:"buyer_email,omitempty"`
	BuyerAddress     *string             `db:"buyer_address" json:"buyer_address,omitempty"`
	BuyerPhone       *string             `db:"buyer_phone" json:"buyer_phone,omitempty"`
	IssuedDate       string              `db:"issued_date" json:"issued_date"`
	DueDate          *string             `db:"due_date" json:"due_date,omitempty"`
	AccountReference *string             `db:"account_reference" json:"account_reference,omitempty"`
	PaymentLink      *string             `db:"payment_link" json:"payment_link,omitempty"`
	Notes            *string             `db:"notes" json:"notes,omitempty"`
	Terms            *string             `db:"terms" json:"terms,omitempty"`
	CreatedAt        time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time           `db:"updated_at" json:"updated_at"`
}

// Package document holds the renderer-facing invoice representation. It is
// built fresh for every render and never persisted.
package document

import (
	"fmt"

	"github.com/flexprice/invoicer/internal/money"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/shopspring/decimal"
)

// tolerance is one minor unit
var tolerance = decimal.New(1, -money.Precision)

type InvoiceDocument struct {
	Business            Business   `json:"business"`
	Client              Client     `json:"client"`
	Meta                Meta       `json:"meta"`
	Items               []LineItem `json:"items"`
	Totals              Totals     `json:"totals"`
	Terms               *string    `json:"terms,omitempty"`
	PaymentInstructions *string    `json:"payment_instructions,omitempty"`
}

type Business struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	LogoURL *string `json:"logo_url,omitempty"`
	Website *string `json:"website,omitempty"`
	TaxID   *string `json:"tax_id,omitempty"`
}

type Client struct {
	Name    string  `json:"name"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

type Meta struct {
	ID               string              `json:"id"`
	Number           string              `json:"number"`
	IssuedDate       string              `json:"issued_date"`
	DueDate          *string             `json:"due_date,omitempty"`
	Currency         string              `json:"currency"`
	Status           types.InvoiceStatus `json:"status"`
	AccountReference *string             `json:"account_reference,omitempty"`
	PaymentLink      *string             `json:"payment_link,omitempty"`
	Notes            *string             `json:"notes,omitempty"`
}

type LineItem struct {
	Description string              `json:"description"`
	Quantity    int64               `json:"quantity"`
	UnitPrice   decimal.Decimal     `json:"unit_price"`
	LineTotal   decimal.Decimal     `json:"line_total"`
	TaxRate     decimal.NullDecimal `json:"tax_rate"`
}

// Totals mirrors the stored amounts. GrandTotal is nullable so that a missing
// total can be told apart from a zero one.
type Totals struct {
	Subtotal       decimal.Decimal     `json:"subtotal"`
	TaxAmount      decimal.Decimal     `json:"tax_amount"`
	TaxRate        decimal.Decimal     `json:"tax_rate"`
	GrandTotal     decimal.NullDecimal `json:"grand_total"`
	DiscountAmount decimal.NullDecimal `json:"discount_amount"`
	DiscountRate   decimal.NullDecimal `json:"discount_rate"`
}

// HasDiscount reports whether a non-zero discount is stored
func (t Totals) HasDiscount() bool {
	return t.DiscountAmount.Valid && !t.DiscountAmount.Decimal.IsZero()
}

// Reconcile returns a description of every arithmetic invariant the document
// violates. An empty result means the numbers shown are consistent.
func (d *InvoiceDocument) Reconcile() []string {
	var violations []string

	sum := decimal.Zero
	for i, item := range d.Items {
		expected := money.LineTotal(item.UnitPrice, item.Quantity)
		if !within(item.LineTotal, expected) {
			violations = append(violations, fmt.Sprintf(
				"items[%d]: line total %s != quantity %d x unit price %s",
				i, item.LineTotal.StringFixed(2), item.Quantity, item.UnitPrice.StringFixed(2)))
		}
		sum = sum.Add(item.LineTotal)
	}

	if !within(d.Totals.Subtotal, sum) {
		violations = append(violations, fmt.Sprintf(
			"subtotal %s != sum of line totals %s",
			d.Totals.Subtotal.StringFixed(2), sum.StringFixed(2)))
	}

	if d.Totals.GrandTotal.Valid {
		expected := d.Totals.Subtotal.Add(d.Totals.TaxAmount)
		if d.Totals.DiscountAmount.Valid {
			expected = expected.Sub(d.Totals.DiscountAmount.Decimal)
		}
		if !within(d.Totals.GrandTotal.Decimal, expected) {
			violations = append(violations, fmt.Sprintf(
				"grand total %s != subtotal + tax - discount %s",
				d.Totals.GrandTotal.Decimal.StringFixed(2), expected.StringFixed(2)))
		}
	}

	return violations
}

func within(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

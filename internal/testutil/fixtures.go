package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"time"

	"github.com/flexprice/invoicer/internal/domain/client"
	"github.com/flexprice/invoicer/internal/domain/document"
	"github.com/flexprice/invoicer/internal/domain/invoice"
	"github.com/flexprice/invoicer/internal/domain/profile"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	FixtureOwnerID   = "user_fixture"
	FixtureInvoiceID = "inv_fixture"
	FixtureClientID  = "client_fixture"
)

// InvoiceRecord is the stored form of the scenario invoice:
// 1500.00 x 1 at 10% tax, gross 1650.00
func InvoiceRecord() *invoice.Invoice {
	return &invoice.Invoice{
		ID:            FixtureInvoiceID,
		OwnerID:       FixtureOwnerID,
		ClientID:      lo.ToPtr(FixtureClientID),
		InvoiceNumber: "INV-2024-0007",
		ServiceName:   "Invoice #INV-2024-0007 - Website redesign",
		Quantity:      1,
		UnitPrice:     decimal.RequireFromString("1500.00"),
		TaxRate:       decimal.RequireFromString("10"),
		Subtotal:      decimal.RequireFromString("1500.00"),
		TaxAmount:     decimal.RequireFromString("150.00"),
		GrossTotal:    decimal.RequireFromString("1650.00"),
		Currency:      "USD",
		Status:        types.InvoiceStatusSent,
		IssuedDate:    "2024-01-15",
		DueDate:       lo.ToPtr("2024-02-14"),
		BuyerName:     "Globex Corporation",
		BuyerEmail:    lo.ToPtr("ap@globex.test"),
		BuyerAddress:  lo.ToPtr("1 Globex Way, Springfield"),
		Notes:         lo.ToPtr("Thank you for your business."),
		CreatedAt:     time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

// Profile is the business profile owning the fixture invoice
func Profile() *profile.Profile {
	return &profile.Profile{
		ID:                  "profile_fixture",
		OwnerID:             FixtureOwnerID,
		BusinessName:        lo.ToPtr("Acme Studio"),
		Email:               lo.ToPtr("billing@acme.test"),
		Phone:               lo.ToPtr("+1 555 0100"),
		Address:             lo.ToPtr("42 Main Street, Metropolis"),
		Website:             lo.ToPtr("https://acme.test"),
		DefaultTerms:        lo.ToPtr("Payment due within 30 days."),
		PaymentInstructions: lo.ToPtr("Bank transfer to IBAN DE00 1234 5678."),
	}
}

// Client is the client record linked to the fixture invoice
func Client() *client.Client {
	return &client.Client{
		ID:      FixtureClientID,
		OwnerID: FixtureOwnerID,
		Name:    "Globex Corporation",
		Email:   lo.ToPtr("ap@globex.test"),
	}
}

// Document is the mapped fixture invoice
func Document() *document.InvoiceDocument {
	return &document.InvoiceDocument{
		Business: document.Business{
			Name:    "Acme Studio",
			Email:   "billing@acme.test",
			Phone:   lo.ToPtr("+1 555 0100"),
			Website: lo.ToPtr("https://acme.test"),
		},
		Client: document.Client{
			Name:  "Globex Corporation",
			Email: lo.ToPtr("ap@globex.test"),
		},
		Meta: document.Meta{
			ID:         FixtureInvoiceID,
			Number:     "INV-2024-0007",
			IssuedDate: "January 15, 2024",
			DueDate:    lo.ToPtr("February 14, 2024"),
			Currency:   "USD",
			Status:     types.InvoiceStatusSent,
			Notes:      lo.ToPtr("Thank you for your business."),
		},
		Items: []document.LineItem{{
			Description: "Website redesign",
			Quantity:    1,
			UnitPrice:   decimal.RequireFromString("1500.00"),
			LineTotal:   decimal.RequireFromString("1500.00"),
			TaxRate:     decimal.NewNullDecimal(decimal.RequireFromString("10")),
		}},
		Totals: document.Totals{
			Subtotal:   decimal.RequireFromString("1500.00"),
			TaxAmount:  decimal.RequireFromString("150.00"),
			TaxRate:    decimal.RequireFromString("10"),
			GrandTotal: decimal.NewNullDecimal(decimal.RequireFromString("1650.00")),
		},
		Terms:               lo.ToPtr("Payment due within 30 days."),
		PaymentInstructions: lo.ToPtr("Bank transfer to IBAN DE00 1234 5678."),
	}
}

// DocumentWithItems returns the fixture document with n line items of 10.00
// each and totals that reconcile
func DocumentWithItems(n int) *document.InvoiceDocument {
	doc := Document()
	doc.Items = make([]document.LineItem, 0, n)
	for i := 0; i < n; i++ {
		doc.Items = append(doc.Items, document.LineItem{
			Description: fmt.Sprintf("Support hours, week %d", i+1),
			Quantity:    1,
			UnitPrice:   decimal.NewFromInt(10),
			LineTotal:   decimal.NewFromInt(10),
		})
	}
	subtotal := decimal.NewFromInt(int64(10 * n))
	doc.Totals = document.Totals{
		Subtotal:   subtotal,
		TaxAmount:  decimal.Zero,
		TaxRate:    decimal.Zero,
		GrandTotal: decimal.NewNullDecimal(subtotal),
	}
	return doc
}

// PNG encodes a solid w x h image
func PNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 0x1f, G: 0x3a, B: 0x5f, A: 0xff})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

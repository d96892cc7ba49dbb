// Package mapper turns stored invoice records and in-progress form state into
// the document the renderers consume.
package mapper

import (
	"regexp"
	"strings"
	"time"

	"github.com/flexprice/invoicer/internal/domain/client"
	"github.com/flexprice/invoicer/internal/domain/document"
	"github.com/flexprice/invoicer/internal/domain/invoice"
	"github.com/flexprice/invoicer/internal/domain/profile"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/money"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	// PlaceholderBusinessName is shown when the profile has no business name
	PlaceholderBusinessName = "Your Business"
	// PlaceholderNumber is shown when the service name carries no number
	PlaceholderNumber = "INV-0000"
	// DateLayout is the long date format printed on documents
	DateLayout = "January 2, 2006"
)

var serviceNamePattern = regexp.MustCompile(`^Invoice #(\S+) - (.*)$`)

// dateLayouts are tried in order when parsing stored dates
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

type Mapper struct {
	logger *logger.Logger
	now    func() time.Time
}

func NewMapper(logger *logger.Logger) *Mapper {
	return &Mapper{
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the clock used for missing issue dates
func (m *Mapper) WithClock(now func() time.Time) *Mapper {
	m.now = now
	return m
}

// ParseServiceName splits "Invoice #<number> - <description>". When the text
// does not follow that shape the placeholder number is returned together with
// the unchanged input.
func ParseServiceName(serviceName string) (number, description string) {
	match := serviceNamePattern.FindStringSubmatch(serviceName)
	if match == nil {
		return PlaceholderNumber, serviceName
	}
	return match[1], strings.TrimSpace(match[2])
}

// BuildDocument maps a stored invoice onto a document. The buyer snapshot on
// the record always wins over the linked client, which is only compared.
func (m *Mapper) BuildDocument(record *invoice.Invoice, p *profile.Profile, c *client.Client) (*document.InvoiceDocument, error) {
	if record == nil {
		return nil, ierr.NewError("invoice record is required").
			WithHint("An invoice is required to build a document").
			Mark(ierr.ErrValidation)
	}

	number, description := ParseServiceName(record.ServiceName)

	doc := &document.InvoiceDocument{
		Business: m.business(p),
		Client: document.Client{
			Name:    record.BuyerName,
			Email:   nonEmpty(record.BuyerEmail),
			Address: nonEmpty(record.BuyerAddress),
			Phone:   nonEmpty(record.BuyerPhone),
		},
		Meta: document.Meta{
			ID:               record.ID,
			Number:           number,
			IssuedDate:       m.issuedDate(record.IssuedDate),
			DueDate:          m.dueDate(record.DueDate),
			Currency:         strings.ToUpper(strings.TrimSpace(record.Currency)),
			Status:           lo.Ternary(record.Status == "", types.InvoiceStatusDraft, record.Status),
			AccountReference: nonEmpty(record.AccountReference),
			PaymentLink:      nonEmpty(record.PaymentLink),
			Notes:            nonEmpty(record.Notes),
		},
		Items: []document.LineItem{{
			Description: description,
			Quantity:    record.Quantity,
			UnitPrice:   record.UnitPrice,
			LineTotal:   money.LineTotal(record.UnitPrice, record.Quantity),
			TaxRate:     decimal.NewNullDecimal(record.TaxRate),
		}},
		Totals: document.Totals{
			Subtotal:       record.Subtotal,
			TaxAmount:      record.TaxAmount,
			TaxRate:        record.TaxRate,
			GrandTotal:     decimal.NewNullDecimal(record.GrossTotal),
			DiscountAmount: record.DiscountAmount,
			DiscountRate:   record.DiscountRate,
		},
		Terms: nonEmpty(record.Terms),
	}

	if p != nil {
		if doc.Terms == nil {
			doc.Terms = nonEmpty(p.DefaultTerms)
		}
		doc.PaymentInstructions = nonEmpty(p.PaymentInstructions)
	}

	if c != nil && c.Name != record.BuyerName {
		m.logger.Debugw("linked client differs from invoice buyer snapshot, using snapshot",
			"invoice_id", record.ID,
			"client_id", c.ID,
			"client_name", c.Name,
			"buyer_name", record.BuyerName,
		)
	}

	return doc, nil
}

func (m *Mapper) business(p *profile.Profile) document.Business {
	if p == nil {
		return document.Business{Name: PlaceholderBusinessName}
	}
	name := strings.TrimSpace(lo.FromPtr(p.BusinessName))
	if name == "" {
		name = PlaceholderBusinessName
	}
	return document.Business{
		Name:    name,
		Email:   lo.FromPtr(p.Email),
		Phone:   nonEmpty(p.Phone),
		Address: nonEmpty(p.Address),
		LogoURL: nonEmpty(p.LogoURL),
		Website: nonEmpty(p.Website),
		TaxID:   nonEmpty(p.TaxID),
	}
}

func (m *Mapper) issuedDate(raw string) string {
	if t, ok := parseDate(raw); ok {
		return FormatDate(t)
	}
	if raw != "" {
		m.logger.Debugw("malformed issued date, using today", "issued_date", raw)
	}
	return FormatDate(m.now())
}

func (m *Mapper) dueDate(raw *string) *string {
	if raw == nil || *raw == "" {
		return nil
	}
	t, ok := parseDate(*raw)
	if !ok {
		m.logger.Debugw("malformed due date omitted", "due_date", *raw)
		return nil
	}
	return lo.ToPtr(FormatDate(t))
}

// FormatDate renders t as "January 15, 2024" in UTC
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

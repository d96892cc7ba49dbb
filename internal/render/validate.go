package render

import (
	"fmt"
	"strings"

	"github.com/flexprice/invoicer/internal/domain/document"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/samber/lo"
)

// Violation is one field level problem found before rendering
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Message
}

// ValidationError lists every violation of a rejected document
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invoice document is invalid: %s", strings.Join(e.Messages(), "; "))
}

// Messages returns the human readable violation messages in order
func (e *ValidationError) Messages() []string {
	return lo.Map(e.Violations, func(v Violation, _ int) string { return v.Message })
}

// AsValidationError extracts the violation list from err
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if ierr.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func newValidationError(violations []Violation) error {
	return ierr.WithError(&ValidationError{Violations: violations}).
		WithHintf("The invoice cannot be rendered: %d problem(s) found", len(violations)).
		WithReportableDetails(map[string]any{
			"violations": violations,
		}).
		Mark(ierr.ErrValidation)
}

// Validate checks doc for everything a render needs. All violations are
// collected, it never stops at the first one.
func Validate(doc *document.InvoiceDocument) []Violation {
	if doc == nil {
		return []Violation{{Field: "document", Message: "invoice document is required"}}
	}

	var out []Violation
	required := func(field, label, value string) {
		if strings.TrimSpace(value) == "" {
			out = append(out, Violation{Field: field, Message: label + " is required"})
		}
	}

	required("business.name", "Business name", doc.Business.Name)
	required("client.name", "Client name", doc.Client.Name)
	required("meta.number", "Invoice number", doc.Meta.Number)
	required("meta.issued_date", "Issue date", doc.Meta.IssuedDate)
	required("meta.currency", "Currency", doc.Meta.Currency)

	if len(doc.Items) == 0 {
		out = append(out, Violation{Field: "items", Message: "At least one line item is required"})
	}
	if !doc.Totals.GrandTotal.Valid {
		out = append(out, Violation{Field: "totals.grand_total", Message: "Grand total is required"})
	}

	for i, item := range doc.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(item.Description) == "" {
			out = append(out, Violation{
				Field:   prefix + ".description",
				Message: fmt.Sprintf("Line item %d needs a description", i+1),
			})
		}
		if item.Quantity <= 0 {
			out = append(out, Violation{
				Field:   prefix + ".quantity",
				Message: fmt.Sprintf("Line item %d quantity must be greater than zero", i+1),
			})
		}
		if item.UnitPrice.IsNegative() {
			out = append(out, Violation{
				Field:   prefix + ".unit_price",
				Message: fmt.Sprintf("Line item %d unit price cannot be negative", i+1),
			})
		}
	}
	return out
}

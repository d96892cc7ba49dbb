package invoice

import "fmt"

// FormatInvoiceNumber renders a sequence value as INV-2024-0001
func FormatInvoiceNumber(year int, seq int64) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}

// ComposeServiceName builds the stored composite service name that the
// document mapper later splits back into number and description
func ComposeServiceName(number, description string) string {
	return fmt.Sprintf("Invoice #%s - %s", number, description)
}

// Package money holds the arithmetic and formatting rules shared by every
// place an amount is computed or shown.
package money

import (
	"strings"

	"github.com/flexprice/invoicer/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Precision is the number of minor-unit digits for every currency in scope
const Precision int32 = 2

var hundred = decimal.NewFromInt(100)

// Totals is the result of ComputeTotals
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Round rounds to the minor unit, half away from zero (half-up for
// non-negative amounts). Round(Round(x)) == Round(x).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Precision)
}

// LineTotal is quantity * unitPrice rounded to the minor unit
func LineTotal(unitPrice decimal.Decimal, quantity int64) decimal.Decimal {
	return Round(unitPrice.Mul(decimal.NewFromInt(quantity)))
}

// ComputeTotals derives subtotal, tax and gross amounts for a single priced
// quantity. Inputs are assumed in contract: unitPrice >= 0, quantity > 0 and
// taxRatePercent within [0, 100].
func ComputeTotals(unitPrice decimal.Decimal, quantity int64, taxRatePercent decimal.Decimal) Totals {
	subtotal := LineTotal(unitPrice, quantity)
	tax := Round(subtotal.Mul(taxRatePercent).Div(hundred))
	return Totals{
		Subtotal:   subtotal,
		TaxAmount:  tax,
		GrandTotal: Round(subtotal.Add(tax)),
	}
}

// NormalizeCurrency returns the upper-case ISO code, or USD when the code is
// not a recognized ISO 4217 currency.
func NormalizeCurrency(code string) string {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return types.DefaultCurrency
	}
	return unit.String()
}

// FormatCurrency formats amount for en-US, e.g. "$1,650.00"
func FormatCurrency(amount decimal.Decimal, code string) string {
	return FormatCurrencyLocale(amount, code, language.AmericanEnglish)
}

// FormatCurrencyLocale formats amount with the grouping and decimal
// separators of tag. Unknown currency codes are formatted as USD.
func FormatCurrencyLocale(amount decimal.Decimal, code string, tag language.Tag) string {
	code = NormalizeCurrency(code)

	rounded := Round(amount)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	group, point := separators(tag)
	whole, frac, _ := strings.Cut(rounded.StringFixed(Precision), ".")
	number := groupDigits(whole, group) + point + frac

	if types.HasCurrencySymbol(code) {
		return sign + types.GetCurrencySymbol(code) + number
	}
	return sign + code + " " + number
}

// separators returns the digit group and decimal separators of tag. The
// digits themselves come from the decimal, so no amount passes through a
// float.
func separators(tag language.Tag) (group, point string) {
	sample := message.NewPrinter(tag).Sprintf("%.2f", 1234.5)
	i := strings.Index(sample, "234")
	if i < 1 || !strings.HasPrefix(sample, "1") || !strings.HasSuffix(sample, "50") {
		return ",", "."
	}
	return sample[1:i], sample[i+3 : len(sample)-2]
}

// groupDigits inserts sep between groups of three digits
func groupDigits(digits, sep string) string {
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	var b strings.Builder
	b.WriteString(digits[:min(lead, len(digits))])
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(sep)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatRate renders a percentage rate without trailing zeros, e.g. 7.50 -> "7.5"
func FormatRate(rate decimal.Decimal) string {
	return rate.Round(4).String()
}

package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice string
		quantity  int64
		taxRate   string
		subtotal  string
		tax       string
		grand     string
	}{
		{"flat fee with 10% tax", "1500.00", 1, "10", "1500.00", "150.00", "1650.00"},
		{"no tax", "99.99", 3, "0", "299.97", "0", "299.97"},
		{"tax rounds half up", "0.25", 1, "50", "0.25", "0.13", "0.38"},
		{"full rate", "10", 2, "100", "20", "20", "40"},
		{"fractional rate", "19.99", 7, "7.25", "139.93", "10.14", "150.07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(d(tt.unitPrice), tt.quantity, d(tt.taxRate))
			assert.True(t, d(tt.subtotal).Equal(got.Subtotal), "subtotal %s", got.Subtotal)
			assert.True(t, d(tt.tax).Equal(got.TaxAmount), "tax %s", got.TaxAmount)
			assert.True(t, d(tt.grand).Equal(got.GrandTotal), "grand total %s", got.GrandTotal)
		})
	}
}

func TestComputeTotalsProperties(t *testing.T) {
	prices := []string{"0", "0.01", "0.005", "12.345", "1500", "999999.999"}
	rates := []string{"0", "5", "12.5", "33.333", "100"}

	for _, p := range prices {
		for _, r := range rates {
			for _, q := range []int64{1, 2, 7, 1000} {
				got := ComputeTotals(d(p), q, d(r))
				assert.True(t, got.Subtotal.Equal(Round(d(p).Mul(decimal.NewFromInt(q)))))
				assert.True(t, got.GrandTotal.Equal(Round(got.Subtotal.Add(got.TaxAmount))))
				assert.True(t, Round(got.GrandTotal).Equal(got.GrandTotal), "rounding must be idempotent")
			}
		}
	}
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, "0.13", Round(d("0.125")).StringFixed(2))
	assert.Equal(t, "2.68", Round(d("2.675")).StringFixed(2))
	assert.Equal(t, "-0.13", Round(d("-0.125")).StringFixed(2))
	assert.Equal(t, "1.00", Round(Round(d("0.999"))).StringFixed(2))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$1,650.00", FormatCurrency(d("1650.00"), "USD"))
	assert.Equal(t, "$1,650.00", FormatCurrency(d("1650"), "usd"))
	assert.Equal(t, "€0.50", FormatCurrency(d("0.5"), "EUR"))
	assert.Equal(t, "£1,234,567.89", FormatCurrency(d("1234567.891"), "GBP"))
	assert.Equal(t, "-$12.00", FormatCurrency(d("-12"), "USD"))
}

func TestFormatCurrencyFallsBackToUSD(t *testing.T) {
	assert.Equal(t, "$1,650.00", FormatCurrency(d("1650"), "ZZZ"))
	assert.Equal(t, "$10.00", FormatCurrency(d("10"), ""))
	assert.Equal(t, "USD", NormalizeCurrency("not-a-code"))
}

func TestFormatCurrencyISOWithoutSymbol(t *testing.T) {
	assert.Equal(t, "NOK 1,000.00", FormatCurrency(d("1000"), "NOK"))
}

func TestFormatCurrencyLocale(t *testing.T) {
	assert.Equal(t, "$1,650.00", FormatCurrencyLocale(d("1650"), "USD", language.AmericanEnglish))
	assert.Equal(t, "€1.234.567,50", FormatCurrencyLocale(d("1234567.5"), "EUR", language.German))
}

func TestFormatCurrencyKeepsEveryDigit(t *testing.T) {
	tests := map[string]string{
		"0":                     "$0.00",
		"999":                   "$999.00",
		"1000":                  "$1,000.00",
		"-1234.565":             "-$1,234.57",
		"9007199254740993.01":   "$9,007,199,254,740,993.01",
		"123456789012345678.91": "$123,456,789,012,345,678.91",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatCurrency(d(in), "USD"), in)
	}
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "10", FormatRate(d("10.00")))
	assert.Equal(t, "7.5", FormatRate(d("7.50")))
}

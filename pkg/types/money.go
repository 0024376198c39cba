package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// CurrencySymbol maps an ISO 4217 code to its display symbol, falling back to
// the code itself.
func CurrencySymbol(currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if symbol, ok := currencySymbols[code]; ok {
		return symbol
	}
	if code == "" {
		return currencySymbols["INR"]
	}
	return code + " "
}

// FormatMinor renders a minor-unit amount (paise, cents) as a major-unit
// string with two decimals and the currency symbol, e.g. 150000 INR ->
// "₹1500.00".
func FormatMinor(amountMinor int64, currency string) string {
	major := decimal.NewFromInt(amountMinor).DivRound(decimal.NewFromInt(100), 2)
	return CurrencySymbol(currency) + major.StringFixed(2)
}

// FormatMajor renders a major-unit amount with two decimals and the currency
// symbol.
func FormatMajor(amount float64, currency string) string {
	return CurrencySymbol(currency) + decimal.NewFromFloat(amount).StringFixed(2)
}

// LineSubtotal computes unit price times quantity in major units.
func LineSubtotal(unitPrice float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
}

// FormatSubtotal renders a line subtotal with the currency symbol.
func FormatSubtotal(unitPrice float64, quantity int, currency string) string {
	return CurrencySymbol(currency) + LineSubtotal(unitPrice, quantity).StringFixed(2)
}

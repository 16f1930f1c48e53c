package storefront

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"ILS": "₪",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatPrice renders an amount in minor units, e.g. 49900 ILS as ₪499.00
func FormatPrice(amount int64, currency string) string {
	value := decimal.New(amount, -2).StringFixed(2)

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if symbol, ok := currencySymbols[currency]; ok {
		if strings.HasPrefix(value, "-") {
			return "-" + symbol + value[1:]
		}
		return symbol + value
	}
	if currency == "" {
		return value
	}
	return value + " " + currency
}

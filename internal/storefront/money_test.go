package storefront

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount   int64
		currency string
		want     string
	}{
		{49900, "ILS", "₪499.00"},
		{2500, "ils", "₪25.00"},
		{5, "USD", "$0.05"},
		{0, "EUR", "€0.00"},
		{-150, "USD", "-$1.50"},
		{123456, "CHF", "1234.56 CHF"},
		{99, "", "0.99"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.amount, tt.currency))
	}
}

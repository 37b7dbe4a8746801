package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "€415", FormatAmount(decimal.NewFromInt(415), "eur"))
	assert.Equal(t, "€412.50", FormatAmount(decimal.RequireFromString("412.5"), "EUR"))
	assert.Equal(t, "¥1200", FormatAmount(decimal.RequireFromString("1199.6"), "jpy"))
}

func TestIsAmountInRange(t *testing.T) {
	tests := []struct {
		amount   string
		expected bool
	}{
		{amount: "0", expected: true},
		{amount: "415", expected: true},
		{amount: "-12.345", expected: true},
		{amount: "0.10", expected: true},
		{amount: "1000000000000", expected: true},
		{amount: "1000000000000.01", expected: false},
		{amount: "1e300000000", expected: false},
		{amount: "1e-300000000", expected: false},
		{amount: "0.0000000000000000001", expected: false},
		{amount: "123456789012345678901234567890123456789012", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsAmountInRange(decimal.RequireFromString(tt.amount)))
		})
	}
}

package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "eur"

// CurrencyConfig holds display and rounding settings for a currency
type CurrencyConfig struct {
	Symbol    string
	Precision int32
}

// CURRENCY_CONFIG maps 3 letter ISO currency codes to their configuration
var CURRENCY_CONFIG = map[string]CurrencyConfig{
	"eur": {Symbol: "€", Precision: 2},
	"usd": {Symbol: "$", Precision: 2},
	"gbp": {Symbol: "£", Precision: 2},
	"try": {Symbol: "₺", Precision: 2},
	"chf": {Symbol: "CHF", Precision: 2},
	"jpy": {Symbol: "¥", Precision: 0},
}

// GetCurrencyConfig returns the config for a currency code.
// Unknown codes fall back to the code itself as symbol and 2 decimals.
func GetCurrencyConfig(code string) CurrencyConfig {
	code = strings.ToLower(code)
	if cfg, ok := CURRENCY_CONFIG[code]; ok {
		return cfg
	}
	return CurrencyConfig{Symbol: strings.ToUpper(code), Precision: 2}
}

// GetCurrencySymbol returns the symbol for a given currency code
func GetCurrencySymbol(code string) string {
	return GetCurrencyConfig(code).Symbol
}

// GetCurrencyPrecision returns the number of decimals amounts are rounded to
func GetCurrencyPrecision(code string) int32 {
	return GetCurrencyConfig(code).Precision
}

// RoundToCurrencyPrecision rounds half away from zero at the currency precision
func RoundToCurrencyPrecision(amount decimal.Decimal, code string) decimal.Decimal {
	return amount.Round(GetCurrencyPrecision(code))
}

// FormatAmount renders an amount with its currency symbol ex €415 or €412.50.
// Whole amounts drop the fraction, matching how list prices are displayed.
func FormatAmount(amount decimal.Decimal, code string) string {
	rounded := RoundToCurrencyPrecision(amount, code)
	if rounded.Equal(rounded.Truncate(0)) {
		return fmt.Sprintf("%s%s", GetCurrencySymbol(code), rounded.StringFixed(0))
	}
	return fmt.Sprintf("%s%s", GetCurrencySymbol(code), rounded.StringFixed(GetCurrencyPrecision(code)))
}

const (
	// MaxAmountScale bounds the decimal exponent of accepted amounts in both
	// directions. Rounding and comparing rescale in time linear in it.
	MaxAmountScale = 18
	maxAmountBits  = 128
)

// MaxAmount is the largest absolute amount or rate accepted from clients and
// pricing documents
var MaxAmount = decimal.New(1, 12)

// IsAmountInRange reports whether d is bounded in scale and magnitude. It
// inspects the exponent and coefficient before doing any arithmetic on d.
func IsAmountInRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp > MaxAmountScale || exp < -MaxAmountScale {
		return false
	}
	if d.Coefficient().BitLen() > maxAmountBits {
		return false
	}
	return d.Abs().Cmp(MaxAmount) <= 0
}

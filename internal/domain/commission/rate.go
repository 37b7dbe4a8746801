package commission

import (
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// NormalizeRate converts a stored commission rate to a fraction.
// Values of 1 or more are percentages, so 1 means 1% and not 100%.
func NormalizeRate(rate decimal.Decimal) (decimal.Decimal, error) {
	if !types.IsAmountInRange(rate) {
		return decimal.Zero, ierr.NewError("commission rate is out of range").
			WithHint("Commission rate must be between 0 and 100").
			Mark(ierr.ErrValidation)
	}
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return decimal.Zero, ierr.NewErrorf("commission rate %s is out of range", rate).
			WithHint("Commission rate must be between 0 and 100").
			WithReportableDetails(map[string]any{
				"rate": rate.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return rate.Div(hundred), nil
	}
	return rate, nil
}

package pricing

import (
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Resolution is the outcome of looking up one party size in a tier table.
// Approximate is set when the party is smaller than every bracket of the
// category and the nearest bracket above was used instead.
type Resolution struct {
	UnitAmount  decimal.Decimal `json:"unit_amount" swaggertype:"string"`
	MatchedTier Tier            `json:"matched_tier"`
	Approximate bool            `json:"approximate"`
}

// Resolve picks the price for a party of partySize in the given category.
// Among the brackets containing the size the one with the largest floor wins.
func Resolve(table *TierTable, partySize int, category string) (*Resolution, error) {
	if partySize < 1 {
		return nil, ierr.NewErrorf("party size %d is below 1", partySize).
			WithHint("Please select at least one guest").
			WithReportableDetails(map[string]any{
				"party_size": partySize,
			}).
			Mark(ierr.ErrInvalidPartySize, ierr.ErrValidation)
	}

	tiers := table.TiersFor(category)
	if len(tiers) == 0 {
		return nil, noPriceAvailable(partySize, category)
	}

	containing := lo.Filter(tiers, func(t Tier, _ int) bool { return t.Contains(partySize) })
	if len(containing) > 0 {
		match := lo.MaxBy(containing, func(a, b Tier) bool { return a.PartySizeFloor > b.PartySizeFloor })
		return &Resolution{UnitAmount: match.UnitAmount, MatchedTier: match}, nil
	}

	above := lo.Filter(tiers, func(t Tier, _ int) bool { return t.PartySizeFloor > partySize })
	if len(above) > 0 {
		match := lo.MinBy(above, func(a, b Tier) bool { return a.PartySizeFloor < b.PartySizeFloor })
		return &Resolution{UnitAmount: match.UnitAmount, MatchedTier: match, Approximate: true}, nil
	}

	return nil, noPriceAvailable(partySize, category)
}

func noPriceAvailable(partySize int, category string) error {
	return ierr.NewErrorf("no %s price for a party of %d", category, partySize).
		WithHint("Price available on request").
		WithReportableDetails(map[string]any{
			"party_size": partySize,
			"category":   category,
		}).
		Mark(ierr.ErrNoPriceAvailable, ierr.ErrNotFound)
}

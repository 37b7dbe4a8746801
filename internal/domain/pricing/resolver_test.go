package pricing

import (
	"context"
	"testing"

	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNormalize(t *testing.T, raw string, category types.ItemCategory) *TierTable {
	t.Helper()
	table, err := Parse(raw, category)
	require.NoError(t, err)
	return table
}

func TestResolve(t *testing.T) {
	hotel := `{"paxTiers":{"2":{"threestar":{"double":415}},"6":{"threestar":{"double":355}}}}`
	land := `{"twoAdults":900,"fourAdults":800,"sixAdults":700}`
	daily := `{"sicPrice":45,"privateMin2":200,"privateMin4":150,"privateMin10":90}`
	transfer := `{"price1to2Pax":50,"price3to5Pax":70,"price6to10Pax":120}`

	tests := []struct {
		name        string
		raw         string
		itemType    types.ItemCategory
		category    string
		partySize   int
		expected    string
		approximate bool
		errCheck    func(error) bool
	}{
		{name: "hotel_inside_first_bracket", raw: hotel, itemType: types.ItemCategoryWithHotel, category: "threestar", partySize: 4, expected: "415"},
		{name: "hotel_exact_floor", raw: hotel, itemType: types.ItemCategoryWithHotel, category: "threestar", partySize: 6, expected: "355"},
		{name: "hotel_above_last_floor", raw: hotel, itemType: types.ItemCategoryWithHotel, category: "threestar", partySize: 8, expected: "355"},
		{name: "hotel_below_lowest_floor", raw: hotel, itemType: types.ItemCategoryWithHotel, category: "threestar", partySize: 1, expected: "415", approximate: true},
		{name: "hotel_missing_category", raw: hotel, itemType: types.ItemCategoryWithHotel, category: "fivestar", partySize: 2, errCheck: ierr.IsNoPriceAvailable},
		{name: "land_five_adults", raw: land, itemType: types.ItemCategoryLandOnly, category: "standard", partySize: 5, expected: "800"},
		{name: "land_single_traveller", raw: land, itemType: types.ItemCategoryLandOnly, category: "standard", partySize: 1, expected: "900", approximate: true},
		{name: "daily_private_three", raw: daily, itemType: types.ItemCategoryDailyTour, category: "private", partySize: 3, expected: "150"},
		{name: "daily_private_large_group", raw: daily, itemType: types.ItemCategoryDailyTour, category: "private", partySize: 14, expected: "90"},
		{name: "daily_sic", raw: daily, itemType: types.ItemCategoryDailyTour, category: "sic", partySize: 7, expected: "45"},
		{name: "transfer_six", raw: transfer, itemType: types.ItemCategoryTransfer, category: "private", partySize: 6, expected: "120"},
		{name: "transfer_over_capacity", raw: transfer, itemType: types.ItemCategoryTransfer, category: "private", partySize: 11, errCheck: ierr.IsNoPriceAvailable},
		{name: "zero_party", raw: hotel, itemType: types.ItemCategoryWithHotel, category: "threestar", partySize: 0, errCheck: ierr.IsInvalidPartySize},
		{name: "negative_party", raw: hotel, itemType: types.ItemCategoryWithHotel, category: "threestar", partySize: -2, errCheck: ierr.IsInvalidPartySize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := mustNormalize(t, tt.raw, tt.itemType)
			res, err := Resolve(table, tt.partySize, tt.category)

			if tt.errCheck != nil {
				require.Error(t, err)
				assert.True(t, tt.errCheck(err), "unexpected error %v", err)
				assert.Nil(t, res)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.UnitAmount.String())
			assert.Equal(t, tt.approximate, res.Approximate)
			assert.True(t, res.MatchedTier.UnitAmount.Equal(res.UnitAmount))
		})
	}
}

func TestResolve_EmptyTable(t *testing.T) {
	_, err := Resolve(EmptyTierTable(), 2, "threestar")
	require.Error(t, err)
	assert.True(t, ierr.IsNoPriceAvailable(err))
	assert.True(t, ierr.IsNotFound(err))

	_, err = Resolve(nil, 2, "threestar")
	assert.True(t, ierr.IsNoPriceAvailable(err))
}

func TestResolve_InvalidPartySizeIsValidation(t *testing.T) {
	_, err := Resolve(EmptyTierTable(), 0, "sic")
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
	assert.False(t, ierr.IsNoPriceAvailable(err))
}

func TestResolve_SingleTierTableCoversEverySize(t *testing.T) {
	table := NewTierTable([]Tier{{
		PartySizeFloor: 1,
		Category:       "standard",
		UnitAmount:     decimal.RequireFromString("650"),
		Basis:          types.PriceBasisPerPerson,
	}})

	for n := 1; n <= 60; n++ {
		res, err := Resolve(table, n, "standard")
		require.NoError(t, err)
		assert.Equal(t, "650", res.UnitAmount.String())
		assert.False(t, res.Approximate)
	}
}

// Whatever the party size, the resolver either reports no price or returns a
// tier that contains the size or is the nearest one above it.
func TestResolve_MatchContainsOrBracketsRequest(t *testing.T) {
	docs := map[types.ItemCategory]string{
		types.ItemCategoryWithHotel: `{"paxTiers":{"2":{"threestar":{"double":415},"fourstar":{"double":520}},"4":{"fourstar":{"double":480}},"8":{"threestar":{"double":330}}}}`,
		types.ItemCategoryLandOnly:  `{"fourAdults":800,"sixAdults":700}`,
		types.ItemCategoryDailyTour: `{"sicPrice":45,"privateMin4":150,"privateMin8":100}`,
		types.ItemCategoryTransfer:  `{"sicPricePerPerson":15,"price3to5Pax":70}`,
	}
	normalizer := NewNormalizer(logger.NewNoopLogger())

	for itemType, raw := range docs {
		table := normalizer.Normalize(context.Background(), raw, itemType)
		for _, category := range table.Categories() {
			tiers := table.TiersFor(category)
			lowest := lo.MinBy(tiers, func(a, b Tier) bool { return a.PartySizeFloor < b.PartySizeFloor })

			for n := 1; n <= 20; n++ {
				res, err := Resolve(table, n, category)
				if err != nil {
					assert.True(t, ierr.IsNoPriceAvailable(err), "%s %s n=%d: %v", itemType, category, n, err)
					continue
				}
				if res.Approximate {
					assert.Less(t, n, res.MatchedTier.PartySizeFloor)
					assert.Equal(t, lowest.PartySizeFloor, res.MatchedTier.PartySizeFloor)
				} else {
					assert.True(t, res.MatchedTier.Contains(n), "%s %s n=%d matched %s", itemType, category, n, res.MatchedTier)
				}
			}
		}
	}
}

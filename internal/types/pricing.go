package types

import (
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/samber/lo"
)

// ItemCategory selects which pricing document shape an item carries
type ItemCategory string

const (
	ItemCategoryWithHotel ItemCategory = "WITH_HOTEL"
	ItemCategoryLandOnly  ItemCategory = "LAND_ONLY"
	ItemCategoryDailyTour ItemCategory = "DAILY_TOUR"
	ItemCategoryTransfer  ItemCategory = "TRANSFER"
)

func (c ItemCategory) String() string {
	return string(c)
}

func (c ItemCategory) Validate() error {
	allowed := []ItemCategory{
		ItemCategoryWithHotel,
		ItemCategoryLandOnly,
		ItemCategoryDailyTour,
		ItemCategoryTransfer,
	}
	if !lo.Contains(allowed, c) {
		return ierr.NewError("invalid item category").
			WithHint("Please provide a valid item category").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// BookingType returns the booking type items of this category are sold as
func (c ItemCategory) BookingType() BookingType {
	switch c {
	case ItemCategoryDailyTour:
		return BookingTypeDailyTour
	case ItemCategoryTransfer:
		return BookingTypeTransfer
	default:
		return BookingTypePackage
	}
}

// Tier categories. Hotel packages use the hotel star rating, everything else
// uses the service level.
const (
	TierCategoryThreeStar = "threestar"
	TierCategoryFourStar  = "fourstar"
	TierCategoryFiveStar  = "fivestar"
	TierCategoryStandard  = "standard"
	TierCategorySIC       = "sic"
	TierCategoryPrivate   = "private"
)

// HotelCategories lists the hotel tier categories in display order
var HotelCategories = []string{
	TierCategoryThreeStar,
	TierCategoryFourStar,
	TierCategoryFiveStar,
}

// DefaultTierCategory returns the category quoted when the caller does not pick one
func DefaultTierCategory(c ItemCategory) string {
	switch c {
	case ItemCategoryWithHotel:
		return TierCategoryThreeStar
	case ItemCategoryLandOnly:
		return TierCategoryStandard
	default:
		return TierCategorySIC
	}
}

// PriceBasis tells whether a tier's unit amount is charged per guest or once per vehicle
type PriceBasis string

const (
	PriceBasisPerPerson  PriceBasis = "per_person"
	PriceBasisPerVehicle PriceBasis = "per_vehicle"
)

// PricingChannel selects between consumer and agent (B2B) pricing documents
type PricingChannel string

const (
	PricingChannelPublic PricingChannel = "public"
	PricingChannelAgent  PricingChannel = "agent"
)

func (c PricingChannel) Validate() error {
	allowed := []PricingChannel{PricingChannelPublic, PricingChannelAgent}
	if !lo.Contains(allowed, c) {
		return ierr.NewError("invalid pricing channel").
			WithHint("Please provide a valid pricing channel").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ContactForPricing is displayed instead of a price when an item has no usable tiers
const ContactForPricing = "Contact for pricing"

// MaxTransferPartySize is the largest party a transfer can be quoted for without a manual request
const MaxTransferPartySize = 10

const (
	// MaxRooms is the most rooms a single quote or booking can allocate
	MaxRooms = 20
	// MaxGuestsPerRoom is the most guests one room can hold
	MaxGuestsPerRoom = 10
)

package pricing

import (
	"context"
	"fmt"

	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/funnytourism/tourprice/internal/types"
)

// Normalizer turns stored pricing documents into tier tables for the render path
type Normalizer struct {
	logger *logger.Logger
}

func NewNormalizer(logger *logger.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize never fails: documents that cannot be read are logged and
// produce an empty table, which the UI shows as "contact for pricing".
func (n *Normalizer) Normalize(ctx context.Context, raw any, category types.ItemCategory) (table *TierTable) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.WithContext(ctx).Errorw("pricing document normalization panicked",
				"item_category", category,
				"panic", fmt.Sprint(r),
			)
			table = EmptyTierTable()
		}
	}()

	table, err := Parse(raw, category)
	if err != nil {
		n.logger.WithContext(ctx).Warnw("failed to parse pricing document",
			"item_category", category,
			"error", err,
		)
		return EmptyTierTable()
	}
	return table
}

// Parse is the strict variant of Normalize used by import and admin validation.
// Malformed documents return an error marked ErrPricingParse. A missing
// document is not an error and yields an empty table.
func Parse(raw any, category types.ItemCategory) (*TierTable, error) {
	if err := category.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Unknown item category %q", category).
			Mark(ierr.ErrPricingParse)
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return EmptyTierTable(), nil
	}

	var tiers []Tier
	switch category {
	case types.ItemCategoryWithHotel:
		tiers = parseHotelDocument(doc).Tiers()
	case types.ItemCategoryLandOnly:
		tiers = parseLandDocument(doc).Tiers()
	case types.ItemCategoryDailyTour:
		tiers = parseDailyTourDocument(doc).Tiers()
	case types.ItemCategoryTransfer:
		tiers = parseTransferDocument(doc).Tiers()
	}

	return NewTierTable(tiers), nil
}

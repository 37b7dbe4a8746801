package pricing

import (
	"fmt"

	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Line item codes of a quote
const (
	LineCodeBase             = "base"
	LineCodeSingleSupplement = "single_supplement"
	LineCodeTripleAdjustment = "triple_adjustment"
)

// DefaultSingleSupplementRate is the share of the double rate charged per
// single room guest when the pricing document carries no supplement.
var DefaultSingleSupplementRate = decimal.NewFromFloat(0.5)

// QuoteRequest describes the party being priced. Rooms lists the number of
// guests per room and is only meaningful for hotel packages; when set, the
// party size is the sum of the rooms.
type QuoteRequest struct {
	Category  string
	PartySize int
	Rooms     []int
	Currency  string
	// Fraction of the double rate used when a tier has no single supplement.
	// Zero means DefaultSingleSupplementRate.
	SingleSupplementRate decimal.Decimal
}

type QuoteLine struct {
	Code       string          `json:"code"`
	Quantity   int             `json:"quantity"`
	UnitAmount decimal.Decimal `json:"unit_amount" swaggertype:"string"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"string"`
}

type Quote struct {
	Category    string          `json:"category"`
	PartySize   int             `json:"party_size"`
	Currency    string          `json:"currency"`
	UnitAmount  decimal.Decimal `json:"unit_amount" swaggertype:"string"`
	Basis       string          `json:"basis"`
	Approximate bool            `json:"approximate"`
	MatchedTier Tier            `json:"matched_tier"`
	Lines       []QuoteLine     `json:"lines"`
	Total       decimal.Decimal `json:"total" swaggertype:"string"`
}

func (r QuoteRequest) totalPartySize() (int, error) {
	if len(r.Rooms) == 0 {
		return r.PartySize, nil
	}

	if len(r.Rooms) > types.MaxRooms {
		return 0, ierr.NewErrorf("%d rooms requested", len(r.Rooms)).
			WithHint(fmt.Sprintf("At most %d rooms can be booked at once", types.MaxRooms)).
			WithReportableDetails(map[string]any{"rooms": len(r.Rooms), "max_rooms": types.MaxRooms}).
			Mark(ierr.ErrInvalidPartySize, ierr.ErrValidation)
	}

	sum := 0
	for i, guests := range r.Rooms {
		if guests < 1 {
			return 0, ierr.NewErrorf("room %d has %d guests", i+1, guests).
				WithHint("Every room needs at least one guest").
				WithReportableDetails(map[string]any{"room": i + 1, "guests": guests}).
				Mark(ierr.ErrInvalidPartySize, ierr.ErrValidation)
		}
		if guests > types.MaxGuestsPerRoom {
			return 0, ierr.NewErrorf("room %d has %d guests", i+1, guests).
				WithHint(fmt.Sprintf("A room holds at most %d guests", types.MaxGuestsPerRoom)).
				WithReportableDetails(map[string]any{"room": i + 1, "guests": guests, "max_guests": types.MaxGuestsPerRoom}).
				Mark(ierr.ErrInvalidPartySize, ierr.ErrValidation)
		}
		sum += guests
	}
	if r.PartySize != 0 && r.PartySize != sum {
		return 0, ierr.NewErrorf("party size %d does not match %d guests in rooms", r.PartySize, sum).
			WithHint("The number of guests does not match the room allocation").
			WithReportableDetails(map[string]any{"party_size": r.PartySize, "room_guests": sum}).
			Mark(ierr.ErrValidation)
	}
	return sum, nil
}

// BuildQuote resolves the party once and expands the result into line items.
// Room supplements are added on top of the base line, never substituted for it.
func BuildQuote(table *TierTable, req QuoteRequest) (*Quote, error) {
	partySize, err := req.totalPartySize()
	if err != nil {
		return nil, err
	}

	resolution, err := Resolve(table, partySize, req.Category)
	if err != nil {
		return nil, err
	}

	currency := lo.Ternary(req.Currency == "", types.DefaultCurrency, req.Currency)
	round := func(d decimal.Decimal) decimal.Decimal { return types.RoundToCurrencyPrecision(d, currency) }
	tier := resolution.MatchedTier

	lines := make([]QuoteLine, 0, 3)
	if tier.Basis == types.PriceBasisPerVehicle {
		lines = append(lines, QuoteLine{
			Code:       LineCodeBase,
			Quantity:   1,
			UnitAmount: tier.UnitAmount,
			Amount:     round(tier.UnitAmount),
		})
	} else {
		lines = append(lines, QuoteLine{
			Code:       LineCodeBase,
			Quantity:   partySize,
			UnitAmount: tier.UnitAmount,
			Amount:     round(tier.UnitAmount.Mul(decimal.NewFromInt(int64(partySize)))),
		})
	}

	if len(req.Rooms) > 0 && lo.Contains(types.HotelCategories, tier.Category) {
		lines = append(lines, roomLines(tier, req, round)...)
	}

	total := lo.Reduce(lines, func(acc decimal.Decimal, l QuoteLine, _ int) decimal.Decimal {
		return acc.Add(l.Amount)
	}, decimal.Zero)

	return &Quote{
		Category:    tier.Category,
		PartySize:   partySize,
		Currency:    currency,
		UnitAmount:  tier.UnitAmount,
		Basis:       string(tier.Basis),
		Approximate: resolution.Approximate,
		MatchedTier: tier,
		Lines:       lines,
		Total:       round(total),
	}, nil
}

func roomLines(tier Tier, req QuoteRequest, round func(decimal.Decimal) decimal.Decimal) []QuoteLine {
	singleGuests := lo.CountBy(req.Rooms, func(guests int) bool { return guests == 1 })
	tripleGuests := lo.SumBy(req.Rooms, func(guests int) int { return lo.Ternary(guests >= 3, guests, 0) })

	lines := make([]QuoteLine, 0, 2)
	if singleGuests > 0 {
		supplement := lo.FromPtr(tier.SingleSupplement)
		if tier.SingleSupplement == nil {
			rate := lo.Ternary(req.SingleSupplementRate.IsPositive(), req.SingleSupplementRate, DefaultSingleSupplementRate)
			supplement = tier.UnitAmount.Mul(rate)
		}
		lines = append(lines, QuoteLine{
			Code:       LineCodeSingleSupplement,
			Quantity:   singleGuests,
			UnitAmount: supplement,
			Amount:     round(supplement.Mul(decimal.NewFromInt(int64(singleGuests)))),
		})
	}

	if tripleGuests > 0 && tier.TripleRate != nil {
		diff := tier.TripleRate.Sub(tier.UnitAmount)
		if !diff.IsZero() {
			lines = append(lines, QuoteLine{
				Code:       LineCodeTripleAdjustment,
				Quantity:   tripleGuests,
				UnitAmount: diff,
				Amount:     round(diff.Mul(decimal.NewFromInt(int64(tripleGuests)))),
			})
		}
	}
	return lines
}

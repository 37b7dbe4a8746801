package dto

import (
	"github.com/funnytourism/tourprice/internal/domain/item"
	"github.com/funnytourism/tourprice/internal/domain/pricing"
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/funnytourism/tourprice/internal/validator"
	"github.com/shopspring/decimal"
)

// FromPriceResponse is the "starting from" price shown on catalog pages
type FromPriceResponse struct {
	ItemID    string             `json:"item_id"`
	Code      string             `json:"code"`
	Title     string             `json:"title"`
	Category  types.ItemCategory `json:"category"`
	Available bool               `json:"available"`
	// Lowest unit amount of the item, only set when available
	Amount *decimal.Decimal `json:"amount,omitempty" swaggertype:"string"`
	// Whether Amount is charged per person or per vehicle, only set when available
	Basis    types.PriceBasis `json:"basis,omitempty"`
	Currency string           `json:"currency"`
	// Either "From €X" or "Contact for pricing"
	Display string `json:"display"`
}

// NewFromPriceResponse builds the display for an item's normalized table
func NewFromPriceResponse(i *item.Item, table *pricing.TierTable) *FromPriceResponse {
	resp := &FromPriceResponse{
		ItemID:   i.ID,
		Code:     i.Code,
		Title:    i.Title,
		Category: i.Category,
		Currency: i.GetCurrency(),
		Display:  types.ContactForPricing,
	}

	tier, ok := pricing.FromTier(table)
	if !ok {
		return resp
	}
	amount := tier.UnitAmount
	resp.Available = true
	resp.Amount = &amount
	resp.Basis = tier.Basis
	resp.Display = "From " + types.FormatAmount(amount, resp.Currency)
	return resp
}

// TierTableResponse exposes a normalized tier table
type TierTableResponse struct {
	ItemID  string               `json:"item_id"`
	Channel types.PricingChannel `json:"channel"`
	Empty   bool                 `json:"empty"`
	Tiers   []pricing.Tier       `json:"tiers"`
}

// QuoteRequest prices a party for an item
type QuoteRequest struct {
	// Tier category, defaults to the item's default category
	Category string `json:"category,omitempty"`
	// Number of guests. Optional when rooms are given.
	PartySize int `json:"party_size,omitempty" validate:"omitempty,min=1"`
	// Guests per room for hotel packages, e.g. [2, 1]
	Rooms []int `json:"rooms,omitempty" validate:"omitempty,max=20,dive,min=1,max=10"`
	// Agent bookings are priced from the agent document when one exists
	Channel types.PricingChannel `json:"channel,omitempty"`
}

func (r *QuoteRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.PartySize == 0 && len(r.Rooms) == 0 {
		return ierr.NewError("party_size is required").
			WithHint("Please select the number of guests").
			Mark(ierr.ErrInvalidPartySize, ierr.ErrValidation)
	}
	if r.Channel != "" {
		return r.Channel.Validate()
	}
	return nil
}

// GetChannel returns the requested channel or public pricing
func (r *QuoteRequest) GetChannel() types.PricingChannel {
	if r.Channel == "" {
		return types.PricingChannelPublic
	}
	return r.Channel
}

// ToPricingRequest converts the request for the quote builder
func (r *QuoteRequest) ToPricingRequest(i *item.Item, supplementRate decimal.Decimal) pricing.QuoteRequest {
	category := r.Category
	if category == "" {
		category = types.DefaultTierCategory(i.Category)
	}
	return pricing.QuoteRequest{
		Category:             category,
		PartySize:            r.PartySize,
		Rooms:                r.Rooms,
		Currency:             i.GetCurrency(),
		SingleSupplementRate: supplementRate,
	}
}

// QuoteResponse is a priced party
type QuoteResponse struct {
	ItemID  string               `json:"item_id"`
	Channel types.PricingChannel `json:"channel"`
	*pricing.Quote
	// Formatted total, e.g. "€830"
	Display string `json:"display"`
}

func NewQuoteResponse(i *item.Item, channel types.PricingChannel, q *pricing.Quote) *QuoteResponse {
	return &QuoteResponse{
		ItemID:  i.ID,
		Channel: channel,
		Quote:   q,
		Display: types.FormatAmount(q.Total, q.Currency),
	}
}

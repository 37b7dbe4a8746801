package dto

import (
	"context"
	"strings"

	"github.com/funnytourism/tourprice/internal/domain/booking"
	"github.com/funnytourism/tourprice/internal/domain/item"
	"github.com/funnytourism/tourprice/internal/domain/pricing"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/funnytourism/tourprice/internal/validator"
	"github.com/samber/lo"
)

// CreateBookingRequest books an item at the exact party size
type CreateBookingRequest struct {
	ItemID     string `json:"item_id" validate:"required"`
	Category   string `json:"category,omitempty"`
	PartySize  int    `json:"party_size,omitempty" validate:"omitempty,min=1"`
	Rooms      []int  `json:"rooms,omitempty" validate:"omitempty,max=20,dive,min=1,max=10"`
	GuestName  string `json:"guest_name" validate:"required,max=255"`
	GuestEmail string `json:"guest_email" validate:"required,email"`
	// Set for bookings made by a partner agent
	AgentID *string `json:"agent_id,omitempty"`
}

func (r *CreateBookingRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	quote := r.ToQuoteRequest()
	return quote.Validate()
}

// ToQuoteRequest returns the quote the booking is priced with
func (r *CreateBookingRequest) ToQuoteRequest() *QuoteRequest {
	channel := types.PricingChannelPublic
	if r.AgentID != nil && *r.AgentID != "" {
		channel = types.PricingChannelAgent
	}
	return &QuoteRequest{
		Category:  r.Category,
		PartySize: r.PartySize,
		Rooms:     r.Rooms,
		Channel:   channel,
	}
}

// ToBooking builds the booking priced by quote
func (r *CreateBookingRequest) ToBooking(ctx context.Context, i *item.Item, quote *pricing.Quote) *booking.Booking {
	bookingType := i.Category.BookingType()
	return &booking.Booking{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_BOOKING),
		ReferenceNumber: types.GenerateShortIDWithPrefix(bookingType.ReferencePrefix()),
		ItemID:          i.ID,
		BookingType:     bookingType,
		ItemCategory:    i.Category,
		AgentID:         lo.Ternary(r.AgentID != nil && *r.AgentID != "", r.AgentID, nil),
		Category:        quote.Category,
		PartySize:       quote.PartySize,
		Rooms:           types.IntList(r.Rooms),
		GuestName:       strings.TrimSpace(r.GuestName),
		GuestEmail:      strings.ToLower(strings.TrimSpace(r.GuestEmail)),
		UnitAmount:      quote.UnitAmount,
		TotalPrice:      quote.Total,
		Currency:        quote.Currency,
		Approximate:     quote.Approximate,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
}

// BookingResponse is a created booking with its ledger when one was opened
type BookingResponse struct {
	*booking.Booking
	Quote  *QuoteResponse  `json:"quote,omitempty"`
	Ledger *LedgerResponse `json:"ledger,omitempty"`
}

package booking

import (
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/shopspring/decimal"
)

// Booking is a priced reservation of a catalog item. The price is fixed at
// booking time; later pricing changes do not affect it.
type Booking struct {
	ID              string             `db:"id" json:"id"`
	ReferenceNumber string             `db:"reference_number" json:"reference_number"`
	ItemID          string             `db:"item_id" json:"item_id"`
	BookingType     types.BookingType  `db:"booking_type" json:"booking_type"`
	ItemCategory    types.ItemCategory `db:"item_category" json:"item_category"`
	AgentID         *string            `db:"agent_id" json:"agent_id,omitempty"`
	// Tier category the booking was priced in, e.g. threestar or private
	Category    string          `db:"category" json:"category"`
	PartySize   int             `db:"party_size" json:"party_size"`
	Rooms       types.IntList   `db:"rooms" json:"rooms,omitempty"`
	GuestName   string          `db:"guest_name" json:"guest_name"`
	GuestEmail  string          `db:"guest_email" json:"guest_email"`
	UnitAmount  decimal.Decimal `db:"unit_amount" json:"unit_amount" swaggertype:"string"`
	TotalPrice  decimal.Decimal `db:"total_price" json:"total_price" swaggertype:"string"`
	Currency    string          `db:"currency" json:"currency"`
	Approximate bool            `db:"approximate" json:"approximate"`

	types.BaseModel
}

// IsAgentBooking reports whether the booking was made by a partner agent
func (b *Booking) IsAgentBooking() bool {
	return b.AgentID != nil && *b.AgentID != ""
}

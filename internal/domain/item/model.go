package item

import (
	"github.com/funnytourism/tourprice/internal/types"
)

// Item is a sellable catalog entry: a package, a daily tour or a transfer.
// Pricing and B2BPricing hold the raw pricing documents as stored by the admin
// forms; they are normalized on read.
type Item struct {
	ID         string             `db:"id" json:"id"`
	Code       string             `db:"code" json:"code"`
	Title      string             `db:"title" json:"title"`
	Category   types.ItemCategory `db:"category" json:"category"`
	Pricing    string             `db:"pricing" json:"pricing,omitempty"`
	B2BPricing string             `db:"b2b_pricing" json:"b2b_pricing,omitempty"`
	Currency   string             `db:"currency" json:"currency"`
	IsActive   bool               `db:"is_active" json:"is_active"`

	types.BaseModel
}

// PricingDocument returns the document for the given sales channel. Agents
// fall back to consumer pricing when no B2B document was entered.
func (i *Item) PricingDocument(channel types.PricingChannel) string {
	if channel == types.PricingChannelAgent && i.B2BPricing != "" {
		return i.B2BPricing
	}
	return i.Pricing
}

// GetCurrency returns the item currency or the default one
func (i *Item) GetCurrency() string {
	if i.Currency == "" {
		return types.DefaultCurrency
	}
	return i.Currency
}

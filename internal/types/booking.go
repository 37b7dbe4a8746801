package types

import (
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/samber/lo"
)

// BookingType is the kind of product a booking (and its ledger) belongs to
type BookingType string

const (
	BookingTypePackage   BookingType = "Package"
	BookingTypeDailyTour BookingType = "DailyTour"
	BookingTypeTransfer  BookingType = "Transfer"
)

func (t BookingType) String() string {
	return string(t)
}

func (t BookingType) Validate() error {
	allowed := []BookingType{
		BookingTypePackage,
		BookingTypeDailyTour,
		BookingTypeTransfer,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid booking type").
			WithHint("Please provide a valid booking type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ReferencePrefix returns the prefix used for guest facing reference numbers
func (t BookingType) ReferencePrefix() string {
	switch t {
	case BookingTypeDailyTour:
		return SHORT_ID_PREFIX_DAILY_TOUR
	case BookingTypeTransfer:
		return SHORT_ID_PREFIX_TRANSFER
	default:
		return SHORT_ID_PREFIX_PACKAGE
	}
}

// BookingFilter filters bookings on list queries
type BookingFilter struct {
	*QueryFilter
	AgentID string       `json:"agent_id,omitempty" form:"agent_id"`
	ItemID  string       `json:"item_id,omitempty" form:"item_id"`
	Type    *BookingType `json:"booking_type,omitempty" form:"booking_type"`
}

func NewBookingFilter() *BookingFilter {
	return &BookingFilter{QueryFilter: NewDefaultQueryFilter()}
}

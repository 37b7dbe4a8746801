package service

import (
	"context"

	"github.com/funnytourism/tourprice/internal/api/dto"
	"github.com/funnytourism/tourprice/internal/domain/booking"
	"github.com/funnytourism/tourprice/internal/domain/commission"
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/publisher"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/samber/lo"
)

// BookingService creates priced bookings and opens agent commission ledgers
type BookingService interface {
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	GetBooking(ctx context.Context, id string) (*booking.Booking, error)
	ListBookings(ctx context.Context, filter *types.BookingFilter) (*dto.ListResponse[*booking.Booking], error)
}

type bookingService struct {
	ServiceParams
	pricing    *pricingService
	commission *commissionService
}

func NewBookingService(params ServiceParams) BookingService {
	return &bookingService{
		ServiceParams: params,
		pricing:       newPricingService(params),
		commission:    &commissionService{ServiceParams: params},
	}
}

// CreateBooking prices the party at its exact size and stores the booking.
// Agent bookings also get their ledger, computed from the agent's stored rate,
// in the same transaction.
func (s *bookingService) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	i, err := s.ItemRepo.Get(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	quoteReq := req.ToQuoteRequest()
	quote, err := s.pricing.quoteItem(ctx, i, quoteReq)
	if err != nil {
		return nil, err
	}

	b := req.ToBooking(ctx, i, quote)
	var ledger *commission.Ledger

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if b.IsAgentBooking() {
			a, err := s.AgentRepo.Get(ctx, *b.AgentID)
			if err != nil {
				return err
			}
			if !a.IsActive {
				return ierr.NewErrorf("agent %s is not active", a.ID).
					WithHint("This agent account is not active").
					Mark(ierr.ErrPermissionDenied)
			}

			if err := s.BookingRepo.Create(ctx, b); err != nil {
				return err
			}

			ledger, err = s.commission.openLedger(ctx, commission.NewLedgerParams{
				BookingID:   b.ID,
				BookingType: b.BookingType,
				AgentID:     a.ID,
				Kind:        a.LedgerKind(),
				Currency:    b.Currency,
				GrossPrice:  b.TotalPrice,
				Rate:        a.CommissionRate,
			})
			return err
		}

		return s.BookingRepo.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.WithContext(ctx).Infow("created booking",
		"booking_id", b.ID,
		"reference_number", b.ReferenceNumber,
		"item_id", b.ItemID,
		"party_size", b.PartySize,
		"total_price", b.TotalPrice.String(),
		"approximate", b.Approximate,
	)

	resp := &dto.BookingResponse{
		Booking: b,
		Quote:   dto.NewQuoteResponse(i, quoteReq.GetChannel(), quote),
	}
	if ledger != nil {
		s.commission.publish(ctx, publisher.NewLedgerCreatedEvent(ctx, ledger))
		resp.Ledger = dto.NewLedgerResponse(ledger)
	}
	return resp, nil
}

// GetBooking hides bookings of other agencies from agent callers as not found
func (s *bookingService) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	b, err := s.BookingRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibleToCaller(ctx, lo.FromPtr(b.AgentID)) {
		return nil, ierr.NewErrorf("booking %s not found", id).
			WithHint("The requested booking was not found").
			Mark(ierr.ErrNotFound)
	}
	return b, nil
}

// visibleToCaller reports whether a record owned by agentID may be shown.
// Staff see everything, agents only their own agency's records.
func visibleToCaller(ctx context.Context, agentID string) bool {
	caller := types.GetAgentID(ctx)
	return caller == "" || caller == agentID
}

func (s *bookingService) ListBookings(ctx context.Context, filter *types.BookingFilter) (*dto.ListResponse[*booking.Booking], error) {
	if filter == nil {
		filter = types.NewBookingFilter()
	}
	if filter.QueryFilter != nil {
		if err := filter.QueryFilter.Validate(); err != nil {
			return nil, err
		}
	}

	bookings, err := s.BookingRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewListResponse(bookings), nil
}

package service

import (
	"testing"

	"github.com/funnytourism/tourprice/internal/api/dto"
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/publisher"
	"github.com/funnytourism/tourprice/internal/testutil"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type BookingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service BookingService
}

func TestBookingService(t *testing.T) {
	suite.Run(t, new(BookingServiceSuite))
}

func (s *BookingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewBookingService(newServiceParams(&s.BaseServiceTestSuite))

	hotel := newTestItem(&s.BaseServiceTestSuite, "itm_hotel", "PKG-CAP-01", types.ItemCategoryWithHotel, hotelPricing)
	hotel.B2BPricing = hotelB2BPricing
	s.Require().NoError(s.GetStores().ItemRepo.Update(s.GetContext(), hotel.ID, hotel))
	newTestItem(&s.BaseServiceTestSuite, "itm_trf", "TRF-IST-01", types.ItemCategoryTransfer, transferPricing)
}

func (s *BookingServiceSuite) bookingRequest(itemID string, partySize int) *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		ItemID:     itemID,
		PartySize:  partySize,
		GuestName:  " Ayşe Yılmaz ",
		GuestEmail: "Ayse@Example.com",
	}
}

func (s *BookingServiceSuite) TestCreateDirectBooking() {
	resp, err := s.service.CreateBooking(s.GetContext(), s.bookingRequest("itm_hotel", 2))
	s.Require().NoError(err)

	s.Equal("830", resp.TotalPrice.String())
	s.Equal(types.BookingTypePackage, resp.BookingType)
	s.Equal("threestar", resp.Category)
	s.Equal("Ayşe Yılmaz", resp.GuestName)
	s.Equal("ayse@example.com", resp.GuestEmail)
	s.NotEmpty(resp.ReferenceNumber)
	s.Nil(resp.Ledger)
	s.Equal(types.PricingChannelPublic, resp.Quote.Channel)
	s.Equal(1, s.GetDB().Calls)
	s.Empty(s.GetPublisher().Events(""))

	stored, err := s.service.GetBooking(s.GetContext(), resp.ID)
	s.Require().NoError(err)
	s.Equal(resp.ReferenceNumber, stored.ReferenceNumber)
	s.Equal(testutil.DefaultUserID, stored.CreatedBy)
}

func (s *BookingServiceSuite) TestCreateAgentBookingOpensLedger() {
	agent := newTestAgent(&s.BaseServiceTestSuite, "agent_1", "10", false)
	req := s.bookingRequest("itm_hotel", 2)
	req.AgentID = lo.ToPtr(agent.ID)

	resp, err := s.service.CreateBooking(s.GetContext(), req)
	s.Require().NoError(err)

	// agents are priced from the B2B document
	s.Equal("760", resp.TotalPrice.String())
	s.Equal(types.PricingChannelAgent, resp.Quote.Channel)

	s.Require().NotNil(resp.Ledger)
	s.Equal(resp.ID, resp.Ledger.BookingID)
	s.Equal(types.LedgerKindCommissionPayable, resp.Ledger.Kind)
	s.Equal("760", resp.Ledger.GrossPrice.String())
	s.Equal("76", resp.Ledger.CommissionAmount.String())
	s.Equal("76", resp.Ledger.AmountDue.String())

	stored, err := s.GetStores().LedgerRepo.GetByBookingID(s.GetContext(), resp.ID)
	s.Require().NoError(err)
	s.Equal(resp.Ledger.ID, stored.ID)

	events := s.GetPublisher().Events(publisher.EventLedgerCreated)
	s.Require().Len(events, 1)
	s.Equal(stored.ID, events[0].LedgerID)
}

func (s *BookingServiceSuite) TestCreateNetRateAgentBooking() {
	agent := newTestAgent(&s.BaseServiceTestSuite, "agent_net", "0.12", true)
	req := s.bookingRequest("itm_trf", 4)
	req.Category = types.TierCategoryPrivate
	req.AgentID = lo.ToPtr(agent.ID)

	resp, err := s.service.CreateBooking(s.GetContext(), req)
	s.Require().NoError(err)
	s.Equal("60", resp.TotalPrice.String())
	s.Require().NotNil(resp.Ledger)
	s.Equal(types.LedgerKindAgentReceivable, resp.Ledger.Kind)
	s.Equal("7.2", resp.Ledger.CommissionAmount.String())
	s.Equal("52.8", resp.Ledger.AmountDue.String())
}

func (s *BookingServiceSuite) TestCreateBookingErrors() {
	inactive := newTestAgent(&s.BaseServiceTestSuite, "agent_off", "10", false)
	inactive.IsActive = false
	s.Require().NoError(s.GetStores().AgentRepo.Update(s.GetContext(), inactive.ID, inactive))

	tests := []struct {
		name  string
		req   func() *dto.CreateBookingRequest
		check func(error) bool
	}{
		{
			name:  "missing_item",
			req:   func() *dto.CreateBookingRequest { return s.bookingRequest("itm_missing", 2) },
			check: ierr.IsNotFound,
		},
		{
			name:  "no_party",
			req:   func() *dto.CreateBookingRequest { return s.bookingRequest("itm_hotel", 0) },
			check: ierr.IsInvalidPartySize,
		},
		{
			name: "bad_email",
			req: func() *dto.CreateBookingRequest {
				r := s.bookingRequest("itm_hotel", 2)
				r.GuestEmail = "not-an-email"
				return r
			},
			check: ierr.IsValidation,
		},
		{
			name: "party_too_large_for_transfer",
			req: func() *dto.CreateBookingRequest {
				r := s.bookingRequest("itm_trf", 12)
				r.Category = types.TierCategoryPrivate
				return r
			},
			check: ierr.IsNoPriceAvailable,
		},
		{
			name: "too_many_guests_in_room",
			req: func() *dto.CreateBookingRequest {
				r := s.bookingRequest("itm_hotel", 0)
				r.Rooms = []int{2, 1000000}
				return r
			},
			check: ierr.IsValidation,
		},
		{
			name: "unknown_agent",
			req: func() *dto.CreateBookingRequest {
				r := s.bookingRequest("itm_hotel", 2)
				r.AgentID = lo.ToPtr("agent_missing")
				return r
			},
			check: ierr.IsNotFound,
		},
		{
			name: "inactive_agent",
			req: func() *dto.CreateBookingRequest {
				r := s.bookingRequest("itm_hotel", 2)
				r.AgentID = lo.ToPtr(inactive.ID)
				return r
			},
			check: ierr.IsPermissionDenied,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.CreateBooking(s.GetContext(), tt.req())
			s.Require().Error(err)
			s.True(tt.check(err), "unexpected error %v", err)
		})
	}

	list, err := s.service.ListBookings(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Zero(list.Total)
}

func (s *BookingServiceSuite) TestListBookingsByAgent() {
	agent := newTestAgent(&s.BaseServiceTestSuite, "agent_1", "10", false)
	for i := 0; i < 3; i++ {
		req := s.bookingRequest("itm_trf", 2)
		req.Category = types.TierCategoryPrivate
		if i > 0 {
			req.AgentID = lo.ToPtr(agent.ID)
		}
		_, err := s.service.CreateBooking(s.GetContext(), req)
		s.Require().NoError(err)
	}

	filter := types.NewBookingFilter()
	filter.AgentID = agent.ID
	list, err := s.service.ListBookings(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Equal(2, list.Total)
}

func (s *BookingServiceSuite) TestGetBookingIsScopedToAgent() {
	agent := newTestAgent(&s.BaseServiceTestSuite, "agent_1", "10", false)
	req := s.bookingRequest("itm_hotel", 2)
	req.AgentID = lo.ToPtr(agent.ID)
	agentBooking, err := s.service.CreateBooking(s.GetContext(), req)
	s.Require().NoError(err)
	direct, err := s.service.CreateBooking(s.GetContext(), s.bookingRequest("itm_hotel", 2))
	s.Require().NoError(err)

	own := types.SetAgentID(s.GetContext(), agent.ID)
	other := types.SetAgentID(s.GetContext(), "agent_2")

	stored, err := s.service.GetBooking(own, agentBooking.ID)
	s.Require().NoError(err)
	s.Equal(agentBooking.ReferenceNumber, stored.ReferenceNumber)

	_, err = s.service.GetBooking(other, agentBooking.ID)
	s.True(ierr.IsNotFound(err), "%v", err)

	_, err = s.service.GetBooking(own, direct.ID)
	s.True(ierr.IsNotFound(err), "direct bookings are staff only: %v", err)

	_, err = s.service.GetBooking(s.GetContext(), direct.ID)
	s.NoError(err)
}

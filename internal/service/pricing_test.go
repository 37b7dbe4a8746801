package service

import (
	"testing"

	"github.com/funnytourism/tourprice/internal/api/dto"
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/testutil"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type PricingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PricingService
}

func TestPricingService(t *testing.T) {
	suite.Run(t, new(PricingServiceSuite))
}

func (s *PricingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPricingService(newServiceParams(&s.BaseServiceTestSuite))
}

func (s *PricingServiceSuite) TestGetFromPrice() {
	hotel := newTestItem(&s.BaseServiceTestSuite, "itm_hotel", "PKG-CAP-01", types.ItemCategoryWithHotel, hotelPricing)
	onRequest := newTestItem(&s.BaseServiceTestSuite, "itm_req", "TRF-IST-01", types.ItemCategoryTransfer, `{"onRequestOnly":true,"price1to2Pax":45}`)
	broken := newTestItem(&s.BaseServiceTestSuite, "itm_broken", "DT-EPH-01", types.ItemCategoryDailyTour, `{"sicPrice":`)

	resp, err := s.service.GetFromPrice(s.GetContext(), hotel.ID)
	s.Require().NoError(err)
	s.True(resp.Available)
	s.Equal("355", resp.Amount.String())
	s.Equal("From €355", resp.Display)
	s.Equal(types.PriceBasisPerPerson, resp.Basis)

	transfer := newTestItem(&s.BaseServiceTestSuite, "itm_trf", "TRF-SAW-01", types.ItemCategoryTransfer, transferPricing)
	resp, err = s.service.GetFromPrice(s.GetContext(), transfer.ID)
	s.Require().NoError(err)
	s.Equal("From €45", resp.Display)
	s.Equal(types.PriceBasisPerVehicle, resp.Basis)

	for _, id := range []string{onRequest.ID, broken.ID} {
		resp, err = s.service.GetFromPrice(s.GetContext(), id)
		s.Require().NoError(err)
		s.False(resp.Available)
		s.Nil(resp.Amount)
		s.Empty(resp.Basis)
		s.Equal(types.ContactForPricing, resp.Display)
	}

	_, err = s.service.GetFromPrice(s.GetContext(), "itm_missing")
	s.True(ierr.IsNotFound(err))
}

func (s *PricingServiceSuite) TestListFromPricesKeepsOrder() {
	codes := []string{"A-01", "B-02", "C-03", "D-04", "E-05", "F-06", "G-07"}
	for i, code := range codes {
		pricing := lo.Ternary(i%2 == 0, transferPricing, "")
		newTestItem(&s.BaseServiceTestSuite, "itm_"+code, code, types.ItemCategoryTransfer, pricing)
	}

	resp, err := s.service.ListFromPrices(s.GetContext(), types.NewItemFilter())
	s.Require().NoError(err)
	s.Equal(len(codes), resp.Total)
	s.Equal(codes, lo.Map(resp.Items, func(p *dto.FromPriceResponse, _ int) string { return p.Code }))

	for i, p := range resp.Items {
		if i%2 == 0 {
			s.Equal("From €45", p.Display)
		} else {
			s.Equal(types.ContactForPricing, p.Display)
		}
	}
}

func (s *PricingServiceSuite) TestQuote() {
	hotel := newTestItem(&s.BaseServiceTestSuite, "itm_hotel", "PKG-CAP-01", types.ItemCategoryWithHotel, hotelPricing)
	transfer := newTestItem(&s.BaseServiceTestSuite, "itm_trf", "TRF-IST-01", types.ItemCategoryTransfer, transferPricing)
	daily := newTestItem(&s.BaseServiceTestSuite, "itm_daily", "DT-EPH-01", types.ItemCategoryDailyTour, dailyPricing)

	tests := []struct {
		name        string
		itemID      string
		req         *dto.QuoteRequest
		total       string
		display     string
		approximate bool
		check       func(error) bool
	}{
		{name: "hotel_default_category", itemID: hotel.ID, req: &dto.QuoteRequest{PartySize: 2}, total: "830", display: "€830"},
		{name: "hotel_larger_bracket", itemID: hotel.ID, req: &dto.QuoteRequest{Category: "fourstar", PartySize: 7}, total: "3220", display: "€3220"},
		{name: "hotel_below_lowest_floor", itemID: hotel.ID, req: &dto.QuoteRequest{PartySize: 1}, total: "415", approximate: true},
		{name: "hotel_single_room_supplement", itemID: hotel.ID, req: &dto.QuoteRequest{Rooms: []int{2, 1}}, total: "1452.5", display: "€1452.50"},
		{name: "transfer_per_vehicle", itemID: transfer.ID, req: &dto.QuoteRequest{Category: "private", PartySize: 4}, total: "60"},
		{name: "transfer_too_large", itemID: transfer.ID, req: &dto.QuoteRequest{Category: "private", PartySize: 11}, check: ierr.IsNoPriceAvailable},
		{name: "daily_private_open_ended", itemID: daily.ID, req: &dto.QuoteRequest{Category: "private", PartySize: 9}, total: "855"},
		{name: "daily_sic", itemID: daily.ID, req: &dto.QuoteRequest{PartySize: 3}, total: "165"},
		{name: "unknown_category", itemID: daily.ID, req: &dto.QuoteRequest{Category: "fivestar", PartySize: 3}, check: ierr.IsNoPriceAvailable},
		{name: "missing_party", itemID: hotel.ID, req: &dto.QuoteRequest{}, check: ierr.IsInvalidPartySize},
		{name: "negative_party", itemID: hotel.ID, req: &dto.QuoteRequest{PartySize: -2}, check: ierr.IsValidation},
		{name: "bad_channel", itemID: hotel.ID, req: &dto.QuoteRequest{PartySize: 2, Channel: "wholesale"}, check: ierr.IsValidation},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp, err := s.service.Quote(s.GetContext(), tt.itemID, tt.req)
			if tt.check != nil {
				s.Require().Error(err)
				s.True(tt.check(err), "unexpected error %v", err)
				return
			}
			s.Require().NoError(err)
			s.Equal(tt.total, resp.Total.String())
			s.Equal(tt.approximate, resp.Approximate)
			if tt.display != "" {
				s.Equal(tt.display, resp.Display)
			}
		})
	}
}

func (s *PricingServiceSuite) TestQuoteInactiveItem() {
	i := newTestItem(&s.BaseServiceTestSuite, "itm_old", "PKG-OLD-01", types.ItemCategoryWithHotel, hotelPricing)
	i.IsActive = false
	s.Require().NoError(s.GetStores().ItemRepo.Update(s.GetContext(), i.ID, i))

	_, err := s.service.Quote(s.GetContext(), i.ID, &dto.QuoteRequest{PartySize: 2})
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PricingServiceSuite) TestAgentChannelUsesB2BDocument() {
	i := newTestItem(&s.BaseServiceTestSuite, "itm_hotel", "PKG-CAP-01", types.ItemCategoryWithHotel, hotelPricing)
	i.B2BPricing = hotelB2BPricing
	s.Require().NoError(s.GetStores().ItemRepo.Update(s.GetContext(), i.ID, i))

	public, err := s.service.Quote(s.GetContext(), i.ID, &dto.QuoteRequest{PartySize: 2})
	s.Require().NoError(err)
	s.Equal("830", public.Total.String())

	agent, err := s.service.Quote(s.GetContext(), i.ID, &dto.QuoteRequest{PartySize: 2, Channel: types.PricingChannelAgent})
	s.Require().NoError(err)
	s.Equal("760", agent.Total.String())

	// the B2B document has no fourstar tiers but it is still used as a whole
	_, err = s.service.Quote(s.GetContext(), i.ID, &dto.QuoteRequest{Category: "fourstar", PartySize: 2, Channel: types.PricingChannelAgent})
	s.True(ierr.IsNoPriceAvailable(err))
}

func (s *PricingServiceSuite) TestAgentChannelFallsBackToPublicPricing() {
	i := newTestItem(&s.BaseServiceTestSuite, "itm_hotel", "PKG-CAP-01", types.ItemCategoryWithHotel, hotelPricing)
	i.B2BPricing = `{"paxTiers":{}}`
	s.Require().NoError(s.GetStores().ItemRepo.Update(s.GetContext(), i.ID, i))

	resp, err := s.service.GetTierTable(s.GetContext(), i.ID, types.PricingChannelAgent)
	s.Require().NoError(err)
	s.False(resp.Empty)
	s.Len(resp.Tiers, 4)
}

func (s *PricingServiceSuite) TestTierTableCachedPerItemVersion() {
	i := newTestItem(&s.BaseServiceTestSuite, "itm_trf", "TRF-IST-01", types.ItemCategoryTransfer, transferPricing)

	first, err := s.service.GetTierTable(s.GetContext(), i.ID, types.PricingChannelPublic)
	s.Require().NoError(err)
	s.Len(first.Tiers, 3)

	// same version: served from cache even though the stored document changed
	i.Pricing = `{"price1to2Pax":50}`
	s.Require().NoError(s.GetStores().ItemRepo.Update(s.GetContext(), i.ID, i))
	cached, err := s.service.GetTierTable(s.GetContext(), i.ID, types.PricingChannelPublic)
	s.Require().NoError(err)
	s.Len(cached.Tiers, 3)

	i.UpdatedAt = i.UpdatedAt.Add(1)
	s.Require().NoError(s.GetStores().ItemRepo.Update(s.GetContext(), i.ID, i))
	fresh, err := s.service.GetTierTable(s.GetContext(), i.ID, types.PricingChannelPublic)
	s.Require().NoError(err)
	s.Len(fresh.Tiers, 1)
	s.Equal("50", fresh.Tiers[0].UnitAmount.String())
}

func (s *PricingServiceSuite) TestGetTierTableEmptyDocument() {
	i := newTestItem(&s.BaseServiceTestSuite, "itm_empty", "DT-EMP-01", types.ItemCategoryDailyTour, "")

	resp, err := s.service.GetTierTable(s.GetContext(), i.ID, types.PricingChannelPublic)
	s.Require().NoError(err)
	s.True(resp.Empty)
	s.Empty(resp.Tiers)
}

package service

import (
	"github.com/funnytourism/tourprice/internal/domain/agent"
	"github.com/funnytourism/tourprice/internal/domain/item"
	"github.com/funnytourism/tourprice/internal/testutil"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/shopspring/decimal"
)

const (
	hotelPricing    = `{"paxTiers":{"2":{"threestar":{"double":415},"fourstar":{"double":520}},"6":{"threestar":{"double":355},"fourstar":{"double":460}}}}`
	hotelB2BPricing = `{"paxTiers":{"2":{"threestar":{"double":380}},"6":{"threestar":{"double":320}}}}`
	transferPricing = `{"price1to2Pax":45,"price3to5Pax":60,"price6to10Pax":90}`
	dailyPricing    = `{"sicPrice":55,"privateMin2":140,"privateMin6":95}`
)

// newServiceParams wires the in-memory stores of the suite into ServiceParams
func newServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:         s.GetLogger(),
		Config:         s.GetConfig(),
		DB:             s.GetDB(),
		Cache:          s.GetCache(),
		ItemRepo:       stores.ItemRepo,
		AgentRepo:      stores.AgentRepo,
		BookingRepo:    stores.BookingRepo,
		LedgerRepo:     stores.LedgerRepo,
		EventPublisher: s.GetPublisher(),
	}
}

func newTestItem(s *testutil.BaseServiceTestSuite, id, code string, category types.ItemCategory, pricing string) *item.Item {
	i := &item.Item{
		ID:        id,
		Code:      code,
		Title:     code,
		Category:  category,
		Pricing:   pricing,
		Currency:  types.DefaultCurrency,
		IsActive:  true,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(s.GetStores().ItemRepo.Create(s.GetContext(), i))
	return i
}

func newTestAgent(s *testutil.BaseServiceTestSuite, id string, rate string, netRate bool) *agent.Agent {
	a := &agent.Agent{
		ID:             id,
		CompanyName:    "Anatolia Travel " + id,
		Email:          id + "@agency.test",
		CommissionRate: decimal.RequireFromString(rate),
		NetRate:        netRate,
		IsActive:       true,
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(s.GetStores().AgentRepo.Create(s.GetContext(), a))
	return a
}

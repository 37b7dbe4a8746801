package service

import (
	"context"
	"testing"

	"github.com/funnytourism/tourprice/internal/api/dto"
	"github.com/funnytourism/tourprice/internal/domain/booking"
	"github.com/funnytourism/tourprice/internal/domain/commission"
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/publisher"
	"github.com/funnytourism/tourprice/internal/testutil"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CommissionServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CommissionService
}

func TestCommissionService(t *testing.T) {
	suite.Run(t, new(CommissionServiceSuite))
}

func (s *CommissionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewCommissionService(newServiceParams(&s.BaseServiceTestSuite))
}

// seedBooking stores a package booking made by agentID, or a direct one when
// agentID is empty
func (s *CommissionServiceSuite) seedBooking(id, agentID string) *booking.Booking {
	b := &booking.Booking{
		ID:              id,
		ReferenceNumber: "FT-" + id,
		ItemID:          "itm_hotel",
		BookingType:     types.BookingTypePackage,
		ItemCategory:    types.ItemCategoryWithHotel,
		Category:        types.TierCategoryThreeStar,
		PartySize:       2,
		GuestName:       "Ayşe Yılmaz",
		GuestEmail:      "ayse@example.com",
		TotalPrice:      decimal.NewFromInt(1000),
		Currency:        types.DefaultCurrency,
		BaseModel:       types.GetDefaultBaseModel(s.GetContext()),
	}
	if agentID != "" {
		b.AgentID = &agentID
	}
	s.Require().NoError(s.GetStores().BookingRepo.Create(s.GetContext(), b))
	return b
}

func (s *CommissionServiceSuite) createLedger(bookingID, gross, rate string) *dto.LedgerResponse {
	s.seedBooking(bookingID, "agent_1")
	resp, err := s.service.CreateLedger(s.GetContext(), &dto.CreateLedgerRequest{
		BookingID:      bookingID,
		BookingType:    types.BookingTypePackage,
		AgentID:        "agent_1",
		GrossPrice:     decimal.RequireFromString(gross),
		CommissionRate: decimal.RequireFromString(rate),
	})
	s.Require().NoError(err)
	return resp
}

func payment(amount string) *dto.RecordPaymentRequest {
	return &dto.RecordPaymentRequest{
		Amount:         decimal.RequireFromString(amount),
		PaymentMethod:  types.PaymentMethodBankTransfer,
		TransactionRef: "WIRE-" + amount,
	}
}

func (s *CommissionServiceSuite) TestCreateLedger() {
	resp := s.createLedger("bkg_1", "1000", "0.10")

	s.Equal("100", resp.CommissionAmount.String())
	s.Equal("100", resp.AmountDue.String())
	s.True(resp.PaidAmount.IsZero())
	s.Equal(1, resp.Version)
	s.NotNil(resp.Payments)
	s.Empty(resp.Payments)

	events := s.GetPublisher().Events(publisher.EventLedgerCreated)
	s.Require().Len(events, 1)
	s.Equal(resp.ID, events[0].LedgerID)

	_, err := s.service.CreateLedger(s.GetContext(), &dto.CreateLedgerRequest{
		BookingID:      "bkg_1",
		BookingType:    types.BookingTypePackage,
		AgentID:        "agent_1",
		GrossPrice:     decimal.NewFromInt(1000),
		CommissionRate: decimal.NewFromInt(10),
	})
	s.True(ierr.IsAlreadyExists(err), "one ledger per booking")

	_, err = s.service.CreateLedger(s.GetContext(), &dto.CreateLedgerRequest{BookingType: types.BookingTypePackage})
	s.True(ierr.IsValidation(err))
}

func (s *CommissionServiceSuite) TestCreateLedgerRequiresAgentBooking() {
	s.seedBooking("bkg_agent", "agent_1")
	s.seedBooking("bkg_direct", "")

	request := func(bookingID, agentID string, bookingType types.BookingType) *dto.CreateLedgerRequest {
		return &dto.CreateLedgerRequest{
			BookingID:      bookingID,
			BookingType:    bookingType,
			AgentID:        agentID,
			GrossPrice:     decimal.NewFromInt(1000),
			CommissionRate: decimal.NewFromInt(10),
		}
	}

	_, err := s.service.CreateLedger(s.GetContext(), request("bkg_missing", "agent_1", types.BookingTypePackage))
	s.True(ierr.IsNotFound(err), "unknown booking: %v", err)

	_, err = s.service.CreateLedger(s.GetContext(), request("bkg_agent", "agent_2", types.BookingTypePackage))
	s.True(ierr.IsValidation(err), "booking of another agent: %v", err)

	_, err = s.service.CreateLedger(s.GetContext(), request("bkg_direct", "agent_1", types.BookingTypePackage))
	s.True(ierr.IsValidation(err), "direct booking: %v", err)

	_, err = s.service.CreateLedger(s.GetContext(), request("bkg_agent", "agent_1", types.BookingTypeTransfer))
	s.True(ierr.IsValidation(err), "booking type mismatch: %v", err)

	agentCtx := types.SetAgentID(s.GetContext(), "agent_1")
	_, err = s.service.CreateLedger(agentCtx, request("bkg_agent", "agent_1", types.BookingTypePackage))
	s.True(ierr.IsPermissionDenied(err), "agents cannot open ledgers: %v", err)

	s.Empty(s.GetPublisher().Events(publisher.EventLedgerCreated))

	resp, err := s.service.CreateLedger(s.GetContext(), request("bkg_agent", "agent_1", types.BookingTypePackage))
	s.Require().NoError(err)
	s.Equal("100", resp.AmountDue.String())
}

func (s *CommissionServiceSuite) TestCreateLedgerRejectsUnboundedAmounts() {
	s.seedBooking("bkg_1", "agent_1")

	for _, req := range []*dto.CreateLedgerRequest{
		{GrossPrice: decimal.RequireFromString("1e300000000"), CommissionRate: decimal.NewFromInt(10)},
		{GrossPrice: decimal.NewFromInt(1000), CommissionRate: decimal.RequireFromString("1e-300000000")},
	} {
		req.BookingID = "bkg_1"
		req.BookingType = types.BookingTypePackage
		req.AgentID = "agent_1"

		_, err := s.service.CreateLedger(s.GetContext(), req)
		s.True(ierr.IsInvalidAmount(err), "%v", err)
		s.True(ierr.IsValidation(err))
	}
}

func (s *CommissionServiceSuite) TestLedgersAreScopedToAgent() {
	ledger := s.createLedger("bkg_1", "1000", "0.10")
	_, err := s.service.RecordPayment(s.GetContext(), ledger.ID, payment("10"))
	s.Require().NoError(err)

	own := types.SetAgentID(s.GetContext(), "agent_1")
	other := types.SetAgentID(s.GetContext(), "agent_2")

	_, err = s.service.GetLedger(own, ledger.ID)
	s.NoError(err)
	_, err = s.service.GetLedgerByBooking(own, "bkg_1")
	s.NoError(err)
	payments, err := s.service.ListPayments(own, ledger.ID)
	s.Require().NoError(err)
	s.Len(payments, 1)

	_, err = s.service.GetLedger(other, ledger.ID)
	s.True(ierr.IsLedgerNotFound(err), "%v", err)
	s.True(ierr.IsNotFound(err))

	_, err = s.service.GetLedgerByBooking(other, "bkg_1")
	s.True(ierr.IsNotFound(err), "%v", err)

	_, err = s.service.ListPayments(other, ledger.ID)
	s.True(ierr.IsNotFound(err), "%v", err)

	_, err = s.service.RecordPayment(own, ledger.ID, payment("10"))
	s.True(ierr.IsPermissionDenied(err), "%v", err)
	s.Equal(1, s.GetStores().LedgerRepo.AppendCalls)
}

func (s *CommissionServiceSuite) TestPaymentScenario() {
	ledger := s.createLedger("bkg_1", "1000", "0.10")

	first, err := s.service.RecordPayment(s.GetContext(), ledger.ID, payment("60"))
	s.Require().NoError(err)
	s.Equal("60", first.Ledger.PaidAmount.String())
	s.Equal("40", first.Ledger.RemainingAmount.String())
	s.False(first.Ledger.IsFullyPaid)
	s.Equal(testutil.DefaultUserID, first.Payment.RecordedBy)
	s.Equal(2, first.Ledger.Version)

	second, err := s.service.RecordPayment(s.GetContext(), ledger.ID, payment("40"))
	s.Require().NoError(err)
	s.True(second.Ledger.RemainingAmount.IsZero())
	s.True(second.Ledger.IsFullyPaid)
	s.NotNil(second.Ledger.FullyPaidAt)

	_, err = s.service.RecordPayment(s.GetContext(), ledger.ID, payment("1"))
	s.Require().Error(err)
	s.True(ierr.IsExceedsRemaining(err))

	stored, err := s.service.GetLedger(s.GetContext(), ledger.ID)
	s.Require().NoError(err)
	s.Len(stored.Payments, 2)
	s.Equal(3, stored.Version)
	s.NoError(stored.CheckInvariants())

	payments, err := s.service.ListPayments(s.GetContext(), ledger.ID)
	s.Require().NoError(err)
	s.Len(payments, 2)
	s.Equal("60", payments[0].Amount.String())

	s.Len(s.GetPublisher().Events(publisher.EventPaymentRecorded), 2)
}

func (s *CommissionServiceSuite) TestRecordPaymentRejectsBadAmounts() {
	ledger := s.createLedger("bkg_1", "1000", "0.10")

	for _, amount := range []string{"0", "-10", "0.001", "1e300000000", "-1e300000000"} {
		_, err := s.service.RecordPayment(s.GetContext(), ledger.ID, payment(amount))
		s.True(ierr.IsInvalidAmount(err), "amount %s: %v", amount, err)
	}
	s.Equal(0, s.GetStores().LedgerRepo.AppendCalls)

	_, err := s.service.RecordPayment(s.GetContext(), "led_missing", payment("10"))
	s.True(ierr.IsLedgerNotFound(err))
	s.True(ierr.IsNotFound(err))
}

func (s *CommissionServiceSuite) TestRecordPaymentRetriesOnce() {
	ledger := s.createLedger("bkg_1", "1000", "0.10")
	s.GetStores().LedgerRepo.InjectConflicts(1)

	resp, err := s.service.RecordPayment(s.GetContext(), ledger.ID, payment("25"))
	s.Require().NoError(err)
	s.Equal(2, s.GetStores().LedgerRepo.AppendCalls)
	s.Equal("25", resp.Ledger.PaidAmount.String())
	s.Equal("75", resp.Ledger.RemainingAmount.String())

	stored, err := s.service.GetLedger(s.GetContext(), ledger.ID)
	s.Require().NoError(err)
	s.Len(stored.Payments, 1)
}

func (s *CommissionServiceSuite) TestRecordPaymentConcurrentModification() {
	ledger := s.createLedger("bkg_1", "1000", "0.10")
	s.GetStores().LedgerRepo.InjectConflicts(2)

	_, err := s.service.RecordPayment(s.GetContext(), ledger.ID, payment("25"))
	s.Require().Error(err)
	s.True(ierr.IsConcurrentModification(err))
	s.True(ierr.IsVersionConflict(err))
	s.Equal(2, s.GetStores().LedgerRepo.AppendCalls)

	stored, err := s.service.GetLedger(s.GetContext(), ledger.ID)
	s.Require().NoError(err)
	s.Empty(stored.Payments)
	s.True(stored.PaidAmount.IsZero())
	s.Empty(s.GetPublisher().Events(publisher.EventPaymentRecorded))
}

func (s *CommissionServiceSuite) TestRecordPaymentRevalidatesAfterConflict() {
	ledger := s.createLedger("bkg_1", "1000", "0.10")
	store := s.GetStores().LedgerRepo

	// another clerk settles 80 between our read and our write
	raced := false
	store.OnAppend = func(ctx context.Context, ledgerID string) {
		if raced {
			return
		}
		raced = true

		current, err := store.Get(ctx, ledgerID)
		s.Require().NoError(err)
		expected := current.Version
		rec, err := current.NewPaymentRecord(commission.PaymentParams{
			Amount:     decimal.NewFromInt(80),
			RecordedBy: "usr_other",
		}, s.GetNow())
		s.Require().NoError(err)
		s.Require().NoError(current.ApplyPayment(rec))
		s.Require().NoError(store.AppendPayment(ctx, current, rec, expected))
	}

	_, err := s.service.RecordPayment(s.GetContext(), ledger.ID, payment("30"))
	s.Require().Error(err)
	s.True(ierr.IsExceedsRemaining(err), "retry must validate against fresh totals: %v", err)

	stored, err := s.service.GetLedger(s.GetContext(), ledger.ID)
	s.Require().NoError(err)
	s.Equal("80", stored.PaidAmount.String())
	s.Len(stored.Payments, 1)
}

func (s *CommissionServiceSuite) TestPublishFailureDoesNotFailPayment() {
	ledger := s.createLedger("bkg_1", "1000", "0.10")
	s.GetPublisher().Fail = true

	resp, err := s.service.RecordPayment(s.GetContext(), ledger.ID, payment("10"))
	s.Require().NoError(err)
	s.Equal("10", resp.Payment.Amount.String())
	s.Equal(1, s.GetLogs().FilterMessage("failed to publish ledger event").Len())
}

func (s *CommissionServiceSuite) TestListLedgers() {
	s.createLedger("bkg_1", "1000", "0.10")
	settled := s.createLedger("bkg_2", "500", "10")
	_, err := s.service.RecordPayment(s.GetContext(), settled.ID, payment("50"))
	s.Require().NoError(err)

	all, err := s.service.ListLedgers(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Equal(2, all.Total)

	filter := types.NewLedgerFilter()
	filter.OutstandingOnly = true
	outstanding, err := s.service.ListLedgers(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Require().Equal(1, outstanding.Total)
	s.Equal("bkg_1", outstanding.Items[0].BookingID)

	byBooking, err := s.service.GetLedgerByBooking(s.GetContext(), "bkg_2")
	s.Require().NoError(err)
	s.True(byBooking.IsFullyPaid)
	s.Len(byBooking.Payments, 1)
}

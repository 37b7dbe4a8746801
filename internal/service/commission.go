package service

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/funnytourism/tourprice/internal/api/dto"
	"github.com/funnytourism/tourprice/internal/domain/commission"
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/publisher"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/samber/lo"
)

// maxPaymentRetries is how often a payment is retried with fresh ledger state
// after losing an optimistic concurrency race
const maxPaymentRetries = 1

// CommissionService manages agent commission ledgers and their payments
type CommissionService interface {
	CreateLedger(ctx context.Context, req *dto.CreateLedgerRequest) (*dto.LedgerResponse, error)
	GetLedger(ctx context.Context, id string) (*dto.LedgerResponse, error)
	GetLedgerByBooking(ctx context.Context, bookingID string) (*dto.LedgerResponse, error)
	ListLedgers(ctx context.Context, filter *types.LedgerFilter) (*dto.ListResponse[*dto.LedgerResponse], error)
	RecordPayment(ctx context.Context, ledgerID string, req *dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error)
	ListPayments(ctx context.Context, ledgerID string) ([]*commission.PaymentRecord, error)
}

type commissionService struct {
	ServiceParams
}

func NewCommissionService(params ServiceParams) CommissionService {
	return &commissionService{ServiceParams: params}
}

// CreateLedger opens the ledger of an existing agent booking. Only staff may
// open ledgers by hand.
func (s *commissionService) CreateLedger(ctx context.Context, req *dto.CreateLedgerRequest) (*dto.LedgerResponse, error) {
	if err := requireStaff(ctx, "open commission ledgers"); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b, err := s.BookingRepo.Get(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if lo.FromPtr(b.AgentID) != req.AgentID {
		return nil, ierr.NewErrorf("booking %s does not belong to agent %s", b.ID, req.AgentID).
			WithHint("The booking was not made by this agent").
			WithReportableDetails(map[string]any{
				"booking_id": b.ID,
				"agent_id":   req.AgentID,
			}).
			Mark(ierr.ErrValidation)
	}
	if b.BookingType != req.BookingType {
		return nil, ierr.NewErrorf("booking %s is a %s booking, not %s", b.ID, b.BookingType, req.BookingType).
			WithHint("Booking type does not match the booking").
			WithReportableDetails(map[string]any{
				"booking_id":   b.ID,
				"booking_type": b.BookingType,
			}).
			Mark(ierr.ErrValidation)
	}

	ledger, err := s.openLedger(ctx, req.ToParams())
	if err != nil {
		return nil, err
	}
	s.publish(ctx, publisher.NewLedgerCreatedEvent(ctx, ledger))
	return dto.NewLedgerResponse(ledger), nil
}

// openLedger builds and stores a ledger without publishing. Callers publish
// once their surrounding transaction has committed.
func (s *commissionService) openLedger(ctx context.Context, params commission.NewLedgerParams) (*commission.Ledger, error) {
	ledger, err := commission.NewLedger(ctx, params)
	if err != nil {
		return nil, err
	}
	if err := s.LedgerRepo.Create(ctx, ledger); err != nil {
		return nil, err
	}

	s.Logger.WithContext(ctx).Infow("opened commission ledger",
		"ledger_id", ledger.ID,
		"booking_id", ledger.BookingID,
		"agent_id", ledger.AgentID,
		"kind", ledger.Kind,
		"amount_due", ledger.AmountDue.String(),
	)
	return ledger, nil
}

func (s *commissionService) GetLedger(ctx context.Context, id string) (*dto.LedgerResponse, error) {
	ledger, err := s.getVisibleLedger(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewLedgerResponse(ledger), nil
}

func (s *commissionService) GetLedgerByBooking(ctx context.Context, bookingID string) (*dto.LedgerResponse, error) {
	ledger, err := s.LedgerRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !visibleToCaller(ctx, ledger.AgentID) {
		return nil, ledgerNotFound("ledger for booking " + bookingID)
	}
	return dto.NewLedgerResponse(ledger), nil
}

// getVisibleLedger loads a ledger, reporting ledgers of other agencies as
// not found to agent callers
func (s *commissionService) getVisibleLedger(ctx context.Context, id string) (*commission.Ledger, error) {
	ledger, err := s.LedgerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibleToCaller(ctx, ledger.AgentID) {
		return nil, ledgerNotFound("ledger " + id)
	}
	return ledger, nil
}

func ledgerNotFound(what string) error {
	return ierr.NewErrorf("%s not found", what).
		WithHint("The requested ledger was not found").
		Mark(ierr.ErrLedgerNotFound, ierr.ErrNotFound)
}

// requireStaff rejects callers acting for an agency
func requireStaff(ctx context.Context, action string) error {
	if types.GetAgentID(ctx) == "" {
		return nil
	}
	return ierr.NewErrorf("agents cannot %s", action).
		WithHint("Only staff can " + action).
		Mark(ierr.ErrPermissionDenied)
}

func (s *commissionService) ListLedgers(ctx context.Context, filter *types.LedgerFilter) (*dto.ListResponse[*dto.LedgerResponse], error) {
	if filter == nil {
		filter = types.NewLedgerFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	ledgers, err := s.LedgerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewListResponse(lo.Map(ledgers, func(l *commission.Ledger, _ int) *dto.LedgerResponse {
		return dto.NewLedgerResponse(l)
	})), nil
}

func (s *commissionService) ListPayments(ctx context.Context, ledgerID string) ([]*commission.PaymentRecord, error) {
	// surfaces ErrLedgerNotFound for unknown ledgers instead of an empty history
	if _, err := s.getVisibleLedger(ctx, ledgerID); err != nil {
		return nil, err
	}
	return s.LedgerRepo.ListPayments(ctx, ledgerID)
}

// RecordPayment appends a payment using a compare-and-swap on the ledger
// version. A lost race is retried once against fresh state, then reported as
// a concurrent modification.
func (s *commissionService) RecordPayment(ctx context.Context, ledgerID string, req *dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error) {
	if err := requireStaff(ctx, "record ledger payments"); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	log := s.Logger.WithContext(ctx)
	recordedAt := time.Now().UTC()
	params := req.ToParams(types.GetUserID(ctx))

	var (
		ledger  *commission.Ledger
		record  *commission.PaymentRecord
		attempt int
	)
	operation := func() error {
		attempt++
		current, err := s.LedgerRepo.Get(ctx, ledgerID)
		if err != nil {
			return backoff.Permanent(err)
		}

		expectedVersion := current.Version
		rec, err := current.NewPaymentRecord(params, recordedAt)
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := current.ApplyPayment(rec); err != nil {
			return backoff.Permanent(err)
		}

		if err := s.LedgerRepo.AppendPayment(ctx, current, rec, expectedVersion); err != nil {
			if ierr.IsVersionConflict(err) {
				log.Warnw("ledger changed while recording payment",
					"ledger_id", ledgerID,
					"expected_version", expectedVersion,
					"attempt", attempt,
				)
				s.Sentry.AddBreadcrumb("ledger", "version conflict on payment", map[string]interface{}{
					"ledger_id":        ledgerID,
					"expected_version": expectedVersion,
				})
				return err
			}
			return backoff.Permanent(err)
		}

		ledger, record = current, rec
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, maxPaymentRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if ierr.IsVersionConflict(err) {
			return nil, ierr.WithError(err).
				WithHint("The ledger was updated by someone else, please reload and try again").
				WithReportableDetails(map[string]any{
					"ledger_id": ledgerID,
					"attempts":  attempt,
				}).
				Mark(ierr.ErrConcurrentModification, ierr.ErrVersionConflict)
		}
		return nil, err
	}

	log.Infow("recorded ledger payment",
		"ledger_id", ledger.ID,
		"payment_id", record.ID,
		"amount", record.Amount.String(),
		"remaining_amount", ledger.RemainingAmount.String(),
		"is_fully_paid", ledger.IsFullyPaid,
	)
	s.publish(ctx, publisher.NewPaymentRecordedEvent(ctx, ledger, record))

	return &dto.RecordPaymentResponse{
		Payment: record,
		Ledger:  dto.NewLedgerResponse(ledger),
	}, nil
}

// publish sends a ledger event. The ledger change is already committed, so a
// failure is logged and reported but never returned.
func (s *commissionService) publish(ctx context.Context, event *publisher.LedgerEvent) {
	if s.EventPublisher == nil {
		return
	}
	if err := s.EventPublisher.Publish(ctx, event); err != nil {
		s.Logger.WithContext(ctx).Errorw("failed to publish ledger event",
			"event_name", event.EventName,
			"ledger_id", event.LedgerID,
			"error", err,
		)
		s.Sentry.CaptureExceptionWithContext(ctx, err)
	}
}

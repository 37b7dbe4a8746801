package publisher

import (
	"context"
	"time"

	"github.com/funnytourism/tourprice/internal/domain/commission"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/shopspring/decimal"
)

const (
	EventLedgerCreated   = "commission.ledger.created"
	EventPaymentRecorded = "commission.payment.recorded"
)

// LedgerEvent is the payload published whenever a ledger changes
type LedgerEvent struct {
	ID              string                    `json:"id"`
	EventName       string                    `json:"event_name"`
	Timestamp       time.Time                 `json:"timestamp"`
	LedgerID        string                    `json:"ledger_id"`
	BookingID       string                    `json:"booking_id"`
	BookingType     types.BookingType         `json:"booking_type"`
	AgentID         string                    `json:"agent_id"`
	Kind            types.LedgerKind          `json:"kind"`
	Currency        string                    `json:"currency"`
	AmountDue       decimal.Decimal           `json:"amount_due"`
	PaidAmount      decimal.Decimal           `json:"paid_amount"`
	RemainingAmount decimal.Decimal           `json:"remaining_amount"`
	IsFullyPaid     bool                      `json:"is_fully_paid"`
	Version         int                       `json:"version"`
	Payment         *commission.PaymentRecord `json:"payment,omitempty"`
	RequestID       string                    `json:"request_id,omitempty"`
}

func newLedgerEvent(ctx context.Context, name string, ledger *commission.Ledger) *LedgerEvent {
	return &LedgerEvent{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_EVENT),
		EventName:       name,
		Timestamp:       time.Now().UTC(),
		LedgerID:        ledger.ID,
		BookingID:       ledger.BookingID,
		BookingType:     ledger.BookingType,
		AgentID:         ledger.AgentID,
		Kind:            ledger.Kind,
		Currency:        ledger.Currency,
		AmountDue:       ledger.AmountDue,
		PaidAmount:      ledger.PaidAmount,
		RemainingAmount: ledger.RemainingAmount,
		IsFullyPaid:     ledger.IsFullyPaid,
		Version:         ledger.Version,
		RequestID:       types.GetRequestID(ctx),
	}
}

// NewLedgerCreatedEvent describes a freshly opened ledger
func NewLedgerCreatedEvent(ctx context.Context, ledger *commission.Ledger) *LedgerEvent {
	return newLedgerEvent(ctx, EventLedgerCreated, ledger)
}

// NewPaymentRecordedEvent describes a ledger right after record was appended
func NewPaymentRecordedEvent(ctx context.Context, ledger *commission.Ledger, record *commission.PaymentRecord) *LedgerEvent {
	event := newLedgerEvent(ctx, EventPaymentRecorded, ledger)
	event.Payment = record
	return event
}

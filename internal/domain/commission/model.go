package commission

import (
	"time"

	"github.com/funnytourism/tourprice/internal/types"
	"github.com/shopspring/decimal"
)

// Ledger tracks what is owed on one agent booking and what has been paid
// against it. It is created with nothing paid and afterwards only changes by
// appending payment records.
type Ledger struct {
	ID          string            `db:"id" json:"id"`
	BookingID   string            `db:"booking_id" json:"booking_id"`
	BookingType types.BookingType `db:"booking_type" json:"booking_type"`
	AgentID     string            `db:"agent_id" json:"agent_id"`
	Kind        types.LedgerKind  `db:"kind" json:"kind"`
	Currency    string            `db:"currency" json:"currency"`
	// Gross price of the booking the commission is computed from
	GrossPrice decimal.Decimal `db:"gross_price" json:"gross_price" swaggertype:"string"`
	// Commission rate as a fraction between 0 and 1
	CommissionRate   decimal.Decimal `db:"commission_rate" json:"commission_rate" swaggertype:"string"`
	CommissionAmount decimal.Decimal `db:"commission_amount" json:"commission_amount" swaggertype:"string"`
	// Total to be settled: the commission for payable ledgers, the net price for receivable ones
	AmountDue       decimal.Decimal `db:"amount_due" json:"amount_due" swaggertype:"string"`
	PaidAmount      decimal.Decimal `db:"paid_amount" json:"paid_amount" swaggertype:"string"`
	RemainingAmount decimal.Decimal `db:"remaining_amount" json:"remaining_amount" swaggertype:"string"`
	IsFullyPaid     bool            `db:"is_fully_paid" json:"is_fully_paid"`
	FullyPaidAt     *time.Time      `db:"fully_paid_at" json:"fully_paid_at,omitempty"`
	// Incremented on every payment, used for optimistic concurrency
	Version  int              `db:"version" json:"version"`
	Payments []*PaymentRecord `db:"-" json:"payments"`

	types.BaseModel
}

// PaymentRecord is one append-only entry against a ledger.
// Corrections are recorded as new entries whose notes start with types.AdjustmentNotePrefix.
type PaymentRecord struct {
	ID             string              `db:"id" json:"id"`
	LedgerID       string              `db:"ledger_id" json:"ledger_id"`
	Amount         decimal.Decimal     `db:"amount" json:"amount" swaggertype:"string"`
	Currency       string              `db:"currency" json:"currency"`
	Method         types.PaymentMethod `db:"payment_method" json:"payment_method"`
	TransactionRef string              `db:"transaction_ref" json:"transaction_ref,omitempty"`
	Notes          string              `db:"notes" json:"notes,omitempty"`
	RecordedBy     string              `db:"recorded_by" json:"recorded_by"`
	RecordedAt     time.Time           `db:"recorded_at" json:"recorded_at"`
}

// NewLedgerParams are the inputs captured at booking time
type NewLedgerParams struct {
	BookingID   string
	BookingType types.BookingType
	AgentID     string
	Kind        types.LedgerKind
	Currency    string
	GrossPrice  decimal.Decimal
	// Rate as entered on the agent profile, either a fraction (0.1) or a percentage (10)
	Rate decimal.Decimal
}

// PaymentParams describe a payment to append to a ledger
type PaymentParams struct {
	Amount         decimal.Decimal
	Method         types.PaymentMethod
	TransactionRef string
	Notes          string
	RecordedBy     string
}

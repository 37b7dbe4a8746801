package dto

import (
	"github.com/funnytourism/tourprice/internal/domain/commission"
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/funnytourism/tourprice/internal/validator"
	"github.com/shopspring/decimal"
)

// CreateLedgerRequest opens the ledger of an agent booking
type CreateLedgerRequest struct {
	BookingID   string            `json:"booking_id" validate:"required"`
	BookingType types.BookingType `json:"booking_type" validate:"required"`
	AgentID     string            `json:"agent_id" validate:"required"`
	Kind        types.LedgerKind  `json:"kind,omitempty"`
	Currency    string            `json:"currency,omitempty"`
	GrossPrice  decimal.Decimal   `json:"gross_price" swaggertype:"string"`
	// Fraction (0.1) or percentage (10)
	CommissionRate decimal.Decimal `json:"commission_rate" swaggertype:"string"`
}

func (r *CreateLedgerRequest) Validate() error {
	if err := validateAmountRange("gross_price", r.GrossPrice); err != nil {
		return err
	}
	if err := validateAmountRange("commission_rate", r.CommissionRate); err != nil {
		return err
	}
	return validator.ValidateRequest(r)
}

func (r *CreateLedgerRequest) ToParams() commission.NewLedgerParams {
	return commission.NewLedgerParams{
		BookingID:   r.BookingID,
		BookingType: r.BookingType,
		AgentID:     r.AgentID,
		Kind:        r.Kind,
		Currency:    r.Currency,
		GrossPrice:  r.GrossPrice,
		Rate:        r.CommissionRate,
	}
}

// RecordPaymentRequest appends a payment to a ledger
type RecordPaymentRequest struct {
	Amount         decimal.Decimal     `json:"amount" swaggertype:"string"`
	PaymentMethod  types.PaymentMethod `json:"payment_method,omitempty"`
	TransactionRef string              `json:"transaction_ref,omitempty" validate:"omitempty,max=255"`
	Notes          string              `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

func (r *RecordPaymentRequest) Validate() error {
	if err := validateAmountRange("amount", r.Amount); err != nil {
		return err
	}
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.PaymentMethod != "" {
		return r.PaymentMethod.Validate()
	}
	return nil
}

func (r *RecordPaymentRequest) ToParams(recordedBy string) commission.PaymentParams {
	return commission.PaymentParams{
		Amount:         r.Amount,
		Method:         r.PaymentMethod,
		TransactionRef: r.TransactionRef,
		Notes:          r.Notes,
		RecordedBy:     recordedBy,
	}
}

// validateAmountRange rejects decimals too large in scale or magnitude to
// round or compare. The value is not echoed back.
func validateAmountRange(field string, d decimal.Decimal) error {
	if types.IsAmountInRange(d) {
		return nil
	}
	return ierr.NewErrorf("%s is out of range", field).
		WithHint("Amount is out of the supported range").
		WithReportableDetails(map[string]any{
			"field": field,
			"max":   types.MaxAmount.String(),
		}).
		Mark(ierr.ErrInvalidAmount, ierr.ErrValidation)
}

// LedgerResponse is a ledger with its payment history
type LedgerResponse struct {
	*commission.Ledger
}

func NewLedgerResponse(l *commission.Ledger) *LedgerResponse {
	if l.Payments == nil {
		l.Payments = []*commission.PaymentRecord{}
	}
	return &LedgerResponse{Ledger: l}
}

// RecordPaymentResponse is the appended record and the ledger after it
type RecordPaymentResponse struct {
	Payment *commission.PaymentRecord `json:"payment"`
	Ledger  *LedgerResponse           `json:"ledger"`
}

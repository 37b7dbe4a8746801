package commission

import (
	"context"
	"time"

	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

func (p NewLedgerParams) Validate() error {
	if p.BookingID == "" {
		return ierr.NewError("booking_id is required").
			WithHint("A ledger must belong to a booking").
			Mark(ierr.ErrValidation)
	}
	if p.AgentID == "" {
		return ierr.NewError("agent_id is required").
			WithHint("A ledger must belong to an agent").
			Mark(ierr.ErrValidation)
	}
	if err := p.BookingType.Validate(); err != nil {
		return err
	}
	if err := p.Kind.Validate(); err != nil {
		return err
	}
	if !types.IsAmountInRange(p.GrossPrice) {
		return ierr.NewError("gross price is out of range").
			WithHint("Booking price is out of the supported range").
			Mark(ierr.ErrInvalidAmount, ierr.ErrValidation)
	}
	if !p.GrossPrice.IsPositive() {
		return ierr.NewError("gross price must be positive").
			WithHint("Booking price must be greater than 0").
			WithReportableDetails(map[string]any{
				"gross_price": p.GrossPrice.String(),
			}).
			Mark(ierr.ErrInvalidAmount, ierr.ErrValidation)
	}
	return nil
}

// NewLedger builds the ledger of a booking with nothing paid yet
func NewLedger(ctx context.Context, params NewLedgerParams) (*Ledger, error) {
	if params.Kind == "" {
		params.Kind = types.LedgerKindCommissionPayable
	}
	if params.Currency == "" {
		params.Currency = types.DefaultCurrency
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rate, err := NormalizeRate(params.Rate)
	if err != nil {
		return nil, err
	}

	gross := types.RoundToCurrencyPrecision(params.GrossPrice, params.Currency)
	commission := types.RoundToCurrencyPrecision(gross.Mul(rate), params.Currency)
	due := commission
	if params.Kind == types.LedgerKindAgentReceivable {
		due = gross.Sub(commission)
	}

	ledger := &Ledger{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LEDGER),
		BookingID:        params.BookingID,
		BookingType:      params.BookingType,
		AgentID:          params.AgentID,
		Kind:             params.Kind,
		Currency:         params.Currency,
		GrossPrice:       gross,
		CommissionRate:   rate,
		CommissionAmount: commission,
		AmountDue:        due,
		PaidAmount:       decimal.Zero,
		RemainingAmount:  due,
		Version:          1,
		Payments:         []*PaymentRecord{},
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}

	// nothing to settle, e.g. a zero commission rate
	if !due.IsPositive() {
		ledger.IsFullyPaid = true
		ledger.FullyPaidAt = lo.ToPtr(ledger.CreatedAt)
	}
	return ledger, nil
}

// ValidatePayment checks an amount against the ledger without changing it and
// returns the amount rounded to the ledger currency. Over-payments are
// rejected, never clamped.
func (l *Ledger) ValidatePayment(amount decimal.Decimal) (decimal.Decimal, error) {
	if !types.IsAmountInRange(amount) {
		return decimal.Zero, ierr.NewError("payment amount is out of range").
			WithHint("Payment amount is out of the supported range").
			WithReportableDetails(map[string]any{
				"max": types.MaxAmount.String(),
			}).
			Mark(ierr.ErrInvalidAmount, ierr.ErrValidation)
	}
	rounded := types.RoundToCurrencyPrecision(amount, l.Currency)
	if !rounded.IsPositive() {
		return decimal.Zero, ierr.NewErrorf("payment amount %s must be positive", amount).
			WithHint("Payment amount must be greater than 0").
			WithReportableDetails(map[string]any{
				"amount": amount.String(),
			}).
			Mark(ierr.ErrInvalidAmount, ierr.ErrValidation)
	}
	if rounded.GreaterThan(l.RemainingAmount) {
		return decimal.Zero, ierr.NewErrorf("payment amount %s exceeds remaining %s", rounded, l.RemainingAmount).
			WithHint("Payment amount exceeds remaining balance").
			WithReportableDetails(map[string]any{
				"amount":           rounded.String(),
				"remaining_amount": l.RemainingAmount.String(),
				"paid_amount":      l.PaidAmount.String(),
			}).
			Mark(ierr.ErrExceedsRemaining, ierr.ErrValidation)
	}
	return rounded, nil
}

// NewPaymentRecord validates params against the ledger and builds the record
// to append. The ledger itself is not modified.
func (l *Ledger) NewPaymentRecord(params PaymentParams, at time.Time) (*PaymentRecord, error) {
	amount, err := l.ValidatePayment(params.Amount)
	if err != nil {
		return nil, err
	}
	if params.Method == "" {
		params.Method = types.PaymentMethodBankTransfer
	}
	if err := params.Method.Validate(); err != nil {
		return nil, err
	}

	return &PaymentRecord{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		LedgerID:       l.ID,
		Amount:         amount,
		Currency:       l.Currency,
		Method:         params.Method,
		TransactionRef: params.TransactionRef,
		Notes:          params.Notes,
		RecordedBy:     params.RecordedBy,
		RecordedAt:     at.UTC(),
	}, nil
}

// ApplyPayment appends a record and moves the running totals. The record
// amount is validated again so a stale record cannot overdraw the ledger.
func (l *Ledger) ApplyPayment(record *PaymentRecord) error {
	if record == nil {
		return ierr.NewError("payment record is nil").
			Mark(ierr.ErrValidation)
	}
	amount, err := l.ValidatePayment(record.Amount)
	if err != nil {
		return err
	}

	record.Amount = amount
	record.LedgerID = l.ID
	l.Payments = append(l.Payments, record)
	l.PaidAmount = l.PaidAmount.Add(amount)
	l.RemainingAmount = l.AmountDue.Sub(l.PaidAmount)
	l.Version++
	l.UpdatedAt = record.RecordedAt
	l.UpdatedBy = record.RecordedBy

	if !l.RemainingAmount.IsPositive() {
		l.IsFullyPaid = true
		l.FullyPaidAt = lo.ToPtr(record.RecordedAt)
	}
	return nil
}

// CheckInvariants verifies that the totals agree with the payment history
func (l *Ledger) CheckInvariants() error {
	paid := lo.Reduce(l.Payments, func(acc decimal.Decimal, p *PaymentRecord, _ int) decimal.Decimal {
		return acc.Add(p.Amount)
	}, decimal.Zero)

	switch {
	case !paid.Equal(l.PaidAmount):
		return ierr.NewErrorf("paid amount %s does not match payments %s", l.PaidAmount, paid).
			Mark(ierr.ErrSystem)
	case !l.RemainingAmount.Equal(l.AmountDue.Sub(l.PaidAmount)):
		return ierr.NewErrorf("remaining amount %s does not match due %s minus paid %s", l.RemainingAmount, l.AmountDue, l.PaidAmount).
			Mark(ierr.ErrSystem)
	case l.RemainingAmount.IsNegative():
		return ierr.NewErrorf("remaining amount %s is negative", l.RemainingAmount).
			Mark(ierr.ErrSystem)
	case l.IsFullyPaid != !l.RemainingAmount.IsPositive():
		return ierr.NewErrorf("fully paid flag %t does not match remaining %s", l.IsFullyPaid, l.RemainingAmount).
			Mark(ierr.ErrSystem)
	}
	return nil
}

package types

import (
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/samber/lo"
)

// LedgerKind tells which party owes the ledger's amount
type LedgerKind string

const (
	// LedgerKindCommissionPayable means the operator owes the agent the commission
	LedgerKindCommissionPayable LedgerKind = "commission_payable"
	// LedgerKindAgentReceivable means the agent collected from the guest and owes
	// the operator the gross price net of commission
	LedgerKindAgentReceivable LedgerKind = "agent_receivable"
)

func (k LedgerKind) String() string {
	return string(k)
}

func (k LedgerKind) Validate() error {
	allowed := []LedgerKind{
		LedgerKindCommissionPayable,
		LedgerKindAgentReceivable,
	}
	if !lo.Contains(allowed, k) {
		return ierr.NewError("invalid ledger kind").
			WithHint("Please provide a valid ledger kind").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentMethod is how a ledger payment was settled
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) Validate() error {
	allowed := []PaymentMethod{
		PaymentMethodBankTransfer,
		PaymentMethodCash,
		PaymentMethodCard,
		PaymentMethodOther,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid payment method").
			WithHint("Please provide a valid payment method").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// AdjustmentNotePrefix marks payment records that correct an earlier entry
const AdjustmentNotePrefix = "ADJUSTMENT:"

// LedgerFilter filters commission ledgers, e.g. the outstanding balances of one agent
type LedgerFilter struct {
	*QueryFilter
	AgentID         string      `json:"agent_id,omitempty" form:"agent_id"`
	Kind            *LedgerKind `json:"kind,omitempty" form:"kind"`
	OutstandingOnly bool        `json:"outstanding_only,omitempty" form:"outstanding_only"`
}

func NewLedgerFilter() *LedgerFilter {
	return &LedgerFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *LedgerFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.Kind != nil {
		return f.Kind.Validate()
	}
	return nil
}

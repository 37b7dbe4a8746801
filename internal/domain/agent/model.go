package agent

import (
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/shopspring/decimal"
)

// Agent is a partner travel agency that books on behalf of its clients
type Agent struct {
	ID          string `db:"id" json:"id"`
	CompanyName string `db:"company_name" json:"company_name"`
	Email       string `db:"email" json:"email"`
	// Commission rate as entered on the agent profile: a percentage (10) or a fraction (0.1)
	CommissionRate decimal.Decimal `db:"commission_rate" json:"commission_rate" swaggertype:"string"`
	// Net-rate agents collect from the guest and owe the operator the price net of commission
	NetRate  bool `db:"net_rate" json:"net_rate"`
	IsActive bool `db:"is_active" json:"is_active"`

	types.BaseModel
}

// LedgerKind returns the kind of ledger opened for the agent's bookings
func (a *Agent) LedgerKind() types.LedgerKind {
	if a.NetRate {
		return types.LedgerKindAgentReceivable
	}
	return types.LedgerKindCommissionPayable
}

package commission

import (
	"context"

	"github.com/funnytourism/tourprice/internal/types"
)

// Repository defines the interface for ledger persistence
type Repository interface {
	Create(ctx context.Context, ledger *Ledger) error
	// Get returns the ledger with its payment history.
	// Missing ledgers return an error marked ErrLedgerNotFound.
	Get(ctx context.Context, id string) (*Ledger, error)
	GetByBookingID(ctx context.Context, bookingID string) (*Ledger, error)
	List(ctx context.Context, filter *types.LedgerFilter) ([]*Ledger, error)
	ListPayments(ctx context.Context, ledgerID string) ([]*PaymentRecord, error)

	// AppendPayment stores record and the ledger totals atomically, provided
	// the stored version still equals expectedVersion. A stale version returns
	// an error marked ErrVersionConflict and nothing is written.
	AppendPayment(ctx context.Context, ledger *Ledger, record *PaymentRecord, expectedVersion int) error
}

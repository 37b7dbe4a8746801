package testutil

import (
	"context"
	"sync"

	"github.com/funnytourism/tourprice/internal/domain/commission"
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/samber/lo"
)

// InMemoryLedgerStore implements commission.Repository with the same
// compare-and-swap semantics as the postgres repository
type InMemoryLedgerStore struct {
	mu       sync.Mutex
	ledgers  map[string]*commission.Ledger
	payments map[string][]*commission.PaymentRecord

	// conflicts is the number of upcoming AppendPayment calls that lose
	// the race against a simulated concurrent writer
	conflicts int
	// OnAppend runs before every AppendPayment while no lock is held
	OnAppend func(ctx context.Context, ledgerID string)
	// AppendCalls counts AppendPayment invocations
	AppendCalls int
}

func NewInMemoryLedgerStore() *InMemoryLedgerStore {
	return &InMemoryLedgerStore{
		ledgers:  make(map[string]*commission.Ledger),
		payments: make(map[string][]*commission.PaymentRecord),
	}
}

// InjectConflicts makes the next n AppendPayment calls fail as if another
// writer had committed first
func (s *InMemoryLedgerStore) InjectConflicts(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conflicts = n
}

func copyLedger(l *commission.Ledger, payments []*commission.PaymentRecord) *commission.Ledger {
	c := *l
	c.Payments = lo.Map(payments, func(p *commission.PaymentRecord, _ int) *commission.PaymentRecord {
		pc := *p
		return &pc
	})
	return &c
}

func ledgerNotFound(id string) error {
	return ierr.NewErrorf("ledger %s not found", id).
		WithHint("The requested resource was not found").
		Mark(ierr.ErrLedgerNotFound, ierr.ErrNotFound)
}

func (s *InMemoryLedgerStore) Create(ctx context.Context, ledger *commission.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.ledgers {
		if existing.ID == ledger.ID || existing.BookingID == ledger.BookingID {
			return ierr.NewErrorf("ledger for booking %s already exists", ledger.BookingID).
				Mark(ierr.ErrAlreadyExists)
		}
	}
	s.ledgers[ledger.ID] = copyLedger(ledger, nil)
	s.payments[ledger.ID] = []*commission.PaymentRecord{}
	return nil
}

func (s *InMemoryLedgerStore) Get(ctx context.Context, id string) (*commission.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.ledgers[id]
	if !ok {
		return nil, ledgerNotFound(id)
	}
	return copyLedger(l, s.payments[id]), nil
}

func (s *InMemoryLedgerStore) GetByBookingID(ctx context.Context, bookingID string) (*commission.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.ledgers {
		if l.BookingID == bookingID {
			return copyLedger(l, s.payments[l.ID]), nil
		}
	}
	return nil, ledgerNotFound(bookingID)
}

func (s *InMemoryLedgerStore) List(ctx context.Context, filter *types.LedgerFilter) ([]*commission.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*commission.Ledger, 0)
	for _, l := range s.ledgers {
		if filter != nil {
			if filter.AgentID != "" && l.AgentID != filter.AgentID {
				continue
			}
			if filter.Kind != nil && l.Kind != *filter.Kind {
				continue
			}
			if filter.OutstandingOnly && l.IsFullyPaid {
				continue
			}
		}
		result = append(result, copyLedger(l, nil))
	}
	return result, nil
}

func (s *InMemoryLedgerStore) ListPayments(ctx context.Context, ledgerID string) ([]*commission.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyLedger(&commission.Ledger{}, s.payments[ledgerID]).Payments, nil
}

func (s *InMemoryLedgerStore) AppendPayment(ctx context.Context, ledger *commission.Ledger, record *commission.PaymentRecord, expectedVersion int) error {
	if s.OnAppend != nil {
		s.OnAppend(ctx, ledger.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.AppendCalls++

	stored, ok := s.ledgers[ledger.ID]
	if !ok {
		return ledgerNotFound(ledger.ID)
	}

	if s.conflicts > 0 {
		s.conflicts--
		stored.Version++
	}
	if stored.Version != expectedVersion {
		return ierr.NewErrorf("ledger %s is no longer at version %d", ledger.ID, expectedVersion).
			Mark(ierr.ErrVersionConflict)
	}

	updated := copyLedger(ledger, nil)
	updated.Version = expectedVersion + 1
	s.ledgers[ledger.ID] = updated
	pc := *record
	s.payments[ledger.ID] = append(s.payments[ledger.ID], &pc)
	return nil
}

// Clear removes all ledgers and payments
func (s *InMemoryLedgerStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledgers = make(map[string]*commission.Ledger)
	s.payments = make(map[string][]*commission.PaymentRecord)
	s.conflicts = 0
	s.OnAppend = nil
	s.AppendCalls = 0
}

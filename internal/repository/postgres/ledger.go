package postgres

import (
	"context"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/funnytourism/tourprice/internal/domain/commission"
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/funnytourism/tourprice/internal/postgres"
	"github.com/funnytourism/tourprice/internal/types"
)

type ledgerRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewLedgerRepository creates a new instance of commission ledger repository
func NewLedgerRepository(db *postgres.DB, logger *logger.Logger) commission.Repository {
	return &ledgerRepository{db: db, logger: logger}
}

func (r *ledgerRepository) Create(ctx context.Context, ledger *commission.Ledger) error {
	query := `
		INSERT INTO commission_ledgers (
			id, booking_id, booking_type, agent_id, kind, currency,
			gross_price, commission_rate, commission_amount, amount_due,
			paid_amount, remaining_amount, is_fully_paid, fully_paid_at, version,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :booking_id, :booking_type, :agent_id, :kind, :currency,
			:gross_price, :commission_rate, :commission_amount, :amount_due,
			:paid_amount, :remaining_amount, :is_fully_paid, :fully_paid_at, :version,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating commission ledger",
		"ledger_id", ledger.ID,
		"booking_id", ledger.BookingID,
		"agent_id", ledger.AgentID,
		"amount_due", ledger.AmountDue,
	)
	return insert(ctx, r.db, query, ledger, "commission ledger")
}

func (r *ledgerRepository) Get(ctx context.Context, id string) (*commission.Ledger, error) {
	return r.getBy(ctx, "id", id)
}

func (r *ledgerRepository) GetByBookingID(ctx context.Context, bookingID string) (*commission.Ledger, error) {
	return r.getBy(ctx, "booking_id", bookingID)
}

func (r *ledgerRepository) getBy(ctx context.Context, column, value string) (*commission.Ledger, error) {
	sel := selectFrom(postgres.TableCommissionLedgers)
	sel.Where(entsql.And(
		entsql.EQ(column, value),
		entsql.EQ("status", types.StatusPublished),
	))

	var ledger commission.Ledger
	if err := getOne(ctx, r.db, &ledger, sel, ierr.ErrLedgerNotFound); err != nil {
		return nil, err
	}

	payments, err := r.ListPayments(ctx, ledger.ID)
	if err != nil {
		return nil, err
	}
	ledger.Payments = payments
	return &ledger, nil
}

func (r *ledgerRepository) List(ctx context.Context, filter *types.LedgerFilter) ([]*commission.Ledger, error) {
	if filter == nil {
		filter = types.NewLedgerFilter()
	}

	sel := selectFrom(postgres.TableCommissionLedgers)
	if filter.AgentID != "" {
		sel.Where(entsql.EQ("agent_id", filter.AgentID))
	}
	if filter.Kind != nil {
		sel.Where(entsql.EQ("kind", filter.Kind.String()))
	}
	if filter.OutstandingOnly {
		sel.Where(entsql.EQ("is_fully_paid", false))
	}
	applyQueryFilter(sel, filter.QueryFilter, "remaining_amount", "amount_due")

	var ledgers []*commission.Ledger
	if err := selectMany(ctx, r.db, &ledgers, sel); err != nil {
		return nil, err
	}
	return ledgers, nil
}

func (r *ledgerRepository) ListPayments(ctx context.Context, ledgerID string) ([]*commission.PaymentRecord, error) {
	sel := selectFrom(postgres.TableCommissionPayments)
	sel.Where(entsql.EQ("ledger_id", ledgerID)).
		OrderBy(entsql.Asc("recorded_at"), entsql.Asc("id"))

	payments := make([]*commission.PaymentRecord, 0)
	if err := selectMany(ctx, r.db, &payments, sel); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *ledgerRepository) AppendPayment(ctx context.Context, ledger *commission.Ledger, record *commission.PaymentRecord, expectedVersion int) error {
	return r.db.WithTx(ctx, func(ctx context.Context) error {
		query, args := entsql.Dialect(dialect.Postgres).
			Update(postgres.TableCommissionLedgers).
			Set("paid_amount", ledger.PaidAmount).
			Set("remaining_amount", ledger.RemainingAmount).
			Set("is_fully_paid", ledger.IsFullyPaid).
			Set("fully_paid_at", ledger.FullyPaidAt).
			Set("updated_at", ledger.UpdatedAt).
			Set("updated_by", ledger.UpdatedBy).
			Add("version", 1).
			Where(entsql.And(
				entsql.EQ("id", ledger.ID),
				entsql.EQ("version", expectedVersion),
			)).
			Query()

		result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, args...)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to update commission ledger").
				Mark(ierr.ErrDatabase)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to update commission ledger").
				Mark(ierr.ErrDatabase)
		}
		if rows == 0 {
			return ierr.NewErrorf("ledger %s is no longer at version %d", ledger.ID, expectedVersion).
				WithHint("The ledger was modified by another request").
				WithReportableDetails(map[string]any{
					"ledger_id":        ledger.ID,
					"expected_version": expectedVersion,
				}).
				Mark(ierr.ErrVersionConflict)
		}

		paymentQuery := `
			INSERT INTO commission_payments (
				id, ledger_id, amount, currency, payment_method,
				transaction_ref, notes, recorded_by, recorded_at
			) VALUES (
				:id, :ledger_id, :amount, :currency, :payment_method,
				:transaction_ref, :notes, :recorded_by, :recorded_at
			)`
		if err := insert(ctx, r.db, paymentQuery, record, "payment record"); err != nil {
			return err
		}

		r.logger.Debugw("appended ledger payment",
			"ledger_id", ledger.ID,
			"payment_id", record.ID,
			"amount", record.Amount,
			"version", expectedVersion+1,
		)
		return nil
	})
}

package postgres

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/funnytourism/tourprice/internal/domain/booking"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/funnytourism/tourprice/internal/postgres"
	"github.com/funnytourism/tourprice/internal/types"
)

type bookingRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewBookingRepository creates a new instance of booking repository
func NewBookingRepository(db *postgres.DB, logger *logger.Logger) booking.Repository {
	return &bookingRepository{db: db, logger: logger}
}

func (r *bookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	query := `
		INSERT INTO bookings (
			id, reference_number, item_id, booking_type, item_category, agent_id,
			category, party_size, rooms, guest_name, guest_email,
			unit_amount, total_price, currency, approximate,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :reference_number, :item_id, :booking_type, :item_category, :agent_id,
			:category, :party_size, :rooms, :guest_name, :guest_email,
			:unit_amount, :total_price, :currency, :approximate,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating booking",
		"booking_id", b.ID,
		"reference_number", b.ReferenceNumber,
		"item_id", b.ItemID,
	)
	return insert(ctx, r.db, query, b, "booking")
}

func (r *bookingRepository) Get(ctx context.Context, id string) (*booking.Booking, error) {
	return r.getBy(ctx, "id", id)
}

func (r *bookingRepository) GetByReference(ctx context.Context, reference string) (*booking.Booking, error) {
	return r.getBy(ctx, "reference_number", reference)
}

func (r *bookingRepository) getBy(ctx context.Context, column, value string) (*booking.Booking, error) {
	sel := selectFrom(postgres.TableBookings)
	sel.Where(entsql.And(
		entsql.EQ(column, value),
		entsql.EQ("status", types.StatusPublished),
	))

	var b booking.Booking
	if err := getOne(ctx, r.db, &b, sel); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) List(ctx context.Context, filter *types.BookingFilter) ([]*booking.Booking, error) {
	if filter == nil {
		filter = types.NewBookingFilter()
	}

	sel := selectFrom(postgres.TableBookings)
	if filter.AgentID != "" {
		sel.Where(entsql.EQ("agent_id", filter.AgentID))
	}
	if filter.ItemID != "" {
		sel.Where(entsql.EQ("item_id", filter.ItemID))
	}
	if filter.Type != nil {
		sel.Where(entsql.EQ("booking_type", filter.Type.String()))
	}
	applyQueryFilter(sel, filter.QueryFilter, "reference_number", "total_price")

	var bookings []*booking.Booking
	if err := selectMany(ctx, r.db, &bookings, sel); err != nil {
		return nil, err
	}
	return bookings, nil
}

package testutil

import (
	"context"

	"github.com/funnytourism/tourprice/internal/domain/booking"
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/samber/lo"
)

// InMemoryBookingStore implements booking.Repository
type InMemoryBookingStore struct {
	*InMemoryStore[*booking.Booking]
}

func NewInMemoryBookingStore() *InMemoryBookingStore {
	return &InMemoryBookingStore{
		InMemoryStore: NewInMemoryStore[*booking.Booking](),
	}
}

func bookingFilterFn(ctx context.Context, b *booking.Booking, filter interface{}) bool {
	f, ok := filter.(*types.BookingFilter)
	if !ok || f == nil {
		return true
	}
	if !checkStatus(b.Status, f.QueryFilter) {
		return false
	}
	if f.AgentID != "" && lo.FromPtr(b.AgentID) != f.AgentID {
		return false
	}
	if f.ItemID != "" && b.ItemID != f.ItemID {
		return false
	}
	if f.Type != nil && b.BookingType != *f.Type {
		return false
	}
	return true
}

func (s *InMemoryBookingStore) Create(ctx context.Context, b *booking.Booking) error {
	existing, _ := s.InMemoryStore.List(ctx, nil, nil, func(_ context.Context, other *booking.Booking, _ interface{}) bool {
		return other.ReferenceNumber == b.ReferenceNumber
	}, nil)
	if len(existing) > 0 {
		return ierr.NewErrorf("reference number %s already exists", b.ReferenceNumber).
			Mark(ierr.ErrAlreadyExists)
	}
	c := *b
	return s.InMemoryStore.Create(ctx, b.ID, &c)
}

func (s *InMemoryBookingStore) Get(ctx context.Context, id string) (*booking.Booking, error) {
	b, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c := *b
	return &c, nil
}

func (s *InMemoryBookingStore) GetByReference(ctx context.Context, reference string) (*booking.Booking, error) {
	found, _ := s.InMemoryStore.List(ctx, nil, nil, func(_ context.Context, b *booking.Booking, _ interface{}) bool {
		return b.ReferenceNumber == reference
	}, nil)
	if len(found) == 0 {
		return nil, ierr.NewErrorf("booking %s not found", reference).
			Mark(ierr.ErrNotFound)
	}
	c := *found[0]
	return &c, nil
}

func (s *InMemoryBookingStore) List(ctx context.Context, filter *types.BookingFilter) ([]*booking.Booking, error) {
	var page *types.QueryFilter
	if filter != nil {
		page = filter.QueryFilter
	}
	return s.InMemoryStore.List(ctx, filter, page, bookingFilterFn, func(a, b *booking.Booking) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
}

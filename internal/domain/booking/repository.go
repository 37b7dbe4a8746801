package booking

import (
	"context"

	"github.com/funnytourism/tourprice/internal/types"
)

// Repository defines the interface for booking persistence
type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	Get(ctx context.Context, id string) (*Booking, error)
	GetByReference(ctx context.Context, reference string) (*Booking, error)
	List(ctx context.Context, filter *types.BookingFilter) ([]*Booking, error)
}

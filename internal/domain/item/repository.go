package item

import (
	"context"

	"github.com/funnytourism/tourprice/internal/types"
)

// Repository defines the interface for catalog item persistence
type Repository interface {
	Create(ctx context.Context, item *Item) error
	Get(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context, filter *types.ItemFilter) ([]*Item, error)
}

package testutil

import (
	"context"

	"github.com/funnytourism/tourprice/internal/domain/item"
	"github.com/funnytourism/tourprice/internal/types"
)

// InMemoryItemStore implements item.Repository
type InMemoryItemStore struct {
	*InMemoryStore[*item.Item]
}

func NewInMemoryItemStore() *InMemoryItemStore {
	return &InMemoryItemStore{
		InMemoryStore: NewInMemoryStore[*item.Item](),
	}
}

func copyItem(i *item.Item) *item.Item {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

func itemFilterFn(ctx context.Context, i *item.Item, filter interface{}) bool {
	f, ok := filter.(*types.ItemFilter)
	if !ok || f == nil {
		return true
	}
	if !checkStatus(i.Status, f.QueryFilter) {
		return false
	}
	if f.Category != nil && i.Category != *f.Category {
		return false
	}
	if f.ActiveOnly && !i.IsActive {
		return false
	}
	return true
}

func (s *InMemoryItemStore) Create(ctx context.Context, i *item.Item) error {
	return s.InMemoryStore.Create(ctx, i.ID, copyItem(i))
}

func (s *InMemoryItemStore) Get(ctx context.Context, id string) (*item.Item, error) {
	i, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyItem(i), nil
}

func (s *InMemoryItemStore) List(ctx context.Context, filter *types.ItemFilter) ([]*item.Item, error) {
	var page *types.QueryFilter
	if filter != nil {
		page = filter.QueryFilter
	}
	return s.InMemoryStore.List(ctx, filter, page, itemFilterFn, func(a, b *item.Item) bool {
		return a.Code < b.Code
	})
}

package postgres

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/funnytourism/tourprice/internal/domain/item"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/funnytourism/tourprice/internal/postgres"
	"github.com/funnytourism/tourprice/internal/types"
)

type itemRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewItemRepository creates a new instance of item repository
func NewItemRepository(db *postgres.DB, logger *logger.Logger) item.Repository {
	return &itemRepository{
		db:     db,
		logger: logger,
	}
}

func (r *itemRepository) Create(ctx context.Context, i *item.Item) error {
	query := `
		INSERT INTO items (
			id, code, title, category, pricing, b2b_pricing, currency, is_active,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :code, :title, :category, :pricing, :b2b_pricing, :currency, :is_active,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating item", "item_id", i.ID, "code", i.Code, "category", i.Category)
	return insert(ctx, r.db, query, i, "item")
}

func (r *itemRepository) Get(ctx context.Context, id string) (*item.Item, error) {
	sel := selectFrom(postgres.TableItems)
	sel.Where(entsql.And(
		entsql.EQ("id", id),
		entsql.EQ("status", types.StatusPublished),
	))

	var i item.Item
	if err := getOne(ctx, r.db, &i, sel); err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *itemRepository) List(ctx context.Context, filter *types.ItemFilter) ([]*item.Item, error) {
	if filter == nil {
		filter = types.NewItemFilter()
	}

	sel := selectFrom(postgres.TableItems)
	if filter.Category != nil {
		sel.Where(entsql.EQ("category", filter.Category.String()))
	}
	if filter.ActiveOnly {
		sel.Where(entsql.EQ("is_active", true))
	}
	applyQueryFilter(sel, filter.QueryFilter, "code", "title")

	var items []*item.Item
	if err := selectMany(ctx, r.db, &items, sel); err != nil {
		return nil, err
	}
	return items, nil
}

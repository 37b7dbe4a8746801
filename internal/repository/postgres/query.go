package postgres

import (
	"context"
	"database/sql"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/postgres"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/samber/lo"
)

// selectFrom starts a postgres select over every column of table
func selectFrom(table string) *entsql.Selector {
	return entsql.Dialect(dialect.Postgres).
		Select("*").
		From(entsql.Table(table))
}

// applyQueryFilter applies the status, sort and pagination parts of a filter.
// Sorting is restricted to the given columns and falls back to created_at.
func applyQueryFilter(sel *entsql.Selector, filter *types.QueryFilter, sortable ...string) *entsql.Selector {
	if filter == nil {
		filter = types.NewDefaultQueryFilter()
	}

	sel.Where(entsql.EQ("status", filter.GetStatus()))

	sortBy := filter.GetSort()
	if !lo.Contains(append(sortable, "created_at", "updated_at"), sortBy) {
		sortBy = types.FILTER_DEFAULT_SORT
	}
	if filter.GetOrder() == types.OrderAsc {
		sel.OrderBy(entsql.Asc(sortBy), entsql.Asc("id"))
	} else {
		sel.OrderBy(entsql.Desc(sortBy), entsql.Desc("id"))
	}

	if !filter.IsUnlimited() {
		sel.Limit(filter.GetLimit())
	}
	if offset := filter.GetOffset(); offset > 0 {
		sel.Offset(offset)
	}
	return sel
}

// getOne runs a single row select and marks a missing row with notFound
func getOne(ctx context.Context, db *postgres.DB, dest interface{}, sel *entsql.Selector, notFound ...error) error {
	query, args := sel.Query()
	err := db.GetQuerier(ctx).GetContext(ctx, dest, query, args...)
	if err == nil {
		return nil
	}
	if ierr.Is(err, sql.ErrNoRows) {
		return ierr.WithError(err).
			WithHint("The requested resource was not found").
			Mark(append(notFound, ierr.ErrNotFound)...)
	}
	return ierr.WithError(err).
		WithHint("Failed to query the database").
		Mark(ierr.ErrDatabase)
}

// selectMany runs a multi row select
func selectMany(ctx context.Context, db *postgres.DB, dest interface{}, sel *entsql.Selector) error {
	query, args := sel.Query()
	if err := db.GetQuerier(ctx).SelectContext(ctx, dest, query, args...); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to query the database").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// insert runs a named insert and translates constraint violations
func insert(ctx context.Context, db *postgres.DB, query string, arg interface{}, entity string) error {
	if _, err := db.GetQuerier(ctx).NamedExecContext(ctx, query, arg); err != nil {
		if postgres.IsUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("A %s with these identifiers already exists", entity).
				Mark(ierr.ErrAlreadyExists)
		}
		if postgres.IsForeignKeyViolation(err) {
			return ierr.WithError(err).
				WithHintf("The %s references a record that does not exist", entity).
				Mark(ierr.ErrValidation)
		}
		return ierr.WithError(err).
			WithHintf("Failed to create %s", entity).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

package testutil

import (
	"context"

	"github.com/funnytourism/tourprice/internal/postgres"
)

// NoopTransactioner runs the function without a transaction
type NoopTransactioner struct {
	Calls int
}

var _ postgres.Transactioner = (*NoopTransactioner)(nil)

func (t *NoopTransactioner) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	return fn(ctx)
}

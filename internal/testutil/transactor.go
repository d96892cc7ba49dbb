package testutil

import (
	"context"

	"github.com/flexprice/invoicer/internal/postgres"
)

// NoopTransactor runs fn directly; the in-memory stores have no transactions
type NoopTransactor struct {
	Calls int
}

func (t *NoopTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error, _ ...postgres.TxOptions) error {
	t.Calls++
	return fn(ctx)
}

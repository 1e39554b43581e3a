package report

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/batchledger/backend/internal/domain/ledger"
)

// SnapshotReader loads read-only ledger snapshots for reporting.
// Child collections are eagerly loaded. Implementations must return
// ctx.Err() when the context is cancelled.
type SnapshotReader interface {
	// FetchBatchesWithOrders returns all batches with orders and order lines
	FetchBatchesWithOrders(ctx context.Context) ([]ledger.Batch, error)
	// FetchCustomersWithOrdersAndPayments returns all customers with orders, lines and payments
	FetchCustomersWithOrdersAndPayments(ctx context.Context) ([]ledger.Customer, error)
	// FetchCustomerWithOrdersAndPayments returns one customer, or shared.ErrNotFound
	FetchCustomerWithOrdersAndPayments(ctx context.Context, id uuid.UUID) (*ledger.Customer, error)
	FetchAllProductTypes(ctx context.Context) ([]ledger.ProductType, error)
	FetchAllOrdersWithDetails(ctx context.Context) ([]ledger.Order, error)
	FetchAllPayments(ctx context.Context) ([]ledger.Payment, error)
	FetchBatchIDsToNumbers(ctx context.Context) (map[uuid.UUID]int, error)
	FetchCustomerIDsToNames(ctx context.Context) (map[uuid.UUID]string, error)
	FetchProductTypeIDsToNames(ctx context.Context) (map[uuid.UUID]string, error)
}

// ResultCache stores computed reports keyed by report kind and as-of date.
// A miss is (false, nil); values round-trip through JSON.
type ResultCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

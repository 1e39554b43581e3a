package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/batchledger/backend/internal/domain/shared"
	"github.com/batchledger/backend/internal/domain/shared/valueobject"
)

// Stock is the batch-level unit counter. Available only ever decreases.
type Stock struct {
	Capacity  int
	Available int
}

// NewStock creates a full stock counter
func NewStock(capacity int) (Stock, error) {
	if capacity < 0 {
		return Stock{}, ErrNegativeStock
	}
	return Stock{Capacity: capacity, Available: capacity}, nil
}

// Reserve returns the counter after taking quantity units
func (s Stock) Reserve(quantity int) (Stock, error) {
	if quantity <= 0 {
		return s, ErrInvalidQuantity
	}
	if quantity > s.Available {
		return s, shared.ErrInsufficientStock
	}
	return Stock{Capacity: s.Capacity, Available: s.Available - quantity}, nil
}

// Batch is a numbered fulfillment run that orders are placed against.
// Stock is nil for batches that were never stocked.
type Batch struct {
	shared.BaseEntity
	Number    int
	CreatedAt time.Time
	IsActive  bool
	Stock     *Stock
	Orders    []Order
}

// NewBatch creates an active batch holding initialStock units
func NewBatch(number, initialStock int, createdAt time.Time) (*Batch, error) {
	if number <= 0 {
		return nil, ErrInvalidBatchNumber
	}
	stock, err := NewStock(initialStock)
	if err != nil {
		return nil, err
	}
	return &Batch{
		BaseEntity: shared.NewBaseEntity(),
		Number:     number,
		CreatedAt:  createdAt,
		IsActive:   true,
		Stock:      &stock,
	}, nil
}

// PlaceOrder creates a single-line order for the customer and reserves stock for it
func (b *Batch) PlaceOrder(customerID, productTypeID uuid.UUID, unitPrice valueobject.Amount, quantity int, placedAt time.Time, dueDate *time.Time) (Order, error) {
	if !b.IsActive {
		return Order{}, ErrBatchClosed
	}
	detail, err := NewOrderDetail(productTypeID, unitPrice, quantity, placedAt, dueDate)
	if err != nil {
		return Order{}, err
	}
	if b.Stock == nil {
		return Order{}, shared.ErrInsufficientStock
	}
	stock, err := b.Stock.Reserve(quantity)
	if err != nil {
		return Order{}, err
	}

	order := NewOrder(customerID, b.ID)
	order.AddDetail(detail)

	b.Stock = &stock
	b.Orders = append(b.Orders, order)
	return order, nil
}

// AttachOrder adds an already persisted order without touching stock
func (b *Batch) AttachOrder(order Order) error {
	if order.BatchID != b.ID {
		return ErrBatchMismatch
	}
	b.Orders = append(b.Orders, order)
	return nil
}

// Close stops the batch from accepting orders
func (b *Batch) Close() {
	b.IsActive = false
}

// AvailableStock returns the remaining units, 0 when the batch has no stock counter
func (b *Batch) AvailableStock() int {
	if b.Stock == nil {
		return 0
	}
	return b.Stock.Available
}

// TotalQuantity sums quantities across all order lines
func (b *Batch) TotalQuantity() int {
	qty := 0
	for _, o := range b.Orders {
		qty += o.TotalQuantity()
	}
	return qty
}

// Revenue sums order totals, counting unknown line totals as zero
func (b *Batch) Revenue() decimal.Decimal {
	total := decimal.Zero
	for _, o := range b.Orders {
		total = total.Add(o.Total())
	}
	return total
}

package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/batchledger/backend/internal/domain/shared"
	"github.com/batchledger/backend/internal/domain/shared/valueobject"
)

// OrderDetail is a single priced line of an order
type OrderDetail struct {
	ID            uuid.UUID
	ProductTypeID uuid.UUID
	UnitPrice     valueobject.Amount
	Quantity      int
	PlacedAt      time.Time
	DueDate       *time.Time
}

// NewOrderDetail creates a validated order line. A nil due date is allowed.
func NewOrderDetail(productTypeID uuid.UUID, unitPrice valueobject.Amount, quantity int, placedAt time.Time, dueDate *time.Time) (OrderDetail, error) {
	if quantity <= 0 {
		return OrderDetail{}, ErrInvalidQuantity
	}
	if dueDate != nil && DateOf(*dueDate).Before(DateOf(placedAt)) {
		return OrderDetail{}, ErrInvalidDueDate
	}
	return OrderDetail{
		ID:            uuid.New(),
		ProductTypeID: productTypeID,
		UnitPrice:     unitPrice,
		Quantity:      quantity,
		PlacedAt:      placedAt,
		DueDate:       dueDate,
	}, nil
}

// Total is UnitPrice x Quantity; unknown when the price is unknown
func (d OrderDetail) Total() valueobject.Amount {
	return d.UnitPrice.MulInt(d.Quantity)
}

// Order groups the lines a customer placed against one batch
type Order struct {
	shared.BaseEntity
	CustomerID uuid.UUID
	BatchID    uuid.UUID
	Details    []OrderDetail
}

// NewOrder creates an empty order
func NewOrder(customerID, batchID uuid.UUID) Order {
	return Order{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		BatchID:    batchID,
	}
}

// AddDetail appends a line to the order
func (o *Order) AddDetail(detail OrderDetail) {
	o.Details = append(o.Details, detail)
}

// Total sums the order's lines, counting unknown totals as zero
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, d := range o.Details {
		total = total.Add(d.Total().OrZero())
	}
	return total
}

// TotalQuantity sums the ordered quantity over all lines
func (o Order) TotalQuantity() int {
	qty := 0
	for _, d := range o.Details {
		qty += d.Quantity
	}
	return qty
}

// LatestPlacedAt returns the most recent line placement time, false when the order has no lines
func (o Order) LatestPlacedAt() (time.Time, bool) {
	var latest time.Time
	for i, d := range o.Details {
		if i == 0 || d.PlacedAt.After(latest) {
			latest = d.PlacedAt
		}
	}
	return latest, len(o.Details) > 0
}

// DateOf truncates a timestamp to its UTC calendar date, expressed as UTC midnight
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

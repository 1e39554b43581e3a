package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchUtilizationItem summarises how much of a batch has been ordered
type BatchUtilizationItem struct {
	BatchID              uuid.UUID       `json:"batch_id"`
	BatchNumber          int             `json:"batch_number"`
	CreatedAt            time.Time       `json:"created_at"`
	IsActive             bool            `json:"is_active"`
	OrdersCount          int             `json:"orders_count"`
	TotalQuantityOrdered int             `json:"total_quantity_ordered"`
	TotalRevenue         decimal.Decimal `json:"total_revenue"`
	RemainingStock       int             `json:"remaining_stock"`
}

// AgingBucketAmount is the outstanding amount in one aging bucket
type AgingBucketAmount struct {
	BucketName        AgingBucket     `json:"bucket_name"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
}

// CustomerBalanceItem is one row of the customer balances report
type CustomerBalanceItem struct {
	CustomerID   uuid.UUID           `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	TotalCharged decimal.Decimal     `json:"total_charged"`
	TotalPaid    decimal.Decimal     `json:"total_paid"`
	Balance      decimal.Decimal     `json:"balance"` // negative when overpaid
	Aging        []AgingBucketAmount `json:"aging"`   // always six buckets in AgingBuckets order
}

// ProductRevenueItem is revenue grouped by product type
type ProductRevenueItem struct {
	ProductTypeID    uuid.UUID       `json:"product_type_id"`
	ProductTypeName  string          `json:"product_type_name"`
	TotalQuantity    int             `json:"total_quantity"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	AverageUnitPrice decimal.Decimal `json:"average_unit_price"`
}

// CashFlowPoint is one calendar date of the cash-flow timeline
type CashFlowPoint struct {
	Date               time.Time       `json:"date"`
	Charged            decimal.Decimal `json:"charged"`
	Paid               decimal.Decimal `json:"paid"`
	CumulativeCharged  decimal.Decimal `json:"cumulative_charged"`
	CumulativePaid     decimal.Decimal `json:"cumulative_paid"`
	CoveragePercentage decimal.Decimal `json:"coverage_percentage"`
}

// CashFlowReport is the full cash-flow timeline with grand totals
type CashFlowReport struct {
	TotalCharged       decimal.Decimal `json:"total_charged"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	CoveragePercentage decimal.Decimal `json:"coverage_percentage"`
	Timeline           []CashFlowPoint `json:"timeline"`
}

// OrderTrackingItem is one order line with its due-date status
type OrderTrackingItem struct {
	OrderID         uuid.UUID       `json:"order_id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	BatchID         uuid.UUID       `json:"batch_id"`
	BatchNumber     int             `json:"batch_number"`
	ProductTypeID   uuid.UUID       `json:"product_type_id"`
	ProductTypeName string          `json:"product_type_name"`
	Quantity        int             `json:"quantity"`
	Total           decimal.Decimal `json:"total"`
	PlacedAt        time.Time       `json:"placed_at"`
	DueDate         *time.Time      `json:"due_date"`
	Status          TrackingStatus  `json:"status"`
	DaysUntilDue    *int            `json:"days_until_due"`
}

// StatementLine is one order line on a customer statement
type StatementLine struct {
	ProductTypeID   uuid.UUID        `json:"product_type_id"`
	ProductTypeName string           `json:"product_type_name"`
	Quantity        int              `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price"` // nil when the price is unknown
	Total           decimal.Decimal  `json:"total"`
	PlacedAt        time.Time        `json:"placed_at"`
	DueDate         *time.Time       `json:"due_date"`
}

// StatementOrder is an order as listed on a customer statement
type StatementOrder struct {
	OrderID     uuid.UUID       `json:"order_id"`
	BatchID     uuid.UUID       `json:"batch_id"`
	BatchNumber int             `json:"batch_number"`
	Total       decimal.Decimal `json:"total"`
	Lines       []StatementLine `json:"lines"`
}

// StatementPayment is a payment as listed on a customer statement
type StatementPayment struct {
	PaymentID   uuid.UUID       `json:"payment_id"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	PaymentDate time.Time       `json:"payment_date"`
}

// CustomerStatement lists everything charged to and paid by one customer
type CustomerStatement struct {
	CustomerID   uuid.UUID          `json:"customer_id"`
	CustomerName string             `json:"customer_name"`
	TotalCharged decimal.Decimal    `json:"total_charged"`
	TotalPaid    decimal.Decimal    `json:"total_paid"`
	Balance      decimal.Decimal    `json:"balance"`
	Orders       []StatementOrder   `json:"orders"`
	Payments     []StatementPayment `json:"payments"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/batchledger/backend/internal/domain/ledger"
)

// CustomerModel is the persistence model for the Customer entity.
type CustomerModel struct {
	BaseModel
	Name         string         `gorm:"type:varchar(100);not null;index"`
	RegisteredAt time.Time      `gorm:"not null"`
	Orders       []OrderModel   `gorm:"foreignKey:CustomerID"`
	Payments     []PaymentModel `gorm:"foreignKey:CustomerID"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model, including any preloaded orders and payments.
func (m *CustomerModel) ToDomain() *ledger.Customer {
	c := &ledger.Customer{
		BaseEntity:   m.BaseModel.ToDomain(),
		Name:         m.Name,
		RegisteredAt: m.RegisteredAt,
	}
	for i := range m.Orders {
		c.Orders = append(c.Orders, m.Orders[i].ToDomain())
	}
	for i := range m.Payments {
		c.Payments = append(c.Payments, m.Payments[i].ToDomain())
	}
	return c
}

// FromDomain populates the customer row. Orders and payments are saved separately.
func (m *CustomerModel) FromDomain(c *ledger.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.RegisteredAt = c.RegisteredAt
}

// BatchModel is the persistence model for the Batch entity.
// A batch that was never stocked has NULL stock columns.
type BatchModel struct {
	BaseModel
	Number         int  `gorm:"not null;uniqueIndex"`
	IsActive       bool `gorm:"not null;default:true"`
	StockCapacity  *int
	StockAvailable *int
	Orders         []OrderModel `gorm:"foreignKey:BatchID"`
}

// TableName returns the table name for GORM
func (BatchModel) TableName() string {
	return "batches"
}

// ToDomain converts the model, including any preloaded orders.
func (m *BatchModel) ToDomain() *ledger.Batch {
	b := &ledger.Batch{
		BaseEntity: m.BaseModel.ToDomain(),
		Number:     m.Number,
		CreatedAt:  m.CreatedAt,
		IsActive:   m.IsActive,
	}
	if m.StockCapacity != nil && m.StockAvailable != nil {
		b.Stock = &ledger.Stock{Capacity: *m.StockCapacity, Available: *m.StockAvailable}
	}
	for i := range m.Orders {
		b.Orders = append(b.Orders, m.Orders[i].ToDomain())
	}
	return b
}

// FromDomain populates the batch row. Orders are saved separately.
func (m *BatchModel) FromDomain(b *ledger.Batch) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.CreatedAt = b.CreatedAt
	m.Number = b.Number
	m.IsActive = b.IsActive
	m.StockCapacity, m.StockAvailable = nil, nil
	if b.Stock != nil {
		capacity, available := b.Stock.Capacity, b.Stock.Available
		m.StockCapacity = &capacity
		m.StockAvailable = &available
	}
}

// OrderModel is the persistence model for the Order entity.
type OrderModel struct {
	BaseModel
	CustomerID uuid.UUID          `gorm:"type:uuid;not null;index"`
	BatchID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	Details    []OrderDetailModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the model with its preloaded lines
func (m *OrderModel) ToDomain() ledger.Order {
	o := ledger.Order{
		BaseEntity: m.BaseModel.ToDomain(),
		CustomerID: m.CustomerID,
		BatchID:    m.BatchID,
	}
	for i := range m.Details {
		o.Details = append(o.Details, m.Details[i].ToDomain())
	}
	return o
}

// FromDomain populates the order row and its lines
func (m *OrderModel) FromDomain(o ledger.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.CustomerID = o.CustomerID
	m.BatchID = o.BatchID
	m.Details = make([]OrderDetailModel, 0, len(o.Details))
	for _, d := range o.Details {
		var dm OrderDetailModel
		dm.FromDomain(o.ID, d)
		m.Details = append(m.Details, dm)
	}
}

// OrderDetailModel is the persistence model for an order line.
// UnitPrice is NULL when the product type had no price.
type OrderDetailModel struct {
	BaseModel
	OrderID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	ProductTypeID uuid.UUID           `gorm:"type:uuid;not null;index"`
	UnitPrice     decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	Quantity      int                 `gorm:"not null"`
	PlacedAt      time.Time           `gorm:"not null;index"`
	DueDate       *time.Time          `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (OrderDetailModel) TableName() string {
	return "order_details"
}

// ToDomain converts the model to a domain order line
func (m *OrderDetailModel) ToDomain() ledger.OrderDetail {
	return ledger.OrderDetail{
		ID:            m.ID,
		ProductTypeID: m.ProductTypeID,
		UnitPrice:     amountOf(m.UnitPrice),
		Quantity:      m.Quantity,
		PlacedAt:      m.PlacedAt,
		DueDate:       m.DueDate,
	}
}

// FromDomain populates the line row
func (m *OrderDetailModel) FromDomain(orderID uuid.UUID, d ledger.OrderDetail) {
	m.ID = d.ID
	m.OrderID = orderID
	m.ProductTypeID = d.ProductTypeID
	m.UnitPrice = nullDecimal(d.UnitPrice)
	m.Quantity = d.Quantity
	m.PlacedAt = d.PlacedAt
	m.DueDate = d.DueDate
}

// PaymentModel is the persistence model for the Payment entity.
type PaymentModel struct {
	BaseModel
	CustomerID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	PaidAmount  decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	PaymentDate time.Time           `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the model to a domain payment
func (m *PaymentModel) ToDomain() ledger.Payment {
	return ledger.Payment{
		BaseEntity:  m.BaseModel.ToDomain(),
		CustomerID:  m.CustomerID,
		PaidAmount:  amountOf(m.PaidAmount),
		PaymentDate: m.PaymentDate,
	}
}

// FromDomain populates the payment row
func (m *PaymentModel) FromDomain(p ledger.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.CustomerID = p.CustomerID
	m.PaidAmount = nullDecimal(p.PaidAmount)
	m.PaymentDate = p.PaymentDate
}

// ProductTypeModel is the persistence model for the ProductType entity.
type ProductTypeModel struct {
	BaseModel
	Name      string              `gorm:"type:varchar(100);not null"`
	UnitPrice decimal.NullDecimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (ProductTypeModel) TableName() string {
	return "product_types"
}

// ToDomain converts the model to a domain product type
func (m *ProductTypeModel) ToDomain() ledger.ProductType {
	return ledger.ProductType{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		UnitPrice:  amountOf(m.UnitPrice),
	}
}

// FromDomain populates the product type row
func (m *ProductTypeModel) FromDomain(p *ledger.ProductType) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.UnitPrice = nullDecimal(p.UnitPrice)
}

// All returns every ledger model in dependency order, for AutoMigrate in tests
func All() []any {
	return []any{
		&ProductTypeModel{},
		&CustomerModel{},
		&BatchModel{},
		&OrderModel{},
		&OrderDetailModel{},
		&PaymentModel{},
	}
}

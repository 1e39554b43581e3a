package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/batchledger/backend/internal/domain/shared"
)

const maxCustomerNameLength = 100

// Customer owns orders and payments. Its balance is derived, never stored.
type Customer struct {
	shared.BaseEntity
	Name         string
	RegisteredAt time.Time
	Orders       []Order
	Payments     []Payment
}

// NewCustomer creates a customer with a validated name
func NewCustomer(name string, registeredAt time.Time) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxCustomerNameLength {
		return nil, ErrInvalidCustomerName
	}
	return &Customer{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		RegisteredAt: registeredAt,
	}, nil
}

// AddOrder attaches an order placed by this customer
func (c *Customer) AddOrder(order Order) error {
	if order.CustomerID != c.ID {
		return ErrCustomerMismatch
	}
	c.Orders = append(c.Orders, order)
	return nil
}

// AddPayment attaches a payment made by this customer
func (c *Customer) AddPayment(payment Payment) error {
	if payment.CustomerID != c.ID {
		return ErrCustomerMismatch
	}
	c.Payments = append(c.Payments, payment)
	return nil
}

// Details returns every order detail across the customer's orders
func (c *Customer) Details() []OrderDetail {
	var details []OrderDetail
	for _, o := range c.Orders {
		details = append(details, o.Details...)
	}
	return details
}

// TotalCharged sums detail totals with unknown amounts counted as zero
func (c *Customer) TotalCharged() decimal.Decimal {
	total := decimal.Zero
	for _, o := range c.Orders {
		total = total.Add(o.Total())
	}
	return total
}

// TotalPaid sums all payments with unknown amounts counted as zero
func (c *Customer) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.Payments {
		total = total.Add(p.PaidAmount.OrZero())
	}
	return total
}

// Balance is TotalCharged minus TotalPaid; negative means overpaid
func (c *Customer) Balance() decimal.Decimal {
	return c.TotalCharged().Sub(c.TotalPaid())
}

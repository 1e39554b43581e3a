package report

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/batchledger/backend/internal/domain/ledger"
)

// BuildCustomerStatement lists a customer's orders (newest first) and payments
// (oldest first) with the same totals the balances report uses.
func BuildCustomerStatement(customer ledger.Customer, batchNumbers map[uuid.UUID]int, productTypeNames map[uuid.UUID]string) CustomerStatement {
	lookups := TrackingLookups{BatchNumbers: batchNumbers, ProductTypeNames: productTypeNames}

	orders := make([]ledger.Order, len(customer.Orders))
	copy(orders, customer.Orders)
	sort.SliceStable(orders, func(i, j int) bool {
		li, _ := orders[i].LatestPlacedAt()
		lj, _ := orders[j].LatestPlacedAt()
		return li.After(lj)
	})

	stmtOrders := make([]StatementOrder, 0, len(orders))
	for _, o := range orders {
		lines := make([]StatementLine, 0, len(o.Details))
		for _, d := range o.Details {
			lines = append(lines, StatementLine{
				ProductTypeID:   d.ProductTypeID,
				ProductTypeName: lookups.productTypeName(d.ProductTypeID),
				Quantity:        d.Quantity,
				UnitPrice:       d.UnitPrice.Ptr(),
				Total:           d.Total().OrZero(),
				PlacedAt:        d.PlacedAt,
				DueDate:         d.DueDate,
			})
		}
		stmtOrders = append(stmtOrders, StatementOrder{
			OrderID:     o.ID,
			BatchID:     o.BatchID,
			BatchNumber: lookups.BatchNumbers[o.BatchID],
			Total:       o.Total(),
			Lines:       lines,
		})
	}

	payments := make([]ledger.Payment, len(customer.Payments))
	copy(payments, customer.Payments)
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].PaymentDate.Before(payments[j].PaymentDate)
	})

	stmtPayments := make([]StatementPayment, 0, len(payments))
	totalPaid := decimal.Zero
	for _, p := range payments {
		amount := p.PaidAmount.OrZero()
		totalPaid = totalPaid.Add(amount)
		stmtPayments = append(stmtPayments, StatementPayment{
			PaymentID:   p.ID,
			PaidAmount:  amount,
			PaymentDate: p.PaymentDate,
		})
	}

	totalCharged := customer.TotalCharged()
	return CustomerStatement{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		TotalCharged: totalCharged,
		TotalPaid:    totalPaid,
		Balance:      totalCharged.Sub(totalPaid),
		Orders:       stmtOrders,
		Payments:     stmtPayments,
	}
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/batchledger/backend/internal/domain/ledger"
	"github.com/batchledger/backend/internal/domain/shared/valueobject"
)

// LedgerWriter persists seeded records
type LedgerWriter interface {
	SaveProductType(ctx context.Context, pt *ledger.ProductType) error
	SaveCustomer(ctx context.Context, c *ledger.Customer) error
	SaveBatch(ctx context.Context, b *ledger.Batch) error
	RecordPlacedOrder(ctx context.Context, b *ledger.Batch, o ledger.Order) error
	SavePayment(ctx context.Context, p ledger.Payment) error
}

// SeedSummary counts what seedLedger wrote
type SeedSummary struct {
	ProductTypes int
	Customers    int
	Batches      int
	Orders       int
	Payments     int
}

type demoOrder struct {
	customer    int
	batch       int
	productType int
	quantity    int
	placedDays  int // days before today
	dueDays     *int
}

func days(n int) *int { return &n }

// seedLedger writes a small ledger dated around today so every aging bucket
// and tracking status has something in it.
func seedLedger(ctx context.Context, w LedgerWriter, now time.Time) (SeedSummary, error) {
	var summary SeedSummary
	today := ledger.DateOf(now)

	widget, err := ledger.NewProductType("Widget", valueobject.KnownFromInt(10))
	if err != nil {
		return summary, err
	}
	gadget, err := ledger.NewProductType("Gadget", valueobject.Known(mustDecimal("24.50")))
	if err != nil {
		return summary, err
	}
	productTypes := []*ledger.ProductType{widget, gadget, ledger.NewNoneProductType()}
	for _, pt := range productTypes {
		if err := w.SaveProductType(ctx, pt); err != nil {
			return summary, fmt.Errorf("save product type %s: %w", pt.Name, err)
		}
		summary.ProductTypes++
	}

	var customers []*ledger.Customer
	for _, name := range []string{"Acme Corp", "Globex", "Initech"} {
		c, err := ledger.NewCustomer(name, today.AddDate(0, -6, 0))
		if err != nil {
			return summary, err
		}
		if err := w.SaveCustomer(ctx, c); err != nil {
			return summary, fmt.Errorf("save customer %s: %w", name, err)
		}
		customers = append(customers, c)
		summary.Customers++
	}

	var batches []*ledger.Batch
	for i, stock := range []int{500, 200} {
		b, err := ledger.NewBatch(100+i, stock, today.AddDate(0, 0, -120+30*i))
		if err != nil {
			return summary, err
		}
		if err := w.SaveBatch(ctx, b); err != nil {
			return summary, fmt.Errorf("save batch %d: %w", b.Number, err)
		}
		batches = append(batches, b)
		summary.Batches++
	}

	orders := []demoOrder{
		{customer: 0, batch: 0, productType: 0, quantity: 20, placedDays: 110, dueDays: days(-95)},
		{customer: 0, batch: 0, productType: 1, quantity: 4, placedDays: 70, dueDays: days(-45)},
		{customer: 0, batch: 1, productType: 0, quantity: 8, placedDays: 10, dueDays: days(5)},
		{customer: 1, batch: 0, productType: 1, quantity: 12, placedDays: 40, dueDays: days(-10)},
		{customer: 1, batch: 1, productType: 2, quantity: 3, placedDays: 5, dueDays: nil},
		{customer: 2, batch: 1, productType: 0, quantity: 15, placedDays: 2, dueDays: days(30)},
	}
	for _, o := range orders {
		pt := productTypes[o.productType]
		placedAt := today.AddDate(0, 0, -o.placedDays)
		var due *time.Time
		if o.dueDays != nil {
			d := today.AddDate(0, 0, *o.dueDays)
			due = &d
		}

		batch := batches[o.batch]
		order, err := batch.PlaceOrder(customers[o.customer].ID, pt.ID, pt.UnitPrice, o.quantity, placedAt, due)
		if err != nil {
			return summary, fmt.Errorf("place order on batch %d: %w", batch.Number, err)
		}
		if err := w.RecordPlacedOrder(ctx, batch, order); err != nil {
			return summary, fmt.Errorf("record order on batch %d: %w", batch.Number, err)
		}
		summary.Orders++
	}

	payments := []struct {
		customer int
		amount   string
		daysAgo  int
	}{
		{0, "150", 60},
		{0, "40.25", 20},
		{1, "300", 3},
	}
	for _, p := range payments {
		payment, err := ledger.NewPayment(customers[p.customer].ID, valueobject.Known(mustDecimal(p.amount)), today.AddDate(0, 0, -p.daysAgo))
		if err != nil {
			return summary, err
		}
		if err := w.SavePayment(ctx, payment); err != nil {
			return summary, fmt.Errorf("save payment: %w", err)
		}
		summary.Payments++
	}

	return summary, nil
}

package report

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/batchledger/backend/internal/domain/ledger"
)

// BuildBatchUtilization summarises each batch, newest first
func BuildBatchUtilization(batches []ledger.Batch) []BatchUtilizationItem {
	sorted := make([]ledger.Batch, len(batches))
	copy(sorted, batches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	items := make([]BatchUtilizationItem, 0, len(sorted))
	for i := range sorted {
		b := &sorted[i]
		items = append(items, BatchUtilizationItem{
			BatchID:              b.ID,
			BatchNumber:          b.Number,
			CreatedAt:            b.CreatedAt,
			IsActive:             b.IsActive,
			OrdersCount:          len(b.Orders),
			TotalQuantityOrdered: b.TotalQuantity(),
			TotalRevenue:         b.Revenue(),
			RemainingStock:       b.AvailableStock(),
		})
	}
	return items
}

// BuildRevenueByProductType groups order lines by product type, highest revenue first.
// Ties keep a deterministic order by name then id.
func BuildRevenueByProductType(orders []ledger.Order, productTypes []ledger.ProductType) []ProductRevenueItem {
	names := make(map[uuid.UUID]string, len(productTypes))
	for _, pt := range productTypes {
		names[pt.ID] = pt.Name
	}

	type group struct {
		quantity int
		revenue  decimal.Decimal
	}
	groups := make(map[uuid.UUID]*group)
	for _, o := range orders {
		for _, d := range o.Details {
			g, ok := groups[d.ProductTypeID]
			if !ok {
				g = &group{revenue: decimal.Zero}
				groups[d.ProductTypeID] = g
			}
			g.quantity += d.Quantity
			g.revenue = g.revenue.Add(d.Total().OrZero())
		}
	}

	items := make([]ProductRevenueItem, 0, len(groups))
	for id, g := range groups {
		name, ok := names[id]
		if !ok {
			name = UnknownLabel
		}
		avg := decimal.Zero
		if g.quantity > 0 {
			avg = g.revenue.Div(decimal.NewFromInt(int64(g.quantity)))
		}
		items = append(items, ProductRevenueItem{
			ProductTypeID:    id,
			ProductTypeName:  name,
			TotalQuantity:    g.quantity,
			TotalRevenue:     g.revenue,
			AverageUnitPrice: avg,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if c := items[i].TotalRevenue.Cmp(items[j].TotalRevenue); c != 0 {
			return c > 0
		}
		if items[i].ProductTypeName != items[j].ProductTypeName {
			return items[i].ProductTypeName < items[j].ProductTypeName
		}
		return items[i].ProductTypeID.String() < items[j].ProductTypeID.String()
	})
	return items
}

package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/batchledger/backend/internal/domain/ledger"
)

// ChargeLine is an order line reduced to what payment allocation needs.
// Amount is already zero-substituted.
type ChargeLine struct {
	Amount   decimal.Decimal
	DueDate  *time.Time
	PlacedAt time.Time
}

// EffectiveDate is the due date when present, otherwise the placement date
func (l ChargeLine) EffectiveDate() time.Time {
	if l.DueDate != nil {
		return *l.DueDate
	}
	return l.PlacedAt
}

// ChargeLinesFor normalises a customer's order lines for allocation.
// This is the single point where unknown line totals become zero.
func ChargeLinesFor(customer ledger.Customer) []ChargeLine {
	details := customer.Details()
	lines := make([]ChargeLine, 0, len(details))
	for _, d := range details {
		line := ChargeLine{
			Amount:   d.Total().OrZero(),
			PlacedAt: ledger.DateOf(d.PlacedAt),
		}
		if d.DueDate != nil {
			due := ledger.DateOf(*d.DueDate)
			line.DueDate = &due
		}
		lines = append(lines, line)
	}
	return lines
}

// Allocation is the FIFO outcome for one customer
type Allocation struct {
	TotalCharged decimal.Decimal
	TotalPaid    decimal.Decimal
	Balance      decimal.Decimal
	Applied      decimal.Decimal
	Buckets      []AgingBucketAmount
}

// Outstanding returns the amount held in one bucket
func (a Allocation) Outstanding(bucket AgingBucket) decimal.Decimal {
	for _, b := range a.Buckets {
		if b.BucketName == bucket {
			return b.OutstandingAmount
		}
	}
	return decimal.Zero
}

// AllocatePayments applies the total paid to charge lines oldest first and
// ages whatever stays unpaid. When the customer is overpaid every bucket is
// reported as zero while the negative balance is kept.
func AllocatePayments(lines []ChargeLine, totalPaid decimal.Decimal, today time.Time) Allocation {
	sorted := make([]ChargeLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectiveDate().Before(sorted[j].EffectiveDate())
	})

	totalCharged := decimal.Zero
	for _, l := range sorted {
		totalCharged = totalCharged.Add(l.Amount)
	}
	balance := totalCharged.Sub(totalPaid)

	bucketTotals := make(map[AgingBucket]decimal.Decimal, len(AgingBuckets))
	remaining := totalPaid
	applied := decimal.Zero

	for _, l := range sorted {
		outstanding := l.Amount
		if remaining.IsPositive() {
			use := decimal.Min(outstanding, remaining)
			outstanding = outstanding.Sub(use)
			remaining = remaining.Sub(use)
			applied = applied.Add(use)
		}
		if !outstanding.IsPositive() {
			continue
		}
		// bucket follows the due date; undated lines age as "No Due Date"
		bucket := ClassifyAging(l.DueDate, today)
		bucketTotals[bucket] = bucketTotals[bucket].Add(outstanding)
	}

	overpaid := balance.IsNegative()
	buckets := make([]AgingBucketAmount, 0, len(AgingBuckets))
	for _, name := range AgingBuckets {
		amount := bucketTotals[name]
		if overpaid {
			amount = decimal.Zero
		}
		buckets = append(buckets, AgingBucketAmount{BucketName: name, OutstandingAmount: amount})
	}

	return Allocation{
		TotalCharged: totalCharged,
		TotalPaid:    totalPaid,
		Balance:      balance,
		Applied:      applied,
		Buckets:      buckets,
	}
}

// BuildCustomerBalances produces the balances report ordered by customer name
func BuildCustomerBalances(customers []ledger.Customer, today time.Time) []CustomerBalanceItem {
	sorted := make([]ledger.Customer, len(customers))
	copy(sorted, customers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	items := make([]CustomerBalanceItem, 0, len(sorted))
	for _, c := range sorted {
		alloc := AllocatePayments(ChargeLinesFor(c), c.TotalPaid(), today)
		items = append(items, CustomerBalanceItem{
			CustomerID:   c.ID,
			CustomerName: c.Name,
			TotalCharged: alloc.TotalCharged,
			TotalPaid:    alloc.TotalPaid,
			Balance:      alloc.Balance,
			Aging:        alloc.Buckets,
		})
	}
	return items
}

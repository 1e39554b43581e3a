package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/batchledger/backend/internal/domain/ledger"
)

var hundred = decimal.NewFromInt(100)

// DatedAmount is a zero-substituted amount on a calendar date
type DatedAmount struct {
	Date   time.Time
	Amount decimal.Decimal
}

// DatedCharges flattens order lines into charges dated by placement
func DatedCharges(orders []ledger.Order) []DatedAmount {
	var out []DatedAmount
	for _, o := range orders {
		for _, d := range o.Details {
			out = append(out, DatedAmount{Date: d.PlacedAt, Amount: d.Total().OrZero()})
		}
	}
	return out
}

// DatedPayments maps payments to amounts dated by payment date
func DatedPayments(payments []ledger.Payment) []DatedAmount {
	out := make([]DatedAmount, 0, len(payments))
	for _, p := range payments {
		out = append(out, DatedAmount{Date: p.PaymentDate, Amount: p.PaidAmount.OrZero()})
	}
	return out
}

// CoveragePercentage is paid/charged*100 rounded half away from zero to
// two places, or zero when nothing was charged.
func CoveragePercentage(paid, charged decimal.Decimal) decimal.Decimal {
	if charged.IsZero() {
		return decimal.Zero
	}
	return paid.Div(charged).Mul(hundred).Round(2)
}

func groupByDate(amounts []DatedAmount) map[time.Time]decimal.Decimal {
	grouped := make(map[time.Time]decimal.Decimal)
	for _, a := range amounts {
		day := ledger.DateOf(a.Date)
		grouped[day] = grouped[day].Add(a.Amount)
	}
	return grouped
}

// BuildCashFlowTimeline emits one point per distinct date carrying a charge
// or a payment, with running cumulative totals.
func BuildCashFlowTimeline(charges, payments []DatedAmount) CashFlowReport {
	chargedByDate := groupByDate(charges)
	paidByDate := groupByDate(payments)

	dates := make([]time.Time, 0, len(chargedByDate)+len(paidByDate))
	for d := range chargedByDate {
		dates = append(dates, d)
	}
	for d := range paidByDate {
		if _, dup := chargedByDate[d]; !dup {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	cumulativeCharged := decimal.Zero
	cumulativePaid := decimal.Zero
	timeline := make([]CashFlowPoint, 0, len(dates))

	for _, d := range dates {
		charged := chargedByDate[d]
		paid := paidByDate[d]
		cumulativeCharged = cumulativeCharged.Add(charged)
		cumulativePaid = cumulativePaid.Add(paid)

		timeline = append(timeline, CashFlowPoint{
			Date:               d,
			Charged:            charged,
			Paid:               paid,
			CumulativeCharged:  cumulativeCharged,
			CumulativePaid:     cumulativePaid,
			CoveragePercentage: CoveragePercentage(cumulativePaid, cumulativeCharged),
		})
	}

	return CashFlowReport{
		TotalCharged:       cumulativeCharged,
		TotalPaid:          cumulativePaid,
		CoveragePercentage: CoveragePercentage(cumulativePaid, cumulativeCharged),
		Timeline:           timeline,
	}
}

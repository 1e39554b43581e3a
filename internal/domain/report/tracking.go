package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/batchledger/backend/internal/domain/ledger"
)

// TrackingStatus is the due-date status of an order line
type TrackingStatus string

const (
	StatusNoDueDate TrackingStatus = "No Due Date"
	StatusOverdue   TrackingStatus = "Overdue"
	StatusDueSoon   TrackingStatus = "Due Soon"
	StatusOnTrack   TrackingStatus = "On Track"
)

// DueSoonDays is the inclusive window for StatusDueSoon
const DueSoonDays = 7

// UnknownLabel replaces names missing from lookup tables
const UnknownLabel = "Unknown"

// ClassifyTracking returns the status and signed days until due.
// Days is nil only for StatusNoDueDate and negative only for StatusOverdue.
func ClassifyTracking(dueDate *time.Time, today time.Time) (TrackingStatus, *int) {
	if dueDate == nil {
		return StatusNoDueDate, nil
	}

	days := DaysBetween(today, *dueDate)
	if days < 0 {
		return StatusOverdue, &days
	}
	if days <= DueSoonDays {
		return StatusDueSoon, &days
	}
	return StatusOnTrack, &days
}

// TrackingLookups resolves ids to display labels
type TrackingLookups struct {
	BatchNumbers     map[uuid.UUID]int
	CustomerNames    map[uuid.UUID]string
	ProductTypeNames map[uuid.UUID]string
}

func (l TrackingLookups) customerName(id uuid.UUID) string {
	if name, ok := l.CustomerNames[id]; ok {
		return name
	}
	return UnknownLabel
}

func (l TrackingLookups) productTypeName(id uuid.UUID) string {
	if name, ok := l.ProductTypeNames[id]; ok {
		return name
	}
	return UnknownLabel
}

// BuildOrderTracking emits one item per order line. Orders are ordered by
// their most recent line, newest first; orders without lines go last.
func BuildOrderTracking(orders []ledger.Order, lookups TrackingLookups, today time.Time) []OrderTrackingItem {
	sorted := make([]ledger.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		li, okI := sorted[i].LatestPlacedAt()
		lj, okJ := sorted[j].LatestPlacedAt()
		if okI != okJ {
			return okI
		}
		return li.After(lj)
	})

	var items []OrderTrackingItem
	for _, o := range sorted {
		customerName := lookups.customerName(o.CustomerID)
		batchNumber := lookups.BatchNumbers[o.BatchID]

		for _, d := range o.Details {
			var due *time.Time
			if d.DueDate != nil {
				v := *d.DueDate
				due = &v
			}
			status, days := ClassifyTracking(due, today)

			items = append(items, OrderTrackingItem{
				OrderID:         o.ID,
				CustomerID:      o.CustomerID,
				CustomerName:    customerName,
				BatchID:         o.BatchID,
				BatchNumber:     batchNumber,
				ProductTypeID:   d.ProductTypeID,
				ProductTypeName: lookups.productTypeName(d.ProductTypeID),
				Quantity:        d.Quantity,
				Total:           d.Total().OrZero(),
				PlacedAt:        d.PlacedAt,
				DueDate:         due,
				Status:          status,
				DaysUntilDue:    days,
			})
		}
	}
	if items == nil {
		items = []OrderTrackingItem{}
	}
	return items
}

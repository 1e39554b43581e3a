package report

import (
	"time"

	"github.com/batchledger/backend/internal/domain/ledger"
)

// AgingBucket labels how far past due an outstanding charge is
type AgingBucket string

const (
	BucketCurrent   AgingBucket = "Current"
	Bucket1To30     AgingBucket = "1-30"
	Bucket31To60    AgingBucket = "31-60"
	Bucket61To90    AgingBucket = "61-90"
	BucketOver90    AgingBucket = "90+"
	BucketNoDueDate AgingBucket = "No Due Date"
)

// AgingBuckets is the fixed display order of all buckets
var AgingBuckets = []AgingBucket{
	BucketCurrent,
	Bucket1To30,
	Bucket31To60,
	Bucket61To90,
	BucketOver90,
	BucketNoDueDate,
}

// upper bounds in ascending order, first match wins
var agingThresholds = []struct {
	maxDays int
	bucket  AgingBucket
}{
	{30, Bucket1To30},
	{60, Bucket31To60},
	{90, Bucket61To90},
}

// ClassifyAging maps a due date to its bucket relative to today.
// The due date itself is not yet past due.
func ClassifyAging(dueDate *time.Time, today time.Time) AgingBucket {
	if dueDate == nil {
		return BucketNoDueDate
	}

	daysPastDue := DaysBetween(*dueDate, today)
	if daysPastDue <= 0 {
		return BucketCurrent
	}
	for _, th := range agingThresholds {
		if daysPastDue <= th.maxDays {
			return th.bucket
		}
	}
	return BucketOver90
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the whole calendar days from one date to another
func DaysBetween(from, to time.Time) int {
	return int((ledger.DateOf(to).Unix() - ledger.DateOf(from).Unix()) / secondsPerDay)
}

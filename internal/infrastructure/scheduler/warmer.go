package scheduler

import (
	"context"
	"fmt"
	"time"

	reportapp "github.com/batchledger/backend/internal/application/report"
	"github.com/batchledger/backend/internal/domain/report"
)

// Reports is the subset of the report service the warmer drives.
// Per-customer statements are not warmed.
type Reports interface {
	GetBatchUtilization(ctx context.Context) ([]report.BatchUtilizationItem, error)
	GetCustomerBalances(ctx context.Context, asOf *time.Time) ([]report.CustomerBalanceItem, error)
	GetRevenueByProductType(ctx context.Context) ([]report.ProductRevenueItem, error)
	GetCashFlowTimeline(ctx context.Context) (*report.CashFlowReport, error)
	GetOperationalOrderTracking(ctx context.Context, asOf *time.Time) ([]report.OrderTrackingItem, error)
}

// WarmableKinds lists the report kinds a WarmExecutor can build
func WarmableKinds() []string {
	return []string{
		reportapp.KindBatchUtilization,
		reportapp.KindCustomerBalances,
		reportapp.KindRevenueByProductType,
		reportapp.KindCashFlow,
		reportapp.KindOrderTracking,
	}
}

// WarmExecutor fills the report cache by generating reports for today.
// The service returns cached results while they are fresh, so a warm run
// only computes kinds whose entries have expired.
type WarmExecutor struct {
	reports Reports
}

// NewWarmExecutor creates a WarmExecutor
func NewWarmExecutor(reports Reports) *WarmExecutor {
	return &WarmExecutor{reports: reports}
}

// Execute implements JobExecutor
func (e *WarmExecutor) Execute(ctx context.Context, job *Job) error {
	var err error
	switch job.Kind {
	case reportapp.KindBatchUtilization:
		_, err = e.reports.GetBatchUtilization(ctx)
	case reportapp.KindCustomerBalances:
		_, err = e.reports.GetCustomerBalances(ctx, nil)
	case reportapp.KindRevenueByProductType:
		_, err = e.reports.GetRevenueByProductType(ctx)
	case reportapp.KindCashFlow:
		_, err = e.reports.GetCashFlowTimeline(ctx)
	case reportapp.KindOrderTracking:
		_, err = e.reports.GetOperationalOrderTracking(ctx, nil)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownReportKind, job.Kind)
	}
	if err != nil {
		return fmt.Errorf("warm %s: %w", job.Kind, err)
	}
	return nil
}

package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	reportapp "github.com/batchledger/backend/internal/application/report"
	"github.com/batchledger/backend/internal/domain/report"
)

type fakeReports struct {
	mu    sync.Mutex
	calls []string
	asOfs []*time.Time
	err   error
}

func (f *fakeReports) record(kind string, asOf *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, kind)
	f.asOfs = append(f.asOfs, asOf)
	return f.err
}

func (f *fakeReports) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeReports) GetBatchUtilization(context.Context) ([]report.BatchUtilizationItem, error) {
	return nil, f.record(reportapp.KindBatchUtilization, nil)
}

func (f *fakeReports) GetCustomerBalances(_ context.Context, asOf *time.Time) ([]report.CustomerBalanceItem, error) {
	return nil, f.record(reportapp.KindCustomerBalances, asOf)
}

func (f *fakeReports) GetRevenueByProductType(context.Context) ([]report.ProductRevenueItem, error) {
	return nil, f.record(reportapp.KindRevenueByProductType, nil)
}

func (f *fakeReports) GetCashFlowTimeline(context.Context) (*report.CashFlowReport, error) {
	return nil, f.record(reportapp.KindCashFlow, nil)
}

func (f *fakeReports) GetOperationalOrderTracking(_ context.Context, asOf *time.Time) ([]report.OrderTrackingItem, error) {
	return nil, f.record(reportapp.KindOrderTracking, asOf)
}

func TestWarmExecutor_DispatchesByKind(t *testing.T) {
	reports := &fakeReports{}
	exec := NewWarmExecutor(reports)

	for _, kind := range WarmableKinds() {
		require.NoError(t, exec.Execute(context.Background(), NewJob(kind, 0)))
	}

	assert.Equal(t, WarmableKinds(), reports.called())
	for _, asOf := range reports.asOfs {
		assert.Nil(t, asOf)
	}
}

func TestWarmExecutor_UnknownKind(t *testing.T) {
	exec := NewWarmExecutor(&fakeReports{})

	err := exec.Execute(context.Background(), NewJob(reportapp.KindCustomerStatement, 0))
	assert.ErrorIs(t, err, ErrUnknownReportKind)
}

func TestWarmExecutor_WrapsReportError(t *testing.T) {
	cause := errors.New("db down")
	exec := NewWarmExecutor(&fakeReports{err: cause})

	err := exec.Execute(context.Background(), NewJob(reportapp.KindCashFlow, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "warm cash_flow")
}

func TestScheduler_WarmsAllKinds(t *testing.T) {
	reports := &fakeReports{}
	cfg := testConfig()
	cfg.Kinds = WarmableKinds()
	cfg.Interval = time.Hour

	s := NewScheduler(cfg, NewWarmExecutor(reports), zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer stopScheduler(t, s)

	assert.Eventually(t, func() bool {
		return len(reports.called()) == len(WarmableKinds())
	}, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, WarmableKinds(), reports.called())
}

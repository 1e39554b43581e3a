package handler

import (
	"context"
	"time"

	"github.com/batchledger/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockReportGenerator is a mock implementation of ReportGenerator
type MockReportGenerator struct {
	mock.Mock
}

var _ ReportGenerator = (*MockReportGenerator)(nil)

func (m *MockReportGenerator) GetBatchUtilization(ctx context.Context) ([]report.BatchUtilizationItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.BatchUtilizationItem), args.Error(1)
}

func (m *MockReportGenerator) GetCustomerBalances(ctx context.Context, asOf *time.Time) ([]report.CustomerBalanceItem, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.CustomerBalanceItem), args.Error(1)
}

func (m *MockReportGenerator) GetRevenueByProductType(ctx context.Context) ([]report.ProductRevenueItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.ProductRevenueItem), args.Error(1)
}

func (m *MockReportGenerator) GetCashFlowTimeline(ctx context.Context) (*report.CashFlowReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.CashFlowReport), args.Error(1)
}

func (m *MockReportGenerator) GetOperationalOrderTracking(ctx context.Context, asOf *time.Time) ([]report.OrderTrackingItem, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.OrderTrackingItem), args.Error(1)
}

func (m *MockReportGenerator) GetCustomerStatement(ctx context.Context, customerID uuid.UUID) (*report.CustomerStatement, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.CustomerStatement), args.Error(1)
}

// MockPinger is a mock implementation of Pinger
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

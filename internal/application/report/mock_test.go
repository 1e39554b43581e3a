package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/batchledger/backend/internal/domain/ledger"
	"github.com/batchledger/backend/internal/domain/report"
)

// MockSnapshotReader is a mock implementation of report.SnapshotReader
type MockSnapshotReader struct {
	mock.Mock
}

var _ report.SnapshotReader = (*MockSnapshotReader)(nil)

func (m *MockSnapshotReader) FetchBatchesWithOrders(ctx context.Context) ([]ledger.Batch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Batch), args.Error(1)
}

func (m *MockSnapshotReader) FetchCustomersWithOrdersAndPayments(ctx context.Context) ([]ledger.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Customer), args.Error(1)
}

func (m *MockSnapshotReader) FetchCustomerWithOrdersAndPayments(ctx context.Context, id uuid.UUID) (*ledger.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Customer), args.Error(1)
}

func (m *MockSnapshotReader) FetchAllProductTypes(ctx context.Context) ([]ledger.ProductType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.ProductType), args.Error(1)
}

func (m *MockSnapshotReader) FetchAllOrdersWithDetails(ctx context.Context) ([]ledger.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Order), args.Error(1)
}

func (m *MockSnapshotReader) FetchAllPayments(ctx context.Context) ([]ledger.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Payment), args.Error(1)
}

func (m *MockSnapshotReader) FetchBatchIDsToNumbers(ctx context.Context) (map[uuid.UUID]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int), args.Error(1)
}

func (m *MockSnapshotReader) FetchCustomerIDsToNames(ctx context.Context) (map[uuid.UUID]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]string), args.Error(1)
}

func (m *MockSnapshotReader) FetchProductTypeIDsToNames(ctx context.Context) (map[uuid.UUID]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]string), args.Error(1)
}

// MockRecorder is a mock implementation of Recorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordReport(ctx context.Context, kind string, rows int, elapsed time.Duration, err error) {
	m.Called(ctx, kind, rows, elapsed, err)
}

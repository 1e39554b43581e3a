package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/batchledger/backend/internal/domain/ledger"
	"github.com/batchledger/backend/internal/domain/report"
	"github.com/batchledger/backend/internal/domain/shared"
	"github.com/batchledger/backend/internal/domain/shared/valueobject"
	"github.com/batchledger/backend/internal/infrastructure/cache"
)

var (
	today = time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	clock = func() time.Time { return today.Add(18*time.Hour + 30*time.Minute) }
)

func day(offset int) time.Time {
	return today.AddDate(0, 0, offset)
}

func dayPtr(offset int) *time.Time {
	d := day(offset)
	return &d
}

func assertDecimal(t *testing.T, want int64, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, decimal.NewFromInt(want).Equal(got), "want %d got %s %v", want, got, msgAndArgs)
}

func newService(reader *MockSnapshotReader, opts ...Option) *ReportService {
	return NewReportService(reader, append([]Option{WithClock(clock)}, opts...)...)
}

func mustDetail(t *testing.T, productTypeID uuid.UUID, price valueobject.Amount, qty int, placed time.Time, due *time.Time) ledger.OrderDetail {
	t.Helper()
	d, err := ledger.NewOrderDetail(productTypeID, price, qty, placed, due)
	require.NoError(t, err)
	return d
}

// scenarioACustomer has lines of 100 (due day-10) and 50 (due day+5) and one payment of 60
func scenarioACustomer(t *testing.T) ledger.Customer {
	t.Helper()
	c, err := ledger.NewCustomer("Acme", day(-60))
	require.NoError(t, err)

	order := ledger.NewOrder(c.ID, uuid.New())
	order.AddDetail(mustDetail(t, uuid.New(), valueobject.KnownFromInt(100), 1, day(-30), dayPtr(-10)))
	order.AddDetail(mustDetail(t, uuid.New(), valueobject.KnownFromInt(50), 1, day(-20), dayPtr(5)))
	require.NoError(t, c.AddOrder(order))

	p, err := ledger.NewPayment(c.ID, valueobject.KnownFromInt(60), day(-5))
	require.NoError(t, err)
	require.NoError(t, c.AddPayment(p))
	return *c
}

func bucketAmount(item report.CustomerBalanceItem, bucket report.AgingBucket) decimal.Decimal {
	for _, b := range item.Aging {
		if b.BucketName == bucket {
			return b.OutstandingAmount
		}
	}
	return decimal.Zero
}

func TestReportService_GetCustomerBalances(t *testing.T) {
	t.Run("partial payment ages the remainder", func(t *testing.T) {
		reader := new(MockSnapshotReader)
		reader.On("FetchCustomersWithOrdersAndPayments", mock.Anything).
			Return([]ledger.Customer{scenarioACustomer(t)}, nil)

		items, err := newService(reader).GetCustomerBalances(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, items, 1)

		item := items[0]
		assertDecimal(t, 150, item.TotalCharged)
		assertDecimal(t, 60, item.TotalPaid)
		assertDecimal(t, 90, item.Balance)
		assertDecimal(t, 40, bucketAmount(item, report.Bucket1To30))
		assertDecimal(t, 50, bucketAmount(item, report.BucketCurrent))
		require.Len(t, item.Aging, len(report.AgingBuckets))
		for i, b := range item.Aging {
			assert.Equal(t, report.AgingBuckets[i], b.BucketName)
		}
		reader.AssertExpectations(t)
	})

	t.Run("overpaid customer has empty buckets", func(t *testing.T) {
		c, err := ledger.NewCustomer("Globex", day(-10))
		require.NoError(t, err)
		p, err := ledger.NewPayment(c.ID, valueobject.KnownFromInt(10), day(-1))
		require.NoError(t, err)
		require.NoError(t, c.AddPayment(p))

		reader := new(MockSnapshotReader)
		reader.On("FetchCustomersWithOrdersAndPayments", mock.Anything).Return([]ledger.Customer{*c}, nil)

		items, err := newService(reader).GetCustomerBalances(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assertDecimal(t, -10, items[0].Balance)
		for _, b := range items[0].Aging {
			assertDecimal(t, 0, b.OutstandingAmount, b.BucketName)
		}
	})

	t.Run("as-of date overrides the clock", func(t *testing.T) {
		reader := new(MockSnapshotReader)
		reader.On("FetchCustomersWithOrdersAndPayments", mock.Anything).
			Return([]ledger.Customer{scenarioACustomer(t)}, nil)

		asOf := day(40)
		items, err := newService(reader).GetCustomerBalances(context.Background(), &asOf)
		require.NoError(t, err)
		// 50 and 35 days past due
		assertDecimal(t, 90, bucketAmount(items[0], report.Bucket31To60))
		assertDecimal(t, 0, bucketAmount(items[0], report.BucketCurrent))
	})

	t.Run("ordered by customer name", func(t *testing.T) {
		zed, err := ledger.NewCustomer("Zed", day(0))
		require.NoError(t, err)
		abe, err := ledger.NewCustomer("Abe", day(0))
		require.NoError(t, err)

		reader := new(MockSnapshotReader)
		reader.On("FetchCustomersWithOrdersAndPayments", mock.Anything).Return([]ledger.Customer{*zed, *abe}, nil)

		items, err := newService(reader).GetCustomerBalances(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Abe", items[0].CustomerName)
		assert.Equal(t, "Zed", items[1].CustomerName)
	})
}

// unknownPriceLedger is batch 42 with a priced Widget line and an unpriced "None" line, both for Acme
func unknownPriceLedger(t *testing.T) (*ledger.Batch, *ledger.Customer, []ledger.ProductType) {
	t.Helper()
	widget, err := ledger.NewProductType("Widget", valueobject.KnownFromInt(25))
	require.NoError(t, err)
	none := ledger.NewNoneProductType()

	acme, err := ledger.NewCustomer("Acme", day(-90))
	require.NoError(t, err)
	batch, err := ledger.NewBatch(42, 100, day(-60))
	require.NoError(t, err)

	priced, err := batch.PlaceOrder(acme.ID, widget.ID, widget.UnitPrice, 4, day(-10), dayPtr(3))
	require.NoError(t, err)
	unpriced, err := batch.PlaceOrder(acme.ID, none.ID, none.UnitPrice, 6, day(-5), nil)
	require.NoError(t, err)
	require.NoError(t, acme.AddOrder(priced))
	require.NoError(t, acme.AddOrder(unpriced))

	return batch, acme, []ledger.ProductType{*widget, *none}
}

func TestReportService_UnknownPrices(t *testing.T) {
	batch, acme, productTypes := unknownPriceLedger(t)
	widget, none := productTypes[0], productTypes[1]

	t.Run("batch utilization counts unknown totals as zero", func(t *testing.T) {
		reader := new(MockSnapshotReader)
		reader.On("FetchBatchesWithOrders", mock.Anything).Return([]ledger.Batch{*batch}, nil)

		items, err := newService(reader).GetBatchUtilization(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 42, items[0].BatchNumber)
		assert.Equal(t, 2, items[0].OrdersCount)
		assert.Equal(t, 10, items[0].TotalQuantityOrdered)
		assertDecimal(t, 100, items[0].TotalRevenue)
		assert.Equal(t, 90, items[0].RemainingStock)
	})

	t.Run("revenue by product type", func(t *testing.T) {
		reader := new(MockSnapshotReader)
		reader.On("FetchAllOrdersWithDetails", mock.Anything).Return(acme.Orders, nil)
		reader.On("FetchAllProductTypes", mock.Anything).Return(productTypes, nil)

		items, err := newService(reader).GetRevenueByProductType(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, widget.ID, items[0].ProductTypeID)
		assertDecimal(t, 100, items[0].TotalRevenue)
		assertDecimal(t, 25, items[0].AverageUnitPrice)

		assert.Equal(t, none.ID, items[1].ProductTypeID)
		assert.Equal(t, "None", items[1].ProductTypeName)
		assert.Equal(t, 6, items[1].TotalQuantity)
		assertDecimal(t, 0, items[1].TotalRevenue)
		assertDecimal(t, 0, items[1].AverageUnitPrice)
	})

	t.Run("order tracking", func(t *testing.T) {
		reader := new(MockSnapshotReader)
		reader.On("FetchAllOrdersWithDetails", mock.Anything).Return(acme.Orders, nil)
		reader.On("FetchBatchIDsToNumbers", mock.Anything).Return(map[uuid.UUID]int{batch.ID: 42}, nil)
		reader.On("FetchCustomerIDsToNames", mock.Anything).Return(map[uuid.UUID]string{acme.ID: "Acme"}, nil)
		reader.On("FetchProductTypeIDsToNames", mock.Anything).
			Return(map[uuid.UUID]string{widget.ID: "Widget", none.ID: "None"}, nil)

		items, err := newService(reader).GetOperationalOrderTracking(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, items, 2)

		newest := items[0]
		assert.Equal(t, "None", newest.ProductTypeName)
		assert.Equal(t, report.StatusNoDueDate, newest.Status)
		assert.Nil(t, newest.DaysUntilDue)
		assertDecimal(t, 0, newest.Total)

		older := items[1]
		assert.Equal(t, "Acme", older.CustomerName)
		assert.Equal(t, 42, older.BatchNumber)
		assert.Equal(t, report.StatusDueSoon, older.Status)
		require.NotNil(t, older.DaysUntilDue)
		assert.Equal(t, 3, *older.DaysUntilDue)
		assertDecimal(t, 100, older.Total)
	})

	t.Run("customer statement", func(t *testing.T) {
		reader := new(MockSnapshotReader)
		reader.On("FetchCustomerWithOrdersAndPayments", mock.Anything, acme.ID).Return(acme, nil)
		reader.On("FetchBatchIDsToNumbers", mock.Anything).Return(map[uuid.UUID]int{batch.ID: 42}, nil)
		reader.On("FetchProductTypeIDsToNames", mock.Anything).Return(map[uuid.UUID]string{widget.ID: "Widget"}, nil)

		st, err := newService(reader).GetCustomerStatement(context.Background(), acme.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme", st.CustomerName)
		assertDecimal(t, 100, st.TotalCharged)
		assertDecimal(t, 100, st.Balance)
		require.Len(t, st.Orders, 2)
		assert.Equal(t, 42, st.Orders[0].BatchNumber)
		assert.Equal(t, report.UnknownLabel, st.Orders[0].Lines[0].ProductTypeName)
		assert.Nil(t, st.Orders[0].Lines[0].UnitPrice)
	})
}

func TestReportService_OrderTrackingMissingLookups(t *testing.T) {
	order := ledger.NewOrder(uuid.New(), uuid.New())
	order.AddDetail(mustDetail(t, uuid.New(), valueobject.KnownFromInt(5), 2, day(-3), dayPtr(-1)))

	reader := new(MockSnapshotReader)
	reader.On("FetchAllOrdersWithDetails", mock.Anything).Return([]ledger.Order{order}, nil)
	reader.On("FetchBatchIDsToNumbers", mock.Anything).Return(map[uuid.UUID]int{}, nil)
	reader.On("FetchCustomerIDsToNames", mock.Anything).Return(map[uuid.UUID]string{}, nil)
	reader.On("FetchProductTypeIDsToNames", mock.Anything).Return(map[uuid.UUID]string{}, nil)

	items, err := newService(reader).GetOperationalOrderTracking(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 0, items[0].BatchNumber)
	assert.Equal(t, "Unknown", items[0].CustomerName)
	assert.Equal(t, "Unknown", items[0].ProductTypeName)
	assert.Equal(t, report.StatusOverdue, items[0].Status)
	assert.Equal(t, -1, *items[0].DaysUntilDue)
}

func TestReportService_GetCashFlowTimeline(t *testing.T) {
	customerID := uuid.New()
	first := ledger.NewOrder(customerID, uuid.New())
	first.AddDetail(mustDetail(t, uuid.New(), valueobject.KnownFromInt(30), 1, day(-3).Add(9*time.Hour), nil))
	second := ledger.NewOrder(customerID, uuid.New())
	second.AddDetail(mustDetail(t, uuid.New(), valueobject.KnownFromInt(70), 1, day(-3).Add(17*time.Hour), nil))
	payment, err := ledger.NewPayment(customerID, valueobject.KnownFromInt(40), day(-1).Add(11*time.Hour))
	require.NoError(t, err)

	reader := new(MockSnapshotReader)
	reader.On("FetchAllOrdersWithDetails", mock.Anything).Return([]ledger.Order{first, second}, nil)
	reader.On("FetchAllPayments", mock.Anything).Return([]ledger.Payment{payment}, nil)

	r, err := newService(reader).GetCashFlowTimeline(context.Background())
	require.NoError(t, err)
	require.Len(t, r.Timeline, 2)

	assert.True(t, r.Timeline[0].Date.Equal(day(-3)))
	assertDecimal(t, 100, r.Timeline[0].Charged)
	assertDecimal(t, 0, r.Timeline[0].Paid)
	assertDecimal(t, 100, r.Timeline[0].CumulativeCharged)
	assertDecimal(t, 0, r.Timeline[0].CoveragePercentage)

	assert.True(t, r.Timeline[1].Date.Equal(day(-1)))
	assertDecimal(t, 0, r.Timeline[1].Charged)
	assertDecimal(t, 40, r.Timeline[1].Paid)
	assertDecimal(t, 100, r.Timeline[1].CumulativeCharged)
	assertDecimal(t, 40, r.Timeline[1].CumulativePaid)
	assertDecimal(t, 40, r.Timeline[1].CoveragePercentage)

	assertDecimal(t, 100, r.TotalCharged)
	assertDecimal(t, 40, r.TotalPaid)
}

func TestReportService_Errors(t *testing.T) {
	errBoom := errors.New("snapshot unavailable")

	t.Run("fetch errors propagate unchanged", func(t *testing.T) {
		reader := new(MockSnapshotReader)
		reader.On("FetchBatchesWithOrders", mock.Anything).Return(nil, errBoom)

		items, err := newService(reader).GetBatchUtilization(context.Background())
		assert.Nil(t, items)
		assert.Equal(t, errBoom, err)
	})

	t.Run("first failing lookup wins", func(t *testing.T) {
		reader := new(MockSnapshotReader)
		reader.On("FetchAllOrdersWithDetails", mock.Anything).Return([]ledger.Order{}, nil)
		reader.On("FetchBatchIDsToNumbers", mock.Anything).Return(nil, errBoom)
		reader.On("FetchCustomerIDsToNames", mock.Anything).Return(map[uuid.UUID]string{}, nil)
		reader.On("FetchProductTypeIDsToNames", mock.Anything).Return(map[uuid.UUID]string{}, nil)

		items, err := newService(reader).GetOperationalOrderTracking(context.Background(), nil)
		assert.Nil(t, items)
		assert.Equal(t, errBoom, err)
	})

	t.Run("missing customer statement", func(t *testing.T) {
		id := uuid.New()
		reader := new(MockSnapshotReader)
		reader.On("FetchCustomerWithOrdersAndPayments", mock.Anything, id).Return(nil, shared.ErrNotFound)
		reader.On("FetchBatchIDsToNumbers", mock.Anything).Return(map[uuid.UUID]int{}, nil)
		reader.On("FetchProductTypeIDsToNames", mock.Anything).Return(map[uuid.UUID]string{}, nil)

		st, err := newService(reader).GetCustomerStatement(context.Background(), id)
		assert.Nil(t, st)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestReportService_Cancellation(t *testing.T) {
	t.Run("cancelled before fetching", func(t *testing.T) {
		reader := new(MockSnapshotReader)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		svc := newService(reader)
		_, err := svc.GetBatchUtilization(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		_, err = svc.GetCustomerBalances(ctx, nil)
		assert.ErrorIs(t, err, context.Canceled)
		_, err = svc.GetCashFlowTimeline(ctx)
		assert.ErrorIs(t, err, context.Canceled)

		reader.AssertNotCalled(t, "FetchBatchesWithOrders", mock.Anything)
		reader.AssertNotCalled(t, "FetchCustomersWithOrdersAndPayments", mock.Anything)
		reader.AssertNotCalled(t, "FetchAllOrdersWithDetails", mock.Anything)
	})

	t.Run("cancelled after fetching yields no partial report", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		reader := new(MockSnapshotReader)
		reader.On("FetchCustomersWithOrdersAndPayments", mock.Anything).
			Run(func(mock.Arguments) { cancel() }).
			Return([]ledger.Customer{scenarioACustomer(t)}, nil)

		items, err := newService(reader).GetCustomerBalances(ctx, nil)
		assert.Nil(t, items)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestReportService_Idempotent(t *testing.T) {
	batch, acme, productTypes := unknownPriceLedger(t)

	reader := new(MockSnapshotReader)
	reader.On("FetchBatchesWithOrders", mock.Anything).Return([]ledger.Batch{*batch}, nil)
	reader.On("FetchCustomersWithOrdersAndPayments", mock.Anything).Return([]ledger.Customer{*acme}, nil)
	reader.On("FetchAllOrdersWithDetails", mock.Anything).Return(acme.Orders, nil)
	reader.On("FetchAllProductTypes", mock.Anything).Return(productTypes, nil)
	reader.On("FetchAllPayments", mock.Anything).Return([]ledger.Payment{}, nil)
	svc := newService(reader)
	ctx := context.Background()

	u1, err := svc.GetBatchUtilization(ctx)
	require.NoError(t, err)
	u2, err := svc.GetBatchUtilization(ctx)
	require.NoError(t, err)
	assert.Equal(t, u1, u2)

	b1, err := svc.GetCustomerBalances(ctx, nil)
	require.NoError(t, err)
	b2, err := svc.GetCustomerBalances(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)

	r1, err := svc.GetRevenueByProductType(ctx)
	require.NoError(t, err)
	r2, err := svc.GetRevenueByProductType(ctx)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	c1, err := svc.GetCashFlowTimeline(ctx)
	require.NoError(t, err)
	c2, err := svc.GetCashFlowTimeline(ctx)
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
}

func TestReportService_Cache(t *testing.T) {
	batch, _, _ := unknownPriceLedger(t)
	store := cache.NewInMemoryReportCache()
	defer store.Close()

	reader := new(MockSnapshotReader)
	reader.On("FetchBatchesWithOrders", mock.Anything).Return([]ledger.Batch{*batch}, nil).Once()
	svc := newService(reader, WithCache(store, time.Minute))
	ctx := context.Background()

	first, err := svc.GetBatchUtilization(ctx)
	require.NoError(t, err)
	second, err := svc.GetBatchUtilization(ctx)
	require.NoError(t, err)

	require.Len(t, second, 1)
	assert.Equal(t, first[0].BatchID, second[0].BatchID)
	assert.True(t, first[0].TotalRevenue.Equal(second[0].TotalRevenue))
	reader.AssertNumberOfCalls(t, "FetchBatchesWithOrders", 1)
	assert.Equal(t, 1, store.Len())
}

func TestReportService_CacheKeysFollowReportDate(t *testing.T) {
	store := cache.NewInMemoryReportCache()
	defer store.Close()

	reader := new(MockSnapshotReader)
	reader.On("FetchCustomersWithOrdersAndPayments", mock.Anything).
		Return([]ledger.Customer{scenarioACustomer(t)}, nil)
	svc := newService(reader, WithCache(store, time.Minute))
	ctx := context.Background()

	_, err := svc.GetCustomerBalances(ctx, nil)
	require.NoError(t, err)
	asOf := day(1)
	_, err = svc.GetCustomerBalances(ctx, &asOf)
	require.NoError(t, err)

	reader.AssertNumberOfCalls(t, "FetchCustomersWithOrdersAndPayments", 2)
	assert.Equal(t, 2, store.Len())
}

func TestReportService_Recorder(t *testing.T) {
	errBoom := errors.New("boom")

	recorder := new(MockRecorder)
	recorder.On("RecordReport", mock.Anything, KindBatchUtilization, 0, mock.AnythingOfType("time.Duration"), nil).Once()
	recorder.On("RecordReport", mock.Anything, KindCashFlow, 0, mock.AnythingOfType("time.Duration"), errBoom).Once()

	reader := new(MockSnapshotReader)
	reader.On("FetchBatchesWithOrders", mock.Anything).Return([]ledger.Batch{}, nil)
	reader.On("FetchAllOrdersWithDetails", mock.Anything).Return(nil, errBoom)
	reader.On("FetchAllPayments", mock.Anything).Return([]ledger.Payment{}, nil)

	svc := newService(reader, WithRecorder(recorder))
	items, err := svc.GetBatchUtilization(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.GetCashFlowTimeline(context.Background())
	assert.Equal(t, errBoom, err)

	recorder.AssertExpectations(t)
}

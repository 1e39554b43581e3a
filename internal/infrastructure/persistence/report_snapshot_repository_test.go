package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/batchledger/backend/internal/domain/ledger"
	"github.com/batchledger/backend/internal/domain/shared"
	"github.com/batchledger/backend/internal/domain/shared/valueobject"
	"github.com/batchledger/backend/internal/infrastructure/persistence/models"
)

// newSQLiteDB opens a migrated in-memory database on a single connection
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// newMockSnapshotRepository creates a repository over a mocked postgres connection
func newMockSnapshotRepository(t *testing.T) (*GormReportSnapshotRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true, Logger: gormlogger.Discard})
	require.NoError(t, err)

	return NewGormReportSnapshotRepository(gormDB), mock, mockDB
}

type seededLedger struct {
	acme, globex   *ledger.Customer
	widget, none   *ledger.ProductType
	batch42, empty *ledger.Batch
	orders         []ledger.Order
}

func seedLedger(t *testing.T, w *GormLedgerWriter) seededLedger {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	var s seededLedger
	var err error
	s.acme, err = ledger.NewCustomer("Acme", base)
	require.NoError(t, err)
	s.globex, err = ledger.NewCustomer("Globex", base)
	require.NoError(t, err)
	s.widget, err = ledger.NewProductType("Widget", valueobject.KnownFromInt(10))
	require.NoError(t, err)
	s.none = ledger.NewNoneProductType()
	s.batch42, err = ledger.NewBatch(42, 100, base)
	require.NoError(t, err)
	s.empty, err = ledger.NewBatch(43, 0, base.AddDate(0, 0, 1))
	require.NoError(t, err)

	require.NoError(t, w.SaveCustomer(ctx, s.acme))
	require.NoError(t, w.SaveCustomer(ctx, s.globex))
	require.NoError(t, w.SaveProductType(ctx, s.widget))
	require.NoError(t, w.SaveProductType(ctx, s.none))
	require.NoError(t, w.SaveBatch(ctx, s.batch42))
	require.NoError(t, w.SaveBatch(ctx, s.empty))

	due := base.AddDate(0, 0, 30)
	priced, err := s.batch42.PlaceOrder(s.acme.ID, s.widget.ID, s.widget.UnitPrice, 5, base, &due)
	require.NoError(t, err)
	require.NoError(t, w.RecordPlacedOrder(ctx, s.batch42, priced))

	unpriced, err := s.batch42.PlaceOrder(s.acme.ID, s.none.ID, s.none.UnitPrice, 2, base.Add(time.Hour), nil)
	require.NoError(t, err)
	require.NoError(t, w.RecordPlacedOrder(ctx, s.batch42, unpriced))

	payment, err := ledger.NewPayment(s.acme.ID, valueobject.KnownFromInt(20), base.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.NoError(t, w.SavePayment(ctx, payment))

	s.orders = []ledger.Order{priced, unpriced}
	return s
}

func TestGormReportSnapshotRepository_RoundTrip(t *testing.T) {
	db := newSQLiteDB(t)
	s := seedLedger(t, NewGormLedgerWriter(db))
	repo := NewGormReportSnapshotRepository(db)
	ctx := context.Background()

	t.Run("batches with orders", func(t *testing.T) {
		batches, err := repo.FetchBatchesWithOrders(ctx)
		require.NoError(t, err)
		require.Len(t, batches, 2)

		b := batches[0]
		assert.Equal(t, s.batch42.ID, b.ID)
		assert.Equal(t, 42, b.Number)
		assert.Equal(t, 93, b.AvailableStock())
		require.Len(t, b.Orders, 2)
		assert.Equal(t, 7, b.TotalQuantity())
		assert.True(t, b.Revenue().Equal(decimal.NewFromInt(50)))

		assert.Empty(t, batches[1].Orders)
		assert.Equal(t, 0, batches[1].AvailableStock())
	})

	t.Run("customers with orders and payments", func(t *testing.T) {
		customers, err := repo.FetchCustomersWithOrdersAndPayments(ctx)
		require.NoError(t, err)
		require.Len(t, customers, 2)

		acme := customers[0]
		assert.Equal(t, "Acme", acme.Name)
		require.Len(t, acme.Orders, 2)
		require.Len(t, acme.Payments, 1)
		assert.True(t, acme.TotalCharged().Equal(decimal.NewFromInt(50)))
		assert.True(t, acme.Balance().Equal(decimal.NewFromInt(30)))

		assert.Empty(t, customers[1].Orders)
		assert.Empty(t, customers[1].Payments)
	})

	t.Run("order lines keep unknown prices and missing due dates", func(t *testing.T) {
		orders, err := repo.FetchAllOrdersWithDetails(ctx)
		require.NoError(t, err)
		require.Len(t, orders, 2)

		byID := map[uuid.UUID]ledger.Order{}
		for _, o := range orders {
			byID[o.ID] = o
		}
		priced := byID[s.orders[0].ID].Details[0]
		unpriced := byID[s.orders[1].ID].Details[0]

		assert.True(t, priced.UnitPrice.Equal(valueobject.KnownFromInt(10)))
		require.NotNil(t, priced.DueDate)
		assert.Equal(t, "2024-07-01", priced.DueDate.Format("2006-01-02"))
		assert.False(t, unpriced.UnitPrice.IsKnown())
		assert.Nil(t, unpriced.DueDate)
	})

	t.Run("single customer", func(t *testing.T) {
		c, err := repo.FetchCustomerWithOrdersAndPayments(ctx, s.acme.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme", c.Name)
		assert.Len(t, c.Orders, 2)

		_, err = repo.FetchCustomerWithOrdersAndPayments(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("catalog and payments", func(t *testing.T) {
		types, err := repo.FetchAllProductTypes(ctx)
		require.NoError(t, err)
		require.Len(t, types, 2)
		assert.Equal(t, ledger.NoneProductTypeName, types[0].Name)
		assert.False(t, types[0].UnitPrice.IsKnown())

		payments, err := repo.FetchAllPayments(ctx)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.True(t, payments[0].PaidAmount.Equal(valueobject.KnownFromInt(20)))
	})

	t.Run("lookups", func(t *testing.T) {
		numbers, err := repo.FetchBatchIDsToNumbers(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[uuid.UUID]int{s.batch42.ID: 42, s.empty.ID: 43}, numbers)

		names, err := repo.FetchCustomerIDsToNames(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[uuid.UUID]string{s.acme.ID: "Acme", s.globex.ID: "Globex"}, names)

		typeNames, err := repo.FetchProductTypeIDsToNames(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Widget", typeNames[s.widget.ID])
		assert.Equal(t, "None", typeNames[s.none.ID])
	})
}

func TestGormReportSnapshotRepository_Cancelled(t *testing.T) {
	repo := NewGormReportSnapshotRepository(newSQLiteDB(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FetchBatchesWithOrders(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.FetchCustomerIDsToNames(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.FetchCustomerWithOrdersAndPayments(ctx, uuid.New())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGormReportSnapshotRepository_QueryErrors(t *testing.T) {
	errBoom := errors.New("connection reset by peer")

	t.Run("payments", func(t *testing.T) {
		repo, mock, mockDB := newMockSnapshotRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "payments"`).WillReturnError(errBoom)

		payments, err := repo.FetchAllPayments(context.Background())
		assert.Nil(t, payments)
		assert.ErrorIs(t, err, errBoom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("batch lookup", func(t *testing.T) {
		repo, mock, mockDB := newMockSnapshotRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT .* FROM "batches"`).WillReturnError(errBoom)

		_, err := repo.FetchBatchIDsToNumbers(context.Background())
		assert.ErrorIs(t, err, errBoom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing customer", func(t *testing.T) {
		repo, mock, mockDB := newMockSnapshotRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1`).
			WithArgs(id, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

		_, err := repo.FetchCustomerWithOrdersAndPayments(context.Background(), id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

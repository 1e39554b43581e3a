package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/batchledger/backend/internal/domain/ledger"
	"github.com/batchledger/backend/internal/domain/report"
	"github.com/batchledger/backend/internal/domain/shared"
	"github.com/batchledger/backend/internal/infrastructure/persistence/models"
)

// GormReportSnapshotRepository implements report.SnapshotReader using GORM.
// Every fetch is read-only and eagerly loads child collections.
type GormReportSnapshotRepository struct {
	db *gorm.DB
}

// NewGormReportSnapshotRepository creates a new GormReportSnapshotRepository
func NewGormReportSnapshotRepository(db *gorm.DB) *GormReportSnapshotRepository {
	return &GormReportSnapshotRepository{db: db}
}

var _ report.SnapshotReader = (*GormReportSnapshotRepository)(nil)

func orderedOrders(db *gorm.DB) *gorm.DB {
	return db.Order("created_at, id")
}

func orderedDetails(db *gorm.DB) *gorm.DB {
	return db.Order("placed_at, id")
}

func orderedPayments(db *gorm.DB) *gorm.DB {
	return db.Order("payment_date, id")
}

// query starts a context-bound session, failing fast on a dead context
func (r *GormReportSnapshotRepository) query(ctx context.Context) (*gorm.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.db.WithContext(ctx), nil
}

// fetchError reports the context error when the fetch was cut short by cancellation
func fetchError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// FetchBatchesWithOrders returns all batches with orders and order lines
func (r *GormReportSnapshotRepository) FetchBatchesWithOrders(ctx context.Context) ([]ledger.Batch, error) {
	db, err := r.query(ctx)
	if err != nil {
		return nil, err
	}
	var rows []models.BatchModel
	if err := db.
		Preload("Orders", orderedOrders).
		Preload("Orders.Details", orderedDetails).
		Order("number").
		Find(&rows).Error; err != nil {
		return nil, fetchError(ctx, err)
	}

	batches := make([]ledger.Batch, 0, len(rows))
	for i := range rows {
		batches = append(batches, *rows[i].ToDomain())
	}
	return batches, nil
}

// FetchCustomersWithOrdersAndPayments returns all customers with orders, lines and payments
func (r *GormReportSnapshotRepository) FetchCustomersWithOrdersAndPayments(ctx context.Context) ([]ledger.Customer, error) {
	db, err := r.query(ctx)
	if err != nil {
		return nil, err
	}
	var rows []models.CustomerModel
	if err := preloadCustomer(db).Order("name, id").Find(&rows).Error; err != nil {
		return nil, fetchError(ctx, err)
	}

	customers := make([]ledger.Customer, 0, len(rows))
	for i := range rows {
		customers = append(customers, *rows[i].ToDomain())
	}
	return customers, nil
}

// FetchCustomerWithOrdersAndPayments returns one customer, or shared.ErrNotFound
func (r *GormReportSnapshotRepository) FetchCustomerWithOrdersAndPayments(ctx context.Context, id uuid.UUID) (*ledger.Customer, error) {
	db, err := r.query(ctx)
	if err != nil {
		return nil, err
	}
	var row models.CustomerModel
	if err := preloadCustomer(db).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fetchError(ctx, err)
	}
	return row.ToDomain(), nil
}

func preloadCustomer(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Orders", orderedOrders).
		Preload("Orders.Details", orderedDetails).
		Preload("Payments", orderedPayments)
}

// FetchAllProductTypes returns the product catalog
func (r *GormReportSnapshotRepository) FetchAllProductTypes(ctx context.Context) ([]ledger.ProductType, error) {
	db, err := r.query(ctx)
	if err != nil {
		return nil, err
	}
	var rows []models.ProductTypeModel
	if err := db.Order("name, id").Find(&rows).Error; err != nil {
		return nil, fetchError(ctx, err)
	}

	types := make([]ledger.ProductType, 0, len(rows))
	for i := range rows {
		types = append(types, rows[i].ToDomain())
	}
	return types, nil
}

// FetchAllOrdersWithDetails returns every order with its lines
func (r *GormReportSnapshotRepository) FetchAllOrdersWithDetails(ctx context.Context) ([]ledger.Order, error) {
	db, err := r.query(ctx)
	if err != nil {
		return nil, err
	}
	var rows []models.OrderModel
	if err := orderedOrders(db.Preload("Details", orderedDetails)).Find(&rows).Error; err != nil {
		return nil, fetchError(ctx, err)
	}

	orders := make([]ledger.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, rows[i].ToDomain())
	}
	return orders, nil
}

// FetchAllPayments returns every payment
func (r *GormReportSnapshotRepository) FetchAllPayments(ctx context.Context) ([]ledger.Payment, error) {
	db, err := r.query(ctx)
	if err != nil {
		return nil, err
	}
	var rows []models.PaymentModel
	if err := orderedPayments(db).Find(&rows).Error; err != nil {
		return nil, fetchError(ctx, err)
	}

	payments := make([]ledger.Payment, 0, len(rows))
	for i := range rows {
		payments = append(payments, rows[i].ToDomain())
	}
	return payments, nil
}

// FetchBatchIDsToNumbers returns the batch number lookup
func (r *GormReportSnapshotRepository) FetchBatchIDsToNumbers(ctx context.Context) (map[uuid.UUID]int, error) {
	db, err := r.query(ctx)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID     uuid.UUID
		Number int
	}
	if err := db.Model(&models.BatchModel{}).Select("id", "number").Scan(&rows).Error; err != nil {
		return nil, fetchError(ctx, err)
	}

	lookup := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		lookup[row.ID] = row.Number
	}
	return lookup, nil
}

// FetchCustomerIDsToNames returns the customer name lookup
func (r *GormReportSnapshotRepository) FetchCustomerIDsToNames(ctx context.Context) (map[uuid.UUID]string, error) {
	return r.fetchNames(ctx, &models.CustomerModel{})
}

// FetchProductTypeIDsToNames returns the product type name lookup
func (r *GormReportSnapshotRepository) FetchProductTypeIDsToNames(ctx context.Context) (map[uuid.UUID]string, error) {
	return r.fetchNames(ctx, &models.ProductTypeModel{})
}

func (r *GormReportSnapshotRepository) fetchNames(ctx context.Context, model any) (map[uuid.UUID]string, error) {
	db, err := r.query(ctx)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID   uuid.UUID
		Name string
	}
	if err := db.Model(model).Select("id", "name").Scan(&rows).Error; err != nil {
		return nil, fetchError(ctx, err)
	}

	lookup := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		lookup[row.ID] = row.Name
	}
	return lookup, nil
}

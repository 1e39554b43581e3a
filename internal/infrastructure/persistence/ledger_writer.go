package persistence

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/batchledger/backend/internal/domain/ledger"
	"github.com/batchledger/backend/internal/infrastructure/persistence/models"
)

// GormLedgerWriter persists ledger entities. Reporting never writes; the
// writer exists for seeding and for tests that build a snapshot.
type GormLedgerWriter struct {
	db *gorm.DB
}

// NewGormLedgerWriter creates a new GormLedgerWriter
func NewGormLedgerWriter(db *gorm.DB) *GormLedgerWriter {
	return &GormLedgerWriter{db: db}
}

// SaveProductType creates or updates a product type
func (w *GormLedgerWriter) SaveProductType(ctx context.Context, pt *ledger.ProductType) error {
	var m models.ProductTypeModel
	m.FromDomain(pt)
	return w.db.WithContext(ctx).Save(&m).Error
}

// SaveCustomer creates or updates the customer row without its orders or payments
func (w *GormLedgerWriter) SaveCustomer(ctx context.Context, c *ledger.Customer) error {
	var m models.CustomerModel
	m.FromDomain(c)
	return w.db.WithContext(ctx).Omit(clause.Associations).Save(&m).Error
}

// SaveBatch creates or updates the batch row and its stock counter
func (w *GormLedgerWriter) SaveBatch(ctx context.Context, b *ledger.Batch) error {
	var m models.BatchModel
	m.FromDomain(b)
	return w.db.WithContext(ctx).Omit(clause.Associations).Save(&m).Error
}

// SaveOrder inserts an order together with its lines
func (w *GormLedgerWriter) SaveOrder(ctx context.Context, o ledger.Order) error {
	return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createOrder(tx, o)
	})
}

// RecordPlacedOrder stores an order returned by Batch.PlaceOrder along with the
// batch's reduced stock, in one transaction.
func (w *GormLedgerWriter) RecordPlacedOrder(ctx context.Context, b *ledger.Batch, o ledger.Order) error {
	return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bm models.BatchModel
		bm.FromDomain(b)
		if err := tx.Omit(clause.Associations).Save(&bm).Error; err != nil {
			return err
		}
		return createOrder(tx, o)
	})
}

func createOrder(tx *gorm.DB, o ledger.Order) error {
	var m models.OrderModel
	m.FromDomain(o)
	details := m.Details
	m.Details = nil
	if err := tx.Create(&m).Error; err != nil {
		return err
	}
	if len(details) == 0 {
		return nil
	}
	return tx.Create(&details).Error
}

// SavePayment inserts a payment
func (w *GormLedgerWriter) SavePayment(ctx context.Context, p ledger.Payment) error {
	var m models.PaymentModel
	m.FromDomain(p)
	return w.db.WithContext(ctx).Create(&m).Error
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/batchledger/backend/internal/domain/shared"
	"github.com/batchledger/backend/internal/domain/shared/valueobject"
)

// BaseModel provides common persistence fields for all ledger tables.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.NewBaseEntityWithID(m.ID)
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
}

// nullDecimal stores an unknown amount as NULL
func nullDecimal(a valueobject.Amount) decimal.NullDecimal {
	v, ok := a.Value()
	return decimal.NullDecimal{Decimal: v, Valid: ok}
}

// amountOf reads a nullable column back as an Amount
func amountOf(n decimal.NullDecimal) valueobject.Amount {
	if !n.Valid {
		return valueobject.Unknown()
	}
	return valueobject.Known(n.Decimal)
}

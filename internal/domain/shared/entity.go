package shared

import (
	"github.com/google/uuid"
)

// BaseEntity provides the identity shared by all ledger entities
type BaseEntity struct {
	ID uuid.UUID
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	return BaseEntity{ID: uuid.New()}
}

// NewBaseEntityWithID restores an entity identity, e.g. when loading from storage
func NewBaseEntityWithID(id uuid.UUID) BaseEntity {
	return BaseEntity{ID: id}
}

package ledger

import (
	"strings"

	"github.com/batchledger/backend/internal/domain/shared"
	"github.com/batchledger/backend/internal/domain/shared/valueobject"
)

// NoneProductTypeName names the catalog entry that intentionally has no price
const NoneProductTypeName = "None"

// ProductType is a catalog entry with an optional list price
type ProductType struct {
	shared.BaseEntity
	Name      string
	UnitPrice valueobject.Amount
}

// NewProductType creates a product type; pass valueobject.Unknown() for an unpriced type
func NewProductType(name string, unitPrice valueobject.Amount) (*ProductType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidProductName
	}
	return &ProductType{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		UnitPrice:  unitPrice,
	}, nil
}

// NewNoneProductType returns the unpriced placeholder product type
func NewNoneProductType() *ProductType {
	return &ProductType{
		BaseEntity: shared.NewBaseEntity(),
		Name:       NoneProductTypeName,
		UnitPrice:  valueobject.Unknown(),
	}
}

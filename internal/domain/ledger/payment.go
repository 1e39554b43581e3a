package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/batchledger/backend/internal/domain/shared"
	"github.com/batchledger/backend/internal/domain/shared/valueobject"
)

// Payment is money received from a customer. Allocation ignores PaymentDate;
// only the cash-flow timeline uses it.
type Payment struct {
	shared.BaseEntity
	CustomerID  uuid.UUID
	PaidAmount  valueobject.Amount
	PaymentDate time.Time
}

// NewPayment records a payment; the amount must be known and positive
func NewPayment(customerID uuid.UUID, paidAmount valueobject.Amount, paymentDate time.Time) (Payment, error) {
	if !paidAmount.IsPositive() {
		return Payment{}, ErrNonPositivePayment
	}
	return Payment{
		BaseEntity:  shared.NewBaseEntity(),
		CustomerID:  customerID,
		PaidAmount:  paidAmount,
		PaymentDate: paymentDate,
	}, nil
}

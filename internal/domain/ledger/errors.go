package ledger

import "github.com/batchledger/backend/internal/domain/shared"

// Ledger validation errors
var (
	ErrInvalidCustomerName = shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name must be between 1 and 100 characters")
	ErrCustomerMismatch    = shared.NewDomainError("CUSTOMER_MISMATCH", "Record belongs to a different customer")
	ErrInvalidBatchNumber  = shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number must be positive")
	ErrNegativeStock       = shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	ErrBatchClosed         = shared.NewDomainError("BATCH_CLOSED", "Batch is closed for new orders")
	ErrBatchMismatch       = shared.NewDomainError("BATCH_MISMATCH", "Order belongs to a different batch")
	ErrInvalidQuantity     = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	ErrInvalidDueDate      = shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot precede the placement date")
	ErrNonPositivePayment  = shared.NewDomainError("INVALID_PAYMENT_AMOUNT", "Paid amount must be greater than zero")
	ErrInvalidProductName  = shared.NewDomainError("INVALID_PRODUCT_NAME", "Product type name is required")
)

package valueobject

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value that may be unknown.
// A product type without a configured price yields unknown line totals;
// callers decide where an unknown amount collapses to zero via OrZero.
// Amount is immutable - all operations return new instances.
type Amount struct {
	value decimal.Decimal
	known bool
}

// Known creates a known amount
func Known(value decimal.Decimal) Amount {
	return Amount{value: value, known: true}
}

// KnownFromInt creates a known amount from an integer
func KnownFromInt(value int64) Amount {
	return Known(decimal.NewFromInt(value))
}

// KnownFromString parses a decimal string into a known amount
func KnownFromString(value string) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return Known(d), nil
}

// Unknown returns an amount with no value
func Unknown() Amount {
	return Amount{}
}

// FromNullable maps a nil pointer to Unknown
func FromNullable(value *decimal.Decimal) Amount {
	if value == nil {
		return Unknown()
	}
	return Known(*value)
}

// IsKnown reports whether the amount carries a value
func (a Amount) IsKnown() bool {
	return a.known
}

// Value returns the underlying decimal and whether it is known
func (a Amount) Value() (decimal.Decimal, bool) {
	return a.value, a.known
}

// OrZero substitutes zero for an unknown amount
func (a Amount) OrZero() decimal.Decimal {
	if !a.known {
		return decimal.Zero
	}
	return a.value
}

// Ptr returns nil for unknown amounts
func (a Amount) Ptr() *decimal.Decimal {
	if !a.known {
		return nil
	}
	v := a.value
	return &v
}

// Add returns the sum; unknown if either operand is unknown
func (a Amount) Add(other Amount) Amount {
	if !a.known || !other.known {
		return Unknown()
	}
	return Known(a.value.Add(other.value))
}

// Sub returns the difference; unknown if either operand is unknown
func (a Amount) Sub(other Amount) Amount {
	if !a.known || !other.known {
		return Unknown()
	}
	return Known(a.value.Sub(other.value))
}

// MulInt multiplies by an integer quantity
func (a Amount) MulInt(n int) Amount {
	if !a.known {
		return Unknown()
	}
	return Known(a.value.Mul(decimal.NewFromInt(int64(n))))
}

// IsPositive reports whether the amount is known and greater than zero
func (a Amount) IsPositive() bool {
	return a.known && a.value.IsPositive()
}

// Equal compares two amounts; two unknown amounts are equal
func (a Amount) Equal(other Amount) bool {
	if a.known != other.known {
		return false
	}
	return !a.known || a.value.Equal(other.value)
}

// String returns the decimal string, or "unknown"
func (a Amount) String() string {
	if !a.known {
		return "unknown"
	}
	return a.value.String()
}

// SumOrZero adds amounts after substituting zero for unknown ones
func SumOrZero(amounts ...Amount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.OrZero())
	}
	return total
}

// MarshalJSON encodes unknown as null
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.known {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}

// UnmarshalJSON decodes null as unknown
func (a *Amount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = Unknown()
		return nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	*a = Known(d)
	return nil
}

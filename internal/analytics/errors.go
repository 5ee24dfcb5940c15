package analytics

import (
	"errors"
	"fmt"
)

// Invalid is the value every operation returns alongside a non-nil error.
const Invalid = -1.0

var (
	ErrUnknownStockType = errors.New("unknown stock type")
	ErrNegativeValue    = errors.New("negative value")
	ErrArithmetic       = errors.New("arithmetic fault")
	ErrTypeFault        = errors.New("type fault")
)

var (
	errDivisionByZero = fmt.Errorf("%w: division by zero", ErrArithmetic)
	errNotFinite      = fmt.Errorf("%w: result is not finite", ErrArithmetic)
)

// KindOf labels err with the failure kind it wraps.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownStockType):
		return "unknown_stock_type"
	case errors.Is(err, ErrNegativeValue):
		return "negative_value"
	case errors.Is(err, ErrArithmetic):
		return "arithmetic"
	case errors.Is(err, ErrTypeFault):
		return "type_fault"
	default:
		return "other"
	}
}

package marketdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrMissing    = errors.New("value is missing")
	ErrNotNumeric = errors.New("value is not numeric")
)

// Figure is a numeric stock attribute as supplied by the caller or a
// registry file. The zero Figure is missing.
type Figure struct {
	raw any
}

func Num(v float64) Figure {
	return Figure{raw: v}
}

// RawFigure wraps an arbitrary decoded value without checking its kind.
func RawFigure(v any) Figure {
	return Figure{raw: v}
}

func (f Figure) IsMissing() bool {
	return f.raw == nil
}

func (f Figure) Raw() any {
	return f.raw
}

// Float64 converts the figure for arithmetic. NaN is reported as not numeric.
func (f Figure) Float64() (float64, error) {
	var v float64
	switch n := f.raw.(type) {
	case nil:
		return 0, ErrMissing
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int8:
		v = float64(n)
	case int16:
		v = float64(n)
	case int32:
		v = float64(n)
	case int64:
		v = float64(n)
	case uint:
		v = float64(n)
	case uint8:
		v = float64(n)
	case uint16:
		v = float64(n)
	case uint32:
		v = float64(n)
	case uint64:
		v = float64(n)
	case decimal.Decimal:
		v = n.InexactFloat64()
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotNumeric, n.String())
		}
		v = parsed
	default:
		return 0, fmt.Errorf("%w: %T %v", ErrNotNumeric, f.raw, f.raw)
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("%w: NaN", ErrNotNumeric)
	}
	return v, nil
}

func (f Figure) String() string {
	if f.raw == nil {
		return "<missing>"
	}
	return fmt.Sprint(f.raw)
}

// ParseStockType accepts "common" and "preferred" in any case.
func ParseStockType(name string) StockType {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "common":
		return Common
	case "preferred":
		return Preferred
	default:
		return UnknownStockType
	}
}

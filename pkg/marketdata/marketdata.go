package marketdata

import (
	"time"

	"github.com/google/uuid"
)

type StockType int

const (
	Common StockType = iota
	Preferred
)

// UnknownStockType is what ParseStockType yields for names it does not know.
const UnknownStockType StockType = -1

func (t StockType) String() string {
	switch t {
	case Common:
		return "common"
	case Preferred:
		return "preferred"
	default:
		return "unknown"
	}
}

func (t StockType) Valid() bool {
	return t == Common || t == Preferred
}

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

// Stock is the static description of a listed security. Fields are read-only
// once constructed; the Figures may still hold missing or non-numeric values
// copied verbatim from a registry.
type Stock struct {
	symbol        string
	stockType     StockType
	lastDividend  Figure
	fixedDividend Figure
	parValue      Figure
}

func NewStock(symbol string, stockType StockType, lastDividend, fixedDividend, parValue Figure) *Stock {
	return &Stock{
		symbol:        symbol,
		stockType:     stockType,
		lastDividend:  lastDividend,
		fixedDividend: fixedDividend,
		parValue:      parValue,
	}
}

func (s *Stock) Symbol() string        { return s.symbol }
func (s *Stock) Type() StockType       { return s.stockType }
func (s *Stock) LastDividend() Figure  { return s.lastDividend }
func (s *Stock) FixedDividend() Figure { return s.fixedDividend }
func (s *Stock) ParValue() Figure      { return s.parValue }

// TradeRecord is one executed trade. Stock is shared with every other trade
// in the same security.
type TradeRecord struct {
	ID        uuid.UUID
	Stock     *Stock
	Timestamp time.Time
	Quantity  float64
	Side      Side
	Price     float64
}

// Symbol returns the traded stock's symbol, or "" when the trade carries no stock.
func (t TradeRecord) Symbol() string {
	if t.Stock == nil {
		return ""
	}
	return t.Stock.symbol
}

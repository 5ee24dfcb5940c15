// Package analytics computes dividend yield, P/E ratio, volume weighted stock
// price and the All Share Index over an in-memory trade book.
//
// Operations never panic on bad data. A failed calculation returns Invalid and
// an error wrapping one of ErrUnknownStockType, ErrNegativeValue,
// ErrArithmetic or ErrTypeFault; the same failure is also handed to the
// book's diagnostic hook.
package analytics

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/metrics"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
)

// DefaultWindow is how far back VolumeWeightedStockPrice looks.
const DefaultWindow = 5 * time.Minute

// DiagnosticFunc receives a description of every failed calculation.
type DiagnosticFunc func(msg string)

type Option func(*TradeBook)

func WithClock(clock clockwork.Clock) Option {
	return func(b *TradeBook) {
		b.clock = clock
	}
}

func WithDiagnostics(fn DiagnosticFunc) Option {
	return func(b *TradeBook) {
		if fn != nil {
			b.diagnostic = fn
		}
	}
}

// WithWindow overrides DefaultWindow. Non-positive durations are ignored.
func WithWindow(window time.Duration) Option {
	return func(b *TradeBook) {
		if window > 0 {
			b.window = window
		}
	}
}

// TradeBook is an append-only trade history. It is safe for concurrent use:
// every calculation works on a copy of the history taken under one lock.
type TradeBook struct {
	mutex      sync.RWMutex
	trades     []marketdata.TradeRecord
	clock      clockwork.Clock
	window     time.Duration
	diagnostic DiagnosticFunc
}

func NewTradeBook(opts ...Option) *TradeBook {
	b := &TradeBook{
		clock:      clockwork.NewRealClock(),
		window:     DefaultWindow,
		diagnostic: func(string) {},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RecordTrade appends a trade stamped with the book clock's current time.
func (b *TradeBook) RecordTrade(stock *marketdata.Stock, quantity float64, side marketdata.Side, price float64) marketdata.TradeRecord {
	return b.RecordTradeAt(stock, quantity, side, price, b.clock.Now())
}

// RecordTradeAt appends a trade with an explicit timestamp. Nothing is
// validated here; bad quantities and prices are rejected by the calculations
// that would be distorted by them.
func (b *TradeBook) RecordTradeAt(stock *marketdata.Stock, quantity float64, side marketdata.Side, price float64, ts time.Time) marketdata.TradeRecord {
	trade := marketdata.TradeRecord{
		ID:        uuid.New(),
		Stock:     stock,
		Timestamp: ts,
		Quantity:  quantity,
		Side:      side,
		Price:     price,
	}

	b.mutex.Lock()
	b.trades = append(b.trades, trade)
	metrics.TradeBookSize.Set(float64(len(b.trades)))
	b.mutex.Unlock()

	metrics.TradesRecordedTotal.Inc()
	return trade
}

// Trades returns a copy of the history in recording order.
func (b *TradeBook) Trades() []marketdata.TradeRecord {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	trades := make([]marketdata.TradeRecord, len(b.trades))
	copy(trades, b.trades)
	return trades
}

func (b *TradeBook) Len() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.trades)
}

// LastTrade returns the most recently recorded trade in stock.
func (b *TradeBook) LastTrade(stock *marketdata.Stock) (marketdata.TradeRecord, bool) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	for i := len(b.trades) - 1; i >= 0; i-- {
		if b.trades[i].Stock == stock {
			return b.trades[i], true
		}
	}
	return marketdata.TradeRecord{}, false
}

func (b *TradeBook) Window() time.Duration {
	return b.window
}

func (b *TradeBook) Now() time.Time {
	return b.clock.Now()
}

func (b *TradeBook) fail(operation string, started time.Time, err error) (float64, error) {
	metrics.ObserveCalculation(operation, KindOf(err), started)
	b.diagnostic(err.Error())
	return Invalid, err
}

func (b *TradeBook) succeed(operation string, started time.Time, value float64) (float64, error) {
	metrics.ObserveCalculation(operation, "", started)
	return value, nil
}

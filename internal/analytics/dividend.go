package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
)

const (
	opDividendYield = "dividend_yield"
	opPERatio       = "pe_ratio"
)

// DividendYield returns the stock's dividend divided by price. A common
// stock's dividend is its last dividend; a preferred stock's dividend is
// fixed dividend times par value, with the fixed dividend used as a plain
// multiplier.
//
// A zero dividend yields 0 for any non-zero price, negative prices included.
// A zero price always fails with ErrArithmetic.
func (b *TradeBook) DividendYield(stock *marketdata.Stock, price float64) (float64, error) {
	started := time.Now()
	yield, err := dividendYield(stock, price)
	if err != nil {
		return b.fail(opDividendYield, started, fmt.Errorf("DividendYield(%s, %g): %w", symbolOf(stock), price, err))
	}
	return b.succeed(opDividendYield, started, yield)
}

// PERatio returns price divided by the stock's last dividend. Unlike
// DividendYield a zero price is a valid input and yields 0.
func (b *TradeBook) PERatio(stock *marketdata.Stock, price float64) (float64, error) {
	started := time.Now()
	ratio, err := peRatio(stock, price)
	if err != nil {
		return b.fail(opPERatio, started, fmt.Errorf("PERatio(%s, %g): %w", symbolOf(stock), price, err))
	}
	return b.succeed(opPERatio, started, ratio)
}

func dividendYield(stock *marketdata.Stock, price float64) (float64, error) {
	if stock == nil {
		return 0, fmt.Errorf("%w: no stock", ErrTypeFault)
	}
	if math.IsNaN(price) {
		return 0, fmt.Errorf("%w: price is NaN", ErrTypeFault)
	}

	var dividend float64
	switch stock.Type() {
	case marketdata.Common:
		last, err := operand("last dividend", stock.LastDividend())
		if err != nil {
			return 0, err
		}
		dividend = last
	case marketdata.Preferred:
		fixed, err := operand("fixed dividend", stock.FixedDividend())
		if err != nil {
			return 0, err
		}
		par, err := operand("par value", stock.ParValue())
		if err != nil {
			return 0, err
		}
		dividend = fixed * par
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownStockType, int(stock.Type()))
	}

	return divide(dividend, price)
}

func peRatio(stock *marketdata.Stock, price float64) (float64, error) {
	if stock == nil {
		return 0, fmt.Errorf("%w: no stock", ErrTypeFault)
	}
	if math.IsNaN(price) {
		return 0, fmt.Errorf("%w: price is NaN", ErrTypeFault)
	}
	last, err := operand("last dividend", stock.LastDividend())
	if err != nil {
		return 0, err
	}
	return divide(price, last)
}

func operand(name string, figure marketdata.Figure) (float64, error) {
	v, err := figure.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrTypeFault, name, err)
	}
	return v, nil
}

// divide rejects zero divisors, negative quotients and quotients that are
// not finite. Negative zero comes back as 0.
func divide(numerator, denominator float64) (float64, error) {
	if denominator == 0 {
		return 0, errDivisionByZero
	}
	quotient := numerator / denominator
	if math.IsNaN(quotient) || math.IsInf(quotient, 0) {
		return 0, errNotFinite
	}
	if quotient < 0 {
		return 0, fmt.Errorf("%w: %g", ErrNegativeValue, quotient)
	}
	if quotient == 0 {
		return 0, nil
	}
	return quotient, nil
}

func symbolOf(stock *marketdata.Stock) string {
	if stock == nil {
		return "<nil>"
	}
	return stock.Symbol()
}

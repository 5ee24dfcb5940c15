package analytics

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/aggregator"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
)

const (
	opCalculateVWSP = "calculate_vwsp"
	opVWSP          = "vwsp"
	opAllShareIndex = "all_share_index"
)

// CalculateVolumeWeightedStockPrice returns Σ(price×quantity) / Σ(quantity)
// over a price→quantity mapping.
func (b *TradeBook) CalculateVolumeWeightedStockPrice(priceQuantity map[float64]float64) (float64, error) {
	started := time.Now()
	price, err := volumeWeighted(priceQuantity)
	if err != nil {
		return b.fail(opCalculateVWSP, started, fmt.Errorf("CalculateVolumeWeightedStockPrice(%d prices): %w", len(priceQuantity), err))
	}
	return b.succeed(opCalculateVWSP, started, price)
}

// VolumeWeightedStockPrice prices stock from its trades strictly inside the
// window ending now. Trades stamped exactly now, or exactly one window ago,
// are left out.
func (b *TradeBook) VolumeWeightedStockPrice(stock *marketdata.Stock) (float64, error) {
	started := time.Now()
	if stock == nil {
		return b.fail(opVWSP, started, fmt.Errorf("VolumeWeightedStockPrice(<nil>): %w: no stock", ErrTypeFault))
	}

	now := b.clock.Now()
	from := now.Add(-b.window)

	ladder := make(aggregator.Ladder)
	for _, trade := range b.Trades() {
		if trade.Stock == stock && trade.Timestamp.After(from) && trade.Timestamp.Before(now) {
			ladder.Add(trade.Price, trade.Quantity)
		}
	}

	price, err := volumeWeighted(ladder)
	if err != nil {
		return b.fail(opVWSP, started, fmt.Errorf("VolumeWeightedStockPrice(%s, last %s): %w", stock.Symbol(), b.window, err))
	}
	return b.succeed(opVWSP, started, price)
}

// AllShareIndex is the geometric mean of every traded stock's volume weighted
// price over the whole history. The first stock that cannot be priced fails
// the index.
func (b *TradeBook) AllShareIndex() (float64, error) {
	started := time.Now()
	index, err := b.allShareIndex()
	if err != nil {
		return b.fail(opAllShareIndex, started, fmt.Errorf("AllShareIndex: %w", err))
	}
	return b.succeed(opAllShareIndex, started, index)
}

func (b *TradeBook) allShareIndex() (float64, error) {
	groups := aggregator.GroupBySymbol(b.Trades())

	product, logSum := 1.0, 0.0
	var zero bool
	for _, group := range groups {
		for _, trade := range group.Trades {
			if trade.Stock == nil {
				return 0, fmt.Errorf("%w: trade %s has no stock", ErrTypeFault, trade.ID)
			}
		}
		price, err := volumeWeighted(aggregator.FromTrades(group.Trades))
		if err != nil {
			return 0, fmt.Errorf("%s: %w", group.Symbol, err)
		}
		if price == 0 {
			zero = true
			continue
		}
		product *= price
		logSum += math.Log(price)
	}

	if len(groups) == 0 {
		return 0, fmt.Errorf("%w: no trades recorded", errDivisionByZero)
	}
	if zero {
		return 0, nil
	}

	n := float64(len(groups))
	index := math.Pow(product, 1/n)
	// The running product leaves float64 range long before the mean does.
	if product < 0x1p-1022 || math.IsInf(product, 0) {
		index = math.Exp(logSum / n)
	}
	if math.IsNaN(index) || math.IsInf(index, 0) {
		return 0, errNotFinite
	}
	return index, nil
}

// volumeWeighted sums in ascending price order so the result does not depend
// on map iteration order.
func volumeWeighted(priceQuantity map[float64]float64) (float64, error) {
	if len(priceQuantity) == 0 {
		return 0, fmt.Errorf("%w: no trades", errDivisionByZero)
	}

	prices := slices.Sorted(maps.Keys(priceQuantity))

	var totalPaid, totalQuantity float64
	for _, price := range prices {
		quantity := priceQuantity[price]
		if math.IsNaN(price) || math.IsNaN(quantity) {
			return 0, fmt.Errorf("%w: NaN price or quantity", ErrTypeFault)
		}
		if price < 0 || quantity < 0 {
			return 0, fmt.Errorf("%w: price %g quantity %g", ErrNegativeValue, price, quantity)
		}
		totalPaid += price * quantity
		totalQuantity += quantity
	}

	if totalQuantity == 0 {
		return 0, errDivisionByZero
	}
	price := totalPaid / totalQuantity
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, errNotFinite
	}
	return price, nil
}

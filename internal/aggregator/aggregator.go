package aggregator

import (
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
)

// Ladder maps a traded price to the total quantity traded at that price.
type Ladder map[float64]float64

func (l Ladder) Add(price, quantity float64) {
	l[price] += quantity
}

// FromTrades sums trade quantities per distinct price.
func FromTrades(trades []marketdata.TradeRecord) Ladder {
	ladder := make(Ladder, len(trades))
	for _, trade := range trades {
		ladder.Add(trade.Price, trade.Quantity)
	}
	return ladder
}

// Group is the trades of one symbol, in book order.
type Group struct {
	Symbol string
	Trades []marketdata.TradeRecord
}

// GroupBySymbol splits trades by stock symbol. Groups come back in the order
// their symbol first appears.
func GroupBySymbol(trades []marketdata.TradeRecord) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, trade := range trades {
		symbol := trade.Symbol()
		i, ok := index[symbol]
		if !ok {
			i = len(groups)
			index[symbol] = i
			groups = append(groups, Group{Symbol: symbol})
		}
		groups[i].Trades = append(groups[i].Trades, trade)
	}
	return groups
}

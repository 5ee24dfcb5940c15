// Package report turns the state of a trade book into a Snapshot and renders
// it for the terminal.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/analytics"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
	"github.com/shopspring/decimal"
)

// Build computes every figure for stocks, in the given order. The reference
// price used for yield and P/E is the stock's volume weighted price, or its
// last traded price when nothing traded inside the window.
func Build(book *analytics.TradeBook, stocks []*marketdata.Stock) marketdata.Snapshot {
	counts := make(map[*marketdata.Stock]int)
	for _, trade := range book.Trades() {
		counts[trade.Stock]++
	}

	snapshot := marketdata.Snapshot{
		ID:        uuid.NewString(),
		Timestamp: book.Now(),
		Stocks:    make([]marketdata.StockSnapshot, 0, len(stocks)),
	}

	for _, stock := range stocks {
		snapshot.Stocks = append(snapshot.Stocks, buildStock(book, stock, counts[stock]))
	}

	if index, err := book.AllShareIndex(); err != nil {
		snapshot.IndexFailure = err.Error()
	} else {
		snapshot.AllShareIndex = &index
	}

	return snapshot
}

func buildStock(book *analytics.TradeBook, stock *marketdata.Stock, trades int) marketdata.StockSnapshot {
	s := marketdata.StockSnapshot{
		Symbol: stock.Symbol(),
		Type:   stock.Type().String(),
		Trades: trades,
	}
	if trades == 0 {
		s.Failures = append(s.Failures, "no trades recorded")
		return s
	}

	last, _ := book.LastTrade(stock)
	s.LastTradeAt = &last.Timestamp

	if vwsp, err := book.VolumeWeightedStockPrice(stock); err != nil {
		s.Failures = append(s.Failures, err.Error())
		if !finite(last.Price) {
			s.Failures = append(s.Failures, fmt.Sprintf("last traded price %v is not a number", last.Price))
			return s
		}
		s.ReferencePrice = &last.Price
	} else {
		s.VolumeWeightedPrice = &vwsp
		s.ReferencePrice = &vwsp
	}

	price := *s.ReferencePrice
	if yield, err := book.DividendYield(stock, price); err != nil {
		s.Failures = append(s.Failures, err.Error())
	} else {
		s.DividendYield = &yield
	}
	if pe, err := book.PERatio(stock, price); err != nil {
		s.Failures = append(s.Failures, err.Error())
	} else {
		s.PERatio = &pe
	}

	return s
}

// Render writes snapshot as an aligned table followed by the index line.
func Render(w io.Writer, snapshot marketdata.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "SYMBOL\tTYPE\tTRADES\tPRICE\tVWSP\tYIELD\tP/E\tNOTES")
	for _, s := range snapshot.Stocks {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			s.Symbol,
			s.Type,
			s.Trades,
			fixed(s.ReferencePrice, 2),
			fixed(s.VolumeWeightedPrice, 2),
			fixed(s.DividendYield, 4),
			fixed(s.PERatio, 2),
			strings.Join(s.Failures, "; "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if snapshot.AllShareIndex != nil {
		_, err := fmt.Fprintf(w, "\nAll Share Index: %s\n", fixed(snapshot.AllShareIndex, 4))
		return err
	}
	_, err := fmt.Fprintf(w, "\nAll Share Index: unavailable (%s)\n", snapshot.IndexFailure)
	return err
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func fixed(v *float64, places int32) string {
	if v == nil || !finite(*v) {
		return "-"
	}
	return decimal.NewFromFloat(*v).StringFixed(places)
}

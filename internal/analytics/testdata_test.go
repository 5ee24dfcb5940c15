package analytics

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
)

var testNow = time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)

var (
	tea = marketdata.NewStock("TEA", marketdata.Common, marketdata.Num(0), marketdata.Figure{}, marketdata.Num(100))
	pop = marketdata.NewStock("POP", marketdata.Common, marketdata.Num(8), marketdata.Figure{}, marketdata.Num(100))
	ale = marketdata.NewStock("ALE", marketdata.Common, marketdata.Num(23), marketdata.Figure{}, marketdata.Num(60))
	gin = marketdata.NewStock("GIN", marketdata.Preferred, marketdata.Num(8), marketdata.Num(2), marketdata.Num(100))
	joe = marketdata.NewStock("JOE", marketdata.Common, marketdata.Num(13), marketdata.Figure{}, marketdata.Num(250))
)

// diagnostics collects everything handed to the book's hook.
type diagnostics struct {
	messages []string
}

func (d *diagnostics) record(msg string) {
	d.messages = append(d.messages, msg)
}

func newTestClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(testNow)
}

func newTestBook() (*TradeBook, *clockwork.FakeClock, *diagnostics) {
	clock := newTestClock()
	diag := &diagnostics{}
	book := NewTradeBook(WithClock(clock), WithDiagnostics(diag.record))
	return book, clock, diag
}

// Package selftest runs the reference scenarios for every analytics operation
// against the sample exchange and a set of deliberately corrupt stocks.
package selftest

import (
	"fmt"
	"math"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/analytics"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/logger"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/registry"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
)

// maxInt64 is the largest int64 as a float64 price. It rounds up to 2^63.
const maxInt64 = float64(math.MaxInt64)

type rig struct {
	stocks *registry.Registry
	clock  *clockwork.FakeClock
	logger *logger.Logger
	checks int
	failed []string
}

// Run executes every scenario and returns an error naming the first check
// that did not hold. Every failed check is logged.
func Run(log *logger.Logger) error {
	stocks, err := registry.Merge(registry.GBCE(), registry.Corrupt())
	if err != nil {
		return fmt.Errorf("build sample registry: %w", err)
	}

	r := &rig{
		stocks: stocks,
		clock:  clockwork.NewFakeClock(),
		logger: log.Component("selftest"),
	}

	r.dividendYield()
	r.peRatio()
	r.recordTrade()
	r.volumeWeightedStockPrice()
	r.allShareIndex()

	if len(r.failed) > 0 {
		return fmt.Errorf("%d of %d checks failed, first: %s", len(r.failed), r.checks, r.failed[0])
	}
	r.logger.Info("all checks passed", logger.Int("checks", r.checks))
	return nil
}

func (r *rig) book() *analytics.TradeBook {
	return analytics.NewTradeBook(
		analytics.WithClock(r.clock),
		analytics.WithDiagnostics(func(msg string) {
			r.logger.Debug("calculation rejected", logger.String("diagnostic", msg))
		}),
	)
}

func (r *rig) stock(symbol string) *marketdata.Stock {
	stock, ok := r.stocks.Get(symbol)
	if !ok {
		panic("selftest: unknown symbol " + symbol)
	}
	return stock
}

func (r *rig) check(name string, ok bool, got float64, err error) {
	r.checks++
	if ok {
		return
	}
	failure := fmt.Sprintf("%s = %v (err: %v)", name, got, err)
	r.failed = append(r.failed, failure)
	r.logger.Error("check failed", logger.String("check", name), logger.Float64("got", got), logger.Error(err))
}

func (r *rig) equal(name string, want float64) func(float64, error) {
	return func(got float64, err error) {
		r.check(name, err == nil && got == want, got, err)
	}
}

func (r *rig) positive(name string) func(float64, error) {
	return func(got float64, err error) {
		r.check(name, err == nil && got > 0, got, err)
	}
}

func (r *rig) invalid(name string) func(float64, error) {
	return func(got float64, err error) {
		r.check(name, err != nil && got == analytics.Invalid, got, err)
	}
}

func (r *rig) dividendYield() {
	b := r.book()
	yield := func(symbol string, price float64) (float64, error) {
		return b.DividendYield(r.stock(symbol), price)
	}
	name := func(symbol string, price float64) string {
		return fmt.Sprintf("DividendYield(%s, %g)", symbol, price)
	}

	// sample data, sensible prices
	r.equal(name("TEA", 2), 0)(yield("TEA", 2))
	r.equal(name("POP", 20), 0.4)(yield("POP", 20))
	r.equal(name("ALE", 200), 0.115)(yield("ALE", 200))
	r.equal(name("GIN", 2000), 0.1)(yield("GIN", 2000))

	// very large prices
	for _, symbol := range []string{"JOE", "GIN"} {
		for _, price := range []float64{maxInt64, math.MaxFloat64} {
			r.positive(name(symbol, price))(yield(symbol, price))
		}
	}

	// zero and negative prices
	for _, symbol := range []string{"TEA", "POP", "ALE", "GIN", "JOE"} {
		r.invalid(name(symbol, 0))(yield(symbol, 0))
	}
	r.equal(name("TEA", -2), 0)(yield("TEA", -2))
	r.invalid(name("POP", -20))(yield("POP", -20))
	r.invalid(name("ALE", -200))(yield("ALE", -200))
	r.invalid(name("GIN", -2000))(yield("GIN", -2000))
	r.invalid(name("JOE", -20000))(yield("JOE", -20000))

	// corrupt stocks
	for _, symbol := range []string{"AAA", "BBB", "CCC", "DDD", "EEE", "FFF", "GGG", "HHH", "III", "JJJ"} {
		r.invalid(name(symbol, 20))(yield(symbol, 20))
	}
}

func (r *rig) peRatio() {
	b := r.book()
	pe := func(symbol string, price float64) (float64, error) {
		return b.PERatio(r.stock(symbol), price)
	}
	name := func(symbol string, price float64) string {
		return fmt.Sprintf("PERatio(%s, %g)", symbol, price)
	}

	r.invalid(name("TEA", 2))(pe("TEA", 2))
	r.equal(name("POP", 20), 2.5)(pe("POP", 20))
	r.equal(name("ALE", 69), 3)(pe("ALE", 69))
	r.equal(name("GIN", 2000), 250)(pe("GIN", 2000))
	r.equal(name("JOE", 65), 5)(pe("JOE", 65))

	for _, symbol := range []string{"JOE", "GIN"} {
		for _, price := range []float64{maxInt64, math.MaxFloat64} {
			r.positive(name(symbol, price))(pe(symbol, price))
		}
	}

	r.invalid(name("TEA", 0))(pe("TEA", 0))
	for _, symbol := range []string{"POP", "ALE", "GIN", "JOE"} {
		r.equal(name(symbol, 0), 0)(pe(symbol, 0))
	}
	r.invalid(name("TEA", -2))(pe("TEA", -2))
	r.invalid(name("POP", -20))(pe("POP", -20))
	r.invalid(name("ALE", -200))(pe("ALE", -200))
	r.invalid(name("GIN", -2000))(pe("GIN", -2000))
	r.invalid(name("JOE", -20000))(pe("JOE", -20000))

	for _, symbol := range []string{"AAA", "BBB", "CCC", "DDD"} {
		r.invalid(name(symbol, 20))(pe(symbol, 20))
	}
}

func (r *rig) recordTrade() {
	b := r.book()
	b.RecordTrade(r.stock("TEA"), 100, marketdata.Buy, 50)
	b.RecordTrade(r.stock("POP"), 150, marketdata.Buy, 65)
	b.RecordTrade(r.stock("ALE"), 200, marketdata.Buy, 80)
	b.RecordTrade(r.stock("GIN"), 250, marketdata.Buy, 95)
	b.RecordTrade(r.stock("JOE"), 300, marketdata.Buy, 110)

	r.check("RecordTrade() x5", b.Len() == 5, float64(b.Len()), nil)
}

func (r *rig) volumeWeightedStockPrice() {
	b := r.book()
	now := r.clock.Now()
	ago := func(minutes int) time.Time {
		return now.Add(-time.Duration(minutes) * time.Minute)
	}
	record := func(symbol string, quantity, price float64, ts time.Time) {
		b.RecordTradeAt(r.stock(symbol), quantity, marketdata.Buy, price, ts)
	}
	vwsp := func(symbol string) (float64, error) {
		return b.VolumeWeightedStockPrice(r.stock(symbol))
	}

	// two trades inside the window
	record("POP", 100, 50, ago(2))
	record("POP", 200, 65, ago(3))
	record("POP", 200, 65, ago(7))
	record("POP", 200, 65, ago(8))
	record("POP", 200, 65, ago(8))
	r.equal("VolumeWeightedStockPrice(POP)", 60)(vwsp("POP"))

	// three trades inside the window
	record("GIN", 30, 5, ago(2))
	record("GIN", 45, 8, ago(3))
	record("GIN", 75, 12, ago(3))
	record("GIN", 95, 18, ago(7))
	r.equal("VolumeWeightedStockPrice(GIN)", 9.4)(vwsp("GIN"))

	record("TEA", -95, 18, ago(2))
	r.invalid("VolumeWeightedStockPrice(TEA) negative quantity")(vwsp("TEA"))

	record("ALE", 95, -18, ago(2))
	r.invalid("VolumeWeightedStockPrice(ALE) negative price")(vwsp("ALE"))

	record("JOE", 95, 18, ago(7))
	r.invalid("VolumeWeightedStockPrice(JOE) nothing in window")(vwsp("JOE"))
}

func (r *rig) allShareIndex() {
	b := r.book()
	record := func(symbol string, quantity, price float64) {
		b.RecordTrade(r.stock(symbol), quantity, marketdata.Buy, price)
	}

	record("TEA", 50, 40)
	record("TEA", 20, 70)
	record("TEA", 30, 60)
	record("POP", 100, 50)
	record("POP", 100, 90)
	record("POP", 200, 110)
	record("ALE", 200, 65)
	record("GIN", 100, 50)
	record("JOE", 100, 50)
	index, err := b.AllShareIndex()
	r.check("AllShareIndex() mixed", err == nil && math.Trunc(index) == 59, index, err)

	b = r.book()
	record("JOE", 100, 50)
	r.equal("AllShareIndex() single trade", 50)(b.AllShareIndex())

	b = r.book()
	r.invalid("AllShareIndex() no trades")(b.AllShareIndex())

	b = r.book()
	record("TEA", -100, 50)
	record("TEA", 140, 70)
	record("POP", 100, 50)
	record("POP", 180, 90)
	record("ALE", 200, 65)
	r.invalid("AllShareIndex() negative quantity")(b.AllShareIndex())

	b = r.book()
	record("TEA", 100, 50)
	record("TEA", 140, 70)
	record("POP", 100, -50)
	record("POP", 180, 90)
	record("ALE", 200, 65)
	r.invalid("AllShareIndex() negative price")(b.AllShareIndex())
}

package mockdata

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/logger"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/metrics"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
)

var ErrNoStocks = errors.New("no stocks to trade")

const fallbackPrice = 100.0

type Config struct {
	Stocks          []*marketdata.Stock
	Trades          int
	Seed            int64
	Window          time.Duration
	PriceVolatility float64
	MaxQuantity     int
}

func DefaultConfig(stocks []*marketdata.Stock) Config {
	return Config{
		Stocks:          stocks,
		Trades:          200,
		Seed:            1,
		Window:          5 * time.Minute,
		PriceVolatility: 0.02,
		MaxQuantity:     500,
	}
}

// Generator produces a reproducible batch of trades. Every timestamp falls
// strictly inside the window ending at the clock's current time.
type Generator struct {
	config Config
	clock  clockwork.Clock
	logger *logger.Logger
	rng    *rand.Rand
	prices map[*marketdata.Stock]float64
	base   map[*marketdata.Stock]float64
}

func NewGenerator(config Config, clock clockwork.Clock, log *logger.Logger) *Generator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if config.MaxQuantity < 1 {
		config.MaxQuantity = 1
	}

	base := make(map[*marketdata.Stock]float64, len(config.Stocks))
	prices := make(map[*marketdata.Stock]float64, len(config.Stocks))
	for _, stock := range config.Stocks {
		// Trade around par when it is usable.
		price := fallbackPrice
		if par, err := stock.ParValue().Float64(); err == nil && par > 0 && !math.IsInf(par, 0) {
			price = par
		}
		base[stock] = price
		prices[stock] = price
	}

	return &Generator{
		config: config,
		clock:  clock,
		logger: log.Component("mockdata"),
		rng:    rand.New(rand.NewSource(config.Seed)),
		prices: prices,
		base:   base,
	}
}

// Start sends the configured number of trades and closes tradeChan.
func (g *Generator) Start(ctx context.Context, tradeChan chan<- marketdata.TradeRecord) error {
	defer close(tradeChan)

	if len(g.config.Stocks) == 0 {
		return ErrNoStocks
	}

	g.logger.Info("starting mock data generator",
		logger.Int("trades", g.config.Trades),
		logger.Int64("seed", g.config.Seed),
		logger.Int("stocks", len(g.config.Stocks)),
		logger.Duration("window", g.config.Window))

	now := g.clock.Now()
	generated := 0
	for generated < g.config.Trades {
		trade := g.generateTrade(now)

		select {
		case <-ctx.Done():
			g.logger.Info("mock data generator shutting down",
				logger.Int("total_trades_generated", generated))
			return ctx.Err()
		case tradeChan <- trade:
			generated++
			metrics.MockTradesGeneratedTotal.Inc()
		}
	}

	g.logger.Info("mock data generator finished",
		logger.Int("total_trades_generated", generated))
	return nil
}

func (g *Generator) generateTrade(now time.Time) marketdata.TradeRecord {
	stock := g.config.Stocks[g.rng.Intn(len(g.config.Stocks))]

	// Random walk with mean reversion towards the starting price
	current := g.prices[stock]
	change := (g.rng.Float64()*2 - 1) * g.config.PriceVolatility * current
	change += (g.base[stock] - current) * 0.05
	price := math.Max(0.01, current+change)
	g.prices[stock] = price

	side := marketdata.Buy
	if g.rng.Intn(2) == 1 {
		side = marketdata.Sell
	}

	return marketdata.TradeRecord{
		Stock:     stock,
		Timestamp: now.Add(-g.offset()),
		Quantity:  float64(g.rng.Intn(g.config.MaxQuantity) + 1),
		Side:      side,
		Price:     math.Round(price*100) / 100,
	}
}

// offset is in [1ns, window-1ns] so the trade is never on a window edge.
func (g *Generator) offset() time.Duration {
	if g.config.Window <= 2 {
		return 0
	}
	return time.Duration(g.rng.Int63n(int64(g.config.Window)-1) + 1)
}

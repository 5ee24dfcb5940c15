// Package registry loads stock definitions from YAML.
//
// Field values are kept exactly as decoded: a dividend written as a string or
// a type the exchange does not know still produces a Stock, and it is up to
// the analytics to reject it. Only the symbol is checked here, because it is
// how stocks are looked up.
package registry

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
	"gopkg.in/yaml.v3"
)

var (
	ErrNilStock        = errors.New("stock is nil")
	ErrEmptySymbol     = errors.New("stock symbol is empty")
	ErrDuplicateSymbol = errors.New("duplicate stock symbol")
)

//go:embed gbce.yaml
var gbceYAML []byte

//go:embed corrupt.yaml
var corruptYAML []byte

type Registry struct {
	stocks   []*marketdata.Stock
	bySymbol map[string]*marketdata.Stock
}

type document struct {
	Stocks []entry `yaml:"stocks"`
}

type entry struct {
	Symbol        string `yaml:"symbol"`
	Type          any    `yaml:"type"`
	LastDividend  any    `yaml:"last_dividend"`
	FixedDividend any    `yaml:"fixed_dividend"`
	ParValue      any    `yaml:"par_value"`
}

func New(stocks ...*marketdata.Stock) (*Registry, error) {
	r := &Registry{
		bySymbol: make(map[string]*marketdata.Stock, len(stocks)),
	}
	for _, stock := range stocks {
		if err := r.add(stock); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func Load(reader io.Reader) (*Registry, error) {
	var doc document
	if err := yaml.NewDecoder(reader).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode registry: %w", err)
	}

	stocks := make([]*marketdata.Stock, 0, len(doc.Stocks))
	for _, e := range doc.Stocks {
		stocks = append(stocks, marketdata.NewStock(
			strings.TrimSpace(e.Symbol),
			stockType(e.Type),
			marketdata.RawFigure(e.LastDividend),
			marketdata.RawFigure(e.FixedDividend),
			marketdata.RawFigure(e.ParValue),
		))
	}
	return New(stocks...)
}

func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	defer f.Close()

	r, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// GBCE returns the sample exchange listing TEA, POP, ALE, GIN and JOE.
func GBCE() *Registry {
	return mustLoad(gbceYAML)
}

// Corrupt returns stocks AAA to JJJ, each broken in a different way.
func Corrupt() *Registry {
	return mustLoad(corruptYAML)
}

func mustLoad(data []byte) *Registry {
	r, err := Load(bytes.NewReader(data))
	if err != nil {
		panic(err)
	}
	return r
}

// Merge combines registries. Symbols must stay unique across all of them.
func Merge(registries ...*Registry) (*Registry, error) {
	var stocks []*marketdata.Stock
	for _, r := range registries {
		stocks = append(stocks, r.stocks...)
	}
	return New(stocks...)
}

func (r *Registry) add(stock *marketdata.Stock) error {
	if stock == nil {
		return ErrNilStock
	}
	symbol := stock.Symbol()
	if symbol == "" {
		return ErrEmptySymbol
	}
	if _, exists := r.bySymbol[symbol]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateSymbol, symbol)
	}
	r.bySymbol[symbol] = stock
	r.stocks = append(r.stocks, stock)
	return nil
}

func (r *Registry) Get(symbol string) (*marketdata.Stock, bool) {
	stock, ok := r.bySymbol[symbol]
	return stock, ok
}

// Stocks returns the stocks in registry order.
func (r *Registry) Stocks() []*marketdata.Stock {
	stocks := make([]*marketdata.Stock, len(r.stocks))
	copy(stocks, r.stocks)
	return stocks
}

func (r *Registry) Symbols() []string {
	symbols := make([]string, len(r.stocks))
	for i, stock := range r.stocks {
		symbols[i] = stock.Symbol()
	}
	return symbols
}

func (r *Registry) Len() int {
	return len(r.stocks)
}

func stockType(v any) marketdata.StockType {
	switch t := v.(type) {
	case string:
		return marketdata.ParseStockType(t)
	case int:
		return marketdata.StockType(t)
	default:
		return marketdata.UnknownStockType
	}
}

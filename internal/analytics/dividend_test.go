package analytics

import (
	"errors"
	"math"
	"testing"

	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
)

func TestTradeBook_DividendYield(t *testing.T) {
	tests := []struct {
		name    string
		stock   *marketdata.Stock
		price   float64
		want    float64
		wantErr error
	}{
		{name: "common_zero_dividend", stock: tea, price: 2.0, want: 0},
		{name: "common", stock: pop, price: 20.0, want: 0.4},
		{name: "common_integral_price", stock: ale, price: 200, want: 0.115},
		{name: "preferred_literal_formula", stock: gin, price: 2000, want: 0.1},
		{name: "zero_dividend_negative_price", stock: tea, price: -2, want: 0},
		{name: "zero_price_zero_dividend", stock: tea, price: 0, wantErr: ErrArithmetic},
		{name: "zero_price_common", stock: pop, price: 0, wantErr: ErrArithmetic},
		{name: "zero_price_preferred", stock: gin, price: 0, wantErr: ErrArithmetic},
		{name: "negative_price_common", stock: pop, price: -20.0, wantErr: ErrNegativeValue},
		{name: "negative_price_preferred", stock: gin, price: -2000.0, wantErr: ErrNegativeValue},
		{
			name:    "unknown_type",
			stock:   marketdata.NewStock("AAA", marketdata.StockType(4), marketdata.Num(0), marketdata.Figure{}, marketdata.Num(100)),
			price:   20,
			wantErr: ErrUnknownStockType,
		},
		{
			name:    "non_numeric_last_dividend",
			stock:   marketdata.NewStock("BBB", marketdata.Common, marketdata.RawFigure("err"), marketdata.Figure{}, marketdata.Num(250)),
			price:   20,
			wantErr: ErrTypeFault,
		},
		{
			name:    "missing_last_dividend",
			stock:   marketdata.NewStock("CCC", marketdata.Common, marketdata.Figure{}, marketdata.Figure{}, marketdata.Num(250)),
			price:   20,
			wantErr: ErrTypeFault,
		},
		{
			name:    "negative_last_dividend",
			stock:   marketdata.NewStock("DDD", marketdata.Common, marketdata.Num(-8), marketdata.Figure{}, marketdata.Num(250)),
			price:   20,
			wantErr: ErrNegativeValue,
		},
		{
			name:    "preferred_missing_fixed_dividend",
			stock:   marketdata.NewStock("EEE", marketdata.Preferred, marketdata.Num(23), marketdata.Figure{}, marketdata.Num(60)),
			price:   20,
			wantErr: ErrTypeFault,
		},
		{
			name:    "preferred_negative_par",
			stock:   marketdata.NewStock("GGG", marketdata.Preferred, marketdata.Num(8), marketdata.Num(2), marketdata.Num(-100)),
			price:   20,
			wantErr: ErrNegativeValue,
		},
		{
			name:    "preferred_non_numeric_par",
			stock:   marketdata.NewStock("JJJ", marketdata.Preferred, marketdata.Num(8), marketdata.Num(2), marketdata.RawFigure("err")),
			price:   20,
			wantErr: ErrTypeFault,
		},
		{name: "nan_price", stock: pop, price: math.NaN(), wantErr: ErrTypeFault},
		{name: "nil_stock", stock: nil, price: 20, wantErr: ErrTypeFault},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			book, _, diag := newTestBook()

			got, err := book.DividendYield(tc.stock, tc.price)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected error %v, got %v", tc.wantErr, err)
				}
				if got != Invalid {
					t.Errorf("expected Invalid on failure, got %v", got)
				}
				if len(diag.messages) != 1 {
					t.Errorf("expected 1 diagnostic, got %d", len(diag.messages))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
			if math.Signbit(got) {
				t.Errorf("expected positive zero, got %v", got)
			}
			if len(diag.messages) != 0 {
				t.Errorf("expected no diagnostics, got %v", diag.messages)
			}
		})
	}
}

func TestTradeBook_DividendYield_HugePrices(t *testing.T) {
	book, _, _ := newTestBook()

	for _, stock := range []*marketdata.Stock{joe, gin} {
		for _, price := range []float64{math.MaxInt64, math.MaxFloat64} {
			got, err := book.DividendYield(stock, price)
			if err != nil {
				t.Fatalf("%s at %g: unexpected error: %v", stock.Symbol(), price, err)
			}
			if got <= 0 {
				t.Errorf("%s at %g: expected positive yield, got %v", stock.Symbol(), price, got)
			}
		}
	}
}

func TestTradeBook_PERatio(t *testing.T) {
	tests := []struct {
		name    string
		stock   *marketdata.Stock
		price   float64
		want    float64
		wantErr error
	}{
		{name: "zero_dividend", stock: tea, price: 2.0, wantErr: ErrArithmetic},
		{name: "common", stock: pop, price: 20.0, want: 2.5},
		{name: "integral_price", stock: ale, price: 69, want: 3},
		{name: "preferred_uses_last_dividend", stock: gin, price: 2000.0, want: 250},
		{name: "joe", stock: joe, price: 65, want: 5},
		{name: "zero_price_is_valid", stock: pop, price: 0, want: 0},
		{name: "zero_price_preferred", stock: gin, price: 0, want: 0},
		{name: "zero_price_zero_dividend", stock: tea, price: 0, wantErr: ErrArithmetic},
		{name: "negative_price_zero_dividend", stock: tea, price: -2.0, wantErr: ErrArithmetic},
		{name: "negative_price", stock: pop, price: -20.0, wantErr: ErrNegativeValue},
		{
			name:    "unknown_type_zero_dividend",
			stock:   marketdata.NewStock("AAA", marketdata.StockType(4), marketdata.Num(0), marketdata.Figure{}, marketdata.Num(100)),
			price:   20,
			wantErr: ErrArithmetic,
		},
		{
			name:    "non_numeric_last_dividend",
			stock:   marketdata.NewStock("BBB", marketdata.Common, marketdata.RawFigure("err"), marketdata.Figure{}, marketdata.Num(250)),
			price:   20,
			wantErr: ErrTypeFault,
		},
		{
			name:    "negative_last_dividend",
			stock:   marketdata.NewStock("DDD", marketdata.Common, marketdata.Num(-8), marketdata.Figure{}, marketdata.Num(250)),
			price:   20,
			wantErr: ErrNegativeValue,
		},
		{name: "nil_stock", stock: nil, price: 20, wantErr: ErrTypeFault},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			book, _, diag := newTestBook()

			got, err := book.PERatio(tc.stock, tc.price)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected error %v, got %v", tc.wantErr, err)
				}
				if got != Invalid {
					t.Errorf("expected Invalid on failure, got %v", got)
				}
				if len(diag.messages) != 1 {
					t.Errorf("expected 1 diagnostic, got %d", len(diag.messages))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	book, _, _ := newTestBook()

	_, err := book.PERatio(tea, 2)
	if kind := KindOf(err); kind != "arithmetic" {
		t.Errorf("expected arithmetic, got %q", kind)
	}
	_, err = book.DividendYield(marketdata.NewStock("X", marketdata.UnknownStockType, marketdata.Num(1), marketdata.Figure{}, marketdata.Figure{}), 1)
	if kind := KindOf(err); kind != "unknown_stock_type" {
		t.Errorf("expected unknown_stock_type, got %q", kind)
	}
	if kind := KindOf(nil); kind != "" {
		t.Errorf("expected empty kind for nil, got %q", kind)
	}
	if kind := KindOf(errors.New("boom")); kind != "other" {
		t.Errorf("expected other, got %q", kind)
	}
}

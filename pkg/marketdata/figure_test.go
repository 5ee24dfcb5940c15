package marketdata

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFigure_Float64(t *testing.T) {
	tests := []struct {
		name    string
		figure  Figure
		want    float64
		wantErr error
	}{
		{name: "float", figure: Num(2.5), want: 2.5},
		{name: "int", figure: RawFigure(8), want: 8},
		{name: "negative_int64", figure: RawFigure(int64(-100)), want: -100},
		{name: "uint32", figure: RawFigure(uint32(7)), want: 7},
		{name: "decimal", figure: RawFigure(decimal.RequireFromString("0.125")), want: 0.125},
		{name: "json_number", figure: RawFigure(json.Number("23")), want: 23},
		{name: "missing", figure: Figure{}, wantErr: ErrMissing},
		{name: "string", figure: RawFigure("err"), wantErr: ErrNotNumeric},
		{name: "bool", figure: RawFigure(true), wantErr: ErrNotNumeric},
		{name: "nan", figure: Num(math.NaN()), wantErr: ErrNotNumeric},
		{name: "bad_json_number", figure: RawFigure(json.Number("x1")), wantErr: ErrNotNumeric},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.figure.Float64()
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected error %v, got %v", tc.wantErr, err)
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

func TestParseStockType(t *testing.T) {
	cases := map[string]StockType{
		"common":     Common,
		" Preferred": Preferred,
		"COMMON":     Common,
		"ordinary":   UnknownStockType,
		"":           UnknownStockType,
	}
	for name, want := range cases {
		if got := ParseStockType(name); got != want {
			t.Errorf("ParseStockType(%q) = %v, want %v", name, got, want)
		}
	}

	if StockType(4).Valid() {
		t.Error("expected stock type 4 to be invalid")
	}
}

func TestTradeRecord_SymbolWithoutStock(t *testing.T) {
	if got := (TradeRecord{}).Symbol(); got != "" {
		t.Errorf("expected empty symbol, got %q", got)
	}
	tr := TradeRecord{Stock: NewStock("POP", Common, Num(8), Figure{}, Num(100))}
	if got := tr.Symbol(); got != "POP" {
		t.Errorf("expected POP, got %q", got)
	}
}

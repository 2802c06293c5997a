// Package indicator turns a raw bar series into the annotated series the
// signal rules consume: weighted moving average, its slope, and exponential
// moving averages. All functions are pure; re-running on the same input
// yields identical output.
package indicator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"trendscan/types"
)

var ErrInvalidWindow = errors.New("indicator window must be positive")

// Value is a per-bar indicator reading. OK is false while the warm-up window
// is not yet satisfied; such bars are inert for the signal rules.
type Value struct {
	V  decimal.Decimal
	OK bool
}

// Set holds per-bar indicator series aligned index-for-index with the input.
type Set struct {
	WMA   []Value
	Slope []Value
	EMA   []decimal.Decimal
}

// Compute annotates the series with the wmaWindow-bar WMA, its one-bar slope
// and the emaSpan EMA of closes.
func Compute(bars []types.Bar, wmaWindow, emaSpan int) (Set, error) {
	if wmaWindow <= 0 {
		return Set{}, fmt.Errorf("wma window %d: %w", wmaWindow, ErrInvalidWindow)
	}
	if emaSpan <= 0 {
		return Set{}, fmt.Errorf("ema span %d: %w", emaSpan, ErrInvalidWindow)
	}
	closes := Closes(bars)
	wma := WMA(closes, wmaWindow)
	return Set{
		WMA:   wma,
		Slope: slope(wma),
		EMA:   EMA(closes, emaSpan),
	}, nil
}

// Closes extracts the close column of a bar series.
func Closes(bars []types.Bar) []decimal.Decimal {
	out := make([]decimal.Decimal, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// WMA is the linearly-weighted moving average: weights 1..window assigned
// oldest to newest over the most recent window closes, normalized by
// window*(window+1)/2. Undefined for the first window-1 bars.
func WMA(closes []decimal.Decimal, window int) []Value {
	out := make([]Value, len(closes))
	weightSum := decimal.NewFromInt(int64(window) * int64(window+1) / 2)
	for t := window - 1; t < len(closes); t++ {
		sum := decimal.Zero
		for i := 0; i < window; i++ {
			w := decimal.NewFromInt(int64(i + 1))
			sum = sum.Add(closes[t-window+1+i].Mul(w))
		}
		out[t] = Value{V: sum.Div(weightSum), OK: true}
	}
	return out
}

// slope is the one-bar difference of a series; undefined when either
// operand is undefined.
func slope(series []Value) []Value {
	out := make([]Value, len(series))
	for t := 1; t < len(series); t++ {
		if !series[t].OK || !series[t-1].OK {
			continue
		}
		out[t] = Value{V: series[t].V.Sub(series[t-1].V), OK: true}
	}
	return out
}

// EMA is the recursive exponential moving average with alpha = 2/(span+1),
// seeded with the first close and defined from the first bar onward. No
// bias-correction adjustment is applied.
func EMA(closes []decimal.Decimal, span int) []decimal.Decimal {
	out := make([]decimal.Decimal, len(closes))
	if len(closes) == 0 {
		return out
	}
	alpha := decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(span + 1)))
	oneMinusAlpha := decimal.NewFromInt(1).Sub(alpha)
	out[0] = closes[0]
	for t := 1; t < len(closes); t++ {
		out[t] = alpha.Mul(closes[t]).Add(oneMinusAlpha.Mul(out[t-1]))
	}
	return out
}

// EMAStack computes one EMA series per span, keyed by span. Used by the
// EMA-stack entry variant (e.g. 200/50/20/9).
func EMAStack(closes []decimal.Decimal, spans []int) map[int][]decimal.Decimal {
	out := make(map[int][]decimal.Decimal, len(spans))
	for _, span := range spans {
		out[span] = EMA(closes, span)
	}
	return out
}

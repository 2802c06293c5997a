package engine

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"trendscan/types"
)

// Summary combines per-instrument backtest results into portfolio-level
// figures: total profit across independent capital pools and a descending
// CAGR ranking.
type Summary struct {
	Results     []types.BacktestResult
	TotalProfit decimal.Decimal
}

// Aggregate ranks results by descending CAGR and sums their profits. The
// input slice is not modified.
func Aggregate(results []types.BacktestResult) Summary {
	ranked := append([]types.BacktestResult(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CAGR.GreaterThan(ranked[j].CAGR)
	})

	total := decimal.Zero
	for _, r := range ranked {
		total = total.Add(r.TotalProfit)
	}
	return Summary{Results: ranked, TotalProfit: total}
}

// Top returns the best-ranked instrument, or nil for an empty summary. Its
// full trade list and timeline are available for downstream export/charting.
func (s Summary) Top() *types.BacktestResult {
	if len(s.Results) == 0 {
		return nil
	}
	return &s.Results[0]
}

// calcCAGR is the compound annual growth rate in percent, using 365.25-day
// years. Not well-defined for non-positive capital, non-positive end value,
// a non-positive elapsed period, or a growth rate beyond float range; those
// return zero.
func calcCAGR(capital, finalValue decimal.Decimal, first, last time.Time) decimal.Decimal {
	if !capital.GreaterThan(decimal.Zero) || !finalValue.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	years := last.Sub(first).Hours() / (24.0 * 365.25)
	if years <= 0 {
		return decimal.Zero
	}
	ratio := finalValue.Div(capital).InexactFloat64()
	cagr := (math.Pow(ratio, 1.0/years) - 1.0) * 100.0
	// A huge gain over a tiny period overflows Pow; NewFromFloat panics on
	// non-finite input.
	if math.IsInf(cagr, 0) || math.IsNaN(cagr) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(cagr)
}

// WriteSummary prints the ranking table in the style of the CLI report.
func WriteSummary(w io.Writer, s Summary) {
	fmt.Fprintln(w, "===== Breakdown Strategy Report =====")
	fmt.Fprintf(w, "%-14s %7s %14s %9s %s\n", "Ticker", "Trades", "Total Profit", "CAGR (%)", "Wins")
	for _, r := range s.Results {
		fmt.Fprintf(w, "%-14s %7d %14s %9s %4d\n",
			r.Ticker,
			r.Trades,
			r.TotalProfit.Round(2),
			r.CAGR.Round(2),
			r.SuccessfulTrades,
		)
	}
	fmt.Fprintf(w, "\nPortfolio Total Profit: %s\n", s.TotalProfit.Round(2))
	if top := s.Top(); top != nil {
		fmt.Fprintf(w, "Top Ticker:             %s (CAGR %s%%, final cash %s)\n",
			top.Ticker, top.CAGR.Round(2), top.FinalCash.Round(2))
	}
	fmt.Fprintln(w, "=====================================")
}

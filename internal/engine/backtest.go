package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"trendscan/internal/indicator"
	"trendscan/types"
)

// Run replays one instrument's bar series through the entry/exit rules and a
// fresh ledger, and returns the resulting trade history and performance
// figures. A series shorter than cfg.MinBars (after sanitizing) yields a
// degenerate zero-trade result, not an error; errors are reserved for
// malformed configuration.
func Run(ticker string, bars []types.Bar, cfg Config) (types.BacktestResult, error) {
	cfg = cfg.Normalized()
	if err := cfg.Validate(); err != nil {
		return types.BacktestResult{}, err
	}

	result := types.BacktestResult{
		Ticker:         ticker,
		TotalProfit:    decimal.Zero,
		CAGR:           decimal.Zero,
		InitialCapital: cfg.InitialCapital,
		FinalCash:      cfg.InitialCapital,
	}

	bars = Sanitize(bars)
	if len(bars) < cfg.MinBars {
		return result, nil
	}
	result.FirstDate = bars[0].Timestamp
	result.LastDate = bars[len(bars)-1].Timestamp

	points, err := Points(bars, cfg)
	if err != nil {
		return types.BacktestResult{}, err
	}

	book := newLedger(cfg.InitialCapital)
	snap := types.NewFlatSnapshot(ticker)
	var open *types.Trade

	for t := cfg.Warmup(); t < len(bars); t++ {
		bar := bars[t]
		next, act := Step(snap, bar, points[t], book.cash, cfg.EntryRule)
		snap = next
		if act != nil {
			switch act.Kind {
			case ActionEnter:
				book.buy(act.Price, act.Shares)
				open = &types.Trade{
					ID:         uuid.NewString(),
					Ticker:     ticker,
					EntryDate:  act.Date,
					EntryPrice: act.Price,
					Shares:     act.Shares,
				}
			case ActionExit:
				closeTrade(book, open, act, &result)
				open = nil
			}
		}
		result.Timeline = append(result.Timeline, types.PortfolioPoint{
			Date:  bar.Timestamp,
			Value: book.value(bar.Close),
		})
	}

	// Forced liquidation at the last close if still long. The final timeline
	// point is unchanged: selling at the close it was marked at.
	if snap.InPosition() {
		var act *Action
		snap, act = Liquidate(snap, bars[len(bars)-1])
		closeTrade(book, open, act, &result)
	}

	result.FinalCash = book.cash
	result.TotalProfit = book.cash.Sub(cfg.InitialCapital)
	result.CAGR = calcCAGR(cfg.InitialCapital, book.cash, result.FirstDate, result.LastDate)
	return result, nil
}

func closeTrade(book *ledger, open *types.Trade, act *Action, result *types.BacktestResult) {
	profit := book.sell(act.Price, open.EntryPrice)
	open.ExitDate = act.Date
	open.ExitPrice = act.Price
	open.Profit = profit
	result.TradeList = append(result.TradeList, *open)
	result.Trades++
	if profit.GreaterThan(decimal.Zero) {
		result.SuccessfulTrades++
	}
}

// Sanitize drops bars that lack a usable Close or Low after numeric
// coercion. Prices must be positive finite values; a zero Close (or Low,
// needed for breakdown tracking) marks a malformed bar.
func Sanitize(bars []types.Bar) []types.Bar {
	out := make([]types.Bar, 0, len(bars))
	for _, b := range bars {
		if !b.Close.GreaterThan(decimal.Zero) || !b.Low.GreaterThan(decimal.Zero) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Points computes the per-bar indicator view for the configured rules,
// aligned index-for-index with bars.
func Points(bars []types.Bar, cfg Config) ([]Point, error) {
	set, err := indicator.Compute(bars, cfg.WMAWindow, cfg.EMASpan)
	if err != nil {
		return nil, err
	}
	var stack map[int][]decimal.Decimal
	if cfg.EntryRule == EntryEMAStack {
		stack = indicator.EMAStack(indicator.Closes(bars), cfg.StackSpans)
	}

	points := make([]Point, len(bars))
	for t := range bars {
		pt := Point{WMA: set.WMA[t], Slope: set.Slope[t], EMA: set.EMA[t]}
		if stack != nil {
			pt.Stack = make([]decimal.Decimal, len(cfg.StackSpans))
			for i, span := range cfg.StackSpans {
				pt.Stack[i] = stack[span][t]
			}
		}
		points[t] = pt
	}
	return points, nil
}

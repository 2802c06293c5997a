package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"trendscan/internal/indicator"
	"trendscan/types"
)

// Point is the per-bar indicator view the transition rules consume.
// Stack is populated only for the EMA-stack entry variant, ordered as
// Config.StackSpans.
type Point struct {
	WMA   indicator.Value
	Slope indicator.Value
	EMA   decimal.Decimal
	Stack []decimal.Decimal
}

type ActionKind int

const (
	ActionEnter ActionKind = iota
	ActionExit
)

// Action reports a position change produced by one transition step. The
// caller applies it to its ledger; the FSM itself never touches cash.
type Action struct {
	Kind   ActionKind
	Price  decimal.Decimal
	Date   time.Time
	Shares decimal.Decimal
}

// Step evaluates one bar of the entry/exit rules against a carried position
// snapshot and returns the advanced snapshot. Rules fire in order: entry,
// breakdown marking, breakdown exit, all against the same bar. If the entry
// bar itself closes below the EMA (possible under rules that don't test the
// EMA), its low becomes the marker right away; the exit rule never fires on
// the bar that entered. A bar whose indicators are undefined is inert: the
// snapshot is carried forward unchanged.
//
// cash is the free capital available for a whole-share entry; it is only read
// while flat. Step is pure: the input snapshot is never mutated.
func Step(snap types.PositionSnapshot, bar types.Bar, pt Point, cash decimal.Decimal, rule EntryRule) (types.PositionSnapshot, *Action) {
	if !defined(pt, rule) {
		return snap, nil
	}

	// FLAT -> LONG
	var entry *Action
	if !snap.InPosition() && entrySignal(bar, pt, rule) {
		shares := cash.Div(bar.Close).Floor()
		if !shares.GreaterThan(decimal.Zero) {
			// Insufficient capital is a silent no-op, not an error.
			return snap, nil
		}
		snap.State = types.PositionLong
		snap.Shares = shares
		snap.EntryPrice = bar.Close
		snap.EntryDate = bar.Timestamp
		snap.BreakdownLow = nil
		entry = &Action{Kind: ActionEnter, Price: bar.Close, Date: bar.Timestamp, Shares: shares}
	}

	// Breakdown marking: one-shot, sticky until the position closes.
	if snap.InPosition() && snap.BreakdownLow == nil && bar.Close.LessThan(pt.EMA) {
		low := bar.Low
		snap.BreakdownLow = &low
	}

	// LONG -> FLAT
	if entry == nil && snap.InPosition() && snap.BreakdownLow != nil && bar.Close.LessThan(*snap.BreakdownLow) {
		exit := Action{Kind: ActionExit, Price: bar.Close, Date: bar.Timestamp, Shares: snap.Shares}
		snap.State = types.PositionFlat
		snap.Shares = decimal.Zero
		snap.BreakdownLow = nil
		return snap, &exit
	}

	return snap, entry
}

// Liquidate closes an open position at the given bar regardless of the
// breakdown condition. Used for the end-of-series forced exit.
func Liquidate(snap types.PositionSnapshot, bar types.Bar) (types.PositionSnapshot, *Action) {
	if !snap.InPosition() {
		return snap, nil
	}
	exit := Action{Kind: ActionExit, Price: bar.Close, Date: bar.Timestamp, Shares: snap.Shares}
	snap.State = types.PositionFlat
	snap.Shares = decimal.Zero
	snap.BreakdownLow = nil
	return snap, &exit
}

func defined(pt Point, rule EntryRule) bool {
	if rule == EntryEMAStack {
		return len(pt.Stack) > 0
	}
	return pt.WMA.OK && pt.Slope.OK
}

func entrySignal(bar types.Bar, pt Point, rule EntryRule) bool {
	switch rule {
	case EntryWMASlopeOnly:
		return bar.Close.GreaterThan(pt.WMA.V) && pt.Slope.V.GreaterThan(decimal.Zero)
	case EntryWMASlopeEMA:
		return bar.Close.GreaterThan(pt.EMA) &&
			bar.Close.GreaterThan(pt.WMA.V) &&
			pt.Slope.V.GreaterThan(decimal.Zero)
	case EntryEMAStack:
		for _, ema := range pt.Stack {
			if !bar.Close.GreaterThan(ema) {
				return false
			}
		}
		return true
	}
	return false
}

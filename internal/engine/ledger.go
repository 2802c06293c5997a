package engine

import (
	"github.com/shopspring/decimal"
)

// ledger does the cash/shares bookkeeping for one instrument's replay.
// Debits and credits are single-threaded and atomic per bar; when flat,
// cash == initial capital + realized profit exactly.
type ledger struct {
	cash           decimal.Decimal
	shares         decimal.Decimal
	realizedProfit decimal.Decimal
}

func newLedger(initialCapital decimal.Decimal) *ledger {
	return &ledger{cash: initialCapital}
}

func (l *ledger) buy(price, shares decimal.Decimal) {
	l.cash = l.cash.Sub(shares.Mul(price))
	l.shares = shares
}

// sell credits the sale and returns the realized profit against entryPrice.
func (l *ledger) sell(price, entryPrice decimal.Decimal) decimal.Decimal {
	l.cash = l.cash.Add(l.shares.Mul(price))
	profit := price.Sub(entryPrice).Mul(l.shares)
	l.realizedProfit = l.realizedProfit.Add(profit)
	l.shares = decimal.Zero
	return profit
}

// value is the mark-to-market portfolio value at the given close.
func (l *ledger) value(lastClose decimal.Decimal) decimal.Decimal {
	if l.shares.IsZero() {
		return l.cash
	}
	return l.cash.Add(l.shares.Mul(lastClose))
}

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type PositionState string

const (
	PositionFlat PositionState = "FLAT"
	PositionLong PositionState = "LONG"
)

// PositionSnapshot carries FSM state for one instrument between bars, and
// between independent monitor invocations. BreakdownLow is sticky: once set
// while LONG it stays untouched until the position closes.
type PositionSnapshot struct {
	Ticker       string           `json:"ticker"`
	State        PositionState    `json:"state"`
	Shares       decimal.Decimal  `json:"shares"`
	EntryPrice   decimal.Decimal  `json:"entryPrice"`
	EntryDate    time.Time        `json:"entryDate"`
	BreakdownLow *decimal.Decimal `json:"breakdownLow,omitempty"`
}

func (s PositionSnapshot) InPosition() bool {
	return s.State == PositionLong
}

func NewFlatSnapshot(ticker string) PositionSnapshot {
	return PositionSnapshot{Ticker: ticker, State: PositionFlat}
}

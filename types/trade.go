package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one completed round trip: a single long entry and its exit.
// Profit = (ExitPrice - EntryPrice) * Shares, no fee or slippage adjustment.
type Trade struct {
	ID         string          `json:"id"`
	Ticker     string          `json:"ticker"`
	EntryDate  time.Time       `json:"entryDate"`
	EntryPrice decimal.Decimal `json:"entryPrice"`
	ExitDate   time.Time       `json:"exitDate"`
	ExitPrice  decimal.Decimal `json:"exitPrice"`
	Shares     decimal.Decimal `json:"shares"`
	Profit     decimal.Decimal `json:"profit"`
}

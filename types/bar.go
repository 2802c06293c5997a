package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar is one OHLC observation for a fixed interval (daily or weekly).
// Close is required; High/Low are used for breakdown tracking.
type Bar struct {
	AssetId   int             `json:"id"`
	Ticker    string          `json:"ticker"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    decimal.Decimal `json:"volume"`
	Interval  Interval        `json:"interval"`
	Timestamp time.Time       `json:"timestamp"`
}

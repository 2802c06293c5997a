package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioPoint is one step of the per-bar portfolio-value timeline:
// cash while flat, cash + shares*close while long.
type PortfolioPoint struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// BacktestResult is the outcome of replaying one instrument.
type BacktestResult struct {
	Ticker           string           `json:"ticker"`
	Trades           int              `json:"trades"`
	TotalProfit      decimal.Decimal  `json:"totalProfit"`
	CAGR             decimal.Decimal  `json:"cagr"`
	SuccessfulTrades int              `json:"successfulTrades"`
	TradeList        []Trade          `json:"tradeList"`
	Timeline         []PortfolioPoint `json:"timeline,omitempty"`

	InitialCapital decimal.Decimal `json:"initialCapital"`
	FinalCash      decimal.Decimal `json:"finalCash"`
	FirstDate      time.Time       `json:"firstDate"`
	LastDate       time.Time       `json:"lastDate"`
}

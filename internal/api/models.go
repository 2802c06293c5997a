package api

import (
	"trendscan/types"
)

// BacktestRequest carries an inline bar series plus optional strategy
// overrides. Zero-valued fields fall back to engine defaults.
type BacktestRequest struct {
	Ticker     string     `json:"ticker" binding:"required"`
	Bars       []BarInput `json:"bars" binding:"required"`
	Capital    float64    `json:"capital"`
	EntryRule  string     `json:"entryRule"`
	WMAWindow  int        `json:"wmaWindow"`
	EMASpan    int        `json:"emaSpan"`
	MinBars    int        `json:"minBars"`
	StackSpans []int      `json:"stackSpans"`
}

// BarInput is the JSON shape of one OHLC bar. Date is YYYY-MM-DD.
type BarInput struct {
	Date  string  `json:"date" binding:"required"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

type RankResponse struct {
	TotalProfit string                 `json:"totalProfit"`
	Results     []types.BacktestResult `json:"results"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

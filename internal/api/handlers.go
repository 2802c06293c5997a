package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"trendscan/internal/config"
	"trendscan/internal/engine"
	"trendscan/types"
)

const requestDateLayout = "2006-01-02"

// barLoader is the slice of the repository the rank handler needs.
type barLoader interface {
	GetAssetByTicker(ticker string, ctx context.Context) (*types.Asset, error)
	GetBars(assetId int, ticker string, interval types.Interval, start, end time.Time, ctx context.Context) ([]types.Bar, error)
}

type handlers struct {
	db       barLoader
	universe *config.Universe
}

// Backtest handles POST /api/v1/backtest: replays the posted bars and
// returns the full result including trade list and timeline.
func (h *handlers) Backtest(c *gin.Context) {
	var req BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		}})
		return
	}

	bars := make([]types.Bar, 0, len(req.Bars))
	for _, in := range req.Bars {
		ts, err := time.Parse(requestDateLayout, in.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
				Code:    "INVALID_DATE",
				Message: "bar dates must be in YYYY-MM-DD format",
			}})
			return
		}
		bars = append(bars, types.Bar{
			Ticker:    req.Ticker,
			Open:      decimal.NewFromFloat(in.Open),
			High:      decimal.NewFromFloat(in.High),
			Low:       decimal.NewFromFloat(in.Low),
			Close:     decimal.NewFromFloat(in.Close),
			Timestamp: ts,
		})
	}

	capital := req.Capital
	if capital == 0 {
		capital = 100000
	}
	cfg := engine.Config{
		WMAWindow:      req.WMAWindow,
		EMASpan:        req.EMASpan,
		InitialCapital: decimal.NewFromFloat(capital),
		EntryRule:      engine.EntryRule(req.EntryRule),
		MinBars:        req.MinBars,
		StackSpans:     req.StackSpans,
	}

	result, err := engine.Run(req.Ticker, bars, cfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
			Code:    "INVALID_CONFIG",
			Message: err.Error(),
		}})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Rank handles GET /api/v1/rank: replays the configured universe from the
// bar store and returns the descending-CAGR ranking.
func (h *handlers) Rank(c *gin.Context) {
	if h.db == nil || h.universe == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: ErrorDetail{
			Code:    "NO_DATASTORE",
			Message: "ranking requires a configured database and universe",
		}})
		return
	}

	start, end, err := h.universe.Range()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
			Code:    "INVALID_UNIVERSE",
			Message: err.Error(),
		}})
		return
	}

	ctx := c.Request.Context()
	feeds := make([]engine.Feed, 0, len(h.universe.Tickers))
	for _, ticker := range h.universe.Tickers {
		asset, err := h.db.GetAssetByTicker(ticker, ctx)
		if err != nil {
			// Missing instruments rank as degenerate results.
			feeds = append(feeds, engine.Feed{Ticker: ticker})
			continue
		}
		bars, err := h.db.GetBars(asset.Id, ticker, h.universe.IntervalType(), start, end, ctx)
		if err != nil {
			feeds = append(feeds, engine.Feed{Ticker: ticker})
			continue
		}
		feeds = append(feeds, engine.Feed{Ticker: ticker, Bars: bars})
	}

	results, err := engine.RunBatch(ctx, feeds, h.universe.EngineConfig(), engine.BatchOptions{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
			Code:    "BACKTEST_FAILED",
			Message: err.Error(),
		}})
		return
	}

	summary := engine.Aggregate(results)
	c.JSON(http.StatusOK, RankResponse{
		TotalProfit: summary.TotalProfit.String(),
		Results:     summary.Results,
	})
}

func (h *handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

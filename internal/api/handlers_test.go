package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"trendscan/internal/config"
	"trendscan/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// The scenario series: entry on bar 5, breakdown exit on bar 9.
var apiCloses = []float64{14, 13, 12, 11, 12, 15, 15.5, 15.2, 12, 9}

func requestBars() []BarInput {
	start := time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC)
	bars := make([]BarInput, len(apiCloses))
	for i, c := range apiCloses {
		bars[i] = BarInput{
			Date:  start.AddDate(0, 0, 7*i).Format("2006-01-02"),
			Open:  c,
			High:  c + 0.5,
			Low:   c - 0.5,
			Close: c,
		}
	}
	return bars
}

type mockBarLoader struct {
	asset    *types.Asset
	bars     []types.Bar
	assetErr error
	barsErr  error
}

func (m *mockBarLoader) GetAssetByTicker(ticker string, ctx context.Context) (*types.Asset, error) {
	if m.assetErr != nil {
		return nil, m.assetErr
	}
	return m.asset, nil
}

func (m *mockBarLoader) GetBars(assetId int, ticker string, interval types.Interval, start, end time.Time, ctx context.Context) ([]types.Bar, error) {
	if m.barsErr != nil {
		return nil, m.barsErr
	}
	return m.bars, nil
}

func storedBars(ticker string) []types.Bar {
	start := time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, len(apiCloses))
	for i, c := range apiCloses {
		d := decimal.NewFromFloat(c)
		bars[i] = types.Bar{
			Ticker:    ticker,
			Open:      d,
			High:      d.Add(decimal.RequireFromString("0.5")),
			Low:       d.Sub(decimal.RequireFromString("0.5")),
			Close:     d,
			Interval:  types.Week,
			Timestamp: start.AddDate(0, 0, 7*i),
		}
	}
	return bars
}

func testUniverse() *config.Universe {
	return &config.Universe{
		Tickers:  []string{"AAPL"},
		Interval: "W",
		Start:    "2020-01-01",
		End:      "2020-12-31",
		Capital:  10000,
		Strategy: config.StrategyConfig{
			EntryRule: "WMA_SLOPE_EMA",
			WMAWindow: 3,
			EMASpan:   3,
			MinBars:   5,
		},
	}
}

func postBacktest(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/backtest", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBacktestEndpoint(t *testing.T) {
	router := NewRouter(nil, nil)

	w := postBacktest(t, router, BacktestRequest{
		Ticker:    "AAPL",
		Bars:      requestBars(),
		Capital:   10000,
		WMAWindow: 3,
		EMASpan:   3,
		MinBars:   5,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}

	var result types.BacktestResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Trades != 1 {
		t.Errorf("trades = %d, want 1", result.Trades)
	}
	if !result.TotalProfit.Equal(decimal.NewFromInt(-3996)) {
		t.Errorf("total profit = %s, want -3996", result.TotalProfit)
	}
	if len(result.Timeline) == 0 {
		t.Error("timeline missing from response")
	}
}

func TestBacktestEndpoint_Errors(t *testing.T) {
	router := NewRouter(nil, nil)

	tests := []struct {
		name     string
		body     any
		wantCode string
	}{
		{
			"missing ticker",
			BacktestRequest{Bars: requestBars()},
			"INVALID_REQUEST",
		},
		{
			"malformed date",
			BacktestRequest{Ticker: "AAPL", Bars: []BarInput{{Date: "02/03/2020", Close: 10}}},
			"INVALID_DATE",
		},
		{
			"bad entry rule",
			BacktestRequest{Ticker: "AAPL", Bars: requestBars(), EntryRule: "MOMENTUM"},
			"INVALID_CONFIG",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postBacktest(t, router, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("error code = %s, want %s", resp.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestRankEndpoint(t *testing.T) {
	db := &mockBarLoader{
		asset: &types.Asset{Id: 1, Ticker: "AAPL"},
		bars:  storedBars("AAPL"),
	}
	router := NewRouter(db, testUniverse())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rank", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}

	var resp RankResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Ticker != "AAPL" {
		t.Fatalf("results = %+v", resp.Results)
	}
	if resp.Results[0].Trades != 1 {
		t.Errorf("trades = %d, want 1", resp.Results[0].Trades)
	}
}

func TestRankEndpoint_MissingInstrumentRanksDegenerate(t *testing.T) {
	db := &mockBarLoader{assetErr: errors.New("asset not found")}
	router := NewRouter(db, testUniverse())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rank", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}

	var resp RankResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Trades != 0 {
		t.Errorf("results = %+v, want one degenerate entry", resp.Results)
	}
}

func TestRankEndpoint_NoDatastore(t *testing.T) {
	router := NewRouter(nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rank", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := NewRouter(nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := NewRouter(nil, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/backtest", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("preflight response missing Access-Control-Allow-Origin")
	}
}

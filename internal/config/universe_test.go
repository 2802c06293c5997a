package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"trendscan/internal/engine"
	"trendscan/types"
)

func writeUniverse(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "universe.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validUniverse = `
tickers: [AAPL, MSFT]
interval: W
start: 2015-01-01
end: 2020-01-01
capital: 100000
strategy:
  entry_rule: WMA_SLOPE_EMA
  wma_window: 30
  ema_span: 9
`

func TestLoadUniverse(t *testing.T) {
	u, err := LoadUniverse(writeUniverse(t, validUniverse))
	if err != nil {
		t.Fatal(err)
	}
	if len(u.Tickers) != 2 || u.Tickers[0] != "AAPL" {
		t.Errorf("tickers = %v", u.Tickers)
	}
	if u.IntervalType() != types.Week {
		t.Errorf("interval = %v, want %v", u.IntervalType(), types.Week)
	}

	start, end, err := u.Range()
	if err != nil {
		t.Fatal(err)
	}
	if start.Year() != 2015 || end.Year() != 2020 {
		t.Errorf("range = %s .. %s", start, end)
	}
}

func TestLoadUniverse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no tickers", `
tickers: []
interval: W
start: 2015-01-01
capital: 100000
`},
		{"bad interval", `
tickers: [AAPL]
interval: fortnight
start: 2015-01-01
capital: 100000
`},
		{"bad start date", `
tickers: [AAPL]
interval: W
start: Jan 1st
capital: 100000
`},
		{"end before start", `
tickers: [AAPL]
interval: W
start: 2020-01-01
end: 2015-01-01
capital: 100000
`},
		{"non-positive capital", `
tickers: [AAPL]
interval: W
start: 2015-01-01
capital: 0
`},
		{"unknown entry rule", `
tickers: [AAPL]
interval: W
start: 2015-01-01
capital: 100000
strategy:
  entry_rule: MOMENTUM
`},
		{"not yaml at all", `{{{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadUniverse(writeUniverse(t, tt.body)); err == nil {
				t.Error("LoadUniverse() should fail")
			}
		})
	}
}

func TestLoadUniverse_MissingFile(t *testing.T) {
	if _, err := LoadUniverse(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadUniverse() should fail for a missing file")
	}
}

func TestUniverse_EmptyEndDefaultsToToday(t *testing.T) {
	u := Universe{
		Tickers:  []string{"AAPL"},
		Interval: "W",
		Start:    "2015-01-01",
		Capital:  100000,
	}
	_, end, err := u.Range()
	if err != nil {
		t.Fatal(err)
	}
	if time.Since(end) > 48*time.Hour || end.Before(time.Now().UTC().AddDate(0, 0, -2)) {
		t.Errorf("defaulted end = %s, want roughly today", end)
	}
}

func TestUniverse_EngineConfigDefaults(t *testing.T) {
	u := Universe{Capital: 50000}
	cfg := u.EngineConfig()

	if cfg.WMAWindow != engine.DefaultWMAWindow {
		t.Errorf("wma window = %d, want %d", cfg.WMAWindow, engine.DefaultWMAWindow)
	}
	if cfg.EMASpan != engine.DefaultEMASpan {
		t.Errorf("ema span = %d, want %d", cfg.EMASpan, engine.DefaultEMASpan)
	}
	if cfg.EntryRule != engine.EntryWMASlopeEMA {
		t.Errorf("entry rule = %s, want %s", cfg.EntryRule, engine.EntryWMASlopeEMA)
	}
	if !cfg.InitialCapital.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("capital = %s, want 50000", cfg.InitialCapital)
	}
	if cfg.MinBars != engine.DefaultWMAWindow+10 {
		t.Errorf("min bars = %d, want %d", cfg.MinBars, engine.DefaultWMAWindow+10)
	}
}

func TestUniverse_EngineConfigStackSpans(t *testing.T) {
	u := Universe{
		Capital:  50000,
		Strategy: StrategyConfig{EntryRule: "EMA_STACK"},
	}
	cfg := u.EngineConfig()
	if len(cfg.StackSpans) != len(engine.DefaultStackSpans) {
		t.Fatalf("stack spans = %v, want defaults %v", cfg.StackSpans, engine.DefaultStackSpans)
	}
	if cfg.MinBars != 200 {
		t.Errorf("min bars = %d, want 200", cfg.MinBars)
	}
}

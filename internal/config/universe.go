package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"trendscan/internal/engine"
	"trendscan/types"
)

const dateLayout = "2006-01-02"

// Universe is the on-disk instrument list and strategy parameters (YAML).
type Universe struct {
	Tickers  []string       `yaml:"tickers"`
	Interval string         `yaml:"interval"`
	Start    string         `yaml:"start"`
	End      string         `yaml:"end"`
	Capital  float64        `yaml:"capital"`
	Strategy StrategyConfig `yaml:"strategy"`
}

type StrategyConfig struct {
	EntryRule  string `yaml:"entry_rule"`
	WMAWindow  int    `yaml:"wma_window"`
	EMASpan    int    `yaml:"ema_span"`
	MinBars    int    `yaml:"min_bars"`
	StackSpans []int  `yaml:"stack_spans"`
}

// LoadUniverse reads and validates a universe file.
func LoadUniverse(path string) (*Universe, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var u Universe
	if err := yaml.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("parse universe file: %w", err)
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return &u, nil
}

func (u *Universe) Validate() error {
	if len(u.Tickers) == 0 {
		return errors.New("universe needs at least one ticker")
	}
	if _, ok := types.ConvertInterval[u.Interval]; !ok {
		return fmt.Errorf("unknown interval %q", u.Interval)
	}
	if u.Capital <= 0 {
		return errors.New("capital must be positive")
	}
	if _, _, err := u.Range(); err != nil {
		return err
	}
	// Engine-side parameters are checked by engine.Config.Validate.
	return u.EngineConfig().Validate()
}

// Range parses the configured backtest window. An empty end means "today".
func (u *Universe) Range() (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, u.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start date: %w", err)
	}
	end := time.Now().UTC().Truncate(24 * time.Hour)
	if u.End != "" {
		end, err = time.Parse(dateLayout, u.End)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end date: %w", err)
		}
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, errors.New("end date must be after start date")
	}
	return start, end, nil
}

// EngineConfig maps the strategy block onto an engine.Config with defaults
// filled in.
func (u *Universe) EngineConfig() engine.Config {
	cfg := engine.Config{
		WMAWindow:      u.Strategy.WMAWindow,
		EMASpan:        u.Strategy.EMASpan,
		InitialCapital: decimal.NewFromFloat(u.Capital),
		EntryRule:      engine.EntryRule(u.Strategy.EntryRule),
		MinBars:        u.Strategy.MinBars,
		StackSpans:     u.Strategy.StackSpans,
	}
	return cfg.Normalized()
}

// IntervalType returns the parsed bar interval.
func (u *Universe) IntervalType() types.Interval {
	return types.ConvertInterval[u.Interval]
}

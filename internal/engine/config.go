package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidConfig = errors.New("invalid backtest config")

type EntryRule string

const (
	// EntryWMASlopeOnly buys when close > WMA and the WMA slope is positive.
	EntryWMASlopeOnly EntryRule = "WMA_SLOPE_ONLY"
	// EntryWMASlopeEMA additionally requires close > EMA.
	EntryWMASlopeEMA EntryRule = "WMA_SLOPE_EMA"
	// EntryEMAStack buys when close is above every EMA in StackSpans.
	EntryEMAStack EntryRule = "EMA_STACK"
)

const (
	DefaultWMAWindow = 30
	DefaultEMASpan   = 9
	// minBarsMargin is the slack required past the WMA warm-up window.
	minBarsMargin = 10
)

// DefaultStackSpans are the spans of the EMA-stack entry variant, largest
// first. The largest span doubles as that variant's minimum series length.
var DefaultStackSpans = []int{200, 50, 20, 9}

type Config struct {
	WMAWindow      int
	EMASpan        int
	InitialCapital decimal.Decimal
	EntryRule      EntryRule
	MinBars        int
	StackSpans     []int
}

// NewConfig returns the default configuration for the given starting capital:
// 30-bar WMA, 9-bar EMA, the combined WMA-slope-and-EMA entry rule.
func NewConfig(initialCapital decimal.Decimal) Config {
	cfg := Config{
		WMAWindow:      DefaultWMAWindow,
		EMASpan:        DefaultEMASpan,
		InitialCapital: initialCapital,
		EntryRule:      EntryWMASlopeEMA,
	}
	cfg.MinBars = cfg.defaultMinBars()
	return cfg
}

func (c Config) defaultMinBars() int {
	if c.EntryRule == EntryEMAStack {
		return c.Warmup()
	}
	return c.WMAWindow + minBarsMargin
}

// Warmup is the first index at which every indicator the entry rule consumes
// is defined.
func (c Config) Warmup() int {
	if c.EntryRule == EntryEMAStack {
		max := 0
		for _, span := range c.StackSpans {
			if span > max {
				max = span
			}
		}
		return max
	}
	// The slope needs one defined WMA bar before it.
	return c.WMAWindow
}

// Normalized fills zero-valued fields with defaults. Validate still applies.
func (c Config) Normalized() Config {
	out := c
	if out.WMAWindow == 0 {
		out.WMAWindow = DefaultWMAWindow
	}
	if out.EMASpan == 0 {
		out.EMASpan = DefaultEMASpan
	}
	if out.EntryRule == "" {
		out.EntryRule = EntryWMASlopeEMA
	}
	if out.EntryRule == EntryEMAStack && len(out.StackSpans) == 0 {
		out.StackSpans = DefaultStackSpans
	}
	if out.MinBars == 0 {
		out.MinBars = out.defaultMinBars()
	}
	return out
}

func (c Config) Validate() error {
	if !c.InitialCapital.GreaterThan(decimal.Zero) {
		return fmt.Errorf("initial capital %s must be positive: %w", c.InitialCapital, ErrInvalidConfig)
	}
	if c.WMAWindow <= 0 {
		return fmt.Errorf("wma window %d must be positive: %w", c.WMAWindow, ErrInvalidConfig)
	}
	if c.EMASpan <= 0 {
		return fmt.Errorf("ema span %d must be positive: %w", c.EMASpan, ErrInvalidConfig)
	}
	switch c.EntryRule {
	case EntryWMASlopeOnly, EntryWMASlopeEMA:
	case EntryEMAStack:
		if len(c.StackSpans) == 0 {
			return fmt.Errorf("ema stack needs at least one span: %w", ErrInvalidConfig)
		}
		for _, span := range c.StackSpans {
			if span <= 0 {
				return fmt.Errorf("ema stack span %d must be positive: %w", span, ErrInvalidConfig)
			}
		}
	default:
		return fmt.Errorf("unknown entry rule %q: %w", c.EntryRule, ErrInvalidConfig)
	}
	return nil
}

// Package live re-evaluates the breakdown rules over the freshest bars for
// each instrument, carrying position state between independent invocations as
// explicit snapshots persisted by the state store.
package live

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"trendscan/internal/engine"
	"trendscan/internal/notify"
	"trendscan/internal/state"
	"trendscan/types"
)

// Alert is one notification-worthy position change on the latest bar.
type Alert struct {
	Ticker string
	Side   types.Side
	Price  decimal.Decimal
	Date   time.Time
}

func (a Alert) Message() string {
	if a.Side == types.SideTypeBuy {
		return fmt.Sprintf("🟢 *BUY* %s at %s on %s", a.Ticker, a.Price.Round(2), a.Date.Format("2006-01-02"))
	}
	return fmt.Sprintf("🔴 *SELL* %s at %s on %s", a.Ticker, a.Price.Round(2), a.Date.Format("2006-01-02"))
}

func (a Alert) key() string {
	return a.Ticker + "|" + string(a.Side) + "|" + a.Date.Format("2006-01-02")
}

// EvaluateTicker advances a carried snapshot over the series and reports
// alerts for transitions that happen on the final bar. While flat the full
// history is replayed; while long, only bars after the recorded entry, so a
// position opened in an earlier invocation is never re-litigated. A series
// shorter than the configured minimum leaves the snapshot untouched.
func EvaluateTicker(bars []types.Bar, cfg engine.Config, prev types.PositionSnapshot) (types.PositionSnapshot, []Alert, error) {
	cfg = cfg.Normalized()
	if err := cfg.Validate(); err != nil {
		return prev, nil, err
	}
	bars = engine.Sanitize(bars)
	if len(bars) < cfg.MinBars {
		return prev, nil, nil
	}
	points, err := engine.Points(bars, cfg)
	if err != nil {
		return prev, nil, err
	}

	start := cfg.Warmup()
	if prev.InPosition() {
		for start < len(bars) && !bars[start].Timestamp.After(prev.EntryDate) {
			start++
		}
	}

	snap := prev
	if snap.Ticker == "" {
		snap.Ticker = bars[0].Ticker
	}
	var alerts []Alert
	last := len(bars) - 1
	for t := start; t < len(bars); t++ {
		// Live replays size entries from a fresh per-invocation capital pool.
		next, act := engine.Step(snap, bars[t], points[t], cfg.InitialCapital, cfg.EntryRule)
		snap = next
		if act != nil && t == last {
			side := types.SideTypeBuy
			if act.Kind == engine.ActionExit {
				side = types.SideTypeSell
			}
			alerts = append(alerts, Alert{
				Ticker: snap.Ticker,
				Side:   side,
				Price:  act.Price,
				Date:   act.Date,
			})
		}
	}
	return snap, alerts, nil
}

// Monitor ties the evaluation to the snapshot store and the notifier.
type Monitor struct {
	cfg      engine.Config
	notifier notify.Notifier
	store    *state.Store
	sent     map[string]struct{}
}

func NewMonitor(cfg engine.Config, notifier notify.Notifier, store *state.Store) *Monitor {
	return &Monitor{
		cfg:      cfg.Normalized(),
		notifier: notifier,
		store:    store,
		sent:     make(map[string]struct{}),
	}
}

// RunOnce evaluates every feed against the persisted snapshots, delivers
// fresh alerts, and saves the advanced snapshots. Snapshots advanced before a
// context cancellation are still saved, so an interrupted sweep never loses
// position state. Alerts already sent for the same ticker, side and date are
// suppressed for the lifetime of the monitor.
func (m *Monitor) RunOnce(ctx context.Context, feeds []engine.Feed) error {
	snaps, err := m.store.Load()
	if err != nil {
		return fmt.Errorf("load position state: %w", err)
	}

	var ctxErr error
	for _, feed := range feeds {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		prev, ok := snaps[feed.Ticker]
		if !ok {
			prev = types.NewFlatSnapshot(feed.Ticker)
		}
		next, alerts, err := EvaluateTicker(feed.Bars, m.cfg, prev)
		if err != nil {
			// A failing instrument never aborts the sweep.
			log.Error().Err(err).Str("ticker", feed.Ticker).Msg("evaluate failed")
			continue
		}
		snaps[feed.Ticker] = next

		for _, alert := range alerts {
			if _, dup := m.sent[alert.key()]; dup {
				continue
			}
			if err := m.notifier.Send(alert.Message()); err != nil {
				log.Error().Err(err).Str("ticker", alert.Ticker).Msg("send alert")
				continue
			}
			m.sent[alert.key()] = struct{}{}
			log.Info().
				Str("ticker", alert.Ticker).
				Str("side", string(alert.Side)).
				Str("price", alert.Price.String()).
				Msg("alert delivered")
		}
	}

	if err := m.store.Save(snaps); err != nil {
		return fmt.Errorf("save position state: %w", err)
	}
	return ctxErr
}

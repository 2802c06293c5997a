package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"trendscan/internal/config"
	"trendscan/internal/engine"
	"trendscan/internal/live"
	"trendscan/internal/notify"
	"trendscan/internal/repository"
	"trendscan/internal/state"
)

func main() {
	settings := config.LoadSettings()
	setupLogging(settings.LogLevel)

	if err := run(settings); err != nil {
		log.Fatal().Err(err).Msg("monitor failed")
	}
}

func run(settings config.Settings) error {
	universe, err := config.LoadUniverse(settings.UniverseFile)
	if err != nil {
		return fmt.Errorf("load universe %s: %w", settings.UniverseFile, err)
	}

	db, err := repository.NewDatabase(settings.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	notifier, err := notify.FromToken(settings.TelegramToken, settings.TelegramChatID)
	if err != nil {
		return fmt.Errorf("telegram init: %w", err)
	}

	store := state.New(settings.StatePath)
	monitor := live.NewMonitor(universe.EngineConfig(), notifier, store)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info().
		Dur("interval", settings.PollInterval).
		Int("tickers", len(universe.Tickers)).
		Msg("monitor starting")

	ticker := time.NewTicker(settings.PollInterval)
	defer ticker.Stop()

	for {
		if err := sweep(ctx, db, universe, monitor); err != nil {
			log.Error().Err(err).Msg("sweep failed")
		}
		select {
		case <-ctx.Done():
			log.Info().Msg("monitor stopping")
			return nil
		case <-ticker.C:
		}
	}
}

// sweep loads the freshest bars per instrument and runs one monitor pass.
func sweep(ctx context.Context, db repository.Database, universe *config.Universe, monitor *live.Monitor) error {
	start, end, err := universe.Range()
	if err != nil {
		return err
	}
	// Always evaluate up to now; the universe end only bounds backtests.
	end = time.Now().UTC()

	feeds := make([]engine.Feed, 0, len(universe.Tickers))
	for _, t := range universe.Tickers {
		asset, err := db.GetAssetByTicker(t, ctx)
		if err != nil {
			log.Warn().Err(err).Str("ticker", t).Msg("skipping instrument")
			continue
		}
		bars, err := db.GetBars(asset.Id, t, universe.IntervalType(), start, end, ctx)
		if err != nil {
			log.Warn().Err(err).Str("ticker", t).Msg("no bars, skipping instrument")
			continue
		}
		feeds = append(feeds, engine.Feed{Ticker: t, Bars: bars})
	}
	return monitor.RunOnce(ctx, feeds)
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

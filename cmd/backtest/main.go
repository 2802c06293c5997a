package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"trendscan/internal/config"
	"trendscan/internal/engine"
	"trendscan/internal/repository"
)

func main() {
	settings := config.LoadSettings()
	setupLogging(settings.LogLevel)

	if err := run(settings); err != nil {
		log.Fatal().Err(err).Msg("backtest failed")
	}
}

func run(settings config.Settings) error {
	universe, err := config.LoadUniverse(settings.UniverseFile)
	if err != nil {
		return fmt.Errorf("load universe %s: %w", settings.UniverseFile, err)
	}
	start, end, err := universe.Range()
	if err != nil {
		return fmt.Errorf("universe range: %w", err)
	}

	db, err := repository.NewDatabase(settings.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	feeds := make([]engine.Feed, 0, len(universe.Tickers))
	for _, ticker := range universe.Tickers {
		asset, err := db.GetAssetByTicker(ticker, ctx)
		if err != nil {
			log.Warn().Err(err).Str("ticker", ticker).Msg("skipping instrument")
			feeds = append(feeds, engine.Feed{Ticker: ticker})
			continue
		}
		bars, err := db.GetBars(asset.Id, ticker, universe.IntervalType(), start, end, ctx)
		if err != nil {
			log.Warn().Err(err).Str("ticker", ticker).Msg("no bars, skipping instrument")
			feeds = append(feeds, engine.Feed{Ticker: ticker})
			continue
		}
		feeds = append(feeds, engine.Feed{Ticker: ticker, Bars: bars})
	}

	results, err := engine.RunBatch(ctx, feeds, universe.EngineConfig(), engine.BatchOptions{Progress: true})
	if err != nil {
		return err
	}

	summary := engine.Aggregate(results)
	fmt.Println()
	engine.WriteSummary(os.Stdout, summary)

	if top := summary.Top(); top != nil && len(top.TradeList) > 0 {
		path := fmt.Sprintf("%s_trade_details.csv", sanitizeTicker(top.Ticker))
		if err := engine.WriteTradesCSVFile(path, top.TradeList); err != nil {
			log.Error().Err(err).Msg("write trade csv")
		} else {
			log.Info().Str("path", path).Msg("top instrument trade history written")
		}
	}
	return nil
}

func sanitizeTicker(ticker string) string {
	return strings.ReplaceAll(ticker, ".", "_")
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

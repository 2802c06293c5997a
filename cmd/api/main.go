package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"trendscan/internal/api"
	"trendscan/internal/config"
	"trendscan/internal/repository"
)

func main() {
	settings := config.LoadSettings()
	setupLogging(settings.LogLevel)

	if err := run(settings); err != nil {
		log.Fatal().Err(err).Msg("api server stopped")
	}
}

func run(settings config.Settings) error {
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// The inline backtest endpoint works without a database; ranking needs
	// the bar store and a universe file.
	universe, err := config.LoadUniverse(settings.UniverseFile)
	if err != nil {
		log.Warn().Err(err).Msg("no universe file, /rank disabled")
		universe = nil
	}

	var router *gin.Engine
	if settings.DatabaseURL != "" {
		db, err := repository.NewDatabase(settings.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
		router = api.NewRouter(&db, universe)
	} else {
		log.Warn().Msg("DATABASE_URL empty, /rank disabled")
		router = api.NewRouter(nil, universe)
	}

	addr := ":" + settings.APIPort
	log.Info().Str("addr", addr).Msg("api listening")
	return router.Run(addr)
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

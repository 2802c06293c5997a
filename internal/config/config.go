// Package config loads runtime settings from the environment (viper) and the
// instrument universe / strategy parameters from a YAML file.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Settings are process-level knobs sourced from the environment or a .env
// file. Secrets (database URL, Telegram token) never live in the universe
// file.
type Settings struct {
	DatabaseURL    string
	TelegramToken  string
	TelegramChatID int64
	LogLevel       string
	PollInterval   time.Duration
	StatePath      string
	UniverseFile   string
	APIPort        string
}

func LoadSettings() Settings {
	v := viper.New()
	v.SetConfigFile(".env")
	_ = v.ReadInConfig()
	v.AutomaticEnv()

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("POLL_INTERVAL", "1h")
	v.SetDefault("STATE_PATH", "data/positions.json")
	v.SetDefault("UNIVERSE_FILE", "universe.yaml")
	v.SetDefault("API_PORT", "8080")

	return Settings{
		DatabaseURL:    v.GetString("DATABASE_URL"),
		TelegramToken:  v.GetString("TG_TOKEN"),
		TelegramChatID: v.GetInt64("TG_CHAT_ID"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		PollInterval:   v.GetDuration("POLL_INTERVAL"),
		StatePath:      v.GetString("STATE_PATH"),
		UniverseFile:   v.GetString("UNIVERSE_FILE"),
		APIPort:        v.GetString("API_PORT"),
	}
}

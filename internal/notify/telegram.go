// Package notify delivers entry/exit alerts. Which trades are
// notification-worthy is the caller's policy; this package only sends.
package notify

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

type Notifier interface {
	Send(text string) error
}

// Telegram sends alerts to a single chat.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = false
	log.Info().Str("bot", api.Self.UserName).Msg("telegram connected")
	return &Telegram{api: api, chatID: chatID}, nil
}

func (t *Telegram) Send(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := t.api.Send(msg)
	return err
}

// Nop drops alerts. Used when no token is configured.
type Nop struct{}

func (Nop) Send(string) error { return nil }

// FromToken returns a Telegram notifier, or a Nop when the token is empty.
func FromToken(token string, chatID int64) (Notifier, error) {
	if token == "" {
		log.Warn().Msg("TG token empty: alerts disabled")
		return Nop{}, nil
	}
	return NewTelegram(token, chatID)
}

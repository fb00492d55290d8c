// Package telegram delivers reply texts to chats through the Telegram Bot
// API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrDisabled is returned by Send when no bot token was configured.
var ErrDisabled = errors.New("telegram notifier disabled: no token configured")

type Notifier struct {
	bot *tgbotapi.BotAPI
}

// New authenticates against the Bot API with the given token.
func New(token string) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	slog.Info("Telegram bot authorized", "username", bot.Self.UserName)
	return &Notifier{bot: bot}, nil
}

// NewDisabled returns a notifier whose sends always fail. Used when the
// token is missing so the process can keep serving the webhook.
func NewDisabled() *Notifier {
	return &Notifier{}
}

// Send delivers text to a chat. Failures are for the caller to log; the
// Bot API call is not retried.
func (n *Notifier) Send(ctx context.Context, chatID int64, text string) error {
	if n.bot == nil {
		return ErrDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := n.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	return nil
}

package notifier

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/quantgate/signal-sentinel/pkg/errors"
)

// telegramSender is the subset of the Telegram Bot API the notifier uses,
// extracted so tests can substitute a fake.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts transition alerts to a Telegram chat.
type TelegramNotifier struct {
	bot    telegramSender
	chatID int64
}

// NewTelegramNotifier creates a Telegram notifier for the given bot token
// and chat.
func NewTelegramNotifier(botToken string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotifierUnavailable, "failed to create telegram bot", err)
	}

	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Name implements Notifier.
func (t *TelegramNotifier) Name() string {
	return "telegram"
}

// Send implements Notifier.
func (t *TelegramNotifier) Send(_ context.Context, notification Notification) error {
	msg := tgbotapi.NewMessage(t.chatID, notification.Text())

	if _, err := t.bot.Send(msg); err != nil {
		return errors.Wrap(errors.ErrCodeDeliveryFailed, "failed to send telegram message", err)
	}

	return nil
}

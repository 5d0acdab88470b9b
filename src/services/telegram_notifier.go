package services

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/amosov/userdir/src/models"
)

// messageSender is the subset of the Telegram client the notifier needs
type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts best-effort notifications to a fixed channel. It
// shares the bot token with the command bot but only ever sends.
type TelegramNotifier struct {
	api    messageSender
	chatID int64
}

// NewTelegramNotifier creates a notifier. Returns nil when the token is not
// configured so callers can treat notifications as disabled.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}

	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

// NewTelegramNotifierWithSender creates a notifier with a custom sender (for testing)
func NewTelegramNotifierWithSender(sender messageSender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{api: sender, chatID: chatID}
}

// NotifyUserRegistered announces a new directory user to the channel
func (n *TelegramNotifier) NotifyUserRegistered(user *models.User) error {
	text := fmt.Sprintf(
		"New user registered:\nName: %s\nSurname: %s\nEmail: %s\nArea: %s\nContact: %s",
		user.Username, user.Surname, user.Email, user.Area, user.Contact,
	)

	if _, err := n.api.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		return fmt.Errorf("failed to send telegram notification: %w", err)
	}
	return nil
}

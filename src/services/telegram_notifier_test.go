package services

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosov/userdir/src/models"
)

// fakeSender captures outgoing messages instead of talking to Telegram
type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func TestNewTelegramNotifier_DisabledWhenUnconfigured(t *testing.T) {
	notifier, err := NewTelegramNotifier("", 42)
	require.NoError(t, err)
	assert.Nil(t, notifier)

	notifier, err = NewTelegramNotifier("token", 0)
	require.NoError(t, err)
	assert.Nil(t, notifier)
}

func TestNotifyUserRegistered(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewTelegramNotifierWithSender(sender, 42)

	err := notifier.NotifyUserRegistered(&models.User{
		Username: "jane",
		Surname:  "smith",
		Email:    "jane@example.com",
		Area:     "north",
		Contact:  "555-0101",
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t,
		"New user registered:\nName: jane\nSurname: smith\nEmail: jane@example.com\nArea: north\nContact: 555-0101",
		msg.Text)
}

func TestNotifyUserRegistered_SendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("bad gateway")}
	notifier := NewTelegramNotifierWithSender(sender, 42)

	err := notifier.NotifyUserRegistered(&models.User{Username: "jane"})
	assert.Error(t, err)
}

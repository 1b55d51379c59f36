// Package alerts delivers urgent complaint notifications to administrators
// out of band, over Telegram.
package alerts

import (
	"log"

	"resolve/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Alerter forwards notifications from its Send channel to a fixed admin
// chat. It is optional: when no bot token is configured the hub simply has
// no alert sink.
type Alerter struct {
	ChatID int64
	BotAPI *tgbotapi.BotAPI
	Send   chan models.Notification
}

func NewAlerter(token string, chatID int64) (*Alerter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Printf("Telegram alerter authorized as %s", bot.Self.UserName)

	return &Alerter{
		ChatID: chatID,
		BotAPI: bot,
		Send:   make(chan models.Notification, 16),
	}, nil
}

// Run запускає 'write pump' для Telegram-сповіщень.
func (a *Alerter) Run() {
	defer func() {
		log.Printf("Зупинка writePump для Telegram alerter")
	}()

	for notification := range a.Send {
		msg := tgbotapi.NewMessage(a.ChatID, "🚨 *Urgent complaint*\n"+notification.Message)
		msg.ParseMode = tgbotapi.ModeMarkdown

		if _, err := a.BotAPI.Send(msg); err != nil {
			log.Printf("ERROR: Failed to send Telegram alert: %v", err)
		}
	}
}

// Close закриває Send канал (що зупинить writePump)
func (a *Alerter) Close() {
	close(a.Send)
}

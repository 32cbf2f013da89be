package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AlertService pushes security events to an ops Telegram chat. A nil
// receiver is a no-op so the wiring is optional, same as other integrations.
type AlertService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewAlertService(botToken string, chatID int64) *AlertService {
	if botToken == "" || chatID == 0 {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[alerts] telegram bot init failed, alerts disabled: %v", err)
		return nil
	}
	return &AlertService{bot: bot, chatID: chatID}
}

func (a *AlertService) send(text string) {
	if a == nil || a.bot == nil {
		return
	}
	msg := tgbotapi.NewMessage(a.chatID, text)
	if _, err := a.bot.Send(msg); err != nil {
		log.Printf("[alerts] send failed: %v", err)
	}
}

func (a *AlertService) HoneytokenHit(email, clientIP string) {
	a.send(fmt.Sprintf("⚠️ Honeytoken credential matched: %s (ip %s). Likely credential stuffing.", email, clientIP))
}

func (a *AlertService) RateLimitTripped(key string) {
	a.send(fmt.Sprintf("Rate limit tripped for login key %s", key))
}

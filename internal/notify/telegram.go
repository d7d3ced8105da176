package notify

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabbuilder/pkg/models"
)

// TelegramNotifier delivers the daily word to a configured chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramFromEnv builds a notifier from TELEGRAM_BOT_TOKEN and
// TELEGRAM_CHAT_ID. Both unset means notifications are disabled: the
// returned notifier and error are both nil.
func NewTelegramFromEnv() (*TelegramNotifier, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	chat := os.Getenv("TELEGRAM_CHAT_ID")
	if token == "" && chat == "" {
		return nil, nil
	}
	if token == "" || chat == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}

	chatID, err := strconv.ParseInt(chat, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %v", err)
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %v", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// SendWordOfTheDay sends one word with its meaning and example phrase.
func (n *TelegramNotifier) SendWordOfTheDay(entry models.WordEntry) error {
	var b strings.Builder
	fmt.Fprintf(&b, "📚 *Word of the day*\n\n*%s*\n%s", entry.Word, entry.Meaning)
	if entry.Phrase != "" {
		fmt.Fprintf(&b, "\n\n_%s_", entry.Phrase)
	}
	if entry.Category != "" {
		fmt.Fprintf(&b, "\n\nCategory: %s", entry.Category)
	}

	msg := tgbotapi.NewMessage(n.chatID, b.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %v", err)
	}
	return nil
}

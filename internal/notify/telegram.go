package notify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/sevenrooms-watcher/internal/config"
)

// Telegram posts messages through the Bot API sendMessage method. The bot
// handle is created on first use so a process without network still starts.
type Telegram struct {
	cfg      config.Telegram
	endpoint string
	hc       *http.Client

	bot *tgbotapi.BotAPI
}

func NewTelegram(cfg config.Telegram, timeout time.Duration) *Telegram {
	return &Telegram{
		cfg:      cfg,
		endpoint: tgbotapi.APIEndpoint,
		hc:       &http.Client{Timeout: timeout},
	}
}

func (t *Telegram) Name() string { return "telegram" }

// Deliver sends msg to the configured chat. The bot library has no context
// support, so ctx is only checked before any request is made.
func (t *Telegram) Deliver(ctx context.Context, msg Message) Delivery {
	if !t.cfg.Enabled() {
		return Delivery{Channel: t.Name(), Status: StatusSkipped, Reason: "missing bot token or chat id"}
	}
	if err := ctx.Err(); err != nil {
		return Delivery{Channel: t.Name(), Status: StatusFailed, Err: fmt.Errorf("telegram send: %w", err)}
	}
	bot, err := t.botAPI()
	if err != nil {
		return Delivery{Channel: t.Name(), Status: StatusFailed, Err: err}
	}
	if _, err := bot.Send(t.message(msg.ChatText())); err != nil {
		return Delivery{Channel: t.Name(), Status: StatusFailed, Err: fmt.Errorf("telegram send: %w", err)}
	}
	return Delivery{Channel: t.Name(), Status: StatusSent}
}

// message targets a numeric chat id, or a public @channel otherwise.
func (t *Telegram) message(text string) tgbotapi.MessageConfig {
	chat := strings.TrimSpace(t.cfg.ChatID)
	if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
		return tgbotapi.NewMessage(id, text)
	}
	return tgbotapi.NewMessageToChannel(chat, text)
}

// Ping validates the token with getMe.
func (t *Telegram) Ping() (string, error) {
	if !t.cfg.Enabled() {
		return "", fmt.Errorf("telegram disabled: TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID required")
	}
	bot, err := t.botAPI()
	if err != nil {
		return "", err
	}
	return bot.Self.UserName, nil
}

func (t *Telegram) botAPI() (*tgbotapi.BotAPI, error) {
	if t.bot != nil {
		return t.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(t.cfg.BotToken, t.endpoint, t.hc)
	if err != nil {
		return nil, fmt.Errorf("telegram getMe: %w", err)
	}
	bot.Debug = false
	t.bot = bot
	return bot, nil
}

package telegram

import (
	"context"
	"energymon/internal/providers"
	"energymon/internal/structures"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

var ErrNoToken = errors.New("telegram token is not configured")

// BotTransport talks to the Bot API. Sends are throttled to stay under the
// API's per-bot broadcast limit.
type BotTransport struct {
	bot     *tgbotapi.BotAPI
	limiter *rate.Limiter
	logger  providers.Logger
}

func NewBotTransport(conf *structures.Config, logger providers.Logger) (Transport, error) {
	if conf.Telegram.Token == "" {
		return nil, ErrNoToken
	}
	bot, err := tgbotapi.NewBotAPI(conf.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	bot.Debug = conf.Debug

	limit := rate.Inf
	if conf.Alert.SendRate > 0 {
		limit = rate.Limit(conf.Alert.SendRate)
	}
	logger.Infof(providers.TypeTelegram, "Authorized as @%s", bot.Self.UserName)

	return &BotTransport{
		bot:     bot,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}, nil
}

func parseMode(f Formatting) string {
	switch f {
	case FormatHTML:
		return tgbotapi.ModeHTML
	case FormatMarkdown:
		return tgbotapi.ModeMarkdown
	default:
		return ""
	}
}

func (t *BotTransport) Send(ctx context.Context, chatID int64, text string, formatting Formatting) (bool, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return false, err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseMode(formatting)
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return false, fmt.Errorf("send to %d: %w", chatID, err)
	}
	return true, nil
}

func (t *BotTransport) FetchUpdates(ctx context.Context, sinceID int64, timeoutSeconds int) ([]Update, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := tgbotapi.NewUpdate(int(sinceID + 1))
	cfg.Timeout = timeoutSeconds
	cfg.AllowedUpdates = []string{"message"}

	raw, err := t.bot.GetUpdates(cfg)
	if err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}

	updates := make([]Update, 0, len(raw))
	for _, u := range raw {
		out := Update{UpdateID: int64(u.UpdateID)}
		if chat := u.FromChat(); chat != nil {
			out.ChatID = chat.ID
			out.ChatType = chat.Type
		}
		if from := u.SentFrom(); from != nil {
			out.Username = from.UserName
			out.FirstName = from.FirstName
		}
		updates = append(updates, out)
	}
	return updates, nil
}

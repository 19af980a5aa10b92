// Package bot implements the Telegram command bot.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"launchintel/internal/config"
	"launchintel/internal/model"
	"launchintel/internal/notify"
	"launchintel/internal/stocks"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// LaunchSource provides upcoming and recent launches.
type LaunchSource interface {
	Upcoming(ctx context.Context) []model.Launch
	Recent(ctx context.Context, days int) []model.RecentLaunch
}

// NewsSource provides the latest articles.
type NewsSource interface {
	Latest(ctx context.Context) []model.Article
}

// StockSource provides share prices.
type StockSource interface {
	Prices(ctx context.Context) stocks.Report
}

// Sources groups the data the bot answers with.
type Sources struct {
	Launches LaunchSource
	News     NewsSource
	Stocks   StockSource
}

// Bot is the Telegram bot that answers user commands.
type Bot struct {
	api telegramAPI
	src Sources
	cfg *config.Config
	log *slog.Logger
	loc *time.Location
	now func() time.Time
}

// New creates a Bot with the given Telegram token, data sources, and config.
func New(token string, src Sources, cfg *config.Config, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api: api,
		src: src,
		cfg: cfg,
		log: log,
		loc: time.Local,
		now: time.Now,
	}, nil
}

// Notifier returns an alert sender that shares the bot's connection.
func (b *Bot) Notifier() *notify.Telegram {
	return notify.NewTelegram(b.api)
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if cb := update.CallbackQuery; cb != nil {
		if cb.From == nil || !b.cfg.IsUserAllowed(cb.From.ID) {
			return
		}
		b.handleCallback(ctx, cb)
		return
	}
	msg := update.Message
	if msg == nil || !msg.IsCommand() {
		return
	}
	if msg.From == nil || !b.cfg.IsUserAllowed(msg.From.ID) {
		b.reply(msg.Chat.ID, "Access denied.")
		return
	}
	b.handleCommand(ctx, msg)
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(chatID, text, nil)
}

func (b *Bot) send(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	b.log.Debug("command", "cmd", cmd, "args", args, "chat_id", chatID)

	switch cmd {
	case "start":
		b.handleStart(chatID)
	case "help":
		b.handleHelp(chatID)
	case cmdLaunches:
		b.handleLaunches(ctx, chatID)
	case cmdNext:
		b.handleNext(ctx, chatID)
	case cmdRecent:
		b.handleRecent(ctx, chatID, args)
	case cmdNews:
		b.handleNews(ctx, chatID)
	case cmdStocks:
		b.handleStocks(ctx, chatID)
	default:
		b.reply(chatID, "Unknown command. Use /help for a list of commands.")
	}
}

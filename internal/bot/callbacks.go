package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	cmdLaunches = "launches"
	cmdNext     = "next"
	cmdRecent   = "recent"
	cmdNews     = "news"
	cmdStocks   = "stocks"

	actionRefresh = "refresh"
)

func refreshKeyboard(cmd string, withNext bool) *tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", actionRefresh+":"+cmd),
	}
	if withNext {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⏳ Next launch", actionRefresh+":"+cmdNext))
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(row)
	return &markup
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	callback := tgbotapi.NewCallback(cb.ID, "")
	if _, err := b.api.Send(callback); err != nil {
		b.log.Error("send callback ack", "error", err)
	}

	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	action, arg, ok := ParseCallback(cb.Data)
	if !ok || action != actionRefresh {
		return
	}

	b.log.Info("callback",
		"action", action,
		"arg", arg,
		"chat_id", chatID,
		"user_id", cb.From.ID,
		"username", cb.From.UserName,
	)

	switch arg {
	case cmdLaunches:
		b.handleLaunches(ctx, chatID)
	case cmdNext:
		b.handleNext(ctx, chatID)
	case cmdNews:
		b.handleNews(ctx, chatID)
	case cmdStocks:
		b.handleStocks(ctx, chatID)
	}
}

package bot

import (
	"context"
)

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, `Welcome to LaunchIntel!

Launch schedules for the spaceports you follow, recent launches, space news and space stocks.

Quick start:
1. /launches — upcoming launches
2. /next — countdown to the next launch
3. /news — latest space news

Use /help for the full command reference.`)
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Launches:
/launches — upcoming launches at tracked spaceports
/next — the next launch with a countdown
/recent [days] — launches of the last days (default from config, max 365)

Industry:
/news — latest space news
/stocks — space company share prices`)
}

func (b *Bot) handleLaunches(ctx context.Context, chatID int64) {
	launches := b.src.Launches.Upcoming(ctx)
	b.send(chatID, FormatLaunches(launches, b.loc), refreshKeyboard(cmdLaunches, len(launches) > 0))
}

func (b *Bot) handleNext(ctx context.Context, chatID int64) {
	launches := b.src.Launches.Upcoming(ctx)
	if len(launches) == 0 {
		b.reply(chatID, noUpcoming)
		return
	}
	b.send(chatID, FormatNext(launches[0], b.now(), b.loc), refreshKeyboard(cmdNext, false))
}

func (b *Bot) handleRecent(ctx context.Context, chatID int64, args string) {
	days, err := ParseDaysArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /recent [days] — "+err.Error())
		return
	}
	if days == 0 {
		days = b.cfg.Defaults.RecentDays
	}
	b.reply(chatID, FormatRecent(b.src.Launches.Recent(ctx, days), days, b.loc))
}

func (b *Bot) handleNews(ctx context.Context, chatID int64) {
	b.send(chatID, FormatNews(b.src.News.Latest(ctx)), refreshKeyboard(cmdNews, false))
}

func (b *Bot) handleStocks(ctx context.Context, chatID int64) {
	b.send(chatID, FormatStocks(b.src.Stocks.Prices(ctx)), refreshKeyboard(cmdStocks, false))
}

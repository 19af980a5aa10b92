package bot

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/go-cmp/cmp"

	"launchintel/internal/config"
	"launchintel/internal/model"
	"launchintel/internal/stocks"
)

// --- mocks ---

type sentMsg struct {
	ChatID int64
	Text   string
	Markup any
}

type mockAPI struct {
	mu        sync.Mutex
	sent      []sentMsg
	callbacks int
}

func (m *mockAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch msg := c.(type) {
	case tgbotapi.MessageConfig:
		m.sent = append(m.sent, sentMsg{ChatID: msg.ChatID, Text: msg.Text, Markup: msg.ReplyMarkup})
	case tgbotapi.CallbackConfig:
		m.callbacks++
	}
	return tgbotapi.Message{}, nil
}

func (m *mockAPI) GetUpdatesChan(_ tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(tgbotapi.UpdatesChannel)
}

func (m *mockAPI) StopReceivingUpdates() {}

func (m *mockAPI) last() sentMsg {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMsg{}
	}
	return m.sent[len(m.sent)-1]
}

func (m *mockAPI) lastText() string {
	return m.last().Text
}

func (m *mockAPI) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakeLaunches struct {
	upcoming []model.Launch
	recent   []model.RecentLaunch
	days     []int
}

func (f *fakeLaunches) Upcoming(context.Context) []model.Launch { return f.upcoming }

func (f *fakeLaunches) Recent(_ context.Context, days int) []model.RecentLaunch {
	f.days = append(f.days, days)
	return f.recent
}

type fakeNews []model.Article

func (f fakeNews) Latest(context.Context) []model.Article { return f }

type fakeStocks stocks.Report

func (f fakeStocks) Prices(context.Context) stocks.Report { return stocks.Report(f) }

// --- helpers ---

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestBot(t *testing.T, launches *fakeLaunches) (*Bot, *mockAPI) {
	t.Helper()
	if launches == nil {
		launches = &fakeLaunches{}
	}
	api := &mockAPI{}
	b := &Bot{
		api: api,
		src: Sources{
			Launches: launches,
			News:     fakeNews{{Title: "Vulcan stacked", URL: "https://spacenews.com/v", Site: "SpaceNews"}},
			Stocks:   fakeStocks{Quotes: []model.Quote{{Symbol: "RKLB", Price: 24.5, Percent: 11.36, Currency: "USD"}}},
		},
		cfg: &config.Config{Defaults: config.Defaults{RecentDays: 7}},
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		loc: time.UTC,
		now: func() time.Time { return testNow },
	}
	return b, api
}

func requireContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("reply missing %q, got:\n%s", want, got)
	}
}

func commandMessage(userID int64, text string) *tgbotapi.Message {
	cmd := strings.Fields(text)[0]
	return &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: 100},
		From: &tgbotapi.User{ID: userID},
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(cmd)},
		},
	}
}

func upcoming() *fakeLaunches {
	return &fakeLaunches{upcoming: []model.Launch{
		{Name: "Falcon 9 | Starlink 10-5", Status: "Go for Launch", NET: strPtr("2026-03-02T10:00:00Z"), Pad: "LC-39A", Location: "Kennedy Space Center, FL, USA"},
		{Name: "Vulcan | USSF-106", Status: "TBC", NET: strPtr("2026-03-07T00:00:00Z"), Pad: "SLC-41", Location: "Cape Canaveral SFS, FL, USA"},
	}}
}

// --- handler tests ---

func TestHandleStart(t *testing.T) {
	b, api := newTestBot(t, nil)
	b.handleStart(100)
	requireContains(t, api.lastText(), "Welcome to LaunchIntel")
}

func TestHandleHelp(t *testing.T) {
	b, api := newTestBot(t, nil)
	b.handleHelp(100)
	for _, cmd := range []string{"/launches", "/next", "/recent", "/news", "/stocks"} {
		requireContains(t, api.lastText(), cmd)
	}
}

func TestHandleLaunches(t *testing.T) {
	ctx := context.Background()

	t.Run("lists launches with keyboard", func(t *testing.T) {
		b, api := newTestBot(t, upcoming())
		b.handleLaunches(ctx, 100)
		requireContains(t, api.lastText(), "Upcoming Launches")
		requireContains(t, api.lastText(), "Falcon 9 | Starlink 10-5")
		requireContains(t, api.lastText(), "Vulcan | USSF-106")

		markup, ok := api.last().Markup.(tgbotapi.InlineKeyboardMarkup)
		if !ok {
			t.Fatalf("expected inline keyboard, got %T", api.last().Markup)
		}
		var data []string
		for _, btn := range markup.InlineKeyboard[0] {
			data = append(data, *btn.CallbackData)
		}
		if diff := cmp.Diff([]string{"refresh:launches", "refresh:next"}, data); diff != "" {
			t.Errorf("buttons mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty", func(t *testing.T) {
		b, api := newTestBot(t, nil)
		b.handleLaunches(ctx, 100)
		requireContains(t, api.lastText(), "No upcoming launches found")
	})
}

func TestHandleNext(t *testing.T) {
	ctx := context.Background()

	b, api := newTestBot(t, upcoming())
	b.handleNext(ctx, 100)
	requireContains(t, api.lastText(), "Next Launch: Falcon 9 | Starlink 10-5")
	requireContains(t, api.lastText(), "T-minus 22h 00m")

	b, api = newTestBot(t, nil)
	b.handleNext(ctx, 100)
	requireContains(t, api.lastText(), "No upcoming launches found")
}

func TestHandleRecent(t *testing.T) {
	ctx := context.Background()
	recent := []model.RecentLaunch{{Name: "Electron | Owl", Status: "Launch Successful", NET: "2026-02-27T08:00:00Z", Location: "Mahia"}}

	tests := []struct {
		name     string
		args     string
		wantDays []int
		want     string
	}{
		{name: "default days", args: "", wantDays: []int{7}, want: "Launches (Last 7 Days)"},
		{name: "explicit days", args: "30", wantDays: []int{30}, want: "Launches (Last 30 Days)"},
		{name: "invalid", args: "forever", want: "Usage: /recent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &fakeLaunches{recent: recent}
			b, api := newTestBot(t, l)
			b.handleRecent(ctx, 100, tt.args)
			requireContains(t, api.lastText(), tt.want)
			if diff := cmp.Diff(tt.wantDays, l.days); diff != "" {
				t.Errorf("days mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHandleNewsAndStocks(t *testing.T) {
	ctx := context.Background()
	b, api := newTestBot(t, nil)

	b.handleNews(ctx, 100)
	requireContains(t, api.lastText(), "Space News")
	requireContains(t, api.lastText(), "Vulcan stacked")

	b.handleStocks(ctx, 100)
	requireContains(t, api.lastText(), "🟢 **RKLB**: 24.50 USD (+11.36%)")
}

func TestHandleCommand(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "/start", want: "Welcome to LaunchIntel"},
		{text: "/help", want: "/recent [days]"},
		{text: "/launches", want: "Upcoming Launches"},
		{text: "/next", want: "Next Launch"},
		{text: "/recent 3", want: "No recent launches found"},
		{text: "/news", want: "Space News"},
		{text: "/stocks", want: "Space Stocks"},
		{text: "/launch", want: "Unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			b, api := newTestBot(t, upcoming())
			b.handleCommand(context.Background(), commandMessage(1, tt.text))
			requireContains(t, api.lastText(), tt.want)
		})
	}
}

func TestHandleUpdateAccessControl(t *testing.T) {
	ctx := context.Background()
	b, api := newTestBot(t, upcoming())
	b.cfg.AllowedUsers = []int64{42}

	b.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(7, "/launches")})
	if diff := cmp.Diff("Access denied.", api.lastText()); diff != "" {
		t.Errorf("reply mismatch (-want +got):\n%s", diff)
	}

	b.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(42, "/launches")})
	requireContains(t, api.lastText(), "Upcoming Launches")

	before := api.count()
	b.handleUpdate(ctx, tgbotapi.Update{Message: &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 100}, From: &tgbotapi.User{ID: 42}}})
	if api.count() != before {
		t.Error("plain text should be ignored")
	}
}

func TestHandleCallback(t *testing.T) {
	ctx := context.Background()

	callback := func(userID int64, data string) *tgbotapi.CallbackQuery {
		return &tgbotapi.CallbackQuery{
			ID:      "cb1",
			From:    &tgbotapi.User{ID: userID, UserName: "astro"},
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 100}},
			Data:    data,
		}
	}

	tests := []struct {
		data      string
		want      string
		wantCount int
	}{
		{data: "refresh:launches", want: "Upcoming Launches", wantCount: 1},
		{data: "refresh:next", want: "Next Launch", wantCount: 1},
		{data: "refresh:news", want: "Space News", wantCount: 1},
		{data: "refresh:stocks", want: "Space Stocks", wantCount: 1},
		{data: "refresh:unknown", wantCount: 0},
		{data: "delete:1", wantCount: 0},
		{data: "garbage", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			b, api := newTestBot(t, upcoming())
			b.handleUpdate(ctx, tgbotapi.Update{CallbackQuery: callback(1, tt.data)})
			if api.callbacks != 1 {
				t.Errorf("expected callback ack, got %d", api.callbacks)
			}
			if diff := cmp.Diff(tt.wantCount, api.count()); diff != "" {
				t.Errorf("message count mismatch (-want +got):\n%s", diff)
			}
			if tt.want != "" {
				requireContains(t, api.lastText(), tt.want)
			}
		})
	}

	t.Run("denied user", func(t *testing.T) {
		b, api := newTestBot(t, upcoming())
		b.cfg.AllowedUsers = []int64{42}
		b.handleUpdate(ctx, tgbotapi.Update{CallbackQuery: callback(7, "refresh:launches")})
		if api.count() != 0 || api.callbacks != 0 {
			t.Errorf("expected no response, got %d messages and %d acks", api.count(), api.callbacks)
		}
	})
}

func TestRunStopsOnCancel(t *testing.T) {
	b, _ := newTestBot(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}

// Package notify delivers alert messages to external channels.
package notify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender delivers a message to a channel.
type Sender interface {
	Send(ctx context.Context, message, channelID string) error
}

// Multi sends through every sender and returns the first error.
type Multi []Sender

// Send implements Sender.
func (m Multi) Send(ctx context.Context, message, channelID string) error {
	var firstErr error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Send(ctx, message, channelID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// TelegramAPI is the subset of the Telegram client used for delivery.
type TelegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts messages to a chat ID or a public "@channel".
type Telegram struct {
	api TelegramAPI
}

// NewTelegram creates a Telegram sender on an authenticated API client.
func NewTelegram(api TelegramAPI) *Telegram {
	return &Telegram{api: api}
}

// Send implements Sender.
func (t *Telegram) Send(_ context.Context, message, channelID string) error {
	var msg tgbotapi.MessageConfig
	switch {
	case strings.HasPrefix(channelID, "@"):
		msg = tgbotapi.NewMessageToChannel(channelID, message)
	default:
		chatID, err := strconv.ParseInt(channelID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid telegram chat id %q", channelID)
		}
		msg = tgbotapi.NewMessage(chatID, message)
	}
	msg.DisableWebPagePreview = true

	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// Runner executes an external command.
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
		}
		return err
	}
	return nil
}

// Command delivers through an agent CLI invoked as
// "<cli> message send --channel <id> --message <text>".
type Command struct {
	cli string
	run Runner
}

// NewCommand creates a Command sender for the given CLI binary.
func NewCommand(cli string) *Command {
	return &Command{cli: cli, run: execRunner}
}

// Send implements Sender.
func (c *Command) Send(ctx context.Context, message, channelID string) error {
	if c.cli == "" {
		return errors.New("no delivery cli configured")
	}
	if err := c.run(ctx, c.cli, "message", "send", "--channel", channelID, "--message", message); err != nil {
		return fmt.Errorf("run %s: %w", c.cli, err)
	}
	return nil
}

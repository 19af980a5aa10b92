package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"launchintel/internal/alerts"
	"launchintel/internal/bot"
	"launchintel/internal/canvas"
	"launchintel/internal/notify"
	"launchintel/internal/scheduler"
	"launchintel/internal/storage"
)

func launchesEntry(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "launches",
		Short: "List upcoming launches at tracked spaceports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), bot.FormatLaunches(a.launches.Upcoming(cmd.Context()), time.Local))
			return nil
		},
	}
}

func recentEntry(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "recent [days]",
		Short: "List launches of the last days",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			if len(args) == 1 {
				raw = args[0]
			}
			days, err := bot.ParseDaysArg(raw)
			if err != nil {
				return err
			}

			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if days == 0 {
				days = a.cfg.Defaults.RecentDays
			}
			fmt.Fprintln(cmd.OutOrStdout(), bot.FormatRecent(a.launches.Recent(cmd.Context(), days), days, time.Local))
			return nil
		},
	}
}

func newsEntry(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "news",
		Short: "Show the latest space news",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), bot.FormatNews(a.news.Latest(cmd.Context())))
			return nil
		},
	}
}

func stocksEntry(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stocks",
		Short: "Show space company share prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), bot.FormatStocks(a.stocks.Prices(cmd.Context())))
			return nil
		},
	}
}

func alertsEntry(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Run one alert check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			store, err := storage.Open(a.cfg)
			if err != nil {
				return fmt.Errorf("open alert state: %w", err)
			}
			defer func() { _ = store.Close() }()

			sender, err := a.alertSender()
			if err != nil {
				return err
			}
			a.newEngine(store, sender).Check(cmd.Context())
			return nil
		},
	}
}

func watchEntry(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the alert check on a schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			store, err := storage.Open(a.cfg)
			if err != nil {
				return fmt.Errorf("open alert state: %w", err)
			}
			defer func() { _ = store.Close() }()

			sender, err := a.alertSender()
			if err != nil {
				return err
			}
			engine := a.newEngine(store, sender)
			a.log.Info("watching launches", "interval", a.cfg.AlertInterval())
			scheduler.New(engine, a.cfg.AlertInterval(), a.log).Run(cmd.Context())
			a.log.Info("watch stopped")
			return nil
		},
	}
}

func canvasEntry(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "canvas",
		Short: "Generate the countdown page for the next launch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			out := a.cfg.Paths.CanvasOutput
			err = canvas.Generate(out, a.cfg.Paths.CanvasTemplate, a.launches.Upcoming(cmd.Context()))
			if errors.Is(err, canvas.ErrNoLaunch) {
				a.log.Warn("no launches available for canvas generation")
				fmt.Fprintln(cmd.OutOrStdout(), "No launches available for canvas.")
				return nil
			}
			if err != nil {
				return err
			}
			a.log.Info("canvas generated", "path", out)
			fmt.Fprintf(cmd.OutOrStdout(), "Canvas generated at: %s\n", out)
			return nil
		},
	}
}

// alertSender delivers through the configured CLI and, when a bot token is
// set, through Telegram as well.
func (a *app) alertSender() (notify.Sender, error) {
	var senders notify.Multi
	if a.cfg.Alerts.CLI != "" {
		senders = append(senders, notify.NewCommand(a.cfg.Alerts.CLI))
	}
	if a.cfg.TelegramBotToken != "" {
		api, err := tgbotapi.NewBotAPI(a.cfg.TelegramBotToken)
		if err != nil {
			return nil, fmt.Errorf("create bot api: %w", err)
		}
		senders = append(senders, notify.NewTelegram(api))
	}
	if len(senders) == 0 {
		return nil, nil
	}
	return senders, nil
}

func (a *app) newEngine(store alerts.StateStore, sender notify.Sender) *alerts.Engine {
	return alerts.New(a.launches, store, alerts.Options{
		Windows:    a.cfg.Alerts.Windows,
		ChannelID:  a.cfg.Alerts.ChannelID,
		CleanupTTL: a.cfg.AlertCleanupTTL(),
		Sender:     sender,
		Out:        os.Stdout,
	}, a.log)
}

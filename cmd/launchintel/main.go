package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"launchintel/internal/config"
	"launchintel/internal/fetcher"
	"launchintel/internal/launch"
	"launchintel/internal/logging"
	"launchintel/internal/news"
	"launchintel/internal/stocks"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "launchintel",
		Short:         "Launch schedules, alerts, space news and space stocks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("LAUNCHINTEL_CONFIG"), "path to config JSON (built-in defaults when empty)")

	root.AddCommand(
		launchesEntry(&configPath),
		recentEntry(&configPath),
		newsEntry(&configPath),
		stocksEntry(&configPath),
		alertsEntry(&configPath),
		watchEntry(&configPath),
		canvasEntry(&configPath),
		serveEntry(&configPath),
		botEntry(&configPath),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	cancel()
	exitIfError(err)
}

// app holds the components shared by every subcommand.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	launches *launch.Aggregator
	news     *news.Client
	stocks   *stocks.Client
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFile)
	client := fetcher.New(http.DefaultClient, cfg.FetchTimeout())

	return &app{
		cfg:      cfg,
		log:      log,
		launches: launch.NewAggregator(cfg, client, log),
		news:     news.New(cfg.APIs.SpaceflightNews, client, log),
		stocks:   stocks.New(cfg.APIs.YahooFinance, cfg.Defaults.StockSymbols, client, log),
	}, nil
}

func exitIfError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

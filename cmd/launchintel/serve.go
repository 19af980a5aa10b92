package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"launchintel/internal/bot"
	"launchintel/internal/canvas"
	"launchintel/internal/httpapi"
	"launchintel/internal/scheduler"
	"launchintel/internal/storage"
)

func serveEntry(configPath *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve launch data and the countdown page over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			tmpl, err := canvas.Parse(a.cfg.Paths.CanvasTemplate)
			if err != nil {
				return err
			}

			gin.SetMode(gin.ReleaseMode)
			srv := &http.Server{
				Addr:              addr,
				Handler:           httpapi.New(a.launches, a.news, a.stocks, tmpl, a.log).Router(),
				ReadHeaderTimeout: 5 * time.Second,
				WriteTimeout:      30 * time.Second,
				MaxHeaderBytes:    1 << 20,
			}

			ctx := cmd.Context()
			errc := make(chan error, 1)
			go func() {
				a.log.Info("starting http server", "addr", addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
			defer stop()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.log.Error("shutdown http server", "error", err)
			}
			a.log.Info("http server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func botEntry(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot and deliver alerts through it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if a.cfg.TelegramBotToken == "" {
				return errors.New("TELEGRAM_BOT_TOKEN is required")
			}

			store, err := storage.Open(a.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			b, err := bot.New(a.cfg.TelegramBotToken, bot.Sources{
				Launches: a.launches,
				News:     a.news,
				Stocks:   a.stocks,
			}, a.cfg, a.log)
			if err != nil {
				return err
			}

			sched := scheduler.New(a.newEngine(store, b.Notifier()), a.cfg.AlertInterval(), a.log)

			ctx := cmd.Context()

			a.log.Info("starting bot")

			go sched.Run(ctx)

			b.Run(ctx)

			a.log.Info("bot stopped")
			return nil
		},
	}
}

// Package stocks fetches space industry share prices from the Yahoo Finance
// chart endpoint.
package stocks

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"launchintel/internal/config"
	"launchintel/internal/fetcher"
	"launchintel/internal/model"
)

// Per-symbol and whole-report failure texts.
const (
	NoDataText      = "No data"
	UnavailableText = "Data unavailable"
	AllFailedText   = "Stock data unavailable via API. Try searching manually for current prices."
)

// maxConcurrent caps parallel quote requests.
const maxConcurrent = 4

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
				Currency           string  `json:"currency"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

// Report is the result of one price refresh. When AllFailed is set every
// quote carries an error and Message explains the outage.
type Report struct {
	Quotes    []model.Quote `json:"quotes"`
	AllFailed bool          `json:"all_failed"`
	Message   string        `json:"message,omitempty"`
}

// Client fetches quotes.
type Client struct {
	client  *fetcher.Client
	cfg     config.YahooFinance
	symbols []string
	log     *slog.Logger
}

// New creates a stocks Client for the given symbols.
func New(cfg config.YahooFinance, symbols []string, client *fetcher.Client, log *slog.Logger) *Client {
	return &Client{
		client:  client,
		cfg:     cfg,
		symbols: symbols,
		log:     log,
	}
}

// Prices fetches every configured symbol concurrently. Quotes keep the
// configured symbol order.
func (c *Client) Prices(ctx context.Context) Report {
	quotes := make([]model.Quote, len(c.symbols))

	var g errgroup.Group
	g.SetLimit(maxConcurrent)
	for i, sym := range c.symbols {
		g.Go(func() error {
			quotes[i] = c.quote(ctx, strings.TrimSpace(sym))
			return nil
		})
	}
	_ = g.Wait()

	ok := 0
	for _, q := range quotes {
		if q.Err == "" {
			ok++
		}
	}
	if ok == 0 {
		c.log.Error("all stock fetches failed", "symbols", len(c.symbols))
		return Report{Quotes: quotes, AllFailed: true, Message: AllFailedText}
	}

	c.log.Info("fetched stock prices", "ok", ok, "symbols", len(c.symbols))
	return Report{Quotes: quotes}
}

func (c *Client) quote(ctx context.Context, symbol string) model.Quote {
	q := url.Values{}
	q.Set("interval", c.cfg.Interval)
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + url.PathEscape(symbol) + "?" + q.Encode()

	var resp chartResponse
	if err := c.client.GetJSON(ctx, u, &resp); err != nil {
		c.log.Warn("fetch quote", "symbol", symbol, "error", err)
		return model.Quote{Symbol: symbol, Err: UnavailableText}
	}
	if len(resp.Chart.Result) == 0 {
		return model.Quote{Symbol: symbol, Err: NoDataText}
	}

	meta := resp.Chart.Result[0].Meta
	if meta.PreviousClose == 0 {
		c.log.Warn("fetch quote", "symbol", symbol, "error", errors.New("missing previous close"))
		return model.Quote{Symbol: symbol, Err: UnavailableText}
	}
	if meta.Symbol == "" {
		meta.Symbol = symbol
	}

	change := meta.RegularMarketPrice - meta.PreviousClose
	return model.Quote{
		Symbol:   meta.Symbol,
		Price:    round2(meta.RegularMarketPrice),
		Change:   round2(change),
		Percent:  round2(change / meta.PreviousClose * 100),
		Currency: meta.Currency,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

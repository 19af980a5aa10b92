// Package news fetches the latest space news from the Spaceflight News API,
// falling back to an RSS feed and finally to a placeholder article.
package news

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"launchintel/internal/config"
	"launchintel/internal/fetcher"
	"launchintel/internal/model"
)

// Placeholder article returned when every source fails.
const (
	PlaceholderTitle   = "Latest Space News (API Unavailable)"
	PlaceholderURL     = "https://spacenews.com/"
	PlaceholderSite    = "SpaceNews"
	PlaceholderSummary = "Unable to fetch live news. Click to read directly."
)

type snapiResponse struct {
	Results []snapiArticle `json:"results"`
}

type snapiArticle struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	NewsSite    string    `json:"news_site"`
	Summary     string    `json:"summary"`
	PublishedAt time.Time `json:"published_at"`
}

// Client fetches news articles.
type Client struct {
	client *fetcher.Client
	cfg    config.SpaceflightNews
	log    *slog.Logger
	now    func() time.Time
}

// New creates a news Client.
func New(cfg config.SpaceflightNews, client *fetcher.Client, log *slog.Logger) *Client {
	return &Client{
		client: client,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
}

// SetClock overrides the clock used to date the placeholder article.
func (c *Client) SetClock(now func() time.Time) {
	c.now = now
}

// Latest returns up to the configured number of articles. It always returns
// at least one article.
func (c *Client) Latest(ctx context.Context) []model.Article {
	articles, err := c.fromAPI(ctx)
	if err == nil {
		c.log.Info("fetched news articles", "count", len(articles))
		return articles
	}
	c.log.Error("fetch news", "error", err)

	if c.cfg.RSSFallbackURL != "" {
		articles, err = c.fromFeed(ctx)
		if err == nil && len(articles) > 0 {
			c.log.Info("fetched news from feed", "url", c.cfg.RSSFallbackURL, "count", len(articles))
			return articles
		}
		if err != nil {
			c.log.Error("fetch news feed", "url", c.cfg.RSSFallbackURL, "error", err)
		}
	}

	return []model.Article{{
		Title:     PlaceholderTitle,
		URL:       PlaceholderURL,
		Site:      PlaceholderSite,
		Summary:   PlaceholderSummary,
		Published: c.now().UTC(),
	}}
}

func (c *Client) fromAPI(ctx context.Context) ([]model.Article, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.cfg.DefaultLimit))

	var resp snapiResponse
	if err := c.client.GetJSON(ctx, c.cfg.BaseURL+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	out := make([]model.Article, 0, len(resp.Results))
	for _, a := range resp.Results {
		out = append(out, model.Article{
			Title:     a.Title,
			URL:       a.URL,
			Site:      a.NewsSite,
			Summary:   a.Summary,
			Published: a.PublishedAt,
		})
	}
	return out, nil
}

func (c *Client) fromFeed(ctx context.Context) ([]model.Article, error) {
	body, err := c.client.GetBody(ctx, c.cfg.RSSFallbackURL)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse feed: %v", fetcher.ErrParse, err)
	}

	site := strings.TrimSpace(feed.Title)
	limit := c.cfg.DefaultLimit
	if limit <= 0 || limit > len(feed.Items) {
		limit = len(feed.Items)
	}

	out := make([]model.Article, 0, limit)
	for _, item := range feed.Items[:limit] {
		a := model.Article{
			Title:   strings.TrimSpace(item.Title),
			URL:     item.Link,
			Site:    site,
			Summary: strings.TrimSpace(item.Description),
		}
		if item.PublishedParsed != nil {
			a.Published = item.PublishedParsed.UTC()
		}
		out = append(out, a)
	}
	return out, nil
}

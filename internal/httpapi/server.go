// Package httpapi serves launch, news and stock data over HTTP.
package httpapi

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"launchintel/internal/canvas"
	"launchintel/internal/launch"
	"launchintel/internal/model"
	"launchintel/internal/stocks"
)

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

// Server holds the HTTP handlers' dependencies.
type Server struct {
	launches LaunchSource
	news     NewsSource
	stocks   StockSource
	canvas   *template.Template
	log      *slog.Logger
}

// New creates a Server.
func New(launches LaunchSource, news NewsSource, quotes StockSource, tmpl *template.Template, log *slog.Logger) *Server {
	return &Server{
		launches: launches,
		news:     news,
		stocks:   quotes,
		canvas:   tmpl,
		log:      log,
	}
}

// Router returns the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/launches", s.handleLaunches)
	api.GET("/recent", s.handleRecent)
	api.GET("/news", s.handleNews)
	api.GET("/stocks", s.handleStocks)

	r.GET("/canvas", s.handleCanvas)
	return r
}

func (s *Server) handleLaunches(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"launches": s.launches.Upcoming(c.Request.Context())})
}

func (s *Server) handleRecent(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > launch.MaxRecentDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("days must be between 1 and %d", launch.MaxRecentDays)})
			return
		}
		days = n
	}
	c.JSON(http.StatusOK, gin.H{"launches": s.launches.Recent(c.Request.Context(), days)})
}

func (s *Server) handleNews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"articles": s.news.Latest(c.Request.Context())})
}

func (s *Server) handleStocks(c *gin.Context) {
	c.JSON(http.StatusOK, s.stocks.Prices(c.Request.Context()))
}

func (s *Server) handleCanvas(c *gin.Context) {
	launches := s.launches.Upcoming(c.Request.Context())
	if len(launches) == 0 {
		c.String(http.StatusNotFound, "No launches available for canvas.")
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := canvas.Render(c.Writer, s.canvas, launches[0]); err != nil {
		s.log.Error("render canvas", "error", err)
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Package config loads the application configuration from a JSON file and
// environment variables.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"launchintel/internal/model"
)

//go:embed default.json
var defaultConfig []byte

// Supported alert state backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	APIs       APIs       `json:"apis"`
	Spaceports Spaceports `json:"spaceports"`
	Alerts     Alerts     `json:"alerts"`
	Defaults   Defaults   `json:"defaults"`
	Paths      Paths      `json:"paths"`

	TelegramBotToken string  `json:"-"`
	AllowedUsers     []int64 `json:"-"`
	LogLevel         string  `json:"-"`
	LogFile          string  `json:"-"`
}

// APIs lists the upstream endpoints.
type APIs struct {
	LaunchLibrary   LaunchLibrary   `json:"launch_library"`
	SpaceX          SpaceX          `json:"spacex"`
	SpaceflightNews SpaceflightNews `json:"spaceflight_news"`
	YahooFinance    YahooFinance    `json:"yahoo_finance"`
}

// LaunchLibrary is the primary launch schedule provider.
type LaunchLibrary struct {
	BaseURL      string `json:"base_url"`
	UpcomingPath string `json:"upcoming_path"`
	PreviousPath string `json:"previous_path"`
	DefaultLimit int    `json:"default_limit"`
	Mode         string `json:"mode"`
}

// SpaceX is the secondary launch schedule provider.
type SpaceX struct {
	BaseURL      string `json:"base_url"`
	UpcomingPath string `json:"upcoming_path"`
}

// SpaceflightNews is the news provider, with an RSS feed used when it fails.
type SpaceflightNews struct {
	BaseURL        string `json:"base_url"`
	DefaultLimit   int    `json:"default_limit"`
	RSSFallbackURL string `json:"rss_fallback_url"`
}

// YahooFinance is the stock quote provider.
type YahooFinance struct {
	BaseURL  string `json:"base_url"`
	Interval string `json:"interval"`
}

// Spaceports is the launch site allow-list.
type Spaceports struct {
	TargetIDs      []int    `json:"target_ids"`
	TargetKeywords []string `json:"target_keywords"`
}

// Alerts configures the alert engine and its delivery.
type Alerts struct {
	ChannelID       string              `json:"channel_id"`
	CLI             string              `json:"cli"`
	StateBackend    string              `json:"state_backend"`
	IntervalSeconds int                 `json:"interval_seconds"`
	Windows         []model.AlertWindow `json:"windows"`
}

// Defaults holds tunables shared by several components.
type Defaults struct {
	CacheTTLMS        int64    `json:"cache_ttl_ms"`
	FetchTimeoutMS    int64    `json:"fetch_timeout_ms"`
	AlertCleanupTTLMS int64    `json:"alert_cleanup_ttl_ms"`
	RecentDays        int      `json:"recent_days"`
	RecentLimit       int      `json:"recent_limit"`
	StockSymbols      []string `json:"stock_symbols"`
}

// Paths lists files written or read by the application.
type Paths struct {
	LaunchesCache  string `json:"launches_cache"`
	AlertsState    string `json:"alerts_state"`
	AlertsDB       string `json:"alerts_db"`
	CanvasTemplate string `json:"canvas_template"`
	CanvasOutput   string `json:"canvas_output"`
}

// CacheTTL is the freshness window of the launch cache.
func (c *Config) CacheTTL() time.Duration { return ms(c.Defaults.CacheTTLMS) }

// FetchTimeout bounds every upstream request.
func (c *Config) FetchTimeout() time.Duration { return ms(c.Defaults.FetchTimeoutMS) }

// AlertCleanupTTL is how long alert state is kept after a launch.
func (c *Config) AlertCleanupTTL() time.Duration { return ms(c.Defaults.AlertCleanupTTLMS) }

// AlertInterval is the period between scheduled alert checks.
func (c *Config) AlertInterval() time.Duration {
	return time.Duration(c.Alerts.IntervalSeconds) * time.Second
}

func ms(v int64) time.Duration { return time.Duration(v) * time.Millisecond }

// Load reads the JSON config at path over the built-in defaults, applies
// environment overrides and resolves relative paths. An empty path uses the
// built-in defaults alone, with paths relative to the working directory.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(defaultConfig, &cfg); err != nil {
		return nil, fmt.Errorf("parse default config: %w", err)
	}
	defaultWindows := cfg.Alerts.Windows

	baseDir, err := os.Getwd()
	if err != nil {
		baseDir = "."
	}

	if path != "" {
		raw, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Windows from the file replace the defaults rather than merging by index.
		cfg.Alerts.Windows = nil
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		if len(cfg.Alerts.Windows) == 0 {
			cfg.Alerts.Windows = defaultWindows
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
		baseDir = filepath.Dir(abs)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.Paths = resolvePaths(cfg.Paths, baseDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var (
	llSuffix = regexp.MustCompile(`/launch/?(upcoming|previous)?/?$`)
	sxSuffix = regexp.MustCompile(`/upcoming/?$`)
)

func applyEnv(cfg *Config) error {
	if v := os.Getenv("LL_API_URL"); v != "" {
		cfg.APIs.LaunchLibrary.BaseURL = llSuffix.ReplaceAllString(v, "/launch")
	}
	if v := os.Getenv("SPACEX_API_URL"); v != "" {
		cfg.APIs.SpaceX.BaseURL = sxSuffix.ReplaceAllString(v, "")
	}
	if v := os.Getenv("NEWS_API_URL"); v != "" {
		cfg.APIs.SpaceflightNews.BaseURL = v
	}
	if v := os.Getenv("YAHOO_FINANCE_URL"); v != "" {
		cfg.APIs.YahooFinance.BaseURL = v
	}
	if v := os.Getenv("STOCK_SYMBOLS"); v != "" {
		cfg.Defaults.StockSymbols = splitList(v)
	}
	if v := os.Getenv("ALERT_CHANNEL_ID"); v != "" {
		cfg.Alerts.ChannelID = v
	}
	if v := os.Getenv("ALERT_CLI"); v != "" {
		cfg.Alerts.CLI = v
	}
	if v := os.Getenv("STATE_BACKEND"); v != "" {
		cfg.Alerts.StateBackend = strings.ToLower(v)
	}
	for key, dst := range map[string]*int64{
		"CACHE_TTL_MS":     &cfg.Defaults.CacheTTLMS,
		"FETCH_TIMEOUT_MS": &cfg.Defaults.FetchTimeoutMS,
	} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
	}

	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.LogFile = os.Getenv("LOG_FILE")
	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.AllowedUsers = nil
	for _, s := range splitList(os.Getenv("ALLOWED_USERS")) {
		uid, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user ID %q in ALLOWED_USERS: %w", s, err)
		}
		cfg.AllowedUsers = append(cfg.AllowedUsers, uid)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func resolvePaths(p Paths, baseDir string) Paths {
	resolve := func(v string) string {
		if v == "" || filepath.IsAbs(v) {
			return v
		}
		return filepath.Join(baseDir, v)
	}
	return Paths{
		LaunchesCache:  resolve(p.LaunchesCache),
		AlertsState:    resolve(p.AlertsState),
		AlertsDB:       resolve(p.AlertsDB),
		CanvasTemplate: resolve(p.CanvasTemplate),
		CanvasOutput:   resolve(p.CanvasOutput),
	}
}

// Validate checks invariants the rest of the application relies on.
func (c *Config) Validate() error {
	var errs []error
	if c.Defaults.CacheTTLMS <= 0 {
		errs = append(errs, errors.New("defaults.cache_ttl_ms must be positive"))
	}
	if c.Defaults.FetchTimeoutMS <= 0 {
		errs = append(errs, errors.New("defaults.fetch_timeout_ms must be positive"))
	}
	if c.Defaults.AlertCleanupTTLMS <= 0 {
		errs = append(errs, errors.New("defaults.alert_cleanup_ttl_ms must be positive"))
	}
	if c.Alerts.IntervalSeconds <= 0 {
		errs = append(errs, errors.New("alerts.interval_seconds must be positive"))
	}
	switch c.Alerts.StateBackend {
	case BackendJSON, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("alerts.state_backend %q: use %s or %s", c.Alerts.StateBackend, BackendJSON, BackendSQLite))
	}

	seen := make(map[string]bool, len(c.Alerts.Windows))
	for i, w := range c.Alerts.Windows {
		if w.Key == "" {
			errs = append(errs, fmt.Errorf("alerts.windows[%d]: key is required", i))
			continue
		}
		if seen[w.Key] {
			errs = append(errs, fmt.Errorf("alerts.windows[%d]: duplicate key %q", i, w.Key))
		}
		seen[w.Key] = true

		hours := w.MinHours != nil && w.MaxHours != nil
		minutes := w.MinMinutes != nil && w.MaxMinutes != nil
		partial := (w.MinHours != nil) != (w.MaxHours != nil) || (w.MinMinutes != nil) != (w.MaxMinutes != nil)
		if hours == minutes || partial {
			errs = append(errs, fmt.Errorf("alerts.windows[%d] %q: set exactly one of min/max_hours or min/max_minutes", i, w.Key))
		}
	}
	return errors.Join(errs...)
}

// IsUserAllowed checks whether a user ID is in the allow list.
// Returns true if the allow list is empty (all users permitted).
func (c *Config) IsUserAllowed(userID int64) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	for _, id := range c.AllowedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

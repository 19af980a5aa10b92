// Package model defines the domain types used across the application.
package model

import "time"

// Launch is an upcoming launch in its canonical, provider-independent shape.
// The JSON form is what the launch cache persists.
type Launch struct {
	Name     string  `json:"name"`
	Status   string  `json:"status"`
	NET      *string `json:"net"`
	Pad      string  `json:"pad"`
	Location string  `json:"location"`
	Image    *string `json:"image"`
}

// NETTime parses the launch NET. ok is false when NET is absent or malformed.
func (l Launch) NETTime() (t time.Time, ok bool) {
	if l.NET == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, *l.NET)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// RecentLaunch is a past launch within the lookback window.
type RecentLaunch struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	NET      string `json:"net"`
	Location string `json:"location"`
	Mission  string `json:"mission"`
}

// Article is a space news article.
type Article struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Site      string    `json:"site"`
	Summary   string    `json:"summary"`
	Published time.Time `json:"published"`
}

// Quote is the latest price of a single stock symbol. Err is set instead of
// the price fields when the symbol could not be fetched.
type Quote struct {
	Symbol   string  `json:"symbol"`
	Price    float64 `json:"price"`
	Change   float64 `json:"change"`
	Percent  float64 `json:"percent"`
	Currency string  `json:"currency"`
	Err      string  `json:"error,omitempty"`
}

// AlertWindow is a time-to-launch interval that triggers at most one alert per
// launch. Exactly one of the hour pair or the minute pair is set.
type AlertWindow struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Emoji      string   `json:"emoji"`
	Name       string   `json:"name"`
	MinHours   *float64 `json:"min_hours,omitempty"`
	MaxHours   *float64 `json:"max_hours,omitempty"`
	MinMinutes *float64 `json:"min_minutes,omitempty"`
	MaxMinutes *float64 `json:"max_minutes,omitempty"`
	WatchLive  bool     `json:"watch_live,omitempty"`
}

// Contains reports whether a launch that is until away falls inside the window.
// Bounds are inclusive.
func (w AlertWindow) Contains(until time.Duration) bool {
	switch {
	case w.MinHours != nil && w.MaxHours != nil:
		h := until.Hours()
		return h >= *w.MinHours && h <= *w.MaxHours
	case w.MinMinutes != nil && w.MaxMinutes != nil:
		m := until.Minutes()
		return m >= *w.MinMinutes && m <= *w.MaxMinutes
	}
	return false
}

// IsWatchLive reports whether the window is the final "watch live" reminder.
func (w AlertWindow) IsWatchLive() bool {
	return w.WatchLive || w.Name == "10m" || w.Key == "10m"
}

// AlertState maps a launch ID to the per-window "already sent" flags.
type AlertState map[string]map[string]bool

package launch

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"launchintel/internal/model"
)

const noMission = "No mission description."

// MaxRecentDays bounds the recent launches lookback.
const MaxRecentDays = 365

// Recent returns launches from the last days days in upstream order.
// A non-positive days uses the configured lookback; larger values are
// clamped to MaxRecentDays.
// Errors are logged and yield an empty list.
func (a *Aggregator) Recent(ctx context.Context, days int) []model.RecentLaunch {
	if days <= 0 {
		days = a.recentCfg.RecentDays
	}
	days = min(days, MaxRecentDays)
	start := a.now().Add(-time.Duration(days) * 24 * time.Hour).UTC()

	q := url.Values{}
	q.Set("window_start", start.Format(time.RFC3339))
	q.Set("limit", strconv.Itoa(a.recentCfg.RecentLimit))
	q.Set("mode", a.ll2.Mode)
	u := a.ll2.BaseURL + a.ll2.PreviousPath + "?" + q.Encode()

	var resp ll2Response
	if err := a.client.GetJSON(ctx, u, &resp); err != nil {
		a.log.Error("fetch recent launches", "provider", providerLL2, "error", err)
		return []model.RecentLaunch{}
	}

	out := make([]model.RecentLaunch, 0, len(resp.Results))
	for _, l := range resp.Results {
		r := model.RecentLaunch{
			Name:     l.Name,
			Status:   unknownStatus,
			Location: unknownLocation,
			Mission:  noMission,
		}
		if l.NET != nil {
			r.NET = *l.NET
		}
		if l.Status != nil && l.Status.Name != "" {
			r.Status = l.Status.Name
		}
		if l.Pad != nil && l.Pad.Location != nil && l.Pad.Location.Name != "" {
			r.Location = l.Pad.Location.Name
		}
		if l.Mission != nil && l.Mission.Description != "" {
			r.Mission = l.Mission.Description
		}
		out = append(out, r)
	}
	return out
}

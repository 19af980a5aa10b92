package bot

import (
	"fmt"
	"strings"
	"time"

	"launchintel/internal/model"
	"launchintel/internal/stocks"
)

const (
	noUpcoming = "No upcoming launches found (or API error). Try checking SpaceflightNow or SpaceDevs directly."
	noRecent   = "No recent launches found (or API error). Try checking SpaceflightNow or SpaceDevs directly."

	dateTimeLayout = "Jan 2, 2006 15:04 MST"
	dateLayout     = "Jan 2, 2006"
)

// FormatLaunches formats the upcoming launch list.
func FormatLaunches(launches []model.Launch, loc *time.Location) string {
	if len(launches) == 0 {
		return noUpcoming
	}
	var b strings.Builder
	b.WriteString("🚀 **Upcoming Launches**\n")
	for _, l := range launches {
		fmt.Fprintf(&b, "\n**%s**\n", l.Name)
		fmt.Fprintf(&b, "📅 %s\n", formatNET(l.NET, dateTimeLayout, loc))
		fmt.Fprintf(&b, "📍 %s\n", l.Location)
		fmt.Fprintf(&b, "Status: %s\n", l.Status)
	}
	return b.String()
}

// FormatNext formats a single launch with a countdown relative to now.
func FormatNext(l model.Launch, now time.Time, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚀 **Next Launch: %s**\n", l.Name)
	fmt.Fprintf(&b, "📅 %s\n", formatNET(l.NET, dateTimeLayout, loc))
	if t, ok := l.NETTime(); ok {
		fmt.Fprintf(&b, "⏳ %s\n", countdown(t.Sub(now)))
	}
	fmt.Fprintf(&b, "🛰 %s\n", l.Pad)
	fmt.Fprintf(&b, "📍 %s\n", l.Location)
	fmt.Fprintf(&b, "Status: %s\n", l.Status)
	return b.String()
}

// FormatRecent formats launches of the last days days.
func FormatRecent(launches []model.RecentLaunch, days int, loc *time.Location) string {
	if len(launches) == 0 {
		return noRecent
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🚀 **Launches (Last %d Days)**\n", days)
	for _, l := range launches {
		net := l.NET
		fmt.Fprintf(&b, "\n%s **%s**\n", recentIcon(l.Status), l.Name)
		fmt.Fprintf(&b, "📅 %s\n", formatNET(&net, dateLayout, loc))
		fmt.Fprintf(&b, "📍 %s\n", l.Location)
		fmt.Fprintf(&b, "Status: %s\n", l.Status)
	}
	return b.String()
}

// FormatNews formats news articles.
func FormatNews(articles []model.Article) string {
	var b strings.Builder
	b.WriteString("📰 **Space News**\n")
	for _, a := range articles {
		fmt.Fprintf(&b, "\n**%s** (%s)\n", a.Title, a.Site)
		if a.Summary != "" {
			fmt.Fprintf(&b, "%s\n", a.Summary)
		}
		fmt.Fprintf(&b, "[Read more](%s)\n", a.URL)
	}
	return b.String()
}

// FormatStocks formats a stock report.
func FormatStocks(r stocks.Report) string {
	var b strings.Builder
	b.WriteString("📈 **Space Stocks**\n\n")
	if r.AllFailed {
		fmt.Fprintf(&b, "❌ %s\n", r.Message)
		return b.String()
	}
	for _, q := range r.Quotes {
		if q.Err != "" {
			fmt.Fprintf(&b, "❌ %s: %s\n", q.Symbol, q.Err)
			continue
		}
		icon, sign := "🔴", ""
		if q.Percent > 0 {
			icon, sign = "🟢", "+"
		}
		fmt.Fprintf(&b, "%s **%s**: %.2f %s (%s%.2f%%)\n", icon, q.Symbol, q.Price, q.Currency, sign, q.Percent)
	}
	return b.String()
}

func recentIcon(status string) string {
	s := strings.ToLower(status)
	if strings.Contains(s, "success") || strings.Contains(s, "go") {
		return "✅"
	}
	return "❌"
}

func formatNET(net *string, layout string, loc *time.Location) string {
	if net == nil || *net == "" {
		return "TBD"
	}
	t, err := time.Parse(time.RFC3339, *net)
	if err != nil {
		return *net
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(layout)
}

func countdown(d time.Duration) string {
	if d <= 0 {
		return "Launched or launching now"
	}
	d = d.Round(time.Minute)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60
	if days > 0 {
		return fmt.Sprintf("T-minus %dd %02dh %02dm", days, hours, mins)
	}
	return fmt.Sprintf("T-minus %02dh %02dm", hours, mins)
}

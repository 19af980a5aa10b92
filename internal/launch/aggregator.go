// Package launch aggregates upcoming launch schedules from Launch Library 2
// and the SpaceX API into one cached, spaceport-filtered list.
package launch

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"launchintel/internal/cache"
	"launchintel/internal/config"
	"launchintel/internal/fetcher"
	"launchintel/internal/filter"
	"launchintel/internal/model"
)

// Provider names used in logs.
const (
	providerLL2    = "launch_library"
	providerSpaceX = "spacex"
)

// Aggregator serves upcoming launches, preferring the cache and falling back
// to stale data when every provider fails.
type Aggregator struct {
	client     *fetcher.Client
	cache      *cache.File[[]model.Launch]
	ttl        time.Duration
	ll2        config.LaunchLibrary
	spacex     config.SpaceX
	spaceports filter.Spaceports
	recentCfg  config.Defaults
	log        *slog.Logger
	now        func() time.Time
}

// NewAggregator creates an Aggregator from the configuration.
func NewAggregator(cfg *config.Config, client *fetcher.Client, log *slog.Logger) *Aggregator {
	return &Aggregator{
		client:     client,
		cache:      cache.NewFile[[]model.Launch](cfg.Paths.LaunchesCache),
		ttl:        cfg.CacheTTL(),
		ll2:        cfg.APIs.LaunchLibrary,
		spacex:     cfg.APIs.SpaceX,
		spaceports: filter.NewSpaceports(cfg.Spaceports.TargetIDs, cfg.Spaceports.TargetKeywords),
		recentCfg:  cfg.Defaults,
		log:        log,
		now:        time.Now,
	}
}

// SetClock overrides the clock used for cache freshness and lookback windows.
func (a *Aggregator) SetClock(now func() time.Time) {
	a.now = now
	a.cache.SetClock(now)
}

// outcome is the result of one provider call. ok is false when the call
// failed; an ok outcome may still carry zero records.
type outcome struct {
	records []record
	ok      bool
}

// Upcoming returns up to MaxLaunches upcoming launches at configured
// spaceports. It never fails: when the cache is stale and every provider is
// down it returns the stale cache, or an empty list if there is none.
func (a *Aggregator) Upcoming(ctx context.Context) []model.Launch {
	if entry := a.cache.Read(a.ttl); entry.State == cache.Fresh {
		a.log.Debug("returning cached launches", "count", len(entry.Data))
		return nonNil(entry.Data)
	}

	var primary, secondary outcome
	var g errgroup.Group
	g.Go(func() error {
		primary = a.fetchLL2(ctx)
		return nil
	})
	g.Go(func() error {
		secondary = a.fetchSpaceX(ctx)
		return nil
	})
	_ = g.Wait()

	if !primary.ok && !secondary.ok {
		a.log.Error("all launch providers failed, falling back to stale cache")
		stale := a.cache.Read(cache.Forever)
		if stale.State == cache.Absent {
			return []model.Launch{}
		}
		return nonNil(stale.Data)
	}

	launches := normalize(relevant(merge(primary.records, secondary.records), a.spaceports, MaxLaunches))

	if err := a.cache.Write(launches); err != nil {
		a.log.Error("write launch cache", "path", a.cache.Path, "error", err)
	} else {
		a.log.Info("cached filtered launches", "count", len(launches))
	}
	return launches
}

func (a *Aggregator) fetchLL2(ctx context.Context) outcome {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(a.ll2.DefaultLimit))
	q.Set("mode", a.ll2.Mode)
	u := a.ll2.BaseURL + a.ll2.UpcomingPath + "?" + q.Encode()

	var resp ll2Response
	if err := a.client.GetJSON(ctx, u, &resp); err != nil {
		a.log.Warn("fetch launches", "provider", providerLL2, "error", err)
		return outcome{}
	}

	records := make([]record, 0, len(resp.Results))
	for _, l := range resp.Results {
		records = append(records, fromLL2(l))
	}
	a.log.Info("fetched launches", "provider", providerLL2, "count", len(records))
	return outcome{records: records, ok: true}
}

func (a *Aggregator) fetchSpaceX(ctx context.Context) outcome {
	u := a.spacex.BaseURL + a.spacex.UpcomingPath

	var resp []spacexLaunch
	if err := a.client.GetJSON(ctx, u, &resp); err != nil {
		a.log.Warn("fetch launches", "provider", providerSpaceX, "error", err)
		return outcome{}
	}

	records := make([]record, 0, len(resp))
	for _, l := range resp {
		records = append(records, fromSpaceX(l))
	}
	a.log.Info("fetched launches", "provider", providerSpaceX, "count", len(records))
	return outcome{records: records, ok: true}
}

func nonNil(l []model.Launch) []model.Launch {
	if l == nil {
		return []model.Launch{}
	}
	return l
}

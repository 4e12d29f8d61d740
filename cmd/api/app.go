package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"transitsnap.dev/internal/app"
	"transitsnap.dev/internal/appconf"
	"transitsnap.dev/internal/gtfsload"
	"transitsnap.dev/internal/logging"
	"transitsnap.dev/internal/matcher"
	"transitsnap.dev/internal/realtimefeed"
	"transitsnap.dev/internal/restapi"
	"transitsnap.dev/internal/timetable"
)

// refreshers bundles the two background feeds BuildApplication starts, so
// Run can stop them in the same place it stops the HTTP server.
type refreshers struct {
	static   *gtfsload.Refresher
	realtime *realtimefeed.Refresher
}

func (r *refreshers) Shutdown() {
	if r.static != nil {
		r.static.Stop()
	}
	if r.realtime != nil {
		r.realtime.Stop()
	}
}

// BuildApplication creates the Application, performs the initial
// Timetable Snapshot load, and starts the static and realtime refresh
// loops. Returns an error if the initial static load fails — the server
// has nothing to serve without it.
func BuildApplication(cfg appconf.Config) (*app.Application, *refreshers, error) {
	logger := logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)

	registry := timetable.NewRegistry()

	loaderCfg := gtfsload.Config{
		GtfsURL:               cfg.GtfsStaticFeed.URL,
		StaticAuthHeaderKey:   cfg.GtfsStaticFeed.AuthHeaderName,
		StaticAuthHeaderValue: cfg.GtfsStaticFeed.AuthHeaderValue,
		Env:                   cfg.Env,
		Verbose:               cfg.Verbose,
		RefreshInterval:       cfg.DataRefreshSec,
	}
	staticRefresher := gtfsload.NewRefresher(cfg.GtfsStaticFeed.URL, loaderCfg, registry, logger)
	if err := staticRefresher.Start(); err != nil {
		return nil, nil, fmt.Errorf("failed to load GTFS static feed: %w", err)
	}

	var realtimeRefresher *realtimefeed.Refresher
	if len(cfg.GtfsRtFeeds) > 0 {
		feed := cfg.GtfsRtFeeds[0]
		realtimeRefresher = realtimefeed.NewRefresher(realtimefeed.Config{
			TripUpdatesURL:  feed.TripUpdatesURL,
			AuthHeaderName:  feed.RealTimeAuthHeaderName,
			AuthHeaderValue: feed.RealTimeAuthHeaderValue,
		}, registry, logger)
		if err := realtimeRefresher.Start(); err != nil {
			logger.Error("failed to start GTFS-RT refresh", "error", err)
			realtimeRefresher = nil
		}
	}

	tz, err := time.LoadLocation(cfg.Match.Timezone)
	if err != nil {
		tz = time.UTC
	}
	matchConfig := matchConfigFromAppconf(cfg.Match, tz)

	coreApp := &app.Application{
		Config:      cfg,
		Logger:      logger,
		Timetable:   registry,
		MatchConfig: matchConfig,
	}

	return coreApp, &refreshers{static: staticRefresher, realtime: realtimeRefresher}, nil
}

// CreateServer builds the HTTP server with every Request Facade route
// registered behind the request ID and security-header middleware.
func CreateServer(coreApp *app.Application, cfg appconf.Config) *http.Server {
	api := restapi.NewRestAPI(coreApp)
	handler := api.SetupAPIRoutes()

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(coreApp.Logger.Handler(), slog.LevelError),
	}
}

// Run manages the server lifecycle with graceful shutdown: starts the
// server in a goroutine, waits for SIGINT/SIGTERM (or a server error),
// then shuts the HTTP server and both background refreshers down.
func Run(srv *http.Server, rf *refreshers, logger *slog.Logger) error {
	logger.Info("starting server", "addr", srv.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	rf.Shutdown()

	logger.Info("server exited")
	return nil
}

// dumpConfigJSON prints the resolved configuration as JSON, redacting
// auth header values, for the -dump-config diagnostic flag.
func dumpConfigJSON(cfg appconf.Config) {
	staticFeed := map[string]string{"url": cfg.GtfsStaticFeed.URL}
	if cfg.GtfsStaticFeed.AuthHeaderName != "" {
		staticFeed["auth-header-name"] = cfg.GtfsStaticFeed.AuthHeaderName
		staticFeed["auth-header-value"] = "***REDACTED***"
	}

	feeds := make([]map[string]string, 0, len(cfg.GtfsRtFeeds))
	for _, feed := range cfg.GtfsRtFeeds {
		entry := map[string]string{
			"trip-updates-url":      feed.TripUpdatesURL,
			"vehicle-positions-url": feed.VehiclePositionsURL,
			"service-alerts-url":    feed.ServiceAlertsURL,
		}
		if feed.RealTimeAuthHeaderName != "" {
			entry["realtime-auth-header-name"] = feed.RealTimeAuthHeaderName
			entry["realtime-auth-header-value"] = "***REDACTED***"
		}
		feeds = append(feeds, entry)
	}

	jsonConfig := map[string]any{
		"port":             cfg.Port,
		"env":              cfg.Env.String(),
		"api-keys":         cfg.ApiKeys,
		"rate-limit":       cfg.RateLimit,
		"gtfs-static-feed": staticFeed,
		"gtfs-rt-feeds":    feeds,
		"data-refresh-sec": cfg.DataRefreshSec,
		"match":            cfg.Match,
	}

	output, err := json.MarshalIndent(jsonConfig, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling config to JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(output))
}

// matchConfigFromAppconf adapts the flat JSON-friendly appconf.MatchConfig
// into the matcher.Config the matching core actually runs on.
func matchConfigFromAppconf(mc appconf.MatchConfig, tz *time.Location) matcher.Config {
	return matcher.Config{
		MaxDistKM:      mc.MaxDistKM,
		Slack:          mc.Slack,
		Delay:          time.Duration(mc.DelaySeconds) * time.Second,
		Earliness:      time.Duration(mc.EarlySeconds) * time.Second,
		PreferLastTrip: mc.PreferLastTrip,
		TimeAfter:      mc.TimeAfter,
		Baseline:       mc.Baseline,
		BaselineHMM:    mc.BaselineHMM,
		Timezone:       tz,
	}
}

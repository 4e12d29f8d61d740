package main

import (
	"flag"
	"log/slog"
	"os"

	"transitsnap.dev/internal/appconf"
)

func main() {
	var cfg appconf.Config
	var apiKeysFlag, envFlag, configPath string
	var dumpConfig bool

	flag.IntVar(&cfg.Port, "port", 4000, "API server port")
	flag.StringVar(&envFlag, "env", "development", "Environment (development|test|production)")
	flag.StringVar(&apiKeysFlag, "api-keys", "test", "Comma separated API keys")
	flag.IntVar(&cfg.RateLimit, "rate-limit", 100, "Requests per window per API key for rate limiting")
	flag.StringVar(&cfg.GtfsStaticFeed.URL, "gtfs-url", "", "URL (or local path) of a static GTFS zip file")
	flag.StringVar(&cfg.GtfsStaticFeed.AuthHeaderName, "gtfs-auth-header-name", "", "Optional header name for static GTFS auth")
	flag.StringVar(&cfg.GtfsStaticFeed.AuthHeaderValue, "gtfs-auth-header-value", "", "Optional header value for static GTFS auth")
	flag.Int64Var(&cfg.DataRefreshSec, "data-refresh-seconds", 0, "Seconds between static GTFS reloads (0 disables periodic reload)")

	var tripUpdatesURL, rtAuthHeaderName, rtAuthHeaderValue string
	flag.StringVar(&tripUpdatesURL, "trip-updates-url", "", "URL for a GTFS-Realtime trip updates feed")
	flag.StringVar(&rtAuthHeaderName, "realtime-auth-header-name", "", "Optional header name for GTFS-RT auth")
	flag.StringVar(&rtAuthHeaderValue, "realtime-auth-header-value", "", "Optional header value for GTFS-RT auth")

	flag.Float64Var(&cfg.Match.MaxDistKM, "max-dist-km", 0.05, "Candidate Filter spatial search radius, in kilometers")
	flag.Float64Var(&cfg.Match.Slack, "slack", 0.2, "Fraction of fixes allowed to produce no candidates before giving up on a layer")
	flag.IntVar(&cfg.Match.DelaySeconds, "delay", 300, "Seconds a trip segment's active window extends for lateness")
	flag.IntVar(&cfg.Match.EarlySeconds, "earliness", 60, "Seconds a trip segment's active window extends for earliness")
	flag.BoolVar(&cfg.Match.PreferLastTrip, "prefer-last-trip", true, "Break identity ties in favor of the caller's trip_id hint")
	flag.BoolVar(&cfg.Match.TimeAfter, "time-after", true, "Enable the schedule-time residual tie-break")
	flag.BoolVar(&cfg.Match.Baseline, "baseline", false, "Disable temporal filtering in the Candidate Filter and match only against the last GPS fix")
	flag.BoolVar(&cfg.Match.BaselineHMM, "baseline-hmm", false, "Disable temporal filtering in the Candidate Filter, keeping the full lattice and direction penalty")
	flag.StringVar(&cfg.Match.Timezone, "timezone", "UTC", "Timezone GPS fix timestamps are interpreted in")

	flag.StringVar(&configPath, "config", "", "Path to a JSON config file (overrides flags)")
	flag.BoolVar(&dumpConfig, "dump-config", false, "Print the resolved configuration as JSON and exit")
	flag.Parse()

	cfg.Verbose = true
	cfg.ApiKeys = appconf.ParseAPIKeys(apiKeysFlag)
	cfg.Env = appconf.EnvFlagToEnvironment(envFlag)
	if len(cfg.GtfsRtFeeds) == 0 && tripUpdatesURL != "" {
		cfg.GtfsRtFeeds = []appconf.GtfsRtFeed{{
			TripUpdatesURL:          tripUpdatesURL,
			RealTimeAuthHeaderName:  rtAuthHeaderName,
			RealTimeAuthHeaderValue: rtAuthHeaderValue,
		}}
	}

	if configPath != "" {
		fileCfg, err := appconf.LoadFromFile(configPath)
		if err != nil {
			logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
			logger.Error("failed to load config file", "error", err)
			os.Exit(1)
		}
		cfg = *fileCfg
	}

	if dumpConfig {
		dumpConfigJSON(cfg)
		return
	}

	coreApp, rf, err := BuildApplication(cfg)
	if err != nil {
		logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	srv := CreateServer(coreApp, cfg)

	if err := Run(srv, rf, coreApp.Logger); err != nil {
		coreApp.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

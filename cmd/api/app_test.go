package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitsnap.dev/internal/app"
	"transitsnap.dev/internal/appconf"
	"transitsnap.dev/internal/matcher"
	"transitsnap.dev/internal/timetable"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMatchConfigFromAppconfConvertsSecondsToDurations(t *testing.T) {
	mc := appconf.MatchConfig{
		MaxDistKM:      0.05,
		Slack:          0.1,
		DelaySeconds:   300,
		EarlySeconds:   60,
		PreferLastTrip: true,
		TimeAfter:      true,
		Baseline:       false,
		BaselineHMM:    false,
	}

	cfg := matchConfigFromAppconf(mc, time.UTC)

	assert.Equal(t, 300*time.Second, cfg.Delay)
	assert.Equal(t, 60*time.Second, cfg.Earliness)
	assert.Equal(t, 0.05, cfg.MaxDistKM)
	assert.True(t, cfg.PreferLastTrip)
	assert.Same(t, time.UTC, cfg.Timezone)
}

func TestDumpConfigJSONHandlesFullyPopulatedConfig(t *testing.T) {
	cfg := appconf.Config{
		Port:    4000,
		ApiKeys: []string{"test"},
		GtfsStaticFeed: appconf.GtfsFeed{
			URL:             "https://example.com/gtfs.zip",
			AuthHeaderName:  "X-Api-Key",
			AuthHeaderValue: "super-secret",
		},
		GtfsRtFeeds: []appconf.GtfsRtFeed{{
			TripUpdatesURL:          "https://example.com/trip-updates",
			RealTimeAuthHeaderName:  "X-Api-Key",
			RealTimeAuthHeaderValue: "also-secret",
		}},
	}

	// dumpConfigJSON only prints; this just asserts it doesn't panic on a
	// fully populated config with both feed types set.
	dumpConfigJSON(cfg)
}

func TestCreateServerRegistersRequestFacadeRoutes(t *testing.T) {
	registry := timetable.NewRegistry()
	registry.Publish(timetable.NewSnapshot())

	coreApp := &app.Application{
		Config: appconf.Config{
			Port:      4000,
			ApiKeys:   []string{"test"},
			RateLimit: 1000,
		},
		Timetable:   registry,
		MatchConfig: matcher.Config{MaxDistKM: 1},
	}
	coreApp.Logger = newTestLogger()

	srv := CreateServer(coreApp, coreApp.Config)
	require.NotNil(t, srv.Handler)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

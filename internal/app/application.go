// Package app holds the Application struct shared by every HTTP handler:
// configuration, the logger, the Timetable Registry and the matcher
// tuning knobs. Grounded on the teacher's internal/app.Application, with
// GtfsManager/DirectionCalculator replaced by timetable.Registry and
// matcher.Config.
package app

import (
	"log/slog"
	"net/http"
	"strings"

	"transitsnap.dev/internal/appconf"
	"transitsnap.dev/internal/matcher"
	"transitsnap.dev/internal/timetable"
)

// Application is the shared dependency bag every restapi handler
// closes over.
type Application struct {
	Config       appconf.Config
	Logger       *slog.Logger
	Timetable    *timetable.Registry
	MatchConfig  matcher.Config
}

// IsInvalidAPIKey reports whether key is absent from a non-empty configured
// API key list (a blank key is then always invalid). An empty configured
// list accepts every key. Comparison is exact: no trimming, no case folding.
func (a *Application) IsInvalidAPIKey(key string) bool {
	if len(a.Config.ApiKeys) == 0 {
		return false
	}
	if key == "" {
		return true
	}
	for _, k := range a.Config.ApiKeys {
		if k == key {
			return false
		}
	}
	return true
}

// RequestHasInvalidAPIKey checks the "key" query parameter of req against
// the configured API keys.
func (a *Application) RequestHasInvalidAPIKey(req *http.Request) bool {
	return a.IsInvalidAPIKey(strings.TrimSpace(req.URL.Query().Get("key")))
}

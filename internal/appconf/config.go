// Package appconf holds the application's flat runtime configuration and
// the environment enum it's keyed on, mirroring the teacher's
// internal/appconf package.
package appconf

import "strings"

// Environment identifies which runtime profile the server is in.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

// EnvFlagToEnvironment maps the -env flag's string value onto Environment,
// defaulting to Development for anything unrecognized (including wrong
// case — the flag is deliberately strict about casing).
func EnvFlagToEnvironment(envFlag string) Environment {
	switch envFlag {
	case "development":
		return Development
	case "test":
		return Test
	case "production":
		return Production
	default:
		return Development
	}
}

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// GtfsFeed is the static GTFS source and its optional auth header.
type GtfsFeed struct {
	URL             string `json:"url"`
	AuthHeaderName  string `json:"auth-header-name,omitempty"`
	AuthHeaderValue string `json:"auth-header-value,omitempty"`
}

// GtfsRtFeed is one GTFS-Realtime source: trip update corrections plus the
// optional vehicle-positions/service-alerts URLs, which nothing fetches;
// they are only carried in the config and printed by -dump-config, the
// same way the teacher carries fields it does not act on.
type GtfsRtFeed struct {
	TripUpdatesURL          string `json:"trip-updates-url"`
	VehiclePositionsURL     string `json:"vehicle-positions-url,omitempty"`
	ServiceAlertsURL        string `json:"service-alerts-url,omitempty"`
	RealTimeAuthHeaderName  string `json:"realtime-auth-header-name,omitempty"`
	RealTimeAuthHeaderValue string `json:"realtime-auth-header-value,omitempty"`
}

// MatchConfig holds the map-matcher's tunable weights, named to match
// spec.md §6's configuration keys.
type MatchConfig struct {
	MaxDistKM      float64 `json:"max_dist_km"`
	Slack          float64 `json:"slack"`
	DelaySeconds   int     `json:"delay_seconds"`
	EarlySeconds   int     `json:"earliness_seconds"`
	PreferLastTrip bool    `json:"prefer_last_trip"`
	TimeAfter      bool    `json:"time_after"`
	Baseline       bool    `json:"baseline"`
	BaselineHMM    bool    `json:"baseline_hmm"`
	Timezone       string  `json:"timezone"`
}

// Config is the application's flat runtime configuration, assembled from
// flags or a JSON file via LoadFromFile.
type Config struct {
	Port      int
	Env       Environment
	ApiKeys   []string
	RateLimit int
	Verbose   bool

	GtfsStaticFeed GtfsFeed
	GtfsRtFeeds    []GtfsRtFeed
	DataRefreshSec int64

	Match MatchConfig
}

// ParseAPIKeys splits a comma-separated string of API keys and trims
// whitespace from each key. Returns an empty slice if the input is empty.
func ParseAPIKeys(apiKeysFlag string) []string {
	if apiKeysFlag == "" {
		return []string{}
	}
	keys := strings.Split(apiKeysFlag, ",")
	for i := range keys {
		keys[i] = strings.TrimSpace(keys[i])
	}
	return keys
}

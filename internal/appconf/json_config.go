package appconf

import (
	"encoding/json"
	"fmt"
	"os"
)

// JSONConfig is the on-disk shape of a config file, validated and then
// converted into a Config. Ported from the teacher's own JSONConfig/
// LoadFromFile pair, with the sqlite DataPath field replaced by the
// Timetable Loader's refresh interval and the matcher's tuning knobs added.
type JSONConfig struct {
	Port           int           `json:"port"`
	Env            string        `json:"env"`
	ApiKeys        []string      `json:"api-keys"`
	RateLimit      int           `json:"rate-limit"`
	GtfsStaticFeed GtfsFeed      `json:"gtfs-static-feed"`
	GtfsRtFeeds    []GtfsRtFeed  `json:"gtfs-rt-feeds"`
	DataRefreshSec int64         `json:"data-refresh-seconds"`
	Match          MatchConfig   `json:"match"`
}

func (c *JSONConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	switch c.Env {
	case "development", "test", "production":
	default:
		return fmt.Errorf("env must be one of development, test, production, got %q", c.Env)
	}
	if c.RateLimit < 1 {
		return fmt.Errorf("rate-limit must be at least 1, got %d", c.RateLimit)
	}
	return nil
}

func (c *JSONConfig) applyDefaults() {
	if len(c.ApiKeys) == 0 {
		c.ApiKeys = []string{"test"}
	}
	if c.RateLimit == 0 {
		c.RateLimit = 100
	}
	if c.GtfsStaticFeed.URL == "" {
		c.GtfsStaticFeed.URL = "https://www.soundtransit.org/GTFS-rail/40_gtfs.zip"
	}
	if c.Match.MaxDistKM == 0 {
		c.Match.MaxDistKM = 0.05
	}
	if c.Match.Slack == 0 {
		c.Match.Slack = 0.2
	}
	if c.Match.Timezone == "" {
		c.Match.Timezone = "UTC"
	}
}

// toConfig converts a validated JSONConfig into the runtime Config.
func (c *JSONConfig) toConfig() *Config {
	return &Config{
		Port:           c.Port,
		Env:            EnvFlagToEnvironment(c.Env),
		ApiKeys:        c.ApiKeys,
		RateLimit:      c.RateLimit,
		GtfsStaticFeed: c.GtfsStaticFeed,
		GtfsRtFeeds:    c.GtfsRtFeeds,
		DataRefreshSec: c.DataRefreshSec,
		Match:          c.Match,
	}
}

// LoadFromFile reads, parses and validates a JSON config file, applying
// defaults to the API keys, rate limit, static feed URL, max_dist_km,
// slack and timezone when the file leaves them unset, and returns the
// resulting Config. Port and env get no default, so a file that omits
// them fails validation.
func LoadFromFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(b, &jc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}

	jc.applyDefaults()

	if err := jc.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return jc.toConfig(), nil
}

// Package gtfsload builds a timetable.Snapshot from a GTFS static feed and
// keeps it fresh on a schedule, playing the role the teacher's
// internal/gtfs.Manager plays for its sqlite-backed store, but publishing
// into a timetable.Registry instead of hot-swapping a database file.
package gtfsload

import "transitsnap.dev/internal/appconf"

// Config is the Timetable Loader's configuration, mirroring the shape of
// the teacher's gtfs.Config (URL/auth-header/local-file/env/verbose) with
// the sqlite-specific fields dropped since the Timetable Snapshot lives in
// memory, not on disk.
type Config struct {
	GtfsURL               string
	StaticAuthHeaderKey   string
	StaticAuthHeaderValue string
	Env                   appconf.Environment
	Verbose               bool
	// RefreshInterval is how often the loader re-downloads and rebuilds the
	// Snapshot. Zero disables periodic refresh (e.g. a local-file source).
	RefreshInterval int64 // seconds
}

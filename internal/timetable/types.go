// Package timetable holds the Timetable Snapshot and the Trip Schedule
// Oracle in one package: a read-only, RCU-swapped projection of GTFS
// static + realtime data that the matcher queries for candidate filtering,
// trip activity and delay-aware residual scoring. Grounded on the
// teacher's internal/gtfs package, which bundles static data, realtime
// corrections, and spatial indexing the same way rather than splitting
// them across packages with a dependency cycle between them.
package timetable

import (
	"time"

	"transitsnap.dev/internal/geo"
	"transitsnap.dev/internal/shapegraph"
)

// HMS is a GTFS stop_times-style time-of-day: seconds since local midnight,
// with Overtime true when the GTFS source wrote an hour >= 24 (e.g.
// "25:14:00" for a service continuing past midnight).
type HMS struct {
	Seconds  int
	Overtime bool
}

// ParseHMS parses a GTFS "HH:MM:SS" field, folding hours >= 24 back into
// 0-23 and setting Overtime, matching the original's
// convert_gtfs_date_to_datetime overflow handling.
func ParseHMS(hh, mm, ss int) HMS {
	overtime := hh >= 24
	if overtime {
		hh -= 24
	}
	return HMS{Seconds: hh*3600 + mm*60 + ss, Overtime: overtime}
}

// Stop is a GTFS stops.txt row.
type Stop struct {
	ID       string
	Name     string
	Location geo.Coordinate
}

// Route is a GTFS routes.txt row. FillColor/TextColor are as parsed from
// the feed (upper-cased by the loader), before the §6 colour-override
// table is applied —
// that table is applied by the Response Assembler, not stored here.
type Route struct {
	ID        string
	ShortName string
	Type      int
	FillColor string
	TextColor string
}

// Service is a GTFS calendar.txt/calendar_dates.txt projection: the
// weekday bitmask plus the calendar date window, and the exception dates
// layered on top.
type Service struct {
	ID         string
	Weekdays   [7]bool // index 0 = Monday, matching Utils.generate_weekday_time_tuple
	StartDate  time.Time
	EndDate    time.Time
	ExtraDates map[string]bool // calendar_dates.txt exception_type=1, formatted 20060102
	RemovedDates map[string]bool // calendar_dates.txt exception_type=2
}

// StopTime is one stop_times.txt row, with arrival/departure already
// overflow-normalized into HMS.
type StopTime struct {
	StopID        string
	Sequence      int
	Arrival       HMS
	Departure     HMS
}

// Trip is a GTFS trips.txt row plus its ordered stop times and the shape
// it follows.
type Trip struct {
	ID        string
	RouteID   string
	ServiceID string
	ShapeID   string
	Headsign  string
	StopTimes []StopTime

	activeHours map[activeHourKey]bool
}

type activeHourKey struct {
	Weekday  int
	Hour     int
	Overtime bool
}

// EdgeTripSegmentIndex maps a shape-graph edge to the trip-segment indices
// (positions into a trip's StopTimes, identifying the stop-to-stop leg
// that traverses the edge) of every trip that shares that shape. Indexed
// by shape hash so that trips sharing a shape share one table — the core
// memory optimization per spec.md §3.
type EdgeTripSegmentIndex struct {
	ShapeHash       uint64
	EdgeToSegments  map[shapegraph.EdgeID][]int
}

// RealtimeDelta is a single arrival/departure correction for one stop on
// one trip, either an absolute new time or a relative delay in seconds.
type RealtimeDelta struct {
	Seconds  int
	Absolute bool
}

// RealtimeStopUpdate is the realtime correction for one stop_sequence
// position on a trip: arrival and departure deltas, either of which may
// be absent.
type RealtimeStopUpdate struct {
	StopSequence int
	Arrival      *RealtimeDelta
	Departure    *RealtimeDelta
}

// RealtimeTable holds the per-trip stop-time corrections decoded from the
// latest GTFS-Realtime feed, keyed by trip ID.
type RealtimeTable struct {
	ByTrip map[string][]RealtimeStopUpdate
}
